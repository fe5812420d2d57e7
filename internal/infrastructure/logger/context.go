package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	// LoggerKey carries the request-scoped logger
	LoggerKey contextKey = "logger"
	// RequestIDKey carries the request ID
	RequestIDKey contextKey = "request_id"
	// SchoolIDKey carries the resolved tenant
	SchoolIDKey contextKey = "school_id"
)

// WithContext attaches a logger to the context.
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, log)
}

// FromContext returns the context's logger, or a no-op logger when none
// was attached.
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID in the context and returns a logger
// that carries it on every entry.
func WithRequestID(ctx context.Context, log *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	scoped := log.With(zap.String("request_id", requestID))
	return WithContext(ctx, scoped), scoped
}

// WithSchoolID stores the resolved school in the context and returns a
// logger that carries it on every entry.
func WithSchoolID(ctx context.Context, log *zap.Logger, schoolID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, SchoolIDKey, schoolID)
	scoped := log.With(zap.String("school_id", schoolID))
	return WithContext(ctx, scoped), scoped
}

// GetRequestID returns the request ID from the context, or empty.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// GetSchoolID returns the school ID from the context, or empty.
func GetSchoolID(ctx context.Context) string {
	id, _ := ctx.Value(SchoolIDKey).(string)
	return id
}
