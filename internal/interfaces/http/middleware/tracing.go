// Package middleware provides the HTTP middleware chain for the school
// administration backend.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Header-sourced attributes are bounded before they reach a span.
const (
	MaxRequestIDLength = 128
	MaxSchoolIDLength  = 64
)

// TracingConfig controls the request tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

func DefaultTracingConfig() TracingConfig {
	return TracingConfig{ServiceName: "schoolerp-backend", Enabled: true}
}

// Tracing is TracingWithConfig with the defaults.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig wraps otelgin and enriches each request span with the
// request and school IDs. Span names follow otelgin's "METHOD route"
// convention.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	otelMiddleware := otelgin.Middleware(cfg.ServiceName)

	return func(c *gin.Context) {
		otelMiddleware(c)

		// otelgin has opened the span at this point
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		if requestID := getRequestID(c); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}
		if schoolID := getTracedSchoolID(c); schoolID != "" {
			span.SetAttributes(attribute.String("school_id", schoolID))
		}
	}
}

// getRequestID prefers the ID placed in the context by the RequestID
// middleware and falls back to the raw header, truncated to a sane length.
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	headerID := c.GetHeader("X-Request-ID")
	if len(headerID) > MaxRequestIDLength {
		headerID = headerID[:MaxRequestIDLength]
	}
	return headerID
}

// getTracedSchoolID prefers the validated ID set by the school middleware.
// The raw header is only accepted when it parses as a UUID, so arbitrary
// header content never lands in trace attributes.
func getTracedSchoolID(c *gin.Context) string {
	if id := c.GetString(SchoolIDKey); id != "" {
		return id
	}
	if headerID := c.GetHeader(SchoolHeaderKey); isValidSchoolID(headerID) {
		return headerID
	}
	return ""
}

func isValidSchoolID(schoolID string) bool {
	if schoolID == "" || len(schoolID) > MaxSchoolIDLength {
		return false
	}
	return uuid.Validate(schoolID) == nil
}

// SpanErrorMarker flags 4xx and 5xx responses on the active span. Must sit
// after the tracing middleware in the chain.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}

		message := "Client Error"
		switch {
		case status >= http.StatusInternalServerError:
			message = "Internal Server Error"
		case status == http.StatusUnauthorized:
			message = "Unauthorized"
		case status == http.StatusForbidden:
			message = "Forbidden"
		case status == http.StatusNotFound:
			message = "Not Found"
		}

		span.SetStatus(codes.Error, message)
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}
