package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls how GORM queries are recorded as spans.
// LogFullSQL and WithoutVariables default to the safe settings so query
// parameters never leak into spans unless explicitly requested.
type DBTracingConfig struct {
	Enabled          bool
	LogFullSQL       bool
	SlowQueryThresh  time.Duration
	DBSystem         string
	WithoutVariables bool
}

func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:          false,
		LogFullSQL:       false,
		SlowQueryThresh:  200 * time.Millisecond,
		DBSystem:         "postgresql",
		WithoutVariables: true,
	}
}

// DBTracingPlugin layers slow query detection and error marking on top of
// the otelgorm instrumentation.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// RegisterOtelGorm installs the otelgorm plugin plus the timing callbacks
// on db. Registering twice on the same instance fails because gorm rejects
// duplicate callback names.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := p.registerTimingCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("database tracing enabled",
		zap.String("db_system", p.config.DBSystem),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.Bool("log_full_sql", p.config.LogFullSQL),
	)
	return nil
}

// registerTimingCallbacks hooks every GORM operation kind with a before
// callback stamping the start time and an after callback that inspects the
// span. The after callbacks run once otelgorm has opened the query span.
func (p *DBTracingPlugin) registerTimingCallbacks(db *gorm.DB) error {
	stampStart := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartTimeKey, time.Now())
		}
	}

	type register func(name string, fn func(*gorm.DB)) error
	cbs := db.Callback()
	hooks := []struct {
		label  string
		before register
		after  register
	}{
		{"create", cbs.Create().Before("gorm:create").Register, cbs.Create().After("gorm:create").Register},
		{"query", cbs.Query().Before("gorm:query").Register, cbs.Query().After("gorm:query").Register},
		{"update", cbs.Update().Before("gorm:update").Register, cbs.Update().After("gorm:update").Register},
		{"delete", cbs.Delete().Before("gorm:delete").Register, cbs.Delete().After("gorm:delete").Register},
		{"row", cbs.Row().Before("gorm:row").Register, cbs.Row().After("gorm:row").Register},
		{"raw", cbs.Raw().Before("gorm:raw").Register, cbs.Raw().After("gorm:raw").Register},
	}
	for _, h := range hooks {
		if err := h.before("otel_timing:before_"+h.label, stampStart); err != nil {
			return err
		}
		if err := h.after("otel_slow_query:"+h.label, p.slowQueryCallback); err != nil {
			return err
		}
	}
	return nil
}

// slowQueryCallback annotates the active span with row counts and table
// name, records real errors, and flags queries over the slow threshold.
func (p *DBTracingPlugin) slowQueryCallback(tx *gorm.DB) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if tx.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
	}
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}

	// ErrRecordNotFound is an expected outcome, not a failure
	if tx.Error != nil && tx.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, tx.Error.Error())
		span.RecordError(tx.Error)
	}

	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
		))
	}
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// WithQueryStartTime stamps ctx with the current time so the slow query
// callback can measure elapsed duration for queries issued outside GORM's
// own before hooks.
func WithQueryStartTime(ctx context.Context) context.Context {
	return context.WithValue(ctx, queryStartTimeKey, time.Now())
}
