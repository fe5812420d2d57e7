package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type invoiceRow struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"size:200"`
	CreatedAt time.Time
}

func tracedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&invoiceRow{}))
	return db
}

func recordingTracer(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, recorder
}

func enabledPlugin(thresh time.Duration) *DBTracingPlugin {
	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	cfg.DBSystem = "sqlite"
	if thresh > 0 {
		cfg.SlowQueryThresh = thresh
	}
	return NewDBTracingPlugin(cfg, zap.NewNop())
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "postgresql", cfg.DBSystem)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.False(t, cfg.LogFullSQL, "full SQL must be opt-in")
	assert.True(t, cfg.WithoutVariables, "query variables must be excluded by default")
}

func TestRegisterOtelGorm_DisabledIsNoop(t *testing.T) {
	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())

	assert.NoError(t, plugin.RegisterOtelGorm(tracedDB(t)))
}

func TestRegisterOtelGorm_Enabled(t *testing.T) {
	assert.NoError(t, enabledPlugin(0).RegisterOtelGorm(tracedDB(t)))
}

func TestRegisterOtelGorm_FullSQLMode(t *testing.T) {
	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	cfg.DBSystem = "sqlite"
	cfg.LogFullSQL = true
	cfg.WithoutVariables = false

	plugin := NewDBTracingPlugin(cfg, zap.NewNop())
	assert.NoError(t, plugin.RegisterOtelGorm(tracedDB(t)))
}

func TestRegisterOtelGorm_SecondRegistrationFails(t *testing.T) {
	db := tracedDB(t)
	plugin := enabledPlugin(0)

	require.NoError(t, plugin.RegisterOtelGorm(db))
	assert.Error(t, plugin.RegisterOtelGorm(db), "duplicate callback names must be rejected")
}

func TestTracedOperations_ProduceSpans(t *testing.T) {
	db := tracedDB(t)
	tp, recorder := recordingTracer(t)

	require.NoError(t, enabledPlugin(0).RegisterOtelGorm(db))

	ctx, span := tp.Tracer("test").Start(context.Background(), "traced-operations")
	db = db.WithContext(ctx)

	require.NoError(t, db.Create(&invoiceRow{Title: "Annual Tuition 2026"}).Error)

	var found invoiceRow
	require.NoError(t, db.First(&found, "title = ?", "Annual Tuition 2026").Error)
	assert.Equal(t, "Annual Tuition 2026", found.Title)

	span.End()
	assert.NotEmpty(t, recorder.Ended())
}

func TestSlowQueryCallback_FlagsSlowQuery(t *testing.T) {
	db := tracedDB(t)
	tp, recorder := recordingTracer(t)
	plugin := enabledPlugin(time.Nanosecond)

	ctx, span := tp.Tracer("test").Start(context.Background(), "slow-query")
	ctx = WithQueryStartTime(ctx)
	time.Sleep(time.Millisecond)

	var found invoiceRow
	db.WithContext(ctx).First(&found)
	plugin.slowQueryCallback(db.WithContext(ctx))

	span.End()
	spans := recorder.Ended()
	require.NotEmpty(t, spans)

	flagged := false
	for _, attr := range spans[0].Attributes() {
		if attr.Key == "db.slow_query" && attr.Value.AsBool() {
			flagged = true
		}
	}
	assert.True(t, flagged, "expected db.slow_query attribute")
}

func TestSlowQueryCallback_RecordNotFoundIsNotError(t *testing.T) {
	db := tracedDB(t)
	tp, recorder := recordingTracer(t)
	plugin := enabledPlugin(0)

	ctx, span := tp.Tracer("test").Start(context.Background(), "not-found")

	var found invoiceRow
	tx := db.WithContext(ctx).First(&found, 99999)
	plugin.slowQueryCallback(tx)

	span.End()
	spans := recorder.Ended()
	require.NotEmpty(t, spans)
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestSlowQueryCallback_NoRecordingSpan(t *testing.T) {
	plugin := enabledPlugin(0)
	db := tracedDB(t).WithContext(context.Background())

	assert.NotPanics(t, func() { plugin.slowQueryCallback(db) })
}

func TestWithQueryStartTime(t *testing.T) {
	ctx := WithQueryStartTime(context.Background())

	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), start, time.Second)
}
