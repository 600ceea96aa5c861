package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"unihousing/internal/config"
)

func TestInitializeTelemetry(t *testing.T) {
	tel, err := InitializeTelemetry(config.TelemetryConfig{TraceExporter: "none"}, nil)
	require.NoError(t, err)

	assert.NotNil(t, tel.TracerProvider)
	assert.NotNil(t, tel.Tracer)
	assert.NotNil(t, tel.MeterProvider)
	assert.NotNil(t, tel.Meter)
	assert.NotNil(t, tel.Registry)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, tel.Shutdown(ctx))
}

func TestInitializeTelemetryRejectsUnknownExporter(t *testing.T) {
	_, err := InitializeTelemetry(config.TelemetryConfig{TraceExporter: "otlp"}, nil)
	assert.Error(t, err)
}

func TestTelemetryRecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tel, err := InitializeTelemetry(config.TelemetryConfig{}, nil, sdktrace.WithSpanProcessor(recorder))
	require.NoError(t, err)
	defer tel.Shutdown(context.Background())

	_, span := tel.Tracer.Start(context.Background(), "analysis.step.towns")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "analysis.step.towns", ended[0].Name())
}

func TestTelemetryTraceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces", "run.json")
	tel, err := InitializeTelemetry(config.TelemetryConfig{TraceExporter: "file", TraceFile: path}, nil)
	require.NoError(t, err)

	_, span := tel.Tracer.Start(context.Background(), "analysis.run")
	span.End()
	require.NoError(t, tel.Shutdown(context.Background()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "analysis.run")
}

func TestWriteMetrics(t *testing.T) {
	tel, err := InitializeTelemetry(config.TelemetryConfig{}, nil)
	require.NoError(t, err)
	defer tel.Shutdown(context.Background())

	metrics, err := CreateStepMetrics(tel.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("step", "housing"))
	metrics.Executions.Add(ctx, 1, attrs)
	metrics.Rows.Add(ctx, 10730, attrs)
	metrics.Duration.Record(ctx, 0.25, attrs)

	path := filepath.Join(t.TempDir(), "metrics", "run.prom")
	require.NoError(t, tel.WriteMetrics(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "step_executions")
	assert.Contains(t, string(content), "step_rows")
	assert.Contains(t, string(content), `step="housing"`)

	assert.NoError(t, tel.WriteMetrics(""))
}
