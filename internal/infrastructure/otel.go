package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"unihousing/internal/config"
)

const (
	ServiceName = config.AppName
	MeterName   = "unihousing"
)

// Telemetry holds the OpenTelemetry providers of one run. Metrics are
// collected into a private Prometheus registry so a batch run can dump
// them to a textfile when it finishes.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *prom.Registry
	Logger         *slog.Logger

	traceOut io.Closer
}

// InitializeTelemetry sets up tracing and metrics for a run. Extra tracer
// provider options are appended, which lets tests attach span recorders.
func InitializeTelemetry(cfg config.TelemetryConfig, logger *slog.Logger, opts ...sdktrace.TracerProviderOption) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(config.AppVersion),
		attribute.String("service.instance.id", NewRunID()),
	)

	tel := &Telemetry{Logger: logger}

	if err := tel.initializeTracing(cfg, res, opts); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := tel.initializeMetrics(res); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.Debug("Telemetry initialized",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metrics_file", cfg.MetricsFile))

	return tel, nil
}

// initializeTracing sets up OpenTelemetry tracing
func (t *Telemetry) initializeTracing(cfg config.TelemetryConfig, res *resource.Resource, extra []sdktrace.TracerProviderOption) error {
	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	var out io.Writer
	switch cfg.TraceExporter {
	case "stdout":
		// stdout carries the result; spans go to stderr
		out = os.Stderr
	case "file":
		if err := os.MkdirAll(filepath.Dir(cfg.TraceFile), 0755); err != nil {
			return fmt.Errorf("failed to create trace directory: %w", err)
		}
		file, err := os.Create(cfg.TraceFile)
		if err != nil {
			return fmt.Errorf("failed to create trace file: %w", err)
		}
		t.traceOut = file
		out = file
	case "none", "":
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	if out != nil {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(out), stdouttrace.WithPrettyPrint())
		if err != nil {
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		// The run is short lived; export each span as it ends
		opts = append(opts, sdktrace.WithSyncer(exporter))
	}
	opts = append(opts, extra...)

	t.TracerProvider = sdktrace.NewTracerProvider(opts...)
	t.Tracer = t.TracerProvider.Tracer(MeterName, trace.WithInstrumentationVersion(config.AppVersion))
	return nil
}

// initializeMetrics sets up OpenTelemetry metrics on a Prometheus registry
func (t *Telemetry) initializeMetrics(res *resource.Resource) error {
	t.Registry = prom.NewRegistry()

	exporter, err := otelprom.New(
		otelprom.WithRegisterer(t.Registry),
		otelprom.WithoutTargetInfo(),
		otelprom.WithoutScopeInfo(),
	)
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	t.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	t.Meter = t.MeterProvider.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion))
	return nil
}

// WriteMetrics writes the collected metrics in Prometheus text format,
// suitable for the node exporter textfile collector.
func (t *Telemetry) WriteMetrics(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prom.WriteToTextfile(path, t.Registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

// Shutdown flushes and stops the providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.TracerProvider != nil {
		errs = append(errs, t.TracerProvider.Shutdown(ctx))
	}
	if t.MeterProvider != nil {
		errs = append(errs, t.MeterProvider.Shutdown(ctx))
	}
	if t.traceOut != nil {
		errs = append(errs, t.traceOut.Close())
	}
	return errors.Join(errs...)
}

// StepMetrics are the instruments recorded around each operation step
type StepMetrics struct {
	Executions metric.Int64Counter
	Failures   metric.Int64Counter
	Duration   metric.Float64Histogram
	Rows       metric.Int64Counter
}

// CreateStepMetrics creates the step instruments on meter
func CreateStepMetrics(meter metric.Meter) (*StepMetrics, error) {
	executions, err := meter.Int64Counter(
		"step_executions",
		metric.WithDescription("Total number of analysis step executions"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(
		"step_failures",
		metric.WithDescription("Total number of failed analysis steps"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"step_duration",
		metric.WithDescription("Analysis step duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	rows, err := meter.Int64Counter(
		"step_rows",
		metric.WithDescription("Rows produced by analysis steps"),
	)
	if err != nil {
		return nil, err
	}

	return &StepMetrics{
		Executions: executions,
		Failures:   failures,
		Duration:   duration,
		Rows:       rows,
	}, nil
}
