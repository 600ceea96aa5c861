package operations

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	apperrors "unihousing/internal/errors"
	"unihousing/internal/infrastructure"
)

// Manager executes the registered steps of a run
type Manager struct {
	registry *Registry
	tracer   trace.Tracer
	metrics  *infrastructure.StepMetrics
	logger   *slog.Logger
}

// NewManager creates a manager. A nil tracer disables spans and nil
// metrics disable step metrics.
func NewManager(registry *Registry, tracer trace.Tracer, metrics *infrastructure.StepMetrics, logger *slog.Logger) *Manager {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(TracerName)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{registry: registry, tracer: tracer, metrics: metrics, logger: logger}
}

// Run executes every step in dependency order and stops at the first
// failure; the remaining steps are marked skipped. The returned state is
// never nil.
func (m *Manager) Run(ctx context.Context, runID string) (*RunState, error) {
	state := NewRunState(runID)
	ctx = infrastructure.WithTraceID(ctx, runID)

	steps, err := m.registry.GetDependencyOrder()
	if err != nil {
		state.Fail(err)
		return state, apperrors.NewConfigError("invalid step registry", err)
	}
	for _, step := range steps {
		state.SetStep(NewStepState(step.ID(), step.Name()))
	}

	ctx, span := m.tracer.Start(ctx, "analysis.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("run.steps", len(steps)),
		),
	)
	defer span.End()

	state.Start()
	m.logger.InfoContext(ctx, "Run started", slog.Int("steps", len(steps)))

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			opErr := NewCancellationError(step.ID(), err)
			m.skipRemaining(state, steps[i:], "run cancelled")
			state.Cancel(opErr)
			m.finishSpan(span, opErr)
			m.logger.WarnContext(ctx, "Run cancelled", slog.String("step", step.ID()))
			return state, opErr
		}

		if err := m.executeStep(ctx, state, step); err != nil {
			m.skipRemaining(state, steps[i+1:], "previous step "+step.ID()+" failed")
			state.Fail(err)
			m.finishSpan(span, err)
			errType, _ := apperrors.Type(err)
			m.logger.ErrorContext(ctx, "Run failed",
				slog.String("step", step.ID()),
				slog.String("error_type", string(errType)),
				slog.String("error", err.Error()))
			return state, err
		}
	}

	state.Complete()
	m.finishSpan(span, nil)
	m.logger.InfoContext(ctx, "Run completed",
		slog.Duration("duration", state.EndTime.Sub(state.StartTime)))
	return state, nil
}

// executeStep runs one step inside its own span
func (m *Manager) executeStep(ctx context.Context, state *RunState, step Step) error {
	stepState := state.GetStep(step.ID())
	attrs := metric.WithAttributes(attribute.String("step", step.ID()))

	ctx, span := m.tracer.Start(ctx, "analysis.step."+step.ID(),
		trace.WithAttributes(
			attribute.String("step.id", step.ID()),
			attribute.String("step.name", step.Name()),
		),
	)
	defer span.End()

	for _, dep := range step.Dependencies() {
		if s := state.GetStep(dep); s == nil || s.Status != StepStatusCompleted {
			err := NewDependencyError(step.ID(), dep)
			stepState.Skip(err.Message)
			m.finishSpan(span, err)
			return err
		}
	}

	if err := step.Validate(state); err != nil {
		opErr := NewValidationError(step.ID(), err)
		stepState.Fail(opErr)
		m.finishSpan(span, opErr)
		return opErr
	}

	m.logger.DebugContext(ctx, "Step started", slog.String("step", step.ID()))
	stepState.Start()
	start := time.Now()
	err := step.Execute(ctx, state)
	elapsed := time.Since(start)

	if m.metrics != nil {
		m.metrics.Executions.Add(ctx, 1, attrs)
		m.metrics.Duration.Record(ctx, elapsed.Seconds(), attrs)
	}

	if err != nil {
		stepState.Fail(err)
		if m.metrics != nil {
			m.metrics.Failures.Add(ctx, 1, attrs)
		}
		m.finishSpan(span, err)
		return NewExecutionError(step.ID(), err)
	}

	stepState.Complete()
	if m.metrics != nil {
		m.metrics.Rows.Add(ctx, int64(stepState.Rows), attrs)
	}
	span.SetAttributes(attribute.Int("step.rows", stepState.Rows))
	m.finishSpan(span, nil)

	m.logger.InfoContext(ctx, "Step completed",
		slog.String("step", step.ID()),
		slog.Int("rows", stepState.Rows),
		slog.Duration("duration", elapsed))
	return nil
}

func (m *Manager) skipRemaining(state *RunState, steps []Step, reason string) {
	for _, step := range steps {
		if s := state.GetStep(step.ID()); s != nil && !s.IsTerminal() {
			s.Skip(reason)
		}
	}
}

func (m *Manager) finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if t, ok := apperrors.Type(err); ok {
			span.SetAttributes(attribute.String("error.type", string(t)))
		}
		return
	}
	span.SetStatus(codes.Ok, "")
}
