package operations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "unihousing/internal/errors"
	"unihousing/internal/shared/testutil"
)

func newTestManager(t *testing.T, steps ...Step) (*Manager, *tracetest.SpanRecorder, *testutil.BufferedSlogHandler) {
	t.Helper()

	registry := NewRegistry()
	for _, s := range steps {
		require.NoError(t, registry.Register(s))
	}

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	logger, logs := testutil.NewTestLogger(t)
	return NewManager(registry, provider.Tracer(TracerName), nil, logger), recorder, logs
}

func spanNames(recorder *tracetest.SpanRecorder) []string {
	var names []string
	for _, s := range recorder.Ended() {
		names = append(names, s.Name())
	}
	return names
}

func TestManager_RunSequential(t *testing.T) {
	var ran []string
	m, recorder, logs := newTestManager(t,
		&fakeStep{id: "towns", rows: 517, ran: &ran},
		&fakeStep{id: "gdp", rows: 67, ran: &ran},
		&fakeStep{id: "ttest", deps: []string{"towns", "gdp"}, rows: 10461, ran: &ran},
	)

	state, err := m.Run(context.Background(), "run-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"towns", "gdp", "ttest"}, ran)
	assert.Equal(t, RunStatusCompleted, state.Status)
	for _, id := range ran {
		assert.Equal(t, StepStatusCompleted, state.GetStep(id).Status, id)
	}
	assert.Equal(t, 517, state.GetStep("towns").Rows)
	assert.NotNil(t, state.EndTime)

	assert.Equal(t, []string{"analysis.step.towns", "analysis.step.gdp", "analysis.step.ttest", "analysis.run"}, spanNames(recorder))
	root := recorder.Ended()[3]
	for _, child := range recorder.Ended()[:3] {
		assert.Equal(t, root.SpanContext().SpanID(), child.Parent().SpanID())
	}

	assert.True(t, logs.HasMessage("Run completed"))
}

func TestManager_StopsAtFirstFailure(t *testing.T) {
	var ran []string
	m, recorder, _ := newTestManager(t,
		&fakeStep{id: "towns", ran: &ran},
		&fakeStep{id: "gdp", err: apperrors.NewNoRecessionError("flat series"), ran: &ran},
		&fakeStep{id: "housing", ran: &ran},
		&fakeStep{id: "ttest", deps: []string{"towns", "gdp", "housing"}, ran: &ran},
	)

	state, err := m.Run(context.Background(), "run-2")
	require.Error(t, err)

	assert.Equal(t, []string{"towns", "gdp"}, ran)
	assert.ErrorIs(t, err, apperrors.ErrNoRecession)
	assert.Equal(t, ErrorTypeExecution, GetErrorType(err))
	assert.Equal(t, "gdp", FailedStep(err))

	assert.Equal(t, RunStatusFailed, state.Status)
	assert.Equal(t, StepStatusFailed, state.GetStep("gdp").Status)
	assert.Equal(t, StepStatusSkipped, state.GetStep("housing").Status)
	assert.Equal(t, StepStatusSkipped, state.GetStep("ttest").Status)

	var gdpSpan sdktrace.ReadOnlySpan
	for _, s := range recorder.Ended() {
		if s.Name() == "analysis.step.gdp" {
			gdpSpan = s
		}
	}
	require.NotNil(t, gdpSpan)
	assert.Equal(t, codes.Error, gdpSpan.Status().Code)
}

func TestManager_ValidationFailure(t *testing.T) {
	m, _, _ := newTestManager(t,
		&fakeStep{id: "towns", validate: errors.New("town list path is empty")},
	)

	state, err := m.Run(context.Background(), "run-3")
	require.Error(t, err)
	assert.Equal(t, ErrorTypeValidation, GetErrorType(err))
	assert.Equal(t, StepStatusFailed, state.GetStep("towns").Status)
}

func TestManager_Cancelled(t *testing.T) {
	var ran []string
	m, _, _ := newTestManager(t, &fakeStep{id: "towns", ran: &ran})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state, err := m.Run(ctx, "run-4")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ErrorTypeCancellation, GetErrorType(err))
	assert.Equal(t, RunStatusCancelled, state.Status)
	assert.Equal(t, StepStatusSkipped, state.GetStep("towns").Status)
	assert.Empty(t, ran)
}

func TestManager_InvalidRegistry(t *testing.T) {
	m, _, _ := newTestManager(t, &fakeStep{id: "ttest", deps: []string{"gdp"}})

	state, err := m.Run(context.Background(), "run-5")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
	assert.Equal(t, RunStatusFailed, state.Status)
}
