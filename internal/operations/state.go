package operations

import (
	"time"

	"unihousing/internal/analysis"
	"unihousing/pkg/contracts/domain"
)

// RunStatus represents the overall run status
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// RunState is the state of one analysis run. Each input is loaded once and
// shared with every step that needs it.
type RunState struct {
	ID        string
	Status    RunStatus
	StartTime time.Time
	EndTime   *time.Time
	Steps     map[string]*StepState
	Error     error

	Towns   []domain.TownEntry
	GDP     domain.GDPSeries
	Window  *domain.RecessionWindow
	Housing *domain.QuarterlyHousingTable
	Outcome *analysis.Outcome
	Exports []string
}

// NewRunState creates a pending run state
func NewRunState(id string) *RunState {
	return &RunState{
		ID:        id,
		Status:    RunStatusPending,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
	}
}

// Start marks the run as running
func (r *RunState) Start() {
	r.Status = RunStatusRunning
	r.StartTime = time.Now()
}

// Complete marks the run as completed
func (r *RunState) Complete() {
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusCompleted
}

// Fail marks the run as failed
func (r *RunState) Fail(err error) {
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusFailed
	r.Error = err
}

// Cancel marks the run as cancelled
func (r *RunState) Cancel(err error) {
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusCancelled
	r.Error = err
}

// GetStep returns the state of a step, or nil
func (r *RunState) GetStep(id string) *StepState {
	return r.Steps[id]
}

// SetStep stores the state of a step
func (r *RunState) SetStep(s *StepState) {
	r.Steps[s.ID] = s
}

// TownSet returns the parsed towns indexed by key
func (r *RunState) TownSet() domain.TownSet {
	return domain.NewTownSet(r.Towns)
}

// Result returns the test result once the ttest step has completed
func (r *RunState) Result() (domain.TestResult, bool) {
	if r.Outcome == nil {
		return domain.TestResult{}, false
	}
	return r.Outcome.Result, true
}
