package operations

import (
	"context"
	"fmt"
	"log/slog"

	"unihousing/internal/analysis"
	"unihousing/internal/config"
	"unihousing/internal/exporter"
	"unihousing/internal/gdp"
	"unihousing/internal/housing"
	"unihousing/internal/infrastructure"
	"unihousing/internal/towns"
)

// baseStep carries the identity shared by all steps
type baseStep struct {
	id   string
	name string
	deps []string
}

func (b baseStep) ID() string             { return b.id }
func (b baseStep) Name() string           { return b.name }
func (b baseStep) Dependencies() []string { return b.deps }

// TownsStep parses the university town list
type TownsStep struct {
	baseStep
	parser *towns.Parser
	path   string
}

// NewTownsStep creates the town list step
func NewTownsStep(parser *towns.Parser, path string) *TownsStep {
	return &TownsStep{
		baseStep: baseStep{id: StepIDTowns, name: StepNameTowns},
		parser:   parser,
		path:     path,
	}
}

// Validate implements Step
func (s *TownsStep) Validate(*RunState) error {
	if s.path == "" {
		return fmt.Errorf("town list path is empty")
	}
	return nil
}

// Execute implements Step
func (s *TownsStep) Execute(ctx context.Context, state *RunState) error {
	entries, err := s.parser.LoadFile(s.path)
	if err != nil {
		return err
	}
	state.Towns = entries
	step := state.GetStep(s.id)
	step.Rows = len(entries)
	step.Message = towns.Summary(entries)
	return nil
}

// GDPStep loads the GDP series and locates the recession
type GDPStep struct {
	baseStep
	loader  *gdp.Loader
	locator *gdp.Locator
	path    string
}

// NewGDPStep creates the GDP step
func NewGDPStep(loader *gdp.Loader, locator *gdp.Locator, path string) *GDPStep {
	return &GDPStep{
		baseStep: baseStep{id: StepIDGDP, name: StepNameGDP},
		loader:   loader,
		locator:  locator,
		path:     path,
	}
}

// Validate implements Step
func (s *GDPStep) Validate(*RunState) error {
	if s.path == "" {
		return fmt.Errorf("GDP path is empty")
	}
	return nil
}

// Execute implements Step
func (s *GDPStep) Execute(ctx context.Context, state *RunState) error {
	series, err := s.loader.Load(s.path)
	if err != nil {
		return err
	}
	window, err := s.locator.Locate(series)
	if err != nil {
		return err
	}
	state.GDP = series
	state.Window = &window

	step := state.GetStep(s.id)
	step.Rows = len(series)
	step.Message = fmt.Sprintf("recession %s to %s, bottom %s", window.Start, window.End, window.Bottom)
	return nil
}

// HousingStep reduces the housing table to quarters
type HousingStep struct {
	baseStep
	loader *housing.Loader
	path   string
}

// NewHousingStep creates the housing step
func NewHousingStep(loader *housing.Loader, path string) *HousingStep {
	return &HousingStep{
		baseStep: baseStep{id: StepIDHousing, name: StepNameHousing},
		loader:   loader,
		path:     path,
	}
}

// Validate implements Step
func (s *HousingStep) Validate(*RunState) error {
	if s.path == "" {
		return fmt.Errorf("housing path is empty")
	}
	return nil
}

// Execute implements Step
func (s *HousingStep) Execute(ctx context.Context, state *RunState) error {
	table, err := s.loader.ToQuarterly(s.path)
	if err != nil {
		return err
	}
	state.Housing = table
	state.GetStep(s.id).Rows = len(table.Rows)
	return nil
}

// TTestStep compares university towns against every other region
type TTestStep struct {
	baseStep
	runner *analysis.Runner
}

// NewTTestStep creates the hypothesis test step
func NewTTestStep(runner *analysis.Runner) *TTestStep {
	return &TTestStep{
		baseStep: baseStep{
			id:   StepIDTTest,
			name: StepNameTTest,
			deps: []string{StepIDTowns, StepIDGDP, StepIDHousing},
		},
		runner: runner,
	}
}

// Validate implements Step
func (s *TTestStep) Validate(state *RunState) error {
	switch {
	case state.Window == nil:
		return fmt.Errorf("recession window is missing")
	case state.Housing == nil:
		return fmt.Errorf("quarterly housing table is missing")
	}
	return nil
}

// Execute implements Step
func (s *TTestStep) Execute(ctx context.Context, state *RunState) error {
	outcome, err := s.runner.Run(ctx, state.Housing, *state.Window, state.TownSet())
	if err != nil {
		return err
	}
	state.Outcome = outcome
	state.GetStep(s.id).Rows = len(outcome.Ratios)
	return nil
}

// ExportStep writes the report files
type ExportStep struct {
	baseStep
	exporter *exporter.ReportExporter
	endRule  string
	alpha    float64
}

// NewExportStep creates the report export step
func NewExportStep(e *exporter.ReportExporter, endRule string, alpha float64) *ExportStep {
	return &ExportStep{
		baseStep: baseStep{id: StepIDExport, name: StepNameExport, deps: []string{StepIDTTest}},
		exporter: e,
		endRule:  endRule,
		alpha:    alpha,
	}
}

// Validate implements Step
func (s *ExportStep) Validate(state *RunState) error {
	if state.Outcome == nil || state.Housing == nil || state.Window == nil {
		return fmt.Errorf("nothing to export")
	}
	return nil
}

// Execute implements Step
func (s *ExportStep) Execute(ctx context.Context, state *RunState) error {
	housingPath, err := s.exporter.ExportQuarterlyHousing(state.Housing)
	if err != nil {
		return err
	}
	ratiosPath, err := s.exporter.ExportPriceRatios(state.Outcome.Ratios)
	if err != nil {
		return err
	}
	resultPath, err := s.exporter.ExportResult(exporter.Report{
		RunID:   state.ID,
		Window:  *state.Window,
		EndRule: s.endRule,
		Alpha:   s.alpha,
		Result:  state.Outcome.Result,
	})
	if err != nil {
		return err
	}

	state.Exports = []string{housingPath, ratiosPath, resultPath}
	state.GetStep(s.id).Rows = len(state.Exports)
	return nil
}

// NewAnalysisRegistry wires the steps of a full run from configuration.
// The export step is registered only when an output directory is set.
func NewAnalysisRegistry(cfg *config.Config, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	locator, err := gdp.NewLocator(gdp.EndRule(cfg.Analysis.EndRule), infrastructure.WithComponent(logger, "gdp"))
	if err != nil {
		return nil, err
	}
	runner, err := analysis.NewRunner(cfg.Analysis, infrastructure.WithComponent(logger, "analysis"))
	if err != nil {
		return nil, err
	}

	steps := []Step{
		NewTownsStep(
			towns.NewParser(cfg.Schema.Towns, infrastructure.WithComponent(logger, "towns")),
			cfg.Inputs.TownsFile),
		NewGDPStep(
			gdp.NewLoader(cfg.Schema.GDP, infrastructure.WithComponent(logger, "gdp")),
			locator,
			cfg.Inputs.GDPFile),
		NewHousingStep(
			housing.NewLoader(cfg.Schema.Housing, infrastructure.WithComponent(logger, "housing")),
			cfg.Inputs.HousingFile),
		NewTTestStep(runner),
	}
	if cfg.Output.Dir != "" {
		steps = append(steps, NewExportStep(
			exporter.NewReportExporter(cfg.Output.Dir, infrastructure.WithComponent(logger, "exporter")),
			cfg.Analysis.EndRule,
			cfg.Analysis.Alpha))
	}

	registry := NewRegistry()
	for _, step := range steps {
		if err := registry.Register(step); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
