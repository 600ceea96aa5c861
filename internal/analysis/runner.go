package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"unihousing/internal/config"
	apperrors "unihousing/internal/errors"
	"unihousing/internal/stats"
	"unihousing/pkg/contracts/domain"
)

// Runner runs the university town hypothesis test.
type Runner struct {
	alpha    float64
	variance stats.Variance
	logger   *slog.Logger
}

// NewRunner creates a runner from the analysis settings.
func NewRunner(cfg config.AnalysisConfig, logger *slog.Logger) (*Runner, error) {
	if cfg.Alpha <= 0 || cfg.Alpha >= 1 {
		return nil, apperrors.NewConfigError(fmt.Sprintf("alpha must be in (0, 1), got %v", cfg.Alpha), nil)
	}
	v := stats.Variance(cfg.Variance)
	switch v {
	case "":
		v = stats.Pooled
	case stats.Pooled, stats.Welch:
	default:
		return nil, apperrors.NewConfigError(fmt.Sprintf("unknown variance assumption %q", cfg.Variance), nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{alpha: cfg.Alpha, variance: v, logger: logger}, nil
}

// Outcome is the test result together with the ratios it was computed from.
type Outcome struct {
	Result domain.TestResult
	Ratios []ClassifiedRatio
}

// Run computes the price ratios over the recession window, splits them by
// the town set and compares the two groups.
func (r *Runner) Run(ctx context.Context, table *domain.QuarterlyHousingTable, window domain.RecessionWindow, towns domain.TownSet) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ratios, err := PriceRatios(table, window)
	if err != nil {
		return nil, err
	}
	university, other := Partition(ratios, towns)

	r.logger.InfoContext(ctx, "Partitioned price ratios",
		slog.Int("ratios", len(ratios)),
		slog.Int("excluded", len(table.Rows)-len(ratios)),
		slog.Int("university", len(university)),
		slog.Int("non_university", len(other)))

	if len(university) == 0 {
		return nil, apperrors.NewEmptyGroupError(string(domain.GroupUniversity))
	}
	if len(other) == 0 {
		return nil, apperrors.NewEmptyGroupError(string(domain.GroupNonUniversity))
	}

	tt, err := stats.TTestInd(Values(university), Values(other), r.variance)
	if err != nil {
		return nil, err
	}

	result := domain.TestResult{
		Different:          Decide(tt.P, r.alpha),
		PValue:             tt.P,
		Better:             BetterGroup(tt.MeanA, tt.MeanB),
		TStatistic:         tt.T,
		DegreesOfFreedom:   tt.DF,
		UniversityMean:     tt.MeanA,
		NonUniversityMean:  tt.MeanB,
		UniversityCount:    tt.NA,
		NonUniversityCount: tt.NB,
		Variance:           string(r.variance),
	}

	r.logger.InfoContext(ctx, "Hypothesis test complete",
		slog.Bool("different", result.Different),
		slog.Float64("p_value", result.PValue),
		slog.String("better", string(result.Better)),
		slog.Float64("alpha", r.alpha))

	return &Outcome{Result: result, Ratios: Classify(ratios, towns)}, nil
}
