package gdp

import (
	"fmt"
	"log/slog"

	"unihousing/internal/config"
	apperrors "unihousing/internal/errors"
	"unihousing/pkg/contracts/domain"
)

// EndRule selects how the end of a recession is found.
type EndRule string

const (
	// EndRuleMinimumGap ends the recession at the second of the first two
	// consecutive growth quarters after the decline.
	EndRuleMinimumGap EndRule = config.EndRuleMinimumGap
	// EndRuleLargestGap takes the largest gap between growth quarters over
	// the whole series; the quarter after the one closing that gap is the end.
	EndRuleLargestGap EndRule = config.EndRuleLargestGap
)

// Locator finds the start, bottom and end of the first recession.
type Locator struct {
	rule   EndRule
	logger *slog.Logger
}

// NewLocator creates a locator. An empty rule selects EndRuleMinimumGap.
func NewLocator(rule EndRule, logger *slog.Logger) (*Locator, error) {
	switch rule {
	case "":
		rule = EndRuleMinimumGap
	case EndRuleMinimumGap, EndRuleLargestGap:
	default:
		return nil, apperrors.NewConfigError(fmt.Sprintf("unknown recession end rule %q", rule), nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Locator{rule: rule, logger: logger}, nil
}

// Rule returns the configured end rule.
func (l *Locator) Rule() EndRule {
	return l.rule
}

// Locate returns the recession window of the series.
func (l *Locator) Locate(series domain.GDPSeries) (domain.RecessionWindow, error) {
	start, err := l.RecessionStart(series)
	if err != nil {
		return domain.RecessionWindow{}, err
	}
	end, err := l.RecessionEnd(series)
	if err != nil {
		return domain.RecessionWindow{}, err
	}
	bottom, err := l.RecessionBottom(series, start, end)
	if err != nil {
		return domain.RecessionWindow{}, err
	}

	w := domain.RecessionWindow{
		Start:       start,
		End:         end,
		Bottom:      bottom,
		StartIndex:  series.IndexOf(start),
		EndIndex:    series.IndexOf(end),
		BottomIndex: series.IndexOf(bottom),
	}
	if !w.IsOrdered() {
		return domain.RecessionWindow{}, apperrors.NewNoRecessionError("recession quarters are out of order").
			WithContext("start", start).
			WithContext("bottom", bottom).
			WithContext("end", end)
	}

	l.logger.Info("Located recession",
		slog.String("start", start.String()),
		slog.String("bottom", bottom.String()),
		slog.String("end", end.String()),
		slog.String("end_rule", string(l.rule)))
	return w, nil
}

// RecessionStart returns the first quarter of the first two consecutive
// quarters of decline.
func (l *Locator) RecessionStart(series domain.GDPSeries) (domain.Quarter, error) {
	i, ok := firstDeclinePair(series)
	if !ok {
		return "", apperrors.NewNoRecessionError("no two consecutive quarters of decline")
	}
	return series[i].Quarter, nil
}

// RecessionEnd returns the recession end according to the end rule.
func (l *Locator) RecessionEnd(series domain.GDPSeries) (domain.Quarter, error) {
	var (
		idx int
		err error
	)
	switch l.rule {
	case EndRuleLargestGap:
		idx, err = endByLargestGap(series)
	default:
		idx, err = endByMinimumGap(series)
	}
	if err != nil {
		return "", err
	}
	return series[idx].Quarter, nil
}

// RecessionBottom returns the quarter with the lowest GDP between start and
// end inclusive. The earliest quarter wins a tie.
func (l *Locator) RecessionBottom(series domain.GDPSeries, start, end domain.Quarter) (domain.Quarter, error) {
	from, to := series.IndexOf(start), series.IndexOf(end)
	if from < 0 || to < 0 || from > to {
		return "", apperrors.NewNoRecessionError(fmt.Sprintf("invalid recession range %s..%s", start, end))
	}

	bottom := from
	for i := from + 1; i <= to; i++ {
		if series[i].GDP < series[bottom].GDP {
			bottom = i
		}
	}
	return series[bottom].Quarter, nil
}

// positions returns the indices of the points matching keep, from index
// from onwards.
func positions(series domain.GDPSeries, from int, keep func(domain.GDPPoint) bool) []int {
	var out []int
	for i := from; i < len(series); i++ {
		if keep(series[i]) {
			out = append(out, i)
		}
	}
	return out
}

// firstDeclinePair returns the index of the first declining quarter that is
// directly followed by another declining quarter.
func firstDeclinePair(series domain.GDPSeries) (int, bool) {
	declines := positions(series, 0, domain.GDPPoint.Declined)
	for k := 1; k < len(declines); k++ {
		if declines[k]-declines[k-1] == 1 {
			return declines[k-1], true
		}
	}
	return 0, false
}

func endByMinimumGap(series domain.GDPSeries) (int, error) {
	start, ok := firstDeclinePair(series)
	if !ok {
		return 0, apperrors.NewNoRecessionError("no two consecutive quarters of decline")
	}

	rises := positions(series, start+2, domain.GDPPoint.Rose)
	if len(rises) < 2 {
		return 0, apperrors.NewNoRecessionError("fewer than two growth quarters after the decline")
	}

	best := 1
	for k := 2; k < len(rises); k++ {
		if rises[k]-rises[k-1] < rises[best]-rises[best-1] {
			best = k
		}
	}
	if rises[best]-rises[best-1] != 1 {
		return 0, apperrors.NewNoRecessionError("no two consecutive growth quarters after the decline")
	}
	return rises[best], nil
}

func endByLargestGap(series domain.GDPSeries) (int, error) {
	rises := positions(series, 0, domain.GDPPoint.Rose)
	if len(rises) < 2 {
		return 0, apperrors.NewNoRecessionError("fewer than two growth quarters in the series")
	}

	best := 1
	for k := 2; k < len(rises); k++ {
		if rises[k]-rises[k-1] > rises[best]-rises[best-1] {
			best = k
		}
	}

	end := rises[best] + 1
	if end >= len(series) {
		return 0, apperrors.NewNoRecessionError("series ends before the recession does")
	}
	return end, nil
}
