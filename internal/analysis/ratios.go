// Package analysis compares how housing prices of university towns and
// other regions fared during the recession.
package analysis

import (
	"fmt"
	"math"

	apperrors "unihousing/internal/errors"
	"unihousing/pkg/contracts/domain"
)

// ClassifiedRatio is a price ratio tagged with its comparison group.
type ClassifiedRatio struct {
	domain.PriceRatio
	Group domain.Group `json:"group"`
}

// PriceRatios divides each region's price in the quarter before the
// recession started by its price at the recession bottom. Regions missing
// either price are left out.
func PriceRatios(table *domain.QuarterlyHousingTable, window domain.RecessionWindow) ([]domain.PriceRatio, error) {
	start := table.QuarterIndex(window.Start)
	if start < 0 {
		return nil, apperrors.NewSchemaError("housing", fmt.Sprintf("no housing column for recession start %s", window.Start))
	}
	if start == 0 {
		return nil, apperrors.NewSchemaError("housing", fmt.Sprintf("no housing column before recession start %s", window.Start))
	}
	bottom := table.QuarterIndex(window.Bottom)
	if bottom < 0 {
		return nil, apperrors.NewSchemaError("housing", fmt.Sprintf("no housing column for recession bottom %s", window.Bottom))
	}
	baseline := start - 1

	ratios := make([]domain.PriceRatio, 0, len(table.Rows))
	for _, row := range table.Rows {
		before, low := row.Prices[baseline], row.Prices[bottom]
		if domain.IsMissing(before) || domain.IsMissing(low) {
			continue
		}
		r := before / low
		if math.IsInf(r, 0) || math.IsNaN(r) {
			continue
		}
		ratios = append(ratios, domain.PriceRatio{Key: row.Key, Ratio: r})
	}
	return ratios, nil
}

// Partition splits ratios into university towns and every other region.
// Every ratio lands in exactly one group and duplicates are kept.
func Partition(ratios []domain.PriceRatio, towns domain.TownSet) (university, other []domain.PriceRatio) {
	for _, r := range ratios {
		if towns.Contains(r.Key) {
			university = append(university, r)
		} else {
			other = append(other, r)
		}
	}
	return university, other
}

// Classify tags each ratio with its group, preserving order.
func Classify(ratios []domain.PriceRatio, towns domain.TownSet) []ClassifiedRatio {
	out := make([]ClassifiedRatio, len(ratios))
	for i, r := range ratios {
		g := domain.GroupNonUniversity
		if towns.Contains(r.Key) {
			g = domain.GroupUniversity
		}
		out[i] = ClassifiedRatio{PriceRatio: r, Group: g}
	}
	return out
}

// Values returns the ratio values.
func Values(ratios []domain.PriceRatio) []float64 {
	out := make([]float64, len(ratios))
	for i, r := range ratios {
		out[i] = r.Ratio
	}
	return out
}

// Decide reports whether p is significant at alpha. The comparison is strict.
func Decide(p, alpha float64) bool {
	return p < alpha
}

// BetterGroup names the group whose prices fell less. A lower mean ratio
// means a smaller drop; ties go to non-university towns.
func BetterGroup(universityMean, otherMean float64) domain.Group {
	if universityMean < otherMean {
		return domain.GroupUniversity
	}
	return domain.GroupNonUniversity
}
