// Package stats implements the two-sample t-test used to compare the
// price ratios of the two town groups.
package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"unihousing/internal/config"
	apperrors "unihousing/internal/errors"
)

// Variance selects the variance assumption of the test.
type Variance string

const (
	// Pooled assumes equal variances (Student's t-test).
	Pooled Variance = config.VariancePooled
	// Welch drops the equal variance assumption.
	Welch Variance = config.VarianceWelch
)

// TTestResult holds the outcome of a two-sample t-test.
type TTestResult struct {
	T     float64
	DF    float64
	P     float64
	MeanA float64
	MeanB float64
	NA    int
	NB    int
}

// TTestInd runs a two-sided independent two-sample t-test of a against b.
// NaN observations are ignored.
func TTestInd(a, b []float64, variance Variance) (TTestResult, error) {
	a, b = dropNaN(a), dropNaN(b)
	n1, n2 := float64(len(a)), float64(len(b))

	res := TTestResult{NA: len(a), NB: len(b)}
	if len(a) == 0 {
		return res, apperrors.NewEmptyGroupError("first")
	}
	if len(b) == 0 {
		return res, apperrors.NewEmptyGroupError("second")
	}
	if len(a) < 2 || len(b) < 2 {
		return res, apperrors.NewAppValidationError(
			fmt.Sprintf("t-test needs at least two observations per sample, got %d and %d", len(a), len(b)))
	}

	m1, v1 := stat.MeanVariance(a, nil)
	m2, v2 := stat.MeanVariance(b, nil)
	res.MeanA, res.MeanB = m1, m2

	var se float64
	switch variance {
	case Welch:
		q1, q2 := v1/n1, v2/n2
		se = math.Sqrt(q1 + q2)
		res.DF = (q1 + q2) * (q1 + q2) / (q1*q1/(n1-1) + q2*q2/(n2-1))
	case Pooled, "":
		res.DF = n1 + n2 - 2
		pooled := ((n1-1)*v1 + (n2-1)*v2) / res.DF
		se = math.Sqrt(pooled * (1/n1 + 1/n2))
	default:
		return res, apperrors.NewConfigError(fmt.Sprintf("unknown variance assumption %q", variance), nil)
	}
	if se == 0 || math.IsNaN(se) {
		return res, apperrors.NewAppValidationError("t-test is undefined for samples without variance")
	}

	res.T = (m1 - m2) / se
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: res.DF}
	res.P = 2 * dist.Survival(math.Abs(res.T))
	return res, nil
}

func dropNaN(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}
