package domain

// GDPPoint is one quarter of the GDP series. Diff is the change from the
// previous quarter and is missing (NaN) for the first point.
type GDPPoint struct {
	Quarter Quarter `json:"quarter"`
	GDP     float64 `json:"gdp"`
	Diff    float64 `json:"diff"`
}

// HasDiff reports whether the point has a previous quarter to compare to.
func (p GDPPoint) HasDiff() bool {
	return !IsMissing(p.Diff)
}

// Declined reports a strictly negative change.
func (p GDPPoint) Declined() bool {
	return p.HasDiff() && p.Diff < 0
}

// Rose reports a strictly positive change.
func (p GDPPoint) Rose() bool {
	return p.HasDiff() && p.Diff > 0
}

// GDPSeries is a chronologically ordered quarterly GDP series.
type GDPSeries []GDPPoint

// NewGDPSeries builds a series from parallel quarter and GDP slices and
// computes the first differences.
func NewGDPSeries(quarters []Quarter, values []float64) GDPSeries {
	n := min(len(quarters), len(values))
	series := make(GDPSeries, n)
	for i := 0; i < n; i++ {
		series[i] = GDPPoint{Quarter: quarters[i], GDP: values[i], Diff: Missing()}
		if i > 0 {
			series[i].Diff = values[i] - values[i-1]
		}
	}
	return series
}

// IndexOf returns the position of q, or -1.
func (s GDPSeries) IndexOf(q Quarter) int {
	for i, p := range s {
		if p.Quarter == q {
			return i
		}
	}
	return -1
}

// Quarters returns the quarter tokens in order.
func (s GDPSeries) Quarters() []Quarter {
	out := make([]Quarter, len(s))
	for i, p := range s {
		out[i] = p.Quarter
	}
	return out
}

// RecessionWindow locates a recession within a GDP series.
type RecessionWindow struct {
	Start       Quarter `json:"start"`
	End         Quarter `json:"end"`
	Bottom      Quarter `json:"bottom"`
	StartIndex  int     `json:"start_index"`
	EndIndex    int     `json:"end_index"`
	BottomIndex int     `json:"bottom_index"`
}

// IsOrdered checks start < bottom <= end.
func (w RecessionWindow) IsOrdered() bool {
	return w.StartIndex < w.BottomIndex && w.BottomIndex <= w.EndIndex
}
