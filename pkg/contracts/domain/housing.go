package domain

import "sort"

// HousingRow holds one region's quarterly mean prices, aligned with the
// owning table's Quarters. Missing quarters are NaN.
type HousingRow struct {
	Key    RegionKey `json:"key"`
	Prices []float64 `json:"prices"`
}

// QuarterlyHousingTable is the housing price table reduced to quarters and
// keyed by (State, RegionName). Duplicate keys are kept as separate rows.
type QuarterlyHousingTable struct {
	Quarters []Quarter   `json:"quarters"`
	Rows     []HousingRow `json:"rows"`
}

// QuarterIndex returns the column position of q, or -1.
func (t *QuarterlyHousingTable) QuarterIndex(q Quarter) int {
	i := sort.Search(len(t.Quarters), func(i int) bool { return t.Quarters[i] >= q })
	if i < len(t.Quarters) && t.Quarters[i] == q {
		return i
	}
	return -1
}

// SortRows orders rows by composite key, keeping the input order of equal keys.
func (t *QuarterlyHousingTable) SortRows() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return t.Rows[i].Key.Less(t.Rows[j].Key)
	})
}

// PriceRatio is the baseline/bottom price ratio for one region.
type PriceRatio struct {
	Key   RegionKey `json:"key"`
	Ratio float64   `json:"ratio"`
}
