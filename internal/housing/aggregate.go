package housing

import (
	"log/slog"
	"math"

	apperrors "unihousing/internal/errors"
	"unihousing/pkg/contracts/domain"
)

// quarterGroup is a quarter and the frame columns of its months.
type quarterGroup struct {
	quarter domain.Quarter
	months  []string
}

// Aggregate converts the frame to a quarterly table. Each quarter is the
// mean of its available months and NaN when no month has a value. State
// codes are replaced by full names; rows are sorted by key with rows
// without a state last.
func (l *Loader) Aggregate(frame *Frame) (*domain.QuarterlyHousingTable, error) {
	groups, err := groupMonths(frame.months)
	if err != nil {
		return nil, err
	}

	keys, err := l.regionKeys(frame)
	if err != nil {
		return nil, err
	}

	table := &domain.QuarterlyHousingTable{
		Quarters: make([]domain.Quarter, len(groups)),
		Rows:     make([]domain.HousingRow, len(keys)),
	}
	for i, key := range keys {
		table.Rows[i] = domain.HousingRow{Key: key, Prices: make([]float64, len(groups))}
	}

	for q, g := range groups {
		table.Quarters[q] = g.quarter

		cols := make([][]float64, len(g.months))
		for m, name := range g.months {
			cols[m] = frame.df.Col(name).Float()
		}
		for i := range table.Rows {
			table.Rows[i].Prices[q] = meanAt(cols, i)
		}
	}

	table.SortRows()

	l.logger.Info("Aggregated housing prices to quarters",
		slog.Int("rows", len(table.Rows)),
		slog.Int("quarters", len(table.Quarters)),
		slog.String("first", table.Quarters[0].String()),
		slog.String("last", table.Quarters[len(table.Quarters)-1].String()))
	return table, nil
}

// ToQuarterly loads the CSV at path and aggregates it.
func (l *Loader) ToQuarterly(path string) (*domain.QuarterlyHousingTable, error) {
	frame, err := l.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return l.Aggregate(frame)
}

// groupMonths partitions sorted month columns into consecutive quarters.
func groupMonths(months []string) ([]quarterGroup, error) {
	var groups []quarterGroup
	for _, m := range months {
		q, err := domain.QuarterFromMonth(m)
		if err != nil {
			return nil, apperrors.NewSchemaError(source, err.Error())
		}
		if n := len(groups); n > 0 && groups[n-1].quarter == q {
			groups[n-1].months = append(groups[n-1].months, m)
			continue
		}
		groups = append(groups, quarterGroup{quarter: q, months: []string{m}})
	}
	return groups, nil
}

// regionKeys maps every row to its composite key.
func (l *Loader) regionKeys(frame *Frame) ([]domain.RegionKey, error) {
	states := frame.df.Col(frame.schema.StateColumn)
	regions := frame.df.Col(frame.schema.RegionColumn)

	keys := make([]domain.RegionKey, frame.df.Nrow())
	unmapped := make(map[string]int)
	for i := range keys {
		if e := regions.Elem(i); !e.IsNA() {
			keys[i].RegionName = e.String()
		}

		code := ""
		if e := states.Elem(i); !e.IsNA() {
			code = e.String()
		}
		name, ok := StateName(code)
		if !ok {
			if frame.schema.StrictStates {
				return nil, apperrors.NewSchemaError(source, "unmapped state code").
					WithContext("code", code).
					WithContext("row", i+1)
			}
			unmapped[code]++
			name = domain.NoState
		}
		keys[i].State = name
	}

	if len(unmapped) > 0 {
		total := 0
		for _, n := range unmapped {
			total += n
		}
		l.logger.Warn("Housing rows with unmapped state codes kept without a state",
			slog.Int("rows", total),
			slog.Any("codes", unmapped))
	}
	return keys, nil
}

// meanAt averages row i across cols, skipping NaN. It returns NaN when no
// column has a value.
func meanAt(cols [][]float64, i int) float64 {
	var (
		sum float64
		n   int
	)
	for _, col := range cols {
		if v := col[i]; !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return domain.Missing()
	}
	return sum / float64(n)
}
