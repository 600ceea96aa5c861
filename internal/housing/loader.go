// Package housing reduces the wide monthly housing price table to
// quarterly mean prices keyed by (State, RegionName).
package housing

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"unihousing/internal/config"
	apperrors "unihousing/internal/errors"
	"unihousing/pkg/contracts/domain"
)

const source = "housing"

// Frame is the housing table reduced to its key columns and the month
// columns on or after the schema's first month.
type Frame struct {
	df     dataframe.DataFrame
	months []string
	schema config.HousingSchema
}

// Nrow returns the number of regions in the frame.
func (f *Frame) Nrow() int {
	return f.df.Nrow()
}

// Months returns the kept month columns in chronological order.
func (f *Frame) Months() []string {
	return f.months
}

// Loader reads housing CSVs laid out according to a HousingSchema.
type Loader struct {
	schema config.HousingSchema
	logger *slog.Logger
}

// NewLoader creates a loader for the given schema.
func NewLoader(schema config.HousingSchema, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{schema: schema, logger: logger}
}

// LoadFile reads the housing CSV at path.
func (l *Loader) LoadFile(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("open housing csv", err).WithContext("path", path)
	}
	defer f.Close()

	frame, err := l.Load(f)
	if err != nil {
		return nil, err
	}
	l.logger.Info("Loaded housing table",
		slog.String("path", path),
		slog.Int("rows", frame.Nrow()),
		slog.Int("months", len(frame.months)))
	return frame, nil
}

// Load reads a wide housing CSV. Key and identifying columns are read as
// text and month columns as numbers, with empty cells read as NaN. A column
// that is none of these fails the load.
func (l *Loader) Load(r io.Reader) (*Frame, error) {
	s := l.schema
	types := map[string]series.Type{
		s.StateColumn:  series.String,
		s.RegionColumn: series.String,
	}
	for _, name := range s.DropColumns {
		types[name] = series.String
	}

	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.Float),
		dataframe.WithTypes(types),
		// "NA" is the national aggregate state code, not a missing value
		dataframe.NaNValues([]string{""}),
	)
	if df.Err != nil {
		return nil, apperrors.NewParsingError("read housing csv", df.Err)
	}

	months, err := l.classifyColumns(df.Names())
	if err != nil {
		return nil, err
	}

	keep := append([]string{s.StateColumn, s.RegionColumn}, months...)
	selected := df.Select(keep)
	if selected.Err != nil {
		return nil, apperrors.NewParsingError("select housing columns", selected.Err)
	}

	return &Frame{df: selected, months: months, schema: s}, nil
}

// classifyColumns returns the month columns to keep, sorted, and rejects
// unknown columns.
func (l *Loader) classifyColumns(names []string) ([]string, error) {
	s := l.schema
	known := make(map[string]bool, len(s.DropColumns)+2)
	for _, name := range s.DropColumns {
		known[name] = true
	}

	var (
		months       []string
		hasState     bool
		hasRegion    bool
		droppedEarly int
	)
	for _, name := range names {
		switch {
		case name == s.StateColumn:
			hasState = true
		case name == s.RegionColumn:
			hasRegion = true
		case known[name]:
		case domain.IsMonthToken(name):
			if name < s.FirstMonth {
				droppedEarly++
				continue
			}
			months = append(months, name)
		default:
			return nil, apperrors.NewSchemaError(source, fmt.Sprintf("unexpected column %q", name))
		}
	}
	if !hasState || !hasRegion {
		return nil, apperrors.NewSchemaError(source,
			fmt.Sprintf("missing key columns %q and %q", s.StateColumn, s.RegionColumn))
	}
	if len(months) == 0 {
		return nil, apperrors.NewSchemaError(source,
			fmt.Sprintf("no month columns on or after %s", s.FirstMonth))
	}

	sort.Strings(months)
	l.logger.Debug("Classified housing columns",
		slog.Int("months", len(months)),
		slog.Int("dropped_months", droppedEarly),
		slog.String("first", months[0]),
		slog.String("last", months[len(months)-1]))
	return months, nil
}
