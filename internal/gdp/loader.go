// Package gdp loads the quarterly GDP series and locates the recession
// window in it.
package gdp

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"unihousing/internal/config"
	apperrors "unihousing/internal/errors"
	"unihousing/pkg/contracts/domain"
)

const source = "gdp"

// Loader reads GDP spreadsheets laid out according to a GDPSchema.
type Loader struct {
	schema config.GDPSchema
	logger *slog.Logger
}

// NewLoader creates a loader for the given schema.
func NewLoader(schema config.GDPSchema, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{schema: schema, logger: logger}
}

// Load reads the series from an .xlsx workbook or a .csv export of it.
func (l *Loader) Load(path string) (domain.GDPSeries, error) {
	var (
		rows [][]string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		rows, err = l.readWorkbook(path)
	case ".csv":
		rows, err = readCSV(path)
	case ".xls":
		return nil, apperrors.NewSchemaError(source, "legacy .xls workbooks are not supported, save the file as .xlsx").
			WithContext("path", path)
	default:
		return nil, apperrors.NewSchemaError(source, fmt.Sprintf("unsupported file type %q", ext)).
			WithContext("path", path)
	}
	if err != nil {
		return nil, err
	}

	series, err := l.FromRows(rows)
	if err != nil {
		return nil, err
	}

	l.logger.Info("Loaded GDP series",
		slog.String("path", path),
		slog.Int("quarters", len(series)),
		slog.String("first", series[0].Quarter.String()),
		slog.String("last", series[len(series)-1].Quarter.String()))
	return series, nil
}

func (l *Loader) readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("open GDP workbook", err).WithContext("path", path)
	}
	defer f.Close()

	sheet := l.schema.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, apperrors.NewSchemaError(source, fmt.Sprintf("sheet %q not found", sheet)).
			WithContext("sheets", f.GetSheetList())
	}

	// Raw values keep the stored number instead of its display format
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewStorageError("read GDP sheet", err).WithContext("sheet", sheet)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("open GDP csv", err).WithContext("path", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("read GDP csv", err).WithContext("path", path)
	}
	return rows, nil
}

// FromRows applies the schema to raw sheet rows: it skips the title rows,
// reads the header, keeps the quarter and GDP columns from the data rows,
// drops StartOffset rows and checks that the series begins at StartQuarter.
// The series ends at the first row without a quarter.
func (l *Loader) FromRows(rows [][]string) (domain.GDPSeries, error) {
	s := l.schema
	if s.SkipRows > len(rows) {
		return nil, apperrors.NewSchemaError(source, "sheet has fewer rows than the title block").
			WithContext("rows", len(rows))
	}
	body := rows[s.SkipRows:]

	if s.HeaderRow < len(body) {
		header := body[s.HeaderRow]
		l.logger.Debug("GDP header",
			slog.String("quarter_column", cell(header, s.QuarterColumn)),
			slog.String("gdp_column", cell(header, s.GDPColumn)))
	}

	first := s.DataRow + s.StartOffset
	if first >= len(body) {
		return nil, apperrors.NewSchemaError(source, "no data rows after the start offset").
			WithContext("rows", len(rows)).
			WithContext("first_row", s.SkipRows+first+1)
	}

	var (
		quarters []domain.Quarter
		values   []float64
	)
	for i := first; i < len(body); i++ {
		row := body[i]
		token := cell(row, s.QuarterColumn)
		if token == "" {
			break
		}
		sheetRow := s.SkipRows + i + 1

		q, err := domain.ParseQuarter(token)
		if err != nil {
			return nil, apperrors.NewSchemaError(source, err.Error()).WithContext("row", sheetRow)
		}
		v, err := parseNumber(cell(row, s.GDPColumn))
		if err != nil {
			return nil, apperrors.NewSchemaError(source, err.Error()).
				WithContext("row", sheetRow).
				WithContext("quarter", token)
		}
		quarters = append(quarters, q)
		values = append(values, v)
	}

	if len(quarters) == 0 {
		return nil, apperrors.NewSchemaError(source, "series is empty")
	}
	if string(quarters[0]) != s.StartQuarter {
		return nil, apperrors.NewSchemaError(source,
			fmt.Sprintf("series starts at %s, expected %s", quarters[0], s.StartQuarter)).
			WithContext("start_offset", s.StartOffset)
	}

	return domain.NewGDPSeries(quarters, values), nil
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// parseNumber accepts thousands separators as exported by spreadsheets.
func parseNumber(s string) (float64, error) {
	clean := strings.ReplaceAll(s, ",", "")
	if clean == "" {
		return 0, fmt.Errorf("missing GDP value")
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid GDP value %q", s)
	}
	return v, nil
}
