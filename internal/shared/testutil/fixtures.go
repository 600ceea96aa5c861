package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// WriteFile writes content into a file named name under t.TempDir and
// returns its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}

// WriteWorkbook saves rows into the named sheet of a new .xlsx workbook.
// Nil cells are left empty.
func WriteWorkbook(t *testing.T, name, sheet string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		t.Fatalf("failed to name sheet: %v", err)
	}
	for r, row := range rows {
		for c, val := range row {
			if val == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("bad cell %d,%d: %v", r, c, err)
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				t.Fatalf("failed to set %s: %v", cell, err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	return path
}

// GDPRows lays out quarters and values the way the published GDP workbook
// does: a title block of skip rows, a header, three blank rows, pad
// annual-only rows and then the quarterly data in columns E and G.
func GDPRows(skip, pad int, quarters []string, values []float64) [][]any {
	rows := make([][]any, 0, skip+4+pad+len(quarters))
	for i := 0; i < skip; i++ {
		rows = append(rows, []any{"Current-Dollar and Real Gross Domestic Product"})
	}
	rows = append(rows,
		[]any{"Annual", nil, nil, nil, "Quarterly"},
		[]any{nil, "GDP in billions of current dollars", "GDP in billions of chained 2009 dollars", nil, nil, "GDP in billions of current dollars", "GDP in billions of chained 2009 dollars"},
		[]any{},
		[]any{},
	)
	for i := 0; i < pad; i++ {
		rows = append(rows, []any{1929 + i, 104.6, 1056.6, nil, "1947q1", 243.1, 1934.5})
	}
	for i, q := range quarters {
		rows = append(rows, []any{nil, nil, nil, nil, q, nil, values[i]})
	}
	return rows
}

// HousingCSV builds a wide housing CSV from a header and rows of cells.
func HousingCSV(header []string, rows ...[]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	return b.String()
}
