package gdp

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unihousing/internal/config"
	apperrors "unihousing/internal/errors"
	"unihousing/internal/shared/testutil"
	"unihousing/pkg/contracts/domain"
)

var (
	toyQuarters = []string{"2000q1", "2000q2", "2000q3", "2000q4", "2001q1", "2001q2"}
	toyValues   = []float64{100, 99, 97, 98, 101, 103}
)

func testSchema(pad int) config.GDPSchema {
	s := config.DefaultSchema().GDP
	s.Sheet = "Sheet1"
	s.StartOffset = pad
	return s
}

func TestLoadWorkbook(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	path := testutil.WriteWorkbook(t, "gdplev.xlsx", "Sheet1", testutil.GDPRows(4, 3, toyQuarters, toyValues))

	got, err := NewLoader(testSchema(3), logger).Load(path)
	require.NoError(t, err)

	require.Len(t, got, len(toyQuarters))
	assert.Equal(t, domain.Quarter("2000q1"), got[0].Quarter)
	assert.Equal(t, domain.Quarter("2001q2"), got[5].Quarter)
	assert.Equal(t, 97.0, got[2].GDP)
	assert.True(t, domain.IsMissing(got[0].Diff))
	assert.Equal(t, -2.0, got[2].Diff)
	assert.Equal(t, 3.0, got[4].Diff)

	assert.True(t, logs.HasAttr("quarters", int64(6)))
}

func TestLoadWorkbook_DefaultSheet(t *testing.T) {
	path := testutil.WriteWorkbook(t, "gdplev.xlsx", "Quarterly", testutil.GDPRows(4, 0, toyQuarters, toyValues))

	schema := testSchema(0)
	schema.Sheet = ""
	got, err := NewLoader(schema, nil).Load(path)
	require.NoError(t, err)
	assert.Len(t, got, 6)

	schema.Sheet = "Annual"
	_, err = NewLoader(schema, nil).Load(path)
	assert.ErrorIs(t, err, apperrors.ErrSchemaMismatch)
}

func TestLoadCSV(t *testing.T) {
	// encoding/csv drops empty lines, so spacer rows carry a separator
	csv := "title\n,\n,\n,\n" +
		"Annual,,,,Quarterly\n" +
		",GDP,GDP 2009,,,GDP,GDP 2009\n" +
		",\n,\n" +
		"1929,104.6,1056.6,,1947q1,243.1,\"1,934.5\"\n" +
		",,,,2000q1,,\"12,359.1\"\n" +
		",,,,2000q2,,\"12,592.5\"\n" +
		",,,,,,\n"
	path := testutil.WriteFile(t, "gdplev.csv", csv)

	got, err := NewLoader(testSchema(1), nil).Load(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 12359.1, got[0].GDP)
	assert.InDelta(t, 233.4, got[1].Diff, 1e-9)
}

func TestLoad_UnsupportedFiles(t *testing.T) {
	l := NewLoader(testSchema(0), nil)

	_, err := l.Load(testutil.WriteFile(t, "gdplev.xls", "binary"))
	assert.ErrorIs(t, err, apperrors.ErrSchemaMismatch)

	_, err = l.Load(testutil.WriteFile(t, "gdplev.json", "{}"))
	assert.ErrorIs(t, err, apperrors.ErrSchemaMismatch)

	_, err = l.Load("does-not-exist.xlsx")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}

func TestFromRows_SchemaErrors(t *testing.T) {
	tests := []struct {
		name   string
		schema config.GDPSchema
		rows   [][]string
	}{
		{
			name:   "start quarter mismatch",
			schema: testSchema(0),
			rows:   stringRows(testutil.GDPRows(4, 1, toyQuarters, toyValues)),
		},
		{
			name:   "too few rows",
			schema: testSchema(300),
			rows:   stringRows(testutil.GDPRows(4, 1, toyQuarters, toyValues)),
		},
		{
			name:   "title block longer than sheet",
			schema: testSchema(0),
			rows:   [][]string{{"title"}},
		},
		{
			name:   "bad quarter token",
			schema: testSchema(0),
			rows:   stringRows(testutil.GDPRows(4, 0, []string{"2000q1", "2000Q2"}, []float64{1, 2})),
		},
		{
			name:   "missing value",
			schema: testSchema(0),
			rows: append(stringRows(testutil.GDPRows(4, 0, nil, nil)),
				[]string{"", "", "", "", "2000q1", "", ""}),
		},
		{
			name:   "empty series",
			schema: testSchema(0),
			rows:   append(stringRows(testutil.GDPRows(4, 0, nil, nil)), []string{""}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(tt.schema, nil).FromRows(tt.rows)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrSchemaMismatch)
		})
	}
}

func TestFromRows_StopsAtBlankQuarter(t *testing.T) {
	rows := stringRows(testutil.GDPRows(4, 0, toyQuarters, toyValues))
	rows = append(rows, []string{}, []string{"", "", "", "", "notes"})

	got, err := NewLoader(testSchema(0), nil).FromRows(rows)
	require.NoError(t, err)
	assert.Len(t, got, 6)
}

func stringRows(rows [][]any) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, v := range row {
			if v != nil {
				out[i][j] = fmtCell(v)
			}
		}
	}
	return out
}

func fmtCell(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	}
	return ""
}
