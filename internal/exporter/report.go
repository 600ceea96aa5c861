package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"unihousing/internal/analysis"
	"unihousing/internal/config"
	apperrors "unihousing/internal/errors"
	"unihousing/pkg/contracts/domain"
)

// ReportExporter writes the report files of one run
type ReportExporter struct {
	csv    *CSVWriter
	dir    string
	logger *slog.Logger
}

// NewReportExporter creates an exporter writing into dir
func NewReportExporter(dir string, logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{csv: NewCSVWriter(dir, logger), dir: dir, logger: logger}
}

// Report is the JSON document describing a run's outcome
type Report struct {
	RunID   string                 `json:"run_id"`
	Window  domain.RecessionWindow `json:"recession"`
	EndRule string                 `json:"end_rule"`
	Alpha   float64                `json:"alpha"`
	Result  domain.TestResult      `json:"result"`
}

// ExportQuarterlyHousing writes the quarterly price table
func (e *ReportExporter) ExportQuarterlyHousing(table *domain.QuarterlyHousingTable) (string, error) {
	headers := make([]string, 0, len(table.Quarters)+2)
	headers = append(headers, "State", "RegionName")
	for _, q := range table.Quarters {
		headers = append(headers, q.String())
	}

	records := make([][]string, len(table.Rows))
	for i, row := range table.Rows {
		record := make([]string, 0, len(headers))
		record = append(record, row.Key.State, row.Key.RegionName)
		for _, p := range row.Prices {
			record = append(record, formatPrice(p))
		}
		records[i] = record
	}

	path, err := e.csv.WriteSimpleCSV(config.QuarterlyHousingFile, headers, records)
	if err != nil {
		return "", apperrors.NewStorageError("write quarterly housing table", err)
	}
	return path, nil
}

// ExportPriceRatios writes the per-region ratios and their group
func (e *ReportExporter) ExportPriceRatios(ratios []analysis.ClassifiedRatio) (string, error) {
	records := make([][]string, len(ratios))
	for i, r := range ratios {
		records[i] = []string{r.Key.State, r.Key.RegionName, formatRatio(r.Ratio), string(r.Group)}
	}

	path, err := e.csv.WriteSimpleCSV(config.PriceRatiosFile,
		[]string{"State", "RegionName", "PriceRatio", "Group"}, records)
	if err != nil {
		return "", apperrors.NewStorageError("write price ratios", err)
	}
	return path, nil
}

// ExportResult writes the report as indented JSON
func (e *ReportExporter) ExportResult(report Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", apperrors.NewStorageError("encode test result", err)
	}

	path := filepath.Join(e.dir, config.ResultFile)
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", apperrors.NewStorageError("create output directory", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", apperrors.NewStorageError(fmt.Sprintf("write %s", config.ResultFile), err)
	}

	e.logger.Info("Wrote test result", slog.String("path", path))
	return path, nil
}
