package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultTownsFile, cfg.Inputs.TownsFile)
	assert.Equal(t, DefaultGDPFile, cfg.Inputs.GDPFile)
	assert.Equal(t, DefaultHousingFile, cfg.Inputs.HousingFile)
	assert.Equal(t, 0.01, cfg.Analysis.Alpha)
	assert.Equal(t, VariancePooled, cfg.Analysis.Variance)
	assert.Equal(t, EndRuleMinimumGap, cfg.Analysis.EndRule)
	assert.Equal(t, "none", cfg.Telemetry.TraceExporter)

	assert.Equal(t, "[edit]", cfg.Schema.Towns.HeaderMarker)
	assert.Equal(t, 4, cfg.Schema.GDP.SkipRows)
	assert.Equal(t, 212, cfg.Schema.GDP.StartOffset)
	assert.Equal(t, "2000q1", cfg.Schema.GDP.StartQuarter)
	assert.Equal(t, "2000-01", cfg.Schema.Housing.FirstMonth)
	assert.Equal(t, []string{"RegionID", "Metro", "CountyName", "SizeRank"}, cfg.Schema.Housing.DropColumns)

	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		yaml        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults without file or env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultGDPFile, cfg.Inputs.GDPFile)
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
		{
			name: "file overlays defaults",
			yaml: `
inputs:
  gdp_file: data/gdp.csv
analysis:
  variance: welch
schema:
  gdp:
    start_offset: 10
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "data/gdp.csv", cfg.Inputs.GDPFile)
				assert.Equal(t, DefaultTownsFile, cfg.Inputs.TownsFile)
				assert.Equal(t, VarianceWelch, cfg.Analysis.Variance)
				assert.Equal(t, 10, cfg.Schema.GDP.StartOffset)
				assert.Equal(t, 4, cfg.Schema.GDP.SkipRows)
			},
		},
		{
			name: "env overrides file",
			yaml: `
analysis:
  alpha: 0.05
`,
			env: map[string]string{
				"UNIHOUSING_ANALYSIS_ALPHA":              "0.02",
				"UNIHOUSING_ANALYSIS_END_RULE":           "largest-gap",
				"UNIHOUSING_SCHEMA_HOUSING_DROP_COLUMNS": "RegionID,Metro",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 0.02, cfg.Analysis.Alpha)
				assert.Equal(t, EndRuleLargestGap, cfg.Analysis.EndRule)
				assert.Equal(t, []string{"RegionID", "Metro"}, cfg.Schema.Housing.DropColumns)
			},
		},
		{
			name:    "invalid alpha",
			env:     map[string]string{"UNIHOUSING_ANALYSIS_ALPHA": "1.5"},
			wantErr: true,
		},
		{
			name:    "unknown variance",
			yaml:    "analysis:\n  variance: bayes\n",
			wantErr: true,
		},
		{
			name:    "data row before header row",
			yaml:    "schema:\n  gdp:\n    header_row: 3\n    data_row: 2\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			yaml:    "analysis: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// .env lookup is relative to the working directory
			chdir(t, t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.yaml != "" {
				path = filepath.Join(t.TempDir(), "unihousing.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0644))
			}

			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("UNIHOUSING_INPUTS_TOWNS_FILE=towns.txt\n"), 0644))
	// godotenv never overwrites variables already set; register cleanup for the one it sets
	t.Setenv("UNIHOUSING_INPUTS_TOWNS_FILE", "")
	require.NoError(t, os.Unsetenv("UNIHOUSING_INPUTS_TOWNS_FILE"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "towns.txt", cfg.Inputs.TownsFile)
}

func TestValidateTraceFile(t *testing.T) {
	cfg := Default()
	cfg.Telemetry.TraceExporter = "file"
	assert.Error(t, cfg.Validate())

	cfg.Telemetry.TraceFile = "trace.json"
	assert.NoError(t, cfg.Validate())
}

func TestValidateFillsLogPath(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "both"
	cfg.Logging.Format = "text"

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "logs/unihousing.log", cfg.Logging.FilePath)
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
