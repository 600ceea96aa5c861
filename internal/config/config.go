package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Inputs    InputsConfig    `yaml:"inputs" envconfig:"INPUTS"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Schema    SchemaConfig    `yaml:"schema" envconfig:"SCHEMA"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
}

// InputsConfig locates the three input datasets
type InputsConfig struct {
	TownsFile   string `yaml:"towns_file" envconfig:"TOWNS_FILE" validate:"required"`
	GDPFile     string `yaml:"gdp_file" envconfig:"GDP_FILE" validate:"required"`
	HousingFile string `yaml:"housing_file" envconfig:"HOUSING_FILE" validate:"required"`
}

// OutputConfig controls the optional report files. An empty Dir disables them.
type OutputConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout stderr file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout file"`
	TraceFile     string `yaml:"trace_file" envconfig:"TRACE_FILE"`
	// MetricsFile receives the run metrics in Prometheus text format.
	// Empty disables the dump.
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// AnalysisConfig contains the statistical choices of the run
type AnalysisConfig struct {
	Alpha    float64 `yaml:"alpha" envconfig:"ALPHA" validate:"gt=0,lt=1"`
	Variance string  `yaml:"variance" envconfig:"VARIANCE" validate:"oneof=pooled welch"`
	EndRule  string  `yaml:"end_rule" envconfig:"END_RULE" validate:"oneof=minimum-gap largest-gap"`
}

// Load builds the configuration. Precedence, lowest first: Default(), the
// YAML file at path (or the first config file found in the usual
// locations when path is empty), a .env file, then UNIHOUSING_* variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// A missing .env is normal; only a malformed one is reported
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg. Keys absent from the file
// keep their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and normalizes logging settings
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return err
	}

	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if (c.Logging.Output == "file" || c.Logging.Output == "both") && c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/unihousing.log"
	}
	if c.Telemetry.TraceExporter == "file" && c.Telemetry.TraceFile == "" {
		return fmt.Errorf("telemetry trace_file is required for the file exporter")
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"unihousing.yaml",
		"configs/unihousing.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Inputs: InputsConfig{
			TownsFile:   DefaultTownsFile,
			GDPFile:     DefaultGDPFile,
			HousingFile: DefaultHousingFile,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
		Telemetry: TelemetryConfig{
			TraceExporter: "none",
		},
		Schema: DefaultSchema(),
		Analysis: AnalysisConfig{
			Alpha:    DefaultAlpha,
			Variance: VariancePooled,
			EndRule:  EndRuleMinimumGap,
		},
	}
}
