// Command hypothesis tests whether housing prices in university towns held
// up better than elsewhere during the recession located in the GDP series.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"unihousing/internal/config"
	"unihousing/internal/infrastructure"
	"unihousing/internal/operations"
	"unihousing/pkg/contracts/domain"
)

// Exit codes
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	configPath string
	towns      string
	gdp        string
	housing    string
	out        string
	endRule    string
	variance   string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("hypothesis", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "config file (defaults to unihousing.yaml or configs/unihousing.yaml when present)")
	fs.StringVar(&opts.towns, "towns", "", "university town list")
	fs.StringVar(&opts.gdp, "gdp", "", "quarterly GDP workbook (.xlsx or .csv)")
	fs.StringVar(&opts.housing, "housing", "", "monthly housing price CSV")
	fs.StringVar(&opts.out, "out", "", "directory for the report files")
	fs.StringVar(&opts.endRule, "end-rule", "", "recession end rule: minimum-gap | largest-gap")
	fs.StringVar(&opts.variance, "variance", "", "t-test variance assumption: pooled | welch")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

// apply overrides configuration with the flags that were set
func (o options) apply(cfg *config.Config) error {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Inputs.TownsFile, o.towns)
	set(&cfg.Inputs.GDPFile, o.gdp)
	set(&cfg.Inputs.HousingFile, o.housing)
	set(&cfg.Output.Dir, o.out)
	set(&cfg.Analysis.EndRule, o.endRule)
	set(&cfg.Analysis.Variance, o.variance)
	return cfg.Validate()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	cfg, err := config.Load(opts.configPath)
	if err == nil {
		err = opts.apply(cfg)
	}
	if err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return exitUsage
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return exitFailed
	}
	defer infrastructure.CloseLogFile()

	ctx, runID := infrastructure.EnsureTraceID(ctx)

	tel, err := infrastructure.InitializeTelemetry(cfg.Telemetry, logger)
	if err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Failed to initialize telemetry")
		return exitFailed
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			infrastructure.WithError(logger, err).Warn("Telemetry shutdown failed")
		}
	}()

	metrics, err := infrastructure.CreateStepMetrics(tel.Meter)
	if err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Failed to create step metrics")
		return exitFailed
	}

	logger.InfoContext(ctx, "Starting university town analysis",
		slog.String("version", config.AppVersion),
		slog.String("towns", cfg.Inputs.TownsFile),
		slog.String("gdp", cfg.Inputs.GDPFile),
		slog.String("housing", cfg.Inputs.HousingFile),
		slog.String("end_rule", cfg.Analysis.EndRule),
		slog.String("variance", cfg.Analysis.Variance),
		slog.Float64("alpha", cfg.Analysis.Alpha))

	registry, err := operations.NewAnalysisRegistry(cfg, logger)
	if err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Failed to build analysis steps")
		return exitFailed
	}

	state, runErr := operations.NewManager(registry, tel.Tracer, metrics, logger).Run(ctx, runID)

	if err := tel.WriteMetrics(cfg.Telemetry.MetricsFile); err != nil {
		infrastructure.WithError(logger, err).WarnContext(ctx, "Failed to write metrics")
	}

	if runErr != nil {
		fmt.Fprintf(stderr, "analysis failed: %v\n", runErr)
		return exitFailed
	}

	result, _ := state.Result()
	fmt.Fprintln(stdout, formatResult(result))
	return exitOK
}

// formatResult renders the (different, p-value, better) tuple
func formatResult(r domain.TestResult) string {
	return fmt.Sprintf("(%t, %g, %q)", r.Different, r.PValue, string(r.Better))
}
