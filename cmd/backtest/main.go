package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rxtech-lab/argo-performance/internal/backtest/engine"
	engine_v1 "github.com/rxtech-lab/argo-performance/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-performance/internal/logger"
	"github.com/rxtech-lab/argo-performance/internal/performance"
	"github.com/rxtech-lab/argo-performance/internal/types"
	"github.com/rxtech-lab/argo-performance/internal/version"
	"github.com/rxtech-lab/argo-performance/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// loadConfig reads the optional config file and applies the flag overrides on top.
func loadConfig(cmd *cli.Command) (performance.Config, error) {
	content := ""

	if path := cmd.String("config"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return performance.Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
		}

		content = string(data)
	}

	config, err := performance.ParseConfig(content)
	if err != nil {
		return performance.Config{}, err
	}

	if cmd.IsSet("cost-rate") && cmd.IsSet("cost-bps") {
		return performance.Config{}, errors.New(errors.ErrCodeInvalidConfiguration, "--cost-rate and --cost-bps are mutually exclusive")
	}

	if cmd.IsSet("initial-capital") {
		config.InitialCapital = cmd.Float("initial-capital")
	}

	if cmd.IsSet("cost-rate") {
		config.CostRate = cmd.Float("cost-rate")
	}

	if cmd.IsSet("cost-bps") {
		config.CostRate = performance.CostRateFromBps(cmd.Float("cost-bps"))
	}

	if cmd.IsSet("cost-model") {
		config.CostModel = performance.CostModelType(cmd.String("cost-model"))
	}

	return config, config.Validate()
}

// signalFiles expands the signal glob. No pattern means a single run without a signal.
func signalFiles(pattern string) ([]string, error) {
	if pattern == "" {
		return []string{""}, nil
	}

	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidInput, err, "invalid signal pattern %s", pattern)
	}

	if len(files) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no signal files match %s", pattern)
	}

	return files, nil
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	level := zapcore.WarnLevel
	if cmd.Bool("verbose") {
		level = zapcore.DebugLevel
	}

	// stdout carries the YAML report
	log, err := logger.NewLoggerWithOutput(level, "stderr")
	if err != nil {
		return err
	}
	defer log.Sync()

	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	files, err := signalFiles(cmd.String("signals"))
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Running backtests"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetVisibility(!cmd.Bool("quiet")),
	)

	backtest := engine_v1.NewBacktestEngineV1WithLogger(log)
	if err := backtest.SetConfig(config); err != nil {
		return err
	}

	if err := backtest.SetResultsFolder(cmd.String("results")); err != nil {
		return err
	}

	allStats := make([]types.PerformanceStats, 0, len(files))

	for _, signalPath := range files {
		if err := backtest.SetDataPaths(cmd.String("prices"), signalPath); err != nil {
			return err
		}

		stats, err := backtest.Run(ctx, engine.LifecycleCallbacks{})
		if err != nil {
			log.Error("Backtest failed",
				zap.String("signal", signalPath),
				zap.Error(err),
			)

			return fmt.Errorf("backtest failed for %s: %w", signalPath, err)
		}

		allStats = append(allStats, stats)

		_ = bar.Add(1)
	}

	_ = bar.Finish()

	return printYAML(cmd.Root().Writer, allStats)
}

func printYAML(w io.Writer, stats []types.PerformanceStats) error {
	out, err := yaml.Marshal(stats)
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to marshal stats", err)
	}

	_, err = w.Write(out)

	return err
}

func schemaAction(ctx context.Context, cmd *cli.Command) error {
	config := performance.DefaultConfig()

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.Root().Writer, schema)

	return err
}

func newCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "backtest",
		Usage:   "Compute equity, drawdown and costs of a position signal over a price series",
		Version: version.GetVersion(),
		Writer:  out,
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run one backtest per signal file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "prices",
						Aliases:  []string{"p"},
						Usage:    "Price file (parquet or csv) with time and close columns",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "signals",
						Aliases: []string{"s"},
						Usage:   "Signal file glob (parquet or csv) with time and signal columns",
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to the YAML config",
					},
					&cli.StringFlag{
						Name:    "results",
						Aliases: []string{"r"},
						Usage:   "Folder the curve and stats of each run are written to",
					},
					&cli.FloatFlag{
						Name:  "initial-capital",
						Usage: "Capital the equity curve starts from",
					},
					&cli.FloatFlag{
						Name:  "cost-rate",
						Usage: "Fraction of notional charged per unit of turnover (0.001 = 10 bps)",
					},
					&cli.FloatFlag{
						Name:  "cost-bps",
						Usage: "Cost per unit of turnover in basis points",
					},
					&cli.StringFlag{
						Name:  "cost-model",
						Usage: fmt.Sprintf("Cost model (%s, %s)", performance.CostModelLinear, performance.CostModelZero),
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Hide the progress bar",
					},
					&cli.BoolFlag{
						Name:  "verbose",
						Usage: "Enable debug logging",
					},
				},
				Action: runAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the config",
				Action: schemaAction,
			},
		},
	}
}

func main() {
	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
