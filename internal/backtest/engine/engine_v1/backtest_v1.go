package engine

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-performance/internal/backtest/engine"
	"github.com/rxtech-lab/argo-performance/internal/datasource"
	"github.com/rxtech-lab/argo-performance/internal/logger"
	"github.com/rxtech-lab/argo-performance/internal/performance"
	"github.com/rxtech-lab/argo-performance/internal/types"
	"github.com/rxtech-lab/argo-performance/internal/version"
	"github.com/rxtech-lab/argo-performance/internal/writer"
	"github.com/rxtech-lab/argo-performance/pkg/errors"
	"go.uber.org/zap"
)

// totalStages is the number of OnProcessData notifications per run:
// load, compute, summarize, write
const totalStages = 4

type BacktestEngineV1 struct {
	config        performance.Config
	initialized   bool
	pricePath     string
	signalPath    string
	resultsFolder string
	log           *logger.Logger
	datasource    datasource.DataSource
}

func NewBacktestEngineV1() engine.Engine {
	return &BacktestEngineV1{
		config:        performance.DefaultConfig(),
		initialized:   false,
		pricePath:     "",
		signalPath:    "",
		resultsFolder: "",
		log:           nil,
		datasource:    nil,
	}
}

// NewBacktestEngineV1WithLogger creates an engine that logs to the given logger
// instead of creating a production logger on Initialize.
func NewBacktestEngineV1WithLogger(log *logger.Logger) engine.Engine {
	b := NewBacktestEngineV1().(*BacktestEngineV1)
	b.log = log

	return b
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	if b.log == nil {
		var loggerError error

		b.log, loggerError = logger.NewLogger()
		if loggerError != nil {
			return loggerError
		}
	}

	parsed, err := performance.ParseConfig(config)
	if err != nil {
		b.log.Error("Failed to parse config", zap.Error(err))

		return err
	}

	return b.SetConfig(parsed)
}

// SetConfig implements engine.Engine.
func (b *BacktestEngineV1) SetConfig(config performance.Config) error {
	if b.log == nil {
		b.log = logger.NewNopLogger()
	}

	if err := config.Validate(); err != nil {
		return err
	}

	b.config = config
	b.initialized = true

	b.log.Debug("Backtest engine initialized",
		zap.Float64("initial_capital", config.InitialCapital),
		zap.Float64("cost_rate", config.CostRate),
		zap.String("cost_model", string(config.CostModel)),
	)

	return nil
}

// SetDataPaths implements engine.Engine.
func (b *BacktestEngineV1) SetDataPaths(pricePath string, signalPath string) error {
	if pricePath == "" {
		return errors.New(errors.ErrCodeMissingParameter, "price path is required")
	}

	absPrice, err := filepath.Abs(pricePath)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidInput, err, "invalid price path %s", pricePath)
	}

	absSignal := ""
	if signalPath != "" {
		absSignal, err = filepath.Abs(signalPath)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidInput, err, "invalid signal path %s", signalPath)
		}
	}

	b.pricePath = absPrice
	b.signalPath = absSignal

	return nil
}

// SetResultsFolder implements engine.Engine.
func (b *BacktestEngineV1) SetResultsFolder(folder string) error {
	b.resultsFolder = folder

	return nil
}

// SetDataSource implements engine.Engine.
func (b *BacktestEngineV1) SetDataSource(dataSource datasource.DataSource) error {
	b.datasource = dataSource

	return nil
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	config := b.config

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to generate schema", err)
	}

	return schema, nil
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(ctx context.Context, callbacks engine.LifecycleCallbacks) (stats types.PerformanceStats, err error) {
	if err := b.preRunCheck(); err != nil {
		return types.PerformanceStats{}, err
	}

	runID := uuid.New().String()

	defer func() {
		if err != nil {
			stats = types.PerformanceStats{}

			b.log.Error("Backtest run failed",
				zap.String("run_id", runID),
				zap.Error(err),
			)
		}

		if callbacks.OnRunEnd != nil {
			(*callbacks.OnRunEnd)(runID, stats, err)
		}
	}()

	ds := b.datasource
	if ds == nil {
		ds, err = datasource.NewDataSource(":memory:", b.log)
		if err != nil {
			return types.PerformanceStats{}, err
		}
		defer ds.Close()
	}

	if err = ds.Initialize(b.pricePath, b.signalPath); err != nil {
		return types.PerformanceStats{}, err
	}

	start, end := b.config.StartTime, b.config.EndTime

	totalDataPoints, err := ds.Count(start, end)
	if err != nil {
		return types.PerformanceStats{}, err
	}

	if callbacks.OnRunStart != nil {
		if err = (*callbacks.OnRunStart)(runID, totalDataPoints); err != nil {
			return types.PerformanceStats{}, err
		}
	}

	prices, err := ds.ReadPrices(start, end)
	if err != nil {
		return types.PerformanceStats{}, err
	}

	signal, err := ds.ReadSignals(start, end)
	if err != nil {
		return types.PerformanceStats{}, err
	}

	if err = b.advance(ctx, callbacks, 1); err != nil {
		return types.PerformanceStats{}, err
	}

	result, err := performance.Run(prices, signal, b.config)
	if err != nil {
		return types.PerformanceStats{}, err
	}

	if err = b.advance(ctx, callbacks, 2); err != nil {
		return types.PerformanceStats{}, err
	}

	stats = b.buildStats(runID, result)

	if err = b.advance(ctx, callbacks, 3); err != nil {
		return types.PerformanceStats{}, err
	}

	if b.resultsFolder != "" {
		resultWriter := writer.NewDuckDBResultWriter(b.resultsFolder, b.log)
		stats.CurveFilePath = filepath.Join(resultWriter.RunFolder(runID), writer.CurveFileName)

		if err = resultWriter.Write(stats, result); err != nil {
			return types.PerformanceStats{}, err
		}
	}

	if err = b.advance(ctx, callbacks, totalStages); err != nil {
		return types.PerformanceStats{}, err
	}

	b.log.Info("Backtest run completed",
		zap.String("run_id", runID),
		zap.Int("periods", stats.NumberOfPeriods),
		zap.Float64("total_return", stats.TotalReturn),
		zap.Float64("max_drawdown", stats.MaxDrawdown),
		zap.Float64("total_costs", stats.TotalCosts),
	)

	return stats, nil
}

// advance reports stage progress and stops the run if the context is done.
func (b *BacktestEngineV1) advance(ctx context.Context, callbacks engine.LifecycleCallbacks, stage int) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Wrap(errors.ErrCodeRunCancelled, "backtest cancelled", ctxErr)
	}

	if callbacks.OnProcessData != nil {
		return (*callbacks.OnProcessData)(stage, totalStages)
	}

	return nil
}

func (b *BacktestEngineV1) buildStats(runID string, result performance.Result) types.PerformanceStats {
	stats := types.PerformanceStats{
		ID:              runID,
		Timestamp:       time.Now(),
		EngineVersion:   version.GetVersion(),
		PriceDataPath:   b.pricePath,
		SignalDataPath:  b.signalPath,
		InitialCapital:  b.config.InitialCapital,
		CostRate:        b.config.CostRate,
		CostModel:       string(b.config.CostModel),
		NumberOfPeriods: result.Prices.Len(),
		FinalEquity:     result.FinalEquity(),
		TotalReturn:     result.TotalReturn,
		MaxDrawdown:     result.MaxDrawdown,
		TotalCosts:      result.TotalCosts,
		Summary:         performance.Summarize(result, b.config),
	}

	if first := result.Prices.First(); first.IsSome() {
		stats.StartTime = first.Unwrap().Time
	}

	if last := result.Prices.Last(); last.IsSome() {
		stats.EndTime = last.Unwrap().Time
	}

	return stats.Round(b.config.DecimalPrecision)
}

func (b *BacktestEngineV1) preRunCheck() error {
	if !b.initialized {
		return errors.New(errors.ErrCodeRunnerNotReady, "engine is not initialized")
	}

	if b.pricePath == "" && b.datasource == nil {
		b.log.Error("No price data set")

		return errors.New(errors.ErrCodeRunnerNotReady, "no price data path or data source set")
	}

	return nil
}
