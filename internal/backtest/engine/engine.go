package engine

import (
	"context"

	"github.com/rxtech-lab/argo-performance/internal/datasource"
	"github.com/rxtech-lab/argo-performance/internal/performance"
	"github.com/rxtech-lab/argo-performance/internal/types"
)

// Lifecycle callback types for a backtest run
// Callbacks with an error return abort the run if they return an error

// OnRunStartCallback is called once the data is loaded, before any computation.
// runID is a unique identifier for this run, generated before processing starts.
type OnRunStartCallback func(runID string, totalDataPoints int) error

// OnRunEndCallback is called when the run ends (always called via defer).
// stats is the zero value when err is not nil.
type OnRunEndCallback func(runID string, stats types.PerformanceStats, err error)

// OnProcessDataCallback is called after each stage of the run.
type OnProcessDataCallback func(current int, total int) error

// LifecycleCallbacks holds all lifecycle callback functions for the backtest engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnRunStart    *OnRunStartCallback
	OnRunEnd      *OnRunEndCallback
	OnProcessData *OnProcessDataCallback
}

type Engine interface {
	// Initialize the engine with the given YAML configuration. Empty content uses the defaults.
	Initialize(config string) error
	// SetConfig sets the configuration directly, as an alternative to Initialize for programmatic usage.
	SetConfig(config performance.Config) error
	// SetDataPaths sets the price file and the signal file (parquet or csv).
	// An empty signal path runs the backtest with no position.
	SetDataPaths(pricePath string, signalPath string) error
	// SetResultsFolder sets the output directory. Each run writes to <folder>/<run id>.
	// An empty folder disables writing.
	SetResultsFolder(folder string) error
	// SetDataSource sets the data source for the engine. When no data source is set
	// an in-memory DuckDB source is created per run.
	SetDataSource(dataSource datasource.DataSource) error
	// Run loads the data, computes the performance and writes the results.
	// The context can be used to cancel the run between stages.
	Run(ctx context.Context, callbacks LifecycleCallbacks) (types.PerformanceStats, error)
	// GetConfigSchema returns the JSON schema of the engine configuration
	GetConfigSchema() (string, error)
}
