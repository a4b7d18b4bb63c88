package writer

import (
	"github.com/rxtech-lab/argo-performance/internal/performance"
	"github.com/rxtech-lab/argo-performance/internal/types"
)

const (
	// CurveFileName is the per-period table written for every run
	CurveFileName = "curve.parquet"
	// StatsFileName is the summary report written for every run
	StatsFileName = "stats.yaml"
)

// ResultWriter persists the outcome of one backtest run.
type ResultWriter interface {
	// RunFolder returns the folder the run's files are written to.
	RunFolder(runID string) string
	// Write writes the curve table and the stats report into the run folder.
	Write(stats types.PerformanceStats, result performance.Result) error
}
