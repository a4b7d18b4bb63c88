package writer

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-performance/internal/logger"
	"github.com/rxtech-lab/argo-performance/internal/performance"
	"github.com/rxtech-lab/argo-performance/internal/types"
	"github.com/rxtech-lab/argo-performance/pkg/errors"
	"go.uber.org/zap"
)

// DuckDBResultWriter stages the curve in an in-memory DuckDB table and
// exports it with COPY ... (FORMAT PARQUET).
type DuckDBResultWriter struct {
	resultsFolder string
	logger        *logger.Logger
}

func NewDuckDBResultWriter(resultsFolder string, logger *logger.Logger) ResultWriter {
	return &DuckDBResultWriter{
		resultsFolder: resultsFolder,
		logger:        logger,
	}
}

// RunFolder implements ResultWriter.
func (w *DuckDBResultWriter) RunFolder(runID string) string {
	return filepath.Join(w.resultsFolder, runID)
}

// Write implements ResultWriter.
func (w *DuckDBResultWriter) Write(stats types.PerformanceStats, result performance.Result) error {
	if w.resultsFolder == "" {
		return errors.New(errors.ErrCodeNoResultsDir, "results folder is not set")
	}

	folder := w.RunFolder(stats.ID)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to create run folder %s", folder)
	}

	curvePath := filepath.Join(folder, CurveFileName)
	if err := writeCurve(curvePath, result); err != nil {
		return err
	}

	stats.CurveFilePath = curvePath

	statsPath := filepath.Join(folder, StatsFileName)
	if err := types.WritePerformanceStats(statsPath, []types.PerformanceStats{stats}); err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to write stats", err)
	}

	w.logger.Info("Results written",
		zap.String("run_id", stats.ID),
		zap.String("curve", curvePath),
		zap.String("stats", statsPath),
		zap.Int("rows", result.Prices.Len()),
	)

	return nil
}

func writeCurve(path string, result performance.Result) (err error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to open DuckDB", err)
	}
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE curve (
			time TIMESTAMP,
			price DOUBLE,
			signal DOUBLE,
			asset_return DOUBLE,
			gross_return DOUBLE,
			turnover DOUBLE,
			cost_drag DOUBLE,
			strategy_return DOUBLE,
			equity DOUBLE,
			drawdown DOUBLE
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to create curve table", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to begin transaction", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO curve VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to prepare statement", err)
	}
	defer stmt.Close()

	for i, price := range result.Prices {
		_, err = stmt.Exec(
			price.Time,
			price.Value,
			valueAt(result.Signal, i),
			valueAt(result.AssetReturns, i),
			valueAt(result.GrossReturns, i),
			valueAt(result.Turnover, i),
			valueAt(result.CostDrag, i),
			valueAt(result.StrategyReturns, i),
			valueAt(result.EquityCurve, i),
			valueAt(result.DrawdownCurve, i),
		)
		if err != nil {
			tx.Rollback()

			return errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to insert row %d", i)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to commit transaction", err)
	}

	escaped := strings.ReplaceAll(path, "'", "''")
	if _, err = db.Exec(fmt.Sprintf(`COPY curve TO '%s' (FORMAT PARQUET)`, escaped)); err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to export curve to parquet", err)
	}

	return nil
}

func valueAt(series types.Series, i int) float64 {
	if i >= len(series) {
		return 0
	}

	return series[i].Value
}
