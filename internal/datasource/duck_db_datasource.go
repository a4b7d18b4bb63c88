package datasource

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-performance/internal/logger"
	"github.com/rxtech-lab/argo-performance/internal/types"
	"github.com/rxtech-lab/argo-performance/pkg/errors"
	"go.uber.org/zap"
)

const (
	priceView  = "prices"
	signalView = "signals"
)

type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDataSource creates a new DuckDB data source backed by the database at path
// (":memory:" for an in-process database). Files are attached with Initialize.
func NewDataSource(path string, logger *logger.Logger) (DataSource, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open DuckDB", err)
	}

	return &DuckDBDataSource{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize implements DataSource.
func (d *DuckDBDataSource) Initialize(pricePath string, signalPath string) error {
	d.logger.Debug("Initializing DuckDB data source",
		zap.String("price_path", pricePath),
		zap.String("signal_path", signalPath),
	)

	priceReader, err := fileReader(pricePath)
	if err != nil {
		return err
	}

	if err := d.createView(priceView, PriceColumn, priceReader); err != nil {
		return err
	}

	if signalPath == "" {
		// Views can't be created without a source, so use an empty select with the same columns
		_, err := d.db.Exec(fmt.Sprintf(`
			CREATE OR REPLACE VIEW %s AS
			SELECT CAST(NULL AS TIMESTAMP) AS time, CAST(NULL AS DOUBLE) AS value
			WHERE false;
		`, signalView))
		if err != nil {
			return errors.Wrap(errors.ErrCodeQueryFailed, "failed to create empty signal view", err)
		}

		return nil
	}

	signalReader, err := fileReader(signalPath)
	if err != nil {
		return err
	}

	return d.createView(signalView, SignalColumn, signalReader)
}

func (d *DuckDBDataSource) createView(view string, column string, reader string) error {
	// Using raw SQL as Squirrel doesn't support CREATE VIEW
	query := fmt.Sprintf(`
		CREATE OR REPLACE VIEW %s AS
		SELECT CAST(%s AS TIMESTAMP) AS time, CAST(%s AS DOUBLE) AS value
		FROM %s;
	`, view, TimeColumn, column, reader)

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to create %s view", view)
	}

	return nil
}

// fileReader returns the DuckDB table function reading the file.
func fileReader(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", errors.Wrapf(errors.ErrCodeDataNotFound, err, "data file %s", path)
	}

	escaped := strings.ReplaceAll(path, "'", "''")

	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return fmt.Sprintf("read_parquet('%s')", escaped), nil
	case ".csv":
		return fmt.Sprintf("read_csv_auto('%s', header = true)", escaped), nil
	default:
		return "", errors.Newf(errors.ErrCodeUnsupportedFormat, "unsupported data file format: %s", path)
	}
}

// ReadPrices implements DataSource.
func (d *DuckDBDataSource) ReadPrices(start optional.Option[time.Time], end optional.Option[time.Time]) (types.Series, error) {
	return d.readSeries(priceView, start, end)
}

// ReadSignals implements DataSource.
func (d *DuckDBDataSource) ReadSignals(start optional.Option[time.Time], end optional.Option[time.Time]) (types.Series, error) {
	return d.readSeries(signalView, start, end)
}

func (d *DuckDBDataSource) readSeries(view string, start optional.Option[time.Time], end optional.Option[time.Time]) (types.Series, error) {
	query, args, err := withRange(d.sq.Select("time", "value").From(view), start, end).
		OrderBy("time ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read %s", view)
	}
	defer rows.Close()

	var series types.Series

	for rows.Next() {
		var (
			timestamp time.Time
			value     sql.NullFloat64
		)

		if err := rows.Scan(&timestamp, &value); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to scan %s row", view)
		}

		point := types.Point{Time: timestamp, Value: math.NaN()}
		if value.Valid {
			point.Value = value.Float64
		}

		series = append(series, point)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to iterate %s", view)
	}

	d.logger.Debug("Read series from DuckDB",
		zap.String("view", view),
		zap.Int("rows", len(series)),
	)

	return series, nil
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	query, args, err := withRange(d.sq.Select("COUNT(*)").From(priceView), start, end).ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	var count int
	if err := d.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count prices", err)
	}

	return count, nil
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	return d.db.Close()
}

func withRange(builder squirrel.SelectBuilder, start optional.Option[time.Time], end optional.Option[time.Time]) squirrel.SelectBuilder {
	if start.IsSome() {
		builder = builder.Where(squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		builder = builder.Where(squirrel.LtOrEq{"time": end.Unwrap()})
	}

	return builder
}
