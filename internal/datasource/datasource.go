package datasource

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-performance/internal/types"
)

const (
	// PriceColumn is the column read from price files
	PriceColumn = "close"
	// SignalColumn is the column read from signal files
	SignalColumn = "signal"
	// TimeColumn is the timestamp column of both files
	TimeColumn = "time"
)

type DataSource interface {
	// Initialize loads the price file and the optional signal file (parquet or csv).
	// An empty signalPath means no position at all.
	Initialize(pricePath string, signalPath string) error
	// ReadPrices returns the close prices within the range, ordered by time.
	ReadPrices(start optional.Option[time.Time], end optional.Option[time.Time]) (types.Series, error)
	// ReadSignals returns the signal values within the range, ordered by time.
	// Missing values are returned as NaN.
	ReadSignals(start optional.Option[time.Time], end optional.Option[time.Time]) (types.Series, error)
	// Count returns the number of price rows within the range.
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// Close releases any resources held by the data source.
	Close() error
}
