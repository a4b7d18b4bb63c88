package datasource

import (
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-performance/internal/types"
	"github.com/rxtech-lab/argo-performance/pkg/errors"
)

// InMemoryDataSource serves series that are already loaded, for programmatic
// callers and tests. Initialize ignores the paths.
type InMemoryDataSource struct {
	prices  types.Series
	signals types.Series
	closed  bool
	mu      sync.RWMutex
}

func NewInMemoryDataSource(prices types.Series, signals types.Series) *InMemoryDataSource {
	return &InMemoryDataSource{
		prices:  prices,
		signals: signals,
		closed:  false,
		mu:      sync.RWMutex{},
	}
}

// Initialize implements DataSource.
func (ds *InMemoryDataSource) Initialize(pricePath string, signalPath string) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.closed = false

	return nil
}

// ReadPrices implements DataSource.
func (ds *InMemoryDataSource) ReadPrices(start optional.Option[time.Time], end optional.Option[time.Time]) (types.Series, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	if ds.closed {
		return nil, errors.New(errors.ErrCodeDataSourceUnavailable, "data source is closed")
	}

	return ds.prices.Between(start, end), nil
}

// ReadSignals implements DataSource.
func (ds *InMemoryDataSource) ReadSignals(start optional.Option[time.Time], end optional.Option[time.Time]) (types.Series, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	if ds.closed {
		return nil, errors.New(errors.ErrCodeDataSourceUnavailable, "data source is closed")
	}

	return ds.signals.Between(start, end), nil
}

// Count implements DataSource.
func (ds *InMemoryDataSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	prices, err := ds.ReadPrices(start, end)
	if err != nil {
		return 0, err
	}

	return prices.Len(), nil
}

// Close implements DataSource.
func (ds *InMemoryDataSource) Close() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.closed = true

	return nil
}
