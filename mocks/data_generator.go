package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-performance/internal/types"
)

// DataGenerator generates realistic price and signal series for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how series are generated.
type GeneratorConfig struct {
	// StartTime is the beginning of the series
	StartTime time.Time
	// Interval is the duration between each bar
	Interval time.Duration
	// Count is the number of data points to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% per bar)
	Volatility float64
	// Trend is the total drift over the whole series (-0.5 to 0.5 for bearish to bullish)
	Trend float64
	// SignalLevels are the exposures a random signal picks from
	SignalLevels []float64
	// SignalHold is the average number of bars a random signal keeps its level
	SignalHold int
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		StartTime:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:     24 * time.Hour,
		Count:        1000,
		InitialPrice: 100.0,
		Volatility:   0.01,
		Trend:        0.0,
		SignalLevels: []float64{-1, 0, 1},
		SignalHold:   5,
	}
}

// GeneratePrices creates a strictly positive price series following a
// geometric Brownian motion.
func (g *DataGenerator) GeneratePrices(config GeneratorConfig) types.Series {
	series := make(types.Series, config.Count)
	price := config.InitialPrice
	current := config.StartTime

	for i := 0; i < config.Count; i++ {
		series[i] = types.Point{Time: current, Value: roundToDecimals(price, 4)}

		// Box-Muller transform for a normal draw
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(1-u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Count)
		next := price * (1 + config.Volatility*z + drift)
		if next <= 0 {
			next = price * 0.99
		}

		price = next
		current = current.Add(config.Interval)
	}

	return series
}

// GenerateSignal creates a piecewise-constant signal on the same timestamps
// the price generator would produce for the config.
func (g *DataGenerator) GenerateSignal(config GeneratorConfig) types.Series {
	series := make(types.Series, config.Count)
	current := config.StartTime
	levels := config.SignalLevels

	if len(levels) == 0 {
		levels = []float64{0}
	}

	hold := max(config.SignalHold, 1)
	level := levels[g.rng.Intn(len(levels))]

	for i := 0; i < config.Count; i++ {
		if g.rng.Intn(hold) == 0 {
			level = levels[g.rng.Intn(len(levels))]
		}

		series[i] = types.Point{Time: current, Value: level}
		current = current.Add(config.Interval)
	}

	return series
}

// ConstantSignal returns a signal holding value on every given timestamp.
func ConstantSignal(times []time.Time, value float64) types.Series {
	series := make(types.Series, len(times))
	for i, t := range times {
		series[i] = types.Point{Time: t, Value: value}
	}

	return series
}

// SeriesFromValues builds a daily series starting at start.
func SeriesFromValues(start time.Time, values ...float64) types.Series {
	series := make(types.Series, len(values))
	for i, v := range values {
		series[i] = types.Point{Time: start.AddDate(0, 0, i), Value: v}
	}

	return series
}

// Generate10K is a convenience function returning 10,000 prices and a
// matching random signal with default settings for benchmarking.
func Generate10K() (types.Series, types.Series) {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Count = 10000

	return gen.GeneratePrices(config), gen.GenerateSignal(config)
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
