package types

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-performance/pkg/errors"
)

// Point is a single timestamped observation of a series.
type Point struct {
	// Time is the timestamp of the observation
	Time time.Time `yaml:"time" json:"time"`
	// Value is the observed value (a price, a signal, an equity value...)
	Value float64 `yaml:"value" json:"value"`
}

// Series is an ordered sequence of points. Series produced by this module are
// strictly increasing by Time.
type Series []Point

// NewSeries zips timestamps and values into a Series.
func NewSeries(times []time.Time, values []float64) (Series, error) {
	if len(times) != len(values) {
		return nil, errors.NewInvalidInputErrorf(errors.ErrCodeUnalignedSeries, "series",
			"got %d timestamps and %d values", len(times), len(values))
	}

	series := make(Series, len(times))
	for i := range times {
		series[i] = Point{Time: times[i], Value: values[i]}
	}

	return series, nil
}

// Len returns the number of points.
func (s Series) Len() int {
	return len(s)
}

// Values returns the values of the series in order.
func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Value
	}

	return values
}

// Times returns the timestamps of the series in order.
func (s Series) Times() []time.Time {
	times := make([]time.Time, len(s))
	for i, p := range s {
		times[i] = p.Time
	}

	return times
}

// First returns the first point, if any.
func (s Series) First() optional.Option[Point] {
	if len(s) == 0 {
		return optional.None[Point]()
	}

	return optional.Some(s[0])
}

// Last returns the last point, if any.
func (s Series) Last() optional.Option[Point] {
	if len(s) == 0 {
		return optional.None[Point]()
	}

	return optional.Some(s[len(s)-1])
}

// FirstUnordered returns the index of the first point whose timestamp is not
// strictly after its predecessor, or -1 when the series is sorted and unique.
func (s Series) FirstUnordered() int {
	for i := 1; i < len(s); i++ {
		if !s[i].Time.After(s[i-1].Time) {
			return i
		}
	}

	return -1
}

// Between returns the points within [start, end]. Unset bounds are open.
func (s Series) Between(start optional.Option[time.Time], end optional.Option[time.Time]) Series {
	out := make(Series, 0, len(s))

	for _, p := range s {
		if start.IsSome() && p.Time.Before(start.Unwrap()) {
			continue
		}

		if end.IsSome() && p.Time.After(end.Unwrap()) {
			continue
		}

		out = append(out, p)
	}

	return out
}
