package performance

import (
	"math"

	"github.com/rxtech-lab/argo-performance/internal/types"
	"github.com/rxtech-lab/argo-performance/pkg/errors"
)

// ValidatePrices rejects price series the pipeline cannot compute on.
func ValidatePrices(prices types.Series) error {
	if prices.Len() == 0 {
		return errors.NewInvalidInputError(errors.ErrCodeEmptySeries, "prices", "price series is empty")
	}

	if idx := prices.FirstUnordered(); idx >= 0 {
		return errors.NewInvalidInputErrorf(errors.ErrCodeUnalignedSeries, "prices",
			"timestamp at index %d (%s) is not after the previous one", idx, prices[idx].Time)
	}

	for i, p := range prices {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			return errors.NewInvalidInputErrorf(errors.ErrCodeNonFiniteValue, "prices",
				"price at index %d is %v", i, p.Value)
		}

		if p.Value <= 0 {
			return errors.NewInvalidInputErrorf(errors.ErrCodeNonPositivePrice, "prices",
				"price at index %d is %v", i, p.Value)
		}
	}

	return nil
}

// Align reindexes the signal onto the price timestamps. Price timestamps
// without a signal entry get 0 (no position), NaN signal values become 0 and
// signal timestamps outside the price index are dropped. Both series must be
// strictly increasing by time.
func Align(prices types.Series, signal types.Series) (types.Series, error) {
	if idx := prices.FirstUnordered(); idx >= 0 {
		return nil, errors.NewInvalidInputErrorf(errors.ErrCodeUnalignedSeries, "prices",
			"timestamp at index %d (%s) is not after the previous one", idx, prices[idx].Time)
	}

	if idx := signal.FirstUnordered(); idx >= 0 {
		return nil, errors.NewInvalidInputErrorf(errors.ErrCodeUnalignedSeries, "signal",
			"timestamp at index %d (%s) is not after the previous one", idx, signal[idx].Time)
	}

	aligned := make(types.Series, prices.Len())
	j := 0

	for i, p := range prices {
		aligned[i] = types.Point{Time: p.Time, Value: 0}

		for j < signal.Len() && signal[j].Time.Before(p.Time) {
			j++
		}

		if j < signal.Len() && signal[j].Time.Equal(p.Time) {
			value := signal[j].Value
			if math.IsInf(value, 0) {
				return nil, errors.NewInvalidInputErrorf(errors.ErrCodeNonFiniteValue, "signal",
					"signal at %s is %v", p.Time, value)
			}

			if !math.IsNaN(value) {
				aligned[i].Value = value
			}
		}
	}

	return aligned, nil
}
