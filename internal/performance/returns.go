package performance

import "math"

// AssetReturns computes p[t]/p[t-1] - 1 with the first period set to 0.
func AssetReturns(prices []float64) []float64 {
	returns := make([]float64, len(prices))
	for t := 1; t < len(prices); t++ {
		returns[t] = prices[t]/prices[t-1] - 1
	}

	return returns
}

// GrossReturns applies yesterday's exposure to today's asset return:
// g[t] = s[t-1] * r[t], g[0] = 0.
func GrossReturns(signal []float64, assetReturns []float64) []float64 {
	gross := make([]float64, len(assetReturns))
	for t := 1; t < len(assetReturns) && t <= len(signal); t++ {
		gross[t] = signal[t-1] * assetReturns[t]
	}

	return gross
}

// Turnover is the absolute change in exposure, u[t] = |s[t] - s[t-1]|, u[0] = 0.
func Turnover(signal []float64) []float64 {
	turnover := make([]float64, len(signal))
	for t := 1; t < len(signal); t++ {
		turnover[t] = math.Abs(signal[t] - signal[t-1])
	}

	return turnover
}

// CostDrag converts turnover into a per-period cost using the given model.
func CostDrag(turnover []float64, model CostModel) []float64 {
	drag := make([]float64, len(turnover))
	for t, u := range turnover {
		drag[t] = model.Calculate(u)
	}

	return drag
}

// NetReturns subtracts the cost drag from the gross returns.
func NetReturns(gross []float64, drag []float64) []float64 {
	net := make([]float64, len(gross))
	for t := range gross {
		net[t] = gross[t]
		if t < len(drag) {
			net[t] -= drag[t]
		}
	}

	return net
}

// Sum adds up the values, skipping non-finite entries.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}

		total += v
	}

	return total
}
