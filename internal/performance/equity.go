package performance

import "math"

// EquityCurve compounds the returns from initialCapital:
// E[t] = initialCapital * prod_{k<=t}(1 + r[k]). Non-finite returns count as 0.
func EquityCurve(returns []float64, initialCapital float64) []float64 {
	equity := make([]float64, len(returns))
	growth := 1.0

	for t, r := range returns {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			r = 0
		}

		growth *= 1 + r
		equity[t] = initialCapital * growth
	}

	return equity
}

// RunningMax returns max(equity[0..t]) for every t.
func RunningMax(equity []float64) []float64 {
	peaks := make([]float64, len(equity))

	for t, e := range equity {
		if t == 0 || e > peaks[t-1] {
			peaks[t] = e
		} else {
			peaks[t] = peaks[t-1]
		}
	}

	return peaks
}

// Drawdown is the relative decline from the running peak, (E[t]-peak[t])/peak[t].
// It is always <= 0 and exactly 0 when the equity sits at its peak.
func Drawdown(equity []float64) []float64 {
	peaks := RunningMax(equity)
	drawdown := make([]float64, len(equity))

	for t, e := range equity {
		if e >= peaks[t] || peaks[t] <= 0 {
			drawdown[t] = 0

			continue
		}

		drawdown[t] = (e - peaks[t]) / peaks[t]
	}

	return drawdown
}

// MaxDrawdown is the most negative drawdown value, 0 for an empty curve.
func MaxDrawdown(drawdown []float64) float64 {
	maxDrawdown := 0.0
	for _, d := range drawdown {
		if d < maxDrawdown {
			maxDrawdown = d
		}
	}

	return maxDrawdown
}
