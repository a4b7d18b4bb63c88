package performance

import (
	"math"

	"github.com/rxtech-lab/argo-performance/internal/types"
	"gonum.org/v1/gonum/stat"
)

// Summarize derives the secondary risk and activity metrics of a run.
func Summarize(result Result, config Config) types.PerformanceSummary {
	n := result.EquityCurve.Len()
	if n == 0 {
		return types.PerformanceSummary{}
	}

	// the first period never carries a return
	returns := result.StrategyReturns.Values()[1:]
	annualizer := math.Sqrt(float64(config.PeriodsPerYear))

	annualized := AnnualizedReturn(result.TotalReturn, n-1, config.PeriodsPerYear)

	summary := types.PerformanceSummary{
		AnnualizedReturn:    annualized,
		Volatility:          StdDev(returns) * annualizer,
		SharpeRatio:         SharpeRatio(returns, config.PeriodsPerYear),
		SortinoRatio:        SortinoRatio(returns, config.PeriodsPerYear),
		CalmarRatio:         0,
		MaxDrawdownDuration: MaxDrawdownDuration(result.DrawdownCurve.Values()),
		NumberOfTrades:      countPositive(result.Turnover.Values()),
		Exposure:            Exposure(result.Signal.Values()),
		BuyAndHoldReturn:    0,
	}

	if result.MaxDrawdown < 0 {
		summary.CalmarRatio = annualized / math.Abs(result.MaxDrawdown)
	}

	if first, last := result.Prices.First(), result.Prices.Last(); first.IsSome() && last.IsSome() {
		summary.BuyAndHoldReturn = last.Unwrap().Value/first.Unwrap().Value - 1
	}

	return summary
}

// AnnualizedReturn compounds totalReturn earned over the given number of
// periods to a yearly rate. A total loss of 100% or more annualizes to -1.
func AnnualizedReturn(totalReturn float64, periods int, periodsPerYear int) float64 {
	if periods <= 0 || periodsPerYear <= 0 {
		return 0
	}

	growth := 1 + totalReturn
	if growth <= 0 {
		return -1
	}

	return math.Pow(growth, float64(periodsPerYear)/float64(periods)) - 1
}

// Mean is the arithmetic mean, 0 for no values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	return stat.Mean(values, nil)
}

// StdDev is the sample standard deviation, 0 for fewer than two values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	return stat.StdDev(values, nil)
}

// DownsideDeviation is sqrt(mean(min(r, 0)^2)).
func DownsideDeviation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0

	for _, v := range values {
		if v < 0 {
			sum += v * v
		}
	}

	return math.Sqrt(sum / float64(len(values)))
}

func SharpeRatio(returns []float64, periodsPerYear int) float64 {
	std := StdDev(returns)
	if std == 0 {
		return 0
	}

	return Mean(returns) / std * math.Sqrt(float64(periodsPerYear))
}

func SortinoRatio(returns []float64, periodsPerYear int) float64 {
	downside := DownsideDeviation(returns)
	if downside == 0 {
		return 0
	}

	return Mean(returns) / downside * math.Sqrt(float64(periodsPerYear))
}

// MaxDrawdownDuration is the longest run of consecutive periods below a prior peak.
func MaxDrawdownDuration(drawdown []float64) int {
	longest, current := 0, 0

	for _, d := range drawdown {
		if d < 0 {
			current++
			longest = max(longest, current)
		} else {
			current = 0
		}
	}

	return longest
}

// Exposure is the fraction of periods 1..n-1 entered with a non-zero position
// (the lagged signal).
func Exposure(signal []float64) float64 {
	if len(signal) < 2 {
		return 0
	}

	held := 0

	for t := 1; t < len(signal); t++ {
		if signal[t-1] != 0 {
			held++
		}
	}

	return float64(held) / float64(len(signal)-1)
}

func countPositive(values []float64) int {
	count := 0

	for _, v := range values {
		if v > 0 {
			count++
		}
	}

	return count
}
