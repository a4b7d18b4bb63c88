package types

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type PerformanceSummary struct {
	// Annualized compound return.
	AnnualizedReturn float64 `yaml:"annualized_return" json:"annualized_return"`
	// Annualized standard deviation of the net strategy returns.
	Volatility float64 `yaml:"volatility" json:"volatility"`
	// Annualized mean / standard deviation of the net strategy returns.
	SharpeRatio float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	// Annualized mean / downside deviation of the net strategy returns.
	SortinoRatio float64 `yaml:"sortino_ratio" json:"sortino_ratio"`
	// Annualized return / |max drawdown|.
	CalmarRatio float64 `yaml:"calmar_ratio" json:"calmar_ratio"`
	// Longest run of consecutive periods spent below a previous equity peak.
	MaxDrawdownDuration int `yaml:"max_drawdown_duration" json:"max_drawdown_duration"`
	// Number of periods where the signal changed.
	NumberOfTrades int `yaml:"number_of_trades" json:"number_of_trades"`
	// Fraction of periods holding a non-zero position.
	Exposure float64 `yaml:"exposure" json:"exposure"`
	// Return of holding the asset from the first to the last price.
	BuyAndHoldReturn float64 `yaml:"buy_and_hold_return" json:"buy_and_hold_return"`
}

type PerformanceStats struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	// EngineVersion is the version of the engine that produced the report.
	EngineVersion string `yaml:"engine_version" json:"engine_version"`
	// PriceDataPath is the price file used for this run.
	PriceDataPath string `yaml:"price_data_path" json:"price_data_path"`
	// SignalDataPath is the signal file used for this run.
	SignalDataPath string `yaml:"signal_data_path" json:"signal_data_path"`
	// CurveFilePath is the path to the per-period curve parquet file.
	CurveFilePath string `yaml:"curve_file_path" json:"curve_file_path"`
	// InitialCapital is the capital the equity curve starts from.
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital"`
	// CostRate is the fraction of notional charged per unit of turnover.
	CostRate float64 `yaml:"cost_rate" json:"cost_rate"`
	// CostModel is the name of the cost model used.
	CostModel string `yaml:"cost_model" json:"cost_model"`
	// NumberOfPeriods is the length of the price series.
	NumberOfPeriods int `yaml:"number_of_periods" json:"number_of_periods"`
	// StartTime is the first price timestamp.
	StartTime time.Time `yaml:"start_time" json:"start_time"`
	// EndTime is the last price timestamp.
	EndTime time.Time `yaml:"end_time" json:"end_time"`
	// FinalEquity is the last value of the equity curve.
	FinalEquity float64 `yaml:"final_equity" json:"final_equity"`
	// TotalReturn is FinalEquity / InitialCapital - 1.
	TotalReturn float64 `yaml:"total_return" json:"total_return"`
	// MaxDrawdown is the most negative drawdown (<= 0).
	MaxDrawdown float64 `yaml:"max_drawdown" json:"max_drawdown"`
	// TotalCosts is the sum of the per-period cost drag.
	TotalCosts float64 `yaml:"total_costs" json:"total_costs"`
	// Summary holds the secondary risk and activity metrics.
	Summary PerformanceSummary `yaml:"summary" json:"summary"`
}

// Round returns a copy of the stats with every ratio and amount rounded to the
// given number of decimal places. A negative precision leaves values untouched,
// and so does a NaN or infinite value.
func (s PerformanceStats) Round(precision int) PerformanceStats {
	if precision < 0 {
		return s
	}

	round := func(v float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return v
		}

		return decimal.NewFromFloat(v).Round(int32(precision)).InexactFloat64()
	}

	s.FinalEquity = round(s.FinalEquity)
	s.TotalReturn = round(s.TotalReturn)
	s.MaxDrawdown = round(s.MaxDrawdown)
	s.TotalCosts = round(s.TotalCosts)
	s.Summary.AnnualizedReturn = round(s.Summary.AnnualizedReturn)
	s.Summary.Volatility = round(s.Summary.Volatility)
	s.Summary.SharpeRatio = round(s.Summary.SharpeRatio)
	s.Summary.SortinoRatio = round(s.Summary.SortinoRatio)
	s.Summary.CalmarRatio = round(s.Summary.CalmarRatio)
	s.Summary.Exposure = round(s.Summary.Exposure)
	s.Summary.BuyAndHoldReturn = round(s.Summary.BuyAndHoldReturn)

	return s
}

func WritePerformanceStats(path string, stats []PerformanceStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal performance stats to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write performance stats to file: %w", err)
	}

	return nil
}

func ReadPerformanceStats(path string) ([]PerformanceStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read performance stats file: %w", err)
	}

	var stats []PerformanceStats
	if err := yaml.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal performance stats: %w", err)
	}

	return stats, nil
}
