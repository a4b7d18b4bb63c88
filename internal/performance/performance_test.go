package performance

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-performance/internal/types"
	"github.com/rxtech-lab/argo-performance/mocks"
	"github.com/rxtech-lab/argo-performance/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type PerformanceTestSuite struct {
	suite.Suite
	start time.Time
}

func TestPerformanceSuite(t *testing.T) {
	suite.Run(t, new(PerformanceTestSuite))
}

func (suite *PerformanceTestSuite) SetupTest() {
	suite.start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *PerformanceTestSuite) series(values ...float64) types.Series {
	return mocks.SeriesFromValues(suite.start, values...)
}

func (suite *PerformanceTestSuite) TestRisingPricesLong() {
	result, err := Run(suite.series(100, 110, 121), suite.series(1, 1, 1), TestConfig(10000, 0))
	suite.Require().NoError(err)

	equity := result.EquityCurve.Values()
	suite.Len(equity, 3)
	suite.InDelta(10000, equity[0], 1e-9)
	suite.InDelta(11000, equity[1], 1e-9)
	suite.InDelta(12100, equity[2], 1e-9)
	suite.InDelta(0.21, result.TotalReturn, 1e-12)
	suite.Equal(0.0, result.MaxDrawdown)
	suite.Equal(0.0, result.TotalCosts)
	suite.InDelta(12100, result.FinalEquity(), 1e-9)
}

func (suite *PerformanceTestSuite) TestFallingPricesLong() {
	result, err := Run(suite.series(100, 90, 80), suite.series(1, 1, 1), TestConfig(10000, 0))
	suite.Require().NoError(err)

	equity := result.EquityCurve.Values()
	suite.InDelta(10000, equity[0], 1e-9)
	suite.InDelta(9000, equity[1], 1e-9)
	suite.InDelta(8000, equity[2], 1e-9)
	suite.Greater(equity[0], equity[1])
	suite.Greater(equity[1], equity[2])
	suite.InDelta(-0.20, result.MaxDrawdown, 1e-12)
	suite.InDelta(-0.20, result.TotalReturn, 1e-12)

	drawdown := result.DrawdownCurve.Values()
	suite.Equal(0.0, drawdown[0])
	suite.InDelta(-0.10, drawdown[1], 1e-12)
	suite.InDelta(-0.20, drawdown[2], 1e-12)
}

func (suite *PerformanceTestSuite) TestZeroSignal() {
	gen := mocks.NewDataGenerator(1)
	config := mocks.DefaultConfig()
	config.Count = 250
	prices := gen.GeneratePrices(config)
	signal := mocks.ConstantSignal(prices.Times(), 0)

	result, err := Run(prices, signal, TestConfig(50000, 0.001))
	suite.Require().NoError(err)

	for _, p := range result.EquityCurve {
		suite.Equal(50000.0, p.Value)
	}

	suite.Equal(0.0, result.TotalReturn)
	suite.Equal(0.0, result.MaxDrawdown)
	suite.Equal(0.0, result.TotalCosts)
}

func (suite *PerformanceTestSuite) TestEmptySignalMeansFlat() {
	result, err := Run(suite.series(100, 120, 90), types.Series{}, DefaultConfig())
	suite.Require().NoError(err)

	suite.Equal([]float64{0, 0, 0}, result.Signal.Values())
	suite.Equal(0.0, result.TotalReturn)
	suite.Equal(DefaultInitialCapital, result.FinalEquity())
}

func (suite *PerformanceTestSuite) TestIncreasingPricesConstantLong() {
	prices := suite.series(10, 10.5, 10.5, 11, 12, 12.01, 15)
	result, err := Run(prices, mocks.ConstantSignal(prices.Times(), 1), TestConfig(10000, 0.001))
	suite.Require().NoError(err)

	equity := result.EquityCurve.Values()
	for t := 1; t < len(equity); t++ {
		suite.GreaterOrEqual(equity[t], equity[t-1])
	}

	suite.Equal(0.0, result.MaxDrawdown)
	// constant exposure never trades after the first bar
	suite.Equal(0.0, result.TotalCosts)
}

func (suite *PerformanceTestSuite) TestLagAvoidsLookAhead() {
	prices := suite.series(100, 105, 95, 110, 100)
	base := suite.series(1, 0, 1, -1, 0)

	for _, model := range []CostModelType{CostModelZero, CostModelLinear} {
		config := TestConfig(10000, 0.002)
		config.CostModel = model

		baseline, err := Run(prices, base, config)
		suite.Require().NoError(err)

		for t := 0; t < base.Len(); t++ {
			changed := append(types.Series{}, base...)
			changed[t].Value = 5

			result, err := Run(prices, changed, config)
			suite.Require().NoError(err)

			// gross return at t only depends on the signal at t-1
			suite.Equal(baseline.GrossReturns[t].Value, result.GrossReturns[t].Value)

			if model == CostModelZero {
				suite.Equal(baseline.StrategyReturns[t].Value, result.StrategyReturns[t].Value)
			}

			for k := 0; k < t; k++ {
				suite.Equal(baseline.StrategyReturns[k].Value, result.StrategyReturns[k].Value)
			}
		}
	}
}

func (suite *PerformanceTestSuite) TestFlipTurnover() {
	rate := 0.001
	result, err := Run(suite.series(100, 100, 100), suite.series(1, -1, -1), TestConfig(10000, rate))
	suite.Require().NoError(err)

	suite.Equal([]float64{0, 2, 0}, result.Turnover.Values())
	suite.InDelta(2*rate, result.CostDrag[1].Value, 1e-15)
	suite.InDelta(2*rate, result.TotalCosts, 1e-15)
	suite.InDelta(-2*rate, result.StrategyReturns[1].Value, 1e-15)
	suite.InDelta(10000*(1-2*rate), result.FinalEquity(), 1e-9)
}

func (suite *PerformanceTestSuite) TestZeroCostModelIgnoresTurnover() {
	config := TestConfig(10000, 0.01)
	config.CostModel = CostModelZero

	result, err := Run(suite.series(100, 100, 100), suite.series(1, -1, 1), config)
	suite.Require().NoError(err)

	suite.Equal([]float64{0, 2, 2}, result.Turnover.Values())
	suite.Equal(0.0, result.TotalCosts)
	suite.Equal(10000.0, result.FinalEquity())
}

func (suite *PerformanceTestSuite) TestTotalCostsIsSumOfDrag() {
	gen := mocks.NewDataGenerator(99)
	config := mocks.DefaultConfig()
	config.Count = 500
	prices := gen.GeneratePrices(config)
	signal := gen.GenerateSignal(config)

	result, err := Run(prices, signal, TestConfig(10000, 0.0005))
	suite.Require().NoError(err)

	expected := 0.0
	for _, u := range result.Turnover.Values() {
		expected += u * 0.0005
	}

	suite.InDelta(expected, result.TotalCosts, 1e-12)
}

func (suite *PerformanceTestSuite) TestDrawdownBound() {
	for seed := int64(0); seed < 5; seed++ {
		gen := mocks.NewDataGenerator(seed)
		config := mocks.DefaultConfig()
		config.Count = 400
		config.Volatility = 0.03
		prices := gen.GeneratePrices(config)
		signal := gen.GenerateSignal(config)

		result, err := Run(prices, signal, TestConfig(10000, 0.001))
		suite.Require().NoError(err)

		equity := result.EquityCurve.Values()
		peaks := RunningMax(equity)
		minDrawdown := 0.0

		for t, d := range result.DrawdownCurve.Values() {
			suite.LessOrEqual(d, 0.0)

			if equity[t] == peaks[t] {
				suite.Equal(0.0, d)
			}

			minDrawdown = math.Min(minDrawdown, d)
		}

		suite.Equal(minDrawdown, result.MaxDrawdown)
		suite.InDelta(equity[len(equity)-1]/10000-1, result.TotalReturn, 1e-12)
	}
}

func (suite *PerformanceTestSuite) TestAllSeriesShareThePriceIndex() {
	prices := suite.series(100, 101, 99, 103)
	result, err := Run(prices, suite.series(0, 1, 1, 0), DefaultConfig())
	suite.Require().NoError(err)

	for _, s := range []types.Series{
		result.Signal, result.AssetReturns, result.GrossReturns, result.Turnover,
		result.CostDrag, result.StrategyReturns, result.EquityCurve, result.DrawdownCurve,
	} {
		suite.Equal(prices.Times(), s.Times())
	}
}

func (suite *PerformanceTestSuite) TestInvalidInputs() {
	tests := []struct {
		name   string
		prices types.Series
		signal types.Series
		config Config
		code   errors.ErrorCode
	}{
		{"empty prices", types.Series{}, suite.series(1), DefaultConfig(), errors.ErrCodeEmptySeries},
		{"zero price", suite.series(100, 0, 100), suite.series(1, 1, 1), DefaultConfig(), errors.ErrCodeNonPositivePrice},
		{"negative price", suite.series(-1), suite.series(1), DefaultConfig(), errors.ErrCodeNonPositivePrice},
		{"nan price", suite.series(100, math.NaN()), suite.series(1, 1), DefaultConfig(), errors.ErrCodeNonFiniteValue},
		{"inf price", suite.series(100, math.Inf(1)), suite.series(1, 1), DefaultConfig(), errors.ErrCodeNonFiniteValue},
		{
			"unsorted prices",
			types.Series{{Time: suite.start.AddDate(0, 0, 1), Value: 100}, {Time: suite.start, Value: 101}},
			types.Series{}, DefaultConfig(), errors.ErrCodeUnalignedSeries,
		},
		{
			"duplicate signal timestamps",
			suite.series(100, 101),
			types.Series{{Time: suite.start, Value: 1}, {Time: suite.start, Value: 0}},
			DefaultConfig(), errors.ErrCodeUnalignedSeries,
		},
		{"infinite signal", suite.series(100, 101), suite.series(math.Inf(-1), 1), DefaultConfig(), errors.ErrCodeNonFiniteValue},
		{"zero capital", suite.series(100, 101), suite.series(1, 1), TestConfig(0, 0), errors.ErrCodeInvalidConfiguration},
		{"negative cost", suite.series(100, 101), suite.series(1, 1), TestConfig(1000, -0.1), errors.ErrCodeInvalidConfiguration},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := Run(tc.prices, tc.signal, tc.config)
			suite.Error(err)
			suite.True(errors.IsInvalidInputError(err))
			suite.Equal(tc.code, errors.GetCode(err))
		})
	}
}

func (suite *PerformanceTestSuite) TestSingleBar() {
	result, err := Run(suite.series(100), suite.series(1), TestConfig(10000, 0.001))
	suite.Require().NoError(err)

	suite.Equal([]float64{10000}, result.EquityCurve.Values())
	suite.Equal(0.0, result.TotalReturn)
	suite.Equal(0.0, result.TotalCosts)
}
