// Package performance turns a price series and a position signal into an
// equity curve, drawdown curve and summary figures.
//
// The pipeline is a straight chain of element-wise transforms over the price
// index:
//
//	signal (aligned, 0-filled) -> asset returns -> gross returns (signal lagged one period)
//	  -> turnover -> cost drag -> net returns -> equity -> drawdown
//
// Every first-period value that has no predecessor (asset return, lagged
// signal, turnover) is 0.
package performance

import (
	"github.com/rxtech-lab/argo-performance/internal/types"
)

// Result holds every series and scalar derived from one run. All series share
// the price index.
type Result struct {
	Prices          types.Series `json:"prices"`
	Signal          types.Series `json:"signal"`
	AssetReturns    types.Series `json:"asset_returns"`
	GrossReturns    types.Series `json:"gross_returns"`
	Turnover        types.Series `json:"turnover"`
	CostDrag        types.Series `json:"cost_drag"`
	StrategyReturns types.Series `json:"strategy_returns"`
	EquityCurve     types.Series `json:"equity_curve"`
	DrawdownCurve   types.Series `json:"drawdown_curve"`
	TotalReturn     float64      `json:"total_return"`
	MaxDrawdown     float64      `json:"max_drawdown"`
	TotalCosts      float64      `json:"total_costs"`
}

// FinalEquity returns the last equity value, or 0 for an empty result.
func (r Result) FinalEquity() float64 {
	last := r.EquityCurve.Last()
	if last.IsNone() {
		return 0
	}

	return last.Unwrap().Value
}

// Run computes the performance of trading the given signal on the given
// prices. It fails with an InvalidInputError when the prices are empty,
// non-positive or unordered, when the signal cannot be aligned, or when the
// configuration is invalid.
func Run(prices types.Series, signal types.Series, config Config) (Result, error) {
	if err := config.Validate(); err != nil {
		return Result{}, err
	}

	if err := ValidatePrices(prices); err != nil {
		return Result{}, err
	}

	aligned, err := Align(prices, signal)
	if err != nil {
		return Result{}, err
	}

	times := prices.Times()
	priceValues := prices.Values()
	signalValues := aligned.Values()

	assetReturns := AssetReturns(priceValues)
	gross := GrossReturns(signalValues, assetReturns)
	turnover := Turnover(signalValues)

	costModel, err := GetCostModel(config.CostModel, config.CostRate)
	if err != nil {
		return Result{}, err
	}

	drag := CostDrag(turnover, costModel)
	net := NetReturns(gross, drag)
	equity := EquityCurve(net, config.InitialCapital)
	drawdown := Drawdown(equity)

	series := func(values []float64) types.Series {
		// lengths always match the price index
		s, _ := types.NewSeries(times, values)

		return s
	}

	return Result{
		Prices:          prices,
		Signal:          aligned,
		AssetReturns:    series(assetReturns),
		GrossReturns:    series(gross),
		Turnover:        series(turnover),
		CostDrag:        series(drag),
		StrategyReturns: series(net),
		EquityCurve:     series(equity),
		DrawdownCurve:   series(drawdown),
		TotalReturn:     equity[len(equity)-1]/config.InitialCapital - 1,
		MaxDrawdown:     MaxDrawdown(drawdown),
		TotalCosts:      Sum(drag),
	}, nil
}
