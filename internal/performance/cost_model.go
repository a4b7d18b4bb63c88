package performance

import (
	"math"

	"github.com/rxtech-lab/argo-performance/pkg/errors"
)

// CostModel converts turnover (absolute change in exposure) into a cost drag
// expressed as a fraction of equity.
type CostModel interface {
	Calculate(turnover float64) float64
}

type CostModelType string

const (
	// CostModelLinear charges CostRate per unit of turnover
	CostModelLinear CostModelType = "linear"
	// CostModelZero ignores trading costs (gross-only run)
	CostModelZero CostModelType = "zero"
)

var AllCostModels = []any{
	CostModelLinear,
	CostModelZero,
}

type LinearCostModel struct {
	Rate float64
}

func NewLinearCostModel(rate float64) CostModel {
	return &LinearCostModel{Rate: rate}
}

func (m *LinearCostModel) Calculate(turnover float64) float64 {
	return math.Abs(turnover) * m.Rate
}

type ZeroCostModel struct{}

func NewZeroCostModel() CostModel {
	return &ZeroCostModel{}
}

func (m *ZeroCostModel) Calculate(turnover float64) float64 {
	return 0
}

// GetCostModel returns the model for the given type.
func GetCostModel(modelType CostModelType, rate float64) (CostModel, error) {
	switch modelType {
	case CostModelZero:
		return NewZeroCostModel(), nil
	case CostModelLinear:
		return NewLinearCostModel(rate), nil
	default:
		return nil, errors.NewInvalidInputErrorf(errors.ErrCodeInvalidConfiguration, "cost_model", "unknown cost model %q", modelType)
	}
}
