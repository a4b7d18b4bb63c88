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

type AlignTestSuite struct {
	suite.Suite
	start time.Time
}

func TestAlignSuite(t *testing.T) {
	suite.Run(t, new(AlignTestSuite))
}

func (suite *AlignTestSuite) SetupTest() {
	suite.start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *AlignTestSuite) day(i int) time.Time {
	return suite.start.AddDate(0, 0, i)
}

func (suite *AlignTestSuite) TestIdenticalIndex() {
	prices := mocks.SeriesFromValues(suite.start, 100, 101, 102)
	signal := mocks.SeriesFromValues(suite.start, 1, -1, 0.5)

	aligned, err := Align(prices, signal)
	suite.NoError(err)
	suite.Equal(prices.Times(), aligned.Times())
	suite.Equal([]float64{1, -1, 0.5}, aligned.Values())
}

func (suite *AlignTestSuite) TestMissingEntriesAreZero() {
	prices := mocks.SeriesFromValues(suite.start, 100, 101, 102, 103)
	signal := types.Series{
		{Time: suite.day(1), Value: 1},
		{Time: suite.day(3), Value: -1},
	}

	aligned, err := Align(prices, signal)
	suite.NoError(err)
	suite.Equal([]float64{0, 1, 0, -1}, aligned.Values())
}

func (suite *AlignTestSuite) TestExtraSignalTimestampsDropped() {
	prices := types.Series{
		{Time: suite.day(2), Value: 100},
		{Time: suite.day(4), Value: 101},
	}
	signal := mocks.SeriesFromValues(suite.start, 1, 1, 1, 1, -1, 1)

	aligned, err := Align(prices, signal)
	suite.NoError(err)
	suite.Equal([]time.Time{suite.day(2), suite.day(4)}, aligned.Times())
	suite.Equal([]float64{1, -1}, aligned.Values())
}

func (suite *AlignTestSuite) TestSameInstantDifferentZone() {
	tokyo := time.FixedZone("JST", 9*3600)
	prices := types.Series{{Time: suite.day(0), Value: 100}}
	signal := types.Series{{Time: suite.day(0).In(tokyo), Value: 1}}

	aligned, err := Align(prices, signal)
	suite.NoError(err)
	suite.Equal([]float64{1}, aligned.Values())
}

func (suite *AlignTestSuite) TestNaNSignalIsZero() {
	prices := mocks.SeriesFromValues(suite.start, 100, 101)
	signal := mocks.SeriesFromValues(suite.start, math.NaN(), 1)

	aligned, err := Align(prices, signal)
	suite.NoError(err)
	suite.Equal([]float64{0, 1}, aligned.Values())
}

func (suite *AlignTestSuite) TestUnorderedSignal() {
	prices := mocks.SeriesFromValues(suite.start, 100, 101)
	signal := types.Series{
		{Time: suite.day(1), Value: 1},
		{Time: suite.day(0), Value: 1},
	}

	_, err := Align(prices, signal)
	suite.Error(err)
	suite.True(errors.IsInvalidInputError(err))
	suite.Equal(errors.ErrCodeUnalignedSeries, errors.GetCode(err))
}

func (suite *AlignTestSuite) TestValidatePrices() {
	suite.NoError(ValidatePrices(mocks.SeriesFromValues(suite.start, 1, 2, 3)))
	suite.Equal(errors.ErrCodeEmptySeries, errors.GetCode(ValidatePrices(nil)))
	suite.Equal(errors.ErrCodeNonPositivePrice, errors.GetCode(ValidatePrices(mocks.SeriesFromValues(suite.start, 1, 0))))
}
