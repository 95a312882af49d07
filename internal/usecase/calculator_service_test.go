package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vitos/crypto_hedge_calc/internal/domain"
)

func TestProjectScenariosSpot(t *testing.T) {
	svc := NewCalculatorService(zap.NewNop())
	hedge := SpotHedge{Quantity: 1, SpotEntry: 50000, HedgingRatio: 0.5}

	projection, err := svc.ProjectScenarios(hedge, 0, 5000)
	require.NoError(t, err)

	up, err := PayoutShort(1, 50000, 55000, 0.5, 0, 5000)
	require.NoError(t, err)
	down, err := PayoutShort(1, 50000, 45000, 0.5, 0, 5000)
	require.NoError(t, err)
	neutral, err := PayoutShort(1, 50000, 50000, 0.5, 0, 5000)
	require.NoError(t, err)

	assert.Equal(t, up, projection.Up)
	assert.Equal(t, down, projection.Down)
	assert.Equal(t, neutral, projection.Neutral)
	assert.Equal(t, neutral.OptimalLeverage, projection.OptimalLeverage)
	assert.Equal(t, neutral.TotalInvestedLong, projection.TotalInvestedLong)
	assert.Equal(t, neutral.TotalInvestedHedge, projection.TotalInvestedHedge)

	// Flat exit leaves only fees on both legs.
	assert.Negative(t, projection.Neutral.HedgedPayout)
}

func TestProjectScenariosFuture(t *testing.T) {
	svc := NewCalculatorService(zap.NewNop())
	hedge := FutureHedge{Quantity: 1, SpotEntry: 50000, FuturesEntry: 50100, HedgingRatio: 0.5}

	projection, err := svc.ProjectScenarios(hedge, 0, 0)
	require.NoError(t, err)

	// Exits derive from the spot entry even though the legs settle against
	// the futures entry.
	up, err := PayoutFuture(1, 50000, 50100, 55000, 0.5, 0)
	require.NoError(t, err)
	assert.Equal(t, up, projection.Up)
}

func TestProjectScenariosRejectsInvalid(t *testing.T) {
	svc := NewCalculatorService(zap.NewNop())

	_, err := svc.ProjectScenarios(SpotHedge{Quantity: -1, SpotEntry: 50000, HedgingRatio: 0.5}, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ProjectScenarios(ParamsHedge{SpotEntry: 50000}, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidInput, "projection needs quantity-and-ratio hedge kinds")
}

func TestEvaluateBestPassesThrough(t *testing.T) {
	svc := NewCalculatorService(zap.NewNop())
	candles := []domain.Candle{
		{Close: 50000}, {Close: 56000}, {Close: 44000},
	}

	best, err := svc.EvaluateBest(candles, SpotHedge{Quantity: 1, SpotEntry: 50000, HedgingRatio: 0.5}, 0)
	require.NoError(t, err)

	want, err := BestPayout(candles, SpotHedge{Quantity: 1, SpotEntry: 50000, HedgingRatio: 0.5}, 0)
	require.NoError(t, err)
	assert.Equal(t, want, best)

	_, err = svc.EvaluateBest(nil, SpotHedge{Quantity: 1, SpotEntry: 50000, HedgingRatio: 0.5}, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
