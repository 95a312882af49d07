package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockOracle for MarketService
type MockOracle struct {
	SpotPrice    float64
	FuturesPrice float64
	Symbols      []string
	Err          error
	SpotCalls    int
	Subscribed   []string
	callback     func(symbol string, price float64)
}

func (m *MockOracle) GetSpotPrice(ctx context.Context, symbol string) (float64, error) {
	m.SpotCalls++
	return m.SpotPrice, m.Err
}

func (m *MockOracle) GetFuturesPrice(ctx context.Context, symbol string) (float64, error) {
	return m.FuturesPrice, m.Err
}

func (m *MockOracle) GetAvailableSymbols(ctx context.Context) ([]string, error) {
	return m.Symbols, m.Err
}

func (m *MockOracle) OnPriceUpdate(callback func(symbol string, price float64)) {
	m.callback = callback
}

func (m *MockOracle) Subscribe(symbols []string) error {
	m.Subscribed = append(m.Subscribed, symbols...)
	return nil
}

func (m *MockOracle) Push(symbol string, price float64) {
	m.callback(symbol, price)
}

func TestMarketServiceFetchesAndCaches(t *testing.T) {
	oracle := &MockOracle{SpotPrice: 64250.5}
	svc := NewMarketService(oracle, zap.NewNop())
	ctx := context.Background()

	price, err := svc.SpotPrice(ctx, "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, 64250.5, price)
	assert.Equal(t, []string{"BTCUSDT"}, oracle.Subscribed)

	// Second read hits the cache.
	_, err = svc.SpotPrice(ctx, "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, 1, oracle.SpotCalls)
}

func TestMarketServiceLastWriteWins(t *testing.T) {
	oracle := &MockOracle{SpotPrice: 64250.5}
	svc := NewMarketService(oracle, zap.NewNop())
	ctx := context.Background()

	_, err := svc.SpotPrice(ctx, "BTCUSDT")
	require.NoError(t, err)

	oracle.Push("BTCUSDT", 64900)
	oracle.Push("BTCUSDT", 64950.25)

	price, err := svc.SpotPrice(ctx, "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, 64950.25, price)

	// Non-positive pushes are dropped.
	oracle.Push("BTCUSDT", 0)
	price, err = svc.SpotPrice(ctx, "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, 64950.25, price)
}

func TestMarketServiceOracleFailureIsAnError(t *testing.T) {
	oracle := &MockOracle{Err: errors.New("exchange unreachable")}
	svc := NewMarketService(oracle, zap.NewNop())

	_, err := svc.SpotPrice(context.Background(), "BTCUSDT")
	assert.Error(t, err, "a missing price must surface as an error, not zero")
}
