package usecase

import (
	"context"
	"sync"

	"github.com/vitos/crypto_hedge_calc/internal/domain"
	"go.uber.org/zap"
)

// MarketService caches live prices from the oracle. Pushed updates overwrite
// cached values (last write wins); a symbol with no known price is an error,
// never a zero price fed into the calculators.
type MarketService struct {
	oracle     domain.PriceOracle
	logger     *zap.Logger
	mu         sync.RWMutex
	spotPrices map[string]float64
	subscribed map[string]bool
}

func NewMarketService(oracle domain.PriceOracle, logger *zap.Logger) *MarketService {
	s := &MarketService{
		oracle:     oracle,
		logger:     logger,
		spotPrices: make(map[string]float64),
		subscribed: make(map[string]bool),
	}
	oracle.OnPriceUpdate(s.handlePriceUpdate)
	return s
}

func (s *MarketService) handlePriceUpdate(symbol string, price float64) {
	if price <= 0 {
		return
	}
	s.mu.Lock()
	s.spotPrices[symbol] = price
	s.mu.Unlock()
}

// SpotPrice returns the cached spot price, fetching from the oracle on a
// cache miss and subscribing the symbol for live updates.
func (s *MarketService) SpotPrice(ctx context.Context, symbol string) (float64, error) {
	s.mu.RLock()
	price, ok := s.spotPrices[symbol]
	needsSubscribe := !s.subscribed[symbol]
	s.mu.RUnlock()

	if needsSubscribe {
		if err := s.oracle.Subscribe([]string{symbol}); err != nil {
			s.logger.Warn("Failed to subscribe symbol", zap.String("symbol", symbol), zap.Error(err))
		} else {
			s.mu.Lock()
			s.subscribed[symbol] = true
			s.mu.Unlock()
		}
	}

	if ok {
		return price, nil
	}

	price, err := s.oracle.GetSpotPrice(ctx, symbol)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	s.spotPrices[symbol] = price
	s.mu.Unlock()
	return price, nil
}

// FuturesPrice always goes to the oracle; futures marks are only needed at
// calculation time.
func (s *MarketService) FuturesPrice(ctx context.Context, symbol string) (float64, error) {
	return s.oracle.GetFuturesPrice(ctx, symbol)
}

func (s *MarketService) AvailableSymbols(ctx context.Context) ([]string, error) {
	return s.oracle.GetAvailableSymbols(ctx)
}
