package domain

import "context"

// PriceOracle provides live market prices from an exchange. A failed fetch
// must surface as an error: the calculators treat a missing price as
// "cannot compute", never as zero.
type PriceOracle interface {
	GetSpotPrice(ctx context.Context, symbol string) (float64, error)
	GetFuturesPrice(ctx context.Context, symbol string) (float64, error)
	GetAvailableSymbols(ctx context.Context) ([]string, error)
	OnPriceUpdate(callback func(symbol string, price float64))
	Subscribe(symbols []string) error
}

// PositionRepository defines storage operations for saved hedge positions.
type PositionRepository interface {
	SavePosition(ctx context.Context, position *Position) (string, error)
	GetPosition(ctx context.Context, id string) (*Position, error)
	ListPositions(ctx context.Context, userID string) ([]*Position, error)
	UpdatePositionClose(ctx context.Context, id string, longClose, hedgeClose, pnl float64) error
	DeletePosition(ctx context.Context, id string) error
}
