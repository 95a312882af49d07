package domain

import "time"

type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// PositionLeg is one side of a saved hedge position.
type PositionLeg struct {
	Quantity   float64 `json:"quantity"`
	EntryPrice float64 `json:"entry_price"`
	Value      float64 `json:"value"`
}

// HedgeLeg is the short/futures side, with its sizing as produced by the
// calculator or solver.
type HedgeLeg struct {
	Kind       HedgeKind `json:"type"`
	Quantity   float64   `json:"quantity"`
	EntryPrice float64   `json:"entry_price"`
	Leverage   float64   `json:"leverage"`
	Margin     float64   `json:"margin"`
}

// Position is a saved hedging setup, keyed by user. Close prices and PnL
// stay nil until the user marks the legs closed.
type Position struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Symbol          string      `json:"symbol"`
	Long            PositionLeg `json:"long_position"`
	Hedge           HedgeLeg    `json:"hedge_position"`
	HedgingRatio    float64     `json:"hedging_ratio"`
	Status          string      `json:"status"`
	LongClosePrice  *float64    `json:"long_close_price"`
	HedgeClosePrice *float64    `json:"hedge_close_price"`
	PnL             *float64    `json:"pnl"`
	CreatedAt       time.Time   `json:"created_at"`
}
