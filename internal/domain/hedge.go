package domain

// HedgeKind selects which instrument backs the short leg.
type HedgeKind string

const (
	HedgeSpot   HedgeKind = "spot"
	HedgeFuture HedgeKind = "future"
	HedgeParams HedgeKind = "result-based"
)

// MarginMode tells the solver which of leverage/margin the user fixed.
type MarginMode string

const (
	MarginModeLeverage MarginMode = "leverage"
	MarginModeMargin   MarginMode = "margin"
)

// FeeRates holds fractional fee rates for one volume tier (0.00035 = 0.035%).
type FeeRates struct {
	TakerFee   float64 `json:"taker_fee"`
	MakerFee   float64 `json:"maker_fee"`
	FundingFee float64 `json:"funding_fee"`
}

// ScenarioResult is the outcome of one payout computation.
// SpotPayout is the unhedged long alone, HedgedPayout the combined legs,
// both net of fees. Leverage/invested fields are informational and only
// populated by the simultaneous-close variants.
type ScenarioResult struct {
	SpotPayout         float64 `json:"spot_payout"`
	HedgedPayout       float64 `json:"hedged_payout"`
	OptimalLeverage    float64 `json:"optimal_leverage,omitempty"`
	TotalInvestedLong  float64 `json:"total_invested_long,omitempty"`
	TotalInvestedHedge float64 `json:"total_invested_hedge,omitempty"`
}

// HedgeParameters is the solver output: the sizing that should hit the
// desired payout under the assumed move.
type HedgeParameters struct {
	SpotQuantity   float64 `json:"spot_quantity"`
	ShortQuantity  float64 `json:"short_quantity"`
	Leverage       float64 `json:"leverage"`
	Fees           float64 `json:"fees"`
	RequiredMargin float64 `json:"required_margin"`
	ExpectedPayout float64 `json:"expected_payout"`
}

// BestPayout is the upper-bound outcome over a candle series: long closed
// at the highest close, hedge at the lowest. Not achievable with a single
// common exit.
type BestPayout struct {
	BestSpotPayout   float64 `json:"best_spot_payout"`
	BestHedgedPayout float64 `json:"best_hedged_payout"`
}
