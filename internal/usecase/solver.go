package usecase

import (
	"errors"
	"fmt"

	"github.com/vitos/crypto_hedge_calc/internal/domain"
)

// ErrInsufficientMargin is returned when the margin needed for the short leg
// exceeds what the user said they have available.
var ErrInsufficientMargin = errors.New("not enough margin to execute this hedge")

// Hedging ratio clamp bounds. A ratio of exactly 0 or 1 makes the short leg
// sizing or leverage degenerate, so the solver keeps it strictly inside (0, 1).
const (
	minHedgingRatio = 0.001
	maxHedgingRatio = 0.999
)

// SolverInput holds the user-facing inputs for the parameter solver.
// HedgingRatioPct is a percentage (e.g. 50 for half the long position).
// Mode selects whether Leverage or AvailableMargin is authoritative.
type SolverInput struct {
	SpotEntryPrice       float64
	ExpectedVariationPct float64
	AvailableMargin      float64
	Leverage             float64
	DesiredPayout        float64
	HedgingRatioPct      float64
	TwoWeekVolume        float64
	Mode                 domain.MarginMode
}

// SolveShortHedgeParameters inverts the payout relationship: given a target
// payout at an assumed percentage move, it returns the spot quantity, hedge
// quantity, leverage and margin that should achieve it. The round-trip fee is
// approximated as twice the taker rate.
func SolveShortHedgeParameters(in SolverInput) (domain.HedgeParameters, error) {
	if !validPrice(in.SpotEntryPrice) || !isFinite(in.DesiredPayout) || !isFinite(in.ExpectedVariationPct) || !isFinite(in.HedgingRatioPct) {
		return domain.HedgeParameters{}, fmt.Errorf("%w: entry price, desired payout, expected variation and hedging ratio must be finite", ErrInvalidInput)
	}
	if in.ExpectedVariationPct == 0 {
		return domain.HedgeParameters{}, fmt.Errorf("%w: expected variation must be non-zero", ErrInvalidInput)
	}

	hedgingRatio := in.HedgingRatioPct / 100
	if hedgingRatio < minHedgingRatio {
		hedgingRatio = minHedgingRatio
	} else if hedgingRatio > maxHedgingRatio {
		hedgingRatio = maxHedgingRatio
	}

	fees := ResolveFees(in.TwoWeekVolume)
	totalFeeRate := fees.TakerFee * 2

	// Quantity whose unhedged P&L at the expected move, net of round-trip
	// fees, equals the desired payout.
	priceChange := in.ExpectedVariationPct / 100
	spotQuantity := (in.DesiredPayout + in.SpotEntryPrice*totalFeeRate) / (in.SpotEntryPrice * priceChange)
	shortQuantity := spotQuantity * hedgingRatio

	totalInvestedLong := spotQuantity * in.SpotEntryPrice
	shortValue := shortQuantity * in.SpotEntryPrice

	leverage := in.Leverage
	var requiredMargin float64
	switch in.Mode {
	case domain.MarginModeLeverage:
		if !validPrice(in.Leverage) {
			return domain.HedgeParameters{}, fmt.Errorf("%w: leverage must be a positive finite number", ErrInvalidInput)
		}
		requiredMargin = shortValue / leverage
		if in.AvailableMargin > 0 && requiredMargin > in.AvailableMargin {
			return domain.HedgeParameters{}, ErrInsufficientMargin
		}
	case domain.MarginModeMargin:
		if !validPrice(in.AvailableMargin) {
			return domain.HedgeParameters{}, fmt.Errorf("%w: available margin must be a positive finite number", ErrInvalidInput)
		}
		requiredMargin = in.AvailableMargin
		leverage = shortValue / in.AvailableMargin
	default:
		return domain.HedgeParameters{}, fmt.Errorf("%w: unknown margin mode %q", ErrInvalidInput, in.Mode)
	}

	// Expected P&L at the assumed exit, both legs, for sanity display.
	exitPrice := in.SpotEntryPrice * (1 + priceChange)
	longPnL := spotQuantity * (exitPrice - in.SpotEntryPrice)
	shortPnL := shortQuantity * (in.SpotEntryPrice - exitPrice)
	totalFeeCost := (totalInvestedLong + shortValue) * totalFeeRate

	return domain.HedgeParameters{
		SpotQuantity:   spotQuantity,
		ShortQuantity:  shortQuantity,
		Leverage:       leverage,
		Fees:           totalFeeCost,
		RequiredMargin: requiredMargin,
		ExpectedPayout: longPnL + shortPnL - totalFeeCost,
	}, nil
}
