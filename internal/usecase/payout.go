package usecase

import (
	"errors"
	"fmt"
	"math"

	"github.com/vitos/crypto_hedge_calc/internal/domain"
)

// ErrInvalidInput marks malformed or out-of-range calculator inputs.
// Callers get a zeroed result alongside it and should display the message,
// never the raw NaN/Inf a bad input would otherwise produce.
var ErrInvalidInput = errors.New("invalid input parameters")

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validPrice(v float64) bool {
	return isFinite(v) && v > 0
}

func validRatio(h float64) bool {
	return isFinite(h) && h >= 0 && h <= 1
}

func validQuantity(q float64) bool {
	return isFinite(q) && q > 0
}

// PayoutShort computes the payout of a long spot position hedged by a short
// spot position, with both legs closed at the same exit price.
// margin is optional (<= 0 means not supplied) and only feeds the reported
// leverage, it is not enforced.
func PayoutShort(quantity, spotEntry, exitPrice, hedgingRatio, twoWeekVolume, margin float64) (domain.ScenarioResult, error) {
	if !validQuantity(quantity) || !validPrice(spotEntry) || !validPrice(exitPrice) {
		return domain.ScenarioResult{}, fmt.Errorf("%w: quantity and prices must be positive finite numbers", ErrInvalidInput)
	}
	if !validRatio(hedgingRatio) {
		return domain.ScenarioResult{}, fmt.Errorf("%w: hedging ratio must be between 0 and 1", ErrInvalidInput)
	}

	fees := ResolveFees(twoWeekVolume)

	longPnL := quantity * (exitPrice - spotEntry)
	longFee := quantity * spotEntry * fees.TakerFee

	shortQuantity := quantity * hedgingRatio
	shortPnL := shortQuantity * (spotEntry - exitPrice)
	shortFee := shortQuantity * spotEntry * fees.TakerFee

	spotPayout := longPnL - longFee

	result := domain.ScenarioResult{
		SpotPayout:         spotPayout,
		HedgedPayout:       spotPayout + shortPnL - shortFee,
		TotalInvestedLong:  quantity * spotEntry,
		TotalInvestedHedge: shortQuantity * spotEntry,
	}
	if margin > 0 {
		result.OptimalLeverage = result.TotalInvestedHedge / margin
	}
	return result, nil
}

// PayoutFuture computes the payout of a long position hedged by a short
// futures contract, both legs closed at the same exit price. The long leg is
// measured against the futures entry since the contract tracks the spot move
// 1:1. The short leg pays funding on top of the taker fee.
func PayoutFuture(quantity, spotEntry, futuresEntry, exitPrice, hedgingRatio, twoWeekVolume float64) (domain.ScenarioResult, error) {
	if !validQuantity(quantity) || !validPrice(spotEntry) || !validPrice(futuresEntry) || !validPrice(exitPrice) {
		return domain.ScenarioResult{}, fmt.Errorf("%w: quantity and prices must be positive finite numbers", ErrInvalidInput)
	}
	if !validRatio(hedgingRatio) {
		return domain.ScenarioResult{}, fmt.Errorf("%w: hedging ratio must be between 0 and 1", ErrInvalidInput)
	}

	fees := ResolveFees(twoWeekVolume)

	longPnL := quantity * (exitPrice - futuresEntry)
	longFee := quantity * futuresEntry * fees.TakerFee

	shortQuantity := quantity * hedgingRatio
	shortPnL := -shortQuantity * (exitPrice - futuresEntry)
	shortFee := shortQuantity * futuresEntry * fees.TakerFee
	fundingCost := shortQuantity * futuresEntry * fees.FundingFee

	return domain.ScenarioResult{
		SpotPayout:         longPnL - longFee,
		HedgedPayout:       longPnL + shortPnL - (longFee + shortFee + fundingCost),
		TotalInvestedLong:  quantity * futuresEntry,
		TotalInvestedHedge: shortQuantity * futuresEntry,
	}, nil
}

// PayoutShortDelay is PayoutShort with independently chosen close prices for
// the two legs, modelling a user exiting the spot and the hedge at different
// chart points.
func PayoutShortDelay(quantity, spotEntry, longClose, hedgeClose, hedgingRatio, twoWeekVolume float64) (domain.ScenarioResult, error) {
	if !validQuantity(quantity) || !validPrice(spotEntry) || !validPrice(longClose) || !validPrice(hedgeClose) {
		return domain.ScenarioResult{}, fmt.Errorf("%w: quantity and prices must be positive finite numbers", ErrInvalidInput)
	}
	if !validRatio(hedgingRatio) {
		return domain.ScenarioResult{}, fmt.Errorf("%w: hedging ratio must be between 0 and 1", ErrInvalidInput)
	}

	fees := ResolveFees(twoWeekVolume)

	longPnL := quantity * (longClose - spotEntry)
	longFee := quantity * spotEntry * fees.TakerFee

	shortQuantity := quantity * hedgingRatio
	shortPnL := shortQuantity * (spotEntry - hedgeClose)
	shortFee := shortQuantity * spotEntry * fees.TakerFee

	spotPayout := longPnL - longFee
	return domain.ScenarioResult{
		SpotPayout:   spotPayout,
		HedgedPayout: spotPayout + shortPnL - shortFee,
	}, nil
}

// PayoutFutureDelay is PayoutFuture with independently chosen close prices
// for the two legs.
func PayoutFutureDelay(quantity, spotEntry, futuresEntry, longClose, hedgeClose, hedgingRatio, twoWeekVolume float64) (domain.ScenarioResult, error) {
	if !validQuantity(quantity) || !validPrice(spotEntry) || !validPrice(futuresEntry) || !validPrice(longClose) || !validPrice(hedgeClose) {
		return domain.ScenarioResult{}, fmt.Errorf("%w: quantity and prices must be positive finite numbers", ErrInvalidInput)
	}
	if !validRatio(hedgingRatio) {
		return domain.ScenarioResult{}, fmt.Errorf("%w: hedging ratio must be between 0 and 1", ErrInvalidInput)
	}

	fees := ResolveFees(twoWeekVolume)

	longPnL := quantity * (longClose - futuresEntry)
	longFee := quantity * futuresEntry * fees.TakerFee

	shortQuantity := quantity * hedgingRatio
	shortPnL := shortQuantity * (futuresEntry - hedgeClose)
	shortFee := shortQuantity * futuresEntry * fees.TakerFee
	fundingCost := shortQuantity * futuresEntry * fees.FundingFee

	return domain.ScenarioResult{
		SpotPayout:   longPnL - longFee,
		HedgedPayout: longPnL + shortPnL - (longFee + shortFee + fundingCost),
	}, nil
}

// PayoutFromParams applies solver-produced sizing to a percentage price move.
// The round trip (one entry plus one exit per leg) is approximated as twice
// the taker fee on each leg's notional, matching the solver's own fee model.
func PayoutFromParams(params domain.HedgeParameters, variationPct, twoWeekVolume, spotEntry float64) (domain.ScenarioResult, error) {
	if !validPrice(spotEntry) || !isFinite(variationPct) {
		return domain.ScenarioResult{}, fmt.Errorf("%w: entry price must be positive and variation finite", ErrInvalidInput)
	}
	exitPrice := spotEntry * (1 + variationPct/100)
	return payoutFromParamsAt(params, spotEntry, exitPrice, exitPrice, twoWeekVolume)
}

// PayoutFromParamsDelay applies solver-produced sizing to independently
// chosen close prices for the two legs.
func PayoutFromParamsDelay(params domain.HedgeParameters, longClose, hedgeClose, twoWeekVolume, spotEntry float64) (domain.ScenarioResult, error) {
	if !validPrice(spotEntry) || !validPrice(longClose) || !validPrice(hedgeClose) {
		return domain.ScenarioResult{}, fmt.Errorf("%w: prices must be positive finite numbers", ErrInvalidInput)
	}
	return payoutFromParamsAt(params, spotEntry, longClose, hedgeClose, twoWeekVolume)
}

func payoutFromParamsAt(params domain.HedgeParameters, spotEntry, longClose, hedgeClose, twoWeekVolume float64) (domain.ScenarioResult, error) {
	if !isFinite(params.SpotQuantity) || params.SpotQuantity < 0 || !isFinite(params.ShortQuantity) || params.ShortQuantity < 0 {
		return domain.ScenarioResult{}, fmt.Errorf("%w: quantities must be non-negative finite numbers", ErrInvalidInput)
	}

	fees := ResolveFees(twoWeekVolume)
	totalFeeRate := fees.TakerFee * 2

	longPnL := params.SpotQuantity * (longClose - spotEntry)
	shortPnL := params.ShortQuantity * (spotEntry - hedgeClose)

	totalInvestedLong := params.SpotQuantity * spotEntry
	shortValue := params.ShortQuantity * spotEntry
	totalFeeCost := (totalInvestedLong + shortValue) * totalFeeRate

	return domain.ScenarioResult{
		SpotPayout:         longPnL - totalInvestedLong*totalFeeRate,
		HedgedPayout:       longPnL + shortPnL - totalFeeCost,
		OptimalLeverage:    params.Leverage,
		TotalInvestedLong:  totalInvestedLong,
		TotalInvestedHedge: shortValue,
	}, nil
}
