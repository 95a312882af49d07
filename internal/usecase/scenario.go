package usecase

import (
	"fmt"

	"github.com/vitos/crypto_hedge_calc/internal/domain"
)

// HedgeSpec is a closed set of hedge descriptions accepted by BestPayout,
// one variant per hedge kind so near-identical argument lists cannot be
// swapped between variants.
type HedgeSpec interface {
	Kind() domain.HedgeKind
}

// SpotHedge describes a long spot position hedged with a short spot position.
type SpotHedge struct {
	Quantity     float64
	SpotEntry    float64
	HedgingRatio float64
}

func (SpotHedge) Kind() domain.HedgeKind { return domain.HedgeSpot }

// FutureHedge describes a long position hedged with a short futures contract.
type FutureHedge struct {
	Quantity     float64
	SpotEntry    float64
	FuturesEntry float64
	HedgingRatio float64
}

func (FutureHedge) Kind() domain.HedgeKind { return domain.HedgeFuture }

// ParamsHedge carries solver-produced sizing instead of quantity and ratio.
type ParamsHedge struct {
	Params    domain.HedgeParameters
	SpotEntry float64
}

func (ParamsHedge) Kind() domain.HedgeKind { return domain.HedgeParams }

// BestPayout scans a candle series and evaluates the best possible outcome:
// the long leg closed at the highest observed close and the hedge leg at the
// lowest, each independently. That makes it an upper bound across any single
// common exit, not an achievable one-shot strategy.
func BestPayout(candles []domain.Candle, hedge HedgeSpec, twoWeekVolume float64) (domain.BestPayout, error) {
	if len(candles) == 0 {
		return domain.BestPayout{}, fmt.Errorf("%w: empty candle series", ErrInvalidInput)
	}

	highestClose := candles[0].Close
	lowestClose := candles[0].Close
	for _, c := range candles[1:] {
		if c.Close > highestClose {
			highestClose = c.Close
		}
		if c.Close < lowestClose {
			lowestClose = c.Close
		}
	}
	if !validPrice(highestClose) || !validPrice(lowestClose) {
		return domain.BestPayout{}, fmt.Errorf("%w: candle closes must be positive finite numbers", ErrInvalidInput)
	}

	var (
		result domain.ScenarioResult
		err    error
	)
	switch h := hedge.(type) {
	case SpotHedge:
		result, err = PayoutShortDelay(h.Quantity, h.SpotEntry, highestClose, lowestClose, h.HedgingRatio, twoWeekVolume)
	case FutureHedge:
		result, err = PayoutFutureDelay(h.Quantity, h.SpotEntry, h.FuturesEntry, highestClose, lowestClose, h.HedgingRatio, twoWeekVolume)
	case ParamsHedge:
		result, err = PayoutFromParamsDelay(h.Params, highestClose, lowestClose, twoWeekVolume, h.SpotEntry)
	default:
		return domain.BestPayout{}, fmt.Errorf("%w: unsupported hedge kind %q", ErrInvalidInput, hedge.Kind())
	}
	if err != nil {
		return domain.BestPayout{}, err
	}

	return domain.BestPayout{
		BestSpotPayout:   result.SpotPayout,
		BestHedgedPayout: result.HedgedPayout,
	}, nil
}
