package usecase_test

import (
	"errors"
	"testing"

	"github.com/vitos/crypto_hedge_calc/internal/domain"
	"github.com/vitos/crypto_hedge_calc/internal/usecase"
)

func candleSeries(closes ...float64) []domain.Candle {
	candles := make([]domain.Candle, len(closes))
	for i, c := range closes {
		candles[i] = domain.Candle{Time: int64(i), Open: c, High: c, Low: c, Close: c}
	}
	return candles
}

func TestBestPayoutIsUpperBound(t *testing.T) {
	candles := candleSeries(50000, 52500, 48000, 55000, 46500, 51000)
	hedge := usecase.SpotHedge{Quantity: 1, SpotEntry: 50000, HedgingRatio: 0.5}

	best, err := usecase.BestPayout(candles, hedge, 0)
	if err != nil {
		t.Fatalf("BestPayout failed: %v", err)
	}

	// Closing both legs at any single common close can never beat it.
	for _, c := range candles {
		result, err := usecase.PayoutShortDelay(hedge.Quantity, hedge.SpotEntry, c.Close, c.Close, hedge.HedgingRatio, 0)
		if err != nil {
			t.Fatalf("PayoutShortDelay failed at close %f: %v", c.Close, err)
		}
		if best.BestHedgedPayout < result.HedgedPayout-epsilon {
			t.Errorf("best hedged payout %f beaten by common close %f: %f", best.BestHedgedPayout, c.Close, result.HedgedPayout)
		}
		if best.BestSpotPayout < result.SpotPayout-epsilon {
			t.Errorf("best spot payout %f beaten by common close %f: %f", best.BestSpotPayout, c.Close, result.SpotPayout)
		}
	}
}

func TestBestPayoutUsesExtremeCloses(t *testing.T) {
	candles := candleSeries(50000, 55000, 45000)
	best, err := usecase.BestPayout(candles, usecase.SpotHedge{Quantity: 1, SpotEntry: 50000, HedgingRatio: 0.5}, 0)
	if err != nil {
		t.Fatalf("BestPayout failed: %v", err)
	}

	// Long at the 55000 top, short bought back at the 45000 bottom.
	want, err := usecase.PayoutShortDelay(1, 50000, 55000, 45000, 0.5, 0)
	if err != nil {
		t.Fatalf("PayoutShortDelay failed: %v", err)
	}
	if !floatEquals(best.BestSpotPayout, want.SpotPayout) || !floatEquals(best.BestHedgedPayout, want.HedgedPayout) {
		t.Errorf("best payout %+v, want %f/%f", best, want.SpotPayout, want.HedgedPayout)
	}
}

func TestBestPayoutFutureAndParamsKinds(t *testing.T) {
	candles := candleSeries(50000, 53000, 47000)

	future, err := usecase.BestPayout(candles, usecase.FutureHedge{
		Quantity:     1,
		SpotEntry:    50000,
		FuturesEntry: 50100,
		HedgingRatio: 0.5,
	}, 0)
	if err != nil {
		t.Fatalf("BestPayout(future) failed: %v", err)
	}
	wantFuture, _ := usecase.PayoutFutureDelay(1, 50000, 50100, 53000, 47000, 0.5, 0)
	if !floatEquals(future.BestHedgedPayout, wantFuture.HedgedPayout) {
		t.Errorf("future best hedged = %f, want %f", future.BestHedgedPayout, wantFuture.HedgedPayout)
	}

	params, err := usecase.BestPayout(candles, usecase.ParamsHedge{
		Params:    domain.HedgeParameters{SpotQuantity: 2, ShortQuantity: 1},
		SpotEntry: 50000,
	}, 0)
	if err != nil {
		t.Fatalf("BestPayout(params) failed: %v", err)
	}
	wantParams, _ := usecase.PayoutFromParamsDelay(domain.HedgeParameters{SpotQuantity: 2, ShortQuantity: 1}, 53000, 47000, 0, 50000)
	if !floatEquals(params.BestHedgedPayout, wantParams.HedgedPayout) {
		t.Errorf("params best hedged = %f, want %f", params.BestHedgedPayout, wantParams.HedgedPayout)
	}
}

func TestBestPayoutEmptyCandlesGuard(t *testing.T) {
	best, err := usecase.BestPayout(nil, usecase.SpotHedge{Quantity: 1, SpotEntry: 50000, HedgingRatio: 0.5}, 0)
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if best != (domain.BestPayout{}) {
		t.Errorf("empty series must produce a zero result, got %+v", best)
	}
}
