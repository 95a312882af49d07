package usecase

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/vitos/crypto_hedge_calc/internal/domain"
)

const (
	trendStartPrice  = 100.0
	trendVolatility  = 0.4
	trendDrift       = 0.004
	trendCandleCount = 100
	trendCandleStep  = 24 * time.Hour
)

// TrendService owns the simulated price paths shown on the chart. Each
// regeneration is a fresh random draw; the previous set is discarded. State
// is held here explicitly so the calculators never see shared globals.
type TrendService struct {
	mu      sync.Mutex
	rng     *rand.Rand
	trends  map[domain.TrendDirection][]domain.Candle
	timeNow func() time.Time // For testing
}

func NewTrendService() *TrendService {
	s := &TrendService{
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		trends:  make(map[domain.TrendDirection][]domain.Candle),
		timeNow: time.Now,
	}
	s.Regenerate()
	return s
}

// Regenerate replaces all three trends with fresh random walks.
func (s *TrendService) Regenerate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := s.timeNow()
	s.trends[domain.TrendUp] = s.generate(start, trendStartPrice, trendDrift, trendVolatility, trendCandleCount)
	s.trends[domain.TrendDown] = s.generate(start, trendStartPrice, -trendDrift, trendVolatility, trendCandleCount)
	s.trends[domain.TrendSide] = s.generate(start, trendStartPrice, 0, trendVolatility, trendCandleCount)
}

// Trend returns a copy of the current series for one direction.
func (s *TrendService) Trend(direction domain.TrendDirection) ([]domain.Candle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	candles, ok := s.trends[direction]
	if !ok {
		return nil, fmt.Errorf("%w: unknown trend direction %q", ErrInvalidInput, direction)
	}
	out := make([]domain.Candle, len(candles))
	copy(out, candles)
	return out, nil
}

// generate is a drifted random walk: each close moves by drift plus a
// uniform shock scaled by volatility, and the candle body spans the move.
func (s *TrendService) generate(start time.Time, startPrice, drift, volatility float64, count int) []domain.Candle {
	candles := make([]domain.Candle, 0, count)
	previousClose := startPrice

	for i := 0; i < count; i++ {
		shock := (s.rng.Float64() - 0.5) * volatility
		closePrice := round2(previousClose * (1 + drift + shock))

		open := previousClose
		candles = append(candles, domain.Candle{
			Time:  start.Add(time.Duration(i) * trendCandleStep).Unix(),
			Open:  open,
			High:  math.Max(open, closePrice),
			Low:   math.Min(open, closePrice),
			Close: closePrice,
		})
		previousClose = closePrice
	}
	return candles
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AnnotatedCandle is a chart candle rescaled to the live entry price, with
// the payout the user would realize by closing at its close.
type AnnotatedCandle struct {
	domain.Candle
	SpotPayout   float64 `json:"spot_payout"`
	HedgedPayout float64 `json:"hedged_payout"`
}

// AnnotateTrend scales the simulated series (based at 100) to the hedge's
// spot entry price and computes per-candle close payouts.
func (s *TrendService) AnnotateTrend(direction domain.TrendDirection, hedge HedgeSpec, twoWeekVolume float64) ([]AnnotatedCandle, error) {
	var spotEntry float64
	switch h := hedge.(type) {
	case SpotHedge:
		spotEntry = h.SpotEntry
	case FutureHedge:
		spotEntry = h.SpotEntry
	case ParamsHedge:
		spotEntry = h.SpotEntry
	default:
		return nil, fmt.Errorf("%w: unsupported hedge kind %q", ErrInvalidInput, hedge.Kind())
	}
	if !validPrice(spotEntry) {
		return nil, fmt.Errorf("%w: entry price must be a positive finite number", ErrInvalidInput)
	}

	candles, err := s.Trend(direction)
	if err != nil {
		return nil, err
	}

	scale := spotEntry / trendStartPrice
	annotated := make([]AnnotatedCandle, 0, len(candles))
	for _, c := range candles {
		scaled := domain.Candle{
			Time:  c.Time,
			Open:  round2(c.Open * scale),
			High:  round2(c.High * scale),
			Low:   round2(c.Low * scale),
			Close: round2(c.Close * scale),
		}

		var result domain.ScenarioResult
		switch h := hedge.(type) {
		case SpotHedge:
			result, err = PayoutShort(h.Quantity, h.SpotEntry, scaled.Close, h.HedgingRatio, twoWeekVolume, 0)
		case FutureHedge:
			result, err = PayoutFuture(h.Quantity, h.SpotEntry, h.FuturesEntry, scaled.Close, h.HedgingRatio, twoWeekVolume)
		case ParamsHedge:
			variation := (scaled.Close - h.SpotEntry) / h.SpotEntry * 100
			result, err = PayoutFromParams(h.Params, variation, twoWeekVolume, h.SpotEntry)
		}
		if err != nil {
			return nil, err
		}

		annotated = append(annotated, AnnotatedCandle{
			Candle:       scaled,
			SpotPayout:   result.SpotPayout,
			HedgedPayout: result.HedgedPayout,
		})
	}
	return annotated, nil
}
