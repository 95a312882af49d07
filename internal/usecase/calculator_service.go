package usecase

import (
	"github.com/vitos/crypto_hedge_calc/internal/domain"
	"go.uber.org/zap"
)

// Exit price moves used by the three-scenario projection.
const scenarioMovePct = 10.0

// ScenarioProjection is the payout at +10%, -10% and unchanged exit prices,
// plus the sizing figures shared by all three (taken from the neutral run).
type ScenarioProjection struct {
	Up                 domain.ScenarioResult `json:"up"`
	Down               domain.ScenarioResult `json:"down"`
	Neutral            domain.ScenarioResult `json:"neutral"`
	OptimalLeverage    float64               `json:"optimal_leverage"`
	TotalInvestedLong  float64               `json:"total_invested_long"`
	TotalInvestedHedge float64               `json:"total_invested_hedge"`
}

// CalculatorService fronts the pure payout functions for the web layer.
// Validation failures are logged here and passed back as zero results with
// the error message, keeping the UI responsive.
type CalculatorService struct {
	logger *zap.Logger
}

func NewCalculatorService(logger *zap.Logger) *CalculatorService {
	return &CalculatorService{logger: logger}
}

// ProjectScenarios evaluates the hedge at three canonical exits: 10% up,
// 10% down and flat.
func (s *CalculatorService) ProjectScenarios(hedge HedgeSpec, twoWeekVolume, margin float64) (*ScenarioProjection, error) {
	var spotEntry float64
	switch h := hedge.(type) {
	case SpotHedge:
		spotEntry = h.SpotEntry
	case FutureHedge:
		spotEntry = h.SpotEntry
	default:
		s.logger.Warn("Unsupported hedge kind for scenario projection", zap.String("kind", string(hedge.Kind())))
		return nil, ErrInvalidInput
	}

	exits := map[string]float64{
		"up":      spotEntry * (1 + scenarioMovePct/100),
		"down":    spotEntry * (1 - scenarioMovePct/100),
		"neutral": spotEntry,
	}

	projection := &ScenarioProjection{}
	for name, exitPrice := range exits {
		result, err := s.payoutAt(hedge, exitPrice, twoWeekVolume, margin)
		if err != nil {
			s.logger.Warn("Scenario projection rejected", zap.String("scenario", name), zap.Error(err))
			return nil, err
		}
		switch name {
		case "up":
			projection.Up = result
		case "down":
			projection.Down = result
		case "neutral":
			projection.Neutral = result
			projection.OptimalLeverage = result.OptimalLeverage
			projection.TotalInvestedLong = result.TotalInvestedLong
			projection.TotalInvestedHedge = result.TotalInvestedHedge
		}
	}
	return projection, nil
}

func (s *CalculatorService) payoutAt(hedge HedgeSpec, exitPrice, twoWeekVolume, margin float64) (domain.ScenarioResult, error) {
	switch h := hedge.(type) {
	case SpotHedge:
		return PayoutShort(h.Quantity, h.SpotEntry, exitPrice, h.HedgingRatio, twoWeekVolume, margin)
	case FutureHedge:
		return PayoutFuture(h.Quantity, h.SpotEntry, h.FuturesEntry, exitPrice, h.HedgingRatio, twoWeekVolume)
	case ParamsHedge:
		variation := (exitPrice - h.SpotEntry) / h.SpotEntry * 100
		return PayoutFromParams(h.Params, variation, twoWeekVolume, h.SpotEntry)
	}
	return domain.ScenarioResult{}, ErrInvalidInput
}

// Solve runs the parameter solver, logging rejected inputs.
func (s *CalculatorService) Solve(in SolverInput) (domain.HedgeParameters, error) {
	params, err := SolveShortHedgeParameters(in)
	if err != nil {
		s.logger.Warn("Hedge solver rejected input",
			zap.Float64("spot_entry", in.SpotEntryPrice),
			zap.Float64("variation_pct", in.ExpectedVariationPct),
			zap.Error(err))
		return domain.HedgeParameters{}, err
	}
	return params, nil
}

// EvaluateBest runs the best-case evaluator over a candle series, logging
// rejected inputs.
func (s *CalculatorService) EvaluateBest(candles []domain.Candle, hedge HedgeSpec, twoWeekVolume float64) (domain.BestPayout, error) {
	best, err := BestPayout(candles, hedge, twoWeekVolume)
	if err != nil {
		s.logger.Warn("Best payout evaluation rejected",
			zap.Int("candles", len(candles)),
			zap.String("kind", string(hedge.Kind())),
			zap.Error(err))
		return domain.BestPayout{}, err
	}
	return best, nil
}
