package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/vitos/crypto_hedge_calc/internal/domain"
	"github.com/vitos/crypto_hedge_calc/internal/usecase"
	"go.uber.org/zap"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// calcError maps engine errors onto HTTP statuses. Validation problems are
// the caller's fault; insufficient margin is a business rule, not a malformed
// request.
func (s *Server) calcError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrInsufficientMargin):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.logger.Error("Calculation failed", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// --- Market data ---

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	symbols, err := s.marketService.AvailableSymbols(r.Context())
	if err != nil {
		s.logger.Error("Failed to list symbols", zap.Error(err))
		http.Error(w, "Failed to list symbols", http.StatusBadGateway)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"symbols": symbols})
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	}

	spot, err := s.marketService.SpotPrice(r.Context(), symbol)
	if err != nil {
		s.logger.Error("Failed to fetch spot price", zap.String("symbol", symbol), zap.Error(err))
		http.Error(w, "Failed to fetch spot price", http.StatusBadGateway)
		return
	}

	response := map[string]any{
		"symbol":     symbol,
		"spot_price": spot,
	}
	// A symbol without a futures market still supports the spot calculators.
	if futures, err := s.marketService.FuturesPrice(r.Context(), symbol); err != nil {
		s.logger.Warn("Failed to fetch futures price", zap.String("symbol", symbol), zap.Error(err))
	} else {
		response["futures_price"] = futures
	}
	s.writeJSON(w, http.StatusOK, response)
}

// --- Payout calculators ---

type payoutDisplay struct {
	SpotPayout   string `json:"spot_payout"`
	HedgedPayout string `json:"hedged_payout"`
}

type payoutResponse struct {
	domain.ScenarioResult
	Display payoutDisplay `json:"display"`
}

func newPayoutResponse(result domain.ScenarioResult) payoutResponse {
	return payoutResponse{
		ScenarioResult: result,
		Display: payoutDisplay{
			SpotPayout:   FormatMoney(result.SpotPayout),
			HedgedPayout: FormatMoney(result.HedgedPayout),
		},
	}
}

type payoutShortRequest struct {
	Quantity       float64 `json:"quantity"`
	SpotEntryPrice float64 `json:"spot_entry_price"`
	ExitPrice      float64 `json:"exit_price"`
	HedgingRatio   float64 `json:"hedging_ratio"`
	TwoWeekVolume  float64 `json:"two_week_volume"`
	Margin         float64 `json:"margin"`
}

func (s *Server) handlePayoutShort(w http.ResponseWriter, r *http.Request) {
	var req payoutShortRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := usecase.PayoutShort(req.Quantity, req.SpotEntryPrice, req.ExitPrice, req.HedgingRatio, req.TwoWeekVolume, req.Margin)
	if err != nil {
		s.calcError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newPayoutResponse(result))
}

type payoutFutureRequest struct {
	Quantity          float64 `json:"quantity"`
	SpotEntryPrice    float64 `json:"spot_entry_price"`
	FuturesEntryPrice float64 `json:"futures_entry_price"`
	ExitPrice         float64 `json:"exit_price"`
	HedgingRatio      float64 `json:"hedging_ratio"`
	TwoWeekVolume     float64 `json:"two_week_volume"`
}

func (s *Server) handlePayoutFuture(w http.ResponseWriter, r *http.Request) {
	var req payoutFutureRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := usecase.PayoutFuture(req.Quantity, req.SpotEntryPrice, req.FuturesEntryPrice, req.ExitPrice, req.HedgingRatio, req.TwoWeekVolume)
	if err != nil {
		s.calcError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newPayoutResponse(result))
}

type payoutDelayRequest struct {
	Quantity          float64 `json:"quantity"`
	SpotEntryPrice    float64 `json:"spot_entry_price"`
	FuturesEntryPrice float64 `json:"futures_entry_price"`
	LongClosePrice    float64 `json:"long_close_price"`
	HedgeClosePrice   float64 `json:"hedge_close_price"`
	HedgingRatio      float64 `json:"hedging_ratio"`
	TwoWeekVolume     float64 `json:"two_week_volume"`
}

func (s *Server) handlePayoutShortDelay(w http.ResponseWriter, r *http.Request) {
	var req payoutDelayRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := usecase.PayoutShortDelay(req.Quantity, req.SpotEntryPrice, req.LongClosePrice, req.HedgeClosePrice, req.HedgingRatio, req.TwoWeekVolume)
	if err != nil {
		s.calcError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newPayoutResponse(result))
}

func (s *Server) handlePayoutFutureDelay(w http.ResponseWriter, r *http.Request) {
	var req payoutDelayRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := usecase.PayoutFutureDelay(req.Quantity, req.SpotEntryPrice, req.FuturesEntryPrice, req.LongClosePrice, req.HedgeClosePrice, req.HedgingRatio, req.TwoWeekVolume)
	if err != nil {
		s.calcError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newPayoutResponse(result))
}

type payoutParamsRequest struct {
	Params          domain.HedgeParameters `json:"params"`
	SpotEntryPrice  float64                `json:"spot_entry_price"`
	VariationPct    float64                `json:"variation_pct"`
	LongClosePrice  float64                `json:"long_close_price"`
	HedgeClosePrice float64                `json:"hedge_close_price"`
	TwoWeekVolume   float64                `json:"two_week_volume"`
}

func (s *Server) handlePayoutFromParams(w http.ResponseWriter, r *http.Request) {
	var req payoutParamsRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := usecase.PayoutFromParams(req.Params, req.VariationPct, req.TwoWeekVolume, req.SpotEntryPrice)
	if err != nil {
		s.calcError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newPayoutResponse(result))
}

func (s *Server) handlePayoutFromParamsDelay(w http.ResponseWriter, r *http.Request) {
	var req payoutParamsRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := usecase.PayoutFromParamsDelay(req.Params, req.LongClosePrice, req.HedgeClosePrice, req.TwoWeekVolume, req.SpotEntryPrice)
	if err != nil {
		s.calcError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newPayoutResponse(result))
}

// --- Hedge description shared by scenarios, best-payout and annotate ---

type hedgeRequest struct {
	Kind              domain.HedgeKind        `json:"kind"`
	Quantity          float64                 `json:"quantity"`
	SpotEntryPrice    float64                 `json:"spot_entry_price"`
	FuturesEntryPrice float64                 `json:"futures_entry_price"`
	HedgingRatio      float64                 `json:"hedging_ratio"`
	Params            *domain.HedgeParameters `json:"params,omitempty"`
}

func (r hedgeRequest) toSpec() (usecase.HedgeSpec, error) {
	switch r.Kind {
	case domain.HedgeSpot:
		return usecase.SpotHedge{
			Quantity:     r.Quantity,
			SpotEntry:    r.SpotEntryPrice,
			HedgingRatio: r.HedgingRatio,
		}, nil
	case domain.HedgeFuture:
		return usecase.FutureHedge{
			Quantity:     r.Quantity,
			SpotEntry:    r.SpotEntryPrice,
			FuturesEntry: r.FuturesEntryPrice,
			HedgingRatio: r.HedgingRatio,
		}, nil
	case domain.HedgeParams:
		if r.Params == nil {
			return nil, fmt.Errorf("%w: result-based hedge needs params", usecase.ErrInvalidInput)
		}
		return usecase.ParamsHedge{
			Params:    *r.Params,
			SpotEntry: r.SpotEntryPrice,
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown hedge kind %q", usecase.ErrInvalidInput, r.Kind)
}

type scenariosRequest struct {
	hedgeRequest
	TwoWeekVolume float64 `json:"two_week_volume"`
	Margin        float64 `json:"margin"`
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	var req scenariosRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	spec, err := req.toSpec()
	if err != nil {
		s.calcError(w, err)
		return
	}
	projection, err := s.calculator.ProjectScenarios(spec, req.TwoWeekVolume, req.Margin)
	if err != nil {
		s.calcError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, projection)
}

// --- Solver ---

type solverRequest struct {
	SpotEntryPrice       float64           `json:"spot_entry_price"`
	ExpectedVariationPct float64           `json:"expected_variation_pct"`
	AvailableMargin      float64           `json:"available_margin"`
	Leverage             float64           `json:"leverage"`
	DesiredPayout        float64           `json:"desired_payout"`
	HedgingRatioPct      float64           `json:"hedging_ratio_pct"`
	TwoWeekVolume        float64           `json:"two_week_volume"`
	MarginMode           domain.MarginMode `json:"margin_mode"`
}

type solverResponse struct {
	domain.HedgeParameters
	Display map[string]string `json:"display"`
}

func (s *Server) handleSolver(w http.ResponseWriter, r *http.Request) {
	var req solverRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params, err := s.calculator.Solve(usecase.SolverInput{
		SpotEntryPrice:       req.SpotEntryPrice,
		ExpectedVariationPct: req.ExpectedVariationPct,
		AvailableMargin:      req.AvailableMargin,
		Leverage:             req.Leverage,
		DesiredPayout:        req.DesiredPayout,
		HedgingRatioPct:      req.HedgingRatioPct,
		TwoWeekVolume:        req.TwoWeekVolume,
		Mode:                 req.MarginMode,
	})
	if err != nil {
		s.calcError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, solverResponse{
		HedgeParameters: params,
		Display: map[string]string{
			"spot_quantity":   FormatPreciseQuantity(params.SpotQuantity),
			"short_quantity":  FormatPreciseQuantity(params.ShortQuantity),
			"leverage":        FormatQuantity(params.Leverage),
			"fees":            FormatMoney(params.Fees),
			"required_margin": FormatMoney(params.RequiredMargin),
			"expected_payout": FormatMoney(params.ExpectedPayout),
		},
	})
}

// --- Best payout ---

type bestPayoutRequest struct {
	hedgeRequest
	TwoWeekVolume float64               `json:"two_week_volume"`
	Candles       []domain.Candle       `json:"candles"`
	Direction     domain.TrendDirection `json:"direction"`
}

func (s *Server) handleBestPayout(w http.ResponseWriter, r *http.Request) {
	var req bestPayoutRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	spec, err := req.toSpec()
	if err != nil {
		s.calcError(w, err)
		return
	}

	candles := req.Candles
	// No explicit series: evaluate against the displayed simulated trend,
	// rescaled to the entry price.
	if len(candles) == 0 && req.Direction != "" {
		annotated, err := s.trendService.AnnotateTrend(req.Direction, spec, req.TwoWeekVolume)
		if err != nil {
			s.calcError(w, err)
			return
		}
		candles = make([]domain.Candle, len(annotated))
		for i, a := range annotated {
			candles[i] = a.Candle
		}
	}

	best, err := s.calculator.EvaluateBest(candles, spec, req.TwoWeekVolume)
	if err != nil {
		s.calcError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"best_spot_payout":   best.BestSpotPayout,
		"best_hedged_payout": best.BestHedgedPayout,
		"display": payoutDisplay{
			SpotPayout:   FormatMoney(best.BestSpotPayout),
			HedgedPayout: FormatMoney(best.BestHedgedPayout),
		},
	})
}

// --- Trends ---

func (s *Server) handleGetTrend(w http.ResponseWriter, r *http.Request) {
	direction := domain.TrendDirection(r.URL.Query().Get("direction"))
	if direction == "" {
		direction = domain.TrendUp
	}

	candles, err := s.trendService.Trend(direction)
	if err != nil {
		s.calcError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"direction": direction, "candles": candles})
}

func (s *Server) handleRegenerateTrends(w http.ResponseWriter, r *http.Request) {
	s.trendService.Regenerate()
	s.logger.Info("Regenerated simulated trends")
	w.WriteHeader(http.StatusNoContent)
}

type annotateTrendRequest struct {
	hedgeRequest
	Direction     domain.TrendDirection `json:"direction"`
	TwoWeekVolume float64               `json:"two_week_volume"`
}

func (s *Server) handleAnnotateTrend(w http.ResponseWriter, r *http.Request) {
	var req annotateTrendRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	spec, err := req.toSpec()
	if err != nil {
		s.calcError(w, err)
		return
	}
	annotated, err := s.trendService.AnnotateTrend(req.Direction, spec, req.TwoWeekVolume)
	if err != nil {
		s.calcError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"direction": req.Direction, "candles": annotated})
}

// --- Positions ---

func (s *Server) handleSavePosition(w http.ResponseWriter, r *http.Request) {
	var position domain.Position
	if err := decodeBody(r, &position); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if position.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	id, err := s.positionRepo.SavePosition(r.Context(), &position)
	if err != nil {
		s.logger.Error("Failed to save position", zap.Error(err))
		http.Error(w, "Failed to save position", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleListPositions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	positions, err := s.positionRepo.ListPositions(r.Context(), userID)
	if err != nil {
		s.logger.Error("Failed to list positions", zap.Error(err))
		http.Error(w, "Failed to list positions", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"positions": positions})
}

type closePositionRequest struct {
	LongClosePrice  float64 `json:"long_close_price"`
	HedgeClosePrice float64 `json:"hedge_close_price"`
	TwoWeekVolume   float64 `json:"two_week_volume"`
}

// handleClosePosition realizes a saved position at user-chosen close prices:
// the stored sizing goes through the delayed payout calculator and the result
// is persisted as the position's PnL.
func (s *Server) handleClosePosition(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req closePositionRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	position, err := s.positionRepo.GetPosition(r.Context(), id)
	if err != nil {
		http.Error(w, "Position not found", http.StatusNotFound)
		return
	}
	if position.Status == "closed" {
		http.Error(w, "Position already closed", http.StatusConflict)
		return
	}

	var result domain.ScenarioResult
	switch position.Hedge.Kind {
	case domain.HedgeSpot:
		result, err = usecase.PayoutShortDelay(position.Long.Quantity, position.Long.EntryPrice,
			req.LongClosePrice, req.HedgeClosePrice, position.HedgingRatio, req.TwoWeekVolume)
	case domain.HedgeFuture:
		result, err = usecase.PayoutFutureDelay(position.Long.Quantity, position.Long.EntryPrice, position.Hedge.EntryPrice,
			req.LongClosePrice, req.HedgeClosePrice, position.HedgingRatio, req.TwoWeekVolume)
	case domain.HedgeParams:
		result, err = usecase.PayoutFromParamsDelay(domain.HedgeParameters{
			SpotQuantity:   position.Long.Quantity,
			ShortQuantity:  position.Hedge.Quantity,
			Leverage:       position.Hedge.Leverage,
			RequiredMargin: position.Hedge.Margin,
		}, req.LongClosePrice, req.HedgeClosePrice, req.TwoWeekVolume, position.Long.EntryPrice)
	default:
		http.Error(w, fmt.Sprintf("unknown hedge kind %q", position.Hedge.Kind), http.StatusInternalServerError)
		return
	}
	if err != nil {
		s.calcError(w, err)
		return
	}

	if err := s.positionRepo.UpdatePositionClose(r.Context(), id, req.LongClosePrice, req.HedgeClosePrice, result.HedgedPayout); err != nil {
		s.logger.Error("Failed to close position", zap.String("id", id), zap.Error(err))
		http.Error(w, "Failed to close position", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, newPayoutResponse(result))
}

func (s *Server) handleDeletePosition(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.positionRepo.DeletePosition(r.Context(), id); err != nil {
		s.logger.Error("Failed to delete position", zap.String("id", id), zap.Error(err))
		http.Error(w, "Failed to delete position", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
