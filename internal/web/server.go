package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vitos/crypto_hedge_calc/internal/domain"
	"github.com/vitos/crypto_hedge_calc/internal/usecase"
	"go.uber.org/zap"
)

type Server struct {
	router        *http.ServeMux
	server        *http.Server
	positionRepo  domain.PositionRepository
	calculator    *usecase.CalculatorService
	marketService *usecase.MarketService
	trendService  *usecase.TrendService
	logger        *zap.Logger
}

func NewServer(
	port int,
	positionRepo domain.PositionRepository,
	calculator *usecase.CalculatorService,
	marketService *usecase.MarketService,
	trendService *usecase.TrendService,
	logger *zap.Logger,
) *Server {
	s := &Server{
		router:        http.NewServeMux(),
		positionRepo:  positionRepo,
		calculator:    calculator,
		marketService: marketService,
		trendService:  trendService,
		logger:        logger,
	}
	s.routes()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	return s
}

func (s *Server) routes() {
	// Market data
	s.router.HandleFunc("GET /api/symbols", s.handleSymbols)
	s.router.HandleFunc("GET /api/prices", s.handlePrices)

	// Payout calculators
	s.router.HandleFunc("POST /api/payout/short", s.handlePayoutShort)
	s.router.HandleFunc("POST /api/payout/future", s.handlePayoutFuture)
	s.router.HandleFunc("POST /api/payout/short-delay", s.handlePayoutShortDelay)
	s.router.HandleFunc("POST /api/payout/future-delay", s.handlePayoutFutureDelay)
	s.router.HandleFunc("POST /api/payout/params", s.handlePayoutFromParams)
	s.router.HandleFunc("POST /api/payout/params-delay", s.handlePayoutFromParamsDelay)

	// Scenario projection and solver
	s.router.HandleFunc("POST /api/scenarios", s.handleScenarios)
	s.router.HandleFunc("POST /api/solver", s.handleSolver)
	s.router.HandleFunc("POST /api/best-payout", s.handleBestPayout)

	// Simulated trends
	s.router.HandleFunc("GET /api/trends", s.handleGetTrend)
	s.router.HandleFunc("POST /api/trends/regenerate", s.handleRegenerateTrends)
	s.router.HandleFunc("POST /api/trends/annotate", s.handleAnnotateTrend)

	// Saved positions
	s.router.HandleFunc("POST /api/positions", s.handleSavePosition)
	s.router.HandleFunc("GET /api/positions", s.handleListPositions)
	s.router.HandleFunc("POST /api/positions/{id}/close", s.handleClosePosition)
	s.router.HandleFunc("DELETE /api/positions/{id}", s.handleDeletePosition)
}

func (s *Server) Start() error {
	s.logger.Info("Starting web server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
