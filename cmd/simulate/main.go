package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vitos/crypto_hedge_calc/internal/domain"
	"github.com/vitos/crypto_hedge_calc/internal/usecase"
	"github.com/vitos/crypto_hedge_calc/internal/web"
)

// Offline sanity tool: generate a simulated trend and walk a hedge through it
// without starting the server.
func main() {
	quantity := flag.Float64("quantity", 1, "long quantity")
	entry := flag.Float64("entry", 50000, "spot entry price")
	ratio := flag.Float64("ratio", 0.5, "hedging ratio (0..1)")
	volume := flag.Float64("volume", 0, "two-week traded volume in USD")
	direction := flag.String("direction", "up", "trend direction: up, down or side")
	flag.Parse()

	trends := usecase.NewTrendService()
	spec := usecase.SpotHedge{
		Quantity:     *quantity,
		SpotEntry:    *entry,
		HedgingRatio: *ratio,
	}

	annotated, err := trends.AnnotateTrend(domain.TrendDirection(*direction), spec, *volume)
	if err != nil {
		fmt.Printf("Failed to annotate trend: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-12s %-12s %-14s %-14s\n", "CLOSE", "OPEN", "SPOT PAYOUT", "HEDGED PAYOUT")
	for _, c := range annotated {
		fmt.Printf("%-12.2f %-12.2f %-14s %-14s\n",
			c.Close, c.Open, web.FormatMoney(c.SpotPayout), web.FormatMoney(c.HedgedPayout))
	}

	candles := make([]domain.Candle, len(annotated))
	for i, a := range annotated {
		candles[i] = a.Candle
	}
	best, err := usecase.BestPayout(candles, spec, *volume)
	if err != nil {
		fmt.Printf("Failed to evaluate best payout: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nBest spot payout:   %s\n", web.FormatMoney(best.BestSpotPayout))
	fmt.Printf("Best hedged payout: %s\n", web.FormatMoney(best.BestHedgedPayout))
}
