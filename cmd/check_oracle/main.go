package main

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vitos/crypto_hedge_calc/internal/infrastructure/exchange"
)

type Config struct {
	Oracle struct {
		SpotEndpoint    string `yaml:"spot_endpoint"`
		FuturesEndpoint string `yaml:"futures_endpoint"`
		WSEndpoint      string `yaml:"ws_endpoint"`
	} `yaml:"oracle"`
}

func loadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func main() {
	// 1. Load Config
	cfg, err := loadConfig("config/config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Testing Binance Interaction...\n")
	fmt.Printf("Spot Endpoint: %s\n", cfg.Oracle.SpotEndpoint)

	adapter := exchange.NewBinanceAdapter(cfg.Oracle.SpotEndpoint, cfg.Oracle.FuturesEndpoint, cfg.Oracle.WSEndpoint)
	ctx := context.Background()

	// 2. Check Spot Price
	spot, err := adapter.GetSpotPrice(ctx, "BTCUSDT")
	if err != nil {
		fmt.Printf("❌ Failed to get spot price: %v\n", err)
	} else {
		fmt.Printf("✅ Spot Price (BTCUSDT): %f\n", spot)
	}

	// 3. Check Futures Price
	futures, err := adapter.GetFuturesPrice(ctx, "BTCUSDT")
	if err != nil {
		fmt.Printf("❌ Failed to get futures price: %v\n", err)
	} else {
		fmt.Printf("✅ Futures Price (BTCUSDT): %f\n", futures)
	}

	// 4. Check Symbol Listing
	symbols, err := adapter.GetAvailableSymbols(ctx)
	if err != nil {
		fmt.Printf("❌ Failed to list symbols: %v\n", err)
	} else {
		fmt.Printf("✅ Tradable USDT symbols: %d\n", len(symbols))
	}
}
