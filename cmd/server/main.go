package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/vitos/crypto_hedge_calc/internal/infrastructure/exchange"
	"github.com/vitos/crypto_hedge_calc/internal/infrastructure/logger"
	"github.com/vitos/crypto_hedge_calc/internal/infrastructure/storage"
	"github.com/vitos/crypto_hedge_calc/internal/usecase"
	"github.com/vitos/crypto_hedge_calc/internal/web"
)

type Config struct {
	Oracle struct {
		SpotEndpoint    string `yaml:"spot_endpoint"`
		FuturesEndpoint string `yaml:"futures_endpoint"`
		WSEndpoint      string `yaml:"ws_endpoint"`
	} `yaml:"oracle"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logging"`
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
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

	// 2. Init Logger
	var log *zap.Logger
	if cfg.Logging.File != "" {
		log, err = logger.NewFileLogger(cfg.Logging.File, cfg.Logging.Level)
	} else {
		log, err = logger.NewLogger(cfg.Logging.Level)
	}
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// 3. Init Storage
	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath = "hedge_calc.db"
	}
	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		log.Fatal("Failed to init sqlite", zap.Error(err))
	}
	defer store.Close()

	// 4. Init Price Oracle (Binance)
	oracle := exchange.NewBinanceAdapter(cfg.Oracle.SpotEndpoint, cfg.Oracle.FuturesEndpoint, cfg.Oracle.WSEndpoint)

	// 5. Init Services
	marketService := usecase.NewMarketService(oracle, log)
	calculator := usecase.NewCalculatorService(log)
	trendService := usecase.NewTrendService()

	// 6. Init Web Server
	port := cfg.Server.Port
	if port == 0 {
		port = 8080 // Default
	}
	server := web.NewServer(port, store, calculator, marketService, trendService, log)

	// 7. Start Server
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()
	log.Info("Server started", zap.Int("port", port))

	// 8. Wait for Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down...")
	server.Shutdown(context.Background())
}
