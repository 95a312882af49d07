package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	BinanceSpotURL    = "https://api.binance.com"
	BinanceFuturesURL = "https://fapi.binance.com"
	BinanceWSURL      = "wss://stream.binance.com:9443/ws"
)

// BinanceAdapter fetches public market data from Binance. Only public
// endpoints are used: the calculator never places orders.
type BinanceAdapter struct {
	spotURL    string
	futuresURL string
	wsURL      string
	client     *http.Client
	wsConn     *websocket.Conn
	callbacks  []func(symbol string, price float64)
	mu         sync.Mutex
}

func NewBinanceAdapter(spotURL, futuresURL, wsURL string) *BinanceAdapter {
	if spotURL == "" {
		spotURL = BinanceSpotURL
	}
	if futuresURL == "" {
		futuresURL = BinanceFuturesURL
	}
	if wsURL == "" {
		wsURL = BinanceWSURL
	}
	return &BinanceAdapter{
		spotURL:    spotURL,
		futuresURL: futuresURL,
		wsURL:      wsURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// --- REST API ---

func (b *BinanceAdapter) fetchTickerPrice(ctx context.Context, baseURL, path, symbol string) (float64, error) {
	url := baseURL + path + "?symbol=" + symbol
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("binance API error: %s", string(body))
	}

	var result struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, err
	}
	if result.Price == "" {
		return 0, fmt.Errorf("no price for symbol %s", symbol)
	}

	price, err := strconv.ParseFloat(result.Price, 64)
	if err != nil {
		return 0, err
	}
	if price <= 0 {
		return 0, fmt.Errorf("invalid price %f for symbol %s", price, symbol)
	}
	return price, nil
}

func (b *BinanceAdapter) GetSpotPrice(ctx context.Context, symbol string) (float64, error) {
	return b.fetchTickerPrice(ctx, b.spotURL, "/api/v3/ticker/price", symbol)
}

func (b *BinanceAdapter) GetFuturesPrice(ctx context.Context, symbol string) (float64, error) {
	return b.fetchTickerPrice(ctx, b.futuresURL, "/fapi/v1/ticker/price", symbol)
}

// GetAvailableSymbols lists actively trading USDT spot pairs.
func (b *BinanceAdapter) GetAvailableSymbols(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.spotURL+"/api/v3/exchangeInfo", nil)
	if err != nil {
		return nil, err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("binance API error: %s", string(body))
	}

	var result struct {
		Symbols []struct {
			Symbol     string `json:"symbol"`
			Status     string `json:"status"`
			QuoteAsset string `json:"quoteAsset"`
		} `json:"symbols"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}

	var symbols []string
	for _, s := range result.Symbols {
		if s.Status == "TRADING" && s.QuoteAsset == "USDT" {
			symbols = append(symbols, s.Symbol)
		}
	}
	return symbols, nil
}

// --- WebSocket ---

func (b *BinanceAdapter) OnPriceUpdate(callback func(symbol string, price float64)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callbacks = append(b.callbacks, callback)
}

func (b *BinanceAdapter) ConnectWS(symbols []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.wsConn != nil {
		return b.subscribe(symbols)
	}

	c, _, err := websocket.DefaultDialer.Dial(b.wsURL, nil)
	if err != nil {
		return err
	}
	b.wsConn = c

	go b.readLoop(c)
	return b.subscribe(symbols)
}

func (b *BinanceAdapter) Subscribe(symbols []string) error {
	b.mu.Lock()
	if b.wsConn == nil {
		b.mu.Unlock()
		return b.ConnectWS(symbols)
	}
	defer b.mu.Unlock()
	return b.subscribe(symbols)
}

func (b *BinanceAdapter) subscribe(symbols []string) error {
	if len(symbols) == 0 {
		return nil
	}
	params := make([]string, len(symbols))
	for i, s := range symbols {
		params[i] = strings.ToLower(s) + "@miniTicker"
	}

	subMsg := map[string]interface{}{
		"method": "SUBSCRIBE",
		"params": params,
		"id":     time.Now().UnixMilli(),
	}
	return b.wsConn.WriteJSON(subMsg)
}

// readLoop owns conn until it errors. Subscribe may dial a replacement while
// an old loop is still unwinding, so the loop only clears wsConn if it still
// holds its own connection.
func (b *BinanceAdapter) readLoop(conn *websocket.Conn) {
	defer func() {
		conn.Close()
		b.mu.Lock()
		if b.wsConn == conn {
			b.wsConn = nil
		}
		b.mu.Unlock()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Println("WS Read error:", err)
			return
		}

		var event struct {
			EventType string `json:"e"`
			Symbol    string `json:"s"`
			Close     string `json:"c"`
		}
		if err := json.Unmarshal(message, &event); err != nil {
			continue
		}
		if event.EventType != "24hrMiniTicker" || event.Symbol == "" {
			continue
		}

		price, err := strconv.ParseFloat(event.Close, 64)
		if err != nil || price <= 0 {
			continue
		}

		b.mu.Lock()
		callbacks := make([]func(string, float64), len(b.callbacks))
		copy(callbacks, b.callbacks)
		b.mu.Unlock()

		for _, cb := range callbacks {
			cb(event.Symbol, price)
		}
	}
}
