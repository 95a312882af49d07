package exchange

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// Subscribe is retried lazily whenever a symbol is uncached, so the adapter
// has to survive repeated stream drops and reconnects without blowing up.
func TestReconnectAfterStreamDrops(t *testing.T) {
	upgrader := websocket.Upgrader{}
	drops := make(chan struct{}, 4)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		c.ReadMessage() // consume the SUBSCRIBE request
		c.Close()
		drops <- struct{}{}
	}))
	defer ts.Close()

	adapter := NewBinanceAdapter("", "", "ws"+strings.TrimPrefix(ts.URL, "http"))

	if err := adapter.Subscribe([]string{"BTCUSDT"}); err != nil {
		t.Fatalf("first subscribe failed: %v", err)
	}
	<-drops
	waitDisconnected(t, adapter)

	// The second drop used to crash the process; the read loop must exit
	// cleanly again instead.
	if err := adapter.Subscribe([]string{"ETHUSDT"}); err != nil {
		t.Fatalf("second subscribe failed: %v", err)
	}
	<-drops
	waitDisconnected(t, adapter)
}

func waitDisconnected(t *testing.T, b *BinanceAdapter) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		b.mu.Lock()
		conn := b.wsConn
		b.mu.Unlock()
		if conn == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("read loop did not clear the connection after a drop")
}
