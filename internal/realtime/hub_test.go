package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/internal/events"
	"storefront/internal/products"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func startHub(t *testing.T) (*Hub, string, func()) {
	t.Helper()
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	return h, url, func() {
		cancel()
		<-done
		srv.Close()
	}
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestHubBroadcastsFramesToEveryClient(t *testing.T) {
	defer goleak.VerifyNone(t)

	h, url, stop := startHub(t)
	defer stop()

	a, b := dial(t, url), dial(t, url)
	defer a.Close()
	defer b.Close()
	require.Eventually(t, func() bool { return h.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, h.Deliver(context.Background(), events.StockChanged(products.Item{ID: "1", Stock: 2})))

	for _, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)

		var frame struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(raw, &frame))
		assert.Equal(t, "stockUpdate", frame.Event)
		assert.JSONEq(t, `{"id":"1","stock":2}`, string(frame.Data))
	}
}

func TestHubForgetsDisconnectedClients(t *testing.T) {
	defer goleak.VerifyNone(t)

	h, url, stop := startHub(t)
	defer stop()

	conn := dial(t, url)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHubDeliverAfterStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	h, _, stop := startHub(t)
	stop()

	err := h.Deliver(context.Background(), events.ItemDeleted("1"))
	assert.ErrorIs(t, err, ErrClosed)
}
