package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, opts Options) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(opts)
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("id"))
	}))
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?id=" + id
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func TestHubBroadcast(t *testing.T) {
	hub, srv := startHub(t, Options{})
	a := dial(t, srv, "a")
	b := dial(t, srv, "b")

	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Broadcast(Message{Type: "newPost", Data: map[string]string{"id": "1"}}))

	for _, conn := range []*websocket.Conn{a, b} {
		msg := readMessage(t, conn)
		assert.Equal(t, "newPost", msg.Type)
	}
}

func TestHubInboundHandler(t *testing.T) {
	hub, srv := startHub(t, Options{MessagesPerSecond: 100, Burst: 10})
	got := make(chan string, 1)
	hub.SetHandler(func(_ context.Context, c *Client, raw []byte) {
		got <- c.ID + ":" + string(raw)
		c.Send(Message{Type: "ack"})
	})

	conn := dial(t, srv, "caller-1")
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"chat"}`)))

	select {
	case v := <-got:
		assert.Equal(t, `caller-1:{"type":"chat"}`, v)
	case <-time.After(2 * time.Second):
		t.Fatal("handler not called")
	}
	assert.Equal(t, "ack", readMessage(t, conn).Type)
}

func TestHubThrottlesFastSender(t *testing.T) {
	hub, srv := startHub(t, Options{MessagesPerSecond: 0.001, Burst: 1})
	calls := make(chan struct{}, 10)
	hub.SetHandler(func(_ context.Context, _ *Client, _ []byte) { calls <- struct{}{} })

	conn := dial(t, srv, "x")
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("1")))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("2")))

	msg := readMessage(t, conn)
	assert.Equal(t, "error", msg.Type)
	assert.Len(t, calls, 1)
}

func TestHubUnregisterOnClose(t *testing.T) {
	hub, srv := startHub(t, Options{})
	conn := dial(t, srv, "a")
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestClientSendAfterHubStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(Options{})
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	c := &Client{ID: "a", hub: hub, send: make(chan []byte, sendBuffer)}
	hub.register <- c
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	stop := make(chan struct{})
	sent := make(chan struct{})
	go func() {
		defer close(sent)
		for {
			select {
			case <-stop:
				return
			default:
				c.Send(Message{Type: "ping"})
			}
		}
	}()

	cancel()
	<-done
	close(stop)
	<-sent

	assert.NotPanics(t, func() { c.Send(Message{Type: "late"}) })
	// 队列已关闭，读空后 range 结束
	for range c.send {
	}
}
