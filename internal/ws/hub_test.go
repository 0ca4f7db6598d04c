package ws

import (
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

// dialHub spins an httptest server around h and connects one subscriber
// for gameID. Cleanup closes both.
func dialHub(t *testing.T, h *Hub, gameID string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Subscribe(gameID, w, r)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUpdate reads one frame and decodes the envelope.
func readUpdate(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

// waitSubscribers polls until the hub has registered n subscribers.
func waitSubscribers(t *testing.T, h *Hub, gameID string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Subscribers(gameID) != n {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber count for %s never reached %d", gameID, n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_NotifyFansOutToAllSubscribers(t *testing.T) {
	h := NewHub()
	a := dialHub(t, h, "game1")
	b := dialHub(t, h, "game1")
	waitSubscribers(t, h, "game1", 2)

	h.Notify("game1", map[string]string{"id": "game1", "status": "IN_PROGRESS"})

	for _, conn := range []*websocket.Conn{a, b} {
		msg := readUpdate(t, conn)
		assert.Equal(t, "GAME_UPDATE", msg.Type)
		payload, ok := msg.Payload.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "game1", payload["id"])
	}
}

func TestHub_NotifyIsScopedToGameID(t *testing.T) {
	h := NewHub()
	one := dialHub(t, h, "game1")
	other := dialHub(t, h, "game2")
	waitSubscribers(t, h, "game1", 1)
	waitSubscribers(t, h, "game2", 1)

	h.Notify("game1", map[string]string{"id": "game1"})

	readUpdate(t, one)

	require.NoError(t, other.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := other.ReadMessage()
	assert.Error(t, err, "game2 subscriber must not receive game1 updates")
}

func TestHub_NotifyPreservesUpdateOrder(t *testing.T) {
	h := NewHub()
	conn := dialHub(t, h, "game1")
	waitSubscribers(t, h, "game1", 1)

	for i := 0; i < 5; i++ {
		h.Notify("game1", map[string]int{"seq": i})
	}
	for i := 0; i < 5; i++ {
		msg := readUpdate(t, conn)
		payload := msg.Payload.(map[string]any)
		assert.Equal(t, float64(i), payload["seq"], "updates must arrive in mutation order")
	}
}

func TestHub_NotifyWithoutSubscribersIsNoop(t *testing.T) {
	h := NewHub()
	h.Notify("nobody-home", map[string]string{"id": "x"})
	assert.Equal(t, 0, h.Subscribers("nobody-home"))
}

func TestHub_StalledSubscriberIsDroppedNotWaitedOn(t *testing.T) {
	h := NewHub()
	conn := dialHub(t, h, "game1")
	waitSubscribers(t, h, "game1", 1)
	_ = conn // never read from; the socket's send buffers fill up

	// Pump large payloads until the write deadline fires and the conn is
	// pruned. Each Notify blocks for at most writeWait, never forever.
	payload := strings.Repeat("x", 1<<20)
	for i := 0; i < 64 && h.Subscribers("game1") > 0; i++ {
		h.Notify("game1", map[string]string{"data": payload})
	}
	assert.Equal(t, 0, h.Subscribers("game1"), "a subscriber that stops draining must be dropped")

	// Broadcasts keep flowing for everyone else.
	other := dialHub(t, h, "game1")
	waitSubscribers(t, h, "game1", 1)
	h.Notify("game1", map[string]string{"id": "game1"})
	msg := readUpdate(t, other)
	assert.Equal(t, "GAME_UPDATE", msg.Type)
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	h := NewHub()
	conn := dialHub(t, h, "game1")
	waitSubscribers(t, h, "game1", 1)

	conn.Close()
	waitSubscribers(t, h, "game1", 0)
}
