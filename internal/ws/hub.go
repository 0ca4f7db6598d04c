// internal/ws/hub.go
//
// WebSocket fan-out for game updates.
//
// The Hub keeps one connection set per game id. Subscribers attach via the
// /ws/game/{id} route; after every successful mutation the HTTP layer calls
// Notify with the precomputed public view and the hub pushes it to every
// subscriber of that game. The hub has no game logic of its own and never
// sees spymaster state, only the player-safe view it is handed.
//
// Ordering: Notify holds the hub mutex for the whole fan-out, so broadcasts
// for one game id go out in the same order the mutations were applied.

package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Notifier is the broadcast contract the HTTP layer depends on.
// Fire-and-forget: no acknowledgment, no error surface.
type Notifier interface {
	Notify(gameID string, view any)
}

// Message is the envelope for every pushed frame.
type Message struct {
	Type    string `json:"type"` // "GAME_UPDATE"
	Payload any    `json:"payload"`
}

const (
	pingInterval = 30 * time.Second

	// writeWait bounds how long one stalled subscriber can hold up a
	// broadcast; a write that cannot complete in time drops the conn.
	writeWait = 5 * time.Second
)

var _ Notifier = (*Hub)(nil)

// Hub tracks subscribers per game id and fans out updates.
type Hub struct {
	mu       sync.Mutex
	conns    map[string]map[*websocket.Conn]bool
	upgrader websocket.Upgrader
}

// NewHub constructs an empty hub. The upgrader accepts any origin: the
// server is built for LAN party play, the same stance the board pages take.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe upgrades the request and registers the connection under gameID.
// Blocks servicing the connection until the client goes away.
func (h *Hub) Subscribe(gameID string, w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("websocket upgrade failed")
		return
	}

	h.mu.Lock()
	if h.conns[gameID] == nil {
		h.conns[gameID] = make(map[*websocket.Conn]bool)
	}
	h.conns[gameID][conn] = true
	h.mu.Unlock()

	defer h.remove(gameID, conn)

	// Clients only listen; drain the read side until it closes so pings
	// and close frames are processed.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Notify pushes the view to every subscriber of gameID. Connections that
// fail the write, or cannot accept it within writeWait, are dropped.
func (h *Hub) Notify(gameID string, view any) {
	data, err := json.Marshal(Message{Type: "GAME_UPDATE", Payload: view})
	if err != nil {
		log.Error().Err(err).Str("gameId", gameID).Msg("marshal game update")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns[gameID] {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Debug().Err(err).Str("gameId", gameID).Msg("dropping dead subscriber")
			conn.Close()
			delete(h.conns[gameID], conn)
		}
	}
	if len(h.conns[gameID]) == 0 {
		delete(h.conns, gameID)
	}
}

// Subscribers reports the current subscriber count for gameID.
func (h *Hub) Subscribers(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns[gameID])
}

// PingLoop pings every connection at a fixed cadence until ctx is done.
// Run as a goroutine from main.
func (h *Hub) PingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.pingAll()
		}
	}
}

func (h *Hub) pingAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for gameID, conns := range h.conns {
		for conn := range conns {
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				conn.Close()
				delete(conns, conn)
			}
		}
		if len(conns) == 0 {
			delete(h.conns, gameID)
		}
	}
}

// remove unregisters a connection and closes it.
func (h *Hub) remove(gameID string, conn *websocket.Conn) {
	h.mu.Lock()
	if conns, ok := h.conns[gameID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.conns, gameID)
		}
	}
	h.mu.Unlock()
	conn.Close()
}
