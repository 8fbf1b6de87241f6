// Package server is the WebSocket transport adapter: it decodes client
// commands into engine actions and fans engine notices out to connected
// players. The engine only sees it through the Notifier port.
package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/kittenfree/kitten-server-go/internal/game"
	"github.com/kittenfree/kitten-server-go/internal/identity"
	"github.com/kittenfree/kitten-server-go/internal/room"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub tracks connected clients by player id and implements the engine's
// Notifier port. Sends are fire-and-forget: a slow or absent client
// never blocks a state transition.
type Hub struct {
	mu       sync.RWMutex
	log      *zap.Logger
	ids      *identity.Directory
	registry *room.Registry
	clients  map[string]*Client
}

// NewHub creates a hub. The registry is attached afterwards because the
// registry itself needs the hub as its notifier.
func NewHub(ids *identity.Directory, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		log:     logger,
		ids:     ids,
		clients: make(map[string]*Client),
	}
}

// SetRegistry attaches the room registry commands are dispatched to.
func (h *Hub) SetRegistry(registry *room.Registry) {
	h.registry = registry
}

// serverMessage is the outbound envelope.
type serverMessage struct {
	Type     string            `json:"type"`
	Notice   *game.Notice      `json:"notice,omitempty"`
	Names    map[string]string `json:"names,omitempty"`
	Snapshot *game.Snapshot    `json:"snapshot,omitempty"`
	Room     int               `json:"room,omitempty"`
	Error    string            `json:"error,omitempty"`
	Action   string            `json:"action,omitempty"`
}

// Send delivers a notice to one player. Implements game.Notifier.
func (h *Hub) Send(playerID string, notice game.Notice) {
	h.mu.RLock()
	client, ok := h.clients[playerID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	client.enqueue(h.noticeMessage(notice))
}

// SendMany delivers a notice to several players. Implements
// game.Notifier.
func (h *Hub) SendMany(playerIDs []string, notice game.Notice) {
	msg := h.noticeMessage(notice)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, id := range playerIDs {
		if client, ok := h.clients[id]; ok {
			client.enqueue(msg)
		}
	}
}

// noticeMessage wraps a notice with the display names the client needs
// to render it.
func (h *Hub) noticeMessage(notice game.Notice) []byte {
	names := make(map[string]string)
	for _, id := range []string{notice.Actor, notice.Target, notice.Winner} {
		if id != "" {
			names[id] = h.ids.DisplayName(id)
		}
	}
	msg := serverMessage{Type: "notice", Notice: &notice, Names: names}
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Warn("failed to marshal notice", zap.Error(err))
		return nil
	}
	return data
}

// ServeWS upgrades an HTTP request to a client connection. The player id
// and display name arrive as query parameters; identity verification is
// the caller's concern, not the engine's.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("player_id")
	if playerID == "" {
		http.Error(w, "player_id is required", http.StatusBadRequest)
		return
	}
	if name := r.URL.Query().Get("name"); name != "" {
		h.ids.Register(playerID, name)
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(h, conn, playerID)
	h.register(client)

	go client.writePump()
	go client.readPump()
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	if old, ok := h.clients[c.playerID]; ok {
		old.close()
	}
	h.clients[c.playerID] = c
	h.mu.Unlock()
	h.log.Info("client connected", zap.String("player_id", c.playerID))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if h.clients[c.playerID] == c {
		delete(h.clients, c.playerID)
	}
	h.mu.Unlock()
	h.log.Info("client disconnected", zap.String("player_id", c.playerID))
}

// Start serves the WebSocket endpoint and a health check until the
// listener fails or the process stops.
func Start(address string, hub *Hub, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	logger.Info("starting websocket server", zap.String("address", address))
	return http.ListenAndServe(address, mux)
}
