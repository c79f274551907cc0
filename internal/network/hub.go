// Package network provides WebSocket server functionality.
//
// ARCHITECTURAL RULE: This package is AGNOSTIC to game logic.
// It only knows how to route messages; game logic lives in domain/engine.
package network

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/emberreach/server/internal/engine"
	"github.com/emberreach/server/internal/events"
	"github.com/emberreach/server/internal/platform/logger"
	"github.com/emberreach/server/internal/platform/ratelimit"
)

// MessageType defines the category of WebSocket messages.
type MessageType string

const (
	MsgTypeAuth      MessageType = "AUTH"
	MsgTypeGameState MessageType = "GAME_STATE"
	MsgTypeAction    MessageType = "ACTION"
	MsgTypeEvent     MessageType = "EVENT"
	MsgTypePing      MessageType = "PING"
	MsgTypePong      MessageType = "PONG"
	MsgTypeError     MessageType = "ERROR"
	MsgTypeRecap     MessageType = "RECAP"
)

// Message is the standard WebSocket message envelope.
type Message struct {
	Type      MessageType            `json:"type"`
	Timestamp int64                  `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload"`
}

// Hub manages all WebSocket connections to the single shared world.
type Hub struct {
	engine  *engine.Engine
	logger  *logger.Logger
	limiter *ratelimit.PlayerLimiter

	clients    map[string]*Client // keyed by player ID
	register   chan *Client
	unregister chan *Client
	broadcast  chan BroadcastMessage
	mu         sync.RWMutex

	upgrader websocket.Upgrader
}

// BroadcastMessage targets specific clients, or every connected client
// when Targets is empty.
type BroadcastMessage struct {
	Targets []string
	Message Message
}

// NewHub creates a new WebSocket hub bound to the simulation engine.
func NewHub(e *engine.Engine, log *logger.Logger, limiter *ratelimit.PlayerLimiter) *Hub {
	return &Hub{
		engine:     e,
		logger:     log,
		limiter:    limiter,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan BroadcastMessage, 256),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Run starts the hub's main loop. Call in a goroutine.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("WebSocket Hub started")

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.playerID] = client
			h.mu.Unlock()
			h.logger.Event("WS_CONNECT", client.playerID, "Client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.playerID]; ok {
				delete(h.clients, client.playerID)
				close(client.send)
			}
			h.mu.Unlock()
			h.limiter.Evict(client.playerID)
			h.logger.Event("WS_DISCONNECT", client.playerID, "Client disconnected")

		case msg := <-h.broadcast:
			h.handleBroadcast(msg)
		}
	}
}

// handleBroadcast sends a message to targeted clients.
func (h *Hub) handleBroadcast(bm BroadcastMessage) {
	data, err := json.Marshal(bm.Message)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast: " + err.Error())
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, client := range h.clients {
		if len(bm.Targets) > 0 {
			found := false
			for _, t := range bm.Targets {
				if t == id {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}

		select {
		case client.send <- data:
		default:
			close(client.send)
			delete(h.clients, id)
		}
	}
}

// BroadcastAll sends a message to every connected client.
func (h *Hub) BroadcastAll(msg Message) {
	h.broadcast <- BroadcastMessage{Message: msg}
}

// SendToClient sends a message to one connected player.
func (h *Hub) SendToClient(playerID string, msg Message) error {
	h.mu.RLock()
	client, ok := h.clients[playerID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("client not found: %s", playerID)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	client.send <- data
	return nil
}

// ConnectedPlayers returns the IDs of every currently connected player.
func (h *Hub) ConnectedPlayers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}

// IsOnline reports whether a player currently has an open connection.
func (h *Hub) IsOnline(playerID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[playerID]
	return ok
}

// ServeHTTP upgrades an incoming request to a WebSocket connection and
// spins up the read/write pumps for it. The player ID comes from a
// query parameter set by whatever auth the deployment sits behind —
// this layer only routes, it never authenticates.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("player_id")
	if playerID == "" {
		http.Error(w, "missing player_id", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed: " + err.Error())
		return
	}

	client := NewClient(h, conn, playerID)
	client.Register()
	h.engine.GetEventLog().Append(events.GameEvent{
		ID: events.GenerateEventID(), Timestamp: time.Now(),
		Type: events.EventTypePlayerConnected, ActorID: playerID, TargetID: playerID,
	})

	go client.WritePump()
	go client.ReadPump()
}

// writeWait bounds how long a single write may block.
const writeWait = 10 * time.Second
