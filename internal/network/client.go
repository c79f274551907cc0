package network

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/emberreach/server/internal/domain/item"
	"github.com/emberreach/server/internal/domain/projectile"
	"github.com/emberreach/server/internal/domain/rules"
	"github.com/emberreach/server/internal/events"
)

const (
	// pongWait is how long a connection may go without a pong before it
	// is considered dead.
	pongWait = 60 * time.Second
	// pingPeriod must stay under pongWait so a ping always lands first.
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize bounds one inbound frame.
	maxMessageSize = 4096
)

// PlayerAction is the envelope for an incoming command from a client.
type PlayerAction struct {
	Type     string          `json:"type"` // "MOVE", "SET_HELD_ITEM", "LIGHT_CAMPFIRE", "OPEN_CAMPFIRE", "CLOSE_CAMPFIRE", "OPEN_BROTHPOT", "CLOSE_BROTHPOT", "LIGHT_FURNACE", "ATTACH_POT", "PICKUP_POT", "FIRE", "DAMAGE_PLAYER", "MOVE_ITEM", "CONSUME_ITEM", "DROP_ITEM"
	PlayerID string          `json:"player_id"`
	Payload  json.RawMessage `json:"payload"`
}

// Client is one connected player's WebSocket session.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	playerID string
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn, playerID string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		playerID: playerID,
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// WritePump pumps queued messages and periodic pings to the peer.
// Runs in its own goroutine; exits when send is closed or the
// connection errors.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump pumps messages from the websocket connection to the engine.
// Runs in its own goroutine; exits on any read error, which also
// triggers the disconnect event.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
		c.hub.engine.GetEventLog().Append(events.GameEvent{
			ID: events.GenerateEventID(), Timestamp: time.Now(),
			Type: events.EventTypePlayerDisconnected, ActorID: c.playerID, TargetID: c.playerID,
		})
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("WebSocket read error for " + c.playerID + ": " + err.Error())
			}
			return
		}

		var action PlayerAction
		if err := json.Unmarshal(message, &action); err != nil {
			c.hub.logger.Warn("Failed to parse PlayerAction from " + c.playerID + ": " + err.Error())
			continue
		}
		action.PlayerID = c.playerID
		c.handlePlayerAction(action)
	}
}

func (c *Client) handlePlayerAction(action PlayerAction) {
	if !c.hub.limiter.Allow(c.playerID) {
		return
	}

	eng := c.hub.engine
	actor := eng.GetPlayer(action.PlayerID)
	if actor == nil {
		c.hub.logger.Error("PlayerAction from unknown player: " + action.PlayerID)
		return
	}
	if actor.IsDead {
		return
	}

	switch action.Type {
	case "MOVE":
		c.handleMove(actor.ID, action.Payload)
	case "SET_HELD_ITEM":
		c.handleSetHeldItem(actor.ID, action.Payload)
	case "LIGHT_CAMPFIRE":
		c.handleLightCampfire(actor.ID, action.Payload)
	case "OPEN_CAMPFIRE":
		c.handleOpenCampfire(actor.ID, action.Payload)
	case "CLOSE_CAMPFIRE":
		c.handleCloseCampfire(actor.ID, action.Payload)
	case "OPEN_BROTHPOT":
		c.handleOpenBrothPot(actor.ID, action.Payload)
	case "CLOSE_BROTHPOT":
		c.handleCloseBrothPot(actor.ID, action.Payload)
	case "LIGHT_FURNACE":
		c.handleLightFurnace(action.Payload)
	case "ATTACH_POT":
		c.handleAttachPot(action.Payload)
	case "PICKUP_POT":
		c.handlePickupPot(actor.ID, action.Payload)
	case "FIRE":
		c.handleFire(actor.ID, action.Payload)
	case "DAMAGE_PLAYER":
		c.handleDamagePlayer(actor.ID, action.Payload)
	case "MOVE_ITEM":
		c.handleMoveItem(actor.ID, action.Payload)
	case "CONSUME_ITEM":
		c.handleConsumeItem(actor.ID, action.Payload)
	case "DROP_ITEM":
		c.handleDropItem(actor.ID, action.Payload)
	default:
		c.hub.logger.Warn("Unknown PlayerAction type: " + action.Type)
	}
}

func (c *Client) handleMove(playerID string, raw json.RawMessage) {
	var move struct {
		X, Y      float32
		InVillage bool
	}
	if err := json.Unmarshal(raw, &move); err != nil {
		return
	}
	p := c.hub.engine.GetPlayer(playerID)
	if p == nil {
		return
	}
	p.X, p.Y = move.X, move.Y
	c.hub.engine.RefreshPlayerProximity(playerID, move.InVillage)
}

func (c *Client) handleSetHeldItem(playerID string, raw json.RawMessage) {
	var req struct{ DefID string }
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}
	c.hub.engine.SetHeldItem(playerID, item.DefID(req.DefID))
}

func (c *Client) handleLightCampfire(playerID string, raw json.RawMessage) {
	var req struct{ CampfireID string }
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}
	if err := c.hub.engine.LightCampfire(req.CampfireID); err != nil {
		c.hub.logger.Warn("LIGHT_CAMPFIRE failed for " + playerID + ": " + err.Error())
	}
}

func (c *Client) handleOpenCampfire(playerID string, raw json.RawMessage) {
	var req struct{ CampfireID string }
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}
	if err := c.hub.engine.OpenCampfire(req.CampfireID, playerID); err != nil {
		c.hub.logger.Warn("OPEN_CAMPFIRE failed for " + playerID + ": " + err.Error())
	}
}

func (c *Client) handleCloseCampfire(playerID string, raw json.RawMessage) {
	var req struct{ CampfireID string }
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}
	c.hub.engine.CloseCampfire(req.CampfireID, playerID)
}

func (c *Client) handleOpenBrothPot(playerID string, raw json.RawMessage) {
	var req struct{ PotID string }
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}
	if err := c.hub.engine.OpenBrothPot(req.PotID, playerID); err != nil {
		c.hub.logger.Warn("OPEN_BROTHPOT failed for " + playerID + ": " + err.Error())
	}
}

func (c *Client) handleCloseBrothPot(playerID string, raw json.RawMessage) {
	var req struct{ PotID string }
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}
	c.hub.engine.CloseBrothPot(req.PotID, playerID)
}

func (c *Client) handleDamagePlayer(sourceID string, raw json.RawMessage) {
	var req struct {
		TargetID string
		Amount   float32
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}
	c.hub.engine.DamagePlayer(req.TargetID, sourceID, req.Amount)
}

func (c *Client) handleLightFurnace(raw json.RawMessage) {
	var req struct{ FurnaceID string }
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}
	c.hub.engine.LightFurnace(req.FurnaceID)
}

func (c *Client) handleAttachPot(raw json.RawMessage) {
	var req struct{ PotID, CampfireID string }
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}
	c.hub.engine.AttachBrothPot(req.PotID, req.CampfireID)
}

func (c *Client) handlePickupPot(playerID string, raw json.RawMessage) {
	var req struct{ PotID string }
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}
	if err := c.hub.engine.PickupBrothPot(req.PotID); err != nil {
		c.hub.logger.Warn("PICKUP_POT failed for " + playerID + ": " + err.Error())
	}
}

func (c *Client) handleFire(ownerID string, raw json.RawMessage) {
	var req struct {
		ItemDefID            string
		AmmoDefID            string
		StartX, StartY       float32
		VelocityX, VelocityY float32
		MaxRange             float32
		SourceType           string
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}

	sourceType := projectile.SourcePlayer
	if req.SourceType != "" {
		sourceType = projectile.SourceType(req.SourceType)
	}

	p := &projectile.Projectile{
		ID:              events.GenerateEventID(),
		OwnerID:         ownerID,
		ItemDefID:       req.ItemDefID,
		AmmoDefID:       req.AmmoDefID,
		SourceType:      sourceType,
		StartTimeMicros: time.Now().UnixMicro(),
		StartPos:        rules.Vec2{X: req.StartX, Y: req.StartY},
		Velocity:        rules.Vec2{X: req.VelocityX, Y: req.VelocityY},
		MaxRange:        req.MaxRange,
	}
	if err := c.hub.engine.FireProjectile(p); err != nil {
		c.hub.logger.Warn("FIRE failed for " + ownerID + ": " + err.Error())
	}
}

func (c *Client) handleMoveItem(playerID string, raw json.RawMessage) {
	var req struct {
		FromKind string
		FromSlot int
		ToKind   string
		ToSlot   int
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}
	if err := c.hub.engine.MoveItem(playerID, item.LocationKind(req.FromKind), req.FromSlot, item.LocationKind(req.ToKind), req.ToSlot); err != nil {
		c.hub.logger.Warn("MOVE_ITEM failed for " + playerID + ": " + err.Error())
	}
}

func (c *Client) handleConsumeItem(playerID string, raw json.RawMessage) {
	var req struct{ InstanceID string }
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}
	if _, err := c.hub.engine.ConsumeItem(playerID, req.InstanceID); err != nil {
		c.hub.logger.Warn("CONSUME_ITEM failed for " + playerID + ": " + err.Error())
	}
}

func (c *Client) handleDropItem(playerID string, raw json.RawMessage) {
	var req struct {
		InstanceID string
		X, Y       float32
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}
	if _, err := c.hub.engine.DropItem(playerID, req.InstanceID, req.X, req.Y); err != nil {
		c.hub.logger.Warn("DROP_ITEM failed for " + playerID + ": " + err.Error())
	}
}
