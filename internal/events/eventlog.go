// Package events provides the event-sourcing audit trail for the
// simulation: every reducer that mutates player-visible state appends
// an immutable GameEvent here, write-through persisted, and replayable
// for reconnect catch-up and debugging.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType categorizes a recorded event.
type EventType string

const (
	EventTypeEffectApplied        EventType = "EFFECT_APPLIED"
	EventTypeEffectCancelled      EventType = "EFFECT_CANCELLED"
	EventTypeEffectExpired        EventType = "EFFECT_EXPIRED"
	EventTypeGlobalTick           EventType = "GLOBAL_TICK"
	EventTypeCampfireTick         EventType = "CAMPFIRE_TICK"
	EventTypeCampfireLit          EventType = "CAMPFIRE_LIT"
	EventTypeCampfireExtinguished EventType = "CAMPFIRE_EXTINGUISHED"
	EventTypeBrothPotTick         EventType = "BROTH_POT_TICK"
	EventTypeRecipeCompleted      EventType = "RECIPE_COMPLETED"
	EventTypeProjectileFired      EventType = "PROJECTILE_FIRED"
	EventTypeProjectileTick       EventType = "PROJECTILE_TICK"
	EventTypeProjectileImpact     EventType = "PROJECTILE_IMPACT"
	EventTypePlayerDamaged        EventType = "PLAYER_DAMAGED"
	EventTypePlayerDied           EventType = "PLAYER_DIED"
	EventTypeCorpseCreated        EventType = "CORPSE_CREATED"
	EventTypeCorpseDespawned      EventType = "CORPSE_DESPAWNED"
	EventTypeCorpseRestored       EventType = "CORPSE_RESTORED"
	EventTypePlayerConnected      EventType = "PLAYER_CONNECTED"
	EventTypePlayerDisconnected   EventType = "PLAYER_DISCONNECTED"
	EventTypeItemMoved            EventType = "ITEM_MOVED"
	EventTypeItemConsumed         EventType = "ITEM_CONSUMED"
	EventTypeItemDropped          EventType = "ITEM_DROPPED"
	EventTypeMetabolismTick       EventType = "METABOLISM_TICK"
	EventTypeWallDamaged          EventType = "WALL_DAMAGED"
	EventTypeWallDestroyed        EventType = "WALL_DESTROYED"
	EventTypeObstacleDamaged      EventType = "OBSTACLE_DAMAGED"
	EventTypeObstacleDestroyed    EventType = "OBSTACLE_DESTROYED"
	EventTypeArrowBroke           EventType = "ARROW_BROKE"
	EventTypeAmmoDropped          EventType = "AMMO_DROPPED"
	EventTypeFirePatchCreated     EventType = "FIRE_PATCH_CREATED"
)

// SystemActorID marks events originated by the scheduler rather than a
// client-invoked reducer — the Go rendering of "sender == module
// identity" from the specification's concurrency model.
const SystemActorID = "SYSTEM"

// GameEvent is an immutable record of a reducer's effect.
type GameEvent struct {
	ID         string      `json:"id"`
	Timestamp  time.Time   `json:"timestamp"`
	Type       EventType   `json:"type"`
	ActorID    string      `json:"actor_id"`
	TargetID   string      `json:"target_id"`
	Payload    interface{} `json:"payload"`
	IsRevealed bool        `json:"is_revealed"`
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// EventLog is the in-memory append-only log of game events, optionally
// write-through persisted.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	persister EventPersister
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log. Events are immutable once appended.
func (el *EventLog) Append(event GameEvent) {
	el.mu.Lock()
	el.events = append(el.events, event)
	el.mu.Unlock()

	if el.persister != nil {
		go func(e GameEvent) {
			_ = el.persister.Append(e)
		}(event)
	}
}

// GetByActor returns all events performed by a specific actor.
func (el *EventLog) GetByActor(actorID string) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.ActorID == actorID {
			result = append(result, e)
		}
	}
	return result
}

// GetByType returns all events of a given type.
func (el *EventLog) GetByType(t EventType) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// Replay returns the full history of events for state reconstruction
// or reconnect catch-up.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	out := make([]GameEvent, len(el.events))
	copy(out, el.events)
	return out
}

// GenerateEventID creates a unique event identifier. Uses a real UUID
// rather than a timestamp-plus-modulo suffix, which is not
// collision-safe under concurrent dispatch.
func GenerateEventID() string {
	return uuid.NewString()
}
