package storage

import (
	"context"
	"time"
)

// StoredEvent mirrors events.GameEvent for persistence. The domain
// events package does not import this package — it only depends on
// events.EventPersister, so this stays a one-way adapter.
type StoredEvent struct {
	ID         string    `db:"id"`
	Timestamp  time.Time `db:"timestamp"`
	EventType  string    `db:"event_type"`
	ActorID    string    `db:"actor_id"`
	TargetID   string    `db:"target_id"`
	Payload    []byte    `db:"payload"`
	Compressed bool      `db:"payload_compressed"`
	IsRevealed bool      `db:"is_revealed"`
}

// EventRepository is the persistence contract for the append-only event
// log, consumed by an adapter implementing events.EventPersister.
type EventRepository interface {
	Append(ctx context.Context, event StoredEvent) error
	GetByActorID(ctx context.Context, actorID string) ([]StoredEvent, error)
	GetByEventType(ctx context.Context, eventType string) ([]StoredEvent, error)
	GetSince(ctx context.Context, since time.Time) ([]StoredEvent, error)
}

// PlayerSnapshot is a denormalized read model for a player row, used by
// the reconnect "recap" flow and for quick lookups outside the engine's
// in-memory state.
type PlayerSnapshot struct {
	ID          string    `db:"id"`
	DisplayName string    `db:"display_name"`
	X           float32   `db:"x"`
	Y           float32   `db:"y"`
	Health      float32   `db:"health"`
	Hunger      float32   `db:"hunger"`
	Thirst      float32   `db:"thirst"`
	Warmth      float32   `db:"warmth"`
	IsDead      bool      `db:"is_dead"`
	IsOnline    bool      `db:"is_online"`
	LastUpdated time.Time `db:"-"`
}

// SnapshotRepository is the persistence contract for player state
// snapshots — kept separate from the event log so reads don't require
// a full replay.
type SnapshotRepository interface {
	Upsert(ctx context.Context, snapshot PlayerSnapshot) error
	GetByID(ctx context.Context, playerID string) (*PlayerSnapshot, error)
	GetAll(ctx context.Context) ([]PlayerSnapshot, error)
}
