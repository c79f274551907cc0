package storage

import (
	"context"

	"github.com/emberreach/server/internal/events"
)

// EventPersisterAdapter implements events.EventPersister over an
// EventRepository, translating the domain's GameEvent into the
// persistence layer's StoredEvent (JSON+optional-lz4 payload encoding)
// so the events package never needs to know about SQL or compression.
type EventPersisterAdapter struct {
	repo EventRepository
}

// NewEventPersisterAdapter wraps a repository as an events.EventPersister.
func NewEventPersisterAdapter(repo EventRepository) *EventPersisterAdapter {
	return &EventPersisterAdapter{repo: repo}
}

// Append satisfies events.EventPersister.
func (a *EventPersisterAdapter) Append(event events.GameEvent) error {
	payload, compressed, err := EncodePayload(event.Payload)
	if err != nil {
		return err
	}
	return a.repo.Append(context.Background(), StoredEvent{
		ID: event.ID, Timestamp: event.Timestamp, EventType: string(event.Type),
		ActorID: event.ActorID, TargetID: event.TargetID,
		Payload: payload, Compressed: compressed, IsRevealed: event.IsRevealed,
	})
}
