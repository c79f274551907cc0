// Package storage - recap.go
// Rebuilds a "what happened while you were away" summary for a
// reconnecting player from the event log. State itself lives in the
// engine's in-memory maps; this never reconstructs state, only narrates
// history for the reconnect screen.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ncruces/go-strftime"
)

// RecapBuilder turns raw stored events into a human-readable recap for
// a reconnecting player, used by the corpse-restore / reconnect flow.
type RecapBuilder struct {
	eventRepo EventRepository
}

// NewRecapBuilder builds a RecapBuilder over an event repository.
func NewRecapBuilder(eventRepo EventRepository) *RecapBuilder {
	return &RecapBuilder{eventRepo: eventRepo}
}

// RecapEntry is one line of a reconnect recap.
type RecapEntry struct {
	At       string `json:"at"`       // "2026-07-29 14:03:00"
	Relative string `json:"relative"` // "3 hours ago"
	Kind     string `json:"kind"`
	Summary  string `json:"summary"`
	Impact   string `json:"impact"` // "POSITIVE", "NEGATIVE", "NEUTRAL"
}

// GenerateRecap returns every event touching playerID since the given
// time, oldest first, narrated for display on reconnect.
func (b *RecapBuilder) GenerateRecap(ctx context.Context, playerID string, since time.Time, now time.Time) ([]RecapEntry, error) {
	events, err := b.eventRepo.GetSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("load recap events: %w", err)
	}

	var recap []RecapEntry
	for _, e := range events {
		if e.ActorID != playerID && e.TargetID != playerID {
			continue
		}
		recap = append(recap, RecapEntry{
			At:       strftime.Format("%Y-%m-%d %H:%M:%S", e.Timestamp),
			Relative: humanize.RelTime(e.Timestamp, now, "ago", "from now"),
			Kind:     e.EventType,
			Summary:  summarizeEvent(e, playerID),
			Impact:   impactOf(e.EventType),
		})
	}
	return recap, nil
}

func summarizeEvent(e StoredEvent, observerID string) string {
	switch e.EventType {
	case "PLAYER_DIED":
		if e.TargetID == observerID {
			return "You died."
		}
		return "Another survivor died nearby."
	case "PLAYER_DAMAGED":
		if e.TargetID == observerID {
			return "You took damage while disconnected."
		}
		return "A nearby survivor took damage."
	case "CORPSE_CREATED":
		return "Your belongings were left on a corpse."
	case "CORPSE_RESTORED":
		return "Your gear was restored from where you logged off."
	case "CORPSE_DESPAWNED":
		return "A corpse holding your items despawned."
	case "RECIPE_COMPLETED":
		return "A cooking pot finished brewing."
	case "CAMPFIRE_EXTINGUISHED":
		return "A campfire burned out."
	case "EFFECT_EXPIRED":
		return "An active effect wore off."
	case "ITEM_DROPPED":
		if e.ActorID == observerID {
			return "You dropped an item."
		}
		return "A nearby survivor dropped an item."
	default:
		return "Something happened while you were away."
	}
}

func impactOf(eventType string) string {
	switch eventType {
	case "PLAYER_DIED", "PLAYER_DAMAGED", "CORPSE_DESPAWNED":
		return "NEGATIVE"
	case "CORPSE_RESTORED", "RECIPE_COMPLETED":
		return "POSITIVE"
	default:
		return "NEUTRAL"
	}
}
