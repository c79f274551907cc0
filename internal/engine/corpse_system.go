package engine

import (
	"fmt"
	"time"

	"lukechampine.com/blake3"

	"github.com/emberreach/server/internal/domain/corpse"
	"github.com/emberreach/server/internal/domain/item"
	"github.com/emberreach/server/internal/domain/player"
	"github.com/emberreach/server/internal/domain/rules"
	"github.com/emberreach/server/internal/events"
	"github.com/emberreach/server/internal/platform/logger"
	"github.com/emberreach/server/internal/platform/metrics"
)

// CorpseSystem owns the death/corpse/restore pipeline: death corpse
// creation with sequential slot packing, offline-sleep corpse creation
// with position-preserving packing, scheduled despawn, and reconnect
// restore.
type CorpseSystem struct {
	engine   *Engine
	eventLog *events.EventLog
	logger   *logger.Logger

	// inventoryOf supplies each player's current inventory snapshot at
	// the moment of death/disconnect. Wired by the transport layer; the
	// pure domain has no notion of "what a player is carrying" beyond
	// the item package's InventoryItem rows.
	inventoryOf func(playerID string) []item.InventoryItem

	// restoreInventory rebuilds a reconnecting player's inventory/hotbar
	// grids from the items recovered off their offline corpse, returning
	// the instance ids that had no free slot anywhere and were lost.
	restoreInventory func(playerID string, reqs []item.RestoreRequest) []string
}

// NewCorpseSystem builds a corpse system.
func NewCorpseSystem(e *Engine, eventLog *events.EventLog, log *logger.Logger) *CorpseSystem {
	return &CorpseSystem{
		engine: e, eventLog: eventLog, logger: log,
		inventoryOf:      func(string) []item.InventoryItem { return nil },
		restoreInventory: func(string, []item.RestoreRequest) []string { return nil },
	}
}

// SetInventorySource wires the callback used to snapshot a player's
// inventory when they die or disconnect.
func (s *CorpseSystem) SetInventorySource(f func(playerID string) []item.InventoryItem) {
	s.inventoryOf = f
}

// SetInventoryRestorer wires the callback used to rebuild a player's
// inventory/hotbar grids on reconnect.
func (s *CorpseSystem) SetInventoryRestorer(f func(playerID string, reqs []item.RestoreRequest) []string) {
	s.restoreInventory = f
}

// newCorpseID derives a unique corpse row id from a player id, death
// timestamp, and a fresh event id, so two near-simultaneous deaths for
// the same player never collide on id alone (recentDuplicateCorpse is
// what actually decides whether they're the same death).
func newCorpseID(playerID string, nowMicros int64) string {
	sum := blake3.Sum256([]byte(fmt.Sprintf("%s:%d:%s", playerID, nowMicros, events.GenerateEventID())))
	return fmt.Sprintf("%x", sum[:8])
}

// recentDuplicateCorpse reports whether playerID already has a death
// corpse created within CorpseDedupeWindowMicros and
// CorpseDedupeRadiusPx of (x, y) — the idempotence check a retried
// PlayerDied event must pass to avoid spawning a second corpse for the
// same death.
func (s *CorpseSystem) recentDuplicateCorpse(playerID string, x, y float32, nowMicros int64) bool {
	for _, c := range s.engine.corpses {
		if c.IsOffline || c.PlayerIdentity != playerID {
			continue
		}
		if nowMicros-c.DeathTimeMicros > rules.CorpseDedupeWindowMicros {
			continue
		}
		dx, dy := x-c.X, y-c.Y
		if dx*dx+dy*dy <= rules.CorpseDedupeRadiusPx*rules.CorpseDedupeRadiusPx {
			return true
		}
	}
	return false
}

// OnPlayerDied creates a death corpse: items pack sequentially into the
// 36-slot layout regardless of their original location, and the despawn
// timer is sized from the longest RespawnTimeSeconds among the corpse's
// contents (falling back to DefaultCorpseDespawnSecs when nothing
// carries one).
func (s *CorpseSystem) OnPlayerDied(ev events.GameEvent) {
	payload, ok := ev.Payload.(events.PlayerDiedPayload)
	if !ok {
		return
	}
	now := ev.Timestamp.UnixMicro()
	if s.recentDuplicateCorpse(payload.PlayerID, payload.X, payload.Y, now) {
		return
	}

	items := s.inventoryOf(payload.PlayerID)
	c := &corpse.PlayerCorpse{
		ID: newCorpseID(payload.PlayerID, now), PlayerIdentity: payload.PlayerID, X: payload.X, Y: payload.Y,
		DeathTimeMicros: now, SpawnedAtMicros: now, Health: 100, MaxHealth: 100,
	}

	despawnSecs := rules.DefaultCorpseDespawnSecs
	for _, it := range items {
		slot := c.FirstEmptyInSequentialRange()
		if slot < 0 {
			break
		}
		c.SetSlot(slot, it.InstanceID, it.DefID)
		c.SetSlotQuantity(slot, it.Quantity)
		if def, ok := item.Get(it.DefID); ok && def.RespawnTimeSeconds != nil && *def.RespawnTimeSeconds > despawnSecs {
			despawnSecs = *def.RespawnTimeSeconds
		}
	}

	c.DespawnScheduledAt = now + int64(despawnSecs)*1_000_000
	s.engine.corpses[c.ID] = c
	s.engine.scheduler.Upsert(JobCorpseDespawn, c.ID, c.DespawnScheduledAt, 0)

	metrics.Get().RecordPlayerDeath()
	s.eventLog.Append(events.GameEvent{
		ID: events.GenerateEventID(), Timestamp: time.UnixMicro(now),
		Type: events.EventTypeCorpseCreated, ActorID: events.SystemActorID, TargetID: c.ID,
		Payload: events.CorpseCreatedPayload{CorpseID: c.ID, PlayerIdentity: payload.PlayerID, X: c.X, Y: c.Y, DespawnAt: c.DespawnScheduledAt},
	})
}

// OnPlayerDisconnected creates (or refreshes) an offline corpse:
// position-preserving packing (inventory/hotbar/equip slots mirror
// their live locations rather than compacting sequentially), a 1-year
// despawn sentinel instead of a real timer, and equipment cleared on
// the live player row since it now lives on the corpse instead.
func (s *CorpseSystem) OnPlayerDisconnected(ev events.GameEvent) {
	p := s.engine.GetPlayer(ev.TargetID)
	if p == nil {
		return
	}
	now := ev.Timestamp.UnixMicro()
	items := s.inventoryOf(p.ID)

	c := &corpse.PlayerCorpse{
		ID: "offline-" + p.ID, PlayerIdentity: p.ID, X: p.X, Y: p.Y,
		DeathTimeMicros: now, SpawnedAtMicros: now, IsOffline: true,
		Health: p.Health, MaxHealth: player.MaxStatValue,
		DespawnScheduledAt: now + corpse.OneYearMicros,
	}
	for _, it := range items {
		slot := positionPreservingSlot(it)
		if slot < 0 {
			continue
		}
		c.SetSlot(slot, it.InstanceID, it.DefID)
		c.SetSlotQuantity(slot, it.Quantity)
	}
	s.engine.corpses[c.ID] = c
	// Worn gear lives on the corpse now, so the states it drove
	// (snorkel, headlamp) cannot survive the disconnect.
	p.IsSnorkeling = false
	p.IsHeadlampLit = false
	p.Equipment.Clear()
	p.IsOnline = false
}

// positionPreservingSlot maps an InventoryItem's live location to the
// fixed corpse slot index that preserves it across the offline period.
func positionPreservingSlot(it item.InventoryItem) int {
	switch it.Location.Kind {
	case item.LocationInventory:
		if it.Location.Slot >= 0 && it.Location.Slot < corpse.InventorySlotCount {
			return corpse.InventorySlotStart + it.Location.Slot
		}
	case item.LocationHotbar:
		if it.Location.Slot >= 0 && it.Location.Slot < corpse.HotbarSlotCount {
			return corpse.HotbarSlotStart + it.Location.Slot
		}
	case item.LocationEquipped:
		return corpse.EquipSlotIndex(it.Location.SlotType)
	}
	return -1
}

// OnPlayerConnected restores a player's offline corpse, if any: items
// return to their preserved slot-type preference, and the stale despawn
// schedule (the 1-year sentinel) is cancelled.
func (s *CorpseSystem) OnPlayerConnected(ev events.GameEvent) {
	p := s.engine.GetPlayer(ev.TargetID)
	if p == nil {
		return
	}
	corpseID := "offline-" + p.ID
	c, ok := s.engine.corpses[corpseID]
	if !ok || !c.IsOffline {
		p.IsOnline = true
		return
	}

	for i := corpse.EquipSlotStart; i < corpse.EquipSlotStart+corpse.EquipSlotCount; i++ {
		if c.SlotInstanceIDs[i] == "" {
			continue
		}
		switch corpse.EquipSlotTypeForIndex(i) {
		case "Head":
			p.Equipment.HeadItemInstanceID = c.SlotInstanceIDs[i]
		case "Chest":
			p.Equipment.ChestItemInstanceID = c.SlotInstanceIDs[i]
		case "Legs":
			p.Equipment.LegsItemInstanceID = c.SlotInstanceIDs[i]
		case "Feet":
			p.Equipment.FeetItemInstanceID = c.SlotInstanceIDs[i]
		case "Hands":
			p.Equipment.HandsItemInstanceID = c.SlotInstanceIDs[i]
			p.Equipment.HandsItemDefID = c.SlotDefIDs[i]
		case "Back":
			p.Equipment.BackItemInstanceID = c.SlotInstanceIDs[i]
		}
	}

	reqs := make([]item.RestoreRequest, 0, corpse.InventorySlotCount+corpse.HotbarSlotCount)
	for i := corpse.InventorySlotStart; i < corpse.InventorySlotStart+corpse.InventorySlotCount; i++ {
		if c.SlotInstanceIDs[i] == "" {
			continue
		}
		reqs = append(reqs, item.RestoreRequest{
			InstanceID: c.SlotInstanceIDs[i], DefID: c.SlotDefIDs[i],
			Quantity:   c.SlotQuantities[i],
			PreferKind: item.LocationInventory, PreferSlot: i - corpse.InventorySlotStart,
		})
	}
	for i := corpse.HotbarSlotStart; i < corpse.HotbarSlotStart+corpse.HotbarSlotCount; i++ {
		if c.SlotInstanceIDs[i] == "" {
			continue
		}
		reqs = append(reqs, item.RestoreRequest{
			InstanceID: c.SlotInstanceIDs[i], DefID: c.SlotDefIDs[i],
			Quantity:   c.SlotQuantities[i],
			PreferKind: item.LocationHotbar, PreferSlot: i - corpse.HotbarSlotStart,
		})
	}
	if lost := s.restoreInventory(p.ID, reqs); len(lost) > 0 {
		s.logger.Warn(fmt.Sprintf("corpse restore: %d item(s) had no free slot and were lost for %s", len(lost), p.ID))
	}

	s.engine.scheduler.Delete(JobCorpseDespawn, corpseID)
	delete(s.engine.corpses, corpseID)
	p.IsOnline = true

	metrics.Get().RecordCorpseRestored()
	s.eventLog.Append(events.GameEvent{
		ID: events.GenerateEventID(), Timestamp: ev.Timestamp,
		Type: events.EventTypeCorpseRestored, ActorID: events.SystemActorID, TargetID: corpseID,
		Payload: events.CorpseRestoredPayload{CorpseID: corpseID, PlayerID: p.ID},
	})
}

// Despawn removes a timed-out death corpse.
func (s *CorpseSystem) Despawn(corpseID string, now int64) {
	if _, ok := s.engine.corpses[corpseID]; !ok {
		return
	}
	delete(s.engine.corpses, corpseID)
	s.eventLog.Append(events.GameEvent{
		ID: events.GenerateEventID(), Timestamp: time.UnixMicro(now),
		Type: events.EventTypeCorpseDespawned, ActorID: events.SystemActorID, TargetID: corpseID,
		Payload: events.CorpseDespawnedPayload{CorpseID: corpseID},
	})
}
