package engine

import (
	"fmt"
	"time"

	"github.com/emberreach/server/internal/domain/corpse"
	"github.com/emberreach/server/internal/domain/effect"
	"github.com/emberreach/server/internal/domain/item"
	"github.com/emberreach/server/internal/events"
	"github.com/emberreach/server/internal/platform/logger"
)

// playerSlots is a fixed-size Container backing one player's inventory
// or hotbar grid. Equip slots are not modeled here since they live on
// player.ActiveEquipment directly.
type playerSlots struct {
	ownerID       string
	containerType item.ContainerType
	instanceIDs   []string
	defIDs        []item.DefID
}

func newPlayerSlots(ownerID string, ct item.ContainerType, n int) *playerSlots {
	return &playerSlots{ownerID: ownerID, containerType: ct, instanceIDs: make([]string, n), defIDs: make([]item.DefID, n)}
}

func (s *playerSlots) NumSlots() int                     { return len(s.instanceIDs) }
func (s *playerSlots) SlotInstanceID(i int) string       { return s.instanceIDs[i] }
func (s *playerSlots) SlotDefID(i int) item.DefID        { return s.defIDs[i] }
func (s *playerSlots) ContainerType() item.ContainerType { return s.containerType }
func (s *playerSlots) ContainerID() string               { return s.ownerID }
func (s *playerSlots) SetSlot(i int, instanceID string, defID item.DefID) {
	s.instanceIDs[i] = instanceID
	s.defIDs[i] = defID
}

// playerInventory is one player's two slot grids, plus the quantities
// carried per instance (Container only tracks instance/def occupancy,
// not stack size, so quantities live alongside it).
type playerInventory struct {
	inventory *playerSlots
	hotbar    *playerSlots
	quantity  map[string]int // instanceID -> quantity
}

func newPlayerInventory(playerID string) *playerInventory {
	return &playerInventory{
		inventory: newPlayerSlots(playerID, item.ContainerType("Inventory"), corpse.InventorySlotCount),
		hotbar:    newPlayerSlots(playerID, item.ContainerType("Hotbar"), corpse.HotbarSlotCount),
		quantity:  make(map[string]int),
	}
}

func (pi *playerInventory) containerFor(kind item.LocationKind) *playerSlots {
	if kind == item.LocationHotbar {
		return pi.hotbar
	}
	return pi.inventory
}

// InventorySystem owns every player's carried items: placement into the
// inventory/hotbar grids, consumption of food/medicine, and dropping
// items into the world. It also supplies the death/disconnect pipeline
// with a point-in-time inventory snapshot.
type InventorySystem struct {
	engine   *Engine
	eventLog *events.EventLog
	logger   *logger.Logger

	byPlayer map[string]*playerInventory
}

// NewInventorySystem builds an inventory system.
func NewInventorySystem(e *Engine, eventLog *events.EventLog, log *logger.Logger) *InventorySystem {
	return &InventorySystem{engine: e, eventLog: eventLog, logger: log, byPlayer: make(map[string]*playerInventory)}
}

func (is *InventorySystem) of(playerID string) *playerInventory {
	pi, ok := is.byPlayer[playerID]
	if !ok {
		pi = newPlayerInventory(playerID)
		is.byPlayer[playerID] = pi
	}
	return pi
}

// Grant places a new item stack into the first empty inventory slot,
// falling back to the hotbar when the inventory grid is full.
func (is *InventorySystem) Grant(playerID, instanceID string, defID item.DefID, quantity int) (item.LocationKind, int, error) {
	pi := is.of(playerID)
	if slot, err := item.QuickMoveTo(pi.inventory, instanceID, defID); err == nil {
		pi.quantity[instanceID] = quantity
		return item.LocationInventory, slot, nil
	}
	slot, err := item.QuickMoveTo(pi.hotbar, instanceID, defID)
	if err != nil {
		return item.LocationUnknown, -1, err
	}
	pi.quantity[instanceID] = quantity
	return item.LocationHotbar, slot, nil
}

// MoveItem relocates an instance between a player's inventory and
// hotbar grids (equip-slot moves are handled by the player's
// ActiveEquipment directly, not through this reducer).
func (is *InventorySystem) MoveItem(playerID string, fromKind item.LocationKind, fromSlot int, toKind item.LocationKind, toSlot int) error {
	pi := is.of(playerID)
	from := pi.containerFor(fromKind)
	to := pi.containerFor(toKind)

	instanceID := from.SlotInstanceID(fromSlot)
	if instanceID == "" {
		return fmt.Errorf("inventory: slot %d (%s) is empty", fromSlot, fromKind)
	}
	defID := from.SlotDefID(fromSlot)

	if from == to {
		if err := item.MoveWithin(from, fromSlot, toSlot); err != nil {
			return err
		}
	} else {
		prevInstanceID, prevDefID, err := item.MoveToSlot(to, toSlot, instanceID, defID)
		if err != nil {
			return err
		}
		from.SetSlot(fromSlot, prevInstanceID, prevDefID)
	}

	is.eventLog.Append(events.GameEvent{
		ID: events.GenerateEventID(), Timestamp: time.Now(),
		Type: events.EventTypeItemMoved, ActorID: playerID, TargetID: playerID,
		Payload: events.ItemMovedPayload{
			PlayerID: playerID, InstanceID: instanceID, DefID: string(defID),
			FromKind: string(fromKind), ToKind: string(toKind), ToSlot: toSlot,
		},
	})
	return nil
}

// ConsumeItem removes one unit of a food/medicine stack and applies its
// nutrition/hydration/warmth modifiers to the player. Most of the
// player's reaction to consumption (stat clamping) happens here since
// the item catalogue fully describes the effect; anything needing the
// active-effect tick (e.g. a timed buff) is applied by the caller
// after ConsumeItem reports success.
func (is *InventorySystem) ConsumeItem(playerID, instanceID string) (item.DefID, error) {
	p := is.engine.GetPlayer(playerID)
	if p == nil {
		return "", fmt.Errorf("inventory: player %s not found", playerID)
	}
	pi := is.of(playerID)

	defID, slot, found := is.locate(pi, instanceID)
	if !found {
		return "", fmt.Errorf("inventory: instance %s not carried by %s", instanceID, playerID)
	}
	def, ok := item.Get(defID)
	if !ok {
		return "", fmt.Errorf("inventory: unknown item def %s", defID)
	}

	is.decrementOrClear(slot, instanceID)

	p.Hunger += def.Nutrition
	p.Thirst += def.Hydration
	p.Warmth += def.WarmthMod
	p.ClampStats()

	if defID == item.AntiVenom {
		// The one cure for a Venom row, including the permanent
		// spittle-sourced kind.
		for id, e := range is.engine.effects {
			if e.PlayerID == playerID && e.Type == effect.Venom {
				is.engine.effectSystem.CancelEffect(id, "cured")
			}
		}
	}

	is.eventLog.Append(events.GameEvent{
		ID: events.GenerateEventID(), Timestamp: time.Now(),
		Type: events.EventTypeItemConsumed, ActorID: playerID, TargetID: playerID,
		Payload: events.ItemConsumedPayload{PlayerID: playerID, DefID: string(defID)},
	})
	return defID, nil
}

// DropItem removes an instance from a player's grids entirely and
// emits the event that lets the transport layer spawn a world pickup.
func (is *InventorySystem) DropItem(playerID, instanceID string, x, y float32) (item.DefID, error) {
	pi := is.of(playerID)
	defID, slot, found := is.locate(pi, instanceID)
	if !found {
		return "", fmt.Errorf("inventory: instance %s not carried by %s", instanceID, playerID)
	}
	is.clearSlot(slot, instanceID)

	is.eventLog.Append(events.GameEvent{
		ID: events.GenerateEventID(), Timestamp: time.Now(),
		Type: events.EventTypeItemDropped, ActorID: playerID, TargetID: playerID,
		Payload: events.ItemDroppedPayload{PlayerID: playerID, InstanceID: instanceID, DefID: string(defID), X: x, Y: y},
	})
	return defID, nil
}

type foundSlot struct {
	container *playerSlots
	index     int
}

func (is *InventorySystem) locate(pi *playerInventory, instanceID string) (item.DefID, foundSlot, bool) {
	for _, c := range []*playerSlots{pi.inventory, pi.hotbar} {
		for i := 0; i < c.NumSlots(); i++ {
			if c.SlotInstanceID(i) == instanceID {
				return c.SlotDefID(i), foundSlot{container: c, index: i}, true
			}
		}
	}
	return "", foundSlot{}, false
}

func (is *InventorySystem) decrementOrClear(slot foundSlot, instanceID string) {
	pi := is.byPlayer[slot.container.ownerID]
	if pi.quantity[instanceID] > 1 {
		pi.quantity[instanceID]--
		return
	}
	delete(pi.quantity, instanceID)
	slot.container.SetSlot(slot.index, "", "")
}

// DecrementInstance removes one unit from an instance's stack wherever
// it currently sits, deleting the row and clearing its slot at zero.
// Reports whether the instance was found at all — callers treat a miss
// as a soft (logged) inconsistency, not an error.
func (is *InventorySystem) DecrementInstance(playerID, instanceID string) bool {
	pi, ok := is.byPlayer[playerID]
	if !ok {
		return false
	}
	_, slot, found := is.locate(pi, instanceID)
	if !found {
		return false
	}
	is.decrementOrClear(slot, instanceID)
	return true
}

func (is *InventorySystem) clearSlot(slot foundSlot, instanceID string) {
	pi := is.byPlayer[slot.container.ownerID]
	delete(pi.quantity, instanceID)
	slot.container.SetSlot(slot.index, "", "")
}

// Snapshot returns playerID's current carried items in InventoryItem
// form, wired into the death/disconnect corpse pipeline via
// Engine.SetInventorySource.
func (is *InventorySystem) Snapshot(playerID string) []item.InventoryItem {
	pi, ok := is.byPlayer[playerID]
	if !ok {
		return nil
	}
	out := make([]item.InventoryItem, 0, pi.inventory.NumSlots()+pi.hotbar.NumSlots())
	for i := 0; i < pi.inventory.NumSlots(); i++ {
		if pi.inventory.SlotInstanceID(i) == "" {
			continue
		}
		out = append(out, item.InventoryItem{
			InstanceID: pi.inventory.SlotInstanceID(i), DefID: pi.inventory.SlotDefID(i),
			Quantity: pi.quantity[pi.inventory.SlotInstanceID(i)],
			Location: item.InInventory(playerID, i),
		})
	}
	for i := 0; i < pi.hotbar.NumSlots(); i++ {
		if pi.hotbar.SlotInstanceID(i) == "" {
			continue
		}
		out = append(out, item.InventoryItem{
			InstanceID: pi.hotbar.SlotInstanceID(i), DefID: pi.hotbar.SlotDefID(i),
			Quantity: pi.quantity[pi.hotbar.SlotInstanceID(i)],
			Location: item.InHotbar(playerID, i),
		})
	}
	return out
}

// Restore rebuilds a player's grids from a corpse's preserved slots,
// preferring each item's original slot index when it is still free,
// falling back to the first free slot of its preferred grid, and (for
// hotbar items only) then to the first free inventory slot. Items that
// fit nowhere are reported back as lost rather than overwriting
// whatever the player already picked up in the meantime.
func (is *InventorySystem) Restore(playerID string, reqs []item.RestoreRequest) []string {
	pi := is.of(playerID)
	var lost []string
	for _, r := range reqs {
		target := pi.containerFor(r.PreferKind)
		if slot, ok := placePreferred(target, r.PreferSlot, r.InstanceID, r.DefID); ok {
			_ = slot
			pi.quantity[r.InstanceID] = r.Quantity
			continue
		}
		if r.PreferKind == item.LocationHotbar {
			if slot, err := item.QuickMoveTo(pi.inventory, r.InstanceID, r.DefID); err == nil {
				_ = slot
				pi.quantity[r.InstanceID] = r.Quantity
				continue
			}
		}
		lost = append(lost, r.InstanceID)
	}
	return lost
}

// placePreferred places (instanceID, defID) at preferSlot of c if that
// slot is free, else the first free slot of c; reports whether it fit
// anywhere in c at all.
func placePreferred(c *playerSlots, preferSlot int, instanceID string, defID item.DefID) (int, bool) {
	if preferSlot >= 0 && preferSlot < c.NumSlots() && c.SlotInstanceID(preferSlot) == "" {
		c.SetSlot(preferSlot, instanceID, defID)
		return preferSlot, true
	}
	slot := item.FirstEmptySlot(c)
	if slot < 0 {
		return -1, false
	}
	c.SetSlot(slot, instanceID, defID)
	return slot, true
}
