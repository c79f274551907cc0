// Package corpse defines the lootable PlayerCorpse row and its slot
// layout. This package is PURE and must NOT import any infrastructure
// packages.
package corpse

import "github.com/emberreach/server/internal/domain/item"

// Slot ranges within the corpse's flat 36-slot layout.
const (
	InventorySlotStart = 0
	InventorySlotCount = 24
	HotbarSlotStart    = 24
	HotbarSlotCount    = 6
	EquipSlotStart     = 30
	EquipSlotCount     = 6

	NumCorpseSlots = InventorySlotCount + HotbarSlotCount + EquipSlotCount // 36
)

// EquipSlotIndex maps an EquipmentSlotType to its fixed corpse slot,
// per the offline-corpse position-preserving layout:
// Head=30, Chest=31, Legs=32, Feet=33, Hands=34, Back=35.
func EquipSlotIndex(slotType string) int {
	switch slotType {
	case "Head":
		return 30
	case "Chest":
		return 31
	case "Legs":
		return 32
	case "Feet":
		return 33
	case "Hands":
		return 34
	case "Back":
		return 35
	default:
		return -1
	}
}

// EquipSlotTypeForIndex is the inverse of EquipSlotIndex, used when
// restoring from an offline corpse.
func EquipSlotTypeForIndex(i int) string {
	switch i {
	case 30:
		return "Head"
	case 31:
		return "Chest"
	case 32:
		return "Legs"
	case 33:
		return "Feet"
	case 34:
		return "Hands"
	case 35:
		return "Back"
	default:
		return ""
	}
}

// PlayerCorpse is a row in the corpses table.
type PlayerCorpse struct {
	ID             string
	PlayerIdentity string // NOT unique: a player may leave multiple corpses
	X, Y           float32
	ChunkID        uint32

	DeathTimeMicros    int64
	DespawnScheduledAt int64 // microseconds since Unix epoch
	SpawnedAtMicros    int64

	Health      float32
	MaxHealth   float32
	LastHitTime int64

	// IsOffline distinguishes the death-variant corpse (scheduled
	// despawn, sequential slot packing) from the offline-sleep variant
	// (1-year despawn sentinel, position-preserving slot packing).
	IsOffline bool

	SlotInstanceIDs [NumCorpseSlots]string
	SlotDefIDs      [NumCorpseSlots]item.DefID
	SlotQuantities  [NumCorpseSlots]int
}

// OneYearMicros is the despawn_scheduled_at sentinel used by offline
// corpses, which persist until reclaim or destruction rather than on a
// real timer.
const OneYearMicros = int64(365*24*3600) * 1_000_000

func (c *PlayerCorpse) NumSlots() int { return NumCorpseSlots }

func (c *PlayerCorpse) SlotInstanceID(i int) string {
	if i < 0 || i >= NumCorpseSlots {
		return ""
	}
	return c.SlotInstanceIDs[i]
}

func (c *PlayerCorpse) SlotDefID(i int) item.DefID {
	if i < 0 || i >= NumCorpseSlots {
		return ""
	}
	return c.SlotDefIDs[i]
}

func (c *PlayerCorpse) SetSlot(i int, instanceID string, defID item.DefID) {
	if i < 0 || i >= NumCorpseSlots {
		return
	}
	c.SlotInstanceIDs[i] = instanceID
	c.SlotDefIDs[i] = defID
	if instanceID == "" {
		c.SlotQuantities[i] = 0
	}
}

// SetSlotQuantity records the stack size held in slot i, preserved
// across the corpse's lifetime so a restore returns the same quantity
// that went in.
func (c *PlayerCorpse) SetSlotQuantity(i, quantity int) {
	if i < 0 || i >= NumCorpseSlots {
		return
	}
	c.SlotQuantities[i] = quantity
}

func (c *PlayerCorpse) ContainerType() item.ContainerType { return item.ContainerPlayerCorpse }
func (c *PlayerCorpse) ContainerID() string               { return c.ID }

// FirstEmptyInSequentialRange returns the first empty slot in [0, N),
// used by the death-corpse path to pack items sequentially regardless
// of their original location.
func (c *PlayerCorpse) FirstEmptyInSequentialRange() int {
	for i := 0; i < NumCorpseSlots; i++ {
		if c.SlotInstanceIDs[i] == "" {
			return i
		}
	}
	return -1
}
