package appliance

import "github.com/emberreach/server/internal/domain/item"

// Campfire is a row in the campfires table. It implements
// item.Container over its 5 fixed fuel/cook slots.
type Campfire struct {
	ID      string
	X, Y    float32
	ChunkID uint32

	SlotInstanceIDs  [5]string
	SlotDefIDs       [5]item.DefID
	SlotQuantities   [5]int
	SlotCookProgress [5]float32

	IsBurning bool
	IsCooking bool

	CurrentFuelDefID          item.DefID
	RemainingFuelBurnTimeSecs float32

	Health        float32
	MaxHealth     float32
	IsDestroyed   bool
	LastDamagedBy string
	LastHitTime   int64

	// AttachedBrothPotID is set when a broth-pot is snap-attached to
	// this campfire; while set, fuel slots 1-4 are read-only from
	// outside (slot 0 stays usable).
	AttachedBrothPotID string

	ActiveUserID    string
	ActiveUserSince int64

	// InHotZone mirrors the damage-zone visible flag consumed by
	// clients; it has no effect on server-side logic beyond display.
	InHotZone bool

	HasReedBellows  bool
	InGreenRuneZone bool
}

// NumSlots / SlotInstanceID / SlotDefID / SetSlot / ContainerType /
// ContainerID implement item.Container.

func (c *Campfire) NumSlots() int { return len(c.SlotInstanceIDs) }

func (c *Campfire) SlotInstanceID(i int) string {
	if i < 0 || i >= len(c.SlotInstanceIDs) {
		return ""
	}
	return c.SlotInstanceIDs[i]
}

func (c *Campfire) SlotDefID(i int) item.DefID {
	if i < 0 || i >= len(c.SlotDefIDs) {
		return ""
	}
	return c.SlotDefIDs[i]
}

func (c *Campfire) SetSlot(i int, instanceID string, defID item.DefID) {
	if i < 0 || i >= len(c.SlotInstanceIDs) {
		return
	}
	c.SlotInstanceIDs[i] = instanceID
	c.SlotDefIDs[i] = defID
	if instanceID == "" {
		c.SlotQuantities[i] = 0
	}
}

// SlotQuantity returns the stack size in slot i; a legacy zero is
// treated by callers as a single-unit stack.
func (c *Campfire) SlotQuantity(i int) int {
	if i < 0 || i >= len(c.SlotQuantities) {
		return 0
	}
	return c.SlotQuantities[i]
}

func (c *Campfire) ContainerType() item.ContainerType { return item.ContainerCampfire }
func (c *Campfire) ContainerID() string               { return c.ID }

// NumCookSlots / SlotCookingProgress / SetSlotCookingProgress /
// WorldPosition implement CookableAppliance.

func (c *Campfire) NumCookSlots() int { return len(c.SlotCookProgress) }

func (c *Campfire) SlotCookingProgress(i int) float32 {
	if i < 0 || i >= len(c.SlotCookProgress) {
		return 0
	}
	return c.SlotCookProgress[i]
}

func (c *Campfire) SetSlotCookingProgress(i int, v float32) {
	if i < 0 || i >= len(c.SlotCookProgress) {
		return
	}
	c.SlotCookProgress[i] = v
}

func (c *Campfire) WorldPosition() (float32, float32) { return c.X, c.Y }

// ExternallyWritableSlot reports whether slot i may be mutated by an
// interaction that is not the broth-pot attached to this campfire. When
// a pot is attached, slots 1-4 become read-only from outside; slot 0
// always stays usable.
func (c *Campfire) ExternallyWritableSlot(i int) bool {
	if c.AttachedBrothPotID == "" {
		return true
	}
	return i == 0
}

// HasFuel reports whether any slot currently holds a recognized fuel
// item — checked before lighting and by the burn tick's burn-out check.
func (c *Campfire) HasFuel(isFuelDef func(item.DefID) bool) bool {
	for i := 0; i < len(c.SlotDefIDs); i++ {
		if c.SlotInstanceIDs[i] != "" && isFuelDef(c.SlotDefIDs[i]) {
			return true
		}
	}
	return false
}
