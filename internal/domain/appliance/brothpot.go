package appliance

import "github.com/emberreach/server/internal/domain/item"

// BrothPotNumIngredientSlots is the count of recipe-ingredient slots;
// the output slot and the dedicated water-container slot are separate
// fixed fields, not part of this numbered range.
const BrothPotNumIngredientSlots = 4

// BrothPot is a row in the broth_pots table. It snap-attaches to a
// campfire (AttachedCampfireID).
type BrothPot struct {
	ID      string
	X, Y    float32
	ChunkID uint32

	AttachedCampfireID string

	IngredientSlotInstanceIDs [BrothPotNumIngredientSlots]string
	IngredientSlotDefIDs      [BrothPotNumIngredientSlots]item.DefID

	// WaterContainerSlot holds a water-bearing container item (e.g. a
	// Reed Water Bottle) during desalination transfer.
	WaterContainerInstanceID string
	WaterContainerDefID      item.DefID
	WaterContainerWaterMl    int
	WaterContainerCapacityMl int
	WaterContainerIsSeawater bool

	OutputInstanceID string
	OutputDefID      item.DefID

	WaterLevelMl   int
	RainCarryMl    float32 // fractional ml carried between ticks
	IsSeawater     bool
	IsDesalinating bool

	IsCooking           bool
	CookingRecipeName   string
	CookingProgressSecs float32
	CookingRequiredSecs float32

	StirQuality float32

	Health        float32
	MaxHealth     float32
	IsDestroyed   bool
	LastDamagedBy string
	LastHitTime   int64

	ActiveUserID    string
	ActiveUserSince int64
}

// item.Container implementation over the 4 ingredient slots. The output
// and water-container slots are addressed by dedicated fields since
// they behave differently (single-purpose, not part of the generic
// ingredient-matching scan) — this mirrors the distilled spec's "slot
// fields laid out as fixed columns, not arrays" guidance for anything
// that is not part of a uniform numbered range.

func (p *BrothPot) NumSlots() int { return BrothPotNumIngredientSlots }

func (p *BrothPot) SlotInstanceID(i int) string {
	if i < 0 || i >= BrothPotNumIngredientSlots {
		return ""
	}
	return p.IngredientSlotInstanceIDs[i]
}

func (p *BrothPot) SlotDefID(i int) item.DefID {
	if i < 0 || i >= BrothPotNumIngredientSlots {
		return ""
	}
	return p.IngredientSlotDefIDs[i]
}

func (p *BrothPot) SetSlot(i int, instanceID string, defID item.DefID) {
	if i < 0 || i >= BrothPotNumIngredientSlots {
		return
	}
	p.IngredientSlotInstanceIDs[i] = instanceID
	p.IngredientSlotDefIDs[i] = defID
}

func (p *BrothPot) ContainerType() item.ContainerType { return item.ContainerBrothPot }
func (p *BrothPot) ContainerID() string               { return p.ID }

// IsEmpty reports whether every ingredient slot and the output slot are
// empty — the pickup-rule precondition.
func (p *BrothPot) IsEmpty() bool {
	if p.OutputInstanceID != "" {
		return false
	}
	for i := 0; i < BrothPotNumIngredientSlots; i++ {
		if p.IngredientSlotInstanceIDs[i] != "" {
			return false
		}
	}
	return true
}
