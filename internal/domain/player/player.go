// Package player defines the core player entity.
// This package is PURE and must NOT import any infrastructure packages
// (network, events, platform, storage).
package player

import "github.com/emberreach/server/internal/domain/item"

// StatKind identifies one of a player's clamped stat columns.
type StatKind string

const (
	StatHealth StatKind = "health"
	StatHunger StatKind = "hunger"
	StatThirst StatKind = "thirst"
	StatWarmth StatKind = "warmth"
)

// MinStatValue and MaxStatValue bound every clamped stat.
const (
	MinStatValue float32 = 0
	MaxStatValue float32 = 100
)

// EquipmentSlotType identifies one of the six fixed armor slots.
type EquipmentSlotType string

const (
	SlotHead  EquipmentSlotType = "Head"
	SlotChest EquipmentSlotType = "Chest"
	SlotLegs  EquipmentSlotType = "Legs"
	SlotFeet  EquipmentSlotType = "Feet"
	SlotHands EquipmentSlotType = "Hands"
	SlotBack  EquipmentSlotType = "Back"
)

// ActiveEquipment tracks which instance id occupies each armor slot.
type ActiveEquipment struct {
	HeadItemInstanceID  string
	ChestItemInstanceID string
	LegsItemInstanceID  string
	FeetItemInstanceID  string
	HandsItemInstanceID string
	BackItemInstanceID  string

	// HandsItemDefID mirrors HandsItemInstanceID's catalogue entry so
	// callers can tell what is worn there (e.g. the hot-ladle self-burn
	// scan's "no gloves" check) without a second lookup.
	HandsItemDefID item.DefID
}

// Clear empties every armor slot.
func (e *ActiveEquipment) Clear() {
	*e = ActiveEquipment{}
}

// Player is a row in the players table.
type Player struct {
	ID          string
	DisplayName string

	X, Y float32

	Health float32
	Hunger float32
	Thirst float32
	Warmth float32

	IsDead           bool
	IsKnockedOut     bool
	IsOnline         bool
	IsInsideBuilding bool
	IsSnorkeling     bool
	IsHeadlampLit    bool
	IsPvPEnabled     bool

	LastHitTime     int64 // microseconds since Unix epoch
	LastRespawnTime int64
	ConnectedAt     int64

	Equipment ActiveEquipment

	// HeldItemDefID is the def id of whatever the player currently has
	// wielded in hand (the active hotbar item) — distinct from the
	// ActiveEquipment armor slots, and the input the hot-ladle self-burn
	// scan reads.
	HeldItemDefID item.DefID
}

// NewPlayer constructs a player with full stats.
func NewPlayer(id, displayName string, x, y float32) *Player {
	return &Player{
		ID:           id,
		DisplayName:  displayName,
		X:            x,
		Y:            y,
		Health:       MaxStatValue,
		Hunger:       MaxStatValue,
		Thirst:       MaxStatValue,
		Warmth:       MaxStatValue,
		IsPvPEnabled: true,
	}
}

// IsPvPActive reports whether the player can currently be damaged by
// PvP sources. Checked at impact time, not fire time, for monument
// turrets: a player who toggled PvP off mid-flight is passed through.
// Recent combat keeps PvP forced on for a linger window so toggling
// cannot be used as an escape mid-fight.
func (p *Player) IsPvPActive(nowMicros int64) bool {
	if p.IsPvPEnabled {
		return true
	}
	return p.LastHitTime > 0 && nowMicros-p.LastHitTime < PvPCombatLingerMicros
}

// PvPCombatLingerMicros is how long after a hit PvP stays forced on for
// a player who has it toggled off.
const PvPCombatLingerMicros = int64(30) * 1_000_000

// ClampStats enforces the [MinStatValue, MaxStatValue] invariant on
// every clamped stat and marks the player dead once health reaches 0.
func (p *Player) ClampStats() {
	p.Health = clamp(p.Health)
	p.Hunger = clamp(p.Hunger)
	p.Thirst = clamp(p.Thirst)
	p.Warmth = clamp(p.Warmth)
	if p.Health == 0 {
		p.IsDead = true
	}
}

func clamp(v float32) float32 {
	if v < MinStatValue {
		return MinStatValue
	}
	if v > MaxStatValue {
		return MaxStatValue
	}
	return v
}

// ApplyDamage subtracts amount from health, clamping, and stamps
// LastHitTime. Only callers that represent an externally-sourced hit
// (not passive decay) should pass stampHit = true, since several effect
// cancellation rules key off "took externally-sourced damage this tick".
func (p *Player) ApplyDamage(amount float32, nowMicros int64, stampHit bool) {
	if p.IsDead {
		return
	}
	p.Health -= amount
	p.ClampStats()
	if stampHit {
		p.LastHitTime = nowMicros
	}
}

// Heal adds amount to health, clamping.
func (p *Player) Heal(amount float32) {
	if p.IsDead {
		return
	}
	p.Health += amount
	p.ClampStats()
}

// IsLiving reports whether the player can currently be targeted by
// living-only effects and collisions.
func (p *Player) IsLiving() bool {
	return !p.IsDead
}
