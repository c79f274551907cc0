// Package effect defines the active-effect engine's data model: the
// closed EffectType set and the ActiveConsumableEffect row shape.
// This package is PURE and must NOT import any infrastructure packages.
package effect

// Type is the closed tagged set of effect kinds a player can carry.
type Type string

const (
	// Damage-over-time.
	Burn              Type = "Burn"
	Bleed             Type = "Bleed"
	Venom             Type = "Venom"
	Entrainment       Type = "Entrainment"
	Poisoned          Type = "Poisoned"
	SeawaterPoisoning Type = "SeawaterPoisoning"
	FoodPoisoning     Type = "FoodPoisoning"

	// Heal.
	HealthRegen        Type = "HealthRegen"
	BandageBurst       Type = "BandageBurst"
	RemoteBandageBurst Type = "RemoteBandageBurst"
	PassiveHealthRegen Type = "PassiveHealthRegen"
	HotSpring          Type = "HotSpring"

	// Environmental / positional flags — no per-tick work; owned by
	// proximity scanners.
	Cozy                Type = "Cozy"
	Wet                 Type = "Wet"
	TreeCover           Type = "TreeCover"
	Fumarole            Type = "Fumarole"
	SafeZone            Type = "SafeZone"
	FishingVillageBonus Type = "FishingVillageBonus"
	NearCookingStation  Type = "NearCookingStation"
	BuildingPrivilege   Type = "BuildingPrivilege"
	ProductionRune      Type = "ProductionRune"
	AgrarianRune        Type = "AgrarianRune"
	MemoryRune          Type = "MemoryRune"
	LagunovGhost        Type = "LagunovGhost"
	MemoryBeaconSanity  Type = "MemoryBeaconSanity"
	HotCombatLadle      Type = "HotCombatLadle"

	// Timed buffs/debuffs.
	Intoxicated       Type = "Intoxicated"
	SpeedBoost        Type = "SpeedBoost"
	StaminaBoost      Type = "StaminaBoost"
	NightVision       Type = "NightVision"
	WarmthBoost       Type = "WarmthBoost"
	ColdResistance    Type = "ColdResistance"
	PoisonResistance  Type = "PoisonResistance"
	FireResistance    Type = "FireResistance"
	PoisonCoating     Type = "PoisonCoating"
	HarvestBoost      Type = "HarvestBoost"
	BrewCooldown      Type = "BrewCooldown"
	Stun              Type = "Stun"
	ValidolProtection Type = "ValidolProtection"
	ChewingGum        Type = "ChewingGum"
	Exhausted         Type = "Exhausted"
	WaterDrinking     Type = "WaterDrinking"
)

// positionalFlags are the types with no per-tick work; the global tick
// skips them entirely, leaving them to proximity scanners. Modeled as a
// lookup table keyed by variant rather than per-call-site branching, per
// the design note "shared behavior goes on the type."
var positionalFlags = map[Type]bool{
	Cozy: true, TreeCover: true, Exhausted: true, BuildingPrivilege: true,
	ProductionRune: true, AgrarianRune: true, MemoryRune: true,
	HotSpring: true, Fumarole: true, SafeZone: true,
	FishingVillageBonus: true, NearCookingStation: true,
	LagunovGhost: true, MemoryBeaconSanity: true,
}

// IsPositionalFlag reports whether t is maintained by a proximity
// scanner instead of the global effect tick.
func IsPositionalFlag(t Type) bool { return positionalFlags[t] }

// dotTypes carries damage-over-time semantics.
var dotTypes = map[Type]bool{
	Burn: true, Bleed: true, Venom: true, Entrainment: true,
	Poisoned: true, FoodPoisoning: true,
}

// IsDamageOverTime reports whether t is processed by the DoT formula.
func IsDamageOverTime(t Type) bool { return dotTypes[t] }

// ExtendableTypes extend an existing same-kind row (adding duration and
// magnitude) instead of creating a new row when re-applied.
var extendableTypes = map[Type]bool{
	SeawaterPoisoning: true, FoodPoisoning: true, Bleed: true,
}

// IsExtendable reports whether re-applying t should extend the existing
// row rather than create a second one.
func IsExtendable(t Type) bool { return extendableTypes[t] }

// knockedOutImmune lists the DoT kinds a knocked-out player cannot be
// damaged by.
var knockedOutImmune = map[Type]bool{
	Bleed: true, Burn: true, Venom: true, Entrainment: true,
	SeawaterPoisoning: true, FoodPoisoning: true,
}

// IsKnockedOutImmune reports whether a knocked-out player skips t's
// per-tick damage entirely.
func IsKnockedOutImmune(t Type) bool { return knockedOutImmune[t] }

// ActiveConsumableEffect is a row in the active_effects table.
type ActiveConsumableEffect struct {
	EffectID       string
	PlayerID       string
	TargetPlayerID string // optional; empty means self

	ItemDefID               string // optional
	ConsumingItemInstanceID string // optional

	StartedAt  int64 // microseconds since Unix epoch
	EndsAt     int64
	NextTickAt int64

	TotalAmount        float32 // optional; 0 means unset
	AmountAppliedSoFar float32

	Type               Type
	TickIntervalMicros int64

	// SourceDefID identifies the origin for "do not restack same
	// source" checks (e.g. hot-ladle self-burn, campfire damage zone).
	SourceDefID string
}

// EntrainmentSentinelMicros is the "1-year-far" ends_at used to express
// a permanent Entrainment effect without a nullable column.
const EntrainmentSentinelMicros = int64(365*24*3600) * 1_000_000

// IsPermanent reports whether e should be treated as never expiring by
// the time-based end check (Entrainment's sentinel, or Cozy's 1-year
// row): any row whose duration reaches the sentinel never ends on time.
func (e *ActiveConsumableEffect) IsPermanent() bool {
	return e.EndsAt-e.StartedAt >= EntrainmentSentinelMicros
}
