// Package rules contains the pure calculation logic for game mechanics:
// damage-over-time math, appliance cooking/fuel math, and projectile
// ballistics/geometry. This package is PURE and must NOT import any
// infrastructure packages.
package rules

// Tunable constants named directly in the specification. Values are
// pinned by the end-to-end scenarios where one applies, and taken from
// the original implementation's constants otherwise; provenance per
// constant is recorded in DESIGN.md.
const (
	CampfireDamageRadiusPx float32 = 50
	WarmthRadiusPx         float32 = 300
	VillageCozyRadiusPx    float32 = 450
	PeltCozyRadiusPx       float32 = 220

	DesalinationRateMLPerSec int = 25

	// FreshwaterDilutionThresholdMl: rain falling into a pot holding
	// less seawater than this turns the whole pot fresh.
	FreshwaterDilutionThresholdMl int = 500

	MaxBleedStacks int = 5

	PlayerCampfireInteractionDistanceSquared float32 = 96 * 96
	PlayerBrothPotInteractionDistanceSquared float32 = 200 * 200

	CampfireRelightTreeRadiusPx float32 = 100

	GravityPxPerSec2 float32 = 600

	ProjectileTickIntervalSecs  float32 = 0.075
	ProjectileMaxLifetimeSecs   float32 = 10

	PlayerProjectileCollisionRadiusPx float32 = 48
	NPCProjectileCollisionRadiusPx    float32 = 64
	TurretSelfExcludeRadiusPx         float32 = 80

	HotLadleBurnTotal      float32 = 2
	HotLadleBurnDurationS  float32 = 3
	HotLadleBurnTickS      float32 = 2

	CampfireZoneBurnTotal     float32 = 5
	CampfireZoneBurnDurationS float32 = 3
	CampfireZoneBurnTickS     float32 = 2

	SeawaterPoisoningThirstDrainPerSec float32 = 2.5

	VenomFixedDamagePerTick float32 = 1
	VenomPoisonResistanceReduction float32 = 0.75

	EntrainmentFixedDamagePerTick float32 = 3

	DefaultCorpseDespawnSecs int = 300

	// CorpseDedupeWindowMicros and CorpseDedupeRadiusPx bound the
	// "same death" window a retried PlayerDied event must fall within to
	// be treated as a duplicate rather than a second corpse.
	CorpseDedupeWindowMicros int64   = 2_000_000
	CorpseDedupeRadiusPx     float32 = 3

	ReedBellowsCookingSpeedMultiplier float32 = 1.2
	GreenRuneZoneCookingSpeedMultiplier float32 = 2.0
	ReedBellowsFuelBurnSlowdown float32 = 1.5

	WoodToCharcoalChance float32 = 0.75

	// FuelBurnSecsPerUnit is how long one unit of any fuel stack keeps
	// an appliance burning; CampfireDropOffsetPx is where a world drop
	// lands relative to a full campfire (charcoal overflow, spilled
	// water containers).
	FuelBurnSecsPerUnit  float32 = 60
	CampfireDropOffsetPx float32 = 48

	RemoteBandageHealRangePx float32 = 128

	AccessReleaseRangeMultiplier float32 = 2.0

	NPCRangedCounterCooldownSecs float32 = 2
	NPCRangedCounterSpawnOffsetPx float32 = 48

	// WallCollisionRadiusPx is the point-collision radius used for every
	// wall/door/fence cell in projectile occlusion tests.
	WallCollisionRadiusPx float32 = 32

	// SelfOcclusionGuardRadiusPx is the "too close to the shooter" radius
	// a wall/door/fence must fall within to block firing entirely (the
	// shelter PvP self-occlusion guard).
	SelfOcclusionGuardRadiusPx float32 = 80

	// ApplianceCollisionRadiusPx and CorpseCollisionRadiusPx are the
	// point-collision radii for the appliance/corpse obstacle types a
	// projectile's path is tested against, alongside walls.
	ApplianceCollisionRadiusPx float32 = 40
	CorpseCollisionRadiusPx    float32 = 32

	// ProjectileBleedTickS, ProjectileBurnTotal/DurationS/TickS, and
	// ProjectileVenomDurationS/TickS parameterize the secondary effects a
	// successful ammo hit applies on top of its direct health damage.
	// Grenades land with a live fuse rolled uniformly in
	// [GrenadeFuseMinSecs, GrenadeFuseMaxSecs]; flares burn out after a
	// fixed FlareBurnSecs; a player turret's Tallow round leaves a fire
	// patch at TallowFirePatchChance.
	GrenadeFuseMinSecs    float32 = 5
	GrenadeFuseMaxSecs    float32 = 10
	FlareBurnSecs         float32 = 60
	TallowFirePatchChance float32 = 0.25

	ProjectileBleedTickS      float32 = 2
	ProjectileBurnTotal       float32 = 6
	ProjectileBurnDurationS   float32 = 4
	ProjectileBurnTickS       float32 = 2
	ProjectileVenomDurationS  float32 = 6
	ProjectileVenomTickS      float32 = 2
	ThrownWeaponStunDurationS float32 = 2
)

// NumCampfireSlots is the campfire's fixed fuel/cook slot count.
const NumCampfireSlots = 5
