package projectile

// RangedWeaponStats is the catalogue row the ballistics engine consumes
// for each ranged weapon, grounded in the original ranged_weapon_stats
// table (item_name, weapon_range, projectile_speed, accuracy,
// reload_time_secs, magazine_capacity, is_automatic,
// magazine_reload_time_secs) plus the pvp damage range and collision
// radius the distilled specification's damage-resolution rules name
// directly (weapon.pvp_damage_min/max) but that the sampled original
// source file does not carry — the combat hit-resolution formulas
// themselves are out of scope; only the contract this engine consumes
// is specified here.
type RangedWeaponStats struct {
	ItemName               string
	WeaponRange            float32
	ProjectileSpeed        float32
	Accuracy               float32
	ReloadTimeSecs         float32
	MagazineCapacity       uint8
	IsAutomatic            bool
	MagazineReloadTimeSecs float32

	PvPDamageMin float32
	PvPDamageMax float32

	IsMonumentTurret  bool
	GravityMultiplier float32
}

// AmmoStats describes an ammo item's contribution to damage resolution
// on a successful hit.
type AmmoStats struct {
	ItemName             string
	AmmoDamage           float32
	BreaksOnImpactChance float32 // 1 for bullets (always break), 0 for grenade/flare (never)
	BleedAmount          float32
	BleedDurationSecs    float32
	IsFireAmmo           bool
	IsVenomAmmo          bool
	IsThrownWeapon       bool // ammo_def == weapon_def, deals 2x weapon_damage
	IsHollowReed         bool // subtracts ammo damage from weapon damage (min 1)
}

// WeaponCatalogue is the minimal set of weapons exercised by the
// projectile engine's scenarios (S6) and damage-resolution rules.
var WeaponCatalogue = map[string]RangedWeaponStats{
	"HuntingBow": {
		ItemName: "Hunting Bow", WeaponRange: 1500, ProjectileSpeed: 900,
		Accuracy: 0.9, ReloadTimeSecs: 1.2, MagazineCapacity: 0,
		PvPDamageMin: 30, PvPDamageMax: 45, GravityMultiplier: 0,
	},
	"Crossbow": {
		ItemName: "Crossbow", WeaponRange: 1800, ProjectileSpeed: 1100,
		Accuracy: 0.95, ReloadTimeSecs: 2.0, MagazineCapacity: 0,
		PvPDamageMin: 40, PvPDamageMax: 55, GravityMultiplier: 0,
	},
	"MakarovPM": {
		ItemName: "Makarov PM", WeaponRange: 900, ProjectileSpeed: 1400,
		Accuracy: 0.75, ReloadTimeSecs: 0.3, MagazineCapacity: 8,
		PvPDamageMin: 18, PvPDamageMax: 24, GravityMultiplier: 0.15,
	},
	"PP91Kedr": {
		ItemName: "PP-91 KEDR", WeaponRange: 700, ProjectileSpeed: 1300,
		Accuracy: 0.6, ReloadTimeSecs: 0.1, MagazineCapacity: 20, IsAutomatic: true,
		PvPDamageMin: 10, PvPDamageMax: 16, GravityMultiplier: 0.15,
	},
	"MonumentTurret": {
		ItemName: "Monument Turret", WeaponRange: 2500, ProjectileSpeed: 2000,
		Accuracy: 1.0, PvPDamageMin: 80, PvPDamageMax: 80,
		IsMonumentTurret: true, GravityMultiplier: 0,
	},
	"PlayerTurret": {
		ItemName: "Player Turret", WeaponRange: 1200, ProjectileSpeed: 1000,
		PvPDamageMin: 50, PvPDamageMax: 50, GravityMultiplier: 0,
	},
}

// AmmoCatalogue is the minimal ammo set exercised by the damage
// resolution and consumption rules.
var AmmoCatalogue = map[string]AmmoStats{
	"WoodenArrow": {
		ItemName: "Wooden Arrow", AmmoDamage: 15, BreaksOnImpactChance: 0.15,
		BleedAmount: 10, BleedDurationSecs: 6,
	},
	"FireArrow": {
		ItemName: "Fire Arrow", AmmoDamage: 20, BreaksOnImpactChance: 0.15,
		IsFireAmmo: true,
	},
	"VenomArrow": {
		ItemName: "Venom Arrow", AmmoDamage: 12, BreaksOnImpactChance: 0.15,
		IsVenomAmmo: true,
	},
	"VenomHarpoonDart": {
		ItemName: "Venom Harpoon Dart", AmmoDamage: 14, BreaksOnImpactChance: 0.05,
		IsVenomAmmo: true,
	},
	"HollowReedArrow": {
		ItemName: "Hollow Reed Arrow", AmmoDamage: 5, BreaksOnImpactChance: 0.15,
		IsHollowReed: true,
	},
	"Bullet9mm": {
		ItemName: "9mm Bullet", AmmoDamage: 22, BreaksOnImpactChance: 1,
	},
	"Tallow": {
		ItemName: "Tallow", AmmoDamage: 60, BreaksOnImpactChance: 0,
	},
	"Grenade": {
		ItemName: "Grenade", AmmoDamage: 0, BreaksOnImpactChance: 0,
	},
	"Flare": {
		ItemName: "Flare", AmmoDamage: 0, BreaksOnImpactChance: 0,
	},
}
