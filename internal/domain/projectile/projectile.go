// Package projectile defines the Projectile row and the weapon/ammo
// stat catalogue consumed by the ballistics engine.
// This package is PURE and must NOT import any infrastructure packages.
package projectile

import "github.com/emberreach/server/internal/domain/rules"

// SourceType determines physics, damage rules, and drop/despawn
// behavior for a projectile.
type SourceType string

const (
	SourcePlayer         SourceType = "Player"
	SourceTurret         SourceType = "Turret"
	SourceNPC            SourceType = "NPC"
	SourceMonumentTurret SourceType = "MonumentTurret"
)

// NPCProjectileType is the closed set of NPC-fired projectile kinds,
// each with fixed damage/speed per the ranged-counter rule.
type NPCProjectileType string

const (
	NPCShardkinSpit      NPCProjectileType = "ShardkinSpit"
	NPCShoreboundBolt    NPCProjectileType = "ShoreboundBolt"
	NPCViperVenomSpittle NPCProjectileType = "ViperVenomSpittle"
)

// NPCProjectileStats holds the fixed damage/speed for each NPC
// projectile type, per "Damage/speed are fixed per projectile type
// (Shardkin 8/550, Shorebound 15/500, Viper 5/450)".
var NPCProjectileStats = map[NPCProjectileType]struct {
	Damage        float32
	SpeedPxPerSec float32
}{
	NPCShardkinSpit:      {Damage: 8, SpeedPxPerSec: 550},
	NPCShoreboundBolt:    {Damage: 15, SpeedPxPerSec: 500},
	NPCViperVenomSpittle: {Damage: 5, SpeedPxPerSec: 450},
}

// Projectile is a row in the projectiles table.
type Projectile struct {
	ID        string
	OwnerID   string
	ItemDefID string // weapon def id
	AmmoDefID string // for NPC projectiles, damage = ammoDefIDCode / 100

	SourceType        SourceType
	NPCProjectileType NPCProjectileType

	StartTimeMicros int64
	StartPos        rules.Vec2
	Velocity        rules.Vec2
	MaxRange        float32
}

// AmmoDamageFromCode decodes the NPC-projectile damage-encoding
// convention: "damage is encoded as ammo_def_id / 100".
func AmmoDamageFromCode(ammoDefIDCode int) float32 {
	return float32(ammoDefIDCode) / 100
}
