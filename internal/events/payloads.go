package events

// Payload structs for each EventType. Engine systems build these and
// hand them to EventLog.Append; consumers type-assert on Payload.

type GlobalTickPayload struct {
	TickNumber int64
	NowMicros  int64
}

type EffectAppliedPayload struct {
	EffectID   string
	PlayerID   string
	EffectType string
	TotalAmount float32
	EndsAt     int64
}

type EffectCancelledPayload struct {
	EffectID string
	PlayerID string
	Reason   string
}

type PlayerDamagedPayload struct {
	PlayerID string
	Amount   float32
	Source   string
}

type PlayerDiedPayload struct {
	PlayerID string
	X, Y     float32
}

type CampfireTickPayload struct {
	CampfireID string
	IsBurning  bool
}

type CampfireLitPayload struct {
	CampfireID string
}

type BrothPotTickPayload struct {
	PotID        string
	WaterLevelMl int
	IsSeawater   bool
}

type RecipeCompletedPayload struct {
	PotID      string
	RecipeName string
	OutputDef  string
}

type ProjectileFiredPayload struct {
	ProjectileID string
	OwnerID      string
	ItemDefID    string
}

type ProjectileImpactPayload struct {
	ProjectileID string
	TargetKind   string // "player", "static", "miss"
	TargetID     string
	X, Y         float32
}

type CorpseCreatedPayload struct {
	CorpseID       string
	PlayerIdentity string
	X, Y           float32
	DespawnAt      int64
}

type CorpseDespawnedPayload struct {
	CorpseID string
}

type CorpseRestoredPayload struct {
	CorpseID string
	PlayerID string
}

type ItemMovedPayload struct {
	PlayerID       string
	InstanceID     string
	DefID          string
	FromKind       string
	ToKind         string
	ToContainerID  string
	ToSlot         int
}

type ItemConsumedPayload struct {
	PlayerID string
	DefID    string
}

type ItemDroppedPayload struct {
	PlayerID   string
	InstanceID string
	DefID      string
	X, Y       float32
}

type MetabolismTickPayload struct {
	NowMicros int64
}

type WallDamagedPayload struct {
	WallID string
	Amount float32
}

type WallDestroyedPayload struct {
	WallID string
}

// ObstacleDamagedPayload and ObstacleDestroyedPayload cover every
// non-wall static obstacle a projectile can strike (campfire, broth
// pot, furnace, rain collector, corpse) — Kind names the table the id
// resolves against.
type ObstacleDamagedPayload struct {
	Kind       string
	ObstacleID string
	Amount     float32
}

type ObstacleDestroyedPayload struct {
	Kind       string
	ObstacleID string
}

type ArrowBrokePayload struct {
	ProjectileID string
	AmmoDefID    string
	X, Y         float32
}

type AmmoDroppedPayload struct {
	ProjectileID string
	AmmoDefID    string
	X, Y         float32
	// ItemData carries the per-instance JSON escape hatch for special
	// drops (grenade fuse timers, flare expiry); empty for plain ammo.
	ItemData string
}

type FirePatchCreatedPayload struct {
	ProjectileID string
	X, Y         float32
}
