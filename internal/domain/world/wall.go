package world

// Wall is a destructible structure cell — the minimal building-piece
// model this simulation needs: a single point-collision obstacle used
// for the shooter's self-occlusion guard and for resolving projectile
// impacts against placed structures. Doors, fences, and shelter walls
// all reduce to the same point-collision shape at this scope; a full
// building-privilege/placement system is an external collaborator.
type Wall struct {
	ID      string
	ChunkID uint32
	X, Y    float32

	Health    float32
	MaxHealth float32
}

// IsDestroyed reports whether the wall has been reduced to 0 health.
func (w *Wall) IsDestroyed() bool { return w.Health <= 0 }
