package world

// Shelter is an enclosed-building AABB — a foundation/wall/roof
// footprint that grants its occupants BuildingPrivilege and satisfies
// the campfire lighting gate's "inside a shelter" check. Like Wall,
// this collapses a much richer building-placement system down to the
// one shape the active-effect and appliance engines actually consult.
type Shelter struct {
	ID         string
	ChunkID    uint32
	MinX, MinY float32
	MaxX, MaxY float32
}

// Contains reports whether (x, y) falls inside the shelter's footprint.
func (s *Shelter) Contains(x, y float32) bool {
	return x >= s.MinX && x <= s.MaxX && y >= s.MinY && y <= s.MaxY
}

// ShipwreckZone is a circular enclosed-space footprint — a beached or
// submerged wreck's interior — that counts as "inside a building" for
// the same privilege/shelter checks a Shelter grants.
type ShipwreckZone struct {
	ID       string
	ChunkID  uint32
	X, Y     float32
	RadiusPx float32
}

// Contains reports whether (x, y) falls inside the zone's radius.
func (z *ShipwreckZone) Contains(x, y float32) bool {
	dx, dy := x-z.X, y-z.Y
	return dx*dx+dy*dy <= z.RadiusPx*z.RadiusPx
}

// Tree is a point obstacle whose canopy counts as tree cover for the
// campfire-lighting-in-storm gate.
type Tree struct {
	ID      string
	ChunkID uint32
	X, Y    float32
}

// SafeZone is a circular no-raid zone: appliances inside one restrict
// interaction to a single active user at a time, on top of the normal
// distance-gated access every appliance already enforces.
type SafeZone struct {
	ID       string
	ChunkID  uint32
	X, Y     float32
	RadiusPx float32
}

// Contains reports whether (x, y) falls inside the zone's radius.
func (z *SafeZone) Contains(x, y float32) bool {
	dx, dy := x-z.X, y-z.Y
	return dx*dx+dy*dy <= z.RadiusPx*z.RadiusPx
}
