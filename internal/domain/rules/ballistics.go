package rules

import "math"

// GravityMultiplierForWeapon returns the per-weapon gravity scale used
// by the projectile ballistic step. Crossbow, Hunting Bow, and thrown
// items travel in a straight line (0.0); Makarov PM / PP-91 KEDR use a
// fast shallow arc (0.15x); all other bows use full gravity (1.0x).
func GravityMultiplierForWeapon(weaponDefID string, isMonumentTurret bool) float32 {
	if isMonumentTurret {
		return 0
	}
	switch weaponDefID {
	case "Crossbow", "HuntingBow":
		return 0
	case "MakarovPM", "PP91Kedr":
		return 0.15
	}
	if isThrownWeapon(weaponDefID) {
		return 0
	}
	return 1.0
}

func isThrownWeapon(weaponDefID string) bool {
	switch weaponDefID {
	case "ThrownRock", "ThrownSpear", "Grenade", "Tallow":
		return true
	}
	return false
}

// PositionAtT computes the projectile position at elapsed time t
// (seconds) given a start position, constant horizontal/vertical launch
// velocity, and a per-weapon gravity multiplier. Horizontal velocity is
// unaffected by gravity; vertical position accumulates
// 0.5*g*multiplier*t^2 exactly like a standard ballistic arc.
func PositionAtT(start Vec2, velocity Vec2, gravityMultiplier float32, t float32) Vec2 {
	x := start.X + velocity.X*t
	y := start.Y + velocity.Y*t + 0.5*GravityPxPerSec2*gravityMultiplier*t*t
	return Vec2{X: x, Y: y}
}

// TravelDistance returns the straight-line distance from start to pos.
func TravelDistance(start, pos Vec2) float32 {
	dx := pos.X - start.X
	dy := pos.Y - start.Y
	return sqrtf(dx*dx + dy*dy)
}

func sqrtf(v float32) float32 {
	if v <= 0 {
		return 0
	}
	return float32(math.Sqrt(float64(v)))
}
