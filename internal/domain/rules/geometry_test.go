package rules

import "testing"

func TestLineIntersectsCircle(t *testing.T) {
	a := Vec2{X: 0, Y: 0}
	b := Vec2{X: 100, Y: 0}

	if !LineIntersectsCircle(a, b, Vec2{X: 50, Y: 10}, 20) {
		t.Errorf("Expected segment passing within radius to intersect")
	}
	if LineIntersectsCircle(a, b, Vec2{X: 50, Y: 30}, 20) {
		t.Errorf("Expected segment passing outside radius to miss")
	}
	// Circle beyond the segment's end must not count even though the
	// infinite line would hit it.
	if LineIntersectsCircle(a, b, Vec2{X: 150, Y: 0}, 20) {
		t.Errorf("Expected circle past the segment end to miss")
	}
}

func TestLineCircleFirstImpactPoint(t *testing.T) {
	a := Vec2{X: 0, Y: 0}
	b := Vec2{X: 100, Y: 0}

	point, ok := LineCircleFirstImpactPoint(a, b, Vec2{X: 50, Y: 0}, 10)
	if !ok {
		t.Fatalf("Expected an impact point")
	}
	// The first root is the entry point: x = 50 - 10.
	if point.X < 39.9 || point.X > 40.1 {
		t.Errorf("Expected entry at x=40, got %v", point.X)
	}
	if point.Y != 0 {
		t.Errorf("Expected entry on the segment line, got y=%v", point.Y)
	}

	if _, ok := LineCircleFirstImpactPoint(a, b, Vec2{X: 50, Y: 50}, 10); ok {
		t.Errorf("Expected no impact for a distant circle")
	}
}

func TestLineCircleDegenerateSegment(t *testing.T) {
	p := Vec2{X: 5, Y: 5}
	if _, ok := LineCircleFirstImpactPoint(p, p, Vec2{X: 5, Y: 8}, 5); !ok {
		t.Errorf("Expected a zero-length segment inside the circle to hit")
	}
	if _, ok := LineCircleFirstImpactPoint(p, p, Vec2{X: 5, Y: 20}, 5); ok {
		t.Errorf("Expected a zero-length segment outside the circle to miss")
	}
}

func TestNormalize(t *testing.T) {
	v := Normalize(Vec2{X: 3, Y: 4})
	if v.X < 0.59 || v.X > 0.61 || v.Y < 0.79 || v.Y > 0.81 {
		t.Errorf("Expected (0.6, 0.8), got (%v, %v)", v.X, v.Y)
	}
	zero := Normalize(Vec2{})
	if zero.X != 0 || zero.Y != 0 {
		t.Errorf("Expected the zero vector to normalize to itself")
	}
}

func TestPositionAtTStraightLine(t *testing.T) {
	pos := PositionAtT(Vec2{X: 0, Y: 0}, Vec2{X: 900, Y: 0}, 0, 0.075)
	if pos.X < 67.4 || pos.X > 67.6 {
		t.Errorf("Expected x=67.5 after one tick at 900 px/s, got %v", pos.X)
	}
	if pos.Y != 0 {
		t.Errorf("Expected no drop with zero gravity multiplier, got y=%v", pos.Y)
	}
}

func TestPositionAtTGravityArc(t *testing.T) {
	// y accumulates 0.5 * 600 * 1.0 * t^2.
	pos := PositionAtT(Vec2{X: 0, Y: 0}, Vec2{X: 100, Y: 0}, 1.0, 1.0)
	if pos.Y < 299 || pos.Y > 301 {
		t.Errorf("Expected ~300 px of drop after 1s at full gravity, got %v", pos.Y)
	}
}

func TestGravityMultiplierForWeapon(t *testing.T) {
	if g := GravityMultiplierForWeapon("HuntingBow", false); g != 0 {
		t.Errorf("Expected Hunting Bow to fly straight, got %v", g)
	}
	if g := GravityMultiplierForWeapon("MakarovPM", false); g != 0.15 {
		t.Errorf("Expected Makarov PM shallow arc 0.15, got %v", g)
	}
	if g := GravityMultiplierForWeapon("SomeLongBow", false); g != 1.0 {
		t.Errorf("Expected default bows at full gravity, got %v", g)
	}
	if g := GravityMultiplierForWeapon("SomeLongBow", true); g != 0 {
		t.Errorf("Expected monument turrets to ignore gravity, got %v", g)
	}
}
