package rules

import "math"

// Vec2 is a 2D float32 point/vector in world pixels.
type Vec2 struct {
	X, Y float32
}

// LineIntersectsCircle returns true iff the closest point on segment AB
// to C lies within radius.
func LineIntersectsCircle(a, b, c Vec2, radius float32) bool {
	dx := b.X - a.X
	dy := b.Y - a.Y
	t := float32(0)
	if lenSq := dx*dx + dy*dy; lenSq > 0 {
		t = ((c.X-a.X)*dx + (c.Y-a.Y)*dy) / lenSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	closest := Vec2{X: a.X + t*dx, Y: a.Y + t*dy}
	return DistanceSquared(closest, c) <= radius*radius
}

// LineCircleFirstImpactPoint solves |P(t) - C|^2 = r^2 for t in [0,1]
// along segment A->B and returns P(t) for the smaller root when that
// root lies in [0,1], i.e. the point where the segment enters the
// circle. When only the larger root lies in [0,1] (A starts inside the
// circle) it returns that exit point instead. ok is false when neither
// root lies in [0,1], which includes a segment lying wholly inside the
// circle; a zero-length segment returns a, true when a is inside.
func LineCircleFirstImpactPoint(a, b, c Vec2, radius float32) (point Vec2, ok bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y

	fx := a.X - c.X
	fy := a.Y - c.Y

	aCoef := float64(dx*dx + dy*dy)
	bCoef := float64(2 * (fx*dx + fy*dy))
	cCoef := float64(fx*fx+fy*fy) - float64(radius*radius)

	if aCoef == 0 {
		// Degenerate (zero-length) segment: just test point-in-circle.
		if cCoef <= 0 {
			return a, true
		}
		return Vec2{}, false
	}

	discriminant := bCoef*bCoef - 4*aCoef*cCoef
	if discriminant < 0 {
		return Vec2{}, false
	}

	sqrtDisc := math.Sqrt(discriminant)
	t1 := (-bCoef - sqrtDisc) / (2 * aCoef)
	t2 := (-bCoef + sqrtDisc) / (2 * aCoef)

	// Want the smaller t in [0,1].
	var t float64
	found := false
	if t1 >= 0 && t1 <= 1 {
		t = t1
		found = true
	} else if t2 >= 0 && t2 <= 1 {
		t = t2
		found = true
	}
	if !found {
		return Vec2{}, false
	}

	return Vec2{
		X: a.X + float32(t)*dx,
		Y: a.Y + float32(t)*dy,
	}, true
}

// DistanceSquared between two Vec2s.
func DistanceSquared(a, b Vec2) float32 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}

// Normalize returns the unit vector in v's direction, or the zero
// vector if v has no length.
func Normalize(v Vec2) Vec2 {
	mag := math.Sqrt(float64(v.X*v.X + v.Y*v.Y))
	if mag == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / float32(mag), Y: v.Y / float32(mag)}
}
