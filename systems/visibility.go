package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// FullCircle is the cone half-angle at or above which facing is ignored.
const FullCircle = 360.0

// IsVisible reports whether to can be seen from from.
//
// maxRange of 0 means unlimited. The cone is measured from +X when facing
// right and -X otherwise. Negative ranges, negative cones and NaN inputs
// never see anything.
func IsVisible(space Obstructions, from, to r2.Vec, facingRight bool, coneHalfAngle, maxRange float64) bool {
	if maxRange < 0 || coneHalfAngle < 0 || math.IsNaN(coneHalfAngle) || math.IsNaN(maxRange) {
		return false
	}
	if hasNaN(from) || hasNaN(to) {
		return false
	}

	dir := r2.Sub(to, from)
	dist := r2.Norm(dir)
	if maxRange > 0 && dist > maxRange {
		return false
	}

	if coneHalfAngle < FullCircle && dist > 0 {
		facing := r2.Vec{X: 1}
		if !facingRight {
			facing.X = -1
		}
		if angleDegrees(dir, facing) > coneHalfAngle {
			return false
		}
	}

	if space != nil && space.Obstructed(from, to) {
		return false
	}
	return true
}

// Visible is the full-circle, unlimited-range form of IsVisible.
func Visible(space Obstructions, from, to r2.Vec) bool {
	return IsVisible(space, from, to, true, FullCircle, 0)
}

// angleDegrees returns the unsigned angle between a and b in degrees.
func angleDegrees(a, b r2.Vec) float64 {
	c := r2.Cos(a, b)
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return math.Acos(c) * 180 / math.Pi
}

func hasNaN(v r2.Vec) bool {
	return math.IsNaN(v.X) || math.IsNaN(v.Y)
}
