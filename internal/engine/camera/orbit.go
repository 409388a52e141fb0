package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/lidshade/pkg/math"
)

// OrbitExtension holds the state a camera needs to circle a target.
// Position is derived as Target - Direction * distance on every view update.
type OrbitExtension struct {
	Target math.Vec3

	// Limits are the maximum accumulated |yaw| (X) and |pitch| (Y) in
	// degrees. Zero or negative means unlimited.
	Limits math.Vec2

	angles   math.Vec2 // accumulated yaw (X) and pitch (Y), degrees
	distance float32
}

// NewOrbitExtension returns an orbit around target with no angle limits.
func NewOrbitExtension(target math.Vec3) *OrbitExtension {
	return &OrbitExtension{Target: target}
}

// Angles returns the accumulated yaw and pitch in degrees.
func (o *OrbitExtension) Angles() math.Vec2 {
	return o.angles
}

// Distance returns the current offset from the target.
func (o *OrbitExtension) Distance() float32 {
	return o.distance
}

// Orientation returns the accumulated yaw-then-pitch rotation.
func (o *OrbitExtension) Orientation() math.Quat {
	yaw := math.QuatFromAxisAngleDegrees(math.UnitY(), o.angles.X)
	pitch := math.QuatFromAxisAngleDegrees(math.UnitX(), o.angles.Y)
	return yaw.Mul(pitch)
}

// CheckOrbitalLimitRotation clamps a rotation delta so the accumulated
// angles stay within Limits, records the result and reports whether a
// limit was hit.
func (o *OrbitExtension) CheckOrbitalLimitRotation(delta math.Vec2) (math.Vec2, bool) {
	var hit bool
	delta.X, o.angles.X, hit = clampAccum(o.angles.X, delta.X, o.Limits.X)
	var hitY bool
	delta.Y, o.angles.Y, hitY = clampAccum(o.angles.Y, delta.Y, o.Limits.Y)
	return delta, hit || hitY
}

// accumulate records an unclamped delta.
func (o *OrbitExtension) accumulate(delta math.Vec2) {
	o.angles = o.angles.Add(delta)
}

func clampAccum(accum, delta, limit float32) (applied, next float32, hit bool) {
	next = accum + delta
	if limit <= 0 {
		return delta, next, false
	}
	if next > limit {
		next, hit = limit, true
	} else if next < -limit {
		next, hit = -limit, true
	}
	return next - accum, next, hit
}

// fitDistance returns the distance at which a sphere of radius fills a
// view with the given vertical field of view in degrees.
func fitDistance(radius, fovDegrees float32) float32 {
	s := math32.Sin(math.DegToRad(fovDegrees) / 2)
	if s <= 0 {
		return radius
	}
	return radius / s
}
