// Package geom provides planes and bounding volumes used by visibility queries.
package geom

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/lidshade/pkg/math"
)

// Side is the result of classifying a point against a plane.
type Side int

const (
	// OnPlane means the signed distance is exactly zero.
	OnPlane Side = 0
	// Front is the half-space the normal points into.
	Front Side = 1
	// Back is the half-space behind the normal.
	Back Side = -1
)

func (s Side) String() string {
	switch s {
	case Front:
		return "front"
	case Back:
		return "back"
	default:
		return "on-plane"
	}
}

// Plane is the set of points p where Normal.Dot(p) + Dist == 0.
type Plane struct {
	Normal math.Vec3
	Dist   float32
}

// NewPlane stores the coefficients as given. The normal is not normalized.
func NewPlane(a, b, c, d float32) Plane {
	return Plane{Normal: math.Vec3{X: a, Y: b, Z: c}, Dist: d}
}

// PlaneFromCoefficients builds a plane from (a, b, c, d) and normalizes it.
func PlaneFromCoefficients(v math.Vec4) Plane {
	return NewPlane(v[0], v[1], v[2], v[3]).Normalize()
}

// PlaneFromPoints builds the plane through three points. The winding order
// p1, p2, p3 decides which side is Front. Collinear points give a zero normal.
func PlaneFromPoints(p1, p2, p3 math.Vec3) Plane {
	n := p3.Sub(p1).Cross(p2.Sub(p1)).Normalize()
	return Plane{Normal: n, Dist: -n.Dot(p1)}
}

// PlaneFromNormalPoint builds the plane with the given normal through point.
func PlaneFromNormalPoint(normal, point math.Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, Dist: -n.Dot(point)}
}

// Axis-aligned planes through the origin.
func PlaneXY() Plane { return Plane{Normal: math.UnitZ()} }
func PlaneXZ() Plane { return Plane{Normal: math.UnitY()} }
func PlaneYZ() Plane { return Plane{Normal: math.UnitX()} }

// Normalize scales the whole equation so the normal has unit length.
// A zero normal is returned unchanged.
func (p Plane) Normalize() Plane {
	l := p.Normal.Length()
	if l == 0 {
		return p
	}
	inv := 1 / l
	return Plane{Normal: p.Normal.Scale(inv), Dist: p.Dist * inv}
}

// Scale multiplies all four coefficients by s.
func (p Plane) Scale(s float32) Plane {
	return Plane{Normal: p.Normal.Scale(s), Dist: p.Dist * s}
}

// Flip returns the plane facing the other way.
func (p Plane) Flip() Plane {
	return Plane{Normal: p.Normal.Neg(), Dist: -p.Dist}
}

// Vec4 returns the coefficients as (a, b, c, d).
func (p Plane) Vec4() math.Vec4 {
	return math.V4(p.Normal, p.Dist)
}

// Point returns the point of the plane closest to the origin.
func (p Plane) Point() math.Vec3 {
	return p.Normal.Scale(-p.Dist)
}

// SignedDistance returns Normal.Dot(pt) + Dist.
func (p Plane) SignedDistance(pt math.Vec3) float32 {
	return p.Normal.Dot(pt) + p.Dist
}

// Distance returns the absolute distance from pt to the plane.
func (p Plane) Distance(pt math.Vec3) float32 {
	return math32.Abs(p.SignedDistance(pt))
}

// Classify compares the signed distance against exactly zero.
// Callers that need a tolerance must bias the point or plane first.
func (p Plane) Classify(pt math.Vec3) Side {
	d := p.SignedDistance(pt)
	switch {
	case d > 0:
		return Front
	case d < 0:
		return Back
	default:
		return OnPlane
	}
}

// ClosestPoint projects pt onto the plane.
func (p Plane) ClosestPoint(pt math.Vec3) math.Vec3 {
	return pt.Add(p.Normal.Scale(-p.SignedDistance(pt)))
}

// FacesDirection reports whether dir points into the plane's front side
// or runs parallel to it.
func (p Plane) FacesDirection(dir math.Vec3) bool {
	return p.Normal.Dot(dir) >= 0
}

// IntersectRay returns the point where the line origin + t*dir meets the plane.
// It fails only when the denominator is exactly zero.
func (p Plane) IntersectRay(origin, dir math.Vec3) (math.Vec3, bool) {
	denom := p.Normal.Dot(dir)
	if denom == 0 {
		return math.Vec3{}, false
	}
	t := -p.SignedDistance(origin) / denom
	return origin.Add(dir.Scale(t)), true
}

// ReflectPos mirrors a position across the plane.
func (p Plane) ReflectPos(v math.Vec3) math.Vec3 {
	return v.Sub(p.Normal.Scale(2 * p.SignedDistance(v)))
}

// ReflectDir mirrors a direction across the plane.
func (p Plane) ReflectDir(v math.Vec3) math.Vec3 {
	return v.Sub(p.Normal.Scale(2 * p.Normal.Dot(v)))
}

// ReflectPlane mirrors another plane across p.
func (p Plane) ReflectPlane(o Plane) Plane {
	n := p.ReflectDir(o.Normal)
	pt := p.ReflectPos(o.Point())
	return Plane{Normal: n, Dist: -n.Dot(pt)}
}

// NearPointMask encodes which box corner lies furthest behind the plane.
// Bit 0, 1 and 2 are set when the x, y and z components of the normal are
// not positive; a set bit selects the box maximum on that axis.
func (p Plane) NearPointMask() uint8 {
	var mask uint8
	if p.Normal.X <= 0 {
		mask |= 1
	}
	if p.Normal.Y <= 0 {
		mask |= 2
	}
	if p.Normal.Z <= 0 {
		mask |= 4
	}
	return mask
}

// MakeNearPoint returns the box corner selected by a near-point mask.
// For the plane that produced mask this corner has the smallest signed distance.
func MakeNearPoint(mask uint8, min, max math.Vec3) math.Vec3 {
	r := min
	if mask&1 != 0 {
		r.X = max.X
	}
	if mask&2 != 0 {
		r.Y = max.Y
	}
	if mask&4 != 0 {
		r.Z = max.Z
	}
	return r
}

// MakeFarPoint returns the corner opposite to MakeNearPoint.
func MakeFarPoint(mask uint8, min, max math.Vec3) math.Vec3 {
	return MakeNearPoint(^mask&7, min, max)
}

const intersectionEpsilon = 1e-6

// PlaneIntersection returns the single point shared by three planes.
// It fails when the planes are parallel or nearly so.
func PlaneIntersection(p0, p1, p2 Plane) (math.Vec3, bool) {
	n12 := p1.Normal.Cross(p2.Normal)
	denom := p0.Normal.Dot(n12)
	if math32.Abs(denom) < intersectionEpsilon {
		return math.Vec3{}, false
	}

	n20 := p2.Normal.Cross(p0.Normal)
	n01 := p0.Normal.Cross(p1.Normal)
	sum := n12.Scale(p0.Dist).Add(n20.Scale(p1.Dist)).Add(n01.Scale(p2.Dist))
	pt := sum.Scale(-1 / denom)
	if !finite(pt) {
		return math.Vec3{}, false
	}
	return pt, true
}

func finite(v math.Vec3) bool {
	for _, f := range [3]float32{v.X, v.Y, v.Z} {
		if math32.IsNaN(f) || math32.IsInf(f, 0) {
			return false
		}
	}
	return true
}
