package geom

import "github.com/Faultbox/lidshade/pkg/math"

// BoundingSphere is a center and radius. Radius is expected to be >= 0.
type BoundingSphere struct {
	Center math.Vec3
	Radius float32
}

// SphereFromVec4 reads a sphere packed as (x, y, z, radius).
func SphereFromVec4(v math.Vec4) BoundingSphere {
	return BoundingSphere{Center: v.XYZ(), Radius: v[3]}
}

// SphereFromBox returns the sphere through the corners of b.
func SphereFromBox(b BoundingBox) BoundingSphere {
	return BoundingSphere{Center: b.Center(), Radius: b.Radius()}
}

// Vec4 packs the sphere as (x, y, z, radius).
func (s BoundingSphere) Vec4() math.Vec4 {
	return math.V4(s.Center, s.Radius)
}

// Translate moves the sphere by v.
func (s BoundingSphere) Translate(v math.Vec3) BoundingSphere {
	return BoundingSphere{Center: s.Center.Add(v), Radius: s.Radius}
}

// Overlaps reports whether the spheres intersect. Touching spheres do not overlap.
func (s BoundingSphere) Overlaps(o BoundingSphere) bool {
	r := s.Radius + o.Radius
	return s.Center.DistanceSq(o.Center) < r*r
}

// ContainsPoint reports whether p lies inside the sphere or on its surface.
func (s BoundingSphere) ContainsPoint(p math.Vec3) bool {
	return s.Center.DistanceSq(p) <= s.Radius*s.Radius
}

// Box returns the box enclosing the sphere.
func (s BoundingSphere) Box() BoundingBox {
	r := math.Vec3{X: s.Radius, Y: s.Radius, Z: s.Radius}
	return BoundingBox{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

// PackSpheres appends spheres to dst as consecutive (x, y, z, radius) floats.
func PackSpheres(dst []float32, spheres []BoundingSphere) []float32 {
	for _, s := range spheres {
		dst = append(dst, s.Center.X, s.Center.Y, s.Center.Z, s.Radius)
	}
	return dst
}
