// Package picking provides ray casting and object picking utilities.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/lidshade/internal/engine/camera"
	"github.com/Faultbox/lidshade/pkg/geom"
	"github.com/Faultbox/lidshade/pkg/math"
)

const parallelEps = 1e-6

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// NewRay returns a ray with a normalized direction.
func NewRay(origin, dir math.Vec3) Ray {
	return Ray{Origin: origin, Direction: dir.Normalize()}
}

// At returns Origin + t*Direction.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix. The ray starts
// on the near plane.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Flip Y

	nearWorld := invViewProj.MulVec4(math.Vec4{ndcX, ndcY, -1, 1}).PerspectiveDivide()
	farWorld := invViewProj.MulVec4(math.Vec4{ndcX, ndcY, 1, 1}).PerspectiveDivide()

	return NewRay(nearWorld, farWorld.Sub(nearWorld))
}

// FromCamera builds the ray under a pixel from the camera's current view and
// projection.
func FromCamera(cam *camera.Camera, screenX, screenY, viewportW, viewportH float32) Ray {
	return ScreenToRay(screenX, screenY, viewportW, viewportH, cam.ViewProjection().Inverse())
}

// IntersectPlane returns the distance along the ray to p. Rays parallel to
// the plane or hitting it behind the origin miss.
func (r Ray) IntersectPlane(p geom.Plane) (t float32, ok bool) {
	den := p.Normal.Dot(r.Direction)
	if math32.Abs(den) < parallelEps {
		return 0, false
	}
	t = -p.SignedDistance(r.Origin) / den
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given Y level.
// Returns the intersection point (X, Z) and whether the intersection is valid.
func (r Ray) IntersectPlaneY(planeY float32) (x, z float32, ok bool) {
	t, ok := r.IntersectPlane(geom.NewPlane(0, 1, 0, -planeY))
	if !ok {
		return 0, 0, false
	}
	hit := r.At(t)
	return hit.X, hit.Z, true
}

// IntersectBox tests ray intersection with a bounding box using slabs.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectBox(box geom.BoundingBox) (t float32, hit bool) {
	if box.IsEmpty() {
		return 0, false
	}
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)

	o, d := r.Origin.Array(), r.Direction.Array()
	lo, hi := box.Min.Array(), box.Max.Array()
	for i := range 3 {
		if d[i] == 0 {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, false
			}
			continue
		}
		t1 := (lo[i] - o[i]) / d[i]
		t2 := (hi[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Pick returns the index of the nearest box the ray hits and the distance to
// it, or -1.
func Pick(r Ray, boxes []geom.BoundingBox) (index int, t float32) {
	index = -1
	for i, b := range boxes {
		bt, ok := r.IntersectBox(b)
		if ok && (index < 0 || bt < t) {
			index, t = i, bt
		}
	}
	return index, t
}
