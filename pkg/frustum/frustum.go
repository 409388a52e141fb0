// Package frustum implements the six-plane view volume and its visibility tests.
package frustum

import (
	"github.com/Faultbox/lidshade/pkg/geom"
	"github.com/Faultbox/lidshade/pkg/math"
)

// PlaneIndex names one of the six frustum planes.
type PlaneIndex int

const (
	Right PlaneIndex = iota
	Left
	Top
	Bottom
	Near
	Far

	// PlaneCount is the number of planes in a frustum.
	PlaneCount = 6
)

var planeNames = [PlaneCount]string{"right", "left", "top", "bottom", "near", "far"}

func (i PlaneIndex) String() string {
	if i < 0 || int(i) >= PlaneCount {
		return "invalid"
	}
	return planeNames[i]
}

// Result classifies a volume against the whole frustum.
type Result int

const (
	Outside Result = iota
	Intersecting
	Inside
)

func (r Result) String() string {
	switch r {
	case Inside:
		return "inside"
	case Intersecting:
		return "intersecting"
	default:
		return "outside"
	}
}

// Boxes are tested against near and far first.
var boxTestOrder = [PlaneCount]PlaneIndex{Near, Far, Right, Left, Top, Bottom}

// Frustum holds six inward-facing unit planes and a near-point mask per plane.
// The zero value has degenerate planes; call Extract before testing.
type Frustum struct {
	planes [PlaneCount]geom.Plane
	masks  [PlaneCount]uint8
}

// New returns a frustum extracted from a combined projection * view matrix.
func New(viewProj math.Mat4) Frustum {
	var f Frustum
	f.Extract(viewProj)
	return f
}

// Extract rebuilds all planes from a column-major projection * view matrix.
func (f *Frustum) Extract(m math.Mat4) {
	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)

	f.SetPlane(Right, geom.PlaneFromCoefficients(r3.Sub(r0)))
	f.SetPlane(Left, geom.PlaneFromCoefficients(r3.Add(r0)))
	f.SetPlane(Top, geom.PlaneFromCoefficients(r3.Sub(r1)))
	f.SetPlane(Bottom, geom.PlaneFromCoefficients(r3.Add(r1)))
	f.SetPlane(Near, geom.PlaneFromCoefficients(r3.Add(r2)))
	f.SetPlane(Far, geom.PlaneFromCoefficients(r3.Sub(r2)))
}

// ExtractFromProjView is Extract(proj * view).
func (f *Frustum) ExtractFromProjView(proj, view math.Mat4) {
	f.Extract(proj.Mul(view))
}

// CalculateNearFarPlanes refreshes only the near and far planes, for when
// the depth range changed but the view did not.
func (f *Frustum) CalculateNearFarPlanes(proj, view math.Mat4) {
	m := proj.Mul(view)
	r2, r3 := m.Row(2), m.Row(3)
	f.SetPlane(Near, geom.PlaneFromCoefficients(r3.Add(r2)))
	f.SetPlane(Far, geom.PlaneFromCoefficients(r3.Sub(r2)))
}

// Plane returns plane i.
func (f *Frustum) Plane(i PlaneIndex) geom.Plane {
	return f.planes[i]
}

// SetPlane replaces plane i and recomputes its near-point mask.
func (f *Frustum) SetPlane(i PlaneIndex, p geom.Plane) {
	f.planes[i] = p
	f.masks[i] = p.NearPointMask()
}

// Planes returns a copy of all six planes in PlaneIndex order.
func (f *Frustum) Planes() [PlaneCount]geom.Plane {
	return f.planes
}

// NearPointMask returns the cached mask of plane i.
func (f *Frustum) NearPointMask(i PlaneIndex) uint8 {
	return f.masks[i]
}

// Floats packs the planes as (a, b, c, d) quadruples in PlaneIndex order.
func (f *Frustum) Floats() [PlaneCount * 4]float32 {
	var out [PlaneCount * 4]float32
	for i, p := range f.planes {
		v := p.Vec4()
		copy(out[i*4:], v[:])
	}
	return out
}

// ClassifyBox tests an axis-aligned box. A box is Outside as soon as one
// plane has every corner behind it. It is Inside only when every plane has
// every corner in front.
func (f *Frustum) ClassifyBox(min, max math.Vec3) Result {
	result := Inside
	for _, i := range boxTestOrder {
		p := &f.planes[i]
		mask := f.masks[i]
		if p.Classify(geom.MakeNearPoint(mask, min, max)) == geom.Front {
			continue
		}
		if p.Classify(geom.MakeFarPoint(mask, min, max)) == geom.Back {
			return Outside
		}
		result = Intersecting
	}
	return result
}

// BoundingBoxInFrustum reports whether the box is at least partly visible.
func (f *Frustum) BoundingBoxInFrustum(min, max math.Vec3) bool {
	return f.ClassifyBox(min, max) != Outside
}

// BoundingBoxInFrustumIntersect is BoundingBoxInFrustum that also reports
// whether the box crosses a plane it was tested against.
func (f *Frustum) BoundingBoxInFrustumIntersect(min, max math.Vec3) (visible, intersect bool) {
	r := f.ClassifyBox(min, max)
	return r != Outside, r == Intersecting
}

// SphereInFrustum rejects the sphere when it lies fully behind any plane.
func (f *Frustum) SphereInFrustum(center math.Vec3, radius float32) bool {
	for i := range f.planes {
		if f.planes[i].SignedDistance(center) <= -radius {
			return false
		}
	}
	return true
}

// PointInFrustum reports whether pt is behind none of the planes.
func (f *Frustum) PointInFrustum(pt math.Vec3) bool {
	for i := range f.planes {
		if f.planes[i].Classify(pt) == geom.Back {
			return false
		}
	}
	return true
}

// TriangleInFrustum is InFrustum for three vertices.
func (f *Frustum) TriangleInFrustum(a, b, c math.Vec3) bool {
	return f.InFrustum([]math.Vec3{a, b, c})
}

// PolygonInFrustum is InFrustum for a quad.
func (f *Frustum) PolygonInFrustum(quad [4]math.Vec3) bool {
	return f.InFrustum(quad[:])
}

// CubeInFrustum tests the cube centered at center extending size on each side.
func (f *Frustum) CubeInFrustum(center math.Vec3, size float32) bool {
	h := math.Vec3{X: size, Y: size, Z: size}
	corners := geom.BoundingBox{Min: center.Sub(h), Max: center.Add(h)}.Corners()
	return f.InFrustum(corners[:])
}

// InFrustum rejects the vertex set only when every vertex is behind the same
// plane. Vertex sets spread over different outside regions are accepted.
// An empty set is never visible.
func (f *Frustum) InFrustum(verts []math.Vec3) bool {
	if len(verts) == 0 {
		return false
	}
	for i := range f.planes {
		p := &f.planes[i]
		behind := 0
		for _, v := range verts {
			if p.Classify(v) != geom.Back {
				break
			}
			behind++
		}
		if behind == len(verts) {
			return false
		}
	}
	return true
}

// CalculatePoints returns the eight corners of the frustum. Bit 0 of the
// index picks near (set) or far, bit 1 bottom or top, bit 2 right or left.
// ok is false when any corner could not be solved.
func (f *Frustum) CalculatePoints() (points [8]math.Vec3, ok bool) {
	ok = true
	for i := range points {
		p0, p1, p2 := f.planes[Far], f.planes[Top], f.planes[Left]
		if i&1 != 0 {
			p0 = f.planes[Near]
		}
		if i&2 != 0 {
			p1 = f.planes[Bottom]
		}
		if i&4 != 0 {
			p2 = f.planes[Right]
		}
		pt, solved := geom.PlaneIntersection(p0, p1, p2)
		if !solved {
			ok = false
			continue
		}
		points[i] = pt
	}
	return points, ok
}

// Bounds returns the box enclosing the frustum corners.
func (f *Frustum) Bounds() geom.BoundingBox {
	pts, _ := f.CalculatePoints()
	return geom.BoxFromPoints(pts[:]...)
}

// IntersectByRay reports whether dir faces into any plane.
func (f *Frustum) IntersectByRay(dir math.Vec3) bool {
	for i := range f.planes {
		if f.planes[i].FacesDirection(dir) {
			return true
		}
	}
	return false
}
