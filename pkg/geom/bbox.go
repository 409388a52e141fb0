package geom

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/lidshade/pkg/math"
)

// BoundingBox is an axis-aligned box. A box with any Min component greater
// than the matching Max component is empty; EmptyBox uses +/-MaxFloat32.
type BoundingBox struct {
	Min math.Vec3
	Max math.Vec3
}

// EmptyBox returns the reset box that any AddVertex will snap to.
func EmptyBox() BoundingBox {
	var b BoundingBox
	b.Reset()
	return b
}

// NewBox returns a box from two corners in any order.
func NewBox(a, b math.Vec3) BoundingBox {
	return BoundingBox{Min: a.Min(b), Max: a.Max(b)}
}

// BoxFromPoints returns the smallest box containing all points.
func BoxFromPoints(points ...math.Vec3) BoundingBox {
	b := EmptyBox()
	b.AddVertices(points)
	return b
}

// Reset makes the box empty.
func (b *BoundingBox) Reset() {
	b.Min = math.Vec3{X: math32.MaxFloat32, Y: math32.MaxFloat32, Z: math32.MaxFloat32}
	b.Max = math.Vec3{X: -math32.MaxFloat32, Y: -math32.MaxFloat32, Z: -math32.MaxFloat32}
}

// IsEmpty reports whether the box contains no points.
func (b BoundingBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// MinPoint returns the minimum corner.
func (b BoundingBox) MinPoint() math.Vec3 { return b.Min }

// MaxPoint returns the maximum corner.
func (b BoundingBox) MaxPoint() math.Vec3 { return b.Max }

// AddVertex widens the box to include v.
func (b *BoundingBox) AddVertex(v math.Vec3) {
	b.Min = b.Min.Min(v)
	b.Max = b.Max.Max(v)
}

// AddVertices widens the box to include every point.
func (b *BoundingBox) AddVertices(vs []math.Vec3) {
	for _, v := range vs {
		b.AddVertex(v)
	}
}

// Add widens the box to cover o. Empty boxes add nothing.
func (b *BoundingBox) Add(o BoundingBox) {
	if o.IsEmpty() {
		return
	}
	b.AddVertex(o.Min)
	b.AddVertex(o.Max)
}

// Merge returns the box covering both b and o.
func (b BoundingBox) Merge(o BoundingBox) BoundingBox {
	b.Add(o)
	return b
}

// Union returns the box covering both b and o when they overlap.
// Disjoint boxes yield an empty box.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	if !b.Overlaps(o) {
		return EmptyBox()
	}
	return BoundingBox{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Overlaps reports whether the boxes share at least one point.
func (b BoundingBox) Overlaps(o BoundingBox) bool {
	if b.IsEmpty() || o.IsEmpty() {
		return false
	}
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// Contains reports whether o lies entirely inside b.
func (b BoundingBox) Contains(o BoundingBox) bool {
	return o.Min.GreaterEqual(b.Min) && b.Max.GreaterEqual(o.Max)
}

// ContainsPoint reports whether p lies inside b, boundary included.
func (b BoundingBox) ContainsPoint(p math.Vec3) bool {
	return p.GreaterEqual(b.Min) && b.Max.GreaterEqual(p)
}

// ContainsXZ tests only the horizontal extent.
func (b BoundingBox) ContainsXZ(x, z float32) bool {
	return x >= b.Min.X && x <= b.Max.X && z >= b.Min.Z && z <= b.Max.Z
}

// Center returns the box midpoint.
func (b BoundingBox) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box extent on each axis.
func (b BoundingBox) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Radius returns half the diagonal length.
func (b BoundingBox) Radius() float32 {
	return b.Size().Length() * 0.5
}

// Grow pushes every face outwards by amount on its axis.
func (b BoundingBox) Grow(amount math.Vec3) BoundingBox {
	return BoundingBox{Min: b.Min.Sub(amount), Max: b.Max.Add(amount)}
}

// Translate moves the box by v.
func (b BoundingBox) Translate(v math.Vec3) BoundingBox {
	return BoundingBox{Min: b.Min.Add(v), Max: b.Max.Add(v)}
}

// NearestPointFrom returns the point of the box closest to p.
func (b BoundingBox) NearestPointFrom(p math.Vec3) math.Vec3 {
	return p.Max(b.Min).Min(b.Max)
}

// FarthestPointFrom returns the corner furthest from p.
func (b BoundingBox) FarthestPointFrom(p math.Vec3) math.Vec3 {
	c := b.Center()
	r := b.Max
	if p.X > c.X {
		r.X = b.Min.X
	}
	if p.Y > c.Y {
		r.Y = b.Min.Y
	}
	if p.Z > c.Z {
		r.Z = b.Min.Z
	}
	return r
}

// Corner returns one of the eight corners:
//
//	   5-------6
//	  /|      /|
//	 1-------2 |
//	 | 4-----|-7
//	 |/      |/
//	 0-------3
//
// 0 is Min and 6 is Max. Indices outside 0..7 return the zero vector.
func (b BoundingBox) Corner(i int) math.Vec3 {
	switch i {
	case 0:
		return b.Min
	case 1:
		return math.Vec3{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z}
	case 2:
		return math.Vec3{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z}
	case 3:
		return math.Vec3{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z}
	case 4:
		return math.Vec3{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z}
	case 5:
		return math.Vec3{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z}
	case 6:
		return b.Max
	case 7:
		return math.Vec3{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z}
	}
	return math.Vec3{}
}

// Corners returns all eight corners in Corner order.
func (b BoundingBox) Corners() [8]math.Vec3 {
	var out [8]math.Vec3
	for i := range out {
		out[i] = b.Corner(i)
	}
	return out
}

var boxIndices = [36]uint16{
	0, 1, 2, 2, 3, 0,
	4, 5, 1, 1, 0, 4,
	7, 6, 5, 5, 4, 7,
	3, 2, 6, 6, 7, 3,
	1, 5, 6, 6, 2, 1,
	3, 7, 4, 4, 0, 3,
}

// VertexIndices returns the triangle list for drawing a box from Corners.
func VertexIndices() [36]uint16 {
	return boxIndices
}

// Transform returns the box enclosing the eight transformed corners.
func (b BoundingBox) Transform(m math.Mat4) BoundingBox {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBox()
	for _, c := range b.Corners() {
		out.AddVertex(m.TransformVec3(c))
	}
	return out
}
