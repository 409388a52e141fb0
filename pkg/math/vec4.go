package math

// Vec4 is a 4-component vector. Matrix rows, homogeneous points, plane
// coefficients (a, b, c, d) and sphere packs (x, y, z, radius) all use it.
type Vec4 [4]float32

// V4 builds a Vec4 from a Vec3 and w.
func V4(v Vec3, w float32) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

// XYZ returns the first three components.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// W returns the fourth component.
func (v Vec4) W() float32 {
	return v[3]
}

// Add returns v + other.
func (v Vec4) Add(other Vec4) Vec4 {
	return Vec4{v[0] + other[0], v[1] + other[1], v[2] + other[2], v[3] + other[3]}
}

// Sub returns v - other.
func (v Vec4) Sub(other Vec4) Vec4 {
	return Vec4{v[0] - other[0], v[1] - other[1], v[2] - other[2], v[3] - other[3]}
}

// Scale returns v * s.
func (v Vec4) Scale(s float32) Vec4 {
	return Vec4{v[0] * s, v[1] * s, v[2] * s, v[3] * s}
}

// Dot returns the 4D dot product.
func (v Vec4) Dot(other Vec4) float32 {
	return v[0]*other[0] + v[1]*other[1] + v[2]*other[2] + v[3]*other[3]
}

// PerspectiveDivide returns xyz / w, or xyz unchanged when w is zero.
func (v Vec4) PerspectiveDivide() Vec3 {
	if v[3] == 0 {
		return v.XYZ()
	}
	return Vec3{v[0] / v[3], v[1] / v[3], v[2] / v[3]}
}
