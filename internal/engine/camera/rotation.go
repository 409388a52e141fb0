package camera

import (
	"fmt"

	"github.com/Faultbox/lidshade/pkg/math"
)

// Rotator turns a vector around an axis. Implementations must agree with
// each other up to float rounding.
type Rotator interface {
	// Rotate turns v around the unit axis by degrees (right-hand rule).
	Rotate(v, axis math.Vec3, degrees float32) math.Vec3
}

// MatrixRotation rotates with an axis-angle matrix.
type MatrixRotation struct{}

// Rotate implements Rotator.
func (MatrixRotation) Rotate(v, axis math.Vec3, degrees float32) math.Vec3 {
	return math.RotateAxis(axis, math.DegToRad(degrees)).TransformDirection(v)
}

// QuaternionRotation rotates with a unit quaternion.
type QuaternionRotation struct{}

// Rotate implements Rotator.
func (QuaternionRotation) Rotate(v, axis math.Vec3, degrees float32) math.Vec3 {
	return math.QuatFromAxisAngleDegrees(axis, degrees).RotateVec3(v)
}

// Rotation strategy names accepted by NewRotator.
const (
	RotationMatrix     = "matrix"
	RotationQuaternion = "quaternion"
)

// NewRotator returns the strategy registered under name.
func NewRotator(name string) (Rotator, error) {
	switch name {
	case RotationMatrix:
		return MatrixRotation{}, nil
	case RotationQuaternion, "":
		return QuaternionRotation{}, nil
	default:
		return nil, fmt.Errorf("unknown rotation strategy %q", name)
	}
}
