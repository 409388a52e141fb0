package lighting

import (
	"github.com/Faultbox/lidshade/pkg/geom"
	"github.com/Faultbox/lidshade/pkg/math"
)

// DepthBounds returns the [0, 1] depth range a light volume can touch, for
// depth-bounds testing. The view matrix must look down +Z, so offsets along
// view Z move toward and away from the eye. A bound whose clip w is not
// positive collapses to 0, and near never exceeds far.
func DepthBounds(view, proj math.Mat4, s geom.BoundingSphere) (near, far float32) {
	center := view.MulVec4(math.V4(s.Center, 1))
	diff := math.Vec4{0, 0, s.Radius, 0}

	near = depthOf(proj.MulVec4(center.Sub(diff)))
	far = depthOf(proj.MulVec4(center.Add(diff)))
	if near > far {
		near = far
	}
	return near, far
}

func depthOf(clip math.Vec4) float32 {
	if clip[3] <= 0 {
		return 0
	}
	z := clip[2] / clip[3]
	z = max(-1, min(z, 1))
	return z*0.5 + 0.5
}
