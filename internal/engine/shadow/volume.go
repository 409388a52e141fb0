// Package shadow builds directional-light volumes used to find shadow
// casters for what the camera sees.
package shadow

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/lidshade/pkg/frustum"
	"github.com/Faultbox/lidshade/pkg/geom"
	"github.com/Faultbox/lidshade/pkg/math"
)

// padding widens the orthographic volume to avoid edge artifacts.
const padding = 0.1

// Directional computes the light view-projection covering the whole of
// bounds. toLight is the direction from the scene to the light.
func Directional(toLight math.Vec3, bounds geom.BoundingBox) math.Mat4 {
	return sphereVolume(toLight, bounds.Center(), bounds.Radius(), 0)
}

// FitFrustum computes a light view-projection enclosing the camera
// frustum f. The volume is extended extrude units toward the light so
// casters outside the view can still shade it. ok is false when the
// frustum corners cannot be solved.
func FitFrustum(toLight math.Vec3, f *frustum.Frustum, extrude float32) (m math.Mat4, ok bool) {
	pts, ok := f.CalculatePoints()
	if !ok {
		return math.Identity(), false
	}

	var center math.Vec3
	for _, p := range pts {
		center = center.Add(p)
	}
	center = center.Scale(1.0 / float32(len(pts)))

	var radius float32
	for _, p := range pts {
		radius = max(radius, p.Distance(center))
	}
	return sphereVolume(toLight, center, radius, max(extrude, 0)), true
}

// Volume returns the frustum of a light view-projection, for culling
// casters.
func Volume(lightViewProj math.Mat4) frustum.Frustum {
	return frustum.New(lightViewProj)
}

// sphereVolume places an orthographic light camera looking at center so the
// sphere (center, radius) fits inside, with the near plane pushed back by
// extrude.
func sphereVolume(toLight, center math.Vec3, radius, extrude float32) math.Mat4 {
	dir := toLight.Normalize()
	halfSize := radius * (1 + padding)
	lightDistance := halfSize + extrude

	lightPos := center.Add(dir.Scale(lightDistance))

	// Avoid an up vector parallel with the light.
	up := math.UnitY()
	if math32.Abs(dir.Y) > 0.99 {
		up = math.UnitZ()
	}

	view := math.LookAt(lightPos, center, up)
	proj := math.Ortho(-halfSize, halfSize, -halfSize, halfSize, 0, lightDistance+halfSize)
	return proj.Mul(view)
}
