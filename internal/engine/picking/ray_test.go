package picking

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/lidshade/internal/engine/camera"
	"github.com/Faultbox/lidshade/pkg/geom"
	"github.com/Faultbox/lidshade/pkg/math"
)

func pickCamera(t *testing.T, h camera.Handedness) *camera.Camera {
	t.Helper()
	c := camera.New()
	c.SetHandedness(h)
	require.True(t, c.SetZFar(100))
	c.SetPosition(0, 0, 0)
	require.True(t, c.Update())
	return c
}

func assertVec(t *testing.T, want, got math.Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-3)
	assert.InDelta(t, want.Y, got.Y, 1e-3)
	assert.InDelta(t, want.Z, got.Z, 1e-3)
}

func TestFromCamera(t *testing.T) {
	edge := math.Vec3{X: math32.Tan(math.DegToRad(22.5)), Z: 1}.Normalize()

	for _, h := range []camera.Handedness{camera.LeftHanded, camera.RightHanded} {
		t.Run(h.String(), func(t *testing.T) {
			c := pickCamera(t, h)

			center := FromCamera(c, 400, 400, 800, 800)
			assertVec(t, math.Vec3{Z: 1}, center.Direction)
			assertVec(t, math.Vec3{Y: 3.5, Z: 0.16}, center.Origin)

			right := FromCamera(c, 800, 400, 800, 800)
			assertVec(t, edge, right.Direction)

			top := FromCamera(c, 400, 0, 800, 800)
			assertVec(t, math.Vec3{Y: edge.X, Z: edge.Z}, top.Direction)
		})
	}
}

func TestIntersectPlane(t *testing.T) {
	r := NewRay(math.Vec3{Y: 10}, math.Vec3{X: 1, Y: -1})

	x, z, ok := r.IntersectPlaneY(0)
	require.True(t, ok)
	assert.InDelta(t, 10, x, 1e-4)
	assert.InDelta(t, 0, z, 1e-4)

	_, _, ok = r.IntersectPlaneY(20)
	assert.False(t, ok, "plane behind the origin")

	flat := NewRay(math.Vec3{Y: 10}, math.Vec3{X: 1})
	_, ok = flat.IntersectPlane(geom.NewPlane(0, 1, 0, 0))
	assert.False(t, ok, "parallel ray")

	tHit, ok := NewRay(math.Vec3{}, math.Vec3{Z: 2}).IntersectPlane(geom.NewPlane(0, 0, -1, 5))
	require.True(t, ok)
	assert.InDelta(t, 5, tHit, 1e-5)
}

func TestIntersectBox(t *testing.T) {
	box := geom.NewBox(math.Vec3{X: -1, Y: -1, Z: 4}, math.Vec3{X: 1, Y: 1, Z: 6})

	tHit, ok := NewRay(math.Vec3{}, math.Vec3{Z: 1}).IntersectBox(box)
	require.True(t, ok)
	assert.InDelta(t, 4, tHit, 1e-5)

	tHit, ok = NewRay(math.Vec3{Z: 5}, math.Vec3{Z: 1}).IntersectBox(box)
	require.True(t, ok)
	assert.InDelta(t, 1, tHit, 1e-5, "inside returns the exit")

	_, ok = NewRay(math.Vec3{}, math.Vec3{Z: -1}).IntersectBox(box)
	assert.False(t, ok, "box behind")

	_, ok = NewRay(math.Vec3{X: 2}, math.Vec3{Z: 1}).IntersectBox(box)
	assert.False(t, ok, "parallel outside slab")

	_, ok = NewRay(math.Vec3{}, math.Vec3{Z: 1}).IntersectBox(geom.EmptyBox())
	assert.False(t, ok)
}

func TestPick(t *testing.T) {
	boxes := []geom.BoundingBox{
		geom.NewBox(math.Vec3{X: -1, Y: -1, Z: 20}, math.Vec3{X: 1, Y: 1, Z: 22}),
		geom.NewBox(math.Vec3{X: -1, Y: -1, Z: 8}, math.Vec3{X: 1, Y: 1, Z: 10}),
		geom.NewBox(math.Vec3{X: 5, Y: -1, Z: 2}, math.Vec3{X: 6, Y: 1, Z: 3}),
	}
	i, tHit := Pick(NewRay(math.Vec3{}, math.Vec3{Z: 1}), boxes)
	assert.Equal(t, 1, i)
	assert.InDelta(t, 8, tHit, 1e-5)

	i, _ = Pick(NewRay(math.Vec3{}, math.Vec3{Y: 1}), boxes)
	assert.Equal(t, -1, i)
}
