package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/lidshade/pkg/geom"
	"github.com/Faultbox/lidshade/pkg/math"
)

func assertVec(t *testing.T, want, got math.Vec3, eps float64, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, eps, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, eps, msgAndArgs...)
}

// scenarioCamera is the camera from the visibility scenario: 45 degree fov,
// square aspect, clip range [0.1, 100], placed at the origin looking down +Z.
func scenarioCamera(t *testing.T, h Handedness) *Camera {
	t.Helper()
	c := New()
	c.SetHandedness(h)
	require.True(t, c.SetFov(45))
	require.True(t, c.SetAspect(1))
	require.True(t, c.SetZNear(0.1))
	require.True(t, c.SetZFar(100))
	c.SetPosition(0, 0, 0)
	c.SetDirection(math.Vec3{Z: 1})
	require.True(t, c.Update())
	c.ExtractFrustum()
	return c
}

func TestNewDefaults(t *testing.T) {
	c := New()
	assert.Equal(t, float32(8), c.Speed())
	assert.Equal(t, float32(1), c.Aspect())
	assert.Equal(t, float32(0.16), c.ZNear())
	assert.Equal(t, float32(2000), c.ZFar())
	assert.Equal(t, float32(45), c.Fov())
	assert.Equal(t, float32(3.5), c.Height())
	assert.InDelta(t, 0.41421356, c.HalfTanFov(), 1e-6)
	assert.Equal(t, math.Vec3{X: 20, Y: -0.7, Z: -10}, c.Position())
	assert.Equal(t, math.UnitY(), c.Up())
	assert.Equal(t, math.UnitX(), c.Right())
	assert.Equal(t, math.UnitZ(), c.Direction())
	assert.Equal(t, math.Identity(), c.ViewMatrix())
	assert.Equal(t, ChangeAll, c.Changes())
	assert.Equal(t, FreeCamera, c.Mode())
	assert.Equal(t, LeftHanded, c.Handedness())
	assert.Equal(t, math.Vec3{X: 0.16, Y: 2000, Z: 45}, c.CameraParams())
}

func TestVisibilityScenario(t *testing.T) {
	for _, h := range []Handedness{LeftHanded, RightHanded} {
		t.Run(h.String(), func(t *testing.T) {
			c := scenarioCamera(t, h)
			assert.Equal(t, math.Vec3{Y: 3.5}, c.Position(), "height is added to y")

			f := c.Frustum()
			assert.True(t, f.PointInFrustum(math.Vec3{Z: 50}))
			assert.False(t, f.PointInFrustum(math.Vec3{Z: 150}))
			assert.False(t, f.PointInFrustum(math.Vec3{X: 1000, Z: 50}))
			assert.False(t, f.PointInFrustum(math.Vec3{Z: -50}), "behind the camera")
		})
	}
}

func TestViewMatrixFromBasis(t *testing.T) {
	c := scenarioCamera(t, LeftHanded)
	v := c.ViewMatrix()
	assertVec(t, math.Vec3{}, v.TransformVec3(c.Position()), 1e-6)
	assertVec(t, math.Vec3{Z: 10}, v.TransformVec3(c.Position().Add(math.Vec3{Z: 10})), 1e-6)

	r := scenarioCamera(t, RightHanded)
	assertVec(t, math.Vec3{Z: -10}, r.ViewMatrix().TransformVec3(r.Position().Add(math.Vec3{Z: 10})), 1e-6)
}

func TestProjectionFollowsHandedness(t *testing.T) {
	c := scenarioCamera(t, LeftHanded)
	assert.Equal(t, math.PerspectiveLH(math.DegToRad(45), 1, 0.1, 100), c.ProjectionMatrix())

	r := scenarioCamera(t, RightHanded)
	assert.Equal(t, math.Perspective(math.DegToRad(45), 1, 0.1, 100), r.ProjectionMatrix())
	assert.Equal(t, r.ProjectionMatrix().Mul(r.ViewMatrix()), r.ViewProjection())
}

func TestSetProjectionMatrixOverrides(t *testing.T) {
	c := New()
	custom := math.Ortho(-1, 1, -1, 1, 0, 10)
	c.SetProjectionMatrix(custom)
	assert.False(t, c.Changes().Has(ChangeProjection))
	c.Update()
	assert.Equal(t, custom, c.ProjectionMatrix())

	c.SetFov(60)
	c.Update()
	assert.NotEqual(t, custom, c.ProjectionMatrix())
}

func TestMove(t *testing.T) {
	c := scenarioCamera(t, LeftHanded)
	start := c.Position()

	c.Move(MoveForward, 1)
	assertVec(t, start.Add(math.Vec3{Z: 80}), c.Position(), 1e-4, "Speed * speed * 10 along Direction")
	assert.Equal(t, start, c.OldPosition())

	c.Move(MoveBack, 1)
	assertVec(t, start, c.Position(), 1e-4)

	for i := 0; i < 5; i++ {
		c.Move(MoveLeft, 0.3)
	}
	assert.Less(t, c.Position().X, start.X)
	for i := 0; i < 5; i++ {
		c.Move(MoveRight, 0.3)
	}
	assertVec(t, start, c.Position(), 1e-4)

	c.Move(Stop, 1)
	assertVec(t, start, c.Position(), 1e-4)
}

func TestMoveKeepsAltitudeWithoutFly(t *testing.T) {
	c := scenarioCamera(t, LeftHanded)
	c.Rotate(math.Vec2{Y: 30}, false)
	c.Update()
	require.Less(t, c.Direction().Y, float32(-0.4))

	y := c.Position().Y
	c.Move(MoveForward, 1)
	assert.Equal(t, y, c.Position().Y)

	c.EnableFly(true)
	c.Move(MoveForward, 1)
	assert.InDelta(t, y+80*c.Direction().Y, c.Position().Y, 1e-3)
}

func TestScrollPans(t *testing.T) {
	c := scenarioCamera(t, LeftHanded)
	start := c.Position()

	c.Move(ScrollUp, 0.5)
	assertVec(t, start.Add(math.Vec3{Y: 40}), c.Position(), 1e-4)
	c.Move(ScrollDown, 0.5)
	c.Move(ScrollRight, 0.5)
	assertVec(t, start.Add(math.Vec3{X: 40}), c.Position(), 1e-4)
	c.Move(ScrollLeft, 0.5)
	assertVec(t, start, c.Position(), 1e-4)
}

func TestChangeFlagsLifecycle(t *testing.T) {
	c := New()
	assert.Equal(t, ChangeAll, c.ConsumeChanges())
	assert.Equal(t, ChangeFlags(0), c.Changes())
	assert.False(t, c.Update(), "nothing to do")

	c.Move(MoveForward, 0.1)
	assert.Equal(t, ChangePosition|ChangeOrbitDistance, c.Changes())
	assert.True(t, c.Update())
	assert.True(t, c.Update(), "update does not consume the flags")

	c.ClearChangeCamera()
	c.Rotate(math.Vec2{X: 5}, false)
	assert.Equal(t, ChangeOrientation, c.Changes())

	c.SetFov(50)
	assert.True(t, c.Changes().Has(ChangeProjection))

	c.Lock()
	assert.False(t, c.Update())
	assert.True(t, c.Locked())
	c.Unlock()
	assert.True(t, c.Update())
	assert.Equal(t, ChangeOrientation|ChangeProjection, c.ConsumeChanges())
}

func TestChangeFlagsString(t *testing.T) {
	assert.Equal(t, "none", ChangeFlags(0).String())
	assert.Equal(t, "orientation|projection", (ChangeOrientation | ChangeProjection).String())
}

func TestSettersValidate(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	c := New()
	c.log = zap.New(core)

	assert.False(t, c.SetSpeed(0.005))
	assert.True(t, c.SetSpeed(0.01))
	assert.True(t, c.SetSpeed(103))
	assert.False(t, c.SetSpeed(103.5))
	assert.Equal(t, float32(103), c.Speed())

	assert.False(t, c.SetCameraHeight(0))
	assert.True(t, c.SetCameraHeight(2))

	assert.False(t, c.SetAspect(-1))
	assert.Equal(t, float32(1), c.Aspect())

	assert.False(t, c.SetFov(0))
	assert.False(t, c.SetFov(180))
	assert.Equal(t, float32(45), c.Fov())

	assert.False(t, c.SetZNear(0))
	assert.False(t, c.SetZNear(2000))
	assert.False(t, c.SetZFar(0.1))
	assert.True(t, c.SetZFar(500))

	assert.Equal(t, 2, logs.FilterMessage("speed rejected").Len())
	assert.Equal(t, 1, logs.FilterMessage("camera height rejected").Len())
	assert.Equal(t, 1, logs.FilterMessage("aspect rejected").Len())
	assert.Equal(t, 2, logs.FilterMessage("fov rejected").Len())
	assert.Equal(t, 2, logs.FilterMessage("near plane rejected").Len())
	assert.Equal(t, 1, logs.FilterMessage("far plane rejected").Len())
}

func TestRotatePitch(t *testing.T) {
	c := New()
	c.Rotate(math.Vec2{Y: 10}, false)
	sin, cos := math32.Sincos(math.DegToRad(10))
	assertVec(t, math.Vec3{Y: cos, Z: sin}, c.Up(), 1e-5)
	assertVec(t, math.Vec3{Y: -sin, Z: cos}, c.Direction(), 1e-5)
}

func TestRotatePitchPastHorizonIsDropped(t *testing.T) {
	c := New()
	c.ClearChangeCamera()
	c.Rotate(math.Vec2{Y: 100}, false)
	assert.Equal(t, math.UnitY(), c.Up())
	assert.Equal(t, math.UnitZ(), c.Direction())
	assert.Equal(t, ChangeFlags(0), c.Changes())
}

func TestRotateYaw(t *testing.T) {
	c := New()
	c.Rotate(math.Vec2{X: 90}, false)
	c.Update()
	assertVec(t, math.Vec3{X: 1}, c.Direction(), 1e-5)
	assertVec(t, math.Vec3{Z: -1}, c.Right(), 1e-5)
	assertVec(t, math.Vec3{Y: 1}, c.Up(), 1e-5)
}

func TestRotationStrategiesAgree(t *testing.T) {
	m := New()
	m.SetRotator(MatrixRotation{})
	q := New()
	q.SetRotator(QuaternionRotation{})

	for _, d := range []math.Vec2{{X: 10, Y: 5}, {X: -30, Y: 12}, {X: 45, Y: -7}, {X: 3.3, Y: 60}} {
		m.Rotate(d, false)
		q.Rotate(d, false)
		m.Update()
		q.Update()
	}
	assertVec(t, m.Direction(), q.Direction(), 1e-5)
	assertVec(t, m.Up(), q.Up(), 1e-5)
	assertVec(t, m.Right(), q.Right(), 1e-5)
}

func TestUpdateOrthonormalizes(t *testing.T) {
	c := New()
	for i := 0; i < 200; i++ {
		c.Rotate(math.Vec2{X: 7.3, Y: 1.1 * float32(i%5-2)}, false)
		c.Update()
	}
	assert.InDelta(t, 1, c.Direction().Length(), 1e-5)
	assert.InDelta(t, 1, c.Up().Length(), 1e-5)
	assert.InDelta(t, 1, c.Right().Length(), 1e-5)
	assert.InDelta(t, 0, c.Direction().Dot(c.Up()), 1e-5)
	assert.InDelta(t, 0, c.Direction().Dot(c.Right()), 1e-5)
	assert.InDelta(t, 0, c.Up().Dot(c.Right()), 1e-5)
}

func TestUpdateRebuildsRightWhenParallel(t *testing.T) {
	c := New()
	c.SetDirection(math.Vec3{X: 2})
	c.Update()
	assertVec(t, math.Vec3{X: 1}, c.Direction(), 1e-6)
	assertVec(t, math.Vec3{Z: -1}, c.Right(), 1e-6)
	assertVec(t, math.Vec3{Y: 1}, c.Up(), 1e-6)
}

func TestClearRotate(t *testing.T) {
	c := scenarioCamera(t, LeftHanded)
	c.Rotate(math.Vec2{X: 40, Y: 20}, false)
	c.Update()
	c.ClearRotate()
	assert.Equal(t, math.UnitZ(), c.Direction())
	assert.Equal(t, math.UnitY(), c.Up())
	assert.True(t, c.Changes().Has(ChangeOrientation))
	v := c.ViewMatrix()
	assert.Equal(t, float32(1), v[0])
	assert.Equal(t, float32(1), v[5])
	assert.Equal(t, float32(1), v[10])
}

func TestVisibilityQueries(t *testing.T) {
	c := scenarioCamera(t, LeftHanded)

	inside := geom.NewBox(math.Vec3{X: -1, Y: 2, Z: 40}, math.Vec3{X: 1, Y: 4, Z: 42})
	assert.True(t, c.IsVisible(inside))
	assert.True(t, c.IsVisibleBox(inside.Min, inside.Max))
	visible, intersect := c.IsVisibleBoxIntersect(inside.Min, inside.Max)
	assert.True(t, visible)
	assert.False(t, intersect)

	crossing := geom.NewBox(math.Vec3{X: -1, Y: 2, Z: 90}, math.Vec3{X: 1, Y: 4, Z: 110})
	visible, intersect = c.IsVisibleBoxIntersect(crossing.Min, crossing.Max)
	assert.True(t, visible)
	assert.True(t, intersect)

	assert.False(t, c.IsVisible(inside.Translate(math.Vec3{Z: -100})))

	assert.True(t, c.IsVisibleSphere(geom.BoundingSphere{Center: math.Vec3{Y: 3.5, Z: 1}}))
	assert.False(t, c.IsVisibleSphere(geom.BoundingSphere{Center: math.Vec3{Y: 3.5, Z: -5}, Radius: 1}))
	assert.True(t, c.IsVisibleSphere(geom.SphereFromVec4(math.Vec4{30, 3.5, 50, 20})), "light range reaches into view")
}

func TestFrustumCornersRoundTrip(t *testing.T) {
	c := New()
	c.Rotate(math.Vec2{X: 33, Y: 12}, false)
	c.Update()
	c.ExtractFrustum()

	pts, ok := c.Frustum().CalculatePoints()
	require.True(t, ok)
	box := geom.BoxFromPoints(pts[:]...)
	assert.True(t, c.IsVisible(box))
}

func TestCalculateNearFarPlanes(t *testing.T) {
	c := scenarioCamera(t, LeftHanded)
	require.False(t, c.Frustum().PointInFrustum(math.Vec3{Y: 3.5, Z: 150}))

	c.SetZFar(200)
	c.Update()
	c.CalculateNearFarPlanes()
	assert.True(t, c.Frustum().PointInFrustum(math.Vec3{Y: 3.5, Z: 150}))
}

func TestReflect(t *testing.T) {
	c := New()
	c.SetPosition(0, 1.5, 0)
	c.Rotate(math.Vec2{Y: 30}, false)
	c.Update()
	c.ExtractFrustum()

	seen := math.Vec3{Y: 1, Z: 10}
	unseen := math.Vec3{Y: 4.9, Z: 10}
	require.True(t, c.Frustum().PointInFrustum(seen))
	require.False(t, c.Frustum().PointInFrustum(unseen))

	ground := geom.PlaneXZ()
	c.Reflect(ground, true)

	assertVec(t, math.Vec3{Y: -5}, c.Position(), 1e-5)
	assert.Greater(t, c.Direction().Y, float32(0))
	assert.Equal(t, ChangeFlags(0), c.Changes())
	assert.True(t, c.Frustum().PointInFrustum(ground.ReflectPos(seen)))
	assert.False(t, c.Frustum().PointInFrustum(ground.ReflectPos(unseen)))
}

func TestNewRotator(t *testing.T) {
	r, err := NewRotator(RotationMatrix)
	require.NoError(t, err)
	assert.IsType(t, MatrixRotation{}, r)

	r, err = NewRotator("")
	require.NoError(t, err)
	assert.IsType(t, QuaternionRotation{}, r)

	_, err = NewRotator("euler")
	assert.Error(t, err)
}

func TestParseModeAndHandedness(t *testing.T) {
	m, err := ParseMode("orbit")
	require.NoError(t, err)
	assert.Equal(t, OrbitCamera, m)
	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, FreeCamera, m)
	_, err = ParseMode("chase")
	assert.Error(t, err)

	h, err := ParseHandedness("right")
	require.NoError(t, err)
	assert.Equal(t, RightHanded, h)
	assert.Equal(t, "right", h.String())
	_, err = ParseHandedness("up")
	assert.Error(t, err)
}
