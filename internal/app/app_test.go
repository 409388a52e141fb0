package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/lidshade/internal/config"
	"github.com/Faultbox/lidshade/internal/engine/camera"
	"github.com/Faultbox/lidshade/internal/engine/control"
	"github.com/Faultbox/lidshade/internal/scene"
	"github.com/Faultbox/lidshade/pkg/geom"
	"github.com/Faultbox/lidshade/pkg/math"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Lighting.Count = 32
	cfg.Lighting.Seed = 1
	cfg.Camera.Smoothing = false
	return cfg
}

// testScene is laid out around the default eye at (20, -0.7, -10) looking
// down +Z.
func testScene() *scene.Scene {
	boxes := []geom.BoundingBox{
		geom.NewBox(math.Vec3{X: 19, Y: -1.7, Z: 39}, math.Vec3{X: 21, Y: 0.3, Z: 41}),
		geom.NewBox(math.Vec3{X: 19, Y: -1.7, Z: -61}, math.Vec3{X: 21, Y: 0.3, Z: -59}),
		geom.NewBox(math.Vec3{X: 10, Y: -5, Z: 0}, math.Vec3{X: 30, Y: 5, Z: 5000}),
	}
	s := &scene.Scene{Name: "test", Bounds: geom.EmptyBox()}
	for _, b := range boxes {
		s.Objects = append(s.Objects, scene.Object{Bounds: b})
		s.Bounds.Add(b)
	}
	return s
}

func TestNewCamera(t *testing.T) {
	cfg := testConfig().Camera
	cfg.Handedness = "right"
	cfg.Rotation = "matrix"
	cfg.ZNear = 1
	cfg.ZFar = 50
	cam, err := NewCamera(cfg, 2)
	require.NoError(t, err)

	assert.Equal(t, float32(2), cam.Aspect())
	assert.Equal(t, math.Vec3{X: 1, Y: 50, Z: 45}, cam.CameraParams())
	assert.Equal(t, camera.RightHanded, cam.Handedness())
	assert.Equal(t, math.Vec3{X: 20, Y: -0.7, Z: -10}, cam.Position())
	assert.Equal(t, camera.ChangeFlags(0), cam.Changes())

	cfg.Aspect = 1.5
	cam, err = NewCamera(cfg, 2)
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), cam.Aspect())
}

func TestNewCameraTinyClipRange(t *testing.T) {
	cfg := testConfig().Camera
	cfg.ZNear = 0.01
	cfg.ZFar = 0.1
	cam, err := NewCamera(cfg, 1)
	require.NoError(t, err)
	assert.Equal(t, float32(0.01), cam.ZNear())
	assert.Equal(t, float32(0.1), cam.ZFar())
}

func TestNewCameraRejects(t *testing.T) {
	cfg := testConfig().Camera
	cfg.Fov = 0
	_, err := NewCamera(cfg, 1)
	assert.ErrorContains(t, err, "fov")

	cfg = testConfig().Camera
	cfg.Mode = "chase"
	_, err = NewCamera(cfg, 1)
	assert.Error(t, err)
}

func TestNewCameraOrbit(t *testing.T) {
	cfg := testConfig().Camera
	cfg.Mode = "orbit"
	cfg.Orbit.Target = [3]float32{1, 2, 3}
	cfg.Orbit.PitchLimit = 30
	cam, err := NewCamera(cfg, 1)
	require.NoError(t, err)

	require.Equal(t, camera.OrbitCamera, cam.Mode())
	assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 3}, cam.Orbit().Target)
	assert.Equal(t, math.Vec2{Y: 30}, cam.Orbit().Limits)
}

func TestFrameCulls(t *testing.T) {
	a, err := New(testConfig(), 1)
	require.NoError(t, err)
	a.SetScene(testScene())

	f, err := a.Frame(context.Background(), control.FrameInput{DT: 0.001})
	require.NoError(t, err)
	assert.False(t, f.CameraChanged)
	assert.Equal(t, []int{0, 2}, f.Boxes.Visible)
	assert.Equal(t, []int{2}, f.Boxes.Intersecting)
	assert.Equal(t, 1, f.Boxes.Rejected)
	// The fitted sun volume reaches behind the eye.
	assert.Equal(t, []int{0, 1, 2}, f.Casters)

	assert.LessOrEqual(t, len(f.Lights), a.Lights().Len())
	assert.Equal(t, len(f.Lights), a.LightBuffer().Count())
	for _, i := range f.Lights {
		assert.True(t, a.Camera().IsVisibleSphere(a.Lights().Lights()[i].Sphere()))
	}
}

func TestFrameMovesCamera(t *testing.T) {
	a, err := New(testConfig(), 1)
	require.NoError(t, err)
	a.SetScene(testScene())
	start := a.Camera().Position()

	f, err := a.Frame(context.Background(), control.FrameInput{
		Keys: control.KeySet(0).Add(control.KeyW),
		DT:   0.1,
	})
	require.NoError(t, err)
	assert.True(t, f.CameraChanged)
	assert.InDelta(t, start.Z+8, a.Camera().Position().Z, 1e-4)

	f, err = a.Frame(context.Background(), control.FrameInput{Resized: true, Width: 800, Height: 400})
	require.NoError(t, err)
	assert.True(t, f.CameraChanged)
	assert.Equal(t, float32(2), a.Camera().Aspect())

	f, err = a.Frame(context.Background(), control.FrameInput{})
	require.NoError(t, err)
	assert.False(t, f.CameraChanged)

	s := a.FlushStats()
	assert.Equal(t, 3, s.Frames)
	assert.Equal(t, 3, s.Objects)
	assert.Equal(t, 32, s.Lights)
	assert.Contains(t, s.String(), "3 frames")
	assert.Equal(t, Stats{}, a.Stats())
}

func TestFrameWithoutSun(t *testing.T) {
	cfg := testConfig()
	cfg.Lighting.SunDirection = [3]float32{}
	a, err := New(cfg, 1)
	require.NoError(t, err)
	a.SetScene(testScene())

	f, err := a.Frame(context.Background(), control.FrameInput{})
	require.NoError(t, err)
	assert.Nil(t, f.Casters)
	assert.Len(t, f.Boxes.Visible, 2)
}

func TestFrameCanceled(t *testing.T) {
	a, err := New(testConfig(), 1)
	require.NoError(t, err)
	a.SetScene(testScene())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.Frame(ctx, control.FrameInput{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOrbitSceneFit(t *testing.T) {
	cfg := testConfig()
	cfg.Camera.Mode = "orbit"
	a, err := New(cfg, 1)
	require.NoError(t, err)

	s := testScene()
	a.SetScene(s)
	assert.Equal(t, s.Bounds.Center(), a.Camera().Orbit().Target)
}

func TestNewErrors(t *testing.T) {
	cfg := testConfig()
	cfg.Lighting.RadiusRange = [2]float32{3, 1}
	_, err := New(cfg, 1)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Scene.Path = "does-not-exist.glb"
	_, err = New(cfg, 1)
	assert.Error(t, err)
}
