// Package app runs one frame of the harness: input drives the camera, the
// camera's frustum culls the scene and the light field, and the results
// feed per-frame stats.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/lidshade/internal/config"
	"github.com/Faultbox/lidshade/internal/engine/camera"
	"github.com/Faultbox/lidshade/internal/engine/control"
	"github.com/Faultbox/lidshade/internal/engine/culling"
	"github.com/Faultbox/lidshade/internal/engine/lighting"
	"github.com/Faultbox/lidshade/internal/engine/shadow"
	"github.com/Faultbox/lidshade/internal/logger"
	"github.com/Faultbox/lidshade/internal/scene"
	"github.com/Faultbox/lidshade/pkg/geom"
	"github.com/Faultbox/lidshade/pkg/math"
)

// Frame is the outcome of one Frame call.
type Frame struct {
	Boxes culling.Result
	// Lights holds indices into the light field that passed culling.
	Lights []int
	// Casters holds indices of objects inside the sun's volume around the
	// view. Nil when no sun is configured.
	Casters []int
	// CameraChanged reports whether the view or projection was rebuilt.
	CameraChanged bool
}

// App owns the camera, scene and lights.
type App struct {
	cfg *config.Config

	cam      *camera.Camera
	ctl      *control.Controller
	library  *scene.Library
	scene    *scene.Scene
	boxes    []geom.BoundingBox
	lights   *lighting.Field
	lightBuf *lighting.PointLightBuffer

	stats Stats
	log   *zap.Logger
}

// New builds the app from cfg. aspect is the window's width / height.
func New(cfg *config.Config, aspect float32) (*App, error) {
	cam, err := NewCamera(cfg.Camera, aspect)
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}

	lights, err := NewLightField(cfg.Lighting)
	if err != nil {
		return nil, fmt.Errorf("lights: %w", err)
	}

	library, err := scene.NewLibrary(cfg.Scene.CacheSize)
	if err != nil {
		return nil, err
	}

	fps := cfg.Window.FPSLimit
	if fps <= 0 {
		fps = 60
	}
	ctlCfg := control.DefaultSettings()
	ctlCfg.Sensitivity = cfg.Camera.MouseSensitivity
	ctlCfg.Smoothing = cfg.Camera.Smoothing
	ctlCfg.FPS = fps

	a := &App{
		cfg:      cfg,
		cam:      cam,
		ctl:      control.NewController(cam, ctlCfg),
		library:  library,
		lights:   lights,
		lightBuf: lighting.NewPointLightBuffer(),
		log:      logger.Named("app"),
	}

	if cfg.Scene.Path != "" {
		if err := a.LoadScene(cfg.Scene.Path); err != nil {
			return nil, err
		}
	}

	a.log.Info("app ready",
		zap.Int("lights", lights.Len()),
		zap.Int("objects", len(a.boxes)),
		zap.Stringer("mode", cam.Mode()),
		zap.Stringer("handedness", cam.Handedness()),
	)
	return a, nil
}

// NewLightField scatters the configured lights over the configured area.
func NewLightField(lc config.LightingConfig) (*lighting.Field, error) {
	return lighting.NewField(lighting.FieldConfig{
		Count:     lc.Count,
		Start:     math.Vec3FromArray(lc.AreaMin),
		End:       math.Vec3FromArray(lc.AreaMax),
		RadiusMin: lc.RadiusRange[0],
		RadiusMax: lc.RadiusRange[1],
		Seed:      lc.Seed,
	})
}

// LoadScene switches to the scene at path, through the scene cache.
func (a *App) LoadScene(path string) error {
	s, err := a.library.Get(path)
	if err != nil {
		return err
	}
	a.SetScene(s)
	return nil
}

// SetScene switches to s. Orbit cameras are refit to the new bounds.
func (a *App) SetScene(s *scene.Scene) {
	a.scene = s
	a.boxes = s.Boxes()
	if a.cam.Mode() == camera.OrbitCamera {
		a.cam.FitToBounds(s.Bounds)
	}
}

// Camera returns the driven camera.
func (a *App) Camera() *camera.Camera { return a.cam }

// Lights returns the light field.
func (a *App) Lights() *lighting.Field { return a.lights }

// LightBuffer returns the view-space lights uploaded by the last frame.
func (a *App) LightBuffer() *lighting.PointLightBuffer { return a.lightBuf }

// Frame applies one frame of input and culls everything against the
// resulting frustum.
func (a *App) Frame(ctx context.Context, in control.FrameInput) (Frame, error) {
	start := time.Now()
	var out Frame

	if in.Resized && in.Width > 0 && in.Height > 0 {
		a.cam.SetAspect(float32(in.Width) / float32(in.Height))
	}
	a.ctl.Apply(in)
	if a.cam.Update() {
		a.cam.ExtractFrustum()
		a.cam.ConsumeChanges()
		out.CameraChanged = true
	}

	if a.cfg.Lighting.Animate {
		a.lights.Animate(in.DT)
	}

	workers := a.cfg.Culling.Workers
	var err error
	out.Boxes, err = culling.Cull(ctx, a.cam.Frustum(), a.boxes, workers)
	if err != nil {
		return Frame{}, fmt.Errorf("cull scene: %w", err)
	}
	out.Lights, err = culling.CullSpheres(ctx, a.cam.Frustum(), a.lights.Spheres(), workers)
	if err != nil {
		return Frame{}, fmt.Errorf("cull lights: %w", err)
	}
	a.lights.Upload(a.cam.ViewMatrix(), out.Lights, a.lightBuf)

	out.Casters, err = a.casters(ctx, workers)
	if err != nil {
		return Frame{}, fmt.Errorf("cull casters: %w", err)
	}

	a.stats.record(out, len(a.boxes), a.lights.Len(), a.lightBuf.Dropped, time.Since(start))
	return out, nil
}

// casters culls the scene against the sun's volume fitted around the view
// frustum.
func (a *App) casters(ctx context.Context, workers int) ([]int, error) {
	lc := a.cfg.Lighting
	sun := math.Vec3FromArray(lc.SunDirection)
	if sun == (math.Vec3{}) || len(a.boxes) == 0 {
		return nil, nil
	}
	m, ok := shadow.FitFrustum(sun, a.cam.Frustum(), lc.ShadowExtrude)
	if !ok {
		return nil, nil
	}
	vol := shadow.Volume(m)
	res, err := culling.Cull(ctx, &vol, a.boxes, workers)
	if err != nil {
		return nil, err
	}
	return res.Visible, nil
}
