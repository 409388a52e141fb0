package control

import (
	"go.uber.org/zap"

	"github.com/Faultbox/lidshade/internal/engine/camera"
	"github.com/Faultbox/lidshade/internal/logger"
	"github.com/Faultbox/lidshade/pkg/math"
)

const (
	boostFactor = 4
	zoomStep    = 0.1 // fraction of the orbit distance per wheel notch
	minZoom     = 0.5
)

// Settings tunes how input maps to camera motion.
type Settings struct {
	// MoveSpeed scales key movement. Camera.Move multiplies it by the
	// camera speed and the frame time.
	MoveSpeed float32
	// Sensitivity converts mouse pixels to degrees.
	Sensitivity float32
	// Smoothing eases mouse-look and orbit zoom with springs.
	Smoothing bool
	// FPS is the rate the springs are stepped at.
	FPS int
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{
		MoveSpeed:   1,
		Sensitivity: 0.1,
		Smoothing:   true,
		FPS:         60,
	}
}

// Controller drives a camera from FrameInput.
type Controller struct {
	cam  *camera.Camera
	cfg  Settings
	look *Smoother

	zoom       spring1
	zoomTarget float64
	zooming    bool

	log *zap.Logger
}

// NewController returns a controller for cam.
func NewController(cam *camera.Camera, cfg Settings) *Controller {
	if cfg.FPS <= 0 {
		cfg.FPS = 60
	}
	return &Controller{
		cam:  cam,
		cfg:  cfg,
		look: NewSmoother(cfg.FPS, 20, 1),
		zoom: spring1{spring: harmonicaSpring(cfg.FPS, 6, 1)},
		log:  logger.Named("control"),
	}
}

// Camera returns the driven camera.
func (c *Controller) Camera() *camera.Camera { return c.cam }

// Apply feeds one frame of input to the camera. The caller still runs
// Camera.Update.
func (c *Controller) Apply(in FrameInput) {
	c.toggles(in.Pressed)
	c.move(in)
	c.mouseLook(in.MouseDelta)
	c.wheel(in.Scroll)
	c.stepZoom()
}

func (c *Controller) toggles(pressed KeySet) {
	if pressed.Has(KeyF) {
		c.cam.EnableFly(!c.cam.Fly())
		c.log.Info("fly mode toggled", zap.Bool("fly", c.cam.Fly()))
	}
	if pressed.Has(KeyTab) {
		next := camera.OrbitCamera
		if c.cam.Mode() == camera.OrbitCamera {
			next = camera.FreeCamera
		}
		c.cam.SetCameraType(next)
		c.zooming = false
	}
	if pressed.Has(KeyR) {
		c.cam.ClearRotate()
		c.look.Reset()
	}
}

var moves = [...]struct {
	key Key
	mv  camera.Movement
}{
	{KeyW, camera.MoveForward},
	{KeyS, camera.MoveBack},
	{KeyA, camera.MoveLeft},
	{KeyD, camera.MoveRight},
	{KeyE, camera.ScrollUp},
	{KeyQ, camera.ScrollDown},
	{KeyLeft, camera.ScrollLeft},
	{KeyRight, camera.ScrollRight},
	{KeyUp, camera.ScrollUp},
	{KeyDown, camera.ScrollDown},
}

func (c *Controller) move(in FrameInput) {
	speed := c.cfg.MoveSpeed * in.DT
	if in.Keys.Has(KeyShift) {
		speed *= boostFactor
	}
	if speed == 0 {
		return
	}
	for _, m := range moves {
		if in.Keys.Has(m.key) {
			c.cam.Move(m.mv, speed)
		}
	}
}

// mouseLook converts pointer motion to yaw and pitch. Screen +X turns
// toward Right and screen +Y looks down.
func (c *Controller) mouseLook(delta math.Vec2) {
	d := delta.Scale(c.cfg.Sensitivity)
	if c.cfg.Smoothing {
		d = c.look.Update(d)
	}
	if d.IsZero() {
		return
	}
	c.cam.Rotate(d, c.cam.Mode() == camera.OrbitCamera)
}

func (c *Controller) wheel(scroll float32) {
	if scroll == 0 {
		return
	}
	o := c.cam.Orbit()
	if c.cam.Mode() != camera.OrbitCamera || o == nil || o.Distance() <= 0 {
		c.cam.Move(camera.MoveForward, scroll*zoomStep)
		return
	}

	if !c.zooming {
		c.zoom.pos, c.zoom.vel = float64(o.Distance()), 0
		c.zoomTarget = c.zoom.pos
		c.zooming = true
	}
	c.zoomTarget *= 1 - zoomStep*float64(scroll)
	if c.zoomTarget < minZoom {
		c.zoomTarget = minZoom
	}
	if !c.cfg.Smoothing {
		c.zoom.pos = c.zoomTarget
	}
}

func (c *Controller) stepZoom() {
	if !c.zooming {
		return
	}
	if c.cfg.Smoothing {
		c.zoom.step(c.zoomTarget)
	}
	c.cam.SetOrbitDistance(float32(c.zoom.pos))
	if !c.cfg.Smoothing || c.zoom.settled(c.zoomTarget) {
		c.cam.SetOrbitDistance(float32(c.zoomTarget))
		c.zooming = false
	}
}
