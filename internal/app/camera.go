package app

import (
	"errors"
	"fmt"

	"github.com/Faultbox/lidshade/internal/config"
	"github.com/Faultbox/lidshade/internal/engine/camera"
	"github.com/Faultbox/lidshade/pkg/math"
)

// NewCamera builds a camera from cfg. A zero cfg.Aspect uses aspect.
// cfg.Position is the raw eye position; Height is not added to it.
func NewCamera(cfg config.CameraConfig, aspect float32) (*camera.Camera, error) {
	cam := camera.New()

	var errs []error
	check := func(ok bool, what string, v float32) {
		if !ok {
			errs = append(errs, fmt.Errorf("camera rejected %s %g", what, v))
		}
	}

	if cfg.Aspect > 0 {
		aspect = cfg.Aspect
	}
	check(cam.SetAspect(aspect), "aspect", aspect)
	check(cam.SetFov(cfg.Fov), "fov", cfg.Fov)
	// Order the clip setters so the pair stays ordered in between.
	if cfg.ZFar > cam.ZNear() {
		check(cam.SetZFar(cfg.ZFar), "z_far", cfg.ZFar)
		check(cam.SetZNear(cfg.ZNear), "z_near", cfg.ZNear)
	} else {
		check(cam.SetZNear(cfg.ZNear), "z_near", cfg.ZNear)
		check(cam.SetZFar(cfg.ZFar), "z_far", cfg.ZFar)
	}
	check(cam.SetSpeed(cfg.Speed), "speed", cfg.Speed)
	check(cam.SetCameraHeight(cfg.Height), "height", cfg.Height)
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	h, err := camera.ParseHandedness(cfg.Handedness)
	if err != nil {
		return nil, err
	}
	cam.SetHandedness(h)

	r, err := camera.NewRotator(cfg.Rotation)
	if err != nil {
		return nil, err
	}
	cam.SetRotator(r)

	cam.SetPositionX(cfg.Position[0])
	cam.SetPositionY(cfg.Position[1])
	cam.SetPositionZ(cfg.Position[2])
	cam.EnableFly(cfg.Fly)

	mode, err := camera.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	if mode == camera.OrbitCamera {
		cam.SetTarget(math.Vec3FromArray(cfg.Orbit.Target))
		cam.SetOrbitLimitAngles(math.Vec2{X: cfg.Orbit.YawLimit, Y: cfg.Orbit.PitchLimit})
		cam.SetCameraType(camera.OrbitCamera)
	}

	cam.Update()
	cam.ExtractFrustum()
	cam.ConsumeChanges()
	return cam, nil
}
