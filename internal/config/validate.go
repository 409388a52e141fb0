package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/lidshade/internal/engine/camera"
)

var (
	ErrInvalidFov         = errors.New("fov must be in (0, 180) degrees")
	ErrInvalidClipRange   = errors.New("clip range must satisfy 0 < z_near < z_far")
	ErrInvalidAspect      = errors.New("aspect must not be negative")
	ErrInvalidSpeed       = errors.New("speed out of range")
	ErrInvalidRadiusRange = errors.New("light radius range must satisfy 0 < min <= max")
	ErrInvalidOption      = errors.New("invalid option")
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	cam := c.Camera

	if cam.Fov <= 0 || cam.Fov >= 180 {
		errs = append(errs, fmt.Errorf("%w: %g", ErrInvalidFov, cam.Fov))
	}
	if cam.ZNear <= 0 || cam.ZFar <= cam.ZNear {
		errs = append(errs, fmt.Errorf("%w: [%g, %g]", ErrInvalidClipRange, cam.ZNear, cam.ZFar))
	}
	if cam.Aspect < 0 {
		errs = append(errs, fmt.Errorf("%w: %g", ErrInvalidAspect, cam.Aspect))
	}
	if cam.Speed < camera.MinSpeed || cam.Speed > camera.MaxSpeed {
		errs = append(errs, fmt.Errorf("%w: %g not in [%g, %g]", ErrInvalidSpeed, cam.Speed, float32(camera.MinSpeed), float32(camera.MaxSpeed)))
	}
	if _, err := camera.ParseHandedness(cam.Handedness); err != nil {
		errs = append(errs, fmt.Errorf("%w: camera.handedness: %v", ErrInvalidOption, err))
	}
	if _, err := camera.ParseMode(cam.Mode); err != nil {
		errs = append(errs, fmt.Errorf("%w: camera.mode: %v", ErrInvalidOption, err))
	}
	if _, err := camera.NewRotator(cam.Rotation); err != nil {
		errs = append(errs, fmt.Errorf("%w: camera.rotation: %v", ErrInvalidOption, err))
	}

	r := c.Lighting.RadiusRange
	if r[0] <= 0 || r[0] > r[1] {
		errs = append(errs, fmt.Errorf("%w: [%g, %g]", ErrInvalidRadiusRange, r[0], r[1]))
	}
	if c.Lighting.Count < 0 {
		errs = append(errs, fmt.Errorf("%w: lighting.count %d", ErrInvalidOption, c.Lighting.Count))
	}
	if c.Lighting.ShadowExtrude < 0 {
		errs = append(errs, fmt.Errorf("%w: lighting.shadow_extrude %g", ErrInvalidOption, c.Lighting.ShadowExtrude))
	}
	if c.Scene.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: scene.cache_size %d", ErrInvalidOption, c.Scene.CacheSize))
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: logging.format %q", ErrInvalidOption, c.Logging.Format))
	}

	return errors.Join(errs...)
}
