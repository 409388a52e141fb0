package lighting

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/chewxy/math32"

	"github.com/Faultbox/lidshade/pkg/geom"
	"github.com/Faultbox/lidshade/pkg/math"
)

const (
	// AnimationStep is the fixed interval between animation ticks, in seconds.
	AnimationStep = 0.01
	orbitRadius   = 10
)

// ErrInvalidRadiusRange is returned for a radius range that is empty or
// not positive.
var ErrInvalidRadiusRange = errors.New("invalid light radius range")

// FieldConfig describes a random light field.
type FieldConfig struct {
	Count int
	// Start and End bound the light positions.
	Start, End math.Vec3
	// RadiusMin and RadiusMax bound each light's range.
	RadiusMin, RadiusMax float32
	// Seed fixes the generator; zero seeds from the clock.
	Seed int64
}

// Field is a set of point lights circling fixed centers in the XZ plane.
type Field struct {
	lights  []PointLight
	offsets []math.Vec3
	elapsed float32
}

// NewField generates cfg.Count lights uniformly inside [Start, End] with
// ranges uniform in [RadiusMin, RadiusMax] and random colors.
func NewField(cfg FieldConfig) (*Field, error) {
	if cfg.RadiusMin <= 0 || cfg.RadiusMin > cfg.RadiusMax {
		return nil, fmt.Errorf("%w: [%g, %g]", ErrInvalidRadiusRange, cfg.RadiusMin, cfg.RadiusMax)
	}
	if cfg.Count < 0 {
		return nil, fmt.Errorf("negative light count %d", cfg.Count)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	between := func(a, b float32) float32 {
		return a + rng.Float32()*(b-a)
	}

	f := &Field{
		lights:  make([]PointLight, cfg.Count),
		offsets: make([]math.Vec3, cfg.Count),
	}
	for i := range f.lights {
		f.lights[i] = PointLight{
			Position: math.Vec3{
				X: between(cfg.Start.X, cfg.End.X),
				Y: between(cfg.Start.Y, cfg.End.Y),
				Z: between(cfg.Start.Z, cfg.End.Z),
			},
			Color:     math.Vec3{X: rng.Float32(), Y: rng.Float32(), Z: rng.Float32()},
			Range:     between(cfg.RadiusMin, cfg.RadiusMax),
			Intensity: 1,
		}
		f.offsets[i] = initialOffset(i)
	}
	return f, nil
}

// NewFieldFromLights wraps fixed lights so they can be animated and culled.
func NewFieldFromLights(lights []PointLight) *Field {
	f := &Field{
		lights:  append([]PointLight(nil), lights...),
		offsets: make([]math.Vec3, len(lights)),
	}
	for i := range f.offsets {
		f.offsets[i] = initialOffset(i)
	}
	return f
}

func initialOffset(i int) math.Vec3 {
	if i%2 == 1 {
		return math.Vec3{X: 5, Y: 5}
	}
	return math.Vec3{X: -5, Y: -5}
}

// Len returns the number of lights.
func (f *Field) Len() int { return len(f.lights) }

// Lights returns the lights. The slice is owned by the field.
func (f *Field) Lights() []PointLight { return f.lights }

// Spheres returns each light's area of influence.
func (f *Field) Spheres() []geom.BoundingSphere {
	out := make([]geom.BoundingSphere, len(f.lights))
	for i, l := range f.lights {
		out[i] = l.Sphere()
	}
	return out
}

// stepAngle is the per-tick rotation for light i.
func stepAngle(i int) float32 {
	a := math32.Pi/360 + float32(i)/512
	if i%2 == 1 {
		a = -a
	}
	return a
}

// Animate advances the field by dt seconds. Lights move once per
// AnimationStep of accumulated time; leftover time beyond one step is
// dropped. It reports whether the lights moved.
func (f *Field) Animate(dt float32) bool {
	f.elapsed += dt
	if f.elapsed < AnimationStep {
		return false
	}
	f.elapsed = 0
	for i := range f.lights {
		off := f.offsets[i]
		center := f.lights[i].Position.Sub(off.Scale(orbitRadius))
		off = off.RotateXZ(stepAngle(i))
		f.offsets[i] = off
		f.lights[i].Position = center.Add(off.Scale(orbitRadius))
	}
	return true
}

// SphereTester is anything that can accept or reject a bounding sphere,
// typically a camera or frustum wrapper.
type SphereTester interface {
	IsVisibleSphere(s geom.BoundingSphere) bool
}

// Visible appends the indices of lights whose spheres pass t to dst.
func (f *Field) Visible(t SphereTester, dst []int) []int {
	for i, l := range f.lights {
		if t.IsVisibleSphere(l.Sphere()) {
			dst = append(dst, i)
		}
	}
	return dst
}

// Upload fills buf with the selected lights moved into view space.
func (f *Field) Upload(view math.Mat4, indices []int, buf *PointLightBuffer) {
	buf.Clear()
	for _, i := range indices {
		l := f.lights[i]
		l.Position = view.TransformVec3(l.Position)
		buf.AddLight(l)
	}
}
