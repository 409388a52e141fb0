// Package lighting generates, animates and culls the point-light field and
// packs the visible lights for upload.
package lighting

import (
	"github.com/Faultbox/lidshade/pkg/geom"
	"github.com/Faultbox/lidshade/pkg/math"
)

// MaxPointLights is the maximum number of point lights uploaded per frame.
const MaxPointLights = 256

// PointLight is one light source.
type PointLight struct {
	Position  math.Vec3
	Color     math.Vec3 // RGB color (0-1 range)
	Range     float32   // Light radius/falloff distance
	Intensity float32   // Light intensity multiplier
}

// Sphere returns the light's area of influence.
func (l PointLight) Sphere() geom.BoundingSphere {
	return geom.BoundingSphere{Center: l.Position, Radius: l.Range}
}

// PointLightBuffer holds lights for GPU upload.
type PointLightBuffer struct {
	Lights []PointLight
	// Dropped counts lights rejected because the buffer was full.
	Dropped int
}

// NewPointLightBuffer creates an empty point light buffer.
func NewPointLightBuffer() *PointLightBuffer {
	return &PointLightBuffer{
		Lights: make([]PointLight, 0, MaxPointLights),
	}
}

// Count returns the number of buffered lights.
func (b *PointLightBuffer) Count() int {
	return len(b.Lights)
}

// Clear removes all lights from the buffer.
func (b *PointLightBuffer) Clear() {
	b.Lights = b.Lights[:0]
	b.Dropped = 0
}

// AddLight adds a point light to the buffer.
// Returns false if buffer is full.
func (b *PointLightBuffer) AddLight(light PointLight) bool {
	if len(b.Lights) >= MaxPointLights {
		b.Dropped++
		return false
	}
	b.Lights = append(b.Lights, light)
	return true
}

// SetLights replaces all lights in the buffer.
// Truncates to MaxPointLights if necessary.
func (b *PointLightBuffer) SetLights(lights []PointLight) {
	b.Clear()
	count := min(len(lights), MaxPointLights)
	b.Lights = append(b.Lights, lights[:count]...)
	b.Dropped = len(lights) - count
}

// PositionRanges returns lights as (x, y, z, range) for GPU upload.
// Format: [x0, y0, z0, r0, x1, y1, z1, r1, ...], zero padded to MaxPointLights.
func (b *PointLightBuffer) PositionRanges() []float32 {
	result := make([]float32, MaxPointLights*4)
	for i, light := range b.Lights {
		result[i*4+0] = light.Position.X
		result[i*4+1] = light.Position.Y
		result[i*4+2] = light.Position.Z
		result[i*4+3] = light.Range
	}
	return result
}

// Colors returns colors as a flat float32 slice for GPU upload.
// Format: [r0, g0, b0, r1, g1, b1, ...]
func (b *PointLightBuffer) Colors() []float32 {
	result := make([]float32, MaxPointLights*3)
	for i, light := range b.Lights {
		result[i*3+0] = light.Color.X
		result[i*3+1] = light.Color.Y
		result[i*3+2] = light.Color.Z
	}
	return result
}

// Intensities returns intensities as a flat float32 slice for GPU upload.
func (b *PointLightBuffer) Intensities() []float32 {
	result := make([]float32, MaxPointLights)
	for i, light := range b.Lights {
		result[i] = light.Intensity
	}
	return result
}
