package control

import (
	"github.com/charmbracelet/harmonica"

	"github.com/Faultbox/lidshade/pkg/math"
)

// spring1 is one critically damped axis.
type spring1 struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
}

func (s *spring1) step(target float64) float64 {
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, target)
	return s.pos
}

func (s *spring1) settled(target float64) bool {
	const eps = 1e-3
	d := s.pos - target
	return d > -eps && d < eps && s.vel > -eps && s.vel < eps
}

// Smoother eases a 2D signal, such as mouse deltas, toward its target with a
// damped spring running at a fixed frame rate.
type Smoother struct {
	x, y spring1
}

// NewSmoother returns a smoother stepping at fps with the given angular
// frequency and damping ratio. Damping 1 is critically damped.
func NewSmoother(fps int, frequency, damping float64) *Smoother {
	sp := harmonicaSpring(fps, frequency, damping)
	return &Smoother{
		x: spring1{spring: sp},
		y: spring1{spring: sp},
	}
}

// Update advances one frame toward target and returns the eased value.
func (s *Smoother) Update(target math.Vec2) math.Vec2 {
	return math.Vec2{
		X: float32(s.x.step(float64(target.X))),
		Y: float32(s.y.step(float64(target.Y))),
	}
}

// Reset drops accumulated motion.
func (s *Smoother) Reset() {
	s.x.pos, s.x.vel = 0, 0
	s.y.pos, s.y.vel = 0, 0
}

func harmonicaSpring(fps int, frequency, damping float64) harmonica.Spring {
	return harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)
}
