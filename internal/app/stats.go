package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Stats accumulates frame results between resets.
type Stats struct {
	Frames        int
	Objects       int // as of the last frame
	Visible       int
	Intersecting  int
	Lights        int // as of the last frame
	VisibleLights int
	DroppedLights int
	Casters       int
	Busy          time.Duration
}

func (s *Stats) record(f Frame, objects, lights, dropped int, busy time.Duration) {
	s.Frames++
	s.Objects = objects
	s.Visible += len(f.Boxes.Visible)
	s.Intersecting += len(f.Boxes.Intersecting)
	s.Lights = lights
	s.VisibleLights += len(f.Lights)
	s.DroppedLights += dropped
	s.Casters += len(f.Casters)
	s.Busy += busy
}

// AvgVisible is the mean number of visible objects per frame.
func (s Stats) AvgVisible() float64 {
	if s.Frames == 0 {
		return 0
	}
	return float64(s.Visible) / float64(s.Frames)
}

// AvgVisibleLights is the mean number of visible lights per frame.
func (s Stats) AvgVisibleLights() float64 {
	if s.Frames == 0 {
		return 0
	}
	return float64(s.VisibleLights) / float64(s.Frames)
}

func (s Stats) String() string {
	return fmt.Sprintf("%d frames, %.1f/%d objects, %.1f/%d lights",
		s.Frames, s.AvgVisible(), s.Objects, s.AvgVisibleLights(), s.Lights)
}

// MarshalLogObject lets Stats be logged with zap.Object.
func (s Stats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("frames", s.Frames)
	enc.AddInt("objects", s.Objects)
	enc.AddFloat64("avg_visible", s.AvgVisible())
	enc.AddInt("intersecting", s.Intersecting)
	enc.AddInt("lights", s.Lights)
	enc.AddFloat64("avg_visible_lights", s.AvgVisibleLights())
	enc.AddInt("dropped_lights", s.DroppedLights)
	enc.AddInt("casters", s.Casters)
	enc.AddDuration("busy", s.Busy)
	return nil
}

// Stats returns the accumulated stats.
func (a *App) Stats() Stats { return a.stats }

// FlushStats logs the accumulated stats at debug level, resets them and
// returns what was logged.
func (a *App) FlushStats() Stats {
	s := a.stats
	a.stats = Stats{}
	a.log.Debug("frame stats", zap.Object("stats", s))
	return s
}
