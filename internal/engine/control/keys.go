// Package control turns per-frame input into camera motion. It knows nothing
// about the windowing backend; see internal/engine/input for the SDL side.
package control

import (
	"strings"

	"github.com/Faultbox/lidshade/pkg/math"
)

// Key is a backend-independent key code.
type Key uint8

const (
	KeyNone Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyShift
	KeyF   // toggle fly mode
	KeyTab // toggle free/orbit
	KeyR   // reset orientation
	KeyEscape
	keyCount
)

var keyNames = [keyCount]string{
	"none", "w", "a", "s", "d", "q", "e",
	"left", "right", "up", "down", "shift", "f", "tab", "r", "escape",
}

func (k Key) String() string {
	if k >= keyCount {
		return "unknown"
	}
	return keyNames[k]
}

// KeySet is a bitset of keys.
type KeySet uint32

// Add returns s with k set.
func (s KeySet) Add(k Key) KeySet { return s | 1<<k }

// Remove returns s with k cleared.
func (s KeySet) Remove(k Key) KeySet { return s &^ (1 << k) }

// Has reports whether k is in s.
func (s KeySet) Has(k Key) bool { return k != KeyNone && s&(1<<k) != 0 }

func (s KeySet) String() string {
	var names []string
	for k := KeyW; k < keyCount; k++ {
		if s.Has(k) {
			names = append(names, k.String())
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "+")
}

// FrameInput is everything the controller needs from one frame.
type FrameInput struct {
	// Held keys at the end of the frame.
	Keys KeySet
	// Pressed holds keys that went down during the frame.
	Pressed KeySet
	// MouseDelta is relative pointer motion in pixels, +Y down.
	MouseDelta math.Vec2
	// Scroll is wheel motion, positive away from the user.
	Scroll float32
	// DT is the frame time in seconds.
	DT float32

	Quit          bool
	Resized       bool
	Width, Height int
}
