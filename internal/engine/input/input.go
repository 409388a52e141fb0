// Package input pumps SDL2 events into control.FrameInput.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/lidshade/internal/engine/control"
)

// keymap translates the scancodes the camera cares about.
var keymap = map[sdl.Scancode]control.Key{
	sdl.SCANCODE_W:      control.KeyW,
	sdl.SCANCODE_A:      control.KeyA,
	sdl.SCANCODE_S:      control.KeyS,
	sdl.SCANCODE_D:      control.KeyD,
	sdl.SCANCODE_Q:      control.KeyQ,
	sdl.SCANCODE_E:      control.KeyE,
	sdl.SCANCODE_LEFT:   control.KeyLeft,
	sdl.SCANCODE_RIGHT:  control.KeyRight,
	sdl.SCANCODE_UP:     control.KeyUp,
	sdl.SCANCODE_DOWN:   control.KeyDown,
	sdl.SCANCODE_LSHIFT: control.KeyShift,
	sdl.SCANCODE_RSHIFT: control.KeyShift,
	sdl.SCANCODE_F:      control.KeyF,
	sdl.SCANCODE_TAB:    control.KeyTab,
	sdl.SCANCODE_R:      control.KeyR,
	sdl.SCANCODE_ESCAPE: control.KeyEscape,
}

// Input tracks held keys across frames.
type Input struct {
	held    control.KeySet
	looking bool // right button down

	// AlwaysLook reports mouse motion without the right button held.
	AlwaysLook bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{}
}

// Poll drains the SDL queue and returns the frame's input. dt is passed
// through to the result.
func (i *Input) Poll(dt float32) control.FrameInput {
	in := control.FrameInput{DT: dt}

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			in.Quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				in.Resized = true
				in.Width = int(e.Data1)
				in.Height = int(e.Data2)
			}

		case *sdl.KeyboardEvent:
			k, ok := keymap[e.Keysym.Scancode]
			if !ok {
				continue
			}
			if e.Type == sdl.KEYDOWN {
				if e.Repeat == 0 {
					in.Pressed = in.Pressed.Add(k)
				}
				i.held = i.held.Add(k)
			} else if e.Type == sdl.KEYUP {
				i.held = i.held.Remove(k)
			}

		case *sdl.MouseMotionEvent:
			if i.looking || i.AlwaysLook {
				in.MouseDelta.X += float32(e.XRel)
				in.MouseDelta.Y += float32(e.YRel)
			}

		case *sdl.MouseButtonEvent:
			if e.Button == sdl.BUTTON_RIGHT {
				i.looking = e.Type == sdl.MOUSEBUTTONDOWN
			}

		case *sdl.MouseWheelEvent:
			in.Scroll += float32(e.Y)
		}
	}

	in.Keys = i.held
	if in.Pressed.Has(control.KeyEscape) {
		in.Quit = true
	}
	return in
}

// Held returns the keys currently down.
func (i *Input) Held() control.KeySet {
	return i.held
}
