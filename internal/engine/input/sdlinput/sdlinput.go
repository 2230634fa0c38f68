// Package sdlinput feeds SDL events into an input.State.
package sdlinput

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/notanengine/internal/engine/input"
)

// DefaultBindings maps physical keys to engine actions.
var DefaultBindings = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_W:      input.KeyForward,
	sdl.SCANCODE_S:      input.KeyBackward,
	sdl.SCANCODE_A:      input.KeyLeft,
	sdl.SCANCODE_D:      input.KeyRight,
	sdl.SCANCODE_SPACE:  input.KeyUp,
	sdl.SCANCODE_LSHIFT: input.KeyDown,
	sdl.SCANCODE_ESCAPE: input.KeyQuit,
	sdl.SCANCODE_TAB:    input.KeyToggleCursor,
	sdl.SCANCODE_P:      input.KeyToggleWireframe,
	sdl.SCANCODE_F12:    input.KeyScreenshot,
}

// PollResult reports window events the frame loop must react to.
type PollResult struct {
	Resized       bool
	Width, Height int
}

// Poller drains the SDL event queue into a State.
type Poller struct {
	bindings map[sdl.Scancode]input.Key
}

// NewPoller returns a poller using the given bindings, or
// DefaultBindings when nil.
func NewPoller(bindings map[sdl.Scancode]input.Key) *Poller {
	if bindings == nil {
		bindings = DefaultBindings
	}
	return &Poller{bindings: bindings}
}

// Poll handles every pending SDL event without blocking.
func (p *Poller) Poll(s *input.State) PollResult {
	var res PollResult

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			s.RequestQuit()

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
				res.Resized = true
				res.Width, res.Height = int(e.Data1), int(e.Data2)
			case sdl.WINDOWEVENT_CLOSE:
				s.RequestQuit()
			}

		case *sdl.KeyboardEvent:
			key, ok := p.bindings[e.Keysym.Scancode]
			if !ok {
				continue
			}
			if e.Type == sdl.KEYDOWN {
				s.KeyPressed(key)
			} else if e.Type == sdl.KEYUP {
				s.KeyReleased(key)
			}

		case *sdl.MouseMotionEvent:
			s.MouseDelta(float32(e.XRel), float32(e.YRel))

		case *sdl.MouseWheelEvent:
			s.Scrolled(float32(e.Y))
		}
	}

	return res
}
