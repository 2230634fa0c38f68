// Package input turns window-system events into a per-frame input snapshot.
//
// Producers (the SDL poller, the imgui bridge) push key, mouse and scroll
// events into a State. Consumers (the camera, the frame loop) read it once
// per frame. Mouse and scroll deltas accumulate between reads and are
// drained by the read.
package input

// Key is an engine action, independent of the physical key bound to it.
type Key int

const (
	KeyForward Key = iota
	KeyBackward
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyQuit
	KeyToggleCursor
	KeyToggleWireframe
	KeyScreenshot

	keyCount
)

var keyNames = [keyCount]string{
	KeyForward:         "forward",
	KeyBackward:        "backward",
	KeyLeft:            "left",
	KeyRight:           "right",
	KeyUp:              "up",
	KeyDown:            "down",
	KeyQuit:            "quit",
	KeyToggleCursor:    "toggle-cursor",
	KeyToggleWireframe: "toggle-wireframe",
	KeyScreenshot:      "screenshot",
}

func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return "unknown"
	}
	return keyNames[k]
}

// State is the input snapshot shared by one producer and the frame loop.
// It is not safe for concurrent use; everything runs on the main thread.
type State struct {
	held    [keyCount]bool
	pressed [keyCount]bool

	mouseDX, mouseDY float32
	scroll           float32

	lastX, lastY float32
	firstMouse   bool
	captured     bool

	quit bool
}

// NewState returns a state with the cursor captured, matching the demo's
// startup where mouse look is active immediately.
func NewState() *State {
	s := &State{}
	s.SetCaptured(true)
	return s
}

// KeyPressed records a key going down. Auto-repeat is ignored so a held key
// yields exactly one Pressed edge.
func (s *State) KeyPressed(k Key) {
	if k < 0 || k >= keyCount {
		return
	}
	if !s.held[k] {
		s.pressed[k] = true
	}
	s.held[k] = true
}

// KeyReleased records a key going up.
func (s *State) KeyReleased(k Key) {
	if k < 0 || k >= keyCount {
		return
	}
	s.held[k] = false
}

// SetHeld sets the level state of a key directly, for producers that poll
// key state rather than deliver events.
func (s *State) SetHeld(k Key, down bool) {
	if down {
		s.KeyPressed(k)
	} else {
		s.KeyReleased(k)
	}
}

// Held reports whether k is currently down.
func (s *State) Held(k Key) bool {
	if k < 0 || k >= keyCount {
		return false
	}
	return s.held[k]
}

// Pressed reports whether k went down since the last call for k, and
// clears the edge.
func (s *State) Pressed(k Key) bool {
	if k < 0 || k >= keyCount {
		return false
	}
	p := s.pressed[k]
	s.pressed[k] = false
	return p
}

// MouseMoved feeds an absolute cursor position. The first position after
// capture only seeds the tracker. Positions are ignored while the cursor
// is not captured.
func (s *State) MouseMoved(x, y float32) {
	if !s.captured {
		return
	}
	if s.firstMouse {
		s.lastX, s.lastY = x, y
		s.firstMouse = false
		return
	}
	s.mouseDX += x - s.lastX
	s.mouseDY += y - s.lastY
	s.lastX, s.lastY = x, y
}

// MouseDelta feeds a relative motion, as reported in relative mouse mode.
// Y grows downward, in screen convention.
func (s *State) MouseDelta(dx, dy float32) {
	if !s.captured {
		return
	}
	s.mouseDX += dx
	s.mouseDY += dy
}

// Scrolled accumulates wheel motion; positive is away from the user.
func (s *State) Scrolled(dy float32) {
	s.scroll += dy
}

// MouseOffset returns the motion accumulated since the previous call and
// resets it to zero.
func (s *State) MouseOffset() (dx, dy float32) {
	dx, dy = s.mouseDX, s.mouseDY
	s.mouseDX, s.mouseDY = 0, 0
	return dx, dy
}

// ScrollOffset returns the wheel motion accumulated since the previous
// call and resets it to zero.
func (s *State) ScrollOffset() float32 {
	v := s.scroll
	s.scroll = 0
	return v
}

// SetCaptured switches mouse look on or off. Capturing again re-arms the
// first-move suppression so the camera does not jump to where the cursor
// wandered while released. Releasing discards pending motion.
func (s *State) SetCaptured(captured bool) {
	if captured && !s.captured {
		s.firstMouse = true
	}
	if !captured {
		s.mouseDX, s.mouseDY = 0, 0
	}
	s.captured = captured
}

// Captured reports whether mouse look is active.
func (s *State) Captured() bool { return s.captured }

// RequestQuit marks the session for shutdown (window close button).
func (s *State) RequestQuit() { s.quit = true }

// QuitRequested reports whether the window was closed or the quit key was
// pressed.
func (s *State) QuitRequested() bool {
	return s.quit || s.held[KeyQuit]
}
