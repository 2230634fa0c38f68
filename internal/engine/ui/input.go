package ui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/notanengine/internal/engine/input"
)

// DefaultBindings maps imgui keys to engine actions, mirroring
// sdlinput.DefaultBindings for the SDL poller.
var DefaultBindings = map[imgui.Key]input.Key{
	imgui.KeyW:         input.KeyForward,
	imgui.KeyS:         input.KeyBackward,
	imgui.KeyA:         input.KeyLeft,
	imgui.KeyD:         input.KeyRight,
	imgui.KeySpace:     input.KeyUp,
	imgui.KeyLeftShift: input.KeyDown,
	imgui.KeyEscape:    input.KeyQuit,
	imgui.KeyTab:       input.KeyToggleCursor,
	imgui.KeyP:         input.KeyToggleWireframe,
	imgui.KeyF12:       input.KeyScreenshot,
}

// ImGuiInput feeds an input.State from imgui's IO when imgui owns the
// window and its event queue.
type ImGuiInput struct {
	bindings map[imgui.Key]input.Key
}

// NewImGuiInput returns a producer using bindings, or DefaultBindings when
// nil.
func NewImGuiInput(bindings map[imgui.Key]input.Key) *ImGuiInput {
	if bindings == nil {
		bindings = DefaultBindings
	}
	return &ImGuiInput{bindings: bindings}
}

// Feed copies this frame's keys, mouse motion and wheel into s. Input that
// imgui wants for its own widgets is withheld.
func (p *ImGuiInput) Feed(s *input.State) {
	io := imgui.CurrentIO()

	typing := io.WantTextInput()
	for key, action := range p.bindings {
		s.SetHeld(action, !typing && imgui.IsKeyDown(key))
	}

	if io.WantCaptureMouse() && !s.Captured() {
		return
	}
	pos := imgui.MousePos()
	s.MouseMoved(pos.X, pos.Y)
	if wheel := io.MouseWheel(); wheel != 0 {
		s.Scrolled(wheel)
	}
	if s.Captured() {
		imgui.SetMouseCursor(imgui.MouseCursorNone)
	}
}
