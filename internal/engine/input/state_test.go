package input_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/notanengine/internal/engine/input"
)

func TestMouseOffsetDrainsOnRead(t *testing.T) {
	s := input.NewState()
	s.MouseDelta(3, -2)
	s.MouseDelta(1, 1)

	dx, dy := s.MouseOffset()
	assert.Equal(t, float32(4), dx)
	assert.Equal(t, float32(-1), dy)

	dx, dy = s.MouseOffset()
	assert.Zero(t, dx)
	assert.Zero(t, dy)

	dx, dy = s.MouseOffset()
	assert.Zero(t, dx)
	assert.Zero(t, dy)
}

func TestScrollOffsetDrainsOnRead(t *testing.T) {
	s := input.NewState()
	s.Scrolled(1)
	s.Scrolled(2)

	assert.Equal(t, float32(3), s.ScrollOffset())
	assert.Zero(t, s.ScrollOffset())
	assert.Zero(t, s.ScrollOffset())
}

func TestFirstMouseMoveOnlySeeds(t *testing.T) {
	s := input.NewState()
	s.MouseMoved(400, 300)

	dx, dy := s.MouseOffset()
	assert.Zero(t, dx)
	assert.Zero(t, dy)

	s.MouseMoved(410, 295)
	dx, dy = s.MouseOffset()
	assert.Equal(t, float32(10), dx)
	assert.Equal(t, float32(-5), dy)
}

func TestReleasedCursorIgnoresMotion(t *testing.T) {
	s := input.NewState()
	s.MouseMoved(0, 0)
	s.MouseMoved(5, 5)
	s.SetCaptured(false)

	// Pending motion is dropped on release.
	dx, dy := s.MouseOffset()
	assert.Zero(t, dx)
	assert.Zero(t, dy)

	s.MouseMoved(100, 100)
	s.MouseDelta(7, 7)
	dx, dy = s.MouseOffset()
	assert.Zero(t, dx)
	assert.Zero(t, dy)
	assert.False(t, s.Captured())
}

func TestRecaptureRearmsFirstMouse(t *testing.T) {
	s := input.NewState()
	s.MouseMoved(0, 0)
	s.SetCaptured(false)
	s.SetCaptured(true)

	s.MouseMoved(500, 500)
	dx, dy := s.MouseOffset()
	assert.Zero(t, dx, "cursor travel while released must not reach the camera")
	assert.Zero(t, dy)

	s.MouseMoved(501, 500)
	dx, _ = s.MouseOffset()
	assert.Equal(t, float32(1), dx)
}

func TestPressedIsEdgeTriggered(t *testing.T) {
	s := input.NewState()
	s.KeyPressed(input.KeyToggleCursor)
	s.KeyPressed(input.KeyToggleCursor) // auto-repeat

	assert.True(t, s.Pressed(input.KeyToggleCursor))
	assert.False(t, s.Pressed(input.KeyToggleCursor))
	assert.True(t, s.Held(input.KeyToggleCursor))

	s.KeyReleased(input.KeyToggleCursor)
	assert.False(t, s.Held(input.KeyToggleCursor))

	s.SetHeld(input.KeyToggleCursor, true)
	assert.True(t, s.Pressed(input.KeyToggleCursor))
}

func TestQuitRequested(t *testing.T) {
	s := input.NewState()
	assert.False(t, s.QuitRequested())

	s.KeyPressed(input.KeyQuit)
	assert.True(t, s.QuitRequested())

	s = input.NewState()
	s.RequestQuit()
	assert.True(t, s.QuitRequested())
}

func TestOutOfRangeKeys(t *testing.T) {
	s := input.NewState()
	s.KeyPressed(input.Key(-1))
	s.KeyPressed(input.Key(99))

	assert.False(t, s.Held(input.Key(99)))
	assert.False(t, s.Pressed(input.Key(-1)))
	assert.Equal(t, "unknown", input.Key(99).String())
	assert.Equal(t, "forward", input.KeyForward.String())
}
