// Package ui hosts the Dear ImGui debug overlay: the cimgui-go SDL backend,
// the property panels and the bridge that feeds imgui input into the
// engine's input state.
package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/notanengine/internal/engine/gpu"
)

// Backend wraps the ImGui SDL backend. The backend owns the window, the GL
// context and the frame loop.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	api     *gpu.GL
	log     *zap.Logger
}

// NewBackend creates the window and loads OpenGL for it.
func NewBackend(title string, width, height int, log *zap.Logger) (*Backend, error) {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Backend{log: log}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	b.backend.SetAfterCreateContextHook(func() {
		imgui.StyleColorsDark()
	})

	b.backend.SetBgColor(imgui.NewVec4(0, 0, 0, 1))
	b.backend.CreateWindow(title, width, height)

	b.api, err = gpu.InitGL(log)
	if err != nil {
		return nil, fmt.Errorf("init opengl: %w", err)
	}

	log.Info("imgui backend ready", zap.String("title", title), zap.Int("width", width), zap.Int("height", height))
	return b, nil
}

// GPU returns the OpenGL implementation bound to the backend's context.
func (b *Backend) GPU() *gpu.GL { return b.api }

// Run starts the main render loop. renderFunc runs once per frame between
// imgui's NewFrame and Render.
func (b *Backend) Run(renderFunc func()) {
	b.backend.Run(renderFunc)
}

// OnShutdown registers fn to run while the GL context still exists, right
// before the backend tears it down.
func (b *Backend) OnShutdown(fn func()) {
	b.backend.SetBeforeDestroyContextHook(fn)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// DisplaySize returns the current window size. Only valid inside a frame.
func (b *Backend) DisplaySize() (int32, int32) {
	size := imgui.CurrentIO().DisplaySize()
	return int32(size.X), int32(size.Y)
}

// Quit asks the loop to stop after the current frame.
func (b *Backend) Quit() {
	b.backend.SetShouldClose(true)
}

// Viewport returns the main viewport work area Background fills.
func Viewport() (posX, posY, width, height float32) {
	viewport := imgui.MainViewport()
	workPos := viewport.WorkPos()
	workSize := viewport.WorkSize()
	return workPos.X, workPos.Y, workSize.X, workSize.Y
}
