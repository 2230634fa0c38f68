// Package game runs the demo on a bare SDL window: poll input, update,
// draw, present.
package game

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/notanengine/internal/config"
	"github.com/Faultbox/notanengine/internal/engine/debug"
	"github.com/Faultbox/notanengine/internal/engine/framebuffer"
	"github.com/Faultbox/notanengine/internal/engine/gpu"
	"github.com/Faultbox/notanengine/internal/engine/input"
	"github.com/Faultbox/notanengine/internal/engine/input/sdlinput"
	"github.com/Faultbox/notanengine/internal/engine/scene"
	"github.com/Faultbox/notanengine/internal/engine/window"
)

// Game is the main demo instance.
type Game struct {
	config      *config.Config
	log         *zap.Logger
	running     bool
	window      *window.Window
	scene       *scene.Scene
	input       *input.State
	poller      *sdlinput.Poller
	screenshots *debug.Screenshots
}

// New opens the window, loads OpenGL and builds the scene.
func New(cfg *config.Config, log *zap.Logger) (*Game, error) {
	log.Info("initializing game",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	g := &Game{
		config:      cfg,
		log:         log,
		input:       input.NewState(),
		poller:      sdlinput.NewPoller(nil),
		screenshots: debug.NewScreenshots(cfg.Debug.ScreenshotDir, "notanengine"),
	}

	// Window first: the GL context must exist before anything touches the GPU.
	var err error
	g.window, err = window.New(window.Config{
		Title:      window.Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Logger:     log.Named("window"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	api, err := gpu.InitGL(log.Named("gpu"))
	if err != nil {
		g.window.Close()
		return nil, err
	}

	sc := scene.FromConfig(cfg, log.Named("scene"))
	sc.Width, sc.Height = g.window.Size()
	g.scene, err = scene.New(api, sc)
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}

	g.window.SetRelativeMouse(g.input.Captured())

	log.Info("game initialized successfully")
	return g, nil
}

// Run starts the main loop and returns when the window closes or Esc is
// pressed.
func (g *Game) Run() error {
	g.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	g.log.Info("starting game loop")

	for g.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		res := g.poller.Poll(g.input)
		if g.input.QuitRequested() {
			g.running = false
			break
		}
		if res.Resized {
			g.scene.Resize(g.window.Size())
		}

		g.scene.Frame(dt, g.input)
		if captured := g.input.Captured(); captured != g.window.RelativeMouse() {
			g.window.SetRelativeMouse(captured)
		}

		if g.input.Pressed(input.KeyScreenshot) {
			g.screenshot()
		}

		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			stats := g.scene.Renderer().Stats()
			g.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Float32("dt_ms", dt*1000),
				zap.Int("draw_calls", stats.DrawCalls),
			)
			g.window.SetTitle(fmt.Sprintf("%s - %d FPS", window.Title, frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (g *Game) screenshot() {
	w, h := g.window.Size()
	path, err := g.screenshots.SavePixels(framebuffer.ReadScreen(int32(w), int32(h)), w, h)
	if err != nil {
		g.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases the scene's GPU resources and the window.
func (g *Game) Close() {
	g.log.Info("closing game")

	if g.scene != nil {
		g.scene.Release()
	}
	if g.window != nil {
		g.window.Close()
	}
}
