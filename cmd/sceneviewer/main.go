// Scene Viewer - the NotAnEngine demo scene with Dear ImGui debug panels.
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/notanengine/internal/config"
	"github.com/Faultbox/notanengine/internal/engine/debug"
	"github.com/Faultbox/notanengine/internal/engine/framebuffer"
	"github.com/Faultbox/notanengine/internal/engine/input"
	"github.com/Faultbox/notanengine/internal/engine/picking"
	"github.com/Faultbox/notanengine/internal/engine/scene"
	"github.com/Faultbox/notanengine/internal/engine/ui"
	"github.com/Faultbox/notanengine/internal/logger"
)

// The viewer links SDL only through cimgui-go, so it keeps its own title
// instead of importing the window package.
const title = "NotAnEngine Scene Viewer"

func main() {
	runtime.LockOSThread()

	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== NotAnEngine Scene Viewer ===")

	app, err := NewApp(cfg)
	if err != nil {
		logger.Fatal("failed to start viewer", zap.Error(err))
	}
	app.Run()

	logger.Info("viewer closed normally")
}

// App is the viewer state shared across frames.
type App struct {
	cfg     *config.Config
	log     *zap.Logger
	backend *ui.Backend

	scene *scene.Scene
	fb    *framebuffer.Framebuffer

	input       *input.State
	feed        *ui.ImGuiInput
	history     *ui.FrameHistory
	projection  ui.Projection
	screenshots *debug.Screenshots

	lastTime   time.Time
	selected   string
	showUI     bool
	lit        bool
	statusMsg  string
	statusTime time.Time
}

// NewApp creates the window, the offscreen target and the scene.
func NewApp(cfg *config.Config) (*App, error) {
	log := logger.Named("viewer")
	app := &App{
		cfg:         cfg,
		log:         log,
		input:       input.NewState(),
		feed:        ui.NewImGuiInput(nil),
		history:     ui.NewFrameHistory(120),
		screenshots: debug.NewScreenshots(cfg.Debug.ScreenshotDir, "sceneviewer"),
		showUI:      cfg.Debug.ShowUI,
		lit:         true,
	}
	// Panels need the cursor; Tab hands it back to mouse look.
	app.input.SetCaptured(false)

	var err error
	app.backend, err = ui.NewBackend(title, cfg.Graphics.Width, cfg.Graphics.Height, log.Named("ui"))
	if err != nil {
		return nil, err
	}

	app.fb, err = framebuffer.New(int32(cfg.Graphics.Width), int32(cfg.Graphics.Height))
	if err != nil {
		return nil, err
	}

	app.scene, err = scene.New(app.backend.GPU(), scene.FromConfig(cfg, log.Named("scene")))
	if err != nil {
		app.fb.Destroy()
		return nil, err
	}
	app.projection = ui.Projection{Near: app.scene.Near, Far: app.scene.Far}

	app.backend.OnShutdown(app.Close)
	return app, nil
}

// Run starts the main application loop.
func (app *App) Run() {
	app.lastTime = time.Now()
	app.backend.Run(app.render)
}

// Close frees GPU resources while the context is still alive.
func (app *App) Close() {
	if app.scene != nil {
		app.scene.Release()
		app.scene = nil
	}
	if app.fb != nil {
		app.fb.Destroy()
		app.fb = nil
	}
}

func (app *App) render() {
	now := time.Now()
	dt := float32(now.Sub(app.lastTime).Seconds())
	app.lastTime = now

	app.feed.Feed(app.input)
	if app.input.Pressed(input.KeyQuit) {
		app.backend.Quit()
	}

	w, h := app.backend.DisplaySize()
	if fw, fh := app.fb.Size(); w > 0 && h > 0 && (fw != w || fh != h) {
		app.fb.Resize(w, h)
		app.scene.Resize(int(w), int(h))
	}

	app.scene.Near, app.scene.Far = app.projection.Near, app.projection.Far

	app.fb.Bind()
	app.scene.Frame(dt, app.input)
	if app.input.Pressed(input.KeyScreenshot) {
		app.screenshot()
	}
	app.fb.Unbind()

	ui.Background(app.fb.ColorTexture())
	app.handlePick(float32(w), float32(h))

	if !app.showUI {
		return
	}
	ui.FrameStats(dt, app.history, app.scene.Renderer().Stats())
	ui.EntityProperties(app.scene.Entities(), app.selected)
	ui.DirectionalLightProperties(app.scene.DirLight)
	ui.CameraProperties(app.scene.Camera, &app.projection)
	ui.RendererProperties(app.scene.Renderer())
	app.renderScenePanel()
}

func (app *App) renderScenePanel() {
	if !imgui.BeginV("Scene", nil, imgui.WindowFlagsAlwaysAutoResize) {
		imgui.End()
		return
	}

	if imgui.Checkbox("Lighting", &app.lit) {
		app.scene.SetLit(app.lit)
	}
	imgui.TextDisabled("Tab: mouse look  P: wireframe  F12: screenshot  Click: select")

	if imgui.Button("Screenshot") {
		app.screenshot()
	}
	imgui.SameLine()
	if imgui.Button("Save settings") {
		app.saveSettings()
	}

	if app.statusMsg != "" && time.Since(app.statusTime) < 3*time.Second {
		imgui.TextWrapped(app.statusMsg)
	}
	imgui.End()
}

// handlePick selects the entity under a left click on the scene.
func (app *App) handlePick(width, height float32) {
	if app.input.Captured() || imgui.CurrentIO().WantCaptureMouse() {
		return
	}
	if !imgui.IsMouseClickedBool(imgui.MouseButtonLeft) {
		return
	}
	pos := imgui.MousePos()
	name, ok := picking.PickScreen(pos.X, pos.Y, width, height,
		app.scene.Camera.ViewMatrix(), app.scene.Projection(), app.scene.Entities())
	if !ok {
		name = ""
	}
	if name == app.selected {
		return
	}
	app.selected = name
	t := title
	if name != "" {
		t += " - " + name
		app.log.Debug("entity picked", zap.String("name", name))
	}
	app.backend.SetWindowTitle(t)
}

func (app *App) screenshot() {
	w, h := app.fb.Size()
	path, err := app.screenshots.SavePixels(app.fb.ReadPixels(), int(w), int(h))
	if err != nil {
		app.log.Warn("screenshot failed", zap.Error(err))
		app.status("Screenshot failed: " + err.Error())
		return
	}
	app.log.Info("screenshot saved", zap.String("path", path))
	app.status("Saved " + path)
}

func (app *App) saveSettings() {
	cam := app.scene.Camera
	app.cfg.Camera.Speed = cam.Speed
	app.cfg.Camera.Sensitivity = cam.Sensitivity
	app.cfg.Camera.FOV = cam.FOV()
	app.cfg.Camera.Near = app.projection.Near
	app.cfg.Camera.Far = app.projection.Far
	app.cfg.Graphics.Wireframe = app.scene.Renderer().Wireframe()

	if err := app.cfg.Save(); err != nil {
		app.log.Warn("saving settings failed", zap.Error(err))
		app.status("Save failed: " + err.Error())
		return
	}
	app.log.Info("settings saved", zap.String("path", app.cfg.Path()))
	app.status("Saved " + app.cfg.Path())
}

func (app *App) status(msg string) {
	app.statusMsg = msg
	app.statusTime = time.Now()
}
