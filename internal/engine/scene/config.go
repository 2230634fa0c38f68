package scene

import (
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/notanengine/internal/assets"
	"github.com/Faultbox/notanengine/internal/config"
)

// FromConfig maps the user settings onto a scene Config. An empty assets
// root is searched for upward from the working directory; when none is
// found the scene still starts with built-in shaders and placeholder
// textures.
func FromConfig(cfg *config.Config, log *zap.Logger) Config {
	if log == nil {
		log = zap.NewNop()
	}

	root := cfg.Assets.Root
	if root == "" {
		wd, err := os.Getwd()
		if err == nil {
			root, err = assets.Locate(wd)
		}
		if err != nil {
			log.Warn("assets folder not found, using built-in resources", zap.Error(err))
			root = ""
		}
	}
	log.Info("assets root", zap.String("path", root))

	g, c := cfg.Graphics, cfg.Camera
	return Config{
		Width:             g.Width,
		Height:            g.Height,
		CameraPosition:    mgl32.Vec3(c.Position),
		CameraSpeed:       c.Speed,
		CameraSensitivity: c.Sensitivity,
		FOV:               c.FOV,
		Near:              c.Near,
		Far:               c.Far,
		ClearColor:        mgl32.Vec4(g.ClearColor),
		Wireframe:         g.Wireframe,
		CheckErrors:       cfg.Debug.CheckGLErrors,
		WatchShaders:      cfg.Assets.WatchShaders,
		Assets: assets.Options{
			Root:         root,
			FlipTextures: cfg.Assets.FlipTextures,
		},
		Logger: log,
	}
}
