// Package config loads engine settings from defaults, a YAML file and CLI flags.
package config

// Config holds all engine settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Camera   CameraConfig   `yaml:"camera"`
	Assets   AssetsConfig   `yaml:"assets"`
	Debug    DebugConfig    `yaml:"debug"`
	Logging  LoggingConfig  `yaml:"logging"`

	// path is the file Load read, if any. Save writes back to it.
	path string
}

// GraphicsConfig holds window and rasterizer settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	Wireframe  bool       `yaml:"wireframe"`
	ClearColor [4]float32 `yaml:"clear_color"`
}

// CameraConfig holds the free-look camera's starting state and projection planes.
type CameraConfig struct {
	Position    [3]float32 `yaml:"position"`
	Speed       float32    `yaml:"speed"`
	Sensitivity float32    `yaml:"sensitivity"`
	FOV         float32    `yaml:"fov"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
}

// AssetsConfig controls where resources are found and how they are loaded.
type AssetsConfig struct {
	// Root is the assets directory. Empty means search upward from the
	// working directory for a folder named "assets".
	Root         string `yaml:"root"`
	FlipTextures bool   `yaml:"flip_textures"`
	WatchShaders bool   `yaml:"watch_shaders"`
}

// DebugConfig toggles developer overlays.
type DebugConfig struct {
	ShowUI        bool   `yaml:"show_ui"`
	CheckGLErrors bool   `yaml:"check_gl_errors"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns the settings the demo ships with.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			VSync:      true,
			ClearColor: [4]float32{0, 0, 0, 1},
		},
		Camera: CameraConfig{
			Position:    [3]float32{0, 0, 3},
			Speed:       1,
			Sensitivity: 1,
			FOV:         45,
			Near:        0.1,
			Far:         100,
		},
		Assets: AssetsConfig{
			FlipTextures: true,
		},
		Debug: DebugConfig{
			ShowUI:        true,
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
