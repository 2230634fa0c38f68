// Package main runs the NotAnEngine demo in a plain SDL window.
package main

import (
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/notanengine/internal/config"
	"github.com/Faultbox/notanengine/internal/game"
	"github.com/Faultbox/notanengine/internal/logger"
)

// SDL and OpenGL calls must stay on the main OS thread.
func init() { runtime.LockOSThread() }

func main() {
	// Parse CLI flags first
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

	logger.Info("=== NotAnEngine ===")
	logger.Debug("config loaded", zap.Any("config", cfg))

	g, err := game.New(cfg, logger.Named("game"))
	if err != nil {
		logger.Fatal("failed to create game", zap.Error(err))
	}
	defer g.Close()

	if err := g.Run(); err != nil {
		logger.Error("game error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("game closed normally")
}
