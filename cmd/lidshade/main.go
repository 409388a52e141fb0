// Package main is the interactive culling harness: a window, a camera driven
// by keyboard and mouse, and per-second culling stats in the title bar.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/lidshade/internal/app"
	"github.com/Faultbox/lidshade/internal/config"
	"github.com/Faultbox/lidshade/internal/engine/input"
	"github.com/Faultbox/lidshade/internal/engine/window"
	"github.com/Faultbox/lidshade/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	opts := logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Console: true}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithOptions(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== lidshade ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("harness error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("closed normally")
}

func run(cfg *config.Config) error {
	win, err := window.New(window.Config{
		Title:         cfg.Window.Title,
		Width:         cfg.Window.Width,
		Height:        cfg.Window.Height,
		Fullscreen:    cfg.Window.Fullscreen,
		RelativeMouse: cfg.Window.RelativeMouse,
	})
	if err != nil {
		return fmt.Errorf("window: %w", err)
	}
	defer win.Close()

	a, err := app.New(cfg, win.Aspect())
	if err != nil {
		return err
	}

	in := input.New()
	in.AlwaysLook = cfg.Window.RelativeMouse

	var budget time.Duration
	if cfg.Window.FPSLimit > 0 {
		budget = time.Second / time.Duration(cfg.Window.FPSLimit)
	}

	ctx := context.Background()
	lastTime := time.Now()
	statsTimer := lastTime

	for {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		frame := in.Poll(dt)
		if frame.Quit {
			return nil
		}
		if _, err := a.Frame(ctx, frame); err != nil {
			return err
		}

		if time.Since(statsTimer) >= time.Second {
			s := a.FlushStats()
			win.SetTitle(fmt.Sprintf("%s - %s", cfg.Window.Title, s))
			statsTimer = time.Now()
		}

		if spent := time.Since(now); spent < budget {
			time.Sleep(budget - spent)
		}
	}
}
