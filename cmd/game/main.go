package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"

	"nullsector/internal/commons/env_config"
	"nullsector/internal/commons/logger_config"
	"nullsector/internal/game"
	"nullsector/internal/spectate"
)

func main() {
	if err := env_config.LoadDotEnv(); err != nil {
		logger_config.Warnf("[env] %v", err)
	}
	settings := env_config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ebiten.SetWindowSize(960, 540)
	ebiten.SetWindowTitle("NULL SECTOR")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := game.New(settings)
	defer g.Close()

	if settings.SpectateAddr != "" {
		hub := spectate.NewHub()
		g.AttachHub(hub)
		go func() {
			if err := spectate.Serve(ctx, settings.SpectateAddr, hub); err != nil {
				logger_config.Errorf("[spectate] %v", err)
			}
		}()
	}

	if err := ebiten.RunGame(g); err != nil {
		logger_config.Errorf("run game: %v", err)
	}
}
