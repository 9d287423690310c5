package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/smasonuk/gobatch3d"
)

func main() {
	configPath := flag.String("config", "", "TOML scene file; the built-in scene when empty")
	flag.Parse()

	cfg := gobatch3d.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = gobatch3d.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	game, err := gobatch3d.NewGame(cfg)
	if err != nil {
		log.Fatalf("Error building scene: %v", err)
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	if cfg.Window.TPS > 0 {
		ebiten.SetTPS(cfg.Window.TPS)
	}
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
