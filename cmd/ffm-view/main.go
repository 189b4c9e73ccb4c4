//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"ffm/internal/app"
	"ffm/internal/playback"
	"ffm/internal/scenario"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if cfg.In == "" {
		log.Fatal("missing -in scenario file")
	}
	sc, err := scenario.Load(cfg.In)
	if err != nil {
		log.Fatal(err)
	}
	loc, err := sc.Location(nil)
	if err != nil {
		log.Fatal(err)
	}

	scene := playback.New(loc, loc.Results(), playback.Config{Width: cfg.Width, MaxRange: cfg.Range, Run: cfg.Run})
	game := app.New(scene, cfg)
	size := scene.Size()

	ebiten.SetWindowTitle("ffm - " + cfg.In)
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+cfg.HUDWidth, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
