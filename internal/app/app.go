//go:build ebiten

package app

import (
	"ffm/internal/core"
	"ffm/internal/playback"
	"ffm/internal/render"
	"ffm/internal/report"
	"ffm/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a playback scene to the ebiten.Game interface.
type Game struct {
	scene   *playback.Scene
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	pacer   *core.FixedStep

	scale    int
	hudWidth int
	sps      int
	paused   bool
	tickOnce bool
}

// New constructs a Game replaying scene.
func New(scene *playback.Scene, cfg *Config) *Game {
	size := scene.Size()
	return &Game{
		scene:    scene,
		painter:  render.NewGridPainter(size.W, size.H, render.Palette()),
		overlay:  ui.NewOverlay(scene),
		hud:      ui.NewHUD(scene, report.Snapshot(scene.Results()), cfg.HUDWidth),
		pacer:    core.NewFixedStep(cfg.SPS),
		scale:    cfg.Scale,
		hudWidth: cfg.HUDWidth,
		sps:      cfg.SPS,
	}
}

// Reset rewinds the replay.
func (g *Game) Reset() {
	g.scene.Reset()
	g.tickOnce = false
}

// Update handles per-frame logic and advances the replay.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.sps++
		g.pacer.SetRate(g.sps)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) && g.sps > 1 {
		g.sps--
		g.pacer.SetRate(g.sps)
	}

	g.overlay.Update()
	g.hud.Update(g.paused || g.scene.Done())

	due := g.pacer.ShouldStep()
	if (!g.paused && due) || g.tickOnce {
		g.scene.Step()
		g.tickOnce = false
	}
	return nil
}

// Draw renders the current replay state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.scene.Cells(), g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.scene.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.scene.Size()
	return s.W*g.scale + g.hudWidth, s.H * g.scale
}
