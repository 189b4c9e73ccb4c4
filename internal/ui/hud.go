//go:build ebiten

package ui

import (
	"fmt"
	"image/color"
	"strings"

	"ffm/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the results panel to the right of the playback view.
type HUD struct {
	scene      core.Scene
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.ParameterSnapshot
	title      string
	status     string
	scroll     int
}

// NewHUD constructs a HUD for the scene, listing the values of snap.
func NewHUD(scene core.Scene, snap core.ParameterSnapshot, width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{scene: scene, width: width, snapshot: snap, title: buildTitle(scene)}
}

// Update refreshes the status line and handles scrolling.
func (h *HUD) Update(paused bool) {
	if h == nil {
		return
	}
	state := "running"
	if paused {
		state = "paused"
	}
	h.status = fmt.Sprintf("t = %d s  %s", h.scene.TimeStep(), state)
	_, dy := ebiten.Wheel()
	switch {
	case dy > 0 && h.scroll > 0:
		h.scroll--
	case dy < 0 && h.scroll < h.lines()-1:
		h.scroll++
	}
}

// Draw paints the HUD panel anchored to the right edge of the playback view.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := h.scene.Size().H * scale
	if height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dx() != h.width || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawLines(height)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func buildTitle(scene core.Scene) string {
	if scene == nil || scene.Name() == "" {
		return "Results"
	}
	return strings.ToUpper(scene.Name()) + " Results"
}

func (h *HUD) lines() int {
	n := 0
	for _, g := range h.snapshot.Groups {
		n += 1 + len(g.Params)
	}
	return n
}

func (h *HUD) drawLines(height int) {
	face := basicfont.Face7x13
	headerY := panelPadding + headerBaseline
	text.Draw(h.panel, h.title, face, panelPadding, headerY, titleColor)
	text.Draw(h.panel, h.status, face, panelPadding, headerY+lineHeight, dimColor)

	y := headerY + 2*lineHeight + groupGap
	skip := h.scroll
	for _, g := range h.snapshot.Groups {
		if skip > 0 {
			skip--
		} else {
			text.Draw(h.panel, g.Name, face, panelPadding, y, titleColor)
			y += lineHeight
		}
		for _, p := range g.Params {
			if skip > 0 {
				skip--
				continue
			}
			if y > height-panelPadding {
				return
			}
			value := p.Value
			if p.Unit != "" {
				value += " " + p.Unit
			}
			text.Draw(h.panel, p.Label, face, panelPadding+indent, y, labelColor)
			w := text.BoundString(face, value).Dx()
			text.Draw(h.panel, value, face, h.width-panelPadding-w, y, labelColor)
			y += lineHeight
		}
		y += groupGap
	}
}

var (
	titleColor = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelColor = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor   = color.RGBA{R: 160, G: 160, B: 170, A: 255}
)

const (
	panelPadding   = 12
	lineHeight     = 16
	groupGap       = 8
	indent         = 8
	headerBaseline = 18
)
