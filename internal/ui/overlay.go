//go:build ebiten

package ui

import (
	"image/color"

	"ffm/internal/playback"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Layers is implemented by scenes whose drawing layers can be switched.
type Layers interface {
	Toggle(playback.Layer)
	Visible(playback.Layer) bool
}

var layerKeys = []struct {
	key   ebiten.Key
	layer playback.Layer
	label string
}{
	{ebiten.KeyDigit1, playback.LayerCrowns, "1 crowns"},
	{ebiten.KeyDigit2, playback.LayerPlantPaths, "2 plant paths"},
	{ebiten.KeyDigit3, playback.LayerStratumPaths, "3 stratum paths"},
	{ebiten.KeyDigit4, playback.LayerFlames, "4 flames"},
}

// Overlay switches playback layers from the keyboard and shows which are on.
type Overlay struct {
	layers   Layers
	showKeys bool
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(layers Layers) *Overlay {
	return &Overlay{layers: layers, showKeys: true}
}

// Update handles the layer keys. H hides the legend.
func (o *Overlay) Update() {
	if o.layers == nil {
		return
	}
	for _, lk := range layerKeys {
		if inpututil.IsKeyJustPressed(lk.key) {
			o.layers.Toggle(lk.layer)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		o.showKeys = !o.showKeys
	}
}

// Draw renders the legend onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if o.layers == nil || !o.showKeys {
		return
	}
	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	for _, lk := range layerKeys {
		c := color.RGBA{R: 120, G: 120, B: 130, A: 255}
		if o.layers.Visible(lk.layer) {
			c = color.RGBA{R: 240, G: 240, B: 240, A: 255}
		}
		text.Draw(screen, lk.label, face, panelPadding, y, c)
		y += lineHeight
	}
}
