//go:build !ebiten

package ui

import "ffm/internal/playback"

// Layers is implemented by scenes whose drawing layers can be switched.
type Layers interface {
	Toggle(playback.Layer)
	Visible(playback.Layer) bool
}

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(Layers) *Overlay { return &Overlay{} }

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any) {}
