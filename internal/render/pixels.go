package render

import (
	"image/color"

	"ffm/internal/playback"
	"ffm/internal/plant"
)

// Palette returns one colour per playback cell value.
func Palette() []color.RGBA {
	p := make([]color.RGBA, playback.NumCells)
	p[playback.CellEmpty] = color.RGBA{R: 12, G: 14, B: 22, A: 255}
	p[playback.CellGround] = color.RGBA{R: 96, G: 72, B: 48, A: 255}
	p[playback.CellIgnited] = color.RGBA{R: 255, G: 214, B: 64, A: 255}
	p[playback.CellBurnt] = color.RGBA{R: 58, G: 52, B: 50, A: 255}
	p[playback.CellFlame] = color.RGBA{R: 255, G: 96, B: 24, A: 255}
	crowns := map[plant.Level]color.RGBA{
		plant.Surface:     {R: 120, G: 110, B: 60, A: 255},
		plant.NearSurface: {R: 150, G: 170, B: 70, A: 255},
		plant.Elevated:    {R: 90, G: 150, B: 70, A: 255},
		plant.MidStorey:   {R: 50, G: 120, B: 70, A: 255},
		plant.Canopy:      {R: 30, G: 90, B: 60, A: 255},
	}
	for l, c := range crowns {
		p[playback.CrownCell(l)] = c
	}
	return p
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}
