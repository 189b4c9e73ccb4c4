// Package playback turns a finished forest computation into a raster scene
// that replays the ignition paths one time step at a time.
package playback

import (
	"math"

	"ffm/internal/core"
	"ffm/internal/fire"
	"ffm/internal/forest"
	"ffm/internal/geometry"
	"ffm/internal/plant"
)

// Cell values of the raster.
const (
	CellEmpty uint8 = iota
	CellGround
	CellIgnited
	CellBurnt
	CellFlame
	cellCrown
)

// CrownCell is the cell value for crowns of the given level.
func CrownCell(l plant.Level) uint8 { return cellCrown + uint8(l) }

// NumCells is the size of the palette a renderer needs.
const NumCells = int(cellCrown) + int(plant.Canopy) + 1

// Layer is an overlay that can be switched on and off.
type Layer int

const (
	LayerCrowns Layer = iota
	LayerPlantPaths
	LayerStratumPaths
	LayerFlames
	numLayers
)

// Config controls the raster.
type Config struct {
	Width    int     // cells
	MaxRange float64 // m of terrain shown downwind
	Run      int     // index of the run to replay
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{Width: 320, MaxRange: 60, Run: -1}
}

// Scene replays one ignition run of a location.
type Scene struct {
	cfg  Config
	loc  forest.Location
	res  forest.Results
	run  forest.IgnitionRun
	grid *core.ByteGrid
	base *core.ByteGrid

	left, top, scale float64
	lastStep         int
	t                int
	visible          [numLayers]bool
}

// New builds the scene for loc and its results. A negative cfg.Run picks
// the last run.
func New(loc forest.Location, res forest.Results, cfg Config) *Scene {
	d := DefaultConfig()
	if cfg.Width <= 0 {
		cfg.Width = d.Width
	}
	if cfg.MaxRange <= 0 {
		cfg.MaxRange = d.MaxRange
	}
	s := &Scene{cfg: cfg, loc: loc, res: res}
	for i := range s.visible {
		s.visible[i] = true
	}
	if n := len(res.Runs); n > 0 {
		i := cfg.Run
		if i < 0 || i >= n {
			i = n - 1
		}
		s.run = res.Runs[i]
	}
	s.layout()
	s.base = core.NewByteGrid(s.grid.W, s.grid.H)
	s.drawBase()
	s.Reset()
	return s
}

// layout fits the crowns and the ignited segments into the raster.
func (s *Scene) layout() {
	left, right, top := -1.0, 1.0, 1.0
	for _, st := range s.loc.Forest.Strata() {
		for _, sp := range st.Species() {
			c := sp.Crown()
			left = math.Min(left, c.Left())
			right = math.Max(right, c.Right())
			top = math.Max(top, c.Top())
		}
	}
	for _, p := range s.run.Paths() {
		start, _ := p.StartTimeStep()
		s.lastStep = max(s.lastStep, start+p.NumSegments())
		for _, seg := range p.Segments() {
			right = math.Max(right, seg.End.X)
			top = math.Max(top, seg.End.Y)
		}
	}
	right = math.Min(right+1, left+s.cfg.MaxRange)
	top += 1 + math.Max(0, right*math.Tan(s.loc.Slope()))
	s.left, s.top = left-0.5, top
	s.scale = float64(s.cfg.Width) / (right - s.left)
	h := int(math.Ceil((top - math.Min(0, left*math.Tan(s.loc.Slope()))) * s.scale))
	s.grid = core.NewByteGrid(s.cfg.Width, min(max(h, 40), 4*s.cfg.Width))
}

func (s *Scene) world(x, y int) geometry.Point {
	return geometry.Pt(s.left+(float64(x)+0.5)/s.scale, s.top-(float64(y)+0.5)/s.scale)
}

func (s *Scene) cell(p geometry.Point) (int, int) {
	return int(math.Floor((p.X - s.left) * s.scale)), int(math.Floor((s.top - p.Y) * s.scale))
}

// inside is the crossing-number test.
func inside(verts []geometry.Point, p geometry.Point) bool {
	in := false
	for i, j := 0, len(verts)-1; i < len(verts); j, i = i, i+1 {
		a, b := verts[i], verts[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

// drawBase paints the ground and a row of plants for every stratum, spaced
// at the modelled plant separation.
func (s *Scene) drawBase() {
	g := s.base
	slope := math.Tan(s.loc.Slope())
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			p := s.world(x, y)
			if p.Y < p.X*slope {
				g.Set(x, y, CellGround)
			}
		}
	}
	if !s.visible[LayerCrowns] {
		return
	}
	for _, st := range s.loc.Forest.Strata() {
		sep := st.ModelPlantSep()
		if sep <= 0 {
			continue
		}
		edge := s.left + float64(g.W)/s.scale
		for _, sp := range st.Species() {
			verts := sp.Crown().Vertices()
			for dx := math.Floor((s.left-sp.Width())/sep) * sep; dx-sp.Width() <= edge; dx += sep {
				moved := make([]geometry.Point, len(verts))
				for i, v := range verts {
					moved[i] = geometry.Pt(v.X+dx, v.Y+dx*slope)
				}
				s.fillPolygon(g, moved, CrownCell(st.Level()))
			}
		}
	}
}

func (s *Scene) fillPolygon(g *core.ByteGrid, verts []geometry.Point, v uint8) {
	x0, y0 := s.cell(geometry.Pt(minX(verts), maxY(verts)))
	x1, y1 := s.cell(geometry.Pt(maxX(verts), minY(verts)))
	for y := max(0, y0); y <= min(g.H-1, y1); y++ {
		for x := max(0, x0); x <= min(g.W-1, x1); x++ {
			if inside(verts, s.world(x, y)) {
				g.Set(x, y, v)
			}
		}
	}
}

func extent(verts []geometry.Point, get func(geometry.Point) float64, better func(a, b float64) float64) float64 {
	out := get(verts[0])
	for _, v := range verts[1:] {
		out = better(out, get(v))
	}
	return out
}

func minX(v []geometry.Point) float64 { return extent(v, func(p geometry.Point) float64 { return p.X }, math.Min) }
func maxX(v []geometry.Point) float64 { return extent(v, func(p geometry.Point) float64 { return p.X }, math.Max) }
func minY(v []geometry.Point) float64 { return extent(v, func(p geometry.Point) float64 { return p.Y }, math.Min) }
func maxY(v []geometry.Point) float64 { return extent(v, func(p geometry.Point) float64 { return p.Y }, math.Max) }

// drawLine steps along the segment one cell at a time.
func (s *Scene) drawLine(a, b geometry.Point, v uint8) {
	n := int(math.Ceil(a.Dist(b)*s.scale)) + 1
	for i := 0; i <= n; i++ {
		p := a.Add(b.Sub(a).Scale(float64(i) / float64(n)))
		x, y := s.cell(p)
		s.grid.Set(x, y, v)
	}
}

func (s *Scene) Name() string { return "ffm" }
func (s *Scene) Size() core.Size { return core.Size{W: s.grid.W, H: s.grid.H} }
func (s *Scene) Cells() []uint8 { return s.grid.Cells() }
func (s *Scene) TimeStep() int { return s.t }

// Done reports whether every segment has been shown.
func (s *Scene) Done() bool { return s.t >= s.lastStep }

func (s *Scene) Results() forest.Results { return s.res }
func (s *Scene) Run() forest.IgnitionRun { return s.run }

// Reset returns to the moment before the first ignition.
func (s *Scene) Reset() {
	s.t = 0
	s.redraw()
}

// Step advances one time step. It returns false once the replay is over.
func (s *Scene) Step() bool {
	if s.Done() {
		return false
	}
	s.t++
	s.redraw()
	return true
}

// Toggle switches a layer on or off.
func (s *Scene) Toggle(l Layer) {
	if l < 0 || l >= numLayers {
		return
	}
	s.visible[l] = !s.visible[l]
	if l == LayerCrowns {
		s.base.Clear()
		s.drawBase()
	}
	s.redraw()
}

func (s *Scene) Visible(l Layer) bool { return l >= 0 && l < numLayers && s.visible[l] }

func (s *Scene) windAt(level plant.Level) float64 {
	f := s.loc.Forest
	return f.WindProfile(s.loc.IncidentWind, f.Stratum(level).AvMidHeight(), s.run.Type == forest.WithCanopy)
}

func (s *Scene) redraw() {
	s.grid.CopyFrom(s.base)
	for _, p := range s.run.Paths() {
		layer := LayerPlantPaths
		if p.Type() == fire.StratumPath {
			layer = LayerStratumPaths
		}
		if !s.visible[layer] {
			continue
		}
		start, ok := p.StartTimeStep()
		if !ok {
			continue
		}
		current := s.t - start
		for i := 0; i < p.NumSegments() && i <= current; i++ {
			seg := p.Segment(i)
			v := CellBurnt
			if i == current {
				v = CellIgnited
			}
			s.drawLine(seg.Start, seg.End, v)
		}
		if s.visible[LayerFlames] && current >= 0 && current < p.NumSegments() {
			fl := p.Flame(current, s.windAt(p.Level()), s.loc.Slope())
			if !fl.IsNull() {
				s.drawLine(fl.Origin, fl.Tip(), CellFlame)
			}
		}
	}
}
