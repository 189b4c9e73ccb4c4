package forest

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"ffm/internal/numerics"
	"ffm/internal/plant"
	"ffm/internal/settings"
)

// Overlap says whether a lower stratum grows beneath a higher one.
type Overlap int

const (
	AutoOverlap Overlap = iota - 1
	NotOverlapped
	Overlapped
)

func (o Overlap) String() string {
	switch o {
	case NotOverlapped:
		return "Not overlapped"
	case Overlapped:
		return "Overlapped"
	default:
		return "Automatic"
	}
}

// StrataOverlap fixes the overlap between two levels. Order of the levels
// does not matter.
type StrataOverlap struct {
	A, B plant.Level
	Type Overlap
}

func (s StrataOverlap) String() string { return fmt.Sprintf("%v %v : %v", s.A, s.B, s.Type) }

// Layer is a horizontal band of constant composition. Levels lists the
// strata present in the band; it may be empty.
type Layer struct {
	Bottom, Top float64
	Levels      []plant.Level
}

// Forest is the surface plus at most one stratum per level, sorted bottom
// to top.
type Forest struct {
	Surface  Surface
	strata   []Stratum
	overlaps []StrataOverlap
}

// NewForest keeps the non-empty strata in level order. A repeated level
// leaves the forest without strata.
func NewForest(surface Surface, strata []Stratum, overlaps []StrataOverlap) Forest {
	f := Forest{Surface: surface, overlaps: slices.Clone(overlaps)}
	seen := map[plant.Level]bool{}
	for _, s := range strata {
		if seen[s.Level()] {
			f.strata = nil
			return f
		}
		if !s.Empty() {
			f.strata = append(f.strata, s)
			seen[s.Level()] = true
		}
	}
	slices.SortStableFunc(f.strata, func(a, b Stratum) int { return int(a.Level()) - int(b.Level()) })
	return f
}

func (f Forest) Strata() []Stratum { return slices.Clone(f.strata) }
func (f Forest) Overlaps() []StrataOverlap { return slices.Clone(f.overlaps) }
func (f Forest) Empty() bool { return len(f.strata) == 0 }

// Stratum at the given level; the empty Stratum when the level is absent.
func (f Forest) Stratum(level plant.Level) Stratum {
	for _, s := range f.strata {
		if s.Level() == level {
			return s
		}
	}
	return Stratum{level: plant.Unknown}
}

func (f Forest) HasLevel(level plant.Level) bool { return !f.Stratum(level).Empty() }

// NextLevel is the level of the next stratum above level, or Unknown.
func (f Forest) NextLevel(level plant.Level) plant.Level {
	if !f.HasLevel(level) {
		return plant.Unknown
	}
	for _, s := range f.strata {
		if s.Level() > level {
			return s.Level()
		}
	}
	return plant.Unknown
}

// StrataOverlap looks up the overlap of two levels. Without an entry,
// levels at most two apart are decided from their heights and levels
// further apart overlap.
func (f Forest) StrataOverlap(a, b plant.Level) Overlap {
	if a == plant.Unknown || b == plant.Unknown || a == b {
		return AutoOverlap
	}
	if b < a {
		a, b = b, a
	}
	for _, o := range f.overlaps {
		if (o.A == a && o.B == b) || (o.A == b && o.B == a) {
			return o.Type
		}
	}
	if b-a <= 2 {
		return AutoOverlap
	}
	return Overlapped
}

// VerticalAssociation reports whether the lower of the two levels grows
// under the higher one.
func (f Forest) VerticalAssociation(a, b plant.Level) bool {
	if b < a {
		a, b = b, a
	}
	switch f.StrataOverlap(a, b) {
	case Overlapped:
		return true
	case NotOverlapped:
		return false
	default:
		return f.Stratum(a).AvTop() <= f.Stratum(b).AvBottom()
	}
}

// Layers lists the bands of constant composition from the top down to the
// ground. With includeCanopy false the canopy is ignored.
func (f Forest) Layers(includeCanopy bool) []Layer {
	hts := []float64{0}
	var strata []Stratum
	for _, s := range f.strata {
		if s.Level() == plant.Canopy && !includeCanopy {
			continue
		}
		strata = append(strata, s)
		hts = append(hts, s.AvBottom(), s.AvTop())
	}
	slices.Sort(hts)
	hts = slices.CompactFunc(hts, numerics.AlmostEq)
	slices.Reverse(hts)

	layers := make([]Layer, 0, len(hts)-1)
	for i := 0; i+1 < len(hts); i++ {
		mid := 0.5 * (hts[i] + hts[i+1])
		l := Layer{Bottom: hts[i+1], Top: hts[i]}
		for _, s := range strata {
			if mid > s.AvBottom() && mid < s.AvTop() {
				l.Levels = append(l.Levels, s.Level())
			}
		}
		layers = append(layers, l)
	}
	return layers
}

// WindProfile is the wind speed at height z for an incident speed w above
// the vegetation. Wind is constant in empty layers and decays
// exponentially through layers with foliage, at a rate set by their
// summed leaf area index.
func (f Forest) WindProfile(w, z float64, includeCanopy bool) float64 {
	if w <= 0 {
		return 0
	}
	z = math.Max(z, settings.MinHeightForWindComp)
	layers := f.Layers(includeCanopy)
	if len(layers) == 0 || z >= layers[0].Top {
		return w
	}
	decay := func(z, w1, z1, gamma float64) float64 { return w1 * math.Exp(gamma*(z/z1-1)) }

	refW, refZ := w, layers[0].Top
	for _, l := range layers {
		if len(l.Levels) == 0 {
			if z >= l.Bottom {
				return refW
			}
			refZ = l.Bottom
			continue
		}
		var lai float64
		for _, lev := range l.Levels {
			lai += f.Stratum(lev).LeafAreaIndex()
		}
		gamma := 1.785 * math.Pow(lai, 0.372)
		if z >= l.Bottom {
			return decay(z, refW, refZ, gamma)
		}
		refW = decay(l.Bottom, refW, refZ, gamma)
		refZ = l.Bottom
	}
	return refW
}

// HeightForSurfaceWind samples the wind at the middle of the near-surface
// stratum when there is one.
func (f Forest) HeightForSurfaceWind() float64 {
	if f.HasLevel(plant.NearSurface) {
		return math.Max(settings.MinHeightForWindComp, f.Stratum(plant.NearSurface).AvMidHeight())
	}
	return settings.MinHeightForWindComp
}

func (f Forest) String() string {
	var b strings.Builder
	b.WriteString("Surface characteristics:\n\n")
	b.WriteString(f.Surface.String())
	b.WriteString("\nList of strata:\n")
	for _, s := range f.strata {
		b.WriteString("\n" + s.String())
	}
	b.WriteString("\nSpecified overlaps (others will default):\n\n")
	for _, o := range f.overlaps {
		b.WriteString(o.String() + "\n")
	}
	return b.String()
}
