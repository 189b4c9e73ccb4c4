package forest

import (
	"fmt"
	"math"
	"strings"

	"ffm/internal/plant"
)

// Stratum is one vegetation layer: its species, with compositions summing
// to 1, and the mean distance between plant centres.
type Stratum struct {
	level    plant.Level
	species  []plant.Species
	plantSep float64
	hasSep   bool
}

// NewStratum drops invalid species and those with no composition, then
// normalises the rest. A negative plant separation means none was given.
// The result is empty when nothing survives or the level is not a plant
// level.
func NewStratum(level plant.Level, species []plant.Species, plantSep float64) Stratum {
	if level <= plant.Surface || level > plant.Canopy {
		return Stratum{level: plant.Unknown}
	}
	var kept []plant.Species
	var sum float64
	for _, sp := range species {
		if sp.Valid() && sp.Composition() > 0 {
			kept = append(kept, sp)
			sum += sp.Composition()
		}
	}
	if sum == 0 {
		return Stratum{level: plant.Unknown}
	}
	for i, sp := range kept {
		kept[i] = sp.WithComposition(sp.Composition() / sum)
	}
	return Stratum{level: level, species: kept, plantSep: plantSep, hasSep: plantSep >= 0}
}

func (s Stratum) Level() plant.Level { return s.level }
func (s Stratum) Empty() bool { return len(s.species) == 0 }
func (s Stratum) Name() string { return s.level.String() }

// Species returns the normalised species list.
func (s Stratum) Species() []plant.Species { return append([]plant.Species(nil), s.species...) }

// PlantSep is the measured separation between plants, if one was given.
func (s Stratum) PlantSep() (float64, bool) { return s.plantSep, s.hasSep }

func (s Stratum) weighted(get func(plant.Species) float64) float64 {
	var av float64
	for _, sp := range s.species {
		av += sp.Composition() * get(sp)
	}
	return av
}

func (s Stratum) AvWidth() float64 {
	return s.weighted(func(sp plant.Species) float64 { return sp.Crown().Width() })
}

func (s Stratum) AvTop() float64 {
	return s.weighted(func(sp plant.Species) float64 { return sp.Crown().Top() })
}

func (s Stratum) AvBottom() float64 {
	return s.weighted(func(sp plant.Species) float64 { return sp.Crown().Bottom() })
}

func (s Stratum) AvMidHeight() float64 { return 0.5 * (s.AvTop() + s.AvBottom()) }

func (s Stratum) AvFlameDuration() float64 {
	return s.weighted(plant.Species.FlameDuration)
}

// ModelPlantSep never lets plants overlap: it is at least the mean width.
func (s Stratum) ModelPlantSep() float64 {
	w := s.AvWidth()
	if s.hasSep && s.plantSep > w {
		return s.plantSep
	}
	return w
}

// Cover is the proportion of ground under crowns.
func (s Stratum) Cover() float64 { return math.Pow(s.AvWidth()/s.ModelPlantSep(), 2) }

func (s Stratum) LeafAreaIndex() float64 {
	return s.weighted(plant.Species.LeafAreaIndex) * s.Cover()
}

func (s Stratum) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stratum: %v\n\n", s.level)
	if sep, ok := s.PlantSep(); ok {
		fmt.Fprintf(&b, "Plant separation (m): %.3f\n", sep)
	} else {
		b.WriteString("Plant separation (m): n/a\n")
	}
	for _, sp := range s.species {
		fmt.Fprintf(&b, "\nSpecies: %s\n", sp.Name())
		fmt.Fprintf(&b, "Composition: %.3f\n", sp.Composition())
		fmt.Fprintf(&b, "Crown: %v\n", sp.Crown())
	}
	fmt.Fprintf(&b, "\nEnd of stratum: %v\n", s.level)
	return b.String()
}
