package plant

import (
	"fmt"
	"math"

	"ffm/internal/geometry"
	"ffm/internal/numerics"
	"ffm/internal/settings"
)

// Key identifies a species: its name and its position within the stratum
// it was read from. Derived species keep the key of their source.
type Key struct {
	Name  string
	Index int
}

func (k Key) String() string { return fmt.Sprintf("%s#%d", k.Name, k.Index) }

// Traits are the biological parameters of a species. SilicaFreeAsh and
// IgnitionTemp are optional; a non-positive value means not measured.
type Traits struct {
	LiveLeafMoisture float64
	DeadLeafMoisture float64
	PropDead         float64
	SilicaFreeAsh    float64
	IgnitionTemp     float64
	LeafForm         LeafForm
	LeafThickness    float64 // m
	LeafWidth        float64 // m
	LeafLength       float64 // m
	LeafSeparation   float64 // m
	StemOrder        float64
	ClumpDiameter    float64 // m
	ClumpSeparation  float64 // m
}

// Species is one plant type in a stratum. The zero value is the invalid
// species.
type Species struct {
	key         Key
	composition float64
	crown       geometry.Polygon
	traits      Traits
	valid       bool
}

// New validates the inputs and builds a species. Inputs that fail the
// checks give the zero Species.
func New(key Key, composition float64, crown geometry.Polygon, t Traits) Species {
	if t.SilicaFreeAsh <= 0 {
		t.SilicaFreeAsh = 0
	}
	if t.IgnitionTemp <= 0 {
		t.IgnitionTemp = 0
	}
	ok := t.SilicaFreeAsh > 0 || t.IgnitionTemp > 0
	if key.Name == "" || crown.Empty() {
		ok = false
	}
	if t.LeafThickness <= 0 || t.LeafWidth <= 0 || t.LeafLength <= 0 || t.LeafSeparation < 0 {
		ok = false
	}
	if t.StemOrder < 0 || t.ClumpDiameter <= 0 || t.ClumpSeparation < 0 || t.PropDead < 0 {
		ok = false
	}
	if !ok {
		return Species{}
	}
	return Species{
		key:         key,
		composition: math.Max(composition, 0),
		crown:       crown,
		traits:      t,
		valid:       true,
	}
}

// HexagonalCrown is the six-sided crown outline built from the base (hc),
// lower edge (he), upper edge (ht) and top (hp) heights and the width w.
func HexagonalCrown(hc, he, ht, hp, w float64) geometry.Polygon {
	return geometry.NewPolygon([]geometry.Point{
		geometry.Pt(0, hc),
		geometry.Pt(w/2, he),
		geometry.Pt(w/2, ht),
		geometry.Pt(0, hp),
		geometry.Pt(-w/2, ht),
		geometry.Pt(-w/2, he),
	})
}

func (s Species) Valid() bool { return s.valid }
func (s Species) Key() Key { return s.key }
func (s Species) Name() string { return s.key.Name }
func (s Species) Composition() float64 { return s.composition }
func (s Species) Crown() geometry.Polygon { return s.crown }
func (s Species) Traits() Traits { return s.traits }
func (s Species) Width() float64 { return s.crown.Width() }
func (s Species) ClumpDiameter() float64 { return s.traits.ClumpDiameter }
func (s Species) ClumpSeparation() float64 { return s.traits.ClumpSeparation }

// SilicaFreeAsh is the measured silica-free ash content, if any.
func (s Species) SilicaFreeAsh() (float64, bool) {
	return s.traits.SilicaFreeAsh, s.traits.SilicaFreeAsh > 0
}

// MeasuredIgnitionTemp is the ignition temperature given as input, if any.
func (s Species) MeasuredIgnitionTemp() (float64, bool) {
	return s.traits.IgnitionTemp, s.traits.IgnitionTemp > 0
}

// WithComposition returns a copy with the composition reset, floored at 0.
func (s Species) WithComposition(c float64) Species {
	s.composition = math.Max(c, 0)
	return s
}

// WithCrown derives the species used for a whole-stratum burn: same key and
// traits, a different crown and different clump spacing.
func (s Species) WithCrown(crown geometry.Polygon, clumpDiameter, clumpSeparation float64) Species {
	t := s.traits
	t.ClumpDiameter = clumpDiameter
	t.ClumpSeparation = clumpSeparation
	return New(s.key, s.composition, crown, t)
}

// SameSpecies reports whether o derives from the same input species.
func (s Species) SameSpecies(o Species) bool { return s.valid && o.valid && s.key == o.key }

// LeafMoisture blends live and dead moisture by the proportion dead.
func (s Species) LeafMoisture() float64 {
	t := s.traits
	return (1-t.PropDead)*t.LiveLeafMoisture + t.PropDead*t.DeadLeafMoisture
}

// FlameDuration is the residence time (s) of a leaf flame, at least one time step.
func (s Species) FlameDuration() float64 {
	t := s.traits
	return math.Max(1.37*t.LeafWidth*t.LeafThickness*1e6+1.61*s.LeafMoisture()-0.027,
		settings.ComputationTimeInterval)
}

// IgnitionTemp is the measured ignition temperature, or the value modelled
// from silica-free ash content when none was measured.
func (s Species) IgnitionTemp() (float64, bool) {
	if it, ok := s.MeasuredIgnitionTemp(); ok {
		return it, true
	}
	return s.ModelledIgnitionTemp()
}

// ModelledIgnitionTemp derives ignition temperature from ash content.
func (s Species) ModelledIgnitionTemp() (float64, bool) {
	sfa, ok := s.SilicaFreeAsh()
	if !ok {
		return 0, false
	}
	l := math.Log(sfa * 100)
	return 354 - 13.9*l - 2.91*l*l, true
}

// IgnitionDelayTime (s) at the given temperature.
func (s Species) IgnitionDelayTime(temp float64) float64 {
	div := 2.0
	if s.traits.LeafForm == Round {
		div = 4
	}
	m := 100 * s.LeafMoisture() * s.traits.LeafThickness * 1000 / div
	return 100168.23*math.Pow(temp, -2.11)*m + 6018087.86*math.Pow(temp, -2.39)
}

// IsGrass applies to near-surface species only.
func (s Species) IsGrass() bool {
	return s.traits.PropDead >= 0.5 && s.traits.LeafThickness < 0.00035
}

// LeafFlameLength is the flame length (m) of a single burning leaf.
func (s Species) LeafFlameLength() float64 {
	t := s.traits
	area := 0.5 * t.LeafWidth * t.LeafLength
	sq := math.Sqrt(area)
	cube := math.Cbrt(area)
	if s.LeafMoisture() < (17.5*cube-52.5*sq-0.0027)/0.277 {
		return 1.75*cube - 0.0277*s.LeafMoisture() - 0.00027
	}
	return 5.25 * sq
}

func (s Species) LeavesPerClump() float64 {
	t := s.traits
	return 0.88 * math.Pow(t.ClumpDiameter*t.StemOrder/t.LeafSeparation, 1.18)
}

// FlameLength is the plant flame length (m) above an ignited segment of the
// given length. Leaf flames merge along the segment; lateral merging across
// plants is applied elsewhere.
func (s Species) FlameLength(ignited float64) float64 {
	if numerics.AlmostZero(ignited) {
		return 0
	}
	t := s.traits
	numLeaves := s.LeavesPerClump() * ignited / (t.ClumpDiameter + t.ClumpSeparation)
	merged := math.Pow(math.Pow(s.LeafFlameLength()*math.Pow(numLeaves, 0.4)+ignited, 4)+math.Pow(ignited, 4), 0.25)
	return math.Max(ignited, merged)
}

// LeafAreaIndex over the ground area shaded by one crown.
func (s Species) LeafAreaIndex() float64 {
	t := s.traits
	clumpVolume := 4.0 / 3.0 * math.Pi * math.Pow((t.ClumpDiameter+t.ClumpSeparation)*0.5, 3)
	groundArea := math.Pi * math.Pow(0.5*s.crown.Width(), 2)
	return t.LeafWidth * t.LeafLength / 2 * s.LeavesPerClump() * s.crown.VolumeOfRevolution() / clumpVolume / groundArea
}
