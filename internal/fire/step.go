package fire

import (
	"ffm/internal/geometry"
	"ffm/internal/numerics"
	"ffm/internal/plant"
	"ffm/internal/settings"
)

// FlameDeltaTemperature is the flame temperature rise for a species burning
// in the given level. Only near-surface grasses burn cooler.
func FlameDeltaTemperature(sp plant.Species, level plant.Level) float64 {
	if level == plant.NearSurface && sp.IsGrass() {
		return settings.GrassFlameDeltaTemp
	}
	return settings.MainFlameDeltaTemp
}

// Step accumulates the composition-weighted flame of one time step across
// the species of a stratum. Temperature holds a flame-length weighted sum
// until NormalizeSteps turns it into a mean.
type Step struct {
	Length      float64
	Depth       float64
	Origin      geometry.Point
	Temperature float64
}

// Add weighs in the flame of the given length above seg.
func (s *Step) Add(comp, flameLength float64, seg geometry.Segment, deltaTemp float64) {
	s.Length += comp * flameLength
	s.Depth += comp * seg.Length()
	s.Origin = s.Origin.Add(seg.Start.Scale(comp))
	s.Temperature += comp * flameLength * deltaTemp
}

// NewSteps allocates one Step per possible time step.
func NewSteps() []Step { return make([]Step, settings.MaxTimeSteps) }

// NormalizeSteps divides the weighted temperatures by the flame lengths.
// Steps are ordered longest first, so the first empty step ends the work.
func NormalizeSteps(steps []Step) {
	for i := range steps {
		if numerics.Leq(steps[i].Length, 0) {
			return
		}
		steps[i].Temperature /= steps[i].Length
	}
}

// StepSeries builds the flames of the non-empty leading steps.
func StepSeries(level plant.Level, steps []Step, wind, slope float64) FlameSeries {
	fs := FlameSeries{Level: level}
	for _, s := range steps {
		if numerics.Leq(s.Length, 0) {
			break
		}
		fs.Flames = append(fs.Flames, NewFlame(s.Length, WindEffectFlameAngle(s.Length, wind, slope),
			s.Origin, s.Depth, s.Temperature))
	}
	return fs
}
