package fire

import (
	"math"

	"ffm/internal/plant"
)

// PreHeatingFlame is a flame from a lower level that dries fuel above it
// between Start and End (s).
type PreHeatingFlame struct {
	Level plant.Level
	Flame Flame
	Start float64
	End   float64
}

func (p PreHeatingFlame) Duration() float64 { return math.Max(0, p.End-p.Start) }

// DurationUntil is the heating time when heating stops at cutoff. A
// non-positive cutoff means no cutoff.
func (p PreHeatingFlame) DurationUntil(cutoff float64) float64 {
	if cutoff <= 0 {
		return p.Duration()
	}
	return math.Max(0, math.Min(p.End, cutoff)-p.Start)
}

// Heating holds the indirect pre-heating flames reaching a level: those
// that only dry it. The most recent flame heats the level directly and
// reaches the engine as an incident flame, never through Heating.
type Heating struct {
	Indirect []PreHeatingFlame
}

// NewHeating takes the pre-heating flames in the order they were produced
// and leaves out the most recent one.
func NewHeating(all []PreHeatingFlame) Heating {
	if len(all) <= 1 {
		return Heating{}
	}
	indirect := make([]PreHeatingFlame, len(all)-1)
	copy(indirect, all[:len(all)-1])
	return Heating{Indirect: indirect}
}
