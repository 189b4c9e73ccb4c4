package fire

import (
	"fmt"
	"strings"

	"ffm/internal/geometry"
	"ffm/internal/plant"
	"ffm/internal/stats"
)

// FlameSeries is the time series of flames, one per time step, produced by
// a stratum.
type FlameSeries struct {
	Level  plant.Level
	Flames []Flame
}

// Empty reports a series with no time steps.
func (s FlameSeries) Empty() bool { return len(s.Flames) == 0 }

// IsNull reports a series with no burning time step.
func (s FlameSeries) IsNull() bool { return NonNullCount(s.Flames) == 0 }

// Front is the first flame of the series, or the null flame.
func (s FlameSeries) Front() Flame {
	if s.Empty() {
		return Flame{}
	}
	return s.Flames[0]
}

// Combine merges other into s when both belong to the same level.
func (s FlameSeries) Combine(other FlameSeries, wind, slope, firelineLength float64) FlameSeries {
	if s.Level != other.Level || other.Empty() {
		return s
	}
	return FlameSeries{Level: s.Level, Flames: CombineFlames(s.Flames, other.Flames, wind, slope, firelineLength)}
}

// CombineWeighted merges using length-weighted angles.
func (s FlameSeries) CombineWeighted(other FlameSeries) FlameSeries {
	if s.Level != other.Level || other.Empty() {
		return s
	}
	return FlameSeries{Level: s.Level, Flames: CombineFlamesWeighted(s.Flames, other.Flames)}
}

func (s FlameSeries) NonNullCount() int { return NonNullCount(s.Flames) }
func (s FlameSeries) MaxFlameLength() float64 { return MaxFlameLength(s.Flames) }
func (s FlameSeries) CappedMaxFlameLength() float64 { return CappedMaxFlameLength(s.Flames) }
func (s FlameSeries) MeanFlameLength() float64 { return MeanFlameLength(s.Flames) }
func (s FlameSeries) StdDevFlameLength() float64 { return StdDevFlameLength(s.Flames) }
func (s FlameSeries) MeanAngle() float64 { return MeanAngle(s.Flames) }
func (s FlameSeries) MeanOrigin() geometry.Point { return MeanOrigin(s.Flames) }
func (s FlameSeries) MeanDepthIgnited() float64 { return MeanDepthIgnited(s.Flames) }
func (s FlameSeries) MeanDeltaTemperature() float64 { return MeanDeltaTemperature(s.Flames) }
func (s FlameSeries) MeanFlame() Flame { return MeanFlame(s.Flames) }

func (s FlameSeries) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Level: %v\n", s.Level)
	for _, f := range s.Flames {
		b.WriteString(f.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// NonNullCount counts flames with positive length.
func NonNullCount(flames []Flame) int {
	n := 0
	for _, f := range flames {
		if !f.IsNull() {
			n++
		}
	}
	return n
}

// attr extracts one attribute per flame, with null flames mapped to 0 so
// the zero-skipping statistics ignore them.
func attr(flames []Flame, get func(Flame) float64) []float64 {
	out := make([]float64, len(flames))
	for i, f := range flames {
		if !f.IsNull() {
			out[i] = get(f)
		}
	}
	return out
}

func flameLength(f Flame) float64 { return f.Length }

func MaxFlameLength(flames []Flame) float64 {
	if len(flames) == 0 {
		return 0
	}
	best := flames[0].Length
	for _, f := range flames[1:] {
		best = max(best, f.Length)
	}
	return best
}

// CappedMaxFlameLength is the longest flame, capped at one standard
// deviation above the mean. Null flames are ignored.
func CappedMaxFlameLength(flames []Flame) float64 {
	return min(MaxFlameLength(flames), MeanFlameLength(flames)+StdDevFlameLength(flames))
}

func MeanFlameLength(flames []Flame) float64 { return stats.Mean(attr(flames, flameLength), true) }

func StdDevFlameLength(flames []Flame) float64 {
	return stats.StdDev(attr(flames, flameLength), true)
}

func MeanAngle(flames []Flame) float64 {
	return stats.Mean(attr(flames, func(f Flame) float64 { return f.Angle }), true)
}

// MeanOrigin averages the origins of the burning flames.
func MeanOrigin(flames []Flame) geometry.Point {
	n := NonNullCount(flames)
	if n == 0 {
		return geometry.Point{}
	}
	var sum geometry.Point
	for _, f := range flames {
		if !f.IsNull() {
			sum = sum.Add(f.Origin)
		}
	}
	return sum.Scale(1 / float64(n))
}

func MeanDepthIgnited(flames []Flame) float64 {
	return stats.Mean(attr(flames, func(f Flame) float64 { return f.DepthIgnited }), true)
}

func MeanDeltaTemperature(flames []Flame) float64 {
	return stats.Mean(attr(flames, func(f Flame) float64 { return f.DeltaTemperature }), true)
}

// MeanFlame has each attribute averaged over the burning flames.
func MeanFlame(flames []Flame) Flame {
	return NewFlame(MeanFlameLength(flames), MeanAngle(flames), MeanOrigin(flames),
		MeanDepthIgnited(flames), MeanDeltaTemperature(flames))
}
