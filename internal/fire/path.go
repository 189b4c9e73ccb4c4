package fire

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"ffm/internal/geometry"
	"ffm/internal/plant"
	"ffm/internal/settings"
)

// PathType says whether a path burns through one plant crown or through a
// whole stratum treated as a single long crown.
type PathType int

const (
	UnknownPath PathType = iota
	PlantPath
	StratumPath
)

func (t PathType) String() string {
	switch t {
	case PlantPath:
		return "Plant path"
	case StratumPath:
		return "Stratum path"
	default:
		return "Unknown"
	}
}

// IgnitionPath is the sequence of segments ignited in a crown, one per time
// step from the step of first ignition. Segments are kept in the order they
// ignited.
type IgnitionPath struct {
	pathType    PathType
	level       plant.Level
	species     plant.Species
	start       int
	ignited     bool
	segments    []geometry.Segment
	preIgnition []PreIgnitionData
}

// NewIgnitionPath starts an empty, unignited path.
func NewIgnitionPath(t PathType, level plant.Level, sp plant.Species) IgnitionPath {
	return IgnitionPath{pathType: t, level: level, species: sp}
}

func (p IgnitionPath) Type() PathType { return p.pathType }
func (p IgnitionPath) Level() plant.Level { return p.level }
func (p IgnitionPath) Species() plant.Species { return p.species }
func (p IgnitionPath) NumSegments() int { return len(p.segments) }
func (p IgnitionPath) HasSegments() bool { return len(p.segments) > 0 }
func (p IgnitionPath) HasPreIgnitionData() bool { return len(p.preIgnition) > 0 }

// StartTimeStep is the time step in which the first segment ignited.
func (p IgnitionPath) StartTimeStep() (int, bool) { return p.start, p.ignited }

// Segments returns the ignited segments in time order.
func (p IgnitionPath) Segments() []geometry.Segment { return slices.Clone(p.segments) }

func (p IgnitionPath) Segment(i int) geometry.Segment { return p.segments[i] }

func (p IgnitionPath) PreIgnitionData() []PreIgnitionData { return slices.Clone(p.preIgnition) }

func (p *IgnitionPath) markIgnited(step int) {
	p.start = step
	p.ignited = true
}

func (p *IgnitionPath) addSegment(s geometry.Segment) { p.segments = append(p.segments, s) }

func (p *IgnitionPath) addPreIgnitionData(d PreIgnitionData) {
	p.preIgnition = append(p.preIgnition, d)
}

// MaxPreIgnitionTemperature is the hottest temperature recorded before
// ignition.
func (p IgnitionPath) MaxPreIgnitionTemperature() (float64, bool) {
	if len(p.preIgnition) == 0 {
		return 0, false
	}
	t := math.Inf(-1)
	for _, d := range p.preIgnition {
		t = math.Max(t, d.Temperature())
	}
	return t, true
}

// FullSize reports a path that burned for the maximum number of steps.
func (p IgnitionPath) FullSize() bool { return len(p.segments) == settings.MaxTimeSteps }

// SortedSegments returns the segments longest first.
func (p IgnitionPath) SortedSegments() []geometry.Segment {
	out := slices.Clone(p.segments)
	slices.SortStableFunc(out, func(a, b geometry.Segment) int {
		return cmp.Compare(b.Length(), a.Length())
	})
	return out
}

// IndexOfMaxSegment is the first index holding the longest segment.
func (p IgnitionPath) IndexOfMaxSegment() (int, bool) {
	if len(p.segments) == 0 {
		return 0, false
	}
	best := 0
	for i, s := range p.segments {
		if s.Length() > p.segments[best].Length() {
			best = i
		}
	}
	return best, true
}

func (p IgnitionPath) MaxSegmentLength() float64 {
	i, ok := p.IndexOfMaxSegment()
	if !ok {
		return 0
	}
	return p.segments[i].Length()
}

func (p IgnitionPath) OriginOfMaxSegment() geometry.Point {
	i, ok := p.IndexOfMaxSegment()
	if !ok {
		return geometry.Point{}
	}
	return p.segments[i].Start
}

// MaxHeightBurnt is the greatest height above the sloping ground reached by
// any segment end.
func (p IgnitionPath) MaxHeightBurnt(slope float64) float64 {
	if len(p.segments) == 0 {
		return 0
	}
	t := math.Tan(slope)
	h := math.Inf(-1)
	for _, s := range p.segments {
		h = math.Max(h, s.End.Y-s.End.X*t)
	}
	return h
}

func (p IgnitionPath) MaxX() float64 {
	if len(p.segments) == 0 {
		return 0
	}
	x := math.Inf(-1)
	for _, s := range p.segments {
		x = math.Max(x, math.Max(s.Start.X, s.End.X))
	}
	return x
}

func (p IgnitionPath) MaxY() float64 {
	if len(p.segments) == 0 {
		return 0
	}
	y := math.Inf(-1)
	for _, s := range p.segments {
		y = math.Max(y, math.Max(s.Start.Y, s.End.Y))
	}
	return y
}

// MaxHorizontalRun is how far past the left edge of the crown a stratum
// path burned. Plant paths report 0.
func (p IgnitionPath) MaxHorizontalRun() float64 {
	if p.pathType != StratumPath || len(p.segments) == 0 {
		return 0
	}
	return p.MaxX() - p.species.Crown().Left()
}

// TimeToIgnition (s); 0 for a path that never ignited.
func (p IgnitionPath) TimeToIgnition() float64 {
	if !p.ignited {
		return 0
	}
	return float64(p.start) * settings.ComputationTimeInterval
}

// TimeStepsIgnitionToMaxFlame counts the steps from ignition until the
// longest segment first burns.
func (p IgnitionPath) TimeStepsIgnitionToMaxFlame() int {
	i, _ := p.IndexOfMaxSegment()
	return i
}

func (p IgnitionPath) TimeIgnitionToMaxFlame() float64 {
	return float64(p.TimeStepsIgnitionToMaxFlame()) * settings.ComputationTimeInterval
}

func (p IgnitionPath) MaxFlameLength() float64 {
	if len(p.segments) == 0 {
		return 0
	}
	return p.species.FlameLength(p.MaxSegmentLength())
}

// IgnitedLength is the length of segment i.
func (p IgnitionPath) IgnitedLength(i int) float64 { return p.segments[i].Length() }

// FlameLength is the flame produced by segment i.
func (p IgnitionPath) FlameLength(i int) float64 {
	return p.species.FlameLength(p.IgnitedLength(i))
}

// Origin is the start of segment i.
func (p IgnitionPath) Origin(i int) geometry.Point { return p.segments[i].Start }

// Flame is the flame above segment i, leaning with the wind.
func (p IgnitionPath) Flame(i int, wind, slope float64) Flame {
	if len(p.segments) == 0 {
		return Flame{}
	}
	l := p.FlameLength(i)
	return NewFlame(l, WindEffectFlameAngle(l, wind, slope), p.Origin(i), p.IgnitedLength(i), FlameDeltaTemperature(p.species, p.level))
}

// LastFlame is the flame above the most recent segment.
func (p IgnitionPath) LastFlame(wind, slope float64) Flame {
	if len(p.segments) == 0 {
		return Flame{}
	}
	return p.Flame(len(p.segments)-1, wind, slope)
}

// FlameSeries lists the flames of every segment in time order.
func (p IgnitionPath) FlameSeries(wind, slope float64) FlameSeries {
	fs := FlameSeries{Level: p.level, Flames: make([]Flame, len(p.segments))}
	for i := range p.segments {
		fs.Flames[i] = p.Flame(i, wind, slope)
	}
	return fs
}

// ROS is the rate (m/s) at which the leading edge advanced horizontally
// during step i.
func (p IgnitionPath) ROS(i int) float64 {
	prev := p.segments[0].Start.X
	if i > 0 {
		prev = p.segments[i-1].End.X
	}
	return (p.segments[i].End.X - prev) / settings.ComputationTimeInterval
}

// spreadingSteps returns the rates of the steps that advanced at least at
// the minimum stratum spread rate.
func (p IgnitionPath) spreadingSteps() []float64 {
	var out []float64
	for i := range p.segments {
		if r := p.ROS(i); r >= settings.MinRateForStratumSpread {
			out = append(out, r)
		}
	}
	return out
}

// BasicROS is the mean rate over the spreading steps, or 0.
func (p IgnitionPath) BasicROS() float64 {
	steps := p.spreadingSteps()
	if len(steps) == 0 {
		return 0
	}
	var sum float64
	for _, r := range steps {
		sum += r
	}
	return sum / float64(len(steps))
}

// Spreads reports a stratum path that kept spreading for the minimum
// number of steps.
func (p IgnitionPath) Spreads() bool {
	return p.pathType == StratumPath && len(p.spreadingSteps()) >= settings.MinTimeStepsForStratumSpread
}

// TimeOfSpread (s) is the time spent spreading, 0 if the path does not spread.
func (p IgnitionPath) TimeOfSpread() float64 {
	if !p.Spreads() {
		return 0
	}
	return float64(len(p.spreadingSteps())) * settings.ComputationTimeInterval
}

// NonIndependentROS averages the horizontal run over the time from the
// start of the run to the end of the path.
func (p IgnitionPath) NonIndependentROS() float64 {
	steps := float64(p.start + len(p.segments))
	if steps <= 0 {
		return 0
	}
	return p.MaxHorizontalRun() / (steps * settings.ComputationTimeInterval)
}

func (p IgnitionPath) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v in %v, species %s", p.pathType, p.level, p.species.Name())
	if p.ignited {
		fmt.Fprintf(&b, ", ignited at step %d\n", p.start)
	} else {
		b.WriteString(", not ignited\n")
	}
	for i, s := range p.segments {
		fmt.Fprintf(&b, "%3d %v\n", i, s)
	}
	return b.String()
}
