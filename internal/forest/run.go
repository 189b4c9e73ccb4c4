package forest

import (
	"math"
	"slices"
	"strings"

	"ffm/internal/fire"
	"ffm/internal/geometry"
	"ffm/internal/plant"
	"ffm/internal/settings"
)

// RunType says whether the canopy took part in the wind field of a run.
type RunType int

const (
	UnknownRun RunType = iota
	WithCanopy
	WithoutCanopy
)

func (t RunType) String() string {
	switch t {
	case WithCanopy:
		return "With canopy"
	case WithoutCanopy:
		return "Without canopy"
	default:
		return "Unknown run type"
	}
}

// IgnitionRun is everything one pass through the strata produced: the
// ignition paths of each species, plant and stratum, and the combined
// flames of all connected strata.
type IgnitionRun struct {
	Type           RunType
	Forest         Forest
	paths          []fire.IgnitionPath
	combinedFlames []fire.Flame
	connected      map[plant.Level]bool
}

// Paths are ordered by level, bottom first.
func (r IgnitionRun) Paths() []fire.IgnitionPath { return slices.Clone(r.paths) }

func (r IgnitionRun) CombinedFlames() []fire.Flame { return slices.Clone(r.combinedFlames) }

// Connected reports whether the flames of level reached the stratum above.
func (r IgnitionRun) Connected(level plant.Level) bool { return r.connected[level] }

func (r *IgnitionRun) addPath(p fire.IgnitionPath) {
	r.paths = append(r.paths, p)
	slices.SortStableFunc(r.paths, func(a, b fire.IgnitionPath) int { return int(a.Level()) - int(b.Level()) })
}

// selectPaths yields the paths of a level and type.
func (r IgnitionRun) selectPaths(level plant.Level, t fire.PathType) []fire.IgnitionPath {
	var out []fire.IgnitionPath
	for _, p := range r.paths {
		if p.Level() == level && p.Type() == t {
			out = append(out, p)
		}
	}
	return out
}

// findPath finds the path computed for sp.
func (r IgnitionRun) findPath(sp plant.Species, level plant.Level, t fire.PathType) (fire.IgnitionPath, bool) {
	for _, p := range r.selectPaths(level, t) {
		if p.Species().SameSpecies(sp) {
			return p, true
		}
	}
	return fire.IgnitionPath{}, false
}

// SpreadsInStratum reports whether any stratum path in level spreads.
func (r IgnitionRun) SpreadsInStratum(level plant.Level) bool {
	for _, p := range r.selectPaths(level, fire.StratumPath) {
		if p.Spreads() && p.Species().Composition() > 0 {
			return true
		}
	}
	return false
}

// sortedFlameLengths are the flame lengths of a path, longest first.
func sortedFlameLengths(p fire.IgnitionPath) []float64 {
	segs := p.SortedSegments()
	out := make([]float64, len(segs))
	for i, s := range segs {
		out[i] = p.Species().FlameLength(s.Length())
	}
	return out
}

// WeightedFlameLengths sums the longest-first flame lengths of every path
// of the level and type, weighted by composition, one entry per time step.
func (r IgnitionRun) WeightedFlameLengths(level plant.Level, t fire.PathType) []float64 {
	out := make([]float64, settings.MaxTimeSteps)
	for _, p := range r.selectPaths(level, t) {
		comp := p.Species().Composition()
		for i, fl := range sortedFlameLengths(p) {
			out[i] += comp * fl
		}
	}
	return out
}

// FlameLengthsBySpecies gives the unweighted longest-first flame lengths
// of each species.
func (r IgnitionRun) FlameLengthsBySpecies(level plant.Level, t fire.PathType) map[plant.Key][]float64 {
	out := map[plant.Key][]float64{}
	for _, p := range r.selectPaths(level, t) {
		if p.HasSegments() {
			out[p.Species().Key()] = sortedFlameLengths(p)
		}
	}
	return out
}

// LaterallyMergedPlantFlameLengths merges the weighted plant flame lengths
// across the fireline.
func (r IgnitionRun) LaterallyMergedPlantFlameLengths(level plant.Level, fireline float64) []float64 {
	st := r.Forest.Stratum(level)
	w, sep := st.AvWidth(), st.ModelPlantSep()
	out := r.WeightedFlameLengths(level, fire.PlantPath)
	for i, fl := range out {
		if fl > 0 {
			out[i] = fire.LaterallyMergedFlameLength(fl, fireline, w, sep)
		}
	}
	return out
}

func (r IgnitionRun) weighted(level plant.Level, t fire.PathType, onlyIgnited bool, get func(fire.IgnitionPath) float64) float64 {
	var sum float64
	for _, p := range r.selectPaths(level, t) {
		if onlyIgnited && !p.HasSegments() {
			continue
		}
		sum += p.Species().Composition() * get(p)
	}
	return sum
}

// WeightedBasicROS is the composition-weighted basic ROS of the stratum
// paths of level.
func (r IgnitionRun) WeightedBasicROS(level plant.Level) float64 {
	return r.weighted(level, fire.StratumPath, false, fire.IgnitionPath.BasicROS)
}

// WeightedIgnitionTimeStep is the composition-weighted first ignited step.
func (r IgnitionRun) WeightedIgnitionTimeStep(level plant.Level, t fire.PathType) float64 {
	return r.weighted(level, t, true, func(p fire.IgnitionPath) float64 {
		s, _ := p.StartTimeStep()
		return float64(s)
	})
}

func (r IgnitionRun) WeightedTimeStepsIgnitionToMaxFlame(level plant.Level, t fire.PathType) float64 {
	return r.weighted(level, t, true, func(p fire.IgnitionPath) float64 {
		return float64(p.TimeStepsIgnitionToMaxFlame())
	})
}

// WeightedOriginOfMaxFlame is the composition-weighted start of each
// path's longest segment.
func (r IgnitionRun) WeightedOriginOfMaxFlame(level plant.Level, t fire.PathType) geometry.Point {
	var sum geometry.Point
	for _, p := range r.selectPaths(level, t) {
		if p.HasSegments() {
			sum = sum.Add(p.OriginOfMaxSegment().Scale(p.Species().Composition()))
		}
	}
	return sum
}

// WeightedMaxHeightBurnt takes for each species of level the higher of its
// plant and stratum paths, weighted by composition.
func (r IgnitionRun) WeightedMaxHeightBurnt(level plant.Level) float64 {
	if len(r.paths) == 0 {
		return 0
	}
	slope := r.Forest.Surface.Slope
	var sum float64
	for _, sp := range r.Forest.Stratum(level).Species() {
		var h float64
		if p, ok := r.findPath(sp, level, fire.StratumPath); ok {
			h = p.MaxHeightBurnt(slope)
		}
		if p, ok := r.findPath(sp, level, fire.PlantPath); ok {
			h = math.Max(h, p.MaxHeightBurnt(slope))
		}
		sum += sp.Composition() * h
	}
	return sum
}

// ActiveCrownFireROS is the horizontal distance covered from the surface
// to the far end of the canopy run, divided by the time taken to ignite
// each stratum in turn plus the time spent spreading. It needs the flame
// angles of the strata below the canopy from res.
func (r IgnitionRun) ActiveCrownFireROS(res Results) (float64, bool) {
	f := r.Forest
	dt := settings.ComputationTimeInterval
	var timeSum, distSum float64
	for _, st := range f.strata {
		lev := st.Level()
		timeSum += (r.WeightedIgnitionTimeStep(lev, fire.PlantPath) +
			r.WeightedTimeStepsIgnitionToMaxFlame(lev, fire.PlantPath) +
			r.WeightedIgnitionTimeStep(lev, fire.StratumPath)) * dt
		if lev == plant.Canopy {
			continue
		}
		next := f.NextLevel(lev)
		if next == plant.Unknown {
			continue
		}
		nextStep := int(math.Floor(r.WeightedIgnitionTimeStep(next, fire.PlantPath)))

		// where the stratum fire had reached when the next stratum ignites
		var origin geometry.Point
		for _, sp := range st.Species() {
			if p, ok := r.findPath(sp, lev, fire.StratumPath); ok && p.HasSegments() {
				i := max(0, min(p.NumSegments()-1, nextStep-1))
				origin = origin.Add(p.Origin(i).Scale(sp.Composition()))
			} else if p, ok := r.findPath(sp, lev, fire.PlantPath); ok && p.HasSegments() {
				origin = origin.Add(p.Origin(p.NumSegments() - 1).Scale(sp.Composition()))
			}
		}
		distSum += origin.X + 0.5*st.AvWidth()

		sr, ok := res.Stratum(lev)
		if !ok {
			return 0, false
		}
		bottom := geometry.NewLine(geometry.Pt(0, f.Stratum(next).AvBottom()), f.Surface.Slope)
		if pt, ok := geometry.RayFromAngle(origin, sr.FlameAngle).IntersectsLine(bottom); ok {
			distSum += pt.X - origin.X
		}
	}

	for _, sp := range f.Stratum(plant.Canopy).Species() {
		if p, ok := r.findPath(sp, plant.Canopy, fire.StratumPath); ok {
			distSum += (p.MaxX() + 0.5*sp.Width()) * sp.Composition()
		} else if p, ok := r.findPath(sp, plant.Canopy, fire.PlantPath); ok {
			distSum += (p.MaxX() + 0.5*sp.Width()) * sp.Composition()
		}
	}

	var spread float64
	for _, p := range r.paths {
		spread += p.TimeOfSpread() * p.Species().Composition()
	}
	if timeSum+spread <= 0 {
		return 0, false
	}
	return distSum / (timeSum + spread), true
}

func (r IgnitionRun) String() string {
	var b strings.Builder
	for _, p := range r.paths {
		b.WriteString("Run type:                 " + r.Type.String() + "\n")
		b.WriteString(p.String())
		b.WriteString("\n")
	}
	return b.String()
}
