package forest

import (
	"math"

	"ffm/internal/fire"
	"ffm/internal/geometry"
	"ffm/internal/plant"
	"ffm/internal/settings"
	"ffm/internal/stats"
)

// CrownFireType classifies the canopy behaviour of a fire.
type CrownFireType int

const (
	Unclassified CrownFireType = iota
	Passive
	Active
)

func (c CrownFireType) String() string {
	switch c {
	case Passive:
		return "Passive"
	case Active:
		return "Active"
	default:
		return "Unclassified"
	}
}

// StratumResults are the reported values for one stratum. Rates are in
// m/s, lengths and heights in m, angles in radians.
type StratumResults struct {
	Level             plant.Level
	ROS               float64
	FlameLength       float64
	FlameAngle        float64
	FlameOriginHeight float64
	FlameTipHeight    float64
	ProportionBurnt   float64
	SpeciesTipHeights map[plant.Key]float64
}

// Results are the outputs of Location.Results.
type Results struct {
	ROS               float64
	FlameLength       float64
	FlameAngle        float64
	FlameOriginHeight float64
	FlameTipHeight    float64
	FlameDepth        float64

	SurfaceROS         float64
	SurfaceFlameLength float64
	SurfaceFlameAngle  float64
	SurfaceFlameHeight float64

	CrownFireType       CrownFireType
	CrownRunLength      float64
	CrownRunVelocity    float64
	WindReductionFactor float64

	ScorchHeightMcArthur          float64
	ScorchHeightLukeMcArthur      float64
	ScorchHeightVanWagner         float64
	ScorchHeightVanWagnerWithWind float64

	Strata []StratumResults
	Runs   []IgnitionRun
}

// Stratum finds the results for level.
func (r Results) Stratum(level plant.Level) (StratumResults, bool) {
	for _, sr := range r.Strata {
		if sr.Level == level {
			return sr, true
		}
	}
	return StratumResults{}, false
}

// RunTwoExists reports whether the canopy spread and the forest was run a
// second time without the canopy in the wind field.
func (r Results) RunTwoExists() bool { return len(r.Runs) == 2 }

// flameHeights gives the height above the ground of a flame's origin and
// of its tip.
func flameHeights(origin geometry.Point, length, angle, slope float64) (originHt, tipHt float64) {
	t := math.Tan(slope)
	originHt = origin.Y - origin.X*t
	tipHt = origin.Y + length*math.Sin(angle) - (origin.X+length*math.Cos(angle))*t
	return originHt, tipHt
}

// Results runs the forest and aggregates the runs into the reported values.
// The forest is first run with the canopy in the wind field. If the canopy
// then spreads it is run again without it, since an active crown fire
// opens the canopy to the wind.
func (l Location) Results() Results {
	var res Results
	first := l.ignitionRun(true)
	res.Runs = append(res.Runs, first)
	run := first
	if first.SpreadsInStratum(plant.Canopy) {
		run = l.ignitionRun(false)
		res.Runs = append(res.Runs, run)
	}
	withCanopy := !res.RunTwoExists()
	f := l.Forest
	slope := l.Slope()

	sws := f.WindProfile(l.IncidentWind, f.HeightForSurfaceWind(), withCanopy)
	res.SurfaceROS = f.Surface.ROS(sws)
	res.SurfaceFlameLength = f.Surface.FlameLength(sws)
	res.SurfaceFlameAngle = fire.FlameAngle(res.SurfaceFlameLength, sws, slope, l.FirelineLength)
	_, res.SurfaceFlameHeight = flameHeights(geometry.Point{}, res.SurfaceFlameLength, res.SurfaceFlameAngle, slope)

	for _, st := range f.strata {
		res.Strata = append(res.Strata, l.stratumResults(st, run, res))
	}

	res.ROS = res.SurfaceROS
	res.FlameTipHeight = res.SurfaceFlameHeight
	for _, sr := range res.Strata {
		res.ROS = math.Max(res.ROS, sr.ROS)
		if sr.FlameTipHeight > res.FlameTipHeight {
			res.FlameTipHeight = sr.FlameTipHeight
			res.FlameOriginHeight = sr.FlameOriginHeight
		}
	}

	res.WindReductionFactor = 1
	if l.IncidentWind > 0 {
		res.WindReductionFactor = l.IncidentWind / f.WindProfile(l.IncidentWind, 1.5, true)
	}

	angleSum := res.SurfaceFlameAngle * res.SurfaceFlameLength
	lengthSum := res.SurfaceFlameLength
	for _, sr := range res.Strata {
		angleSum += sr.FlameAngle * sr.FlameLength
		lengthSum += sr.FlameLength
	}
	if lengthSum > 0 {
		res.FlameAngle = angleSum / lengthSum
	}

	lengths := make([]float64, len(run.combinedFlames))
	for i, fl := range run.combinedFlames {
		if fl.Length >= 0.01 {
			lengths[i] = fl.Length
		}
	}
	res.FlameLength = stats.Mean(lengths, true)
	for _, sr := range res.Strata {
		res.FlameLength = math.Max(res.FlameLength, sr.FlameLength)
	}

	l.scorchHeights(&res)

	if sr, ok := res.Stratum(plant.Canopy); ok {
		res.CrownFireType = classifyCrownFire(sr.FlameLength, run.SpreadsInStratum(plant.Canopy))
	}

	if run.SpreadsInStratum(plant.Canopy) {
		for _, p := range run.selectPaths(plant.Canopy, fire.StratumPath) {
			res.CrownRunLength = math.Max(res.CrownRunLength, p.MaxHorizontalRun())
		}
	}
	res.CrownRunVelocity = run.WeightedBasicROS(plant.Canopy)

	res.FlameDepth = f.Surface.FlameResidenceTime() * res.SurfaceROS
	for _, sr := range res.Strata {
		if run.SpreadsInStratum(sr.Level) {
			res.FlameDepth = math.Max(res.FlameDepth, f.Stratum(sr.Level).AvFlameDuration()*sr.ROS)
		}
	}
	return res
}

// classifyCrownFire calls a canopy flame of at least half a metre a crown
// fire, active when it spreads through the canopy and passive otherwise.
func classifyCrownFire(canopyFlameLength float64, spreads bool) CrownFireType {
	switch {
	case canopyFlameLength < 0.5:
		return Unclassified
	case spreads:
		return Active
	default:
		return Passive
	}
}

func (l Location) scorchHeights(res *Results) {
	res.ScorchHeightMcArthur = 5.232 * math.Pow(res.FlameTipHeight, 0.7)
	res.ScorchHeightLukeMcArthur = 6 * res.FlameTipHeight

	// Byram intensity in kW/m
	intensity := 18000 * l.Forest.Surface.FuelLoad * res.ROS
	res.ScorchHeightVanWagner = 0.1483 * math.Pow(intensity, 0.667)

	wind := l.Forest.WindProfile(l.IncidentWind, 1.2, !res.RunTwoExists()) * 3.6
	denom := math.Sqrt(0.025574*intensity+0.021433*math.Pow(wind, 3)) * (60 - l.Weather.AirTemp)
	if denom > 0 {
		res.ScorchHeightVanWagnerWithWind = 0.74183 * math.Pow(intensity, 0.667) / denom
	}
}

// representativeFlame picks between the laterally merged plant flames and
// the stratum flames of a run, whichever has the larger capped maximum.
func representativeFlame(run IgnitionRun, level plant.Level, fireline float64) (float64, geometry.Point) {
	pfl := stats.CappedMax(run.LaterallyMergedPlantFlameLengths(level, fireline), true)
	sfl := stats.CappedMax(run.WeightedFlameLengths(level, fire.StratumPath), true)
	if pfl > sfl {
		return pfl, run.WeightedOriginOfMaxFlame(level, fire.PlantPath)
	}
	return sfl, run.WeightedOriginOfMaxFlame(level, fire.StratumPath)
}

func (l Location) stratumResults(st Stratum, run IgnitionRun, res Results) StratumResults {
	f := l.Forest
	slope := l.Slope()
	level := st.Level()
	sr := StratumResults{Level: level}

	// The canopy reports the longest flame of either run. Other strata use
	// the last run.
	runs := []IgnitionRun{run}
	if level == plant.Canopy {
		runs = res.Runs
	}
	var origin geometry.Point
	for i, r := range runs {
		fl, o := representativeFlame(r, level, l.FirelineLength)
		if i == 0 || fl > sr.FlameLength {
			sr.FlameLength, origin = fl, o
		}
	}

	wind := f.WindProfile(l.IncidentWind, st.AvMidHeight(), !res.RunTwoExists())
	if level == plant.Canopy {
		sr.FlameAngle = fire.WindEffectFlameAngle(sr.FlameLength, wind, slope)
	} else {
		sr.FlameAngle = fire.FlameAngle(sr.FlameLength, wind, slope, l.FirelineLength)
	}
	sr.FlameOriginHeight, sr.FlameTipHeight = flameHeights(origin, sr.FlameLength, sr.FlameAngle, slope)
	sr.SpeciesTipHeights = speciesTipHeights(runs, level, sr.FlameAngle, slope)

	switch level {
	case plant.NearSurface:
		sr.ROS = nearSurfaceROS(st, run, res.SurfaceROS)
	case plant.Elevated, plant.MidStorey:
		sr.ROS = stratumROS(level, run, sr.FlameAngle, slope)
	case plant.Canopy:
		for _, r := range res.Runs {
			if !r.SpreadsInStratum(plant.Canopy) {
				continue
			}
			ros := r.WeightedBasicROS(plant.Canopy)
			if active, ok := r.ActiveCrownFireROS(res); ok {
				ros = math.Min(ros, active)
			}
			sr.ROS = math.Max(sr.ROS, ros)
		}
	}

	var maxHt float64
	for _, r := range res.Runs {
		maxHt = math.Max(maxHt, r.WeightedMaxHeightBurnt(level))
	}
	if depth := st.AvTop() - st.AvBottom(); depth > 0 {
		sr.ProportionBurnt = math.Min(1, math.Max(0, (maxHt-st.AvBottom())/depth))
	}
	return sr
}

// speciesTipHeights places each species' longest flame at the start of its
// longest ignited segment, leaning at the stratum flame angle.
func speciesTipHeights(runs []IgnitionRun, level plant.Level, angle, slope float64) map[plant.Key]float64 {
	out := map[plant.Key]float64{}
	for _, r := range runs {
		for _, p := range r.paths {
			if p.Level() != level || !p.HasSegments() {
				continue
			}
			_, tip := flameHeights(p.OriginOfMaxSegment(), p.MaxFlameLength(), angle, slope)
			k := p.Species().Key()
			if h, ok := out[k]; !ok || tip > h {
				out[k] = tip
			}
		}
	}
	return out
}

// nearSurfaceROS blends each species' plant ROS with the surface ROS by
// how much of the ground its crowns cover, then lets a spreading stratum
// fire raise it.
func nearSurfaceROS(st Stratum, run IgnitionRun, surfaceROS float64) float64 {
	spreads := run.SpreadsInStratum(st.Level())
	var ros float64
	for _, sp := range st.Species() {
		var r float64
		if p, ok := run.findPath(sp, st.Level(), fire.PlantPath); ok {
			cover := math.Min(1, p.Species().Width()/st.ModelPlantSep())
			r = cover*p.BasicROS() + (1-cover)*surfaceROS
		}
		if spreads {
			if p, ok := run.findPath(sp, st.Level(), fire.StratumPath); ok {
				r = math.Max(r, p.BasicROS())
			}
		}
		ros += r * sp.Composition()
	}
	return ros
}

// stratumROS is the ROS of an elevated or mid-storey stratum. A fire that
// lies close to the slope and still advances at the end of its run
// spreads independently at its basic ROS. Otherwise the ROS is the
// distance run divided by the time from first exposure.
func stratumROS(level plant.Level, run IgnitionRun, flameAngle, slope float64) float64 {
	if !run.SpreadsInStratum(level) {
		return 0
	}
	paths := run.selectPaths(level, fire.StratumPath)
	if flameAngle <= slope+settings.IndependentSpreadSensitivity {
		var late float64
		for _, p := range paths {
			if p.FullSize() {
				n := p.NumSegments()
				late += 0.5 * (p.ROS(n-1) + p.ROS(n-2)) * p.Species().Composition()
			}
		}
		if late >= settings.MinRateForStratumSpread {
			return run.WeightedBasicROS(level)
		}
	}
	var dist, time float64
	for _, p := range paths {
		if !p.Spreads() {
			continue
		}
		comp := p.Species().Composition()
		start, _ := p.StartTimeStep()
		dist += p.MaxHorizontalRun() * comp
		time += float64(start+p.NumSegments()) * settings.ComputationTimeInterval * comp
	}
	if time <= 0 {
		return 0
	}
	return dist / time
}
