package forest

import (
	"fmt"
	"math"

	"ffm/internal/fire"
	"ffm/internal/geometry"
	"ffm/internal/numerics"
	"ffm/internal/plant"
	"ffm/internal/settings"
)

// stratumLength is how far the synthetic crown used for stratum spread
// reaches downwind (m).
const stratumLength = 10000

// Location is a forest site under given weather, wind and fireline length.
type Location struct {
	Forest         Forest
	Weather        Weather
	IncidentWind   float64 // m/s above the vegetation
	FirelineLength float64 // m
}

func (l Location) Slope() float64 { return l.Forest.Surface.Slope }

func (l Location) String() string {
	return fmt.Sprintf("Location input data\n\nMiscellaneous:\n\nIncident wind speed (km/h): %.1f\nFireline length (m)): %.0f\n\nWeather:\n\n%v\nForest:\n\n%v",
		l.IncidentWind*3.6, l.FirelineLength, l.Weather, l.Forest)
}

// runState carries what one pass through the strata hands from each
// stratum to the ones above it.
type runState struct {
	loc           Location
	includeCanopy bool
	run           IgnitionRun

	surfaceWind   float64
	surfaceFlames []fire.Flame
	heating       []fire.PreHeatingFlame
	heatingStart  float64
	heatingCutoff float64
	series        []fire.FlameSeries
	connected     map[plant.Level]bool
}

func (s *runState) wind(z float64) float64 {
	return s.loc.Forest.WindProfile(s.loc.IncidentWind, z, s.includeCanopy)
}

func (s *runState) seriesFor(level plant.Level) (fire.FlameSeries, bool) {
	for _, fs := range s.series {
		if fs.Level == level {
			return fs, true
		}
	}
	return fire.FlameSeries{}, false
}

// combined adds to the surface flames the representative flames of every
// stratum for which include holds. The flames are merged under a wind
// averaged over the strata, weighted by flame length.
func (s *runState) combined(include func(st Stratum) bool) []fire.Flame {
	flames := append([]fire.Flame(nil), s.surfaceFlames...)
	if len(s.series) == 0 {
		return flames
	}
	var flameSum float64
	if len(s.surfaceFlames) > 0 {
		flameSum = s.surfaceFlames[0].Length
	}
	wind := s.surfaceWind * flameSum
	var parts []fire.FlameSeries
	for _, st := range s.loc.Forest.strata {
		fs, ok := s.seriesFor(st.Level())
		if !ok || !include(st) {
			continue
		}
		l := fs.CappedMaxFlameLength()
		wind += l * s.wind(st.AvMidHeight())
		flameSum += l
		parts = append(parts, fs)
	}
	if flameSum > 0 {
		wind /= flameSum
	} else {
		wind = 0
	}
	for _, fs := range parts {
		flames = fire.CombineFlames(flames, fs.Flames, wind, s.loc.Slope(), s.loc.FirelineLength)
	}
	return flames
}

// ignitionRun passes the fire up through the strata. In each stratum every
// species is first ignited as a single plant from five points along its
// crown base. The best scenario's flames, species-weighted and merged
// across the fireline, then ignite the stratum as one long crown. The
// longer of the two flame series represents the stratum to the strata
// above, both as incident flame and as pre-heating.
func (l Location) ignitionRun(includeCanopy bool) IgnitionRun {
	s := &runState{
		loc:           l,
		includeCanopy: includeCanopy,
		run:           IgnitionRun{Type: WithoutCanopy, Forest: l.Forest},
		connected:     map[plant.Level]bool{},
	}
	if includeCanopy {
		s.run.Type = WithCanopy
	}
	f := l.Forest
	slope := l.Slope()
	dt := settings.ComputationTimeInterval

	s.surfaceWind = s.wind(f.HeightForSurfaceWind())
	sfl := f.Surface.FlameLength(s.surfaceWind)
	sfa := fire.FlameAngle(sfl, s.surfaceWind, slope, l.FirelineLength)
	sfrt := f.Surface.FlameResidenceTime()
	surfaceFlame := fire.NewFlame(sfl, sfa, geometry.Point{}, 0, settings.MainFlameDeltaTemp)
	s.surfaceFlames = make([]fire.Flame, int(math.Round(sfrt/dt)))
	for i := range s.surfaceFlames {
		s.surfaceFlames[i] = surfaceFlame
	}
	s.heating = []fire.PreHeatingFlame{{Level: plant.Surface, Flame: surfaceFlame, Start: 0, End: sfrt}}

	for _, st := range f.strata {
		s.igniteStratum(st)
	}

	s.run.connected = s.connected
	s.run.combinedFlames = s.combined(func(st Stratum) bool {
		return s.connected[st.Level()] || f.VerticalAssociation(st.Level(), plant.Canopy) || st.Level() == plant.Canopy
	})
	return s.run
}

// scenarioBetter prefers the path with the longest ignited segment, and
// among paths that never ignited the one that got hottest.
func scenarioBetter(cand, best fire.IgnitionPath) bool {
	if cand.HasSegments() {
		return !best.HasSegments() || numerics.Gt(cand.MaxSegmentLength(), best.MaxSegmentLength())
	}
	if best.HasSegments() {
		return false
	}
	ct, ok := cand.MaxPreIgnitionTemperature()
	if !ok {
		return false
	}
	bt, ok := best.MaxPreIgnitionTemperature()
	return !ok || numerics.Gt(ct, bt)
}

func (s *runState) igniteStratum(st Stratum) {
	l := s.loc
	f := l.Forest
	slope := l.Slope()
	level := st.Level()
	dt := settings.ComputationTimeInterval

	incident := s.combined(func(lower Stratum) bool {
		return lower.Level() < level && (s.connected[lower.Level()] || f.VerticalAssociation(lower.Level(), level))
	})
	wind := s.wind(st.AvMidHeight())
	heating := fire.NewHeating(s.heating)
	connection := false

	steps := fire.NewSteps()
	var front geometry.Point
	var ignitionTime float64

	for _, sp := range st.Species() {
		comp := sp.Composition()
		var best fire.IgnitionPath
		for k := -2; k <= 2; k++ {
			pt := sp.Crown().PointInBase(0.25 * float64(k) * sp.Width())
			if ground := pt.X * math.Tan(slope); pt.Y < ground {
				pt.Y = ground
			}
			p := fire.ComputePath(fire.PathInput{
				Type:          fire.PlantPath,
				Level:         level,
				Species:       sp,
				Incident:      incident,
				Heating:       heating,
				HeatingCutoff: s.heatingCutoff,
				Wind:          wind,
				Slope:         slope,
				AirTemp:       l.Weather.AirTemp,
				Initial:       pt,
			})
			if scenarioBetter(p, best) {
				best = p
			}
		}
		if !best.HasSegments() && !best.HasPreIgnitionData() {
			continue
		}
		s.run.addPath(best)
		if !best.HasSegments() {
			continue
		}
		ignitionTime += (best.TimeToIgnition() + best.TimeIgnitionToMaxFlame()) * comp
		sorted := best.SortedSegments()
		deltaT := fire.FlameDeltaTemperature(sp, level)
		for i, seg := range sorted {
			if numerics.Leq(seg.Length(), 0) {
				break
			}
			fl := sp.FlameLength(seg.Length())
			if !connection && flameConnects(seg, fl, fire.WindEffectFlameAngle(fl, wind, slope), sp.Width()) {
				connection = true
			}
			steps[i].Add(comp, fl, seg, deltaT)
		}
		front = front.Add(sorted[0].Start.Scale(comp))
	}

	if numerics.Gt(steps[0].Length, 0) {
		fire.NormalizeSteps(steps)
		for i := range steps {
			if numerics.Leq(steps[i].Length, 0) {
				break
			}
			steps[i].Length = fire.LaterallyMergedFlameLength(steps[i].Length, l.FirelineLength, st.AvWidth(), st.ModelPlantSep())
		}
		plantSeries := fire.StepSeries(level, steps, wind, slope)

		s.heatingStart += ignitionTime
		s.heatingCutoff = s.heatingStart

		var canopyHeating float64
		if level == plant.Canopy {
			canopyHeating = s.canopyHeatingDistance(st)
		}

		stratumSeries := s.stratumSeries(st, plantSeries, front, canopyHeating, wind)

		rep := plantSeries
		if !stratumSeries.IsNull() && stratumSeries.Flames[0].Length >= plantSeries.Flames[0].Length {
			rep = stratumSeries
		}
		s.series = append(s.series, rep)

		mfl := rep.MeanFlameLength()
		s.heating = append(s.heating, fire.PreHeatingFlame{
			Level: level,
			Flame: fire.NewFlame(mfl, fire.WindEffectFlameAngle(mfl, wind, slope), rep.MeanOrigin(),
				rep.MeanDepthIgnited(), rep.MeanDeltaTemperature()),
			Start: s.heatingStart,
			End:   s.heatingStart + float64(rep.NonNullCount())*dt,
		})

		if !stratumSeries.IsNull() && stratumSeries.Flames[0].Length > plantSeries.Flames[0].Length {
			connection = true
		}
	}
	if connection {
		s.connected[level] = true
	}
}

// flameConnects reports whether a plant flame of the given length and
// angle, rising from the start of seg, reaches past the edge of a crown of
// the given width.
func flameConnects(seg geometry.Segment, length, angle, width float64) bool {
	return seg.Start.X+length*math.Cos(angle) > 0.5*width
}

// stratumPolygon is the stratum drawn as one crown: from the far edge of
// the first plant gap it runs stratumLength metres downwind between the
// mean bottom and top, parallel to the slope.
func stratumPolygon(st Stratum, slope float64) geometry.Polygon {
	t := math.Tan(slope)
	x0 := st.ModelPlantSep() - 0.5*st.AvWidth()
	x1 := x0 + stratumLength
	return geometry.NewPolygon([]geometry.Point{
		geometry.Pt(x0, st.AvTop()+x0*t),
		geometry.Pt(x0, st.AvBottom()+x0*t),
		geometry.Pt(x1, st.AvBottom()+x1*t),
		geometry.Pt(x1, st.AvTop()+x1*t),
	})
}

// stratumSeries ignites each species of st as if the whole stratum were
// made of it, starting where the plant flames front meets the stratum.
func (s *runState) stratumSeries(st Stratum, plantSeries fire.FlameSeries, front geometry.Point, canopyHeating, wind float64) fire.FlameSeries {
	l := s.loc
	slope := l.Slope()
	level := st.Level()
	poly := stratumPolygon(st, slope)
	steps := fire.NewSteps()

	start, ok := geometry.RayFromAngle(front, plantSeries.Flames[0].Angle).IntersectsPolygon(poly)
	for _, sp := range st.Species() {
		if !ok {
			break
		}
		comp := sp.Composition()
		big := sp.WithCrown(poly, sp.Width(), math.Max(sp.ClumpSeparation(), st.ModelPlantSep()-st.AvWidth()))
		p := fire.ComputePath(fire.PathInput{
			Type:                  fire.StratumPath,
			Level:                 level,
			Species:               big,
			Incident:              plantSeries.Flames,
			CanopyHeatingDistance: canopyHeating,
			Wind:                  wind,
			Slope:                 slope,
			AirTemp:               l.Weather.AirTemp,
			Initial:               start,
		})
		if !p.HasSegments() {
			continue
		}
		s.run.addPath(p)
		deltaT := fire.FlameDeltaTemperature(sp, level)
		for i, seg := range p.SortedSegments() {
			steps[i].Add(comp, sp.FlameLength(seg.Length()), seg, deltaT)
		}
	}
	fire.NormalizeSteps(steps)
	return fire.StepSeries(level, steps, wind, slope)
}

// canopyHeatingDistance is how far along the canopy base the lower strata
// plumes still reach MinTempForCanopyHeating. Each lower series plume is
// followed from its own origin, so the horizontal offsets of successive
// plumes are accumulated and removed at the end.
func (s *runState) canopyHeatingDistance(canopy Stratum) float64 {
	slope := s.loc.Slope()
	base := geometry.NewLine(geometry.Pt(0, canopy.AvBottom()), slope)
	var dist, offset float64
	for i, fs := range s.series {
		if len(fs.Flames) == 0 {
			continue
		}
		fl := fs.Flames[0]
		plume := fl.Plume()
		pt, ok := plume.IntersectsLine(base)
		if ok && fl.PlumeTemperatureAt(pt, s.loc.Weather.AirTemp) >= settings.MinTempForCanopyHeating {
			dist = math.Max(dist, pt.X+offset)
		}
		if i < len(s.series)-1 {
			next := s.loc.Forest.Stratum(s.series[i+1].Level)
			if p, ok := plume.IntersectsLine(geometry.NewLine(geometry.Pt(0, next.AvBottom()), slope)); ok {
				pt = p
			}
		}
		offset += pt.X
	}
	return dist - offset
}
