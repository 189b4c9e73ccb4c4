package fire

import (
	"math"

	"ffm/internal/geometry"
	"ffm/internal/numerics"
	"ffm/internal/plant"
	"ffm/internal/settings"
)

// PathInput describes one ignition path computation.
type PathInput struct {
	Type    PathType
	Level   plant.Level
	Species plant.Species

	// Incident holds one flame per time step from the levels below, the
	// first element acting in step 1.
	Incident []Flame
	// Heating dries the crown before and during the run.
	Heating Heating
	// HeatingCutoff ends pre-heating at this time (s); 0 means no cutoff.
	HeatingCutoff float64
	// CanopyHeatingDistance is the distance into the canopy heated to
	// MinTempForCanopyHeating. Beyond it, stratum flames in the canopy burn
	// for a reduced residence time.
	CanopyHeatingDistance float64

	Wind    float64 // m/s
	Slope   float64 // rad
	AirTemp float64 // °C
	Initial geometry.Point
}

type engine struct {
	in        PathInput
	path      IgnitionPath
	surface   geometry.Line
	idtFactor float64
	ignTemp   float64
	heating   []PreHeatingFlame
	plant     []Flame
}

// ComputePath burns a crown step by step. Each step the incident flame and
// the previous plant flame each define a potential path through the crown;
// the longer one is tested in NumPenetrationSteps pieces and the piece ends
// up ignited if its ignition delay time, shortened by drying, fits in a
// single step. The path stops when nothing more can ignite or after
// MaxTimeSteps ignited steps.
func ComputePath(in PathInput) IgnitionPath {
	e := &engine{
		in:        in,
		path:      NewIgnitionPath(in.Type, in.Level, in.Species),
		surface:   geometry.NewLine(geometry.Point{}, in.Slope),
		idtFactor: 1,
		heating:   append([]PreHeatingFlame(nil), in.Heating.Indirect...),
	}
	ignTemp, ok := in.Species.IgnitionTemp()
	if !ok {
		return e.path
	}
	e.ignTemp = ignTemp
	if in.Species.IsGrass() && in.Level == plant.NearSurface {
		e.idtFactor = settings.GrassIDTReduction
	}
	e.run()
	return e.path
}

func (e *engine) dt() float64 { return settings.ComputationTimeInterval }

func (e *engine) idt(temp float64) float64 {
	return e.in.Species.IgnitionDelayTime(temp) * e.idtFactor
}

// modifiedWind slows the wind felt by a stratum fire by the rate at which
// its front advanced in the previous step.
func (e *engine) modifiedWind() float64 {
	n := e.path.NumSegments()
	if e.in.Type == PlantPath || n == 0 {
		return e.in.Wind
	}
	prev := e.in.Initial.X
	if n > 1 {
		prev = e.path.Segment(n - 2).End.X
	}
	return e.in.Wind - math.Max(0, e.path.Segment(n-1).End.X-prev)/e.dt()
}

// incidentOrigin places the origin of an incident flame. For plant paths it
// is moved down to the ground so that the flame passes through pt.
func (e *engine) incidentOrigin(f Flame, pt geometry.Point) geometry.Point {
	if e.in.Type != PlantPath {
		return f.Origin
	}
	o, ok := e.surface.OriginOnLine(f.Angle, pt)
	if !ok {
		return f.Origin
	}
	return o
}

func (e *engine) maxPath(f Flame, from geometry.Point, offset float64) float64 {
	reach, ok := f.InversePlumeTemperature(e.ignTemp, e.in.AirTemp)
	if !ok {
		reach = 0
	}
	return math.Min(geometry.RayFromAngle(from, f.Angle).IntersectionLength(e.in.Species.Crown()),
		math.Max(0, reach-offset))
}

// reoriginHeating slides every pre-heating flame along the ground, keeping
// its angle, until its plume passes through pt.
func (e *engine) reoriginHeating(pt geometry.Point) {
	for i, phf := range e.heating {
		if phf.Flame.IsNull() {
			continue
		}
		if o, ok := geometry.NewLine(phf.Flame.Origin, e.in.Slope).OriginOnLine(phf.Flame.Angle, pt); ok {
			e.heating[i].Flame.Origin = o
		}
	}
}

func (e *engine) run() {
	in := e.in
	dt := e.dt()
	iPt := in.Initial
	counter := 1
	for timeStep := 1; counter <= settings.MaxTimeSteps; timeStep++ {
		wind := e.modifiedWind()

		var plantFlame, incident Flame
		if len(e.plant) > 0 {
			plantFlame = e.plant[len(e.plant)-1]
		}
		if timeStep <= len(in.Incident) {
			incident = in.Incident[timeStep-1]
		}
		if plantFlame.IsNull() && incident.IsNull() {
			if timeStep <= len(in.Incident) {
				continue
			}
			break
		}

		var maxPlant, maxIncident float64
		if !plantFlame.IsNull() {
			maxPlant = e.maxPath(plantFlame, iPt, 0)
		}
		var incidentOrigin geometry.Point
		if !incident.IsNull() {
			incidentOrigin = e.incidentOrigin(incident, iPt)
			maxIncident = e.maxPath(incident, iPt, iPt.Dist(incidentOrigin))
		}

		ePt := iPt
		if numerics.Gt(maxIncident, 0) || numerics.Gt(maxPlant, 0) {
			length, angle := maxIncident, incident.Angle
			if maxPlant > maxIncident {
				length, angle = maxPlant, plantFlame.Angle
			}
			e.reoriginHeating(ePt)
			stepVec := geometry.Pt(math.Cos(angle), math.Sin(angle)).Scale(length / settings.NumPenetrationSteps)

			for step := 1; step <= settings.NumPenetrationSteps; step++ {
				testPt := ePt.Add(stepVec)
				first := iPt.Equal(in.Initial)
				drying := e.dryingFactor(testPt, iPt, timeStep, first && timeStep == 1 && step == 1)

				incidentDist := testPt.Dist(incidentOrigin)
				incidentTemp := incident.PlumeTemperature(incidentDist, in.AirTemp)
				plantTemp := plantFlame.PlumeTemperature(testPt.Dist(plantFlame.Origin), in.AirTemp)
				maxTemp := math.Max(incidentTemp, plantTemp)
				idt := drying * e.idt(maxTemp)

				if first && step == 1 {
					e.path.addPreIgnitionData(IncidentData(incident.Length, incident.DepthIgnited,
						incidentDist, drying, incidentTemp, idt))
				}
				if idt > dt || maxTemp < e.ignTemp {
					break
				}
				ePt = testPt
			}
		}

		if _, ignited := e.path.StartTimeStep(); !ignited && !iPt.Equal(ePt) {
			e.path.markIgnited(timeStep)
		}
		if _, ignited := e.path.StartTimeStep(); !ignited {
			continue
		}

		if !e.path.HasSegments() {
			e.path.addSegment(geometry.NewSegment(iPt, ePt))
		} else {
			segStart := e.segmentStart(e.residenceSteps(iPt))
			if numerics.AlmostZero(maxIncident) && numerics.AlmostZero(maxPlant) && segStart.Equal(ePt) {
				break
			}
			e.path.addSegment(geometry.NewSegment(segStart, ePt))
		}
		e.plant = append(e.plant, e.path.LastFlame(wind, in.Slope))
		iPt = ePt
		counter++
	}
}

// residenceSteps is the number of time steps a flame started at pt keeps
// burning.
func (e *engine) residenceSteps(pt geometry.Point) int {
	residence := e.in.Species.FlameDuration()
	if e.in.Type == StratumPath && e.in.Level == plant.Canopy && pt.X > e.in.CanopyHeatingDistance {
		residence = settings.ReducedCanopyFlameResidenceTime
	}
	return int(math.Ceil(residence / e.dt()))
}

// segmentStart is where the next segment begins when flames burn for fd
// steps: the end of the segment that burnt out, or the path start while
// fewer than fd segments exist.
func (e *engine) segmentStart(fd int) geometry.Point {
	n := e.path.NumSegments()
	if n >= fd {
		return e.path.Segment(n - fd).End
	}
	return e.path.Segment(0).Start
}

// dryingFactor is the fraction of the ignition delay time left at pt after
// drying by pre-heating flames, by the incident flames of earlier steps and
// by the plant's own earlier flames. A factor of 0 means fully dry.
func (e *engine) dryingFactor(pt, iPt geometry.Point, timeStep int, record bool) float64 {
	in := e.in
	dt := e.dt()
	factor := 1.0
	for _, phf := range e.heating {
		if !phf.Flame.IsNull() {
			dist := pt.Dist(phf.Flame.Origin)
			temp := phf.Flame.PlumeTemperature(dist, in.AirTemp)
			duration := phf.DurationUntil(in.HeatingCutoff)
			factor *= math.Max(0, 1-duration/e.idt(temp))
			if record {
				e.path.addPreIgnitionData(PreHeatingData(phf.Flame.Length, phf.Flame.DepthIgnited,
					dist, factor, temp, duration))
			}
		}
		if factor <= 0 {
			return 0
		}
	}

	steps := min(timeStep-1, len(in.Incident))
	for _, f := range in.Incident[:steps] {
		if f.IsNull() {
			continue
		}
		temp := f.PlumeTemperature(pt.Dist(e.incidentOrigin(f, iPt)), in.AirTemp)
		factor *= math.Max(0, 1-dt/e.idt(temp))
	}
	if factor <= 0 {
		return 0
	}

	for _, f := range e.plant {
		if f.IsNull() {
			continue
		}
		factor *= math.Max(0, 1-dt/e.idt(f.PlumeTemperatureAt(pt, in.AirTemp)))
	}
	return factor
}
