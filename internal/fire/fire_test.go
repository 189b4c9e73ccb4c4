package fire

import (
	"math"
	"testing"

	"ffm/internal/geometry"
	"ffm/internal/plant"
	"ffm/internal/settings"
)

func testSpecies() plant.Species {
	crown := geometry.NewPolygon([]geometry.Point{
		geometry.Pt(-1, 0.5), geometry.Pt(1, 0.5), geometry.Pt(1, 2.5), geometry.Pt(-1, 2.5),
	})
	return plant.New(plant.Key{Name: "shrub"}, 1, crown, plant.Traits{
		LiveLeafMoisture: 0.3,
		DeadLeafMoisture: 0.05,
		PropDead:         0.1,
		IgnitionTemp:     260,
		LeafForm:         plant.Flat,
		LeafThickness:    0.0004,
		LeafWidth:        0.01,
		LeafLength:       0.1,
		LeafSeparation:   0.005,
		StemOrder:        2,
		ClumpDiameter:    0.5,
		ClumpSeparation:  0.2,
	})
}

func TestPlumeTemperature(t *testing.T) {
	f := NewFlame(2, math.Pi/2, geometry.Point{}, 0.5, 950)
	if got := f.PlumeTemperature(0.3, 20); got != 970 {
		t.Fatalf("expected full flame temperature inside the burning depth, got %v", got)
	}
	if got := (Flame{}).PlumeTemperature(1, 20); got != 20 {
		t.Fatalf("expected null flame to leave ambient temperature, got %v", got)
	}
	near, far := f.PlumeTemperature(1, 20), f.PlumeTemperature(3, 20)
	if !(near > far && far > 20) {
		t.Fatalf("expected plume to cool with distance, got %v then %v", near, far)
	}
}

func TestInversePlumeTemperature(t *testing.T) {
	f := NewFlame(2, math.Pi/2, geometry.Point{}, 0.5, 950)
	for _, d := range []float64{1, 3} {
		got, ok := f.InversePlumeTemperature(f.PlumeTemperature(d, 20), 20)
		if !ok || math.Abs(got-d) > 1e-9 {
			t.Fatalf("expected inverse to give %v, got %v ok=%v", d, got, ok)
		}
	}
	if _, ok := f.InversePlumeTemperature(1200, 20); ok {
		t.Fatalf("expected target hotter than the flame to fail")
	}
	if _, ok := (Flame{}).InversePlumeTemperature(100, 20); ok {
		t.Fatalf("expected null flame to fail")
	}
}

func TestNewFlameLengthAtLeastDepth(t *testing.T) {
	if f := NewFlame(0.2, 1, geometry.Point{}, 0.5, 950); f.Length != 0.5 {
		t.Fatalf("expected length raised to depth 0.5, got %v", f.Length)
	}
}

func TestWindEffectFlameAngle(t *testing.T) {
	if got := WindEffectFlameAngle(1, 0, 0); got != math.Pi/2 {
		t.Fatalf("expected vertical flame in still air, got %v", got)
	}
	if got := WindEffectFlameAngle(0, 5, 0); got != 0 {
		t.Fatalf("expected zero angle for zero length, got %v", got)
	}
	with, against := WindEffectFlameAngle(1, 3, 0), WindEffectFlameAngle(1, -3, 0)
	if math.Abs(with+against-math.Pi) > 1e-9 {
		t.Fatalf("expected opposing winds to mirror the flame, got %v and %v", with, against)
	}
	if got := WindEffectFlameAngle(0.01, 50, 0.2); got < 0.2+settings.MinFlameSepFromSlope-1e-12 {
		t.Fatalf("expected flame kept off the slope, got %v", got)
	}
}

func TestEffectiveSlope(t *testing.T) {
	if got := EffectiveSlope(0); got != 0 {
		t.Fatalf("expected flat ground to stay flat, got %v", got)
	}
	for _, s := range []float64{0.1, 0.3, 0.7, 1.2} {
		up, down := EffectiveSlope(s), EffectiveSlope(-s)
		if math.Abs(up+down) > 1e-12 {
			t.Fatalf("slope %v: expected %v and %v to mirror", s, up, down)
		}
		if !(up > 0 && up < s) {
			t.Fatalf("slope %v: expected effective slope between 0 and the slope, got %v", s, up)
		}
	}
}

func TestFlameAngleZeroLength(t *testing.T) {
	for _, wind := range []float64{-10, -0.5, 0, 0.5, 10} {
		for _, slope := range []float64{-0.5, -0.1, 0, 0.1, 0.5} {
			if got := FlameAngle(0, wind, slope, 100); got != 0 {
				t.Fatalf("wind %v slope %v: expected 0, got %v", wind, slope, got)
			}
		}
	}
}

func TestFlameAngleChoosesModel(t *testing.T) {
	const length, fireline = 1.5, 100.0
	wind := func(w, s float64) float64 { return WindEffectFlameAngle(length, w, s) }
	slope := func(s float64) float64 { return SlopeEffectFlameAngle(length, s, fireline) }
	tests := []struct {
		name        string
		wind, slope float64
		want        float64
	}{
		{"flat ground follows the wind", 3, 0, wind(3, 0)},
		{"upslope with following wind", 3, 0.3, math.Min(wind(3, 0.3), slope(0.3))},
		{"downslope with downslope wind", -3, -0.3, math.Max(wind(-3, -0.3), slope(-0.3))},
		{"upslope against a light wind", -0.5, 0.3, slope(0.3)},
		{"upslope against a strong wind", -5, 0.3, wind(-5, 0.3)},
		{"downslope against a light wind", 0.5, -0.3, slope(-0.3)},
		{"downslope against a strong wind", 5, -0.3, wind(5, -0.3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FlameAngle(length, tt.wind, tt.slope, fireline); math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSlopeEffectFlameAngle(t *testing.T) {
	sep := settings.MinFlameSepFromSlope
	tests := []struct {
		name                    string
		length, slope, fireline float64
		want                    float64
	}{
		{"zero length", 0, 0.3, 100, 0},
		{"short flame sees the slope", 1, 0.3, 100, math.Pi - 0.3},
		{"long flame sees the effective slope", 200, 0.3, 100, math.Pi - EffectiveSlope(0.3)},
		{"steep upslope clamps to the ground", 1, 1.6, 100, 1.6 + sep},
		{"steep downslope clamps to the ground", 1, -1.6, 100, math.Pi - 1.6 - sep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SlopeEffectFlameAngle(tt.length, tt.slope, tt.fireline); math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func sameFlame(a, b Flame) bool {
	return math.Abs(a.Length-b.Length) <= 1e-9 &&
		math.Abs(a.Angle-b.Angle) <= 1e-9 &&
		a.Origin.Equal(b.Origin) &&
		math.Abs(a.DepthIgnited-b.DepthIgnited) <= 1e-9 &&
		math.Abs(a.DeltaTemperature-b.DeltaTemperature) <= 1e-9
}

func TestCombineCommutes(t *testing.T) {
	a := NewFlame(2, 1.2, geometry.Pt(0, 0), 0.5, 900)
	c := NewFlame(3, 1.0, geometry.Pt(1, 0), 0.4, 700)
	ac, ca := a.Combine(c, 2, 0, 100), c.Combine(a, 2, 0, 100)
	if !sameFlame(ac, ca) {
		t.Fatalf("expected %v, got %v", ac, ca)
	}
	if !ac.Origin.Equal(geometry.Pt(0, 0)) {
		t.Fatalf("expected the leftmost of two level origins, got %v", ac.Origin)
	}
	ac, ca = a.CombineWeighted(c), c.CombineWeighted(a)
	if !sameFlame(ac, ca) {
		t.Fatalf("expected %v, got %v", ac, ca)
	}

	high := NewFlame(2, 1.2, geometry.Pt(0, 0.5), 0.5, 900)
	if got := high.Combine(c, 2, 0, 100).Origin; !got.Equal(c.Origin) {
		t.Fatalf("expected the lower origin %v, got %v", c.Origin, got)
	}
	if got := c.CombineWeighted(high).Origin; !got.Equal(c.Origin) {
		t.Fatalf("expected the lower origin %v, got %v", c.Origin, got)
	}
}

func TestCombineWithNullFlame(t *testing.T) {
	f := NewFlame(2, 1.1, geometry.Pt(0.5, 0.2), 0.5, 900)
	if got := (Flame{}).Combine(f, 2, 0.1, 100); got != f {
		t.Fatalf("expected %v, got %v", f, got)
	}
	if got := f.Combine(Flame{}, 2, 0.1, 100); got != f {
		t.Fatalf("expected %v, got %v", f, got)
	}
	if got := (Flame{}).CombineWeighted(f); got != f {
		t.Fatalf("expected %v, got %v", f, got)
	}
	if got := f.CombineWeighted(Flame{}); got != f {
		t.Fatalf("expected %v, got %v", f, got)
	}
}

func TestPlumeTemperatureContinuous(t *testing.T) {
	f := NewFlame(3, 1, geometry.Pt(0.2, 0.1), 1, 950)
	const eps = 1e-9
	for _, d := range []float64{f.DepthIgnited, f.Length} {
		below, above := f.PlumeTemperature(d-eps, 20), f.PlumeTemperature(d+eps, 20)
		if math.Abs(below-above) > 1e-6 {
			t.Fatalf("expected continuity at %v, got %v and %v", d, below, above)
		}
	}
}

func TestLaterallyMergedFlameLength(t *testing.T) {
	if got, want := LaterallyMergedFlameLength(2, 0.1, 1, 1), 2*math.Pow(1.1, 0.4); math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected spread capped at the fireline length to give %v, got %v", want, got)
	}
	wide, wider := LaterallyMergedFlameLength(2, 100, 1, 1), LaterallyMergedFlameLength(2, 1000, 1, 1)
	if math.Abs(wide-wider) > 1e-9 {
		t.Fatalf("expected no effect from a fireline longer than the spread, got %v and %v", wide, wider)
	}
	if wide <= 2 {
		t.Fatalf("expected neighbouring flames to lengthen the flame, got %v", wide)
	}
}

func TestFlameSeriesStats(t *testing.T) {
	s := FlameSeries{Level: plant.Elevated, Flames: []Flame{
		NewFlame(2, 1, geometry.Pt(0, 0), 0.5, 950),
		{},
		NewFlame(4, 1, geometry.Pt(2, 2), 0.5, 950),
	}}
	if s.NonNullCount() != 2 || s.IsNull() {
		t.Fatalf("expected two non-null flames, got %d", s.NonNullCount())
	}
	if got := s.MeanFlameLength(); got != 3 {
		t.Fatalf("expected mean length 3 ignoring null flames, got %v", got)
	}
	if got := s.MaxFlameLength(); got != 4 {
		t.Fatalf("expected max length 4, got %v", got)
	}
	if !(FlameSeries{}).Empty() || !(FlameSeries{Flames: []Flame{{}}}).IsNull() {
		t.Fatalf("expected empty and null series to report so")
	}
}

func TestHeatingKeepsIndirectFlames(t *testing.T) {
	all := []PreHeatingFlame{
		{Level: plant.NearSurface, Start: 0, End: 5},
		{Level: plant.Elevated, Start: 5, End: 9},
		{Level: plant.MidStorey, Start: 9, End: 12},
	}
	h := NewHeating(all)
	if len(h.Indirect) != 2 || h.Indirect[1].Level != plant.Elevated {
		t.Fatalf("expected near surface and elevated flames, got %+v", h)
	}
	h.Indirect[0].End = 100
	if all[0].End != 5 {
		t.Fatalf("expected heating to copy the flames, got %+v", all[0])
	}
	if h := NewHeating(all[:1]); len(h.Indirect) != 0 {
		t.Fatalf("expected a single flame to heat directly only, got %+v", h)
	}
	if h := NewHeating(nil); len(h.Indirect) != 0 {
		t.Fatalf("expected empty heating, got %+v", h)
	}
	if got := all[1].DurationUntil(7); got != 2 {
		t.Fatalf("expected duration 2 with cutoff, got %v", got)
	}
	if got := all[1].DurationUntil(0); got != 4 {
		t.Fatalf("expected full duration 4 without cutoff, got %v", got)
	}
	if got := all[2].DurationUntil(3); got != 0 {
		t.Fatalf("expected no heating after cutoff, got %v", got)
	}
}

func TestPreIgnitionDataKinds(t *testing.T) {
	d := IncidentData(1, 0.5, 0.3, 0.8, 400, 0.6)
	if d.Kind() != Incident || d.IgnitionDelayTime() != 0.6 {
		t.Fatalf("unexpected incident record %+v", d)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic reading duration from an incident record")
		}
	}()
	_ = d.Duration()
}

func testPath(segs ...geometry.Segment) IgnitionPath {
	p := NewIgnitionPath(StratumPath, plant.Elevated, testSpecies())
	p.markIgnited(2)
	for _, s := range segs {
		p.addSegment(s)
	}
	return p
}

func TestIgnitionPathMeasures(t *testing.T) {
	p := testPath(
		geometry.NewSegment(geometry.Pt(-1, 1), geometry.Pt(0, 1)),
		geometry.NewSegment(geometry.Pt(-1, 1), geometry.Pt(0.5, 2)),
		geometry.NewSegment(geometry.Pt(0, 1), geometry.Pt(0.5, 2)),
	)
	rates := []float64{1, 0.5, 0}
	for i, want := range rates {
		if got := p.ROS(i); math.Abs(got-want) > 1e-9 {
			t.Fatalf("step %d: expected ROS %v, got %v", i, want, got)
		}
	}
	if got := p.BasicROS(); math.Abs(got-0.75) > 1e-9 {
		t.Fatalf("expected basic ROS 0.75, got %v", got)
	}
	if !p.Spreads() {
		t.Fatalf("expected stratum path with two spreading steps to spread")
	}
	if got := p.TimeOfSpread(); got != 2*settings.ComputationTimeInterval {
		t.Fatalf("expected time of spread 2, got %v", got)
	}
	if got := p.MaxHorizontalRun(); math.Abs(got-1.5) > 1e-9 {
		t.Fatalf("expected horizontal run 1.5, got %v", got)
	}
	if got := p.NonIndependentROS(); math.Abs(got-0.3) > 1e-9 {
		t.Fatalf("expected non-independent ROS 0.3, got %v", got)
	}
	if got := p.TimeToIgnition(); got != 2 {
		t.Fatalf("expected time to ignition 2, got %v", got)
	}
	if i, ok := p.IndexOfMaxSegment(); !ok || i != 1 {
		t.Fatalf("expected longest segment at 1, got %d ok=%v", i, ok)
	}
	if got := p.MaxY(); got != 2 {
		t.Fatalf("expected max y 2, got %v", got)
	}
	if got := p.MaxHeightBurnt(0); got != 2 {
		t.Fatalf("expected height burnt 2 on flat ground, got %v", got)
	}
}

func TestSortedSegmentsLeavesPathInOrder(t *testing.T) {
	short := geometry.NewSegment(geometry.Pt(0, 1), geometry.Pt(0.1, 1))
	long := geometry.NewSegment(geometry.Pt(0, 1), geometry.Pt(1, 1))
	p := testPath(short, long)
	sorted := p.SortedSegments()
	if sorted[0] != long || sorted[1] != short {
		t.Fatalf("expected longest first, got %v", sorted)
	}
	if p.Segment(0) != short {
		t.Fatalf("expected stored segments to stay in time order")
	}
}

func TestPlantPathDoesNotSpread(t *testing.T) {
	p := NewIgnitionPath(PlantPath, plant.Elevated, testSpecies())
	p.addSegment(geometry.NewSegment(geometry.Pt(-1, 1), geometry.Pt(1, 1)))
	p.addSegment(geometry.NewSegment(geometry.Pt(-1, 1), geometry.Pt(1, 1)))
	if p.Spreads() || p.MaxHorizontalRun() != 0 {
		t.Fatalf("expected plant path never to spread")
	}
	if _, ok := p.MaxPreIgnitionTemperature(); ok {
		t.Fatalf("expected no pre-ignition temperature without records")
	}
}

func TestComputePathIgnitesCrown(t *testing.T) {
	in := PathInput{
		Type:     PlantPath,
		Level:    plant.Elevated,
		Species:  testSpecies(),
		Incident: []Flame{NewFlame(5, math.Pi/2, geometry.Point{}, 1, 950)},
		AirTemp:  20,
		Initial:  geometry.Pt(0, 1),
	}
	p := ComputePath(in)
	start, ok := p.StartTimeStep()
	if !ok || start != 1 {
		t.Fatalf("expected ignition in step 1, got %d ok=%v", start, ok)
	}
	if !p.HasSegments() || p.NumSegments() > settings.MaxTimeSteps {
		t.Fatalf("expected between 1 and %d segments, got %d", settings.MaxTimeSteps, p.NumSegments())
	}
	first := p.Segment(0)
	if !first.Start.Equal(geometry.Pt(0, 1)) || math.Abs(first.End.Y-2.5) > 1e-9 {
		t.Fatalf("expected first segment to burn to the crown top, got %v", first)
	}
	for _, s := range p.Segments() {
		if s.End.Y > 2.5+1e-9 {
			t.Fatalf("expected path to stay inside the crown, got %v", s)
		}
	}
	temp, ok := p.MaxPreIgnitionTemperature()
	if !ok || temp < 260 {
		t.Fatalf("expected recorded incident temperature above ignition, got %v ok=%v", temp, ok)
	}
}

func TestComputePathColdFlame(t *testing.T) {
	p := ComputePath(PathInput{
		Type:     PlantPath,
		Level:    plant.Elevated,
		Species:  testSpecies(),
		Incident: []Flame{NewFlame(0.3, math.Pi/2, geometry.Point{}, 0.1, 100)},
		AirTemp:  20,
		Initial:  geometry.Pt(0, 0.5),
	})
	if _, ok := p.StartTimeStep(); ok || p.HasSegments() {
		t.Fatalf("expected no ignition from a cold flame, got %v", p)
	}
}

func TestComputePathNoFlames(t *testing.T) {
	p := ComputePath(PathInput{Type: StratumPath, Level: plant.Canopy, Species: testSpecies(), AirTemp: 20})
	if p.HasSegments() || p.HasPreIgnitionData() {
		t.Fatalf("expected empty path without flames")
	}
}

func TestStepsWeighSpecies(t *testing.T) {
	steps := NewSteps()
	seg := geometry.NewSegment(geometry.Pt(0, 1), geometry.Pt(0, 2))
	steps[0].Add(0.25, 2, seg, 950)
	steps[0].Add(0.75, 1, geometry.NewSegment(geometry.Pt(2, 1), geometry.Pt(2, 3)), 750)
	steps[1].Add(1, 0.5, seg, 950)
	NormalizeSteps(steps)

	if math.Abs(steps[0].Length-1.25) > 1e-9 || math.Abs(steps[0].Depth-1.75) > 1e-9 {
		t.Fatalf("expected length 1.25 and depth 1.75, got %v and %v", steps[0].Length, steps[0].Depth)
	}
	if !steps[0].Origin.Equal(geometry.Pt(1.5, 1)) {
		t.Fatalf("expected weighted origin (1.5, 1), got %v", steps[0].Origin)
	}
	if want := (0.5*950 + 0.75*750) / 1.25; math.Abs(steps[0].Temperature-want) > 1e-9 {
		t.Fatalf("expected length-weighted temperature %v, got %v", want, steps[0].Temperature)
	}

	fs := StepSeries(plant.Elevated, steps, 2, 0)
	if len(fs.Flames) != 2 || fs.Level != plant.Elevated {
		t.Fatalf("expected two elevated flames, got %v", fs)
	}
	if fs.Flames[1].DeltaTemperature != 950 {
		t.Fatalf("expected single species step to keep its temperature, got %v", fs.Flames[1].DeltaTemperature)
	}
}
