package forest

import (
	"math"
	"testing"

	"ffm/internal/fire"
	"ffm/internal/geometry"
	"ffm/internal/plant"
)

func shrub(name string, comp, bottom, top, width float64) plant.Species {
	crown := geometry.NewPolygon([]geometry.Point{
		geometry.Pt(-width/2, bottom), geometry.Pt(width/2, bottom),
		geometry.Pt(width/2, top), geometry.Pt(-width/2, top),
	})
	return plant.New(plant.Key{Name: name}, comp, crown, plant.Traits{
		LiveLeafMoisture: 1.0,
		DeadLeafMoisture: 0.05,
		PropDead:         0.05,
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

func testSurface() Surface { return NewSurface(0, 0.05, 1.5, 0.005, 0.00025) }

func TestSurfaceGates(t *testing.T) {
	s := testSurface()
	if s.FlameLength(1) <= 0 || s.ROS(1) <= 0 {
		t.Fatalf("expected a dry loaded surface to burn, got flame %v ros %v", s.FlameLength(1), s.ROS(1))
	}
	wet := NewSurface(0, 0.25, 1.5, 0.005, 0.00025)
	if wet.FlameLength(1) != 0 || wet.ROS(1) != 0 {
		t.Fatalf("expected no surface fire above extinction moisture")
	}
	light := NewSurface(0, 0.05, 0.35, 0.005, 0.00025)
	if light.BackingROS() != 0 || light.HeadROS(1) <= 0 {
		t.Fatalf("expected head fire only between the two fuel load thresholds")
	}
	if got := NewSurface(0, 0.05, 10, 0.005, 0.00025).FlameLength(20); got != 2 {
		t.Fatalf("expected flame length capped at 2, got %v", got)
	}
}

func TestStratumNormalisesComposition(t *testing.T) {
	st := NewStratum(plant.Elevated, []plant.Species{
		shrub("a", 3, 1, 3, 2),
		shrub("b", 1, 1, 2, 1),
		shrub("c", 0, 1, 2, 1),
		{},
	}, -1)
	sp := st.Species()
	if len(sp) != 2 {
		t.Fatalf("expected 2 species kept, got %d", len(sp))
	}
	if math.Abs(sp[0].Composition()-0.75) > 1e-9 || math.Abs(sp[1].Composition()-0.25) > 1e-9 {
		t.Fatalf("expected compositions 0.75 and 0.25, got %v and %v", sp[0].Composition(), sp[1].Composition())
	}
	if math.Abs(st.AvTop()-2.75) > 1e-9 || math.Abs(st.AvWidth()-1.75) > 1e-9 {
		t.Fatalf("expected weighted top 2.75 and width 1.75, got %v and %v", st.AvTop(), st.AvWidth())
	}
	if _, ok := st.PlantSep(); ok {
		t.Fatalf("expected no plant separation")
	}
	if st.ModelPlantSep() != st.AvWidth() {
		t.Fatalf("expected model separation to default to the width, got %v", st.ModelPlantSep())
	}
	if !NewStratum(plant.Surface, []plant.Species{shrub("a", 1, 1, 2, 1)}, 2).Empty() {
		t.Fatalf("expected no stratum at the surface level")
	}
}

func TestNewForestOrdersStrata(t *testing.T) {
	can := NewStratum(plant.Canopy, []plant.Species{shrub("tree", 1, 8, 20, 6)}, 8)
	ns := NewStratum(plant.NearSurface, []plant.Species{shrub("grass", 1, 0, 0.4, 0.5)}, 1)
	f := NewForest(testSurface(), []Stratum{can, ns}, nil)
	strata := f.Strata()
	if len(strata) != 2 || strata[0].Level() != plant.NearSurface || strata[1].Level() != plant.Canopy {
		t.Fatalf("expected near surface then canopy, got %v", strata)
	}
	if got := f.NextLevel(plant.NearSurface); got != plant.Canopy {
		t.Fatalf("expected canopy above near surface, got %v", got)
	}
	if !f.Stratum(plant.Elevated).Empty() {
		t.Fatalf("expected missing level to give an empty stratum")
	}
	if !NewForest(testSurface(), []Stratum{ns, ns}, nil).Empty() {
		t.Fatalf("expected duplicate levels to leave no strata")
	}
}

func TestStrataOverlapDefaults(t *testing.T) {
	f := NewForest(testSurface(), []Stratum{
		NewStratum(plant.NearSurface, []plant.Species{shrub("grass", 1, 0, 0.4, 0.5)}, 1),
		NewStratum(plant.Elevated, []plant.Species{shrub("shrub", 1, 0.3, 2, 1.5)}, 3),
		NewStratum(plant.Canopy, []plant.Species{shrub("tree", 1, 8, 20, 6)}, 8),
	}, []StrataOverlap{{A: plant.Elevated, B: plant.Canopy, Type: NotOverlapped}})

	if got := f.StrataOverlap(plant.NearSurface, plant.Elevated); got != AutoOverlap {
		t.Fatalf("expected automatic overlap for adjacent levels, got %v", got)
	}
	if got := f.StrataOverlap(plant.Canopy, plant.NearSurface); got != Overlapped {
		t.Fatalf("expected distant levels to overlap, got %v", got)
	}
	if got := f.StrataOverlap(plant.Canopy, plant.Elevated); got != NotOverlapped {
		t.Fatalf("expected the given overlap in either order, got %v", got)
	}
	if f.VerticalAssociation(plant.NearSurface, plant.Elevated) {
		t.Fatalf("expected interleaved strata not to be vertically associated")
	}
	if !f.VerticalAssociation(plant.NearSurface, plant.Canopy) {
		t.Fatalf("expected overlapped strata to be vertically associated")
	}
}

func TestWindProfile(t *testing.T) {
	f := NewForest(testSurface(), []Stratum{
		NewStratum(plant.Elevated, []plant.Species{shrub("shrub", 1, 0.5, 2, 1.5)}, 2),
		NewStratum(plant.Canopy, []plant.Species{shrub("tree", 1, 8, 20, 6)}, 7),
	}, nil)
	const w = 10.0
	if got := f.WindProfile(w, 25, true); got != w {
		t.Fatalf("expected incident wind above the canopy, got %v", got)
	}
	prev := w
	for _, z := range []float64{19, 12, 8, 5, 2, 1, 0.2} {
		got := f.WindProfile(w, z, true)
		if got > prev+1e-9 || got <= 0 {
			t.Fatalf("expected wind to fall towards the ground, got %v at %v after %v", got, z, prev)
		}
		prev = got
	}
	if f.WindProfile(w, 1, false) <= f.WindProfile(w, 1, true) {
		t.Fatalf("expected more wind under an ignored canopy")
	}
	if got := f.WindProfile(0, 1, true); got != 0 {
		t.Fatalf("expected calm to stay calm, got %v", got)
	}
}

func TestLocationResults(t *testing.T) {
	f := NewForest(testSurface(), []Stratum{
		NewStratum(plant.NearSurface, []plant.Species{shrub("grass", 1, 0.05, 0.4, 0.5)}, 0.8),
		NewStratum(plant.Elevated, []plant.Species{shrub("shrub", 1, 0.5, 2, 1.5)}, 2),
	}, nil)
	loc := Location{Forest: f, Weather: Weather{AirTemp: 30}, IncidentWind: 20 / 3.6, FirelineLength: 100}
	res := loc.Results()

	if len(res.Runs) != 1 {
		t.Fatalf("expected a single run without a canopy, got %d", len(res.Runs))
	}
	if len(res.Strata) != 2 || res.Strata[0].Level != plant.NearSurface {
		t.Fatalf("expected results for both strata in order, got %v", res.Strata)
	}
	if res.SurfaceFlameLength <= 0 {
		t.Fatalf("expected a surface flame")
	}
	if res.ROS < res.SurfaceROS {
		t.Fatalf("expected overall ROS %v at least the surface ROS %v", res.ROS, res.SurfaceROS)
	}
	for _, sr := range res.Strata {
		if sr.ProportionBurnt < 0 || sr.ProportionBurnt > 1 {
			t.Fatalf("expected proportion burnt in [0, 1], got %v", sr.ProportionBurnt)
		}
		if res.FlameLength < sr.FlameLength {
			t.Fatalf("expected overall flame length %v to cover %v flames %v", res.FlameLength, sr.Level, sr.FlameLength)
		}
	}
	if res.FlameTipHeight < res.SurfaceFlameHeight {
		t.Fatalf("expected overall tip height %v at least the surface height %v", res.FlameTipHeight, res.SurfaceFlameHeight)
	}
	if res.CrownFireType != Unclassified {
		t.Fatalf("expected no crown fire without a canopy, got %v", res.CrownFireType)
	}
	if res.WindReductionFactor < 1 {
		t.Fatalf("expected wind reduction factor at least 1, got %v", res.WindReductionFactor)
	}
	if _, ok := res.Stratum(plant.Canopy); ok {
		t.Fatalf("expected no canopy results")
	}
}

func TestLocationResultsBareSurface(t *testing.T) {
	loc := Location{Forest: NewForest(testSurface(), nil, nil), Weather: Weather{AirTemp: 25}, IncidentWind: 2, FirelineLength: 100}
	res := loc.Results()
	if res.ROS != res.SurfaceROS || res.FlameTipHeight != res.SurfaceFlameHeight {
		t.Fatalf("expected a bare surface to report the surface fire, got %+v", res)
	}
	if math.Abs(res.FlameLength-res.SurfaceFlameLength) > 1e-9 {
		t.Fatalf("expected combined flame length %v to equal the surface flame %v", res.FlameLength, res.SurfaceFlameLength)
	}
}

func TestFlameConnects(t *testing.T) {
	seg := geometry.NewSegment(geometry.Pt(-0.5, 0.5), geometry.Pt(0, 1))
	tests := []struct {
		name          string
		length, angle float64
		want          bool
	}{
		{"flat flame reaches the far edge", 2, 0.1, true},
		{"short flat flame stops inside", 1, 0.1, false},
		{"upright flame stays over the plant", 2, math.Pi / 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flameConnects(seg, tt.length, tt.angle, 1.5); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestClassifyCrownFire(t *testing.T) {
	tests := []struct {
		length  float64
		spreads bool
		want    CrownFireType
	}{
		{0, false, Unclassified},
		{0.4, true, Unclassified},
		{0.5, false, Passive},
		{3, false, Passive},
		{0.5, true, Active},
		{3, true, Active},
	}
	for _, tt := range tests {
		if got := classifyCrownFire(tt.length, tt.spreads); got != tt.want {
			t.Fatalf("length %v spreads %v: expected %v, got %v", tt.length, tt.spreads, tt.want, got)
		}
	}
}

func TestLocationElevatedStratumSpreads(t *testing.T) {
	f := NewForest(NewSurface(0.2, 0.05, 1.5, 0.005, 0.00025), []Stratum{
		NewStratum(plant.Elevated, []plant.Species{shrub("shrub", 1, 0.5, 2, 1.5)}, 2),
	}, nil)
	loc := Location{Forest: f, Weather: Weather{AirTemp: 30}, IncidentWind: 15, FirelineLength: 100}
	res := loc.Results()

	if len(res.Runs) != 1 {
		t.Fatalf("expected a single run without a canopy, got %d", len(res.Runs))
	}
	run := res.Runs[0]
	if len(run.selectPaths(plant.Elevated, fire.StratumPath)) == 0 {
		t.Fatalf("expected a stratum path in the elevated stratum")
	}
	if !run.SpreadsInStratum(plant.Elevated) {
		t.Fatalf("expected the elevated stratum fire to spread")
	}
	if !run.Connected(plant.Elevated) {
		t.Fatalf("expected wind-blown elevated flames to connect")
	}
	sr, ok := res.Stratum(plant.Elevated)
	if !ok || sr.ROS <= 0 {
		t.Fatalf("expected a positive elevated ROS, got %v ok=%v", sr.ROS, ok)
	}
	if res.ROS < sr.ROS {
		t.Fatalf("expected overall ROS %v at least the elevated ROS %v", res.ROS, sr.ROS)
	}
}

func TestLocationCanopyRuns(t *testing.T) {
	f := NewForest(NewSurface(0.2, 0.05, 1.5, 0.005, 0.00025), []Stratum{
		NewStratum(plant.Elevated, []plant.Species{shrub("shrub", 1, 0.5, 2, 1.5)}, 2),
		NewStratum(plant.Canopy, []plant.Species{shrub("tree", 1, 2.5, 8, 4)}, 4),
	}, nil)
	loc := Location{Forest: f, Weather: Weather{AirTemp: 30}, IncidentWind: 15, FirelineLength: 100}
	res := loc.Results()

	first := res.Runs[0]
	if first.Type != WithCanopy {
		t.Fatalf("expected the first run to keep the canopy, got %v", first.Type)
	}
	if res.RunTwoExists() != first.SpreadsInStratum(plant.Canopy) {
		t.Fatalf("expected a second run exactly when the canopy spreads, got %d runs", len(res.Runs))
	}
	last := res.Runs[len(res.Runs)-1]
	if res.RunTwoExists() && last.Type != WithoutCanopy {
		t.Fatalf("expected the second run to drop the canopy, got %v", last.Type)
	}
	sr, ok := res.Stratum(plant.Canopy)
	if !ok {
		t.Fatalf("expected canopy results")
	}
	if want := classifyCrownFire(sr.FlameLength, last.SpreadsInStratum(plant.Canopy)); res.CrownFireType != want {
		t.Fatalf("expected %v for canopy flame %v, got %v", want, sr.FlameLength, res.CrownFireType)
	}
	if !res.RunTwoExists() && (res.CrownRunLength != 0 || sr.ROS != 0) {
		t.Fatalf("expected no crown run without canopy spread, got run %v and ROS %v", res.CrownRunLength, sr.ROS)
	}
}
