package playback

import (
	"slices"
	"testing"

	"ffm/internal/forest"
	"ffm/internal/plant"
)

func testLocation() forest.Location {
	sp := plant.New(plant.Key{Name: "shrub"}, 1, plant.HexagonalCrown(0.3, 0.6, 1.6, 2, 1.5), plant.Traits{
		LiveLeafMoisture: 0.8, DeadLeafMoisture: 0.05, PropDead: 0.1, IgnitionTemp: 260, LeafForm: plant.Flat,
		LeafThickness: 0.0004, LeafWidth: 0.01, LeafLength: 0.1, LeafSeparation: 0.005, StemOrder: 2,
		ClumpDiameter: 0.5, ClumpSeparation: 0.2,
	})
	return forest.Location{
		Forest: forest.NewForest(forest.NewSurface(0.1, 0.05, 1.5, 0.005, 0.00025),
			[]forest.Stratum{forest.NewStratum(plant.Elevated, []plant.Species{sp}, 2)}, nil),
		Weather:        forest.Weather{AirTemp: 30},
		IncidentWind:   5,
		FirelineLength: 100,
	}
}

func TestSceneSteps(t *testing.T) {
	loc := testLocation()
	s := New(loc, loc.Results(), DefaultConfig())
	if got := s.Size(); got.W != 320 || got.H <= 0 || len(s.Cells()) != got.W*got.H {
		t.Fatalf("expected a 320 wide raster, got %+v with %d cells", got, len(s.Cells()))
	}
	if s.TimeStep() != 0 {
		t.Fatalf("expected to start at step 0, got %d", s.TimeStep())
	}
	for i := 1; s.Step(); i++ {
		if s.TimeStep() != i {
			t.Fatalf("expected step %d, got %d", i, s.TimeStep())
		}
		if i > 10000 {
			t.Fatalf("expected the replay to end")
		}
	}
	if !s.Done() || s.Step() {
		t.Fatalf("expected a finished replay to stay finished")
	}
	s.Reset()
	if s.TimeStep() != 0 || s.Done() && len(s.Run().Paths()) > 0 {
		t.Fatalf("expected reset to rewind, got step %d", s.TimeStep())
	}
}

func TestSceneLayers(t *testing.T) {
	loc := testLocation()
	s := New(loc, loc.Results(), DefaultConfig())
	crown := CrownCell(plant.Elevated)
	if !slices.Contains(s.Cells(), CellGround) || !slices.Contains(s.Cells(), crown) {
		t.Fatalf("expected ground and elevated crowns in the raster")
	}
	s.Toggle(LayerCrowns)
	if s.Visible(LayerCrowns) || slices.Contains(s.Cells(), crown) {
		t.Fatalf("expected crowns hidden")
	}
	s.Toggle(LayerCrowns)
	if !slices.Contains(s.Cells(), crown) {
		t.Fatalf("expected crowns back")
	}
	if int(crown) >= NumCells {
		t.Fatalf("expected crown cell %d inside the palette of %d", crown, NumCells)
	}
}
