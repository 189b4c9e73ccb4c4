package scenario

import (
	"math"
	"strings"
	"testing"

	"ffm/internal/forest"
	"ffm/internal/plant"
	"ffm/pkg/core"

	"github.com/pkg/errors"
)

const twoStrata = `
# test site
outputlevel = detailed
montecarloiterations = 20

slope = 10
surface dead fuel moisture content = 0.05, 0.01
fuel load tonnes per hectare = 15, 2
mean fuel diameter = 0.005
mean fineness leaves = 0.00025
air temperature = 30, 2
fireline length = 100
incident wind speed = 20, 4
overlapping = ns, canopy, overlapped

begin stratum
  level = near surface
  plant separation = 0.8
  begin species
    name = Grass
    composition = 1
    hc = 0.05
    he = 0.05
    ht = 0.3, 0.1
    hp = 0.4, 0.1
    w = 0.5
    live leaf moisture = 1.0
    ignition temperature = 260
    leaf form = flat
    leaf thickness = 0.0002
    leaf width = 0.002
    leaf length = 0.2
    leaf separation = 0.01
    stem order = 1
    clump separation = 0.05
    clump diameter = 0.1
    proportion dead = 0.3
  end species
end stratum

begin stratum
  level = canopy   # trees
  plant separation = 8
  begin species
    name = Eucalypt
    composition = 1
    hc = 10
    he = 12
    ht = 20
    hp = 25, 4
    w = 6
    live leaf moisture = 1.2
    silica free ash content = 0.005
    leaf form = round
    leaf thickness = 0.0004
    leaf width = 0.02
    leaf length = 0.1
    leaf separation = 0.01
    stem order = 2
    clump separation = 0.2
    clump diameter = 0.5
    proportion dead = 0.05
  end species
end stratum
`

func TestParseTwoStrata(t *testing.T) {
	sc, err := Parse(strings.NewReader(twoStrata))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg := sc.Config()
	if cfg.OutputLevel != Detailed || cfg.Iterations != 20 {
		t.Fatalf("expected detailed output and 20 iterations, got %v and %d", cfg.OutputLevel, cfg.Iterations)
	}
	if len(sc.Strata) != 2 || sc.Strata[0].Level != plant.NearSurface || sc.Strata[1].Level != plant.Canopy {
		t.Fatalf("expected near surface and canopy strata, got %+v", sc.Strata)
	}
	if got := sc.Strata[1].Species[0].LeafForm; got != plant.Round {
		t.Fatalf("expected round leaves, got %v", got)
	}
	if len(sc.Overlaps) != 1 || sc.Overlaps[0].Type != forest.Overlapped {
		t.Fatalf("expected one overlapped pair, got %v", sc.Overlaps)
	}

	loc, err := sc.Location(nil)
	if err != nil {
		t.Fatalf("location: %v", err)
	}
	if math.Abs(loc.IncidentWind-20/3.6) > 1e-9 {
		t.Fatalf("expected wind converted to m/s, got %v", loc.IncidentWind)
	}
	if math.Abs(loc.Forest.Surface.FuelLoad-1.5) > 1e-9 {
		t.Fatalf("expected fuel load 1.5 kg/m², got %v", loc.Forest.Surface.FuelLoad)
	}
	if math.Abs(loc.Slope()-10*math.Pi/180) > 1e-9 {
		t.Fatalf("expected slope in radians, got %v", loc.Slope())
	}
	can := loc.Forest.Stratum(plant.Canopy)
	if can.Empty() || math.Abs(can.AvTop()-25) > 1e-9 {
		t.Fatalf("expected canopy top 25 from the means, got %v", can.AvTop())
	}
	sp := can.Species()[0]
	if sp.Key() != (plant.Key{Name: "Eucalypt", Index: 1}) {
		t.Fatalf("expected second species key, got %v", sp.Key())
	}
}

func TestParseSuggestsKnownWords(t *testing.T) {
	_, err := Parse(strings.NewReader("begin stratum\nlevel = canpy\nend stratum\n"))
	if err == nil || !strings.Contains(err.Error(), "did you mean canopy?") {
		t.Fatalf("expected a suggestion of canopy, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected the line number, got %v", err)
	}
	_, err = Parse(strings.NewReader("air temprature = 20\n"))
	if err == nil || !strings.Contains(err.Error(), "airtemperature") {
		t.Fatalf("expected a suggestion of airtemperature, got %v", err)
	}
}

func TestParseMisplacedBlocks(t *testing.T) {
	for _, in := range []string{
		"end stratum\n",
		"begin stratum\nbegin stratum\n",
		"begin species\n",
		"begin stratum\nbegin species\nend stratum\n",
		"begin stratum\n",
		"hc = 3\n",
	} {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Fatalf("expected an error for %q", in)
		}
	}
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue(" 3.5 , 0.5 ")
	if err != nil || v.Mean != 3.5 || v.Spread != 0.5 || !v.HasSpread {
		t.Fatalf("expected 3.5 with spread 0.5, got %+v err=%v", v, err)
	}
	if v.Normal(nil) != 3.5 || v.Uniform(nil) != 3.5 {
		t.Fatalf("expected the mean without an rng")
	}
	if _, err := ParseValue("1, 2, 3"); err == nil {
		t.Fatalf("expected a triple to fail")
	}
	if _, err := ParseValue("abc"); err == nil {
		t.Fatalf("expected a word to fail")
	}
}

func TestSampleReproducible(t *testing.T) {
	sc, err := Parse(strings.NewReader(twoStrata))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	a, err := sc.Sample(core.NewRNG(7), 100)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	b, err := sc.Sample(core.NewRNG(7), 100)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if a.IncidentWind != b.IncidentWind || a.Weather.AirTemp != b.Weather.AirTemp {
		t.Fatalf("expected equal draws for equal seeds, got %v and %v", a.IncidentWind, b.IncidentWind)
	}
	ca, cb := a.Forest.Stratum(plant.Canopy), b.Forest.Stratum(plant.Canopy)
	if ca.AvTop() != cb.AvTop() {
		t.Fatalf("expected equal crowns for equal seeds, got %v and %v", ca.AvTop(), cb.AvTop())
	}
	// hc scales with the drawn hp
	sp := ca.Species()[0]
	if got, want := sp.Crown().Bottom()/sp.Crown().Top(), 10.0/25; math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected crown proportions kept, got %v want %v", got, want)
	}
}

func TestLocationRejectsBadDraws(t *testing.T) {
	in := strings.Replace(twoStrata, "proportion dead = 0.3", "proportion dead = 1.5", 1)
	sc, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := sc.Location(nil); err == nil || errors.Is(err, ErrRejected) {
		t.Fatalf("expected a plain error for fixed inputs, got %v", err)
	}
	if _, err := sc.Location(core.NewRNG(1)); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected a rejected sample, got %v", err)
	}
	if _, err := sc.Sample(core.NewRNG(1), 3); err == nil {
		t.Fatalf("expected sampling to give up")
	}
}

func TestFromMap(t *testing.T) {
	c := FromMap(map[string]string{"outputlevel": "4", "montecarloiterations": "-3", "seed": "42", "workers": "x"})
	if c.OutputLevel != MonteCarlo || c.Seed != 42 {
		t.Fatalf("expected monte carlo with seed 42, got %+v", c)
	}
	d := DefaultConfig()
	if c.Iterations != d.Iterations || c.Workers != d.Workers {
		t.Fatalf("expected bad values to keep defaults, got %+v", c)
	}
}
