package scenario

import (
	"math"

	"ffm/internal/forest"
	"ffm/internal/plant"
	"ffm/pkg/core"

	"github.com/pkg/errors"
)

// ErrRejected marks a Monte-Carlo sample whose drawn values fail the input
// checks. The caller draws again.
var ErrRejected = errors.New("sample rejected")

// sampler draws the values of one Location. A nil rng reads the means.
type sampler struct {
	rng *core.RNG
}

func (s sampler) monteCarlo() bool { return s.rng != nil }

func (s sampler) draw(v Value, how sampling) float64 {
	switch how {
	case normal:
		return v.Normal(s.rng)
	case uniform:
		return v.Uniform(s.rng)
	default:
		return v.Mean
	}
}

// fail reports a value check. Monte-Carlo draws are rejected, fixed inputs
// are errors.
func (s sampler) fail(format string, args ...any) error {
	if s.monteCarlo() {
		return errors.Wrapf(ErrRejected, format, args...)
	}
	return errors.Errorf(format, args...)
}

func (s sampler) required(fields map[string]Value, how map[string]sampling, key, what string) (float64, error) {
	v, ok := fields[key]
	if !ok {
		return 0, errors.Errorf("%s: missing %s", what, key)
	}
	return s.draw(v, how[key]), nil
}

// Location builds the site. With a nil rng every value is its mean;
// otherwise values with a spread are sampled. Crown heights and widths of
// a sampled species scale with its sampled top height.
func (sc *Scenario) Location(rng *core.RNG) (forest.Location, error) {
	s := sampler{rng: rng}
	site := map[string]float64{}
	for _, k := range keys(siteKeys) {
		v, err := s.required(sc.Site, siteKeys, k, "site")
		if err != nil {
			return forest.Location{}, err
		}
		site[k] = v
	}
	dfmc := site["surfacedeadfuelmoisturecontent"]
	if dfmc <= 0 {
		return forest.Location{}, s.fail("surface dead fuel moisture content %v must be positive", dfmc)
	}
	fuelLoad := site["fuelloadtonnesperhectare"] * 0.1
	if fuelLoad < 0.4 {
		return forest.Location{}, s.fail("fuel load %v t/ha is below 4", site["fuelloadtonnesperhectare"])
	}

	var strata []forest.Stratum
	seen := map[plant.Level]bool{}
	index := 0
	for _, st := range sc.Strata {
		var species []plant.Species
		for _, sp := range st.Species {
			built, err := s.species(sp, dfmc, index)
			if err != nil {
				return forest.Location{}, err
			}
			species = append(species, built)
			index++
		}
		// first block of a level wins
		if st.Level == plant.Unknown || seen[st.Level] {
			continue
		}
		seen[st.Level] = true
		sep := -1.0
		if v, ok := st.Fields["plantseparation"]; ok {
			sep = s.draw(v, stratumKeys["plantseparation"])
		}
		strata = append(strata, forest.NewStratum(st.Level, species, sep))
	}

	surface := forest.NewSurface(site["slope"]*math.Pi/180, dfmc, fuelLoad,
		site["meanfueldiameter"], site["meanfinenessleaves"])
	return forest.Location{
		Forest:         forest.NewForest(surface, strata, sc.Overlaps),
		Weather:        forest.Weather{AirTemp: site["airtemperature"]},
		IncidentWind:   site["incidentwindspeed"] / 3.6,
		FirelineLength: site["firelinelength"],
	}, nil
}

var requiredSpeciesKeys = []string{
	"hc", "he", "ht", "hp", "w", "liveleafmoisture", "leafthickness", "leafwidth", "leaflength",
	"leafseparation", "stemorder", "clumpseparation", "clumpdiameter", "proportiondead",
}

func (s sampler) species(sp Species, dfmc float64, index int) (plant.Species, error) {
	what := "species " + sp.Name
	v := map[string]float64{}
	for _, k := range requiredSpeciesKeys {
		x, err := s.required(sp.Fields, speciesKeys, k, what)
		if err != nil {
			return plant.Species{}, errors.Wrapf(err, "line %d", sp.Line)
		}
		v[k] = x
	}
	for _, k := range []string{"composition", "silicafreeashcontent", "ignitiontemperature"} {
		if f, ok := sp.Fields[k]; ok {
			v[k] = s.draw(f, speciesKeys[k])
		}
	}
	if s.monteCarlo() && sp.Fields["hp"].Mean > 0 {
		scale := v["hp"] / sp.Fields["hp"].Mean
		for _, k := range []string{"hc", "he", "ht", "w"} {
			v[k] *= scale
		}
	}

	switch {
	case v["ht"] < v["he"] || v["hp"] <= v["hc"]:
		return plant.Species{}, s.fail("%s: crown heights out of order", what)
	case v["composition"] < 0:
		return plant.Species{}, s.fail("%s: negative composition", what)
	case v["liveleafmoisture"] < 0 || v["leafthickness"] < 0 || v["leafwidth"] < 0 || v["leaflength"] < 0:
		return plant.Species{}, s.fail("%s: negative leaf trait", what)
	case v["leafseparation"] <= 0 || v["stemorder"] <= 0 || v["clumpdiameter"] <= 0 || v["clumpseparation"] < 0:
		return plant.Species{}, s.fail("%s: leaf separation, stem order and clump diameter must be positive", what)
	case v["proportiondead"] < 0 || v["proportiondead"] > 1:
		return plant.Species{}, s.fail("%s: proportion dead outside [0, 1]", what)
	case v["ignitiontemperature"] <= 0 && v["silicafreeashcontent"] <= 0:
		return plant.Species{}, s.fail("%s: needs an ignition temperature or a silica free ash content", what)
	}

	crown := plant.HexagonalCrown(v["hc"], v["he"], v["ht"], v["hp"], v["w"])
	built := plant.New(plant.Key{Name: sp.Name, Index: index}, v["composition"], crown, plant.Traits{
		LiveLeafMoisture: v["liveleafmoisture"],
		DeadLeafMoisture: dfmc,
		PropDead:         v["proportiondead"],
		SilicaFreeAsh:    v["silicafreeashcontent"],
		IgnitionTemp:     v["ignitiontemperature"],
		LeafForm:         sp.LeafForm,
		LeafThickness:    v["leafthickness"],
		LeafWidth:        v["leafwidth"],
		LeafLength:       v["leaflength"],
		LeafSeparation:   v["leafseparation"],
		StemOrder:        v["stemorder"],
		ClumpDiameter:    v["clumpdiameter"],
		ClumpSeparation:  v["clumpseparation"],
	})
	if !built.Valid() {
		return plant.Species{}, s.fail("%s: invalid species", what)
	}
	return built, nil
}

// Sample draws Monte-Carlo locations until one passes the checks, giving
// up after maxTries rejections.
func (sc *Scenario) Sample(rng *core.RNG, maxTries int) (forest.Location, error) {
	var err error
	for i := 0; i < maxTries; i++ {
		var loc forest.Location
		loc, err = sc.Location(rng)
		if err == nil {
			return loc, nil
		}
		if !errors.Is(err, ErrRejected) {
			return forest.Location{}, err
		}
	}
	return forest.Location{}, errors.Wrapf(err, "no valid sample in %d tries", maxTries)
}
