// Package scenario reads site descriptions from text files and turns them
// into forest locations, either as written or sampled for Monte-Carlo runs.
package scenario

import (
	"bufio"
	"io"
	"os"
	"strings"

	"ffm/internal/forest"
	"ffm/internal/plant"

	"github.com/pkg/errors"
)

type sampling int

const (
	fixed sampling = iota
	normal
	uniform
)

// siteKeys are the assignments that describe the surface, weather and
// fire outside any block.
var siteKeys = map[string]sampling{
	"slope":                          fixed,
	"surfacedeadfuelmoisturecontent": normal,
	"fuelloadtonnesperhectare":       normal,
	"meanfueldiameter":               fixed,
	"meanfinenessleaves":             fixed,
	"airtemperature":                 normal,
	"firelinelength":                 fixed,
	"incidentwindspeed":              normal,
}

var headerKeys = map[string]bool{
	"outputlevel":          true,
	"montecarloiterations": true,
	"seed":                 true,
	"workers":              true,
}

var stratumKeys = map[string]sampling{
	"plantseparation": normal,
}

var speciesKeys = map[string]sampling{
	"composition":          normal,
	"hc":                   uniform,
	"he":                   uniform,
	"ht":                   uniform,
	"hp":                   uniform,
	"w":                    uniform,
	"liveleafmoisture":     normal,
	"silicafreeashcontent": fixed,
	"ignitiontemperature":  uniform,
	"leafthickness":        uniform,
	"leafwidth":            uniform,
	"leaflength":           uniform,
	"leafseparation":       uniform,
	"stemorder":            uniform,
	"clumpseparation":      normal,
	"clumpdiameter":        normal,
	"proportiondead":       uniform,
}

var overlapWords = map[string]forest.Overlap{
	"automatic":     forest.AutoOverlap,
	"auto":          forest.AutoOverlap,
	"notoverlapped": forest.NotOverlapped,
	"no":            forest.NotOverlapped,
	"false":         forest.NotOverlapped,
	"overlapped":    forest.Overlapped,
	"yes":           forest.Overlapped,
	"true":          forest.Overlapped,
}

var blockWords = []string{"beginstratum", "endstratum", "beginspecies", "endspecies"}

// knownWords lists every key a scenario line may start with.
func knownWords() []string {
	out := append([]string{"level", "name", "leafform", "overlapping"}, blockWords...)
	out = append(out, keys(siteKeys)...)
	out = append(out, keys(headerKeys)...)
	out = append(out, keys(stratumKeys)...)
	return append(out, keys(speciesKeys)...)
}

// Species is a species block as written.
type Species struct {
	Line     int
	Name     string
	LeafForm plant.LeafForm
	Fields   map[string]Value
}

// Stratum is a stratum block as written. Level is Unknown when the block
// gave none.
type Stratum struct {
	Line    int
	Level   plant.Level
	Fields  map[string]Value
	Species []Species
}

// Scenario is a parsed scenario file.
type Scenario struct {
	Header   map[string]string
	Site     map[string]Value
	Strata   []Stratum
	Overlaps []forest.StrataOverlap
}

// Config reads the run options from the file header.
func (s *Scenario) Config() Config { return FromMap(s.Header) }

// Load parses the scenario file at path.
func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open scenario %s", path)
	}
	defer f.Close()
	sc, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "scenario %s", path)
	}
	return sc, nil
}

// splitLine drops comments and splits at the first '='. The key is
// lower-cased with white space removed; the value is trimmed.
func splitLine(line string) (key, value string, assign bool) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	k, v, assign := strings.Cut(line, "=")
	return reduce(k), strings.TrimSpace(v), assign
}

type parser struct {
	sc        *Scenario
	line      int
	stratum   *Stratum
	species   *Species
	inStratum bool
	inSpecies bool
}

func (p *parser) errorf(format string, args ...any) error {
	return errors.Errorf("line %d: "+format, append([]any{p.line}, args...)...)
}

// Parse reads a scenario. Keys are case and space insensitive, '#' starts
// a comment, and strata and species sit in begin/end blocks.
func Parse(r io.Reader) (*Scenario, error) {
	p := &parser{sc: &Scenario{Header: map[string]string{}, Site: map[string]Value{}}}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.line++
		key, value, assign := splitLine(scanner.Text())
		if key == "" {
			continue
		}
		var err error
		if assign {
			err = p.assign(key, value)
		} else {
			err = p.block(key)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read scenario")
	}
	if p.inSpecies || p.inStratum {
		return nil, errors.Errorf("unterminated block at end of file")
	}
	return p.sc, nil
}

func (p *parser) block(key string) error {
	switch key {
	case "beginstratum":
		if p.inStratum {
			return p.errorf("misplaced begin stratum")
		}
		p.inStratum = true
		p.stratum = &Stratum{Line: p.line, Level: plant.Unknown, Fields: map[string]Value{}}
	case "endstratum":
		if !p.inStratum || p.inSpecies {
			return p.errorf("misplaced end stratum")
		}
		p.inStratum = false
		p.sc.Strata = append(p.sc.Strata, *p.stratum)
	case "beginspecies":
		if p.inSpecies || !p.inStratum {
			return p.errorf("misplaced begin species")
		}
		p.inSpecies = true
		p.species = &Species{Line: p.line, LeafForm: plant.Flat, Fields: map[string]Value{}}
	case "endspecies":
		if !p.inSpecies {
			return p.errorf("misplaced end species")
		}
		p.inSpecies = false
		p.stratum.Species = append(p.stratum.Species, *p.species)
	default:
		return p.errorf("unknown line %q%s", key, didYouMean(key, knownWords()))
	}
	return nil
}

func (p *parser) assign(key, value string) error {
	if _, ok := speciesKeys[key]; ok || key == "name" || key == "leafform" {
		if !p.inSpecies {
			return p.errorf("%s outside a species block", key)
		}
		return p.speciesField(key, value)
	}
	if _, ok := stratumKeys[key]; ok || key == "level" {
		if !p.inStratum {
			return p.errorf("%s outside a stratum block", key)
		}
		if key == "level" {
			l, ok := plant.ParseLevel(value)
			if !ok {
				return p.errorf("unknown level %q%s", value, didYouMean(reduce(value), keys(plant.LevelWords)))
			}
			p.stratum.Level = l
			return nil
		}
		return p.number(p.stratum.Fields, key, value)
	}
	if _, ok := siteKeys[key]; ok {
		return p.number(p.sc.Site, key, value)
	}
	if headerKeys[key] {
		p.sc.Header[key] = value
		return nil
	}
	if key == "overlapping" {
		return p.overlap(value)
	}
	return p.errorf("unknown key %q%s", key, didYouMean(key, knownWords()))
}

func (p *parser) number(into map[string]Value, key, value string) error {
	v, err := ParseValue(value)
	if err != nil {
		return errors.Wrapf(err, "line %d: %s", p.line, key)
	}
	into[key] = v
	return nil
}

func (p *parser) speciesField(key, value string) error {
	switch key {
	case "name":
		p.species.Name = value
	case "leafform":
		f, ok := plant.ParseLeafForm(value)
		if !ok {
			return p.errorf("unknown leaf form %q%s", value, didYouMean(reduce(value), []string{"flat", "round"}))
		}
		p.species.LeafForm = f
	default:
		return p.number(p.species.Fields, key, value)
	}
	return nil
}

func (p *parser) overlap(value string) error {
	parts := split(value, ',')
	if len(parts) != 3 {
		return p.errorf("overlapping needs two levels and a type, got %q", value)
	}
	var levels [2]plant.Level
	for i := range levels {
		l, ok := plant.ParseLevel(parts[i])
		if !ok {
			return p.errorf("unknown level %q%s", parts[i], didYouMean(reduce(parts[i]), keys(plant.LevelWords)))
		}
		levels[i] = l
	}
	t, ok := overlapWords[reduce(parts[2])]
	if !ok {
		return p.errorf("unknown overlap type %q%s", parts[2], didYouMean(reduce(parts[2]), keys(overlapWords)))
	}
	p.sc.Overlaps = append(p.sc.Overlaps, forest.StrataOverlap{A: levels[0], B: levels[1], Type: t})
	return nil
}
