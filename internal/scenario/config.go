package scenario

import (
	"runtime"
	"strconv"
	"strings"
)

// OutputLevel selects how much of the results is reported.
type OutputLevel int

const (
	Basic OutputLevel = iota
	Detailed
	Comprehensive
	MonteCarlo
)

func (o OutputLevel) String() string {
	switch o {
	case Basic:
		return "Basic"
	case Detailed:
		return "Detailed"
	case Comprehensive:
		return "Comprehensive"
	case MonteCarlo:
		return "Monte Carlo"
	default:
		return "Unknown"
	}
}

var outputLevelWords = map[string]OutputLevel{
	"basic":         Basic,
	"1":             Basic,
	"detailed":      Detailed,
	"2":             Detailed,
	"comprehensive": Comprehensive,
	"3":             Comprehensive,
	"montecarlo":    MonteCarlo,
	"4":             MonteCarlo,
}

// ParseOutputLevel reads a level name or its number, ignoring case and
// spaces.
func ParseOutputLevel(s string) (OutputLevel, bool) {
	l, ok := outputLevelWords[reduce(s)]
	return l, ok
}

// Config holds the run options that sit next to the site description.
type Config struct {
	OutputLevel OutputLevel
	Iterations  int
	Seed        int64
	Workers     int
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		OutputLevel: Comprehensive,
		Iterations:  1,
		Seed:        1,
		Workers:     runtime.NumCPU(),
	}
}

// FromMap populates the config from a string map, either the header of a
// scenario file or flag-style key/value pairs. Bad values keep the
// default.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["outputlevel"]; ok {
		if parsed, ok := ParseOutputLevel(v); ok {
			c.OutputLevel = parsed
		}
	}
	if v, ok := cfg["montecarloiterations"]; ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			c.Iterations = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			c.Workers = parsed
		}
	}
	return c
}
