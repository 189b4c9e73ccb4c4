// Package plant describes the vegetation the fire burns through: the
// vertical level a stratum occupies and the species found in it.
package plant

import "strings"

// Level is a vertical layer of the forest, ordered bottom to top.
type Level int

const (
	Unknown Level = iota - 1
	Surface
	NearSurface
	Elevated
	MidStorey
	Canopy
)

// Levels lists the plant-bearing levels bottom to top.
var Levels = []Level{NearSurface, Elevated, MidStorey, Canopy}

func (l Level) String() string {
	switch l {
	case Surface:
		return "Surface"
	case NearSurface:
		return "Near-surface"
	case Elevated:
		return "Elevated"
	case MidStorey:
		return "Mid-storey"
	case Canopy:
		return "Canopy"
	default:
		return "Unknown"
	}
}

// LevelWords maps the accepted input spellings to levels.
var LevelWords = map[string]Level{
	"nearsurface": NearSurface,
	"ns":          NearSurface,
	"elevated":    Elevated,
	"e":           Elevated,
	"midstorey":   MidStorey,
	"m":           MidStorey,
	"canopy":      Canopy,
	"c":           Canopy,
}

// ParseLevel reads a level name, ignoring case, spaces and hyphens.
func ParseLevel(s string) (Level, bool) {
	l, ok := LevelWords[normalize(s)]
	if !ok {
		return Unknown, false
	}
	return l, true
}

// LeafForm is the cross-section of a leaf, used by the ignition delay model.
type LeafForm int

const (
	Round LeafForm = iota
	Flat
)

func (f LeafForm) String() string {
	if f == Round {
		return "round"
	}
	return "flat"
}

// ParseLeafForm accepts "round" and "flat".
func ParseLeafForm(s string) (LeafForm, bool) {
	switch normalize(s) {
	case "round":
		return Round, true
	case "flat":
		return Flat, true
	}
	return Round, false
}

func normalize(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "\t", "", "-", "", "_", "").Replace(s)
}
