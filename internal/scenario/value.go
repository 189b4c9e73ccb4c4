package scenario

import (
	"strconv"
	"strings"

	"ffm/pkg/core"

	"github.com/pkg/errors"
)

// Value is a scenario number, optionally with a spread: a standard
// deviation for normally sampled fields, a range for uniform ones.
type Value struct {
	Mean      float64
	Spread    float64
	HasSpread bool
}

// ParseValue reads "mean" or "mean, spread".
func ParseValue(s string) (Value, error) {
	parts := split(s, ',')
	if len(parts) == 0 || len(parts) > 2 {
		return Value{}, errors.Errorf("expected a number or a pair, got %q", s)
	}
	mean, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return Value{}, errors.Wrapf(err, "bad number %q", parts[0])
	}
	v := Value{Mean: mean}
	if len(parts) == 2 {
		spread, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return Value{}, errors.Wrapf(err, "bad spread %q", parts[1])
		}
		v.Spread, v.HasSpread = spread, true
	}
	return v, nil
}

// Normal samples N(mean, spread). A nil rng gives the mean.
func (v Value) Normal(rng *core.RNG) float64 {
	if rng == nil || !v.HasSpread {
		return v.Mean
	}
	return rng.Normal(v.Mean, v.Spread)
}

// Uniform samples U(mean - spread/2, mean + spread/2). A nil rng gives the
// mean.
func (v Value) Uniform(rng *core.RNG) float64 {
	if rng == nil || !v.HasSpread {
		return v.Mean
	}
	return rng.Uniform(v.Mean, v.Spread)
}

func (v Value) String() string {
	if v.HasSpread {
		return strconv.FormatFloat(v.Mean, 'g', -1, 64) + ", " + strconv.FormatFloat(v.Spread, 'g', -1, 64)
	}
	return strconv.FormatFloat(v.Mean, 'g', -1, 64)
}

// split cuts s at every sep and trims the pieces, dropping empty ones.
func split(s string, sep rune) []string {
	var out []string
	for _, p := range strings.Split(s, string(sep)) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// reduce lower-cases s and removes all white space.
func reduce(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}
