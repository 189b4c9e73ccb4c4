package scenario

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// suggest finds the known word closest to word, if any is close enough to
// be a likely typo.
func suggest(word string, known []string) (string, bool) {
	type scored struct {
		val  string
		dist int
	}
	var cands []scored
	for _, k := range known {
		d := levenshtein.ComputeDistance(word, k)
		if d > levenshteinLimit(len(k)) {
			continue
		}
		cands = append(cands, scored{k, d})
	}
	if len(cands) == 0 {
		return "", false
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].dist == cands[j].dist {
			return cands[i].val < cands[j].val
		}
		return cands[i].dist < cands[j].dist
	})
	return cands[0].val, true
}

func didYouMean(word string, known []string) string {
	if s, ok := suggest(word, known); ok {
		return " (did you mean " + s + "?)"
	}
	return ""
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
