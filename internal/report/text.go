// Package report renders locations and their results as text, CSV rows and
// parameter snapshots.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"ffm/internal/forest"
	"ffm/internal/scenario"
)

const (
	nameWidth  = 34
	labelWidth = 15
)

func deg(rad float64) float64 { return rad * 180 / math.Pi }
func kmh(ms float64) float64 { return ms * 3.6 }

// textWriter keeps the first write error and ignores later writes.
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *textWriter) row(name, label, value string) {
	t.printf("%-*s%-*s%s\n", nameWidth, name, labelWidth, label, value)
}

// block prints an overall value and, from Detailed up, the surface value and
// one line per stratum.
func (t *textWriter) block(level scenario.OutputLevel, name, overall, surface string, strata []forest.StratumResults, get func(forest.StratumResults) string) {
	t.row(name, "Overall:", overall)
	if level >= scenario.Detailed {
		t.row("", "Surface:", surface)
		for _, sr := range strata {
			t.row("", sr.Level.String()+":", get(sr))
		}
	}
	t.printf("\n")
}

// Text writes the results at the given output level. Comprehensive output
// adds every ignition path of every run.
func Text(w io.Writer, res forest.Results, level scenario.OutputLevel) error {
	t := &textWriter{w: w}
	t.printf("****** Results ******\n\nOutput Level: %v\n\n", level)

	f2 := func(x float64) string { return fmt.Sprintf("%6.2f", x) }
	f1 := func(x float64) string { return fmt.Sprintf("%5.1f", x) }

	t.block(level, "Flame length (m)", f2(res.FlameLength), f2(res.SurfaceFlameLength), res.Strata,
		func(sr forest.StratumResults) string { return f1(sr.FlameLength) })
	t.block(level, "Flame angle (deg)", f2(deg(res.FlameAngle)), f2(deg(res.SurfaceFlameAngle)), res.Strata,
		func(sr forest.StratumResults) string { return f1(deg(sr.FlameAngle)) })
	t.block(level, "Flame tip height (m)", f2(res.FlameTipHeight), f2(res.SurfaceFlameHeight), res.Strata,
		func(sr forest.StratumResults) string { return f2(sr.FlameTipHeight) })
	t.block(level, "Flame origin height (m)", f2(res.FlameOriginHeight), f2(0), res.Strata,
		func(sr forest.StratumResults) string { return f2(sr.FlameOriginHeight) })

	if level >= scenario.Detailed {
		name := "Species flame tip heights (m)"
		for _, sr := range res.Strata {
			ks := make([]string, 0, len(sr.SpeciesTipHeights))
			hts := map[string]float64{}
			for k, h := range sr.SpeciesTipHeights {
				ks = append(ks, k.Name)
				hts[k.Name] = math.Max(hts[k.Name], h)
			}
			sort.Strings(ks)
			ks = compact(ks)
			for _, k := range ks {
				t.row(name, sr.Level.String()+":", f2(hts[k])+" "+k)
				name = ""
			}
		}
		t.printf("\n")
	}

	t.block(level, "Rate of spread (km/h)", f2(kmh(res.ROS)), f2(kmh(res.SurfaceROS)), res.Strata,
		func(sr forest.StratumResults) string { return f2(kmh(sr.ROS)) })

	if level >= scenario.Detailed {
		name := "Proportion of stratum burnt (%):"
		for _, sr := range res.Strata {
			t.row(name, sr.Level.String()+":", fmt.Sprintf("%4.0f", sr.ProportionBurnt*100))
			name = ""
		}
		t.printf("\n")
		lines := []struct {
			label string
			value string
		}{
			{"Flame depth (m):", fmt.Sprintf("%6.1f", res.FlameDepth)},
			{"Crown fire type:", res.CrownFireType.String()},
			{"Crown run length (m):", fmt.Sprintf("%6.1f", res.CrownRunLength)},
			{"Crown run velocity (km/h)", f2(kmh(res.CrownRunVelocity))},
			{"Wind reduction factor:", fmt.Sprintf("%4.2f", res.WindReductionFactor)},
			{"Scorch height McArthur (m):", f2(res.ScorchHeightMcArthur)},
			{"Scorch height Luke McArthur (m):", f2(res.ScorchHeightLukeMcArthur)},
			{"Scorch height Van Wagner (m):", f2(res.ScorchHeightVanWagner)},
			{"Scorch height Van Wagner with wind (m):", f2(res.ScorchHeightVanWagnerWithWind)},
		}
		for _, l := range lines {
			t.printf("%-48s%s\n", l.label, l.value)
		}
		t.printf("\n")
	}

	if level >= scenario.Comprehensive && len(res.Runs) > 0 {
		t.printf("Ignition paths\n\n")
		for _, r := range res.Runs {
			t.printf("%s", r.String())
		}
	}
	return t.err
}

func compact(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}

// Location writes the inputs of a location followed by its results.
func Location(w io.Writer, loc forest.Location, res forest.Results, level scenario.OutputLevel) error {
	if _, err := io.WriteString(w, loc.String()+"\n"+strings.Repeat("*", 20)+"\n\n"); err != nil {
		return err
	}
	return Text(w, res, level)
}
