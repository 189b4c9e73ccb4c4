package report

import (
	"strconv"
	"strings"

	"ffm/internal/core"
	"ffm/internal/forest"
)

// Snapshot groups the headline results for display: overall values first,
// then one group per stratum.
func Snapshot(res forest.Results) core.ParameterSnapshot {
	overall := core.ParameterGroup{
		Name: "Overall",
		Params: []core.Parameter{
			value("ros", "Rate of spread", kmh(res.ROS), "km/h", 2),
			value("flame_length", "Flame length", res.FlameLength, "m", 2),
			value("flame_angle", "Flame angle", deg(res.FlameAngle), "deg", 1),
			value("flame_tip_height", "Flame tip height", res.FlameTipHeight, "m", 2),
			value("flame_depth", "Flame depth", res.FlameDepth, "m", 1),
			{Key: "crown_fire_type", Label: "Crown fire type", Type: core.ParamTypeText, Value: res.CrownFireType.String()},
			value("wind_reduction_factor", "Wind reduction factor", res.WindReductionFactor, "", 2),
			value("scorch_height_van_wagner", "Scorch height (Van Wagner)", res.ScorchHeightVanWagner, "m", 1),
		},
		Summary: "Runs: " + strconv.Itoa(len(res.Runs)),
	}
	surface := core.ParameterGroup{
		Name: "Surface",
		Params: []core.Parameter{
			value("surface_ros", "Rate of spread", kmh(res.SurfaceROS), "km/h", 2),
			value("surface_flame_length", "Flame length", res.SurfaceFlameLength, "m", 2),
		},
	}
	snap := core.ParameterSnapshot{Groups: []core.ParameterGroup{overall, surface}}
	for _, sr := range res.Strata {
		prefix := strings.ToLower(strings.ReplaceAll(sr.Level.String(), "-", "_")) + "_"
		snap.Groups = append(snap.Groups, core.ParameterGroup{
			Name: sr.Level.String(),
			Params: []core.Parameter{
				value(prefix+"ros", "Rate of spread", kmh(sr.ROS), "km/h", 2),
				value(prefix+"flame_length", "Flame length", sr.FlameLength, "m", 2),
				value(prefix+"flame_tip_height", "Flame tip height", sr.FlameTipHeight, "m", 2),
				value(prefix+"proportion_burnt", "Proportion burnt", sr.ProportionBurnt*100, "%", 0),
			},
		})
	}
	return snap
}

func value(key, label string, v float64, unit string, prec int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(v, 'f', prec, 64),
		Unit:  unit,
	}
}
