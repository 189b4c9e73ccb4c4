// Package settings holds the fixed constants of the flammability model.
package settings

import (
	"math"
	"strconv"

	"ffm/internal/core"
)

const (
	// ComputationTimeInterval is the length of one model time step (s).
	ComputationTimeInterval = 1.0

	// ExtinctionDFMC is the dead fuel moisture content at or above which no
	// surface fire exists.
	ExtinctionDFMC = 0.2
	// MinFuelLoadForSurfaceBackingFire is in kg/m².
	MinFuelLoadForSurfaceBackingFire = 0.4
	// MinFuelLoadForSurfaceHeadFire is in kg/m².
	MinFuelLoadForSurfaceHeadFire = 0.3

	// MinFlameSepFromSlope keeps flames at least this far (rad) off the slope.
	MinFlameSepFromSlope = 0.01745
	// SlopeDominanceWindThreshold (m/s): below this opposing wind speed the
	// slope model decides the flame angle.
	SlopeDominanceWindThreshold = 0.8333

	MaxSurfROS         = 9.72e-2 // m/s
	MaxSurfFlameLength = 2.0     // m
	MaxSlopeForSurfROS = 0.698   // rad, 40 degrees

	// GrassIDTReduction multiplies ignition delay times for near-surface grasses.
	GrassIDTReduction = 0.75

	MainFlameDeltaTemp  = 950.0 // °C above ambient
	GrassFlameDeltaTemp = 750.0 // °C above ambient

	// MinHeightForWindComp is the lowest height (m) the wind profile is sampled at.
	MinHeightForWindComp = 0.1

	// NumPenetrationSteps subdivides each potential ignition path.
	NumPenetrationSteps = 10

	// MaxTime bounds a single ignition path computation (s).
	MaxTime = 25.0

	// MinRateForStratumSpread (m/s) is 0.01 km/h.
	MinRateForStratumSpread = 2.7778e-3
	// MinTimeStepsForStratumSpread is how many steps must advance at
	// MinRateForStratumSpread for a stratum fire to count as spreading.
	MinTimeStepsForStratumSpread = 2

	// IndependentSpreadSensitivity is 10 degrees in radians.
	IndependentSpreadSensitivity = 0.17453

	MinTempForCanopyHeating         = 100.0 // °C
	ReducedCanopyFlameResidenceTime = 1.0   // s
)

// MaxTimeSteps is the number of time steps that fit in MaxTime.
var MaxTimeSteps = int(math.Round(MaxTime / ComputationTimeInterval))

// Snapshot exposes the constants for display.
func Snapshot() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Time",
			Params: []core.Parameter{
				floatParam("computation_time_interval", "Computation time interval", ComputationTimeInterval, "s"),
				floatParam("max_time", "Maximum path time", MaxTime, "s"),
				intParam("max_time_steps", "Maximum time steps", MaxTimeSteps),
				intParam("num_penetration_steps", "Penetration steps", NumPenetrationSteps),
			},
		},
		{
			Name: "Surface",
			Params: []core.Parameter{
				floatParam("extinction_dfmc", "Extinction dead fuel moisture", ExtinctionDFMC, ""),
				floatParam("min_fuel_load_backing", "Min fuel load, backing fire", MinFuelLoadForSurfaceBackingFire, "kg/m2"),
				floatParam("min_fuel_load_head", "Min fuel load, head fire", MinFuelLoadForSurfaceHeadFire, "kg/m2"),
				floatParam("max_surf_ros", "Max surface ROS", MaxSurfROS, "m/s"),
				floatParam("max_surf_flame_length", "Max surface flame length", MaxSurfFlameLength, "m"),
				floatParam("max_slope_for_surf_ros", "Max slope for surface ROS", MaxSlopeForSurfROS, "rad"),
			},
		},
		{
			Name: "Flames",
			Params: []core.Parameter{
				floatParam("min_flame_sep_from_slope", "Min flame separation from slope", MinFlameSepFromSlope, "rad"),
				floatParam("slope_dominance_wind_threshold", "Slope dominance wind threshold", SlopeDominanceWindThreshold, "m/s"),
				floatParam("main_flame_delta_temp", "Flame temperature rise", MainFlameDeltaTemp, "C"),
				floatParam("grass_flame_delta_temp", "Grass flame temperature rise", GrassFlameDeltaTemp, "C"),
				floatParam("grass_idt_reduction", "Grass ignition delay factor", GrassIDTReduction, ""),
				floatParam("min_height_for_wind", "Min height for wind", MinHeightForWindComp, "m"),
			},
		},
		{
			Name: "Spread",
			Params: []core.Parameter{
				floatParam("min_rate_for_stratum_spread", "Min rate for stratum spread", MinRateForStratumSpread, "m/s"),
				intParam("min_time_steps_for_stratum_spread", "Min steps for stratum spread", MinTimeStepsForStratumSpread),
				floatParam("independent_spread_sensitivity", "Independent spread sensitivity", IndependentSpreadSensitivity, "rad"),
				floatParam("min_temp_for_canopy_heating", "Min canopy heating temperature", MinTempForCanopyHeating, "C"),
				floatParam("reduced_canopy_flame_residence", "Reduced canopy residence time", ReducedCanopyFlameResidenceTime, "s"),
			},
		},
	}}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func floatParam(key, label string, value float64, unit string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
		Unit:  unit,
	}
}
