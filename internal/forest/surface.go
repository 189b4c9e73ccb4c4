// Package forest holds the static description of a forest site and runs the
// layered ignition computation over it.
package forest

import (
	"fmt"
	"math"

	"ffm/internal/settings"
)

// Surface is the litter bed under the strata.
type Surface struct {
	Slope          float64 // rad
	DeadFuelMoist  float64 // fraction
	FuelLoad       float64 // kg/m²
	MeanFuelDiam   float64 // m
	MeanFineLeaves float64 // m
	valid          bool
}

// NewSurface checks the inputs; a surface that fails them is not Valid and
// burns with no flame.
func NewSurface(slope, dfmc, fuelLoad, fuelDiam, fineness float64) Surface {
	s := Surface{Slope: slope, DeadFuelMoist: dfmc, FuelLoad: fuelLoad, MeanFuelDiam: fuelDiam, MeanFineLeaves: fineness}
	s.valid = slope > -math.Pi && slope < math.Pi && dfmc >= 0 && fuelLoad >= 0 && fuelDiam >= 0 && fineness >= 0
	return s
}

func (s Surface) Valid() bool { return s.valid }

func (s Surface) burns(minLoad float64) bool {
	return s.valid && s.DeadFuelMoist < settings.ExtinctionDFMC && s.FuelLoad >= minLoad
}

// ThicknessMultiplier scales spread rates by leaf fineness (mm).
func (s Surface) ThicknessMultiplier() float64 {
	return 0.5314 * math.Pow(s.MeanFineLeaves*1000, -0.401)
}

// BackingROS (m/s).
func (s Surface) BackingROS() float64 {
	if !s.burns(settings.MinFuelLoadForSurfaceBackingFire) {
		return 0
	}
	return s.ThicknessMultiplier() * (2.703e-3*s.FuelLoad + 1.175e-3) * math.Exp(3.9534*s.Slope)
}

// BackingFlameLength (m).
func (s Surface) BackingFlameLength() float64 {
	if !s.burns(settings.MinFuelLoadForSurfaceBackingFire) {
		return 0
	}
	return 0.317*s.FuelLoad + 0.0167
}

// HeadROS (m/s) for the given surface wind.
func (s Surface) HeadROS(wind float64) float64 {
	if !s.burns(settings.MinFuelLoadForSurfaceHeadFire) {
		return 0
	}
	slope := math.Max(0, math.Min(settings.MaxSlopeForSurfROS, s.Slope))
	return s.ThicknessMultiplier() * (0.42088*math.Pow(wind, 2.22) + 0.071) /
		(10.8 + 3.3192*s.DeadFuelMoist) * math.Exp(3.9534*slope)
}

// HeadFlameLength (m); 8.64 is 2.4 converted from km/h.
func (s Surface) HeadFlameLength(wind float64) float64 {
	if !s.burns(settings.MinFuelLoadForSurfaceHeadFire) {
		return 0
	}
	return 8.64*s.HeadROS(wind) + 0.36*s.FuelLoad
}

// ROS of the surface fire, head or backing, capped at MaxSurfROS.
func (s Surface) ROS(wind float64) float64 {
	return math.Min(settings.MaxSurfROS, math.Max(s.BackingROS(), s.HeadROS(wind)))
}

// FlameLength of the surface fire, capped at MaxSurfFlameLength.
func (s Surface) FlameLength(wind float64) float64 {
	fl := s.BackingFlameLength()
	if wind > 0 {
		fl = s.HeadFlameLength(wind)
	}
	return math.Min(settings.MaxSurfFlameLength, fl)
}

// FlameResidenceTime (s) from fuel diameter in mm.
func (s Surface) FlameResidenceTime() float64 {
	return 0.87 * math.Pow(s.MeanFuelDiam*1000, 1.875)
}

func (s Surface) String() string {
	return fmt.Sprintf("Slope (deg): %.1f\nDead fuel moisture content: %.3f\nFuel load (tonnes per hectare): %.1f\n"+
		"Mean fuel diameter (m): %.5f\nMean leaf fineness (m): %.5f\n",
		s.Slope*180/math.Pi, s.DeadFuelMoist, s.FuelLoad*10, s.MeanFuelDiam, s.MeanFineLeaves)
}

// Weather at the site.
type Weather struct {
	AirTemp float64 // °C
}

func (w Weather) String() string { return fmt.Sprintf("Air temperature (C): %.1f\n", w.AirTemp) }
