package fire

import (
	"math"

	"ffm/internal/numerics"
	"ffm/internal/settings"
)

// EffectiveSlope is the mean slope seen by a flame across a short fireline,
// averaging asin(sin(slope)·cos θ) over θ in [-π/2, π/2] by 20-point
// quadrature.
func EffectiveSlope(slope float64) float64 {
	const n = 20
	h := 0.5 * math.Pi / n
	s := math.Sin(slope)
	var sum float64
	for k := 1; k <= n-1; k++ {
		sum += math.Asin(s * math.Cos(float64(k)*h))
	}
	return (0.5*slope + sum) / n
}

// clampToSlope keeps an angle at least MinFlameSepFromSlope away from the
// ground on either side.
func clampToSlope(angle, slope float64) float64 {
	return math.Min(math.Pi+slope-settings.MinFlameSepFromSlope,
		math.Max(angle, slope+settings.MinFlameSepFromSlope))
}

// WindEffectFlameAngle is the flame angle when wind dominates.
func WindEffectFlameAngle(length, wind, slope float64) float64 {
	if numerics.AlmostZero(length) {
		return 0
	}
	if numerics.AlmostZero(wind) {
		return 0.5 * math.Pi
	}
	tilt := math.Atan(0.88664 * math.Pow(length, 1.085) / math.Pow(math.Abs(wind), 1.5))
	if wind < 0 {
		tilt = math.Pi - tilt
	}
	return clampToSlope(tilt, slope)
}

// SlopeEffectFlameAngle is the flame angle when the slope dominates. Flames
// longer than the fireline see the effective slope instead of the slope.
func SlopeEffectFlameAngle(length, slope, firelineLength float64) float64 {
	if numerics.AlmostZero(length) {
		return 0
	}
	eff := slope
	if length >= firelineLength {
		eff = EffectiveSlope(slope)
	}
	var a float64
	if eff >= 0 {
		a = math.Max(math.Pi-eff, 0.25*math.Pi)
	} else {
		a = math.Min(math.Pi-eff, 0.75*math.Pi)
	}
	return clampToSlope(a, slope)
}

// FlameAngle picks between the wind and slope models. On flat ground wind
// decides. Upslope with following wind the flame leans to whichever model
// gives the lower angle; a light opposing wind leaves the slope in charge.
// Downslope mirrors this.
func FlameAngle(length, wind, slope, firelineLength float64) float64 {
	if numerics.AlmostZero(length) {
		return 0
	}
	if numerics.AlmostZero(slope) {
		return WindEffectFlameAngle(length, wind, slope)
	}
	windAngle := WindEffectFlameAngle(length, wind, slope)
	slopeAngle := SlopeEffectFlameAngle(length, slope, firelineLength)
	light := math.Abs(wind) <= settings.SlopeDominanceWindThreshold
	switch {
	case slope > 0 && wind >= 0:
		return math.Min(windAngle, slopeAngle)
	case slope < 0 && wind <= 0:
		return math.Max(windAngle, slopeAngle)
	case light:
		return slopeAngle
	default:
		return windAngle
	}
}
