// Package fire models flames and the paths they burn through plant crowns.
package fire

import (
	"fmt"
	"math"

	"ffm/internal/geometry"
	"ffm/internal/numerics"
)

// Flame is a straight flame leaving Origin at Angle. The zero value is the
// null flame.
type Flame struct {
	Length           float64 // m
	Angle            float64 // rad from the positive x-axis
	Origin           geometry.Point
	DepthIgnited     float64 // m
	DeltaTemperature float64 // °C above ambient
}

// NewFlame builds a flame. A flame is never shorter than the depth of fuel
// burning beneath it.
func NewFlame(length, angle float64, origin geometry.Point, depthIgnited, deltaTemp float64) Flame {
	return Flame{
		Length:           math.Max(length, depthIgnited),
		Angle:            angle,
		Origin:           origin,
		DepthIgnited:     depthIgnited,
		DeltaTemperature: deltaTemp,
	}
}

// IsNull reports a flame with no length.
func (f Flame) IsNull() bool { return numerics.Leq(f.Length, 0) }

func (f Flame) Tip() geometry.Point {
	return f.Origin.Add(geometry.Pt(math.Cos(f.Angle), math.Sin(f.Angle)).Scale(f.Length))
}

// Plume is the ray along which the flame and its plume rise.
func (f Flame) Plume() geometry.Ray { return geometry.RayFromAngle(f.Origin, f.Angle) }

// plumeDecay is the Gaussian decay factor reached at the flame tip,
// exp(-(L-d)/(2L)).
func (f Flame) plumeDecay() float64 {
	return math.Exp(-(f.Length - f.DepthIgnited) / (2 * f.Length))
}

// PlumeDeltaTemperature is the temperature rise at distance dist along the
// plume from the origin. Inside the burning depth it is the full flame
// temperature; it then decays as a Gaussian to the tip and as 1/dist beyond.
func (f Flame) PlumeDeltaTemperature(dist float64) float64 {
	if f.IsNull() {
		return 0
	}
	if dist <= f.DepthIgnited {
		return f.DeltaTemperature
	}
	if dist <= f.Length {
		x := dist - f.DepthIgnited
		return f.DeltaTemperature * math.Exp(-x*x/(2*f.Length*(f.Length-f.DepthIgnited)))
	}
	return f.DeltaTemperature * f.Length / dist * f.plumeDecay()
}

// PlumeTemperature is the absolute plume temperature at distance dist.
func (f Flame) PlumeTemperature(dist, ambient float64) float64 {
	return f.PlumeDeltaTemperature(dist) + ambient
}

// PlumeTemperatureAt assumes pt lies on the plume and measures from the origin.
func (f Flame) PlumeTemperatureAt(pt geometry.Point, ambient float64) float64 {
	return f.PlumeTemperature(pt.Dist(f.Origin), ambient)
}

// InversePlumeTemperature is the distance along the plume at which target is
// reached. It fails for null flames and for targets hotter than the flame.
func (f Flame) InversePlumeTemperature(target, ambient float64) (float64, bool) {
	if f.IsNull() || f.DepthIgnited < 0 || f.Length < f.DepthIgnited {
		return 0, false
	}
	top := f.DeltaTemperature + ambient
	if numerics.Gt(target, top) {
		return 0, false
	}
	if numerics.AlmostEq(target, top) {
		return f.DepthIgnited, true
	}
	deltaT := target - ambient
	decay := f.plumeDecay()
	if numerics.Gt(deltaT, f.DeltaTemperature*decay) && numerics.Gt(f.Length, f.DepthIgnited) {
		a := -1 / (2 * f.Length * (f.Length - f.DepthIgnited))
		return math.Sqrt(math.Log(deltaT/f.DeltaTemperature)/a) + f.DepthIgnited, true
	}
	return f.DeltaTemperature * f.Length / deltaT * decay, true
}

// merge holds the parts of a combination that do not depend on the angle.
// It is symmetric in f and o.
func (f Flame) merge(o Flame) (length float64, origin geometry.Point, depth, temp float64) {
	origin = lowerOrigin(f.Origin, o.Origin)
	depth = f.DepthIgnited + o.DepthIgnited
	temp = (f.DeltaTemperature*f.Length + o.DeltaTemperature*o.Length) / (f.Length + o.Length)

	overlap := math.Max(0, math.Min(f.Tip().Y, o.Tip().Y)-math.Max(f.Origin.Y, o.Origin.Y))
	length = f.Length + o.Length - 0.5*(overlapShare(f, overlap)+overlapShare(o, overlap))
	length = math.Max(length, math.Max(f.Length, math.Max(o.Length, depth)))
	return length, origin, depth, temp
}

// lowerOrigin picks the lower of two origins, the leftmost on a tie.
func lowerOrigin(a, b geometry.Point) geometry.Point {
	if numerics.AlmostEq(a.Y, b.Y) {
		if b.X < a.X {
			return b
		}
		return a
	}
	if b.Y < a.Y {
		return b
	}
	return a
}

// overlapShare is the part of f's length inside the shared vertical band.
// A horizontal flame has no vertical extent to share.
func overlapShare(f Flame, overlap float64) float64 {
	rise := f.Tip().Y - f.Origin.Y
	if numerics.AlmostZero(rise) {
		return 0
	}
	return overlap / rise * f.Length
}

// Combine merges two simultaneous flames. The lower origin is kept, the
// leftmost when both are level. The burning depths add and the angle is
// recomputed from the merged length. Combining with a null flame returns
// the other flame.
func (f Flame) Combine(o Flame, wind, slope, firelineLength float64) Flame {
	if f.IsNull() {
		return o
	}
	if o.IsNull() {
		return f
	}
	length, origin, depth, temp := f.merge(o)
	return NewFlame(length, FlameAngle(length, wind, slope, firelineLength), origin, depth, temp)
}

// CombineWeighted merges like Combine but takes the length-weighted mean
// angle instead of recomputing it.
func (f Flame) CombineWeighted(o Flame) Flame {
	if f.IsNull() {
		return o
	}
	if o.IsNull() {
		return f
	}
	length, origin, depth, temp := f.merge(o)
	angle := (f.Length*f.Angle + o.Length*o.Angle) / (f.Length + o.Length)
	return NewFlame(length, angle, origin, depth, temp)
}

func (f Flame) String() string {
	return fmt.Sprintf("Len (m): %.2f Angle (deg): %.1f Origin: %v Depth ignited (m): %.2f Delta temperature (C): %.0f",
		f.Length, f.Angle*180/math.Pi, f.Origin, f.DepthIgnited, f.DeltaTemperature)
}

// CombineFlames combines two flame time series step by step. The tail of
// the longer series is kept as is.
func CombineFlames(a, b []Flame, wind, slope, firelineLength float64) []Flame {
	return zipFlames(a, b, func(x, y Flame) Flame { return x.Combine(y, wind, slope, firelineLength) })
}

// CombineFlamesWeighted is CombineFlames using CombineWeighted.
func CombineFlamesWeighted(a, b []Flame) []Flame {
	return zipFlames(a, b, Flame.CombineWeighted)
}

func zipFlames(a, b []Flame, join func(x, y Flame) Flame) []Flame {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make([]Flame, 0, max(len(a), len(b)))
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		out = append(out, join(a[i], b[i]))
	}
	out = append(out, a[n:]...)
	out = append(out, b[n:]...)
	return out
}

// LaterallyMergedFlameLength widens a single plant flame of length l to
// account for flames from neighbouring plants across a fireline, given the
// plant width and separation.
func LaterallyMergedFlameLength(l, firelineLength, width, sep float64) float64 {
	sigma := math.Min(0.23112*width*math.Pow(l/width, 0.6667), firelineLength)
	return l * math.Pow(sigma/sep+1, 0.4)
}
