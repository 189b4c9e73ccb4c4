package geometry

import (
	"math"

	"ffm/internal/numerics"
)

// Line is the infinite line through Point parallel to Dir.
type Line struct {
	Point Point
	Dir   Point
}

// NewLine is the line through p at angle radians from the x-axis.
func NewLine(p Point, angle float64) Line {
	return Line{Point: p, Dir: Pt(math.Cos(angle), math.Sin(angle))}
}

func (l Line) Contains(p Point) bool {
	if p.Equal(l.Point) {
		return true
	}
	if numerics.AlmostZero(l.Dir.Norm()) {
		return false
	}
	return numerics.AlmostZero(p.Sub(l.Point).Perp().Dot(l.Dir))
}

// Intersects is the meeting point of the line with r.
func (l Line) Intersects(r Ray) (Point, bool) { return r.IntersectsLine(l) }

// OriginOnLine finds the point on l from which a ray at angle reaches
// target. A target already on the line is its own origin.
func (l Line) OriginOnLine(angle float64, target Point) (Point, bool) {
	if l.Contains(target) {
		return target, true
	}
	return RayFromAngle(target, angle+math.Pi).IntersectsLine(l)
}
