package geometry

import (
	"math"

	"ffm/internal/numerics"
)

// Segment is the closed line segment from Start to End.
type Segment struct {
	Start, End Point
}

func NewSegment(start, end Point) Segment { return Segment{Start: start, End: end} }

// SegmentFromAngle builds the segment of the given length leaving start at
// angle radians from the positive x-axis.
func SegmentFromAngle(start Point, angle, length float64) Segment {
	return Segment{Start: start, End: start.Add(Pt(length*math.Cos(angle), length*math.Sin(angle)))}
}

func (s Segment) Length() float64 { return s.End.Sub(s.Start).Norm() }

// Vector is End - Start.
func (s Segment) Vector() Point { return s.End.Sub(s.Start) }

// Contains reports whether p lies on the segment.
func (s Segment) Contains(p Point) bool {
	u := s.Vector()
	v := p.Sub(s.Start)
	if numerics.AlmostZero(u.Norm()) {
		return numerics.AlmostZero(v.Norm())
	}
	if !numerics.AlmostZero(u.Dot(v.Perp())) {
		return false
	}
	var t float64
	if math.Abs(u.X) >= math.Abs(u.Y) {
		t = v.X / u.X
	} else {
		t = v.Y / u.Y
	}
	return numerics.Leq(0, t) && numerics.Leq(t, 1)
}

// Intersects returns the crossing point of s and o. Parallel segments never
// intersect; a degenerate segment intersects o when it lies on it.
func (s Segment) Intersects(o Segment) (Point, bool) {
	thisLength := s.Length()
	otherLength := o.Length()
	if numerics.AlmostZero(thisLength) {
		return s.Start, o.Contains(s.Start)
	}
	if numerics.AlmostZero(otherLength) {
		return o.Start, s.Contains(o.Start)
	}
	v := o.Vector().Perp().Scale(1 / otherLength)
	dot := s.Vector().Dot(v)
	if numerics.AlmostZero(dot / thisLength) {
		return Point{}, false
	}
	l1 := (o.Start.Dot(v) - s.Start.Dot(v)) / dot
	p := s.Start.Add(s.Vector().Scale(l1))
	ov := o.Vector()
	var l2 float64
	if math.Abs(ov.X) >= math.Abs(ov.Y) {
		l2 = (p.X - o.Start.X) / ov.X
	} else {
		l2 = (p.Y - o.Start.Y) / ov.Y
	}
	ok := numerics.Geq(l1, 0) && numerics.Leq(l1, 1) && numerics.Geq(l2, 0) && numerics.Leq(l2, 1)
	return p, ok
}

// IntersectsAny reports whether s meets at least one of segs.
func (s Segment) IntersectsAny(segs []Segment) bool {
	for _, o := range segs {
		if _, ok := s.Intersects(o); ok {
			return true
		}
	}
	return false
}

func (s Segment) String() string {
	return s.Start.String() + " -> " + s.End.String()
}
