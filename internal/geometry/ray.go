package geometry

import (
	"math"
	"slices"

	"ffm/internal/numerics"
)

// Ray is the half line leaving Start in direction Dir.
type Ray struct {
	Start Point
	Dir   Point
}

func NewRay(start, dir Point) Ray { return Ray{Start: start, Dir: dir} }

// RayFromAngle leaves start at angle radians from the positive x-axis.
func RayFromAngle(start Point, angle float64) Ray {
	return Ray{Start: start, Dir: Pt(math.Cos(angle), math.Sin(angle))}
}

// RayFromSegment starts at s.Start and points along s.
func RayFromSegment(s Segment) Ray { return Ray{Start: s.Start, Dir: s.Vector()} }

func (r Ray) Angle() float64 { return math.Atan2(r.Dir.Y, r.Dir.X) }

func (r Ray) Contains(p Point) bool {
	if r.Start.Equal(p) {
		return true
	}
	if numerics.AlmostZero(r.Dir.Norm()) {
		return false
	}
	v := p.Sub(r.Start)
	if !numerics.AlmostZero(v.Perp().Dot(r.Dir)) {
		return false
	}
	if math.Abs(v.X) > 0 {
		return (r.Dir.X >= 0 && v.X >= 0) || (r.Dir.X <= 0 && v.X <= 0)
	}
	return (r.Dir.Y >= 0 && v.Y >= 0) || (r.Dir.Y <= 0 && v.Y <= 0)
}

// IntersectsSegment returns where the ray meets s.
func (r Ray) IntersectsSegment(s Segment) (Point, bool) {
	sLength := s.Length()
	dLength := r.Dir.Norm()
	if numerics.AlmostZero(dLength) {
		return Point{}, false
	}
	if numerics.AlmostZero(sLength) {
		v := s.Start.Sub(r.Start)
		if numerics.AlmostEq(v.Dot(r.Dir), v.Norm()*dLength) {
			return s.Start, true
		}
		return Point{}, false
	}
	d := r.Dir.Scale(1 / dLength)
	v := s.Vector().Perp().Scale(1 / sLength)
	dot := d.Dot(v)
	if numerics.AlmostZero(dot) {
		return Point{}, false
	}
	l1 := (s.Start.Dot(v) - r.Start.Dot(v)) / dot
	p := r.Start.Add(d.Scale(l1))
	sv := s.Vector()
	var l2 float64
	if math.Abs(sv.X) >= math.Abs(sv.Y) {
		l2 = (p.X - s.Start.X) / sv.X
	} else {
		l2 = (p.Y - s.Start.Y) / sv.Y
	}
	return p, numerics.Geq(l1, 0) && numerics.Geq(l2, 0) && numerics.Leq(l2, 1)
}

// IntersectsRay returns where two rays meet.
func (r Ray) IntersectsRay(o Ray) (Point, bool) {
	thisLength := r.Dir.Norm()
	thatLength := o.Dir.Norm()
	if numerics.AlmostZero(thisLength) || numerics.AlmostZero(thatLength) {
		return Point{}, false
	}
	d := r.Dir.Scale(1 / thisLength)
	v := o.Dir.Perp().Scale(1 / thatLength)
	dot := d.Dot(v)
	if numerics.AlmostZero(dot) {
		return Point{}, false
	}
	p := r.Start.Add(d.Scale(o.Start.Sub(r.Start).Dot(v) / dot))
	return p, r.Contains(p) && o.Contains(p)
}

// IntersectsLine returns where the ray meets l. A ray starting on the line
// meets it at its start.
func (r Ray) IntersectsLine(l Line) (Point, bool) {
	if l.Contains(r.Start) {
		return r.Start, true
	}
	thisLength := r.Dir.Norm()
	thatLength := l.Dir.Norm()
	if numerics.AlmostZero(thisLength) || numerics.AlmostZero(thatLength) {
		return Point{}, false
	}
	d := r.Dir.Scale(1 / thisLength)
	v := l.Dir.Perp().Scale(1 / thatLength)
	dot := d.Dot(v)
	if numerics.AlmostZero(dot) {
		return Point{}, false
	}
	p := r.Start.Add(d.Scale(l.Point.Sub(r.Start).Dot(v) / dot))
	return p, r.Contains(p)
}

// IntersectsPolygon returns the boundary crossing nearest the ray start.
func (r Ray) IntersectsPolygon(poly Polygon) (Point, bool) {
	pts := r.BoundaryIntersections(poly)
	if len(pts) == 0 {
		return Point{}, false
	}
	best := pts[0]
	for _, p := range pts[1:] {
		if r.Start.Dist(p) < r.Start.Dist(best) {
			best = p
		}
	}
	return best, true
}

// BoundaryIntersections lists the points where the ray meets the polygon
// edges, walking the edges in order and dropping immediate repeats.
func (r Ray) BoundaryIntersections(poly Polygon) []Point {
	verts := poly.vertices
	if len(verts) == 0 {
		return nil
	}
	var out []Point
	for i := 0; i+1 < len(verts); i++ {
		if p, ok := r.IntersectsSegment(NewSegment(verts[i], verts[i+1])); ok {
			if len(out) == 0 || !p.Equal(out[len(out)-1]) {
				out = append(out, p)
			}
		}
	}
	if p, ok := r.IntersectsSegment(NewSegment(verts[len(verts)-1], verts[0])); ok {
		if len(out) == 0 || !(p.Equal(out[len(out)-1]) || p.Equal(out[0])) {
			out = append(out, p)
		}
	}
	return out
}

// crossesAtVertex decides whether a ray with direction dir passing through
// the shared vertex of s1 and s2 actually crosses the boundary there.
func crossesAtVertex(s1, s2 Segment, dir Point) bool {
	a := dir.Dot(s1.Vector().Perp())
	b := dir.Dot(s2.Vector().Perp())
	if numerics.AlmostZero(a) || numerics.AlmostZero(b) {
		return numerics.Geq(s1.Vector().Perp().Dot(s2.Vector()), 0)
	}
	return numerics.Lt(0, a*b)
}

func (r Ray) crosses(poly Polygon, p Point) bool {
	if !poly.HasVertex(p) {
		return true
	}
	segs := poly.AdjoiningSegments(p)
	return crossesAtVertex(segs[0], segs[len(segs)-1], r.Dir)
}

// farthestFirst sorts boundary points by decreasing distance from the start.
func (r Ray) farthestFirst(pts []Point) {
	slices.SortStableFunc(pts, func(a, b Point) int {
		da, db := r.Start.Dist(a), r.Start.Dist(b)
		switch {
		case da > db:
			return -1
		case da < db:
			return 1
		}
		return 0
	})
}

// Intersection returns the pieces of the ray that lie inside the polygon,
// nearest first. Tangential touches at vertices are ignored.
func (r Ray) Intersection(poly Polygon) []Segment {
	pts := r.BoundaryIntersections(poly)
	if len(pts) == 0 {
		return nil
	}
	r.farthestFirst(pts)
	var out []Segment
	inside := false
	var end Point
	for _, p := range pts {
		if !r.crosses(poly, p) {
			continue
		}
		if !inside {
			end = p
		} else {
			out = append(out, NewSegment(p, end))
		}
		inside = !inside
	}
	if inside && !r.Start.Equal(end) {
		out = append(out, NewSegment(r.Start, end))
	}
	slices.Reverse(out)
	return out
}

// IntersectionLength is the distance from the nearest to the farthest
// crossing of the polygon boundary, or from the ray start when it starts
// inside.
func (r Ray) IntersectionLength(poly Polygon) float64 {
	pts := r.BoundaryIntersections(poly)
	if len(pts) == 0 {
		return 0
	}
	r.farthestFirst(pts)
	foundEnd, inside := false, false
	start, end, last := r.Start, r.Start, r.Start
	for _, p := range pts {
		if !r.crosses(poly, p) {
			continue
		}
		inside = !inside
		if !foundEnd {
			start, end = p, p
			foundEnd = true
		}
		if !inside {
			start = p
		}
		last = p
	}
	if inside && !r.Start.Equal(last) {
		start = r.Start
	}
	return start.Dist(end)
}
