package geometry

import (
	"math"
	"slices"
	"strings"

	"ffm/internal/numerics"
)

// Polygon is a simple polygon stored anticlockwise without redundant
// vertices. The zero value is the empty polygon.
type Polygon struct {
	vertices []Point
}

// NewPolygon cleans verts and builds the polygon. Collinear and repeated
// vertices are dropped. Input that self-intersects or doubles back on itself
// yields the empty polygon. Clockwise input is reversed.
func NewPolygon(verts []Point) Polygon {
	n := len(verts)
	if n < 3 {
		return Polygon{}
	}
	var kept []Point
	var sides []Segment
	seg := Segment{Start: verts[n-1]}

	// addSide checks the side ending at v against the sides already built.
	addSide := func(v Point) bool {
		seg.End = v
		if len(sides) > 1 && seg.IntersectsAny(sides[:len(sides)-1]) {
			return false
		}
		if len(sides) > 0 {
			prev := sides[len(sides)-1]
			if numerics.AlmostEq(seg.Vector().Dot(prev.Vector()), -seg.Length()*prev.Length()) {
				return false
			}
		}
		sides = append(sides, seg)
		return true
	}

	for i := 0; i < n-1; i++ {
		seg.End = verts[i+1]
		if seg.Contains(verts[i]) {
			continue
		}
		kept = append(kept, verts[i])
		if len(kept) > 1 && !addSide(verts[i]) {
			return Polygon{}
		}
		seg.Start = verts[i]
	}
	if len(kept) < 2 {
		return Polygon{}
	}
	last := verts[n-1]
	seg.End = kept[0]
	if !seg.Contains(last) {
		kept = append(kept, last)
		if !addSide(last) {
			return Polygon{}
		}
	}
	if len(kept) < 3 {
		return Polygon{}
	}
	closing := NewSegment(kept[len(kept)-1], kept[0])
	if len(sides) > 1 && closing.IntersectsAny(sides[1:len(sides)-1]) {
		return Polygon{}
	}
	if signedArea(kept) < 0 {
		slices.Reverse(kept)
	}
	return Polygon{vertices: kept}
}

// signedArea is the shoelace area, positive for anticlockwise vertices.
func signedArea(verts []Point) float64 {
	var sum float64
	for i, p := range verts {
		q := verts[(i+1)%len(verts)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return 0.5 * sum
}

// Vertices returns a copy of the anticlockwise vertex list.
func (p Polygon) Vertices() []Point { return slices.Clone(p.vertices) }

func (p Polygon) Empty() bool { return len(p.vertices) == 0 }

// Area is the enclosed area.
func (p Polygon) Area() float64 {
	if p.Empty() {
		return 0
	}
	return signedArea(p.vertices)
}

// Equal compares vertex cycles, ignoring where each cycle starts.
func (p Polygon) Equal(o Polygon) bool {
	if len(p.vertices) != len(o.vertices) {
		return false
	}
	if p.Empty() {
		return true
	}
	start := slices.IndexFunc(o.vertices, p.vertices[0].Equal)
	if start < 0 {
		return false
	}
	n := len(p.vertices)
	for i := range p.vertices {
		if !p.vertices[i].Equal(o.vertices[(start+i)%n]) {
			return false
		}
	}
	return true
}

func (p Polygon) HasVertex(v Point) bool {
	return slices.IndexFunc(p.vertices, v.Equal) >= 0
}

// AdjoiningSegments returns the anticlockwise sides touching pt: two for a
// vertex, one for an interior point of a side, none off the boundary.
func (p Polygon) AdjoiningSegments(pt Point) []Segment {
	n := len(p.vertices)
	for i, v := range p.vertices {
		next := NewSegment(v, p.vertices[(i+1)%n])
		prev := NewSegment(p.vertices[(i+n-1)%n], v)
		if pt.Equal(v) {
			return []Segment{prev, next}
		}
		if next.Contains(pt) && !pt.Equal(next.End) {
			return []Segment{next}
		}
	}
	return nil
}

// Translate shifts every vertex by d.
func (p Polygon) Translate(d Point) Polygon {
	out := make([]Point, len(p.vertices))
	for i, v := range p.vertices {
		out[i] = v.Add(d)
	}
	return Polygon{vertices: out}
}

func (p Polygon) extent(coord func(Point) float64, better func(a, b float64) bool) float64 {
	if p.Empty() {
		return 0
	}
	best := coord(p.vertices[0])
	for _, v := range p.vertices[1:] {
		if c := coord(v); better(c, best) {
			best = c
		}
	}
	return best
}

func px(p Point) float64 { return p.X }
func py(p Point) float64 { return p.Y }
func greater(a, b float64) bool { return a > b }
func less(a, b float64) bool { return a < b }

func (p Polygon) Left() float64 { return p.extent(px, less) }
func (p Polygon) Right() float64 { return p.extent(px, greater) }
func (p Polygon) Bottom() float64 { return p.extent(py, less) }
func (p Polygon) Top() float64 { return p.extent(py, greater) }

// Width is Right - Left.
func (p Polygon) Width() float64 { return p.Right() - p.Left() }

// verticalCut lists boundary points on the vertical line at x.
func (p Polygon) verticalCut(x float64) []Point {
	return NewRay(Pt(x, p.Bottom()-1), Pt(0, 1)).BoundaryIntersections(p)
}

// CentreTop is the highest boundary point on the vertical centre line.
func (p Polygon) CentreTop() float64 {
	pts := p.verticalCut(0.5 * (p.Left() + p.Right()))
	if len(pts) == 0 {
		return 0
	}
	return slices.MaxFunc(pts, byY).Y
}

// CentreBottom is the lowest boundary point on the vertical centre line.
func (p Polygon) CentreBottom() float64 {
	pts := p.verticalCut(0.5 * (p.Left() + p.Right()))
	if len(pts) == 0 {
		return 0
	}
	return slices.MinFunc(pts, byY).Y
}

func byY(a, b Point) int {
	switch {
	case a.Y < b.Y:
		return -1
	case a.Y > b.Y:
		return 1
	}
	return 0
}

// RightTop is the highest y among the right-most vertices.
func (p Polygon) RightTop() float64 { return p.rightEdge(greater) }

// RightBottom is the lowest y among the right-most vertices.
func (p Polygon) RightBottom() float64 { return p.rightEdge(less) }

func (p Polygon) rightEdge(better func(a, b float64) bool) float64 {
	if p.Empty() {
		return 0
	}
	best := p.vertices[0]
	for _, v := range p.vertices[1:] {
		if v.X > best.X && !numerics.AlmostEq(v.X, best.X) {
			best = v
		} else if numerics.AlmostEq(v.X, best.X) && better(v.Y, best.Y) {
			best = v
		}
	}
	return best.Y
}

// Centroid is the vertex average. The empty polygon gives the origin.
func (p Polygon) Centroid() Point {
	if p.Empty() {
		return Point{}
	}
	var sum Point
	for _, v := range p.vertices {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float64(len(p.vertices)))
}

// PointInBase is the lowest boundary point at x, with x clamped into
// [Left, Right].
func (p Polygon) PointInBase(x float64) Point {
	if p.Empty() {
		return Point{}
	}
	xx := math.Max(math.Min(x, p.Right()), p.Left())
	pts := p.verticalCut(xx)
	if len(pts) == 0 {
		return Pt(xx, p.Bottom())
	}
	return slices.MinFunc(pts, byY)
}

// VolumeOfRevolution is the volume swept by rotating the polygon about the
// vertical axis through its centroid. Only the half to the right of the
// axis is integrated, so the result is exact for symmetric outlines.
func (p Polygon) VolumeOfRevolution() float64 {
	if p.Empty() {
		return 0
	}
	axis := p.Centroid().X
	var sum float64
	n := len(p.vertices)
	for i, u := range p.vertices {
		w := p.vertices[(i+1)%n]
		if numerics.Geq(u.X, axis) && numerics.Geq(w.X, axis) {
			r1, r2 := u.X-axis, w.X-axis
			sum += (r1*r1 + r1*r2 + r2*r2) * (w.Y - u.Y)
		}
	}
	return sum * math.Pi / 3
}

func (p Polygon) String() string {
	var b strings.Builder
	for _, v := range p.vertices {
		b.WriteString(v.String())
		b.WriteByte(' ')
	}
	return b.String()
}
