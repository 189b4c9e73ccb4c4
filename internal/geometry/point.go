// Package geometry is the 2-D kernel shared by the flame and ignition
// computations: points, segments, rays, lines and simple polygons. Every
// comparison goes through the numerics tolerances.
package geometry

import (
	"fmt"
	"math"

	"ffm/internal/numerics"
)

// Point is a position or a vector in the plane.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dot is the inner product.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

func (p Point) Scale(s float64) Point { return Point{s * p.X, s * p.Y} }

// Perp rotates the vector anticlockwise by π/2.
func (p Point) Perp() Point { return Point{-p.Y, p.X} }

func (p Point) Norm() float64 { return math.Sqrt(p.X*p.X + p.Y*p.Y) }

// Equal reports whether p and q are within tolerance of each other.
func (p Point) Equal(q Point) bool {
	return numerics.AlmostZero(p.Sub(q).Norm())
}

// Dist is |p - q|.
func (p Point) Dist(q Point) float64 { return p.Sub(q).Norm() }

func (p Point) String() string {
	return fmt.Sprintf("(%6.3f : %6.3f)", p.X, p.Y)
}
