// Package numerics holds the tolerance-based comparisons used by every
// geometric and flame computation in the model.
package numerics

import "math"

const (
	// AbsEpsilon is the absolute tolerance for equality tests.
	AbsEpsilon = 1e-9
	// RelEpsilon is the relative tolerance for equality tests.
	RelEpsilon = 1e-9
)

// AlmostEq reports whether a and b agree to within the absolute or the
// relative tolerance.
func AlmostEq(a, b float64) bool {
	diff := math.Abs(a - b)
	if diff <= AbsEpsilon {
		return true
	}
	return diff <= math.Max(math.Abs(a), math.Abs(b))*RelEpsilon
}

// AlmostZero reports whether a is within AbsEpsilon of zero.
func AlmostZero(a float64) bool {
	return math.Abs(a) <= AbsEpsilon
}

// Geq is a >= b under tolerance.
func Geq(a, b float64) bool { return AlmostEq(a, b) || a > b }

// Leq is a <= b under tolerance.
func Leq(a, b float64) bool { return AlmostEq(a, b) || a < b }

// Lt is a < b under tolerance.
func Lt(a, b float64) bool { return !Geq(a, b) }

// Gt is a > b under tolerance.
func Gt(a, b float64) bool { return !Leq(a, b) }

// ClampToZero returns 0 for values that are almost zero.
func ClampToZero(a float64) float64 {
	if AlmostZero(a) {
		return 0
	}
	return a
}
