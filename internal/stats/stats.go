// Package stats provides the small set of summary statistics used to reduce
// flame length time series. Zero entries stand for time steps with no flame,
// so most helpers can skip them.
package stats

import (
	"math"

	"ffm/internal/numerics"

	"golang.org/x/exp/constraints"
)

// NonNullCount returns the number of entries that are not almost zero.
func NonNullCount[T constraints.Float](data []T) int {
	n := 0
	for _, v := range data {
		if !numerics.AlmostZero(float64(v)) {
			n++
		}
	}
	return n
}

func count[T constraints.Float](data []T, ignoreZeros bool) int {
	if ignoreZeros {
		return NonNullCount(data)
	}
	return len(data)
}

// Mean averages data. When ignoreZeros is set the zero entries do not count
// towards the divisor. An empty or all-zero input yields 0.
func Mean[T constraints.Float](data []T, ignoreZeros bool) T {
	n := count(data, ignoreZeros)
	if n == 0 {
		return 0
	}
	var sum T
	for _, v := range data {
		sum += v
	}
	return sum / T(n)
}

// StdDev is the sample standard deviation (n-1 divisor). Fewer than two
// counted values give 0.
func StdDev[T constraints.Float](data []T, ignoreZeros bool) T {
	n := count(data, ignoreZeros)
	if n < 2 {
		return 0
	}
	m := Mean(data, ignoreZeros)
	var sum T
	for _, v := range data {
		if ignoreZeros && numerics.AlmostZero(float64(v)) {
			continue
		}
		sum += (v - m) * (v - m)
	}
	return T(math.Sqrt(float64(sum / T(n-1))))
}

// Max returns the largest entry, or 0 for an empty slice.
func Max[T constraints.Float](data []T) T {
	if len(data) == 0 {
		return 0
	}
	best := data[0]
	for _, v := range data[1:] {
		if v > best {
			best = v
		}
	}
	return best
}

// CappedMax is the maximum capped at one standard deviation above the mean.
func CappedMax[T constraints.Float](data []T, ignoreZeros bool) T {
	return min(Max(data), Mean(data, ignoreZeros)+StdDev(data, ignoreZeros))
}
