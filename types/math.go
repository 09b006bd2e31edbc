package types

import "math"

const (
	floatCmpEpsilon = 1e-6

	// Epsilon used by intersection routines to reject grazing hits.
	Epsilon float32 = 1.1920929e-07
)

// Clamp value to the [lo, hi] range.
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Convert degrees to radians.
func Radians(deg float32) float32 {
	return deg * math.Pi / 180.0
}

// Get the sign of v as -1, 0 or 1.
func Sign(v float32) float32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Solve a*x^2 + b*x + c = 0. It returns the number of real solutions followed
// by the solutions themselves. When only one solution exists it is returned
// in both x0 and x1.
func SolveQuadratic(a, b, c float32) (count int, x0, x1 float32) {
	if a == 0 {
		if b == 0 {
			return 0, 0, 0
		}
		x0 = -c / b
		return 1, x0, x0
	}

	discr := b*b - 4*a*c
	switch {
	case discr < 0:
		return 0, 0, 0
	case discr == 0:
		x0 = -0.5 * b / a
		return 1, x0, x0
	}

	// Avoid catastrophic cancellation when b and sqrt(discr) are close
	var q float32
	sqrtDiscr := float32(math.Sqrt(float64(discr)))
	if b > 0 {
		q = -0.5 * (b + sqrtDiscr)
	} else {
		q = -0.5 * (b - sqrtDiscr)
	}
	return 2, q / a, c / q
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
