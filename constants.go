package geocentric

import "math"

// EPS is the float64 machine epsilon.
const EPS = 2.220446049250313e-16

// EPS0 is EPS squared, the threshold below which a value is considered zero.
const EPS0 = EPS * EPS

// EPS1 is 1 - EPS.
const EPS1 = 1 - EPS

const degToRad = math.Pi / 180.0
const arcsecToRad = math.Pi / (180.0 * 3600.0)

// isNear0 reports whether x is zero within EPS0. NaN is never near zero.
func isNear0(x float64) bool {
	return math.Abs(x) < EPS0
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func hypot3(x, y, z float64) float64 {
	return math.Hypot(math.Hypot(x, y), z)
}
