package geocentric

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Ellipsoid is an oblate ellipsoid of revolution (or a sphere) given by its
// semi-major axis and flattening. Ellipsoids are immutable and shared.
type Ellipsoid struct {
	name string

	a float64 // semi-major axis in meters
	b float64 // semi-minor axis in meters
	f float64 // flattening

	e2    float64 // first eccentricity squared, f * (2 - f)
	e4    float64 // e2 * e2
	e21   float64 // 1 - e2, also (1 - f)^2
	a2inv float64 // 1 / a^2

	maxrad float64 // beyond this distance the earth is a point
}

// Earth is anything that can stand in for an ellipsoid when computing
// heights and radii of curvature: an *Ellipsoid, a *Datum or a Radius.
type Earth interface {
	Ellipsoid() *Ellipsoid
}

// NewEllipsoid constructs a new ellipsoid. A flattening of zero makes a
// sphere; prolate ellipsoids (negative flattening) are not supported.
func NewEllipsoid(name string, semiMajorAxis, flattening float64) (*Ellipsoid, error) {
	if !isFinite(semiMajorAxis) || semiMajorAxis <= 0.0 {
		return nil, errors.New("Semi-major axis must be greater than zero")
	}
	if !isFinite(flattening) || flattening < 0 || flattening >= 1 {
		return nil, errors.New("flattening out of range")
	}
	e := &Ellipsoid{
		name: name,
		a:    semiMajorAxis,
		f:    flattening,
	}
	e.b = e.a * (1 - e.f)
	e.e2 = e.f * (2 - e.f)
	e.e4 = e.e2 * e.e2
	e.e21 = 1 - e.e2
	e.a2inv = 1 / (e.a * e.a)
	e.maxrad = 2 * e.a / EPS
	return e, nil
}

// NewEllipsoidInverse constructs an ellipsoid from its semi-major axis and
// inverse flattening. An inverse flattening of zero makes a sphere.
func NewEllipsoidInverse(name string, semiMajorAxis, inverseFlattening float64) (*Ellipsoid, error) {
	f := 0.0
	if inverseFlattening != 0 {
		f = 1 / inverseFlattening
	}
	return NewEllipsoid(name, semiMajorAxis, f)
}

// Ellipsoid returns e, so that an *Ellipsoid satisfies Earth.
func (e *Ellipsoid) Ellipsoid() *Ellipsoid { return e }

// Name returns the ellipsoid's name.
func (e *Ellipsoid) Name() string { return e.name }

// A returns the semi-major axis in meters.
func (e *Ellipsoid) A() float64 { return e.a }

// B returns the semi-minor axis in meters.
func (e *Ellipsoid) B() float64 { return e.b }

// F returns the flattening.
func (e *Ellipsoid) F() float64 { return e.f }

// E2 returns the first eccentricity squared.
func (e *Ellipsoid) E2() float64 { return e.e2 }

// E4 returns the first eccentricity to the fourth power.
func (e *Ellipsoid) E4() float64 { return e.e4 }

// E21 returns 1 - E2.
func (e *Ellipsoid) E21() float64 { return e.e21 }

// A2Inv returns 1 / A^2.
func (e *Ellipsoid) A2Inv() float64 { return e.a2inv }

// IsSpherical reports whether the ellipsoid is a sphere.
func (e *Ellipsoid) IsSpherical() bool { return e.f == 0 }

// IsEllipsoidal reports whether the ellipsoid is not a sphere.
func (e *Ellipsoid) IsEllipsoidal() bool { return e.f != 0 }

// Equal reports whether both ellipsoids have the same axis and flattening.
func (e *Ellipsoid) Equal(o *Ellipsoid) bool {
	if e == o {
		return true
	}
	if e == nil || o == nil {
		return false
	}
	return e.a == o.a && e.f == o.f
}

func (e *Ellipsoid) String() string {
	return fmt.Sprintf("%s(a=%.3f, f=1/%.9f)", e.name, e.a, 1/e.f)
}

// Roc1 returns the prime vertical radius of curvature at the latitude with
// the given sine.
func (e *Ellipsoid) Roc1(sinLat float64) float64 {
	if e.e2 == 0 {
		return e.a
	}
	return e.a / math.Sqrt(1-e.e2*sinLat*sinLat)
}

// forward converts geodetic latitude/longitude sines and cosines and a
// height to geocentric coordinates.
func (e *Ellipsoid) forward(sphi, cphi, slam, clam, h float64) r3.Vector {
	n := e.Roc1(sphi)
	r := (n + h) * cphi
	return r3.Vector{
		X: r * clam,
		Y: r * slam,
		Z: (n*e.e21 + h) * sphi,
	}
}

// reverse is the closed-form geocentric to geodetic inversion by C. F. F.
// Karney, "Geodesics on an ellipsoid of revolution", restricted to oblate
// ellipsoids and spheres. It returns the sine and cosine of latitude and
// longitude, the height and the case taken: 1 for the general solution,
// 2 far from the ellipsoid and 3 on the equatorial plane inside the evolute.
func (e *Ellipsoid) reverse(x, y, z float64) (sphi, cphi, slam, clam, h float64, c int) {
	R := math.Hypot(x, y)
	slam, clam = 0, 1
	if R != 0 {
		slam, clam = y/R, x/R
	}
	h = math.Hypot(R, z)
	c = 1

	switch {
	case h > e.maxrad:
		// The earth is a point; h is an acceptable approximation.
		R = math.Hypot(x/2, y/2)
		slam, clam = 0, 1
		if R != 0 {
			slam, clam = (y/2)/R, (x/2)/R
		}
		H := math.Hypot(z/2, R)
		sphi, cphi = (z/2)/H, R/H
		c = 2

	case e.e4 == 0:
		// Sphere. The origin maps to the north pole.
		zz := z
		if h == 0 {
			zz = 1
		}
		H := math.Hypot(zz, R)
		sphi, cphi = zz/H, R/H
		h -= e.a

	default:
		p := (R / e.a) * (R / e.a)
		q := e.e21 * (z / e.a) * (z / e.a)
		r := (p + q - e.e4) / 6
		if !(e.e4*q == 0 && r <= 0) {
			S := e.e4 * p * q / 4 // r^3 * s
			r2 := r * r
			r3 := r * r2
			disc := S * (2*r3 + S)
			u := r
			if disc >= 0 {
				T3 := S + r3
				if T3 < 0 {
					T3 -= math.Sqrt(disc)
				} else {
					T3 += math.Sqrt(disc)
				}
				T := math.Cbrt(T3)
				u += T
				if T != 0 {
					u += r2 / T
				}
			} else {
				ang := math.Atan2(math.Sqrt(-disc), -(S + r3))
				u += 2 * r * math.Cos(ang/3)
			}
			v := math.Sqrt(u*u + e.e4*q)
			uv := u + v
			if u < 0 {
				uv = e.e4 * q / (v - u)
			}
			w := math.Max(0, e.e2*(uv-q)/(2*v))
			k := uv / (math.Sqrt(uv+w*w) + w)
			k2 := k + e.e2
			d := k * R / k2
			H := math.Hypot(z/k, R/k2)
			sphi, cphi = (z/k)/H, (R/k2)/H
			h = (1 - e.e21/k) * math.Hypot(d, z)
		} else {
			// On the equatorial plane inside the evolute, k -> 0.
			zz := math.Sqrt((e.e4 - p) / e.e21)
			xx := math.Sqrt(p)
			H := math.Hypot(zz, xx)
			sphi, cphi = zz/H, xx/H
			if z < 0 {
				sphi = -sphi
			}
			h = -e.a * e.e21 * H / e.e2
			c = 3
		}
	}
	return sphi, cphi, slam, clam, h, c
}

// Height4 projects the geocentric point v onto this ellipsoid's surface and
// returns the foot point with the height of v above (or below) it. If
// normal is true the foot is the nearest surface point, otherwise it is the
// intersection of the surface with the line from v to the center.
func (e *Ellipsoid) Height4(v r3.Vector, normal bool) (Vector4, error) {
	if !isFinite(v.X) || !isFinite(v.Y) || !isFinite(v.Z) {
		return Vector4{}, &TypeError{Arg: "xyz", Txt: fmt.Sprintf("not finite: %v", v)}
	}
	r := v.Norm()
	switch {
	case r < EPS0:
		return Vector4{H: -e.a}, nil

	case e.IsSpherical():
		f := e.a / r
		return Vector4{X: v.X * f, Y: v.Y * f, Z: v.Z * f, H: r - e.a}, nil

	case normal:
		x := math.Hypot(v.X, v.Y)
		z := math.Abs(v.Z)
		if x < EPS0 { // polar
			return Vector4{Z: math.Copysign(e.b, v.Z), H: z - e.b}, nil
		}
		if z < EPS0 { // equatorial
			f := e.a / x
			return Vector4{X: v.X * f, Y: v.Y * f, H: x - e.a}, nil
		}
		sphi, cphi, slam, clam, h, _ := e.reverse(v.X, v.Y, v.Z)
		foot := e.forward(sphi, cphi, slam, clam, 0)
		return Vector4{X: foot.X, Y: foot.Y, Z: foot.Z, H: h}, nil

	default:
		s := hypot3(v.X/e.a, v.Y/e.a, v.Z/e.b)
		if s < EPS0 {
			return Vector4{}, &SingularityError{Op: "height4", Stage: "radial", Value: s}
		}
		s = 1 / s
		return Vector4{X: v.X * s, Y: v.Y * s, Z: v.Z * s, H: r * (1 - s)}, nil
	}
}

// Radius is a spherical earth of the given radius in meters.
type Radius float64

// Ellipsoid returns a sphere of radius r, or nil if r is not a positive,
// finite number.
func (r Radius) Ellipsoid() *Ellipsoid {
	e, err := NewEllipsoid(fmt.Sprintf("R%g", float64(r)), float64(r), 0)
	if err != nil {
		return nil
	}
	return e
}

// earthEllipsoid resolves an Earth, falling back to def when earth is nil.
func earthEllipsoid(earth Earth, def *Ellipsoid) (*Ellipsoid, error) {
	if earth == nil {
		if def == nil {
			return nil, &TypeError{Arg: "earth", Txt: "undefined"}
		}
		return def, nil
	}
	e := earth.Ellipsoid()
	if e == nil {
		return nil, &TypeError{Arg: "earth", Txt: fmt.Sprintf("invalid: %v", earth)}
	}
	return e, nil
}
