package geocentric

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
)

// Point is anything with geocentric x, y and z components.
type Point interface {
	Vector() r3.Vector
}

// Vector3 is a plain (x, y, z) triple.
type Vector3 struct {
	X, Y, Z float64
}

// Vector returns the triple as an r3.Vector.
func (v Vector3) Vector() r3.Vector { return r3.Vector{X: v.X, Y: v.Y, Z: v.Z} }

// Vector4 is an (x, y, z, h) tuple: an n-vector with height, or a surface
// projection with the height above it.
type Vector4 struct {
	X, Y, Z, H float64
}

// Vector returns the x, y and z components as an r3.Vector.
func (v Vector4) Vector() r3.Vector { return r3.Vector{X: v.X, Y: v.Y, Z: v.Z} }

func (v Vector4) String() string {
	return fmt.Sprintf("(%.9g, %.9g, %.9g, %.9g)", v.X, v.Y, v.Z, v.H)
}

// RadiusThetaPhi is a spherical polar position: radial distance R, the
// inclination Theta from the positive z-axis and the azimuthal angle Phi.
type RadiusThetaPhi struct {
	R     float64
	Theta s1.Angle
	Phi   s1.Angle
}

// XyzToRtp converts a geocentric point to spherical polar coordinates.
func XyzToRtp(p Point) RadiusThetaPhi {
	v := p.Vector()
	r := v.Norm()
	var t s1.Angle
	if r > 0 {
		t = s1.Angle(math.Acos(math.Max(-1, math.Min(1, v.Z/r))))
	}
	return RadiusThetaPhi{R: r, Theta: t, Phi: s1.Angle(math.Atan2(v.Y, v.X))}
}

// RtpToXyz converts spherical polar coordinates to a geocentric point.
func RtpToXyz(rtp RadiusThetaPhi) r3.Vector {
	st, ct := math.Sincos(rtp.Theta.Radians())
	sp, cp := math.Sincos(rtp.Phi.Radians())
	return r3.Vector{X: rtp.R * st * cp, Y: rtp.R * st * sp, Z: rtp.R * ct}
}

func (rtp RadiusThetaPhi) String() string {
	return fmt.Sprintf("(r=%.9g, theta=%.9g, phi=%.9g)", rtp.R, rtp.Theta.Degrees(), rtp.Phi.Degrees())
}
