package geocentric

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// EcefMatrix is the row-major rotation from local east, north, up to
// geocentric coordinates at a geodetic position. Its columns are the east,
// north and up unit vectors.
type EcefMatrix [9]float64

func newEcefMatrix(sphi, cphi, slam, clam float64) *EcefMatrix {
	return &EcefMatrix{
		-slam, -clam * sphi, clam * cphi,
		clam, -slam * sphi, slam * cphi,
		0, cphi, sphi,
	}
}

// Rotate converts a local east, north, up vector to a geocentric delta.
func (m *EcefMatrix) Rotate(enu r3.Vector) r3.Vector {
	return r3.Vector{
		X: m[0]*enu.X + m[1]*enu.Y + m[2]*enu.Z,
		Y: m[3]*enu.X + m[4]*enu.Y + m[5]*enu.Z,
		Z: m[6]*enu.X + m[7]*enu.Y + m[8]*enu.Z,
	}
}

// Unrotate converts a geocentric delta to local east, north, up.
func (m *EcefMatrix) Unrotate(xyz r3.Vector) r3.Vector {
	return r3.Vector{
		X: m[0]*xyz.X + m[3]*xyz.Y + m[6]*xyz.Z,
		Y: m[1]*xyz.X + m[4]*xyz.Y + m[7]*xyz.Z,
		Z: m[2]*xyz.X + m[5]*xyz.Y + m[8]*xyz.Z,
	}
}

// Ecef9 is a geocentric position together with its geodetic latitude,
// longitude and height on Datum. Case is 1 for the general solution, 2 for
// points very far from the ellipsoid and 3 for points on the equatorial
// plane inside the evolute. M is nil unless requested.
type Ecef9 struct {
	X, Y, Z float64
	LatLng  s2.LatLng
	Height  float64
	Case    int
	M       *EcefMatrix
	Datum   *Datum
}

// Vector returns the geocentric components.
func (e Ecef9) Vector() r3.Vector { return r3.Vector{X: e.X, Y: e.Y, Z: e.Z} }

func (e Ecef9) String() string {
	return fmt.Sprintf("%s %.3fm %s", e.LatLng, e.Height, e.Datum)
}

// Ecef converts between geocentric and geodetic coordinates on a datum.
type Ecef struct {
	datum *Datum
}

// NewEcef constructs a new ECEF engine for the datum.
func NewEcef(datum *Datum) (*Ecef, error) {
	if datum == nil || datum.ellipsoid == nil {
		return nil, &TypeError{Arg: "datum", Txt: "undefined"}
	}
	return &Ecef{datum: datum}, nil
}

// Datum returns the engine's datum.
func (e *Ecef) Datum() *Datum { return e.datum }

// Forward converts a geodetic position and height to geocentric
// coordinates.
func (e *Ecef) Forward(ll s2.LatLng, height float64, withMatrix bool) (Ecef9, error) {
	if !ll.IsValid() || !isFinite(height) {
		return Ecef9{}, &TypeError{Arg: "latlng", Txt: fmt.Sprintf("invalid %s, height %g", ll, height)}
	}
	sphi, cphi := math.Sincos(ll.Lat.Radians())
	slam, clam := math.Sincos(ll.Lng.Radians())
	v := e.datum.ellipsoid.forward(sphi, cphi, slam, clam, height)
	r := Ecef9{
		X: v.X, Y: v.Y, Z: v.Z,
		LatLng: ll,
		Height: height,
		Case:   1,
		Datum:  e.datum,
	}
	if withMatrix {
		r.M = newEcefMatrix(sphi, cphi, slam, clam)
	}
	return r, nil
}

// Reverse converts geocentric coordinates to geodetic latitude, longitude
// and height using Karney's closed-form solution.
func (e *Ecef) Reverse(v r3.Vector, withMatrix bool) (Ecef9, error) {
	if !isFinite(v.X) || !isFinite(v.Y) || !isFinite(v.Z) {
		return Ecef9{}, &TypeError{Arg: "xyz", Txt: fmt.Sprintf("not finite: %v", v)}
	}
	sphi, cphi, slam, clam, h, c := e.datum.ellipsoid.reverse(v.X, v.Y, v.Z)
	r := Ecef9{
		X: v.X, Y: v.Y, Z: v.Z,
		LatLng: s2.LatLng{
			Lat: s1.Angle(math.Atan2(sphi, cphi)),
			Lng: s1.Angle(math.Atan2(slam, clam)),
		},
		Height: h,
		Case:   c,
		Datum:  e.datum,
	}
	if withMatrix {
		r.M = newEcefMatrix(sphi, cphi, slam, clam)
	}
	return r, nil
}
