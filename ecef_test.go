package geocentric_test

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
	"github.com/tzneal/geocentric"
)

func TestEcefRoundTrip(t *testing.T) {
	for _, datum := range []*geocentric.Datum{geocentric.WGS84, geocentric.OSGB36, geocentric.Sphere} {
		ecef, err := geocentric.NewEcef(datum)
		if err != nil {
			t.Fatalf("error creating ECEF engine: %s", err)
		}
		const latInc = 2.5
		const lngInc = 5
		for _, h := range []float64{-5000, 0, 100, 35786e3} {
			for lng := -180.0; lng < 180; lng += lngInc {
				for lat := -90.0; lat <= 90; lat += latInc {
					fwd, err := ecef.Forward(s2.LatLngFromDegrees(lat, lng), h, false)
					if err != nil {
						t.Fatalf("expected no error at %g, %g, got %s", lat, lng, err)
					}
					rev, err := ecef.Reverse(fwd.Vector(), false)
					if err != nil {
						t.Fatalf("expected no error in round trip at %s, got %s", fwd, err)
					}
					fwd2, err := ecef.Forward(rev.LatLng, rev.Height, false)
					if err != nil {
						t.Fatalf("expected no error in round trip at %s, got %s", rev, err)
					}
					if d := fwd.Vector().Sub(fwd2.Vector()).Norm(); d > 1e-6 {
						t.Fatalf("expected %v, got %v (%s, %g apart)", fwd.Vector(), fwd2.Vector(), datum, d)
					}
					if math.Abs(rev.Height-h) > 1e-6 {
						t.Fatalf("expected height %g, got %g at %g, %g", h, rev.Height, lat, lng)
					}
				}
			}
		}
	}
}

func TestEcefReverseCases(t *testing.T) {
	ecef := geocentric.DefaultEcef
	a := geocentric.EllipsoidWGS84.A()
	b := geocentric.EllipsoidWGS84.B()

	// north pole
	r, err := ecef.Reverse(r3.Vector{Z: b + 10}, true)
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	if math.Abs(r.LatLng.Lat.Degrees()-90) > 1e-12 || math.Abs(r.Height-10) > 1e-9 {
		t.Fatalf("expected pole at 10m, got %s", r)
	}
	if r.M == nil {
		t.Fatalf("expected a rotation matrix")
	}

	// equatorial plane inside the evolute
	r, err = ecef.Reverse(r3.Vector{X: 1000}, false)
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	if r.Case != 3 {
		t.Fatalf("expected case 3, got %d", r.Case)
	}

	// far away
	r, err = ecef.Reverse(r3.Vector{X: 4 * a / geocentric.EPS}, false)
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	if r.Case != 2 {
		t.Fatalf("expected case 2, got %d", r.Case)
	}

	if _, err = ecef.Reverse(r3.Vector{X: math.NaN()}, false); !errors.Is(err, geocentric.ErrTypeMismatch) {
		t.Fatalf("expected type mismatch, got %v", err)
	}
}

func TestEcefMatrix(t *testing.T) {
	fwd, err := geocentric.DefaultEcef.Forward(s2.LatLngFromDegrees(45, 30), 0, true)
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	enu := r3.Vector{X: 1, Y: 2, Z: 3}
	got := fwd.M.Unrotate(fwd.M.Rotate(enu))
	if got.Sub(enu).Norm() > 1e-12 {
		t.Fatalf("expected %v, got %v", enu, got)
	}

	// up is along the ellipsoid normal
	up := fwd.M.Rotate(r3.Vector{Z: 1})
	n, err := fwd.Datum.Ellipsoid().Height4(fwd.Vector().Add(up.Mul(1000)), true)
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	if math.Abs(n.H-1000) > 1e-6 {
		t.Fatalf("expected 1000m above the surface, got %g", n.H)
	}
}

func TestNewEcef(t *testing.T) {
	if _, err := geocentric.NewEcef(nil); !errors.Is(err, geocentric.ErrTypeMismatch) {
		t.Fatalf("expected type mismatch, got %v", err)
	}
	if _, err := geocentric.DefaultEcef.Forward(s2.LatLngFromDegrees(91, 0), 0, false); err == nil {
		t.Fatalf("expected error for invalid latitude")
	}
}
