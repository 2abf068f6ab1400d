package geocentric_test

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tzneal/geocentric"
)

// surfacePoint returns the geocentric point at lat, lng and height on datum.
func surfacePoint(t *testing.T, datum *geocentric.Datum, lat, lng, h float64) *geocentric.Cartesian {
	t.Helper()
	ecef, err := geocentric.NewEcef(datum)
	require.NoError(t, err)
	fwd, err := ecef.Forward(s2.LatLngFromDegrees(lat, lng), h, false)
	require.NoError(t, err)
	c, err := geocentric.FromPoint(fwd, nil)
	require.NoError(t, err)
	return c
}

func TestNewCartesian(t *testing.T) {
	c, err := geocentric.NewCartesian(1, 2, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, geocentric.WGS84, c.Datum())
	assert.Equal(t, r3.Vector{X: 1, Y: 2, Z: 3}, c.Vector())

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := geocentric.NewCartesian(0, v, 0, nil)
		assert.ErrorIs(t, err, geocentric.ErrTypeMismatch)
	}
}

func TestFromPoint(t *testing.T) {
	c, err := geocentric.FromPoint(geocentric.Vector4{X: 1, Y: 2, Z: 3, H: 42}, geocentric.NAD27)
	require.NoError(t, err)
	assert.Equal(t, geocentric.NAD27, c.Datum())
	assert.Equal(t, 42.0, c.Height())

	named := c.WithName("station")
	c2, err := geocentric.FromPoint(named, nil)
	require.NoError(t, err)
	assert.Equal(t, "station", c2.Name())
	assert.Equal(t, 42.0, c2.Height())
	assert.Equal(t, geocentric.NAD27, c2.Datum())

	_, err = geocentric.FromPoint(nil, nil)
	assert.ErrorIs(t, err, geocentric.ErrTypeMismatch)
}

func TestCartesianToEcef(t *testing.T) {
	c := surfacePoint(t, geocentric.WGS84, 37.5, -122.25, 1234.5)
	ll, h, err := c.LatLngHeight()
	require.NoError(t, err)
	assert.InDelta(t, 37.5, ll.Lat.Degrees(), 1e-12)
	assert.InDelta(t, -122.25, ll.Lng.Degrees(), 1e-12)
	assert.InDelta(t, 1234.5, h, 1e-6)

	e, err := c.ToEcef()
	require.NoError(t, err)
	require.NotNil(t, e.M)

	// mutating the returned matrix leaves the cache alone
	e.M[0] = 42
	e2, err := c.ToEcef()
	require.NoError(t, err)
	assert.NotEqual(t, 42.0, e2.M[0])
}

func TestNvectorUnitNorm(t *testing.T) {
	for _, datum := range []*geocentric.Datum{geocentric.WGS84, geocentric.OSGB36, geocentric.Sphere} {
		for lat := -90.0; lat <= 90; lat += 15 {
			for lng := -180.0; lng < 180; lng += 30 {
				for _, h := range []float64{-1000, 0, 8848, 2e7} {
					c := surfacePoint(t, datum, lat, lng, h)
					n, err := c.ToNvector()
					require.NoError(t, err, "at %g, %g, %g", lat, lng, h)
					if d := math.Abs(n.Vector().Norm() - 1); d > 1e-9 {
						t.Fatalf("expected unit n-vector at %g, %g, %g, got norm %g", lat, lng, h, n.Vector().Norm())
					}
					if math.Abs(n.H-h) > 1e-6 {
						t.Fatalf("expected height %g, got %g", h, n.H)
					}
					sphi := math.Sin(lat * math.Pi / 180)
					if math.Abs(n.Z-sphi) > 1e-9 {
						t.Fatalf("expected nz %g, got %g at %g, %g", sphi, n.Z, lat, lng)
					}
				}
			}
		}
	}
}

func TestNvectorOrigin(t *testing.T) {
	c, err := geocentric.NewCartesian(0, 0, 0, nil)
	require.NoError(t, err)
	_, err = c.ToNvector()
	require.ErrorIs(t, err, geocentric.ErrNumericSingularity)

	var se *geocentric.SingularityError
	require.ErrorAs(t, err, &se)
	assert.NotEmpty(t, se.Stage)
}

func TestNvectorOn(t *testing.T) {
	c := surfacePoint(t, geocentric.WGS84, 45, 45, 0)
	own, err := c.ToNvector()
	require.NoError(t, err)
	on, err := c.NvectorOn(geocentric.WGS84)
	require.NoError(t, err)
	assert.Equal(t, own, on)

	// the same coordinates on a sphere give the geocentric direction
	sph, err := c.NvectorOn(geocentric.Sphere)
	require.NoError(t, err)
	u := c.Vector().Normalize()
	assert.InDelta(t, u.Z, sph.Z, 1e-12)
	assert.Greater(t, own.Z, sph.Z)
}

func TestWithDatum(t *testing.T) {
	c := surfacePoint(t, geocentric.WGS84, 10, 20, 0)

	_, err := c.WithDatum(geocentric.Sphere)
	assert.ErrorIs(t, err, geocentric.ErrTypeMismatch)

	_, err = c.WithDatum(nil)
	assert.ErrorIs(t, err, geocentric.ErrTypeMismatch)

	s, err := geocentric.NewCartesian(1e6, 2e6, 3e6, geocentric.Sphere)
	require.NoError(t, err)
	_, err = s.WithDatum(geocentric.OSGB36)
	assert.ErrorIs(t, err, geocentric.ErrTypeMismatch)

	d, err := c.WithDatum(geocentric.NAD27)
	require.NoError(t, err)
	assert.Equal(t, c.Vector(), d.Vector())
	assert.Equal(t, geocentric.NAD27, d.Datum())
	assert.Equal(t, geocentric.WGS84, c.Datum())
}

func TestCopyOnWrite(t *testing.T) {
	c := surfacePoint(t, geocentric.WGS84, 50, 5, 100)
	ll, err := c.LatLng()
	require.NoError(t, err)

	// a datum change recomputes the derived views of the copy only
	d, err := c.WithDatum(geocentric.NAD27)
	require.NoError(t, err)
	ll2, err := d.LatLng()
	require.NoError(t, err)
	assert.NotEqual(t, ll.Lat, ll2.Lat)

	ll3, err := c.LatLng()
	require.NoError(t, err)
	assert.Equal(t, ll, ll3)

	h := c.WithHeight(7)
	assert.Equal(t, 7.0, h.Height())
	assert.InDelta(t, 100, c.Height(), 1e-6)

	cp := c.Copy()
	assert.Equal(t, c.Vector(), cp.Vector())
	assert.Equal(t, c.Datum(), cp.Datum())
}

func TestHeight4Surface(t *testing.T) {
	for _, datum := range []*geocentric.Datum{geocentric.WGS84, geocentric.Sphere} {
		for lat := -90.0; lat <= 90; lat += 10 {
			c := surfacePoint(t, datum, lat, 33, 0)
			for _, normal := range []bool{true, false} {
				r, err := c.Height4(nil, normal)
				require.NoError(t, err)
				if math.Abs(r.H) > 1e-6 {
					t.Fatalf("expected height 0 at %g (normal %t), got %g", lat, normal, r.H)
				}
				if d := r.Vector().Sub(c.Vector()).Norm(); d > 1e-6 {
					t.Fatalf("expected projection %v at %g, got %v", c.Vector(), lat, r.Vector())
				}
			}
		}
	}
}

func TestHeight4Earth(t *testing.T) {
	c := surfacePoint(t, geocentric.WGS84, 0, 0, 500)

	r, err := c.Height4(geocentric.EllipsoidWGS84, false)
	require.NoError(t, err)
	assert.InDelta(t, 500, r.H, 1e-6)

	r, err = c.Height4(geocentric.Radius(6378000), true)
	require.NoError(t, err)
	assert.InDelta(t, 637, r.H, 1e-6)

	_, err = c.Height4(geocentric.Radius(-1), true)
	assert.ErrorIs(t, err, geocentric.ErrTypeMismatch)

	p, err := c.SurfaceProjection(geocentric.Radius(6378000), true)
	require.NoError(t, err)
	assert.True(t, p.IsSpherical())
	assert.Equal(t, 0.0, p.Height())
	assert.InDelta(t, 6378000, p.X(), 1e-6)
}

func TestHeight4Radial(t *testing.T) {
	c := surfacePoint(t, geocentric.WGS84, 45, 0, 10000)
	r, err := c.Height4(nil, false)
	require.NoError(t, err)

	// the foot is on the line to the center
	u, v := c.Vector().Normalize(), r.Vector().Normalize()
	assert.InDelta(t, 0, u.Sub(v).Norm(), 1e-12)

	// and on the surface
	s, err := geocentric.NewCartesian(r.X, r.Y, r.Z, geocentric.WGS84)
	require.NoError(t, err)
	assert.InDelta(t, 0, s.Height(), 1e-6)
}

func TestRoc2(t *testing.T) {
	e := geocentric.EllipsoidWGS84
	c := surfacePoint(t, geocentric.WGS84, 30, 0, 0)
	R, r, err := c.Roc2(nil)
	require.NoError(t, err)
	n := e.Roc1(0.5)
	assert.InDelta(t, n, R, 1e-6)
	assert.InDelta(t, n*e.E21(), r, 1e-6)

	pole, err := geocentric.NewCartesian(0, 0, e.B(), nil)
	require.NoError(t, err)
	R, r, err = pole.Roc2(nil)
	require.NoError(t, err)
	assert.Equal(t, e.B(), R)
	assert.Equal(t, e.B(), r)
}

func TestHeight3(t *testing.T) {
	for _, lat := range []float64{-60, -10, 0, 25, 80} {
		c := surfacePoint(t, geocentric.WGS84, lat, 120, 0)
		for _, dh := range []float64{-100, 10, 1000} {
			r, err := c.Height3(nil, dh)
			require.NoError(t, err)
			assert.InDelta(t, dh, r.Height(), 1e-6, "lat %g, height %g", lat, dh)
		}
	}

	c := surfacePoint(t, geocentric.WGS84, 10, 10, 0)
	r, err := c.Height3(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, c.Vector(), r.Vector())
}

func TestToTransform(t *testing.T) {
	c := surfacePoint(t, geocentric.WGS84, 51, -1, 0)

	r, err := c.ToTransform(geocentric.Transform{}, false, geocentric.NAD27)
	require.NoError(t, err)
	assert.Equal(t, c.Vector(), r.Vector())
	assert.Equal(t, geocentric.NAD27, r.Datum())

	tr := geocentric.OSGB36.Transform()
	f, err := c.ToTransform(tr, false, geocentric.OSGB36)
	require.NoError(t, err)
	assert.Equal(t, geocentric.OSGB36, f.Datum())
	b, err := f.ToTransform(tr, true, geocentric.WGS84)
	require.NoError(t, err)
	assert.InDelta(t, 0, b.Vector().Sub(c.Vector()).Norm(), 1e-6)

	// negated parameters only undo the transform to first order
	rs, err := c.ToTransforms(nil, tr, tr.Inverse())
	require.NoError(t, err)
	d := rs.Vector().Sub(c.Vector()).Norm()
	assert.Greater(t, d, 1e-8)
	assert.Less(t, d, 0.05)
}

func TestEnu(t *testing.T) {
	c := surfacePoint(t, geocentric.WGS84, -33.9, 18.4, 0)
	up := surfacePoint(t, geocentric.WGS84, -33.9, 18.4, 250)
	enu, err := c.Enu(up)
	require.NoError(t, err)
	if diff := cmp.Diff(r3.Vector{Z: 250}, enu, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Fatalf("unexpected ENU (-want +got):\n%s", diff)
	}
}

func TestToRtp(t *testing.T) {
	c, err := geocentric.NewCartesian(0, 3, 4, nil)
	require.NoError(t, err)
	rtp := c.ToRtp()
	assert.InDelta(t, 5, rtp.R, 1e-15)
	assert.InDelta(t, 90, rtp.Phi.Degrees(), 1e-12)
	assert.InDelta(t, math.Acos(0.8), rtp.Theta.Radians(), 1e-15)

	back := geocentric.RtpToXyz(rtp)
	assert.InDelta(t, 0, back.Sub(c.Vector()).Norm(), 1e-12)

	zero := geocentric.XyzToRtp(geocentric.Vector3{})
	assert.Equal(t, geocentric.RadiusThetaPhi{Theta: 0, Phi: s1.Angle(0)}, zero)
}
