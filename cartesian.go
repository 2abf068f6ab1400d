package geocentric

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Cartesian is a geocentric (ECEF) point on a datum. Its geodetic,
// n-vector and height views are derived on first use and cached.
//
// A Cartesian is a copy-on-write value: the With* methods and every
// conversion return a new Cartesian with empty caches, the receiver is
// never modified. Filling the caches is not synchronized, so a Cartesian
// must not be shared between goroutines until its views have been
// computed.
type Cartesian struct {
	x, y, z float64
	datum   *Datum
	name    string

	hasHeight bool
	height    float64

	reframe *RefFrame
	epoch   float64

	ecef9   *Ecef9
	nvector *Vector4
	height4 *Vector4
}

// NewCartesian constructs a new geocentric point in meters. A nil datum
// defaults to WGS84.
func NewCartesian(x, y, z float64, datum *Datum) (*Cartesian, error) {
	for _, c := range []struct {
		name string
		v    float64
	}{{"x", x}, {"y", y}, {"z", z}} {
		if !isFinite(c.v) {
			return nil, &TypeError{Arg: c.name, Txt: fmt.Sprintf("not finite: %g", c.v)}
		}
	}
	if datum == nil {
		datum = WGS84
	}
	return &Cartesian{x: x, y: y, z: z, datum: datum}, nil
}

// FromPoint constructs a new geocentric point from any Point. A Vector4
// source also sets the height; a *Cartesian or Ecef9 source supplies its
// own datum when datum is nil.
func FromPoint(p Point, datum *Datum) (*Cartesian, error) {
	if p == nil {
		return nil, &TypeError{Arg: "point", Txt: "undefined"}
	}
	switch s := p.(type) {
	case *Cartesian:
		if s == nil {
			return nil, &TypeError{Arg: "point", Txt: "undefined"}
		}
		if datum == nil {
			return s.dup(), nil
		}
		return s.WithDatum(datum)
	case Ecef9:
		if datum == nil {
			datum = s.Datum
		}
	}
	v := p.Vector()
	c, err := NewCartesian(v.X, v.Y, v.Z, datum)
	if err != nil {
		return nil, err
	}
	if v4, ok := p.(Vector4); ok {
		c.hasHeight, c.height = true, v4.H
	}
	return c, nil
}

// dup copies c without its caches.
func (c *Cartesian) dup() *Cartesian {
	return &Cartesian{
		x: c.x, y: c.y, z: c.z,
		datum:     c.datum,
		name:      c.name,
		hasHeight: c.hasHeight,
		height:    c.height,
		reframe:   c.reframe,
		epoch:     c.epoch,
	}
}

// Copy returns a copy of c with empty caches.
func (c *Cartesian) Copy() *Cartesian { return c.dup() }

// X returns the geocentric x coordinate in meters.
func (c *Cartesian) X() float64 { return c.x }

// Y returns the geocentric y coordinate in meters.
func (c *Cartesian) Y() float64 { return c.y }

// Z returns the geocentric z coordinate in meters.
func (c *Cartesian) Z() float64 { return c.z }

// Vector returns the geocentric coordinates.
func (c *Cartesian) Vector() r3.Vector { return r3.Vector{X: c.x, Y: c.y, Z: c.z} }

// Datum returns the point's datum.
func (c *Cartesian) Datum() *Datum { return c.datum }

// Name returns the point's diagnostic name.
func (c *Cartesian) Name() string { return c.name }

// RefFrame returns the point's reference frame, or nil.
func (c *Cartesian) RefFrame() *RefFrame { return c.reframe }

// Epoch returns the point's observation epoch as a fractional year, or 0.
func (c *Cartesian) Epoch() float64 { return c.epoch }

// IsEllipsoidal reports whether the point's datum is ellipsoidal.
func (c *Cartesian) IsEllipsoidal() bool { return c.datum.IsEllipsoidal() }

// IsSpherical reports whether the point's datum is spherical.
func (c *Cartesian) IsSpherical() bool { return c.datum.IsSpherical() }

// WithDatum returns a copy of c on datum d, without converting the
// coordinates. The new datum must be of the same ellipsoidal or spherical
// kind as the current one.
func (c *Cartesian) WithDatum(d *Datum) (*Cartesian, error) {
	if d == nil || d.ellipsoid == nil {
		return nil, &TypeError{Arg: "datum", Txt: "undefined"}
	}
	if d.IsEllipsoidal() && !c.datum.IsEllipsoidal() {
		return nil, &TypeError{Arg: "datum", Txt: fmt.Sprintf("%s is ellipsoidal, %s is spherical", d, c.datum)}
	}
	if d.IsSpherical() && !c.datum.IsSpherical() {
		return nil, &TypeError{Arg: "datum", Txt: fmt.Sprintf("%s is spherical, %s is ellipsoidal", d, c.datum)}
	}
	r := c.dup()
	r.datum = d
	return r, nil
}

// WithHeight returns a copy of c with an explicit height in meters.
func (c *Cartesian) WithHeight(h float64) *Cartesian {
	r := c.dup()
	r.hasHeight, r.height = true, h
	return r
}

// WithName returns a copy of c with a diagnostic name.
func (c *Cartesian) WithName(name string) *Cartesian {
	r := c.dup()
	r.name = name
	return r
}

// WithRefFrame returns a copy of c in reference frame rf observed at
// epoch, a fractional year. A zero epoch means the frame's own epoch.
func (c *Cartesian) WithRefFrame(rf *RefFrame, epoch float64) *Cartesian {
	r := c.dup()
	r.reframe, r.epoch = rf, epoch
	return r
}

// withXYZ returns a copy of c at new coordinates on datum d. An explicit
// height does not survive moving the point.
func (c *Cartesian) withXYZ(v r3.Vector, d *Datum) *Cartesian {
	r := c.dup()
	r.x, r.y, r.z = v.X, v.Y, v.Z
	r.datum = d
	r.hasHeight, r.height = false, 0
	return r
}

// ToEcef returns the geodetic view of c: latitude, longitude and height on
// c's datum, with the local rotation matrix.
func (c *Cartesian) ToEcef() (Ecef9, error) {
	if c.ecef9 == nil {
		e, err := (&Ecef{datum: c.datum}).Reverse(c.Vector(), true)
		if err != nil {
			return Ecef9{}, fmt.Errorf("toEcef %s: %w", c, err)
		}
		c.ecef9 = &e
	}
	r := *c.ecef9
	m := *r.M
	r.M = &m
	return r, nil
}

// LatLng returns the geodetic latitude and longitude of c.
func (c *Cartesian) LatLng() (s2.LatLng, error) {
	e, err := c.ToEcef()
	return e.LatLng, err
}

// LatLngHeight returns the geodetic latitude, longitude and height of c.
func (c *Cartesian) LatLngHeight() (s2.LatLng, float64, error) {
	e, err := c.ToEcef()
	return e.LatLng, e.Height, err
}

// ToLatLon returns the geodetic view of c on datum, converting c to that
// datum first if it differs. A nil datum means c's own.
func (c *Cartesian) ToLatLon(datum *Datum) (Ecef9, error) {
	if datum == nil || datum.Equal(c.datum) {
		return c.ToEcef()
	}
	r, err := c.ToDatum(datum, nil)
	if err != nil {
		return Ecef9{}, err
	}
	return r.ToEcef()
}

// Enu returns the local east, north, up delta from c to other.
func (c *Cartesian) Enu(other Point) (r3.Vector, error) {
	e, err := c.ToEcef()
	if err != nil {
		return r3.Vector{}, err
	}
	return e.M.Unrotate(other.Vector().Sub(c.Vector())), nil
}

// Height returns the explicit height of c, or if none was set, its height
// above the datum's ellipsoid along the normal.
func (c *Cartesian) Height() float64 {
	if c.hasHeight {
		return c.height
	}
	return c.normalHeight4().H
}

func (c *Cartesian) normalHeight4() Vector4 {
	if c.height4 == nil {
		r, err := c.datum.ellipsoid.Height4(c.Vector(), true)
		if err != nil {
			r = Vector4{X: c.x, Y: c.y, Z: c.z}
		}
		c.height4 = &r
	}
	return *c.height4
}

// Height4 projects c onto the surface of earth, or c's own ellipsoid if
// earth is nil, and returns the foot point and the height of c above it.
// With normal set the foot is the nearest surface point, otherwise the
// surface point on the line to the center.
func (c *Cartesian) Height4(earth Earth, normal bool) (Vector4, error) {
	if d, ok := earth.(*Datum); normal && (earth == nil || ok && d == c.datum) {
		return c.normalHeight4(), nil
	}
	e, err := earthEllipsoid(earth, c.datum.ellipsoid)
	if err != nil {
		return Vector4{}, fmt.Errorf("height4 %s: %w", c, err)
	}
	return e.Height4(c.Vector(), normal)
}

// SurfaceProjection is Height4 as a Cartesian on earth's datum with a zero
// height.
func (c *Cartesian) SurfaceProjection(earth Earth, normal bool) (*Cartesian, error) {
	r, err := c.Height4(earth, normal)
	if err != nil {
		return nil, err
	}
	d, err := c.earthDatum(earth)
	if err != nil {
		return nil, err
	}
	p := c.withXYZ(r.Vector(), d)
	p.hasHeight = true
	return p, nil
}

// earthDatum resolves earth to a datum, wrapping a bare ellipsoid or radius
// in a datum without transform.
func (c *Cartesian) earthDatum(earth Earth) (*Datum, error) {
	switch d := earth.(type) {
	case nil:
		return c.datum, nil
	case *Datum:
		if d == nil {
			return nil, &TypeError{Arg: "earth", Txt: "undefined"}
		}
		return d, nil
	}
	e, err := earthEllipsoid(earth, nil)
	if err != nil {
		return nil, err
	}
	return NewDatum(e.name, e, Transform{})
}

// Roc2 returns the normal radius of curvature R and the pseudo, z-based
// radius of curvature r at c, on earth or c's own ellipsoid.
func (c *Cartesian) Roc2(earth Earth) (R, r float64, err error) {
	z := math.Abs(c.z)
	r = z
	R = math.Hypot(c.x, c.y)
	if R < EPS0 { // polar
		R = z
	} else if z > EPS0 { // non-equatorial
		e, err := earthEllipsoid(earth, c.datum.ellipsoid)
		if err != nil {
			return 0, 0, fmt.Errorf("roc2 %s: %w", c, err)
		}
		sphi, cphi, _, _, _, _ := e.reverse(c.x, c.y, c.z)
		sa, ca := math.Abs(sphi), math.Abs(cphi)
		if ca < EPS0 { // polar
			R = z
		} else {
			R = R / ca
			if sa < EPS0 {
				r = R
			} else {
				r = r / sa
			}
		}
	}
	return R, r, nil
}

// Height3 moves c by height meters along the approximate ellipsoid normal
// on earth, or c's own ellipsoid if earth is nil. The x and y coordinates
// are scaled by (R + height) / R and z by (r + height) / r with R and r from
// Roc2. For a point on the surface the result lies at height; otherwise
// this is a linear approximation that is only good for small height deltas
// and diverges from Height4 near the poles.
func (c *Cartesian) Height3(earth Earth, height float64) (*Cartesian, error) {
	d, err := c.earthDatum(earth)
	if err != nil {
		return nil, fmt.Errorf("height3 %s: %w", c, err)
	}
	v := c.Vector()
	if height != 0 {
		R, r, err := c.Roc2(d)
		if err != nil {
			return nil, err
		}
		if R > EPS0 {
			fR := (R + height) / R
			fr := 1.0
			if r > EPS0 {
				fr = (r + height) / r
			}
			v = r3.Vector{X: v.X * fR, Y: v.Y * fR, Z: v.Z * fr}
		}
	}
	return c.withXYZ(v, d), nil
}

// ToNvector returns the n-vector of c on its own datum: the unit normal to
// the ellipsoid at c's surface projection and c's height above it.
func (c *Cartesian) ToNvector() (Vector4, error) {
	if c.nvector == nil {
		r, err := c.nxyzh4(c.datum)
		if err != nil {
			return Vector4{}, err
		}
		c.nvector = &r
	}
	return *c.nvector, nil
}

// NvectorOn returns the n-vector of c on datum, which overrides c's own.
func (c *Cartesian) NvectorOn(datum *Datum) (Vector4, error) {
	if datum == nil || datum == c.datum {
		return c.ToNvector()
	}
	return c.nxyzh4(datum)
}

// nxyzh4 solves for the n-vector in closed form, per K. Gade, "A
// Non-singular Horizontal Position Representation", eqn 23. Each stage
// guards against a different way the solution collapses at or near the
// center or the rotation axis.
func (c *Cartesian) nxyzh4(d *Datum) (Vector4, error) {
	if d == nil || d.ellipsoid == nil {
		return Vector4{}, &TypeError{Arg: "datum", Txt: "undefined"}
	}
	fail := func(stage string, v float64) error {
		return &SingularityError{Op: fmt.Sprintf("nvector %s", c), Stage: stage, Value: v}
	}
	E := d.ellipsoid
	x, y, z := c.x, c.y, c.z

	p := (x*x + y*y) * E.a2inv
	q := z * z * E.e21 * E.a2inv
	r := (p + q - E.e4) / 6
	s := (p * q * E.e4) / (4 * r * r * r)
	t := math.Cbrt(1 + s + math.Sqrt(s*(2+s)))
	if isNear0(t) || !isFinite(t) {
		return Vector4{}, fail("t", t)
	}
	u := (1 + t + 1/t) * r
	v := math.Sqrt(u*u + E.e4*q)
	t = v * 2
	if t < EPS0 {
		return Vector4{}, fail("2v", t)
	}
	w := (u + v - q) * E.e2 / t
	k := math.Sqrt(u+v+w*w) - w
	if isNear0(k) {
		return Vector4{}, fail("k", k)
	}
	t = k + E.e2
	if isNear0(t) {
		return Vector4{}, fail("k+e2", t)
	}
	e := k / t
	t = hypot3(x*e, y*e, z)
	if t < EPS0 {
		return Vector4{}, fail("hypot", t)
	}
	h := (k + E.e2 - 1) / k * t
	s = e / t
	return Vector4{X: x * s, Y: y * s, Z: z / t, H: h}, nil
}

// ToTransform applies the Helmert transform t, or its exact inverse, to c
// and returns the result on datum, or c's own datum if datum is nil. The
// datum is a label only; it does not affect the arithmetic.
func (c *Cartesian) ToTransform(t Transform, inverse bool, datum *Datum) (*Cartesian, error) {
	if datum == nil {
		datum = c.datum
	}
	if t.IsUnity() {
		r := c.dup()
		r.datum = datum
		return r, nil
	}
	v, err := t.Apply(c.Vector(), inverse)
	if err != nil {
		return nil, fmt.Errorf("toTransform %s: %w", c, err)
	}
	return c.withXYZ(v, datum), nil
}

// ToTransforms applies each transform in order and returns the result on
// datum, or c's own datum if datum is nil.
func (c *Cartesian) ToTransforms(datum *Datum, transforms ...Transform) (*Cartesian, error) {
	if datum == nil {
		datum = c.datum
	}
	v := c.Vector()
	for _, t := range transforms {
		var err error
		if v, err = t.Apply(v, false); err != nil {
			return nil, fmt.Errorf("toTransforms %s: %w", c, err)
		}
	}
	if v == c.Vector() && datum == c.datum {
		return c, nil
	}
	return c.withXYZ(v, datum), nil
}

// ToDatum converts c to datum2. If from is not nil and differs from c's
// datum, c is first converted to from.
func (c *Cartesian) ToDatum(datum2, from *Datum) (*Cartesian, error) {
	r, err := ConvertDatum(c, datum2, from)
	if err != nil {
		return nil, fmt.Errorf("toDatum %s: %w", c, err)
	}
	return r, nil
}

// ToRtp returns c in spherical polar coordinates.
func (c *Cartesian) ToRtp() RadiusThetaPhi { return XyzToRtp(c) }

// survey wraps a resection result on c's datum.
func (c *Cartesian) survey(v r3.Vector) *Cartesian {
	return &Cartesian{x: v.X, y: v.Y, z: v.Z, datum: c.datum, name: c.name}
}

// Cassini solves the resection between c, pointB and pointC with Cassini's
// method. See the package function Cassini.
func (c *Cartesian) Cassini(pointB, pointC Point, alpha, beta s1.Angle, useZ bool) (*Cartesian, error) {
	v, err := Cassini(c, pointB, pointC, alpha, beta, useZ)
	if err != nil {
		return nil, fmt.Errorf("resection from %s: %w", c, err)
	}
	return c.survey(v), nil
}

// Collins5Result is a Collins resection: the survey point P, the auxiliary
// point H and the triangle sides A, B and C.
type Collins5Result struct {
	P, H    *Cartesian
	A, B, C float64
}

// Collins5 solves the resection between c, pointB and pointC with Collins'
// method. See the package function Collins5.
func (c *Cartesian) Collins5(pointB, pointC Point, alpha, beta s1.Angle, useZ bool) (Collins5Result, error) {
	r, err := Collins5(c, pointB, pointC, alpha, beta, useZ)
	if err != nil {
		return Collins5Result{}, fmt.Errorf("resection from %s: %w", c, err)
	}
	return Collins5Result{
		P: c.survey(r.P),
		H: c.survey(r.H),
		A: r.A, B: r.B, C: r.C,
	}, nil
}

// Pierlot solves the resection between c, point2 and point3 with Pierlot's
// ToTal method and approximate limits. See the package function Pierlot.
func (c *Cartesian) Pierlot(point2, point3 Point, alpha12, alpha23 s1.Angle, useZ bool, eps float64) (*Cartesian, error) {
	v, err := Pierlot(c, point2, point3, alpha12, alpha23, useZ, eps)
	if err != nil {
		return nil, fmt.Errorf("resection from %s: %w", c, err)
	}
	return c.survey(v), nil
}

// PierlotX solves the resection between c, point2 and point3 with Pierlot's
// ToTal method and exact limits. See the package function PierlotX.
func (c *Cartesian) PierlotX(point2, point3 Point, alpha1, alpha2, alpha3 s1.Angle, useZ bool) (*Cartesian, error) {
	v, err := PierlotX(c, point2, point3, alpha1, alpha2, alpha3, useZ)
	if err != nil {
		return nil, fmt.Errorf("resection from %s: %w", c, err)
	}
	return c.survey(v), nil
}

// Tienstra7Result is a Tienstra resection: the survey point P, the triangle
// angles A, B and C at the known points and the opposite sides.
type Tienstra7Result struct {
	P                   *Cartesian
	A, B, C             s1.Angle
	SideA, SideB, SideC float64
}

// Tienstra7 solves the resection between c, pointB and pointC with
// Tienstra's formula. See the package function Tienstra7.
func (c *Cartesian) Tienstra7(pointB, pointC Point, alpha, beta, gamma s1.Angle, useZ bool) (Tienstra7Result, error) {
	r, err := Tienstra7(c, pointB, pointC, alpha, beta, gamma, useZ)
	if err != nil {
		return Tienstra7Result{}, fmt.Errorf("resection from %s: %w", c, err)
	}
	return Tienstra7Result{
		P: c.survey(r.P),
		A: r.A, B: r.B, C: r.C,
		SideA: r.SideA, SideB: r.SideB, SideC: r.SideC,
	}, nil
}

func (c *Cartesian) String() string {
	if c.name != "" {
		return fmt.Sprintf("%s[%.3f, %.3f, %.3f]", c.name, c.x, c.y, c.z)
	}
	return fmt.Sprintf("[%.3f, %.3f, %.3f]", c.x, c.y, c.z)
}
