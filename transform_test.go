package geocentric_test

import (
	"errors"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/tzneal/geocentric"
)

func TestTransformUnity(t *testing.T) {
	var tr geocentric.Transform
	if !tr.IsUnity() {
		t.Fatalf("expected zero transform to be unity")
	}
	v := r3.Vector{X: 1, Y: 2, Z: 3}
	for _, inverse := range []bool{false, true} {
		got, err := tr.Apply(v, inverse)
		if err != nil {
			t.Fatalf("expected no error, got %s", err)
		}
		if got != v {
			t.Fatalf("expected %v, got %v", v, got)
		}
	}
	if geocentric.OSGB36.Transform().IsUnity() {
		t.Fatalf("expected OSGB36 transform not to be unity")
	}
}

func TestTransformInverse(t *testing.T) {
	v := r3.Vector{X: 3980581, Y: -111, Z: 4966825}
	for _, d := range []*geocentric.Datum{geocentric.OSGB36, geocentric.ED50, geocentric.Irl1975, geocentric.NAD83} {
		tr := d.Transform()
		fwd, err := tr.Apply(v, false)
		if err != nil {
			t.Fatalf("expected no error, got %s", err)
		}
		back, err := tr.Apply(fwd, true)
		if err != nil {
			t.Fatalf("expected no error, got %s", err)
		}
		if diff := back.Sub(v).Norm(); diff > 1e-6 {
			t.Fatalf("expected %v, got %v on %s", v, back, d)
		}
	}
}

func TestTransformTranslation(t *testing.T) {
	tr := geocentric.Transform{Tx: 8, Ty: -160, Tz: -176}
	got, err := tr.Apply(r3.Vector{X: 1, Y: 1, Z: 1}, false)
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	if want := (r3.Vector{X: 9, Y: -159, Z: -175}); got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTransformArithmetic(t *testing.T) {
	tr := geocentric.OSGB36.Transform()
	sum := tr.Plus(tr.Inverse())
	if !sum.IsUnity() {
		t.Fatalf("expected unity, got %s", sum)
	}
	if !tr.Times(2).Equal(tr.Plus(tr)) {
		t.Fatalf("expected %s, got %s", tr.Plus(tr), tr.Times(2))
	}
}

func TestDatumEqual(t *testing.T) {
	d, err := geocentric.NewDatum("copy", geocentric.EllipsoidAiry1830, geocentric.OSGB36.Transform())
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	if !d.Equal(geocentric.OSGB36) {
		t.Fatalf("expected %s to equal %s", d, geocentric.OSGB36)
	}
	if d.Equal(geocentric.WGS84) {
		t.Fatalf("expected %s not to equal %s", d, geocentric.WGS84)
	}
	if _, err := geocentric.NewDatum("none", nil, geocentric.Transform{}); err == nil {
		t.Fatalf("expected error for missing ellipsoid")
	}
}

func TestDatumByName(t *testing.T) {
	for _, name := range []string{"WGS84", "osgb36", "Sphere", "tokyojapan"} {
		if _, err := geocentric.DatumByName(name); err != nil {
			t.Fatalf("expected datum %s, got %s", name, err)
		}
	}
	if _, err := geocentric.DatumByName("Mars2000"); !errors.Is(err, geocentric.ErrTypeMismatch) {
		t.Fatalf("expected type mismatch, got %v", err)
	}
}

func TestNewEllipsoid(t *testing.T) {
	if _, err := geocentric.NewEllipsoid("bad", 0, 0); err == nil {
		t.Fatalf("expected error for zero semi-major axis")
	}
	if _, err := geocentric.NewEllipsoid("prolate", 1, -0.1); err == nil {
		t.Fatalf("expected error for negative flattening")
	}
	e := geocentric.EllipsoidWGS84
	if e.IsSpherical() || !geocentric.EllipsoidSphere.IsSpherical() {
		t.Fatalf("expected WGS84 to be ellipsoidal and Sphere spherical")
	}
	if b := e.A() * (1 - e.F()); b != e.B() {
		t.Fatalf("expected b %g, got %g", b, e.B())
	}
}
