package geocentric

import (
	"errors"
	"fmt"
	"strings"
)

// Datum is an ellipsoid plus the Helmert transform from WGS84 to this
// datum. Every datum carries exactly one transform to and from the
// canonical WGS84 datum; conversions between two other datums pivot
// through WGS84. Datums are immutable and shared.
type Datum struct {
	name      string
	ellipsoid *Ellipsoid
	transform Transform
}

// NewDatum constructs a new datum.
func NewDatum(name string, ellipsoid *Ellipsoid, transform Transform) (*Datum, error) {
	if ellipsoid == nil {
		return nil, errors.New("missing ellipsoid")
	}
	if name == "" {
		name = ellipsoid.name
	}
	if transform.Name == "" {
		transform.Name = name
	}
	return &Datum{name: name, ellipsoid: ellipsoid, transform: transform}, nil
}

// Name returns the datum's name.
func (d *Datum) Name() string { return d.name }

// Ellipsoid returns the datum's ellipsoid, so that a *Datum satisfies Earth.
func (d *Datum) Ellipsoid() *Ellipsoid {
	if d == nil {
		return nil
	}
	return d.ellipsoid
}

// Transform returns the transform from WGS84 to this datum.
func (d *Datum) Transform() Transform { return d.transform }

// IsEllipsoidal reports whether the datum's ellipsoid is not a sphere.
func (d *Datum) IsEllipsoidal() bool { return d.ellipsoid.IsEllipsoidal() }

// IsSpherical reports whether the datum's ellipsoid is a sphere.
func (d *Datum) IsSpherical() bool { return d.ellipsoid.IsSpherical() }

// Equal reports whether both datums have equal ellipsoids and transforms.
// Names are not compared.
func (d *Datum) Equal(o *Datum) bool {
	if d == o {
		return true
	}
	if d == nil || o == nil {
		return false
	}
	return d.ellipsoid.Equal(o.ellipsoid) && d.transform.Equal(o.transform)
}

func (d *Datum) String() string {
	return d.name
}

// Predefined datums, built in init. The transforms are from WGS84.
var (
	WGS84      *Datum
	NAD83      *Datum
	NAD27      *Datum
	OSGB36     *Datum
	ED50       *Datum
	Irl1975    *Datum
	TokyoJapan *Datum
	Sphere     *Datum
)

var datumsByName map[string]*Datum

// DatumByName returns a predefined datum by case-insensitive name.
func DatumByName(name string) (*Datum, error) {
	if d, ok := datumsByName[strings.ToLower(name)]; ok {
		return d, nil
	}
	return nil, &TypeError{Arg: "datum", Txt: fmt.Sprintf("unknown %q", name)}
}

func mustDatum(name string, e *Ellipsoid, t Transform) *Datum {
	d, err := NewDatum(name, e, t)
	if err != nil {
		panic(fmt.Sprintf("error constructing %s datum: %s", name, err))
	}
	datumsByName[strings.ToLower(name)] = d
	return d
}

func initDatums() {
	datumsByName = map[string]*Datum{}
	WGS84 = mustDatum("WGS84", EllipsoidWGS84, Transform{})
	NAD83 = mustDatum("NAD83", EllipsoidGRS80, Transform{
		Tx: 1.004, Ty: -1.910, Tz: -0.515,
		Rx: 0.0267, Ry: 0.00034, Rz: 0.011,
		S: -0.0015,
	})
	NAD27 = mustDatum("NAD27", EllipsoidClarke1866, Transform{
		Tx: 8, Ty: -160, Tz: -176,
	})
	OSGB36 = mustDatum("OSGB36", EllipsoidAiry1830, Transform{
		Tx: -446.448, Ty: 125.157, Tz: -542.060,
		Rx: -0.1502, Ry: -0.2470, Rz: -0.8421,
		S: 20.4894,
	})
	ED50 = mustDatum("ED50", EllipsoidIntl1924, Transform{
		Tx: 89.5, Ty: 93.8, Tz: 123.1,
		Rz: 0.156,
		S:  -1.2,
	})
	Irl1975 = mustDatum("Irl1975", EllipsoidAiryModified, Transform{
		Tx: -482.530, Ty: 130.596, Tz: -564.557,
		Rx: -1.042, Ry: -0.214, Rz: -0.631,
		S: -8.150,
	})
	TokyoJapan = mustDatum("TokyoJapan", EllipsoidBessel1841, Transform{
		Tx: 148, Ty: -507, Tz: -685,
	})
	Sphere = mustDatum("Sphere", EllipsoidSphere, Transform{})
}
