package geocentric

import "fmt"

// Predefined ellipsoids, built in init.
var (
	EllipsoidWGS84        *Ellipsoid
	EllipsoidGRS80        *Ellipsoid
	EllipsoidAiry1830     *Ellipsoid
	EllipsoidAiryModified *Ellipsoid
	EllipsoidIntl1924     *Ellipsoid
	EllipsoidBessel1841   *Ellipsoid
	EllipsoidClarke1866   *Ellipsoid
	EllipsoidSphere       *Ellipsoid
)

// DefaultEcef is a WGS84 based ECEF engine.
var DefaultEcef *Ecef

func mustEllipsoid(name string, semiMajorAxis, inverseFlattening float64) *Ellipsoid {
	e, err := NewEllipsoidInverse(name, semiMajorAxis, inverseFlattening)
	if err != nil {
		panic(fmt.Sprintf("error constructing %s ellipsoid: %s", name, err))
	}
	return e
}

func init() {
	const semiMajorAxis = 6378137
	const inverseFlattening = 298.257223563
	EllipsoidWGS84 = mustEllipsoid("WGS84", semiMajorAxis, inverseFlattening)
	EllipsoidGRS80 = mustEllipsoid("GRS80", semiMajorAxis, 298.257222101)
	EllipsoidAiry1830 = mustEllipsoid("Airy1830", 6377563.396, 299.3249646)
	EllipsoidAiryModified = mustEllipsoid("AiryModified", 6377340.189, 299.3249646)
	EllipsoidIntl1924 = mustEllipsoid("Intl1924", 6378388, 297)
	EllipsoidBessel1841 = mustEllipsoid("Bessel1841", 6377397.155, 299.1528128)
	EllipsoidClarke1866 = mustEllipsoid("Clarke1866", 6378206.4, 294.978698214)
	// mean radius R1 of the WGS84 ellipsoid
	EllipsoidSphere = mustEllipsoid("Sphere", 6371008.771415, 0)

	initDatums()
	initRefFrames()

	var err error
	DefaultEcef, err = NewEcef(WGS84)
	if err != nil {
		panic(fmt.Sprintf("error constructing WGS84 ECEF engine: %s", err))
	}
}
