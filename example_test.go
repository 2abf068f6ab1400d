package geocentric_test

import (
	"fmt"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/tzneal/geocentric"
)

func ExampleEcef_Reverse() {
	fwd, _ := geocentric.DefaultEcef.Forward(s2.LatLngFromDegrees(45, 90), 100, false)
	rev, _ := geocentric.DefaultEcef.Reverse(fwd.Vector(), false)
	fmt.Printf("%.6f %.6f %.3f\n", rev.LatLng.Lat.Degrees(), rev.LatLng.Lng.Degrees(), rev.Height)
	// Output: 45.000000 90.000000 100.000
}

func ExampleCartesian_ToDatum() {
	fwd, _ := geocentric.DefaultEcef.Forward(s2.LatLngFromDegrees(51.47788, -0.00147), 0, false)
	c, _ := geocentric.FromPoint(fwd, nil)
	osgb, _ := c.ToLatLon(geocentric.OSGB36)
	fmt.Printf("%.5f %.5f\n", osgb.LatLng.Lat.Degrees(), osgb.LatLng.Lng.Degrees())
	// Output: 51.47736 0.00015
}

func ExampleCartesian_Tienstra7() {
	a, _ := geocentric.NewCartesian(0, 0, 0, geocentric.Sphere)
	r, _ := a.Tienstra7(geocentric.Vector3{X: 2}, geocentric.Vector3{Y: 2},
		135*s1.Degree, 135*s1.Degree, 90*s1.Degree, false)
	fmt.Printf("%.3f %.3f\n", r.P.X(), r.P.Y())
	// Output: 0.400 0.800
}
