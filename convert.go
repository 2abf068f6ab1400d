package geocentric

import "fmt"

// ConvertDatum converts point to datum2. Every datum carries one transform
// from WGS84, so a conversion between two other datums goes through WGS84.
// If from is not nil and differs from the point's datum, the point is first
// converted to from.
func ConvertDatum(point *Cartesian, datum2, from *Datum) (*Cartesian, error) {
	if point == nil {
		return nil, &TypeError{Arg: "point", Txt: "undefined"}
	}
	if datum2 == nil || datum2.ellipsoid == nil {
		return nil, &TypeError{Arg: "datum2", Txt: "undefined"}
	}
	if from != nil && !from.Equal(point.datum) {
		p, err := ConvertDatum(point, from, nil)
		if err != nil {
			return nil, fmt.Errorf("to %s: %w", from, err)
		}
		point = p
	}

	d := point.datum
	switch {
	case d.Equal(datum2):
		return point.dup(), nil
	case d.transform.IsUnity() && datum2.transform.IsUnity():
		r := point.dup()
		r.datum = datum2
		return r, nil
	case d.Equal(WGS84):
		return point.ToTransform(datum2.transform, false, datum2)
	case datum2.Equal(WGS84):
		return point.ToTransform(d.transform, true, datum2)
	}
	hub, err := point.ToTransform(d.transform, true, WGS84)
	if err != nil {
		return nil, err
	}
	return hub.ToTransform(datum2.transform, false, datum2)
}
