package geocentric

import (
	"fmt"
	"strings"
)

// RefFrame is a terrestrial reference frame such as ITRF2014, realized at a
// reference epoch in fractional years.
type RefFrame struct {
	Name      string
	Epoch     float64
	Ellipsoid *Ellipsoid
}

func (r *RefFrame) String() string {
	return fmt.Sprintf("%s@%g", r.Name, r.Epoch)
}

// Predefined reference frames, built in init.
var (
	ITRF2020 *RefFrame
	ITRF2014 *RefFrame
	ITRF2008 *RefFrame
	ITRF2005 *RefFrame
	ITRF2000 *RefFrame
)

// refFrameXform is a time dependent Helmert transform between two frames:
// the parameters at epoch plus their yearly rates.
type refFrameXform struct {
	from, to string
	epoch    float64
	xform    Transform
	rates    Transform
}

// at returns the transform at the given epoch.
func (x refFrameXform) at(epoch float64) Transform {
	t := x.xform.Plus(x.rates.Times(epoch - x.epoch))
	t.Name = x.from + "->" + x.to
	return t
}

var (
	refFramesByName map[string]*RefFrame
	refFrameXforms  []refFrameXform
)

// RefFrameByName returns a predefined reference frame by case-insensitive
// name.
func RefFrameByName(name string) (*RefFrame, error) {
	if r, ok := refFramesByName[strings.ToLower(name)]; ok {
		return r, nil
	}
	return nil, &TypeError{Arg: "refframe", Txt: fmt.Sprintf("unknown %q", name)}
}

// iers converts IERS parameters, translations in mm, scale in ppb and
// rotations in mas, to a Transform.
func iers(tx, ty, tz, s, rx, ry, rz float64) Transform {
	const milli = 1e-3
	return Transform{
		Tx: tx * milli, Ty: ty * milli, Tz: tz * milli,
		Rx: rx * milli, Ry: ry * milli, Rz: rz * milli,
		S: s * milli,
	}
}

func initRefFrames() {
	refFramesByName = map[string]*RefFrame{}
	add := func(name string, epoch float64) *RefFrame {
		r := &RefFrame{Name: name, Epoch: epoch, Ellipsoid: EllipsoidGRS80}
		refFramesByName[strings.ToLower(name)] = r
		return r
	}
	ITRF2020 = add("ITRF2020", 2015)
	ITRF2014 = add("ITRF2014", 2010)
	ITRF2008 = add("ITRF2008", 2005)
	ITRF2005 = add("ITRF2005", 2000)
	ITRF2000 = add("ITRF2000", 1997)

	refFrameXforms = []refFrameXform{
		{from: "ITRF2020", to: "ITRF2014", epoch: 2015,
			xform: iers(-1.4, -0.9, 1.4, -0.42, 0, 0, 0),
			rates: iers(0, -0.1, 0.2, 0, 0, 0, 0)},
		{from: "ITRF2020", to: "ITRF2008", epoch: 2015,
			xform: iers(0.2, 1.0, 3.3, -0.29, 0, 0, 0),
			rates: iers(0, -0.1, 0.1, 0.03, 0, 0, 0)},
		{from: "ITRF2020", to: "ITRF2005", epoch: 2015,
			xform: iers(2.7, 0.1, -1.4, 0.65, 0, 0, 0),
			rates: iers(0.3, -0.1, 0.1, 0.03, 0, 0, 0)},
		{from: "ITRF2020", to: "ITRF2000", epoch: 2015,
			xform: iers(-0.2, 0.8, -34.2, 2.25, 0, 0, 0),
			rates: iers(0.1, 0, -1.7, 0.11, 0, 0, 0)},
		{from: "ITRF2014", to: "ITRF2008", epoch: 2010,
			xform: iers(1.6, 1.9, 2.4, -0.02, 0, 0, 0),
			rates: iers(0, 0, -0.1, 0.03, 0, 0, 0)},
	}
}

// refFrameStep is one transform on a path between frames.
type refFrameStep struct {
	xform   refFrameXform
	inverse bool
}

// refFramePath finds the transforms from one frame to another, directly or
// through one intermediate frame.
func refFramePath(from, to string) ([]refFrameStep, bool) {
	next := func(name string) []refFrameStep {
		var steps []refFrameStep
		for _, x := range refFrameXforms {
			switch name {
			case x.from:
				steps = append(steps, refFrameStep{xform: x})
			case x.to:
				steps = append(steps, refFrameStep{xform: x, inverse: true})
			}
		}
		return steps
	}
	end := func(s refFrameStep) string {
		if s.inverse {
			return s.xform.from
		}
		return s.xform.to
	}
	for _, s := range next(from) {
		if end(s) == to {
			return []refFrameStep{s}, true
		}
	}
	for _, first := range next(from) {
		for _, second := range next(end(first)) {
			if end(second) == to {
				return []refFrameStep{first, second}, true
			}
		}
	}
	return nil, false
}

// ToRefFrame converts c from its reference frame to frame2 at epoch, a
// fractional year. A zero epoch means c's own epoch or, if that is zero
// too, the epoch of c's frame.
func (c *Cartesian) ToRefFrame(frame2 *RefFrame, epoch float64) (*Cartesian, error) {
	if frame2 == nil {
		return nil, &TypeError{Arg: "frame2", Txt: "undefined"}
	}
	if c.reframe == nil {
		return nil, &TypeError{Arg: "reframe", Txt: fmt.Sprintf("%s has no reference frame", c)}
	}
	if epoch == 0 {
		epoch = c.epoch
	}
	if epoch == 0 {
		epoch = c.reframe.Epoch
	}
	if c.reframe.Name == frame2.Name {
		return c.WithRefFrame(frame2, epoch), nil
	}
	steps, ok := refFramePath(c.reframe.Name, frame2.Name)
	if !ok {
		return nil, &RefFrameError{From: c.reframe.Name, To: frame2.Name, Epoch: epoch}
	}
	v := c.Vector()
	for _, s := range steps {
		t := s.xform.at(epoch)
		if t.nearUnity(EPS0) {
			continue
		}
		var err error
		if v, err = t.Apply(v, s.inverse); err != nil {
			return nil, fmt.Errorf("toRefFrame %s: %w", c, err)
		}
	}
	r := c.withXYZ(v, c.datum)
	r.reframe, r.epoch = frame2, epoch
	return r, nil
}
