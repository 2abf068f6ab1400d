package geocentric

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

// Transform is a 7-parameter Helmert transformation between geocentric
// frames, in the position vector convention. Translations are in meters,
// rotations in arc seconds and the scale in parts per million.
type Transform struct {
	Name       string
	Tx, Ty, Tz float64 // translation (m)
	Rx, Ry, Rz float64 // rotation (arcsec)
	S          float64 // scale (ppm)
}

// IsUnity reports whether the transform leaves every point unchanged.
func (t Transform) IsUnity() bool {
	return t.Tx == 0 && t.Ty == 0 && t.Tz == 0 &&
		t.Rx == 0 && t.Ry == 0 && t.Rz == 0 && t.S == 0
}

// Equal reports whether both transforms have the same parameters. The name
// is not compared.
func (t Transform) Equal(o Transform) bool {
	return t.Tx == o.Tx && t.Ty == o.Ty && t.Tz == o.Tz &&
		t.Rx == o.Rx && t.Ry == o.Ry && t.Rz == o.Rz && t.S == o.S
}

// Inverse returns the transform with all parameters negated. This is the
// conventional first-order inverse; Apply with inverse set is exact.
func (t Transform) Inverse() Transform {
	return Transform{
		Name: t.Name,
		Tx:   -t.Tx, Ty: -t.Ty, Tz: -t.Tz,
		Rx: -t.Rx, Ry: -t.Ry, Rz: -t.Rz,
		S: -t.S,
	}
}

// Plus returns the sum of both transforms' parameters, which composes two
// small Helmert transforms to first order.
func (t Transform) Plus(o Transform) Transform {
	return Transform{
		Name: t.Name,
		Tx:   t.Tx + o.Tx, Ty: t.Ty + o.Ty, Tz: t.Tz + o.Tz,
		Rx: t.Rx + o.Rx, Ry: t.Ry + o.Ry, Rz: t.Rz + o.Rz,
		S: t.S + o.S,
	}
}

// Times returns the transform with all parameters scaled by f.
func (t Transform) Times(f float64) Transform {
	return Transform{
		Name: t.Name,
		Tx:   t.Tx * f, Ty: t.Ty * f, Tz: t.Tz * f,
		Rx: t.Rx * f, Ry: t.Ry * f, Rz: t.Rz * f,
		S: t.S * f,
	}
}

// matrix returns the 3x3 scale-rotation part of the transform.
func (t Transform) matrix() *mat.Dense {
	s1 := 1 + t.S*1e-6
	rx := t.Rx * arcsecToRad
	ry := t.Ry * arcsecToRad
	rz := t.Rz * arcsecToRad
	return mat.NewDense(3, 3, []float64{
		s1, -rz, ry,
		rz, s1, -rx,
		-ry, rx, s1,
	})
}

// Apply transforms the geocentric point v. With inverse set, the forward
// transform is undone by solving the linear system exactly rather than by
// negating the parameters.
func (t Transform) Apply(v r3.Vector, inverse bool) (r3.Vector, error) {
	if t.IsUnity() {
		return v, nil
	}
	m := t.matrix()
	if !inverse {
		var out mat.VecDense
		out.MulVec(m, mat.NewVecDense(3, []float64{v.X, v.Y, v.Z}))
		return r3.Vector{
			X: t.Tx + out.AtVec(0),
			Y: t.Ty + out.AtVec(1),
			Z: t.Tz + out.AtVec(2),
		}, nil
	}
	b := mat.NewVecDense(3, []float64{v.X - t.Tx, v.Y - t.Ty, v.Z - t.Tz})
	var out mat.VecDense
	if err := out.SolveVec(m, b); err != nil {
		return r3.Vector{}, &SingularityError{Op: "transform " + t.Name, Stage: "inverse", Value: mat.Det(m)}
	}
	return r3.Vector{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}, nil
}

// nearUnity reports whether all parameters are within tol of zero.
func (t Transform) nearUnity(tol float64) bool {
	for _, p := range []float64{t.Tx, t.Ty, t.Tz, t.Rx, t.Ry, t.Rz, t.S} {
		if !scalar.EqualWithinAbs(p, 0, tol) {
			return false
		}
	}
	return true
}

func (t Transform) String() string {
	return fmt.Sprintf("%s(tx=%g, ty=%g, tz=%g, rx=%g, ry=%g, rz=%g, s=%g)",
		t.Name, t.Tx, t.Ty, t.Tz, t.Rx, t.Ry, t.Rz, t.S)
}
