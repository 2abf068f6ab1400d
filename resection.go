package geocentric

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
	"gonum.org/v1/gonum/floats/scalar"
)

// The resection solvers work in the x-y plane of the given points. The z
// of a solution is either zero or interpolated from the known points by
// inverse distance weighting.

// epsSqrt is the square root of EPS, the relative tolerance for colinear
// and concyclic configurations.
const epsSqrt = 1.4901161193847656e-08

// Collins5Solution is the result of Collins5: the survey point P, the
// auxiliary point H and the triangle sides A, B and C opposite the known
// points.
type Collins5Solution struct {
	P, H    r3.Vector
	A, B, C float64
}

// Tienstra7Solution is the result of Tienstra7: the survey point P, the
// triangle angles A, B and C at the known points and the opposite sides.
type Tienstra7Solution struct {
	P                   r3.Vector
	A, B, C             s1.Angle
	SideA, SideB, SideC float64
}

// knownPoints validates the known points of a resection: none may be
// missing or non-finite, no two may coincide and three may not be colinear.
func knownPoints(method string, pts ...Point) ([]r3.Vector, error) {
	vs := make([]r3.Vector, len(pts))
	for i, p := range pts {
		arg := fmt.Sprintf("point%c", 'A'+i)
		if p == nil {
			return nil, &TypeError{Arg: arg, Txt: "undefined"}
		}
		v := p.Vector()
		if !isFinite(v.X) || !isFinite(v.Y) || !isFinite(v.Z) {
			return nil, &TypeError{Arg: arg, Txt: fmt.Sprintf("not finite: %v", v)}
		}
		vs[i] = v
	}
	for i := range vs {
		for j := i + 1; j < len(vs); j++ {
			if d, ok := coincident(vs[i], vs[j]); ok {
				return nil, &ResectionError{Method: method,
					Reason: fmt.Sprintf("coincident point%c and point%c", 'A'+i, 'A'+j),
					Values: map[string]float64{"distance": d}}
			}
		}
	}
	if len(vs) == 3 {
		if s, ok := colinear(vs[0], vs[1], vs[2]); ok {
			return nil, &ResectionError{Method: method, Reason: "colinear points",
				Values: map[string]float64{"sin": s}}
		}
	}
	return vs, nil
}

// coincident reports whether a and b coincide in the plane, relative to
// their distance from the origin.
func coincident(a, b r3.Vector) (float64, bool) {
	d := math.Hypot(a.X-b.X, a.Y-b.Y)
	s := math.Max(math.Hypot(a.X, a.Y), math.Hypot(b.X, b.Y))
	return d, d < EPS0 || d <= 4*EPS*s
}

// colinear reports whether a, b and c lie on one line in the plane. The
// points must not coincide.
func colinear(a, b, c r3.Vector) (float64, bool) {
	u, v := b.Sub(a), c.Sub(a)
	s := (u.X*v.Y - u.Y*v.X) / (math.Hypot(u.X, u.Y) * math.Hypot(v.X, v.Y))
	return s, math.Abs(s) < epsSqrt
}

// zidw interpolates z at (x, y) from the known points by inverse distance
// weighting, or returns 0 if useZ is false.
func zidw(x, y float64, useZ bool, pts ...r3.Vector) float64 {
	if !useZ {
		return 0
	}
	var zs, ws float64
	for _, p := range pts {
		d := math.Hypot(x-p.X, y-p.Y)
		if d < EPS0 {
			return p.Z
		}
		w := 1 / d
		zs += w * p.Z
		ws += w
	}
	return zs / ws
}

// checkAngles rejects negative or non-finite angles.
func checkAngles(method string, angles map[string]s1.Angle) error {
	for name, a := range angles {
		if !isFinite(a.Radians()) || a < 0 {
			return &ResectionError{Method: method, Reason: "invalid angle",
				Values: map[string]float64{name: a.Degrees()}}
		}
	}
	return nil
}

// Cassini solves a resection with Cassini's method. The angle alpha is
// subtended at the survey point by pointA and pointC, beta by pointC and
// pointB. Seen from the survey point, pointA, pointC and pointB are in
// clockwise order.
//
// Cassini intersects the two circles through the survey point and pointA,
// pointC and pointB, pointC respectively. It fails when the survey point
// lies on the circle through all three known points.
func Cassini(pointA, pointB, pointC Point, alpha, beta s1.Angle, useZ bool) (r3.Vector, error) {
	const method = "cassini"
	if err := checkAngles(method, map[string]s1.Angle{"alpha": alpha, "beta": beta}); err != nil {
		return r3.Vector{}, err
	}
	if s := 2*math.Pi - alpha.Radians() - beta.Radians(); s < EPS0 {
		return r3.Vector{}, &ResectionError{Method: method, Reason: "angle sum exceeds 360",
			Values: map[string]float64{"alpha": alpha.Degrees(), "beta": beta.Degrees()}}
	}
	vs, err := knownPoints(method, pointA, pointB, pointC)
	if err != nil {
		return r3.Vector{}, err
	}
	A, B, C := vs[0], vs[1], vs[2]

	sa, ca := math.Sincos(alpha.Radians())
	sb, cb := math.Sincos(beta.Radians())
	if math.Abs(sa) < epsSqrt || math.Abs(sb) < epsSqrt {
		return r3.Vector{}, &ResectionError{Method: method, Reason: "cotangent singular",
			Values: map[string]float64{"alpha": alpha.Degrees(), "beta": beta.Degrees()}}
	}
	ta, tb := ca/sa, cb/sb

	h1 := r3.Vector{X: A.X + ta*(C.Y-A.Y), Y: A.Y + ta*(A.X-C.X)}
	h2 := r3.Vector{X: B.X - tb*(C.Y-B.Y), Y: B.Y - tb*(B.X-C.X)}
	d := h2.Sub(h1)
	dd := d.X*d.X + d.Y*d.Y
	scale := math.Max(C.Sub(h1).Norm2(), C.Sub(h2).Norm2())
	if dd <= EPS*scale || dd < EPS0 {
		return r3.Vector{}, &ResectionError{Method: method, Reason: "concyclic points",
			Values: map[string]float64{"h1h2": math.Sqrt(dd)}}
	}
	t := ((C.X-h1.X)*d.X + (C.Y-h1.Y)*d.Y) / dd
	x, y := h1.X+t*d.X, h1.Y+t*d.Y
	return r3.Vector{X: x, Y: y, Z: zidw(x, y, useZ, A, B, C)}, nil
}

// Collins5 solves a resection with Collins' method, using the same angles
// and point order as Cassini. It also returns the auxiliary point H, where
// the line from pointC through the survey point meets the circle through
// pointA, pointB and the survey point, and the triangle sides.
func Collins5(pointA, pointB, pointC Point, alpha, beta s1.Angle, useZ bool) (Collins5Solution, error) {
	const method = "collins5"
	if err := checkAngles(method, map[string]s1.Angle{"alpha": alpha, "beta": beta}); err != nil {
		return Collins5Solution{}, err
	}
	vs, err := knownPoints(method, pointA, pointB, pointC)
	if err != nil {
		return Collins5Solution{}, err
	}
	A, B, C := vs[0], vs[1], vs[2]

	ab := r3.Vector{X: B.X - A.X, Y: B.Y - A.Y}
	c := math.Hypot(ab.X, ab.Y)
	sab := math.Sin(alpha.Radians() + beta.Radians())
	if math.Abs(sab) < epsSqrt {
		return Collins5Solution{}, &ResectionError{Method: method, Reason: "angle sum singular",
			Values: map[string]float64{"alpha": alpha.Degrees(), "beta": beta.Degrees()}}
	}
	// triangle A, B, H has angle beta at A and alpha at B
	f := math.Sin(alpha.Radians()) / sab
	sb, cb := math.Sincos(beta.Radians())
	H := r3.Vector{
		X: A.X + f*(ab.X*cb-ab.Y*sb),
		Y: A.Y + f*(ab.X*sb+ab.Y*cb),
	}

	o, ok := circumcenter(A, B, H)
	if !ok {
		return Collins5Solution{}, &ResectionError{Method: method, Reason: "auxiliary circle singular",
			Values: map[string]float64{"alpha": alpha.Degrees(), "beta": beta.Degrees()}}
	}
	u := r3.Vector{X: C.X - H.X, Y: C.Y - H.Y}
	n := math.Hypot(u.X, u.Y)
	if n <= epsSqrt*c || n < EPS0 {
		return Collins5Solution{}, &ResectionError{Method: method, Reason: "concyclic points",
			Values: map[string]float64{"hc": n}}
	}
	u = r3.Vector{X: u.X / n, Y: u.Y / n}
	t := -2 * ((H.X-o.X)*u.X + (H.Y-o.Y)*u.Y)
	x, y := H.X+t*u.X, H.Y+t*u.Y
	return Collins5Solution{
		P: r3.Vector{X: x, Y: y, Z: zidw(x, y, useZ, A, B, C)},
		H: r3.Vector{X: H.X, Y: H.Y, Z: zidw(H.X, H.Y, useZ, A, B)},
		A: math.Hypot(B.X-C.X, B.Y-C.Y),
		B: math.Hypot(A.X-C.X, A.Y-C.Y),
		C: c,
	}, nil
}

// circumcenter returns the center of the circle through a, b and c in the
// plane, or false if they are colinear.
func circumcenter(a, b, c r3.Vector) (r3.Vector, bool) {
	bx, by := b.X-a.X, b.Y-a.Y
	cx, cy := c.X-a.X, c.Y-a.Y
	d := 2 * (bx*cy - by*cx)
	if math.Abs(d) <= EPS*(bx*bx+by*by+cx*cx+cy*cy) {
		return r3.Vector{}, false
	}
	b2, c2 := bx*bx+by*by, cx*cx+cy*cy
	return r3.Vector{
		X: a.X + (cy*b2-by*c2)/d,
		Y: a.Y + (bx*c2-cx*b2)/d,
	}, true
}

// cot returns the cotangent of x, replacing a sine smaller than eps by eps
// with the same sign.
func cot(x, eps float64) float64 {
	s, c := math.Sincos(x)
	if math.Abs(s) < eps {
		s = math.Copysign(eps, s)
	}
	return c / s
}

// Pierlot solves a resection with Pierlot's ToTal algorithm. The angles are
// the differences of the counter-clockwise bearings from the survey point
// to point1 and point2, and to point2 and point3, with the points in
// counter-clockwise order. Cotangent singularities are approximated by
// limiting the sine to eps; a non-positive eps means EPS.
//
// ToTal fails when the survey point lies on the circle through the three
// known points.
func Pierlot(point1, point2, point3 Point, alpha12, alpha23 s1.Angle, useZ bool, eps float64) (r3.Vector, error) {
	const method = "pierlot"
	if !isFinite(alpha12.Radians()) || !isFinite(alpha23.Radians()) {
		return r3.Vector{}, &ResectionError{Method: method, Reason: "invalid angle",
			Values: map[string]float64{"alpha12": alpha12.Degrees(), "alpha23": alpha23.Degrees()}}
	}
	if eps <= 0 {
		eps = EPS
	}
	vs, err := knownPoints(method, point1, point2, point3)
	if err != nil {
		return r3.Vector{}, err
	}
	t12 := cot(alpha12.Radians(), eps)
	t23 := cot(alpha23.Radians(), eps)
	d := t12 + t23
	if math.Abs(d) < eps {
		d = math.Copysign(eps, d)
	}
	t31 := (1 - t12*t23) / d
	return total(method, vs[0], vs[1], vs[2], t12, t23, t31, useZ)
}

// PierlotX solves a resection with Pierlot's ToTal algorithm using the
// absolute counter-clockwise bearings from the survey point to the three
// known points. A single singular cotangent is handled exactly by rotating
// the points until it is the third one and taking the limit of the general
// formula.
func PierlotX(point1, point2, point3 Point, alpha1, alpha2, alpha3 s1.Angle, useZ bool) (r3.Vector, error) {
	const method = "pierlotx"
	for name, a := range map[string]s1.Angle{"alpha1": alpha1, "alpha2": alpha2, "alpha3": alpha3} {
		if !isFinite(a.Radians()) {
			return r3.Vector{}, &ResectionError{Method: method, Reason: "invalid angle",
				Values: map[string]float64{name: a.Degrees()}}
		}
	}
	vs, err := knownPoints(method, point1, point2, point3)
	if err != nil {
		return r3.Vector{}, err
	}
	b1, b2, b3 := vs[0], vs[1], vs[2]
	a12 := alpha2.Radians() - alpha1.Radians()
	a23 := alpha3.Radians() - alpha2.Radians()
	a31 := alpha1.Radians() - alpha3.Radians()

	s12, s23, s31 := sinNear0(a12), sinNear0(a23), sinNear0(a31)
	n := 0
	for _, s := range []bool{s12, s23, s31} {
		if s {
			n++
		}
	}
	switch {
	case n > 1:
		return r3.Vector{}, &ResectionError{Method: method, Reason: "colinear bearings",
			Values: map[string]float64{"alpha1": alpha1.Degrees(), "alpha2": alpha2.Degrees(), "alpha3": alpha3.Degrees()}}
	case s12:
		return totalLimit(method, b2, b3, b1, a23, a31, useZ)
	case s23:
		return totalLimit(method, b3, b1, b2, a31, a12, useZ)
	case s31:
		return totalLimit(method, b1, b2, b3, a12, a23, useZ)
	}
	return total(method, b1, b2, b3, 1/math.Tan(a12), 1/math.Tan(a23), 1/math.Tan(a31), useZ)
}

// sinNear0 reports whether the sine of x vanishes within epsSqrt.
func sinNear0(x float64) bool {
	return math.Abs(math.Sin(math.Remainder(x, 2*math.Pi))) < epsSqrt
}

// total is the general ToTal formula, from the cotangents of the three
// bearing differences.
func total(method string, b1, b2, b3 r3.Vector, t12, t23, t31 float64, useZ bool) (r3.Vector, error) {
	x1, y1 := b1.X-b2.X, b1.Y-b2.Y
	x3, y3 := b3.X-b2.X, b3.Y-b2.Y

	x12, y12 := x1+t12*y1, y1-t12*x1
	x23, y23 := x3-t23*y3, y3+t23*x3
	x31, y31 := (x3+x1)+t31*(y3-y1), (y3+y1)-t31*(x3-x1)
	k31 := x1*x3 + y1*y3 + t31*(x1*y3-x3*y1)

	d := (x12-x23)*(y23-y31) - (y12-y23)*(x23-x31)
	if degenerate(d, math.Hypot(x12-x23, y12-y23), math.Hypot(x23-x31, y23-y31), x1, y1, x3, y3) {
		return r3.Vector{}, &ResectionError{Method: method, Reason: "concyclic points",
			Values: map[string]float64{"D": d}}
	}
	k := k31 / d
	x, y := b2.X+k*(y12-y23), b2.Y+k*(x23-x12)
	return r3.Vector{X: x, Y: y, Z: zidw(x, y, useZ, b1, b2, b3)}, nil
}

// degenerate reports whether the product d of two vectors with lengths u
// and w vanishes, or either vector does relative to the beacon offsets. All
// three circles of ToTal coincide when the survey point is concyclic with
// the beacons, which collapses both vectors.
func degenerate(d, u, w, x1, y1, x3, y3 float64) bool {
	l := math.Max(math.Hypot(x1, y1), math.Hypot(x3, y3))
	return !isFinite(d) || isNear0(d) ||
		u <= epsSqrt*l || w <= epsSqrt*l || math.Abs(d) <= epsSqrt*u*w
}

// totalLimit is the ToTal formula in the limit of a singular third bearing
// difference, a31 = 0 or 180 degrees.
func totalLimit(method string, b1, b2, b3 r3.Vector, a12, a23 float64, useZ bool) (r3.Vector, error) {
	t12, t23 := 1/math.Tan(a12), 1/math.Tan(a23)
	x1, y1 := b1.X-b2.X, b1.Y-b2.Y
	x3, y3 := b3.X-b2.X, b3.Y-b2.Y

	x12, y12 := x1+t12*y1, y1-t12*x1
	x23, y23 := x3-t23*y3, y3+t23*x3

	d := (x12-x23)*(x3-x1) + (y12-y23)*(y3-y1)
	if degenerate(d, math.Hypot(x12-x23, y12-y23), math.Hypot(x3-x1, y3-y1), x1, y1, x3, y3) {
		return r3.Vector{}, &ResectionError{Method: method, Reason: "concyclic points",
			Values: map[string]float64{"D": d}}
	}
	k := (x1*y3 - x3*y1) / d
	x, y := b2.X+k*(y12-y23), b2.Y+k*(x23-x12)
	return r3.Vector{X: x, Y: y, Z: zidw(x, y, useZ, b1, b2, b3)}, nil
}

// Tienstra7 solves a resection with Tienstra's formula. The angle alpha is
// subtended at the survey point by the triangle side a from pointB to
// pointC, beta by side b from pointC to pointA and gamma by side c from
// pointA to pointB. Either beta or gamma may be NaN, in which case it is
// derived from the other two; the three must add up to 360 degrees.
//
// The formula fails when the survey point lies on the circle through the
// three known points, which includes any of the known points themselves.
func Tienstra7(pointA, pointB, pointC Point, alpha, beta, gamma s1.Angle, useZ bool) (Tienstra7Solution, error) {
	const method = "tienstra7"
	switch {
	case math.IsNaN(beta.Radians()) && math.IsNaN(gamma.Radians()):
		return Tienstra7Solution{}, &ResectionError{Method: method, Reason: "beta and gamma missing",
			Values: map[string]float64{"alpha": alpha.Degrees()}}
	case math.IsNaN(beta.Radians()):
		beta = 2*math.Pi - alpha - gamma
	case math.IsNaN(gamma.Radians()):
		gamma = 2*math.Pi - alpha - beta
	}
	if err := checkAngles(method, map[string]s1.Angle{"alpha": alpha, "beta": beta, "gamma": gamma}); err != nil {
		return Tienstra7Solution{}, err
	}
	if sum := (alpha + beta + gamma).Radians(); !scalar.EqualWithinAbs(sum, 2*math.Pi, epsSqrt) {
		return Tienstra7Solution{}, &ResectionError{Method: method, Reason: "angle sum not 360",
			Values: map[string]float64{"alpha": alpha.Degrees(), "beta": beta.Degrees(), "gamma": gamma.Degrees()}}
	}
	vs, err := knownPoints(method, pointA, pointB, pointC)
	if err != nil {
		return Tienstra7Solution{}, err
	}
	A, B, C := vs[0], vs[1], vs[2]

	angA := vertexAngle(A, B, C)
	angB := vertexAngle(B, C, A)
	angC := vertexAngle(C, A, B)

	var ks [3]float64
	for i, p := range []struct {
		name  string
		v, at float64
	}{{"alpha", alpha.Radians(), angA}, {"beta", beta.Radians(), angB}, {"gamma", gamma.Radians(), angC}} {
		s := math.Sin(p.v - p.at)
		if math.Abs(s) < epsSqrt {
			return Tienstra7Solution{}, &ResectionError{Method: method, Reason: "concyclic points",
				Values: map[string]float64{p.name: p.v / degToRad, "vertex": p.at / degToRad}}
		}
		ks[i] = math.Sin(p.at) * math.Sin(p.v) / s
	}
	k := ks[0] + ks[1] + ks[2]
	if isNear0(k) {
		return Tienstra7Solution{}, &ResectionError{Method: method, Reason: "weights cancel",
			Values: map[string]float64{"kA": ks[0], "kB": ks[1], "kC": ks[2]}}
	}
	x := (ks[0]*A.X + ks[1]*B.X + ks[2]*C.X) / k
	y := (ks[0]*A.Y + ks[1]*B.Y + ks[2]*C.Y) / k
	return Tienstra7Solution{
		P:     r3.Vector{X: x, Y: y, Z: zidw(x, y, useZ, A, B, C)},
		A:     s1.Angle(angA),
		B:     s1.Angle(angB),
		C:     s1.Angle(angC),
		SideA: math.Hypot(B.X-C.X, B.Y-C.Y),
		SideB: math.Hypot(A.X-C.X, A.Y-C.Y),
		SideC: math.Hypot(A.X-B.X, A.Y-B.Y),
	}, nil
}

// vertexAngle returns the unsigned angle at v between the directions to
// a and b in the plane.
func vertexAngle(v, a, b r3.Vector) float64 {
	ux, uy := a.X-v.X, a.Y-v.Y
	wx, wy := b.X-v.X, b.Y-v.Y
	return math.Atan2(math.Abs(ux*wy-uy*wx), ux*wx+uy*wy)
}
