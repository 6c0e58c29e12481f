package vtrace

import (
	"math"
	"sort"
)

// signedAngle returns the signed angle (radians, positive = counter-
// clockwise) one would turn through to rotate vector a onto vector b.
func signedAngle(a, b FloatPoint) float64 {
	cross := a.X*b.Y - a.Y*b.X
	dot := a.Dot(b)
	return math.Atan2(cross, dot)
}

// splicePoints implements section 4.13's splice-point selection: a vertex
// is a splice iff the turning-angle sign flips between its incoming and
// outgoing edges, or a running cumulative signed turning angle (reset at
// every splice) reaches the splice threshold in magnitude.
func splicePoints(path []FloatPoint, spliceThresholdRad float64) []int {
	n := len(path)
	if n < 3 {
		if n == 0 {
			return nil
		}
		return []int{0}
	}

	turn := make([]float64, n)
	for i := 0; i < n; i++ {
		prev := (i - 1 + n) % n
		next := (i + 1) % n
		inVec := path[i].Sub(path[prev])
		outVec := path[next].Sub(path[i])
		turn[i] = signedAngle(inVec, outVec)
	}

	var cuts []int
	cumulative := 0.0
	var prevSign float64
	haveSign := false
	for i := 0; i < n; i++ {
		t := turn[i]
		sign := math.Copysign(1, t)
		if t == 0 {
			sign = 0
		}
		isSplice := false
		if haveSign && sign != 0 && prevSign != 0 && sign != prevSign {
			isSplice = true
		}
		cumulative += t
		if math.Abs(cumulative) >= spliceThresholdRad {
			isSplice = true
		}
		if isSplice {
			cuts = append(cuts, i)
			cumulative = 0
		}
		if sign != 0 {
			prevSign = sign
			haveSign = true
		}
	}

	if len(cuts) == 0 {
		cuts = []int{0}
	}
	if len(cuts) == 1 {
		cuts = append(cuts, (cuts[0]+n/2)%n)
	}
	return cuts
}

// cubicBezierBasis evaluates the cubic Bernstein basis at t.
func cubicBezierBasis(t float64) (b0, b1, b2, b3 float64) {
	mt := 1 - t
	b0 = mt * mt * mt
	b1 = 3 * mt * mt * t
	b2 = 3 * mt * t * t
	b3 = t * t * t
	return
}

// fitCubic fits a single cubic Bezier to the ordered points pts (at least
// 2), fixing P0=pts[0], P3=pts[len-1] and solving the 2x2 normal equations
// for P1,P2 by chord-length parameterization (section 4.13). Falls back to
// straight-line control points at 1/3 and 2/3 when the input is
// degenerate.
func fitCubic(pts []FloatPoint) (p0, p1, p2, p3 FloatPoint) {
	n := len(pts)
	p0 = pts[0]
	p3 = pts[n-1]
	straightFallback := func() (FloatPoint, FloatPoint) {
		return p0.Add(p3.Sub(p0).Scale(1.0 / 3.0)), p0.Add(p3.Sub(p0).Scale(2.0 / 3.0))
	}
	if n < 2 {
		p1, p2 = straightFallback()
		return
	}

	// chord-length parameterization normalized to [0,1]
	cum := make([]float64, n)
	total := 0.0
	for i := 1; i < n; i++ {
		total += pts[i].Sub(pts[i-1]).Norm()
		cum[i] = total
	}
	ts := make([]float64, n)
	if total < 1e-10 {
		for i := range ts {
			ts[i] = float64(i) / float64(n-1)
		}
	} else {
		for i := range ts {
			ts[i] = cum[i] / total
		}
	}

	// Minimize sum_i || B0(t_i)P0 + B1(t_i)P1 + B2(t_i)P2 + B3(t_i)P3 - pts[i] ||^2
	// over P1,P2. Normal equations reduce to a 2x2 linear system per axis
	// pair (solved jointly since the basis is shared across x and y).
	var a11, a12, a22 float64
	var cx1, cx2, cy1, cy2 float64
	for i := 0; i < n; i++ {
		b0, b1, b2, b3 := cubicBezierBasis(ts[i])
		rx := pts[i].X - b0*p0.X - b3*p3.X
		ry := pts[i].Y - b0*p0.Y - b3*p3.Y
		a11 += b1 * b1
		a12 += b1 * b2
		a22 += b2 * b2
		cx1 += b1 * rx
		cx2 += b2 * rx
		cy1 += b1 * ry
		cy2 += b2 * ry
	}

	det := a11*a22 - a12*a12
	if math.Abs(det) < 1e-10 {
		p1, p2 = straightFallback()
		return
	}

	x1 := (cx1*a22 - cx2*a12) / det
	x2 := (a11*cx2 - a12*cx1) / det
	y1 := (cy1*a22 - cy2*a12) / det
	y2 := (a11*cy2 - a12*cy1) / det

	p1 = FloatPoint{x1, y1}
	p2 = FloatPoint{x2, y2}
	return
}

// lineIntersection returns the intersection of line (p1,p2) with line
// (p3,p4), and whether it is well-defined (section 4.13's |denom|<1e-7
// guard).
func lineIntersection(p1, p2, p3, p4 FloatPoint) (FloatPoint, bool) {
	d1 := p2.Sub(p1)
	d2 := p4.Sub(p3)
	denom := d1.X*d2.Y - d1.Y*d2.X
	if math.Abs(denom) < 1e-7 {
		return FloatPoint{}, false
	}
	t := ((p3.X-p1.X)*d2.Y - (p3.Y-p1.Y)*d2.X) / denom
	return p1.Add(d1.Scale(t)), true
}

// retractHandles implements section 4.13's S-turn detection: with A=P0,
// B=P1, C=P2, D=P3, if the signed angle differences angle(D->A, A->B) and
// angle(A->B, B->C) disagree in sign, replace both handles with the
// intersection of segments (P0,P1) and (P3,P2) (or their midpoint if the
// intersection is undefined); parallel-and-not-coincident lines keep the
// original handles.
func retractHandles(p0, p1, p2, p3 FloatPoint) (FloatPoint, FloatPoint) {
	daVec := p0.Sub(p3)
	abVec := p1.Sub(p0)
	bcVec := p2.Sub(p1)

	angle1 := signedAngle(daVec, abVec)
	angle2 := signedAngle(abVec, bcVec)

	sign1 := math.Copysign(1, angle1)
	sign2 := math.Copysign(1, angle2)
	if angle1 == 0 || angle2 == 0 || sign1 == sign2 {
		return p1, p2
	}

	if ip, ok := lineIntersection(p0, p1, p3, p2); ok {
		return ip, ip
	}
	// Parallel lines: keep the handles unless the two lines coincide.
	d2 := p2.Sub(p3)
	if math.Abs((p3.X-p0.X)*d2.Y-(p3.Y-p0.Y)*d2.X) >= 1e-7 {
		return p1, p2
	}
	mid := p1.Add(p2).Scale(0.5)
	return mid, mid
}

// fitSpline implements section 4.13 end to end: choose splice/cut points,
// fit one cubic Bezier per circular cut-pair subpath, retract S-turn
// handles, and assemble the closed Spline
// [P0_0,P1_0,P2_0,P3_0=P0_1,P1_1,P2_1,P3_1,...].
func fitSpline(path []FloatPoint, spliceThresholdDeg float64) Spline {
	n := len(path)
	if n < 3 {
		return nil
	}
	spliceRad := spliceThresholdDeg * math.Pi / 180
	cuts := splicePoints(path, spliceRad)
	sort.Ints(cuts)
	m := len(cuts)
	if m < 2 {
		return nil
	}

	spline := make(Spline, 0, 1+3*m)
	for i := 0; i < m; i++ {
		a := cuts[i]
		b := cuts[(i+1)%m]
		sub := circularSlice(path, a, b)
		p0, p1, p2, p3 := fitCubic(sub)
		p1, p2 = retractHandles(p0, p1, p2, p3)
		if i == 0 {
			spline = append(spline, p0)
		}
		spline = append(spline, p1, p2, p3)
	}
	return spline
}

// circularSlice extracts path[a..b] inclusive, wrapping around the end of
// the slice when b < a.
func circularSlice(path []FloatPoint, a, b int) []FloatPoint {
	n := len(path)
	if a == b {
		return []FloatPoint{path[a], path[a]}
	}
	if a < b {
		out := make([]FloatPoint, 0, b-a+1)
		for i := a; i <= b; i++ {
			out = append(out, path[i])
		}
		return out
	}
	out := make([]FloatPoint, 0, n-a+b+1)
	for i := a; i < n; i++ {
		out = append(out, path[i])
	}
	for i := 0; i <= b; i++ {
		out = append(out, path[i])
	}
	return out
}
