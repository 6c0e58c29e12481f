package vtrace

import "math"

// manhattanLen returns the Manhattan length of the segment a->b.
func manhattanLen(a, b Point) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// signedArea2 returns twice the signed area of triangle (a,b,c); its sign
// gives traversal orientation (positive = clockwise in this coordinate
// system, matching the boundary walker's convention).
func signedArea2(a, b, c Point) int {
	return (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
}

// removeStaircase implements section 4.10. path is a closed polyline
// (path[0] == path[len-1]); the interior vertices (excluding the
// duplicated closing point) are filtered. clockwise must match how path
// was traversed (true for outer shells, false for holes, per
// walkPath/CompoundPath in boundary.go): signedArea2's sign convention is
// fixed to the clockwise case, so a counter-clockwise hole needs the
// opposite comparison to keep the same class of vertex. A vertex whose two
// adjacent edges are both longer than one step is a real corner, not a
// staircase notch, and is always kept.
func removeStaircase(path ClosedPath, clockwise bool) ClosedPath {
	if len(path) < 4 {
		return path
	}
	interior := path[:len(path)-1]
	n := len(interior)
	keep := make([]bool, n)
	for i := 0; i < n; i++ {
		if i == 0 || i == n-1 {
			keep[i] = true
			continue
		}
		h := interior[(i-1+n)%n]
		p := interior[i]
		j := interior[(i+1)%n]

		lenH := manhattanLen(h, p)
		lenJ := manhattanLen(p, j)
		if lenH > 1 && lenJ > 1 {
			keep[i] = true
			continue
		}

		area := signedArea2(h, p, j)
		if clockwise {
			keep[i] = area > 0
		} else {
			keep[i] = area < 0
		}
	}

	out := make(ClosedPath, 0, n+1)
	for i, p := range interior {
		if keep[i] {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return path
	}
	out = append(out, out[0])
	return out
}

// triangleAreaHeron computes the (unsigned) area of a triangle from its
// three side lengths via Heron's formula.
func triangleAreaHeron(a, b, c FloatPoint) float64 {
	sa := a.Sub(b).Norm()
	sb := b.Sub(c).Norm()
	sc := c.Sub(a).Norm()
	s := (sa + sb + sc) / 2
	v := s * (s - sa) * (s - sb) * (s - sc)
	if v < 0 {
		v = 0
	}
	return math.Sqrt(v)
}

// penalty implements section 4.11's penalty function: squared triangle
// area over chord length, zero for near-degenerate chords.
func penalty(a, b, c FloatPoint) float64 {
	chord := a.Sub(c).Norm()
	if chord < 1e-10 {
		return 0
	}
	area := triangleAreaHeron(a, b, c)
	return (area * area) / chord
}

const decimationTolerance = 1.0

// limitPenalties implements section 4.11: greedy penalty-bounded
// decimation of a closed integer polyline.
func limitPenalties(path ClosedPath) ClosedPath {
	if len(path) < 3 {
		return path
	}
	pts := make([]FloatPoint, len(path))
	for i, p := range path {
		pts[i] = p.ToFloat()
	}

	out := []Point{path[0]}
	last := 0
	for i := 1; i < len(pts); i++ {
		maxPenalty := 0.0
		for k := last + 1; k < i; k++ {
			p := penalty(pts[last], pts[k], pts[i])
			if p > maxPenalty {
				maxPenalty = p
			}
		}
		if maxPenalty > decimationTolerance {
			out = append(out, path[i-1])
			last = i - 1
		}
	}
	out = append(out, path[len(path)-1])
	return out
}
