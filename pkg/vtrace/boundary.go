package vtrace

// maxBoundarySteps caps the corner-lattice walk (section 7: "Boundary walk
// exceeds 10 million steps -> path truncated at that point").
const maxBoundarySteps = 10_000_000

// ClosedPath is a closed sequence of integer lattice corners, as produced
// by walkPath: the first and last points coincide.
type ClosedPath []Point

// CompoundPath is one emitted cluster's decomposed shape: an outer shell
// traced clockwise plus zero or more interior holes traced
// counter-clockwise (section 4.8).
type CompoundPath struct {
	Outer ClosedPath
	Holes []ClosedPath
}

// findBoundaryStart scans in row-major order for the first (x,y) with
// img[x,y]==true and img[x,y-1]==false: the top-left corner of the
// top-most row containing the shape (section 4.9).
func findBoundaryStart(img *BinaryImage) (Point, bool) {
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			if img.Get(x, y) && !img.Get(x, y-1) {
				return Point{X: x, Y: y}, true
			}
		}
	}
	return Point{}, false
}

type cornerDir int

const (
	dirN cornerDir = iota
	dirE
	dirS
	dirW
)

var clockwiseDirs = [4]cornerDir{dirN, dirE, dirS, dirW}
var counterClockwiseDirs = [4]cornerDir{dirW, dirS, dirE, dirN}

func step(p Point, d cornerDir) Point {
	switch d {
	case dirN:
		return Point{p.X, p.Y - 1}
	case dirE:
		return Point{p.X + 1, p.Y}
	case dirS:
		return Point{p.X, p.Y + 1}
	default: // dirW
		return Point{p.X - 1, p.Y}
	}
}

// boundaryEdge reports whether the edge leaving corner p in direction d is
// a boundary edge: the two pixels flanking it differ (section 4.9).
func boundaryEdge(img *BinaryImage, p Point, d cornerDir) bool {
	x, y := p.X, p.Y
	var a, b bool
	switch d {
	case dirN:
		a, b = img.Get(x-1, y-1), img.Get(x, y-1)
	case dirE:
		a, b = img.Get(x, y), img.Get(x, y-1)
	case dirS:
		a, b = img.Get(x-1, y), img.Get(x, y)
	default: // dirW
		a, b = img.Get(x-1, y), img.Get(x-1, y-1)
	}
	return a != b
}

// walkPath walks the boundary of img in the pixel-corner lattice starting
// at start, clockwise (outer shells) or counter-clockwise (holes), per
// section 4.9. Straight runs are collapsed: a point is only pushed to the
// output when a turn is forced.
func walkPath(img *BinaryImage, start Point, clockwise bool) ClosedPath {
	dirs := counterClockwiseDirs
	if clockwise {
		dirs = clockwiseDirs
	}

	path := ClosedPath{start}
	cur := start
	var prev, prevPrev Point
	havePrev := false

	var curDir cornerDir
	haveDir := false

	for steps := 0; steps < maxBoundarySteps; steps++ {
		var candidates []cornerDir
		for _, d := range dirs {
			if !boundaryEdge(img, cur, d) {
				continue
			}
			next := step(cur, d)
			if havePrev && (next == prev || next == prevPrev) {
				continue
			}
			candidates = append(candidates, d)
		}
		if len(candidates) == 0 {
			break
		}

		// Prefer continuing in the current direction while it remains
		// valid (walks straight across colinear edges); otherwise take
		// the first valid direction in priority order. A vertex is only
		// recorded when the direction actually changes, collapsing
		// straight runs to their two endpoints.
		chosen := candidates[0]
		if haveDir && containsDir(candidates, curDir) {
			chosen = curDir
		}
		if haveDir && chosen != curDir {
			path = append(path, cur)
		}

		nxt := step(cur, chosen)
		prevPrev = prev
		prev = cur
		havePrev = true
		cur = nxt
		curDir = chosen
		haveDir = true

		if cur == start && len(path) > 1 {
			break
		}
	}

	path = append(path, cur)
	return path
}

func containsDir(ds []cornerDir, d cornerDir) bool {
	for _, x := range ds {
		if x == d {
			return true
		}
	}
	return false
}

// extractCompoundPaths implements section 4.8: build a binary image sized
// to rect from the owning pixel list, decompose into 4-connected
// components, and for each component of at least 3 pixels, find interior
// holes, fill them into the component's mask, and trace outer + hole
// boundaries.
func extractCompoundPaths(pixels []Point, rect Rect, cache *BinaryImageCache) []CompoundPath {
	if rect.IsEmpty() || len(pixels) == 0 {
		return nil
	}
	w, h := rect.Width(), rect.Height()
	img := cache.getOrBuild(pixels, rect)

	components := img.ToClusters()
	var out []CompoundPath
	for _, comp := range components {
		if len(comp.Points) < 3 {
			continue
		}
		mainImg := NewBinaryImage(w, h)
		for _, p := range comp.Points {
			mainImg.Set(p.X, p.Y, true)
		}

		cp := CompoundPath{}

		// Holes are the inverted components that do NOT touch the bounds
		// edge (an edge-touching inverted component is exterior
		// background, not an enclosed hole). Each hole is filled into
		// mainImg and its boundary traced on a separate image of its own.
		for _, ic := range mainImg.Negative().ToClusters() {
			if touchesEdge(ic.Rect, w, h) {
				continue
			}
			hImg := NewBinaryImage(w, h)
			for _, p := range ic.Points {
				hImg.Set(p.X, p.Y, true)
				mainImg.Set(p.X, p.Y, true) // plot into mainImg, filling it solid
			}
			if start, ok := findBoundaryStart(hImg); ok {
				cp.Holes = append(cp.Holes, walkPath(hImg, start, false))
			}
		}

		if start, ok := findBoundaryStart(mainImg); ok {
			cp.Outer = walkPath(mainImg, start, true)
		}

		out = append(out, cp)
	}
	return out
}

// touchesEdge reports whether a component's rect touches any edge of the
// w x h bounds — such a component is the exterior background, not a hole
// (section 4.8.b).
func touchesEdge(r Rect, w, h int) bool {
	return r.Left <= 0 || r.Top <= 0 || r.Right >= w || r.Bottom >= h
}
