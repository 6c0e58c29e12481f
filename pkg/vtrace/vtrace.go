package vtrace

import "strings"

// Vtrace implements the spec's single entry point: it converts a row-major
// RGBA pixel buffer into a complete SVG 1.1 document string. pixels is
// mutated in place by keying and (in binary color mode) luminance
// collapsing; callers that need the original buffer preserved must pass a
// copy (section 5).
func Vtrace(pixels []byte, width, height int, cfg Config) string {
	stats, svg := vtrace(pixels, width, height, cfg)
	_ = stats
	return svg
}

// Stats reports counters a caller might want to log or assert on, without
// changing vtrace's core return contract.
type Stats struct {
	ClusterCount int
	EmittedCount int
	UsedKeyColor bool
}

// VtraceWithStats is SPEC_FULL.md's B.2 supplement: the same pipeline as
// Vtrace, additionally returning pipeline counters for observability (see
// pkg/cli/log.go, which logs these in one summary line per run).
func VtraceWithStats(pixels []byte, width, height int, cfg Config) (Stats, string) {
	return vtrace(pixels, width, height, cfg)
}

func vtrace(pixels []byte, width, height int, cfg Config) (Stats, string) {
	if width <= 0 || height <= 0 {
		return Stats{}, assembleSVG(maxInt(width, 0), maxInt(height, 0), nil)
	}
	// No further validation: the core trusts pixels has length
	// width*height*4 (section 7) and lets an undersized buffer panic
	// naturally on first out-of-range access rather than guard against it.

	var usedKeyColor bool
	keyed := make([]bool, width*height)
	if shouldKey(pixels, width, height) {
		key := findUnusedColor(pixels, width, height)
		keyed = applyKeyColor(pixels, width, height, key)
		usedKeyColor = true
	}

	if cfg.ColorMode == ColorModeBinary {
		applyBinaryMode(pixels, width, height)
	}

	shift := quantizeShift(cfg.ColorPrecision)
	diagonal := cfg.LayerDifference == 0

	cr := clusterize(pixels, width, height, keyed, shift, diagonal)
	adjacency := buildAdjacency(cr.labels, width, height)

	totalArea := 0
	for i, cl := range cr.table {
		if i == 0 {
			continue
		}
		totalArea += cl.Area
	}

	emitted, saved, mergedInto := hierarchicalMerge(cr.table, adjacency, totalArea, cfg.FilterSpeckle, cfg.LayerDifference, usedKeyColor)

	owners := reassignPixels(cr.labels, mergedInto, emitted, width, height, cfg.Hierarchical)

	layers := make([]layerPath, 0, len(emitted))
	for _, id := range emitted {
		pts := owners[id]
		if len(pts) == 0 {
			continue
		}
		meta := saved[id]
		d := renderClusterPath(pts, meta.Rect, cfg, cfg.Cache)
		if d == "" {
			continue
		}
		layers = append(layers, layerPath{D: d, Fill: hexFill(meta.Color)})
	}

	svg := assembleSVG(width, height, layers)
	return Stats{ClusterCount: len(cr.table) - 1, EmittedCount: len(emitted), UsedKeyColor: usedKeyColor}, svg
}

// renderClusterPath assembles one emitted cluster's full <path> d attribute:
// one compound-path decomposition per disjoint pixel component, each
// contributing an outer subpath plus zero or more hole subpaths, every
// subpath independently simplified and (in spline mode) smoothed and
// curve-fit. Subpaths are traced in rect-local corners and shifted back by
// rect's origin into image coordinates.
func renderClusterPath(pts []Point, rect Rect, cfg Config, cache *BinaryImageCache) string {
	compounds := extractCompoundPaths(pts, rect, cache)
	if len(compounds) == 0 {
		return ""
	}
	toImage := func(path ClosedPath) ClosedPath {
		out := make(ClosedPath, len(path))
		for i, p := range path {
			out[i] = Point{X: p.X + rect.Left, Y: p.Y + rect.Top}
		}
		return out
	}
	var b strings.Builder
	for _, cp := range compounds {
		writeSubpath(&b, toImage(cp.Outer), true, cfg)
		for _, h := range cp.Holes {
			writeSubpath(&b, toImage(h), false, cfg)
		}
	}
	return b.String()
}

func writeSubpath(b *strings.Builder, path ClosedPath, clockwise bool, cfg Config) {
	if len(path) < 4 {
		return
	}
	simplified := limitPenalties(removeStaircase(path, clockwise))
	if len(simplified) < 4 {
		return
	}

	if cfg.Mode == ModePolygon {
		b.WriteString(polygonPathData(simplified, cfg.PathPrecision))
		return
	}

	floatPts := make([]FloatPoint, len(simplified)-1)
	for i, p := range simplified[:len(simplified)-1] {
		floatPts[i] = p.ToFloat()
	}
	smoothed := smoothPath(floatPts, cfg.CornerThreshold, cfg.LengthThreshold, cfg.MaxIterations)
	spline := fitSpline(smoothed, cfg.SpliceThreshold)
	if spline.Empty() {
		b.WriteString(polygonPathData(simplified, cfg.PathPrecision))
		return
	}
	b.WriteString(splinePathData(spline, cfg.PathPrecision))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
