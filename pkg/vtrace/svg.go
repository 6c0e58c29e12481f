package vtrace

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// hexFill renders a Color as an SVG fill attribute value using go-colorful's
// RGB hex formatting (section 4.15's "#RRGGBB").
func hexFill(c Color) string {
	cc := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	return cc.Hex()
}

// formatCoord renders a single coordinate with exactly pathPrecision
// decimals; trailing zeros are kept ("1.00" at precision 2).
func formatCoord(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// polygonPathData implements section 4.14: M x,y L x,y ... Z for a closed
// integer polyline (path[0] == path[len-1], so the final L is redundant and
// skipped).
func polygonPathData(path ClosedPath, precision int) string {
	if len(path) < 2 {
		return ""
	}
	var b strings.Builder
	pts := path[:len(path)-1]
	fmt.Fprintf(&b, "M%s,%s ", formatCoord(float64(pts[0].X), precision), formatCoord(float64(pts[0].Y), precision))
	for _, p := range pts[1:] {
		fmt.Fprintf(&b, "L%s,%s ", formatCoord(float64(p.X), precision), formatCoord(float64(p.Y), precision))
	}
	b.WriteString("Z ")
	return b.String()
}

// splinePathData implements section 4.15's Bezier path emission: M for the
// start point, then one C per cubic segment (three control points each).
func splinePathData(s Spline, precision int) string {
	if s.Empty() {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "M%s,%s ", formatCoord(s[0].X, precision), formatCoord(s[0].Y, precision))
	for i := 1; i+2 < len(s); i += 3 {
		p1, p2, p3 := s[i], s[i+1], s[i+2]
		fmt.Fprintf(&b, "C%s,%s %s,%s %s,%s ",
			formatCoord(p1.X, precision), formatCoord(p1.Y, precision),
			formatCoord(p2.X, precision), formatCoord(p2.Y, precision),
			formatCoord(p3.X, precision), formatCoord(p3.Y, precision))
	}
	b.WriteString("Z ")
	return b.String()
}

// layerPath is one emitted cluster's fully-assembled path data and fill,
// ready for document assembly.
type layerPath struct {
	D    string
	Fill string
}

// assembleSVG implements section 4.15: an XML declaration, an <svg> root
// sized to width x height, one <path> per layer in the order given
// (emission order = bottom-up = first-drawn = deepest), and the closing
// tag. Emitting no layers still produces a well-formed, empty document.
func assembleSVG(width, height int, layers []layerPath) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&b, `<svg version="1.1" xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+"\n", width, height)
	for _, l := range layers {
		if l.D == "" {
			continue
		}
		fmt.Fprintf(&b, `<path d="%s" fill="%s"/>`+"\n", strings.TrimSpace(l.D), l.Fill)
	}
	b.WriteString("</svg>")
	return b.String()
}
