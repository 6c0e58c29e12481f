package vtrace

import "sort"

// AdjacencyGraph is a symmetric cluster -> neighbor-set mapping.
type AdjacencyGraph map[int32]map[int32]struct{}

func (g AdjacencyGraph) addEdge(a, b int32) {
	m := g[a]
	if m == nil {
		m = make(map[int32]struct{})
		g[a] = m
	}
	m[b] = struct{}{}
}

// sortedNeighbors returns c's neighbor ids in ascending order, giving a
// deterministic "first-found" tie-break for the closest-color search in
// merge.go.
func (g AdjacencyGraph) sortedNeighbors(c int32) []int32 {
	m := g[c]
	if len(m) == 0 {
		return nil
	}
	out := make([]int32, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// buildAdjacency scans each pixel's right and down neighbor; distinct
// non-zero labels on either side become a symmetric edge (section 4.5).
func buildAdjacency(labels []int32, w, h int) AdjacencyGraph {
	g := make(AdjacencyGraph)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			l := labels[idx]
			if l == 0 {
				continue
			}
			if x+1 < w {
				if r := labels[idx+1]; r != 0 && r != l {
					g.addEdge(l, r)
					g.addEdge(r, l)
				}
			}
			if y+1 < h {
				if d := labels[idx+w]; d != 0 && d != l {
					g.addEdge(l, d)
					g.addEdge(d, l)
				}
			}
		}
	}
	return g
}
