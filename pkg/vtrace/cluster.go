package vtrace

// unionFind compresses paths by halving in find; it does no union by rank
// (the rank slice is never read), and callers link roots themselves
// (clusterize puts the smaller-area root under the larger, ToClusters puts
// the left root under the upper one). Its elements are cluster
// table indices (not raw pixel indices) — the cluster count never exceeds
// width*height (one singleton cluster per pixel in the degenerate case),
// so sizing it to that bound is sufficient. It resolves which cluster-table
// row is the current representative of a same-color region discovered
// during the two-pass scan; it is a separate structure from the
// cluster-level mergedInto chain built later by the hierarchical merge.
type unionFind struct {
	parent []int32
	rank   []uint8
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int32, n), rank: make([]uint8, n)}
	for i := range uf.parent {
		uf.parent[i] = int32(i)
	}
	return uf
}

func (uf *unionFind) find(x int32) int32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

// clusterResult is the output of the two-pass scan: a 1-indexed cluster
// table (index 0 is the unassigned/keyed sentinel) and a per-pixel label
// array.
type clusterResult struct {
	table  []*Cluster
	labels []int32
}

// clusterize performs scan-order two-pass labeling (section 4.4). diagonal
// enables the Up-Left-only matching case (active iff layerDifference==0,
// decided by the caller).
func clusterize(pixels []byte, w, h int, keyed []bool, shift uint, diagonal bool) clusterResult {
	n := w * h
	labels := make([]int32, n)
	uf := newUnionFind(n + 1)
	table := make([]*Cluster, 1, 256)
	table[0] = &Cluster{} // sentinel for index 0

	colorAt := func(x, y int) Color {
		i := (y*w + x) * 4
		return Color{pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]}
	}

	newCluster := func(c Color, x, y int) int32 {
		idx := int32(len(table))
		cl := &Cluster{Area: 1, Rect: emptyRect().AddXY(x, y)}
		cl.Sum.AddColor(c)
		table = append(table, cl)
		return idx
	}

	addPixel := func(id int32, c Color, x, y int) {
		cl := table[id]
		cl.Area++
		cl.Sum.AddColor(c)
		cl.Rect = cl.Rect.AddXY(x, y)
	}

	// mergeSmallerIntoLarger folds small's accumulated state into big's and
	// redirects small's union-find root to big. It is strictly a
	// scan-time bookkeeping merge (distinct from the hierarchical merge in
	// merge.go), triggered only when two already-labeled neighbors turn
	// out to belong to clusters that have not yet been unified.
	mergeSmallerIntoLarger := func(a, b int32) int32 {
		ra, rb := uf.find(a), uf.find(b)
		if ra == rb {
			return ra
		}
		big, small := ra, rb
		if table[rb].Area > table[ra].Area {
			big, small = rb, ra
		}
		bc, sc := table[big], table[small]
		bc.Area += sc.Area
		bc.Sum.Add(sc.Sum)
		bc.Rect = bc.Rect.Merge(sc.Rect)
		sc.Area = 0
		uf.parent[small] = big
		return big
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if keyed[idx] {
				continue
			}
			c := colorAt(x, y)

			var upID, leftID, ulID int32
			var upMatch, leftMatch, ulMatch bool

			if y > 0 && !keyed[idx-w] {
				if sameColor(colorAt(x, y-1), c, shift) {
					upMatch = true
					upID = uf.find(labels[idx-w])
				}
			}
			if x > 0 && !keyed[idx-1] {
				if sameColor(colorAt(x-1, y), c, shift) {
					leftMatch = true
					leftID = uf.find(labels[idx-1])
				}
			}
			if x > 0 && y > 0 && !keyed[idx-w-1] {
				if sameColor(colorAt(x-1, y-1), c, shift) {
					ulMatch = true
					ulID = uf.find(labels[idx-w-1])
				}
			}

			var assigned int32
			isNew := false
			switch {
			case upMatch && leftMatch:
				if leftID == upID {
					assigned = upID
				} else {
					assigned = mergeSmallerIntoLarger(upID, leftID)
				}
			case upMatch && ulMatch:
				assigned = upID
			case leftMatch && ulMatch:
				assigned = leftID
			case diagonal && ulMatch:
				assigned = ulID
			case upMatch:
				assigned = upID
			case leftMatch:
				assigned = leftID
			default:
				assigned = newCluster(c, x, y)
				isNew = true
			}

			if !isNew {
				assigned = uf.find(assigned)
				addPixel(assigned, c, x, y)
			}
			labels[idx] = assigned
		}
	}

	for i, l := range labels {
		if l != 0 {
			labels[i] = uf.find(l)
		}
	}
	for _, cl := range table {
		cl.Residue = cl.Sum
	}

	return clusterResult{table: table, labels: labels}
}
