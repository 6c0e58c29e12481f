package vtrace

// maxMergeChainHops bounds the walk up the cluster merge chain (section 7:
// "Merge-chain walk exceeds 10000 hops -> pixel is discarded").
const maxMergeChainHops = 10000

// ancestorsOf walks the full mergedInto chain starting at leaf label l,
// collecting every emitted cluster id encountered along the way (there may
// be more than one: an emitted cluster can itself be absorbed into a later,
// larger emitted cluster). The walk stops at a self-loop (a fixed point —
// either an emitted terminal or a silently-dropped cluster) or after
// maxMergeChainHops steps.
func ancestorsOf(l int32, mergedInto []int32, emittedSet map[int32]bool) []int32 {
	var anc []int32
	cur := l
	for hops := 0; hops < maxMergeChainHops; hops++ {
		if emittedSet[cur] {
			anc = append(anc, cur)
		}
		next := mergedInto[cur]
		if next == cur {
			break
		}
		cur = next
	}
	return anc
}

// reassignPixels implements section 4.7. It returns, per emitted cluster
// id, the list of pixel coordinates that cluster owns.
//
// In stacked mode every emitted ancestor along a pixel's merge-chain walk
// receives that pixel — an absorbing cluster's final footprint naturally
// contains everything merged into it, including already-emitted,
// since-absorbed sub-layers, so layers legitimately overlap and rely on
// SVG painter-model compositing.
//
// In cutout mode, clusters are processed in forward emission order (the
// smallest, earliest-emitted, most specific region first); a pixel is
// assigned to the first (finest-detail) emitted ancestor in its chain that
// claims it, so a larger absorbing ancestor only ends up owning whatever
// its absorbed sub-layers didn't already claim for themselves — the finer
// layers are cut out of the larger, later-emitted layer, which is the
// shape a hole requires.
func reassignPixels(labels []int32, mergedInto []int32, emitted []int32, w, h int, mode Hierarchical) map[int32][]Point {
	emittedSet := make(map[int32]bool, len(emitted))
	for _, e := range emitted {
		emittedSet[e] = true
	}

	n := w * h
	ancestors := make([][]int32, n)
	for i, l := range labels {
		if l == 0 {
			continue
		}
		ancestors[i] = ancestorsOf(l, mergedInto, emittedSet)
	}

	result := make(map[int32][]Point)

	if mode == HierarchicalCutout {
		claimed := make([]bool, n)
		for _, e := range emitted {
			for idx, anc := range ancestors {
				if claimed[idx] || !containsID(anc, e) {
					continue
				}
				claimed[idx] = true
				result[e] = append(result[e], Point{X: idx % w, Y: idx / w})
			}
		}
		return result
	}

	for idx, anc := range ancestors {
		if len(anc) == 0 {
			continue
		}
		p := Point{X: idx % w, Y: idx / w}
		for _, e := range anc {
			result[e] = append(result[e], p)
		}
	}
	return result
}

func containsID(ids []int32, id int32) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
