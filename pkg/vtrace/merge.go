package vtrace

import (
	"container/heap"
	"sort"
)

// areaHeap is a min-heap of populated area values, used to pop the
// smallest populated area on each iteration of the hierarchical merge
// (section 4.6, design note "ordered area processing").
type areaHeap []int

func (h areaHeap) Len() int            { return len(h) }
func (h areaHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h areaHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *areaHeap) Push(x interface{}) { *h = append(*h, x.(int)) }
func (h *areaHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// mergeState bundles the mutable structures the hierarchical merge walks
// and rewrites: the cluster table, the adjacency graph, and the area
// buckets used to pick processing order.
type mergeState struct {
	table     []*Cluster
	adjacency AdjacencyGraph
	buckets   map[int]map[int32]struct{}
	heap      *areaHeap
	inHeap    map[int]bool
}

func newMergeState(table []*Cluster, adjacency AdjacencyGraph) *mergeState {
	m := &mergeState{
		table:     table,
		adjacency: adjacency,
		buckets:   make(map[int]map[int32]struct{}),
		heap:      &areaHeap{},
		inHeap:    make(map[int]bool),
	}
	heap.Init(m.heap)
	for id, cl := range table {
		if id == 0 || cl.Area == 0 {
			continue
		}
		m.addToBucket(cl.Area, int32(id))
	}
	return m
}

func (m *mergeState) addToBucket(area int, id int32) {
	bucket := m.buckets[area]
	if bucket == nil {
		bucket = make(map[int32]struct{})
		m.buckets[area] = bucket
	}
	bucket[id] = struct{}{}
	if !m.inHeap[area] {
		heap.Push(m.heap, area)
		m.inHeap[area] = true
	}
}

func (m *mergeState) removeFromBucket(area int, id int32) {
	if bucket, ok := m.buckets[area]; ok {
		delete(bucket, id)
		if len(bucket) == 0 {
			delete(m.buckets, area)
		}
	}
}

// absorb folds src's area/color-sum/rect into dst, rewires adjacency so
// every former neighbor of src (other than dst) now points at dst instead,
// and re-buckets dst under its new (grown) area. It never touches
// residue sums — callers decide whether the residue should follow,
// matching the two merge branches of section 4.6 step 5 vs 6.
func (m *mergeState) absorb(dst, src int32) {
	dc, sc := m.table[dst], m.table[src]
	oldDstArea := dc.Area

	dc.Area += sc.Area
	dc.Sum.Add(sc.Sum)
	dc.Rect = dc.Rect.Merge(sc.Rect)
	sc.Area = 0

	for n := range m.adjacency[src] {
		if n == dst {
			continue
		}
		delete(m.adjacency[n], src)
		if len(m.adjacency[n]) == 0 {
			delete(m.adjacency, n)
		}
		m.adjacency.addEdge(dst, n)
		m.adjacency.addEdge(n, dst)
	}
	delete(m.adjacency, src)
	if dstAdj, ok := m.adjacency[dst]; ok {
		delete(dstAdj, src)
	}

	m.removeFromBucket(oldDstArea, dst)
	m.addToBucket(dc.Area, dst)
}

// hierarchicalMerge implements section 4.6. It returns the emitted cluster
// ids in emission (bottom-up, ascending-area) order, a snapshot of each
// emitted cluster's appearance at emission time, and the cluster-level
// merge chain used by pixel reassignment.
func hierarchicalMerge(table []*Cluster, adjacency AdjacencyGraph, totalArea int, filterSpeckle, layerDifference int, usedKeyColor bool) (emitted []int32, saved map[int32]SavedMeta, mergedInto []int32) {
	m := newMergeState(table, adjacency)
	saved = make(map[int32]SavedMeta)
	mergedInto = make([]int32, len(table))
	for i := range mergedInto {
		mergedInto[i] = int32(i)
	}
	emittedSet := make(map[int32]bool)

	filterArea := filterSpeckle * filterSpeckle

	emit := func(c int32) {
		cl := table[c]
		saved[c] = SavedMeta{Color: cl.Residue.Average(), Rect: cl.Rect}
		emitted = append(emitted, c)
		emittedSet[c] = true
	}

	for m.heap.Len() > 0 {
		area := heap.Pop(m.heap).(int)
		m.inHeap[area] = false
		bucket, ok := m.buckets[area]
		if !ok || len(bucket) == 0 {
			continue
		}
		ids := make([]int32, 0, len(bucket))
		for id := range bucket {
			ids = append(ids, id)
		}
		// Open question (spec 4.6/9): intra-bucket order is unspecified
		// by spec.md; we fix it to ascending cluster index for a
		// deterministic-per-run, deterministic-across-runs result.
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		delete(m.buckets, area)

		for batchIdx, c := range ids {
			cl := table[c]
			if cl.Area == 0 || cl.Area != area {
				continue // merged away, or area changed since the snapshot
			}

			if cl.Area >= totalArea {
				emit(c)
				continue
			}

			neighbors := adjacency.sortedNeighbors(c)
			if len(neighbors) == 0 {
				isLastOverall := m.heap.Len() == 0 && batchIdx == len(ids)-1
				if isLastOverall || usedKeyColor {
					emit(c)
				}
				continue
			}

			curColor := cl.Sum.Average()
			best := int32(-1)
			bestDist := -1
			for _, n := range neighbors {
				ncl := table[n]
				if ncl.Area == 0 {
					continue
				}
				d := manhattan(curColor, ncl.Sum.Average())
				if best == -1 || d < bestDist {
					best = n
					bestDist = d
				}
			}
			if best == -1 {
				isLastOverall := m.heap.Len() == 0 && batchIdx == len(ids)-1
				if isLastOverall || usedKeyColor {
					emit(c)
				}
				continue
			}

			isLargeEnough := filterArea > 0 && cl.Area >= filterArea
			shouldDeepen := bestDist > layerDifference

			if isLargeEnough && shouldDeepen {
				emit(c)
				m.absorb(best, c)
				mergedInto[c] = best
			} else {
				residue := cl.Residue
				m.absorb(best, c)
				table[best].Residue.Add(residue)
				mergedInto[c] = best
			}
		}
	}

	return emitted, saved, mergedInto
}
