package vtrace

import "testing"

func TestBuildAdjacency(t *testing.T) {
	// labels:
	// 1 1 2
	// 1 1 2
	// 3 3 2
	w, h := 3, 3
	labels := []int32{
		1, 1, 2,
		1, 1, 2,
		3, 3, 2,
	}
	g := buildAdjacency(labels, w, h)

	if _, ok := g[1][2]; !ok {
		t.Fatal("expected edge 1-2")
	}
	if _, ok := g[2][1]; !ok {
		t.Fatal("expected symmetric edge 2-1")
	}
	if _, ok := g[1][3]; !ok {
		t.Fatal("expected edge 1-3")
	}
	if _, ok := g[3][2]; !ok {
		t.Fatal("expected edge 3-2 (bottom row right-neighbor scan)")
	}
}

func TestSortedNeighborsOrder(t *testing.T) {
	g := make(AdjacencyGraph)
	g.addEdge(1, 5)
	g.addEdge(1, 2)
	g.addEdge(1, 9)
	got := g.sortedNeighbors(1)
	want := []int32{2, 5, 9}
	if len(got) != len(want) {
		t.Fatalf("sortedNeighbors = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sortedNeighbors = %v; want %v", got, want)
		}
	}
}

func TestSortedNeighborsEmpty(t *testing.T) {
	g := make(AdjacencyGraph)
	if got := g.sortedNeighbors(99); got != nil {
		t.Fatalf("sortedNeighbors of unknown node = %v; want nil", got)
	}
}
