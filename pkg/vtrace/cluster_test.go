package vtrace

import "testing"

func TestUnionFindPathHalving(t *testing.T) {
	uf := newUnionFind(5)
	uf.parent[1] = 2
	uf.parent[2] = 3
	uf.parent[3] = 4
	if got := uf.find(1); got != 4 {
		t.Fatalf("find(1) = %d; want 4", got)
	}
	if uf.parent[1] == 1 {
		t.Fatal("path halving should have shortened parent[1]")
	}
}

func TestClusterizeSolidImage(t *testing.T) {
	w, h := 3, 3
	px := solidPixels(w, h, Color{10, 20, 30, 255})
	keyed := make([]bool, w*h)
	cr := clusterize(px, w, h, keyed, quantizeShift(6), false)

	var nonZero []int32
	seen := map[int32]bool{}
	for _, l := range cr.labels {
		if l == 0 {
			t.Fatal("solid image should have no unassigned pixel")
		}
		if !seen[l] {
			seen[l] = true
			nonZero = append(nonZero, l)
		}
	}
	if len(nonZero) != 1 {
		t.Fatalf("solid image should form exactly one cluster; got %d", len(nonZero))
	}
	cl := cr.table[nonZero[0]]
	if cl.Area != w*h {
		t.Fatalf("cluster area = %d; want %d", cl.Area, w*h)
	}
}

func TestClusterizeChecker(t *testing.T) {
	// 2x2 checkerboard, testable property / scenario S2.
	w, h := 2, 2
	px := make([]byte, w*h*4)
	setPixel := func(x, y int, c Color) {
		i := (y*w + x) * 4
		px[i], px[i+1], px[i+2], px[i+3] = c.R, c.G, c.B, c.A
	}
	red := Color{255, 0, 0, 255}
	black := Color{0, 0, 0, 255}
	setPixel(0, 0, red)
	setPixel(1, 0, black)
	setPixel(0, 1, black)
	setPixel(1, 1, red)

	keyed := make([]bool, w*h)
	cr := clusterize(px, w, h, keyed, quantizeShift(6), false)

	labelSet := map[int32]bool{}
	for _, l := range cr.labels {
		labelSet[l] = true
	}
	if len(labelSet) != 4 {
		// diagonal pixels of the same color do not connect 4-connectedly,
		// so each of the 4 pixels is its own cluster absent diagonal mode.
		t.Fatalf("expected 4 singleton clusters without diagonal connectivity, got %d", len(labelSet))
	}
}

func TestClusterizeKeyedPixelsExcluded(t *testing.T) {
	w, h := 2, 1
	px := solidPixels(w, h, Color{1, 2, 3, 255})
	keyed := []bool{true, false}
	cr := clusterize(px, w, h, keyed, quantizeShift(6), false)
	if cr.labels[0] != 0 {
		t.Fatalf("keyed pixel must keep label 0; got %d", cr.labels[0])
	}
	if cr.labels[1] == 0 {
		t.Fatal("non-keyed pixel must get a cluster label")
	}
}
