package vtrace

// BinaryImage is a width x height array of bits. Out-of-bounds reads
// return false; out-of-bounds writes are no-ops (section 3).
type BinaryImage struct {
	W, H int
	bits []bool
}

// NewBinaryImage returns a cleared w x h bitmap.
func NewBinaryImage(w, h int) *BinaryImage {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &BinaryImage{W: w, H: h, bits: make([]bool, w*h)}
}

func (b *BinaryImage) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return false
	}
	return b.bits[y*b.W+x]
}

func (b *BinaryImage) Set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return
	}
	b.bits[y*b.W+x] = v
}

// Negative returns the bitwise-inverted image.
func (b *BinaryImage) Negative() *BinaryImage {
	out := NewBinaryImage(b.W, b.H)
	for i, v := range b.bits {
		out.bits[i] = !v
	}
	return out
}

// BinaryCluster is one 4-connected component of a BinaryImage: its own
// local bounding rect (in the parent BinaryImage's coordinate space) and
// point list.
type BinaryCluster struct {
	Rect   Rect
	Points []Point
}

// ToClusters decomposes the set bits into 4-connected components via
// scan-order union-find, mirroring the pixel-level clustering approach of
// section 4.4 but over a single boolean plane instead of colors.
func (b *BinaryImage) ToClusters() []BinaryCluster {
	n := b.W * b.H
	if n == 0 {
		return nil
	}
	labels := make([]int32, n)
	uf := newUnionFind(n + 1)
	nextID := int32(1)

	idx := func(x, y int) int { return y*b.W + x }

	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			if !b.Get(x, y) {
				continue
			}
			i := idx(x, y)
			var up, left int32
			if y > 0 && b.Get(x, y-1) {
				up = labels[idx(x, y-1)]
			}
			if x > 0 && b.Get(x-1, y) {
				left = labels[idx(x-1, y)]
			}
			switch {
			case up != 0 && left != 0:
				ru, rl := uf.find(up), uf.find(left)
				if ru != rl {
					uf.parent[rl] = ru
				}
				labels[i] = ru
			case up != 0:
				labels[i] = uf.find(up)
			case left != 0:
				labels[i] = uf.find(left)
			default:
				labels[i] = nextID
				nextID++
			}
		}
	}

	byRoot := make(map[int32]*BinaryCluster)
	var order []int32
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			i := idx(x, y)
			if labels[i] == 0 {
				continue
			}
			root := uf.find(labels[i])
			bc, ok := byRoot[root]
			if !ok {
				bc = &BinaryCluster{Rect: emptyRect()}
				byRoot[root] = bc
				order = append(order, root)
			}
			bc.Rect = bc.Rect.AddXY(x, y)
			bc.Points = append(bc.Points, Point{X: x, Y: y})
		}
	}

	out := make([]BinaryCluster, 0, len(order))
	for _, root := range order {
		out = append(out, *byRoot[root])
	}
	return out
}
