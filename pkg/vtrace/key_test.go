package vtrace

import "testing"

func solidPixels(w, h int, c Color) []byte {
	buf := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		off := i * 4
		buf[off], buf[off+1], buf[off+2], buf[off+3] = c.R, c.G, c.B, c.A
	}
	return buf
}

func TestShouldKeyTransparentBackground(t *testing.T) {
	// 6x6, all transparent except a solid 4x4 block — matches spec S4.
	w, h := 6, 6
	px := solidPixels(w, h, Color{0, 0, 0, 0})
	for y := 1; y < 5; y++ {
		for x := 1; x < 5; x++ {
			i := (y*w + x) * 4
			px[i], px[i+1], px[i+2], px[i+3] = 255, 0, 0, 255
		}
	}
	if !shouldKey(px, w, h) {
		t.Fatal("shouldKey() = false; want true for a mostly-transparent 6x6 border")
	}
}

func TestShouldKeyOpaqueImage(t *testing.T) {
	px := solidPixels(4, 4, Color{255, 0, 0, 255})
	if shouldKey(px, 4, 4) {
		t.Fatal("shouldKey() = true for a fully opaque image; want false")
	}
}

func TestShouldKeyZeroDims(t *testing.T) {
	if shouldKey(nil, 0, 0) {
		t.Fatal("shouldKey() with zero dims must be false")
	}
}

func TestFindUnusedColorPrefersPrimaries(t *testing.T) {
	px := solidPixels(2, 2, Color{10, 10, 10, 255})
	got := findUnusedColor(px, 2, 2)
	if got != candidatePrimaries[0] {
		t.Fatalf("findUnusedColor() = %v; want first primary %v", got, candidatePrimaries[0])
	}
}

func TestFindUnusedColorSkipsPresentPrimaries(t *testing.T) {
	w, h := 1, len(candidatePrimaries)
	px := make([]byte, w*h*4)
	for i, c := range candidatePrimaries {
		off := i * 4
		px[off], px[off+1], px[off+2], px[off+3] = c.R, c.G, c.B, c.A
	}
	got := findUnusedColor(px, w, h)
	for _, c := range candidatePrimaries {
		if got == c {
			t.Fatalf("findUnusedColor() returned a color already present: %v", got)
		}
	}
}

func TestFindUnusedColorDeterministic(t *testing.T) {
	w, h := 1, len(candidatePrimaries)
	px := make([]byte, w*h*4)
	for i, c := range candidatePrimaries {
		off := i * 4
		px[off], px[off+1], px[off+2], px[off+3] = c.R, c.G, c.B, c.A
	}
	a := findUnusedColor(px, w, h)
	b := findUnusedColor(px, w, h)
	if a != b {
		t.Fatalf("findUnusedColor() not deterministic: %v vs %v", a, b)
	}
}

func TestApplyKeyColor(t *testing.T) {
	w, h := 2, 1
	px := make([]byte, w*h*4)
	px[3] = 0   // pixel 0 fully transparent
	px[7] = 255 // pixel 1 opaque
	key := Color{1, 2, 3, 255}
	keyed := applyKeyColor(px, w, h, key)

	if !keyed[0] || keyed[1] {
		t.Fatalf("keyed mask = %v; want [true false]", keyed)
	}
	if px[0] != key.R || px[1] != key.G || px[2] != key.B || px[3] != 255 {
		t.Fatalf("keyed pixel not overwritten: %v", px[0:4])
	}
}
