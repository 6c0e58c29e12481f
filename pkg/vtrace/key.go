package vtrace

import "math/rand"

// keySeed is the fixed RNG seed spec.md ties key-color determinism to
// (section 4.1, testable property 7).
const keySeed = 42

// shouldKey scans rows {0, h/4, h/2, 3h/4, h-1} and reports whether the
// count of alpha==0 pixels across those rows reaches floor(0.4*w).
func shouldKey(pixels []byte, w, h int) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	rows := map[int]bool{0: true, h / 4: true, h / 2: true, (3 * h) / 4: true, h - 1: true}
	threshold := int(0.4 * float64(w))
	count := 0
	for y := range rows {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			if pixels[i+3] == 0 {
				count++
			}
		}
	}
	return count >= threshold
}

// candidatePrimaries are the six saturated primaries findUnusedColor tries
// before falling back to seeded pseudo-random candidates.
var candidatePrimaries = [6]Color{
	{255, 0, 0, 255},
	{0, 255, 0, 255},
	{0, 0, 255, 255},
	{255, 255, 0, 255},
	{0, 255, 255, 255},
	{255, 0, 255, 255},
}

// findUnusedColor returns the first RGB triple (from six saturated
// primaries, then six deterministic pseudo-random opaque colors) that does
// not appear as the RGB of any pixel, ignoring alpha. Falls back to
// (1,2,3,255) if all twelve candidates are present in the image.
func findUnusedColor(pixels []byte, w, h int) Color {
	present := make(map[uint32]bool, w*h)
	for i := 0; i+3 < len(pixels); i += 4 {
		key := uint32(pixels[i])<<16 | uint32(pixels[i+1])<<8 | uint32(pixels[i+2])
		present[key] = true
	}

	try := func(c Color) (Color, bool) {
		key := uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
		return c, !present[key]
	}

	for _, c := range candidatePrimaries {
		if cc, ok := try(c); ok {
			return cc
		}
	}

	rng := rand.New(rand.NewSource(keySeed))
	for i := 0; i < 6; i++ {
		c := Color{
			R: uint8(rng.Intn(256)),
			G: uint8(rng.Intn(256)),
			B: uint8(rng.Intn(256)),
			A: 255,
		}
		if cc, ok := try(c); ok {
			return cc
		}
	}

	return Color{1, 2, 3, 255}
}

// applyKeyColor overwrites every fully-transparent pixel's RGB with key and
// sets its alpha to 255. It returns a boolean mask, one entry per pixel,
// true for pixels that were keyed — clustering treats these as permanently
// unassigned (label 0), so they never form part of any emitted cluster.
func applyKeyColor(pixels []byte, w, h int, key Color) []bool {
	n := w * h
	keyed := make([]bool, n)
	for i := 0; i < n; i++ {
		off := i * 4
		if pixels[off+3] == 0 {
			keyed[i] = true
			pixels[off+0] = key.R
			pixels[off+1] = key.G
			pixels[off+2] = key.B
			pixels[off+3] = 255
		}
	}
	return keyed
}
