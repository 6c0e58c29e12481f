package cli

import (
	"fmt"
	"image"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/xfmoulet/qoi"
	"gopkg.in/gographics/imagick.v3/imagick"
)

// Decode reads an image file from disk and returns it as a row-major RGBA
// pixel buffer with dimensions, matching the layout vtrace.Vtrace expects
// (section 3 of spec.md). Dispatch is by file extension: .png and the
// formats registered via image.RegisterFormat go through stdlib
// image.Decode, .bmp through golang.org/x/image/bmp, .qoi through
// github.com/xfmoulet/qoi, and anything else is attempted through
// ImageMagick (gopkg.in/gographics/imagick.v3), which covers formats none
// of the above codecs know about.
func Decode(path string) ([]byte, int, int, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var decodeFn func(io.Reader) (image.Image, error)
	switch ext {
	case ".bmp":
		decodeFn = bmp.Decode
	case ".qoi":
		decodeFn = qoi.Decode
	default:
		decodeFn = func(r io.Reader) (image.Image, error) {
			im, _, err := image.Decode(r)
			return im, err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	img, decErr := decodeFn(f)
	f.Close()

	if decErr != nil {
		if ext != ".bmp" && ext != ".qoi" {
			// Neither stdlib codec recognized it; fall back to ImageMagick,
			// which covers the rest of the formats the pack's codecs don't.
			return decodeWithImagick(path)
		}
		return nil, 0, 0, fmt.Errorf("decode %s: %w", path, decErr)
	}

	nrgba := toNRGBA(img)
	return nrgba.Pix, nrgba.Rect.Dx(), nrgba.Rect.Dy(), nil
}

// decodeWithImagick falls back to ImageMagick's MagickWand for any format
// stdlib, bmp, and qoi don't recognize, exporting straight to a row-major
// RGBA byte buffer instead of round-tripping through image.Image.
func decodeWithImagick(path string) ([]byte, int, int, error) {
	imagick.Initialize()
	defer imagick.Terminate()

	mw := imagick.NewMagickWand()
	defer mw.Destroy()

	if err := mw.ReadImage(path); err != nil {
		return nil, 0, 0, fmt.Errorf("imagick read %s: %w", path, err)
	}

	w := int(mw.GetImageWidth())
	h := int(mw.GetImageHeight())

	pixels, err := mw.ExportImagePixels(0, 0, uint(w), uint(h), "RGBA", imagick.PIXEL_CHAR)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("imagick export %s: %w", path, err)
	}

	buf := make([]byte, len(pixels))
	for i, v := range pixels {
		buf[i] = byte(v.(uint8))
	}
	return buf, w, h, nil
}

// toNRGBA converts any decoded image.Image to non-premultiplied RGBA,
// the row-major byte layout the core pipeline requires. Adapted from
// pkg/stdimg's ToNRGBA, specialized to always rebase the origin to (0,0)
// since vtrace.Vtrace has no notion of a Bounds().Min offset.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := src.At(x, y).RGBA()
			i := out.PixOffset(x-b.Min.X, y-b.Min.Y)
			out.Pix[i+0] = uint8(r >> 8)
			out.Pix[i+1] = uint8(g >> 8)
			out.Pix[i+2] = uint8(bl >> 8)
			out.Pix[i+3] = uint8(a >> 8)
		}
	}
	return out
}
