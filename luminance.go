package sphorb

import (
	"image"
	"image/color"
)

// toGrayscale converts img to an 8-bit single-channel image using the
// ITU-R BT.601 luminance coefficients, rounded to the nearest integer
// and clamped to [0,255] (spec.md §6: "standard luminance"). Computed
// explicitly here, rather than relying on color.Gray's own model
// conversion, so rounding is pinned down for determinism across Go
// versions (spec.md §8.1).
func toGrayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}

	b := img.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			// RGBA() returns 16-bit-scaled components; scale back to 8-bit.
			r8 := float64(r >> 8)
			g8 := float64(g >> 8)
			b8 := float64(bl >> 8)
			y601 := 0.299*r8 + 0.587*g8 + 0.114*b8
			v := int(y601 + 0.5)
			if v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			out.SetGray(x, y, color.Gray{Y: uint8(v)})
		}
	}
	return out
}
