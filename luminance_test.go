package sphorb

import (
	"image"
	"image/color"
	"testing"
)

func TestToGrayscalePassesThroughGrayImages(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	src.SetGray(0, 0, color.Gray{Y: 42})
	out := toGrayscale(src)
	if out != src {
		t.Error("toGrayscale should return the same *image.Gray unchanged, not a copy")
	}
}

func TestToGrayscaleConvertsRGBAUsingBT601(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	out := toGrayscale(src)

	want := uint8(76) // 0.299*255 = 76.245, rounded to nearest
	got := out.GrayAt(0, 0).Y
	if got != want {
		t.Errorf("toGrayscale(pure red) = %d, want %d", got, want)
	}
}

func TestToGrayscaleClampsToByteRange(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	out := toGrayscale(src)
	if out.GrayAt(0, 0).Y != 255 {
		t.Errorf("toGrayscale(white) = %d, want 255", out.GrayAt(0, 0).Y)
	}
}
