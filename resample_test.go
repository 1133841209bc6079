package sphorb

import (
	"image"
	"image/color"
	"testing"
)

func TestResizeEquirectPreservesDimensions(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 64, 32))
	dst := resizeEquirect(src, 40, 20)
	if dst.Bounds().Dx() != 40 || dst.Bounds().Dy() != 20 {
		t.Errorf("resizeEquirect produced bounds %v, want 40x20", dst.Bounds())
	}
}

func TestResamplePartBilinearBlend(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.SetGray(x, y, color.Gray{Y: uint8(x * 50)})
		}
	}

	table := &imgTable{
		rows: 1, cols: 1,
		entries: []imgTableEntry{{lx: 0.5, ly: 0, wh: 0.5, wv: 1.0}},
	}
	out := resamplePart(src, table)
	// wh=0.5 blends x=0 (value 0) and x=1 (value 50) equally -> 25;
	// wv=1.0 takes the top row entirely.
	got := out.at(0, 0)
	if got != 25 {
		t.Errorf("resamplePart blend = %d, want 25", got)
	}
}

func TestResamplePartWrapsXAtSeam(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 2))
	src.SetGray(3, 0, color.Gray{Y: 100})
	src.SetGray(0, 0, color.Gray{Y: 200})

	table := &imgTable{
		rows: 1, cols: 1,
		entries: []imgTableEntry{{lx: 3, ly: 0, wh: 0.5, wv: 1.0}},
	}
	out := resamplePart(src, table)
	want := uint8((100 + 200) / 2)
	if out.at(0, 0) != want {
		t.Errorf("resamplePart x-wrap blend = %d, want %d", out.at(0, 0), want)
	}
}

