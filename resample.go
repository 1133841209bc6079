package sphorb

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// resizeEquirect downsizes a grayscale equirectangular image to
// width x height using an area-weighted Catmull-Rom kernel, per spec.md
// §4.1 step 1 ("downsizes the equirectangular input to width 5*C[l] by
// height 5*C[l]/2"). The original implementation uses OpenCV's
// area-interpolation resize; x/image/draw's CatmullRom kernel is this
// module's area-aware stand-in for it (see DESIGN.md).
func resizeEquirect(src *image.Gray, width, height int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// resamplePart renders one storage-grid diamond by resampling the
// resized equirectangular source image through its precomputed ImgTable,
// per spec.md §4.1 step 2: for every output pixel, read
// (lx, ly, wh, wv), fetch the four bilinear source taps with x
// wraparound and y clamping, and blend.
func resamplePart(src *image.Gray, table *imgTable) *part {
	out := newPart(table.rows, table.cols)
	w := src.Bounds().Dx()

	for y := 0; y < table.rows; y++ {
		for x := 0; x < table.cols; x++ {
			e := table.at(y, x)
			ix := int(e.lx)
			iy := int(e.ly)

			v1 := srcGray(src, ix, iy, w)
			v2 := srcGray(src, (ix+1)%w, iy, w)
			v3 := srcGray(src, ix, iy+1, w)
			v4 := srcGray(src, (ix+1)%w, iy+1, w)

			v12 := v1*e.wh + v2*(1-e.wh)
			v34 := v3*e.wh + v4*(1-e.wh)
			blended := v12*e.wv + v34*(1-e.wv)

			out.set(y, x, clampToByte(blended))
		}
	}
	return out
}

// srcGray reads one pixel from the resized source image. x is used as
// given: the caller wraps only the ix+1 taps modulo width (longitude
// wraps). y is clamped to the image rows, not wrapped (latitude does not
// wrap), matching spec.md §4.1.
func srcGray(src *image.Gray, x, y, width int) float64 {
	b := src.Bounds()
	if y >= b.Max.Y {
		y = b.Max.Y - 1
	}
	if y < b.Min.Y {
		y = b.Min.Y
	}
	return float64(src.GrayAt(b.Min.X+x, y).Y)
}

func clampToByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// resampleAllParts resizes the source image once and renders all five
// storage-grid parts from it, per spec.md §2 item 1.
func resampleAllParts(gray *image.Gray, lt *levelTables) (*image.Gray, [numParts]*part) {
	width := lt.cellCount * 5
	height := resizedHeight(lt.cellCount)
	resized := resizeEquirect(gray, width, height)

	var parts [numParts]*part
	for p := 0; p < numParts; p++ {
		parts[p] = resamplePart(resized, lt.parts[p])
	}
	return resized, parts
}
