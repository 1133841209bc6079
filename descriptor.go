package sphorb

import "math"

// gaussianKernel is the fixed 7x7 Gaussian smoothing kernel designed for
// the hexagonal lattice, applied to each part before descriptor
// extraction (spec.md §4.7). Reproduced verbatim from the reference
// implementation's literal table (see DESIGN.md).
var gaussianKernel = [7][7]float64{
	{0, 0, 0, 0.007615469730253, 0.012684563109382, 0.012684563109382, 0.007615469730253},
	{0, 0, 0.012684563109382, 0.027267400652990, 0.035191124791545, 0.027267400652990, 0.012684563109382},
	{0, 0.012684563109382, 0.035191124791545, 0.058615431367971, 0.058615431367971, 0.035191124791545, 0.012684563109382},
	{0.007615469730253, 0.027267400652990, 0.058615431367971, 0.075648683430860, 0.058615431367971, 0.027267400652990, 0.007615469730253},
	{0.012684563109382, 0.035191124791545, 0.058615431367971, 0.058615431367971, 0.035191124791545, 0.012684563109382, 0},
	{0.012684563109382, 0.027267400652990, 0.035191124791545, 0.027267400652990, 0.012684563109382, 0, 0},
	{0.007615469730253, 0.012684563109382, 0.012684563109382, 0.007615469730253, 0, 0, 0},
}

// descriptorPatternFlat is the fixed 256-pair (512-point) rotated-BRIEF-style
// test pattern (spec.md §4.7), reproduced verbatim from the reference
// implementation's literal table. Each group of 4 ints is
// (p0x, p0y, p1x, p1y) for one descriptor bit.
var descriptorPatternFlat = [1024]int{
	0, 13, -15, 14,
	-15, 1, -14, 15,
	15, -12, -4, -7,
	9, -15, 2, -1,
	15, -1, 5, 3,
	10, -8, 13, 2,
	-7, 4, -15, 6,
	4, 11, -5, 13,
	1, -14, 4, -10,
	7, -4, -9, 11,
	-5, 2, -1, 4,
	10, -11, 15, -8,
	9, 2, 9, 6,
	-2, 8, -4, 14,
	-4, -10, -5, -5,
	-1, -9, -9, -6,
	-12, -1, -15, 4,
	15, -6, 12, -3,
	-5, -5, -8, 0,
	6, 1, 2, 2,
	2, -8, 4, -7,
	-3, 5, -3, 8,
	8, 6, 6, 9,
	-10, -3, -13, -2,
	15, -14, 13, -12,
	-13, 12, -15, 13,
	5, 10, 3, 12,
	-2, 14, -2, 15,
	-13, 6, -14, 7,
	-13, -2, -14, -1,
	-1, 2, -8, 4,
	10, -7, 6, -5,
	1, -3, -1, 1,
	2, 1, 2, 5,
	8, -12, 11, -11,
	6, -13, 3, -12,
	-12, 13, -10, 15,
	3, -14, 0, -13,
	-5, 0, -6, 3,
	-6, -2, -3, -2,
	0, -15, 0, -14,
	5, 9, 5, 10,
	1, -5, 0, -4,
	-15, 3, -13, 3,
	3, 6, 4, 6,
	-9, -1, -8, -1,
	4, -3, 5, -3,
	-11, 9, -10, 9,
	15, -13, 11, -5,
	13, -5, 4, 7,
	-1, -12, -2, 12,
	-9, 7, -14, 12,
	12, 3, 0, 10,
	-8, 3, -11, 9,
	-1, -13, -5, -8,
	-11, 10, -10, 13,
	-1, 8, -5, 9,
	7, -3, 10, -2,
	-11, -4, -10, -2,
	4, 2, -2, 3,
	7, -15, 10, -14,
	14, -3, 11, -1,
	10, -15, 7, -13,
	0, -4, -3, -3,
	-14, 5, -12, 6,
	-7, -8, -11, -4,
	3, -11, 2, -9,
	6, -2, 5, 0,
	4, -8, 2, -6,
	-14, 9, -13, 10,
	1, 4, -1, 6,
	7, 0, 7, 1,
	3, -9, 3, -8,
	15, -7, 15, -6,
	13, 0, 15, 0,
	-1, 8, 0, 8,
	0, -2, 1, -2,
	14, -7, 15, -7,
	14, -15, 15, -15,
	-10, 15, -9, 15,
	-13, 3, 7, 6,
	14, -4, 1, -2,
	-10, -5, 4, 3,
	15, -15, -13, 8,
	-2, 9, -10, 15,
	15, -10, 4, 1,
	-7, -7, -15, 10,
	3, -9, 10, -3,
	8, -11, -15, 0,
	3, 7, 7, 8,
	15, -2, 0, 15,
	-9, 14, -15, 15,
	-1, 4, 4, 9,
	-12, 7, -3, 10,
	7, -6, 1, -5,
	-9, -2, -8, 2,
	15, -11, 10, -9,
	4, -12, -6, -2,
	-3, 11, 1, 14,
	1, -6, -9, 5,
	-1, -7, -1, -3,
	0, -1, -5, 7,
	8, -10, 8, -7,
	7, -7, 6, -2,
	4, 5, 2, 11,
	-4, -8, -1, -7,
	-3, 7, -7, 8,
	-7, 8, -10, 10,
	1, -13, -3, -12,
	-4, -3, -11, 2,
	-11, 4, -9, 5,
	7, 1, 8, 3,
	-4, -2, -3, 0,
	14, -1, 14, 1,
	-6, -9, -4, -8,
	-14, 3, -13, 5,
	-15, 12, -15, 14,
	-7, -4, -11, -3,
	8, -12, 6, -10,
	-6, 9, -6, 11,
	14, -4, 15, -3,
	3, 6, 1, 7,
	9, -14, 9, -13,
	-14, 7, -14, 8,
	-6, 15, -3, 15,
	15, -15, 15, -14,
	11, 4, 10, 5,
	2, 13, 1, 14,
	14, 1, 13, 2,
	8, 5, 10, 5,
	7, 5, 6, 6,
	4, 3, 3, 4,
	2, 12, 3, 12,
	10, -2, 11, -2,
	-15, 0, -14, 0,
	-15, 15, -14, 15,
	-1, -7, 0, -7,
	6, -10, 7, -10,
	-5, 12, -4, 12,
	4, -15, -15, 14,
	6, -14, 8, 5,
	15, -6, -15, 13,
	-14, -1, -1, 1,
	-2, 5, -15, 11,
	12, -9, -2, -1,
	14, 1, -15, 9,
	12, -14, -9, 15,
	-7, 6, 8, 7,
	15, -12, 7, 8,
	-2, -13, 13, -1,
	-10, -3, -7, 14,
	14, -14, 3, -4,
	10, -11, 0, 3,
	13, -7, -10, -2,
	3, -13, 6, -6,
	2, -15, -2, -6,
	-3, -11, 6, -8,
	12, 0, -9, 14,
	14, -2, -6, 0,
	-10, 1, -4, 3,
	-4, 2, -12, 13,
	-4, -4, 4, -1,
	1, -10, 2, 2,
	-9, 2, -2, 15,
	3, -4, 14, 0,
	-7, 10, -12, 14,
	-13, 6, -10, 12,
	7, -2, -15, 5,
	1, 0, 7, 4,
	-1, -14, -15, 6,
	-5, 11, -11, 12,
	15, -9, -3, 13,
	15, -7, 8, -4,
	-14, 2, -4, 8,
	11, -14, 13, -10,
	-7, -8, -3, 5,
	-6, 8, 0, 12,
	-6, 1, -5, 6,
	15, -13, 7, -11,
	-10, 9, -15, 10,
	12, -7, 9, 0,
	14, -15, 9, -8,
	-6, -6, 5, 10,
	11, -3, -3, 5,
	6, -15, 3, -11,
	-4, -1, 0, 9,
	4, -3, -7, -1,
	5, -8, 1, 6,
	11, -2, 10, 4,
	-9, 0, -15, 8,
	4, 7, -5, 15,
	8, -8, -9, 3,
	2, -6, -10, -4,
	5, -9, -4, -5,
	6, 1, -5, 12,
	7, -3, 0, 8,
	-4, 4, 0, 5,
	-7, -6, -5, -2,
	0, -10, -15, 3,
	15, -9, 11, -7,
	10, -10, 6, -8,
	4, -2, 2, 13,
	1, -6, 6, -5,
	2, -15, 15, -15,
	6, -5, -2, 2,
	-4, 1, -11, 7,
	0, -5, 1, -2,
	9, 2, 4, 4,
	9, 0, 13, 1,
	-6, 11, -7, 15,
	-1, 0, 2, 1,
	-9, -1, -15, 2,
	-12, -2, -10, 0,
	-1, 6, -1, 10,
	15, -10, 15, -7,
	-2, 4, -7, 10,
	1, 3, -5, 5,
	9, -8, 11, -6,
	-7, 6, -6, 9,
	4, -11, -1, -10,
	-12, 7, -15, 8,
	5, 9, 0, 11,
	-9, -6, -14, 1,
	-2, 12, -5, 14,
	-9, 11, -6, 13,
	10, -5, 12, -3,
	-8, 3, -6, 4,
	2, 0, -3, 1,
	-1, 9, 1, 10,
	6, -1, 3, 1,
	-2, -13, 0, -11,
	14, -6, 15, -4,
	8, -4, 5, -1,
	-7, 6, -10, 8,
	11, -3, 12, -1,
	4, 3, 5, 5,
	8, 7, 4, 8,
	-9, 14, -5, 15,
	13, 2, 10, 4,
	-10, 3, -13, 4,
	-14, 0, -13, 2,
	-1, -2, -6, 1,
	1, 10, -1, 13,
	-11, 5, -10, 7,
	-1, -4, -3, -1,
	1, -10, -2, -9,
	0, 6, -3, 8,
	-7, 2, -10, 3,
	-3, -6, -6, -3,
	15, -12, 13, -10,
	6, -10, 4, -9,
	1, 0, 0, 2,
	0, -14, -1, -12,
	4, -12, 2, -11,
	6, 4, 4, 5,
	-3, -11, -5, -10,}

// descriptorPattern is descriptorPatternFlat grouped into one
// (p0x, p0y, p1x, p1y) entry per descriptor bit.
var descriptorPattern = func() (pat [256][4]int) {
	for i, v := range descriptorPatternFlat {
		pat[i/4][i%4] = v
	}
	return pat
}()

// smoothPart convolves p with gaussianKernel, matching spec.md §4.7's
// "7x7 Gaussian smoothing ... prior to descriptor extraction". Border
// pixels (within 3 of the edge) are left unconvolved since descriptor
// extraction never samples that close to an unextended edge.
func smoothPart(p *part) *part {
	src := p
	out := newPart(p.rows, p.cols)
	copy(out.pix, src.pix)

	const half = 3
	for y := half; y < p.rows-half; y++ {
		for x := half; x < p.cols-half; x++ {
			var sum float64
			for ky := -half; ky <= half; ky++ {
				for kx := -half; kx <= half; kx++ {
					w := gaussianKernel[ky+half][kx+half]
					if w == 0 {
						continue
					}
					sum += w * float64(src.at(y+ky, x+kx))
				}
			}
			out.set(y, x, clampToByte(sum))
		}
	}
	return out
}

// computeDescriptor extracts the 32-byte rotated binary descriptor for a
// keypoint at rounded center (px, py) with orientation angleDeg degrees,
// per spec.md §4.7.
func computeDescriptor(p *part, px, py int, angleDeg float64) Descriptor {
	theta := angleDeg * math.Pi / 180
	a := math.Cos(theta)
	b := math.Sin(theta)

	c := math.Sqrt(3.0)
	d := b * c / 3
	aPrime := a + d
	bPrime := a - d
	cPrime := 2 * d

	var desc Descriptor
	for k, entry := range descriptorPattern {
		p0x, p0y, p1x, p1y := float64(entry[0]), float64(entry[1]), float64(entry[2]), float64(entry[3])

		row0 := roundToInt(p0y*aPrime + p0x*cPrime)
		col0 := roundToInt(p0x*bPrime - p0y*cPrime)
		row1 := roundToInt(p1y*aPrime + p1x*cPrime)
		col1 := roundToInt(p1x*bPrime - p1y*cPrime)

		v0 := samplePart(p, px+col0, py+row0)
		v1 := samplePart(p, px+col1, py+row1)
		if v0 < v1 {
			desc.setBit(k, 1)
		}
	}
	return desc
}

func samplePart(p *part, x, y int) int {
	if !p.inBounds(y, x) {
		return 0
	}
	return int(p.at(y, x))
}

func roundToInt(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return -int(-v + 0.5)
}
