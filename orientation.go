package sphorb

import "math"

// sqrt3Over2 is (sqrt(3)/2), the Euclidean y-scale of one hex step in
// the grid's axial coordinate system (spec.md §3 Invariants).
var sqrt3Over2 = math.Sqrt(3) / 2

// hexDomainBounds returns the [xmin, xmax] column range of the hex disk
// of radius r at row offset y, per spec.md §4.6:
// max(-r, -r-y) <= x <= min(r, r-y).
func hexDomainBounds(y, r int) (xmin, xmax int) {
	xmin = -r
	if -r-y > xmin {
		xmin = -r - y
	}
	xmax = r
	if r-y < xmax {
		xmax = r - y
	}
	return xmin, xmax
}

// computeOrientation returns the intensity-centroid orientation angle in
// degrees, [0,360), for a keypoint at integer-rounded (px, py) within p,
// per spec.md §4.6.
func computeOrientation(p *part, px, py, radius int) float64 {
	var m10, sumYI float64
	for y := -radius; y <= radius; y++ {
		xmin, xmax := hexDomainBounds(y, radius)
		for x := xmin; x <= xmax; x++ {
			row := py + y
			col := px + x
			if !p.inBounds(row, col) {
				continue
			}
			intensity := float64(p.at(row, col))
			euclidX := float64(x) + 0.5*float64(y)
			m10 += euclidX * intensity
			sumYI += float64(y) * intensity
		}
	}
	// euclidY is sqrt3Over2*y, so m01 is sqrt3Over2 times the sum of y*I;
	// summing the integer-valued y*I first keeps a symmetric patch's
	// moment exactly zero.
	m01 := sqrt3Over2 * sumYI

	angle := math.Atan2(m01, m10) * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}
	return angle
}
