package sphorb

import "testing"

func uniformPart(rows, cols int, v uint8) *part {
	p := newPart(rows, cols)
	for i := range p.pix {
		p.pix[i] = v
	}
	return p
}

func allValidMask(rows, cols int) *levelMask {
	m := &levelMask{rows: rows, cols: cols, data: make([]byte, rows*cols)}
	for i := range m.data {
		m.data[i] = 1
	}
	return m
}

func TestHexASTDetectUniformImageHasNoCorners(t *testing.T) {
	p := uniformPart(41, 41, 128)
	mask := allValidMask(41, 41)
	corners := hexASTDetect(p, mask, 20, 9)
	if len(corners) != 0 {
		t.Errorf("uniform image should have zero corners, got %d", len(corners))
	}
}

func TestHexASTDetectBrightDiskIsACorner(t *testing.T) {
	p := uniformPart(41, 41, 50)
	mask := allValidMask(41, 41)

	// The disk (radius 2) is smaller than the radius-3 hex ring, so every
	// ring pixel of the center is dark: an 18-long dark arc.
	cx, cy := 20, 20
	for dy := -4; dy <= 4; dy++ {
		for dx := -4; dx <= 4; dx++ {
			if dx*dx+dy*dy <= 4 {
				p.set(cy+dy, cx+dx, 220)
			}
		}
	}

	corners := hexASTDetect(p, mask, 20, 9)
	found := false
	for _, c := range corners {
		if c.x == cx && c.y == cy {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a corner at the disk center (%d,%d), got %v", cx, cy, corners)
	}
}

func TestHexASTDetectRespectsMask(t *testing.T) {
	p := uniformPart(41, 41, 50)
	mask := allValidMask(41, 41)

	cx, cy := 20, 20
	for dy := -4; dy <= 4; dy++ {
		for dx := -4; dx <= 4; dx++ {
			if dx*dx+dy*dy <= 4 {
				p.set(cy+dy, cx+dx, 220)
			}
		}
	}
	// mask is consulted in the pre-extension coordinate frame, so the
	// masked-out cell must be the unextended image of (cx, cy), matching
	// hexASTDetect's own (x - edgeTotal + 1, y - edgeTotal) translation.
	maskY, maskX := cy-edgeTotal, cx-edgeTotal+1
	mask.data[maskY*mask.cols+maskX] = 0

	corners := hexASTDetect(p, mask, 20, 9)
	for _, c := range corners {
		if c.x == cx && c.y == cy {
			t.Errorf("masked pixel (%d,%d) should never be reported as a corner", cx, cy)
		}
	}
}

func TestHexASTDetectMaskUsesPreExtensionFrame(t *testing.T) {
	const c = 8
	rows, cols := partDims(c)

	var orig [numParts]*part
	for i := range orig {
		orig[i] = uniformPart(rows, cols, 50)
	}
	cx, cy := cols/2, rows/2
	for dy := -4; dy <= 4; dy++ {
		for dx := -4; dx <= 4; dx++ {
			if dx*dx+dy*dy <= 4 {
				orig[0].set(cy+dy, cx+dx, 220)
			}
		}
	}
	extended := extendParts(orig, edgeTotal)

	mask := allValidMask(rows, cols)
	mask.data[cy*mask.cols+cx] = 0

	// The disk center lives at (cx, cy) in the pre-extension frame but at
	// (cx+edgeTotal-1, cy+edgeTotal) in the extended part extendParts
	// produces; hexASTDetect must translate back before consulting mask,
	// so masking out the pre-extension cell still suppresses it.
	corners := hexASTDetect(extended[0], mask, 20, 9)
	ex, ey := cx+edgeTotal-1, cy+edgeTotal
	for _, cand := range corners {
		if cand.x == ex && cand.y == ey {
			t.Errorf("masked disk center (pre-extension (%d,%d), extended (%d,%d)) should not be reported as a corner", cx, cy, ex, ey)
		}
	}
}

func TestHexCornerScoreMonotonicWithBarrier(t *testing.T) {
	p := uniformPart(41, 41, 50)
	cx, cy := 20, 20
	for dy := -4; dy <= 4; dy++ {
		for dx := -4; dx <= 4; dx++ {
			if dx*dx+dy*dy <= 4 {
				p.set(cy+dy, cx+dx, 220)
			}
		}
	}
	offs := ringIndexOffsets(p.stride)
	idx := cy*p.stride + cx
	score := hexCornerScore(p.pix, idx, offs, 9)
	if score <= 0 {
		t.Errorf("expected a positive score for a strong corner, got %d", score)
	}
	if !isHexCorner(p.pix, idx, offs, score, 9) {
		t.Errorf("the corner should still pass the AST test at its own reported score %d", score)
	}
	if isHexCorner(p.pix, idx, offs, score+1, 9) {
		t.Errorf("the corner should NOT pass the AST test one barrier step above its reported score")
	}
}
