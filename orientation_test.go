package sphorb

import (
	"math"
	"testing"
)

func TestHexDomainBounds(t *testing.T) {
	cases := []struct {
		y, r           int
		wantMin, wantMax int
	}{
		{0, 3, -3, 3},
		{3, 3, -3, 0},
		{-3, 3, 0, 3},
	}
	for _, c := range cases {
		min, max := hexDomainBounds(c.y, c.r)
		if min != c.wantMin || max != c.wantMax {
			t.Errorf("hexDomainBounds(%d, %d) = (%d, %d), want (%d, %d)", c.y, c.r, min, max, c.wantMin, c.wantMax)
		}
	}
}

func TestComputeOrientationUniformIsZero(t *testing.T) {
	p := newPart(41, 41)
	for i := range p.pix {
		p.pix[i] = 128
	}
	angle := computeOrientation(p, 20, 20, 15)
	// A uniform patch has zero net moment; atan2(0,0) = 0 in Go.
	if angle != 0 {
		t.Errorf("computeOrientation on a uniform patch = %v, want 0", angle)
	}
}

func TestComputeOrientationPointsTowardBrightSide(t *testing.T) {
	p := newPart(41, 41)
	for y := 0; y < p.rows; y++ {
		for x := 0; x < p.cols; x++ {
			p.set(y, x, 10)
		}
	}
	// Brighten the +x side of the patch so the centroid shifts toward 0 degrees.
	for y := 0; y < p.rows; y++ {
		for x := 25; x < p.cols; x++ {
			p.set(y, x, 250)
		}
	}
	angle := computeOrientation(p, 20, 20, 15)
	if angle > 45 && angle < 315 {
		t.Errorf("expected orientation near 0 degrees for a right-brightened patch, got %v", angle)
	}
}

func TestComputeOrientationRangeIsNonNegative(t *testing.T) {
	p := newPart(41, 41)
	for y := 0; y < p.rows; y++ {
		for x := 0; x < 20; x++ {
			p.set(y, x, 200)
		}
	}
	angle := computeOrientation(p, 20, 20, 15)
	if angle < 0 || angle >= 360 {
		t.Errorf("computeOrientation returned %v, want within [0, 360)", angle)
	}
	if math.IsNaN(angle) {
		t.Error("computeOrientation returned NaN")
	}
}
