package sphorb

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// mapKeypoint converts a keypoint's in-part pixel coordinate back to
// equirectangular coordinates in the level-0-resolution frame shared by
// every pyramid level, per spec.md §4.8. x, y are the keypoint's
// extended-part pixel coordinates (post-NMS, pre-unextension); partID is
// the storage part it was found in; c is the level's cell count.
//
// The angle-to-pixel scale k is taken from level l's own resized-image
// height (resizedHeight(c)), not the caller's original input resolution
// (original_source/SPHORB.cpp:451,476's `img.rows`, img being the
// level's resized buffer) - that level dependence is exactly what the
// subsequent ×scale (C[0]/c) cancels, landing every level's keypoints in
// one common frame instead of scaling each level to a different pixel
// grid.
func mapKeypoint(kp KeyPoint, geo *geoInfo, c int) KeyPoint {
	xp := kp.X - float64(edgeTotal) + 1
	yp := kp.Y - float64(edgeTotal)

	row := int(math.Round(yp))
	col := int(math.Round(xp))
	v := geo.at(row, col)

	phiP := 2 * math.Pi * float64(kp.PartID) / 5
	cosP, sinP := math.Cos(phiP), math.Sin(phiP)

	rotated := r3.Vec{
		X: cosP*v.X - sinP*v.Y,
		Y: cosP*v.Y + sinP*v.X,
		Z: v.Z,
	}

	theta := math.Acos(clampUnit(rotated.Z))
	phi := math.Atan2(rotated.Y, rotated.X) + math.Pi

	k := math.Pi / float64(resizedHeight(c))
	panoX := phi / k
	panoY := theta / k

	scale := float64(cells[0]) / float64(c)

	return KeyPoint{
		X:        panoX * scale,
		Y:        panoY * scale,
		Angle:    kp.Angle,
		Size:     31 * scale,
		Response: kp.Response,
		PartID:   -1,
		Octave:   kp.Octave,
	}
}

// clampUnit clamps v to [-1, 1], guarding math.Acos against floating-point
// drift pushing a unit-sphere Z component fractionally outside its domain.
func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// unmapKeypoint is the approximate inverse of mapKeypoint, used to support
// detect_and_compute's useProvidedKeypoints mode (spec.md §6): given a
// keypoint already expressed in equirectangular coordinates at scale 0
// with a valid Octave, recover which storage part and in-part pixel
// coordinate it came from. There is no closed-form inverse of the
// forward mapping — GeoInfo quantizes the sphere onto a discrete grid —
// so this recovers the 3-D ray the keypoint's coordinates imply, then
// picks whichever of the five part rotations brings that ray closest to
// a vertex of GeoInfo(level); the winning part also yields the winning
// vertex's (row, col).
func unmapKeypoint(kp KeyPoint, lt *levelTables) (partID, px, py int) {
	scale := float64(cells[0]) / float64(lt.cellCount)
	k := math.Pi / float64(resizedHeight(lt.cellCount))
	phi := (kp.X / scale) * k
	theta := (kp.Y / scale) * k

	sinT := math.Sin(theta)
	xp := sinT * math.Cos(phi-math.Pi)
	yp := sinT * math.Sin(phi-math.Pi)
	zp := math.Cos(theta)

	bestPart, bestRow, bestCol := 0, 0, 0
	bestDist := math.Inf(1)
	for p := 0; p < numParts; p++ {
		phiP := 2 * math.Pi * float64(p) / 5
		cosP, sinP := math.Cos(phiP), math.Sin(phiP)
		// Inverse of the forward rotation in mapKeypoint.
		x3 := cosP*xp + sinP*yp
		y3 := -sinP*xp + cosP*yp
		z3 := zp

		for row := 0; row < lt.geo.rows; row++ {
			for col := 0; col < lt.geo.cols; col++ {
				v := lt.geo.at(row, col)
				dx, dy, dz := v.X-x3, v.Y-y3, v.Z-z3
				d := dx*dx + dy*dy + dz*dz
				if d < bestDist {
					bestDist = d
					bestPart, bestRow, bestCol = p, row, col
				}
			}
		}
	}

	return bestPart, bestCol + edgeTotal - 1, bestRow + edgeTotal
}
