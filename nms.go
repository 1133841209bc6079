package sphorb

// Raster-order non-maximum suppression over hex-neighbor corners, per
// spec.md §4.4. Corners arrive in raster order (ascending y, then x).
// The hex neighborhood of grid-(x,y) is
// {(x±1,y), (x,y±1), (x−1,y+1), (x+1,y−1)}, which makes the row-above
// test land on columns {x, x+1} and the row-below test land on columns
// {x−1, x} — see DESIGN.md for how this reconciles the two statements
// spec.md §4.4 makes about the asymmetry.
//
// The original "goto_enabled" short-circuit (spec.md §9) is re-expressed
// below as a boolean checked once per corner, with no unstructured
// control flow.
func nonMaxSuppress(corners []cornerCandidate, partID int) []KeyPoint {
	if len(corners) == 0 {
		return nil
	}

	lastRow := corners[len(corners)-1].y
	rowStart := make([]int, lastRow+1)
	for i := range rowStart {
		rowStart[i] = -1
	}
	prevRow := -1
	for i, c := range corners {
		if c.y != prevRow {
			rowStart[c.y] = i
			prevRow = c.y
		}
	}

	var kps []KeyPoint
	pointAbove, pointBelow := 0, 0
	n := len(corners)

	for i := 0; i < n; i++ {
		score := corners[i].score
		pos := corners[i]
		suppressed := false

		// Left neighbor.
		if i > 0 && corners[i-1].x == pos.x-1 && corners[i-1].y == pos.y && corners[i-1].score >= score {
			suppressed = true
		}

		// Right neighbor.
		if !suppressed && i < n-1 && corners[i+1].x == pos.x+1 && corners[i+1].y == pos.y && corners[i+1].score >= score {
			suppressed = true
		}

		// Above (row y-1): columns {x, x+1}.
		if !suppressed && pos.y != 0 && rowStart[pos.y-1] != -1 {
			if corners[pointAbove].y < pos.y-1 {
				pointAbove = rowStart[pos.y-1]
			}
			for pointAbove < n && corners[pointAbove].y < pos.y && corners[pointAbove].x < pos.x {
				pointAbove++
			}
			for j := pointAbove; j < n && corners[j].y < pos.y && corners[j].x <= pos.x+1; j++ {
				x := corners[j].x
				if (x == pos.x || x == pos.x+1) && corners[j].score >= score {
					suppressed = true
					break
				}
			}
		}

		// Below (row y+1): columns {x-1, x}.
		if !suppressed && pos.y != lastRow && rowStart[pos.y+1] != -1 && pointBelow < n {
			if corners[pointBelow].y < pos.y+1 {
				pointBelow = rowStart[pos.y+1]
			}
			for pointBelow < n && corners[pointBelow].y == pos.y+1 && corners[pointBelow].x < pos.x-1 {
				pointBelow++
			}
			for j := pointBelow; j < n && corners[j].y == pos.y+1 && corners[j].x <= pos.x; j++ {
				x := corners[j].x
				if (x == pos.x-1 || x == pos.x) && corners[j].score >= score {
					suppressed = true
					break
				}
			}
		}

		if !suppressed {
			kps = append(kps, KeyPoint{
				X:        float64(pos.x),
				Y:        float64(pos.y),
				Response: float64(score),
				PartID:   partID,
			})
		}
	}

	return kps
}
