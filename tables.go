package sphorb

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r3"
)

// geoInfo is the (C+1) x (2C+1) table of 3-D unit-sphere coordinates for
// every grid vertex of a level, stored row-major by (row, column), per
// spec.md §3 Entities: GeoInfo(l).
type geoInfo struct {
	rows, cols int
	vecs       []r3.Vec
}

func (g *geoInfo) at(row, col int) r3.Vec {
	return g.vecs[row*g.cols+col]
}

// imgTableEntry is one (lx, ly, wh, wv) bilinear-resample entry, per
// spec.md §3 Entities: ImgTable(l, p).
type imgTableEntry struct {
	lx, ly, wh, wv float64
}

// imgTable is the (C+1) x (2C+1) resampling table for one storage part.
type imgTable struct {
	rows, cols int
	entries    []imgTableEntry
}

func (t *imgTable) at(row, col int) imgTableEntry {
	return t.entries[row*t.cols+col]
}

// levelMask is the 8-bit diamond-validity mask for a level, per spec.md
// §3 Entities: Mask(l).
type levelMask struct {
	rows, cols int
	data       []byte
}

func (m *levelMask) at(row, col int) byte {
	return m.data[row*m.cols+col]
}

func (m *levelMask) inBounds(row, col int) bool {
	return row >= 0 && row < m.rows && col >= 0 && col < m.cols
}

// valid reports whether (row, col) is inside the diamond's valid region.
// Out-of-bounds coordinates are never valid.
func (m *levelMask) valid(row, col int) bool {
	return m.inBounds(row, col) && m.at(row, col) != 0
}

// levelTables bundles the three read-only, precomputed resources shared
// by every call at one pyramid level, per spec.md §2 and §3 Lifecycles:
// initialized once at Detector construction, never mutated afterward.
type levelTables struct {
	cellCount int
	geo       *geoInfo
	parts     [numParts]*imgTable
	mask      *levelMask
}

// loadLevelTables reads geoinfo<C>, imginfo<C>_<p> (p=0..4), and mask<C>
// from dataDir for the given cell count, per spec.md §6's precomputed
// data file contract.
func loadLevelTables(dataDir string, c int) (*levelTables, error) {
	rows, cols := partDims(c)
	n := rows * cols

	geoPath := filepath.Join(dataDir, fmt.Sprintf("geoinfo%d", c))
	_, geoVals, err := readPFMFile(geoPath, 3)
	if err != nil {
		return nil, newError(InitializationFailed, "loading geoinfo table", err)
	}
	if len(geoVals) != n*3 {
		return nil, newError(InitializationFailed,
			fmt.Sprintf("geoinfo%d: expected %d floats, got %d", c, n*3, len(geoVals)), nil)
	}
	geo := &geoInfo{rows: rows, cols: cols, vecs: make([]r3.Vec, n)}
	for i := range geo.vecs {
		geo.vecs[i] = r3.Vec{X: float64(geoVals[i*3]), Y: float64(geoVals[i*3+1]), Z: float64(geoVals[i*3+2])}
	}

	var parts [numParts]*imgTable
	for p := 0; p < numParts; p++ {
		imgPath := filepath.Join(dataDir, fmt.Sprintf("imginfo%d_%d", c, p))
		// The on-disk contract groups floats in threes regardless of the
		// logical 4-wide pixel layout (spec.md §6). The PFM header for
		// these files declares a single row of padded/3 three-float
		// groups, so the scale sign has no row-reversal effect here -
		// the whole payload is one flat sequence.
		_, vals, rerr := readPFMFile(imgPath, 3)
		if rerr != nil {
			return nil, newError(InitializationFailed, "loading imginfo table", rerr)
		}
		if len(vals) < n*4 {
			return nil, newError(InitializationFailed,
				fmt.Sprintf("imginfo%d_%d: expected at least %d floats, got %d", c, p, n*4, len(vals)), nil)
		}
		t := &imgTable{rows: rows, cols: cols, entries: make([]imgTableEntry, n)}
		for i := 0; i < n; i++ {
			t.entries[i] = imgTableEntry{
				lx: float64(vals[i*4]),
				ly: float64(vals[i*4+1]),
				wh: float64(vals[i*4+2]),
				wv: float64(vals[i*4+3]),
			}
		}
		parts[p] = t
	}

	maskPath := filepath.Join(dataDir, fmt.Sprintf("mask%d", c))
	maskData, err := os.ReadFile(maskPath)
	if err != nil {
		return nil, newError(InitializationFailed, "loading mask image", err)
	}
	if len(maskData) != n {
		return nil, newError(InitializationFailed,
			fmt.Sprintf("mask%d: expected %d bytes, got %d", c, n, len(maskData)), nil)
	}
	mask := &levelMask{rows: rows, cols: cols, data: maskData}

	return &levelTables{cellCount: c, geo: geo, parts: parts, mask: mask}, nil
}
