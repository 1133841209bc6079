package sphorb

// cells holds the characteristic cell count C[l] for each of the seven
// precomputed pyramid levels, in level order.
var cells = [...]int{256, 204, 162, 128, 102, 80, 64}

// MaxLevels is the number of precomputed levels shipped with this module.
// Config.NLevels is clamped to this value.
const MaxLevels = len(cells)

const (
	// kBytes is the descriptor length in bytes.
	kBytes = 32

	// edgeFAST is the margin the hex-AST ring needs beyond a pixel it
	// tests (E_FAST in spec.md).
	edgeFAST = 3
	// edgeDesc is the margin the orientation/descriptor patches need
	// beyond a keypoint (E_DESC in spec.md).
	edgeDesc = 15
	// edgeTotal is the total boundary extension applied to every part.
	edgeTotal = edgeFAST + edgeDesc

	// numParts is the number of storage-grid diamonds covering the sphere.
	numParts = 5
)

// partDims returns the pre-extension (height, width) of a storage part at
// the given cell count, per spec.md §3: (C+1, 2C+1).
func partDims(c int) (height, width int) {
	return c + 1, 2*c + 1
}

// extendedDims returns the post-extension (height, width) of a storage
// part, per spec.md §4.2.
func extendedDims(c int) (height, width int) {
	h, w := partDims(c)
	return h + 2*edgeTotal - 1, w + 2*edgeTotal - 1
}

// resizedHeight returns the height of the equirectangular image resized
// for level cell count c (width 5*C, height 5*C/2, per spec.md §4.1 step
// 1). The Coordinate Mapper's angle-to-pixel scale (mapping.go) is
// defined against this per-level resized frame, not the caller's
// original input resolution (original_source/SPHORB.cpp:451's
// `img.rows`, where img is the level's resized buffer).
func resizedHeight(c int) int {
	return c * 5 / 2
}
