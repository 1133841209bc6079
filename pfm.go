package sphorb

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// pfmHeader is the parsed 3-line text header of a PFM-style payload:
// "PF", then "width height", then a scale float whose sign selects
// row order (negative = bottom-up on disk, positive = top-down).
type pfmHeader struct {
	width, height int
	scale         float32
}

// readPFMHeader parses the text header and leaves r positioned at the
// start of the packed float32 payload.
func readPFMHeader(r *bufio.Reader) (pfmHeader, error) {
	magic, err := readPFMToken(r)
	if err != nil {
		return pfmHeader{}, fmt.Errorf("reading magic: %w", err)
	}
	if magic != "PF" {
		return pfmHeader{}, fmt.Errorf("bad PFM magic %q, want \"PF\"", magic)
	}

	wTok, err := readPFMToken(r)
	if err != nil {
		return pfmHeader{}, fmt.Errorf("reading width: %w", err)
	}
	hTok, err := readPFMToken(r)
	if err != nil {
		return pfmHeader{}, fmt.Errorf("reading height: %w", err)
	}
	scaleTok, err := readPFMToken(r)
	if err != nil {
		return pfmHeader{}, fmt.Errorf("reading scale: %w", err)
	}

	var h pfmHeader
	if _, err := fmt.Sscanf(wTok, "%d", &h.width); err != nil {
		return pfmHeader{}, fmt.Errorf("parsing width %q: %w", wTok, err)
	}
	if _, err := fmt.Sscanf(hTok, "%d", &h.height); err != nil {
		return pfmHeader{}, fmt.Errorf("parsing height %q: %w", hTok, err)
	}
	var scale float64
	if _, err := fmt.Sscanf(scaleTok, "%g", &scale); err != nil {
		return pfmHeader{}, fmt.Errorf("parsing scale %q: %w", scaleTok, err)
	}
	h.scale = float32(scale)
	return h, nil
}

// readPFMToken reads one whitespace-delimited token, skipping any
// '#'-prefixed comment lines, matching the original reader's behavior.
func readPFMToken(r *bufio.Reader) (string, error) {
	for {
		tok, err := readWhitespaceDelimited(r)
		if err != nil {
			return "", err
		}
		if len(tok) > 0 && tok[0] == '#' {
			// consume rest of the comment line
			if _, err := r.ReadString('\n'); err != nil && err != io.EOF {
				return "", err
			}
			continue
		}
		return tok, nil
	}
}

func readWhitespaceDelimited(r *bufio.Reader) (string, error) {
	// skip leading whitespace
	var b byte
	var err error
	for {
		b, err = r.ReadByte()
		if err != nil {
			return "", err
		}
		if b != ' ' && b != '\t' && b != '\r' && b != '\n' {
			break
		}
	}
	buf := []byte{b}
	for {
		b, err = r.ReadByte()
		if err != nil {
			if err == io.EOF {
				break
			}
			return "", err
		}
		if b == ' ' || b == '\t' || b == '\r' || b == '\n' {
			break
		}
		buf = append(buf, b)
	}
	return string(buf), nil
}

// readPFMFloats reads the packed little-endian float32 payload following
// a PFM header and reorders rows of chanPerPixel-wide pixels so that the
// result is always in top-down row order, regardless of the on-disk
// scale sign (per spec.md §6: "positive scale = top-down order, negative
// scale = bottom-up (reverse each row-scan on load)").
func readPFMFloats(r io.Reader, h pfmHeader, chanPerPixel int) ([]float32, error) {
	n := h.width * h.height * chanPerPixel
	raw := make([]float32, n)
	if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
		return nil, fmt.Errorf("reading %d float32 payload values: %w", n, err)
	}
	if h.scale >= 0 {
		return raw, nil
	}

	// Bottom-up on disk: reverse the row order.
	rowLen := h.width * chanPerPixel
	out := make([]float32, n)
	for row := 0; row < h.height; row++ {
		srcOff := (h.height - 1 - row) * rowLen
		dstOff := row * rowLen
		copy(out[dstOff:dstOff+rowLen], raw[srcOff:srcOff+rowLen])
	}
	return out, nil
}

// readPFMFile opens path and reads its full PFM payload as
// chanPerPixel-wide float32 tuples in top-down row order.
func readPFMFile(path string, chanPerPixel int) (pfmHeader, []float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return pfmHeader{}, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	h, err := readPFMHeader(br)
	if err != nil {
		return pfmHeader{}, nil, fmt.Errorf("reading PFM header of %s: %w", path, err)
	}
	vals, err := readPFMFloats(br, h, chanPerPixel)
	if err != nil {
		return pfmHeader{}, nil, fmt.Errorf("reading PFM payload of %s: %w", path, err)
	}
	return h, vals, nil
}

// writePFMFile writes vals (chanPerPixel-wide tuples, top-down row
// order) as a positive-scale (top-down) PFM payload. Used by tests to
// synthesize fixture tables; production code only reads these files.
func writePFMFile(path string, width, height, chanPerPixel int, vals []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if _, err := fmt.Fprintf(bw, "PF\n%d %d\n%g\n", width, height, 1.0); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, vals); err != nil {
		return fmt.Errorf("writing payload: %w", err)
	}
	return bw.Flush()
}

// padToMultipleOf3 returns the smallest multiple of 3 that is >= n,
// matching the on-disk imginfo contract (spec.md §6): each logical pixel
// has 4 floats, but the file encodes 3 floats per "pixel" slot, so the
// true element count is rounded up to the next multiple of 3.
func padToMultipleOf3(n int) int {
	return int(math.Ceil(float64(n)/3.0)) * 3
}
