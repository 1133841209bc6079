package sphorb

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the way a Detector operation failed, per the
// core's error-signalling contract: ok / kind + message.
type ErrorKind int

const (
	// InitializationFailed means a required precomputed table could not be
	// read or had unexpected dimensions. The Detector is unusable.
	InitializationFailed ErrorKind = iota
	// BadInput means the supplied image or mask was empty, had an
	// unsupported pixel type, or a mismatched shape.
	BadInput
	// InternalInvariant means an invariant the core assumes never to be
	// violated was violated anyway (e.g. a corner index outside the
	// extended part). Should be unreachable.
	InternalInvariant
)

func (k ErrorKind) String() string {
	switch k {
	case InitializationFailed:
		return "InitializationFailed"
	case BadInput:
		return "BadInput"
	case InternalInvariant:
		return "InternalInvariant"
	default:
		return "UnknownErrorKind"
	}
}

// DetectorError is the error type every exported Detector operation
// returns on failure. The pipeline never recovers mid-call: on error it
// frees its per-call allocations and surfaces exactly one DetectorError.
type DetectorError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *DetectorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sphorb: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("sphorb: %s: %s", e.Kind, e.Msg)
}

func (e *DetectorError) Unwrap() error { return e.Err }

func newError(kind ErrorKind, msg string, cause error) *DetectorError {
	return &DetectorError{Kind: kind, Msg: msg, Err: cause}
}

// KindOf reports the ErrorKind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var de *DetectorError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

var (
	// ErrEmptyImage is returned by DetectAndCompute when the input image
	// has zero width or height.
	ErrEmptyImage = errors.New("sphorb: input image is empty")
	// ErrMaskShapeMismatch is returned when a caller-supplied mask does
	// not match the input image's dimensions.
	ErrMaskShapeMismatch = errors.New("sphorb: mask shape does not match image shape")
	// ErrUnsupportedPixelType names an image pixel format that is neither
	// 8-bit grayscale nor a standard 3-channel color model. No operation
	// in this package returns it: DetectAndCompute converts every
	// image.Image to grayscale through its RGBA values.
	ErrUnsupportedPixelType = errors.New("sphorb: unsupported pixel type")
)
