package hyperspec

import "errors"

// Configuration errors: invalid parameters at construction time.
var (
	ErrInvalidQuantizer = errors.New("hyperspec: invalid quantizer parameters")
	ErrInvalidBlockDim  = errors.New("hyperspec: block dimension must be a power of two")
	ErrInvalidDepth     = errors.New("hyperspec: bit depth out of range")
	ErrInvalidReducer   = errors.New("hyperspec: invalid reducer configuration")
)

// Contract violations: programming errors in the caller.
var (
	ErrBitPlaneRange  = errors.New("hyperspec: requested bit plane does not exist")
	ErrOutOfBounds    = errors.New("hyperspec: block offset out of band bounds")
	ErrSizeMismatch   = errors.New("hyperspec: mismatched band or matrix dimensions")
)

// Stream framing errors: surfaced by the decoder on malformed input.
var (
	ErrTruncatedData   = errors.New("hyperspec: truncated data")
	ErrInvalidTag      = errors.New("hyperspec: invalid algorithm tag")
	ErrDecodeFailed    = errors.New("hyperspec: decode failed")
	ErrUnsupportedWavelet = errors.New("hyperspec: unsupported wavelet filter")
)
