// Package hyperspec implements a pure Go hyperspectral-image compression
// engine.
//
// An Image is a stack of spectral bands sharing a line/sample/depth shape.
// Encode trains a Reducer against the cube's spectral axis (identity,
// PCA, or MNF), wavelet-transforms each retained band, scalar-quantizes the
// coefficients, partitions them into code blocks, and entropy-codes each
// block with an MQ-driven bitplane coder. Decode reverses the pipeline and
// boosts the reduced cube back to its original band count.
//
// Encoding:
//
//	data, err := hyperspec.Encode(img, &hyperspec.Options{
//	    Reducer:       hyperspec.NewPCAReducer(20),
//	    Levels:        5,
//	    WaveletFilter: hyperspec.Wavelet53,
//	    Exponent:      8,
//	    Guard:         2,
//	})
//
// Decoding:
//
//	img, err := hyperspec.Decode(data)
package hyperspec
