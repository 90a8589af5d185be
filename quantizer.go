package hyperspec

import "math"

const (
	maxExponent = 32
	maxMantissa = 2048
	maxGuard    = 7
)

// Quantizer converts floating-point wavelet coefficients to sign-magnitude
// integers and back, normalizing against a declared sample range.
type Quantizer struct {
	signMask int32
	exponent int
	guard    int

	lowerGuard, upperGuard float64
	delta                  float64

	sampleLowerLimit    float64
	sampleIntervalLength float64

	reconstructionOffset float64
	maxMagnitude         int32
}

// NewQuantizer builds a quantizer from exponent/mantissa/guard parameters
// and the declared sample range [lo, hi]. r is the dequantization
// reconstruction offset, typically 0.375 or 0.5.
func NewQuantizer(exponent, mantissa, guard int, lo, hi, r float64) (*Quantizer, error) {
	if exponent < 0 || exponent >= maxExponent {
		return nil, ErrInvalidQuantizer
	}
	if mantissa < 0 || mantissa >= maxMantissa {
		return nil, ErrInvalidQuantizer
	}
	if guard < 0 || guard > maxGuard {
		return nil, ErrInvalidQuantizer
	}
	if hi <= lo {
		return nil, ErrInvalidQuantizer
	}
	if r < -1 || r > 1 {
		return nil, ErrInvalidQuantizer
	}
	if exponent == 0 && mantissa == 0 && guard == 0 {
		// Degenerate: Delta=1 and P collapses to a non-positive bit count,
		// leaving no usable magnitude range. Forbidden combination (see
		// DESIGN.md open-question decisions).
		return nil, ErrInvalidQuantizer
	}

	q := &Quantizer{
		exponent:             exponent,
		guard:                guard,
		reconstructionOffset: r,
		sampleLowerLimit:     lo,
		sampleIntervalLength: hi - lo,
	}

	q.delta = math.Pow(2, -float64(exponent)) * (1 + float64(mantissa)/float64(maxMantissa))

	p := exponent + guard - 1
	if p < 0 {
		p = 0
	}
	q.signMask = int32(1) << uint(p)
	q.maxMagnitude = q.signMask - 1

	if guard == 0 {
		q.lowerGuard, q.upperGuard = -0.5, 0.5
	} else {
		bound := math.Pow(2, float64(guard-1))
		q.lowerGuard, q.upperGuard = -bound, bound
	}

	return q, nil
}

// NecessaryBitPlanes returns P, the number of magnitude bitplanes a code
// block built from this quantizer's output must declare.
func (q *Quantizer) NecessaryBitPlanes() int {
	p := q.exponent + q.guard - 1
	if p < 0 {
		return 0
	}
	return p
}

// Quantize maps a sample x in [lo, hi] to a sign-magnitude packed integer.
func (q *Quantizer) Quantize(x float64) int32 {
	y := (x-q.sampleLowerLimit)/q.sampleIntervalLength - 0.5
	if y < q.lowerGuard {
		y = q.lowerGuard
	} else if y > q.upperGuard {
		y = q.upperGuard
	}
	return q.quantize(y)
}

func (q *Quantizer) quantize(y float64) int32 {
	mag := int32(math.Floor(math.Abs(y) / q.delta))
	if mag > q.maxMagnitude {
		mag = q.maxMagnitude
	}
	if y < 0 {
		return mag | q.signMask
	}
	return mag
}

// Dequantize reconstructs an approximate sample from a packed
// sign-magnitude integer.
func (q *Quantizer) Dequantize(v int32) float64 {
	y := q.dequantize(v)
	return (y+0.5)*q.sampleIntervalLength + q.sampleLowerLimit
}

func (q *Quantizer) dequantize(v int32) float64 {
	if v == 0 {
		return 0
	}
	sign := v & q.signMask
	mag := v &^ q.signMask
	y := (float64(mag) + q.reconstructionOffset) * q.delta
	if sign != 0 {
		return -y
	}
	return y
}
