package hyperspec

import "testing"

func TestNewQuantizer_InvalidParams(t *testing.T) {
	tests := []struct {
		name                      string
		exponent, mantissa, guard int
		lo, hi, r                 float64
	}{
		{"negative exponent", -1, 0, 1, -1, 1, 0.5},
		{"exponent too large", maxExponent, 0, 1, -1, 1, 0.5},
		{"mantissa too large", 4, maxMantissa, 1, -1, 1, 0.5},
		{"guard too large", 4, 0, maxGuard + 1, -1, 1, 0.5},
		{"hi <= lo", 4, 0, 1, 1, 1, 0.5},
		{"r out of range", 4, 0, 1, -1, 1, 1.5},
		{"all-zero degenerate", 0, 0, 0, -1, 1, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewQuantizer(tt.exponent, tt.mantissa, tt.guard, tt.lo, tt.hi, tt.r); err != ErrInvalidQuantizer {
				t.Errorf("err = %v, want ErrInvalidQuantizer", err)
			}
		})
	}
}

func TestQuantizer_RoundTripApproximate(t *testing.T) {
	q, err := NewQuantizer(6, 500, 2, -128, 128, 0.5)
	if err != nil {
		t.Fatalf("NewQuantizer() error: %v", err)
	}

	samples := []float64{-100, -1, 0, 0.5, 1, 50, 127.9, -127.9}
	for _, x := range samples {
		packed := q.Quantize(x)
		got := q.Dequantize(packed)
		if diff := got - x; diff > 4 || diff < -4 {
			t.Errorf("Quantize/Dequantize(%v) = %v, diff too large", x, got)
		}
	}
}

func TestQuantizer_SignMagnitudePacking(t *testing.T) {
	q, err := NewQuantizer(4, 0, 2, -16, 16, 0.5)
	if err != nil {
		t.Fatalf("NewQuantizer() error: %v", err)
	}

	pos := q.Quantize(5)
	neg := q.Quantize(-5)
	if pos&q.signMask != 0 {
		t.Errorf("positive sample set the sign bit: 0x%x", pos)
	}
	if neg&q.signMask == 0 {
		t.Errorf("negative sample did not set the sign bit: 0x%x", neg)
	}
	if pos&^q.signMask != neg&^q.signMask {
		t.Errorf("magnitudes of symmetric samples differ: %d vs %d", pos&^q.signMask, neg&^q.signMask)
	}
}

func TestQuantizer_ZeroDequantizesToZero(t *testing.T) {
	q, err := NewQuantizer(4, 0, 2, -16, 16, 0.5)
	if err != nil {
		t.Fatalf("NewQuantizer() error: %v", err)
	}
	if got := q.Dequantize(0); got != 0 {
		t.Errorf("Dequantize(0) = %v, want 0", got)
	}
}

func TestQuantizer_NecessaryBitPlanes(t *testing.T) {
	q, err := NewQuantizer(6, 0, 3, -16, 16, 0.5)
	if err != nil {
		t.Fatalf("NewQuantizer() error: %v", err)
	}
	if got, want := q.NecessaryBitPlanes(), 8; got != want {
		t.Errorf("NecessaryBitPlanes() = %d, want %d", got, want)
	}
}
