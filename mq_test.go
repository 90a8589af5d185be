package hyperspec

import "testing"

func TestBitplaneDecoder_InitialContextStates(t *testing.T) {
	mq := newBitplaneDecoder([]byte{0x00, 0x00, 0x00, 0x00})
	if mq.a != 0x8000 {
		t.Errorf("a = 0x%04x after init, want 0x8000", mq.a)
	}
	for i, ctx := range mq.contexts {
		want := 0
		switch i {
		case 0:
			want = 4
		case ctxCleanupAgg:
			want = 3
		case ctxUniform:
			want = 46
		}
		if ctx.state != want {
			t.Errorf("contexts[%d].state = %d, want %d", i, ctx.state, want)
		}
		if ctx.mps != 0 {
			t.Errorf("contexts[%d].mps = %d, want 0", i, ctx.mps)
		}
	}
}

func TestBitplaneCoder_RoundTrip(t *testing.T) {
	// A bit sequence spanning every kind of context a code block's three
	// passes touch, in the order they'd actually be produced: significance,
	// sign, magnitude-refinement, and the cleanup pass's run-length escape.
	bits := []struct {
		ctx int
		bit int
	}{
		{0, 1}, {9, 0}, {0, 0}, {9, 1},
		{16, 1}, {16, 0}, {16, 1},
		{ctxCleanupAgg, 1}, {ctxUniform, 0}, {ctxUniform, 1},
		{3, 0}, {3, 0}, {3, 1}, {9, 1},
	}

	enc := newBitplaneEncoder()
	for _, b := range bits {
		enc.Encode(b.ctx, b.bit)
	}
	data := enc.Flush()

	dec := newBitplaneDecoder(data)
	for i, b := range bits {
		got := dec.Decode(b.ctx)
		if got != b.bit {
			t.Errorf("bit %d (ctx %d) = %d, want %d", i, b.ctx, got, b.bit)
		}
	}
}

func TestBitplaneCoder_RoundTripLongRun(t *testing.T) {
	const n = 2000
	bits := make([]int, n)
	ctxs := make([]int, n)
	state := uint32(12345)
	for i := range bits {
		// deterministic pseudo-random bit/context pattern, no math/rand
		state = state*1664525 + 1013904223
		ctxs[i] = int(state>>24) % numContexts
		bits[i] = int(state>>16) & 1
	}

	enc := newBitplaneEncoder()
	for i := range bits {
		enc.Encode(ctxs[i], bits[i])
	}
	data := enc.Flush()

	dec := newBitplaneDecoder(data)
	for i := range bits {
		if got := dec.Decode(ctxs[i]); got != bits[i] {
			t.Fatalf("bit %d (ctx %d) = %d, want %d", i, ctxs[i], got, bits[i])
		}
	}
}

func TestBitplaneDecoder_ByteStuffingCases(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"0xFF then 0x00 (stuffed zero bit)", []byte{0xFF, 0x00, 0x00, 0x00}},
		{"0xFF then 0x7F (still stuffed)", []byte{0xFF, 0x7F, 0x00, 0x00}},
		{"0xFF then 0x90 (marker, stop advancing)", []byte{0xFF, 0x90, 0x00, 0x00}},
		{"0xFF then 0xFF (marker)", []byte{0xFF, 0xFF, 0x00, 0x00}},
		{"no stuffing needed", []byte{0x12, 0x34, 0x56, 0x78}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mq := newBitplaneDecoder(tt.data)
			for i := 0; i < 16; i++ {
				if bit := mq.Decode(0); bit != 0 && bit != 1 {
					t.Fatalf("bit %d = %d, want 0 or 1", i, bit)
				}
			}
		})
	}
}

func TestBitplaneDecoder_RunsPastEndOfData(t *testing.T) {
	mq := newBitplaneDecoder([]byte{0x12, 0x34})
	for i := 0; i < 200; i++ {
		if bit := mq.Decode(i % numContexts); bit != 0 && bit != 1 {
			t.Fatalf("bit %d = %d, want 0 or 1", i, bit)
		}
	}
}

func TestBitplaneDecoder_Reset(t *testing.T) {
	mq := newBitplaneDecoder([]byte{0x12, 0x34, 0x56, 0x78})
	mq.Decode(0)
	mq.Decode(1)
	mq.Decode(2)

	mq.Reset([]byte{0xAA, 0xBB, 0xCC, 0xDD})

	if mq.a != 0x8000 {
		t.Errorf("a = 0x%04x after Reset, want 0x8000", mq.a)
	}
	if mq.contexts[0].state != 4 || mq.contexts[ctxCleanupAgg].state != 3 || mq.contexts[ctxUniform].state != 46 {
		t.Errorf("contexts not reinitialized: %+v", mq.contexts)
	}
}

func TestBitplaneDecoder_InvalidContextIsNoop(t *testing.T) {
	mq := newBitplaneDecoder([]byte{0x12, 0x34, 0x56, 0x78})
	for _, ctx := range []int{-1, numContexts, 100} {
		if bit := mq.Decode(ctx); bit != 0 {
			t.Errorf("Decode(%d) = %d, want 0 for an out-of-range context", ctx, bit)
		}
	}
}

func TestProbabilityTable_TransitionsInBounds(t *testing.T) {
	if len(mqStates) != 47 {
		t.Fatalf("len(mqStates) = %d, want 47", len(mqStates))
	}
	for i, entry := range mqStates {
		if entry.nmps < 0 || entry.nmps >= len(mqStates) {
			t.Errorf("state %d: nmps=%d out of range", i, entry.nmps)
		}
		if entry.nlps < 0 || entry.nlps >= len(mqStates) {
			t.Errorf("state %d: nlps=%d out of range", i, entry.nlps)
		}
	}
}

func BenchmarkBitplaneDecoder_Decode(b *testing.B) {
	data := make([]byte, 1024)
	for i := range data {
		data[i] = byte(i)
	}
	mq := newBitplaneDecoder(data)
	for i := 0; i < b.N; i++ {
		mq.Decode(i % numContexts)
	}
}

func BenchmarkBitplaneEncoder_Encode(b *testing.B) {
	mq := newBitplaneEncoder()
	for i := 0; i < b.N; i++ {
		mq.Encode(i%numContexts, i&1)
	}
}
