package hyperspec

// MQ arithmetic encoder, the counterpart to bitplaneDecoder in mq.go.
//
// Shares the same probability table and context set as the decoder, so
// context state evolves identically on both sides as long as every
// Encode call is mirrored by a Decode call in the same order — which is
// exactly what entropy.go's three passes guarantee per bitplane.

type bitplaneEncoder struct {
	a  uint32
	c  uint32
	ct int

	buf []byte
	bp  int // index of the last byte written to buf, -1 before the first

	contexts [numContexts]contextState
}

func newBitplaneEncoder() *bitplaneEncoder {
	mq := &bitplaneEncoder{}
	mq.Reset()
	mq.ResetContexts()
	return mq
}

// Reset runs INITENC (T.800 C.2.9) and drops any previously buffered
// output, readying the encoder for a new code block.
func (mq *bitplaneEncoder) Reset() {
	mq.a = 0x8000
	mq.c = 0
	mq.ct = 12
	if cap(mq.buf) < 128 {
		mq.buf = make([]byte, 0, 128)
	} else {
		mq.buf = mq.buf[:0]
	}
	mq.bp = -1
}

// ResetContexts mirrors bitplaneDecoder.ResetContexts exactly; the two
// must never drift apart.
func (mq *bitplaneEncoder) ResetContexts() {
	for i := range mq.contexts {
		mq.contexts[i] = contextState{}
	}
	mq.contexts[0].state = 4
	mq.contexts[ctxCleanupAgg].state = 3
	mq.contexts[ctxUniform].state = 46
}

// Encode codes one symbol under context ctx, per ENCODE (T.800 C.2.6).
func (mq *bitplaneEncoder) Encode(ctx int, bit int) {
	if ctx < 0 || ctx >= len(mq.contexts) {
		return
	}
	if bit == mq.contexts[ctx].mps {
		mq.codeMPS(ctx)
	} else {
		mq.codeLPS(ctx)
	}
}

// codeMPS implements CODEMPS (T.800 C.2.7).
func (mq *bitplaneEncoder) codeMPS(ctx int) {
	context := &mq.contexts[ctx]
	entry := &mqStates[context.state]
	qe := uint32(entry.qe)

	mq.a -= qe
	if mq.a < 0x8000 {
		if mq.a < qe {
			mq.a = qe
		} else {
			mq.c += qe
		}
		context.state = entry.nmps
		mq.renormEnc()
	} else {
		mq.c += qe
	}
}

// codeLPS implements CODELPS (T.800 C.2.8).
func (mq *bitplaneEncoder) codeLPS(ctx int) {
	context := &mq.contexts[ctx]
	entry := &mqStates[context.state]
	qe := uint32(entry.qe)

	mq.a -= qe
	if mq.a < qe {
		mq.c += qe
	} else {
		mq.a = qe
	}
	if entry.switchMPS {
		context.mps = 1 - context.mps
	}
	context.state = entry.nlps
	mq.renormEnc()
}

// renormEnc implements RENORME (T.800 C.2.5).
func (mq *bitplaneEncoder) renormEnc() {
	for mq.a < 0x8000 {
		mq.a <<= 1
		mq.c <<= 1
		mq.ct--
		if mq.ct == 0 {
			mq.byteout()
		}
	}
}

// byteout implements BYTEOUT (T.800 C.2.10): emit the next output byte,
// propagating any carry into the previously written byte and applying
// 0xFF bit-stuffing so a stuffed byte never reads as a marker prefix.
func (mq *bitplaneEncoder) byteout() {
	if mq.bp < 0 {
		mq.buf = append(mq.buf, byte(mq.c>>19))
		mq.bp = 0
		mq.c &= 0x7FFFF
		mq.ct = 8
		return
	}

	if mq.buf[mq.bp] == 0xFF {
		mq.bp++
		mq.buf = append(mq.buf, byte(mq.c>>20))
		mq.c &= 0xFFFFF
		mq.ct = 7
		return
	}

	if mq.c >= 0x8000000 {
		mq.buf[mq.bp]++
		if mq.buf[mq.bp] == 0xFF {
			mq.c &= 0x7FFFFFF
			mq.bp++
			mq.buf = append(mq.buf, byte(mq.c>>20))
			mq.c &= 0xFFFFF
			mq.ct = 7
			return
		}
	}
	mq.bp++
	mq.buf = append(mq.buf, byte(mq.c>>19))
	mq.c &= 0x7FFFF
	mq.ct = 8
}

// Flush implements SETBITS+FLUSH (T.800 C.2.11): pick the shortest code
// register value that still falls inside the final interval, emit it,
// and trim a trailing 0xFF (never a valid way to end a segment, since a
// decoder reading one has to assume a marker follows).
func (mq *bitplaneEncoder) Flush() []byte {
	temp := mq.c + mq.a
	mq.c |= 0xFFFF
	if mq.c >= temp {
		mq.c -= 0x8000
	}

	mq.c <<= mq.ct
	mq.byteout()
	mq.c <<= mq.ct
	mq.byteout()

	result := mq.buf
	if len(result) > 0 && result[len(result)-1] == 0xFF {
		result = result[:len(result)-1]
	}

	out := make([]byte, len(result))
	copy(out, result)
	return out
}
