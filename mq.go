package hyperspec

// MQ arithmetic decoder driving the bitplane entropy coder in entropy.go.
//
// This is the context-adaptive binary arithmetic coder from ITU-T T.800
// Annex C, stripped to what the three-pass bitplane coder actually needs:
// context-adaptive decoding of single bits. There is no ERTERM/RESET
// termination, no segmentation symbols, and no raw/bypass coding pass —
// entropy.go drives every pass, including the cleanup pass's run-length
// escape, through context-adaptive Decode/Encode, so the bypass half of
// the original coder (raw bit I/O, marker-counting, mid-stream
// resynchronization) has no caller here and is not carried forward.
//
// State kept per decoder:
//   - a: probability interval, 16 bits, renormalized to stay >= 0x8000
//   - c: code register loaded from the bitstream
//   - ct: bits available in c before the next byte must be pulled in
//   - contexts: one contextState per coding context (see numContexts)

type contextState struct {
	state int // index into mqStates
	mps   int // most probable symbol, 0 or 1
}

// probEntry is one row of the MQ probability estimation table (ITU-T T.800
// Table C.2): the Qe interval width for this state, the next state on an
// MPS or LPS decision, and whether an LPS decision flips which symbol is
// "most probable".
type probEntry struct {
	qe        uint16
	nmps      int
	nlps      int
	switchMPS bool
}

var mqStates = [47]probEntry{
	{0x5601, 1, 1, true},
	{0x3401, 2, 6, false},
	{0x1801, 3, 9, false},
	{0x0AC1, 4, 12, false},
	{0x0521, 5, 29, false},
	{0x0221, 38, 33, false},
	{0x5601, 7, 6, true},
	{0x5401, 8, 14, false},
	{0x4801, 9, 14, false},
	{0x3801, 10, 14, false},
	{0x3001, 11, 17, false},
	{0x2401, 12, 18, false},
	{0x1C01, 13, 20, false},
	{0x1601, 29, 21, false},
	{0x5601, 15, 14, true},
	{0x5401, 16, 14, false},
	{0x5101, 17, 15, false},
	{0x4801, 18, 16, false},
	{0x3801, 19, 17, false},
	{0x3401, 20, 18, false},
	{0x3001, 21, 19, false},
	{0x2801, 22, 19, false},
	{0x2401, 23, 20, false},
	{0x2201, 24, 21, false},
	{0x1C01, 25, 22, false},
	{0x1801, 26, 23, false},
	{0x1601, 27, 24, false},
	{0x1401, 28, 25, false},
	{0x1201, 29, 26, false},
	{0x1101, 30, 27, false},
	{0x0AC1, 31, 28, false},
	{0x09C1, 32, 29, false},
	{0x08A1, 33, 30, false},
	{0x0521, 34, 31, false},
	{0x0441, 35, 32, false},
	{0x02A1, 36, 33, false},
	{0x0221, 37, 34, false},
	{0x0141, 38, 35, false},
	{0x0111, 39, 36, false},
	{0x0085, 40, 37, false},
	{0x0049, 41, 38, false},
	{0x0025, 42, 39, false},
	{0x0015, 43, 40, false},
	{0x0009, 44, 41, false},
	{0x0005, 45, 42, false},
	{0x0001, 45, 43, false},
	{0x5601, 46, 46, false}, // uniform context, never transitions
}

// bitplaneDecoder arithmetic-decodes the bit sequence produced by
// bitplaneEncoder for one code block.
type bitplaneDecoder struct {
	a  uint32
	c  uint32
	ct int

	data []byte
	pos  int

	contexts [numContexts]contextState
}

func newBitplaneDecoder(data []byte) *bitplaneDecoder {
	mq := &bitplaneDecoder{data: data}
	mq.ResetContexts()
	mq.initDec()
	return mq
}

// initDec runs INITDEC (T.800 C.3.5): load the first two bytes into c,
// align a to 0x8000, and leave ct holding the remaining bit budget.
func (mq *bitplaneDecoder) initDec() {
	mq.a = 0x8000
	if mq.pos < len(mq.data) {
		mq.c = uint32(mq.data[mq.pos]) << 16
	} else {
		mq.c = 0xFF << 16
	}
	mq.ct = 0
	mq.bytein()
	mq.c <<= 7
	mq.ct -= 7
}

// Decode decodes one bit under context ctx, per the DECODE procedure
// (T.800 C.3.2), folding in LPS_EXCHANGE/MPS_EXCHANGE inline.
func (mq *bitplaneDecoder) Decode(ctx int) int {
	if ctx < 0 || ctx >= len(mq.contexts) {
		return 0
	}

	context := &mq.contexts[ctx]
	entry := &mqStates[context.state]
	qe := uint32(entry.qe)

	mq.a -= qe
	chigh := mq.c >> 16

	if chigh < qe {
		if mq.a < qe {
			mq.a = qe
			context.state = entry.nmps
			d := context.mps
			mq.renormalize()
			return d
		}
		mq.a = qe
		d := 1 - context.mps
		if entry.switchMPS {
			context.mps = 1 - context.mps
		}
		context.state = entry.nlps
		mq.renormalize()
		return d
	}

	mq.c -= qe << 16

	if mq.a < 0x8000 {
		if mq.a < qe {
			d := 1 - context.mps
			if entry.switchMPS {
				context.mps = 1 - context.mps
			}
			context.state = entry.nlps
			mq.renormalize()
			return d
		}
		context.state = entry.nmps
		d := context.mps
		mq.renormalize()
		return d
	}
	return context.mps
}

// renormalize runs RENORMD (T.800 C.3.3) until a is back at or above 0x8000.
func (mq *bitplaneDecoder) renormalize() {
	for mq.a < 0x8000 {
		if mq.ct == 0 {
			mq.bytein()
		}
		mq.a <<= 1
		mq.c <<= 1
		mq.ct--
	}
}

// bytein runs BYTEIN (T.800 C.3.4): the decoder looks one byte ahead to
// decide whether the current byte is a bit-stuffed 0xFF, and pulls the
// next byte's bits into c accordingly. Past the end of the stream it
// synthesizes 0xFF bytes, which is what lets Decode run past the last
// real byte without a bounds check on every call.
func (mq *bitplaneDecoder) bytein() {
	if mq.pos >= len(mq.data) {
		mq.c += 0xFF << 8
		mq.ct = 8
		return
	}

	nextByte := byte(0xFF)
	if mq.pos+1 < len(mq.data) {
		nextByte = mq.data[mq.pos+1]
	}
	curByte := mq.data[mq.pos]

	if curByte == 0xFF {
		if nextByte > 0x8F {
			mq.c += 0xFF << 8
			mq.ct = 8
			return
		}
		mq.pos++
		mq.c += uint32(nextByte) << 9
		mq.ct = 7
	} else {
		mq.pos++
		mq.c += uint32(nextByte) << 8
		mq.ct = 8
	}
}

// Reset rewinds the decoder onto a new block's data and resets every
// context to its initial state.
func (mq *bitplaneDecoder) Reset(data []byte) {
	mq.data = data
	mq.pos = 0
	mq.ResetContexts()
	mq.initDec()
}

// ResetContexts sets every context back to its starting probability
// state. Context 0 (first significance context) and context
// ctxCleanupAgg start partway down the state table because a freshly
// opened code block is expected to be mostly insignificant; ctxUniform
// starts pinned at the table's 50/50 state and never moves, since its
// two uses (the cleanup pass's run-length escape bits) carry no skew to
// learn.
func (mq *bitplaneDecoder) ResetContexts() {
	for i := range mq.contexts {
		mq.contexts[i] = contextState{}
	}
	mq.contexts[0].state = 4
	mq.contexts[ctxCleanupAgg].state = 3
	mq.contexts[ctxUniform].state = 46
}
