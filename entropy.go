package hyperspec

// Bitplane entropy coding: each code block is coded bitplane by bitplane,
// MSB to LSB, using three coding passes per plane (the first plane codes
// only cleanup) and MQ arithmetic coding with 19 adaptive contexts. The
// neighbor-context derivation and the sign-prediction lookup tables are
// the same ones OpenJPEG ships for ITU-T T.800 Annex D; the run-length
// cleanup optimization and stripe-of-4 scan order come from the same
// source.

// Context IDs. 0-8 are significance-propagation contexts keyed on the
// number and orientation of significant neighbors, 9-13 are sign
// contexts, 14-16 are magnitude-refinement contexts, and 17-18 serve the
// cleanup pass's run-length escape.
const (
	ctxSig0 = 0
	ctxSig1 = 1
	ctxSig2 = 2
	ctxSig3 = 3
	ctxSig4 = 4
	ctxSig5 = 5
	ctxSig6 = 6
	ctxSig7 = 7
	ctxSig8 = 8

	ctxSign0 = 9
	ctxSign1 = 10
	ctxSign2 = 11
	ctxSign3 = 12
	ctxSign4 = 13

	ctxMagFirst  = 14 // first refinement, no significant neighbor
	ctxMagOther  = 15 // first refinement, has significant neighbor
	ctxMagRepeat = 16 // second or later refinement

	ctxCleanupAgg = 17 // stripe aggregation bit (run-length escape)
	ctxUniform    = 18 // 50/50 context used for the 2-bit run length
)

const numContexts = 19

// Coefficient state flags, one byte per coefficient.
const (
	flagSignificant = 1 << iota
	flagSign
	flagRefined
	flagVisited
	flagNeighborSig
)

// Sign-context lookup tables, indexed by an 8-bit neighbor pattern built
// from each of the four adjacent coefficients' significance and sign.
const (
	lutSgnW = 1 << 0
	lutSigN = 1 << 1
	lutSgnE = 1 << 2
	lutSigW = 1 << 3
	lutSgnN = 1 << 4
	lutSigE = 1 << 5
	lutSgnS = 1 << 6
	lutSigS = 1 << 7
)

// lutSignContext maps a neighbor pattern to a sign context in [9,13].
var lutSignContext = [256]byte{
	0x9, 0x9, 0xa, 0xa, 0x9, 0x9, 0xa, 0xa, 0xc, 0xc, 0xd, 0xb, 0xc, 0xc, 0xd, 0xb,
	0x9, 0x9, 0xa, 0xa, 0x9, 0x9, 0xa, 0xa, 0xc, 0xc, 0xb, 0xd, 0xc, 0xc, 0xb, 0xd,
	0xc, 0xc, 0xd, 0xd, 0xc, 0xc, 0xb, 0xb, 0xc, 0x9, 0xd, 0xa, 0x9, 0xc, 0xa, 0xb,
	0xc, 0xc, 0xb, 0xb, 0xc, 0xc, 0xd, 0xd, 0xc, 0x9, 0xb, 0xa, 0x9, 0xc, 0xa, 0xd,
	0x9, 0x9, 0xa, 0xa, 0x9, 0x9, 0xa, 0xa, 0xc, 0xc, 0xd, 0xb, 0xc, 0xc, 0xd, 0xb,
	0x9, 0x9, 0xa, 0xa, 0x9, 0x9, 0xa, 0xa, 0xc, 0xc, 0xb, 0xd, 0xc, 0xc, 0xb, 0xd,
	0xc, 0xc, 0xd, 0xd, 0xc, 0xc, 0xb, 0xb, 0xc, 0x9, 0xd, 0xa, 0x9, 0xc, 0xa, 0xb,
	0xc, 0xc, 0xb, 0xb, 0xc, 0xc, 0xd, 0xd, 0xc, 0x9, 0xb, 0xa, 0x9, 0xc, 0xa, 0xd,
	0xa, 0xa, 0xa, 0xa, 0xa, 0xa, 0xa, 0xa, 0xd, 0xb, 0xd, 0xb, 0xd, 0xb, 0xd, 0xb,
	0xa, 0xa, 0x9, 0x9, 0xa, 0xa, 0x9, 0x9, 0xd, 0xb, 0xc, 0xc, 0xd, 0xb, 0xc, 0xc,
	0xd, 0xd, 0xd, 0xd, 0xb, 0xb, 0xb, 0xb, 0xd, 0xa, 0xd, 0xa, 0xa, 0xb, 0xa, 0xb,
	0xd, 0xd, 0xc, 0xc, 0xb, 0xb, 0xc, 0xc, 0xd, 0xa, 0xc, 0x9, 0xa, 0xb, 0x9, 0xc,
	0xa, 0xa, 0x9, 0x9, 0xa, 0xa, 0x9, 0x9, 0xb, 0xd, 0xc, 0xc, 0xb, 0xd, 0xc, 0xc,
	0xa, 0xa, 0xa, 0xa, 0xa, 0xa, 0xa, 0xa, 0xb, 0xd, 0xb, 0xd, 0xb, 0xd, 0xb, 0xd,
	0xb, 0xb, 0xc, 0xc, 0xd, 0xd, 0xc, 0xc, 0xb, 0xa, 0xc, 0x9, 0xa, 0xd, 0x9, 0xc,
	0xb, 0xb, 0xb, 0xb, 0xd, 0xd, 0xd, 0xd, 0xb, 0xa, 0xb, 0xa, 0xa, 0xd, 0xa, 0xd,
}

// lutSignPrediction maps the same neighbor pattern to the predicted sign
// bit; the coded bit is XORed against this prediction.
var lutSignPrediction = [256]byte{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 1, 0, 1, 0, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 1, 0, 1, 0, 1, 0, 1,
	0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 1, 0, 1, 1, 1,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 1, 0, 1, 0, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 1, 0, 1, 0, 1, 0, 1,
	0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 1, 0, 1, 1, 1,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 1, 0, 1, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 1, 0, 1, 0, 1,
	0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0, 0, 1, 0, 1,
	1, 1, 0, 0, 1, 1, 0, 0, 0, 1, 0, 1, 0, 1, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 1, 0, 1, 0, 1, 0, 1,
	0, 0, 0, 0, 1, 1, 1, 1, 0, 1, 0, 0, 1, 1, 0, 1, 0, 0, 0, 0, 1, 1, 1, 1, 0, 1, 0, 1, 1, 1, 1, 1,
}

const passSPP, passMRP, passCleanup = 0, 1, 2

// entropyCoder holds the per-block working state shared by the
// significance-propagation, magnitude-refinement and cleanup passes.
// State arrays carry a one-coefficient border so neighbor lookups never
// need a bounds check.
type entropyCoder struct {
	rows, cols int
	state      [][]uint8
	data       [][]int32 // absolute magnitude, border padded
}

func newEntropyCoder(rows, cols int) *entropyCoder {
	e := &entropyCoder{rows: rows, cols: cols}
	e.state = make([][]uint8, rows+2)
	e.data = make([][]int32, rows+2)
	for i := range e.state {
		e.state[i] = make([]uint8, cols+2)
		e.data[i] = make([]int32, cols+2)
	}
	return e
}

func (e *entropyCoder) reset() {
	for y := range e.state {
		for x := range e.state[y] {
			e.state[y][x] = 0
			e.data[y][x] = 0
		}
	}
}

func (e *entropyCoder) clearVisited() {
	for y := 1; y <= e.rows; y++ {
		for x := 1; x <= e.cols; x++ {
			e.state[y][x] &^= flagVisited
		}
	}
}

// EncodeBlock arithmetic-codes a block's signed coefficients bitplane by
// bitplane, MSB first, and returns the coded bytes plus the number of
// magnitude bitplanes that actually carried data (leading all-zero
// planes are not coded).
func EncodeBlock(cb *CodeBlock) (data []byte, numBitPlanes int) {
	rows, cols := cb.Height(), cb.Width()
	e := newEntropyCoder(rows, cols)

	maxMag := int32(0)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := cb.At(y, x)
			mag := v &^ cb.SignMask()
			if mag > maxMag {
				maxMag = mag
			}
		}
	}
	for tmp := maxMag; tmp > 0; tmp >>= 1 {
		numBitPlanes++
	}
	if numBitPlanes == 0 {
		return nil, 0
	}
	if numBitPlanes > cb.MagnitudeBitPlanes() {
		numBitPlanes = cb.MagnitudeBitPlanes()
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := cb.At(y, x)
			mag := v &^ cb.SignMask()
			e.data[y+1][x+1] = mag
			if v&cb.SignMask() != 0 {
				e.state[y+1][x+1] |= flagSign
			}
		}
	}

	mq := newBitplaneEncoder()

	sb := cb.SubBand()
	for bp := numBitPlanes - 1; bp >= 0; bp-- {
		if bp == numBitPlanes-1 {
			e.encodeCleanup(mq, bp, sb)
		} else {
			e.encodeSignificancePropagation(mq, bp, sb)
			e.encodeMagnitudeRefinement(mq, bp)
			e.encodeCleanup(mq, bp, sb)
		}
		e.clearVisited()
	}

	return mq.Flush(), numBitPlanes
}

// DecodeBlock is the inverse of EncodeBlock: it arithmetic-decodes
// numBitPlanes bitplanes from data into a freshly allocated code block.
func DecodeBlock(data []byte, rows, cols, depth int, band SubBand, numBitPlanes int) (*CodeBlock, error) {
	cb, err := newEmptyCodeBlock(rows, cols, depth, band)
	if err != nil {
		return nil, err
	}
	if numBitPlanes == 0 {
		return cb, nil
	}
	if numBitPlanes > cb.MagnitudeBitPlanes() {
		return nil, ErrBitPlaneRange
	}

	e := newEntropyCoder(rows, cols)
	mq := newBitplaneDecoder(data)

	for bp := numBitPlanes - 1; bp >= 0; bp-- {
		if bp == numBitPlanes-1 {
			e.decodeCleanup(mq, bp, band)
		} else {
			e.decodeSignificancePropagation(mq, bp, band)
			e.decodeMagnitudeRefinement(mq, bp)
			e.decodeCleanup(mq, bp, band)
		}
		e.clearVisited()
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := e.data[y+1][x+1]
			if e.state[y+1][x+1]&flagSign != 0 {
				v |= cb.SignMask()
			}
			cb.Set(y, x, v)
		}
	}
	return cb, nil
}

// --- decode passes ---

func (e *entropyCoder) decodeSignificancePropagation(mq *bitplaneDecoder, bp int, band SubBand) {
	for stripe := 0; stripe < (e.rows+3)/4; stripe++ {
		y0 := stripe * 4
		y1 := min(y0+4, e.rows)
		for x := 0; x < e.cols; x++ {
			xx := x + 1
			for y := y0; y < y1; y++ {
				yy := y + 1
				if e.state[yy][xx]&flagSignificant != 0 {
					continue
				}
				if !e.hasSignificantNeighbor(xx, yy) {
					continue
				}
				e.state[yy][xx] |= flagVisited

				ctx := e.sigContext(xx, yy, band)
				if mq.Decode(ctx) != 0 {
					e.markSignificant(xx, yy, bp)
					signCtx, xorBit := e.signContext(xx, yy)
					signBit := mq.Decode(signCtx) ^ xorBit
					if signBit != 0 {
						e.state[yy][xx] |= flagSign
					}
				}
			}
		}
	}
}

func (e *entropyCoder) decodeMagnitudeRefinement(mq *bitplaneDecoder, bp int) {
	half := int32(1) << uint(bp)
	for stripe := 0; stripe < (e.rows+3)/4; stripe++ {
		y0 := stripe * 4
		y1 := min(y0+4, e.rows)
		for x := 0; x < e.cols; x++ {
			xx := x + 1
			for y := y0; y < y1; y++ {
				yy := y + 1
				if e.state[yy][xx]&flagSignificant == 0 {
					continue
				}
				if e.state[yy][xx]&flagVisited != 0 {
					continue
				}
				ctx := e.magContext(xx, yy)
				if mq.Decode(ctx) != 0 {
					e.data[yy][xx] |= half
				}
				e.state[yy][xx] |= flagRefined
			}
		}
	}
}

func (e *entropyCoder) decodeCleanup(mq *bitplaneDecoder, bp int, band SubBand) {
	for stripe := 0; stripe < (e.rows+3)/4; stripe++ {
		y0 := stripe * 4
		y1 := min(y0+4, e.rows)

		for x := 0; x < e.cols; x++ {
			xx := x + 1
			runMode := e.canUseRunMode(y0, y1, xx)

			if runMode {
				if mq.Decode(ctxCleanupAgg) == 0 {
					for y := y0; y < y1; y++ {
						e.state[y+1][xx] |= flagVisited
					}
					continue
				}
				bit1 := mq.Decode(ctxUniform)
				bit0 := mq.Decode(ctxUniform)
				runLen := (bit1 << 1) | bit0

				for i := 0; y0+i < y1; i++ {
					yy := y0 + i + 1
					switch {
					case i < runLen:
						e.state[yy][xx] |= flagVisited
					case i == runLen:
						e.markSignificant(xx, yy, bp)
						e.state[yy][xx] |= flagVisited
						signCtx, xorBit := e.signContext(xx, yy)
						signBit := mq.Decode(signCtx) ^ xorBit
						if signBit != 0 {
							e.state[yy][xx] |= flagSign
						}
					default:
						e.decodeCleanupOne(mq, xx, yy, bp, band)
					}
				}
			} else {
				for y := y0; y < y1; y++ {
					yy := y + 1
					if e.state[yy][xx]&flagVisited != 0 {
						continue
					}
					e.decodeCleanupOne(mq, xx, yy, bp, band)
				}
			}
		}
	}
}

func (e *entropyCoder) decodeCleanupOne(mq *bitplaneDecoder, x, y, bp int, band SubBand) {
	e.state[y][x] |= flagVisited
	if e.state[y][x]&flagSignificant != 0 {
		return
	}
	ctx := e.sigContext(x, y, band)
	if mq.Decode(ctx) != 0 {
		e.markSignificant(x, y, bp)
		signCtx, xorBit := e.signContext(x, y)
		signBit := mq.Decode(signCtx) ^ xorBit
		if signBit != 0 {
			e.state[y][x] |= flagSign
		}
	}
}

// --- encode passes (mirror the decode passes, reading bits instead of
// producing them) ---

func (e *entropyCoder) encodeSignificancePropagation(mq *bitplaneEncoder, bp int, band SubBand) {
	bit := int32(1) << uint(bp)
	for stripe := 0; stripe < (e.rows+3)/4; stripe++ {
		y0 := stripe * 4
		y1 := min(y0+4, e.rows)
		for x := 0; x < e.cols; x++ {
			xx := x + 1
			for y := y0; y < y1; y++ {
				yy := y + 1
				if e.state[yy][xx]&flagSignificant != 0 {
					continue
				}
				if !e.hasSignificantNeighbor(xx, yy) {
					continue
				}
				e.state[yy][xx] |= flagVisited

				ctx := e.sigContext(xx, yy, band)
				sig := 0
				if e.data[yy][xx]&bit != 0 {
					sig = 1
				}
				mq.Encode(ctx, sig)
				if sig != 0 {
					e.markSignificant(xx, yy, bp)
					signCtx, xorBit := e.signContext(xx, yy)
					sign := 0
					if e.state[yy][xx]&flagSign != 0 {
						sign = 1
					}
					mq.Encode(signCtx, sign^xorBit)
				}
			}
		}
	}
}

func (e *entropyCoder) encodeMagnitudeRefinement(mq *bitplaneEncoder, bp int) {
	bit := int32(1) << uint(bp)
	for stripe := 0; stripe < (e.rows+3)/4; stripe++ {
		y0 := stripe * 4
		y1 := min(y0+4, e.rows)
		for x := 0; x < e.cols; x++ {
			xx := x + 1
			for y := y0; y < y1; y++ {
				yy := y + 1
				if e.state[yy][xx]&flagSignificant == 0 {
					continue
				}
				if e.state[yy][xx]&flagVisited != 0 {
					continue
				}
				ctx := e.magContext(xx, yy)
				bitVal := 0
				if e.data[yy][xx]&bit != 0 {
					bitVal = 1
				}
				mq.Encode(ctx, bitVal)
				e.state[yy][xx] |= flagRefined
			}
		}
	}
}

func (e *entropyCoder) encodeCleanup(mq *bitplaneEncoder, bp int, band SubBand) {
	bit := int32(1) << uint(bp)
	for stripe := 0; stripe < (e.rows+3)/4; stripe++ {
		y0 := stripe * 4
		y1 := min(y0+4, e.rows)

		for x := 0; x < e.cols; x++ {
			xx := x + 1
			runMode := e.canUseRunMode(y0, y1, xx)

			if runMode {
				runLen := 4
				for i := 0; y0+i < y1; i++ {
					yy := y0 + i + 1
					if e.data[yy][xx]&bit != 0 {
						runLen = i
						break
					}
				}

				if runLen == 4 {
					mq.Encode(ctxCleanupAgg, 0)
					for y := y0; y < y1; y++ {
						e.state[y+1][xx] |= flagVisited
					}
					continue
				}

				mq.Encode(ctxCleanupAgg, 1)
				mq.Encode(ctxUniform, (runLen>>1)&1)
				mq.Encode(ctxUniform, runLen&1)

				for i := 0; y0+i < y1; i++ {
					yy := y0 + i + 1
					switch {
					case i < runLen:
						e.state[yy][xx] |= flagVisited
					case i == runLen:
						e.markSignificant(xx, yy, bp)
						e.state[yy][xx] |= flagVisited
						signCtx, xorBit := e.signContext(xx, yy)
						sign := 0
						if e.state[yy][xx]&flagSign != 0 {
							sign = 1
						}
						mq.Encode(signCtx, sign^xorBit)
					default:
						e.encodeCleanupOne(mq, xx, yy, bp, band)
					}
				}
			} else {
				for y := y0; y < y1; y++ {
					yy := y + 1
					if e.state[yy][xx]&flagVisited != 0 {
						continue
					}
					e.encodeCleanupOne(mq, xx, yy, bp, band)
				}
			}
		}
	}
}

func (e *entropyCoder) encodeCleanupOne(mq *bitplaneEncoder, x, y, bp int, band SubBand) {
	e.state[y][x] |= flagVisited
	if e.state[y][x]&flagSignificant != 0 {
		return
	}
	bit := int32(1) << uint(bp)
	ctx := e.sigContext(x, y, band)
	sig := 0
	if e.data[y][x]&bit != 0 {
		sig = 1
	}
	mq.Encode(ctx, sig)
	if sig != 0 {
		e.markSignificant(x, y, bp)
		signCtx, xorBit := e.signContext(x, y)
		sign := 0
		if e.state[y][x]&flagSign != 0 {
			sign = 1
		}
		mq.Encode(signCtx, sign^xorBit)
	}
}

// --- shared context derivation ---

// canUseRunMode reports whether a full 4-row stripe column has no
// significance, visited, or neighbor-significance flags set yet, the
// precondition for the cleanup pass's aggregation escape.
func (e *entropyCoder) canUseRunMode(y0, y1, xx int) bool {
	if y1-y0 < 4 {
		return false
	}
	for y := y0; y < y1; y++ {
		if e.state[y+1][xx]&(flagSignificant|flagVisited|flagNeighborSig) != 0 {
			return false
		}
	}
	return true
}

func (e *entropyCoder) hasSignificantNeighbor(x, y int) bool {
	return e.state[y][x]&flagNeighborSig != 0
}

// markSignificant sets the significance flag, sets magnitude bit bp of
// the coefficient (the bit that made it significant), and propagates
// flagNeighborSig to all eight neighbors so later context lookups are
// O(1).
func (e *entropyCoder) markSignificant(x, y, bp int) {
	if e.state[y][x]&flagSignificant != 0 {
		return
	}
	e.state[y][x] |= flagSignificant
	e.data[y][x] |= int32(1) << uint(bp)

	e.state[y][x-1] |= flagNeighborSig
	e.state[y][x+1] |= flagNeighborSig
	e.state[y-1][x] |= flagNeighborSig
	e.state[y+1][x] |= flagNeighborSig
	e.state[y-1][x-1] |= flagNeighborSig
	e.state[y-1][x+1] |= flagNeighborSig
	e.state[y+1][x-1] |= flagNeighborSig
	e.state[y+1][x+1] |= flagNeighborSig
}

func (e *entropyCoder) countSigNeighbors(x, y int) (h, v, d int) {
	if e.state[y][x-1]&flagSignificant != 0 {
		h++
	}
	if e.state[y][x+1]&flagSignificant != 0 {
		h++
	}
	if e.state[y-1][x]&flagSignificant != 0 {
		v++
	}
	if e.state[y+1][x]&flagSignificant != 0 {
		v++
	}
	if e.state[y-1][x-1]&flagSignificant != 0 {
		d++
	}
	if e.state[y-1][x+1]&flagSignificant != 0 {
		d++
	}
	if e.state[y+1][x-1]&flagSignificant != 0 {
		d++
	}
	if e.state[y+1][x+1]&flagSignificant != 0 {
		d++
	}
	return
}

// sigContext picks one of the nine significance-propagation contexts
// from the neighbor counts, using the orientation-dependent discriminator
// order from ITU-T T.800 Table D.1: HL subbands swap the roles of h and
// v, and HH treats the diagonal count as primary.
func (e *entropyCoder) sigContext(x, y int, band SubBand) int {
	h, v, d := e.countSigNeighbors(x, y)

	if band == SubBandHH {
		hv := h + v
		switch {
		case d == 0 && hv == 0:
			return ctxSig0
		case d == 0 && hv == 1:
			return ctxSig1
		case d == 0:
			return ctxSig2
		case d == 1 && hv == 0:
			return ctxSig3
		case d == 1 && hv == 1:
			return ctxSig4
		case d == 1:
			return ctxSig5
		case d == 2 && hv == 0:
			return ctxSig6
		case d == 2:
			return ctxSig7
		default:
			return ctxSig8
		}
	}

	if band == SubBandHL {
		h, v = v, h
	}

	switch {
	case h == 0 && v == 0 && d == 0:
		return ctxSig0
	case h == 0 && v == 0 && d == 1:
		return ctxSig1
	case h == 0 && v == 0:
		return ctxSig2
	case h == 0 && v == 1:
		return ctxSig3
	case h == 0:
		return ctxSig4
	case h == 1 && v == 0 && d == 0:
		return ctxSig5
	case h == 1 && v == 0:
		return ctxSig6
	case h == 1:
		return ctxSig7
	default:
		return ctxSig8
	}
}

// signContext builds the 8-bit neighbor pattern for sign coding and
// looks up the context and sign prediction from the shared tables.
func (e *entropyCoder) signContext(x, y int) (ctx, xorBit int) {
	var lu int

	if w := e.state[y][x-1]; w&flagSignificant != 0 {
		lu |= lutSigW
		if w&flagSign != 0 {
			lu |= lutSgnW
		}
	}
	if east := e.state[y][x+1]; east&flagSignificant != 0 {
		lu |= lutSigE
		if east&flagSign != 0 {
			lu |= lutSgnE
		}
	}
	if n := e.state[y-1][x]; n&flagSignificant != 0 {
		lu |= lutSigN
		if n&flagSign != 0 {
			lu |= lutSgnN
		}
	}
	if s := e.state[y+1][x]; s&flagSignificant != 0 {
		lu |= lutSigS
		if s&flagSign != 0 {
			lu |= lutSgnS
		}
	}

	return int(lutSignContext[lu]), int(lutSignPrediction[lu])
}

func (e *entropyCoder) magContext(x, y int) int {
	switch {
	case e.state[y][x]&flagRefined != 0:
		return ctxMagRepeat
	case e.hasSignificantNeighbor(x, y):
		return ctxMagOther
	default:
		return ctxMagFirst
	}
}
