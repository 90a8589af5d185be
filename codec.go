package hyperspec

import "math"

// Options controls the encoding pipeline: spectral reduction, wavelet
// filter and decomposition depth, scalar quantizer parameters, and block
// partitioning.
type Options struct {
	// Reducer projects the cube's spectral axis before per-band coding.
	// If nil, Encode trains an identity DeleteReducer that keeps every
	// band.
	Reducer Reducer

	Levels        int
	WaveletFilter WaveletFilter

	Exponent, Mantissa, Guard int
	ReconstructionOffset      float64

	ExpectedBlockDim, MaxBlockDim int
}

func (o *Options) withDefaults() *Options {
	d := *o
	if d.Levels <= 0 {
		d.Levels = 5
	}
	if d.ExpectedBlockDim <= 0 {
		d.ExpectedBlockDim = DefaultExpectedBlockDim
	}
	if d.MaxBlockDim <= 0 {
		d.MaxBlockDim = DefaultMaxBlockDim
	}
	if d.ReconstructionOffset == 0 {
		d.ReconstructionOffset = 0.5
	}
	return &d
}

// Encode compresses img into a self-contained byte stream: a header
// recording the pipeline parameters and the trained reducer's state,
// followed by every band's length-prefixed code blocks in Blocker order.
func Encode(img *Image, opts *Options) ([]byte, error) {
	opts = opts.withDefaults()

	reducer := opts.Reducer
	if reducer == nil {
		reducer = NewDeleteReducer(img.NumBands())
	}
	reducer.Train(img)
	reduced := reducer.Reduce(img)

	lo := reducer.MinValue(img)
	hi := reducer.MaxValue(img)
	// Wavelet decomposition grows the dynamic range of the LL band by
	// roughly one bit per level (the update step's +2 rounding aside);
	// widen the quantizer's declared sample range accordingly so coarse
	// levels don't saturate the sign-magnitude packing.
	growth := math.Pow(2, float64(opts.Levels))
	lo *= growth
	hi *= growth

	q, err := NewQuantizer(opts.Exponent, opts.Mantissa, opts.Guard, lo, hi, opts.ReconstructionOffset)
	if err != nil {
		return nil, err
	}

	w := newBitWriter()
	writeHeader(w, opts, reduced, lo, hi)
	reducer.SaveTo(w)

	wavelet := NewWavelet(opts.WaveletFilter)
	for b := 0; b < reduced.NumBands(); b++ {
		if err := encodeBand(w, wavelet, reduced.Band(b), q, opts); err != nil {
			return nil, err
		}
	}

	return w.Flush(), nil
}

// Decode reverses Encode, reconstructing an Image at the original
// (pre-reduction) band count and bit depth.
func Decode(data []byte) (*Image, error) {
	r := newBitReader(data)
	hdr, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	reducer, err := LoadReducer(r)
	if err != nil {
		return nil, err
	}

	q, err := NewQuantizer(hdr.exponent, hdr.mantissa, hdr.guard, hdr.lo, hdr.hi, hdr.reconstructionOffset)
	if err != nil {
		return nil, err
	}
	depth := q.NecessaryBitPlanes() + 1

	wavelet := NewWavelet(hdr.waveletFilter)
	reduced := NewImage(hdr.numBands, hdr.lines, hdr.samples, depth)
	for b := 0; b < hdr.numBands; b++ {
		if err := decodeBand(r, wavelet, reduced.Band(b), q, hdr); err != nil {
			return nil, err
		}
	}

	dst := NewImage(reducer.OriginalBands(), hdr.lines, hdr.samples, hdr.originalDepth)
	reducer.Boost(reduced, dst)
	return dst, nil
}

// codecHeader is the fixed-size preamble written ahead of the reducer
// state and the per-band block data.
type codecHeader struct {
	numBands, lines, samples      int
	originalDepth                 int
	levels                        int
	waveletFilter                 WaveletFilter
	exponent, mantissa, guard     int
	reconstructionOffset          float64
	lo, hi                        float64
	expectedBlockDim, maxBlockDim int
}

func writeHeader(w *bitWriter, opts *Options, reduced *Image, lo, hi float64) {
	w.WriteUint32(uint32(reduced.NumBands()))
	w.WriteUint32(uint32(reduced.Lines()))
	w.WriteUint32(uint32(reduced.Samples()))
	w.WriteUint32(uint32(reduced.Depth()))
	w.WriteUint32(uint32(opts.Levels))
	w.WriteByte(byte(opts.WaveletFilter))
	w.WriteUint32(uint32(opts.Exponent))
	w.WriteUint32(uint32(opts.Mantissa))
	w.WriteUint32(uint32(opts.Guard))
	w.WriteFloat64(opts.ReconstructionOffset)
	w.WriteFloat64(lo)
	w.WriteFloat64(hi)
	w.WriteUint32(uint32(opts.ExpectedBlockDim))
	w.WriteUint32(uint32(opts.MaxBlockDim))
}

func readHeader(r *bitReader) (*codecHeader, error) {
	h := &codecHeader{}
	var err error
	var v uint32

	if v, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	h.numBands = int(v)
	if v, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	h.lines = int(v)
	if v, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	h.samples = int(v)
	if v, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	h.originalDepth = int(v)
	if v, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	h.levels = int(v)

	filterByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	h.waveletFilter = WaveletFilter(filterByte)

	if v, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	h.exponent = int(v)
	if v, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	h.mantissa = int(v)
	if v, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	h.guard = int(v)
	if h.reconstructionOffset, err = r.ReadFloat64(); err != nil {
		return nil, err
	}
	if h.lo, err = r.ReadFloat64(); err != nil {
		return nil, err
	}
	if h.hi, err = r.ReadFloat64(); err != nil {
		return nil, err
	}
	if v, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	h.expectedBlockDim = int(v)
	if v, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	h.maxBlockDim = int(v)

	return h, nil
}

func encodeBand(w *bitWriter, wavelet *Wavelet, band *Band, q *Quantizer, opts *Options) error {
	wave := band.ToWave(0, 0, band.Rows(), band.Cols())
	wavelet.Forward(wave, band.Rows(), band.Cols(), opts.Levels)

	depth := q.NecessaryBitPlanes() + 1
	quantized := newBand(newDenseIntMatrix(band.Rows(), band.Cols()), band.Rows(), band.Cols(), depth)
	for i := 0; i < band.Rows(); i++ {
		for j := 0; j < band.Cols(); j++ {
			quantized.Set(i, j, q.Quantize(wave.At(i, j)))
		}
	}

	blocker, err := NewBlocker(band.Rows(), band.Cols(), opts.Levels, opts.ExpectedBlockDim, opts.MaxBlockDim)
	if err != nil {
		return err
	}

	for _, region := range blocker.Regions() {
		cb, err := quantized.ExtractBlock(region.RowOffset, region.ColOffset, region.Height, region.Width, region.Band)
		if err != nil {
			return err
		}
		data, numBitPlanes := EncodeBlock(cb)
		w.WriteUint32(uint32(numBitPlanes))
		w.WriteUint32(uint32(len(data)))
		w.ByteAlign()
		for _, b := range data {
			w.WriteByte(b)
		}
	}
	return nil
}

func decodeBand(r *bitReader, wavelet *Wavelet, band *Band, q *Quantizer, hdr *codecHeader) error {
	depth := q.NecessaryBitPlanes() + 1
	quantized := newBand(newDenseIntMatrix(band.Rows(), band.Cols()), band.Rows(), band.Cols(), depth)

	blocker, err := NewBlocker(band.Rows(), band.Cols(), hdr.levels, hdr.expectedBlockDim, hdr.maxBlockDim)
	if err != nil {
		return err
	}

	for _, region := range blocker.Regions() {
		numBitPlanes32, err := r.ReadUint32()
		if err != nil {
			return err
		}
		length, err := r.ReadUint32()
		if err != nil {
			return err
		}
		r.ByteAlign()
		data := make([]byte, length)
		for i := range data {
			b, err := r.ReadByte()
			if err != nil {
				return err
			}
			data[i] = b
		}

		cb, err := DecodeBlock(data, region.Height, region.Width, depth, region.Band, int(numBitPlanes32))
		if err != nil {
			return err
		}
		for i := 0; i < region.Height; i++ {
			for j := 0; j < region.Width; j++ {
				quantized.Set(region.RowOffset+i, region.ColOffset+j, cb.At(i, j))
			}
		}
	}

	wave := newFloatMatrix(band.Rows(), band.Cols())
	for i := 0; i < band.Rows(); i++ {
		for j := 0; j < band.Cols(); j++ {
			wave.Set(i, j, q.Dequantize(quantized.At(i, j)))
		}
	}
	wavelet.Inverse(wave, band.Rows(), band.Cols(), hdr.levels)
	band.FromWave(wave, 0, 0, band.Rows(), band.Cols())
	return nil
}
