package hyperspec

// Band is one spectral band of a hyperspectral image: a 2-D window of
// integer samples that the wavelet transform, quantizer, and blocker all
// operate on in place.
type Band struct {
	storage    IntMatrix
	lines      int
	samples    int
	depth      int // bit depth including the sign bit
}

// newBand wraps storage as a band of the given spatial size and bit depth.
func newBand(storage IntMatrix, lines, samples, depth int) *Band {
	return &Band{storage: storage, lines: lines, samples: samples, depth: depth}
}

// Rows and Cols satisfy the same shape query every matrix-like type exposes.
func (b *Band) Rows() int { return b.lines }
func (b *Band) Cols() int { return b.samples }

func (b *Band) At(row, col int) int32     { return b.storage.At(row, col) }
func (b *Band) Set(row, col int, v int32) { b.storage.Set(row, col, v) }

// ToWave extracts a float64 working copy of a sub-rectangle of this band,
// for the wavelet transform to operate on. The rectangle starts at
// (lineOffset, sampleOffset) and spans (lines, samples).
func (b *Band) ToWave(lineOffset, sampleOffset, lines, samples int) *floatMatrix {
	wave := newFloatMatrix(lines, samples)
	for i := 0; i < lines; i++ {
		for j := 0; j < samples; j++ {
			wave.Set(i, j, float64(b.storage.At(i+lineOffset, j+sampleOffset)))
		}
	}
	return wave
}

// FromWave writes waveForm back into this band starting at
// (lineOffset, sampleOffset). Unlike the reference implementation this
// honors the offset on write as well as on read (see DESIGN.md: the
// fromWave offset bug is fixed here).
func (b *Band) FromWave(waveForm *floatMatrix, lineOffset, sampleOffset, lines, samples int) {
	for i := 0; i < lines; i++ {
		for j := 0; j < samples; j++ {
			b.storage.Set(i+lineOffset, j+sampleOffset, int32(waveForm.At(i, j)))
		}
	}
}

// Clear zeroes every sample in the band.
func (b *Band) Clear() {
	for i := 0; i < b.lines; i++ {
		for j := 0; j < b.samples; j++ {
			b.storage.Set(i, j, 0)
		}
	}
}

// ExtractBlock returns a code block referencing this band's storage; writes
// through the block mutate the band.
func (b *Band) ExtractBlock(rowOffset, colOffset, height, width int, sb SubBand) (*CodeBlock, error) {
	if rowOffset < 0 || colOffset < 0 || height < 0 || width < 0 {
		return nil, ErrOutOfBounds
	}
	if rowOffset+height > b.lines || colOffset+width > b.samples {
		return nil, ErrOutOfBounds
	}
	view := newIntView(b.storage, rowOffset, colOffset, height, width)
	return newCodeBlock(view, height, width, b.depth, sb)
}
