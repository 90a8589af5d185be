package hyperspec

// Image is a hyperspectral cube: a stack of same-sized Bands sharing a bit
// depth, indexed (band, line, sample). The spectral axis (across bands) is
// what the dimensionality reducer projects; the spatial axes (lines,
// samples) are what the wavelet transform, quantizer, and blocker operate
// on independently per band.
type Image struct {
	bands   []*Band
	lines   int
	samples int
	depth   int
}

// NewImage allocates a zero-filled cube of numBands bands, each
// (lines x samples) samples wide, at the given bit depth.
func NewImage(numBands, lines, samples, depth int) *Image {
	img := &Image{lines: lines, samples: samples, depth: depth}
	img.bands = make([]*Band, numBands)
	for i := range img.bands {
		img.bands[i] = newBand(newDenseIntMatrix(lines, samples), lines, samples, depth)
	}
	return img
}

func (img *Image) NumBands() int { return len(img.bands) }
func (img *Image) Lines() int    { return img.lines }
func (img *Image) Samples() int  { return img.samples }
func (img *Image) Depth() int    { return img.depth }

// Band returns the k-th band, for the wavelet/quantize/block pipeline to
// operate on directly.
func (img *Image) Band(k int) *Band { return img.bands[k] }

// Pixel reads the full spectral vector at one spatial position.
func (img *Image) Pixel(line, sample int) []float64 {
	px := make([]float64, len(img.bands))
	for k, b := range img.bands {
		px[k] = float64(b.At(line, sample))
	}
	return px
}

// SetPixel writes a full spectral vector at one spatial position,
// truncating toward zero as the band's integer storage requires.
func (img *Image) SetPixel(line, sample int, v []float64) {
	for k, b := range img.bands {
		b.Set(line, sample, int32(v[k]))
	}
}
