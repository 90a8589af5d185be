package hyperspec

import "math"

// Reducer projects a hyperspectral cube's spectral axis onto a
// lower-dimensional subspace (Reduce) and approximately inverts that
// projection (Boost). The spatial axes are untouched; only the number of
// bands changes. A reducer must be trained on a representative cube
// before Reduce or Boost are meaningful.
type Reducer interface {
	Train(img *Image)
	Reduce(img *Image) *Image
	Boost(reduced *Image, dst *Image)
	SaveTo(w *bitWriter)
	NumComponents() int
	// OriginalBands returns the band count of the cube this reducer was
	// trained on, so Boost's caller can size the reconstructed image
	// without having kept the source cube around.
	OriginalBands() int
	MaxValue(img *Image) float64
	MinValue(img *Image) float64
}

// Reducer wire tags, written as the first byte of a reducer's saved
// state so LoadReducer can dispatch to the matching variant.
const (
	reducerTagDelete byte = iota
	reducerTagPCA
	reducerTagMNF
)

// LoadReducer reads a reducer's wire tag and state, previously written by
// SaveTo, and returns the reconstructed variant.
func LoadReducer(r *bitReader) (Reducer, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch tag {
	case reducerTagDelete:
		d := &DeleteReducer{}
		if err := d.loadFrom(r); err != nil {
			return nil, err
		}
		return d, nil
	case reducerTagPCA:
		p := &PCAReducer{}
		if err := p.loadFrom(r); err != nil {
			return nil, err
		}
		return p, nil
	case reducerTagMNF:
		m := &MNFReducer{}
		if err := m.loadFrom(r); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, ErrInvalidTag
	}
}

// maxSampleMagnitude returns the largest absolute sample value
// representable at the given signed bit depth.
func maxSampleMagnitude(depth int) float64 {
	return float64(int64(1)<<uint(depth-1) - 1)
}

// --- identity-delete ---

// DeleteReducer keeps the first NumComponents bands unchanged and drops
// the rest. Boosting a reduced image zero-fills the dropped bands, so a
// round trip through DeleteReducer is exact on the retained bands.
type DeleteReducer struct {
	k          int
	totalBands int
}

// NewDeleteReducer builds a reducer that keeps the first k bands of
// whatever image it trains on.
func NewDeleteReducer(k int) *DeleteReducer {
	return &DeleteReducer{k: k}
}

func (d *DeleteReducer) Train(img *Image) { d.totalBands = img.NumBands() }

func (d *DeleteReducer) Reduce(img *Image) *Image {
	out := NewImage(d.k, img.Lines(), img.Samples(), img.Depth())
	for b := 0; b < d.k; b++ {
		src, dst := img.Band(b), out.Band(b)
		for i := 0; i < img.Lines(); i++ {
			for j := 0; j < img.Samples(); j++ {
				dst.Set(i, j, src.At(i, j))
			}
		}
	}
	return out
}

func (d *DeleteReducer) Boost(reduced *Image, dst *Image) {
	for b := 0; b < d.k; b++ {
		src, out := reduced.Band(b), dst.Band(b)
		for i := 0; i < dst.Lines(); i++ {
			for j := 0; j < dst.Samples(); j++ {
				out.Set(i, j, src.At(i, j))
			}
		}
	}
	for b := d.k; b < dst.NumBands(); b++ {
		dst.Band(b).Clear()
	}
}

func (d *DeleteReducer) SaveTo(w *bitWriter) {
	w.WriteByte(reducerTagDelete)
	w.WriteUint32(uint32(d.totalBands))
	w.WriteUint32(uint32(d.k))
}

func (d *DeleteReducer) loadFrom(r *bitReader) error {
	total, err := r.ReadUint32()
	if err != nil {
		return err
	}
	k, err := r.ReadUint32()
	if err != nil {
		return err
	}
	d.totalBands = int(total)
	d.k = int(k)
	return nil
}

func (d *DeleteReducer) NumComponents() int { return d.k }
func (d *DeleteReducer) OriginalBands() int { return d.totalBands }

func (d *DeleteReducer) MaxValue(img *Image) float64 { return maxSampleMagnitude(img.Depth()) }
func (d *DeleteReducer) MinValue(img *Image) float64 { return -maxSampleMagnitude(img.Depth()) - 1 }

// --- PCA ---

// PCAReducer projects pixels onto the top NumComponents eigenvectors of
// the cube's spectral covariance matrix, found with a from-scratch
// Jacobi eigensolver (see linalg.go) in place of the reference
// implementation's SVD-based library call.
type PCAReducer struct {
	k     int
	bands int
	mean  []float64
	basis [][]float64 // k x bands, rows are orthonormal eigenvectors
}

// NewPCAReducer builds a PCA reducer targeting k components.
func NewPCAReducer(k int) *PCAReducer {
	return &PCAReducer{k: k}
}

func (p *PCAReducer) Train(img *Image) {
	b := img.NumBands()
	p.bands = b
	n := img.Lines() * img.Samples()

	mean := make([]float64, b)
	for i := 0; i < img.Lines(); i++ {
		for j := 0; j < img.Samples(); j++ {
			px := img.Pixel(i, j)
			for c := 0; c < b; c++ {
				mean[c] += px[c]
			}
		}
	}
	for c := range mean {
		mean[c] /= float64(n)
	}
	p.mean = mean

	cov := newMat(b, b)
	for i := 0; i < img.Lines(); i++ {
		for j := 0; j < img.Samples(); j++ {
			px := img.Pixel(i, j)
			for c := range px {
				px[c] -= mean[c]
			}
			for r := 0; r < b; r++ {
				for c := 0; c < b; c++ {
					cov[r][c] += px[r] * px[c]
				}
			}
		}
	}
	for r := 0; r < b; r++ {
		for c := 0; c < b; c++ {
			cov[r][c] /= float64(n)
		}
	}

	_, vecs := jacobiEigenSymmetric(cov)
	k := p.k
	if k > b {
		k = b
	}
	p.basis = newMat(k, b)
	for c := 0; c < k; c++ {
		for r := 0; r < b; r++ {
			p.basis[c][r] = vecs[r][c]
		}
	}
	p.k = k
}

func (p *PCAReducer) Reduce(img *Image) *Image {
	out := NewImage(p.k, img.Lines(), img.Samples(), img.Depth())
	for i := 0; i < img.Lines(); i++ {
		for j := 0; j < img.Samples(); j++ {
			px := img.Pixel(i, j)
			for c := range px {
				px[c] -= p.mean[c]
			}
			z := matVec(p.basis, px)
			out.SetPixel(i, j, z)
		}
	}
	return out
}

func (p *PCAReducer) Boost(reduced *Image, dst *Image) {
	basisT := transposeMat(p.basis)
	for i := 0; i < dst.Lines(); i++ {
		for j := 0; j < dst.Samples(); j++ {
			z := reduced.Pixel(i, j)
			x := matVec(basisT, z)
			for c := range x {
				x[c] += p.mean[c]
			}
			dst.SetPixel(i, j, x)
		}
	}
}

func (p *PCAReducer) SaveTo(w *bitWriter) {
	w.WriteByte(reducerTagPCA)
	w.WriteUint32(uint32(p.bands))
	w.WriteUint32(uint32(p.k))
	for _, v := range p.mean {
		w.WriteFloat64(v)
	}
	for _, row := range p.basis {
		for _, v := range row {
			w.WriteFloat64(v)
		}
	}
}

func (p *PCAReducer) loadFrom(r *bitReader) error {
	bands, err := r.ReadUint32()
	if err != nil {
		return err
	}
	k, err := r.ReadUint32()
	if err != nil {
		return err
	}
	p.bands, p.k = int(bands), int(k)

	p.mean = make([]float64, p.bands)
	for i := range p.mean {
		if p.mean[i], err = r.ReadFloat64(); err != nil {
			return err
		}
	}
	p.basis = newMat(p.k, p.bands)
	for i := 0; i < p.k; i++ {
		for j := 0; j < p.bands; j++ {
			if p.basis[i][j], err = r.ReadFloat64(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *PCAReducer) NumComponents() int { return p.k }
func (p *PCAReducer) OriginalBands() int { return p.bands }

func (p *PCAReducer) MaxValue(img *Image) float64 {
	return math.Sqrt(float64(img.NumBands())) * maxSampleMagnitude(img.Depth())
}
func (p *PCAReducer) MinValue(img *Image) float64 { return -p.MaxValue(img) }

// --- MNF ---

// MNFReducer implements the Minimum Noise Fraction transform: it
// estimates per-pixel instrument noise from the horizontal (within-line)
// sample difference, whitens the spectral covariance against the noise
// covariance, and projects onto the components with the best
// signal-to-noise ratio. Grounded on MinimumNoiseFraction.java, with the
// EJML SVD calls replaced by the same from-scratch symmetric eigensolver
// PCAReducer uses, plus a Gauss-Jordan matrix inverse for un-projection.
type MNFReducer struct {
	k      int
	bands  int
	proj   [][]float64 // k x bands
	unproj [][]float64 // bands x k
}

// NewMNFReducer builds an MNF reducer targeting k components.
func NewMNFReducer(k int) *MNFReducer {
	return &MNFReducer{k: k}
}

func (m *MNFReducer) Train(img *Image) {
	b := img.NumBands()
	m.bands = b
	lines, samples := img.Lines(), img.Samples()
	n := lines * samples

	mean := make([]float64, b)
	for i := 0; i < lines; i++ {
		for j := 0; j < samples; j++ {
			px := img.Pixel(i, j)
			for c := range px {
				mean[c] += px[c]
			}
		}
	}
	for c := range mean {
		mean[c] /= float64(n)
	}

	sigma := newMat(b, b)
	sigmaNoise := newMat(b, b)
	for i := 0; i < lines; i++ {
		for j := 0; j < samples; j++ {
			px := img.Pixel(i, j)

			var neighbor []float64
			if j < samples-1 {
				neighbor = img.Pixel(i, j+1)
			} else {
				neighbor = img.Pixel(i, j-1)
			}
			noise := make([]float64, b)
			for c := range noise {
				noise[c] = (px[c] - neighbor[c]) / 2
			}
			for r := 0; r < b; r++ {
				for c := 0; c < b; c++ {
					sigmaNoise[r][c] += noise[r] * noise[c]
				}
			}

			for c := range px {
				px[c] -= mean[c]
			}
			for r := 0; r < b; r++ {
				for c := 0; c < b; c++ {
					sigma[r][c] += px[r] * px[c]
				}
			}
		}
	}
	for r := 0; r < b; r++ {
		for c := 0; c < b; c++ {
			sigma[r][c] /= float64(n)
		}
	}

	noiseVals, noiseVecs := jacobiEigenSymmetric(sigmaNoise)
	// Whitening transform A = U * diag(1/sqrt(lambda)).
	a := newMat(b, b)
	for r := 0; r < b; r++ {
		for c := 0; c < b; c++ {
			lambda := noiseVals[c]
			if lambda < 1e-12 {
				lambda = 1e-12
			}
			a[r][c] = noiseVecs[r][c] / math.Sqrt(lambda)
		}
	}

	// Signal covariance in whitened space: A^T * sigma * A.
	at := transposeMat(a)
	sigmaTransformed := matMul(matMul(at, sigma), a)

	_, d := jacobiEigenSymmetric(sigmaTransformed)
	dt := transposeMat(d)

	// Full-rank projection, (A*D)^T = D^T*A^T.
	fullProj := matMul(dt, at)

	unprojFull, err := invertSquare(fullProj)
	if err != nil {
		// Degenerate noise estimate (e.g. a constant band): fall back to
		// the full projection matrix's own transpose as a least-effort
		// pseudo-inverse rather than failing training outright.
		unprojFull = transposeMat(fullProj)
	}

	k := m.k
	if k > b {
		k = b
	}
	m.k = k
	m.proj = fullProj[:k]
	m.unproj = newMat(b, k)
	for r := 0; r < b; r++ {
		for c := 0; c < k; c++ {
			m.unproj[r][c] = unprojFull[r][c]
		}
	}
}

func (m *MNFReducer) Reduce(img *Image) *Image {
	out := NewImage(m.k, img.Lines(), img.Samples(), img.Depth())
	for i := 0; i < img.Lines(); i++ {
		for j := 0; j < img.Samples(); j++ {
			z := matVec(m.proj, img.Pixel(i, j))
			out.SetPixel(i, j, z)
		}
	}
	return out
}

func (m *MNFReducer) Boost(reduced *Image, dst *Image) {
	for i := 0; i < dst.Lines(); i++ {
		for j := 0; j < dst.Samples(); j++ {
			z := reduced.Pixel(i, j)
			x := matVec(m.unproj, z)
			dst.SetPixel(i, j, x)
		}
	}
}

func (m *MNFReducer) SaveTo(w *bitWriter) {
	w.WriteByte(reducerTagMNF)
	w.WriteUint32(uint32(m.bands))
	w.WriteUint32(uint32(m.k))
	for _, row := range m.proj {
		for _, v := range row {
			w.WriteFloat64(v)
		}
	}
	for _, row := range m.unproj {
		for _, v := range row {
			w.WriteFloat64(v)
		}
	}
}

func (m *MNFReducer) loadFrom(r *bitReader) error {
	bands, err := r.ReadUint32()
	if err != nil {
		return err
	}
	k, err := r.ReadUint32()
	if err != nil {
		return err
	}
	m.bands, m.k = int(bands), int(k)

	m.proj = newMat(m.k, m.bands)
	for i := 0; i < m.k; i++ {
		for j := 0; j < m.bands; j++ {
			if m.proj[i][j], err = r.ReadFloat64(); err != nil {
				return err
			}
		}
	}
	m.unproj = newMat(m.bands, m.k)
	for i := 0; i < m.bands; i++ {
		for j := 0; j < m.k; j++ {
			if m.unproj[i][j], err = r.ReadFloat64(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *MNFReducer) NumComponents() int { return m.k }
func (m *MNFReducer) OriginalBands() int { return m.bands }

func (m *MNFReducer) MaxValue(img *Image) float64 {
	return math.Sqrt(float64(img.NumBands())) * maxSampleMagnitude(img.Depth())
}
func (m *MNFReducer) MinValue(img *Image) float64 { return -m.MaxValue(img) }
