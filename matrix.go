package hyperspec

// IntMatrix is the shared capability bands and code blocks are built on:
// addressable 2-D integer storage, either owned outright or viewed through
// an offset into a parent's storage. Wavelet coefficients use the analogous
// floatMatrix below; the two never need to satisfy the same interface since
// nothing in this engine treats them polymorphically.
type IntMatrix interface {
	At(row, col int) int32
	Set(row, col int, v int32)
	Rows() int
	Cols() int
}

// denseIntMatrix is an owning rectangular integer matrix stored row-major.
type denseIntMatrix struct {
	data       []int32
	rows, cols int
}

func newDenseIntMatrix(rows, cols int) *denseIntMatrix {
	return &denseIntMatrix{data: make([]int32, rows*cols), rows: rows, cols: cols}
}

func (m *denseIntMatrix) At(row, col int) int32    { return m.data[row*m.cols+col] }
func (m *denseIntMatrix) Set(row, col int, v int32) { m.data[row*m.cols+col] = v }
func (m *denseIntMatrix) Rows() int                 { return m.rows }
func (m *denseIntMatrix) Cols() int                 { return m.cols }

// intView is a window onto a parent IntMatrix at (rowOffset, colOffset).
// Reads and writes pass through to the parent; a view never copies.
type intView struct {
	parent             IntMatrix
	rowOffset, colOffset int
	rows, cols         int
}

func newIntView(parent IntMatrix, rowOffset, colOffset, rows, cols int) *intView {
	return &intView{parent: parent, rowOffset: rowOffset, colOffset: colOffset, rows: rows, cols: cols}
}

func (v *intView) At(row, col int) int32 {
	return v.parent.At(row+v.rowOffset, col+v.colOffset)
}

func (v *intView) Set(row, col int, val int32) {
	v.parent.Set(row+v.rowOffset, col+v.colOffset, val)
}

func (v *intView) Rows() int { return v.rows }
func (v *intView) Cols() int { return v.cols }

// floatMatrix is a dense owning matrix of float64 samples, used for the
// wavelet transform's working coefficient storage.
type floatMatrix struct {
	data       [][]float64
	rows, cols int
}

func newFloatMatrix(rows, cols int) *floatMatrix {
	data := make([][]float64, rows)
	for i := range data {
		data[i] = make([]float64, cols)
	}
	return &floatMatrix{data: data, rows: rows, cols: cols}
}

func (m *floatMatrix) At(row, col int) float64     { return m.data[row][col] }
func (m *floatMatrix) Set(row, col int, v float64) { m.data[row][col] = v }
func (m *floatMatrix) Rows() int                   { return m.rows }
func (m *floatMatrix) Cols() int                   { return m.cols }
