package hyperspec

// CodeBlock is a rectangular, single-subband region of sign-magnitude
// integer coefficients. It holds a reference into its band's storage, not
// a copy; writes through the block mutate the band.
//
// A coefficient's magnitude occupies bits [0, magnitudeBitPlanes) and its
// sign occupies bit magnitudeBitPlanes.
type CodeBlock struct {
	data               IntMatrix
	rows, cols         int
	magnitudeBitPlanes int
	band               SubBand
}

// newCodeBlock builds a block over data with the given bit depth (sign
// plane included). depth must be at least 2.
func newCodeBlock(data IntMatrix, rows, cols, depth int, band SubBand) (*CodeBlock, error) {
	if depth < 2 || depth > 32 {
		return nil, ErrInvalidDepth
	}
	return &CodeBlock{
		data:               data,
		rows:               rows,
		cols:               cols,
		magnitudeBitPlanes: depth - 1,
		band:               band,
	}, nil
}

// newEmptyCodeBlock creates a zero-filled block for the decoder to fill in.
func newEmptyCodeBlock(rows, cols, depth int, band SubBand) (*CodeBlock, error) {
	return newCodeBlock(newDenseIntMatrix(rows, cols), rows, cols, depth, band)
}

func (c *CodeBlock) Width() int  { return c.cols }
func (c *CodeBlock) Height() int { return c.rows }

// MagnitudeBitPlanes returns the number of magnitude bitplanes (excluding
// the sign plane).
func (c *CodeBlock) MagnitudeBitPlanes() int { return c.magnitudeBitPlanes }

// SignMask returns the mask isolating the sign bit within a packed sample.
func (c *CodeBlock) SignMask() int32 { return int32(1) << c.magnitudeBitPlanes }

func (c *CodeBlock) At(row, col int) int32     { return c.data.At(row, col) }
func (c *CodeBlock) Set(row, col int, v int32) { c.data.Set(row, col, v) }

// SubBand returns the subband this block belongs to.
func (c *CodeBlock) SubBand() SubBand { return c.band }

// Clear zeroes the block's contents.
func (c *CodeBlock) Clear() {
	for i := 0; i < c.rows; i++ {
		for j := 0; j < c.cols; j++ {
			c.data.Set(i, j, 0)
		}
	}
}
