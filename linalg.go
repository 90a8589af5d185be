package hyperspec

import "math"

// Small dense linear-algebra primitives for the PCA/MNF reducers. No
// linear-algebra package in the retrieved example pack offers a grounded
// dependency for this (see DESIGN.md), so these are plain math, the way
// the rest of this engine's numerics are written.

func newMat(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

func identityMat(n int) [][]float64 {
	m := newMat(n, n)
	for i := 0; i < n; i++ {
		m[i][i] = 1
	}
	return m
}

func transposeMat(a [][]float64) [][]float64 {
	rows, cols := len(a), len(a[0])
	t := newMat(cols, rows)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			t[j][i] = a[i][j]
		}
	}
	return t
}

// matMul computes a*b.
func matMul(a, b [][]float64) [][]float64 {
	rows, inner, cols := len(a), len(b), len(b[0])
	out := newMat(rows, cols)
	for i := 0; i < rows; i++ {
		for k := 0; k < inner; k++ {
			aik := a[i][k]
			if aik == 0 {
				continue
			}
			for j := 0; j < cols; j++ {
				out[i][j] += aik * b[k][j]
			}
		}
	}
	return out
}

// matVec computes a*x for column vector x.
func matVec(a [][]float64, x []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		var sum float64
		for j, v := range x {
			sum += a[i][j] * v
		}
		out[i] = sum
	}
	return out
}

// invertSquare computes a's inverse via Gauss-Jordan elimination with
// partial pivoting. a is not modified.
func invertSquare(a [][]float64) ([][]float64, error) {
	n := len(a)
	aug := newMat(n, 2*n)
	for i := 0; i < n; i++ {
		copy(aug[i][:n], a[i])
		aug[i][n+i] = 1
	}

	for col := 0; col < n; col++ {
		pivot := col
		best := math.Abs(aug[col][col])
		for r := col + 1; r < n; r++ {
			if v := math.Abs(aug[r][col]); v > best {
				best, pivot = v, r
			}
		}
		if best < 1e-12 {
			return nil, ErrSizeMismatch
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		pv := aug[col][col]
		for j := 0; j < 2*n; j++ {
			aug[col][j] /= pv
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			if factor == 0 {
				continue
			}
			for j := 0; j < 2*n; j++ {
				aug[r][j] -= factor * aug[col][j]
			}
		}
	}

	inv := newMat(n, n)
	for i := 0; i < n; i++ {
		copy(inv[i], aug[i][n:])
	}
	return inv, nil
}

// jacobiEigenSymmetric diagonalizes a symmetric matrix via the classical
// cyclic Jacobi rotation method, returning eigenvalues and the matching
// eigenvectors (as columns of vecs), sorted by descending eigenvalue. a
// is not modified.
func jacobiEigenSymmetric(a [][]float64) (vals []float64, vecs [][]float64) {
	n := len(a)
	m := newMat(n, n)
	for i := range a {
		copy(m[i], a[i])
	}
	v := identityMat(n)

	const maxSweeps = 100
	for sweep := 0; sweep < maxSweeps; sweep++ {
		offDiag := 0.0
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				offDiag += m[i][j] * m[i][j]
			}
		}
		if offDiag < 1e-20 {
			break
		}

		for p := 0; p < n; p++ {
			for q := p + 1; q < n; q++ {
				if math.Abs(m[p][q]) < 1e-18 {
					continue
				}
				theta := (m[q][q] - m[p][p]) / (2 * m[p][q])
				t := math.Copysign(1, theta) / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				c := 1 / math.Sqrt(t*t+1)
				s := t * c

				mpp, mqq, mpq := m[p][p], m[q][q], m[p][q]
				m[p][p] = c*c*mpp - 2*s*c*mpq + s*s*mqq
				m[q][q] = s*s*mpp + 2*s*c*mpq + c*c*mqq
				m[p][q] = 0
				m[q][p] = 0

				for i := 0; i < n; i++ {
					if i == p || i == q {
						continue
					}
					mip, miq := m[i][p], m[i][q]
					m[i][p] = c*mip - s*miq
					m[p][i] = m[i][p]
					m[i][q] = s*mip + c*miq
					m[q][i] = m[i][q]
				}

				for i := 0; i < n; i++ {
					vip, viq := v[i][p], v[i][q]
					v[i][p] = c*vip - s*viq
					v[i][q] = s*vip + c*viq
				}
			}
		}
	}

	vals = make([]float64, n)
	for i := 0; i < n; i++ {
		vals[i] = m[i][i]
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if vals[order[j]] > vals[order[i]] {
				order[i], order[j] = order[j], order[i]
			}
		}
	}

	sortedVals := make([]float64, n)
	sortedVecs := newMat(n, n)
	for newIdx, oldIdx := range order {
		sortedVals[newIdx] = vals[oldIdx]
		for i := 0; i < n; i++ {
			sortedVecs[i][newIdx] = v[i][oldIdx]
		}
	}
	return sortedVals, sortedVecs
}
