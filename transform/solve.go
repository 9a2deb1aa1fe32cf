// Package transform maps symbol module coordinates to image pixel
// coordinates and samples the pixel grid through that mapping.
package transform

import (
	"fmt"
	"math"

	"github.com/ericlevine/qrscan"
)

// solve runs Gaussian elimination on the n x (n+1) augmented matrix m and
// returns the n unknowns. A zero pivot is repaired by adding the first lower
// row that is nonzero in the pivot column. m is overwritten.
func solve(m [][]float64) ([]float64, error) {
	n := len(m)
	for row := 0; row < n; row++ {
		if m[row][row] == 0 {
			donor := row + 1
			for donor < n && m[donor][row] == 0 {
				donor++
			}
			if donor == n {
				return nil, fmt.Errorf("%w: no pivot in column %d", qrscan.ErrSingularTransform, row)
			}
			for col := row; col <= n; col++ {
				m[row][col] += m[donor][col]
			}
		}
		pivot := m[row][row]
		for col := row; col <= n; col++ {
			m[row][col] /= pivot
		}
		for below := row + 1; below < n; below++ {
			factor := m[below][row]
			if factor == 0 {
				continue
			}
			for col := row; col <= n; col++ {
				m[below][col] -= factor * m[row][col]
			}
		}
	}

	x := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		v := m[row][n]
		for col := row + 1; col < n; col++ {
			v -= m[row][col] * x[col]
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite coefficient", qrscan.ErrSingularTransform)
		}
		x[row] = v
	}
	return x, nil
}
