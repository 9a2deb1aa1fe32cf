package transform

import "github.com/ericlevine/qrscan"

// Module positions of the finder centres and of the bottom-right alignment
// mark in a symbol of the given dimension.
const (
	finderOffset = 3
	farFinderGap = 4
	alignGap     = 7
)

// Affine maps module (col, row) to pixel (x, y) as
//
//	x = A*col + C*row + E
//	y = B*col + D*row + F
type Affine struct {
	A, B, C, D, E, F float64
}

// NewAffine solves the affine mapping that sends the three finder centres of
// a symbol of the given dimension to the pixel points topLeft, topRight and
// bottomLeft.
func NewAffine(dimension int, topLeft, topRight, bottomLeft qrscan.ResultPoint) (*Affine, error) {
	far := float64(dimension - farFinderGap)
	near := float64(finderOffset)
	rows := func(tl, tr, bl float64) [][]float64 {
		return [][]float64{
			{near, near, 1, tl},
			{far, near, 1, tr},
			{near, far, 1, bl},
		}
	}
	xs, err := solve(rows(topLeft.X, topRight.X, bottomLeft.X))
	if err != nil {
		return nil, err
	}
	ys, err := solve(rows(topLeft.Y, topRight.Y, bottomLeft.Y))
	if err != nil {
		return nil, err
	}
	return &Affine{A: xs[0], C: xs[1], E: xs[2], B: ys[0], D: ys[1], F: ys[2]}, nil
}

// Map returns the pixel position of a module coordinate.
func (t *Affine) Map(col, row float64) (x, y float64) {
	return t.A*col + t.C*row + t.E, t.B*col + t.D*row + t.F
}
