package transform

import "github.com/ericlevine/qrscan"

// Projective maps module (col, row) to pixel (x, y) as
//
//	W = G*col + H*row + 1
//	x = (A*col + B*row + C) / W
//	y = (D*col + E*row + F) / W
type Projective struct {
	A, B, C, D, E, F, G, H float64
}

// NewProjective solves the 8 parameter mapping from the three finder centres
// and the centre of the bottom-right alignment mark, which sits at module
// (dimension-7, dimension-7).
func NewProjective(dimension int, topLeft, topRight, bottomLeft, align qrscan.ResultPoint) (*Projective, error) {
	far := float64(dimension - farFinderGap)
	near := float64(finderOffset)
	farAlign := float64(dimension - alignGap)
	modules := [4][2]float64{{near, near}, {far, near}, {near, far}, {farAlign, farAlign}}
	pixels := [4]qrscan.ResultPoint{topLeft, topRight, bottomLeft, align}

	m := make([][]float64, 8)
	for i := 0; i < 4; i++ {
		mc, mr := modules[i][0], modules[i][1]
		px, py := pixels[i].X, pixels[i].Y
		m[i] = []float64{mc, mr, 1, 0, 0, 0, -mc * px, -mr * px, px}
		m[i+4] = []float64{0, 0, 0, mc, mr, 1, -mc * py, -mr * py, py}
	}
	s, err := solve(m)
	if err != nil {
		return nil, err
	}
	return &Projective{A: s[0], B: s[1], C: s[2], D: s[3], E: s[4], F: s[5], G: s[6], H: s[7]}, nil
}

// Map returns the pixel position of a module coordinate.
func (t *Projective) Map(col, row float64) (x, y float64) {
	w := t.G*col + t.H*row + 1
	return (t.A*col + t.B*row + t.C) / w, (t.D*col + t.E*row + t.F) / w
}
