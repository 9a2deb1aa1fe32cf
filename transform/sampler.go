package transform

import (
	"math"

	"github.com/ericlevine/qrscan"
	"github.com/ericlevine/qrscan/bitutil"
)

// Transform maps a module coordinate to a pixel coordinate.
type Transform interface {
	Map(col, row float64) (x, y float64)
}

// Sampler reads symbol modules from a pixel grid through a Transform.
type Sampler struct {
	grid      *bitutil.BitMatrix
	transform Transform
}

// NewSampler binds a transform to the grid it samples.
func NewSampler(grid *bitutil.BitMatrix, t Transform) *Sampler {
	return &Sampler{grid: grid, transform: t}
}

// Module reports whether the module at (row, col) is dark. The mapped pixel
// position is rounded half away from zero; positions outside the image read
// as light.
func (s *Sampler) Module(row, col int) bool {
	x, y := s.transform.Map(float64(col), float64(row))
	return s.grid.Get(int(math.Round(x)), int(math.Round(y)))
}

// Pixel returns the rounded pixel position of the module at (row, col).
func (s *Sampler) Pixel(row, col int) qrscan.ResultPoint {
	x, y := s.transform.Map(float64(col), float64(row))
	return qrscan.ResultPoint{X: math.Round(x), Y: math.Round(y)}
}

// Grid samples every module of a dimension x dimension symbol into a new
// matrix.
func (s *Sampler) Grid(dimension int) *bitutil.BitMatrix {
	bits := bitutil.NewBitMatrix(dimension)
	for row := 0; row < dimension; row++ {
		for col := 0; col < dimension; col++ {
			if s.Module(row, col) {
				bits.Set(col, row)
			}
		}
	}
	return bits
}
