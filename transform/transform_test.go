package transform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericlevine/qrscan"
	"github.com/ericlevine/qrscan/bitutil"
)

// scaled maps module (col, row) to pixels for a symbol drawn at scale pixels
// per module with its origin at (offset, offset).
func scaled(col, row, scale, offset float64) qrscan.ResultPoint {
	return qrscan.ResultPoint{X: offset + scale*col, Y: offset + scale*row}
}

func TestNewAffineRecoversScaleAndOffset(t *testing.T) {
	const dim = 25
	tl := scaled(3, 3, 4, 10)
	tr := scaled(dim-4, 3, 4, 10)
	bl := scaled(3, dim-4, 4, 10)

	a, err := NewAffine(dim, tl, tr, bl)
	require.NoError(t, err)
	assert.InDelta(t, 4, a.A, 1e-9)
	assert.InDelta(t, 0, a.B, 1e-9)
	assert.InDelta(t, 0, a.C, 1e-9)
	assert.InDelta(t, 4, a.D, 1e-9)
	assert.InDelta(t, 10, a.E, 1e-9)
	assert.InDelta(t, 10, a.F, 1e-9)

	x, y := a.Map(12, 7)
	assert.InDelta(t, 58, x, 1e-9)
	assert.InDelta(t, 38, y, 1e-9)
}

func TestNewAffineRotated(t *testing.T) {
	// Quarter turn: module col runs down the image, module row runs left.
	const dim = 21
	rot := func(col, row float64) qrscan.ResultPoint {
		return qrscan.ResultPoint{X: 200 - 5*row, Y: 20 + 5*col}
	}
	a, err := NewAffine(dim, rot(3, 3), rot(dim-4, 3), rot(3, dim-4))
	require.NoError(t, err)
	for _, m := range [][2]float64{{0, 0}, {20, 0}, {10, 13}, {20, 20}} {
		x, y := a.Map(m[0], m[1])
		want := rot(m[0], m[1])
		assert.InDelta(t, want.X, x, 1e-9)
		assert.InDelta(t, want.Y, y, 1e-9)
	}
}

func TestNewAffineSingular(t *testing.T) {
	// At dimension 7 the far finder column coincides with the near one.
	p := qrscan.ResultPoint{X: 1, Y: 1}
	_, err := NewAffine(7, p, p, p)
	assert.True(t, errors.Is(err, qrscan.ErrSingularTransform), "got %v", err)
}

func TestSolveRepairsZeroPivot(t *testing.T) {
	m := [][]float64{
		{0, 1, 2},
		{1, 1, 3},
	}
	x, err := solve(m)
	require.NoError(t, err)
	assert.InDelta(t, 1, x[0], 1e-12)
	assert.InDelta(t, 2, x[1], 1e-12)
}

func TestNewProjectiveMatchesAffineWhenParallel(t *testing.T) {
	const dim = 29
	tl := scaled(3, 3, 3, 7)
	tr := scaled(dim-4, 3, 3, 7)
	bl := scaled(3, dim-4, 3, 7)
	align := scaled(dim-7, dim-7, 3, 7)

	p, err := NewProjective(dim, tl, tr, bl, align)
	require.NoError(t, err)
	assert.InDelta(t, 0, p.G, 1e-9)
	assert.InDelta(t, 0, p.H, 1e-9)

	a, err := NewAffine(dim, tl, tr, bl)
	require.NoError(t, err)
	for _, m := range [][2]float64{{0, 0}, {28, 0}, {0, 28}, {14, 9}} {
		px, py := p.Map(m[0], m[1])
		ax, ay := a.Map(m[0], m[1])
		assert.InDelta(t, ax, px, 1e-9)
		assert.InDelta(t, ay, py, 1e-9)
	}
}

func TestNewProjectiveRecoversHomography(t *testing.T) {
	want := Projective{A: 2, B: 0.1, C: 5, D: 0.05, E: 3, F: 7, G: 0.001, H: 0.002}
	const dim = 33
	at := func(col, row float64) qrscan.ResultPoint {
		x, y := want.Map(col, row)
		return qrscan.ResultPoint{X: x, Y: y}
	}
	p, err := NewProjective(dim, at(3, 3), at(dim-4, 3), at(3, dim-4), at(dim-7, dim-7))
	require.NoError(t, err)

	assert.InDelta(t, want.A, p.A, 1e-6)
	assert.InDelta(t, want.B, p.B, 1e-6)
	assert.InDelta(t, want.C, p.C, 1e-6)
	assert.InDelta(t, want.D, p.D, 1e-6)
	assert.InDelta(t, want.E, p.E, 1e-6)
	assert.InDelta(t, want.F, p.F, 1e-6)
	assert.InDelta(t, want.G, p.G, 1e-9)
	assert.InDelta(t, want.H, p.H, 1e-9)
}

func TestSamplerModule(t *testing.T) {
	const dim = 21
	grid := bitutil.NewBitMatrixWithSize(100, 100)
	// Module (row 5, col 2) at 4 px per module, origin 8.
	grid.SetRegion(8+4*2, 8+4*5, 4, 4)

	a, err := NewAffine(dim, scaled(3.5, 3.5, 4, 8), scaled(dim-3.5, 3.5, 4, 8), scaled(3.5, dim-3.5, 4, 8))
	require.NoError(t, err)
	s := NewSampler(grid, a)

	assert.True(t, s.Module(5, 2))
	assert.False(t, s.Module(2, 5))
	assert.False(t, s.Module(-40, -40), "samples outside the image read light")

	got := s.Grid(dim)
	assert.True(t, got.Get(2, 5))
	assert.False(t, got.Get(5, 2))
	assert.Equal(t, qrscan.ResultPoint{X: 8 + 4*2.5, Y: 8 + 4*5.5}, s.Pixel(5, 2))
}
