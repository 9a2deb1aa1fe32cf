package binarizer

import (
	"github.com/ericlevine/qrscan"
	"github.com/ericlevine/qrscan/bitutil"
)

const (
	blockShift = 3
	blockSide  = 1 << blockShift
	// minHybridSide is the smallest image side thresholded locally; smaller
	// images use the global histogram.
	minHybridSide = 5 * blockSide
	// flatRange is the largest luminance spread of a block considered to
	// hold no edge.
	flatRange = 24
)

// Hybrid thresholds every 8x8 block of the image against the mean black
// point of the 5x5 blocks around it. It copes with shadows and gradients
// that defeat a single global threshold.
type Hybrid struct {
	*GlobalHistogram
	matrix *bitutil.BitMatrix
}

// NewHybrid creates a new Hybrid binarizer.
func NewHybrid(source qrscan.LuminanceSource) *Hybrid {
	return &Hybrid{GlobalHistogram: NewGlobalHistogram(source)}
}

// BlackMatrix returns the binarized matrix, computing it on first use.
func (h *Hybrid) BlackMatrix() (*bitutil.BitMatrix, error) {
	if h.matrix != nil {
		return h.matrix, nil
	}
	width, height := h.Width(), h.Height()
	if width < minHybridSide || height < minHybridSide {
		m, err := h.GlobalHistogram.BlackMatrix()
		if err != nil {
			return nil, err
		}
		h.matrix = m
		return m, nil
	}

	b := blocks{
		lum:    h.LuminanceSource().Matrix(),
		width:  width,
		height: height,
		cols:   (width + blockSide - 1) >> blockShift,
		rows:   (height + blockSide - 1) >> blockShift,
	}
	h.matrix = b.threshold(b.blackPoints())
	return h.matrix, nil
}

// blocks tiles a luminance matrix. The last row and column of blocks are
// shifted inwards to stay inside the image, overlapping their neighbours.
type blocks struct {
	lum           []byte
	width, height int
	cols, rows    int
}

func (b *blocks) origin(col, row int) (x, y int) {
	return min(col<<blockShift, b.width-blockSide), min(row<<blockShift, b.height-blockSide)
}

// blackPoints estimates a black point per block: the mean luminance when the
// block holds an edge, otherwise half its minimum, raised to the neighbours'
// estimate when the flat block is lighter than its surroundings.
func (b *blocks) blackPoints() [][]int {
	points := make([][]int, b.rows)
	for row := range points {
		points[row] = make([]int, b.cols)
		for col := range points[row] {
			x0, y0 := b.origin(col, row)
			sum, lo, hi := 0, 0xFF, 0
			for y := y0; y < y0+blockSide; y++ {
				for _, p := range b.lum[y*b.width+x0 : y*b.width+x0+blockSide] {
					v := int(p)
					sum += v
					lo = min(lo, v)
					hi = max(hi, v)
				}
			}
			point := sum >> (2 * blockShift)
			if hi-lo <= flatRange {
				point = lo / 2
				if row > 0 && col > 0 {
					neighbours := (points[row-1][col] + 2*points[row][col-1] + points[row-1][col-1]) / 4
					if lo < neighbours {
						point = neighbours
					}
				}
			}
			points[row][col] = point
		}
	}
	return points
}

// threshold marks every pixel at or below the 5x5 mean black point around
// its block as dark.
func (b *blocks) threshold(points [][]int) *bitutil.BitMatrix {
	m := bitutil.NewBitMatrixWithSize(b.width, b.height)
	for row := 0; row < b.rows; row++ {
		top := clampCentre(row, b.rows)
		for col := 0; col < b.cols; col++ {
			left := clampCentre(col, b.cols)
			sum := 0
			for _, r := range points[top-2 : top+3] {
				for _, p := range r[left-2 : left+3] {
					sum += p
				}
			}
			limit := sum / 25
			x0, y0 := b.origin(col, row)
			for y := y0; y < y0+blockSide; y++ {
				for x := x0; x < x0+blockSide; x++ {
					if int(b.lum[y*b.width+x]) <= limit {
						m.Set(x, y)
					}
				}
			}
		}
	}
	return m
}

// clampCentre keeps a 5 wide window centred on i inside [0, n).
func clampCentre(i, n int) int {
	return max(2, min(i, n-3))
}
