// Package binarizer turns luminance data into the black/white pixel grid
// consumed by the finder search.
package binarizer

import (
	"errors"

	"github.com/ericlevine/qrscan"
	"github.com/ericlevine/qrscan/bitutil"
)

// ErrLowContrast is returned when the luminance histogram has no clear
// separation between dark and light pixels.
var ErrLowContrast = errors.New("binarizer: image contrast too low")

const (
	luminanceBits    = 5
	luminanceShift   = 8 - luminanceBits
	luminanceBuckets = 1 << luminanceBits
	// minPeakGap is the closest two histogram peaks may be while still
	// separating ink from paper.
	minPeakGap = luminanceBuckets / 16
)

// histogram counts luminances in 32 buckets of 8 levels each.
type histogram [luminanceBuckets]int

func (h *histogram) add(lum byte) {
	h[lum>>luminanceShift]++
}

// peaks returns the two dominant buckets in ascending order and the height
// of the tallest one. The second peak favours buckets far from the first.
func (h *histogram) peaks() (lo, hi, tallest int) {
	first := 0
	for i, n := range h {
		if n > h[first] {
			first = i
		}
	}
	tallest = h[first]

	second, best := 0, 0
	for i, n := range h {
		d := i - first
		if score := n * d * d; score > best {
			second, best = i, score
		}
	}
	return min(first, second), max(first, second), tallest
}

// blackPoint returns the luminance below which a pixel is dark: the start of
// the emptiest bucket between the two peaks, weighted towards the light one.
func (h *histogram) blackPoint() (int, error) {
	lo, hi, tallest := h.peaks()
	if hi-lo <= minPeakGap {
		return 0, ErrLowContrast
	}
	valley, best := hi-1, -1
	for i := hi - 1; i > lo; i-- {
		d := i - lo
		if score := d * d * (hi - i) * (tallest - h[i]); score > best {
			valley, best = i, score
		}
	}
	return valley << luminanceShift, nil
}

// GlobalHistogram picks one black point for the whole image from a luminance
// histogram of its central region. It suits evenly lit, synthetic images.
type GlobalHistogram struct {
	source qrscan.LuminanceSource
}

// NewGlobalHistogram creates a new GlobalHistogram binarizer.
func NewGlobalHistogram(source qrscan.LuminanceSource) *GlobalHistogram {
	return &GlobalHistogram{source: source}
}

// LuminanceSource returns the underlying source.
func (g *GlobalHistogram) LuminanceSource() qrscan.LuminanceSource {
	return g.source
}

// Width returns the image width.
func (g *GlobalHistogram) Width() int { return g.source.Width() }

// Height returns the image height.
func (g *GlobalHistogram) Height() int { return g.source.Height() }

// BlackMatrix thresholds every pixel against the black point of four rows
// sampled across the middle three fifths of the image.
func (g *GlobalHistogram) BlackMatrix() (*bitutil.BitMatrix, error) {
	width, height := g.source.Width(), g.source.Height()

	var h histogram
	row := make([]byte, width)
	for i := 1; i < 5; i++ {
		row = g.source.Row(height*i/5, row)
		for _, lum := range row[width/5 : width*4/5] {
			h.add(lum)
		}
	}
	black, err := h.blackPoint()
	if err != nil {
		return nil, err
	}

	matrix := bitutil.NewBitMatrixWithSize(width, height)
	for i, lum := range g.source.Matrix() {
		if int(lum) < black {
			matrix.Set(i%width, i/width)
		}
	}
	return matrix, nil
}
