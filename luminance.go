package qrscan

import "github.com/ericlevine/qrscan/bitutil"

// LuminanceSource provides access to greyscale luminance values for an image.
type LuminanceSource interface {
	// Row returns a row of luminance data. If row is non-nil and large enough,
	// it should be reused.
	Row(y int, row []byte) []byte

	// Matrix returns the entire luminance matrix.
	Matrix() []byte

	Width() int
	Height() int
}

// Binarizer converts luminance data to a black/white pixel grid.
type Binarizer interface {
	// BlackMatrix returns the 2D grid of black/white values. The returned
	// matrix must not be modified by callers.
	BlackMatrix() (*bitutil.BitMatrix, error)

	// LuminanceSource returns the underlying LuminanceSource.
	LuminanceSource() LuminanceSource

	Width() int
	Height() int
}
