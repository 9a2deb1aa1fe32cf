package qrscan

import (
	"image"
	"image/color"

	"github.com/ericlevine/qrscan/bitutil"
)

// ImageLuminanceSource is a LuminanceSource backed by a precomputed
// luminance plane of a Go image.Image.
type ImageLuminanceSource struct {
	luminances []byte
	width      int
	height     int
}

// NewImageLuminanceSource converts img to greyscale luminance values with
// (306*R + 601*G + 117*B + 0x200) >> 10 over 8-bit components. Fully
// transparent pixels count as white.
func NewImageLuminanceSource(img image.Image) *ImageLuminanceSource {
	if gray, ok := img.(*image.Gray); ok {
		return NewGrayImageLuminanceSource(gray)
	}
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	luminances := make([]byte, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			if a == 0 {
				luminances[y*w+x] = 0xFF
				continue
			}
			r8, g8, b8 := r>>8, g>>8, b>>8
			luminances[y*w+x] = byte((306*r8 + 601*g8 + 117*b8 + 0x200) >> 10)
		}
	}

	return &ImageLuminanceSource{luminances: luminances, width: w, height: h}
}

// NewGrayImageLuminanceSource uses the pixels of a *image.Gray directly.
func NewGrayImageLuminanceSource(img *image.Gray) *ImageLuminanceSource {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	luminances := make([]byte, w*h)
	for y := 0; y < h; y++ {
		off := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		copy(luminances[y*w:], img.Pix[off:off+w])
	}
	return &ImageLuminanceSource{luminances: luminances, width: w, height: h}
}

// Row returns a row of luminance data.
func (s *ImageLuminanceSource) Row(y int, row []byte) []byte {
	if y < 0 || y >= s.height {
		return nil
	}
	if len(row) < s.width {
		row = make([]byte, s.width)
	}
	offset := y * s.width
	copy(row, s.luminances[offset:offset+s.width])
	return row
}

// Matrix returns a copy of the luminance plane.
func (s *ImageLuminanceSource) Matrix() []byte {
	result := make([]byte, len(s.luminances))
	copy(result, s.luminances)
	return result
}

// Width returns the width of the image.
func (s *ImageLuminanceSource) Width() int { return s.width }

// Height returns the height of the image.
func (s *ImageLuminanceSource) Height() int { return s.height }

// GridImage renders a pixel grid as a greyscale image, scaling every cell to
// scale x scale pixels and surrounding it with a white border of quiet cells.
func GridImage(grid *bitutil.BitMatrix, scale, quiet int) *image.Gray {
	if scale < 1 {
		scale = 1
	}
	w := (grid.Width() + 2*quiet) * scale
	h := (grid.Height() + 2*quiet) * scale
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			if !grid.Get(x, y) {
				continue
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetGray((x+quiet)*scale+dx, (y+quiet)*scale+dy, color.Gray{Y: 0})
				}
			}
		}
	}
	return img
}
