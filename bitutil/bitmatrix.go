package bitutil

import (
	"strings"
)

// BitMatrix is a packed 2D matrix of bits, used as the binarized pixel grid
// (true = dark). x is the column position, y is the row position and the
// origin is at the top-left. Reads outside the matrix return false.
type BitMatrix struct {
	width   int
	height  int
	rowSize int
	data    []uint32
}

// NewBitMatrix creates a new square BitMatrix with the given dimension.
func NewBitMatrix(dimension int) *BitMatrix {
	return NewBitMatrixWithSize(dimension, dimension)
}

// NewBitMatrixWithSize creates a new BitMatrix with the given width and height.
func NewBitMatrixWithSize(width, height int) *BitMatrix {
	if width < 1 || height < 1 {
		panic("bitmatrix: dimensions must be greater than 0")
	}
	rowSize := (width + 31) / 32
	return &BitMatrix{
		width:   width,
		height:  height,
		rowSize: rowSize,
		data:    make([]uint32, rowSize*height),
	}
}

// ParseBoolMatrix creates a BitMatrix from rows of booleans.
func ParseBoolMatrix(image [][]bool) *BitMatrix {
	height := len(image)
	width := len(image[0])
	bm := NewBitMatrixWithSize(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if image[y][x] {
				bm.Set(x, y)
			}
		}
	}
	return bm
}

// ParseStringMatrix creates a BitMatrix from a textual picture in which each
// row is one line and every cell is spelled setStr or unsetStr.
func ParseStringMatrix(repr, setStr, unsetStr string) *BitMatrix {
	var rows [][]bool
	for _, line := range strings.Split(strings.ReplaceAll(repr, "\r", ""), "\n") {
		if line == "" {
			continue
		}
		var row []bool
		for pos := 0; pos < len(line); {
			switch {
			case strings.HasPrefix(line[pos:], setStr):
				row = append(row, true)
				pos += len(setStr)
			case strings.HasPrefix(line[pos:], unsetStr):
				row = append(row, false)
				pos += len(unsetStr)
			default:
				panic("bitmatrix: illegal character encountered")
			}
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			panic("bitmatrix: row lengths do not match")
		}
		rows = append(rows, row)
	}
	return ParseBoolMatrix(rows)
}

// Get returns true if the bit at (x, y) is set. Coordinates outside the
// matrix read as unset.
func (bm *BitMatrix) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= bm.width || y >= bm.height {
		return false
	}
	offset := y*bm.rowSize + x/32
	return (bm.data[offset]>>uint(x&0x1f))&1 != 0
}

// Set sets the bit at (x, y).
func (bm *BitMatrix) Set(x, y int) {
	offset := y*bm.rowSize + x/32
	bm.data[offset] |= 1 << uint(x&0x1f)
}

// Unset clears the bit at (x, y).
func (bm *BitMatrix) Unset(x, y int) {
	offset := y*bm.rowSize + x/32
	bm.data[offset] &^= 1 << uint(x&0x1f)
}

// Flip flips the bit at (x, y).
func (bm *BitMatrix) Flip(x, y int) {
	offset := y*bm.rowSize + x/32
	bm.data[offset] ^= 1 << uint(x&0x1f)
}

// FlipAll flips every bit in the matrix.
func (bm *BitMatrix) FlipAll() {
	for i := range bm.data {
		bm.data[i] = ^bm.data[i]
	}
	if tail := bm.width & 0x1f; tail != 0 {
		mask := uint32(1)<<uint(tail) - 1
		for y := 0; y < bm.height; y++ {
			bm.data[y*bm.rowSize+bm.rowSize-1] &= mask
		}
	}
}

// SetRegion sets a rectangular region of bits.
func (bm *BitMatrix) SetRegion(left, top, width, height int) {
	if top < 0 || left < 0 {
		panic("bitmatrix: left and top must be nonnegative")
	}
	if height < 1 || width < 1 {
		panic("bitmatrix: height and width must be at least 1")
	}
	right := left + width
	bottom := top + height
	if bottom > bm.height || right > bm.width {
		panic("bitmatrix: region must fit inside the matrix")
	}
	for y := top; y < bottom; y++ {
		offset := y * bm.rowSize
		for x := left; x < right; x++ {
			bm.data[offset+x/32] |= 1 << uint(x&0x1f)
		}
	}
}

// Width returns the width.
func (bm *BitMatrix) Width() int { return bm.width }

// Height returns the height.
func (bm *BitMatrix) Height() int { return bm.height }

// Clone returns a deep copy of the BitMatrix.
func (bm *BitMatrix) Clone() *BitMatrix {
	d := make([]uint32, len(bm.data))
	copy(d, bm.data)
	return &BitMatrix{width: bm.width, height: bm.height, rowSize: bm.rowSize, data: d}
}

// Inverted returns a copy of the matrix with every bit flipped.
func (bm *BitMatrix) Inverted() *BitMatrix {
	c := bm.Clone()
	c.FlipAll()
	return c
}

// String returns a string representation using "X " for set and "  " for unset.
func (bm *BitMatrix) String() string {
	return bm.StringWithChars("X ", "  ")
}

// StringWithChars returns a string representation using the given set/unset strings.
func (bm *BitMatrix) StringWithChars(setString, unsetString string) string {
	var sb strings.Builder
	sb.Grow(bm.height * (bm.width + 1))
	for y := 0; y < bm.height; y++ {
		for x := 0; x < bm.width; x++ {
			if bm.Get(x, y) {
				sb.WriteString(setString)
			} else {
				sb.WriteString(unsetString)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Equals returns true if two BitMatrices are equal.
func (bm *BitMatrix) Equals(other *BitMatrix) bool {
	if bm.width != other.width || bm.height != other.height {
		return false
	}
	for i := range bm.data {
		if bm.data[i] != other.data[i] {
			return false
		}
	}
	return true
}
