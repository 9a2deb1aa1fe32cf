package bitutil

import (
	"errors"
	"fmt"
)

// ErrNotEnoughBits is returned when a read asks for more bits than remain.
var ErrNotEnoughBits = errors.New("bitsource: not enough bits")

// BitSource reads big-endian bit fields of arbitrary width from a byte slice.
type BitSource struct {
	bytes      []byte
	byteOffset int
	bitOffset  int
}

// NewBitSource creates a new BitSource. Bits are read from the first byte
// first, most significant bit first.
func NewBitSource(bytes []byte) *BitSource {
	return &BitSource{bytes: bytes}
}

// ReadBits reads numBits bits and returns them as the least-significant bits
// of an int. A failed read consumes nothing.
func (bs *BitSource) ReadBits(numBits int) (int, error) {
	if numBits < 1 || numBits > 32 {
		return 0, fmt.Errorf("bitsource: invalid bit count %d", numBits)
	}
	if numBits > bs.Available() {
		return 0, fmt.Errorf("%w: want %d, have %d", ErrNotEnoughBits, numBits, bs.Available())
	}
	result := 0
	for numBits > 0 {
		bitsLeft := 8 - bs.bitOffset
		toRead := min(numBits, bitsLeft)
		shift := bitsLeft - toRead
		chunk := (int(bs.bytes[bs.byteOffset]) >> uint(shift)) & (1<<uint(toRead) - 1)
		result = result<<uint(toRead) | chunk
		numBits -= toRead
		bs.bitOffset += toRead
		if bs.bitOffset == 8 {
			bs.bitOffset = 0
			bs.byteOffset++
		}
	}
	return result, nil
}

// Available returns the number of bits that can still be read.
func (bs *BitSource) Available() int {
	return 8*(len(bs.bytes)-bs.byteOffset) - bs.bitOffset
}
