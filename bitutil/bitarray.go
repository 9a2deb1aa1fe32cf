// Package bitutil provides the packed bit containers used by the decoder:
// the binarized pixel grid, a growable bit array and a big-endian bit reader.
package bitutil

const loadFactor = 0.75

// BitArray is a growable array of bits stored in uint32 words. Bit i of the
// array is bit i&31 of word i/32.
type BitArray struct {
	bits []uint32
	size int
}

// NewBitArray creates a new BitArray with the given size.
func NewBitArray(size int) *BitArray {
	if size <= 0 {
		return &BitArray{}
	}
	return &BitArray{bits: makeArray(size), size: size}
}

// Size returns the number of bits in the array.
func (ba *BitArray) Size() int {
	return ba.size
}

// SizeInBytes returns the number of bytes needed to hold the bits.
func (ba *BitArray) SizeInBytes() int {
	return (ba.size + 7) / 8
}

func (ba *BitArray) ensureCapacity(newSize int) {
	if newSize > len(ba.bits)*32 {
		newBits := makeArray(int(float64(newSize) / loadFactor))
		copy(newBits, ba.bits)
		ba.bits = newBits
	}
}

// Get returns true if bit i is set.
func (ba *BitArray) Get(i int) bool {
	return (ba.bits[i/32] & (1 << uint(i&0x1F))) != 0
}

// Set sets bit i.
func (ba *BitArray) Set(i int) {
	ba.bits[i/32] |= 1 << uint(i&0x1F)
}

// AppendBit appends a single bit.
func (ba *BitArray) AppendBit(bit bool) {
	ba.ensureCapacity(ba.size + 1)
	if bit {
		ba.bits[ba.size/32] |= 1 << uint(ba.size&0x1F)
	}
	ba.size++
}

// AppendBits appends the numBits least-significant bits of value, most
// significant first.
func (ba *BitArray) AppendBits(value uint32, numBits int) {
	if numBits < 0 || numBits > 32 {
		panic("bitarray: num bits must be between 0 and 32")
	}
	ba.ensureCapacity(ba.size + numBits)
	for n := numBits - 1; n >= 0; n-- {
		ba.AppendBit((value>>uint(n))&1 == 1)
	}
}

// AppendBitArray appends all bits of other.
func (ba *BitArray) AppendBitArray(other *BitArray) {
	ba.ensureCapacity(ba.size + other.size)
	for i := 0; i < other.size; i++ {
		ba.AppendBit(other.Get(i))
	}
}

// Bytes packs the array into bytes, the first bit becoming the most
// significant bit of the first byte.
func (ba *BitArray) Bytes() []byte {
	out := make([]byte, ba.SizeInBytes())
	for i := 0; i < ba.size; i++ {
		if ba.Get(i) {
			out[i/8] |= 0x80 >> uint(i&7)
		}
	}
	return out
}

func makeArray(size int) []uint32 {
	return make([]uint32, (size+31)/32)
}
