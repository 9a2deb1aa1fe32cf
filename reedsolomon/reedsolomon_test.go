package reedsolomon

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeBlock(data []byte, ecCount int) []byte {
	return append(append([]byte{}, data...), Encode(data, ecCount)...)
}

func TestFieldTables(t *testing.T) {
	exp := ExpTable()
	log := LogTable()
	assert.Equal(t, byte(1), exp[0])
	assert.Equal(t, byte(2), exp[1])
	assert.Equal(t, byte(0x1D), exp[8], "alpha^8 reduces by the primitive polynomial")
	assert.Equal(t, byte(1), exp[255])
	for i := 0; i < 255; i++ {
		assert.Equal(t, byte(i), log[exp[i]])
	}
	for a := 1; a < 256; a++ {
		require.Equal(t, byte(1), Multiply(byte(a), Inverse(byte(a))), "a=%d", a)
	}
	assert.Equal(t, byte(0), Multiply(0, 100))
	assert.Equal(t, byte(0), Multiply(100, 0))
}

func TestGeneratorDegreeSeven(t *testing.T) {
	// Exponents of the version 1-L generator polynomial.
	want := []int{0, 87, 229, 146, 149, 238, 102, 21}
	g := Generator(7)
	require.Len(t, g, 8)
	for i, c := range g {
		assert.Equal(t, want[i], Log(c), "coefficient %d", i)
	}
}

func TestEncodeKnownBlock(t *testing.T) {
	// "01234567" in numeric mode, version 1-M.
	data := []byte{0x10, 0x20, 0x0C, 0x56, 0x61, 0x80, 0xEC, 0x11, 0xEC, 0x11, 0xEC, 0x11, 0xEC, 0x11, 0xEC, 0x11}
	want := []byte{0xA5, 0x24, 0xD4, 0xC1, 0xED, 0x36, 0xC7, 0x87, 0x2C, 0x55}
	assert.Equal(t, want, Encode(data, 10))
}

func TestPolynomialDivideOfCodewordIsZero(t *testing.T) {
	block := encodeBlock([]byte("hello reed solomon"), 12)
	assert.Equal(t, make([]byte, 12), PolynomialDivide(block, Generator(12)))
	_, clean := Syndromes(block, 12)
	assert.True(t, clean)
}

func TestCorrectDataNoErrors(t *testing.T) {
	block := encodeBlock([]byte{10, 20, 30, 40, 50}, 4)
	corrected, err := CorrectData(block, 4)
	require.NoError(t, err)
	assert.Zero(t, corrected)
}

func TestCorrectDataThreeErrors(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	block := encodeBlock(data, 7)
	received := append([]byte{}, block...)
	received[0] = 0
	received[3] = 200
	received[6] = 100

	corrected, err := CorrectData(received, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, corrected)
	assert.Equal(t, block, received)
}

func TestCorrectDataCapacity(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, tc := range []struct{ dataLen, ecCount int }{
		{19, 7}, {16, 10}, {13, 13}, {9, 17}, {43, 24}, {15, 30}, {118, 30},
	} {
		data := make([]byte, tc.dataLen)
		for i := range data {
			data[i] = byte(rng.IntN(256))
		}
		block := encodeBlock(data, tc.ecCount)
		for trial := 0; trial < 20; trial++ {
			received := append([]byte{}, block...)
			for _, pos := range rng.Perm(len(block))[:tc.ecCount/2] {
				received[pos] ^= byte(1 + rng.IntN(255))
			}
			corrected, err := CorrectData(received, tc.ecCount)
			require.NoError(t, err, "n=%d k=%d trial %d", len(block), tc.ecCount, trial)
			require.Equal(t, tc.ecCount/2, corrected)
			require.True(t, bytes.Equal(block, received))
		}
	}
}

func TestCorrectDataBeyondCapacity(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	data := make([]byte, 16)
	for i := range data {
		data[i] = byte(rng.IntN(256))
	}
	block := encodeBlock(data, 10)
	for trial := 0; trial < 50; trial++ {
		received := append([]byte{}, block...)
		for _, pos := range rng.Perm(len(block))[:6] {
			received[pos] ^= byte(1 + rng.IntN(255))
		}
		snapshot := append([]byte{}, received...)
		_, err := CorrectData(received, 10)
		if err != nil {
			assert.True(t, errors.Is(err, ErrUncorrectable))
			assert.Equal(t, snapshot, received, "failed correction must leave the block untouched")
			continue
		}
		// A miscorrection can only land on another valid codeword.
		_, clean := Syndromes(received, 10)
		assert.True(t, clean)
		assert.NotEqual(t, block, received)
	}
}

func TestCorrectDataRejectsBadShape(t *testing.T) {
	_, err := CorrectData(make([]byte, 4), 4)
	assert.Error(t, err)
	_, err = CorrectData(make([]byte, 300), 10)
	assert.Error(t, err)
}
