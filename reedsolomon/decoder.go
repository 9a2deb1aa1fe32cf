package reedsolomon

import (
	"errors"
	"fmt"
)

// ErrUncorrectable is returned when a block holds more errors than its
// error correction codewords can repair.
var ErrUncorrectable = errors.New("reedsolomon: too many errors")

// Syndromes returns S_j = R(alpha^j) for j = 0..ecCount-1, where the first
// codeword of block is the highest degree coefficient of R. The second
// result reports whether every syndrome is zero.
func Syndromes(block []byte, ecCount int) ([]byte, bool) {
	syndromes := make([]byte, ecCount)
	clean := true
	for j := 0; j < ecCount; j++ {
		syndromes[j] = evalHighFirst(block, Exp(j))
		if syndromes[j] != 0 {
			clean = false
		}
	}
	return syndromes, clean
}

// CorrectData repairs block in place, where the last ecCount codewords are
// the error correction codewords, and returns the number of corrected
// codewords. The block is left untouched when an error is returned.
func CorrectData(block []byte, ecCount int) (int, error) {
	n := len(block)
	if ecCount <= 0 || ecCount >= n || n > fieldSize-1 {
		return 0, fmt.Errorf("reedsolomon: invalid block of %d codewords with %d ec codewords", n, ecCount)
	}
	syndromes, clean := Syndromes(block, ecCount)
	if clean {
		return 0, nil
	}

	sigma, numErrors := berlekampMassey(syndromes)
	if numErrors > ecCount/2 {
		return 0, fmt.Errorf("%w: %d errors, capacity %d", ErrUncorrectable, numErrors, ecCount/2)
	}

	positions := chienSearch(sigma, n)
	if len(positions) != numErrors {
		return 0, fmt.Errorf("%w: locator has %d roots in range, expected %d", ErrUncorrectable, len(positions), numErrors)
	}

	omega := mulTruncated(syndromes, sigma, ecCount)
	sigmaPrime := derivative(sigma)
	repaired := make([]byte, n)
	copy(repaired, block)
	for _, p := range positions {
		xInv := Exp(-p)
		denominator := evalLowFirst(sigmaPrime, xInv)
		if denominator == 0 {
			return 0, fmt.Errorf("%w: zero locator derivative", ErrUncorrectable)
		}
		magnitude := Multiply(Exp(p), Divide(evalLowFirst(omega, xInv), denominator))
		repaired[n-1-p] ^= magnitude
	}

	if _, ok := Syndromes(repaired, ecCount); !ok {
		return 0, fmt.Errorf("%w: residual syndrome after correction", ErrUncorrectable)
	}
	copy(block, repaired)
	return numErrors, nil
}

// berlekampMassey returns the error locator polynomial, lowest degree first
// with a constant term of 1, and its linear complexity L.
func berlekampMassey(syndromes []byte) ([]byte, int) {
	k := len(syndromes)
	c := make([]byte, k+1)
	b := make([]byte, k+1)
	c[0], b[0] = 1, 1
	l := 0
	shift := 1
	var lastDiscrepancy byte = 1

	for n := 0; n < k; n++ {
		d := syndromes[n]
		for i := 1; i <= l; i++ {
			d ^= Multiply(c[i], syndromes[n-i])
		}
		if d == 0 {
			shift++
			continue
		}
		scale := Divide(d, lastDiscrepancy)
		if 2*l <= n {
			previous := make([]byte, len(c))
			copy(previous, c)
			for i := 0; i+shift < len(c); i++ {
				c[i+shift] ^= Multiply(scale, b[i])
			}
			l = n + 1 - l
			b = previous
			lastDiscrepancy = d
			shift = 1
		} else {
			for i := 0; i+shift < len(c); i++ {
				c[i+shift] ^= Multiply(scale, b[i])
			}
			shift++
		}
	}
	return c[:l+1], l
}

// chienSearch returns every power p in [0, n) for which sigma(alpha^-p) is
// zero. An error at power p sits at block index n-1-p.
func chienSearch(sigma []byte, n int) []int {
	var positions []int
	for p := 0; p < n; p++ {
		if evalLowFirst(sigma, Exp(-p)) == 0 {
			positions = append(positions, p)
		}
	}
	return positions
}
