package reedsolomon

import "sync"

var (
	generatorsMu sync.Mutex
	generators   = [][]byte{{1}}
)

// Generator returns the generator polynomial of the given degree,
// (x - alpha^0)(x - alpha^1)...(x - alpha^(degree-1)), highest degree first.
// The returned slice is shared and must not be modified.
func Generator(degree int) []byte {
	if degree < 0 {
		panic("reedsolomon: negative degree")
	}
	generatorsMu.Lock()
	defer generatorsMu.Unlock()
	for d := len(generators); d <= degree; d++ {
		last := generators[d-1]
		root := Exp(d - 1)
		next := make([]byte, len(last)+1)
		for i, c := range last {
			next[i] ^= c
			next[i+1] ^= Multiply(c, root)
		}
		generators = append(generators, next)
	}
	return generators[degree]
}

// PolynomialDivide returns the remainder of dividend divided by divisor,
// both stored highest degree first. The remainder has len(divisor)-1
// coefficients, leading zeros included.
func PolynomialDivide(dividend, divisor []byte) []byte {
	if len(divisor) == 0 || divisor[0] == 0 {
		panic("reedsolomon: divisor must have a nonzero leading coefficient")
	}
	n := len(divisor) - 1
	work := make([]byte, len(dividend))
	copy(work, dividend)
	lead := divisor[0]
	for i := 0; i+n < len(work); i++ {
		if work[i] == 0 {
			continue
		}
		scale := Divide(work[i], lead)
		for j := 0; j <= n; j++ {
			work[i+j] ^= Multiply(divisor[j], scale)
		}
	}
	remainder := make([]byte, n)
	if len(work) >= n {
		copy(remainder, work[len(work)-n:])
	} else {
		copy(remainder[n-len(work):], work)
	}
	return remainder
}

// Encode returns the ecCount error correction codewords for data.
func Encode(data []byte, ecCount int) []byte {
	if ecCount <= 0 {
		panic("reedsolomon: no error correction codewords")
	}
	shifted := make([]byte, len(data)+ecCount)
	copy(shifted, data)
	return PolynomialDivide(shifted, Generator(ecCount))
}
