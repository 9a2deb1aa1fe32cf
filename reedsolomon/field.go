// Package reedsolomon implements Reed-Solomon coding over GF(256) with the
// primitive polynomial x^8 + x^4 + x^3 + x^2 + 1 and generator base 0, as
// used by QR symbols.
package reedsolomon

const (
	fieldSize = 256
	primitive = 0x011D
)

var expTable, logTable = buildTables()

func buildTables() (exp, log [fieldSize]byte) {
	x := 1
	for i := 0; i < fieldSize; i++ {
		exp[i] = byte(x)
		x <<= 1
		if x >= fieldSize {
			x ^= primitive
		}
	}
	for i := 0; i < fieldSize-1; i++ {
		log[exp[i]] = byte(i)
	}
	return exp, log
}

// ExpTable returns the antilog table: entry i holds alpha^i. Entry 255 wraps
// around to 1.
func ExpTable() [fieldSize]byte { return expTable }

// LogTable returns the log table: entry a holds i with alpha^i = a. Entry 0
// is undefined and reads as 0.
func LogTable() [fieldSize]byte { return logTable }

// Exp returns alpha^a for any integer a, reducing the exponent mod 255.
func Exp(a int) byte {
	a %= fieldSize - 1
	if a < 0 {
		a += fieldSize - 1
	}
	return expTable[a]
}

// Log returns the discrete log of a. It panics for a == 0.
func Log(a byte) int {
	if a == 0 {
		panic("reedsolomon: log(0)")
	}
	return int(logTable[a])
}

// Multiply returns a * b in GF(256).
func Multiply(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[(int(logTable[a])+int(logTable[b]))%(fieldSize-1)]
}

// Divide returns a / b in GF(256). It panics for b == 0.
func Divide(a, b byte) byte {
	if b == 0 {
		panic("reedsolomon: divide by zero")
	}
	if a == 0 {
		return 0
	}
	return Exp(int(logTable[a]) - int(logTable[b]))
}

// Inverse returns the multiplicative inverse of a.
func Inverse(a byte) byte {
	return Divide(1, a)
}
