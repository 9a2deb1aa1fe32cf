// Package decoder turns a sampled QR symbol into payload segments: format and
// version information, the structural base matrix, unmasking, codeword
// restoration, block correction and bit stream parsing.
package decoder

// ErrorCorrectionLevel is one of the four QR error correction levels.
type ErrorCorrectionLevel int

const (
	ECLevelL ErrorCorrectionLevel = iota // ~7% correction
	ECLevelM                             // ~15% correction
	ECLevelQ                             // ~25% correction
	ECLevelH                             // ~30% correction
)

// fixedTolerance is the share, in percent, of function pattern modules that
// may be misread before a candidate is rejected.
var fixedTolerance = [4]int{7, 15, 25, 30}

// Bits returns the 2-bit format information encoding of the level.
func (ecl ErrorCorrectionLevel) Bits() int {
	return [4]int{0x01, 0x00, 0x03, 0x02}[ecl]
}

// FixedTolerance returns the percentage of fixed modules that may mismatch.
func (ecl ErrorCorrectionLevel) FixedTolerance() int {
	return fixedTolerance[ecl]
}

func (ecl ErrorCorrectionLevel) String() string {
	if ecl < ECLevelL || ecl > ECLevelH {
		return "?"
	}
	return string("LMQH"[ecl])
}

// ECLevelForBits returns the level encoded by the 2-bit format field, where
// M=0, L=1, H=2 and Q=3.
func ECLevelForBits(bits int) (ErrorCorrectionLevel, error) {
	switch bits {
	case 0:
		return ECLevelM, nil
	case 1:
		return ECLevelL, nil
	case 2:
		return ECLevelH, nil
	case 3:
		return ECLevelQ, nil
	}
	return 0, errInvalidECLevel
}
