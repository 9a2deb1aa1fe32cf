package decoder

import (
	"fmt"
	"math/bits"

	"github.com/ericlevine/qrscan"
)

// ModuleReader reports whether the module at (row, col) of a symbol is dark.
type ModuleReader interface {
	Module(row, col int) bool
}

// FormatInfo is the decoded 5-bit format field of a symbol.
type FormatInfo struct {
	ECLevel ErrorCorrectionLevel
	Mask    int
}

// formatInfoDecodeLookup pairs each masked 15-bit format code with its
// 5-bit data value.
var formatInfoDecodeLookup = [32][2]int{
	{0x5412, 0x00}, {0x5125, 0x01}, {0x5E7C, 0x02}, {0x5B4B, 0x03},
	{0x45F9, 0x04}, {0x40CE, 0x05}, {0x4F97, 0x06}, {0x4AA0, 0x07},
	{0x77C4, 0x08}, {0x72F3, 0x09}, {0x7DAA, 0x0A}, {0x789D, 0x0B},
	{0x662F, 0x0C}, {0x6318, 0x0D}, {0x6C41, 0x0E}, {0x6976, 0x0F},
	{0x1689, 0x10}, {0x13BE, 0x11}, {0x1CE7, 0x12}, {0x19D0, 0x13},
	{0x0762, 0x14}, {0x0255, 0x15}, {0x0D0C, 0x16}, {0x083B, 0x17},
	{0x355F, 0x18}, {0x3068, 0x19}, {0x3F31, 0x1A}, {0x3A06, 0x1B},
	{0x24B4, 0x1C}, {0x2183, 0x1D}, {0x2EDA, 0x1E}, {0x2BED, 0x1F},
}

// Module positions of the two format code copies. Bit i of the code is read
// from entry i; negative coordinates count back from the symbol edge.
var (
	formatCopyOne = [15][2]int{
		{0, 8}, {1, 8}, {2, 8}, {3, 8}, {4, 8}, {5, 8}, {7, 8}, {8, 8},
		{8, 7}, {8, 5}, {8, 4}, {8, 3}, {8, 2}, {8, 1}, {8, 0},
	}
	formatCopyTwo = [15][2]int{
		{8, -1}, {8, -2}, {8, -3}, {8, -4}, {8, -5}, {8, -6}, {8, -7}, {8, -8},
		{-7, 8}, {-6, 8}, {-5, 8}, {-4, 8}, {-3, 8}, {-2, 8}, {-1, 8},
	}
)

// FormatCode returns the masked 15-bit format code for an EC level and mask.
func FormatCode(ecLevel ErrorCorrectionLevel, mask int) int {
	return formatInfoDecodeLookup[ecLevel.Bits()<<3|mask&7][0]
}

// DecodeFormatBits matches a sampled 15-bit format code against the table
// and returns the nearest entry when it is at most three bits away.
func DecodeFormatBits(code int) (FormatInfo, error) {
	best, bestDiff := 0, 32
	for _, entry := range formatInfoDecodeLookup {
		diff := bits.OnesCount32(uint32(code ^ entry[0]))
		if diff < bestDiff {
			best, bestDiff = entry[1], diff
		}
		if diff == 0 {
			break
		}
	}
	if bestDiff > 3 {
		return FormatInfo{}, fmt.Errorf("%w: code %#04x", qrscan.ErrUnreadableFormatInfo, code)
	}
	ecLevel, err := ECLevelForBits(best >> 3)
	if err != nil {
		return FormatInfo{}, err
	}
	return FormatInfo{ECLevel: ecLevel, Mask: best & 7}, nil
}

// ReadFormatInfo samples the copy around the top-left finder and falls back
// to the copy split between the other two finders.
func ReadFormatInfo(r ModuleReader, dimension int) (FormatInfo, error) {
	fi, err := DecodeFormatBits(readCode(r, dimension, formatCopyOne[:]))
	if err == nil {
		return fi, nil
	}
	return DecodeFormatBits(readCode(r, dimension, formatCopyTwo[:]))
}

// ReadVersionInfo samples the version block beside the top-right finder and
// falls back to the transposed block beside the bottom-left one.
func ReadVersionInfo(r ModuleReader, dimension int) (int, error) {
	one, two := 0, 0
	for i := 0; i < 18; i++ {
		if r.Module(i/3, dimension-11+i%3) {
			one |= 1 << i
		}
		if r.Module(dimension-11+i%3, i/3) {
			two |= 1 << i
		}
	}
	if v, err := DecodeVersionBits(one); err == nil {
		return v, nil
	}
	return DecodeVersionBits(two)
}

func readCode(r ModuleReader, dimension int, positions [][2]int) int {
	code := 0
	for i, p := range positions {
		row, col := p[0], p[1]
		if row < 0 {
			row += dimension
		}
		if col < 0 {
			col += dimension
		}
		if r.Module(row, col) {
			code |= 1 << i
		}
	}
	return code
}
