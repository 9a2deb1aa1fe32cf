package decoder

import (
	"fmt"

	"github.com/ericlevine/qrscan"
)

// Mode is a segment mode indicator.
type Mode int

const (
	ModeTerminator   Mode = 0x0
	ModeNumeric      Mode = 0x1
	ModeAlphanumeric Mode = 0x2
	ModeByte         Mode = 0x4
	ModeECI          Mode = 0x7
	ModeKanji        Mode = 0x8
)

// count field widths for versions 1-9, 10-26 and 27-40
var characterCountBits = map[Mode][3]int{
	ModeNumeric:      {10, 12, 14},
	ModeAlphanumeric: {9, 11, 13},
	ModeByte:         {8, 16, 16},
	ModeKanji:        {8, 10, 12},
}

// ModeForBits returns the Mode for a 4-bit indicator.
func ModeForBits(bits int) (Mode, error) {
	switch m := Mode(bits); m {
	case ModeTerminator, ModeNumeric, ModeAlphanumeric, ModeByte, ModeECI, ModeKanji:
		return m, nil
	}
	return 0, fmt.Errorf("%w: indicator %#x", qrscan.ErrUnsupportedMode, bits)
}

// CharacterCountBits returns the width of the character count field of the
// mode in a symbol of the given version.
func (m Mode) CharacterCountBits(version *Version) int {
	tier := 0
	switch {
	case version.Number >= 27:
		tier = 2
	case version.Number >= 10:
		tier = 1
	}
	return characterCountBits[m][tier]
}

func (m Mode) String() string {
	switch m {
	case ModeTerminator:
		return "TERMINATOR"
	case ModeNumeric:
		return "NUMERIC"
	case ModeAlphanumeric:
		return "ALPHANUMERIC"
	case ModeByte:
		return "BYTE"
	case ModeECI:
		return "ECI"
	case ModeKanji:
		return "KANJI"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}
