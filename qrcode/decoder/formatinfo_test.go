package decoder

import (
	"errors"
	"testing"

	"github.com/ericlevine/qrscan"
)

func TestDecodeFormatBitsCorrectsThreeBits(t *testing.T) {
	for _, entry := range formatInfoDecodeLookup {
		code, data := entry[0], entry[1]
		want := FormatInfo{Mask: data & 7}
		want.ECLevel, _ = ECLevelForBits(data >> 3)
		for a := 0; a < 15; a++ {
			for b := a; b < 15; b++ {
				for c := b; c < 15; c++ {
					damaged := code ^ (1 << a) ^ (1 << b) ^ (1 << c)
					got, err := DecodeFormatBits(damaged)
					if err != nil || got != want {
						t.Fatalf("code %#04x bits %d,%d,%d: got %+v, %v", code, a, b, c, got, err)
					}
				}
			}
		}
	}
}

func TestDecodeFormatBitsNeverRecoversFourFlips(t *testing.T) {
	for _, entry := range formatInfoDecodeLookup {
		code := entry[0]
		want := FormatInfo{Mask: entry[1] & 7}
		want.ECLevel, _ = ECLevelForBits(entry[1] >> 3)
		damaged := code ^ 0b1111
		got, err := DecodeFormatBits(damaged)
		if err == nil && got == want {
			t.Errorf("code %#04x: four flipped bits decoded as the original", code)
		}
		if err != nil && !errors.Is(err, qrscan.ErrUnreadableFormatInfo) {
			t.Errorf("code %#04x: unexpected error %v", code, err)
		}
	}
}

func TestFormatCodeMatchesTable(t *testing.T) {
	// level M is encoded as 00, so M with mask 0 is the bare mask value
	if got := FormatCode(ECLevelM, 0); got != 0x5412 {
		t.Errorf("FormatCode(M, 0) = %#04x, want 0x5412", got)
	}
	if got := FormatCode(ECLevelH, 7); got != 0x083B {
		t.Errorf("FormatCode(H, 7) = %#04x, want 0x083b", got)
	}
}

func TestDecodeVersionBits(t *testing.T) {
	for i, code := range versionDecodeInfo {
		want := i + 7
		for _, damaged := range []int{code, code ^ 1, code ^ 0b10_0000_0000_0000_0101, code ^ 0x38000} {
			got, err := DecodeVersionBits(damaged)
			if err != nil || got != want {
				t.Errorf("version %d code %#05x: got %d, %v", want, damaged, got, err)
			}
		}
	}
	if _, err := DecodeVersionBits(0); !errors.Is(err, qrscan.ErrUnreadableVersionInfo) {
		t.Errorf("zero code: got %v", err)
	}
}

func TestBaseMatrixDataModules(t *testing.T) {
	remainder := map[int]int{1: 0, 2: 7, 6: 7, 7: 0, 14: 3, 21: 4, 28: 3, 35: 0, 40: 0}
	for number, rem := range remainder {
		v, _ := VersionForNumber(number)
		m := NewBaseMatrix(v)
		if got, want := len(m.Placement()), 8*v.TotalCodewords+rem; got != want {
			t.Errorf("version %d: %d data modules, want %d", number, got, want)
		}
	}
}

func TestBaseMatrixStructure(t *testing.T) {
	v, _ := VersionForNumber(7)
	m := NewBaseMatrix(v)
	dim := m.Dimension()
	if dim != 45 {
		t.Fatalf("dimension = %d, want 45", dim)
	}
	checks := []struct {
		what        string
		row, col    int
		fixed, dark bool
		data        bool
	}{
		{"finder corner", 0, 0, true, true, false},
		{"separator", 7, 7, true, false, false},
		{"finder eye", 3, 3, true, true, false},
		{"format", 8, 0, false, false, false},
		{"dark module", dim - 8, 8, true, true, false},
		{"timing even", 6, 8, true, true, false},
		{"timing odd", 6, 9, true, false, false},
		{"alignment centre", 22, 22, true, true, false},
		{"alignment ring", 21, 22, true, false, false},
		{"version block", 0, dim - 11, false, false, false},
		{"version block transposed", dim - 9, 5, false, false, false},
		{"bottom-right data", dim - 1, dim - 1, false, false, true},
		{"inner data", 9, 9, false, false, true},
	}
	for _, c := range checks {
		if m.Fixed(c.row, c.col) != c.fixed || m.Dark(c.row, c.col) != c.dark || m.IsData(c.row, c.col) != c.data {
			t.Errorf("%s (%d,%d): fixed=%v dark=%v data=%v", c.what, c.row, c.col,
				m.Fixed(c.row, c.col), m.Dark(c.row, c.col), m.IsData(c.row, c.col))
		}
	}
	if NewBaseMatrix(v) != m {
		t.Error("base matrix is not shared per version")
	}
}
