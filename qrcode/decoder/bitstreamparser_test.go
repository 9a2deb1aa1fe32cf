package decoder

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ericlevine/qrscan"
)

func TestDecodeSegmentsNumericRemainders(t *testing.T) {
	// mode 0001, count 0000000100, 0001111011 (123), 0100 (4), terminator
	data := []byte{0x10, 0x10, 0x7B, 0x40, 0x00}
	v, _ := VersionForNumber(1)
	segs, err := DecodeSegments(data, v)
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 1 || string(segs[0].Bytes) != "1234" || segs[0].Count != 4 {
		t.Errorf("got %+v", segs)
	}
}

func TestDecodeSegmentsUsesVersionCountWidth(t *testing.T) {
	// byte mode with a 16 bit count in version 10
	data := []byte{0x40, 0x00, 0x24, 0x14, 0x20, 0x00}
	v, _ := VersionForNumber(10)
	segs, err := DecodeSegments(data, v)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(Payload(segs), []byte("AB")) {
		t.Errorf("payload = %q", Payload(segs))
	}
}

func TestDecodeSegmentsECIWidths(t *testing.T) {
	v, _ := VersionForNumber(1)
	for _, tc := range []struct {
		data []byte
		want int
	}{
		// 0111 00011010, then byte mode with count 0
		{[]byte{0x71, 0xA4, 0x00, 0x00}, 26},
		// 0111 10000011 11101000 (1000)
		{[]byte{0x78, 0x3E, 0x84, 0x00, 0x00}, 1000},
		// 0111 11000001 10000110 10100000 (100000)
		{[]byte{0x7C, 0x18, 0x6A, 0x04, 0x00, 0x00}, 100000},
	} {
		segs, err := DecodeSegments(tc.data, v)
		if err != nil {
			t.Fatalf("% x: %v", tc.data, err)
		}
		if len(segs) != 1 || segs[0].ECI != tc.want {
			t.Errorf("% x: got %+v, want ECI %d", tc.data, segs, tc.want)
		}
	}
}

func TestDecodeSegmentsErrors(t *testing.T) {
	v, _ := VersionForNumber(1)
	for _, tc := range []struct {
		name string
		data []byte
		want error
	}{
		{"count past end", []byte{0x10, 0x20}, qrscan.ErrPrematureEndOfData},
		{"byte past end", []byte{0x40, 0x50, 0x41}, qrscan.ErrPrematureEndOfData},
		{"structured append", []byte{0x30, 0x00}, qrscan.ErrUnsupportedMode},
		{"hanzi", []byte{0xD0, 0x00}, qrscan.ErrUnsupportedMode},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeSegments(tc.data, v)
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestDecodeSegmentsRejectsOutOfRangeDigits(t *testing.T) {
	// three digits encoded as 1023
	data := []byte{0x10, 0x0F, 0xFF, 0x00}
	v, _ := VersionForNumber(1)
	if _, err := DecodeSegments(data, v); err == nil {
		t.Error("expected an error for a 10 bit group above 999")
	}
}
