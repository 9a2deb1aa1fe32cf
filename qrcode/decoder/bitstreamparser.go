package decoder

import (
	"errors"
	"fmt"

	"github.com/ericlevine/qrscan"
	"github.com/ericlevine/qrscan/bitutil"
)

const alphanumericChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"

var errCorruptValue = errors.New("qrcode/decoder: value out of range for mode")

// DecodeSegments parses the corrected data codewords of a symbol into its
// segments. Parsing stops at the terminator or when fewer than four bits
// remain. ECI assignments produce no segment of their own; they are recorded
// on every segment that follows.
func DecodeSegments(data []byte, version *Version) ([]qrscan.Segment, error) {
	bs := bitutil.NewBitSource(data)
	var segments []qrscan.Segment
	eci := -1
	for bs.Available() >= 4 {
		bits, _ := bs.ReadBits(4)
		mode, err := ModeForBits(bits)
		if err != nil {
			return nil, err
		}
		if mode == ModeTerminator {
			break
		}
		if mode == ModeECI {
			if eci, err = parseECIValue(bs); err != nil {
				return nil, err
			}
			continue
		}

		count, err := read(bs, mode.CharacterCountBits(version), "count")
		if err != nil {
			return nil, err
		}
		var out []byte
		switch mode {
		case ModeNumeric:
			out, err = decodeNumericSegment(bs, count)
		case ModeAlphanumeric:
			out, err = decodeAlphanumericSegment(bs, count)
		case ModeByte:
			out, err = decodeByteSegment(bs, count)
		case ModeKanji:
			out, err = decodeKanjiSegment(bs, count)
		}
		if err != nil {
			return nil, fmt.Errorf("%s segment: %w", mode, err)
		}
		// kanji characters occupy two bytes each
		produced := len(out)
		if mode == ModeKanji {
			produced /= 2
		}
		if produced != count {
			return nil, fmt.Errorf("%w: %s declared %d, decoded %d",
				qrscan.ErrSegmentLengthMismatch, mode, count, produced)
		}
		segments = append(segments, qrscan.Segment{Mode: mode.String(), ECI: eci, Count: count, Bytes: out})
	}
	return segments, nil
}

// Payload concatenates the bytes of all segments.
func Payload(segments []qrscan.Segment) []byte {
	n := 0
	for _, s := range segments {
		n += len(s.Bytes)
	}
	out := make([]byte, 0, n)
	for _, s := range segments {
		out = append(out, s.Bytes...)
	}
	return out
}

func read(bs *bitutil.BitSource, n int, what string) (int, error) {
	v, err := bs.ReadBits(n)
	if err != nil {
		return 0, fmt.Errorf("%w: reading %s: %w", qrscan.ErrPrematureEndOfData, what, err)
	}
	return v, nil
}

func decodeNumericSegment(bs *bitutil.BitSource, count int) ([]byte, error) {
	out := make([]byte, 0, count)
	for count > 0 {
		digits, width := 3, 10
		switch count {
		case 1:
			digits, width = 1, 4
		case 2:
			digits, width = 2, 7
		}
		v, err := read(bs, width, "digits")
		if err != nil {
			return nil, err
		}
		limit := [4]int{0, 10, 100, 1000}[digits]
		if v >= limit {
			return nil, fmt.Errorf("%w: %d digits value %d", errCorruptValue, digits, v)
		}
		for d := limit / 10; d > 0; d /= 10 {
			out = append(out, byte('0'+v/d%10))
		}
		count -= digits
	}
	return out, nil
}

func decodeAlphanumericSegment(bs *bitutil.BitSource, count int) ([]byte, error) {
	out := make([]byte, 0, count)
	for count > 1 {
		v, err := read(bs, 11, "character pair")
		if err != nil {
			return nil, err
		}
		if v >= 45*45 {
			return nil, fmt.Errorf("%w: pair value %d", errCorruptValue, v)
		}
		out = append(out, alphanumericChars[v/45], alphanumericChars[v%45])
		count -= 2
	}
	if count == 1 {
		v, err := read(bs, 6, "character")
		if err != nil {
			return nil, err
		}
		if v >= 45 {
			return nil, fmt.Errorf("%w: character value %d", errCorruptValue, v)
		}
		out = append(out, alphanumericChars[v])
	}
	return out, nil
}

func decodeByteSegment(bs *bitutil.BitSource, count int) ([]byte, error) {
	out := make([]byte, count)
	for i := range out {
		v, err := read(bs, 8, "byte")
		if err != nil {
			return nil, err
		}
		out[i] = byte(v)
	}
	return out, nil
}

// decodeKanjiSegment expands 13-bit packed characters into Shift_JIS byte
// pairs.
func decodeKanjiSegment(bs *bitutil.BitSource, count int) ([]byte, error) {
	out := make([]byte, 0, 2*count)
	for i := 0; i < count; i++ {
		v, err := read(bs, 13, "kanji")
		if err != nil {
			return nil, err
		}
		assembled := (v/0x0C0)<<8 | v%0x0C0
		if assembled < 0x01F00 {
			assembled += 0x08140
		} else {
			assembled += 0x0C140
		}
		out = append(out, byte(assembled>>8), byte(assembled))
	}
	return out, nil
}

// parseECIValue reads a 1, 2 or 3 byte ECI designator.
func parseECIValue(bs *bitutil.BitSource) (int, error) {
	first, err := read(bs, 8, "ECI")
	if err != nil {
		return 0, err
	}
	switch {
	case first&0x80 == 0:
		return first, nil
	case first&0xC0 == 0x80:
		second, err := read(bs, 8, "ECI")
		if err != nil {
			return 0, err
		}
		return (first&0x3F)<<8 | second, nil
	case first&0xE0 == 0xC0:
		rest, err := read(bs, 16, "ECI")
		if err != nil {
			return 0, err
		}
		return (first&0x1F)<<16 | rest, nil
	}
	return 0, fmt.Errorf("%w: ECI designator byte %#02x", errCorruptValue, first)
}
