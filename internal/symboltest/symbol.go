// Package symboltest builds QR symbols with a chosen version, EC level and
// mask so decoder tests can exercise exact layouts, including ones a general
// purpose encoder would never pick.
package symboltest

import (
	"errors"
	"fmt"
	"image"

	"github.com/ericlevine/qrscan"
	"github.com/ericlevine/qrscan/bitutil"
	"github.com/ericlevine/qrscan/qrcode/decoder"
	"github.com/ericlevine/qrscan/reedsolomon"
)

const versionInfoPoly = 0x1f25

var errTooLong = errors.New("symboltest: data does not fit the symbol")

// Segment is one segment to encode. For ModeECI only ECI is used; for
// ModeKanji Data holds Shift_JIS byte pairs.
type Segment struct {
	Mode decoder.Mode
	ECI  int
	Data []byte
}

// Symbol is an encoded symbol and the layout needed to damage it on purpose.
type Symbol struct {
	Version *decoder.Version
	ECLevel decoder.ErrorCorrectionLevel
	Mask    int
	// Modules holds the dark modules, x being the column.
	Modules *bitutil.BitMatrix
	// Codewords is the interleaved codeword stream placed in the symbol.
	Codewords []byte

	placement [][2]int
}

// ChooseMode returns the most compact single mode that can hold content.
func ChooseMode(content string) decoder.Mode {
	numeric, alpha := true, true
	for i := 0; i < len(content); i++ {
		c := content[i]
		if c < '0' || c > '9' {
			numeric = false
		}
		if alphanumericCode(c) < 0 {
			alpha = false
		}
	}
	switch {
	case numeric && len(content) > 0:
		return decoder.ModeNumeric
	case alpha && len(content) > 0:
		return decoder.ModeAlphanumeric
	}
	return decoder.ModeByte
}

// Text returns content as a single segment in its most compact mode.
func Text(content string) []Segment {
	return []Segment{{Mode: ChooseMode(content), Data: []byte(content)}}
}

// EncodeText is Encode for a single auto-moded text segment.
func EncodeText(content string, ecLevel decoder.ErrorCorrectionLevel, version, mask int) (*Symbol, error) {
	return Encode(Text(content), ecLevel, version, mask)
}

// Encode builds a symbol holding segments. A version of 0 selects the
// smallest version that fits. mask must be 0 to 7.
func Encode(segments []Segment, ecLevel decoder.ErrorCorrectionLevel, version, mask int) (*Symbol, error) {
	if mask < 0 || mask > 7 {
		return nil, fmt.Errorf("symboltest: mask %d out of range", mask)
	}
	var v *decoder.Version
	if version > 0 {
		var err error
		if v, err = decoder.VersionForNumber(version); err != nil {
			return nil, err
		}
	} else {
		for n := 1; n <= 40 && v == nil; n++ {
			cand, _ := decoder.VersionForNumber(n)
			bits, err := segmentBits(segments, cand)
			if err != nil {
				return nil, err
			}
			if bits.Size() <= 8*cand.DataCodewords(ecLevel) {
				v = cand
			}
		}
		if v == nil {
			return nil, errTooLong
		}
	}

	bits, err := segmentBits(segments, v)
	if err != nil {
		return nil, err
	}
	data, err := terminate(bits, v.DataCodewords(ecLevel))
	if err != nil {
		return nil, err
	}
	sym := &Symbol{
		Version:   v,
		ECLevel:   ecLevel,
		Mask:      mask,
		Codewords: interleave(data, v, ecLevel),
	}
	sym.place()
	return sym, nil
}

func segmentBits(segments []Segment, v *decoder.Version) (*bitutil.BitArray, error) {
	bits := bitutil.NewBitArray(0)
	for _, seg := range segments {
		bits.AppendBits(uint32(seg.Mode), 4)
		if seg.Mode == decoder.ModeECI {
			switch {
			case seg.ECI < 1<<7:
				bits.AppendBits(uint32(seg.ECI), 8)
			case seg.ECI < 1<<14:
				bits.AppendBits(uint32(0x8000|seg.ECI), 16)
			default:
				bits.AppendBits(uint32(0xC00000|seg.ECI), 24)
			}
			continue
		}
		count := len(seg.Data)
		if seg.Mode == decoder.ModeKanji {
			count /= 2
		}
		width := seg.Mode.CharacterCountBits(v)
		if count >= 1<<width {
			return nil, fmt.Errorf("%w: %d characters in a %d bit count", errTooLong, count, width)
		}
		bits.AppendBits(uint32(count), width)
		if err := appendData(bits, seg); err != nil {
			return nil, err
		}
	}
	return bits, nil
}

func appendData(bits *bitutil.BitArray, seg Segment) error {
	d := seg.Data
	switch seg.Mode {
	case decoder.ModeNumeric:
		for i := 0; i < len(d); i += 3 {
			group := d[i:min(i+3, len(d))]
			v := 0
			for _, c := range group {
				if c < '0' || c > '9' {
					return fmt.Errorf("symboltest: %q is not a digit", c)
				}
				v = v*10 + int(c-'0')
			}
			bits.AppendBits(uint32(v), [4]int{0, 4, 7, 10}[len(group)])
		}
	case decoder.ModeAlphanumeric:
		for i := 0; i < len(d); i += 2 {
			c1 := alphanumericCode(d[i])
			if c1 < 0 {
				return fmt.Errorf("symboltest: %q is not alphanumeric", d[i])
			}
			if i+1 == len(d) {
				bits.AppendBits(uint32(c1), 6)
				break
			}
			c2 := alphanumericCode(d[i+1])
			if c2 < 0 {
				return fmt.Errorf("symboltest: %q is not alphanumeric", d[i+1])
			}
			bits.AppendBits(uint32(c1*45+c2), 11)
		}
	case decoder.ModeByte:
		for _, c := range d {
			bits.AppendBits(uint32(c), 8)
		}
	case decoder.ModeKanji:
		for i := 0; i+1 < len(d); i += 2 {
			c := int(d[i])<<8 | int(d[i+1])
			switch {
			case c >= 0x8140 && c <= 0x9FFC:
				c -= 0x8140
			case c >= 0xE040 && c <= 0xEBBF:
				c -= 0xC140
			default:
				return fmt.Errorf("symboltest: %#04x is not a kanji code", c)
			}
			bits.AppendBits(uint32((c>>8)*0xC0+(c&0xFF)), 13)
		}
	default:
		return fmt.Errorf("symboltest: cannot encode mode %s", seg.Mode)
	}
	return nil
}

func alphanumericCode(c byte) int {
	for i := 0; i < 45; i++ {
		if "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"[i] == c {
			return i
		}
	}
	return -1
}

// terminate appends the terminator, byte alignment and pad codewords.
func terminate(bits *bitutil.BitArray, numDataBytes int) ([]byte, error) {
	capacity := 8 * numDataBytes
	if bits.Size() > capacity {
		return nil, fmt.Errorf("%w: %d bits for %d", errTooLong, bits.Size(), capacity)
	}
	for i := 0; i < 4 && bits.Size() < capacity; i++ {
		bits.AppendBit(false)
	}
	for bits.Size()&7 != 0 {
		bits.AppendBit(false)
	}
	for pad := 0; bits.SizeInBytes() < numDataBytes; pad++ {
		bits.AppendBits([2]uint32{0xEC, 0x11}[pad&1], 8)
	}
	return bits.Bytes(), nil
}

// interleave splits data into blocks, appends their EC codewords and
// interleaves the result.
func interleave(data []byte, v *decoder.Version, ecLevel decoder.ErrorCorrectionLevel) []byte {
	ecb := v.ECBlocksForLevel(ecLevel)
	var blocks [][]byte
	var ecs [][]byte
	off := 0
	for _, g := range ecb.Blocks {
		for i := 0; i < g.Count; i++ {
			blk := data[off : off+g.DataCodewords]
			blocks = append(blocks, blk)
			ecs = append(ecs, reedsolomon.Encode(blk, ecb.ECCodewordsPerBlock))
			off += g.DataCodewords
		}
	}
	out := make([]byte, 0, v.TotalCodewords)
	for i := 0; len(out) < len(data); i++ {
		for _, blk := range blocks {
			if i < len(blk) {
				out = append(out, blk[i])
			}
		}
	}
	for i := 0; i < ecb.ECCodewordsPerBlock; i++ {
		for _, ec := range ecs {
			out = append(out, ec[i])
		}
	}
	return out
}

// place draws the function patterns, format and version information, and
// the masked codewords.
func (s *Symbol) place() {
	base := decoder.NewBaseMatrix(s.Version)
	dim := base.Dimension()
	m := bitutil.NewBitMatrix(dim)
	put := func(row, col int, dark bool) {
		if dark {
			m.Set(col, row)
		} else {
			m.Unset(col, row)
		}
	}
	for row := 0; row < dim; row++ {
		for col := 0; col < dim; col++ {
			if base.Fixed(row, col) {
				put(row, col, base.Dark(row, col))
			}
		}
	}

	format := decoder.FormatCode(s.ECLevel, s.Mask)
	for i := 0; i < 15; i++ {
		dark := format>>uint(i)&1 == 1
		if i < 6 {
			put(i, 8, dark)
		} else if i < 8 {
			put(i+1, 8, dark)
		} else if i == 8 {
			put(8, 7, dark)
		} else {
			put(8, 14-i, dark)
		}
		if i < 8 {
			put(8, dim-1-i, dark)
		} else {
			put(dim-15+i, 8, dark)
		}
	}

	if s.Version.Number >= 7 {
		code := s.Version.Number<<12 | bchCode(s.Version.Number, versionInfoPoly)
		for i := 0; i < 18; i++ {
			dark := code>>uint(i)&1 == 1
			put(i/3, dim-11+i%3, dark)
			put(dim-11+i%3, i/3, dark)
		}
	}

	cond := decoder.DataMasks[s.Mask]
	s.placement = base.Placement()
	for n, p := range s.placement {
		dark := n < 8*len(s.Codewords) && s.Codewords[n>>3]&(0x80>>uint(n&7)) != 0
		put(p[0], p[1], dark != cond(p[0], p[1]))
	}
	s.Modules = m
}

// bchCode returns the remainder of value shifted past the degree of poly,
// divided by poly over GF(2).
func bchCode(value, poly int) int {
	degree := bitLen(poly) - 1
	value <<= uint(degree)
	for bitLen(value) > degree {
		value ^= poly << uint(bitLen(value)-degree-1)
	}
	return value
}

func bitLen(v int) int {
	n := 0
	for ; v != 0; v >>= 1 {
		n++
	}
	return n
}

// CorruptCodeword inverts all eight modules of codeword i of the interleaved
// stream.
func (s *Symbol) CorruptCodeword(i int) {
	for _, p := range s.placement[8*i : 8*i+8] {
		s.Modules.Flip(p[1], p[0])
	}
}

// FlipVersionInfo inverts every module of the first (top right) or the
// second (bottom left) version information area. Versions below 7 have none.
func (s *Symbol) FlipVersionInfo(second bool) {
	if s.Version.Number < 7 {
		return
	}
	dim := s.Version.Dimension()
	for i := 0; i < 18; i++ {
		row, col := i/3, dim-11+i%3
		if second {
			row, col = col, row
		}
		s.Modules.Flip(col, row)
	}
}

// BlockCodeword returns the index in the interleaved stream of codeword j of
// block b, counting the block's data codewords first and its EC codewords
// after them.
func (s *Symbol) BlockCodeword(b, j int) int {
	ecb := s.Version.ECBlocksForLevel(s.ECLevel)
	var sizes []int
	for _, g := range ecb.Blocks {
		for i := 0; i < g.Count; i++ {
			sizes = append(sizes, g.DataCodewords)
		}
	}
	n := len(sizes)
	if j >= sizes[b] {
		return s.Version.DataCodewords(s.ECLevel) + (j-sizes[b])*n + b
	}
	if j < sizes[0] {
		return j*n + b
	}
	// extra codeword of a longer block
	first := 0
	for sizes[first] == sizes[0] {
		first++
	}
	return sizes[0]*n + b - first
}

// Image renders the symbol at scale pixels per module with a quiet zone of
// quiet modules.
func (s *Symbol) Image(scale, quiet int) *image.Gray {
	return qrscan.GridImage(s.Modules, scale, quiet)
}
