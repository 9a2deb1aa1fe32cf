// Package qrscan locates and decodes QR matrix symbols in raster images.
//
// The root package holds the types shared by every stage: luminance sources,
// binary bitmaps, decode results and the error taxonomy. Detection and
// decoding live in the qrcode package and its subpackages.
package qrscan

import (
	"context"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ericlevine/qrscan/bitutil"
	"github.com/ericlevine/qrscan/charset"
)

// ResultPoint represents a point of interest in an image.
type ResultPoint struct {
	X, Y float64
}

// Distance returns the distance between two points.
func Distance(a, b ResultPoint) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Segment is one decoded run of the symbol's bit stream.
type Segment struct {
	// Mode is the segment mode name: NUMERIC, ALPHANUMERIC, BYTE or KANJI.
	Mode string `json:"mode" yaml:"mode"`
	// ECI is the character set assignment in effect, or -1 when none was
	// declared before the segment.
	ECI   int    `json:"eci" yaml:"eci"`
	Count int    `json:"count" yaml:"count"`
	Bytes []byte `json:"bytes" yaml:"bytes"`
}

// Result is one successfully decoded symbol.
type Result struct {
	Payload         []byte        `json:"payload" yaml:"payload"`
	Segments        []Segment     `json:"segments" yaml:"segments"`
	Version         int           `json:"version" yaml:"version"`
	ECLevel         string        `json:"ec_level" yaml:"ec_level"`
	Mask            int           `json:"mask" yaml:"mask"`
	ErrorsCorrected int           `json:"errors_corrected" yaml:"errors_corrected"`
	// FixedMismatches counts finder, timing and alignment modules that were
	// sampled with the wrong colour.
	FixedMismatches int           `json:"fixed_mismatches" yaml:"fixed_mismatches"`
	Points          []ResultPoint `json:"points" yaml:"points"`
	Timestamp       time.Time     `json:"timestamp" yaml:"timestamp"`
}

// Text interprets the payload as text. Byte segments preceded by an ECI
// assignment are transcoded from that character set, kanji segments from
// Shift_JIS, and everything else is taken as UTF-8 when valid or guessed
// otherwise.
func (r *Result) Text() string {
	if len(r.Segments) == 0 {
		return string(r.Payload)
	}
	var sb strings.Builder
	for _, seg := range r.Segments {
		sb.WriteString(segmentText(seg))
	}
	return sb.String()
}

func segmentText(seg Segment) string {
	if seg.Mode == "KANJI" {
		return charset.DecodeBytes(seg.Bytes, "Shift_JIS")
	}
	if seg.Mode == "BYTE" && seg.ECI >= 0 {
		if eci, err := charset.GetECIByValue(seg.ECI); err == nil && eci != nil {
			return charset.DecodeBytes(seg.Bytes, eci.Name)
		}
	}
	if utf8.Valid(seg.Bytes) {
		return string(seg.Bytes)
	}
	return charset.DecodeBytes(seg.Bytes, charset.GuessEncoding(seg.Bytes, ""))
}

// BinaryBitmap pairs a Binarizer with its lazily computed black matrix.
type BinaryBitmap struct {
	binarizer Binarizer
	matrix    *bitutil.BitMatrix
}

// NewBinaryBitmap creates a new BinaryBitmap from the given Binarizer.
func NewBinaryBitmap(binarizer Binarizer) *BinaryBitmap {
	return &BinaryBitmap{binarizer: binarizer}
}

// Width returns the width of the bitmap.
func (b *BinaryBitmap) Width() int {
	return b.binarizer.Width()
}

// Height returns the height of the bitmap.
func (b *BinaryBitmap) Height() int {
	return b.binarizer.Height()
}

// BlackMatrix returns the 2D matrix of black/white values.
func (b *BinaryBitmap) BlackMatrix() (*bitutil.BitMatrix, error) {
	if b.matrix != nil {
		return b.matrix, nil
	}
	m, err := b.binarizer.BlackMatrix()
	if err != nil {
		return nil, err
	}
	b.matrix = m
	return m, nil
}

// Reader decodes every symbol it can find in a bitmap. An empty result with a
// nil error means the image holds no readable symbol.
type Reader interface {
	Decode(ctx context.Context, image *BinaryBitmap) ([]*Result, error)
}
