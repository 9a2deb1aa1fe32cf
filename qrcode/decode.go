package qrcode

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/ericlevine/qrscan"
	"github.com/ericlevine/qrscan/binarizer"
)

// Binarizer names accepted in Options.Binarizers.
const (
	BinarizerHistogram = "histogram"
	BinarizerHybrid    = "hybrid"
)

// NewBinarizer returns the named binarizer over source.
func NewBinarizer(name string, source qrscan.LuminanceSource) (qrscan.Binarizer, error) {
	switch name {
	case BinarizerHistogram:
		return binarizer.NewGlobalHistogram(source), nil
	case BinarizerHybrid:
		return binarizer.NewHybrid(source), nil
	}
	return nil, fmt.Errorf("qrcode: unknown binarizer %q", name)
}

// DecodeImage runs Decode over img once per configured binarizer and merges
// the results, dropping repeated payloads. A binarizer that finds no
// contrast contributes nothing.
func (r *Reader) DecodeImage(ctx context.Context, img image.Image) ([]*qrscan.Result, error) {
	source := qrscan.NewImageLuminanceSource(img)
	seen := make(map[string]bool)
	var out []*qrscan.Result
	for _, name := range r.opts.Binarizers {
		b, err := NewBinarizer(name, source)
		if err != nil {
			return out, err
		}
		results, err := r.Decode(ctx, qrscan.NewBinaryBitmap(b))
		if errors.Is(err, binarizer.ErrLowContrast) {
			r.opts.Logger.Debug("binarizer skipped", "binarizer", name, "err", err)
			continue
		}
		for _, res := range results {
			if key := string(res.Payload); !seen[key] {
				seen[key] = true
				out = append(out, res)
			}
		}
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

// Decode returns the payload of every symbol found in img. An image without a
// readable symbol yields an empty slice.
func Decode(img image.Image) [][]byte {
	results, _ := NewReader().DecodeImage(context.Background(), img)
	payloads := make([][]byte, 0, len(results))
	for _, res := range results {
		payloads = append(payloads, res.Payload)
	}
	return payloads
}

// DecodeStrings is Decode with every payload read as UTF-8 and made safe
// for display.
func DecodeStrings(img image.Image) []string {
	payloads := Decode(img)
	out := make([]string, len(payloads))
	for i, p := range payloads {
		out[i] = qrscan.ForDisplay(string(p))
	}
	return out
}
