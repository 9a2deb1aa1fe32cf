package decoder

import (
	"fmt"

	"github.com/ericlevine/qrscan"
	"github.com/ericlevine/qrscan/reedsolomon"
)

// DecoderResult is the outcome of decoding one sampled symbol.
type DecoderResult struct {
	Version         *Version
	Format          FormatInfo
	Segments        []qrscan.Segment
	Payload         []byte
	ErrorsCorrected int
	FixedMismatches int
}

// Decode reads the format information through r, samples a symbol of the
// given version and decodes it.
func Decode(r ModuleReader, version *Version) (*DecoderResult, error) {
	format, err := ReadFormatInfo(r, version.Dimension())
	if err != nil {
		return nil, err
	}
	sampled, mismatches, err := NewBaseMatrix(version).Sample(r, format.ECLevel)
	if err != nil {
		return nil, err
	}
	res, err := DecodeMatrix(sampled, format)
	if err != nil {
		return nil, err
	}
	res.FixedMismatches = mismatches
	return res, nil
}

// DecodeMatrix unmasks a sampled symbol, restores and corrects its blocks,
// and parses the data codewords into segments.
func DecodeMatrix(sampled *SymbolMatrix, format FormatInfo) (*DecoderResult, error) {
	version := sampled.Version()
	raw := sampled.Unmask(format.Mask).Codewords()
	restored, err := RestoreBlocks(raw, version, format.ECLevel)
	if err != nil {
		return nil, err
	}

	ecCount := version.ECBlocksForLevel(format.ECLevel).ECCodewordsPerBlock
	data := make([]byte, 0, version.DataCodewords(format.ECLevel))
	corrected := 0
	for i, blk := range SplitBlocks(restored, version, format.ECLevel) {
		n, err := reedsolomon.CorrectData(blk.Codewords, ecCount)
		if err != nil {
			return nil, fmt.Errorf("%w: block %d: %w", qrscan.ErrUncorrectableBlock, i, err)
		}
		corrected += n
		data = append(data, blk.Codewords[:blk.NumDataCodewords]...)
	}

	segments, err := DecodeSegments(data, version)
	if err != nil {
		return nil, err
	}
	return &DecoderResult{
		Version:         version,
		Format:          format,
		Segments:        segments,
		Payload:         Payload(segments),
		ErrorsCorrected: corrected,
	}, nil
}
