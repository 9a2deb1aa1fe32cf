package decoder

import "fmt"

// RestoreBlocks undoes the codeword interleaving of a symbol. The result
// holds the data codewords of every block in block order, group one before
// group two, followed by the EC codewords of every block in the same order.
func RestoreBlocks(raw []byte, version *Version, ecLevel ErrorCorrectionLevel) ([]byte, error) {
	if len(raw) != version.TotalCodewords {
		return nil, fmt.Errorf("qrcode/decoder: %d codewords for version %d, want %d",
			len(raw), version.Number, version.TotalCodewords)
	}
	ecb := version.ECBlocksForLevel(ecLevel)
	sizes := blockDataSizes(ecb)
	numBlocks := len(sizes)
	dataTotal := version.DataCodewords(ecLevel)

	// next write position of each block in the output
	next := make([]int, numBlocks)
	for i := 1; i < numBlocks; i++ {
		next[i] = next[i-1] + sizes[i-1]
	}

	out := make([]byte, len(raw))
	ptr := 0
	for round := 0; round < sizes[0]; round++ {
		for blk := 0; blk < numBlocks; blk++ {
			out[next[blk]] = raw[ptr]
			next[blk]++
			ptr++
		}
	}
	// only the longer blocks of the second group have codewords left
	for ptr < dataTotal {
		for blk := 0; blk < numBlocks && ptr < dataTotal; blk++ {
			if sizes[blk] > sizes[0] {
				out[next[blk]] = raw[ptr]
				next[blk]++
				ptr++
			}
		}
	}

	for blk := 0; blk < numBlocks; blk++ {
		next[blk] = dataTotal + blk*ecb.ECCodewordsPerBlock
	}
	for ptr < len(raw) {
		for blk := 0; blk < numBlocks; blk++ {
			out[next[blk]] = raw[ptr]
			next[blk]++
			ptr++
		}
	}
	return out, nil
}

// Block is one Reed-Solomon block: its data codewords followed by its EC
// codewords.
type Block struct {
	NumDataCodewords int
	Codewords        []byte
}

// SplitBlocks cuts a restored codeword stream into its blocks.
func SplitBlocks(restored []byte, version *Version, ecLevel ErrorCorrectionLevel) []Block {
	ecb := version.ECBlocksForLevel(ecLevel)
	sizes := blockDataSizes(ecb)
	ecStart := version.DataCodewords(ecLevel)
	blocks := make([]Block, len(sizes))
	dataPtr := 0
	for i, size := range sizes {
		cw := make([]byte, 0, size+ecb.ECCodewordsPerBlock)
		cw = append(cw, restored[dataPtr:dataPtr+size]...)
		ecPtr := ecStart + i*ecb.ECCodewordsPerBlock
		cw = append(cw, restored[ecPtr:ecPtr+ecb.ECCodewordsPerBlock]...)
		blocks[i] = Block{NumDataCodewords: size, Codewords: cw}
		dataPtr += size
	}
	return blocks
}

func blockDataSizes(ecb *ECBlocks) []int {
	sizes := make([]int, 0, ecb.NumBlocks())
	for _, g := range ecb.Blocks {
		for i := 0; i < g.Count; i++ {
			sizes = append(sizes, g.DataCodewords)
		}
	}
	return sizes
}
