package decoder

import (
	"fmt"
	"sync"

	"github.com/ericlevine/qrscan"
	"github.com/ericlevine/qrscan/bitutil"
)

// Cell flags of a SymbolMatrix.
const (
	cellBlack   byte = 1 << iota // module is dark
	cellNonData                  // module carries no codeword bits
	cellFixed                    // module value is known in advance
)

const (
	fixedBlack = cellFixed | cellNonData | cellBlack
	fixedWhite = cellFixed | cellNonData
)

// SymbolMatrix is a dimension x dimension grid of flagged modules. The base
// matrix of a version holds the function patterns; Sample and Unmask derive
// new matrices from it and never modify their receiver.
type SymbolMatrix struct {
	version   *Version
	dimension int
	cells     []byte
	placement [][2]int
}

var baseMatrices [40]struct {
	once sync.Once
	m    *SymbolMatrix
}

// NewBaseMatrix returns the structural template of a version: finder
// patterns with separators, format areas, the dark module, timing strips,
// alignment patterns and the version information areas. The result is
// shared and must not be modified.
func NewBaseMatrix(version *Version) *SymbolMatrix {
	slot := &baseMatrices[version.Number-1]
	slot.once.Do(func() { slot.m = buildBaseMatrix(version) })
	return slot.m
}

func buildBaseMatrix(version *Version) *SymbolMatrix {
	dim := version.Dimension()
	m := &SymbolMatrix{version: version, dimension: dim, cells: make([]byte, dim*dim)}

	m.placeFinder(0, 0)
	m.placeFinder(0, dim-7)
	m.placeFinder(dim-7, 0)

	// format areas next to the finders
	for i := 0; i <= 8; i++ {
		m.set(8, i, cellNonData)
		m.set(i, 8, cellNonData)
	}
	for i := 0; i < 8; i++ {
		m.set(8, dim-1-i, cellNonData)
		m.set(dim-1-i, 8, cellNonData)
	}
	m.set(dim-8, 8, fixedBlack)

	for z := 8; z < dim-8; z++ {
		v := fixedWhite
		if z&1 == 0 {
			v = fixedBlack
		}
		m.set(6, z, v)
		m.set(z, 6, v)
	}

	centers := version.AlignmentPatternCenters
	last := len(centers) - 1
	for y, row := range centers {
		for x, col := range centers {
			if x == 0 && y == 0 || x == last && y == 0 || x == 0 && y == last {
				continue
			}
			m.placeAlignment(row, col)
		}
	}

	if version.Number >= 7 {
		for i := 0; i < 6; i++ {
			for j := dim - 11; j < dim-8; j++ {
				m.set(i, j, cellNonData)
				m.set(j, i, cellNonData)
			}
		}
	}
	m.placement = m.walk()
	return m
}

// placeFinder draws a 7x7 finder with its top-left module at (row, col) and
// the one module separator around it, clipped to the symbol.
func (m *SymbolMatrix) placeFinder(row, col int) {
	for r := -1; r <= 7; r++ {
		for c := -1; c <= 7; c++ {
			rr, cc := row+r, col+c
			if rr < 0 || cc < 0 || rr >= m.dimension || cc >= m.dimension {
				continue
			}
			v := fixedWhite
			ring := max(abs(r-3), abs(c-3))
			if ring != 2 && ring <= 3 {
				v = fixedBlack
			}
			m.set(rr, cc, v)
		}
	}
}

func (m *SymbolMatrix) placeAlignment(row, col int) {
	for r := -2; r <= 2; r++ {
		for c := -2; c <= 2; c++ {
			v := fixedBlack
			if max(abs(r), abs(c)) == 1 {
				v = fixedWhite
			}
			m.set(row+r, col+c, v)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func (m *SymbolMatrix) set(row, col int, v byte) {
	m.cells[row*m.dimension+col] = v
}

func (m *SymbolMatrix) at(row, col int) byte {
	return m.cells[row*m.dimension+col]
}

// Dimension returns the side of the matrix in modules.
func (m *SymbolMatrix) Dimension() int { return m.dimension }

// Version returns the version the matrix was built for.
func (m *SymbolMatrix) Version() *Version { return m.version }

// Dark reports whether the module at (row, col) is dark.
func (m *SymbolMatrix) Dark(row, col int) bool {
	return m.at(row, col)&cellBlack != 0
}

// Fixed reports whether the module at (row, col) belongs to a function
// pattern with a predetermined value.
func (m *SymbolMatrix) Fixed(row, col int) bool {
	return m.at(row, col)&cellFixed != 0
}

// IsData reports whether the module at (row, col) carries codeword bits.
func (m *SymbolMatrix) IsData(row, col int) bool {
	return m.at(row, col)&cellNonData == 0
}

// Sample reads every non-fixed module through r into a new matrix and
// compares fixed modules with the template. It fails when more fixed modules
// mismatch than the EC level tolerates. The mismatch count is returned in
// either case.
func (m *SymbolMatrix) Sample(r ModuleReader, ecLevel ErrorCorrectionLevel) (*SymbolMatrix, int, error) {
	out := m.clone()
	fixed, mismatches := 0, 0
	for row := 0; row < m.dimension; row++ {
		for col := 0; col < m.dimension; col++ {
			i := row*m.dimension + col
			dark := r.Module(row, col)
			if out.cells[i]&cellFixed == 0 {
				if dark {
					out.cells[i] |= cellBlack
				}
				continue
			}
			fixed++
			if dark != (out.cells[i]&cellBlack != 0) {
				mismatches++
			}
		}
	}
	if mismatches > fixed*ecLevel.FixedTolerance()/100 {
		return nil, mismatches, fmt.Errorf("%w: %d of %d fixed modules", qrscan.ErrFixedModuleMismatch, mismatches, fixed)
	}
	return out, mismatches, nil
}

// Unmask returns a copy of m with the given mask pattern applied to every
// non-fixed module. Applying the same mask twice restores the original.
func (m *SymbolMatrix) Unmask(mask int) *SymbolMatrix {
	cond := DataMasks[mask&7]
	out := m.clone()
	for row := 0; row < m.dimension; row++ {
		for col := 0; col < m.dimension; col++ {
			i := row*m.dimension + col
			if out.cells[i]&cellFixed == 0 && cond(row, col) {
				out.cells[i] ^= cellBlack
			}
		}
	}
	return out
}

// Placement returns the data module positions as (row, col) pairs in
// placement order: column pairs from the right edge, alternately upward and
// downward, skipping the vertical timing column. The list includes the
// remainder modules past the last codeword and must not be modified.
func (m *SymbolMatrix) Placement() [][2]int {
	return m.placement
}

func (m *SymbolMatrix) walk() [][2]int {
	out := make([][2]int, 0, 8*m.version.TotalCodewords+7)
	upward := true
	for right := m.dimension - 1; right > 0; right -= 2 {
		if right == 6 {
			right--
		}
		for k := 0; k < m.dimension; k++ {
			row := k
			if upward {
				row = m.dimension - 1 - k
			}
			for col := right; col > right-2; col-- {
				if m.IsData(row, col) {
					out = append(out, [2]int{row, col})
				}
			}
		}
		upward = !upward
	}
	return out
}

// Codewords unloads the data modules in placement order into TotalCodewords
// bytes, most significant bit first.
func (m *SymbolMatrix) Codewords() []byte {
	out := make([]byte, m.version.TotalCodewords)
	for n, p := range m.Placement()[:8*len(out)] {
		if m.Dark(p[0], p[1]) {
			out[n>>3] |= 0x80 >> uint(n&7)
		}
	}
	return out
}

// BitMatrix renders the dark modules of m, x being the column.
func (m *SymbolMatrix) BitMatrix() *bitutil.BitMatrix {
	bm := bitutil.NewBitMatrix(m.dimension)
	for row := 0; row < m.dimension; row++ {
		for col := 0; col < m.dimension; col++ {
			if m.Dark(row, col) {
				bm.Set(col, row)
			}
		}
	}
	return bm
}

func (m *SymbolMatrix) clone() *SymbolMatrix {
	c := *m
	c.cells = append([]byte(nil), m.cells...)
	return &c
}
