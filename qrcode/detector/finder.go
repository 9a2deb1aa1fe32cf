// Package detector locates the finder and alignment patterns of a QR symbol
// in a binarized image and assembles finder triples into candidate corners.
package detector

import (
	"fmt"
	"image"
	"math"
	"slices"

	"github.com/ericlevine/qrscan"
	"github.com/ericlevine/qrscan/bitutil"
)

const (
	// signatureTolerance is the allowed deviation of each run, as a fraction
	// of the module size.
	signatureTolerance = 0.25
	// moduleSizeRatio is the smallest allowed ratio between the horizontal
	// and vertical module size of one pattern.
	moduleSizeRatio = 0.5
	// maxCenterDistance bounds the distance in pixels between the centre
	// found by the row scan and the centre found by the column scan.
	maxCenterDistance = 2.0
)

// Finder is a finder or alignment pattern candidate. The row scan fills Row,
// Col1, Col2 and HModule; a matching column scan fills the rest.
type Finder struct {
	Row        int
	Col1, Col2 int
	HModule    float64

	Col        int
	Row1, Row2 int
	VModule    float64
	ModuleSize float64
	// Distance is the gap between the row and column centres of the best
	// match, or math.MaxFloat64 while unmatched.
	Distance float64
}

func newFinder(row, col1, col2 int, hModule float64) Finder {
	return Finder{Row: row, Col1: col1, Col2: col2, HModule: hModule, Distance: math.MaxFloat64}
}

// Center returns the pattern centre in pixels.
func (f *Finder) Center() qrscan.ResultPoint {
	return qrscan.ResultPoint{X: float64(f.Col), Y: float64(f.Row)}
}

// Matched reports whether a column scan confirmed the pattern.
func (f *Finder) Matched() bool {
	return f.Distance != math.MaxFloat64
}

// Overlaps reports whether the two patterns cover the same area.
func (f *Finder) Overlaps(o *Finder) bool {
	return o.Col1 < f.Col2 && o.Col2 >= f.Col1 && o.Row1 < f.Row2 && o.Row2 >= f.Row1
}

// match folds one column scan hit into the pattern, keeping the closest
// acceptable one.
func (f *Finder) match(col, row1, row2 int, vModule float64) {
	if col < f.Col1 || col >= f.Col2 || f.Row < row1 || f.Row >= row2 {
		return
	}
	if math.Min(f.HModule, vModule) < math.Max(f.HModule, vModule)*moduleSizeRatio {
		return
	}
	dx := float64(col) - 0.5*float64(f.Col1+f.Col2)
	dy := float64(f.Row) - 0.5*float64(row1+row2)
	d := math.Hypot(dx, dy)
	if d > maxCenterDistance || d >= f.Distance {
		return
	}
	f.Col = col
	f.Row1 = row1
	f.Row2 = row2
	f.VModule = vModule
	f.ModuleSize = 0.5 * (f.HModule + vModule)
	f.Distance = d
}

func (f Finder) String() string {
	if !f.Matched() {
		return fmt.Sprintf("finder row %d cols %d..%d module %.2f", f.Row, f.Col1, f.Col2, f.HModule)
	}
	return fmt.Sprintf("finder (%d,%d) module %.2f distance %.2f", f.Col, f.Row, f.ModuleSize, f.Distance)
}

// signature tests the five runs starting at boundary i of pos and returns
// the module size they imply.
type signature func(pos []int, i int) (float64, bool)

// finderSignature matches the 1:1:3:1:1 finder pattern.
func finderSignature(pos []int, i int) (float64, bool) {
	module := float64(pos[i+5]-pos[i]) / 7
	maxDev := signatureTolerance * module
	for k, want := range [5]float64{1, 1, 3, 1, 1} {
		if math.Abs(float64(pos[i+k+1]-pos[i+k])-want*module) > maxDev {
			return module, false
		}
	}
	return module, true
}

// alignmentSignature matches the n:1:1:1:n alignment pattern, the outer dark
// runs only being required to be at least one module long.
func alignmentSignature(pos []int, i int) (float64, bool) {
	module := float64(pos[i+4]-pos[i+1]) / 3
	maxDev := signatureTolerance * module
	if float64(pos[i+1]-pos[i]) < module-maxDev || float64(pos[i+5]-pos[i+4]) < module-maxDev {
		return module, false
	}
	for k := 1; k <= 3; k++ {
		if math.Abs(float64(pos[i+k+1]-pos[i+k])-module) > maxDev {
			return module, false
		}
	}
	return module, true
}

// runBoundaries appends to pos the boundaries of the alternating dark and
// light runs of one line, from the first dark pixel in [start, end). A dark
// run reaching end is closed at end.
func runBoundaries(pos []int, start, end int, dark func(i int) bool) []int {
	pos = pos[:0]
	i := start
	for i < end && !dark(i) {
		i++
	}
	if i == end {
		return pos
	}
	pos = append(pos, i)
	for {
		for i < end && dark(i) {
			i++
		}
		pos = append(pos, i)
		if i == end {
			return pos
		}
		for i < end && !dark(i) {
			i++
		}
		if i == end {
			return pos
		}
		pos = append(pos, i)
	}
}

// scanRows runs the row scan over area and returns one unmatched pattern for
// every signature hit.
func scanRows(grid *bitutil.BitMatrix, area image.Rectangle, sig signature) []Finder {
	var found []Finder
	pos := make([]int, 0, area.Dx()+1)
	for row := area.Min.Y; row < area.Max.Y; row++ {
		pos = runBoundaries(pos, area.Min.X, area.Max.X, func(col int) bool { return grid.Get(col, row) })
		for i := 0; i+5 < len(pos); i += 2 {
			if module, ok := sig(pos, i); ok {
				found = append(found, newFinder(row, pos[i+2], pos[i+3], module))
			}
		}
	}
	return found
}

// scanColumns runs the column scan over the columns covered by found and
// offers every hit to every pattern.
func scanColumns(grid *bitutil.BitMatrix, area image.Rectangle, sig signature, found []Finder) {
	active := make([]bool, area.Dx())
	for _, f := range found {
		for col := max(f.Col1, area.Min.X); col < min(f.Col2, area.Max.X); col++ {
			active[col-area.Min.X] = true
		}
	}
	pos := make([]int, 0, area.Dy()+1)
	for col := area.Min.X; col < area.Max.X; col++ {
		if !active[col-area.Min.X] {
			continue
		}
		pos = runBoundaries(pos, area.Min.Y, area.Max.Y, func(row int) bool { return grid.Get(col, row) })
		for i := 0; i+5 < len(pos); i += 2 {
			module, ok := sig(pos, i)
			if !ok {
				continue
			}
			for k := range found {
				found[k].match(col, pos[i+2], pos[i+3], module)
			}
		}
	}
}

// reduce drops unmatched patterns and collapses each group of overlapping
// patterns to the one with the smallest distance.
func reduce(found []Finder) []Finder {
	kept := slices.DeleteFunc(found, func(f Finder) bool { return !f.Matched() })
	for i := 0; i < len(kept); i++ {
		for j := i + 1; j < len(kept); {
			if !kept[i].Overlaps(&kept[j]) {
				j++
				continue
			}
			if kept[j].Distance < kept[i].Distance {
				kept[i] = kept[j]
			}
			kept = slices.Delete(kept, j, j+1)
		}
	}
	return kept
}

// FindFinders returns the confirmed finder patterns of grid in row scan
// order.
func FindFinders(grid *bitutil.BitMatrix) ([]Finder, error) {
	area := image.Rect(0, 0, grid.Width(), grid.Height())
	found := scanRows(grid, area, finderSignature)
	if len(found) < 3 {
		return nil, fmt.Errorf("%w: %d row hits", qrscan.ErrNoFindersFound, len(found))
	}
	scanColumns(grid, area, finderSignature, found)
	found = reduce(found)
	if len(found) < 3 {
		return nil, fmt.Errorf("%w: %d confirmed", qrscan.ErrNoFindersFound, len(found))
	}
	return found, nil
}
