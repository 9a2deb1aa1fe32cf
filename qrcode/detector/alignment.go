package detector

import (
	"errors"
	"image"

	"github.com/ericlevine/qrscan/bitutil"
)

// ErrNoAlignment is returned when no alignment pattern is confirmed inside
// the search area.
var ErrNoAlignment = errors.New("detector: no alignment pattern found")

// FindAlignments returns the confirmed alignment patterns inside area. The
// area is clipped to the grid.
func FindAlignments(grid *bitutil.BitMatrix, area image.Rectangle) ([]Finder, error) {
	area = area.Intersect(image.Rect(0, 0, grid.Width(), grid.Height()))
	if area.Empty() {
		return nil, ErrNoAlignment
	}
	found := scanRows(grid, area, alignmentSignature)
	if len(found) == 0 {
		return nil, ErrNoAlignment
	}
	scanColumns(grid, area, alignmentSignature, found)
	found = reduce(found)
	if len(found) == 0 {
		return nil, ErrNoAlignment
	}
	return found, nil
}
