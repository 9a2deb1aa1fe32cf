package detector

import (
	"fmt"
	"image"
	"math"

	"github.com/ericlevine/qrscan"
)

const (
	// minSideRatio is the smallest allowed ratio between the short and the
	// long edge of a corner.
	minSideRatio = 0.8
	// maxRightAngleDev bounds the cosine of the angle between the two edges,
	// about sin(14 degrees).
	maxRightAngleDev = 0.25
	// alignmentAreaFactor sizes the alignment search square relative to the
	// sum of the corner edges.
	alignmentAreaFactor = 0.3
)

// Corner is three finders in their symbol roles, with the top edge running
// from TopLeft to TopRight and the left edge from TopLeft to BottomLeft.
type Corner struct {
	TopLeft, TopRight, BottomLeft Finder

	TopDX, TopDY, TopLen    float64
	LeftDX, LeftDY, LeftLen float64
}

func newCorner(tl, tr, bl Finder) *Corner {
	c := &Corner{TopLeft: tl, TopRight: tr, BottomLeft: bl}
	c.TopDX = float64(tr.Col - tl.Col)
	c.TopDY = float64(tr.Row - tl.Row)
	c.TopLen = math.Hypot(c.TopDX, c.TopDY)
	c.LeftDX = float64(bl.Col - tl.Col)
	c.LeftDY = float64(bl.Row - tl.Row)
	c.LeftLen = math.Hypot(c.LeftDX, c.LeftDY)
	return c
}

// NewCorner assigns roles to three finders. Each of the three cyclic role
// assignments is tried; the first one with edges of similar length meeting
// at about a right angle wins, with the top-right and bottom-left finders
// swapped when needed so that the left edge turns clockwise from the top
// edge in image coordinates.
func NewCorner(a, b, c Finder) (*Corner, error) {
	for range 3 {
		cand := newCorner(a, b, c)
		a, b, c = b, c, a
		if cand.TopLen == 0 || cand.LeftLen == 0 {
			continue
		}
		if math.Min(cand.TopLen, cand.LeftLen) < minSideRatio*math.Max(cand.TopLen, cand.LeftLen) {
			continue
		}
		sin := cand.TopDY / cand.TopLen
		cos := cand.TopDX / cand.TopLen
		newLeftX := cos*cand.LeftDX + sin*cand.LeftDY
		newLeftY := -sin*cand.LeftDX + cos*cand.LeftDY
		if math.Abs(newLeftX/cand.LeftLen) > maxRightAngleDev {
			continue
		}
		if newLeftY < 0 {
			return newCorner(cand.TopLeft, cand.BottomLeft, cand.TopRight), nil
		}
		return cand, nil
	}
	return nil, fmt.Errorf("%w: finders are not a right angled corner", qrscan.ErrInvalidCorner)
}

// InitialVersion estimates the symbol version from the finder spacing and
// module sizes.
func (c *Corner) InitialVersion() (int, error) {
	top := 7.0
	if math.Abs(c.TopDX) >= math.Abs(c.TopDY) {
		top += c.TopLen * c.TopLen / (math.Abs(c.TopDX) * 0.5 * (c.TopLeft.HModule + c.TopRight.HModule))
	} else {
		top += c.TopLen * c.TopLen / (math.Abs(c.TopDY) * 0.5 * (c.TopLeft.VModule + c.TopRight.VModule))
	}
	left := 7.0
	if math.Abs(c.LeftDY) >= math.Abs(c.LeftDX) {
		left += c.LeftLen * c.LeftLen / (math.Abs(c.LeftDY) * 0.5 * (c.TopLeft.VModule + c.BottomLeft.VModule))
	} else {
		left += c.LeftLen * c.LeftLen / (math.Abs(c.LeftDX) * 0.5 * (c.TopLeft.HModule + c.BottomLeft.HModule))
	}
	version := (int(math.Round(0.5*(top+left))) - 15) / 4
	if version < 1 || version > 40 {
		return 0, fmt.Errorf("%w: estimated version %d", qrscan.ErrInvalidCorner, version)
	}
	return version, nil
}

// Points returns the finder centres in bottom-left, top-left, top-right
// order.
func (c *Corner) Points() []qrscan.ResultPoint {
	return []qrscan.ResultPoint{c.BottomLeft.Center(), c.TopLeft.Center(), c.TopRight.Center()}
}

// AlignmentArea returns the square searched for the bottom-right alignment
// pattern, centred on its estimated pixel position.
func (c *Corner) AlignmentArea(center qrscan.ResultPoint) image.Rectangle {
	side := int(math.Round(alignmentAreaFactor * (c.TopLen + c.LeftLen)))
	left := int(math.Round(center.X)) - side/2
	top := int(math.Round(center.Y)) - side/2
	return image.Rect(left, top, left+side, top+side)
}

// Corners returns the valid corner of every unordered finder triple, in
// enumeration order.
func Corners(finders []Finder) []*Corner {
	var corners []*Corner
	for i := 0; i < len(finders)-2; i++ {
		for j := i + 1; j < len(finders)-1; j++ {
			for k := j + 1; k < len(finders); k++ {
				if c, err := NewCorner(finders[i], finders[j], finders[k]); err == nil {
					corners = append(corners, c)
				}
			}
		}
	}
	return corners
}
