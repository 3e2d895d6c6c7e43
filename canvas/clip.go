package canvas

import "image"

// clipRegion is the visible area of a context: a pixel rectangle plus an
// optional coverage mask inside it. Regions are values; a saved state
// keeps its own copy, so restoring a state restores exactly the previous
// region. Masks are never mutated after creation.
type clipRegion struct {
	bounds image.Rectangle
	mask   *image.Alpha
}

func fullClip(r image.Rectangle) clipRegion {
	return clipRegion{bounds: r}
}

// coverage returns the clip coverage (0-255) at device pixel (x, y).
func (cr clipRegion) coverage(x, y int) uint32 {
	if !(image.Point{X: x, Y: y}).In(cr.bounds) {
		return 0
	}
	if cr.mask == nil {
		return 255
	}
	return uint32(cr.mask.Pix[cr.mask.PixOffset(x, y)])
}

// intersectRect narrows the region to a pixel rectangle.
func (cr clipRegion) intersectRect(r image.Rectangle) clipRegion {
	return clipRegion{bounds: cr.bounds.Intersect(r), mask: cr.mask}
}

// intersectMask narrows the region by a coverage mask. Coverage values
// multiply, so nested clips only ever shrink the visible area.
func (cr clipRegion) intersectMask(m *image.Alpha) clipRegion {
	if m == nil {
		return clipRegion{bounds: image.Rectangle{}}
	}
	nb := cr.bounds.Intersect(m.Rect)
	if nb.Empty() {
		return clipRegion{bounds: nb}
	}
	out := image.NewAlpha(nb)
	for y := nb.Min.Y; y < nb.Max.Y; y++ {
		for x := nb.Min.X; x < nb.Max.X; x++ {
			v := mulDiv255(uint32(m.Pix[m.PixOffset(x, y)]), cr.coverage(x, y))
			out.Pix[out.PixOffset(x, y)] = uint8(v)
		}
	}
	return clipRegion{bounds: nb, mask: out}
}

// empty reports whether nothing is visible.
func (cr clipRegion) empty() bool {
	return cr.bounds.Empty()
}
