package canvas

import (
	"image"
	"math"

	"github.com/gogpu/gg"

	"github.com/gogpu/plotgg/geom"
)

// FillRule selects how path winding decides the inside of a shape.
type FillRule uint8

const (
	// FillRuleWinding fills where the winding number is non-zero.
	FillRuleWinding FillRule = iota
	// FillRuleEvenOdd fills where the winding number is odd.
	FillRuleEvenOdd
)

func (r FillRule) gg() gg.FillRule {
	if r == FillRuleEvenOdd {
		return gg.FillRuleEvenOdd
	}
	return gg.FillRuleNonZero
}

// pixelLimit bounds device rectangles derived from path geometry.
const pixelLimit = 1 << 30

// pixelBounds returns the pixel box covering r grown by pad on each side.
func pixelBounds(r geom.Rect, pad float64) image.Rectangle {
	x0 := math.Max(math.Floor(r.X-pad), -pixelLimit)
	y0 := math.Max(math.Floor(r.Y-pad), -pixelLimit)
	x1 := math.Min(math.Ceil(r.MaxX()+pad), pixelLimit)
	y1 := math.Min(math.Ceil(r.MaxY()+pad), pixelLimit)
	if !(x0 < x1 && y0 < y1) {
		return image.Rectangle{}
	}
	return image.Rect(int(x0), int(y0), int(x1), int(y1))
}

// coverage rasterizes with gg onto a scratch pixmap covering bounds. The
// draw callback receives a context whose transform maps device space onto
// the pixmap and whose brush is opaque white; the alpha channel of the
// result is the shape coverage. Without aa, coverage is thresholded at
// one half. The result is nil when nothing inside bounds is covered.
func coverage(bounds image.Rectangle, aa bool, draw func(dc *gg.Context) error) (*image.Alpha, error) {
	if bounds.Empty() {
		return nil, nil
	}
	w, h := bounds.Dx(), bounds.Dy()
	pm := gg.NewPixmap(w, h)
	dc := gg.NewContext(w, h, gg.WithPixmap(pm))
	defer dc.Close()
	dc.SetTransform(gg.Translate(-float64(bounds.Min.X), -float64(bounds.Min.Y)))
	dc.SetRGBA(1, 1, 1, 1)
	if err := draw(dc); err != nil {
		return nil, err
	}

	out := image.NewAlpha(bounds)
	data := pm.Data()
	inked := false
	for i := range out.Pix {
		a := data[4*i+3]
		if !aa {
			if a > 128 {
				a = 255
			} else {
				a = 0
			}
		}
		out.Pix[i] = a
		inked = inked || a != 0
	}
	if !inked {
		return nil, nil
	}
	return out, nil
}

// fillCoverage returns the coverage of the current path under rule,
// limited to clip.
func (c *Context) fillCoverage(rule FillRule, clip image.Rectangle) (*image.Alpha, error) {
	b, ok := c.path.bounds()
	if !ok {
		return nil, nil
	}
	return coverage(pixelBounds(b, 1).Intersect(clip), c.antialiased(), func(dc *gg.Context) error {
		c.path.replay(dc, false)
		dc.SetFillRule(rule.gg())
		return dc.Fill()
	})
}
