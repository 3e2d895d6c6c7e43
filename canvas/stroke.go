package canvas

import (
	"image"
	"math"

	"github.com/gogpu/gg"

	"github.com/gogpu/plotgg/geom"
)

// LineCap specifies the shape of open subpath ends.
type LineCap uint8

const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

func (lc LineCap) gg() gg.LineCap {
	switch lc {
	case LineCapRound:
		return gg.LineCapRound
	case LineCapSquare:
		return gg.LineCapSquare
	}
	return gg.LineCapButt
}

// LineJoin specifies the shape at corners of a stroked path.
type LineJoin uint8

const (
	LineJoinMiter LineJoin = iota
	LineJoinRound
	LineJoinBevel
)

func (lj LineJoin) gg() gg.LineJoin {
	switch lj {
	case LineJoinRound:
		return gg.LineJoinRound
	case LineJoinBevel:
		return gg.LineJoinBevel
	}
	return gg.LineJoinMiter
}

// strokeStyle holds the device-space stroke parameters.
type strokeStyle struct {
	width      float64
	cap        LineCap
	join       LineJoin
	miterLimit float64
	dash       *dashPattern
}

// reach is how far the outline can extend past the path geometry.
func (st strokeStyle) reach() float64 {
	h := st.width / 2
	r := h * math.Sqrt2
	if st.join == LineJoinMiter {
		r = math.Max(r, h*st.miterLimit)
	}
	return r
}

// apply configures dc for stroking with st.
func (st strokeStyle) apply(dc *gg.Context) {
	dc.SetLineWidth(st.width)
	dc.SetLineCap(st.cap.gg())
	dc.SetLineJoin(st.join.gg())
	dc.SetMiterLimit(st.miterLimit)
	if st.dash != nil {
		dc.SetDash(st.dash.array...)
		dc.SetDashOffset(st.dash.offset)
	}
}

// strokeCoverage returns the coverage of the current path stroked with
// st, limited to clip. Zero-length subpaths are drawn here as dots for
// round and square caps, aligned with the x axis.
func (c *Context) strokeCoverage(st strokeStyle, clip image.Rectangle) (*image.Alpha, error) {
	if st.width <= 0 {
		return nil, nil
	}
	b, ok := c.path.bounds()
	if !ok {
		return nil, nil
	}
	var dots []geom.Point
	if st.cap != LineCapButt && (st.dash == nil || st.dash.onAtStart()) {
		dots = c.path.dots()
	}
	return coverage(pixelBounds(b, st.reach()+1).Intersect(clip), c.antialiased(), func(dc *gg.Context) error {
		if c.path.replay(dc, true) {
			st.apply(dc)
			if err := dc.Stroke(); err != nil {
				return err
			}
		}
		if len(dots) == 0 {
			return nil
		}
		h := st.width / 2
		for _, p := range dots {
			if st.cap == LineCapRound {
				dc.DrawCircle(p.X, p.Y, h)
			} else {
				dc.DrawRectangle(p.X-h, p.Y-h, st.width, st.width)
			}
		}
		dc.SetFillRule(gg.FillRuleNonZero)
		return dc.Fill()
	})
}
