package canvas

import (
	"image"
	"image/color"
	"math"

	"github.com/gogpu/plotgg/geom"
)

func (c *Context) ready() bool {
	if c.status != StatusSuccess {
		return false
	}
	if st := c.target.Status(); st != StatusSuccess {
		latch(&c.status, st)
		return false
	}
	return true
}

// Fill fills the current path with the source and clears the path.
func (c *Context) Fill() {
	c.FillPreserve()
	c.path.reset()
}

// FillPreserve fills the current path and keeps it.
func (c *Context) FillPreserve() {
	if !c.ready() {
		return
	}
	mask, err := c.fillCoverage(c.gs.fillRule, c.gs.clip.bounds)
	if err != nil {
		latch(&c.status, StatusRasterFailed)
		return
	}
	c.composite(mask, 255)
}

// Stroke strokes the current path with the current line style and clears
// the path.
func (c *Context) Stroke() {
	c.StrokePreserve()
	c.path.reset()
}

// StrokePreserve strokes the current path and keeps it. The line width and
// dash lengths are scaled by the CTM's mean scale factor.
func (c *Context) StrokePreserve() {
	if !c.ready() {
		return
	}
	sf := c.gs.ctm.ScaleFactor()
	dash, st := newDashPattern(c.gs.dash, c.gs.dashOffset, sf)
	if st != StatusSuccess {
		latch(&c.status, st)
		return
	}
	mask, err := c.strokeCoverage(strokeStyle{
		width:      c.gs.lineWidth * sf,
		cap:        c.gs.cap,
		join:       c.gs.join,
		miterLimit: c.gs.miterLimit,
		dash:       dash,
	}, c.gs.clip.bounds)
	if err != nil {
		latch(&c.status, StatusRasterFailed)
		return
	}
	c.composite(mask, 255)
}

// Paint paints the source everywhere inside the clip region.
func (c *Context) Paint() {
	c.PaintWithAlpha(1)
}

// PaintWithAlpha paints the source with a constant opacity.
func (c *Context) PaintWithAlpha(alpha float64) {
	if !c.ready() {
		return
	}
	a := uint32(clamp01(alpha)*255 + 0.5)
	if a == 0 && c.gs.op.Bounded() {
		return
	}
	full := image.NewAlpha(c.gs.clip.bounds)
	for i := range full.Pix {
		full.Pix[i] = 0xff
	}
	c.composite(full, a)
}

// Mask paints the source using the alpha channel of p as coverage.
func (c *Context) Mask(p Pattern) {
	if !c.ready() {
		return
	}
	if st := p.Status(); st != StatusSuccess {
		latch(&c.status, st)
		return
	}
	inv, _ := c.gs.ctm.Invert()
	shade := p.shader(inv)
	r := c.gs.clip.bounds
	if sp, ok := p.(*SurfacePattern); ok && sp.extend == ExtendNone {
		r = r.Intersect(surfaceExtent(sp, c.gs.ctm))
	}
	if r.Empty() {
		return
	}
	m := image.NewAlpha(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.Pix[m.PixOffset(x, y)] = shade(x, y).A
		}
	}
	c.composite(m, 255)
}

// MaskSurface paints the source using the alpha of s placed with its
// origin at user point (x, y). Integer device offsets without scaling copy
// coverage directly.
func (c *Context) MaskSurface(s *Surface, x, y float64) {
	if !c.ready() {
		return
	}
	if st := s.Status(); st != StatusSuccess {
		latch(&c.status, st)
		return
	}
	ctm := c.gs.ctm
	o := ctm.TransformPoint(geom.Pt(x, y))
	if ctm.IsTranslation() && o.X == math.Trunc(o.X) && o.Y == math.Trunc(o.Y) &&
		math.Abs(o.X) < pixelLimit && math.Abs(o.Y) < pixelLimit {
		ox, oy := int(o.X), int(o.Y)
		r := image.Rect(ox, oy, ox+s.Width(), oy+s.Height()).Intersect(c.gs.clip.bounds)
		if r.Empty() {
			return
		}
		m := image.NewAlpha(r)
		for py := r.Min.Y; py < r.Max.Y; py++ {
			for px := r.Min.X; px < r.Max.X; px++ {
				m.Pix[m.PixOffset(px, py)] = s.at(px-ox, py-oy).A
			}
		}
		c.composite(m, 255)
		return
	}
	p := NewSurfacePattern(s)
	p.SetMatrix(geom.Translate(-x, -y))
	c.Mask(p)
}

// surfaceExtent returns the device pixel box covered by a non-extended
// surface pattern.
func surfaceExtent(p *SurfacePattern, ctm geom.Matrix) image.Rectangle {
	inv, ok := p.matrix.Invert()
	if !ok {
		return image.Rectangle{}
	}
	r := geom.Rect{W: float64(p.surface.Width()), H: float64(p.surface.Height())}
	return pixelBounds(r.Transform(ctm.Multiply(inv)), 1)
}

// Clip intersects the clip region with the current path and clears the
// path.
func (c *Context) Clip() {
	c.ClipPreserve()
	c.path.reset()
}

// ClipPreserve intersects the clip region with the current path and keeps
// the path. A pixel-aligned rectangle narrows the clip bounds without a
// mask.
func (c *Context) ClipPreserve() {
	if !c.ready() {
		return
	}
	if r, ok := c.path.alignedRect(); ok {
		c.gs.clip = c.gs.clip.intersectRect(r)
		return
	}
	m, err := c.fillCoverage(c.gs.fillRule, c.gs.clip.bounds)
	if err != nil {
		latch(&c.status, StatusRasterFailed)
		return
	}
	c.gs.clip = c.gs.clip.intersectMask(m)
}

// ResetClip removes all clipping. Saved states keep their own clip.
func (c *Context) ResetClip() {
	c.gs.clip = fullClip(c.target.deviceRect())
}

// ClipExtents returns the device pixel bounds of the clip region.
func (c *Context) ClipExtents() image.Rectangle {
	return c.gs.clip.bounds
}

// InClip reports whether device pixel (x, y) is at least partly visible.
func (c *Context) InClip(x, y int) bool {
	return c.gs.clip.coverage(x, y) > 0
}

// composite blends the source into the target through mask. A nil mask
// means nothing was covered; unbounded operators still act on the clip
// region in that case.
func (c *Context) composite(mask *image.Alpha, alpha uint32) {
	op := c.gs.op
	clip := c.gs.clip
	if c.gs.alpha < 1 {
		alpha = mulDiv255(alpha, uint32(c.gs.alpha*255+0.5))
	}
	var region image.Rectangle
	switch {
	case !op.Bounded():
		region = clip.bounds
	case mask != nil:
		region = mask.Rect.Intersect(clip.bounds)
	}
	if region.Empty() {
		return
	}
	shade := c.gs.source.shader(c.gs.sourceInv)
	solid, isSolid := c.gs.source.(*SolidPattern)
	a8 := c.target.Format() == FormatA8
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			var m uint32
			if mask != nil && (image.Point{X: x, Y: y}).In(mask.Rect) {
				m = uint32(mask.Pix[mask.PixOffset(x, y)])
			}
			m = mulDiv255(m, alpha)
			if m == 0 && op.Bounded() {
				continue
			}
			cc := clip.coverage(x, y)
			if cc == 0 {
				continue
			}
			var s color.RGBA
			if isSolid {
				s = solid.c
			} else {
				s = shade(x, y)
			}
			buf, i := c.target.pix(x, y)
			if a8 {
				d := color.RGBA{A: buf[i]}
				buf[i] = compositePixel(op, color.RGBA{A: s.A}, d, m, cc).A
				continue
			}
			d := color.RGBA{R: buf[i], G: buf[i+1], B: buf[i+2], A: buf[i+3]}
			r := compositePixel(op, s, d, m, cc)
			buf[i], buf[i+1], buf[i+2], buf[i+3] = r.R, r.G, r.B, r.A
		}
	}
}
