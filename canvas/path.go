package canvas

import (
	"image"
	"math"

	"github.com/gogpu/gg"

	"github.com/gogpu/plotgg/geom"
)

type opKind uint8

const (
	opMove opKind = iota
	opLine
	opCubic
	opClose
)

// pathOp is one device-space path element. Quadratics are stored as
// cubics.
type pathOp struct {
	kind opKind
	pts  [3]geom.Point
}

// pathBuf is the current path of a context, in device coordinates.
type pathBuf struct {
	ops        []pathOp
	start, cur geom.Point
	hasCur     bool
}

func (p *pathBuf) reset() {
	p.ops = p.ops[:0]
	p.hasCur = false
}

// subpaths calls fn for each run of ops that starts at a MoveTo.
func (p *pathBuf) subpaths(fn func(sub []pathOp)) {
	start := 0
	for i := 1; i <= len(p.ops); i++ {
		if i == len(p.ops) || p.ops[i].kind == opMove {
			fn(p.ops[start:i])
			start = i
		}
	}
}

// degenerate reports whether sub draws something but never leaves its
// start point.
func degenerate(sub []pathOp) bool {
	if len(sub) < 2 {
		return false
	}
	o := sub[0].pts[0]
	for _, op := range sub[1:] {
		n := 0
		switch op.kind {
		case opLine:
			n = 1
		case opCubic:
			n = 3
		}
		for _, q := range op.pts[:n] {
			if q != o {
				return false
			}
		}
	}
	return true
}

// dots returns the positions of zero-length subpaths.
func (p *pathBuf) dots() []geom.Point {
	var out []geom.Point
	p.subpaths(func(sub []pathOp) {
		if degenerate(sub) {
			out = append(out, sub[0].pts[0])
		}
	})
	return out
}

// bounds returns the box of every path point including control points.
func (p *pathBuf) bounds() (geom.Rect, bool) {
	pts := make([]geom.Point, 0, len(p.ops))
	for _, op := range p.ops {
		switch op.kind {
		case opMove, opLine:
			pts = append(pts, op.pts[0])
		case opCubic:
			pts = append(pts, op.pts[:]...)
		}
	}
	if len(pts) == 0 {
		return geom.Rect{}, false
	}
	return geom.BoundsOf(pts), true
}

// replay issues the path on dc, whose transform must map device space
// onto its pixmap. With skipDots, zero-length subpaths are left out. It
// reports whether any segment was issued.
func (p *pathBuf) replay(dc *gg.Context, skipDots bool) bool {
	drawn := false
	p.subpaths(func(sub []pathOp) {
		if len(sub) < 2 || skipDots && degenerate(sub) {
			return
		}
		for _, op := range sub {
			switch op.kind {
			case opMove:
				dc.MoveTo(op.pts[0].X, op.pts[0].Y)
			case opLine:
				dc.LineTo(op.pts[0].X, op.pts[0].Y)
			case opCubic:
				dc.CubicTo(op.pts[0].X, op.pts[0].Y, op.pts[1].X, op.pts[1].Y, op.pts[2].X, op.pts[2].Y)
			case opClose:
				dc.ClosePath()
			}
		}
		drawn = true
	})
	return drawn
}

// alignedRect reports whether the path is a single axis-aligned rectangle
// on integer device coordinates, returning it.
func (p *pathBuf) alignedRect() (image.Rectangle, bool) {
	var pts []geom.Point
	subs := 0
	ok := true
	p.subpaths(func(sub []pathOp) {
		if len(sub) < 2 {
			return
		}
		subs++
		for _, op := range sub {
			switch op.kind {
			case opCubic:
				ok = false
			case opMove, opLine:
				if n := len(pts); n == 0 || pts[n-1] != op.pts[0] {
					pts = append(pts, op.pts[0])
				}
			}
		}
	})
	if !ok || subs != 1 {
		return image.Rectangle{}, false
	}
	if len(pts) == 5 && pts[0] == pts[4] {
		pts = pts[:4]
	}
	if len(pts) != 4 {
		return image.Rectangle{}, false
	}
	for i, a := range pts {
		b := pts[(i+1)%4]
		if a.X != math.Trunc(a.X) || a.Y != math.Trunc(a.Y) || a.X != b.X && a.Y != b.Y ||
			math.Abs(a.X) > pixelLimit || math.Abs(a.Y) > pixelLimit {
			return image.Rectangle{}, false
		}
	}
	r := image.Rect(int(pts[0].X), int(pts[0].Y), int(pts[2].X), int(pts[2].Y))
	return r.Canon(), true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// validPoint latches StatusInvalidPathData for non-finite coordinates.
func (c *Context) validPoint(pts ...float64) bool {
	for _, v := range pts {
		if !finite(v) {
			latch(&c.status, StatusInvalidPathData)
			return false
		}
	}
	return true
}

func (c *Context) dev(x, y float64) geom.Point {
	return c.gs.ctm.TransformPoint(geom.Pt(x, y))
}

// NewPath clears the current path.
func (c *Context) NewPath() {
	c.path.reset()
}

// MoveTo begins a new subpath at (x, y).
func (c *Context) MoveTo(x, y float64) {
	if c.status != StatusSuccess || !c.validPoint(x, y) {
		return
	}
	p := c.dev(x, y)
	if n := len(c.path.ops); n > 0 && c.path.ops[n-1].kind == opMove {
		c.path.ops[n-1].pts[0] = p
	} else {
		c.path.ops = append(c.path.ops, pathOp{kind: opMove, pts: [3]geom.Point{p}})
	}
	c.path.start, c.path.cur, c.path.hasCur = p, p, true
}

// LineTo adds a line to (x, y). Without a current point it behaves like
// MoveTo.
func (c *Context) LineTo(x, y float64) {
	if c.status != StatusSuccess || !c.validPoint(x, y) {
		return
	}
	if !c.path.hasCur {
		c.MoveTo(x, y)
		return
	}
	p := c.dev(x, y)
	c.path.ops = append(c.path.ops, pathOp{kind: opLine, pts: [3]geom.Point{p}})
	c.path.cur = p
}

// CurveTo adds a cubic Bézier segment.
func (c *Context) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	if c.status != StatusSuccess || !c.validPoint(x1, y1, x2, y2, x3, y3) {
		return
	}
	if !c.path.hasCur {
		c.MoveTo(x1, y1)
	}
	p3 := c.dev(x3, y3)
	c.path.ops = append(c.path.ops, pathOp{kind: opCubic, pts: [3]geom.Point{c.dev(x1, y1), c.dev(x2, y2), p3}})
	c.path.cur = p3
}

// QuadTo adds a quadratic Bézier segment, stored as the equivalent cubic.
func (c *Context) QuadTo(x1, y1, x2, y2 float64) {
	if c.status != StatusSuccess || !c.validPoint(x1, y1, x2, y2) {
		return
	}
	if !c.path.hasCur {
		c.MoveTo(x1, y1)
	}
	p0 := c.path.cur
	q := c.dev(x1, y1)
	p2 := c.dev(x2, y2)
	c1 := p0.Add(q.Sub(p0).Mul(2.0 / 3))
	c2 := p2.Add(q.Sub(p2).Mul(2.0 / 3))
	c.path.ops = append(c.path.ops, pathOp{kind: opCubic, pts: [3]geom.Point{c1, c2, p2}})
	c.path.cur = p2
}

// ClosePath closes the current subpath. The current point becomes the
// subpath start.
func (c *Context) ClosePath() {
	if c.status != StatusSuccess || !c.path.hasCur {
		return
	}
	c.path.ops = append(c.path.ops, pathOp{kind: opClose})
	c.path.cur = c.path.start
	c.path.ops = append(c.path.ops, pathOp{kind: opMove, pts: [3]geom.Point{c.path.start}})
}

// Rectangle adds a closed rectangle subpath.
func (c *Context) Rectangle(x, y, w, h float64) {
	c.MoveTo(x, y)
	c.LineTo(x+w, y)
	c.LineTo(x+w, y+h)
	c.LineTo(x, y+h)
	c.ClosePath()
}

// Arc adds a circular arc of radius r centred on (xc, yc) from angle a1 to
// a2 (radians, increasing direction). A line joins the current point to the
// arc start.
func (c *Context) Arc(xc, yc, r, a1, a2 float64) {
	if c.status != StatusSuccess || !c.validPoint(xc, yc, r, a1, a2) {
		return
	}
	for a2 < a1 {
		a2 += 2 * math.Pi
	}
	x0, y0 := xc+r*math.Cos(a1), yc+r*math.Sin(a1)
	if c.path.hasCur {
		c.LineTo(x0, y0)
	} else {
		c.MoveTo(x0, y0)
	}
	n := int(math.Ceil((a2 - a1) / (math.Pi / 2)))
	if n == 0 {
		return
	}
	step := (a2 - a1) / float64(n)
	k := 4.0 / 3 * math.Tan(step/4)
	for i := range n {
		t0 := a1 + float64(i)*step
		t1 := t0 + step
		s0, c0 := math.Sincos(t0)
		s1, c1 := math.Sincos(t1)
		c.CurveTo(
			xc+r*(c0-k*s0), yc+r*(s0+k*c0),
			xc+r*(c1+k*s1), yc+r*(s1-k*c1),
			xc+r*c1, yc+r*s1,
		)
	}
}

// AppendPath appends a geom.Path in user space.
func (c *Context) AppendPath(p geom.Path) {
	p.Segments(func(s geom.Segment) bool {
		switch s.Code {
		case geom.MoveTo:
			c.MoveTo(s.Points[0].X, s.Points[0].Y)
		case geom.LineTo:
			c.LineTo(s.Points[0].X, s.Points[0].Y)
		case geom.Curve3:
			c.QuadTo(s.Points[0].X, s.Points[0].Y, s.Points[1].X, s.Points[1].Y)
		case geom.Curve4:
			c.CurveTo(s.Points[0].X, s.Points[0].Y, s.Points[1].X, s.Points[1].Y, s.Points[2].X, s.Points[2].Y)
		case geom.ClosePoly:
			c.ClosePath()
		}
		return c.status == StatusSuccess
	})
}

// CopyPath returns the current path in device coordinates.
func (c *Context) CopyPath() geom.Path {
	var out geom.Path
	for _, op := range c.path.ops {
		switch op.kind {
		case opMove:
			out.MoveTo(op.pts[0].X, op.pts[0].Y)
		case opLine:
			out.LineTo(op.pts[0].X, op.pts[0].Y)
		case opCubic:
			out.CubicTo(op.pts[0].X, op.pts[0].Y, op.pts[1].X, op.pts[1].Y, op.pts[2].X, op.pts[2].Y)
		case opClose:
			out.Close()
		}
	}
	return out
}

// HasCurrentPoint reports whether the path has a current point.
func (c *Context) HasCurrentPoint() bool {
	return c.path.hasCur
}
