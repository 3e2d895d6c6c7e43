package canvas

import (
	"image/color"
	"math"
	"sort"
	"sync"

	"github.com/gogpu/gg"

	"github.com/gogpu/plotgg/geom"
)

// ColorStop is a gradient stop with straight (non-premultiplied)
// components in [0,1].
type ColorStop struct {
	Offset     float64
	R, G, B, A float64
}

// lutSize is the number of precomputed colours per gradient.
const lutSize = 512

type gradient struct {
	patternBase
	stops   []ColorStop
	lutOnce sync.Once
	lut     [lutSize]color.RGBA
}

// AddColorStop adds a stop. Offsets are clamped to [0,1]; stops with equal
// offsets keep insertion order, which produces a hard edge.
func (g *gradient) AddColorStop(offset, r, gr, b, a float64) {
	s := ColorStop{Offset: clamp01(offset), R: r, G: gr, B: b, A: a}
	i := sort.Search(len(g.stops), func(i int) bool { return g.stops[i].Offset > s.Offset })
	g.stops = append(g.stops, ColorStop{})
	copy(g.stops[i+1:], g.stops[i:])
	g.stops[i] = s
}

// StopCount returns the number of colour stops.
func (g *gradient) StopCount() int { return len(g.stops) }

// Stops returns a copy of the colour stops in offset order.
func (g *gradient) Stops() []ColorStop { return append([]ColorStop(nil), g.stops...) }

// ramp returns a gg brush that carries the stops along the unit x axis.
// Stops that share an offset are nudged apart so the hard edge survives
// the brush's own sort.
func (g *gradient) ramp() *gg.LinearGradientBrush {
	b := gg.NewLinearGradientBrush(0, 0, 1, 0).SetExtend(gg.ExtendPad)
	prev := math.Inf(-1)
	for _, s := range g.stops {
		off := s.Offset
		if off <= prev {
			off = math.Nextafter(prev, math.Inf(1))
		}
		prev = off
		b.AddColorStop(off, gg.RGBA{R: clamp01(s.R), G: clamp01(s.G), B: clamp01(s.B), A: clamp01(s.A)})
	}
	return b
}

// buildLUT samples the ramp at lutSize evenly spaced parameters. Past the
// last stop the last colour wins, even when several stops share its
// offset.
func (g *gradient) buildLUT() {
	b := g.ramp()
	last := g.stops[len(g.stops)-1]
	for i := range g.lut {
		t := float64(i) / (lutSize - 1)
		if t >= last.Offset {
			g.lut[i] = premul(last.R, last.G, last.B, last.A)
			continue
		}
		c := b.ColorAt(t, 0)
		g.lut[i] = premul(c.R, c.G, c.B, c.A)
	}
}

// lookup maps a raw gradient parameter through the extend mode.
func (g *gradient) lookup(t float64) color.RGBA {
	switch g.extend {
	case ExtendNone:
		if t < 0 || t > 1 {
			return color.RGBA{}
		}
	case ExtendRepeat:
		t -= math.Floor(t)
	case ExtendReflect:
		t = math.Abs(t)
		period := math.Floor(t)
		t -= period
		if int64(period)%2 == 1 {
			t = 1 - t
		}
	default:
		t = clamp01(t)
	}
	if math.IsNaN(t) {
		return color.RGBA{}
	}
	return g.lut[int(t*(lutSize-1)+0.5)]
}

func (g *gradient) prepare() bool {
	if len(g.stops) == 0 {
		return false
	}
	g.lutOnce.Do(g.buildLUT)
	return true
}

func transparent(int, int) color.RGBA { return color.RGBA{} }

// LinearGradient interpolates colours along the line from (X0,Y0) to
// (X1,Y1) in pattern space.
type LinearGradient struct {
	gradient
	p0, p1 geom.Point
}

// NewLinearGradient returns a linear gradient with ExtendPad.
func NewLinearGradient(x0, y0, x1, y1 float64) *LinearGradient {
	return &LinearGradient{
		gradient: gradient{patternBase: newPatternBase(ExtendPad)},
		p0:       geom.Pt(x0, y0),
		p1:       geom.Pt(x1, y1),
	}
}

// Points returns the gradient endpoints.
func (g *LinearGradient) Points() (p0, p1 geom.Point) { return g.p0, g.p1 }

func (g *LinearGradient) shader(deviceToUser geom.Matrix) shadeFunc {
	if !g.prepare() {
		return transparent
	}
	m := g.toPattern(deviceToUser)
	d := g.p1.Sub(g.p0)
	l2 := d.Dot(d)
	return func(x, y int) color.RGBA {
		if l2 == 0 {
			return g.lookup(0)
		}
		q := m.TransformPoint(geom.Pt(float64(x)+0.5, float64(y)+0.5))
		return g.lookup(q.Sub(g.p0).Dot(d) / l2)
	}
}

// RadialGradient interpolates between two circles in pattern space, with
// the same geometry as cairo and PDF radial shadings.
type RadialGradient struct {
	gradient
	c0, c1 geom.Point
	r0, r1 float64
}

// NewRadialGradient returns a two-circle radial gradient with ExtendPad.
func NewRadialGradient(cx0, cy0, r0, cx1, cy1, r1 float64) *RadialGradient {
	return &RadialGradient{
		gradient: gradient{patternBase: newPatternBase(ExtendPad)},
		c0:       geom.Pt(cx0, cy0),
		c1:       geom.Pt(cx1, cy1),
		r0:       math.Abs(r0),
		r1:       math.Abs(r1),
	}
}

// Circles returns the start and end circles.
func (g *RadialGradient) Circles() (c0 geom.Point, r0 float64, c1 geom.Point, r1 float64) {
	return g.c0, g.r0, g.c1, g.r1
}

func (g *RadialGradient) shader(deviceToUser geom.Matrix) shadeFunc {
	if !g.prepare() {
		return transparent
	}
	m := g.toPattern(deviceToUser)
	cd := g.c1.Sub(g.c0)
	dr := g.r1 - g.r0
	a := cd.Dot(cd) - dr*dr
	valid := func(t float64) bool {
		if g.r0+t*dr < 0 {
			return false
		}
		return g.extend != ExtendNone || (t >= 0 && t <= 1)
	}
	return func(x, y int) color.RGBA {
		q := m.TransformPoint(geom.Pt(float64(x)+0.5, float64(y)+0.5))
		pd := q.Sub(g.c0)
		b := pd.Dot(cd) + g.r0*dr
		c := pd.Dot(pd) - g.r0*g.r0
		if math.Abs(a) < 1e-12 {
			if b == 0 {
				return color.RGBA{}
			}
			t := c / (2 * b)
			if !valid(t) {
				return color.RGBA{}
			}
			return g.lookup(t)
		}
		disc := b*b - a*c
		if disc < 0 {
			return color.RGBA{}
		}
		sq := math.Sqrt(disc)
		t1, t2 := (b+sq)/a, (b-sq)/a
		if t1 < t2 {
			t1, t2 = t2, t1
		}
		if valid(t1) {
			return g.lookup(t1)
		}
		if valid(t2) {
			return g.lookup(t2)
		}
		return color.RGBA{}
	}
}
