package canvas

import (
	"image/color"
	"math"

	"github.com/gogpu/plotgg/geom"
)

// Extend controls how a pattern is sampled outside its natural area.
type Extend uint8

const (
	// ExtendNone is transparent outside the pattern area.
	ExtendNone Extend = iota
	// ExtendRepeat tiles the pattern.
	ExtendRepeat
	// ExtendReflect tiles the pattern, mirroring every other tile.
	ExtendReflect
	// ExtendPad repeats the nearest edge colour.
	ExtendPad
)

// Filter selects surface pattern sampling.
type Filter uint8

const (
	FilterNearest Filter = iota
	FilterBilinear
)

// Pattern is a paint source. The pattern matrix maps user space to
// pattern space.
type Pattern interface {
	// Status returns the latched pattern status.
	Status() Status
	// Matrix returns the user-to-pattern matrix.
	Matrix() geom.Matrix
	// SetMatrix sets the user-to-pattern matrix. A non-invertible matrix
	// latches StatusInvalidMatrix.
	SetMatrix(m geom.Matrix)

	// shader returns a sampler for device pixels given the device-to-user
	// matrix in force when the pattern became the source.
	shader(deviceToUser geom.Matrix) shadeFunc
}

// shadeFunc returns the premultiplied colour at the centre of device
// pixel (x, y).
type shadeFunc func(x, y int) color.RGBA

type patternBase struct {
	matrix geom.Matrix
	extend Extend
	status Status
}

func newPatternBase(extend Extend) patternBase {
	return patternBase{matrix: geom.Identity(), extend: extend}
}

func (p *patternBase) Status() Status      { return p.status }
func (p *patternBase) Matrix() geom.Matrix { return p.matrix }

func (p *patternBase) SetMatrix(m geom.Matrix) {
	if _, ok := m.Invert(); !ok {
		latch(&p.status, StatusInvalidMatrix)
		return
	}
	p.matrix = m
}

// SetExtend sets the extend mode.
func (p *patternBase) SetExtend(e Extend) { p.extend = e }

// Extend returns the extend mode.
func (p *patternBase) Extend() Extend { return p.extend }

// toPattern maps a device pixel centre into pattern space.
func (p *patternBase) toPattern(deviceToUser geom.Matrix) geom.Matrix {
	return p.matrix.Multiply(deviceToUser)
}

// premul converts straight [0,1] components to a premultiplied colour.
func premul(r, g, b, a float64) color.RGBA {
	a = clamp01(a)
	return color.RGBA{
		R: uint8(clamp01(r)*a*255 + 0.5),
		G: uint8(clamp01(g)*a*255 + 0.5),
		B: uint8(clamp01(b)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	}
	return v
}

// SolidPattern paints a single colour.
type SolidPattern struct {
	patternBase
	c color.RGBA
}

// NewSolidPattern returns a solid pattern; components are clamped to [0,1].
func NewSolidPattern(r, g, b, a float64) *SolidPattern {
	return &SolidPattern{patternBase: newPatternBase(ExtendPad), c: premul(r, g, b, a)}
}

// Color returns the premultiplied colour.
func (p *SolidPattern) Color() color.RGBA { return p.c }

func (p *SolidPattern) shader(geom.Matrix) shadeFunc {
	c := p.c
	return func(int, int) color.RGBA { return c }
}

// SurfacePattern paints from the pixels of a surface. Pattern space is the
// surface's pixel space.
type SurfacePattern struct {
	patternBase
	surface *Surface
	filter  Filter
}

// NewSurfacePattern returns a pattern over s with ExtendNone and bilinear
// filtering. The surface must stay alive and unmodified while the pattern
// is in use.
func NewSurfacePattern(s *Surface) *SurfacePattern {
	p := &SurfacePattern{patternBase: newPatternBase(ExtendNone), surface: s, filter: FilterBilinear}
	latch(&p.status, s.Status())
	return p
}

// SetFilter sets the sampling filter.
func (p *SurfacePattern) SetFilter(f Filter) { p.filter = f }

// Surface returns the source surface.
func (p *SurfacePattern) Surface() *Surface { return p.surface }

// PixelArea returns the source surface area, used for cache accounting.
func (p *SurfacePattern) PixelArea() int { return p.surface.PixelArea() }

// wrap maps an integer coordinate into [0, n) per the extend mode; ok is
// false for ExtendNone outside the range.
func wrap(v, n int, e Extend) (int, bool) {
	if v >= 0 && v < n {
		return v, true
	}
	switch e {
	case ExtendRepeat:
		v %= n
		if v < 0 {
			v += n
		}
		return v, true
	case ExtendReflect:
		p := 2 * n
		v %= p
		if v < 0 {
			v += p
		}
		if v >= n {
			v = p - 1 - v
		}
		return v, true
	case ExtendPad:
		return min(max(v, 0), n-1), true
	}
	return 0, false
}

func (p *SurfacePattern) sample(x, y int) color.RGBA {
	s := p.surface
	xi, okx := wrap(x, s.Width(), p.extend)
	yi, oky := wrap(y, s.Height(), p.extend)
	if !okx || !oky {
		return color.RGBA{}
	}
	return s.at(xi, yi)
}

func (p *SurfacePattern) shader(deviceToUser geom.Matrix) shadeFunc {
	m := p.toPattern(deviceToUser)
	if p.filter == FilterNearest || m.IsTranslation() && m.C == math.Trunc(m.C) && m.F == math.Trunc(m.F) {
		return func(x, y int) color.RGBA {
			q := m.TransformPoint(geom.Pt(float64(x)+0.5, float64(y)+0.5))
			return p.sample(int(math.Floor(q.X)), int(math.Floor(q.Y)))
		}
	}
	return func(x, y int) color.RGBA {
		q := m.TransformPoint(geom.Pt(float64(x)+0.5, float64(y)+0.5))
		fx, fy := q.X-0.5, q.Y-0.5
		x0, y0 := math.Floor(fx), math.Floor(fy)
		tx, ty := uint32((fx-x0)*256), uint32((fy-y0)*256)
		ix, iy := int(x0), int(y0)
		c00 := p.sample(ix, iy)
		c10 := p.sample(ix+1, iy)
		c01 := p.sample(ix, iy+1)
		c11 := p.sample(ix+1, iy+1)
		mix := func(a, b, c, d uint8) uint8 {
			top := uint32(a)*(256-tx) + uint32(b)*tx
			bot := uint32(c)*(256-tx) + uint32(d)*tx
			return uint8((top*(256-ty) + bot*ty + 1<<15) >> 16)
		}
		return color.RGBA{
			R: mix(c00.R, c10.R, c01.R, c11.R),
			G: mix(c00.G, c10.G, c01.G, c11.G),
			B: mix(c00.B, c10.B, c01.B, c11.B),
			A: mix(c00.A, c10.A, c01.A, c11.A),
		}
	}
}
