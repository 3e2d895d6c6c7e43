package canvas

import (
	"github.com/gogpu/plotgg/geom"
)

// Antialias selects edge rendering.
type Antialias uint8

const (
	// AntialiasDefault renders with coverage-based antialiasing.
	AntialiasDefault Antialias = iota
	// AntialiasNone renders pixels whose centre is inside the shape.
	AntialiasNone
	// AntialiasGray is coverage-based antialiasing.
	AntialiasGray
)

// gstate is one entry of the context state stack.
type gstate struct {
	ctm       geom.Matrix
	source    Pattern
	sourceInv geom.Matrix // device-to-user when the source was set
	op        Operator
	alpha     float64
	antialias Antialias
	fillRule  FillRule

	lineWidth  float64
	cap        LineCap
	join       LineJoin
	miterLimit float64
	dash       []float64
	dashOffset float64

	clip clipRegion
}

// Context draws onto a Surface. It is not safe for concurrent use.
type Context struct {
	target *Surface
	gs     gstate
	stack  []gstate
	path   pathBuf
	status Status
}

// NewContext returns a context targeting s. If s carries an error status
// the context inherits it.
func NewContext(s *Surface) *Context {
	c := &Context{target: s}
	if st := s.Status(); st != StatusSuccess {
		c.status = st
		return c
	}
	c.gs = gstate{
		ctm:        geom.Identity(),
		source:     NewSolidPattern(0, 0, 0, 1),
		sourceInv:  geom.Identity(),
		op:         OperatorOver,
		alpha:      1,
		lineWidth:  2,
		miterLimit: 10,
		clip:       fullClip(s.deviceRect()),
	}
	return c
}

// Status returns the latched context status.
func (c *Context) Status() Status { return c.status }

// Target returns the target surface.
func (c *Context) Target() *Surface { return c.target }

// Save pushes a copy of the current state.
func (c *Context) Save() {
	if c.status != StatusSuccess {
		return
	}
	saved := c.gs
	saved.dash = append([]float64(nil), c.gs.dash...)
	c.stack = append(c.stack, saved)
}

// Restore pops the state pushed by the matching Save. Restore without a
// Save latches StatusInvalidRestore.
func (c *Context) Restore() {
	if c.status != StatusSuccess {
		return
	}
	if len(c.stack) == 0 {
		latch(&c.status, StatusInvalidRestore)
		return
	}
	c.gs = c.stack[len(c.stack)-1]
	c.stack[len(c.stack)-1] = gstate{}
	c.stack = c.stack[:len(c.stack)-1]
}

// Depth returns the number of saved states. It is reported even after an
// error has latched, so callers can verify balance.
func (c *Context) Depth() int { return len(c.stack) }

// Unwind pops saved states until Depth equals depth. It works regardless
// of the context status and is used to restore balance after a failure.
func (c *Context) Unwind(depth int) {
	for len(c.stack) > depth {
		c.gs = c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
	}
}

// Matrix returns the current transformation matrix.
func (c *Context) Matrix() geom.Matrix { return c.gs.ctm }

// SetMatrix replaces the current transformation matrix.
func (c *Context) SetMatrix(m geom.Matrix) {
	if _, ok := m.Invert(); !ok {
		latch(&c.status, StatusInvalidMatrix)
		return
	}
	c.gs.ctm = m
}

// Transform multiplies the CTM by m; m is applied to user coordinates
// before the existing CTM.
func (c *Context) Transform(m geom.Matrix) {
	c.SetMatrix(c.gs.ctm.Multiply(m))
}

// Translate shifts user space.
func (c *Context) Translate(tx, ty float64) { c.Transform(geom.Translate(tx, ty)) }

// Scale scales user space.
func (c *Context) Scale(sx, sy float64) { c.Transform(geom.Scale(sx, sy)) }

// Rotate rotates user space by angle radians.
func (c *Context) Rotate(angle float64) { c.Transform(geom.Rotate(angle)) }

// IdentityMatrix resets the CTM.
func (c *Context) IdentityMatrix() { c.gs.ctm = geom.Identity() }

// SetSource sets the paint source. The current CTM is locked into the
// source, as in cairo: later CTM changes do not move the pattern.
func (c *Context) SetSource(p Pattern) {
	if c.status != StatusSuccess {
		return
	}
	if p == nil {
		latch(&c.status, StatusNullPointer)
		return
	}
	if st := p.Status(); st != StatusSuccess {
		latch(&c.status, st)
		return
	}
	inv, _ := c.gs.ctm.Invert()
	c.gs.source = p
	c.gs.sourceInv = inv
}

// SetSourceRGBA sets a solid source colour.
func (c *Context) SetSourceRGBA(r, g, b, a float64) {
	c.SetSource(NewSolidPattern(r, g, b, a))
}

// Source returns the current source.
func (c *Context) Source() Pattern { return c.gs.source }

// SetOperator sets the compositing operator.
func (c *Context) SetOperator(op Operator) { c.gs.op = op }

// Operator returns the compositing operator.
func (c *Context) Operator() Operator { return c.gs.op }

// SetAlpha sets a constant opacity applied to everything drawn. Values
// are clamped to [0, 1]; NaN is ignored.
func (c *Context) SetAlpha(a float64) {
	if a != a {
		return
	}
	c.gs.alpha = clamp01(a)
}

// Alpha returns the constant opacity.
func (c *Context) Alpha() float64 { return c.gs.alpha }

// SetAntialias sets the antialiasing mode.
func (c *Context) SetAntialias(a Antialias) { c.gs.antialias = a }

// Antialias returns the antialiasing mode.
func (c *Context) Antialias() Antialias { return c.gs.antialias }

// SetFillRule sets the fill rule.
func (c *Context) SetFillRule(r FillRule) { c.gs.fillRule = r }

// SetLineWidth sets the stroke width in user units.
func (c *Context) SetLineWidth(w float64) {
	if w >= 0 && finite(w) {
		c.gs.lineWidth = w
	}
}

// LineWidth returns the stroke width.
func (c *Context) LineWidth() float64 { return c.gs.lineWidth }

// SetLineCap sets the cap style.
func (c *Context) SetLineCap(lc LineCap) { c.gs.cap = lc }

// SetLineJoin sets the join style.
func (c *Context) SetLineJoin(lj LineJoin) { c.gs.join = lj }

// SetMiterLimit sets the miter limit ratio.
func (c *Context) SetMiterLimit(l float64) {
	if l >= 1 {
		c.gs.miterLimit = l
	}
}

// SetDash sets the dash pattern in user units. An empty or all-zero array
// disables dashing; negative entries latch StatusInvalidDash.
func (c *Context) SetDash(array []float64, offset float64) {
	if c.status != StatusSuccess {
		return
	}
	if _, st := newDashPattern(array, offset, 1); st != StatusSuccess {
		latch(&c.status, st)
		return
	}
	c.gs.dash = append(c.gs.dash[:0:0], array...)
	c.gs.dashOffset = offset
}

func (c *Context) antialiased() bool {
	return c.gs.antialias != AntialiasNone
}
