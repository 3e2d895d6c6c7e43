package plotgg

import (
	"fmt"
	"math"

	"github.com/gogpu/plotgg/canvas"
	"github.com/gogpu/plotgg/geom"
	"github.com/gogpu/plotgg/internal/convert"
	"github.com/gogpu/plotgg/internal/hatch"
)

// CapStyle is the line end style.
type CapStyle uint8

const (
	CapButt CapStyle = iota
	CapRound
	CapProjecting
)

// JoinStyle is the line corner style.
type JoinStyle uint8

const (
	JoinMiter JoinStyle = iota
	JoinRound
	JoinBevel
)

// Snap selects vertex snapping to the pixel grid.
type Snap uint8

const (
	// SnapAuto snaps short axis-aligned line paths so that their strokes
	// cover whole pixels.
	SnapAuto Snap = iota
	SnapOn
	SnapOff
)

// Operator is a compositing operator.
type Operator = canvas.Operator

// Dash is a dash pattern in points. An empty or all-zero Lengths draws a
// solid line.
type Dash struct {
	Offset  float64
	Lengths []float64
}

// Sketch adds hand-drawn wobble to strokes. Scale is the amplitude and
// Length the wavelength, both in points; Randomness scales the variation
// of the wavelength.
type Sketch struct {
	Scale, Length, Randomness float64
}

// GraphicsState holds the style, clip and compositing attributes of one
// draw call. It is owned by the caller for the duration of the call and
// never retained by the renderer.
type GraphicsState struct {
	// Foreground is the stroke colour, also used for text.
	Foreground RGBA
	// Alpha replaces the alpha of stroke and fill colours when ForcedAlpha
	// is set. Images are always drawn with Alpha.
	Alpha       float64
	ForcedAlpha bool

	// LineWidth is in points; zero disables stroking.
	LineWidth float64
	Dash      Dash
	Cap       CapStyle
	Join      JoinStyle

	// ClipRect is in display coordinates (origin bottom-left).
	ClipRect *geom.Rect
	// ClipPath, mapped by ClipTransform into display coordinates.
	ClipPath      *geom.Path
	ClipTransform geom.Matrix

	Operator    Operator
	Antialiased bool

	// Hatch is a hatch string such as "//" or "x"; empty means none.
	Hatch          string
	HatchColor     RGBA
	HatchLineWidth float64 // points

	Sketch   *Sketch
	Snap     Snap
	Simplify bool
}

// defaultGraphicsState mirrors the plotting defaults: 1pt black butt-capped
// round-joined antialiased lines.
func defaultGraphicsState() *GraphicsState {
	return &GraphicsState{
		Foreground:     Black,
		Alpha:          1,
		LineWidth:      1,
		Cap:            CapButt,
		Join:           JoinRound,
		ClipTransform:  geom.Identity(),
		Operator:       canvas.OperatorOver,
		Antialiased:    true,
		HatchColor:     Black,
		HatchLineWidth: 1,
		Simplify:       true,
	}
}

// SetAlpha forces alpha onto every colour drawn with gs.
func (gs *GraphicsState) SetAlpha(a float64) {
	gs.Alpha, gs.ForcedAlpha = a, true
}

// SetClipRectangle clips to r in display coordinates; nil removes it.
func (gs *GraphicsState) SetClipRectangle(r *geom.Rect) { gs.ClipRect = r }

// SetClipPath clips to p mapped by m; a nil path removes it.
func (gs *GraphicsState) SetClipPath(p *geom.Path, m geom.Matrix) {
	gs.ClipPath, gs.ClipTransform = p, m
}

// SetDashes sets the dash pattern in points.
func (gs *GraphicsState) SetDashes(offset float64, lengths []float64) {
	gs.Dash = Dash{Offset: offset, Lengths: append([]float64(nil), lengths...)}
}

// apply returns c with the forced alpha applied.
func (gs *GraphicsState) apply(c RGBA) RGBA {
	if gs.ForcedAlpha {
		c.A = gs.Alpha
	}
	return c
}

// Validate reports contract violations: non-finite or negative widths,
// unknown hatch characters and unknown styles.
func (gs *GraphicsState) Validate() error {
	if gs == nil {
		return fmt.Errorf("%w: nil graphics state", ErrInvalidArgument)
	}
	bad := func(v float64) bool { return v < 0 || math.IsNaN(v) || math.IsInf(v, 0) }
	switch {
	case bad(gs.LineWidth):
		return fmt.Errorf("%w: line width %v", ErrInvalidArgument, gs.LineWidth)
	case bad(gs.HatchLineWidth):
		return fmt.Errorf("%w: hatch line width %v", ErrInvalidArgument, gs.HatchLineWidth)
	case gs.ForcedAlpha && (math.IsNaN(gs.Alpha) || gs.Alpha < 0 || gs.Alpha > 1):
		return fmt.Errorf("%w: alpha %v", ErrInvalidArgument, gs.Alpha)
	case !hatch.Valid(gs.Hatch):
		return fmt.Errorf("%w: hatch %q", ErrInvalidArgument, gs.Hatch)
	case gs.Cap > CapProjecting || gs.Join > JoinBevel || gs.Snap > SnapOff:
		return fmt.Errorf("%w: style out of range", ErrInvalidArgument)
	case !gs.Foreground.finite():
		return fmt.Errorf("%w: foreground %v", ErrInvalidArgument, gs.Foreground)
	}
	if s := gs.Sketch; s != nil && (bad(s.Scale) || bad(s.Length) || bad(s.Randomness)) {
		return fmt.Errorf("%w: sketch %+v", ErrInvalidArgument, *s)
	}
	return nil
}

func (c CapStyle) canvas() canvas.LineCap {
	switch c {
	case CapRound:
		return canvas.LineCapRound
	case CapProjecting:
		return canvas.LineCapSquare
	}
	return canvas.LineCapButt
}

func (j JoinStyle) canvas() canvas.LineJoin {
	switch j {
	case JoinRound:
		return canvas.LineJoinRound
	case JoinBevel:
		return canvas.LineJoinBevel
	}
	return canvas.LineJoinMiter
}

func (s Snap) convert() convert.SnapMode {
	switch s {
	case SnapOn:
		return convert.SnapOn
	case SnapOff:
		return convert.SnapOff
	}
	return convert.SnapAuto
}
