package plotgg

import (
	"fmt"
	"math"

	"github.com/gogpu/plotgg/canvas"
	"github.com/gogpu/plotgg/geom"
)

// Paint is a fill source: an RGBA colour, a *LinearGradient or a
// *RadialGradient.
type Paint interface {
	paint()
}

func (RGBA) paint()            {}
func (*LinearGradient) paint() {}
func (*RadialGradient) paint() {}

// Extend controls gradient colour outside the [0, 1] offset range.
type Extend = canvas.Extend

// GradientStop is a colour at an offset in [0, 1].
type GradientStop struct {
	Offset float64
	Color  RGBA
}

// LinearGradient varies colour along the line from Start to End. Points are
// in the coordinates of the path being filled, so the gradient follows the
// path's transform.
type LinearGradient struct {
	Start, End geom.Point
	Stops      []GradientStop
	Extend     Extend
}

// RadialGradient varies colour between two circles, in the coordinates of
// the path being filled.
type RadialGradient struct {
	C0     geom.Point
	R0     float64
	C1     geom.Point
	R1     float64
	Stops  []GradientStop
	Extend Extend
}

func validateStops(stops []GradientStop) error {
	if len(stops) == 0 {
		return fmt.Errorf("%w: gradient without stops", ErrInvalidArgument)
	}
	for i, s := range stops {
		if math.IsNaN(s.Offset) || s.Offset < 0 || s.Offset > 1 || !s.Color.finite() {
			return fmt.Errorf("%w: gradient stop %d %+v", ErrInvalidArgument, i, s)
		}
	}
	return nil
}

func validatePaint(p Paint) error {
	switch v := p.(type) {
	case nil:
		return nil
	case RGBA:
		if !v.finite() {
			return fmt.Errorf("%w: colour %v", ErrInvalidArgument, v)
		}
	case *LinearGradient:
		if v == nil || !v.Start.Finite() || !v.End.Finite() {
			return fmt.Errorf("%w: linear gradient geometry", ErrInvalidArgument)
		}
		return validateStops(v.Stops)
	case *RadialGradient:
		if v == nil || !v.C0.Finite() || !v.C1.Finite() || v.R0 < 0 || v.R1 < 0 ||
			math.IsNaN(v.R0) || math.IsNaN(v.R1) || math.IsInf(v.R0, 0) || math.IsInf(v.R1, 0) {
			return fmt.Errorf("%w: radial gradient geometry", ErrInvalidArgument)
		}
		return validateStops(v.Stops)
	default:
		return fmt.Errorf("%w: unsupported paint %T", ErrInvalidArgument, p)
	}
	return nil
}
