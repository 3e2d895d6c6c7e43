package plotgg

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/plotgg/geom"
)

func TestValidatePaint(t *testing.T) {
	stops := []GradientStop{{0, Black}, {1, White}}
	tests := []struct {
		name string
		p    Paint
		ok   bool
	}{
		{"nil", nil, true},
		{"colour", RGB(1, 0, 0), true},
		{"nan colour", RGBA{R: math.NaN(), A: 1}, false},
		{"linear", &LinearGradient{End: geom.Pt(1, 0), Stops: stops}, true},
		{"typed nil linear", (*LinearGradient)(nil), false},
		{"no stops", &LinearGradient{End: geom.Pt(1, 0)}, false},
		{"stop offset", &LinearGradient{Stops: []GradientStop{{1.5, Black}}}, false},
		{"radial", &RadialGradient{R1: 2, Stops: stops}, true},
		{"negative radius", &RadialGradient{R0: -1, Stops: stops}, false},
		{"infinite centre", &RadialGradient{C0: geom.Pt(math.Inf(1), 0), Stops: stops}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePaint(tt.p)
			if tt.ok && err != nil {
				t.Errorf("validatePaint() = %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("validatePaint() = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestGraphicsStateValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*GraphicsState)
	}{
		{"negative width", func(gs *GraphicsState) { gs.LineWidth = -1 }},
		{"nan width", func(gs *GraphicsState) { gs.LineWidth = math.NaN() }},
		{"forced alpha range", func(gs *GraphicsState) { gs.SetAlpha(2) }},
		{"hatch", func(gs *GraphicsState) { gs.Hatch = "/?" }},
		{"cap", func(gs *GraphicsState) { gs.Cap = 9 }},
		{"foreground", func(gs *GraphicsState) { gs.Foreground.G = math.Inf(1) }},
		{"sketch", func(gs *GraphicsState) { gs.Sketch = &Sketch{Scale: -1} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := defaultGraphicsState()
			tt.modify(gs)
			if err := gs.Validate(); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Validate() = %v, want ErrInvalidArgument", err)
			}
		})
	}
	if err := defaultGraphicsState().Validate(); err != nil {
		t.Errorf("default state invalid: %v", err)
	}
	var nilState *GraphicsState
	if err := nilState.Validate(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil state: %v", err)
	}
}

func TestForcedAlpha(t *testing.T) {
	gs := defaultGraphicsState()
	c := RGB(1, 0, 0).WithAlpha(0.3)
	if gs.apply(c) != c {
		t.Error("alpha changed without forcing")
	}
	gs.SetAlpha(0.7)
	if got := gs.apply(c).A; got != 0.7 {
		t.Errorf("forced alpha = %v, want 0.7", got)
	}
}

func TestSetDashesCopies(t *testing.T) {
	gs := defaultGraphicsState()
	d := []float64{3, 1}
	gs.SetDashes(0.5, d)
	d[0] = 99
	if gs.Dash.Lengths[0] != 3 || gs.Dash.Offset != 0.5 {
		t.Errorf("dash = %+v", gs.Dash)
	}
}
