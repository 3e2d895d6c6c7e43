package plotgg

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBA is a straight (non-premultiplied) colour with components in [0, 1].
// It is also a solid Paint.
type RGBA struct {
	R, G, B, A float64
}

// RGB returns an opaque colour.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// Common colours.
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Transparent = RGBA{}
)

// Color converts to color.NRGBA.
func (c RGBA) Color() color.Color {
	q := func(v float64) uint8 { return uint8(clamp01(v)*255 + 0.5) }
	return color.NRGBA{R: q(c.R), G: q(c.G), B: q(c.B), A: q(c.A)}
}

// FromColor converts any color.Color.
func FromColor(c color.Color) RGBA {
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return RGBA{
		R: float64(n.R) / 0xffff,
		G: float64(n.G) / 0xffff,
		B: float64(n.B) / 0xffff,
		A: float64(n.A) / 0xffff,
	}
}

// WithAlpha returns c with alpha a.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = a
	return c
}

// Hex formats c as "#rrggbb", or "#rrggbbaa" when not opaque.
func (c RGBA) Hex() string {
	h := colorful.Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}.Hex()
	if c.A >= 1 {
		return h
	}
	return fmt.Sprintf("%s%02x", h, uint8(clamp01(c.A)*255+0.5))
}

func (c RGBA) finite() bool {
	for _, v := range [4]float64{c.R, c.G, c.B, c.A} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (c RGBA) components() [4]float64 { return [4]float64{c.R, c.G, c.B, c.A} }

// ParseColor parses "#rgb", "#rrggbb", "#rrggbbaa" and the names "none",
// "black", "white", "red", "green" and "blue".
func ParseColor(s string) (RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "none", "transparent":
		return Transparent, nil
	case "black", "k":
		return Black, nil
	case "white", "w":
		return White, nil
	case "red", "r":
		return RGB(1, 0, 0), nil
	case "green", "g":
		return RGB(0, 0.5, 0), nil
	case "blue", "b":
		return RGB(0, 0, 1), nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	alpha := 1.0
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("%w: colour %q", ErrInvalidArgument, s)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBA{}, fmt.Errorf("%w: colour %q: %v", ErrInvalidArgument, s, err)
	}
	return RGBA{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

// mix returns the component-wise mean of cs.
func mix(cs ...RGBA) RGBA {
	var out RGBA
	if len(cs) == 0 {
		return out
	}
	for _, c := range cs {
		out.R += c.R
		out.G += c.G
		out.B += c.B
		out.A += c.A
	}
	n := float64(len(cs))
	return RGBA{R: out.R / n, G: out.G / n, B: out.B / n, A: out.A / n}
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
