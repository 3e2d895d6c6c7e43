package canvas

import "image/color"

// Operator is a compositing operator. All operators work on premultiplied
// colours.
type Operator uint8

// Porter-Duff operators, followed by the additive and separable blend
// operators the plotting backends use.
const (
	OperatorClear Operator = iota
	OperatorSource
	OperatorOver
	OperatorIn
	OperatorOut
	OperatorAtop
	OperatorDest
	OperatorDestOver
	OperatorDestIn
	OperatorDestOut
	OperatorDestAtop
	OperatorXor
	OperatorAdd
	OperatorSaturate
	OperatorMultiply
	OperatorScreen
	OperatorDarken
	OperatorLighten
)

var operatorNames = [...]string{
	"clear", "source", "over", "in", "out", "atop",
	"dest", "dest_over", "dest_in", "dest_out", "dest_atop",
	"xor", "add", "saturate", "multiply", "screen", "darken", "lighten",
}

// String returns the lower-case operator name.
func (op Operator) String() string {
	if int(op) < len(operatorNames) {
		return operatorNames[op]
	}
	return "unknown"
}

// ParseOperator returns the operator with the given name.
func ParseOperator(name string) (Operator, bool) {
	for i, n := range operatorNames {
		if n == name {
			return Operator(i), true
		}
	}
	return OperatorOver, false
}

// Bounded reports whether the operator leaves the destination unchanged
// where the source is transparent. Unbounded operators (in, out, dest_in,
// dest_atop) also affect the clip region outside the drawn shape.
func (op Operator) Bounded() bool {
	switch op {
	case OperatorIn, OperatorOut, OperatorDestIn, OperatorDestAtop:
		return false
	}
	return true
}

// mulDiv255 multiplies two 0..255 values and divides by 255 with rounding.
func mulDiv255(a, b uint32) uint32 {
	t := a*b + 128
	return (t + t>>8) >> 8
}

func clamp255(v uint32) uint32 {
	if v > 255 {
		return 255
	}
	return v
}

// blend applies op to one premultiplied source/destination pair.
func blend(op Operator, s, d color.RGBA) color.RGBA {
	sr, sg, sb, sa := uint32(s.R), uint32(s.G), uint32(s.B), uint32(s.A)
	dr, dg, db, da := uint32(d.R), uint32(d.G), uint32(d.B), uint32(d.A)
	isa, ida := 255-sa, 255-da

	// Porter-Duff with factors fs (for S) and fd (for D).
	pd := func(fs, fd uint32) color.RGBA {
		return color.RGBA{
			R: uint8(clamp255(mulDiv255(sr, fs) + mulDiv255(dr, fd))),
			G: uint8(clamp255(mulDiv255(sg, fs) + mulDiv255(dg, fd))),
			B: uint8(clamp255(mulDiv255(sb, fs) + mulDiv255(db, fd))),
			A: uint8(clamp255(mulDiv255(sa, fs) + mulDiv255(da, fd))),
		}
	}
	// Separable blend: S(1-Da) + D(1-Sa) + f(S, D).
	sep := func(f func(sc, dc uint32) uint32) color.RGBA {
		ch := func(sc, dc uint32) uint8 {
			return uint8(clamp255(mulDiv255(sc, ida) + mulDiv255(dc, isa) + f(sc, dc)))
		}
		return color.RGBA{
			R: ch(sr, dr), G: ch(sg, dg), B: ch(sb, db),
			A: uint8(clamp255(sa + da - mulDiv255(sa, da))),
		}
	}

	switch op {
	case OperatorClear:
		return color.RGBA{}
	case OperatorSource:
		return s
	case OperatorOver:
		return pd(255, isa)
	case OperatorIn:
		return pd(da, 0)
	case OperatorOut:
		return pd(ida, 0)
	case OperatorAtop:
		return pd(da, isa)
	case OperatorDest:
		return d
	case OperatorDestOver:
		return pd(ida, 255)
	case OperatorDestIn:
		return pd(0, sa)
	case OperatorDestOut:
		return pd(0, isa)
	case OperatorDestAtop:
		return pd(ida, sa)
	case OperatorXor:
		return pd(ida, isa)
	case OperatorAdd:
		return pd(255, 255)
	case OperatorSaturate:
		// min(1, (1-Da)/Sa) source factor.
		fs := uint32(255)
		if sa > ida && sa > 0 {
			fs = ida * 255 / sa
		}
		return pd(fs, 255)
	case OperatorMultiply:
		return sep(func(sc, dc uint32) uint32 { return mulDiv255(sc, dc) })
	case OperatorScreen:
		return sep(func(sc, dc uint32) uint32 {
			t, p := mulDiv255(sc, da)+mulDiv255(dc, sa), mulDiv255(sc, dc)
			if p > t {
				return 0
			}
			return t - p
		})
	case OperatorDarken:
		return sep(func(sc, dc uint32) uint32 {
			return min(mulDiv255(sc, da), mulDiv255(dc, sa))
		})
	case OperatorLighten:
		return sep(func(sc, dc uint32) uint32 {
			return max(mulDiv255(sc, da), mulDiv255(dc, sa))
		})
	}
	return pd(255, isa)
}

// lerp returns d + (r-d)*t/255 per channel.
func lerp(d, r color.RGBA, t uint32) color.RGBA {
	if t >= 255 {
		return r
	}
	if t == 0 {
		return d
	}
	mix := func(a, b uint8) uint8 {
		return uint8(mulDiv255(uint32(a), 255-t) + mulDiv255(uint32(b), t))
	}
	return color.RGBA{R: mix(d.R, r.R), G: mix(d.G, r.G), B: mix(d.B, r.B), A: mix(d.A, r.A)}
}

// scale multiplies every channel of a premultiplied colour by t/255.
func scale(c color.RGBA, t uint32) color.RGBA {
	if t >= 255 {
		return c
	}
	return color.RGBA{
		R: uint8(mulDiv255(uint32(c.R), t)),
		G: uint8(mulDiv255(uint32(c.G), t)),
		B: uint8(mulDiv255(uint32(c.B), t)),
		A: uint8(mulDiv255(uint32(c.A), t)),
	}
}

// compositePixel combines source s into destination d with shape
// coverage m and clip coverage c:
//
//	source, clear:  d lerp(m*c) op(s, d)
//	other:          d lerp(c) op(s*m, d)
func compositePixel(op Operator, s, d color.RGBA, m, c uint32) color.RGBA {
	switch op {
	case OperatorSource, OperatorClear:
		return lerp(d, blend(op, s, d), mulDiv255(m, c))
	case OperatorOver:
		if c == 255 {
			sm := scale(s, m)
			if sm.A == 255 {
				return sm
			}
			return blend(OperatorOver, sm, d)
		}
	}
	return lerp(d, blend(op, scale(s, m), d), c)
}
