// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package convert

import (
	"github.com/gogpu/plotgg/canvas"
	"github.com/gogpu/plotgg/geom"
)

// OpKind is a path-construction call.
type OpKind uint8

const (
	OpMove OpKind = iota
	OpLine
	OpQuad
	OpCubic
	OpClose
)

// Op is one path-construction call with its device-space points. Quads use
// Pts[0:2], cubics Pts[0:3], moves and lines Pts[0].
type Op struct {
	Kind OpKind
	Pts  [3]geom.Point
}

// end returns the point the pen is left at, for all but OpClose.
func (o Op) end() geom.Point {
	switch o.Kind {
	case OpQuad:
		return o.Pts[1]
	case OpCubic:
		return o.Pts[2]
	}
	return o.Pts[0]
}

// Program is a converted path: a sequence of finite device-space
// construction calls ready to be replayed on a canvas context.
type Program struct {
	Ops []Op
}

// Empty reports whether the program draws nothing.
func (p *Program) Empty() bool {
	for _, op := range p.Ops {
		if op.Kind != OpMove {
			return false
		}
	}
	return true
}

// Bounds returns the bounding box of all points, control points included.
func (p *Program) Bounds() geom.Rect {
	pts := make([]geom.Point, 0, len(p.Ops))
	for _, op := range p.Ops {
		switch op.Kind {
		case OpMove, OpLine:
			pts = append(pts, op.Pts[0])
		case OpQuad:
			pts = append(pts, op.Pts[0], op.Pts[1])
		case OpCubic:
			pts = append(pts, op.Pts[:]...)
		}
	}
	return geom.BoundsOf(pts)
}

// Apply replays the program onto ctx, which should have an identity
// transform for device-space output.
func (p *Program) Apply(ctx *canvas.Context) {
	p.ApplyOffset(ctx, 0, 0)
}

// ApplyOffset replays the program shifted by (dx, dy).
func (p *Program) ApplyOffset(ctx *canvas.Context, dx, dy float64) {
	for _, op := range p.Ops {
		a, b, c := op.Pts[0], op.Pts[1], op.Pts[2]
		switch op.Kind {
		case OpMove:
			ctx.MoveTo(a.X+dx, a.Y+dy)
		case OpLine:
			ctx.LineTo(a.X+dx, a.Y+dy)
		case OpQuad:
			ctx.QuadTo(a.X+dx, a.Y+dy, b.X+dx, b.Y+dy)
		case OpCubic:
			ctx.CurveTo(a.X+dx, a.Y+dy, b.X+dx, b.Y+dy, c.X+dx, c.Y+dy)
		case OpClose:
			ctx.ClosePath()
		}
	}
}

// Translated returns a copy of the program shifted by (dx, dy).
func (p *Program) Translated(dx, dy float64) *Program {
	out := &Program{Ops: make([]Op, len(p.Ops))}
	d := geom.Pt(dx, dy)
	for i, op := range p.Ops {
		for j := range op.Pts {
			op.Pts[j] = op.Pts[j].Add(d)
		}
		out.Ops[i] = op
	}
	return out
}

// vertexCount returns the number of on-curve and control vertices.
func vertexCount(ops []Op) int {
	n := 0
	for _, op := range ops {
		switch op.Kind {
		case OpQuad:
			n += 2
		case OpCubic:
			n += 3
		case OpClose:
		default:
			n++
		}
	}
	return n
}

func linesOnly(ops []Op) bool {
	for _, op := range ops {
		if op.Kind == OpQuad || op.Kind == OpCubic {
			return false
		}
	}
	return true
}
