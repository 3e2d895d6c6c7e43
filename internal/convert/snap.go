// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package convert

import (
	"math"

	"github.com/gogpu/plotgg/geom"
)

// rectilinearEps is the largest offset still treated as axis-aligned.
const rectilinearEps = 1e-4

func shouldSnap(ops []Op, mode SnapMode) bool {
	switch mode {
	case SnapOn:
		return true
	case SnapOff:
		return false
	}
	if !linesOnly(ops) || vertexCount(ops) > snapMaxVertices {
		return false
	}
	var cur, start geom.Point
	check := func(p geom.Point) bool {
		d := p.Sub(cur)
		return math.Abs(d.X) < rectilinearEps || math.Abs(d.Y) < rectilinearEps
	}
	for _, op := range ops {
		switch op.Kind {
		case OpMove:
			cur, start = op.Pts[0], op.Pts[0]
		case OpLine:
			if !check(op.Pts[0]) {
				return false
			}
			cur = op.Pts[0]
		case OpClose:
			if !check(start) {
				return false
			}
			cur = start
		}
	}
	return true
}

// snapOffset is 0.5 for odd rounded stroke widths so that strokes cover
// whole pixels, and 0 otherwise.
func snapOffset(width float64) float64 {
	if int(math.Round(width))%2 != 0 {
		return 0.5
	}
	return 0
}

func snap(ops []Op, width float64) []Op {
	off := snapOffset(width)
	out := make([]Op, len(ops))
	for i, op := range ops {
		for j := range op.Pts {
			p := op.Pts[j]
			op.Pts[j] = geom.Pt(math.Floor(p.X+0.5-off)+off, math.Floor(p.Y+0.5-off)+off)
		}
		if op.Kind == OpClose {
			op.Pts = [3]geom.Point{}
		}
		out[i] = op
	}
	return out
}
