// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package convert

import (
	"math"
	"math/rand/v2"

	"github.com/gogpu/plotgg/geom"
)

// sketchSeed fixes the wobble so repeated draws are identical.
const sketchSeed = 0x5eed

// maxSketchVertices bounds the subdivision of very long paths.
const maxSketchVertices = 1 << 20

// sketch flattens curves, subdivides lines into roughly one-pixel steps and
// displaces every vertex perpendicular to its incoming segment by a
// sinusoid whose phase advances by a random amount per step.
func sketch(ops []Op, s Sketch, tol float64) []Op {
	ops = flattenOps(ops, tol)
	randomness := s.Randomness
	if randomness <= 0 {
		randomness = 1
	}
	rng := rand.New(rand.NewPCG(sketchSeed, sketchSeed))
	pScale := 2 * math.Pi / (s.Length * randomness)
	phase := 0.0
	budget := maxSketchVertices

	out := make([]Op, 0, len(ops))
	var cur, start geom.Point
	wobble := func(from, to geom.Point) geom.Point {
		phase += math.Pow(randomness, rng.Float64()*2-1)
		r := math.Sin(phase*pScale) * s.Scale
		d := to.Sub(from)
		n := d.Length()
		if n < 1e-9 {
			return to
		}
		return geom.Pt(to.X+r*d.Y/n, to.Y-r*d.X/n)
	}
	line := func(to geom.Point) {
		steps := int(math.Ceil(to.Sub(cur).Length()))
		steps = max(1, min(steps, budget))
		budget -= steps
		prev := cur
		for i := 1; i <= steps; i++ {
			p := cur.Lerp(to, float64(i)/float64(steps))
			out = append(out, Op{Kind: OpLine, Pts: [3]geom.Point{wobble(prev, p)}})
			prev = p
		}
		cur = to
	}
	for _, op := range ops {
		switch op.Kind {
		case OpMove:
			cur, start = op.Pts[0], op.Pts[0]
			out = append(out, op)
		case OpLine:
			line(op.Pts[0])
		case OpClose:
			line(start)
			out = append(out, op)
			cur = start
		}
	}
	return out
}

// flattenOps replaces curves with line segments within tol.
func flattenOps(ops []Op, tol float64) []Op {
	if linesOnly(ops) {
		return ops
	}
	out := make([]Op, 0, len(ops)*2)
	var cur geom.Point
	for _, op := range ops {
		switch op.Kind {
		case OpQuad:
			c1 := cur.Lerp(op.Pts[0], 2.0/3)
			c2 := op.Pts[1].Lerp(op.Pts[0], 2.0/3)
			out = appendCubic(out, cur, c1, c2, op.Pts[1], tol)
		case OpCubic:
			out = appendCubic(out, cur, op.Pts[0], op.Pts[1], op.Pts[2], tol)
		default:
			out = append(out, op)
		}
		if op.Kind != OpClose {
			cur = op.end()
		}
	}
	return out
}

func appendCubic(out []Op, p0, p1, p2, p3 geom.Point, tol float64) []Op {
	dd := math.Max(
		p0.Sub(p1.Mul(2)).Add(p2).Length(),
		p1.Sub(p2.Mul(2)).Add(p3).Length(),
	)
	n := int(math.Ceil(math.Sqrt(0.75 * dd / tol)))
	n = max(1, min(n, 1024))
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		u := 1 - t
		p := p0.Mul(u * u * u).Add(p1.Mul(3 * u * u * t)).Add(p2.Mul(3 * u * t * t)).Add(p3.Mul(t * t * t))
		out = append(out, Op{Kind: OpLine, Pts: [3]geom.Point{p}})
	}
	return out
}
