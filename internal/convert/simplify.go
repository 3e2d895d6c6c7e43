// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package convert

import "github.com/gogpu/plotgg/geom"

// simplify runs Douglas-Peucker over each subpath of a line-only program,
// dropping vertices closer than eps to the retained polyline. Distances
// are measured to the segment, so backtracking vertices are kept.
func simplify(ops []Op, eps float64) []Op {
	out := make([]Op, 0, len(ops))
	var run []geom.Point
	flush := func() {
		if len(run) == 0 {
			return
		}
		keep := make([]bool, len(run))
		keep[0], keep[len(run)-1] = true, true
		douglasPeucker(run, 0, len(run)-1, eps*eps, keep)
		out = append(out, Op{Kind: OpMove, Pts: [3]geom.Point{run[0]}})
		for i := 1; i < len(run); i++ {
			if keep[i] {
				out = append(out, Op{Kind: OpLine, Pts: [3]geom.Point{run[i]}})
			}
		}
		run = run[:0]
	}
	for _, op := range ops {
		switch op.Kind {
		case OpMove:
			flush()
			run = append(run, op.Pts[0])
		case OpLine:
			run = append(run, op.Pts[0])
		case OpClose:
			start := geom.Point{}
			if len(run) > 0 {
				start = run[0]
			}
			flush()
			out = append(out, op)
			run = append(run, start)
		}
	}
	flush()
	return out
}

// douglasPeucker marks the vertices of pts[i:j+1] to keep. It works on an
// explicit stack so very long runs cannot exhaust the goroutine stack.
func douglasPeucker(pts []geom.Point, i, j int, eps2 float64, keep []bool) {
	type span struct{ i, j int }
	stack := []span{{i, j}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.j-s.i < 2 {
			continue
		}
		a, b := pts[s.i], pts[s.j]
		ab := b.Sub(a)
		l2 := ab.Dot(ab)
		best, far := -1.0, -1
		for k := s.i + 1; k < s.j; k++ {
			ap := pts[k].Sub(a)
			if l2 > 0 {
				t := min(max(ap.Dot(ab)/l2, 0), 1)
				ap = ap.Sub(ab.Mul(t))
			}
			d2 := ap.Dot(ap)
			if d2 > best {
				best, far = d2, k
			}
		}
		if best > eps2 {
			keep[far] = true
			stack = append(stack, span{s.i, far}, span{far, s.j})
		}
	}
}
