// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package convert

import "github.com/gogpu/plotgg/geom"

// clipLines clips line-only ops to r. Segments wholly outside r are
// dropped and drawing restarts with a MoveTo where a segment re-enters.
// A ClosePoly survives only when its subpath was never clipped.
func clipLines(ops []Op, r geom.Rect) []Op {
	out := make([]Op, 0, len(ops))
	var (
		cur, start geom.Point
		pen        geom.Point
		penValid   bool
		clipped    bool
	)
	segment := func(a, b geom.Point) {
		ca, cb, ok := liangBarsky(a, b, r)
		if !ok {
			clipped = true
			return
		}
		if ca != a || cb != b {
			clipped = true
		}
		if !penValid || pen != ca {
			out = append(out, Op{Kind: OpMove, Pts: [3]geom.Point{ca}})
		}
		out = append(out, Op{Kind: OpLine, Pts: [3]geom.Point{cb}})
		pen, penValid = cb, true
	}
	for _, op := range ops {
		switch op.Kind {
		case OpMove:
			cur, start = op.Pts[0], op.Pts[0]
			clipped = !r.Contains(cur)
			penValid = false
			if !clipped {
				out = append(out, op)
				pen, penValid = cur, true
			}
		case OpLine:
			segment(cur, op.Pts[0])
			cur = op.Pts[0]
		case OpClose:
			if !clipped {
				out = append(out, op)
				pen, penValid = start, true
			} else {
				segment(cur, start)
			}
			cur = start
		}
	}
	return out
}

// liangBarsky clips segment ab to r.
func liangBarsky(a, b geom.Point, r geom.Rect) (geom.Point, geom.Point, bool) {
	t0, t1 := 0.0, 1.0
	d := b.Sub(a)
	edges := [4][2]float64{
		{-d.X, a.X - r.X},
		{d.X, r.MaxX() - a.X},
		{-d.Y, a.Y - r.Y},
		{d.Y, r.MaxY() - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, b, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return a, b, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}
	ca, cb := a, b
	if t0 > 0 {
		ca = a.Add(d.Mul(t0))
	}
	if t1 < 1 {
		cb = a.Add(d.Mul(t1))
	}
	return ca, cb, true
}
