// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package convert turns plotting paths into device-space path programs.
//
// Conversion applies the affine transform, removes non-finite vertices,
// and optionally clips, snaps, simplifies and sketches the geometry. The
// result contains only finite coordinates, so the drawing library never
// sees NaN or infinite input.
package convert

import (
	"errors"
	"fmt"

	"github.com/gogpu/plotgg/geom"
)

// ErrInvalidDash is returned for dash patterns with negative or
// non-finite lengths.
var ErrInvalidDash = errors.New("convert: invalid dash pattern")

// SnapMode selects vertex snapping to the pixel grid.
type SnapMode uint8

const (
	// SnapAuto snaps short rectilinear line paths only.
	SnapAuto SnapMode = iota
	// SnapOn always snaps.
	SnapOn
	// SnapOff never snaps.
	SnapOff
)

// Sketch describes hand-drawn wobble, in device pixels.
type Sketch struct {
	// Scale is the wobble amplitude perpendicular to the line.
	Scale float64
	// Length is the wobble wavelength along the line.
	Length float64
	// Randomness scales how much the wavelength varies.
	Randomness float64
}

// Options control conversion.
type Options struct {
	// Tolerance is the curve flattening tolerance in device pixels.
	Tolerance float64
	// Snap selects pixel snapping.
	Snap SnapMode
	// StrokeWidth is the device stroke width, used to pick the snap
	// offset (pixel centres for odd widths).
	StrokeWidth float64
	// Filled disables transformations that are only valid for strokes
	// (clipping of open segments and simplification).
	Filled bool
	// Clip, when non-nil, is the device viewport; unfilled line paths are
	// clipped to it, expanded by ClipMargin.
	Clip *geom.Rect
	// Simplify enables removal of vertices that deviate from the line by
	// less than SimplifyThreshold pixels on long unfilled line paths.
	Simplify bool
	// Sketch, when non-nil with positive Scale, adds wobble.
	Sketch *Sketch
}

// Tuning constants.
const (
	// ClipMargin keeps clipped segment ends off-screen so caps and joins
	// at the viewport edge are not affected.
	ClipMargin = 64
	// SimplifyThreshold is the maximum perpendicular deviation removed by
	// simplification.
	SimplifyThreshold = 1.0 / 9
	// simplifyMinVertices is the vertex count below which simplification
	// is not worth its cost.
	simplifyMinVertices = 128
	// snapMaxVertices bounds automatic snapping.
	snapMaxVertices = 1024
)

// DefaultTolerance is used when Options.Tolerance is zero.
const DefaultTolerance = 0.1

// Convert maps path through m and returns a device-space program.
// Malformed code arrays are reported; non-finite vertices are dropped.
func Convert(path geom.Path, m geom.Matrix, opts Options) (*Program, error) {
	if err := path.Validate(); err != nil {
		return nil, err
	}
	if !m.Finite() {
		return nil, fmt.Errorf("convert: non-finite transform %+v", m)
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}
	ops := removeNonFinite(path, m)
	if opts.Clip != nil && !opts.Filled && linesOnly(ops) {
		ops = clipLines(ops, opts.Clip.Inset(-ClipMargin))
	}
	if shouldSnap(ops, opts.Snap) {
		ops = snap(ops, opts.StrokeWidth)
	}
	if opts.Simplify && !opts.Filled && linesOnly(ops) && vertexCount(ops) >= simplifyMinVertices {
		ops = simplify(ops, SimplifyThreshold)
	}
	if s := opts.Sketch; s != nil && s.Scale > 0 && s.Length > 0 {
		ops = sketch(ops, *s, opts.Tolerance)
	}
	return &Program{Ops: ops}, nil
}

// removeNonFinite transforms the path and drops every segment that touches
// a non-finite vertex. Drawing resumes with a MoveTo at the next finite
// vertex; a ClosePoly in a subpath broken this way is dropped.
func removeNonFinite(path geom.Path, m geom.Matrix) []Op {
	ops := make([]Op, 0, path.Len())
	var (
		start      geom.Point
		startValid bool
		needMove   = true
		broken     bool
	)
	path.Segments(func(s geom.Segment) bool {
		var pts [3]geom.Point
		ok := true
		for i, p := range s.Points {
			pts[i] = m.TransformPoint(p)
			ok = ok && pts[i].Finite()
		}
		switch s.Code {
		case geom.MoveTo:
			if ok {
				ops = append(ops, Op{Kind: OpMove, Pts: pts})
				start, startValid, needMove, broken = pts[0], true, false, false
			} else {
				startValid, needMove, broken = false, true, true
			}
		case geom.LineTo, geom.Curve3, geom.Curve4:
			end := pts[len(s.Points)-1]
			switch {
			case !ok && !end.Finite():
				needMove, broken = true, true
			case !ok || needMove:
				ops = append(ops, Op{Kind: OpMove, Pts: [3]geom.Point{end}})
				broken = broken || !ok
				needMove = false
				if !startValid {
					start, startValid = end, true
				}
			default:
				kind := OpLine
				if s.Code == geom.Curve3 {
					kind = OpQuad
				} else if s.Code == geom.Curve4 {
					kind = OpCubic
				}
				ops = append(ops, Op{Kind: kind, Pts: pts})
			}
		case geom.ClosePoly:
			if !startValid {
				needMove = true
				return true
			}
			if !broken && !needMove {
				ops = append(ops, Op{Kind: OpClose})
			} else {
				ops = append(ops, Op{Kind: OpMove, Pts: [3]geom.Point{start}})
			}
			needMove, broken = false, false
		}
		return true
	})
	return ops
}
