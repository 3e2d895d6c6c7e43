// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package plotcanvas

import (
	"errors"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// ErrNilTarget is returned when RenderTo is given a nil destination.
var ErrNilTarget = errors.New("plotcanvas: nil render target")

// RenderOptions controls how the canvas is composited onto a target.
type RenderOptions struct {
	// X, Y is the top-left position in the target.
	X, Y int

	// ScaleX, ScaleY are the scale factors; values below 1 shrink.
	ScaleX float64
	ScaleY float64

	// Alpha is the opacity from 0 (transparent) to 1 (opaque).
	Alpha float64
}

// DefaultRenderOptions returns unscaled opaque placement at the origin.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{ScaleX: 1, ScaleY: 1, Alpha: 1}
}

// RenderTo redraws the canvas if dirty and composites it onto dst at the
// origin.
func (c *Canvas) RenderTo(dst xdraw.Image) error {
	return c.RenderToEx(dst, DefaultRenderOptions())
}

// RenderToEx redraws the canvas if dirty and composites it onto dst.
// Scaled output is resampled bilinearly.
func (c *Canvas) RenderToEx(dst xdraw.Image, opts RenderOptions) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if dst == nil {
		return ErrNilTarget
	}
	if err := c.Redraw(); err != nil {
		return err
	}
	src := c.offscreen.Image()
	sb := src.Bounds()
	sx, sy := opts.ScaleX, opts.ScaleY
	if sx <= 0 {
		sx = 1
	}
	if sy <= 0 {
		sy = 1
	}
	w := int(float64(sb.Dx())*sx + 0.5)
	h := int(float64(sb.Dy())*sy + 0.5)
	dr := image.Rect(opts.X, opts.Y, opts.X+w, opts.Y+h)

	var xo xdraw.Options
	if a := opts.Alpha; a < 1 {
		if a < 0 {
			a = 0
		}
		xo.SrcMask = image.NewUniform(color.Alpha{A: uint8(a*255 + 0.5)})
	}
	if w == sb.Dx() && h == sb.Dy() {
		xdraw.NearestNeighbor.Scale(dst, dr, src, sb, xdraw.Over, &xo)
		return nil
	}
	xdraw.ApproxBiLinear.Scale(dst, dr, src, sb, xdraw.Over, &xo)
	return nil
}
