// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package plotcanvas

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/plotgg"
	"github.com/gogpu/plotgg/canvas"
)

// Common errors returned by Canvas operations.
var (
	// ErrCanvasClosed is returned when operations are attempted on a closed canvas.
	ErrCanvasClosed = errors.New("plotcanvas: canvas is closed")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("plotcanvas: invalid dimensions")

	// ErrNilFigure is returned when a nil Figure is passed.
	ErrNilFigure = errors.New("plotcanvas: nil figure")
)

// Figure is anything that can draw itself through a backend.
type Figure interface {
	Draw(b plotgg.Backend) error
}

// FigureFunc adapts a function to Figure.
type FigureFunc func(b plotgg.Backend) error

// Draw calls f(b).
func (f FigureFunc) Draw(b plotgg.Backend) error { return f(b) }

// Canvas draws a Figure on demand into toolkit-supplied surfaces.
type Canvas struct {
	r          *plotgg.Renderer
	fig        Figure
	background plotgg.RGBA
	offscreen  *canvas.Surface
	dirty      bool
	width      int
	height     int
	frames     uint64
	closed     bool
}

// New creates a canvas of the given size drawing fig. The options
// configure the underlying renderer.
func New(fig Figure, width, height int, opts ...plotgg.Option) (*Canvas, error) {
	if fig == nil {
		return nil, ErrNilFigure
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	r, err := plotgg.New(width, height, opts...)
	if err != nil {
		return nil, fmt.Errorf("plotcanvas: %w", err)
	}
	return &Canvas{
		r:          r,
		fig:        fig,
		background: plotgg.White,
		offscreen:  r.Surface(),
		dirty:      true,
		width:      width,
		height:     height,
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(fig Figure, width, height int, opts ...plotgg.Option) *Canvas {
	c, err := New(fig, width, height, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Renderer returns the renderer, or nil once the canvas is closed.
func (c *Canvas) Renderer() *plotgg.Renderer {
	if c.closed {
		return nil
	}
	return c.r
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

// Size returns width and height.
func (c *Canvas) Size() (width, height int) { return c.width, c.height }

// Frames returns the number of completed redraws.
func (c *Canvas) Frames() uint64 { return c.frames }

// SetBackground sets the colour each redraw starts from.
func (c *Canvas) SetBackground(bg plotgg.RGBA) {
	c.background = bg
	c.dirty = true
}

// MarkDirty flags the figure as changed; the next Redraw draws it again.
func (c *Canvas) MarkDirty() { c.dirty = true }

// Dirty reports whether the figure changed since the last redraw.
func (c *Canvas) Dirty() bool { return c.dirty }

// SurfaceFor wraps a toolkit pixel buffer as a surface. The buffer holds
// premultiplied RGBA and must stay alive while the surface is drawn to.
func (c *Canvas) SurfaceFor(buf *image.RGBA) *canvas.Surface {
	return canvas.NewSurfaceForImage(buf)
}

// OnDraw handles a toolkit redraw event: the renderer is bound to s, which
// is cleared to the background and drawn by the figure. The canvas adopts
// the size of s.
func (c *Canvas) OnDraw(s *canvas.Surface) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if err := c.r.Bind(s); err != nil {
		return fmt.Errorf("plotcanvas: bind: %w", err)
	}
	c.width, c.height = s.Width(), s.Height()
	return c.draw()
}

// Redraw draws the figure into the canvas's own surface if it is dirty.
func (c *Canvas) Redraw() error {
	if c.closed {
		return ErrCanvasClosed
	}
	if !c.dirty {
		return nil
	}
	if c.r.Surface() != c.offscreen {
		if err := c.r.Bind(c.offscreen); err != nil {
			return fmt.Errorf("plotcanvas: bind: %w", err)
		}
	}
	return c.draw()
}

func (c *Canvas) draw() error {
	if err := c.r.Clear(c.background); err != nil {
		return fmt.Errorf("plotcanvas: clear: %w", err)
	}
	if err := c.fig.Draw(c.r); err != nil {
		plotgg.Logger().Warn("plotcanvas: figure draw failed", "err", err, "frame", c.frames)
		return fmt.Errorf("plotcanvas: draw: %w", err)
	}
	c.dirty = false
	c.frames++
	return nil
}

// Resize changes the size of the canvas's own surface. The next Redraw
// draws at the new size.
func (c *Canvas) Resize(width, height int) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if c.offscreen.Width() == width && c.offscreen.Height() == height {
		return nil
	}
	s := canvas.NewImageSurface(canvas.FormatARGB32, width, height)
	if err := s.Status().Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDimensions, err)
	}
	if err := c.r.Bind(s); err != nil {
		return fmt.Errorf("plotcanvas: bind: %w", err)
	}
	c.offscreen.Finish()
	c.offscreen = s
	c.width, c.height = width, height
	c.dirty = true
	return nil
}

// Image returns the pixels of the canvas's own surface.
func (c *Canvas) Image() *image.RGBA {
	if c.closed {
		return nil
	}
	return c.offscreen.Image()
}

// Close releases the canvas. It is idempotent.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.offscreen.Finish()
	c.offscreen = nil
	c.r = nil
	c.fig = nil
	return nil
}
