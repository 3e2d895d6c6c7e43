package plotgg

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/gogpu/plotgg/cache"
	"github.com/gogpu/plotgg/canvas"
	"github.com/gogpu/plotgg/geom"
	"github.com/gogpu/plotgg/internal/convert"
	"github.com/gogpu/plotgg/internal/gstate"
)

// Renderer draws plotting commands onto a canvas surface. It owns its
// surface exclusively and must be driven from one goroutine at a time; the
// pattern cache it uses may be shared with other renderers.
type Renderer struct {
	opts    options
	cache   *cache.Cache
	surface *canvas.Surface
	ctx     *canvas.Context
	width   int
	height  int

	stats rendererStats
}

type rendererStats struct {
	draws             atomic.Uint64
	failures          atomic.Uint64
	markerConversions atomic.Uint64
	stampBuilds       atomic.Uint64
	markersStamped    atomic.Uint64
	markersReplayed   atomic.Uint64
}

// Stats reports renderer activity.
type Stats struct {
	Draws    uint64
	Failures uint64
	// MarkerConversions counts marker outlines converted to device
	// geometry; a marker shape redrawn at the same size converts once.
	MarkerConversions uint64
	StampBuilds       uint64
	MarkersStamped    uint64
	MarkersReplayed   uint64
	Cache             cache.Stats
}

// New returns a renderer drawing into a new transparent width x height
// surface.
func New(width, height int, opts ...Option) (*Renderer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: canvas size %dx%d", ErrInvalidArgument, width, height)
	}
	r := &Renderer{opts: o, cache: o.cache}
	if r.cache == nil {
		r.cache = SharedCache()
	}
	s := canvas.NewImageSurface(canvas.FormatARGB32, width, height)
	if err := r.Bind(s); err != nil {
		return nil, err
	}
	return r, nil
}

func (o *options) validate() error {
	switch {
	case !(o.dpi > 0) || math.IsInf(o.dpi, 0):
		return fmt.Errorf("%w: dpi %v", ErrInvalidArgument, o.dpi)
	case o.markerSubpixels < 1 || o.markerSubpixels > 16:
		return fmt.Errorf("%w: marker subpixels %d", ErrInvalidArgument, o.markerSubpixels)
	case o.stampThreshold < 0 || math.IsNaN(o.stampThreshold):
		return fmt.Errorf("%w: stamp threshold %v", ErrInvalidArgument, o.stampThreshold)
	case !(o.tolerance > 0):
		return fmt.Errorf("%w: tolerance %v", ErrInvalidArgument, o.tolerance)
	case o.textMode > TextRaster:
		return fmt.Errorf("%w: text mode %d", ErrInvalidArgument, o.textMode)
	}
	return nil
}

// Bind makes the renderer draw into s, typically a buffer supplied by a
// windowing toolkit on a redraw. Cached patterns are kept: they depend on
// resolution, not on the surface.
func (r *Renderer) Bind(s *canvas.Surface) error {
	if s == nil {
		return ErrNoSurface
	}
	if err := s.Status().Err(); err != nil {
		return fmt.Errorf("%w: bind surface: %w", ErrNativeFailure, err)
	}
	r.surface = s
	r.ctx = canvas.NewContext(s)
	r.width, r.height = s.Width(), s.Height()
	return nil
}

// Surface returns the bound surface.
func (r *Renderer) Surface() *canvas.Surface { return r.surface }

// Cache returns the pattern cache.
func (r *Renderer) Cache() *cache.Cache { return r.cache }

// DPI returns the output resolution.
func (r *Renderer) DPI() float64 { return r.opts.dpi }

// Clear fills the whole surface with c, replacing what was there.
func (r *Renderer) Clear(c RGBA) error {
	ctx, err := r.context()
	if err != nil {
		return err
	}
	op := canvas.OperatorSource
	return r.finish("clear", gstate.With(ctx, gstate.Mods{Operator: &op}, func() error {
		ctx.SetSourceRGBA(c.R, c.G, c.B, c.A)
		ctx.Paint()
		return nil
	}))
}

// NewGraphicsState returns a graphics state with default values.
func (r *Renderer) NewGraphicsState() *GraphicsState { return defaultGraphicsState() }

// CanvasSize returns the surface size in pixels.
func (r *Renderer) CanvasSize() (width, height float64) {
	return float64(r.width), float64(r.height)
}

// PointsToPixels converts points to pixels at the renderer's DPI.
func (r *Renderer) PointsToPixels(points float64) float64 {
	return points * r.opts.dpi / 72
}

// Stats returns activity counters.
func (r *Renderer) Stats() Stats {
	return Stats{
		Draws:             r.stats.draws.Load(),
		Failures:          r.stats.failures.Load(),
		MarkerConversions: r.stats.markerConversions.Load(),
		StampBuilds:       r.stats.stampBuilds.Load(),
		MarkersStamped:    r.stats.markersStamped.Load(),
		MarkersReplayed:   r.stats.markersReplayed.Load(),
		Cache:             r.cache.Stats(),
	}
}

func (r *Renderer) logger() *slog.Logger {
	if r.opts.logger != nil {
		return r.opts.logger
	}
	return Logger()
}

// context returns the drawing context. A context whose status latched
// during an earlier failed call is replaced so one failure does not poison
// later draws; a failed surface is reported instead.
func (r *Renderer) context() (*canvas.Context, error) {
	if r.surface == nil {
		return nil, ErrNoSurface
	}
	if err := r.surface.Status().Err(); err != nil {
		return nil, fmt.Errorf("%w: surface: %w", ErrNativeFailure, err)
	}
	if r.ctx.Status() != canvas.StatusSuccess {
		r.logger().Debug("plotgg: resetting drawing context", "status", r.ctx.Status().Error())
		r.ctx = canvas.NewContext(r.surface)
	}
	return r.ctx, nil
}

// finish classifies the error of a draw call and updates counters.
func (r *Renderer) finish(op string, err error) error {
	r.stats.draws.Add(1)
	if err == nil {
		return nil
	}
	r.stats.failures.Add(1)
	var st canvas.Status
	if errors.As(err, &st) && !errors.Is(err, ErrNativeFailure) {
		err = fmt.Errorf("%w: %s: %w", ErrNativeFailure, op, err)
	}
	if errors.Is(err, ErrNativeFailure) {
		r.logger().Warn("plotgg: draw aborted", "op", op, "err", err)
	}
	return err
}

// flip maps display coordinates to device pixels.
func (r *Renderer) flip() geom.Matrix {
	return geom.Matrix{A: 1, E: -1, F: float64(r.height)}
}

// viewport is the device rectangle of the surface.
func (r *Renderer) viewport() geom.Rect {
	return geom.Rect{W: float64(r.width), H: float64(r.height)}
}

// mods translates the clip and compositing attributes of gs.
func (r *Renderer) mods(gs *GraphicsState) (gstate.Mods, error) {
	var m gstate.Mods
	if c := gs.ClipRect; c != nil {
		if !geom.Pt(c.X, c.Y).Finite() || !geom.Pt(c.W, c.H).Finite() {
			return m, fmt.Errorf("%w: clip rectangle %+v", ErrInvalidArgument, *c)
		}
		dev := c.Transform(r.flip())
		m.ClipRect = &dev
	}
	if gs.ClipPath != nil {
		prog, err := convert.Convert(*gs.ClipPath, r.flip().Multiply(gs.ClipTransform), convert.Options{
			Tolerance: r.opts.tolerance,
			Snap:      convert.SnapOff,
			Filled:    true,
		})
		if err != nil {
			return m, fmt.Errorf("%w: clip path: %w", ErrInvalidArgument, err)
		}
		m.ClipPath = prog
	}
	aa := gs.Antialiased && r.opts.antialias
	m.Antialias = &aa
	op := gs.Operator
	m.Operator = &op
	return m, nil
}

// strokeSetup configures ctx for stroking with gs. It reports whether
// there is anything to stroke.
func (r *Renderer) strokeSetup(ctx *canvas.Context, gs *GraphicsState) (bool, error) {
	lw := r.PointsToPixels(gs.LineWidth)
	fg := gs.apply(gs.Foreground)
	if lw <= 0 || fg.A <= 0 {
		return false, nil
	}
	off, dash, err := convert.NormalizeDash(gs.Dash.Offset, gs.Dash.Lengths, r.opts.dpi/72)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	ctx.SetSourceRGBA(fg.R, fg.G, fg.B, fg.A)
	ctx.SetLineWidth(lw)
	ctx.SetLineCap(gs.Cap.canvas())
	ctx.SetLineJoin(gs.Join.canvas())
	ctx.SetDash(dash, off)
	return true, nil
}

// convertOptions returns converter options for drawing with gs.
func (r *Renderer) convertOptions(gs *GraphicsState, filled bool) convert.Options {
	o := convert.Options{
		Tolerance:   r.opts.tolerance,
		Snap:        gs.Snap.convert(),
		StrokeWidth: r.PointsToPixels(gs.LineWidth),
		Filled:      filled,
		Simplify:    gs.Simplify,
	}
	if !filled && gs.ClipPath == nil {
		vp := r.viewport()
		o.Clip = &vp
	}
	if s := gs.Sketch; s != nil && s.Scale > 0 {
		length, randomness := s.Length, s.Randomness
		if length <= 0 {
			length = 128
		}
		if randomness <= 0 {
			randomness = 16
		}
		o.Sketch = &convert.Sketch{
			Scale:      r.PointsToPixels(s.Scale),
			Length:     r.PointsToPixels(length),
			Randomness: randomness,
		}
	}
	return o
}
