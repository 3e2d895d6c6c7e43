package plotgg

import (
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/plotgg/cache"
	"github.com/gogpu/plotgg/canvas"
	"github.com/gogpu/plotgg/geom"
	"github.com/gogpu/plotgg/internal/convert"
	"github.com/gogpu/plotgg/internal/gstate"
)

// markerEntry is the cached form of one marker shape at one size and
// style: its device outline plus lazily rendered coverage stamps, one per
// subpixel phase.
type markerEntry struct {
	prog   *convert.Program
	bounds geom.Rect // outline bounds including stroke, relative to the origin
	fill   bool
	stroke bool

	// Stamp geometry: the marker origin sits at (ox+i/n, oy+j/n) in the
	// stamp for phase (i, j).
	n, ox, oy, w, h int

	style  markerStroke
	aa     bool
	stamps []markerStamp
}

type markerStroke struct {
	width      float64
	cap        canvas.LineCap
	join       canvas.LineJoin
	dash       []float64
	dashOffset float64
}

type markerStamp struct {
	mu     sync.Mutex
	done   bool
	fill   *canvas.Surface
	stroke *canvas.Surface
}

// PixelArea reports the stamp memory for cache accounting.
func (e *markerEntry) PixelArea() int {
	layers := 0
	if e.fill {
		layers++
	}
	if e.stroke {
		layers++
	}
	return layers * e.n * e.n * e.w * e.h
}

// extent is the largest side of the marker box in pixels.
func (e *markerEntry) extent() float64 {
	return math.Max(e.bounds.W, e.bounds.H)
}

// stamp returns the coverage stamps for subpixel phase (i, j), rendering
// them on first use. A failed render leaves the slot empty so the next
// caller tries again.
func (e *markerEntry) stamp(i, j int, built func()) (fill, stroke *canvas.Surface, err error) {
	s := &e.stamps[j*e.n+i]
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.done {
		dx := float64(e.ox) + float64(i)/float64(e.n)
		dy := float64(e.oy) + float64(j)/float64(e.n)
		var f, k *canvas.Surface
		if e.fill {
			if f, err = e.render(dx, dy, false); err != nil {
				return nil, nil, err
			}
		}
		if e.stroke {
			if k, err = e.render(dx, dy, true); err != nil {
				return nil, nil, err
			}
		}
		s.fill, s.stroke, s.done = f, k, true
		built()
	}
	return s.fill, s.stroke, nil
}

func (e *markerEntry) render(dx, dy float64, stroke bool) (*canvas.Surface, error) {
	s := canvas.NewImageSurface(canvas.FormatA8, e.w, e.h)
	ctx := canvas.NewContext(s)
	if !e.aa {
		ctx.SetAntialias(canvas.AntialiasNone)
	}
	ctx.SetSourceRGBA(0, 0, 0, 1)
	e.prog.ApplyOffset(ctx, dx, dy)
	if stroke {
		ctx.SetLineWidth(e.style.width)
		ctx.SetLineCap(e.style.cap)
		ctx.SetLineJoin(e.style.join)
		ctx.SetDash(e.style.dash, e.style.dashOffset)
		ctx.Stroke()
	} else {
		ctx.Fill()
	}
	if err := ctx.Status().Err(); err != nil {
		return nil, fmt.Errorf("%w: marker stamp: %w", ErrNativeFailure, err)
	}
	return s, nil
}

// pathKey adds the vertices and codes of p to b.
func pathKey(b *cache.KeyBuilder, p *geom.Path) {
	b.Int(int64(p.Len()))
	for i, v := range p.Vertices {
		b.Int(int64(p.CodeAt(i)))
		b.Floats([]float64{v.X, v.Y}, cache.QuantumGeometry)
	}
}

func matrixKey(b *cache.KeyBuilder, m geom.Matrix) {
	b.Floats([]float64{m.A, m.B, m.C, m.D, m.E, m.F}, cache.QuantumGeometry)
}

// DrawMarkers draws marker at every position. The marker outline is
// converted once per shape and style; small markers with a solid fill are
// then blitted from cached coverage stamps, others replay the cached
// outline at each position.
func (r *Renderer) DrawMarkers(gs *GraphicsState, marker geom.Path, markerTrans geom.Matrix, positions []geom.Point, trans geom.Matrix, fill Paint) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	if err := validatePaint(fill); err != nil {
		return err
	}
	if err := marker.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if !markerTrans.Finite() || !trans.Finite() {
		return fmt.Errorf("%w: non-finite marker transform", ErrInvalidArgument)
	}
	ctx, err := r.context()
	if err != nil {
		return err
	}
	mods, err := r.mods(gs)
	if err != nil {
		return err
	}
	if len(positions) == 0 || marker.Len() == 0 {
		r.stats.draws.Add(1)
		return nil
	}
	h, err := r.marker(gs, &marker, markerTrans, fill)
	if err != nil {
		return r.finish("draw_markers", err)
	}
	defer h.Release()
	e := h.Value().(*markerEntry)

	pm := r.flip().Multiply(trans)
	return r.finish("draw_markers", gstate.With(ctx, mods, func() error {
		_, solid := fill.(RGBA)
		if e.extent() <= r.opts.stampThreshold && (fill == nil || solid) && gs.Hatch == "" {
			return r.stampMarkers(ctx, gs, e, positions, pm, fill)
		}
		return r.replayMarkers(ctx, gs, e, positions, pm, markerTrans, fill)
	}))
}

// marker returns the cached entry for the marker shape and style.
func (r *Renderer) marker(gs *GraphicsState, marker *geom.Path, markerTrans geom.Matrix, fill Paint) (*cache.Handle, error) {
	lw := r.PointsToPixels(gs.LineWidth)
	stroke := lw > 0 && gs.apply(gs.Foreground).A > 0
	off, dash, err := convert.NormalizeDash(gs.Dash.Offset, gs.Dash.Lengths, r.opts.dpi/72)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	aa := gs.Antialiased && r.opts.antialias
	n := r.opts.markerSubpixels

	b := cache.NewKey(cache.KindMarker)
	pathKey(b, marker)
	matrixKey(b, markerTrans)
	b.Bool(fill != nil).Bool(stroke).
		Float(lw, cache.QuantumGeometry).
		Float(off, cache.QuantumGeometry).
		Floats(dash, cache.QuantumGeometry).
		Int(int64(gs.Cap)).Int(int64(gs.Join)).Int(int64(gs.Snap)).
		Bool(aa).Int(int64(n)).
		Float(r.opts.tolerance, cache.QuantumGeometry).
		Float(r.opts.dpi, cache.QuantumDPI)
	if s := gs.Sketch; s != nil {
		b.Floats([]float64{s.Scale, s.Length, s.Randomness}, cache.QuantumGeometry)
	}

	return r.cache.GetOrBuild(b.Key(), func() (any, error) {
		r.stats.markerConversions.Add(1)
		opts := r.convertOptions(gs, fill != nil)
		opts.Clip = nil
		opts.Simplify = false
		prog, err := convert.Convert(*marker, geom.Scale(1, -1).Multiply(markerTrans), opts)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		pad := 2.0
		if stroke {
			grow := lw / 2
			if gs.Join == JoinMiter {
				grow = lw * 5
			}
			pad += math.Ceil(grow)
		}
		if opts.Sketch != nil {
			pad += math.Ceil(opts.Sketch.Scale)
		}
		bb := prog.Bounds()
		e := &markerEntry{
			prog:   prog,
			bounds: bb.Inset(-pad),
			fill:   fill != nil,
			stroke: stroke,
			n:      n,
			aa:     aa,
			style: markerStroke{
				width:      lw,
				cap:        gs.Cap.canvas(),
				join:       gs.Join.canvas(),
				dash:       dash,
				dashOffset: off,
			},
		}
		e.ox = int(pad - math.Floor(bb.X))
		e.oy = int(pad - math.Floor(bb.Y))
		e.w = int(math.Ceil(bb.W+2*pad)) + 2
		e.h = int(math.Ceil(bb.H+2*pad)) + 2
		e.stamps = make([]markerStamp, n*n)
		r.logger().Debug("plotgg: marker converted", "vertices", marker.Len(), "extent", e.extent())
		return e, nil
	})
}

// stampMarkers blits coverage stamps at each position. Each marker is
// filled then stroked before the next one, as if drawn individually.
func (r *Renderer) stampMarkers(ctx *canvas.Context, gs *GraphicsState, e *markerEntry, positions []geom.Point, pm geom.Matrix, fill Paint) error {
	var fillSrc, strokeSrc canvas.Pattern
	if c, ok := fill.(RGBA); ok {
		c = gs.apply(c)
		fillSrc = canvas.NewSolidPattern(c.R, c.G, c.B, c.A)
	}
	if e.stroke {
		fg := gs.apply(gs.Foreground)
		strokeSrc = canvas.NewSolidPattern(fg.R, fg.G, fg.B, fg.A)
	}
	clip := ctx.ClipExtents()
	n := float64(e.n)
	built := func() { r.stats.stampBuilds.Add(1) }
	var drawn uint64
	for _, p := range positions {
		d := pm.TransformPoint(p)
		if !d.Finite() {
			continue
		}
		ix, iy := math.Floor(d.X), math.Floor(d.Y)
		i := int(math.Round((d.X - ix) * n))
		j := int(math.Round((d.Y - iy) * n))
		if i == e.n {
			ix, i = ix+1, 0
		}
		if j == e.n {
			iy, j = iy+1, 0
		}
		x0, y0 := ix-float64(e.ox), iy-float64(e.oy)
		if x0 >= float64(clip.Max.X) || y0 >= float64(clip.Max.Y) ||
			x0+float64(e.w) <= float64(clip.Min.X) || y0+float64(e.h) <= float64(clip.Min.Y) {
			continue
		}
		fs, ss, err := e.stamp(i, j, built)
		if err != nil {
			return err
		}
		if fs != nil && fillSrc != nil {
			ctx.SetSource(fillSrc)
			ctx.MaskSurface(fs, x0, y0)
		}
		if ss != nil {
			ctx.SetSource(strokeSrc)
			ctx.MaskSurface(ss, x0, y0)
		}
		drawn++
	}
	r.stats.markersStamped.Add(drawn)
	return nil
}

// replayMarkers draws the cached outline at each position.
func (r *Renderer) replayMarkers(ctx *canvas.Context, gs *GraphicsState, e *markerEntry, positions []geom.Point, pm, markerTrans geom.Matrix, fill Paint) error {
	clip := ctx.ClipExtents()
	vis := geom.Rect{
		X: float64(clip.Min.X), Y: float64(clip.Min.Y),
		W: float64(clip.Dx()), H: float64(clip.Dy()),
	}
	local := geom.Scale(1, -1).Multiply(markerTrans)
	var drawn uint64
	for _, p := range positions {
		d := pm.TransformPoint(p)
		if !d.Finite() {
			continue
		}
		box := e.bounds
		box.X += d.X
		box.Y += d.Y
		if box.Intersect(vis).Empty() {
			continue
		}
		dm := geom.Translate(d.X, d.Y).Multiply(local)
		if err := r.paintProgram(ctx, gs, e.prog.Translated(d.X, d.Y), fill, dm); err != nil {
			return err
		}
		drawn++
	}
	r.stats.markersReplayed.Add(drawn)
	return nil
}
