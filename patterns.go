package plotgg

import (
	"fmt"
	"math"

	"github.com/gogpu/plotgg/cache"
	"github.com/gogpu/plotgg/canvas"
	"github.com/gogpu/plotgg/geom"
	"github.com/gogpu/plotgg/internal/convert"
	"github.com/gogpu/plotgg/internal/hatch"
)

func nop() {}

// setPaint makes p the source of ctx. Gradients are resolved through the
// pattern cache in device space: dm maps the paint's coordinates to device
// pixels. The returned release must be called once drawing with the
// source is done.
func (r *Renderer) setPaint(ctx *canvas.Context, p Paint, dm geom.Matrix, gs *GraphicsState) (func(), error) {
	switch v := p.(type) {
	case RGBA:
		c := gs.apply(v)
		ctx.SetSourceRGBA(c.R, c.G, c.B, c.A)
		return nop, nil
	case *LinearGradient, *RadialGradient:
		h, err := r.gradient(v, dm, gs)
		if err != nil {
			return nop, err
		}
		ctx.SetSource(h.Value().(canvas.Pattern))
		return h.Release, nil
	}
	return nop, fmt.Errorf("%w: unsupported paint %T", ErrInvalidArgument, p)
}

func stopKey(b *cache.KeyBuilder, stops []GradientStop, gs *GraphicsState) {
	b.Int(int64(len(stops)))
	for _, s := range stops {
		c := gs.apply(s.Color).components()
		b.Float(s.Offset, cache.QuantumOffset)
		b.Floats(c[:], cache.QuantumColor)
	}
}

// gradient returns a cached device-space gradient pattern for p.
func (r *Renderer) gradient(p Paint, dm geom.Matrix, gs *GraphicsState) (*cache.Handle, error) {
	var (
		b     *cache.KeyBuilder
		build func() canvas.Pattern
	)
	addStops := func(g interface {
		AddColorStop(offset, r, g, b, a float64)
		SetExtend(canvas.Extend)
	}, stops []GradientStop, ext Extend) {
		for _, s := range stops {
			c := gs.apply(s.Color)
			g.AddColorStop(s.Offset, c.R, c.G, c.B, c.A)
		}
		g.SetExtend(ext)
	}
	switch v := p.(type) {
	case *LinearGradient:
		p0, p1 := dm.TransformPoint(v.Start), dm.TransformPoint(v.End)
		b = cache.NewKey(cache.KindLinearGradient).
			Floats([]float64{p0.X, p0.Y, p1.X, p1.Y}, cache.QuantumGeometry)
		stopKey(b, v.Stops, gs)
		b.Int(int64(v.Extend))
		build = func() canvas.Pattern {
			g := canvas.NewLinearGradient(p0.X, p0.Y, p1.X, p1.Y)
			addStops(g, v.Stops, v.Extend)
			return g
		}
	case *RadialGradient:
		// Radii scale with the mean linear scale of the mapping.
		s := dm.ScaleFactor()
		c0, c1 := dm.TransformPoint(v.C0), dm.TransformPoint(v.C1)
		r0, r1 := v.R0*s, v.R1*s
		b = cache.NewKey(cache.KindRadialGradient).
			Floats([]float64{c0.X, c0.Y, r0, c1.X, c1.Y, r1}, cache.QuantumGeometry)
		stopKey(b, v.Stops, gs)
		b.Int(int64(v.Extend))
		build = func() canvas.Pattern {
			g := canvas.NewRadialGradient(c0.X, c0.Y, r0, c1.X, c1.Y, r1)
			addStops(g, v.Stops, v.Extend)
			return g
		}
	}
	b.Float(r.opts.dpi, cache.QuantumDPI)
	return r.cache.GetOrBuild(b.Key(), func() (any, error) {
		pat := build()
		if err := pat.Status().Err(); err != nil {
			return nil, fmt.Errorf("%w: gradient: %w", ErrNativeFailure, err)
		}
		r.logger().Debug("plotgg: gradient built", "kind", fmt.Sprintf("%T", p))
		return pat, nil
	})
}

// hatchTileSize returns the hatch tile edge in pixels: one inch.
func (r *Renderer) hatchTileSize() int {
	return max(1, int(math.Round(r.opts.dpi)))
}

// hatchPattern returns the cached repeating tile for the hatch of gs.
func (r *Renderer) hatchPattern(gs *GraphicsState) (*cache.Handle, error) {
	n := r.hatchTileSize()
	lw := r.PointsToPixels(gs.HatchLineWidth)
	color := gs.apply(gs.HatchColor)
	comps := color.components()
	key := cache.NewKey(cache.KindHatch).
		String(gs.Hatch).
		Floats(comps[:], cache.QuantumColor).
		Float(lw, cache.QuantumGeometry).
		Float(r.opts.dpi, cache.QuantumDPI).
		Key()
	return r.cache.GetOrBuild(key, func() (any, error) {
		tile := canvas.NewImageSurface(canvas.FormatARGB32, n, n)
		if err := tile.Status().Err(); err != nil {
			return nil, fmt.Errorf("%w: hatch tile: %w", ErrNativeFailure, err)
		}
		if err := drawHatchTile(tile, hatch.Parse(gs.Hatch), color, lw, r.opts.tolerance); err != nil {
			return nil, err
		}
		pat := canvas.NewSurfacePattern(tile)
		pat.SetExtend(canvas.ExtendRepeat)
		pat.SetFilter(canvas.FilterNearest)
		r.logger().Debug("plotgg: hatch tile built", "hatch", gs.Hatch, "size", n)
		return pat, nil
	})
}

// drawHatchTile renders t into the square surface s. The geometry is drawn
// at the eight neighbouring offsets too, so strokes crossing the tile edge
// continue seamlessly in the next tile.
func drawHatchTile(s *canvas.Surface, t hatch.Tile, c RGBA, lw, tol float64) error {
	n := float64(s.Width())
	ctx := canvas.NewContext(s)
	ctx.SetSourceRGBA(c.R, c.G, c.B, c.A)
	ctx.SetLineWidth(lw)
	ctx.SetLineCap(canvas.LineCapSquare)
	for dy := -1.0; dy <= 1; dy++ {
		for dx := -1.0; dx <= 1; dx++ {
			m := geom.Matrix{A: n, C: dx * n, E: -n, F: n + dy*n}
			if t.Shapes.Len() > 0 {
				prog, err := convert.Convert(t.Shapes, m, convert.Options{Tolerance: tol, Snap: convert.SnapOff, Filled: true})
				if err != nil {
					return err
				}
				ctx.NewPath()
				prog.Apply(ctx)
				ctx.FillPreserve()
				ctx.Stroke()
			}
			if t.Lines.Len() > 0 {
				prog, err := convert.Convert(t.Lines, m, convert.Options{Tolerance: tol, Snap: convert.SnapOff})
				if err != nil {
					return err
				}
				ctx.NewPath()
				prog.Apply(ctx)
				ctx.Stroke()
			}
		}
	}
	if err := ctx.Status().Err(); err != nil {
		return fmt.Errorf("%w: hatch tile: %w", ErrNativeFailure, err)
	}
	return nil
}

// setHatch makes the hatch tile the source of ctx, anchored at the
// bottom-left corner of the canvas.
func (r *Renderer) setHatch(ctx *canvas.Context, gs *GraphicsState) (func(), error) {
	h, err := r.hatchPattern(gs)
	if err != nil {
		return nop, err
	}
	saved := ctx.Matrix()
	ctx.SetMatrix(geom.Translate(0, float64(r.height)))
	ctx.SetSource(h.Value().(canvas.Pattern))
	ctx.SetMatrix(saved)
	return h.Release, nil
}
