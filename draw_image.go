package plotgg

import (
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/plotgg/canvas"
	"github.com/gogpu/plotgg/geom"
	"github.com/gogpu/plotgg/internal/gstate"
)

// toRGBA returns img as a premultiplied RGBA image with bounds at the
// origin. The result never aliases img.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}

// DrawImage composites img with its lower-left corner at display point
// (x, y), scaled by gs.Alpha. Without a transform the image is placed on
// whole pixels unscaled; with one it is resampled bilinearly.
func (r *Renderer) DrawImage(gs *GraphicsState, x, y float64, img image.Image, m *geom.Matrix) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidArgument)
	}
	if !geom.Pt(x, y).Finite() {
		return fmt.Errorf("%w: image position (%v, %v)", ErrInvalidArgument, x, y)
	}
	if m != nil {
		if _, ok := m.Invert(); !ok || !m.Finite() {
			return fmt.Errorf("%w: image transform %+v", ErrInvalidArgument, *m)
		}
	}
	ctx, err := r.context()
	if err != nil {
		return err
	}
	mods, err := r.mods(gs)
	if err != nil {
		return err
	}
	b := img.Bounds()
	if b.Empty() {
		r.stats.draws.Add(1)
		return nil
	}
	alpha := clamp01(gs.Alpha)
	mods.Alpha = &alpha

	surf := canvas.NewSurfaceForImage(toRGBA(img))
	w, h := float64(b.Dx()), float64(b.Dy())
	return r.finish("draw_image", gstate.With(ctx, mods, func() error {
		pat := canvas.NewSurfacePattern(surf)
		if m == nil {
			dx := math.Round(x)
			dy := math.Round(float64(r.height) - y - h)
			pat.SetFilter(canvas.FilterNearest)
			pat.SetMatrix(geom.Translate(-dx, -dy))
			ctx.SetSource(pat)
			ctx.NewPath()
			ctx.Rectangle(dx, dy, w, h)
			ctx.Fill()
			return nil
		}
		// Image rows run top-down; m expects y up from the bottom row.
		full := r.flip().
			Multiply(geom.Translate(x, y)).
			Multiply(*m).
			Multiply(geom.Matrix{A: 1, E: -1, F: h})
		inv, ok := full.Invert()
		if !ok {
			return fmt.Errorf("%w: degenerate image transform", ErrInvalidArgument)
		}
		pat.SetMatrix(inv)
		ctx.SetSource(pat)
		ctx.NewPath()
		for i, c := range [4]geom.Point{{}, {X: w}, {X: w, Y: h}, {Y: h}} {
			p := full.TransformPoint(c)
			if i == 0 {
				ctx.MoveTo(p.X, p.Y)
			} else {
				ctx.LineTo(p.X, p.Y)
			}
		}
		ctx.ClosePath()
		ctx.Fill()
		return nil
	}))
}
