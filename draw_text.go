package plotgg

import (
	"fmt"
	"math"

	"github.com/gogpu/plotgg/canvas"
	"github.com/gogpu/plotgg/geom"
	"github.com/gogpu/plotgg/internal/convert"
	"github.com/gogpu/plotgg/internal/gstate"
	"github.com/gogpu/plotgg/text"
)

// TextRun is a single line of text. Font.Size is in points.
type TextRun struct {
	Text string
	Font text.Font
}

func (r *Renderer) textRun(run TextRun) text.Run {
	f := run.Font
	f.Size = r.PointsToPixels(f.Size)
	return text.Run{Text: run.Text, Font: f}
}

// TextExtents returns the advance width, the height and the descent of
// run in pixels.
func (r *Renderer) TextExtents(run TextRun) (width, height, descent float64, err error) {
	width, height, descent, err = text.Extents(r.textRun(run))
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return width, height, descent, err
}

// rasterText resolves the renderer text mode against a per-call request.
func (r *Renderer) rasterText(requested bool) bool {
	switch r.opts.textMode {
	case TextVector:
		return false
	case TextRaster:
		return true
	}
	return requested
}

// DrawText draws run in the foreground colour of gs with its baseline
// origin at display point (x, y), rotated angle degrees counter-clockwise
// about that point.
func (r *Renderer) DrawText(gs *GraphicsState, run TextRun, x, y, angle float64, raster bool) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	if !geom.Pt(x, y).Finite() || math.IsNaN(angle) || math.IsInf(angle, 0) {
		return fmt.Errorf("%w: text position (%v, %v) angle %v", ErrInvalidArgument, x, y, angle)
	}
	ctx, err := r.context()
	if err != nil {
		return err
	}
	mods, err := r.mods(gs)
	if err != nil {
		return err
	}
	tr := r.textRun(run)
	fg := gs.apply(gs.Foreground)
	rad := angle * math.Pi / 180

	if r.rasterText(raster) {
		mask, origin, err := text.RasterMask(tr)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		if mask.Rect.Empty() {
			r.stats.draws.Add(1)
			return nil
		}
		surf := canvas.NewSurfaceForAlpha(mask)
		d := r.flip().TransformPoint(geom.Pt(x, y))
		return r.finish("draw_text", gstate.With(ctx, mods, func() error {
			ctx.SetSourceRGBA(fg.R, fg.G, fg.B, fg.A)
			if angle == 0 {
				ctx.MaskSurface(surf, math.Round(d.X)-float64(origin.X), math.Round(d.Y)-float64(origin.Y))
				return nil
			}
			place := geom.Translate(d.X, d.Y).
				Multiply(geom.Rotate(-rad)).
				Multiply(geom.Translate(-float64(origin.X), -float64(origin.Y)))
			inv, _ := place.Invert()
			pat := canvas.NewSurfacePattern(surf)
			pat.SetMatrix(inv)
			ctx.Mask(pat)
			return nil
		}))
	}

	shaped, err := text.Shape(tr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	outline := shaped.Outline()
	if outline.Len() == 0 {
		r.stats.draws.Add(1)
		return nil
	}
	dm := r.flip().Multiply(geom.Translate(x, y)).Multiply(geom.Rotate(rad))
	prog, err := convert.Convert(outline, dm, convert.Options{
		Tolerance: r.opts.tolerance,
		Snap:      convert.SnapOff,
		Filled:    true,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNativeFailure, err)
	}
	return r.finish("draw_text", gstate.With(ctx, mods, func() error {
		ctx.SetSourceRGBA(fg.R, fg.G, fg.B, fg.A)
		ctx.NewPath()
		prog.Apply(ctx)
		ctx.Fill()
		return nil
	}))
}
