package plotgg

import (
	"fmt"

	"github.com/gogpu/plotgg/canvas"
	"github.com/gogpu/plotgg/geom"
	"github.com/gogpu/plotgg/internal/convert"
	"github.com/gogpu/plotgg/internal/gstate"
)

// DrawPath draws path mapped by m into display coordinates. Non-finite
// vertices break the path instead of failing the call.
func (r *Renderer) DrawPath(gs *GraphicsState, path geom.Path, m geom.Matrix, fill Paint) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	if err := validatePaint(fill); err != nil {
		return err
	}
	ctx, err := r.context()
	if err != nil {
		return err
	}
	mods, err := r.mods(gs)
	if err != nil {
		return err
	}
	dm := r.flip().Multiply(m)
	filled := fill != nil || gs.Hatch != ""
	prog, err := convert.Convert(path, dm, r.convertOptions(gs, filled))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if prog.Empty() {
		r.stats.draws.Add(1)
		return nil
	}
	return r.finish("draw_path", gstate.With(ctx, mods, func() error {
		return r.paintProgram(ctx, gs, prog, fill, dm)
	}))
}

// paintProgram fills, hatches and strokes a device-space program, in that
// order. dm maps the coordinates of fill to device space.
func (r *Renderer) paintProgram(ctx *canvas.Context, gs *GraphicsState, prog *convert.Program, fill Paint, dm geom.Matrix) error {
	if fill != nil {
		release, err := r.setPaint(ctx, fill, dm, gs)
		if err != nil {
			return err
		}
		ctx.NewPath()
		prog.Apply(ctx)
		ctx.Fill()
		release()
	}
	if gs.Hatch != "" {
		release, err := r.setHatch(ctx, gs)
		if err != nil {
			return err
		}
		ctx.NewPath()
		prog.Apply(ctx)
		ctx.Fill()
		release()
	}
	ok, err := r.strokeSetup(ctx, gs)
	if err != nil || !ok {
		return err
	}
	ctx.NewPath()
	prog.Apply(ctx)
	ctx.Stroke()
	return nil
}
