package plotgg

import (
	"fmt"
	"math"

	"github.com/gogpu/plotgg/geom"
	"github.com/gogpu/plotgg/internal/convert"
	"github.com/gogpu/plotgg/internal/gstate"
)

// Collection is a batch of paths drawn with per-item properties. Every
// per-item slice cycles: item i uses element i modulo the slice length.
// The number of items is the larger of len(Paths) and len(Offsets).
type Collection struct {
	// Master maps every path into display coordinates, after the
	// per-item transform.
	Master     geom.Matrix
	Paths      []geom.Path
	Transforms []geom.Matrix

	// Offsets translate items; each is mapped by OffsetTransform into
	// display coordinates first.
	Offsets         []geom.Point
	OffsetTransform geom.Matrix

	// FaceColors fills items; empty means no fill.
	FaceColors []RGBA
	// EdgeColors strokes items; empty means no stroke.
	EdgeColors  []RGBA
	LineWidths  []float64 // points
	Dashes      []Dash
	Antialiased []bool
}

// Len returns the number of items drawn.
func (c *Collection) Len() int {
	if len(c.Paths) == 0 {
		return 0
	}
	return max(len(c.Paths), len(c.Offsets))
}

func (c *Collection) validate() error {
	if !c.Master.Finite() || !c.OffsetTransform.Finite() {
		return fmt.Errorf("%w: non-finite collection transform", ErrInvalidArgument)
	}
	for i, m := range c.Transforms {
		if !m.Finite() {
			return fmt.Errorf("%w: non-finite transform %d", ErrInvalidArgument, i)
		}
	}
	for i := range c.Paths {
		if err := c.Paths[i].Validate(); err != nil {
			return fmt.Errorf("%w: path %d: %w", ErrInvalidArgument, i, err)
		}
	}
	for _, cs := range [][]RGBA{c.FaceColors, c.EdgeColors} {
		for _, col := range cs {
			if !col.finite() {
				return fmt.Errorf("%w: colour %v", ErrInvalidArgument, col)
			}
		}
	}
	for _, w := range c.LineWidths {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: line width %v", ErrInvalidArgument, w)
		}
	}
	return nil
}

// uniform reports whether every item shares one path, transform and
// style, so the collection can be drawn as markers.
func (c *Collection) uniform() bool {
	return len(c.Paths) == 1 && len(c.Offsets) > 0 && len(c.Transforms) <= 1 &&
		len(c.FaceColors) <= 1 && len(c.EdgeColors) <= 1 &&
		len(c.LineWidths) <= 1 && len(c.Dashes) <= 1 && len(c.Antialiased) <= 1
}

// item returns the graphics state, fill and display matrix of item i, and
// false when its offset is not finite.
func (c *Collection) item(gs *GraphicsState, i int) (*GraphicsState, Paint, geom.Matrix, bool) {
	m := c.Master
	if n := len(c.Transforms); n > 0 {
		m = m.Multiply(c.Transforms[i%n])
	}
	if n := len(c.Offsets); n > 0 {
		o := c.OffsetTransform.TransformPoint(c.Offsets[i%n])
		if !o.Finite() {
			return nil, nil, m, false
		}
		m = geom.Translate(o.X, o.Y).Multiply(m)
	}
	gsi, fill := c.style(gs, i)
	return gsi, fill, m, true
}

// style returns the graphics state and fill of item i.
func (c *Collection) style(gs *GraphicsState, i int) (*GraphicsState, Paint) {
	gsi := *gs
	var fill Paint
	if n := len(c.FaceColors); n > 0 {
		if fc := c.FaceColors[i%n]; gs.apply(fc).A > 0 {
			fill = fc
		}
	}
	if n := len(c.EdgeColors); n > 0 {
		gsi.Foreground = c.EdgeColors[i%n]
		if n := len(c.LineWidths); n > 0 {
			gsi.LineWidth = c.LineWidths[i%n]
		}
		if n := len(c.Dashes); n > 0 {
			gsi.Dash = c.Dashes[i%n]
		}
	} else {
		gsi.LineWidth = 0
	}
	if n := len(c.Antialiased); n > 0 {
		gsi.Antialiased = c.Antialiased[i%n]
	}
	return &gsi, fill
}

// DrawPathCollection draws every item of c. A single path repeated at many
// offsets with one style is drawn through DrawMarkers.
func (r *Renderer) DrawPathCollection(gs *GraphicsState, c *Collection) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("%w: nil collection", ErrInvalidArgument)
	}
	if err := c.validate(); err != nil {
		return err
	}
	n := c.Len()
	if n == 0 || len(c.FaceColors) == 0 && len(c.EdgeColors) == 0 && gs.Hatch == "" {
		r.stats.draws.Add(1)
		return nil
	}
	if c.uniform() {
		gsi, fill := c.style(gs, 0)
		mt := c.Master
		if len(c.Transforms) == 1 {
			mt = mt.Multiply(c.Transforms[0])
		}
		return r.DrawMarkers(gsi, c.Paths[0], mt, c.Offsets, c.OffsetTransform, fill)
	}

	ctx, err := r.context()
	if err != nil {
		return err
	}
	mods, err := r.mods(gs)
	if err != nil {
		return err
	}
	flip := r.flip()
	return r.finish("draw_path_collection", gstate.With(ctx, mods, func() error {
		for i := range n {
			gsi, fill, m, ok := c.item(gs, i)
			if !ok {
				continue
			}
			dm := flip.Multiply(m)
			prog, err := convert.Convert(c.Paths[i%len(c.Paths)], dm, r.convertOptions(gsi, fill != nil || gsi.Hatch != ""))
			if err != nil {
				return fmt.Errorf("%w: item %d: %w", ErrInvalidArgument, i, err)
			}
			if prog.Empty() {
				continue
			}
			aa := gsi.Antialiased && r.opts.antialias
			err = gstate.With(ctx, gstate.Mods{Antialias: &aa}, func() error {
				return r.paintProgram(ctx, gsi, prog, fill, dm)
			})
			if err != nil {
				return err
			}
		}
		return nil
	}))
}
