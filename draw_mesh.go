package plotgg

import (
	"fmt"

	"github.com/gogpu/plotgg/cache"
	"github.com/gogpu/plotgg/canvas"
	"github.com/gogpu/plotgg/geom"
	"github.com/gogpu/plotgg/internal/gstate"
)

// Shading selects how a quad mesh is coloured.
type Shading uint8

const (
	// ShadingFlat paints each quad with one colour.
	ShadingFlat Shading = iota
	// ShadingGouraud interpolates colours given at the mesh vertices.
	ShadingGouraud
)

// QuadMesh is a structured grid of Cols x Rows quadrilaterals. Coords
// holds the (Rows+1) x (Cols+1) vertices in row-major order, mapped by
// Transform into display coordinates.
type QuadMesh struct {
	Cols, Rows int
	Coords     []geom.Point
	Transform  geom.Matrix
	Shading    Shading

	// FaceColors cycles over quads for flat shading. For Gouraud shading
	// it holds one colour per vertex.
	FaceColors  []RGBA
	EdgeColors  []RGBA
	Antialiased bool
}

func (q *QuadMesh) validate() error {
	switch {
	case q == nil:
		return fmt.Errorf("%w: nil mesh", ErrInvalidArgument)
	case q.Cols < 0 || q.Rows < 0:
		return fmt.Errorf("%w: mesh size %dx%d", ErrInvalidArgument, q.Cols, q.Rows)
	case len(q.Coords) != (q.Cols+1)*(q.Rows+1):
		return fmt.Errorf("%w: mesh has %d coordinates, want %d", ErrInvalidArgument, len(q.Coords), (q.Cols+1)*(q.Rows+1))
	case q.Shading == ShadingGouraud && len(q.FaceColors) != len(q.Coords):
		return fmt.Errorf("%w: gouraud mesh has %d colours for %d vertices", ErrInvalidArgument, len(q.FaceColors), len(q.Coords))
	case q.Shading > ShadingGouraud:
		return fmt.Errorf("%w: shading %d", ErrInvalidArgument, q.Shading)
	}
	return nil
}

// at returns the index of vertex (col, row).
func (q *QuadMesh) at(col, row int) int { return row*(q.Cols+1) + col }

// DrawQuadMesh draws mesh. Flat meshes are drawn as a path collection with
// one closed quad per cell; Gouraud meshes split each cell into four
// triangles around its centre.
func (r *Renderer) DrawQuadMesh(gs *GraphicsState, mesh *QuadMesh) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	if err := mesh.validate(); err != nil {
		return err
	}
	if mesh.Shading == ShadingGouraud {
		tris := make([][3]geom.Point, 0, 4*mesh.Cols*mesh.Rows)
		colors := make([][3]RGBA, 0, cap(tris))
		for row := range mesh.Rows {
			for col := range mesh.Cols {
				idx := [4]int{mesh.at(col, row), mesh.at(col+1, row), mesh.at(col+1, row+1), mesh.at(col, row+1)}
				var pts [4]geom.Point
				var cs [4]RGBA
				for k, i := range idx {
					pts[k], cs[k] = mesh.Coords[i], mesh.FaceColors[i]
				}
				c := pts[0].Add(pts[1]).Add(pts[2]).Add(pts[3]).Mul(0.25)
				cc := mix(cs[:]...)
				for k := range 4 {
					n := (k + 1) % 4
					tris = append(tris, [3]geom.Point{pts[k], pts[n], c})
					colors = append(colors, [3]RGBA{cs[k], cs[n], cc})
				}
			}
		}
		return r.DrawGouraudTriangles(gs, tris, colors, mesh.Transform)
	}

	c := &Collection{
		Master:      mesh.Transform,
		Paths:       make([]geom.Path, 0, mesh.Cols*mesh.Rows),
		FaceColors:  mesh.FaceColors,
		EdgeColors:  mesh.EdgeColors,
		Antialiased: []bool{mesh.Antialiased},
	}
	for row := range mesh.Rows {
		for col := range mesh.Cols {
			p := geom.NewPath(5)
			a := mesh.Coords[mesh.at(col, row)]
			p.MoveTo(a.X, a.Y)
			for _, i := range [3]int{mesh.at(col+1, row), mesh.at(col+1, row+1), mesh.at(col, row+1)} {
				p.LineTo(mesh.Coords[i].X, mesh.Coords[i].Y)
			}
			p.Close()
			c.Paths = append(c.Paths, *p)
		}
	}
	if len(c.Paths) == 0 {
		r.stats.draws.Add(1)
		return nil
	}
	return r.DrawPathCollection(gs, c)
}

// DrawGouraudTriangle draws one triangle with per-vertex colours.
func (r *Renderer) DrawGouraudTriangle(gs *GraphicsState, pts [3]geom.Point, colors [3]RGBA, m geom.Matrix) error {
	return r.DrawGouraudTriangles(gs, [][3]geom.Point{pts}, [][3]RGBA{colors}, m)
}

// DrawGouraudTriangles draws triangles whose colours interpolate linearly
// between their vertices. Triangles with a non-finite vertex are skipped.
func (r *Renderer) DrawGouraudTriangles(gs *GraphicsState, tris [][3]geom.Point, colors [][3]RGBA, m geom.Matrix) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	if len(tris) != len(colors) {
		return fmt.Errorf("%w: %d triangles with %d colour triples", ErrInvalidArgument, len(tris), len(colors))
	}
	if !m.Finite() {
		return fmt.Errorf("%w: non-finite mesh transform", ErrInvalidArgument)
	}
	for i, cs := range colors {
		for _, c := range cs {
			if !c.finite() {
				return fmt.Errorf("%w: triangle %d colour %v", ErrInvalidArgument, i, c)
			}
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

	dm := r.flip().Multiply(m)
	dev := make([]canvas.MeshTriangle, 0, len(tris))
	for i, t := range tris {
		var mt canvas.MeshTriangle
		ok := true
		for k, p := range t {
			mt.P[k] = dm.TransformPoint(p)
			ok = ok && mt.P[k].Finite()
			mt.Colors[k] = gs.apply(colors[i][k]).components()
		}
		if !ok {
			continue
		}
		// Overlapping triangles must not cancel under the non-zero rule.
		if mt.P[1].Sub(mt.P[0]).Cross(mt.P[2].Sub(mt.P[0])) < 0 {
			mt.P[1], mt.P[2] = mt.P[2], mt.P[1]
			mt.Colors[1], mt.Colors[2] = mt.Colors[2], mt.Colors[1]
		}
		dev = append(dev, mt)
	}
	if len(dev) == 0 {
		r.stats.draws.Add(1)
		return nil
	}

	h, err := r.mesh(dev)
	if err != nil {
		return r.finish("draw_gouraud_triangles", err)
	}
	defer h.Release()
	return r.finish("draw_gouraud_triangles", gstate.With(ctx, mods, func() error {
		ctx.SetSource(h.Value().(canvas.Pattern))
		ctx.NewPath()
		for _, t := range dev {
			ctx.MoveTo(t.P[0].X, t.P[0].Y)
			ctx.LineTo(t.P[1].X, t.P[1].Y)
			ctx.LineTo(t.P[2].X, t.P[2].Y)
			ctx.ClosePath()
		}
		ctx.Fill()
		return nil
	}))
}

// mesh returns the cached mesh pattern for device triangles.
func (r *Renderer) mesh(tris []canvas.MeshTriangle) (*cache.Handle, error) {
	b := cache.NewKey(cache.KindMesh).Int(int64(len(tris)))
	for _, t := range tris {
		for k := range 3 {
			b.Floats([]float64{t.P[k].X, t.P[k].Y}, cache.QuantumGeometry)
			b.Floats(t.Colors[k][:], cache.QuantumColor)
		}
	}
	return r.cache.GetOrBuild(b.Key(), func() (any, error) {
		p := canvas.NewMeshPattern()
		for _, t := range tris {
			p.AddTriangle(t)
		}
		if err := p.Status().Err(); err != nil {
			return nil, fmt.Errorf("%w: mesh: %w", ErrNativeFailure, err)
		}
		return p, nil
	})
}
