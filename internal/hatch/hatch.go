// Package hatch turns hatch strings such as "//", "x+" or "o." into tile
// geometry.
//
// Each character adds a family of lines or shapes; repeating a character
// increases its density. Geometry lives in the unit square, y up, and
// tiles seamlessly when repeated.
package hatch

import (
	"math"
	"strings"

	"github.com/gogpu/plotgg/geom"
)

// Density is the number of lines per unit tile for one hatch character.
const Density = 6

// Tile is the geometry of one hatch tile.
type Tile struct {
	// Lines are stroked only.
	Lines geom.Path
	// Shapes are filled and stroked.
	Shapes geom.Path
}

// Empty reports whether the tile draws nothing.
func (t *Tile) Empty() bool { return t.Lines.Len() == 0 && t.Shapes.Len() == 0 }

// Valid reports whether s contains only known hatch characters.
func Valid(s string) bool {
	return strings.Trim(s, `/\|-+xXoO.*`) == ""
}

// Parse returns the tile for s. Unknown characters are ignored.
func Parse(s string) Tile {
	var t Tile
	count := func(chars string) int {
		n := 0
		for _, c := range chars {
			n += strings.Count(s, string(c))
		}
		return n * Density
	}
	lines := geom.NewPath(0)
	if n := count("-+"); n > 0 {
		for i := range n {
			y := float64(i) / float64(n)
			lines.MoveTo(0, y).LineTo(1, y)
		}
	}
	if n := count("|+"); n > 0 {
		for i := range n {
			x := float64(i) / float64(n)
			lines.MoveTo(x, 0).LineTo(x, 1)
		}
	}
	if n := count("/xX"); n > 0 {
		diagonals(lines, n, 1)
	}
	if n := count(`\xX`); n > 0 {
		diagonals(lines, n, -1)
	}

	shapes := geom.NewPath(0)
	if n := count("o"); n > 0 {
		placeShapes(lines, geom.UnitCircle(), n, 0.2)
	}
	if n := count("O"); n > 0 {
		placeShapes(lines, geom.UnitCircle(), n, 0.35)
	}
	if n := count("."); n > 0 {
		placeShapes(shapes, geom.UnitCircle(), n, 0.1)
	}
	if n := count("*"); n > 0 {
		placeShapes(shapes, star(), n, 1.0/3)
	}
	t.Lines, t.Shapes = *lines, *shapes
	return t
}

// diagonals adds lines of slope dir spaced 1/n apart along x. Lines
// extend past the tile so that clipping to it leaves no gaps.
func diagonals(p *geom.Path, n, dir int) {
	for k := -n; k <= n; k++ {
		c := float64(k) / float64(n)
		if dir > 0 {
			p.MoveTo(c-0.5, -0.5).LineTo(c+1.5, 1.5)
		} else {
			p.MoveTo(c-0.5, 1.5).LineTo(c+1.5, -0.5)
		}
	}
}

// placeShapes stamps shape on a staggered grid of rows rows. Odd rows are
// shifted by half a cell.
func placeShapes(p *geom.Path, shape geom.Path, rows int, size float64) {
	step := 1 / float64(rows)
	s := size / float64(rows)
	for r := 0; r <= rows; r++ {
		y := float64(r) * step
		cols, x0 := rows+1, 0.0
		if r%2 == 1 {
			cols, x0 = rows, step/2
		}
		for c := range cols {
			m := geom.Translate(x0+float64(c)*step, y).Multiply(geom.Scale(s, s))
			t := shape.Transform(m)
			appendPath(p, t)
		}
	}
}

func appendPath(dst *geom.Path, src geom.Path) {
	src.Segments(func(seg geom.Segment) bool {
		switch seg.Code {
		case geom.MoveTo:
			dst.MoveTo(seg.Points[0].X, seg.Points[0].Y)
		case geom.LineTo:
			dst.LineTo(seg.Points[0].X, seg.Points[0].Y)
		case geom.Curve3:
			dst.QuadTo(seg.Points[0].X, seg.Points[0].Y, seg.Points[1].X, seg.Points[1].Y)
		case geom.Curve4:
			dst.CubicTo(seg.Points[0].X, seg.Points[0].Y, seg.Points[1].X, seg.Points[1].Y, seg.Points[2].X, seg.Points[2].Y)
		case geom.ClosePoly:
			dst.Close()
		}
		return true
	})
}

// star returns a five-pointed star of unit outer radius.
func star() geom.Path {
	p := geom.NewPath(11)
	for i := range 10 {
		r := 1.0
		if i%2 == 1 {
			r = 0.381966
		}
		a := math.Pi/2 + float64(i)*math.Pi/5
		if i == 0 {
			p.MoveTo(r*math.Cos(a), r*math.Sin(a))
		} else {
			p.LineTo(r*math.Cos(a), r*math.Sin(a))
		}
	}
	p.Close()
	return *p
}
