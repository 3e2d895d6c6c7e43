package canvas

import (
	"image/color"
	"math"

	"github.com/gogpu/plotgg/geom"
)

// MeshTriangle is a Gouraud-shaded triangle in pattern space. Colours are
// straight RGBA in [0,1] and are interpolated linearly before
// premultiplication.
type MeshTriangle struct {
	P      [3]geom.Point
	Colors [3][4]float64
}

// MeshPattern paints a set of Gouraud-shaded triangles. Pixels outside
// every triangle are transparent except within one pixel of a triangle
// edge, where the nearest triangle's colour is extended so antialiased
// edges do not darken.
type MeshPattern struct {
	patternBase
	tris  []MeshTriangle
	boxes []geom.Rect
}

// NewMeshPattern returns an empty mesh pattern.
func NewMeshPattern() *MeshPattern {
	return &MeshPattern{patternBase: newPatternBase(ExtendNone)}
}

// AddTriangle appends a triangle. Non-finite vertices latch
// StatusInvalidPathData.
func (p *MeshPattern) AddTriangle(t MeshTriangle) {
	for _, v := range t.P {
		if !v.Finite() {
			latch(&p.status, StatusInvalidPathData)
			return
		}
	}
	p.tris = append(p.tris, t)
	p.boxes = append(p.boxes, geom.BoundsOf(t.P[:]))
}

// TriangleCount returns the number of triangles, used for cache accounting.
func (p *MeshPattern) TriangleCount() int { return len(p.tris) }

// barycentric returns the barycentric coordinates of q in t.
func barycentric(t *MeshTriangle, q geom.Point) (l0, l1, l2 float64, ok bool) {
	a, b, c := t.P[0], t.P[1], t.P[2]
	det := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if det == 0 {
		return 0, 0, 0, false
	}
	l0 = ((b.Y-c.Y)*(q.X-c.X) + (c.X-b.X)*(q.Y-c.Y)) / det
	l1 = ((c.Y-a.Y)*(q.X-c.X) + (a.X-c.X)*(q.Y-c.Y)) / det
	l2 = 1 - l0 - l1
	return l0, l1, l2, true
}

func (t *MeshTriangle) colorAt(l0, l1, l2 float64) color.RGBA {
	var c [4]float64
	for i := range c {
		c[i] = l0*t.Colors[0][i] + l1*t.Colors[1][i] + l2*t.Colors[2][i]
	}
	return premul(c[0], c[1], c[2], c[3])
}

func (p *MeshPattern) shader(deviceToUser geom.Matrix) shadeFunc {
	m := p.toPattern(deviceToUser)
	// One device pixel measured in pattern space.
	slack := m.ScaleFactor()
	return func(x, y int) color.RGBA {
		q := m.TransformPoint(geom.Pt(float64(x)+0.5, float64(y)+0.5))
		nearest := -1
		for i := range p.tris {
			b := p.boxes[i]
			if q.X < b.X-slack || q.X > b.MaxX()+slack || q.Y < b.Y-slack || q.Y > b.MaxY()+slack {
				continue
			}
			l0, l1, l2, ok := barycentric(&p.tris[i], q)
			if !ok {
				continue
			}
			if l0 >= 0 && l1 >= 0 && l2 >= 0 {
				return p.tris[i].colorAt(l0, l1, l2)
			}
			if nearest < 0 {
				nearest = i
			}
		}
		if nearest < 0 {
			return color.RGBA{}
		}
		l0, l1, l2, _ := barycentric(&p.tris[nearest], q)
		l0, l1, l2 = math.Max(l0, 0), math.Max(l1, 0), math.Max(l2, 0)
		s := l0 + l1 + l2
		return p.tris[nearest].colorAt(l0/s, l1/s, l2/s)
	}
}
