package geom

import (
	"errors"
	"fmt"
	"math"
)

// Code is a path segment code. The numeric values follow the plotting
// library's path codes so vertex/code arrays can be passed through as-is.
type Code uint8

// Path segment codes.
const (
	// Stop marks the end of the path; remaining vertices are ignored.
	Stop Code = 0
	// MoveTo starts a new subpath at the vertex.
	MoveTo Code = 1
	// LineTo draws a straight segment to the vertex.
	LineTo Code = 2
	// Curve3 is a quadratic Bézier: a control vertex then an end vertex,
	// both tagged Curve3.
	Curve3 Code = 3
	// Curve4 is a cubic Bézier: two control vertices then an end vertex,
	// all tagged Curve4.
	Curve4 Code = 4
	// ClosePoly closes the current subpath. Its vertex is ignored.
	ClosePoly Code = 79
)

// String returns the code name.
func (c Code) String() string {
	switch c {
	case Stop:
		return "STOP"
	case MoveTo:
		return "MOVETO"
	case LineTo:
		return "LINETO"
	case Curve3:
		return "CURVE3"
	case Curve4:
		return "CURVE4"
	case ClosePoly:
		return "CLOSEPOLY"
	default:
		return fmt.Sprintf("Code(%d)", uint8(c))
	}
}

// NumVertices returns the number of vertices consumed by a segment that
// starts with code c.
func (c Code) NumVertices() int {
	switch c {
	case Curve3:
		return 2
	case Curve4:
		return 3
	default:
		return 1
	}
}

// ErrInvalidPath is returned by Validate for malformed vertex/code arrays.
var ErrInvalidPath = errors.New("geom: invalid path")

// Path is an ordered sequence of segments in path-local coordinates.
//
// Codes may be nil, in which case the first vertex is a MoveTo and every
// following vertex a LineTo. When Codes is non-nil it has one entry per
// vertex.
type Path struct {
	Vertices []Point
	Codes    []Code
}

// NewPath creates a new empty path with room for n vertices.
func NewPath(n int) *Path {
	return &Path{
		Vertices: make([]Point, 0, n),
		Codes:    make([]Code, 0, n),
	}
}

// Polyline returns a code-less path through pts.
func Polyline(pts ...Point) Path {
	return Path{Vertices: pts}
}

// Len returns the number of vertices.
func (p *Path) Len() int {
	return len(p.Vertices)
}

// CodeAt returns the code of vertex i, synthesizing it for code-less paths.
func (p *Path) CodeAt(i int) Code {
	if p.Codes == nil {
		if i == 0 {
			return MoveTo
		}
		return LineTo
	}
	return p.Codes[i]
}

// MoveTo starts a new subpath.
func (p *Path) MoveTo(x, y float64) *Path {
	return p.add(MoveTo, Pt(x, y))
}

// LineTo adds a line segment.
func (p *Path) LineTo(x, y float64) *Path {
	return p.add(LineTo, Pt(x, y))
}

// QuadTo adds a quadratic Bézier segment.
func (p *Path) QuadTo(cx, cy, x, y float64) *Path {
	return p.add(Curve3, Pt(cx, cy), Pt(x, y))
}

// CubicTo adds a cubic Bézier segment.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) *Path {
	return p.add(Curve4, Pt(c1x, c1y), Pt(c2x, c2y), Pt(x, y))
}

// Close closes the current subpath.
func (p *Path) Close() *Path {
	return p.add(ClosePoly, Point{})
}

func (p *Path) add(c Code, pts ...Point) *Path {
	if p.Codes == nil && len(p.Vertices) > 0 {
		codes := make([]Code, len(p.Vertices))
		for i := range codes {
			codes[i] = p.CodeAt(i)
		}
		p.Codes = codes
	}
	for _, pt := range pts {
		p.Vertices = append(p.Vertices, pt)
		p.Codes = append(p.Codes, c)
	}
	return p
}

// Validate checks that the codes and vertices are consistent: equal
// lengths, a leading MoveTo, and complete curve segments.
func (p *Path) Validate() error {
	if p.Codes == nil || len(p.Vertices) == 0 {
		return nil
	}
	if len(p.Codes) != len(p.Vertices) {
		return fmt.Errorf("%w: %d codes for %d vertices", ErrInvalidPath, len(p.Codes), len(p.Vertices))
	}
	if p.Codes[0] != MoveTo {
		return fmt.Errorf("%w: path starts with %v", ErrInvalidPath, p.Codes[0])
	}
	for i := 0; i < len(p.Codes); {
		c := p.Codes[i]
		switch c {
		case Stop:
			return nil
		case MoveTo, LineTo, ClosePoly, Curve3, Curve4:
		default:
			return fmt.Errorf("%w: unknown code %v at %d", ErrInvalidPath, c, i)
		}
		n := c.NumVertices()
		if i+n > len(p.Codes) {
			return fmt.Errorf("%w: truncated %v segment at %d", ErrInvalidPath, c, i)
		}
		for j := 1; j < n; j++ {
			if p.Codes[i+j] != c {
				return fmt.Errorf("%w: incomplete %v segment at %d", ErrInvalidPath, c, i)
			}
		}
		i += n
	}
	return nil
}

// Segment is one decoded path segment.
type Segment struct {
	Code Code
	// Points holds Code.NumVertices() points; for ClosePoly it is empty.
	Points []Point
}

// Segments calls fn for every segment in order, stopping early if fn
// returns false. Validate should be called first for untrusted input;
// truncated trailing segments are silently dropped.
func (p *Path) Segments(fn func(Segment) bool) {
	for i := 0; i < len(p.Vertices); {
		c := p.CodeAt(i)
		if c == Stop {
			return
		}
		n := c.NumVertices()
		if i+n > len(p.Vertices) {
			return
		}
		seg := Segment{Code: c}
		if c != ClosePoly {
			seg.Points = p.Vertices[i : i+n]
		}
		if !fn(seg) {
			return
		}
		i += n
	}
}

// Transform returns a copy of the path with every vertex mapped through m.
func (p *Path) Transform(m Matrix) Path {
	out := Path{Vertices: make([]Point, len(p.Vertices))}
	for i, v := range p.Vertices {
		out.Vertices[i] = m.TransformPoint(v)
	}
	if p.Codes != nil {
		out.Codes = append([]Code(nil), p.Codes...)
	}
	return out
}

// Clone returns a deep copy.
func (p *Path) Clone() Path {
	out := Path{Vertices: append([]Point(nil), p.Vertices...)}
	if p.Codes != nil {
		out.Codes = append([]Code(nil), p.Codes...)
	}
	return out
}

// Bounds returns the bounding box of the finite control points.
func (p *Path) Bounds() Rect {
	return BoundsOf(p.Vertices)
}

// HasCurves reports whether the path contains Bézier segments.
func (p *Path) HasCurves() bool {
	for _, c := range p.Codes {
		if c == Curve3 || c == Curve4 {
			return true
		}
	}
	return false
}

// Rectangle returns a closed axis-aligned rectangle path.
func Rectangle(x, y, w, h float64) Path {
	var p Path
	p.MoveTo(x, y).LineTo(x+w, y).LineTo(x+w, y+h).LineTo(x, y+h).Close()
	return p
}

// circleK is the cubic Bézier control distance for a quarter circle.
const circleK = 0.5522847498307936

// Circle returns a closed circle approximated by four cubic Béziers.
func Circle(cx, cy, r float64) Path {
	k := circleK * r
	var p Path
	p.MoveTo(cx+r, cy)
	p.CubicTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	p.CubicTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	p.CubicTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	p.CubicTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	p.Close()
	return p
}

// UnitCircle returns a circle of radius 1 centred on the origin.
func UnitCircle() Path {
	return Circle(0, 0, 1)
}

// RegularPolygon returns a closed regular polygon with n vertices on the
// unit circle, the first one pointing up.
func RegularPolygon(n int) Path {
	var p Path
	for i := range n {
		a := 2*math.Pi*float64(i)/float64(n) + math.Pi/2
		if i == 0 {
			p.MoveTo(math.Cos(a), math.Sin(a))
		} else {
			p.LineTo(math.Cos(a), math.Sin(a))
		}
	}
	return *p.Close()
}
