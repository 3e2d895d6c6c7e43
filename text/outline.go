package text

import (
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"

	"github.com/gogpu/plotgg/geom"
	"github.com/gogpu/plotgg/internal/lru"
)

// outlineCacheSize bounds the number of glyph outlines kept in memory.
const outlineCacheSize = 4096

type outlineKey struct {
	face *Face
	gid  gotext.GID
}

// outlines holds glyph outlines in font units, y up.
var outlines = lru.New[outlineKey, geom.Path](outlineCacheSize)

// glyphOutline returns the outline of gid in font units. Bitmap and
// colour glyphs have no outline and yield an empty path.
func (f *Face) glyphOutline(gid gotext.GID) geom.Path {
	p, _ := outlines.GetOrCreate(outlineKey{f, gid}, func() (geom.Path, error) {
		f.mu.Lock()
		data := f.gt.GlyphData(gid)
		f.mu.Unlock()
		o, ok := data.(gotext.GlyphOutline)
		if !ok {
			return geom.Path{}, nil
		}
		return outlinePath(o.Segments), nil
	})
	return p
}

func outlinePath(segs []opentype.Segment) geom.Path {
	p := geom.NewPath(len(segs) * 2)
	open := false
	pt := func(s opentype.SegmentPoint) (float64, float64) { return float64(s.X), float64(s.Y) }
	for _, s := range segs {
		x0, y0 := pt(s.Args[0])
		switch s.Op {
		case opentype.SegmentOpMoveTo:
			if open {
				p.Close()
			}
			p.MoveTo(x0, y0)
			open = true
		case opentype.SegmentOpLineTo:
			p.LineTo(x0, y0)
		case opentype.SegmentOpQuadTo:
			x1, y1 := pt(s.Args[1])
			p.QuadTo(x0, y0, x1, y1)
		case opentype.SegmentOpCubeTo:
			x1, y1 := pt(s.Args[1])
			x2, y2 := pt(s.Args[2])
			p.CubicTo(x0, y0, x1, y1, x2, y2)
		}
	}
	if open {
		p.Close()
	}
	return *p
}

// Outline returns the outlines of all glyphs in pixels relative to the
// run origin, y up. Glyph contours are closed.
func (s *Shaped) Outline() geom.Path {
	var out geom.Path
	for _, g := range s.Glyphs {
		o := s.face.glyphOutline(g.ID)
		if o.Len() == 0 {
			continue
		}
		m := geom.Translate(g.X, g.Y).Multiply(geom.Scale(s.scale, s.scale))
		t := o.Transform(m)
		out.Vertices = append(out.Vertices, t.Vertices...)
		out.Codes = append(out.Codes, t.Codes...)
	}
	return out
}
