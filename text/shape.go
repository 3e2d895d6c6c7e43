package text

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/plotgg/internal/lru"
)

// Font selects a face and size. Size is the em size in device pixels.
type Font struct {
	Family string
	Size   float64
	Bold   bool
	Italic bool
}

// Run is a single-line string in one font.
type Run struct {
	Text string
	Font Font
}

// Glyph is a shaped glyph placed relative to the run origin, y up.
type Glyph struct {
	ID   gotext.GID
	X, Y float64
}

// Shaped is the result of shaping a run.
type Shaped struct {
	Glyphs []Glyph
	// Advance is the pen advance of the whole run.
	Advance float64
	// Ascent and Descent are the font's line extents at this size; Descent
	// is positive below the baseline.
	Ascent, Descent float64

	face  *Face
	scale float64 // pixels per font unit
}

// Face returns the face the run was shaped with.
func (s *Shaped) Face() *Face { return s.face }

var shaperPool = sync.Pool{New: func() any { return new(shaping.HarfbuzzShaper) }}

func validSize(size float64) bool {
	return size > 0 && !math.IsInf(size, 0)
}

// shapedCacheSize bounds the number of shaped runs kept in memory. Tick
// labels repeat across redraws, so a few hundred entries cover a figure.
const shapedCacheSize = 512

var shaped = lru.New[Run, *Shaped](shapedCacheSize)

// Shape shapes run. The text is normalized to NFC first so that composed
// and decomposed input produce the same glyphs. Results are memoized and
// shared; callers must not modify them.
func Shape(run Run) (*Shaped, error) {
	if !validSize(run.Font.Size) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, run.Font.Size)
	}
	return shaped.GetOrCreate(run, func() (*Shaped, error) { return shape(run) })
}

func shape(run Run) (*Shaped, error) {
	face, err := Lookup(run.Font.Family, run.Font.Bold, run.Font.Italic)
	if err != nil {
		return nil, err
	}
	scale := run.Font.Size / face.upem
	out := &Shaped{
		face:    face,
		scale:   scale,
		Ascent:  face.asc * scale,
		Descent: face.desc * scale,
	}
	runes := []rune(norm.NFC.String(run.Text))
	if len(runes) == 0 {
		return out, nil
	}

	in := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      face.gt,
		Size:      fixed.Int26_6(math.Round(run.Font.Size * 64)),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}
	hb := shaperPool.Get().(*shaping.HarfbuzzShaper)
	face.mu.Lock()
	res := hb.Shape(in)
	face.mu.Unlock()
	shaperPool.Put(hb)

	out.Glyphs = make([]Glyph, 0, len(res.Glyphs))
	pen := 0.0
	for _, g := range res.Glyphs {
		out.Glyphs = append(out.Glyphs, Glyph{
			ID: g.GlyphID,
			X:  pen + fromFixed(g.XOffset),
			Y:  fromFixed(g.YOffset),
		})
		pen += fromFixed(g.XAdvance)
	}
	out.Advance = pen
	return out, nil
}

func fromFixed(v fixed.Int26_6) float64 { return float64(v) / 64 }

// detectScript returns the script of the first letter in runes.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if s := language.LookupScript(r); s != language.Common && s != language.Inherited && s != language.Unknown {
			return s
		}
	}
	return language.Latin
}

// Extents returns the width, height and descent of run in pixels, with
// the height measured from the lowest descender to the highest ascender
// of the font.
func Extents(run Run) (width, height, descent float64, err error) {
	s, err := Shape(run)
	if err != nil {
		return 0, 0, 0, err
	}
	return s.Advance, s.Ascent + s.Descent, s.Descent, nil
}
