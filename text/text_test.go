package text

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupBuiltins(t *testing.T) {
	for _, fam := range []string{"sans-serif", "monospace", "serif", "Sans", "DejaVu Serif", ""} {
		f, err := Lookup(fam, false, false)
		require.NoError(t, err, fam)
		assert.NotEmpty(t, f.Name())
	}
	_, err := Lookup("no such family", false, false)
	assert.True(t, errors.Is(err, ErrUnknownFamily))
}

func TestShapeAdvance(t *testing.T) {
	s, err := Shape(Run{Text: "Hello", Font: Font{Family: "sans-serif", Size: 20}})
	require.NoError(t, err)
	assert.Len(t, s.Glyphs, 5)
	assert.Greater(t, s.Advance, 20.0)
	assert.Greater(t, s.Ascent, 0.0)
	assert.Greater(t, s.Descent, 0.0)

	big, err := Shape(Run{Text: "Hello", Font: Font{Family: "sans-serif", Size: 40}})
	require.NoError(t, err)
	assert.InDelta(t, 2*s.Advance, big.Advance, 1)
}

func TestShapeNormalizes(t *testing.T) {
	f := Font{Family: "sans-serif", Size: 12}
	a, err := Shape(Run{Text: "\u00e9", Font: f})
	require.NoError(t, err)
	b, err := Shape(Run{Text: "e\u0301", Font: f})
	require.NoError(t, err)
	assert.Equal(t, b.Glyphs, a.Glyphs)
}

func TestInvalidSize(t *testing.T) {
	_, err := Shape(Run{Text: "x", Font: Font{Size: 0}})
	assert.ErrorIs(t, err, ErrInvalidSize)
	_, _, err = RasterMask(Run{Text: "x", Font: Font{Size: -1}})
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestOutlineAndRasterAgree(t *testing.T) {
	run := Run{Text: "Ag", Font: Font{Family: "sans-serif", Size: 32}}
	s, err := Shape(run)
	require.NoError(t, err)
	o := s.Outline()
	require.NoError(t, o.Validate())
	b := o.Bounds()
	assert.Greater(t, b.MaxY(), 10.0, "ascender above baseline")
	assert.Less(t, b.Y, 0.0, "descender of g below baseline")

	mask, origin, err := RasterMask(run)
	require.NoError(t, err)
	// Ink exists above and below the baseline row in the raster too.
	above, below := false, false
	for y := mask.Rect.Min.Y; y < mask.Rect.Max.Y; y++ {
		for x := mask.Rect.Min.X; x < mask.Rect.Max.X; x++ {
			if mask.AlphaAt(x, y).A == 0 {
				continue
			}
			above = above || y < origin.Y-2
			below = below || y > origin.Y+2
		}
	}
	assert.True(t, above && below)
	assert.InDelta(t, s.Advance, float64(mask.Rect.Dx()), 6)
}

func TestEmptyRun(t *testing.T) {
	s, err := Shape(Run{Font: Font{Size: 10}})
	require.NoError(t, err)
	assert.Empty(t, s.Glyphs)
	o := s.Outline()
	assert.Zero(t, o.Len())

	w, h, d, err := Extents(Run{Font: Font{Size: 10}})
	require.NoError(t, err)
	assert.Zero(t, w)
	assert.Greater(t, h, d)
}

func TestRegister(t *testing.T) {
	assert.ErrorIs(t, Register("custom", false, false, nil), ErrEmptyFontData)
	f, err := Lookup("serif", false, false)
	require.NoError(t, err)
	require.NoError(t, Register("Custom Serif", false, false, f.data))
	g, err := Lookup("custom serif", true, false)
	require.NoError(t, err, "bold falls back to regular")
	assert.Equal(t, "custom serif", g.Name())
}

func TestShapeMemoized(t *testing.T) {
	run := Run{Text: "memo", Font: Font{Family: "monospace", Size: 13}}
	a, err := Shape(run)
	require.NoError(t, err)
	b, err := Shape(run)
	require.NoError(t, err)
	assert.Same(t, a, b)

	require.NoError(t, Register("monospace", false, false, a.Face().data))
	c, err := Shape(run)
	require.NoError(t, err)
	assert.NotSame(t, a, c, "registering a face drops shaped runs")
	assert.InDelta(t, a.Advance, c.Advance, 1e-9)
}
