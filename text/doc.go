// Package text shapes and renders the text runs a plot draws: tick labels,
// titles and annotations.
//
// A Run pairs a string with a Font. Shape turns a run into positioned
// glyphs using HarfBuzz shaping from go-text/typesetting, so kerning and
// ligatures match what the font specifies. Shaped runs can be drawn two
// ways:
//
//   - Outline returns the glyph outlines as one geom.Path in baseline
//     coordinates, y up, for crisp scalable filling.
//   - RasterMask rasterizes the run with hinting through
//     golang.org/x/image/font/opentype, for small text or for glyphs whose
//     features the outline path cannot reproduce.
//
// Both use the same origin: the left end of the baseline.
//
// Built-in families are "sans-serif" (Go Regular), "monospace" (Go Mono)
// and "serif" (Latin Modern Roman), each with bold and italic variants.
// Register adds further families.
package text
