package plotgg

import (
	"log/slog"
	"sync"

	"github.com/gogpu/plotgg/cache"
)

// TextMode selects how DrawText renders glyphs.
type TextMode uint8

const (
	// TextAuto draws outlines unless the caller requests the raster
	// fallback for a run.
	TextAuto TextMode = iota
	// TextVector always fills glyph outlines.
	TextVector
	// TextRaster always blits hinted glyph masks.
	TextRaster
)

// String returns the mode name used in configuration files.
func (m TextMode) String() string {
	switch m {
	case TextVector:
		return "vector"
	case TextRaster:
		return "raster"
	}
	return "auto"
}

// Option configures a Renderer.
//
// Example:
//
//	r, err := plotgg.New(640, 480,
//	    plotgg.WithDPI(100),
//	    plotgg.WithMarkerSubpixels(4),
//	)
type Option func(*options)

type options struct {
	dpi             float64
	cache           *cache.Cache
	markerSubpixels int
	stampThreshold  float64
	antialias       bool
	textMode        TextMode
	tolerance       float64
	logger          *slog.Logger
}

// Defaults.
const (
	DefaultDPI             = 72
	DefaultMarkerSubpixels = 4
	// DefaultStampThreshold is the largest marker extent, in pixels, drawn
	// from cached stamps. Larger markers replay their cached outline.
	DefaultStampThreshold = 96
	// DefaultTolerance is the curve flattening tolerance in pixels.
	DefaultTolerance = 0.1
)

var sharedCache = sync.OnceValue(func() *cache.Cache {
	return cache.New(cache.Config{})
})

// SharedCache returns the process-wide pattern cache used by renderers
// created without WithCache.
func SharedCache() *cache.Cache { return sharedCache() }

func defaultOptions() options {
	return options{
		dpi:             DefaultDPI,
		markerSubpixels: DefaultMarkerSubpixels,
		stampThreshold:  DefaultStampThreshold,
		antialias:       true,
		tolerance:       DefaultTolerance,
	}
}

// WithDPI sets the output resolution. Line widths, dashes, font sizes and
// hatch tiles given in points scale by dpi/72.
func WithDPI(dpi float64) Option {
	return func(o *options) { o.dpi = dpi }
}

// WithCache shares c between renderers. Without it every renderer uses
// SharedCache.
func WithCache(c *cache.Cache) Option {
	return func(o *options) { o.cache = c }
}

// WithMarkerSubpixels sets how many stamp offsets per pixel axis markers
// are rendered at. Higher values place markers more precisely at the cost
// of more stamps; 1 snaps markers to whole pixels.
func WithMarkerSubpixels(n int) Option {
	return func(o *options) { o.markerSubpixels = n }
}

// WithStampThreshold sets the largest marker extent in pixels that is
// drawn from stamps.
func WithStampThreshold(px float64) Option {
	return func(o *options) { o.stampThreshold = px }
}

// WithAntialias enables or disables antialiasing for everything the
// renderer draws. Graphics states can still disable it per call.
func WithAntialias(on bool) Option {
	return func(o *options) { o.antialias = on }
}

// WithTextMode selects glyph rendering.
func WithTextMode(m TextMode) Option {
	return func(o *options) { o.textMode = m }
}

// WithTolerance sets the curve flattening tolerance in pixels.
func WithTolerance(t float64) Option {
	return func(o *options) { o.tolerance = t }
}

// WithLogger sets a logger for this renderer only.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}
