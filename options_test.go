package plotgg

import (
	"testing"

	"github.com/gogpu/plotgg/cache"
)

func TestDefaultOptions(t *testing.T) {
	r, err := New(10, 10)
	if err != nil {
		t.Fatal(err)
	}
	if r.DPI() != DefaultDPI {
		t.Errorf("DPI() = %v, want %v", r.DPI(), DefaultDPI)
	}
	if r.Cache() != SharedCache() {
		t.Error("renderer without WithCache does not use the shared cache")
	}
	if r.opts.markerSubpixels != DefaultMarkerSubpixels || r.opts.textMode != TextAuto || !r.opts.antialias {
		t.Errorf("unexpected defaults %+v", r.opts)
	}
}

func TestOptionsApply(t *testing.T) {
	c := cache.New(cache.Config{MaxEntries: 8})
	r, err := New(10, 10,
		WithDPI(300),
		WithCache(c),
		WithMarkerSubpixels(2),
		WithStampThreshold(10),
		WithAntialias(false),
		WithTextMode(TextRaster),
		WithTolerance(0.25),
	)
	if err != nil {
		t.Fatal(err)
	}
	o := r.opts
	switch {
	case o.dpi != 300, o.cache != c, o.markerSubpixels != 2, o.stampThreshold != 10,
		o.antialias, o.textMode != TextRaster, o.tolerance != 0.25:
		t.Errorf("options not applied: %+v", o)
	}
}

func TestTextModeResolution(t *testing.T) {
	tests := []struct {
		mode      TextMode
		requested bool
		want      bool
	}{
		{TextAuto, false, false},
		{TextAuto, true, true},
		{TextVector, true, false},
		{TextRaster, false, true},
	}
	for _, tt := range tests {
		r, err := New(1, 1, WithTextMode(tt.mode))
		if err != nil {
			t.Fatal(err)
		}
		if got := r.rasterText(tt.requested); got != tt.want {
			t.Errorf("mode %s requested %v: raster = %v, want %v", tt.mode, tt.requested, got, tt.want)
		}
	}
}
