package plotgg

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/plotgg/cache"
)

// Config is the on-disk renderer configuration:
//
//	dpi = 100
//	default = true
//	antialias = true
//	text_mode = "vector"
//	background = "#ffffff"
//
//	[markers]
//	subpixels = 4
//	stamp_threshold = 96
//
//	[cache]
//	max_bytes = 67108864
//	max_entries = 4096
//
// Zero values keep the built-in defaults.
type Config struct {
	DPI        float64 `toml:"dpi"`
	Default    bool    `toml:"default"`
	Antialias  *bool   `toml:"antialias"`
	TextMode   string  `toml:"text_mode"`
	Tolerance  float64 `toml:"tolerance"`
	Background string  `toml:"background"`

	Markers MarkerConfig `toml:"markers"`
	Cache   CacheConfig  `toml:"cache"`
}

// MarkerConfig configures marker stamping.
type MarkerConfig struct {
	Subpixels      int     `toml:"subpixels"`
	StampThreshold float64 `toml:"stamp_threshold"`
}

// CacheConfig bounds a private pattern cache. When both fields are zero
// the shared cache is used.
type CacheConfig struct {
	MaxBytes   int64 `toml:"max_bytes"`
	MaxEntries int   `toml:"max_entries"`
}

// LoadConfig decodes a TOML configuration. Unknown keys are rejected.
func LoadConfig(r io.Reader) (*Config, error) {
	var c Config
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: config: %w", ErrInvalidArgument, err)
	}
	if _, err := c.BackgroundColor(); err != nil {
		return nil, err
	}
	if _, err := parseTextMode(c.TextMode); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadConfigFile reads a TOML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("plotgg: read config: %w", err)
	}
	return LoadConfig(bytes.NewReader(data))
}

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

func parseTextMode(s string) (TextMode, error) {
	for _, m := range []TextMode{TextAuto, TextVector, TextRaster} {
		if s == m.String() {
			return m, nil
		}
	}
	if s == "" {
		return TextAuto, nil
	}
	return TextAuto, fmt.Errorf("%w: text mode %q", ErrInvalidArgument, s)
}

// BackgroundColor returns the parsed background, transparent when unset.
func (c *Config) BackgroundColor() (RGBA, error) {
	if c.Background == "" {
		return Transparent, nil
	}
	return ParseColor(c.Background)
}

// Options converts the configuration to renderer options.
func (c *Config) Options() ([]Option, error) {
	var opts []Option
	if c.DPI != 0 {
		opts = append(opts, WithDPI(c.DPI))
	}
	if c.Antialias != nil {
		opts = append(opts, WithAntialias(*c.Antialias))
	}
	mode, err := parseTextMode(c.TextMode)
	if err != nil {
		return nil, err
	}
	opts = append(opts, WithTextMode(mode))
	if c.Tolerance != 0 {
		opts = append(opts, WithTolerance(c.Tolerance))
	}
	if c.Markers.Subpixels != 0 {
		opts = append(opts, WithMarkerSubpixels(c.Markers.Subpixels))
	}
	if c.Markers.StampThreshold != 0 {
		opts = append(opts, WithStampThreshold(c.Markers.StampThreshold))
	}
	if c.Cache.MaxBytes != 0 || c.Cache.MaxEntries != 0 {
		if c.Cache.MaxBytes < 0 || c.Cache.MaxEntries < 0 {
			return nil, fmt.Errorf("%w: cache budget %+v", ErrInvalidArgument, c.Cache)
		}
		opts = append(opts, WithCache(cache.New(cache.Config{
			MaxBytes:   c.Cache.MaxBytes,
			MaxEntries: c.Cache.MaxEntries,
		})))
	}
	return opts, nil
}

// Apply makes the configuration's default selection.
func (c *Config) Apply() {
	UseAsDefault(c.Default)
}
