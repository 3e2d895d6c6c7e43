package text

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	gotext "github.com/go-text/typesetting/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// Face is one parsed font file. It is safe for concurrent use.
type Face struct {
	name string
	data []byte

	once sync.Once
	err  error
	mu   sync.Mutex // guards shaping and glyph data lookups on gt
	gt   *gotext.Face
	sfnt *sfnt.Font
	upem float64
	asc  float64 // font units
	desc float64 // font units, positive below the baseline
}

// Name returns the registered family and style, for example "serif bold".
func (f *Face) Name() string { return f.name }

func (f *Face) load() error {
	f.once.Do(func() {
		gt, err := gotext.ParseTTF(bytes.NewReader(f.data))
		if err != nil {
			f.err = fmt.Errorf("text: parse %s: %w", f.name, err)
			return
		}
		sf, err := sfnt.Parse(f.data)
		if err != nil {
			f.err = fmt.Errorf("text: parse %s: %w", f.name, err)
			return
		}
		f.gt, f.sfnt = gt, sf
		f.upem = float64(gt.Upem())
		if ext, ok := gt.FontHExtents(); ok {
			f.asc, f.desc = float64(ext.Ascender), -float64(ext.Descender)
		} else {
			f.asc, f.desc = 0.8*f.upem, 0.2*f.upem
		}
	})
	return f.err
}

type faceKey struct {
	family       string
	bold, italic bool
}

var (
	registryMu sync.RWMutex
	registry   = map[faceKey]*Face{}
)

func init() {
	builtin := []struct {
		family       string
		bold, italic bool
		ttf          []byte
	}{
		{"sans-serif", false, false, goregular.TTF},
		{"sans-serif", true, false, gobold.TTF},
		{"sans-serif", false, true, goitalic.TTF},
		{"sans-serif", true, true, gobolditalic.TTF},
		{"monospace", false, false, gomono.TTF},
		{"monospace", true, false, gomonobold.TTF},
		{"monospace", false, true, gomonoitalic.TTF},
		{"monospace", true, true, gomonobolditalic.TTF},
		{"serif", false, false, lmroman10regular.TTF},
		{"serif", true, false, lmroman10bold.TTF},
		{"serif", false, true, lmroman10italic.TTF},
		{"serif", true, true, lmroman10bolditalic.TTF},
	}
	for _, b := range builtin {
		registry[faceKey{b.family, b.bold, b.italic}] = newFace(b.family, b.bold, b.italic, b.ttf)
	}
}

func newFace(family string, bold, italic bool, ttf []byte) *Face {
	name := family
	if bold {
		name += " bold"
	}
	if italic {
		name += " italic"
	}
	return &Face{name: name, data: ttf}
}

func normalizeFamily(family string) string {
	f := strings.ToLower(strings.TrimSpace(family))
	if f == "" {
		return "sans-serif"
	}
	switch f {
	case "sans", "go", "dejavu sans":
		return "sans-serif"
	case "mono", "go mono", "dejavu sans mono":
		return "monospace"
	case "roman", "latin modern roman", "dejavu serif":
		return "serif"
	}
	return f
}

// Register adds or replaces the face for a family and style. The data is
// parsed lazily on first use; it must stay unmodified afterwards.
func Register(family string, bold, italic bool, ttf []byte) error {
	if len(ttf) == 0 {
		return ErrEmptyFontData
	}
	fam := normalizeFamily(family)
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[faceKey{fam, bold, italic}] = newFace(fam, bold, italic, ttf)
	shaped.Clear()
	return nil
}

// Lookup returns the face for a family and style. A missing bold or italic
// variant falls back to the regular face of the same family.
func Lookup(family string, bold, italic bool) (*Face, error) {
	fam := normalizeFamily(family)
	registryMu.RLock()
	f, ok := registry[faceKey{fam, bold, italic}]
	if !ok {
		f, ok = registry[faceKey{fam, false, false}]
	}
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, family)
	}
	if err := f.load(); err != nil {
		return nil, err
	}
	return f, nil
}
