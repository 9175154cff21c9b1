package imagepkg

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// DefaultFamily is used when no requested family is registered.
const DefaultFamily = "Go"

var genericFamilies = map[string]string{
	"sans-serif":  "go",
	"serif":       "go",
	"system-ui":   "go",
	"arial":       "go",
	"helvetica":   "go",
	"verdana":     "go",
	"monospace":   "go mono",
	"courier":     "go mono",
	"courier new": "go mono",
}

// FontRegistry maps family names to parsed fonts. It is safe for concurrent use.
type FontRegistry struct {
	mu    sync.RWMutex
	fonts map[string]*opentype.Font
	names map[string]string
}

var (
	defaultFontsOnce sync.Once
	defaultFonts     *FontRegistry
)

// DefaultFonts returns a shared registry holding the Go font family.
func DefaultFonts() *FontRegistry {
	defaultFontsOnce.Do(func() { defaultFonts = NewFontRegistry() })
	return defaultFonts
}

// NewFontRegistry returns a registry pre-loaded with the Go font family.
func NewFontRegistry() *FontRegistry {
	r := &FontRegistry{
		fonts: make(map[string]*opentype.Font),
		names: make(map[string]string),
	}
	builtin := []struct {
		family string
		ttf    []byte
	}{
		{"Go", goregular.TTF},
		{"Go Bold", gobold.TTF},
		{"Go Italic", goitalic.TTF},
		{"Go Medium", gomedium.TTF},
		{"Go Mono", gomono.TTF},
		{"Go Mono Bold", gomonobold.TTF},
	}
	for _, b := range builtin {
		if err := r.Register(b.family, b.ttf); err != nil {
			panic(fmt.Sprintf("imagepkg: builtin font %s: %v", b.family, err))
		}
	}
	return r
}

// Register parses TrueType/OpenType data and stores it under family.
func (r *FontRegistry) Register(family string, data []byte) error {
	family = strings.TrimSpace(family)
	if family == "" {
		return fmt.Errorf("font family is empty")
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", family, err)
	}
	r.add(family, f, true)
	return nil
}

// LoadDir registers every .ttf and .otf file in dir under its file stem and
// the family name embedded in the font. It returns the number of files loaded.
func (r *FontRegistry) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".ttf" && ext != ".otf") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return n, err
		}
		f, err := opentype.Parse(data)
		if err != nil {
			return n, fmt.Errorf("parse font %s: %w", e.Name(), err)
		}
		r.add(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())), f, true)
		if name, err := f.Name(nil, sfnt.NameIDFamily); err == nil && name != "" {
			r.add(name, f, false)
		}
		n++
	}
	return n, nil
}

func (r *FontRegistry) add(family string, f *opentype.Font, replace bool) {
	key := strings.ToLower(family)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.fonts[key]; exists && !replace {
		return
	}
	r.fonts[key] = f
	r.names[key] = family
}

// Lookup resolves a CSS-like family list such as `"Roboto", Arial, sans-serif`.
// The first registered entry wins; generic names map to the Go fonts and
// anything unknown falls back to DefaultFamily.
func (r *FontRegistry) Lookup(families string) *opentype.Font {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range strings.Split(families, ",") {
		key := strings.ToLower(strings.Trim(strings.TrimSpace(name), `"'`))
		if f, ok := r.fonts[key]; ok {
			return f
		}
		if alias, ok := genericFamilies[key]; ok {
			if f, ok := r.fonts[alias]; ok {
				return f
			}
		}
	}
	return r.fonts[strings.ToLower(DefaultFamily)]
}

// Families returns the registered family names, sorted.
func (r *FontRegistry) Families() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
