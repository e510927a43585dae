// Package i18n holds the translated strings of the host HUD and the
// participant page, compiled into the binary as gettext catalogues.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/leonelquinteros/gotext"
)

// DefaultLanguage is used when no language is configured.
const DefaultLanguage = "en"

// ErrUnknownLanguage is returned for a language without a catalogue.
var ErrUnknownLanguage = errors.New("i18n: unknown language")

//go:embed locales/*.po
var locales embed.FS

// Catalog is one parsed language.
type Catalog struct {
	lang string
	po   *gotext.Po
}

// Languages lists the embedded languages.
func Languages() []string {
	entries, _ := locales.ReadDir("locales")
	var out []string
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), ".po"))
	}
	sort.Strings(out)
	return out
}

// normalize maps locale names such as "en_GB.UTF-8" to "en".
func normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "_-.@"); i >= 0 {
		lang = lang[:i]
	}
	if lang == "" || lang == "c" || lang == "posix" {
		return DefaultLanguage
	}
	return lang
}

// Load parses the embedded catalogue for lang.
func Load(lang string) (*Catalog, error) {
	lang = normalize(lang)
	data, err := locales.ReadFile(path.Join("locales", lang+".po"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	po := gotext.NewPo()
	po.Parse(data)
	return &Catalog{lang: lang, po: po}, nil
}

// Lang returns the catalogue's language code.
func (c *Catalog) Lang() string {
	return c.lang
}

// Get translates key, formatting vars into the translation. Unknown keys
// are returned unchanged.
func (c *Catalog) Get(key string, vars ...any) string {
	msg := c.po.Get(key)
	if len(vars) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, vars...)
}

var current atomic.Pointer[Catalog]

// Use makes c the catalogue behind T.
func Use(c *Catalog) {
	current.Store(c)
}

// T translates key with the current catalogue, loading the default language
// on first use.
func T(key string, vars ...any) string {
	c := current.Load()
	if c == nil {
		var err error
		if c, err = Load(DefaultLanguage); err != nil {
			return key
		}
		current.CompareAndSwap(nil, c)
	}
	return c.Get(key, vars...)
}
