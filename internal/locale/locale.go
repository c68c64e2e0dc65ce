// Package locale resolves request locales to message templates.
//
// Message files are embedded at build time and loaded once into a go-i18n
// bundle. A Bundle is read-only after construction and safe for concurrent
// use; a Translator is built per request.
package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

// DefaultLanguage is used when a request's language has no messages.
const DefaultLanguage = "en"

//go:embed resources/active.*.toml
var resourceFS embed.FS

// Bundle holds the message templates for every supported language.
type Bundle struct {
	bundle          *i18n.Bundle
	defaultLanguage string
	languages       map[string]bool
}

// Resolution records how a request locale was mapped to a language.
type Resolution struct {
	// Locale is the locale string from the request, e.g. "es-MX".
	Locale string
	// Language is the language derived from Locale, e.g. "es".
	Language string
	// Resolved is the language whose messages are used.
	Resolved string
	// FallbackUsed is true when Language has no messages and Resolved is
	// the default language instead.
	FallbackUsed bool
}

// NewBundle loads the embedded message files.
func NewBundle(defaultLanguage string) (*Bundle, error) {
	return LoadBundle(resourceFS, "resources", defaultLanguage)
}

// LoadBundle loads every active.<lang>.toml file found in dir of fsys.
// The default language must be among the loaded languages.
func LoadBundle(fsys fs.FS, dir, defaultLanguage string) (*Bundle, error) {
	tag, err := language.Parse(defaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("invalid default language %q: %w", defaultLanguage, err)
	}

	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(fsys, path.Join(dir, "active.*.toml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list message files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no message files in %s", dir)
	}
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(fsys, file); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	b := &Bundle{
		bundle:          bundle,
		defaultLanguage: baseLanguage(tag),
		languages:       map[string]bool{},
	}
	for _, t := range bundle.LanguageTags() {
		b.languages[baseLanguage(t)] = true
	}
	if !b.languages[b.defaultLanguage] {
		return nil, fmt.Errorf("no messages for default language %q", b.defaultLanguage)
	}

	return b, nil
}

// Has reports whether the bundle has messages for lang.
func (b *Bundle) Has(lang string) bool {
	return b.languages[lang]
}

// Languages returns the supported languages in sorted order.
func (b *Bundle) Languages() []string {
	langs := make([]string, 0, len(b.languages))
	for lang := range b.languages {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// DefaultLanguage returns the language used for fallback.
func (b *Bundle) DefaultLanguage() string {
	return b.defaultLanguage
}

// Resolve maps a request locale to a supported language. It never fails:
// an unknown or malformed locale resolves to the default language with
// FallbackUsed set.
func (b *Bundle) Resolve(locale string) Resolution {
	res := Resolution{
		Locale:   locale,
		Language: Language(locale),
	}
	if b.languages[res.Language] {
		res.Resolved = res.Language
		return res
	}
	res.Resolved = b.defaultLanguage
	res.FallbackUsed = true
	return res
}

// Translator returns a translator for the resolved language. Keys missing
// in that language are looked up in the default language.
func (b *Bundle) Translator(res Resolution) *Translator {
	resolved := res.Resolved
	if resolved == "" {
		resolved = b.defaultLanguage
	}
	return &Translator{
		localizer: i18n.NewLocalizer(b.bundle, resolved, b.defaultLanguage),
		language:  resolved,
	}
}

// Language returns the base language of a locale code: "es-MX" → "es".
// Malformed codes are split on the first '-' or '_'.
func Language(locale string) string {
	if tag, err := language.Parse(locale); err == nil {
		return baseLanguage(tag)
	}
	first, _, _ := strings.Cut(strings.ReplaceAll(locale, "_", "-"), "-")
	return strings.ToLower(strings.TrimSpace(first))
}

func baseLanguage(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}
