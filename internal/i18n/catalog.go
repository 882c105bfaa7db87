// Package i18n holds the English and French message catalogs used by every
// piece of terminal output.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// Lang is a supported content language.
type Lang string

const (
	EN Lang = "en"
	FR Lang = "fr"
)

// BaseLang is the fallback for missing messages and empty content fields.
const BaseLang = EN

// Langs lists supported languages in display order.
var Langs = []Lang{EN, FR}

// ParseLang accepts a BCP 47 tag ("fr", "fr-CA", "en_US") and reduces it to
// a supported language.
func ParseLang(raw string) (Lang, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(raw, "_", "-"))
	if trimmed == "" {
		return BaseLang, nil
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse language %q: %w", raw, err)
	}
	base, _ := tag.Base()
	switch Lang(base.String()) {
	case EN:
		return EN, nil
	case FR:
		return FR, nil
	}
	return "", fmt.Errorf("unsupported language %q", raw)
}

// Tag returns the x/text language tag for l.
func (l Lang) Tag() language.Tag {
	if l == FR {
		return language.French
	}
	return language.English
}

// Valid reports whether l is a supported language.
func (l Lang) Valid() bool {
	return l == EN || l == FR
}

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle stores every locale's messages and the x/text catalog built from them.
type Bundle struct {
	messages map[Lang]map[string]string
	catalog  *catalog.Builder
	printers sync.Map
}

//go:embed locales/*.yaml
var embeddedFS embed.FS

var (
	defaultOnce   sync.Once
	defaultBundle *Bundle
)

// Default returns the process-wide embedded bundle.
func Default() *Bundle {
	defaultOnce.Do(func() {
		b, err := LoadFromFS(embeddedFS)
		if err != nil {
			panic(fmt.Sprintf("i18n: load embedded catalogs: %v", err))
		}
		defaultBundle = b
	})
	return defaultBundle
}

// LoadFromFS loads locales/*.yaml from fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{
		messages: map[Lang]map[string]string{},
		catalog:  catalog.NewBuilder(catalog.Fallback(BaseLang.Tag())),
	}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := b.add(p, file); err != nil {
			return nil, err
		}
	}
	if _, ok := b.messages[BaseLang]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLang)
	}
	return b, nil
}

func (b *Bundle) add(p string, file catalogFile) error {
	fromPath := strings.TrimSuffix(path.Base(p), path.Ext(p))
	lang := Lang(strings.TrimSpace(file.Locale))
	if lang != Lang(fromPath) {
		return fmt.Errorf("catalog %s: locale %q must match file name %q", p, lang, fromPath)
	}
	if !lang.Valid() {
		return fmt.Errorf("catalog %s: unsupported locale %q", p, lang)
	}
	if len(file.Messages) == 0 {
		return fmt.Errorf("catalog %s: messages map is required", p)
	}
	msgs := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		k := strings.TrimSpace(key)
		if k == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", p)
		}
		msgs[k] = value
		if err := b.catalog.SetString(lang.Tag(), k, value); err != nil {
			return fmt.Errorf("catalog %s: register %q: %w", p, k, err)
		}
	}
	b.messages[lang] = msgs
	return nil
}

func (b *Bundle) printer(lang Lang) *message.Printer {
	if p, ok := b.printers.Load(lang); ok {
		return p.(*message.Printer)
	}
	p := message.NewPrinter(lang.Tag(), message.Catalog(b.catalog))
	actual, _ := b.printers.LoadOrStore(lang, p)
	return actual.(*message.Printer)
}

// Has reports whether key is defined for lang without falling back.
func (b *Bundle) Has(lang Lang, key string) bool {
	_, ok := b.messages[lang][key]
	return ok
}

// Keys returns the sorted message keys defined for lang.
func (b *Bundle) Keys(lang Lang) []string {
	out := make([]string, 0, len(b.messages[lang]))
	for k := range b.messages[lang] {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// T formats the message for key in lang, falling back to English. Unknown
// keys are returned verbatim.
func (b *Bundle) T(lang Lang, key string, args ...any) string {
	if !lang.Valid() {
		lang = BaseLang
	}
	if _, ok := b.messages[lang][key]; !ok {
		if _, ok := b.messages[BaseLang][key]; !ok {
			return key
		}
		lang = BaseLang
	}
	return b.printer(lang).Sprintf(key, args...)
}

// T formats key with the default bundle.
func T(lang Lang, key string, args ...any) string {
	return Default().T(lang, key, args...)
}
