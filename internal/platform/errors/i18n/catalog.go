// Package i18n provides localized user-facing messages for error codes.
package i18n

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
)

// Code is a machine-readable error code (duplicated from the errors package
// to avoid an import cycle).
type Code = string

// BaseLocale is the canonical source locale for error catalogs.
const BaseLocale = "en-US"

// Catalog maps error codes to message templates for a specific locale.
type Catalog struct {
	locale   string
	tag      language.Tag
	messages map[Code]string
}

var (
	catalogsMu sync.RWMutex
	catalogs   []*Catalog
	matcher    language.Matcher
)

func init() {
	RegisterCatalog(enUSCatalog)
	RegisterCatalog(ptBRCatalog)
}

// NewCatalog creates a catalog with the given locale and message templates.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	cloned := make(map[Code]string, len(messages))
	for key, value := range messages {
		cloned[key] = value
	}
	return &Catalog{
		locale:   locale,
		tag:      language.Make(locale),
		messages: cloned,
	}
}

// RegisterCatalog adds a catalog to the locale matcher. The first registered
// catalog is the fallback for locales that match nothing. Registration
// belongs in init or single-threaded test setup.
func RegisterCatalog(cat *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()

	for i, existing := range catalogs {
		if existing.locale == cat.locale {
			catalogs[i] = cat
			rebuildMatcher()
			return
		}
	}
	catalogs = append(catalogs, cat)
	rebuildMatcher()
}

func rebuildMatcher() {
	tags := make([]language.Tag, len(catalogs))
	for i, cat := range catalogs {
		tags[i] = cat.tag
	}
	matcher = language.NewMatcher(tags)
}

// GetCatalog returns the catalog that best matches the requested locale.
// Unmatched or empty locales fall back to the base locale.
func GetCatalog(locale string) *Catalog {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()

	if len(catalogs) == 0 {
		return NewCatalog(BaseLocale, nil)
	}

	requested := strings.TrimSpace(locale)
	if requested == "" {
		return catalogs[0]
	}

	_, index := language.MatchStrings(matcher, requested)
	return catalogs[index]
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template for code with the given metadata.
// Falls back to the error code itself if no template is found. Templates
// are executed even with nil metadata so missing variables render empty
// instead of leaking placeholders.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok {
		return code
	}

	if metadata == nil {
		metadata = map[string]string{}
	}

	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}
