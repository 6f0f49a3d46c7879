// Package i18n provides gettext-style message catalogs for dialog templates.
// Message ids are the English source strings; catalogs map them to
// translations per locale.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when nothing else matches.
const DefaultLocale = "en"

// ErrMissingMessage is returned (wrapped) when a catalog has no entry.
var ErrMissingMessage = errors.New("i18n: missing message")

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// LocalesFS exposes the built-in catalogs.
func LocalesFS() fs.FS {
	sub, err := fs.Sub(embeddedLocales, "locales")
	if err != nil {
		return embeddedLocales
	}
	return sub
}

var (
	messagePolicyOnce sync.Once
	messagePolicy     *bluemonday.Policy
)

// sanitizeMessage strips any markup from a translation. Templates escape
// their output, so catalogs hold plain text only.
func sanitizeMessage(raw string) string {
	messagePolicyOnce.Do(func() {
		messagePolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(messagePolicy.Sanitize(raw)))
}

// Catalog holds messages per locale and negotiates locales. It satisfies the
// render.Translator contract and is safe for concurrent use.
type Catalog struct {
	mu            sync.RWMutex
	defaultLocale string
	messages      map[string]map[string]string
	locales       []string
	matcher       language.Matcher
}

// New returns an empty catalog. An empty defaultLocale selects DefaultLocale.
func New(defaultLocale string) *Catalog {
	defaultLocale = normalizeLocale(defaultLocale)
	if defaultLocale == "" {
		defaultLocale = DefaultLocale
	}
	c := &Catalog{
		defaultLocale: defaultLocale,
		messages:      make(map[string]map[string]string),
	}
	c.rebuildMatcher()
	return c
}

// Default loads the embedded catalogs.
func Default(defaultLocale string) (*Catalog, error) {
	return Load(LocalesFS(), defaultLocale)
}

// Load reads every <locale>.yaml file at the root of fsys. Each file is a
// flat mapping of message id to translation.
func Load(fsys fs.FS, defaultLocale string) (*Catalog, error) {
	c := New(defaultLocale)
	if err := c.LoadFS(fsys); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFS merges the catalogs found in fsys into c.
func (c *Catalog) LoadFS(fsys fs.FS) error {
	if fsys == nil {
		return errors.New("i18n: locales fs is required")
	}
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("i18n: read locales: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := path.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		data, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return fmt.Errorf("i18n: read %s: %w", entry.Name(), err)
		}
		var messages map[string]string
		if err := yaml.Unmarshal(data, &messages); err != nil {
			return fmt.Errorf("i18n: decode %s: %w", entry.Name(), err)
		}
		if err := c.Add(strings.TrimSuffix(entry.Name(), ext), messages); err != nil {
			return err
		}
	}
	return nil
}

// Add merges messages into locale, replacing existing ids.
func (c *Catalog) Add(locale string, messages map[string]string) error {
	locale = normalizeLocale(locale)
	if locale == "" {
		return errors.New("i18n: locale is required")
	}
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("i18n: invalid locale %q: %w", locale, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	bucket, ok := c.messages[locale]
	if !ok {
		bucket = make(map[string]string, len(messages))
		c.messages[locale] = bucket
	}
	for key, msg := range messages {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if clean := sanitizeMessage(msg); clean != "" {
			bucket[key] = clean
		}
	}
	c.rebuildMatcher()
	return nil
}

// Translate looks key up in locale, then in locale's base language
// ("nl-BE" falls back to "nl"). args, when present, are applied with
// fmt.Sprintf.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	locale = normalizeLocale(locale)
	if locale == "" {
		locale = c.defaultLocale
	}

	c.mu.RLock()
	msg, ok := c.lookup(locale, key)
	c.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %q (%s)", ErrMissingMessage, key, locale)
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...), nil
	}
	return msg, nil
}

func (c *Catalog) lookup(locale, key string) (string, bool) {
	if msg, ok := c.messages[locale][key]; ok {
		return msg, true
	}
	if base, _, found := strings.Cut(locale, "-"); found {
		if msg, ok := c.messages[base][key]; ok {
			return msg, true
		}
	}
	return "", false
}

// Locales lists the locales with at least one catalog entry, sorted.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.locales))
	copy(out, c.locales)
	return out
}

func (c *Catalog) DefaultLocale() string { return c.defaultLocale }

// Match negotiates the best supported locale for the given preferences. Each
// preference may be a single tag ("nl-BE") or a full Accept-Language header
// value. Unparseable or unmatched input yields the default locale.
func (c *Catalog) Match(preferences ...string) string {
	var tags []language.Tag
	for _, pref := range preferences {
		pref = strings.TrimSpace(pref)
		if pref == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(pref)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return c.defaultLocale
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	supported := c.supported()
	_, index, confidence := c.matcher.Match(tags...)
	if confidence == language.No || index < 0 || index >= len(supported) {
		return c.defaultLocale
	}
	return supported[index]
}

// supported returns the matcher's tag order: the default locale first, then
// the catalog locales. Callers hold c.mu.
func (c *Catalog) supported() []string {
	out := make([]string, 0, len(c.locales)+1)
	out = append(out, c.defaultLocale)
	for _, locale := range c.locales {
		if locale != c.defaultLocale {
			out = append(out, locale)
		}
	}
	return out
}

// rebuildMatcher refreshes the locale list and matcher. Callers hold c.mu
// for writing.
func (c *Catalog) rebuildMatcher() {
	locales := make([]string, 0, len(c.messages))
	for locale, bucket := range c.messages {
		if len(bucket) > 0 {
			locales = append(locales, locale)
		}
	}
	sort.Strings(locales)
	c.locales = locales

	supported := c.supported()
	tags := make([]language.Tag, 0, len(supported))
	for _, locale := range supported {
		tags = append(tags, language.Make(locale))
	}
	c.matcher = language.NewMatcher(tags)
}

// normalizeLocale canonicalizes case and separators: "NL_be" becomes "nl-BE".
func normalizeLocale(locale string) string {
	locale = strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
	if locale == "" {
		return ""
	}
	if tag, err := language.Parse(locale); err == nil {
		return tag.String()
	}
	return strings.ToLower(locale)
}
