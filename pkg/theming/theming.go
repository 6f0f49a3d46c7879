// Package theming resolves go-theme manifests into the flat configuration the
// dialog renderers consume: merged tokens, CSS variables, template partials
// and an asset URL resolver.
package theming

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// Asset and partial keys the dialog renderers look up.
const (
	AssetDialogStylesheet = "dialog.stylesheet"
	PartialDialogLayout   = "dialog.layout"
)

var (
	ErrThemeNotFound = errors.New("theming: theme not found")
	ErrNoSelection   = errors.New("theming: selector returned no manifest")
)

// Config is the resolved theme handed to renderers.
type Config struct {
	Theme    string            `json:"theme"`
	Variant  string            `json:"variant,omitempty"`
	Tokens   map[string]string `json:"tokens,omitempty"`
	CSSVars  map[string]string `json:"css_vars,omitempty"`
	Partials map[string]string `json:"partials,omitempty"`
	// AssetURL maps an asset key to its public URL, "" when unknown.
	AssetURL func(key string) string `json:"-"`
}

// Asset is a nil-safe AssetURL lookup.
func (c *Config) Asset(key string) string {
	if c == nil || c.AssetURL == nil {
		return ""
	}
	return c.AssetURL(key)
}

// Partial returns the template registered under key, "" when unset.
func (c *Config) Partial(key string) string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Partials[key])
}

// ManifestSelector implements theme.ThemeSelector over an in-memory set of
// manifests.
type ManifestSelector struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector registers manifests and records the defaults used when
// Select is called with empty names.
func NewManifestSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*ManifestSelector, error) {
	s := &ManifestSelector{
		manifests:      make(map[string]*theme.Manifest),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, m := range manifests {
		if err := s.Register(m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds a manifest. Names must be unique.
func (s *ManifestSelector) Register(m *theme.Manifest) error {
	if m == nil {
		return errors.New("theming: manifest is required")
	}
	name := strings.TrimSpace(m.Name)
	if name == "" {
		return errors.New("theming: manifest name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.manifests[name]; exists {
		return fmt.Errorf("theming: manifest %q already registered", name)
	}
	s.manifests[name] = m
	return nil
}

// Themes lists registered theme names, sorted.
func (s *ManifestSelector) Themes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select picks a manifest. Empty name and variant fall back to the defaults;
// a variant the manifest does not declare selects the base theme.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	variant = strings.TrimSpace(variant)
	if variant == "" && name == s.defaultTheme {
		variant = s.defaultVariant
	}

	s.mu.RLock()
	manifest, ok := s.manifests[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}

	if _, ok := manifest.Variants[variant]; !ok {
		variant = ""
	}
	return &theme.Selection{
		Theme:    name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

// Resolve asks selector for a theme and flattens the selection.
func Resolve(selector theme.ThemeSelector, name, variant string) (*Config, error) {
	if selector == nil {
		return nil, errors.New("theming: selector is required")
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return FromSelection(selection)
}

// FromSelection merges the base manifest with the selected variant. Variant
// tokens, templates and asset files override the base ones.
func FromSelection(selection *theme.Selection) (*Config, error) {
	if selection == nil || selection.Manifest == nil {
		return nil, ErrNoSelection
	}
	manifest := selection.Manifest

	tokens := mergeStrings(manifest.Tokens, nil)
	partials := mergeStrings(manifest.Templates, nil)
	files := mergeStrings(manifest.Assets.Files, nil)
	prefix := manifest.Assets.Prefix

	if v, ok := manifest.Variants[selection.Variant]; ok && selection.Variant != "" {
		tokens = mergeStrings(tokens, v.Tokens)
		partials = mergeStrings(partials, v.Templates)
		files = mergeStrings(files, v.Assets.Files)
		if strings.TrimSpace(v.Assets.Prefix) != "" {
			prefix = v.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	themeName := selection.Theme
	if themeName == "" {
		themeName = manifest.Name
	}

	return &Config{
		Theme:    themeName,
		Variant:  selection.Variant,
		Tokens:   tokens,
		CSSVars:  cssVars,
		Partials: partials,
		AssetURL: assetResolver(prefix, files),
	}, nil
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	return func(key string) string {
		file := strings.TrimSpace(files[key])
		if file == "" {
			return ""
		}
		if isAbsoluteURL(file) || prefix == "" {
			return file
		}
		return prefix + "/" + strings.TrimLeft(file, "/")
	}
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "/") ||
		strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://")
}

func mergeStrings(base, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
