package dialog

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// IDPattern matches store and entry identifiers accepted from page
// parameters. The expression is also valid ECMA-262, so it can be published
// in API descriptions as is.
var IDPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Param documents one page parameter a dialog reads.
type Param struct {
	Name        string
	Description string
	// Pattern constrains accepted values; nil accepts anything.
	Pattern *regexp.Regexp
	// Fallback replaces absent or rejected values.
	Fallback string
}

// Value reads p from r, applying Pattern and Fallback.
func (p Param) Value(r Request) string {
	return r.Param(p.Name, p.Fallback, p.Pattern)
}

// Translator resolves message ids for a locale. The render package aliases
// this contract.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// Request carries the page parameters and locale of one dialog render.
type Request struct {
	Query  url.Values
	Locale string
}

// NewRequest copies values so later mutation by the caller does not leak into
// a render in progress.
func NewRequest(values url.Values, locale string) Request {
	query := make(url.Values, len(values))
	for key, list := range values {
		query[key] = append([]string(nil), list...)
	}
	return Request{Query: query, Locale: strings.TrimSpace(locale)}
}

// RequestFromHTTP reads the query string of r. Only query parameters are
// considered, dialogs are always opened with GET.
func RequestFromHTTP(r *http.Request, locale string) Request {
	if r == nil || r.URL == nil {
		return NewRequest(nil, locale)
	}
	return NewRequest(r.URL.Query(), locale)
}

// Has reports whether name was supplied at all.
func (r Request) Has(name string) bool {
	if r.Query == nil {
		return false
	}
	_, ok := r.Query[name]
	return ok
}

// Raw returns the first value of name, or "" when absent.
func (r Request) Raw(name string) string {
	if r.Query == nil {
		return ""
	}
	return r.Query.Get(name)
}

// Param returns the first value of name. Absent values, and values rejected
// by pattern when one is given, yield fallback.
func (r Request) Param(name, fallback string, pattern *regexp.Regexp) string {
	if !r.Has(name) {
		return fallback
	}
	value := r.Raw(name)
	if pattern != nil && !pattern.MatchString(value) {
		return fallback
	}
	return value
}
