// Package pongo executes dialog templates with pongo2. Output is autoescaped;
// struct data is addressed by json field names.
package pongo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-webdialog/pkg/render/template"
)

const defaultExtension = ".tmpl"

// Option configures the engine before construction.
type Option func(*Engine)

// WithName labels the template set, which shows up in pongo2 error messages.
func WithName(name string) Option {
	return func(e *Engine) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			e.name = trimmed
		}
	}
}

// WithExtension overrides the extension appended to bare template names.
func WithExtension(ext string) Option {
	return func(e *Engine) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		e.ext = trimmed
	}
}

// WithFuncs registers helpers every template can call.
func WithFuncs(funcs map[string]any) Option {
	return func(e *Engine) {
		for name, fn := range funcs {
			if name = strings.TrimSpace(name); name != "" {
				e.funcs[name] = fn
			}
		}
	}
}

// Engine renders the templates of one bundle. Parsed templates are cached
// per path; an Engine is safe for concurrent use.
type Engine struct {
	name  string
	ext   string
	funcs map[string]any

	set *pongo2.TemplateSet

	mu        sync.RWMutex
	templates map[string]*pongo2.Template
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an engine over the bundle in files.
func New(files fs.FS, options ...Option) (*Engine, error) {
	if files == nil {
		return nil, errors.New("pongo: template fs is required")
	}
	e := &Engine{
		name:      "webdialog",
		ext:       defaultExtension,
		funcs:     make(map[string]any),
		templates: make(map[string]*pongo2.Template),
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}

	e.set = pongo2.NewSet(e.name, pongo2.NewFSLoader(files))
	e.set.Globals = make(pongo2.Context, len(e.funcs))
	for name, fn := range e.funcs {
		if !isFunc(fn) {
			return nil, fmt.Errorf("pongo: helper %q: value of type %T is not a function", name, fn)
		}
		e.set.Globals[name] = fn
	}
	return e, nil
}

// RenderTemplate executes the template stored at name.
func (e *Engine) RenderTemplate(name string, data any) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("pongo: engine is nil")
	}
	path := name
	if !strings.HasSuffix(path, e.ext) {
		path += e.ext
	}

	tmpl, err := e.lookup(path)
	if err != nil {
		return "", err
	}
	ctx, err := contextFrom(data)
	if err != nil {
		return "", fmt.Errorf("pongo: template %q: %w", path, err)
	}
	out, err := tmpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("pongo: execute template %q: %w", path, err)
	}
	return out, nil
}

func (e *Engine) lookup(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.templates[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("pongo: load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}

// contextFrom turns data into a pongo2 context. Top-level keys keep scalars
// and functions as is; anything else is reduced to plain maps and slices.
func contextFrom(data any) (pongo2.Context, error) {
	var in map[string]any
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		in = v
	case map[string]any:
		in = v
	default:
		plain, err := plainValue(v)
		if err != nil {
			return nil, err
		}
		m, ok := plain.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("data of type %T is not an object", data)
		}
		return pongo2.Context(m), nil
	}

	ctx := make(pongo2.Context, len(in))
	for key, value := range in {
		plain, err := plainValue(value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		ctx[key] = plain
	}
	return ctx, nil
}

func plainValue(v any) (any, error) {
	switch v.(type) {
	case nil, string, bool, int, int64, float64:
		return v, nil
	}
	if isFunc(v) {
		return v, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func isFunc(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}
