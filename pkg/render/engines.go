package render

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-webdialog/pkg/dialog"
	rendertemplate "github.com/goliatone/go-webdialog/pkg/render/template"
	"github.com/goliatone/go-webdialog/pkg/render/template/pongo"
)

// EngineFactory builds the template engine for one dialog.
type EngineFactory func(descriptor dialog.Descriptor) (rendertemplate.TemplateRenderer, error)

// DefaultEngineFactory returns a factory creating pongo2 engines over each
// descriptor's template bundle, with funcs registered as template helpers.
func DefaultEngineFactory(funcs map[string]any) EngineFactory {
	return func(descriptor dialog.Descriptor) (rendertemplate.TemplateRenderer, error) {
		engine, err := pongo.New(descriptor.Templates(),
			pongo.WithName(descriptor.Name()),
			pongo.WithFuncs(funcs),
		)
		if err != nil {
			return nil, err
		}
		return engine, nil
	}
}

// EngineCache lazily creates and memoizes one engine per dialog name, so each
// dialog's templates are parsed once.
type EngineCache struct {
	mu      sync.Mutex
	factory EngineFactory
	engines map[string]rendertemplate.TemplateRenderer
}

// NewEngineCache wraps factory. A nil factory uses DefaultEngineFactory
// without extra helpers.
func NewEngineCache(factory EngineFactory) *EngineCache {
	if factory == nil {
		factory = DefaultEngineFactory(nil)
	}
	return &EngineCache{
		factory: factory,
		engines: make(map[string]rendertemplate.TemplateRenderer),
	}
}

// For returns the engine for descriptor, building it on first use.
func (c *EngineCache) For(descriptor dialog.Descriptor) (rendertemplate.TemplateRenderer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if engine, ok := c.engines[descriptor.Name()]; ok {
		return engine, nil
	}
	engine, err := c.factory(descriptor)
	if err != nil {
		return nil, fmt.Errorf("render: configure templates for %q: %w", descriptor.Name(), err)
	}
	c.engines[descriptor.Name()] = engine
	return engine, nil
}
