package render

import (
	"context"
	"fmt"

	"github.com/goliatone/go-webdialog/pkg/dialog"
)

// PipelineConfig collects the inputs shared by every renderer that composes
// dialog pages.
type PipelineConfig struct {
	Translator Translator
	I18n       TemplateI18nConfig
	// TemplateFuncs are registered next to the i18n helpers and win on name
	// clashes.
	TemplateFuncs map[string]any
	// EngineFactory replaces the pongo2 default when set.
	EngineFactory EngineFactory
}

// Pipeline binds a translator to a per-dialog engine cache so renderers
// compose pages with a single call. It is safe for concurrent use.
type Pipeline struct {
	translator Translator
	engines    *EngineCache
}

// NewPipeline builds a pipeline from cfg.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	factory := cfg.EngineFactory
	if factory == nil {
		funcs := TemplateI18nFuncs(cfg.Translator, cfg.I18n)
		for name, fn := range cfg.TemplateFuncs {
			funcs[name] = fn
		}
		factory = DefaultEngineFactory(funcs)
	}
	return &Pipeline{
		translator: cfg.Translator,
		engines:    NewEngineCache(factory),
	}
}

// Compose renders descriptor for req.
func (p *Pipeline) Compose(ctx context.Context, descriptor dialog.Descriptor, req dialog.Request, options RenderOptions) (Page, error) {
	if p == nil || p.engines == nil {
		return Page{}, fmt.Errorf("render: pipeline is nil")
	}
	if descriptor.IsZero() {
		return Page{}, fmt.Errorf("render: descriptor is required")
	}
	engine, err := p.engines.For(descriptor)
	if err != nil {
		return Page{}, err
	}
	return Compose(ctx, engine, descriptor, req, p.translator, options)
}

// Translator returns the translator pages are localized with, possibly nil.
func (p *Pipeline) Translator() Translator {
	if p == nil {
		return nil
	}
	return p.translator
}
