// Package fragment renders dialogs as JSON for hosts that mount the markup
// and scripts into their own document.
package fragment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-webdialog/pkg/dialog"
	"github.com/goliatone/go-webdialog/pkg/render"
)

// Option customises the renderer configuration.
type Option func(*render.PipelineConfig)

// WithTranslator localizes titles and template labels.
func WithTranslator(t render.Translator) Option {
	return func(cfg *render.PipelineConfig) {
		cfg.Translator = t
	}
}

// WithTemplateFuncs registers extra helpers for dialog templates.
func WithTemplateFuncs(funcs map[string]any) Option {
	return func(cfg *render.PipelineConfig) {
		if len(funcs) == 0 {
			return
		}
		if cfg.TemplateFuncs == nil {
			cfg.TemplateFuncs = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.TemplateFuncs[name] = fn
		}
	}
}

// WithEngineFactory replaces the per-dialog template engine.
func WithEngineFactory(factory render.EngineFactory) Option {
	return func(cfg *render.PipelineConfig) {
		cfg.EngineFactory = factory
	}
}

// Renderer emits the composed render.Page as JSON.
type Renderer struct {
	pipeline *render.Pipeline
}

var _ render.Renderer = (*Renderer)(nil)

func New(options ...Option) *Renderer {
	var cfg render.PipelineConfig
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Renderer{pipeline: render.NewPipeline(cfg)}
}

func (r *Renderer) Name() string {
	return "fragment"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

func (r *Renderer) Render(ctx context.Context, descriptor dialog.Descriptor, req dialog.Request, options render.RenderOptions) ([]byte, error) {
	page, err := r.pipeline.Compose(ctx, descriptor, req, options)
	if err != nil {
		return nil, fmt.Errorf("fragment renderer: %w", err)
	}
	payload, err := json.Marshal(page)
	if err != nil {
		return nil, fmt.Errorf("fragment renderer: marshal page: %w", err)
	}
	return payload, nil
}
