// Package page renders dialogs as complete HTML documents: resource includes
// in load order, the dialog's scripts wrapped in the hosting framework's
// onload hook, and the body markup.
package page

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/afero"

	"github.com/goliatone/go-webdialog/pkg/dialog"
	"github.com/goliatone/go-webdialog/pkg/render"
	"github.com/goliatone/go-webdialog/pkg/render/contract"
	rendertemplate "github.com/goliatone/go-webdialog/pkg/render/template"
	"github.com/goliatone/go-webdialog/pkg/render/template/pongo"
	"github.com/goliatone/go-webdialog/pkg/theming"
)

const templateName = "templates/dialog.tmpl"

// Option customises the renderer configuration.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	pipeline         render.PipelineConfig
	contractCheck    bool
}

// WithTranslator localizes titles and template labels.
func WithTranslator(t render.Translator) Option {
	return func(cfg *config) {
		cfg.pipeline.Translator = t
	}
}

// WithI18nConfig customises the template translation helpers.
func WithI18nConfig(i18n render.TemplateI18nConfig) Option {
	return func(cfg *config) {
		cfg.pipeline.I18n = i18n
	}
}

// WithTemplateFuncs registers extra helpers for dialog templates.
func WithTemplateFuncs(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.pipeline.TemplateFuncs == nil {
			cfg.pipeline.TemplateFuncs = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.pipeline.TemplateFuncs[name] = fn
		}
	}
}

// WithEngineFactory replaces the per-dialog template engine.
func WithEngineFactory(factory render.EngineFactory) Option {
	return func(cfg *config) {
		cfg.pipeline.EngineFactory = factory
	}
}

// WithTemplatesFS supplies an alternate layout bundle via fs.FS. The bundle
// must contain templates/dialog.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads the layout bundle from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = afero.NewIOFS(afero.NewBasePathFs(afero.NewOsFs(), path))
	}
}

// WithTemplateRenderer injects a custom layout renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithContractCheck verifies every rendered body against the dialog's
// element ids before the document is assembled.
func WithContractCheck() Option {
	return func(cfg *config) {
		cfg.contractCheck = true
	}
}

// Renderer turns a dialog descriptor into an HTML document.
type Renderer struct {
	templates     rendertemplate.TemplateRenderer
	pipeline      *render.Pipeline
	contractCheck bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the page renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	templateRenderer := cfg.templateRenderer
	if templateRenderer == nil {
		if cfg.templateFS == nil {
			cfg.templateFS = TemplatesFS()
		}
		if err := ensureTemplate(cfg.templateFS, templateName); err != nil {
			return nil, err
		}
		engine, err := pongo.New(cfg.templateFS, pongo.WithName("page"))
		if err != nil {
			return nil, fmt.Errorf("page renderer: configure template renderer: %w", err)
		}
		templateRenderer = engine
	}

	return &Renderer{
		templates:     templateRenderer,
		pipeline:      render.NewPipeline(cfg.pipeline),
		contractCheck: cfg.contractCheck,
	}, nil
}

// Name identifies the renderer inside the registry.
func (r *Renderer) Name() string {
	return "page"
}

// ContentType returns the MIME type for generated documents.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render composes the dialog and wraps it in the layout. A theme may point
// the layout at another template in the bundle through the dialog.layout
// partial.
func (r *Renderer) Render(ctx context.Context, descriptor dialog.Descriptor, req dialog.Request, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("page renderer: template renderer is nil")
	}

	page, err := r.pipeline.Compose(ctx, descriptor, req, options)
	if err != nil {
		return nil, fmt.Errorf("page renderer: %w", err)
	}
	if r.contractCheck {
		if err := contract.Check([]byte(page.Body), descriptor.ElementIDs()); err != nil {
			return nil, fmt.Errorf("page renderer: dialog %q: %w", descriptor.Name(), err)
		}
	}

	layout := templateName
	if partial := options.Theme.Partial(theming.PartialDialogLayout); partial != "" {
		layout = partial
	}

	rendered, err := r.templates.RenderTemplate(layout, map[string]any{
		"page": page,
	})
	if err != nil {
		return nil, fmt.Errorf("page renderer: render template: %w", err)
	}
	return []byte(rendered), nil
}

func ensureTemplate(files fs.FS, name string) error {
	if _, err := fs.Stat(files, name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("page renderer: template %q not found", name)
		}
		return fmt.Errorf("page renderer: stat template %q: %w", name, err)
	}
	return nil
}
