package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-webdialog/pkg/dialog"
	"github.com/goliatone/go-webdialog/pkg/dialog/attachitem"
	"github.com/goliatone/go-webdialog/pkg/render"
	"github.com/goliatone/go-webdialog/pkg/renderers/fragment"
	"github.com/goliatone/go-webdialog/pkg/renderers/page"
	"github.com/goliatone/go-webdialog/pkg/theming"
)

const defaultRendererName = "page"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithDialogs injects the dialog registry.
func WithDialogs(dialogs *dialog.Registry) Option {
	return func(o *Orchestrator) {
		o.dialogs = dialogs
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTranslator localizes the built-in renderers. It has no effect when a
// registry is injected.
func WithTranslator(t render.Translator) Option {
	return func(o *Orchestrator) {
		o.translator = t
	}
}

// WithContractCheck enables the DOM contract check on the built-in page
// renderer.
func WithContractCheck() Option {
	return func(o *Orchestrator) {
		o.contractCheck = true
	}
}

// WithThemeSelector resolves Request.ThemeName/ThemeVariant into the
// render options' theme.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithDefaultLocale sets the locale used when a request carries none.
func WithDefaultLocale(locale string) Option {
	return func(o *Orchestrator) {
		o.defaultLocale = strings.TrimSpace(locale)
	}
}

// Orchestrator coordinates dialog lookup, theme resolution and rendering. It
// applies sensible defaults (built-in dialogs, page and fragment renderers)
// while remaining open to dependency injection.
type Orchestrator struct {
	dialogs         *dialog.Registry
	registry        *render.Registry
	defaultRenderer string
	defaultLocale   string
	translator      render.Translator
	themeSelector   theme.ThemeSelector
	contractCheck   bool
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one dialog render.
type Request struct {
	// Dialog names the registered dialog, e.g. "attachitem".
	Dialog string
	// Query carries the page parameters the dialog reads.
	Query url.Values
	// Locale is the negotiated locale; empty selects the default.
	Locale string
	// Renderer names the renderer to use. If empty, the orchestrator falls
	// back to the configured default renderer.
	Renderer string
	// ThemeName and ThemeVariant are passed to the theme selector. Ignored
	// when no selector is configured or RenderOptions.Theme is already set.
	ThemeName    string
	ThemeVariant string

	RenderOptions render.RenderOptions
}

// Result is the rendered output together with its media type.
type Result struct {
	Dialog      string
	Renderer    string
	ContentType string
	Output      []byte
}

// Render looks up the dialog, resolves the theme and renders the output.
func (o *Orchestrator) Render(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := o.initialiseErr; err != nil {
		return Result{}, err
	}

	name := strings.TrimSpace(req.Dialog)
	if name == "" {
		return Result{}, errors.New("orchestrator: dialog name is required")
	}
	descriptor, err := o.dialogs.Get(name)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: %w", err)
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return Result{}, err
	}

	options := req.RenderOptions
	if options.Theme == nil && o.themeSelector != nil {
		cfg, err := theming.Resolve(o.themeSelector, req.ThemeName, req.ThemeVariant)
		if err != nil {
			return Result{}, fmt.Errorf("orchestrator: resolve theme: %w", err)
		}
		options.Theme = cfg
	}

	locale := strings.TrimSpace(req.Locale)
	if locale == "" {
		locale = o.defaultLocale
	}

	output, err := renderer.Render(ctx, descriptor, dialog.NewRequest(req.Query, locale), options)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: render output: %w", err)
	}

	return Result{
		Dialog:      descriptor.Name(),
		Renderer:    renderer.Name(),
		ContentType: renderer.ContentType(),
		Output:      output,
	}, nil
}

// Generate renders and returns only the output bytes.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	result, err := o.Render(ctx, req)
	if err != nil {
		return nil, err
	}
	return result.Output, nil
}

// Dialogs exposes the dialog registry.
func (o *Orchestrator) Dialogs() *dialog.Registry {
	return o.dialogs
}

// Renderers exposes the renderer registry.
func (o *Orchestrator) Renderers() *render.Registry {
	return o.registry
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.dialogs == nil {
		o.dialogs = DefaultDialogs()
	}
	if o.registry == nil {
		registry, err := DefaultRenderers(o.translator, o.contractCheck)
		if err != nil {
			o.initialiseErr = err
			registry = render.NewRegistry()
		}
		o.registry = registry
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}

// DefaultDialogs returns a registry holding the built-in dialogs.
func DefaultDialogs() *dialog.Registry {
	registry := dialog.NewRegistry()
	registry.MustRegister(attachitem.Descriptor())
	return registry
}

// DefaultRenderers returns a registry holding the page and fragment
// renderers, both localized with t.
func DefaultRenderers(t render.Translator, contractCheck bool) (*render.Registry, error) {
	pageOptions := []page.Option{page.WithTranslator(t)}
	if contractCheck {
		pageOptions = append(pageOptions, page.WithContractCheck())
	}
	pageRenderer, err := page.New(pageOptions...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: default renderer: %w", err)
	}

	registry := render.NewRegistry()
	registry.MustRegister(pageRenderer)
	registry.MustRegister(fragment.New(fragment.WithTranslator(t)))
	return registry, nil
}
