// Package webdialog renders the modal dialogs of the webmail client: each
// dialog is a descriptor (title, resource manifest, client module, templates)
// turned into an HTML document or a JSON fragment by a named renderer.
package webdialog

import (
	"context"
	"net/url"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-webdialog/pkg/dialog"
	"github.com/goliatone/go-webdialog/pkg/orchestrator"
	"github.com/goliatone/go-webdialog/pkg/render"
)

// Descriptor aliases dialog.Descriptor for callers registering dialogs.
type Descriptor = dialog.Descriptor

// RenderOptions describes per-request presentation settings (base URL,
// resolved theme).
type RenderOptions = render.RenderOptions

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// Result aliases orchestrator.Result.
type Result = orchestrator.Result

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML renders the named dialog as a full HTML document. It is the
// simplest entry point for callers that just want the page.
func GenerateHTML(ctx context.Context, dialogName string, query url.Values, locale string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Dialog:   dialogName,
		Query:    query,
		Locale:   locale,
		Renderer: "page",
	})
}

// DefaultDialogs returns a registry holding the built-in dialogs.
func DefaultDialogs() *dialog.Registry {
	return orchestrator.DefaultDialogs()
}

// WithTranslator localizes the built-in renderers.
func WithTranslator(t render.Translator) orchestrator.Option {
	return orchestrator.WithTranslator(t)
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices can be resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}
