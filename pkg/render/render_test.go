package render_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-webdialog/pkg/dialog"
	"github.com/goliatone/go-webdialog/pkg/render"
	rendertemplate "github.com/goliatone/go-webdialog/pkg/render/template"
	"github.com/goliatone/go-webdialog/pkg/theming"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func sampleDescriptor(t *testing.T) dialog.Descriptor {
	t.Helper()
	d, err := dialog.NewDescriptor(dialog.Config{
		Name:     "sample",
		TitleKey: "Sample",
		Includes: []string{"client/widgets/tree.js", "client/layout/css/tree.css"},
		Module:   dialog.ModuleRef{Name: "samplemodule", Type: dialog.ModuleTypeList},
		Templates: fstest.MapFS{
			"body.tmpl":   &fstest.MapFile{Data: []byte(`<div id="sample">{{ translate(locale, "Hello") }} {{ who }}</div>`)},
			"onload.tmpl": &fstest.MapFile{Data: []byte("\nstart({{ who|escapejs }});\n")},
			"script.tmpl": &fstest.MapFile{Data: []byte(`var kind = "{{ module_type }}";`)},
		},
		BodyTemplate:   "body.tmpl",
		OnLoadTemplate: "onload.tmpl",
		ScriptTemplate: "script.tmpl",
		ViewData: func(req dialog.Request) map[string]any {
			return map[string]any{"who": req.Param("who", "nobody", dialog.IDPattern)}
		},
	})
	if err != nil {
		t.Fatalf("descriptor: %v", err)
	}
	return d
}

func TestCompose_RendersTemplatesAndTitle(t *testing.T) {
	translator := stubTranslator{"Sample": "Voorbeeld", "Hello": "Hallo"}
	d := sampleDescriptor(t)
	engine, err := render.DefaultEngineFactory(render.TemplateI18nFuncs(translator, render.TemplateI18nConfig{}))(d)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	page, err := render.Compose(context.Background(), engine, d,
		dialog.NewRequest(url.Values{"who": {"ada"}}, "nl"), translator, render.RenderOptions{})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	if page.Title != "Voorbeeld" {
		t.Fatalf("title = %q", page.Title)
	}
	if page.Body != `<div id="sample">Hallo ada</div>` {
		t.Fatalf("body = %q", page.Body)
	}
	if page.OnLoad != "start(ada);" {
		t.Fatalf("onload = %q", page.OnLoad)
	}
	if page.Script != `var kind = "list";` {
		t.Fatalf("script = %q", page.Script)
	}
	if page.Module.Name != "samplemodule" || page.Locale != "nl" {
		t.Fatalf("unexpected page metadata %+v", page)
	}
}

func TestCompose_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := render.Compose(ctx, nil, sampleDescriptor(t), dialog.Request{}, nil, render.RenderOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type failingEngine struct{}

func (failingEngine) RenderTemplate(string, any) (string, error) {
	return "", errors.New("boom")
}

var _ rendertemplate.TemplateRenderer = failingEngine{}

func TestCompose_WrapsTemplateErrors(t *testing.T) {
	_, err := render.Compose(context.Background(), failingEngine{}, sampleDescriptor(t), dialog.Request{}, nil, render.RenderOptions{})
	if err == nil || !strings.Contains(err.Error(), `dialog "sample" body`) {
		t.Fatalf("expected wrapped body error, got %v", err)
	}
}

func TestResolveIncludes_BaseURLAndTheme(t *testing.T) {
	includes := []dialog.Include{
		{Path: "client/widgets/tree.js", Kind: dialog.IncludeScript},
		{Path: "/static/shared.css", Kind: dialog.IncludeStylesheet},
	}
	cfg := &theming.Config{
		AssetURL: func(key string) string {
			if key == theming.AssetDialogStylesheet {
				return "/themes/acme/dialog.css"
			}
			return ""
		},
	}

	got := render.ResolveIncludes(includes, render.RenderOptions{BaseURL: "/webaccess/", Theme: cfg})
	want := []dialog.Include{
		{Path: "/webaccess/client/widgets/tree.js", Kind: dialog.IncludeScript},
		{Path: "/static/shared.css", Kind: dialog.IncludeStylesheet},
		{Path: "/themes/acme/dialog.css", Kind: dialog.IncludeStylesheet},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("includes mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(includes, render.ResolveIncludes(includes, render.RenderOptions{})); diff != "" {
		t.Fatalf("expected includes unchanged without options (-want +got):\n%s", diff)
	}
}

func TestCompose_FiltersUnsafeCSSVars(t *testing.T) {
	d := sampleDescriptor(t)
	engine, err := render.DefaultEngineFactory(render.TemplateI18nFuncs(nil, render.TemplateI18nConfig{}))(d)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	page, err := render.Compose(context.Background(), engine, d, dialog.Request{}, nil, render.RenderOptions{
		Theme: &theming.Config{CSSVars: map[string]string{
			"--brand":  "#123456",
			"--accent": "red;} body{display:none",
			"bad name": "#fff",
		}},
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	want := []render.CSSVar{{Name: "--brand", Value: "#123456"}}
	if diff := cmp.Diff(want, page.CSSVars); diff != "" {
		t.Fatalf("css vars mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslate_Fallbacks(t *testing.T) {
	if got := render.Translate(nil, "nl", "OK", nil); got != "OK" {
		t.Fatalf("expected key without translator, got %q", got)
	}
	if got := render.Translate(stubTranslator{"OK": "Oké"}, "nl", "OK", nil); got != "Oké" {
		t.Fatalf("expected translation, got %q", got)
	}

	var gotErr error
	handler := func(_ string, key string, _ []any, err error) string {
		gotErr = err
		return "[" + key + "]"
	}
	if got := render.Translate(nil, "nl", "Cancel", handler); got != "[Cancel]" {
		t.Fatalf("expected handler output, got %q", got)
	}
	if !errors.Is(gotErr, render.ErrMissingTranslator) {
		t.Fatalf("expected ErrMissingTranslator, got %v", gotErr)
	}
	if got := render.Translate(nil, "nl", "  ", nil); got != "" {
		t.Fatalf("expected empty output for blank key, got %q", got)
	}
}

func TestTemplateI18nFuncs(t *testing.T) {
	funcs := render.TemplateI18nFuncs(stubTranslator{"OK": "Oké"}, render.TemplateI18nConfig{FuncName: "_"})

	translate, ok := funcs["_"].(func(any, string, ...any) string)
	if !ok {
		t.Fatalf("expected translate helper under custom name")
	}
	if got := translate(map[string]any{"locale": "nl"}, "OK"); got != "Oké" {
		t.Fatalf("translate = %q", got)
	}
	if got := translate("nl", "Missing"); got != "Missing" {
		t.Fatalf("expected key fallback, got %q", got)
	}

	current, ok := funcs["current_locale"].(func(any) string)
	if !ok {
		t.Fatalf("expected current_locale helper")
	}
	if got := current(map[string]string{"locale": "de"}); got != "de" {
		t.Fatalf("current_locale = %q", got)
	}
}

type namedRenderer struct{ name string }

func (r namedRenderer) Name() string        { return r.name }
func (r namedRenderer) ContentType() string { return "text/plain" }
func (r namedRenderer) Render(context.Context, dialog.Descriptor, dialog.Request, render.RenderOptions) ([]byte, error) {
	return []byte(r.name), nil
}

func TestRegistry(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(namedRenderer{name: "page"})
	registry.MustRegister(namedRenderer{name: "fragment"})

	if err := registry.Register(namedRenderer{name: "page"}); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if err := registry.Register(namedRenderer{}); err == nil {
		t.Fatalf("expected empty name error")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil renderer error")
	}
	if _, err := registry.Get("pdf"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
	if !registry.Has("page") {
		t.Fatalf("expected page renderer")
	}
	if diff := cmp.Diff([]string{"fragment", "page"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestEngineCache_MemoizesPerDialog(t *testing.T) {
	calls := 0
	cache := render.NewEngineCache(func(d dialog.Descriptor) (rendertemplate.TemplateRenderer, error) {
		calls++
		return failingEngine{}, nil
	})
	d := sampleDescriptor(t)

	for i := 0; i < 3; i++ {
		if _, err := cache.For(d); err != nil {
			t.Fatalf("for: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected factory called once, got %d", calls)
	}

	failing := render.NewEngineCache(func(dialog.Descriptor) (rendertemplate.TemplateRenderer, error) {
		return nil, errors.New("broken")
	})
	if _, err := failing.For(d); err == nil {
		t.Fatalf("expected factory error")
	}
}
