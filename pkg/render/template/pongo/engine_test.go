package pongo_test

import (
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-webdialog/pkg/render/template/pongo"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"hello.tmpl":  &fstest.MapFile{Data: []byte("Hello {{ name }}!")},
		"func.tmpl":   &fstest.MapFile{Data: []byte(`{{ shout("hi") }}`)},
		"escape.tmpl": &fstest.MapFile{Data: []byte(`<p>{{ value }}</p>{{ markup|safe }}`)},
		"struct.tmpl": &fstest.MapFile{Data: []byte(`{{ item.path }}:{{ item.kind }}`)},
		"page.tmpl":   &fstest.MapFile{Data: []byte(`{{ name }}/{{ module.type }}`)},
		"broken.tmpl": &fstest.MapFile{Data: []byte(`{% if %}`)},
	}
}

func newEngine(t *testing.T, options ...pongo.Option) *pongo.Engine {
	t.Helper()
	engine, err := pongo.New(testFS(), options...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t, pongo.WithName("sample"))

	result, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Hello Ada!" {
		t.Fatalf("unexpected result %q", result)
	}

	again, err := engine.RenderTemplate("hello.tmpl", map[string]any{"name": "Grace"})
	if err != nil {
		t.Fatalf("render with extension: %v", err)
	}
	if again != "Hello Grace!" {
		t.Fatalf("unexpected cached result %q", again)
	}
}

func TestEngine_Extension(t *testing.T) {
	files := fstest.MapFS{"body.html": &fstest.MapFile{Data: []byte("ok")}}
	engine, err := pongo.New(files, pongo.WithExtension("html"))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if got, err := engine.RenderTemplate("body", nil); err != nil || got != "ok" {
		t.Fatalf("render = %q, %v", got, err)
	}
}

func TestEngine_Funcs(t *testing.T) {
	engine := newEngine(t, pongo.WithFuncs(map[string]any{
		"shout": func(s string) string { return strings.ToUpper(s) + "!" },
	}))

	result, err := engine.RenderTemplate("func", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "HI!" {
		t.Fatalf("unexpected result %q", result)
	}
}

func TestEngine_RejectsNonFunctionHelpers(t *testing.T) {
	_, err := pongo.New(testFS(), pongo.WithFuncs(map[string]any{"shout": "not a func"}))
	if err == nil {
		t.Fatalf("expected error for non-callable helper")
	}
}

func TestEngine_AutoescapesValues(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("escape", map[string]any{
		"value":  `<script>"x"</script>`,
		"markup": "<b>ok</b>",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(result, "<script>") {
		t.Fatalf("expected value to be escaped, got %q", result)
	}
	if !strings.Contains(result, "<b>ok</b>") {
		t.Fatalf("expected safe markup preserved, got %q", result)
	}
}

func TestEngine_StructDataUsesJSONNames(t *testing.T) {
	type include struct {
		Path string `json:"path"`
		Kind string `json:"kind"`
	}
	engine := newEngine(t)

	result, err := engine.RenderTemplate("struct", map[string]any{
		"item": include{Path: "client/widgets/tree.js", Kind: "script"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "client/widgets/tree.js:script" {
		t.Fatalf("unexpected result %q", result)
	}

	type module struct {
		Type string `json:"type"`
	}
	type page struct {
		Name   string `json:"name"`
		Module module `json:"module"`
	}
	result, err = engine.RenderTemplate("page", page{Name: "attachitem", Module: module{Type: "list"}})
	if err != nil {
		t.Fatalf("render struct root: %v", err)
	}
	if result != "attachitem/list" {
		t.Fatalf("unexpected result %q", result)
	}

	if _, err := engine.RenderTemplate("page", []string{"not", "an", "object"}); err == nil {
		t.Fatalf("expected error for non-object data")
	}
}

func TestEngine_ConcurrentRenders(t *testing.T) {
	engine := newEngine(t)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := engine.RenderTemplate("hello", map[string]any{"name": "x"}); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent render: %v", err)
	}
}

func TestEngine_Errors(t *testing.T) {
	if _, err := pongo.New(nil); err == nil {
		t.Fatalf("expected error without template fs")
	}

	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
	if _, err := engine.RenderTemplate("broken", nil); err == nil {
		t.Fatalf("expected parse error")
	}

	var nilEngine *pongo.Engine
	if _, err := nilEngine.RenderTemplate("hello", nil); err == nil {
		t.Fatalf("expected error from nil engine")
	}
}
