package dialog_test

import (
	"errors"
	"net/http/httptest"
	"net/url"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-webdialog/pkg/dialog"
)

func testConfig() dialog.Config {
	return dialog.Config{
		Name:     "sample",
		TitleKey: "Sample Dialog",
		Includes: []string{"client/widgets/tree.js", "client/layout/css/tree.css"},
		Module:   dialog.ModuleRef{Name: "samplemodule", Type: dialog.ModuleTypeList},
		Templates: fstest.MapFS{
			"body.tmpl": &fstest.MapFile{Data: []byte("<div id=\"sample\"></div>")},
		},
		BodyTemplate: "body.tmpl",
		ElementIDs:   []string{"sample", " "},
		ViewData: func(req dialog.Request) map[string]any {
			return map[string]any{
				"storeid": req.Param("storeid", "false", dialog.IDPattern),
				"locale":  "overridden",
			}
		},
	}
}

func TestNewDescriptor_FreezesConfig(t *testing.T) {
	cfg := testConfig()
	d, err := dialog.NewDescriptor(cfg)
	if err != nil {
		t.Fatalf("new descriptor: %v", err)
	}

	cfg.Includes[0] = "mutated.js"
	if got := d.Includes()[0]; got != "client/widgets/tree.js" {
		t.Fatalf("descriptor shares include slice with config, got %q", got)
	}

	includes := d.Includes()
	includes[1] = "mutated.css"
	if got := d.Includes()[1]; got != "client/layout/css/tree.css" {
		t.Fatalf("Includes returned internal slice, got %q", got)
	}

	want := []dialog.Include{
		{Path: "client/widgets/tree.js", Kind: dialog.IncludeScript},
		{Path: "client/layout/css/tree.css", Kind: dialog.IncludeStylesheet},
	}
	if diff := cmp.Diff(want, d.IncludeList()); diff != "" {
		t.Fatalf("include list mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"sample"}, d.ElementIDs()); diff != "" {
		t.Fatalf("element ids mismatch (-want +got):\n%s", diff)
	}
}

func TestNewDescriptor_Validation(t *testing.T) {
	tests := map[string]func(*dialog.Config){
		"missing name":      func(c *dialog.Config) { c.Name = "" },
		"missing title":     func(c *dialog.Config) { c.TitleKey = " " },
		"missing module":    func(c *dialog.Config) { c.Module.Name = "" },
		"bad module name":   func(c *dialog.Config) { c.Module.Name = "list-module()" },
		"bad module type":   func(c *dialog.Config) { c.Module.Type = "grid" },
		"missing templates": func(c *dialog.Config) { c.Templates = nil },
		"missing body":      func(c *dialog.Config) { c.BodyTemplate = "" },
		"bad include":       func(c *dialog.Config) { c.Includes = append(c.Includes, "client/images/icon.png") },
		"unnamed param":     func(c *dialog.Config) { c.Params = []dialog.Param{{Name: " "}} },
		"duplicate param":   func(c *dialog.Config) { c.Params = []dialog.Param{{Name: "storeid"}, {Name: "storeid"}} },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			mutate(&cfg)
			if _, err := dialog.NewDescriptor(cfg); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestDescriptor_ViewDataKeepsReservedKeys(t *testing.T) {
	d := dialog.MustDescriptor(testConfig())
	data := d.ViewData(dialog.NewRequest(url.Values{"storeid": {"abc123"}}, "nl"))

	if data["locale"] != "nl" {
		t.Fatalf("expected request locale, got %v", data["locale"])
	}
	if data["module_name"] != "samplemodule" || data["module_type"] != "list" {
		t.Fatalf("unexpected module keys: %v %v", data["module_name"], data["module_type"])
	}
	if data["storeid"] != "abc123" {
		t.Fatalf("expected storeid from view data func, got %v", data["storeid"])
	}
}

type mapTranslator map[string]string

func (m mapTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := m[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing")
}

func TestDescriptor_Title(t *testing.T) {
	d := dialog.MustDescriptor(testConfig())

	if got := d.Title("en", nil); got != "Sample Dialog" {
		t.Fatalf("expected msgid without translator, got %q", got)
	}
	if got := d.Title("nl", mapTranslator{"Sample Dialog": "Voorbeeld"}); got != "Voorbeeld" {
		t.Fatalf("expected translation, got %q", got)
	}
	if got := d.Title("nl", mapTranslator{}); got != "Sample Dialog" {
		t.Fatalf("expected msgid fallback, got %q", got)
	}
}

func TestRequest_Param(t *testing.T) {
	req := dialog.NewRequest(url.Values{
		"storeid": {"0000abc"},
		"bad":     {"abc;alert(1)"},
		"empty":   {""},
	}, "")

	cases := []struct {
		name string
		want string
	}{
		{name: "storeid", want: "0000abc"},
		{name: "bad", want: "false"},
		{name: "empty", want: "false"},
		{name: "missing", want: "false"},
	}
	for _, tc := range cases {
		if got := req.Param(tc.name, "false", dialog.IDPattern); got != tc.want {
			t.Fatalf("Param(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}

	if got := req.Param("bad", "x", nil); got != "abc;alert(1)" {
		t.Fatalf("expected raw value without pattern, got %q", got)
	}
	if req.Has("missing") || !req.Has("empty") {
		t.Fatalf("unexpected Has results")
	}
}

func TestParam_Value(t *testing.T) {
	param := dialog.Param{Name: "storeid", Pattern: dialog.IDPattern, Fallback: "false"}

	if got := param.Value(dialog.NewRequest(url.Values{"storeid": {"abc_1"}}, "en")); got != "abc_1" {
		t.Fatalf("valid value rejected, got %q", got)
	}
	if got := param.Value(dialog.NewRequest(url.Values{"storeid": {"a-b"}}, "en")); got != "false" {
		t.Fatalf("invalid value accepted, got %q", got)
	}

	cfg := testConfig()
	cfg.Params = []dialog.Param{param}
	d, err := dialog.NewDescriptor(cfg)
	if err != nil {
		t.Fatalf("new descriptor: %v", err)
	}
	params := d.Params()
	params[0].Name = "mutated"
	if got := d.Params()[0].Name; got != "storeid" {
		t.Fatalf("Params returned internal slice, got %q", got)
	}
}

func TestRequestFromHTTP(t *testing.T) {
	r := httptest.NewRequest("GET", "/dialogs/attachitem?storeid=abc&dialog_attachments=a%20b", nil)
	req := dialog.RequestFromHTTP(r, "de")

	if req.Locale != "de" {
		t.Fatalf("locale = %q", req.Locale)
	}
	if got := req.Raw("dialog_attachments"); got != "a b" {
		t.Fatalf("expected decoded query value, got %q", got)
	}
	if got := dialog.RequestFromHTTP(nil, "en").Raw("storeid"); got != "" {
		t.Fatalf("expected empty request for nil http request, got %q", got)
	}
}

func TestRawURLEncode(t *testing.T) {
	cases := map[string]string{
		"":                 "",
		"My Folder/item 1": "My%20Folder%2Fitem%201",
		"a+b=c&d":          "a%2Bb%3Dc%26d",
		"safe-_.~":         "safe-_.~",
		"quote'\"<>":       "quote%27%22%3C%3E",
		"ü":                "%C3%BC",
	}
	for in, want := range cases {
		if got := dialog.RawURLEncode(in); got != want {
			t.Fatalf("RawURLEncode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRegistry(t *testing.T) {
	registry := dialog.NewRegistry()
	d := dialog.MustDescriptor(testConfig())

	registry.MustRegister(d)
	if err := registry.Register(d); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.Register(dialog.Descriptor{}); err == nil {
		t.Fatalf("expected zero descriptor error")
	}

	got, err := registry.Get("sample")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ModuleName() != "samplemodule" {
		t.Fatalf("unexpected descriptor: %s", got.ModuleName())
	}

	if _, err := registry.Get("nope"); !errors.Is(err, dialog.ErrDialogNotFound) {
		t.Fatalf("expected ErrDialogNotFound, got %v", err)
	}
	if diff := cmp.Diff([]string{"sample"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}
