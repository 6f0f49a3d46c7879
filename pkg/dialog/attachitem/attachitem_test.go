package attachitem_test

import (
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-webdialog/pkg/dialog"
	"github.com/goliatone/go-webdialog/pkg/dialog/attachitem"
	"github.com/goliatone/go-webdialog/pkg/render"
	"github.com/goliatone/go-webdialog/pkg/render/contract"
	"github.com/goliatone/go-webdialog/pkg/testsupport"
)

func compose(t *testing.T, query url.Values, locale string) render.Page {
	t.Helper()

	catalog := testsupport.Catalog(t)
	d := attachitem.Descriptor()
	engine, err := render.DefaultEngineFactory(render.TemplateI18nFuncs(catalog, render.TemplateI18nConfig{}))(d)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	page, err := render.Compose(testsupport.Context(), engine, d, dialog.NewRequest(query, locale), catalog, render.RenderOptions{})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	return page
}

func TestTitle(t *testing.T) {
	if got := attachitem.Title("en", nil); got != "Attach Items" {
		t.Fatalf("title = %q", got)
	}

	catalog := testsupport.Catalog(t)
	if got := attachitem.Title("nl", catalog); got != "Items bijvoegen" {
		t.Fatalf("localized title = %q", got)
	}
	if got := attachitem.Title("fr", catalog); got != "Attach Items" {
		t.Fatalf("expected untranslated title for unknown locale, got %q", got)
	}
}

func TestIncludes(t *testing.T) {
	want := []string{
		"client/widgets/tree.js",
		"client/layout/css/tree.css",
		"client/layout/css/attachitem.css",
		"client/widgets/tablewidget.js",
		"client/widgets/pagination.js",
		"client/layout/js/attachitem.js",
		"client/modules/hierarchymodule.js",
		"client/modules/hierarchyselectmodule.js",
		"client/modules/attachitemlistmodule.js",
	}
	if diff := cmp.Diff(want, attachitem.Includes()); diff != "" {
		t.Fatalf("includes mismatch (-want +got):\n%s", diff)
	}

	includes := attachitem.Includes()
	includes[0] = "mutated.js"
	if attachitem.Includes()[0] != want[0] {
		t.Fatalf("expected a fresh manifest on every call")
	}
	if diff := cmp.Diff(want, attachitem.Descriptor().Includes()); diff != "" {
		t.Fatalf("descriptor includes mismatch (-want +got):\n%s", diff)
	}
}

func TestModule(t *testing.T) {
	if got := attachitem.ModuleName(); got != "attachitemlistmodule" {
		t.Fatalf("module name = %q", got)
	}
	if got := attachitem.ModuleType(); got != dialog.ModuleTypeList {
		t.Fatalf("module type = %q", got)
	}
	ref := attachitem.Descriptor().Module()
	if ref.Name != "attachitemlistmodule" || ref.Type != "list" {
		t.Fatalf("descriptor module = %+v", ref)
	}
}

func TestParams(t *testing.T) {
	params := attachitem.Descriptor().Params()
	if len(params) != 2 || params[0].Name != "storeid" || params[1].Name != "dialog_attachments" {
		t.Fatalf("unexpected params %+v", params)
	}
	if params[0].Pattern != dialog.IDPattern || params[0].Fallback != "false" {
		t.Fatalf("storeid param = %+v", params[0])
	}
	if params[1].Pattern != nil {
		t.Fatalf("dialog_attachments must accept any value")
	}
}

func TestViewData_UsesStoreIDParam(t *testing.T) {
	var storeID dialog.Param
	for _, p := range attachitem.Descriptor().Params() {
		if p.Name == attachitem.ParamStoreID {
			storeID = p
		}
	}
	if storeID.Name == "" {
		t.Fatalf("descriptor does not document %q", attachitem.ParamStoreID)
	}

	cases := []struct {
		name  string
		query url.Values
		want  string
	}{
		{name: "valid", query: url.Values{"storeid": {"store_1"}}, want: "store_1"},
		{name: "invalid", query: url.Values{"storeid": {"a-b"}}, want: storeID.Fallback},
		{name: "only attachments", query: url.Values{"dialog_attachments": {"x"}}, want: storeID.Fallback},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := attachitem.ViewData(dialog.NewRequest(tc.query, "en"))
			if data["storeid"] != tc.want {
				t.Fatalf("storeid = %v, want %q", data["storeid"], tc.want)
			}
		})
	}
}

func TestOnLoad_EmbedsParameters(t *testing.T) {
	page := compose(t, testsupport.Query(t,
		"storeid", "abc123",
		"dialog_attachments", "My Folder/item 1",
	), "en")

	testsupport.AssertGolden(t, filepath.Join("testdata", "onload.golden"), []byte(page.OnLoad))
}

func TestOnLoad_StoreIDFallback(t *testing.T) {
	cases := map[string]url.Values{
		"absent":  {},
		"invalid": {"storeid": {`abc"); alert(1); //`}},
		"dashed":  {"storeid": {"abc-123"}},
	}
	for name, query := range cases {
		t.Run(name, func(t *testing.T) {
			page := compose(t, query, "en")
			if !strings.Contains(page.OnLoad, `data["storeid"] = "false";`) {
				t.Fatalf("expected storeid fallback, got:\n%s", page.OnLoad)
			}
			if strings.Contains(page.OnLoad, "alert") {
				t.Fatalf("unexpected raw parameter in output:\n%s", page.OnLoad)
			}
		})
	}
}

func TestBody_WithoutAttachmentTarget(t *testing.T) {
	page := compose(t, url.Values{}, "en")

	if !strings.Contains(page.OnLoad, `window.dialog_attachment = "";`) {
		t.Fatalf("expected empty attachment target in script, got:\n%s", page.OnLoad)
	}

	doc := testsupport.ParseHTML(t, []byte(page.Body))
	onclick, _ := doc.Find(`#action_buttons input[type="button"]`).First().Attr("onclick")
	if onclick != "addAttachmentItems(module, '');" {
		t.Fatalf("ok onclick = %q", onclick)
	}
}

func TestBody_Markup(t *testing.T) {
	page := compose(t, url.Values{"dialog_attachments": {"a b"}}, "nl")

	if err := contract.Check([]byte(page.Body), attachitem.Descriptor().ElementIDs()); err != nil {
		t.Fatalf("contract: %v", err)
	}

	doc := testsupport.ParseHTML(t, []byte(page.Body))

	checked := doc.Find(`input[type="radio"][checked]`)
	if checked.Length() != 1 {
		t.Fatalf("expected one preselected insert mode, got %d", checked.Length())
	}
	if id, _ := checked.Attr("id"); id != "attachment" {
		t.Fatalf("expected attachment preselected, got %q", id)
	}
	if _, ok := doc.Find("#text").Attr("checked"); ok {
		t.Fatalf("text mode must not be preselected")
	}

	buttons := doc.Find(`#action_buttons input[type="button"]`)
	if buttons.Length() != 2 {
		t.Fatalf("expected OK and Cancel buttons, got %d", buttons.Length())
	}
	okValue, _ := buttons.Eq(0).Attr("value")
	okClick, _ := buttons.Eq(0).Attr("onclick")
	cancelValue, _ := buttons.Eq(1).Attr("value")
	cancelClick, _ := buttons.Eq(1).Attr("onclick")

	if okValue != "OK" || okClick != "addAttachmentItems(module, 'a%20b');" {
		t.Fatalf("unexpected OK button value=%q onclick=%q", okValue, okClick)
	}
	if cancelValue != "Annuleren" || cancelClick != "window.close();" {
		t.Fatalf("unexpected Cancel button value=%q onclick=%q", cancelValue, cancelClick)
	}
	if got := strings.TrimSpace(doc.Find("#select legend").Text()); got != "Invoegen als" {
		t.Fatalf("legend = %q", got)
	}
	if page.Title != "Items bijvoegen" {
		t.Fatalf("title = %q", page.Title)
	}
}
