// Package attachitem defines the "Attach Items" dialog: a folder tree and an
// item list from which the user picks messages to attach, either as
// attachments or inlined as text.
package attachitem

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-webdialog/pkg/dialog"
)

const (
	// Name is the registry key of the dialog.
	Name = "attachitem"
	// TitleKey is the message id of the window title.
	TitleKey = "Attach Items"

	// ParamStoreID selects the message store the tree starts in.
	ParamStoreID = "storeid"
	// ParamAttachments identifies the items the selection is attached to.
	ParamAttachments = "dialog_attachments"

	moduleName   = "attachitemlistmodule"
	modulePrefix = "client/modules/"
	// storeIDFallback is emitted verbatim when no usable storeid is given.
	storeIDFallback = "false"
)

// Element ids the tree, table and pagination widgets mount on.
const (
	ElementRoot         = "attach_item"
	ElementHierarchy    = "attach_item_hierarchy"
	ElementTargetFolder = "attach_item_targetfolder"
	ElementListView     = "attach_item_listview"
	ElementPaging       = "attach_item_paging"
	ElementTableWidget  = "attach_item_tablewidget"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the dialog templates rooted at the templates directory.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// Title returns the localized window title.
func Title(locale string, t dialog.Translator) string {
	return descriptor.Title(locale, t)
}

// Includes returns the client resources in load order. The list module script
// is always last.
func Includes() []string {
	return []string{
		"client/widgets/tree.js",
		"client/layout/css/tree.css",
		"client/layout/css/attachitem.css",
		"client/widgets/tablewidget.js",
		"client/widgets/pagination.js",
		"client/layout/js/attachitem.js",
		"client/modules/hierarchymodule.js",
		"client/modules/hierarchyselectmodule.js",
		modulePrefix + ModuleName() + ".js",
	}
}

func ModuleName() string { return moduleName }

func ModuleType() dialog.ModuleType { return dialog.ModuleTypeList }

// ElementIDs lists the ids the body markup must provide.
func ElementIDs() []string {
	return []string{
		ElementRoot,
		ElementHierarchy,
		ElementTargetFolder,
		ElementListView,
		ElementPaging,
		ElementTableWidget,
	}
}

var (
	storeIDParam = dialog.Param{
		Name:        ParamStoreID,
		Description: `Message store the folder tree starts in. Values not matching the pattern are replaced by "false".`,
		Pattern:     dialog.IDPattern,
		Fallback:    storeIDFallback,
	}
	attachmentsParam = dialog.Param{
		Name:        ParamAttachments,
		Description: "Identifier of the item the selection is attached to. Emitted rawurlencoded.",
	}
)

// Params documents the page parameters ViewData reads.
func Params() []dialog.Param {
	return []dialog.Param{storeIDParam, attachmentsParam}
}

// ViewData derives the template context from the page parameters.
//
// storeid is constrained to dialog.IDPattern and attachment_target is
// rawurlencoded, so both are safe inside quoted script literals and HTML
// attributes without further escaping.
func ViewData(req dialog.Request) map[string]any {
	return map[string]any{
		"storeid":           storeIDParam.Value(req),
		"attachment_target": dialog.RawURLEncode(req.Raw(ParamAttachments)),
	}
}

var descriptor = dialog.MustDescriptor(dialog.Config{
	Name:     Name,
	TitleKey: TitleKey,
	Includes: Includes(),
	Module: dialog.ModuleRef{
		Name: ModuleName(),
		Type: ModuleType(),
	},
	Templates:      TemplatesFS(),
	BodyTemplate:   "body.tmpl",
	OnLoadTemplate: "onload.tmpl",
	ElementIDs:     ElementIDs(),
	Params:         Params(),
	ViewData:       ViewData,
})

// Descriptor returns the dialog definition for registration.
func Descriptor() dialog.Descriptor {
	return descriptor
}
