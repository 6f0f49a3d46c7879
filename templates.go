package webdialog

import (
	"io/fs"

	"github.com/goliatone/go-webdialog/pkg/i18n"
	"github.com/goliatone/go-webdialog/pkg/renderers/page"
)

// EmbeddedTemplates exposes the built-in page layout so callers can reuse or
// extend it without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return page.TemplatesFS()
}

// EmbeddedLocales exposes the built-in message catalogs.
func EmbeddedLocales() fs.FS {
	return i18n.LocalesFS()
}
