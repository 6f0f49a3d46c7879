package page

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded layout bundle for consumers that want the
// default dialog document.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
