package render

import "github.com/goliatone/go-webdialog/pkg/theming"

// RenderOptions describe per-request presentation settings that sit outside
// the dialog request itself.
type RenderOptions struct {
	// BaseURL prefixes relative include paths, e.g. "/webaccess". Empty keeps
	// the paths relative to the page.
	BaseURL string
	// Theme carries the resolved theme. Its dialog.stylesheet asset is
	// appended after the dialog's own includes and its CSS variables are
	// exposed to the layout.
	Theme *theming.Config
}
