package render

import (
	"context"

	"github.com/goliatone/go-webdialog/pkg/dialog"
)

// Renderer turns a dialog descriptor plus the page request into a byte
// representation (an HTML document, a JSON fragment, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, descriptor dialog.Descriptor, req dialog.Request, options RenderOptions) ([]byte, error)
}
