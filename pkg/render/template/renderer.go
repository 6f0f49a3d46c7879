package template

// TemplateRenderer executes a template of a bundle by name. The extension may
// be omitted.
type TemplateRenderer interface {
	RenderTemplate(name string, data any) (string, error)
}
