package render

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/goliatone/go-webdialog/pkg/dialog"
	rendertemplate "github.com/goliatone/go-webdialog/pkg/render/template"
	"github.com/goliatone/go-webdialog/pkg/theming"
)

// Page is the composed, renderer-neutral result of one dialog render.
type Page struct {
	Name     string           `json:"name"`
	Locale   string           `json:"locale,omitempty"`
	Title    string           `json:"title"`
	Module   dialog.ModuleRef `json:"module"`
	Includes []dialog.Include `json:"includes"`
	CSSVars  []CSSVar         `json:"css_vars,omitempty"`
	// Script is the dialog's global script, emitted before the onload hook.
	Script string `json:"script,omitempty"`
	// OnLoad runs once the framework has created the module.
	OnLoad string `json:"onload,omitempty"`
	Body   string `json:"body"`
}

// CSSVar is a single custom property exposed on :root.
type CSSVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

var (
	cssVarNamePattern  = regexp.MustCompile(`^--[A-Za-z0-9_-]+$`)
	cssVarValuePattern = regexp.MustCompile(`^[#A-Za-z0-9 .,%()_-]+$`)
)

// Compose executes the descriptor's templates through engine and resolves the
// resource manifest against options.
func Compose(ctx context.Context, engine rendertemplate.TemplateRenderer, descriptor dialog.Descriptor, req dialog.Request, t Translator, options RenderOptions) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	if descriptor.IsZero() {
		return Page{}, fmt.Errorf("render: descriptor is required")
	}
	if engine == nil {
		return Page{}, fmt.Errorf("render: template renderer is nil")
	}

	data := descriptor.ViewData(req)

	body, err := engine.RenderTemplate(descriptor.BodyTemplate(), data)
	if err != nil {
		return Page{}, fmt.Errorf("render: dialog %q body: %w", descriptor.Name(), err)
	}

	var onload, script string
	if name := descriptor.OnLoadTemplate(); name != "" {
		if onload, err = engine.RenderTemplate(name, data); err != nil {
			return Page{}, fmt.Errorf("render: dialog %q onload: %w", descriptor.Name(), err)
		}
	}
	if name := descriptor.ScriptTemplate(); name != "" {
		if script, err = engine.RenderTemplate(name, data); err != nil {
			return Page{}, fmt.Errorf("render: dialog %q script: %w", descriptor.Name(), err)
		}
	}

	return Page{
		Name:     descriptor.Name(),
		Locale:   req.Locale,
		Title:    descriptor.Title(req.Locale, t),
		Module:   descriptor.Module(),
		Includes: ResolveIncludes(descriptor.IncludeList(), options),
		CSSVars:  themeCSSVars(options.Theme),
		Script:   strings.TrimSpace(script),
		OnLoad:   strings.TrimSpace(onload),
		Body:     strings.TrimSpace(body),
	}, nil
}

// ResolveIncludes prefixes relative paths with options.BaseURL and appends the
// theme's dialog stylesheet, keeping load order.
func ResolveIncludes(includes []dialog.Include, options RenderOptions) []dialog.Include {
	base := strings.TrimRight(strings.TrimSpace(options.BaseURL), "/")

	out := make([]dialog.Include, 0, len(includes)+1)
	for _, include := range includes {
		resolved := include
		if base != "" && !isAbsolute(include.Path) {
			resolved.Path = base + "/" + strings.TrimLeft(include.Path, "/")
		}
		out = append(out, resolved)
	}

	if href := options.Theme.Asset(theming.AssetDialogStylesheet); href != "" {
		out = append(out, dialog.Include{Path: href, Kind: dialog.IncludeStylesheet})
	}
	return out
}

// themeCSSVars returns the theme variables that are safe to inline in a
// style element, sorted by name.
func themeCSSVars(cfg *theming.Config) []CSSVar {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return nil
	}
	vars := make([]CSSVar, 0, len(cfg.CSSVars))
	for name, value := range cfg.CSSVars {
		value = strings.TrimSpace(value)
		if !cssVarNamePattern.MatchString(name) || !cssVarValuePattern.MatchString(value) {
			continue
		}
		vars = append(vars, CSSVar{Name: name, Value: value})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	if len(vars) == 0 {
		return nil
	}
	return vars
}

func isAbsolute(p string) bool {
	return strings.HasPrefix(p, "/") ||
		strings.HasPrefix(p, "http://") ||
		strings.HasPrefix(p, "https://")
}
