package dialog

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// ModuleType identifies the kind of client-side controller the hosting
// framework instantiates for a dialog.
type ModuleType string

const (
	ModuleTypeList ModuleType = "list"
	ModuleTypeItem ModuleType = "item"
)

// Valid reports whether the module type is one the hosting framework knows.
func (t ModuleType) Valid() bool {
	switch t {
	case ModuleTypeList, ModuleTypeItem:
		return true
	default:
		return false
	}
}

// ModuleRef is the typed handle to the client-side module a dialog binds to.
// The emitted script still refers to the framework's global `module` object;
// Go code only deals with the name and kind.
type ModuleRef struct {
	Name string     `json:"name"`
	Type ModuleType `json:"type"`
}

// IncludeKind distinguishes scripts from stylesheets in a resource manifest.
type IncludeKind string

const (
	IncludeScript     IncludeKind = "script"
	IncludeStylesheet IncludeKind = "stylesheet"
)

// Include is a single entry in a dialog's resource manifest.
type Include struct {
	Path string      `json:"path"`
	Kind IncludeKind `json:"kind"`
}

// ClassifyInclude derives the include kind from the resource extension.
func ClassifyInclude(resource string) (Include, error) {
	trimmed := strings.TrimSpace(resource)
	if trimmed == "" {
		return Include{}, errors.New("dialog: include path is required")
	}
	switch strings.ToLower(path.Ext(trimmed)) {
	case ".js":
		return Include{Path: trimmed, Kind: IncludeScript}, nil
	case ".css":
		return Include{Path: trimmed, Kind: IncludeStylesheet}, nil
	default:
		return Include{}, fmt.Errorf("dialog: unsupported include %q", trimmed)
	}
}

// ViewDataFunc derives the template context for one render from the request.
type ViewDataFunc func(req Request) map[string]any

// Config collects the inputs for NewDescriptor.
type Config struct {
	// Name is the registry key, e.g. "attachitem".
	Name string
	// TitleKey is the message id of the window title. It doubles as the
	// untranslated title.
	TitleKey string
	// Includes lists client resources in load order.
	Includes []string
	Module   ModuleRef
	// Templates holds the dialog's template files. BodyTemplate is required;
	// OnLoadTemplate and ScriptTemplate are optional.
	Templates      fs.FS
	BodyTemplate   string
	OnLoadTemplate string
	ScriptTemplate string
	// ElementIDs is the DOM contract: ids the body must expose exactly once.
	ElementIDs []string
	// Params documents the page parameters ViewData reads.
	Params   []Param
	ViewData ViewDataFunc
}

// Descriptor is the immutable definition of a dialog. Accessors return copies
// so callers cannot mutate a registered descriptor.
type Descriptor struct {
	name       string
	titleKey   string
	includes   []Include
	module     ModuleRef
	templates  fs.FS
	body       string
	onload     string
	script     string
	elementIDs []string
	params     []Param
	viewData   ViewDataFunc
}

// NewDescriptor validates cfg and freezes it into a Descriptor.
func NewDescriptor(cfg Config) (Descriptor, error) {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		return Descriptor{}, errors.New("dialog: name is required")
	}
	titleKey := strings.TrimSpace(cfg.TitleKey)
	if titleKey == "" {
		return Descriptor{}, fmt.Errorf("dialog %q: title key is required", name)
	}
	if strings.TrimSpace(cfg.Module.Name) == "" {
		return Descriptor{}, fmt.Errorf("dialog %q: module name is required", name)
	}
	// The module name is emitted as a script identifier.
	if !IDPattern.MatchString(strings.TrimSpace(cfg.Module.Name)) {
		return Descriptor{}, fmt.Errorf("dialog %q: invalid module name %q", name, cfg.Module.Name)
	}
	if !cfg.Module.Type.Valid() {
		return Descriptor{}, fmt.Errorf("dialog %q: unknown module type %q", name, cfg.Module.Type)
	}
	if cfg.Templates == nil {
		return Descriptor{}, fmt.Errorf("dialog %q: templates are required", name)
	}
	if strings.TrimSpace(cfg.BodyTemplate) == "" {
		return Descriptor{}, fmt.Errorf("dialog %q: body template is required", name)
	}

	includes := make([]Include, 0, len(cfg.Includes))
	for _, raw := range cfg.Includes {
		include, err := ClassifyInclude(raw)
		if err != nil {
			return Descriptor{}, fmt.Errorf("dialog %q: %w", name, err)
		}
		includes = append(includes, include)
	}

	ids := make([]string, 0, len(cfg.ElementIDs))
	for _, id := range cfg.ElementIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	params := make([]Param, 0, len(cfg.Params))
	seen := make(map[string]struct{}, len(cfg.Params))
	for _, param := range cfg.Params {
		param.Name = strings.TrimSpace(param.Name)
		if param.Name == "" {
			return Descriptor{}, fmt.Errorf("dialog %q: param name is required", name)
		}
		if _, dup := seen[param.Name]; dup {
			return Descriptor{}, fmt.Errorf("dialog %q: duplicate param %q", name, param.Name)
		}
		seen[param.Name] = struct{}{}
		params = append(params, param)
	}

	return Descriptor{
		name:     name,
		titleKey: titleKey,
		includes: includes,
		module: ModuleRef{
			Name: strings.TrimSpace(cfg.Module.Name),
			Type: cfg.Module.Type,
		},
		templates:  cfg.Templates,
		body:       strings.TrimSpace(cfg.BodyTemplate),
		onload:     strings.TrimSpace(cfg.OnLoadTemplate),
		script:     strings.TrimSpace(cfg.ScriptTemplate),
		elementIDs: ids,
		params:     params,
		viewData:   cfg.ViewData,
	}, nil
}

// MustDescriptor panics when cfg is invalid. Intended for package-level
// descriptor definitions.
func MustDescriptor(cfg Config) Descriptor {
	d, err := NewDescriptor(cfg)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Descriptor) IsZero() bool { return d.name == "" }

func (d Descriptor) Name() string     { return d.name }
func (d Descriptor) TitleKey() string { return d.titleKey }

// Title returns the localized window title. Without a translator, or when the
// translator has no entry, the message id itself is returned.
func (d Descriptor) Title(locale string, t Translator) string {
	if t == nil {
		return d.titleKey
	}
	msg, err := t.Translate(locale, d.titleKey)
	if err != nil || strings.TrimSpace(msg) == "" {
		return d.titleKey
	}
	return msg
}

// Includes returns the resource paths in load order.
func (d Descriptor) Includes() []string {
	out := make([]string, len(d.includes))
	for i, include := range d.includes {
		out[i] = include.Path
	}
	return out
}

// IncludeList returns the classified resource manifest in load order.
func (d Descriptor) IncludeList() []Include {
	out := make([]Include, len(d.includes))
	copy(out, d.includes)
	return out
}

func (d Descriptor) Module() ModuleRef      { return d.module }
func (d Descriptor) ModuleName() string     { return d.module.Name }
func (d Descriptor) ModuleType() ModuleType { return d.module.Type }
func (d Descriptor) Templates() fs.FS       { return d.templates }
func (d Descriptor) BodyTemplate() string   { return d.body }
func (d Descriptor) OnLoadTemplate() string { return d.onload }
func (d Descriptor) ScriptTemplate() string { return d.script }

func (d Descriptor) ElementIDs() []string {
	out := make([]string, len(d.elementIDs))
	copy(out, d.elementIDs)
	return out
}

func (d Descriptor) Params() []Param {
	out := make([]Param, len(d.params))
	copy(out, d.params)
	return out
}

// ViewData builds the template context for req. The keys locale, module_name
// and module_type are always present; the descriptor's own ViewDataFunc may
// add to them but cannot remove them.
func (d Descriptor) ViewData(req Request) map[string]any {
	data := make(map[string]any)
	if d.viewData != nil {
		for key, value := range d.viewData(req) {
			data[key] = value
		}
	}
	data["locale"] = req.Locale
	data["module_name"] = d.module.Name
	data["module_type"] = string(d.module.Type)
	return data
}
