package render

import (
	"errors"

	"github.com/goliatone/go-webdialog/internal/registry"
)

// ErrRendererNotFound is returned (wrapped) by Registry.Get for unknown names.
var ErrRendererNotFound = errors.New("render: renderer not found")

// Registry stores renderers by Name().
type Registry struct {
	store *registry.Store[Renderer]
}

func NewRegistry() *Registry {
	return &Registry{store: registry.New[Renderer]("render: renderer", ErrRendererNotFound)}
}

// Register adds a renderer. Duplicate names return an error.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	return r.store.Add(renderer.Name(), renderer)
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

func (r *Registry) Get(name string) (Renderer, error) { return r.store.Get(name) }

func (r *Registry) Has(name string) bool { return r.store.Has(name) }

// List returns the renderer names, sorted.
func (r *Registry) List() []string { return r.store.Names() }
