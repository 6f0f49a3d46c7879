package dialog

import (
	"errors"

	"github.com/goliatone/go-webdialog/internal/registry"
)

// ErrDialogNotFound is returned (wrapped) by Registry.Get for unknown names.
var ErrDialogNotFound = errors.New("dialog: not found")

// Registry stores descriptors by name.
type Registry struct {
	store *registry.Store[Descriptor]
}

func NewRegistry() *Registry {
	return &Registry{store: registry.New[Descriptor]("dialog:", ErrDialogNotFound)}
}

// Register adds a descriptor by its Name(). Duplicate names return an error.
func (r *Registry) Register(d Descriptor) error {
	if d.IsZero() {
		return errors.New("dialog: descriptor is required")
	}
	return r.store.Add(d.Name(), d)
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(d Descriptor) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

func (r *Registry) Get(name string) (Descriptor, error) { return r.store.Get(name) }

func (r *Registry) Has(name string) bool { return r.store.Has(name) }

// List returns the registered names, sorted.
func (r *Registry) List() []string { return r.store.Names() }
