// Package registry is the name-keyed store behind the dialog and renderer
// registries.
package registry

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Store maps names to values. It is safe for concurrent use.
type Store[T any] struct {
	kind     string
	notFound error

	mu    sync.RWMutex
	items map[string]T
}

// New returns an empty store. kind prefixes error messages; Get wraps
// notFound for unknown names.
func New[T any](kind string, notFound error) *Store[T] {
	return &Store[T]{
		kind:     kind,
		notFound: notFound,
		items:    make(map[string]T),
	}
}

// Add stores item under name. Names are unique and non-empty.
func (s *Store[T]) Add(name string, item T) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s name is required", s.kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[name]; exists {
		return fmt.Errorf("%s %q already registered", s.kind, name)
	}
	s.items[name] = item
	return nil
}

func (s *Store[T]) Get(name string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %q", s.notFound, name)
	}
	return item, nil
}

func (s *Store[T]) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.items[name]
	return ok
}

// Names returns the registered names, sorted.
func (s *Store[T]) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.items))
}
