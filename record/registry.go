package record

import (
	"fmt"
	"sort"
	"sync"

	"objrel/store"
)

// Model is a typed view over a handle, one per record class.
type Model interface {
	Handle() *Handle
}

// Constructor wraps a handle of its class in the class's Model.
type Constructor func(h *Handle) Model

// Registry maps class names to constructors. It is consulted only when
// turning generic fetch or query results into typed models.
type Registry struct {
	mx    sync.RWMutex
	ctors map[string]Constructor
}

func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

func (r *Registry) Register(className string, ctor Constructor) error {
	if err := store.ValidateClassName(className); err != nil {
		return err
	}
	if ctor == nil {
		return fmt.Errorf("register %s: nil constructor: %w", className, store.ErrValidation)
	}

	r.mx.Lock()
	defer r.mx.Unlock()

	if _, ok := r.ctors[className]; ok {
		return fmt.Errorf("register %s: already registered: %w", className, store.ErrValidation)
	}
	r.ctors[className] = ctor
	return nil
}

func (r *Registry) Has(className string) bool {
	r.mx.RLock()
	defer r.mx.RUnlock()
	_, ok := r.ctors[className]
	return ok
}

func (r *Registry) ClassNames() []string {
	r.mx.RLock()
	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	r.mx.RUnlock()

	sort.Strings(names)
	return names
}

func (r *Registry) Materialize(h *Handle) (Model, error) {
	r.mx.RLock()
	ctor, ok := r.ctors[h.className]
	r.mx.RUnlock()

	if !ok {
		return nil, fmt.Errorf("materialize %s: class not registered: %w", h.className, store.ErrValidation)
	}
	return ctor(h), nil
}

// As materializes h and asserts the model type.
func As[M Model](r *Registry, h *Handle) (M, error) {
	var zero M
	m, err := r.Materialize(h)
	if err != nil {
		return zero, err
	}
	typed, ok := m.(M)
	if !ok {
		return zero, fmt.Errorf("materialize %s: got %T, want %T: %w", h.className, m, zero, store.ErrValidation)
	}
	return typed, nil
}
