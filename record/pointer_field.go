package record

import (
	"fmt"

	"objrel/store"
)

// PointerField is a one-to-many reference: the record holding it points at
// a single record of TargetClass.
type PointerField struct {
	Name        string
	TargetClass string
}

// Get returns the referenced record without fetching it. The result is a
// stub unless the same handle was set earlier or has been resolved since.
func (f PointerField) Get(h *Handle) (*Handle, bool) {
	p, ok := h.fields[f.Name].(store.Pointer)
	if !ok {
		return nil, false
	}
	if t, ok := h.targets[f.Name]; ok && t.refersTo(p) {
		return t, true
	}

	t := Stub(p.ClassName, p.ObjectID)
	h.targets[f.Name] = t
	return t, true
}

// Set points h at target. The target must already be persisted.
func (f PointerField) Set(h, target *Handle) error {
	if target == nil {
		return fmt.Errorf("set %s.%s: nil target: %w", h.className, f.Name, store.ErrPrecondition)
	}
	p, err := target.Pointer()
	if err != nil {
		return fmt.Errorf("set %s.%s: %w", h.className, f.Name, err)
	}
	if f.TargetClass != "" && p.ClassName != f.TargetClass {
		return fmt.Errorf("set %s.%s: want %s, got %s: %w", h.className, f.Name, f.TargetClass, p.ClassName, store.ErrValidation)
	}
	if err := h.Set(f.Name, p); err != nil {
		return err
	}

	h.targets[f.Name] = target
	return nil
}

// Clear removes the reference.
func (f PointerField) Clear(h *Handle) error {
	if err := h.Set(f.Name, nil); err != nil {
		return err
	}
	delete(h.fields, f.Name)
	return nil
}
