// Local handles on remote records and typed accessors for their reference
// fields.
//
// A handle is in one of three states:
//
//	new      created locally, no identifier, fields set by the caller
//	stub     identifier only, fields unknown (reached through a pointer)
//	resolved identifier and the full field set
//
// A new handle becomes resolved when persisted. A stub becomes resolved
// only through an explicit fetch. Handles are owned by the caller that
// holds them and are not safe for concurrent use.
package record

import (
	"fmt"

	"objrel/objid"
	"objrel/store"

	"github.com/samber/mo"
)

type State int

const (
	StateNew State = iota
	StateStub
	StateResolved
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateStub:
		return "stub"
	case StateResolved:
		return "resolved"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type Handle struct {
	className string
	id        mo.Option[objid.ID]
	state     State
	fields    map[string]any
	// handles given out by or passed to pointer fields, by field name
	targets map[string]*Handle
	// relation membership changes sent with the next persist
	edits []store.RelationEdit
}

// New creates an unsaved record. Reference fields are set through
// PointerField, not through fields.
func New(className string, fields map[string]any) *Handle {
	h := &Handle{
		className: className,
		id:        mo.None[objid.ID](),
		state:     StateNew,
		fields:    make(map[string]any, len(fields)),
		targets:   make(map[string]*Handle),
	}
	for k, v := range fields {
		h.fields[k] = v
	}
	return h
}

// Stub creates an unresolved reference to a stored record.
func Stub(className string, id objid.ID) *Handle {
	return &Handle{
		className: className,
		id:        mo.Some(id),
		state:     StateStub,
		targets:   make(map[string]*Handle),
	}
}

// Resolved creates a handle on a stored record whose fields are known.
func Resolved(className string, id objid.ID, fields map[string]any) *Handle {
	h := Stub(className, id)
	h.Hydrate(fields)
	return h
}

func (h *Handle) ClassName() string {
	return h.className
}

func (h *Handle) ID() mo.Option[objid.ID] {
	return h.id
}

func (h *Handle) State() State {
	return h.state
}

func (h *Handle) IsResolved() bool {
	return h.state == StateResolved
}

// Field reads a field. Pointer fields read as the unresolved store.Pointer.
// A stub has no fields yet: resolve it first.
func (h *Handle) Field(name string) (any, bool) {
	v, ok := h.fields[name]
	return v, ok
}

// Fields returns a copy of the field map, nil for a stub.
func (h *Handle) Fields() map[string]any {
	if h.state == StateStub {
		return nil
	}
	out := make(map[string]any, len(h.fields))
	for k, v := range h.fields {
		out[k] = v
	}
	return out
}

// Get reads a field as T.
func Get[T any](h *Handle, name string) (T, bool) {
	v, ok := h.fields[name].(T)
	return v, ok
}

// Set writes a value field. Stubs refuse writes because persisting them
// would replace fields the handle never saw.
func (h *Handle) Set(name string, value any) error {
	if h.state == StateStub {
		return fmt.Errorf("set %s.%s on unresolved %s: %w", h.className, name, h, store.ErrPrecondition)
	}
	if _, ok := value.(*Handle); ok {
		return fmt.Errorf("set %s.%s: use a PointerField for references: %w", h.className, name, store.ErrValidation)
	}
	if err := store.ValidateFields(map[string]any{name: value}); err != nil {
		return fmt.Errorf("set %s.%s: %w", h.className, name, err)
	}

	h.fields[name] = value
	delete(h.targets, name)
	return nil
}

// Pointer returns the reference to this record. Unsaved records have none.
func (h *Handle) Pointer() (store.Pointer, error) {
	if h == nil {
		return store.Pointer{}, fmt.Errorf("nil handle: %w", store.ErrPrecondition)
	}
	id, ok := h.id.Get()
	if !ok {
		return store.Pointer{}, fmt.Errorf("%s was never persisted: %w", h.className, store.ErrPrecondition)
	}
	return store.Pointer{ClassName: h.className, ObjectID: id}, nil
}

// Changes returns what a persist sends: the full field map and the
// pending relation edits.
func (h *Handle) Changes() (map[string]any, []store.RelationEdit) {
	edits := make([]store.RelationEdit, len(h.edits))
	copy(edits, h.edits)
	return h.Fields(), edits
}

// Commit records a successful persist under id.
func (h *Handle) Commit(id objid.ID) {
	h.id = mo.Some(id)
	h.state = StateResolved
	h.fields = store.Canonical(h.fields)
	h.edits = nil
}

// Hydrate records a successful fetch. Cached pointer targets survive only
// while the pointer still references them.
func (h *Handle) Hydrate(fields map[string]any) {
	h.fields = make(map[string]any, len(fields))
	for k, v := range fields {
		h.fields[k] = v
	}
	h.state = StateResolved

	for name, target := range h.targets {
		p, ok := h.fields[name].(store.Pointer)
		if !ok || !target.refersTo(p) {
			delete(h.targets, name)
		}
	}
}

func (h *Handle) refersTo(p store.Pointer) bool {
	id, ok := h.id.Get()
	return ok && h.className == p.ClassName && id == p.ObjectID
}

// addEdit queues a membership change, a later change to the same member
// replaces an earlier one.
func (h *Handle) addEdit(e store.RelationEdit) {
	edits := h.edits[:0]
	for _, pending := range h.edits {
		if pending.Relation != e.Relation || pending.Target != e.Target {
			edits = append(edits, pending)
		}
	}
	h.edits = append(edits, e)
}

func (h *Handle) String() string {
	if id, ok := h.id.Get(); ok {
		return h.className + "(" + id.String() + ", " + h.state.String() + ")"
	}
	return h.className + "(" + h.state.String() + ")"
}
