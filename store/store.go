// Contract between the object-relation client and a remote object store.
//
// The store owns persistence, query execution and relation indexing. The
// client only holds references (class name + object id) and field maps.
package store

import (
	"context"

	"objrel/objid"

	"github.com/samber/mo"
)

// Store is the remote object store as seen by the client. Implementations
// must report every failure as an error wrapping one of ErrNetwork,
// ErrNotFound, ErrPrecondition or ErrValidation.
type Store interface {
	// Save creates an object when id is absent, otherwise replaces the
	// field set of the existing object. Relation edits are applied together
	// with the field write: either all of it is stored or nothing is.
	Save(ctx context.Context, className string, id mo.Option[objid.ID], fields map[string]any, edits []RelationEdit) (objid.ID, error)

	// Fetch returns the last saved field set of an object.
	Fetch(ctx context.Context, className string, id objid.ID) (map[string]any, error)

	// Query returns objects of a class matching all filters in creation
	// order. limit <= 0 means no limit.
	Query(ctx context.Context, className string, filters []Filter, limit int) ([]Object, error)

	// QueryRelated returns the members of a source object's relation
	// matching all filters, in creation order. The source's fields are
	// never needed, only its identifier.
	QueryRelated(ctx context.Context, source Pointer, relation string, filters []Filter, limit int) ([]Object, error)
}

// Object is a fully materialized stored object.
type Object struct {
	ID        objid.ID
	ClassName string
	Fields    map[string]any
}

// Pointer references exactly one stored object. It never carries the
// referenced object's fields.
type Pointer struct {
	ClassName string
	ObjectID  objid.ID
}

func (p Pointer) String() string {
	return p.ClassName + "$" + p.ObjectID.String()
}

type EditOp string

const (
	EditAdd    EditOp = "add"
	EditRemove EditOp = "remove"
)

// RelationEdit is a pending change to the membership of a relation
// field of the object being saved.
type RelationEdit struct {
	Relation string
	Op       EditOp
	Target   Pointer
}
