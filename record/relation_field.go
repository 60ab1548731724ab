package record

import (
	"fmt"

	"objrel/query"
	"objrel/store"
)

// RelationField is a many-to-many membership set owned by the source
// record. Changes are queued on the source and sent with its next persist.
type RelationField struct {
	Name        string
	TargetClass string
}

func (f RelationField) Add(src, target *Handle) error {
	return f.edit(src, target, store.EditAdd)
}

func (f RelationField) Remove(src, target *Handle) error {
	return f.edit(src, target, store.EditRemove)
}

func (f RelationField) edit(src, target *Handle, op store.EditOp) error {
	if _, err := src.Pointer(); err != nil {
		return fmt.Errorf("%s %s: source: %w", op, f.Name, err)
	}
	if target == nil {
		return fmt.Errorf("%s %s: nil target: %w", op, f.Name, store.ErrPrecondition)
	}
	p, err := target.Pointer()
	if err != nil {
		return fmt.Errorf("%s %s: target: %w", op, f.Name, err)
	}
	if f.TargetClass != "" && p.ClassName != f.TargetClass {
		return fmt.Errorf("%s %s: want %s, got %s: %w", op, f.Name, f.TargetClass, p.ClassName, store.ErrValidation)
	}
	if err := store.ValidateRelationName(f.Name); err != nil {
		return err
	}

	src.addEdit(store.RelationEdit{Relation: f.Name, Op: op, Target: p})
	return nil
}

// Pending lists the queued membership changes of this field.
func (f RelationField) Pending(src *Handle) []store.RelationEdit {
	var out []store.RelationEdit
	for _, e := range src.edits {
		if e.Relation == f.Name {
			out = append(out, e)
		}
	}
	return out
}

// Query returns a query over the relation's current members. Only the
// source's identifier is needed, the source may be a stub.
func (f RelationField) Query(src *Handle) (query.Query, error) {
	p, err := src.Pointer()
	if err != nil {
		return query.Query{}, fmt.Errorf("query %s: %w", f.Name, err)
	}
	if err := store.ValidateRelationName(f.Name); err != nil {
		return query.Query{}, err
	}
	return query.Related(p, f.Name, f.TargetClass), nil
}
