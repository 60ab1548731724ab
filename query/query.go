// Immutable query descriptions executed by the client.
package query

import (
	"fmt"
	"reflect"

	"objrel/store"
)

// Referencer is anything that can stand for a stored object in a filter,
// typically a record handle.
type Referencer interface {
	Pointer() (store.Pointer, error)
}

// Query is a value: every builder method returns a new Query and leaves
// the receiver as it was. The zero Query is invalid.
type Query struct {
	className string
	source    *store.Pointer
	relation  string
	filters   []store.Filter
	limit     int
	err       error
}

// New returns a query over all objects of a class.
func New(className string) Query {
	return Query{className: className}
}

// Related returns a query over the members of a source object's relation.
// Only the source's identifier is needed.
func Related(source store.Pointer, relation, targetClass string) Query {
	return Query{className: targetClass, source: &source, relation: relation}
}

func (q Query) WhereEqual(field string, value any) Query {
	return q.where(field, store.OpEqual, value)
}

func (q Query) WhereNotEqual(field string, value any) Query {
	return q.where(field, store.OpNotEqual, value)
}

func (q Query) where(field string, op store.Op, value any) Query {
	if r, ok := value.(Referencer); ok {
		if isNil(r) {
			return q.withErr(fmt.Errorf("filter %q: nil reference: %w", field, store.ErrPrecondition))
		}
		p, err := r.Pointer()
		if err != nil {
			return q.withErr(fmt.Errorf("filter %q: %w", field, err))
		}
		value = p
	}

	filters := make([]store.Filter, len(q.filters), len(q.filters)+1)
	copy(filters, q.filters)
	q.filters = append(filters, store.Filter{Field: field, Op: op, Value: value})
	return q
}

// Limit caps the number of results, n <= 0 removes the cap.
func (q Query) Limit(n int) Query {
	q.limit = n
	return q
}

func isNil(r Referencer) bool {
	rv := reflect.ValueOf(r)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func (q Query) withErr(err error) Query {
	if q.err == nil {
		q.err = err
	}
	return q
}

// Err reports the first error met while building the query.
func (q Query) Err() error {
	if q.err != nil {
		return q.err
	}
	if q.source == nil {
		return store.ValidateClassName(q.className)
	}
	return nil
}

func (q Query) ClassName() string {
	return q.className
}

func (q Query) Filters() []store.Filter {
	out := make([]store.Filter, len(q.filters))
	copy(out, q.filters)
	return out
}

func (q Query) MaxResults() int {
	return q.limit
}

// Source returns the relation source and name of a related query.
func (q Query) Source() (store.Pointer, string, bool) {
	if q.source == nil {
		return store.Pointer{}, "", false
	}
	return *q.source, q.relation, true
}
