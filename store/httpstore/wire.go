// Object store served and consumed over HTTP.
//
// Routes, all bodies are JSON:
//
//	POST /1/classes/{class}                 create an object
//	PUT  /1/classes/{class}/{id}            replace an object's fields
//	GET  /1/classes/{class}/{id}            fetch an object's fields
//	POST /1/query/{class}                   query a class
//	POST /1/related/{class}/{id}/{relation} query a relation's members
//
// Field values travel in the tagged form produced by store.EncodeFields.
package httpstore

import (
	"errors"
	"fmt"
	"net/http"

	"objrel/objid"
	"objrel/store"
)

const (
	HeaderApplicationID = "X-Objrel-Application-Id"
	HeaderClientKey     = "X-Objrel-Client-Key"
)

type wireEdit struct {
	Relation  string `json:"relation"`
	Op        string `json:"op"`
	ClassName string `json:"className"`
	ObjectID  string `json:"objectId"`
}

type saveRequest struct {
	Fields map[string]any `json:"fields"`
	Edits  []wireEdit     `json:"edits,omitempty"`
}

type saveResponse struct {
	ObjectID string `json:"objectId"`
}

type fetchResponse struct {
	Fields map[string]any `json:"fields"`
}

type wireFilter struct {
	Field string `json:"field"`
	Op    string `json:"op"`
	Value any    `json:"value"`
}

type queryRequest struct {
	Filters []wireFilter `json:"filters,omitempty"`
	Limit   int          `json:"limit,omitempty"`
}

type wireObject struct {
	ObjectID  string         `json:"objectId"`
	ClassName string         `json:"className"`
	Fields    map[string]any `json:"fields"`
}

type queryResponse struct {
	Results []wireObject `json:"results"`
}

type errorResponse struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

func editsToWire(edits []store.RelationEdit) []wireEdit {
	out := make([]wireEdit, 0, len(edits))
	for _, e := range edits {
		out = append(out, wireEdit{
			Relation:  e.Relation,
			Op:        string(e.Op),
			ClassName: e.Target.ClassName,
			ObjectID:  e.Target.ObjectID.String(),
		})
	}
	return out
}

func editsFromWire(edits []wireEdit) []store.RelationEdit {
	out := make([]store.RelationEdit, 0, len(edits))
	for _, e := range edits {
		out = append(out, store.RelationEdit{
			Relation: e.Relation,
			Op:       store.EditOp(e.Op),
			Target:   store.Pointer{ClassName: e.ClassName, ObjectID: objid.ID(e.ObjectID)},
		})
	}
	return out
}

func filtersToWire(filters []store.Filter) []wireFilter {
	out := make([]wireFilter, 0, len(filters))
	for _, f := range filters {
		out = append(out, wireFilter{Field: f.Field, Op: string(f.Op), Value: store.EncodeValue(f.Value)})
	}
	return out
}

func filtersFromWire(filters []wireFilter) ([]store.Filter, error) {
	out := make([]store.Filter, 0, len(filters))
	for _, f := range filters {
		v, err := store.DecodeValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", f.Field, err)
		}
		out = append(out, store.Filter{Field: f.Field, Op: store.Op(f.Op), Value: v})
	}
	return out, nil
}

func objectsFromWire(objs []wireObject) ([]store.Object, error) {
	out := make([]store.Object, 0, len(objs))
	for _, o := range objs {
		fields, err := store.DecodeFields(o.Fields)
		if err != nil {
			return nil, err
		}
		out = append(out, store.Object{ID: objid.ID(o.ObjectID), ClassName: o.ClassName, Fields: fields})
	}
	return out, nil
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrPrecondition):
		return http.StatusPreconditionFailed
	case errors.Is(err, store.ErrNetwork):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func errorOf(status int) error {
	switch status {
	case http.StatusNotFound:
		return store.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return store.ErrValidation
	case http.StatusPreconditionFailed:
		return store.ErrPrecondition
	}
	return store.ErrNetwork
}
