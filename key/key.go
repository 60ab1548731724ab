package key

import (
	"errors"
	"fmt"
	"strings"

	bval "objrel/bvalue"
)

const (
	TypeObject = "obj"
	TypeEdge   = "rel"

	sep = "/"
)

// Key for accessing objects and relation edges in storage.
// Key layout patterns:
//
//	obj/{class}/{id}
//	rel/{class}/{id}/{relation}/{target class}/{target id}
//
// Example:
//
//	rel/Artist/00000001/songs/Song/00000002.
//
// Class and relation names never contain the separator, ids are escaped.
type Key struct {
	// type of value stored ('obj' or 'rel')
	Type string
	// class of the object, or of the relation's source
	Class string
	// id of the object, or of the relation's source
	ID bval.Value
	// relation field name, empty for objects
	Relation string
	// class and id of the relation member, empty for objects
	TargetClass string
	TargetID    bval.Value
}

func (k Key) String() string {
	s := k.Type + sep + k.Class + sep + k.ID.Segment()
	if k.Type == TypeEdge {
		s += sep + k.Relation + sep + k.TargetClass + sep + k.TargetID.Segment()
	}
	return s
}

func Object(class string, id bval.Value) Key {
	return Key{Type: TypeObject, Class: class, ID: id}
}

func Edge(class string, id bval.Value, relation, targetClass string, targetID bval.Value) Key {
	return Key{
		Type:        TypeEdge,
		Class:       class,
		ID:          id,
		Relation:    relation,
		TargetClass: targetClass,
		TargetID:    targetID,
	}
}

// Prefix of all object keys of a class.
func ObjectPrefix(class string) string {
	return TypeObject + sep + class + sep
}

// Prefix of all edge keys of one relation of one source object.
func EdgePrefix(class string, id bval.Value, relation string) string {
	return TypeEdge + sep + class + sep + id.Segment() + sep + relation + sep
}

func FromString(s string) (Key, error) {
	tokens := strings.Split(s, sep)

	switch tokens[0] {
	case TypeObject:
		if len(tokens) != 3 {
			return Key{}, errors.New("provided string is not a valid object key")
		}
		id, err := bval.FromSegment(tokens[2])
		if err != nil {
			return Key{}, fmt.Errorf("object key id: %w", err)
		}
		return Object(tokens[1], id), nil
	case TypeEdge:
		if len(tokens) != 6 {
			return Key{}, errors.New("provided string is not a valid edge key")
		}
		id, err := bval.FromSegment(tokens[2])
		if err != nil {
			return Key{}, fmt.Errorf("edge key source id: %w", err)
		}
		targetID, err := bval.FromSegment(tokens[5])
		if err != nil {
			return Key{}, fmt.Errorf("edge key target id: %w", err)
		}
		return Edge(tokens[1], id, tokens[3], tokens[4], targetID), nil
	}

	return Key{}, errors.New("provided string is not a valid key")
}
