// Provides types for binary value representation
package bvalue

import (
	"net/url"

	"objrel/objid"
)

// binary value
type Value []byte

func (v Value) String() string {
	return string(v)
}

func (v Value) IsEmpty() bool {
	return len(v) == 0
}

// Segment is the value escaped for use as one part of a '/' separated key.
func (v Value) Segment() string {
	return url.PathEscape(string(v))
}

func FromString[S ~string](v S) Value {
	return []byte(v)
}

func FromID(id objid.ID) Value {
	return FromString(id)
}

// FromSegment reverses Segment.
func FromSegment(s string) (Value, error) {
	raw, err := url.PathUnescape(s)
	if err != nil {
		return nil, err
	}
	return FromString(raw), nil
}
