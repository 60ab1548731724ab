package store

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"time"

	"objrel/objid"
)

// Field names a store keeps for itself.
var reserved = map[string]struct{}{
	"objectId":  {},
	"className": {},
	"createdAt": {},
	"updatedAt": {},
	"ACL":       {},
}

var nameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

const (
	typeTag     = "__type"
	pointerType = "Pointer"
	dateType    = "Date"
	numberType  = "Number"
)

func ValidateClassName(name string) error {
	if !nameRe.MatchString(name) {
		return fmt.Errorf("invalid class name %q: %w", name, ErrValidation)
	}
	return nil
}

// ValidateFields checks field names and that every value is of a kind any
// store can carry: nil, bool, string, integers, floats, time.Time, Pointer,
// []any and map[string]any of those.
func ValidateFields(fields map[string]any) error {
	for name, v := range fields {
		if !nameRe.MatchString(name) {
			return fmt.Errorf("invalid field name %q: %w", name, ErrValidation)
		}
		if _, ok := reserved[name]; ok {
			return fmt.Errorf("field name %q is reserved: %w", name, ErrValidation)
		}
		if err := validateValue(v); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}
	return nil
}

func validateValue(v any) error {
	switch v := v.(type) {
	case nil, bool, string, float32, float64, time.Time,
		int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	case Pointer:
		return ValidatePointer(v)
	case []any:
		for _, e := range v {
			if err := validateValue(e); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		for k, e := range v {
			if k == "" || k == typeTag {
				return fmt.Errorf("invalid nested key %q: %w", k, ErrValidation)
			}
			if err := validateValue(e); err != nil {
				return err
			}
		}
		return nil
	}

	return fmt.Errorf("unsupported value of type %T: %w", v, ErrValidation)
}

func ValidatePointer(p Pointer) error {
	if err := ValidateClassName(p.ClassName); err != nil {
		return err
	}
	if p.ObjectID.IsZero() {
		return fmt.Errorf("pointer to %s has no object id: %w", p.ClassName, ErrValidation)
	}
	return nil
}

func ValidateRelationName(name string) error {
	if !nameRe.MatchString(name) {
		return fmt.Errorf("invalid relation name %q: %w", name, ErrValidation)
	}
	return nil
}

func ValidateEdits(edits []RelationEdit) error {
	for _, e := range edits {
		if err := ValidateRelationName(e.Relation); err != nil {
			return err
		}
		if e.Op != EditAdd && e.Op != EditRemove {
			return fmt.Errorf("invalid relation edit %q: %w", e.Op, ErrValidation)
		}
		if err := ValidatePointer(e.Target); err != nil {
			return fmt.Errorf("relation %q: %w", e.Relation, err)
		}
	}
	return nil
}

// EncodeFields turns a field map into plain maps, slices and scalars so that
// any codec can carry it. Pointers and dates become tagged maps.
func EncodeFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = EncodeValue(v)
	}
	return out
}

// EncodeValue is EncodeFields for a single value.
func EncodeValue(v any) any {
	switch v := v.(type) {
	case Pointer:
		return map[string]any{
			typeTag:     pointerType,
			"className": v.ClassName,
			"objectId":  v.ObjectID.String(),
		}
	case time.Time:
		return map[string]any{
			typeTag: dateType,
			"iso":   v.UTC().Format(time.RFC3339Nano),
		}
	case float32:
		return encodeFloat(float64(v))
	case float64:
		return encodeFloat(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = EncodeValue(e)
		}
		return out
	case map[string]any:
		return EncodeFields(v)
	}

	return canonical(v)
}

// Whole floats are tagged: text codecs write 4.0 as 4, which would read
// back as an integer.
func encodeFloat(f float64) any {
	if f != math.Trunc(f) {
		return f
	}
	return map[string]any{
		typeTag: numberType,
		"float": strconv.FormatFloat(f, 'g', -1, 64),
	}
}

// DecodeFields reverses EncodeFields. Integers come back as int64 and
// floats as float64 whatever codec carried them.
func DecodeFields(fields map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		dv, err := DecodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("decoding field %q: %w", k, err)
		}
		out[k] = dv
	}
	return out, nil
}

// DecodeValue is DecodeFields for a single value.
func DecodeValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("map with %s keys: %w", rv.Type().Key(), ErrValidation)
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return decodeMap(m)
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			// raw bytes only show up for strings some codecs keep binary
			return string(rv.Bytes()), nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			e, err := DecodeValue(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = e
		}
		return out, nil
	}

	return canonical(v), nil
}

func decodeMap(m map[string]any) (any, error) {
	switch m[typeTag] {
	case pointerType:
		className, _ := m["className"].(string)
		objectID, _ := m["objectId"].(string)
		p := Pointer{ClassName: className, ObjectID: objid.ID(objectID)}
		if err := ValidatePointer(p); err != nil {
			return nil, err
		}
		return p, nil
	case dateType:
		iso, _ := m["iso"].(string)
		t, err := time.Parse(time.RFC3339Nano, iso)
		if err != nil {
			return nil, fmt.Errorf("date %q: %w", iso, ErrValidation)
		}
		return t.UTC(), nil
	case numberType:
		raw, _ := m["float"].(string)
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("number %q: %w", raw, ErrValidation)
		}
		return f, nil
	case nil:
		return DecodeFields(m)
	}

	return nil, fmt.Errorf("unknown tagged value %v: %w", m[typeTag], ErrValidation)
}

// Canonical returns the field map as any store would hand it back.
func Canonical(fields map[string]any) map[string]any {
	out, err := DecodeFields(EncodeFields(fields))
	if err != nil {
		// validated fields always decode
		return fields
	}
	return out
}

func canonical(v any) any {
	switch v := v.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		f, _ := v.Float64()
		return f
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return uintToNumber(uint64(v))
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return uintToNumber(v)
	case float32:
		return float64(v)
	case time.Time:
		return v.UTC()
	}
	return v
}

func uintToNumber(v uint64) any {
	if v > math.MaxInt64 {
		return float64(v)
	}
	return int64(v)
}
