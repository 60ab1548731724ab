package store

import (
	"fmt"
	"math"
	"reflect"
	"time"
)

type Op string

const (
	OpEqual    Op = "eq"
	OpNotEqual Op = "ne"
)

// Filter constrains a query to objects whose field compares to Value.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Match reports whether a decoded field map satisfies all filters. A
// missing field only equals nil.
func Match(fields map[string]any, filters []Filter) bool {
	for _, f := range filters {
		eq := Equal(fields[f.Field], f.Value)

		switch f.Op {
		case OpEqual:
			if !eq {
				return false
			}
		case OpNotEqual:
			if eq {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Equal compares two field values the way stores do: numbers by value
// whatever their Go type, pointers by class and id.
func Equal(a, b any) bool {
	a, b = canonical(a), canonical(b)

	switch av := a.(type) {
	case int64:
		switch bv := b.(type) {
		case int64:
			return av == bv
		case float64:
			return intEqualsFloat(av, bv)
		}
		return false
	case float64:
		switch bv := b.(type) {
		case int64:
			return intEqualsFloat(bv, av)
		case float64:
			return av == bv
		}
		return false
	case Pointer:
		bv, ok := b.(Pointer)
		return ok && av == bv
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	}

	return reflect.DeepEqual(EncodeValue(a), EncodeValue(b))
}

// exact: 2^53+1 does not equal float64(2^53)
func intEqualsFloat(i int64, f float64) bool {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return false
	}
	return int64(f) == i
}

func ValidateFilters(filters []Filter) error {
	for _, f := range filters {
		if !nameRe.MatchString(f.Field) || (f.Op != OpEqual && f.Op != OpNotEqual) {
			return fmt.Errorf("invalid filter %q %q: %w", f.Field, f.Op, ErrValidation)
		}
		if err := validateValue(f.Value); err != nil {
			return fmt.Errorf("filter %q: %w", f.Field, err)
		}
	}
	return nil
}
