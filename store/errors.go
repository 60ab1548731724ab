package store

import "errors"

var (
	// transport failure, the operation may or may not have reached the store
	ErrNetwork = errors.New("network error")
	// fetch or query target is absent
	ErrNotFound = errors.New("not found")
	// an identifier is required but the record was never persisted
	ErrPrecondition = errors.New("precondition failed")
	// the store rejected field data
	ErrValidation = errors.New("validation failed")
)
