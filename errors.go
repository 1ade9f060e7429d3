package relgraph

import (
	"errors"
	"fmt"

	"github.com/relgraph/relgraph/logger"
)

var (
	// ErrRecordNotFound record not found error
	ErrRecordNotFound = logger.ErrRecordNotFound
	// ErrMissingKey the entity has no key yet, it was never inserted or was deleted
	ErrMissingKey = errors.New("key required")
	// ErrNotLoaded relation field was never populated
	ErrNotLoaded = errors.New("relation not loaded")
	// ErrSchemaMismatch operation does not match the field descriptor
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrConcurrentMutation entity is already held by another operation
	ErrConcurrentMutation = errors.New("entity already in use")
	// ErrMissingParam statement placeholder without parameter
	ErrMissingParam = errors.New("missing statement parameter")
	// ErrUnknownEntity entity type is not part of the registry
	ErrUnknownEntity = errors.New("unknown entity")
)

// NotFoundError Get found no row for the key
type NotFoundError struct {
	Entity string
	Key    int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %d: %s", e.Entity, e.Key, ErrRecordNotFound)
}

// Is reports whether target is ErrRecordNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrRecordNotFound
}

// IsNotFound reports whether err is, or wraps, a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}

// NotLoadedError relation accessed before it was set or fetched
type NotLoadedError struct {
	Entity string
	Field  string
}

func (e *NotLoadedError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Entity, e.Field, ErrNotLoaded)
}

// Is reports whether target is ErrNotLoaded
func (e *NotLoadedError) Is(target error) bool {
	return target == ErrNotLoaded
}

// SchemaMismatchError panic value of field access that contradicts the metadata
type SchemaMismatchError struct {
	Entity string
	Field  string
	Want   string
	Got    string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%s: %s.%s is %s, want %s", ErrSchemaMismatch, e.Entity, e.Field, e.Got, e.Want)
}

// Is reports whether target is ErrSchemaMismatch
func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}
