package itembank

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrNotFound indicates a requested record does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidFilter indicates a filter value could not be interpreted
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrRepositoryRequired is returned by New without a repository
	ErrRepositoryRequired = errors.New("repository is required")
)

// NotFoundError reports a missing record of a named entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// FilterError reports a filter value that could not be converted.
type FilterError struct {
	Param string
	Value string
	Err   error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid value %q for filter %s", e.Value, e.Param)
}

func (e *FilterError) Unwrap() error {
	return e.Err
}

func (e *FilterError) Is(target error) bool {
	return target == ErrInvalidFilter
}

// DecodeError reports a structured column that failed to decode.
type DecodeError struct {
	Table  string
	Column string
	RowID  string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s.%s for row %s: %v", e.Table, e.Column, e.RowID, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IntegrityError reports child rows that break the owner contract: an owner
// id outside the requested set, a second row for a singular relation, or a
// relation the owner kind does not have.
type IntegrityError struct {
	Relation Relation
	OwnerID  string
	Reason   string
}

func (e *IntegrityError) Error() string {
	if e.OwnerID == "" {
		return fmt.Sprintf("integrity violation in %s: %s", e.Relation, e.Reason)
	}
	return fmt.Sprintf("integrity violation in %s for owner %s: %s", e.Relation, e.OwnerID, e.Reason)
}

// QueryError wraps a failure of the underlying store.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s failed: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
