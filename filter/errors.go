package filter

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField is returned by accessors for field names they have no
	// reader for.
	ErrUnknownField = errors.New("unknown field")

	// ErrValidation is the sentinel all ValidationErrors unwrap to.
	ErrValidation = errors.New("invalid filter")

	// ErrTypeMismatch is the sentinel all TypeMismatchErrors unwrap to.
	ErrTypeMismatch = errors.New("type mismatch")
)

// ValidationError reports a malformed criterion: arity mismatch, empty field
// name, or an invalid pagination spec. GroupIndex and QueryIndex locate the
// offending query; QueryIndex is -1 for group-level violations.
type ValidationError struct {
	GroupIndex int
	QueryIndex int
	Operator   Operator
	Field      string
	Message    string
}

func (e *ValidationError) Error() string {
	if e.QueryIndex < 0 {
		return fmt.Sprintf("group %d: %s", e.GroupIndex, e.Message)
	}

	return fmt.Sprintf("group %d query %d (%s %s): %s",
		e.GroupIndex, e.QueryIndex, e.Field, e.Operator, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// TypeMismatchError reports an operator applied to an incompatible value
// type, such as a textual operator on a numeric field.
type TypeMismatchError struct {
	Field    string
	Operator Operator
	Value    any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %q: operator %s cannot be applied to %T value", e.Field, e.Operator, e.Value)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }
