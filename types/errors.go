package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is matching across layers.
var (
	// ErrFilterValidation matches any malformed filter representation error.
	ErrFilterValidation = errors.New("fraiseql: invalid filter")

	// ErrFieldResolution matches any failure to map a field to a column or
	// JSONB path.
	ErrFieldResolution = errors.New("fraiseql: field cannot be resolved")

	// ErrUnsupportedOperator matches any operator outside the vocabulary.
	ErrUnsupportedOperator = errors.New("fraiseql: unsupported operator")

	// ErrOperatorArgument matches any operator/value shape mismatch.
	ErrOperatorArgument = errors.New("fraiseql: invalid operator argument")

	// ErrNotFound is returned by the execution layer when a find-one query
	// matches no row.
	ErrNotFound = errors.New("fraiseql: record not found")
)

// FilterValidationError reports a malformed input filter representation,
// such as an unknown operator key inside a field's operator mapping.
type FilterValidationError struct {
	Field    string
	Operator string
	Reason   string
}

func (e *FilterValidationError) Error() string {
	if e.Operator != "" {
		return fmt.Sprintf("fraiseql: invalid filter for field %q: unknown operator %q", e.Field, e.Operator)
	}
	return fmt.Sprintf("fraiseql: invalid filter for field %q: %s", e.Field, e.Reason)
}

func (e *FilterValidationError) Is(err error) bool {
	return err == ErrFilterValidation
}

// FieldResolutionError reports a field that maps to neither a native column
// nor a JSONB path under the given table shape.
type FieldResolutionError struct {
	Field string
	View  string
}

func (e *FieldResolutionError) Error() string {
	if e.View != "" {
		return fmt.Sprintf("fraiseql: field %q cannot be resolved against %q: not a native column and no JSONB payload column is configured", e.Field, e.View)
	}
	return fmt.Sprintf("fraiseql: field %q cannot be resolved: not a native column and no JSONB payload column is configured", e.Field)
}

func (e *FieldResolutionError) Is(err error) bool {
	return err == ErrFieldResolution
}

// UnsupportedOperatorError reports an operator outside the fixed vocabulary
// reaching the strategy registry.
type UnsupportedOperatorError struct {
	Field    string
	Operator Operator
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("fraiseql: operator %q is not supported (field %q)", e.Operator, e.Field)
}

func (e *UnsupportedOperatorError) Is(err error) bool {
	return err == ErrUnsupportedOperator
}

// OperatorArgumentError reports a recognized operator given a value of an
// incompatible shape, e.g. between with a single element.
type OperatorArgumentError struct {
	Field    string
	Operator Operator
	Reason   string
}

func (e *OperatorArgumentError) Error() string {
	return fmt.Sprintf("fraiseql: invalid value for operator %q on field %q: %s", e.Operator, e.Field, e.Reason)
}

func (e *OperatorArgumentError) Is(err error) bool {
	return err == ErrOperatorArgument
}
