package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("validation error")

// ValidationError reports a value that breaks a Type constraint and has no usable default.
type ValidationError struct {
	Field      string
	Constraint string
	Value      any
}

func newValidationError(field, constraint string, value any) *ValidationError {
	return &ValidationError{Field: field, Constraint: constraint, Value: value}
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid value for %q: %s", e.Field, e.Constraint)
	}
	return fmt.Sprintf("invalid value for %q: %s (got %v)", e.Field, e.Constraint, e.Value)
}

// Is makes errors.Is(err, ErrValidation) succeed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// within prefixes the field of a nested validation error with the parent attribute name.
func within(parent string, err error) error {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	return &ValidationError{Field: join(parent, ve.Field), Constraint: ve.Constraint, Value: ve.Value}
}

// indexed rewrites an element error as parent[i], dropping the element type's own name.
func indexed(parent, element string, i int, err error) error {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	rest := strings.TrimPrefix(ve.Field, element)
	return &ValidationError{
		Field:      join(parent+"["+strconv.Itoa(i)+"]", rest),
		Constraint: ve.Constraint,
		Value:      ve.Value,
	}
}

func join(parent, child string) string {
	switch {
	case child == "":
		return parent
	case child[0] == '[' || child[0] == '.':
		return parent + child
	default:
		return parent + "." + child
	}
}
