package model

import (
	"errors"
	"fmt"
)

var (
	// ErrSchema is matched by every *SchemaError.
	ErrSchema = errors.New("schema error")
	// ErrUnknownType is matched by every *UnknownTypeError.
	ErrUnknownType = errors.New("unknown type")
	// ErrUnsupportedVersion is matched by every *UnsupportedVersionError.
	ErrUnsupportedVersion = errors.New("unsupported version")
)

// SchemaError reports an attribute that is not part of an entity's schema,
// or an identified entity that cannot get a valid id.
type SchemaError struct {
	Tag       string
	Attribute string
	Reason    string
	Err       error
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("%s: attribute %q %s", e.Tag, e.Attribute, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

func (e *SchemaError) Unwrap() error { return e.Err }

// UnknownTypeError reports a registry tag with no registered constructor.
type UnknownTypeError struct {
	Tag string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown entity type %q", e.Tag)
}

func (e *UnknownTypeError) Is(target error) bool { return target == ErrUnknownType }

// UnsupportedVersionError reports a persisted payload whose version is missing, zero,
// or newer than the registered one.
type UnsupportedVersionError struct {
	Tag       string
	Version   int
	Supported int
}

func (e *UnsupportedVersionError) Error() string {
	if e.Supported > 0 {
		return fmt.Sprintf("unsupported version %d for type %q (supported: %d)", e.Version, e.Tag, e.Supported)
	}
	return fmt.Sprintf("unsupported version %d for type %q", e.Version, e.Tag)
}

func (e *UnsupportedVersionError) Is(target error) bool { return target == ErrUnsupportedVersion }
