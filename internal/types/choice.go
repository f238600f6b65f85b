package types

import (
	"fmt"
)

// Choice accepts one of a fixed set of values. Comparison is case-sensitive.
type Choice struct {
	base
	valid []any
}

// NewChoice creates a choice attribute.
func NewChoice(name string, valid []any, opts ...Option) *Choice {
	o := buildOptions(opts)
	values := make([]any, len(valid))
	copy(values, valid)
	return &Choice{base: newBase(name, KindChoice, o), valid: values}
}

// Strings is a convenience for string-valued choices.
func Strings(values ...string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// ValidValues returns a copy of the accepted values.
func (t *Choice) ValidValues() []any {
	out := make([]any, len(t.valid))
	copy(out, t.valid)
	return out
}

// Value implements Type.
func (t *Choice) Value(raw any) (any, error) {
	if raw == nil {
		return t.missing()
	}
	for _, v := range t.valid {
		if Equal(v, raw) {
			return v, nil
		}
	}
	if t.hasDefault {
		return t.Default(), nil
	}
	return nil, newValidationError(t.name, fmt.Sprintf("must be one of %v", t.valid), raw)
}
