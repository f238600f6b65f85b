package types

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// String validates bounded string attributes. Length is counted in runes.
type String struct {
	base
	minLength int
	maxLength int // 0 = unbounded
}

// NewString creates a string attribute.
func NewString(name string, opts ...Option) *String {
	o := buildOptions(opts)
	t := &String{}
	if o.minLength != nil {
		t.minLength = *o.minLength
	}
	if o.maxLength != nil {
		t.maxLength = *o.maxLength
	}
	t.base = newBase(name, KindString, o)
	return t
}

// MinLength returns the minimum accepted length.
func (t *String) MinLength() int { return t.minLength }

// MaxLength returns the maximum accepted length, 0 when unbounded.
func (t *String) MaxLength() int { return t.maxLength }

// Value implements Type.
func (t *String) Value(raw any) (any, error) {
	if raw == nil {
		return t.missing()
	}

	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case bool:
		s = strconv.FormatBool(v)
	case fmt.Stringer:
		s = v.String()
	default:
		f, ok := ToNumber(raw)
		if !ok {
			return nil, newValidationError(t.name, "expected a string", raw)
		}
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}

	n := utf8.RuneCountInString(s)
	if t.maxLength > 0 && n > t.maxLength {
		return nil, newValidationError(t.name, fmt.Sprintf("length %d exceeds maximum %d", n, t.maxLength), s)
	}
	if n < t.minLength && !t.optional {
		return nil, newValidationError(t.name, fmt.Sprintf("length %d is below minimum %d", n, t.minLength), s)
	}
	return s, nil
}
