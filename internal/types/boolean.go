package types

import (
	"strconv"
	"strings"
)

// Boolean coerces truthy and falsy raw values into a bool.
type Boolean struct {
	base
}

// NewBoolean creates a boolean attribute.
func NewBoolean(name string, opts ...Option) *Boolean {
	o := buildOptions(opts)
	if o.hasDefault {
		o.def = truthy(o.def)
	}
	return &Boolean{base: newBase(name, KindBoolean, o)}
}

// Value implements Type.
func (t *Boolean) Value(raw any) (any, error) {
	if raw == nil {
		return t.missing()
	}
	return truthy(raw), nil
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return parsed
		}
		return val != ""
	}
	if f, ok := ToNumber(v); ok {
		return f != 0
	}
	return true
}
