package types

import (
	"fmt"
)

// List validates a homogeneous list. Every element goes through the element Type.
type List struct {
	base
	element    Type
	minEntries int
	maxEntries int // -1 = unbounded
}

// NewList creates a list attribute.
func NewList(name string, element Type, opts ...Option) *List {
	o := buildOptions(opts)
	t := &List{element: element, maxEntries: -1}
	if o.minEntries != nil {
		t.minEntries = *o.minEntries
	}
	if o.maxEntries != nil {
		t.maxEntries = *o.maxEntries
	}
	if o.hasDefault {
		o.def = normalize(o.def)
	}
	t.base = newBase(name, KindList, o)
	return t
}

// Element returns the element Type.
func (t *List) Element() Type { return t.element }

// MinEntries returns the minimum number of entries.
func (t *List) MinEntries() int { return t.minEntries }

// MaxEntries returns the maximum number of entries, -1 when unbounded.
func (t *List) MaxEntries() int { return t.maxEntries }

// Value implements Type.
func (t *List) Value(raw any) (any, error) {
	if raw == nil {
		return t.missing()
	}
	items, ok := toSlice(raw)
	if !ok {
		return nil, newValidationError(t.name, "expected a list", raw)
	}

	if len(items) < t.minEntries && !t.optional {
		return nil, newValidationError(t.name,
			fmt.Sprintf("has %d entries, requires at least %d", len(items), t.minEntries), nil)
	}
	if t.maxEntries >= 0 && len(items) > t.maxEntries {
		return nil, newValidationError(t.name,
			fmt.Sprintf("has %d entries, allows at most %d", len(items), t.maxEntries), nil)
	}

	out := make([]any, len(items))
	for i, item := range items {
		v, err := t.element.Value(item)
		if err != nil {
			return nil, indexed(t.name, t.element.Name(), i, err)
		}
		out[i] = v
	}
	return out, nil
}
