package types

import (
	"fmt"
)

// Schema is an ordered set of attribute Types with unique names.
// A Schema is never modified after construction and may be shared freely.
type Schema struct {
	types []Type
	index map[string]int
}

// NewSchema builds a schema, rejecting duplicate attribute names.
func NewSchema(types ...Type) (*Schema, error) {
	s := &Schema{
		types: make([]Type, 0, len(types)),
		index: make(map[string]int, len(types)),
	}
	for _, t := range types {
		if t == nil {
			return nil, fmt.Errorf("schema contains a nil attribute type")
		}
		if _, exists := s.index[t.Name()]; exists {
			return nil, fmt.Errorf("duplicate attribute %q in schema", t.Name())
		}
		s.index[t.Name()] = len(s.types)
		s.types = append(s.types, t)
	}
	return s, nil
}

// MustSchema is NewSchema for statically declared schemas; it panics on duplicates.
func MustSchema(types ...Type) *Schema {
	s, err := NewSchema(types...)
	if err != nil {
		panic(err)
	}
	return s
}

// Extend returns a new schema holding s's attributes followed by extra.
// An extra attribute with an existing name replaces the base one in place.
func (s *Schema) Extend(extra ...Type) *Schema {
	out := &Schema{
		types: make([]Type, len(s.types), len(s.types)+len(extra)),
		index: make(map[string]int, len(s.types)+len(extra)),
	}
	copy(out.types, s.types)
	for name, i := range s.index {
		out.index[name] = i
	}
	for _, t := range extra {
		if i, exists := out.index[t.Name()]; exists {
			out.types[i] = t
			continue
		}
		out.index[t.Name()] = len(out.types)
		out.types = append(out.types, t)
	}
	return out
}

// Get returns the attribute Type called name.
func (s *Schema) Get(name string) (Type, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.types[i], true
}

// Has reports whether the schema defines name.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Names returns the attribute names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.types))
	for i, t := range s.types {
		names[i] = t.Name()
	}
	return names
}

// Types returns the attribute Types in declaration order.
func (s *Schema) Types() []Type {
	out := make([]Type, len(s.types))
	copy(out, s.types)
	return out
}

// Len returns the number of attributes.
func (s *Schema) Len() int {
	return len(s.types)
}
