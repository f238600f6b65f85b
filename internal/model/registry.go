package model

import (
	"fmt"
	"sort"
	"strings"
)

// Registry maps type tags to entity definitions. Tags are matched case-insensitively.
// A Registry is filled by NewRegistry and never changes afterwards.
type Registry struct {
	definitions map[string]Definition
}

// NewRegistry creates a registry holding the given definitions.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{
		definitions: make(map[string]Definition, len(defs)),
	}
	for _, def := range defs {
		if err := r.register(def); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) register(def Definition) error {
	if def.Tag == "" {
		return fmt.Errorf("definition has no type tag")
	}
	if def.Schema == nil {
		return fmt.Errorf("definition %q has no schema", def.Tag)
	}
	if def.Version < 1 {
		return fmt.Errorf("definition %q has invalid version %d", def.Tag, def.Version)
	}

	key := strings.ToLower(def.Tag)
	if _, exists := r.definitions[key]; exists {
		return fmt.Errorf("type %q already registered", def.Tag)
	}
	def.Tag = key
	r.definitions[key] = def
	return nil
}

// Lookup returns the definition for tag, or an *UnknownTypeError.
func (r *Registry) Lookup(tag string) (Definition, error) {
	def, ok := r.definitions[strings.ToLower(tag)]
	if !ok {
		return Definition{}, &UnknownTypeError{Tag: tag}
	}
	return def, nil
}

// Tags returns all registered tags, sorted
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.definitions))
	for tag := range r.definitions {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Len returns the number of registered definitions
func (r *Registry) Len() int {
	return len(r.definitions)
}
