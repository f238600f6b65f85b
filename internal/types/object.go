package types

// Object validates a nested object against a sub-schema. Raw keys the sub-schema does not
// know are dropped; required sub-fields must be present. An Object created without a schema is free-form and kept as given.
type Object struct {
	base
	schema *Schema
}

// NewObject creates an object attribute validated by schema.
func NewObject(name string, schema *Schema, opts ...Option) *Object {
	o := buildOptions(opts)
	if o.hasDefault {
		o.def = normalize(o.def)
	}
	return &Object{base: newBase(name, KindObject, o), schema: schema}
}

// NewAnyObject creates a free-form object attribute.
func NewAnyObject(name string, opts ...Option) *Object {
	return NewObject(name, nil, opts...)
}

// Schema returns the sub-schema, nil for free-form objects.
func (t *Object) Schema() *Schema { return t.schema }

// Value implements Type.
func (t *Object) Value(raw any) (any, error) {
	if raw == nil {
		return t.missing()
	}
	m, ok := toMap(raw)
	if !ok {
		return nil, newValidationError(t.name, "expected an object", raw)
	}
	if t.schema == nil {
		return normalize(m), nil
	}

	out := make(map[string]any, len(m))
	for _, sub := range t.schema.types {
		rawValue, present := m[sub.Name()]
		if !present {
			if !sub.Optional() && !sub.HasDefault() {
				return nil, within(t.name, newValidationError(sub.Name(), "is required", nil))
			}
			continue
		}
		v, err := sub.Value(rawValue)
		if err != nil {
			return nil, within(t.name, err)
		}
		if v != nil {
			out[sub.Name()] = v
		}
	}
	return out, nil
}
