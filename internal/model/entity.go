package model

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/dokzlo13/huemodel/internal/types"
)

// MetadataKey is the reserved persisted-format attribute carrying type and version.
const MetadataKey = "node_hue_api"

// Definition binds a registry tag to the schema its entities are validated against.
type Definition struct {
	Tag     string
	Kind    Kind
	Version int
	Schema  *types.Schema

	// Identified definitions require a valid id at construction and treat it as immutable.
	Identified bool
}

// New constructs an empty entity for the definition.
func (d Definition) New(id any) (*Entity, error) {
	if d.Identified {
		return NewIdentified(d, id)
	}
	return NewEntity(d), nil
}

// Entity is a schema-validated attribute map. The zero value is not usable;
// build one with NewEntity, NewIdentified or a Factory.
type Entity struct {
	def        Definition
	id         any
	identified bool
	data       map[string]any
	raw        map[string]any
}

// NewEntity creates an entity without an id, used for bridge-wide resources like capabilities.
func NewEntity(def Definition) *Entity {
	return &Entity{
		def:  def,
		data: make(map[string]any),
		raw:  make(map[string]any),
	}
}

// NewIdentified creates an entity whose schema declares an "id" attribute.
// The id is validated strictly and stored; it cannot be changed afterwards.
func NewIdentified(def Definition, id any) (*Entity, error) {
	idType, ok := def.Schema.Get("id")
	if !ok {
		return nil, &SchemaError{Tag: def.Tag, Attribute: "id", Reason: "is not defined for an identified resource"}
	}
	if id == nil {
		return nil, &SchemaError{Tag: def.Tag, Attribute: "id", Reason: "is required"}
	}
	value, err := ValidateID(idType, id)
	if err != nil {
		return nil, &SchemaError{Tag: def.Tag, Attribute: "id", Reason: "is invalid", Err: err}
	}

	e := NewEntity(def)
	e.id = value
	e.identified = true
	e.data["id"] = value
	return e, nil
}

// ValidateID checks a raw identifier against an id Type. Numeric ids must be whole numbers
// within range and string ids must already be strings; neither is clamped or coerced.
func ValidateID(idType types.Type, raw any) (any, error) {
	switch t := idType.(type) {
	case *types.Number:
		n, ok := types.ToInteger(raw)
		if !ok {
			return nil, &types.ValidationError{Field: idType.Name(), Constraint: "expected an integer identifier", Value: raw}
		}
		if !t.InRange(float64(n)) {
			return nil, &types.ValidationError{
				Field:      idType.Name(),
				Constraint: fmt.Sprintf("identifier outside [%v, %v]", t.Min(), t.Max()),
				Value:      raw,
			}
		}
		return t.Value(n)
	default:
		if _, ok := raw.(string); !ok {
			return nil, &types.ValidationError{Field: idType.Name(), Constraint: "expected a string identifier", Value: raw}
		}
		return idType.Value(raw)
	}
}

func (e *Entity) Tag() string            { return e.def.Tag }
func (e *Entity) Kind() Kind             { return e.def.Kind }
func (e *Entity) Version() int           { return e.def.Version }
func (e *Entity) Schema() *types.Schema  { return e.def.Schema }
func (e *Entity) Definition() Definition { return e.def }

// ID returns the validated id, nil for entities without one.
func (e *Entity) ID() any { return e.id }

// Identified reports whether the entity carries an immutable id.
func (e *Entity) Identified() bool { return e.identified }

// Set validates raw against the named attribute's Type and stores the result.
// A nil result (optional attribute, no default) removes the stored value.
func (e *Entity) Set(name string, raw any) error {
	t, ok := e.def.Schema.Get(name)
	if !ok {
		return &SchemaError{Tag: e.def.Tag, Attribute: name, Reason: "is not part of the schema"}
	}
	if e.identified && name == "id" {
		return &SchemaError{Tag: e.def.Tag, Attribute: name, Reason: "cannot be changed"}
	}
	v, err := t.Value(raw)
	if err != nil {
		return err
	}
	if v == nil {
		delete(e.data, name)
		return nil
	}
	e.data[name] = v
	return nil
}

// Get returns a copy of the stored value, or the Type default when nothing is stored.
func (e *Entity) Get(name string) (any, error) {
	t, ok := e.def.Schema.Get(name)
	if !ok {
		return nil, &SchemaError{Tag: e.def.Tag, Attribute: name, Reason: "is not part of the schema"}
	}
	if v, stored := e.data[name]; stored {
		return types.Copy(v), nil
	}
	return t.Default(), nil
}

// Has reports whether a value is stored for name.
func (e *Entity) Has(name string) bool {
	_, ok := e.data[name]
	return ok
}

// Populate applies a raw payload. Keys the schema does not know are ignored,
// and the id of an identified entity is never overwritten. The payload is kept
// as the baseline for Changes. Nothing changes when any attribute fails validation.
func (e *Entity) Populate(payload map[string]any) error {
	staged := make(map[string]any, len(payload))
	for _, t := range e.def.Schema.Types() {
		name := t.Name()
		raw, present := payload[name]
		if !present {
			continue
		}
		if name == "id" && e.identified {
			continue
		}
		v, err := t.Value(raw)
		if err != nil {
			return err
		}
		staged[name] = v
	}

	for name, v := range staged {
		if v == nil {
			delete(e.data, name)
			continue
		}
		e.data[name] = v
	}
	e.raw = types.CopyMap(payload)
	return nil
}

// RawData returns a copy of the payload last given to Populate.
func (e *Entity) RawData() map[string]any {
	return types.CopyMap(e.raw)
}

// Changes returns the stored attributes that differ from the last populated payload,
// excluding the id.
func (e *Entity) Changes() map[string]any {
	changes := make(map[string]any)
	for name, v := range e.data {
		if name == "id" && e.identified {
			continue
		}
		if rawValue, ok := e.raw[name]; ok {
			t, _ := e.def.Schema.Get(name)
			if original, err := t.Value(rawValue); err == nil && types.Equal(original, v) {
				continue
			}
		}
		changes[name] = types.Copy(v)
	}
	return changes
}

// WireFormat returns every stored attribute, the id included. Defaults that were never
// stored are not emitted.
func (e *Entity) WireFormat() map[string]any {
	out := make(map[string]any, len(e.data))
	for name, v := range e.data {
		out[name] = types.Copy(v)
	}
	return out
}

// PersistedFormat is WireFormat plus the type and version metadata needed to rebuild the entity.
func (e *Entity) PersistedFormat() map[string]any {
	out := e.WireFormat()
	out[MetadataKey] = map[string]any{
		"type":    e.def.Tag,
		"version": e.def.Version,
	}
	return out
}

// MarshalJSON encodes the persisted format.
func (e *Entity) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.PersistedFormat())
}

// Decode copies the wire format into a struct using its json tags.
func (e *Entity) Decode(out any) error {
	return decode(e.data, out)
}

func (e *Entity) String() string {
	if e.identified {
		return fmt.Sprintf("%s(%v)", e.def.Tag, e.id)
	}
	return e.def.Tag
}

func (e *Entity) value(name string) any {
	v, err := e.Get(name)
	if err != nil {
		return nil
	}
	return v
}

func (e *Entity) stringValue(name string) string {
	s, _ := e.value(name).(string)
	return s
}

func (e *Entity) intValue(name string) int {
	n, _ := e.value(name).(int)
	return n
}

func (e *Entity) boolValue(name string) bool {
	b, _ := e.value(name).(bool)
	return b
}

func (e *Entity) stringList(name string) []string {
	list, _ := e.value(name).([]any)
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func decode(in any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(in); err != nil {
		return fmt.Errorf("failed to decode attributes: %w", err)
	}
	return nil
}
