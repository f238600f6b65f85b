// Package placeholder normalizes resource references into validated bridge identifiers.
package placeholder

import (
	"fmt"
	"reflect"

	"github.com/dokzlo13/huemodel/internal/model"
	"github.com/dokzlo13/huemodel/internal/types"
)

// Resolver turns either an entity of its kind or a raw identifier into a validated id.
type Resolver struct {
	kind   model.Kind
	idType types.Type
}

var (
	Light        = mustResolver(model.KindLight)
	Group        = mustResolver(model.KindGroup)
	Scene        = mustResolver(model.KindScene)
	Schedule     = mustResolver(model.KindSchedule)
	Rule         = mustResolver(model.KindRule)
	Sensor       = mustResolver(model.KindSensor)
	ResourceLink = mustResolver(model.KindResourceLink)
)

// New returns the resolver for kind. Kinds without identifiers have no resolver.
func New(kind model.Kind) (*Resolver, error) {
	idType := model.IDType(kind)
	if idType == nil {
		return nil, fmt.Errorf("resources of kind %q have no identifier", kind)
	}
	return &Resolver{kind: kind, idType: idType}, nil
}

func mustResolver(kind model.Kind) *Resolver {
	r, err := New(kind)
	if err != nil {
		panic(err)
	}
	return r
}

// For returns the built-in resolver for kind, nil if the kind has no identifier.
func For(kind model.Kind) *Resolver {
	switch kind {
	case model.KindLight:
		return Light
	case model.KindGroup:
		return Group
	case model.KindScene:
		return Scene
	case model.KindSchedule:
		return Schedule
	case model.KindRule:
		return Rule
	case model.KindSensor:
		return Sensor
	case model.KindResourceLink:
		return ResourceLink
	default:
		return nil
	}
}

func (r *Resolver) Kind() model.Kind { return r.kind }

// Resolve accepts a model.Ref of the resolver's kind or a raw identifier value.
// References of another kind and values that are not valid identifiers yield a *types.ValidationError.
func (r *Resolver) Resolve(v any) (any, error) {
	if ref, ok := v.(model.Ref); ok {
		if isNilRef(ref) {
			return nil, &types.ValidationError{Field: r.field(), Constraint: "no identifier provided"}
		}
		if ref.Kind() != r.kind {
			return nil, &types.ValidationError{
				Field:      r.field(),
				Constraint: fmt.Sprintf("expected a %s, got a %s", r.kind, ref.Kind()),
			}
		}
		v = ref.ID()
	}
	if v == nil {
		return nil, &types.ValidationError{Field: r.field(), Constraint: "no identifier provided"}
	}

	id, err := model.ValidateID(r.idType, v)
	if err != nil {
		if ve, ok := err.(*types.ValidationError); ok {
			return nil, &types.ValidationError{Field: r.field(), Constraint: ve.Constraint, Value: ve.Value}
		}
		return nil, err
	}
	return id, nil
}

// PathSegment resolves v and renders it for use in an API path.
func (r *Resolver) PathSegment(v any) (string, error) {
	id, err := r.Resolve(v)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(id), nil
}

func (r *Resolver) field() string {
	return string(r.kind) + " id"
}

// isNilRef catches typed nil pointers, and views such as *model.Light wrapping a nil entity.
func isNilRef(ref model.Ref) bool {
	rv := reflect.ValueOf(ref)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return true
		}
		rv = rv.Elem()
		if rv.Kind() != reflect.Struct || rv.NumField() == 0 {
			return false
		}
		field := rv.Field(0)
		if !rv.Type().Field(0).Anonymous {
			return false
		}
		rv = field
	}
	return false
}
