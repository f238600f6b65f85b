package model

import (
	"github.com/dokzlo13/huemodel/internal/types"
)

const (
	TagLightScene = "lightscene"
	TagGroupScene = "groupscene"
)

var sceneSchema = types.MustSchema(
	types.NewString("id", types.Length(1, 16)),
	types.NewString("name", types.Length(0, 32), types.Optional()),
	types.NewString("type", types.Optional()),
	types.NewList("lights", types.NewString(""), types.Optional()),
	types.NewString("owner", types.Optional()),
	types.NewBoolean("recycle", types.Optional()),
	types.NewBoolean("locked", types.Optional()),
	types.NewObject("appdata", types.MustSchema(
		types.UInt8("version", types.Optional()),
		types.NewString("data", types.Length(1, 16), types.Optional()),
	), types.Optional()),
	types.NewString("picture", types.Length(0, 16), types.Optional()),
	types.NewString("image", types.Optional()),
	types.NewString("lastupdated", types.Optional()),
	types.UInt16("version", types.Optional()),
	types.NewAnyObject("lightstates", types.Optional()),
)

var (
	lightSceneDefinition = Definition{
		Tag:        TagLightScene,
		Kind:       KindScene,
		Version:    1,
		Schema:     sceneSchema.Extend(types.NewChoice("type", types.Strings("LightScene"), types.Default("LightScene"))),
		Identified: true,
	}

	groupSceneDefinition = Definition{
		Tag:     TagGroupScene,
		Kind:    KindScene,
		Version: 1,
		Schema: sceneSchema.Extend(
			types.NewChoice("type", types.Strings("GroupScene"), types.Default("GroupScene")),
			types.NewString("group", types.Length(1, 16), types.Optional()),
		),
		Identified: true,
	}
)

// Scene is the typed view of light and group scenes.
type Scene struct {
	*Entity
}

// NewLightScene creates an empty light scene with the given id.
func NewLightScene(id string) (*Scene, error) {
	e, err := NewIdentified(lightSceneDefinition, id)
	if err != nil {
		return nil, err
	}
	return &Scene{Entity: e}, nil
}

// NewGroupScene creates an empty group scene bound to group.
func NewGroupScene(id, group string) (*Scene, error) {
	e, err := NewIdentified(groupSceneDefinition, id)
	if err != nil {
		return nil, err
	}
	if err := e.Set("group", group); err != nil {
		return nil, err
	}
	return &Scene{Entity: e}, nil
}

func AsScene(e *Entity) (*Scene, bool) {
	if e == nil || e.Kind() != KindScene {
		return nil, false
	}
	return &Scene{Entity: e}, true
}

func (s *Scene) Name() string { return s.stringValue("name") }

func (s *Scene) Type() string { return s.stringValue("type") }

// Group returns the owning group id of a group scene.
func (s *Scene) Group() string {
	if !s.Schema().Has("group") {
		return ""
	}
	return s.stringValue("group")
}

func (s *Scene) Lights() []string { return s.stringList("lights") }

// LightStates returns the stored per-light states keyed by light id.
func (s *Scene) LightStates() map[string]any {
	states, _ := s.value("lightstates").(map[string]any)
	return states
}
