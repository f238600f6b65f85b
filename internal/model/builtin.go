package model

import (
	"github.com/dokzlo13/huemodel/internal/types"
)

// Definitions returns every built-in entity definition.
func Definitions() []Definition {
	defs := []Definition{
		lightDefinition,
		lightGroupDefinition,
		roomDefinition,
		zoneDefinition,
		entertainmentDefinition,
		luminaireDefinition,
		lightSourceDefinition,
		lightSceneDefinition,
		groupSceneDefinition,
		scheduleDefinition,
		ruleDefinition,
		resourceLinkDefinition,
		capabilitiesDefinition,
	}
	return append(defs, sensorDefinitions...)
}

// DefaultRegistry returns a new registry holding every built-in definition.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(Definitions()...)
	if err != nil {
		panic(err)
	}
	return r
}

// NewDefaultFactory is a Factory over DefaultRegistry.
func NewDefaultFactory() *Factory {
	return NewFactory(DefaultRegistry())
}

// IDType returns the id attribute Type used by every entity of kind, nil for kinds without ids.
func IDType(kind Kind) types.Type {
	var schema *types.Schema
	switch kind {
	case KindLight:
		schema = lightSchema
	case KindGroup:
		schema = groupSchema
	case KindScene:
		schema = sceneSchema
	case KindSchedule:
		schema = scheduleDefinition.Schema
	case KindRule:
		schema = ruleDefinition.Schema
	case KindSensor:
		schema = sensorSchema
	case KindResourceLink:
		schema = resourceLinkDefinition.Schema
	default:
		return nil
	}
	t, _ := schema.Get("id")
	return t
}
