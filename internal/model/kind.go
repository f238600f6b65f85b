// Package model holds the bridge resource model: entities bound to attribute schemas,
// their wire and persisted formats, and the registry that rebuilds them from either.
package model

// Kind is the discriminant shared by every entity of one resource family.
// Several registry tags map to one Kind (room, zone and lightgroup are all groups).
type Kind string

const (
	KindLight        Kind = "light"
	KindGroup        Kind = "group"
	KindScene        Kind = "scene"
	KindSchedule     Kind = "schedule"
	KindRule         Kind = "rule"
	KindSensor       Kind = "sensor"
	KindResourceLink Kind = "resourcelink"
	KindCapabilities Kind = "capabilities"
)

// Ref is anything that names a bridge resource by kind and id.
// *Entity and every typed view satisfy it.
type Ref interface {
	Kind() Kind
	ID() any
}

// Collection returns the v1 API path segment for a kind, e.g. "lights".
func (k Kind) Collection() string {
	switch k {
	case KindLight:
		return "lights"
	case KindGroup:
		return "groups"
	case KindScene:
		return "scenes"
	case KindSchedule:
		return "schedules"
	case KindRule:
		return "rules"
	case KindSensor:
		return "sensors"
	case KindResourceLink:
		return "resourcelinks"
	case KindCapabilities:
		return "capabilities"
	default:
		return ""
	}
}

// Kinds lists every identified resource kind.
func Kinds() []Kind {
	return []Kind{KindLight, KindGroup, KindScene, KindSchedule, KindRule, KindSensor, KindResourceLink}
}
