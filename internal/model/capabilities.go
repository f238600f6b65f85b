package model

import (
	"github.com/dokzlo13/huemodel/internal/types"
)

const TagCapabilities = "capabilities"

func availability(name string, nested ...types.Type) types.Type {
	attrs := append([]types.Type{
		types.UInt16("available", types.Optional()),
		types.UInt16("total", types.Optional()),
	}, nested...)
	return types.NewObject(name, types.MustSchema(attrs...), types.Optional())
}

var capabilitiesDefinition = Definition{
	Tag:     TagCapabilities,
	Kind:    KindCapabilities,
	Version: 1,
	Schema: types.MustSchema(
		availability("lights"),
		availability("sensors", availability("clip"), availability("zll"), availability("zgp")),
		availability("groups"),
		availability("scenes", availability("lightstates")),
		availability("schedules"),
		availability("rules", availability("conditions"), availability("actions")),
		availability("resourcelinks"),
		availability("streaming", types.UInt16("channels", types.Optional())),
		types.NewObject("timezones", types.MustSchema(
			types.NewList("values", types.NewString(""), types.Optional()),
		), types.Optional()),
	),
}

// Capabilities is the typed view of the bridge-wide capacity report. It has no id.
type Capabilities struct {
	*Entity
}

func AsCapabilities(e *Entity) (*Capabilities, bool) {
	if e == nil || e.Kind() != KindCapabilities {
		return nil, false
	}
	return &Capabilities{Entity: e}, true
}

// Available returns the free and total slots for a resource collection, e.g. "rules".
func (c *Capabilities) Available(resource string) (available, total int) {
	m, _ := c.value(resource).(map[string]any)
	available, _ = m["available"].(int)
	total, _ = m["total"].(int)
	return available, total
}

// TimeZones returns the time zones the bridge accepts.
func (c *Capabilities) TimeZones() []string {
	tz, _ := c.value("timezones").(map[string]any)
	values, _ := tz["values"].([]any)
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
