package model

import (
	"github.com/dokzlo13/huemodel/internal/types"
)

const (
	TagLightGroup    = "lightgroup"
	TagRoom          = "room"
	TagZone          = "zone"
	TagEntertainment = "entertainment"
	TagLuminaire     = "luminaire"
	TagLightSource   = "lightsource"
)

var roomClasses = types.Strings(
	"Living room", "Kitchen", "Dining", "Bedroom", "Kids bedroom", "Bathroom", "Nursery",
	"Recreation", "Office", "Gym", "Hallway", "Toilet", "Front door", "Garage", "Terrace",
	"Garden", "Driveway", "Carport", "Other", "Home", "Downstairs", "Upstairs", "Top floor",
	"Attic", "Guest room", "Staircase", "Lounge", "Man cave", "Computer", "Studio", "Music",
	"TV", "Reading", "Closet", "Storage", "Laundry room", "Balcony", "Porch", "Barbecue",
	"Pool", "Free",
)

var groupSchema = types.MustSchema(
	types.UInt16("id"),
	types.NewString("name", types.Length(0, 32), types.Optional()),
	types.NewString("type", types.Optional()),
	types.NewList("lights", types.NewString(""), types.Optional()),
	types.NewList("sensors", types.NewString(""), types.Optional()),
	types.NewObject("state", types.MustSchema(
		types.NewBoolean("all_on", types.Optional()),
		types.NewBoolean("any_on", types.Optional()),
	), types.Optional()),
	types.NewBoolean("recycle", types.Optional()),
	types.NewObject("action", lightStateSchema.Extend(types.NewString("scene", types.Optional())), types.Optional()),
)

func groupType(value string) types.Type {
	return types.NewChoice("type", types.Strings(value), types.Default(value))
}

var (
	lightGroupDefinition = groupDefinition(TagLightGroup, groupType("LightGroup"))

	roomDefinition = groupDefinition(TagRoom,
		groupType("Room"),
		types.NewChoice("class", roomClasses, types.Default("Other")),
	)

	zoneDefinition = groupDefinition(TagZone,
		groupType("Zone"),
		types.NewChoice("class", roomClasses, types.Default("Other")),
	)

	entertainmentDefinition = groupDefinition(TagEntertainment,
		groupType("Entertainment"),
		types.NewChoice("class", types.Strings("TV", "Free", "Other"), types.Default("Other")),
		types.NewObject("stream", types.MustSchema(
			types.NewChoice("proxymode", types.Strings("auto", "manual"), types.Optional()),
			types.NewString("proxynode", types.Optional()),
			types.NewBoolean("active", types.Optional()),
			types.NewString("owner", types.Optional()),
		), types.Optional()),
		types.NewAnyObject("locations", types.Optional()),
	)

	luminaireDefinition = groupDefinition(TagLuminaire,
		groupType("Luminaire"),
		types.NewString("modelid", types.Optional()),
		types.NewString("uniqueid", types.Optional()),
	)

	lightSourceDefinition = groupDefinition(TagLightSource,
		groupType("LightSource"),
		types.NewString("uniqueid", types.Optional()),
	)
)

func groupDefinition(tag string, extra ...types.Type) Definition {
	return Definition{
		Tag:        tag,
		Kind:       KindGroup,
		Version:    1,
		Schema:     groupSchema.Extend(extra...),
		Identified: true,
	}
}

// Group is the typed view shared by every group variant.
type Group struct {
	*Entity
}

// NewRoom creates an empty room with the given id.
func NewRoom(id any) (*Group, error) {
	e, err := NewIdentified(roomDefinition, id)
	if err != nil {
		return nil, err
	}
	return &Group{Entity: e}, nil
}

// NewZone creates an empty zone with the given id.
func NewZone(id any) (*Group, error) {
	e, err := NewIdentified(zoneDefinition, id)
	if err != nil {
		return nil, err
	}
	return &Group{Entity: e}, nil
}

// NewLightGroup creates an empty light group with the given id.
func NewLightGroup(id any) (*Group, error) {
	e, err := NewIdentified(lightGroupDefinition, id)
	if err != nil {
		return nil, err
	}
	return &Group{Entity: e}, nil
}

// AsGroup returns the group view of e when e is any group variant.
func AsGroup(e *Entity) (*Group, bool) {
	if e == nil || e.Kind() != KindGroup {
		return nil, false
	}
	return &Group{Entity: e}, true
}

func (g *Group) Name() string { return g.stringValue("name") }

func (g *Group) SetName(name string) error { return g.Set("name", name) }

// Type returns the bridge group type, e.g. "Room".
func (g *Group) Type() string { return g.stringValue("type") }

// Class returns the room class, "" for variants without one.
func (g *Group) Class() string {
	if !g.Schema().Has("class") {
		return ""
	}
	return g.stringValue("class")
}

func (g *Group) Lights() []string { return g.stringList("lights") }

// SetLights replaces the member light ids.
func (g *Group) SetLights(ids ...string) error {
	list := make([]any, len(ids))
	for i, id := range ids {
		list[i] = id
	}
	return g.Set("lights", list)
}

// AllOn and AnyOn report the aggregate state as last seen from the bridge.
func (g *Group) AllOn() bool {
	state, _ := g.value("state").(map[string]any)
	on, _ := state["all_on"].(bool)
	return on
}

func (g *Group) AnyOn() bool {
	state, _ := g.value("state").(map[string]any)
	on, _ := state["any_on"].(bool)
	return on
}
