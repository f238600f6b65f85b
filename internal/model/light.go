package model

import (
	"github.com/dokzlo13/huemodel/internal/types"
)

const TagLight = "light"

var alertValues = types.Strings("none", "select", "lselect", "breathe", "okay", "channelchange", "finish", "stop")

// lightStateSchema describes the state a light reports, and groups report as their action.
var lightStateSchema = types.MustSchema(
	types.NewBoolean("on", types.Optional()),
	types.UInt8("bri", types.Range(1, 254), types.Optional()),
	types.UInt16("hue", types.Optional()),
	types.UInt8("sat", types.Range(0, 254), types.Optional()),
	types.NewChoice("effect", types.Strings("none", "colorloop"), types.Default("none")),
	types.NewList("xy", types.Float("", types.Range(0, 1)), types.Entries(2, 2), types.Optional()),
	types.UInt16("ct", types.Range(153, 500), types.Optional()),
	types.NewChoice("alert", alertValues, types.Default("none")),
	types.NewChoice("colormode", types.Strings("hs", "xy", "ct"), types.Optional()),
	types.NewString("mode", types.Optional()),
	types.NewBoolean("reachable", types.Optional()),
)

var lightSchema = types.MustSchema(
	types.UInt16("id", types.Range(1, 65535)),
	types.NewString("name", types.Length(0, 32), types.Optional()),
	types.NewString("type", types.Optional()),
	types.NewString("modelid", types.Optional()),
	types.NewString("manufacturername", types.Optional()),
	types.NewString("productname", types.Optional()),
	types.NewString("productid", types.Optional()),
	types.NewString("uniqueid", types.Optional()),
	types.NewString("swversion", types.Optional()),
	types.NewString("swconfigid", types.Optional()),
	types.NewString("luminaireuniqueid", types.Optional()),
	types.NewObject("state", lightStateSchema, types.Optional()),
	types.NewObject("swupdate", types.MustSchema(
		types.NewChoice("state", types.Strings("notupdatable", "noupdates", "readytoinstall", "transferring", "installing"), types.Optional()),
		types.NewString("lastinstall", types.Optional()),
	), types.Optional()),
	types.NewObject("capabilities", types.MustSchema(
		types.NewBoolean("certified", types.Optional()),
		types.NewObject("control", types.MustSchema(
			types.UInt16("mindimlevel", types.Optional()),
			types.UInt16("maxlumen", types.Optional()),
			types.NewChoice("colorgamuttype", types.Strings("A", "B", "C", "other"), types.Optional()),
			types.NewList("colorgamut", types.NewList("", types.Float("", types.Range(0, 1)), types.Entries(2, 2)), types.Entries(3, 3), types.Optional()),
			types.NewObject("ct", types.MustSchema(
				types.UInt16("min", types.Optional()),
				types.UInt16("max", types.Optional()),
			), types.Optional()),
		), types.Optional()),
		types.NewAnyObject("streaming", types.Optional()),
	), types.Optional()),
	types.NewObject("config", types.MustSchema(
		types.NewString("archetype", types.Optional()),
		types.NewString("function", types.Optional()),
		types.NewString("direction", types.Optional()),
		types.NewObject("startup", types.MustSchema(
			types.NewChoice("mode", types.Strings("safety", "powerfail", "lastonstate", "custom", "unknown"), types.Optional()),
			types.NewBoolean("configured", types.Optional()),
			types.NewAnyObject("customsettings", types.Optional()),
		), types.Optional()),
	), types.Optional()),
)

var lightDefinition = Definition{
	Tag:        TagLight,
	Kind:       KindLight,
	Version:    1,
	Schema:     lightSchema,
	Identified: true,
}

// LightStatus is the decoded form of a light's reported state.
type LightStatus struct {
	On        bool      `json:"on"`
	Bri       int       `json:"bri"`
	Hue       int       `json:"hue"`
	Sat       int       `json:"sat"`
	Effect    string    `json:"effect"`
	XY        []float64 `json:"xy"`
	CT        int       `json:"ct"`
	Alert     string    `json:"alert"`
	ColorMode string    `json:"colormode"`
	Mode      string    `json:"mode"`
	Reachable bool      `json:"reachable"`
}

// Light is the typed view of a light entity.
type Light struct {
	*Entity
}

// NewLight creates an empty light with the given id.
func NewLight(id any) (*Light, error) {
	e, err := NewIdentified(lightDefinition, id)
	if err != nil {
		return nil, err
	}
	return &Light{Entity: e}, nil
}

// AsLight returns the light view of e when e is a light.
func AsLight(e *Entity) (*Light, bool) {
	if e == nil || e.Kind() != KindLight {
		return nil, false
	}
	return &Light{Entity: e}, true
}

func (l *Light) Name() string              { return l.stringValue("name") }
func (l *Light) SetName(name string) error { return l.Set("name", name) }
func (l *Light) ModelID() string           { return l.stringValue("modelid") }
func (l *Light) UniqueID() string          { return l.stringValue("uniqueid") }
func (l *Light) Type() string              { return l.stringValue("type") }

// Status decodes the reported state.
func (l *Light) Status() (LightStatus, error) {
	var status LightStatus
	state, _ := l.value("state").(map[string]any)
	if state == nil {
		return status, nil
	}
	err := decode(state, &status)
	return status, err
}

// GamutType returns the colour gamut letter from the light's capabilities, or "" if unknown.
func (l *Light) GamutType() string {
	caps, _ := l.value("capabilities").(map[string]any)
	control, _ := caps["control"].(map[string]any)
	gamut, _ := control["colorgamuttype"].(string)
	if gamut == "other" {
		return ""
	}
	return gamut
}
