package model

import (
	"github.com/dokzlo13/huemodel/internal/types"
)

const (
	TagCLIPOpenClose     = "clipopenclose"
	TagCLIPPresence      = "clippresence"
	TagCLIPGenericFlag   = "clipgenericflag"
	TagCLIPGenericStatus = "clipgenericstatus"
	TagCLIPHumidity      = "cliphumidity"
	TagCLIPLightLevel    = "cliplightlevel"
	TagCLIPSwitch        = "clipswitch"
	TagCLIPTemperature   = "cliptemperature"
	TagZLLSwitch         = "zllswitch"
	TagZLLPresence       = "zllpresence"
	TagZLLTemperature    = "zlltemperature"
	TagZLLLightLevel     = "zlllightlevel"
	TagZGPSwitch         = "zgpswitch"
	TagDaylight          = "daylight"
)

var sensorStateSchema = types.MustSchema(
	types.NewString("lastupdated", types.Optional()),
)

var sensorConfigSchema = types.MustSchema(
	types.NewBoolean("on", types.Default(true)),
	types.NewBoolean("reachable", types.Optional()),
	types.UInt8("battery", types.Range(0, 100), types.Optional()),
	types.NewString("url", types.Length(0, 64), types.Optional()),
	types.NewChoice("alert", alertValues, types.Optional()),
	types.NewList("pending", types.NewString(""), types.Optional()),
)

var sensorSchema = types.MustSchema(
	types.UInt16("id", types.Range(1, 65535)),
	types.NewString("name", types.Length(0, 32), types.Optional()),
	types.NewString("type", types.Optional()),
	types.NewString("modelid", types.Length(0, 32), types.Optional()),
	types.NewString("manufacturername", types.Length(0, 32), types.Optional()),
	types.NewString("productname", types.Optional()),
	types.NewString("swversion", types.Length(0, 16), types.Optional()),
	types.NewString("uniqueid", types.Length(0, 32), types.Optional()),
	types.NewBoolean("recycle", types.Optional()),
	types.NewObject("state", sensorStateSchema, types.Optional()),
	types.NewObject("config", sensorConfigSchema, types.Optional()),
	types.NewAnyObject("capabilities", types.Optional()),
)

// sensorAttributes groups the per-type additions to a sensor's state and config.
type sensorAttributes struct {
	state  []types.Type
	config []types.Type
}

func sensorDefinition(tag, typeName string, attrs sensorAttributes) Definition {
	return Definition{
		Tag:     tag,
		Kind:    KindSensor,
		Version: 1,
		Schema: sensorSchema.Extend(
			types.NewChoice("type", types.Strings(typeName), types.Default(typeName)),
			types.NewObject("state", sensorStateSchema.Extend(attrs.state...), types.Optional()),
			types.NewObject("config", sensorConfigSchema.Extend(attrs.config...), types.Optional()),
		),
		Identified: true,
	}
}

func lightLevelState() []types.Type {
	return []types.Type{
		types.UInt16("lightlevel", types.Optional()),
		types.NewBoolean("dark", types.Optional()),
		types.NewBoolean("daylight", types.Optional()),
	}
}

func lightLevelConfig() []types.Type {
	return []types.Type{
		types.UInt16("tholddark", types.Optional()),
		types.UInt16("tholdoffset", types.Range(1, 65535), types.Optional()),
	}
}

func zllConfig(extra ...types.Type) []types.Type {
	return append([]types.Type{
		types.NewBoolean("ledindication", types.Optional()),
		types.NewBoolean("usertest", types.Optional()),
	}, extra...)
}

var sensorDefinitions = []Definition{
	sensorDefinition(TagCLIPOpenClose, "CLIPOpenClose", sensorAttributes{
		state: []types.Type{types.NewBoolean("open", types.Optional())},
	}),
	sensorDefinition(TagCLIPPresence, "CLIPPresence", sensorAttributes{
		state: []types.Type{types.NewBoolean("presence", types.Optional())},
	}),
	sensorDefinition(TagCLIPGenericFlag, "CLIPGenericFlag", sensorAttributes{
		state: []types.Type{types.NewBoolean("flag", types.Optional())},
	}),
	sensorDefinition(TagCLIPGenericStatus, "CLIPGenericStatus", sensorAttributes{
		state: []types.Type{types.Int32("status", types.Optional())},
	}),
	sensorDefinition(TagCLIPHumidity, "CLIPHumidity", sensorAttributes{
		state: []types.Type{types.UInt16("humidity", types.Range(0, 10000), types.Optional())},
	}),
	sensorDefinition(TagCLIPLightLevel, "CLIPLightLevel", sensorAttributes{
		state:  lightLevelState(),
		config: lightLevelConfig(),
	}),
	sensorDefinition(TagCLIPSwitch, "CLIPSwitch", sensorAttributes{
		state: []types.Type{types.Int32("buttonevent", types.Optional())},
	}),
	sensorDefinition(TagCLIPTemperature, "CLIPTemperature", sensorAttributes{
		state: []types.Type{types.Int32("temperature", types.Optional())},
	}),
	sensorDefinition(TagZLLSwitch, "ZLLSwitch", sensorAttributes{
		state: []types.Type{types.Int32("buttonevent", types.Optional())},
	}),
	sensorDefinition(TagZLLPresence, "ZLLPresence", sensorAttributes{
		state: []types.Type{types.NewBoolean("presence", types.Optional())},
		config: zllConfig(
			types.UInt8("sensitivity", types.Optional()),
			types.UInt8("sensitivitymax", types.Optional()),
		),
	}),
	sensorDefinition(TagZLLTemperature, "ZLLTemperature", sensorAttributes{
		state:  []types.Type{types.Int32("temperature", types.Optional())},
		config: zllConfig(),
	}),
	sensorDefinition(TagZLLLightLevel, "ZLLLightLevel", sensorAttributes{
		state:  lightLevelState(),
		config: zllConfig(lightLevelConfig()...),
	}),
	sensorDefinition(TagZGPSwitch, "ZGPSwitch", sensorAttributes{
		state: []types.Type{types.Int32("buttonevent", types.Optional())},
	}),
	sensorDefinition(TagDaylight, "Daylight", sensorAttributes{
		state: []types.Type{types.NewBoolean("daylight", types.Optional())},
		config: []types.Type{
			types.NewBoolean("configured", types.Optional()),
			types.NewString("long", types.Optional()),
			types.NewString("lat", types.Optional()),
			types.Int8("sunriseoffset", types.Range(-120, 120), types.Optional()),
			types.Int8("sunsetoffset", types.Range(-120, 120), types.Optional()),
		},
	}),
}

// Sensor is the typed view shared by every sensor type.
type Sensor struct {
	*Entity
}

func AsSensor(e *Entity) (*Sensor, bool) {
	if e == nil || e.Kind() != KindSensor {
		return nil, false
	}
	return &Sensor{Entity: e}, true
}

func (s *Sensor) Name() string { return s.stringValue("name") }

// Type returns the bridge sensor type, e.g. "ZLLPresence".
func (s *Sensor) Type() string { return s.stringValue("type") }

// State returns the reported sensor state.
func (s *Sensor) State() map[string]any {
	state, _ := s.value("state").(map[string]any)
	return state
}

// Config returns the sensor configuration.
func (s *Sensor) Config() map[string]any {
	config, _ := s.value("config").(map[string]any)
	return config
}

// Battery returns the battery level and whether the sensor reports one.
func (s *Sensor) Battery() (int, bool) {
	level, ok := s.Config()["battery"].(int)
	return level, ok
}

// SetState validates and stores a single state attribute, keeping the others.
func (s *Sensor) SetState(name string, value any) error {
	state := s.State()
	if state == nil {
		state = make(map[string]any)
	}
	state[name] = value
	return s.Set("state", state)
}
