package lightstate

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/dokzlo13/huemodel/internal/types"
)

var lightSchema = types.MustSchema(
	types.NewBoolean("on", types.Optional()),
	types.UInt8("bri", types.Range(MinBrightness, MaxBrightness), types.Optional()),
	types.UInt16("hue", types.Optional()),
	types.UInt8("sat", types.Range(0, MaxSaturation), types.Optional()),
	types.NewList("xy", types.Float("", types.Range(0, 1)), types.Entries(2, 2), types.Optional()),
	types.UInt16("ct", types.Range(153, MaxMireds), types.Optional()),
	types.NewChoice("alert", types.Strings("none", "select", "lselect"), types.Optional()),
	types.NewChoice("effect", types.Strings("none", "colorloop"), types.Optional()),
	types.UInt16("transitiontime", types.Optional()),
	types.Int16("bri_inc", types.Range(-254, 254), types.Optional()),
	types.Int16("sat_inc", types.Range(-254, 254), types.Optional()),
	types.Int32("hue_inc", types.Range(-65534, 65534), types.Optional()),
	types.Int32("ct_inc", types.Range(-65534, 65534), types.Optional()),
)

var groupSchema = lightSchema.Extend(
	types.NewString("scene", types.Length(1, 16), types.Optional()),
)

// colour attributes that select a colour mode; setting one clears the others
var colourModes = map[string][]string{
	"hue": {"xy", "ct"},
	"sat": {"xy", "ct"},
	"xy":  {"hue", "sat", "ct"},
	"ct":  {"hue", "sat", "xy"},
}

// State builds a light state (or group action) payload. Setters chain; the first invalid
// value is kept as the builder error and later setters are ignored.
type State struct {
	schema *types.Schema
	values map[string]any
	err    error
}

// New returns an empty light state.
func New() *State {
	return &State{schema: lightSchema, values: make(map[string]any)}
}

// NewGroup returns an empty group action, which additionally accepts a scene.
func NewGroup() *State {
	return &State{schema: groupSchema, values: make(map[string]any)}
}

// FromMap validates an existing payload into a light state.
func FromMap(payload map[string]any) (*State, error) {
	return fromMap(New(), payload)
}

// GroupFromMap validates an existing payload into a group action.
func GroupFromMap(payload map[string]any) (*State, error) {
	return fromMap(NewGroup(), payload)
}

func fromMap(s *State, payload map[string]any) (*State, error) {
	for _, t := range s.schema.Types() {
		if v, ok := payload[t.Name()]; ok {
			s.set(t.Name(), v)
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s, nil
}

func (s *State) set(name string, raw any) *State {
	if s.err != nil {
		return s
	}
	t, ok := s.schema.Get(name)
	if !ok {
		s.err = fmt.Errorf("attribute %q is not supported by this state", name)
		return s
	}
	v, err := t.Value(raw)
	if err != nil {
		s.err = err
		return s
	}
	for _, other := range colourModes[name] {
		delete(s.values, other)
	}
	if v == nil {
		delete(s.values, name)
	} else {
		s.values[name] = v
	}
	return s
}

func (s *State) On() *State            { return s.set("on", true) }
func (s *State) Off() *State           { return s.set("on", false) }
func (s *State) SetOn(on bool) *State  { return s.set("on", on) }
func (s *State) Bri(bri int) *State    { return s.set("bri", bri) }
func (s *State) Hue(hue int) *State    { return s.set("hue", hue) }
func (s *State) Sat(sat int) *State    { return s.set("sat", sat) }
func (s *State) Alert(a string) *State { return s.set("alert", a) }

func (s *State) Effect(effect string) *State { return s.set("effect", effect) }

// Scene recalls a scene; only group actions accept it.
func (s *State) Scene(id string) *State { return s.set("scene", id) }

func (s *State) BriPercent(pct float64) *State {
	return s.set("bri", BrightnessFromPercent(pct))
}

func (s *State) HueDegrees(deg float64) *State {
	return s.set("hue", HueFromDegrees(deg))
}

func (s *State) SatPercent(pct float64) *State {
	return s.set("sat", SaturationFromPercent(pct))
}

func (s *State) XY(x, y float64) *State {
	cx, cy := ClampXY(x, y)
	return s.set("xy", []any{cx, cy})
}

// CT sets the colour temperature in mireds.
func (s *State) CT(mireds float64) *State {
	return s.set("ct", ColorTempFromMireds(mireds))
}

func (s *State) CTKelvin(kelvin float64) *State {
	return s.set("ct", ColorTempFromKelvin(kelvin))
}

// RGB sets hue, saturation and brightness derived from 8-bit RGB.
func (s *State) RGB(r, g, b int) *State {
	hue, sat, bri := RGBToHueSatBri(r, g, b)
	return s.set("hue", hue).set("sat", sat).set("bri", bri)
}

// RGBToXY sets xy derived from 8-bit RGB within the given lamp gamut.
func (s *State) RGBToXY(r, g, b int, gamut Gamut) *State {
	x, y := RGBToXY(r, g, b, gamut)
	return s.set("xy", []any{x, y})
}

// TransitionTime is rounded down to the bridge's 100ms steps.
func (s *State) TransitionTime(d time.Duration) *State {
	return s.set("transitiontime", int64(d/(100*time.Millisecond)))
}

func (s *State) BriInc(delta int) *State { return s.set("bri_inc", delta) }
func (s *State) SatInc(delta int) *State { return s.set("sat_inc", delta) }
func (s *State) HueInc(delta int) *State { return s.set("hue_inc", delta) }
func (s *State) CTInc(delta int) *State  { return s.set("ct_inc", delta) }

// Err returns the first error recorded by a setter.
func (s *State) Err() error { return s.err }

// Len returns the number of attributes set.
func (s *State) Len() int { return len(s.values) }

// Payload returns the attributes to send to the bridge.
func (s *State) Payload() (map[string]any, error) {
	if s.err != nil {
		return nil, s.err
	}
	return types.CopyMap(s.values), nil
}

// Decode copies the payload into a struct using its json tags.
func (s *State) Decode(out any) error {
	payload, err := s.Payload()
	if err != nil {
		return err
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	return decoder.Decode(payload)
}
