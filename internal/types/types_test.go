package types

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_ClampsIntoRange(t *testing.T) {
	bri := UInt8("bri", Range(1, 254))

	for _, raw := range []any{-1000, -1, 0, 1, 100, 254, 255, 1e9, -3.7, 300.2} {
		v, err := bri.Value(raw)
		require.NoError(t, err)
		n := v.(int)
		assert.GreaterOrEqual(t, n, 1, "raw=%v", raw)
		assert.LessOrEqual(t, n, 254, "raw=%v", raw)
	}

	for _, in := range []int{1, 2, 127, 253, 254} {
		v, err := bri.Value(in)
		require.NoError(t, err)
		assert.Equal(t, in, v)
	}
}

func TestNumber_Truncates(t *testing.T) {
	hue := UInt16("hue")

	v, err := hue.Value(1234.9)
	require.NoError(t, err)
	assert.Equal(t, 1234, v)

	v, err = hue.Value("4000.2")
	require.NoError(t, err)
	assert.Equal(t, 4000, v)

	v, err = hue.Value(json.Number("70000"))
	require.NoError(t, err)
	assert.Equal(t, 65535, v)
}

func TestNumber_FloatKeepsFraction(t *testing.T) {
	x := Float("x", Range(0, 1))

	v, err := x.Value(0.3127)
	require.NoError(t, err)
	assert.Equal(t, 0.3127, v)

	v, err = x.Value(1.5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestNumber_NonNumericUsesDefaultThenMinimum(t *testing.T) {
	withDefault := UInt8("sat", Range(0, 254), Default(100))
	v, err := withDefault.Value("not a number")
	require.NoError(t, err)
	assert.Equal(t, 100, v)

	noDefault := UInt16("ct", Range(153, 500))
	v, err = noDefault.Value(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, 153, v)

	v, err = noDefault.Value(math.NaN())
	require.NoError(t, err)
	assert.Equal(t, 153, v)
}

func TestNumber_MissingValue(t *testing.T) {
	optional := UInt8("bri", Optional())
	v, err := optional.Value(nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	required := Int16("temperature")
	v, err = required.Value(nil)
	require.NoError(t, err)
	assert.Equal(t, math.MinInt16, v)
}

func TestBoolean_Coerces(t *testing.T) {
	on := NewBoolean("on")
	cases := map[any]bool{
		true:    true,
		false:   false,
		1:       true,
		0:       false,
		0.0:     false,
		"true":  true,
		"false": false,
		"yes":   true,
		"":      false,
	}
	for raw, want := range cases {
		v, err := on.Value(raw)
		require.NoError(t, err)
		assert.Equal(t, want, v, "raw=%v", raw)
	}

	_, err := on.Value(nil)
	assert.ErrorIs(t, err, ErrValidation)

	v, err := NewBoolean("recycle", Default(false)).Value(nil)
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

func TestString_Length(t *testing.T) {
	name := NewString("name", Length(1, 32))

	v, err := name.Value("Living room")
	require.NoError(t, err)
	assert.Equal(t, "Living room", v)

	_, err = name.Value("this name is definitely longer than thirty-two runes")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
	assert.Contains(t, ve.Constraint, "exceeds maximum 32")

	_, err = name.Value("")
	assert.ErrorIs(t, err, ErrValidation)

	optional := NewString("description", Length(1, 64), Optional())
	v, err = optional.Value("")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	tooLong := NewString("description", Length(1, 4), Optional())
	_, err = tooLong.Value("longer")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestString_FormatsScalarsAndRejectsContainers(t *testing.T) {
	id := NewString("id")

	v, err := id.Value(12)
	require.NoError(t, err)
	assert.Equal(t, "12", v)

	_, err = id.Value([]any{"a"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestChoice_RejectsUnknownWithoutDefault(t *testing.T) {
	alert := NewChoice("alert", Strings("none", "select", "lselect"))

	v, err := alert.Value("select")
	require.NoError(t, err)
	assert.Equal(t, "select", v)

	for _, raw := range []any{"Select", "blink", 1, true} {
		_, err := alert.Value(raw)
		assert.ErrorIs(t, err, ErrValidation, "raw=%v", raw)
	}
}

func TestChoice_FallsBackToDefault(t *testing.T) {
	effect := NewChoice("effect", Strings("none", "colorloop"), Default("none"))

	v, err := effect.Value("sparkle")
	require.NoError(t, err)
	assert.Equal(t, "none", v)
}

func TestChoice_ComparesNumbersByValue(t *testing.T) {
	version := NewChoice("version", []any{1, 2})

	v, err := version.Value(2.0)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestList_Bounds(t *testing.T) {
	xy := NewList("xy", Float("", Range(0, 1)), Entries(2, 2))

	v, err := xy.Value([]float64{0.2, 1.7})
	require.NoError(t, err)
	assert.Equal(t, []any{0.2, 1.0}, v)

	_, err = xy.Value([]any{0.2})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "xy", ve.Field)

	_, err = xy.Value([]any{0.1, 0.2, 0.3})
	assert.ErrorIs(t, err, ErrValidation)

	optional := NewList("lights", NewString(""), MinEntries(1), Optional())
	v, err = optional.Value([]string{})
	require.NoError(t, err)
	assert.Equal(t, []any{}, v)
}

func TestList_ReportsElementPath(t *testing.T) {
	conditions := NewList("conditions", NewObject("", MustSchema(
		NewString("address", Length(1, 64)),
		NewChoice("operator", Strings("eq", "gt", "lt")),
	)))

	_, err := conditions.Value([]any{
		map[string]any{"address": "/sensors/2/state/buttonevent", "operator": "eq"},
		map[string]any{"address": "/sensors/2/state/lastupdated", "operator": "after"},
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "conditions[1].operator", ve.Field)
}

func TestObject_DropsUnknownKeys(t *testing.T) {
	state := NewObject("state", MustSchema(
		NewBoolean("on"),
		UInt8("bri", Range(1, 254)),
	))

	v, err := state.Value(map[string]any{"on": true, "bri": 300, "mode": "homeautomation"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"on": true, "bri": 254}, v)

	_, err = state.Value("nope")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestObject_NestedErrorPath(t *testing.T) {
	config := NewObject("config", MustSchema(
		NewObject("startup", MustSchema(NewChoice("mode", Strings("safety", "powerfail")))),
	))

	_, err := config.Value(map[string]any{"startup": map[string]any{"mode": "custom"}})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "config.startup.mode", ve.Field)
}

func TestObject_RequiredSubFields(t *testing.T) {
	command := NewObject("command", MustSchema(
		NewString("address", Length(1, 64)),
		NewChoice("method", Strings("POST", "PUT"), Default("PUT")),
		UInt8("retries"),
		NewAnyObject("body", Optional()),
	))

	_, err := command.Value(map[string]any{"method": "POST", "retries": 1})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "command.address", ve.Field)
	assert.Equal(t, "is required", ve.Constraint)

	_, err = command.Value(map[string]any{"address": "/lights/1/state"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "command.retries", ve.Field)

	v, err := command.Value(map[string]any{"address": "/lights/1/state", "retries": 2})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"address": "/lights/1/state", "retries": 2}, v, "defaults stay unemitted")
}

func TestNormalize_WholeNumbersBecomeInt(t *testing.T) {
	body := NewAnyObject("body")

	v, err := body.Value(map[string]any{"bri": 200.0, "xy": []any{0.5, 1.0}, "on": true, "n": json.Number("7")})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"bri": 200, "xy": []any{0.5, 1}, "on": true, "n": 7}, v)
}

func TestObject_FreeFormIsCopied(t *testing.T) {
	body := NewAnyObject("body")
	raw := map[string]any{"on": true, "xy": []float64{0.1, 0.2}}

	v, err := body.Value(raw)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"on": true, "xy": []any{0.1, 0.2}}, v)

	v.(map[string]any)["on"] = false
	assert.Equal(t, true, raw["on"])
}

func TestSchema_RejectsDuplicates(t *testing.T) {
	_, err := NewSchema(NewString("name"), NewString("name"))
	assert.Error(t, err)

	assert.Panics(t, func() { MustSchema(NewString("id"), UInt8("id")) })
}

func TestSchema_ExtendReplacesInPlace(t *testing.T) {
	base := MustSchema(UInt16("id"), NewString("name"), NewString("type"))
	room := base.Extend(NewChoice("type", Strings("Room")), NewString("class"))

	assert.Equal(t, []string{"id", "name", "type", "class"}, room.Names())
	typ, ok := room.Get("type")
	require.True(t, ok)
	assert.Equal(t, KindChoice, typ.Kind())

	assert.Equal(t, 3, base.Len())
	typ, _ = base.Get("type")
	assert.Equal(t, KindString, typ.Kind())
}

func TestValidationError_Is(t *testing.T) {
	err := error(&ValidationError{Field: "bri", Constraint: "out of range"})
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, `invalid value for "bri": out of range`, err.Error())
}
