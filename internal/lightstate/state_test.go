package lightstate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokzlo13/huemodel/internal/types"
)

func TestState_Payload(t *testing.T) {
	payload, err := New().On().BriPercent(100).CT(366).TransitionTime(1500 * time.Millisecond).Payload()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"on":             true,
		"bri":            254,
		"ct":             366,
		"transitiontime": 15,
	}, payload)
}

func TestState_ColourModesAreExclusive(t *testing.T) {
	s := New().HueDegrees(120).SatPercent(100).XY(0.3, 0.4)
	payload, err := s.Payload()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"xy": []any{0.3, 0.4}}, payload)

	payload, err = s.CTKelvin(2700).Payload()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ct": 370}, payload)

	payload, err = s.RGB(255, 0, 0).Payload()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"hue": 0, "sat": 254, "bri": 127}, payload)
}

func TestState_RGBToXY(t *testing.T) {
	payload, err := New().RGBToXY(255, 0, 0, GamutC).Payload()
	require.NoError(t, err)
	xy := payload["xy"].([]any)
	assert.InDelta(t, 0.6484, xy[0].(float64), 0.001)
	assert.InDelta(t, 0.3309, xy[1].(float64), 0.001)
}

func TestState_StickyError(t *testing.T) {
	s := New().On().Alert("blink").Bri(10)
	assert.ErrorIs(t, s.Err(), types.ErrValidation)

	_, err := s.Payload()
	assert.ErrorIs(t, err, types.ErrValidation)
	assert.Equal(t, 1, s.Len())
}

func TestState_SceneOnlyForGroups(t *testing.T) {
	assert.Error(t, New().Scene("abc").Err())

	payload, err := NewGroup().Scene("k0Vh3RwWqIEjqvf").Payload()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"scene": "k0Vh3RwWqIEjqvf"}, payload)
}

func TestState_Increments(t *testing.T) {
	payload, err := New().BriInc(-300).HueInc(1000).SatInc(20).CTInc(-10).Payload()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"bri_inc": -254, "hue_inc": 1000, "sat_inc": 20, "ct_inc": -10}, payload)
}

func TestFromMap(t *testing.T) {
	s, err := FromMap(map[string]any{"on": true, "bri": 300.0, "effect": "colorloop", "mode": "ignored"})
	require.NoError(t, err)
	payload, err := s.Payload()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"on": true, "bri": 254, "effect": "colorloop"}, payload)

	_, err = FromMap(map[string]any{"effect": "sparkle"})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = GroupFromMap(map[string]any{"scene": "this-scene-id-is-too-long"})
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestState_Decode(t *testing.T) {
	var out struct {
		On  bool      `json:"on"`
		Bri int       `json:"bri"`
		XY  []float64 `json:"xy"`
	}
	require.NoError(t, New().On().Bri(200).XY(0.2, 0.3).Decode(&out))
	assert.True(t, out.On)
	assert.Equal(t, 200, out.Bri)
	assert.Equal(t, []float64{0.2, 0.3}, out.XY)
}
