package script

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokzlo13/huemodel/internal/lightstate"
	"github.com/dokzlo13/huemodel/internal/model"
)

type applied struct {
	kind    model.Kind
	id      any
	payload map[string]any
}

type fakeApplier struct {
	calls []applied
	fail  error
}

func (f *fakeApplier) SetLightState(_ context.Context, ref any, state *lightstate.State) error {
	return f.record(model.KindLight, ref, state)
}

func (f *fakeApplier) SetGroupAction(_ context.Context, ref any, state *lightstate.State) error {
	return f.record(model.KindGroup, ref, state)
}

func (f *fakeApplier) record(kind model.Kind, ref any, state *lightstate.State) error {
	if f.fail != nil {
		return f.fail
	}
	payload, err := state.Payload()
	if err != nil {
		return err
	}
	f.calls = append(f.calls, applied{kind: kind, id: ref, payload: payload})
	return nil
}

func TestRun_BuildsPlan(t *testing.T) {
	plan, err := Run(context.Background(), "evening", `
		local hue = require("hue")
		hue.light(5):on():bri_pct(100):transition(1500)
		hue.group("0"):scene("abc")
		hue.light("5"):ct(366)
		hue.light(7)
	`, Options{})
	require.NoError(t, err)

	steps := plan.Steps()
	require.Len(t, steps, 2, "untouched light 7 is dropped")

	assert.Equal(t, model.KindLight, steps[0].Kind)
	assert.Equal(t, 5, steps[0].ID)
	payload, err := steps[0].State.Payload()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"on": true, "bri": 254, "ct": 366, "transitiontime": 15}, payload)

	assert.Equal(t, model.KindGroup, steps[1].Kind)
	assert.Equal(t, 0, steps[1].ID)
	payload, err = steps[1].State.Payload()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"scene": "abc"}, payload)
}

func TestRun_RGBUsesGamut(t *testing.T) {
	plan, err := Run(context.Background(), "blue", `require("hue").light(1):rgb(0, 0, 255)`, Options{Gamut: lightstate.GamutA})
	require.NoError(t, err)

	steps := plan.Steps()
	require.Len(t, steps, 1)
	payload, err := steps[0].State.Payload()
	require.NoError(t, err)
	x, y := lightstate.RGBToXY(0, 0, 255, lightstate.GamutA)
	assert.Equal(t, []any{x, y}, payload["xy"])
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"syntax", `hue.light(`},
		{"bad light id", `require("hue").light("abc")`},
		{"light id out of range", `require("hue").light(0)`},
		{"bad effect", `require("hue").light(1):effect("sparkle")`},
		{"scene on a light", `require("hue").light(1):scene("abc")`},
		{"runtime error", `error("boom")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(context.Background(), tt.name, tt.source, Options{})
			assert.Error(t, err)
		})
	}
}

func TestRun_Resources(t *testing.T) {
	light, err := model.NewLight(3)
	require.NoError(t, err)
	require.NoError(t, light.SetName("Desk"))

	plan, err := Run(context.Background(), "by-name", `
		local hue = require("hue")
		for _, l in ipairs(hue.resources("light")) do
			hue.info("found light", {name = l.name})
			if l.name == "Desk" then
				hue.light(l.id):off()
			end
		end
	`, Options{Resources: []*model.Entity{light.Entity}})
	require.NoError(t, err)

	steps := plan.Steps()
	require.Len(t, steps, 1)
	assert.Equal(t, 3, steps[0].ID)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, "loop", `while true do end`, Options{})
	assert.Error(t, err)
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "night.lua")
	require.NoError(t, os.WriteFile(path, []byte(`require("hue").group(1):off()`), 0o644))

	plan, err := RunFile(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, plan.Len())

	_, err = RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua"), Options{})
	assert.Error(t, err)
}

func TestPlan_Apply(t *testing.T) {
	plan, err := Run(context.Background(), "apply", `
		local hue = require("hue")
		hue.light(2):on()
		hue.group(4):bri_inc(-20)
	`, Options{})
	require.NoError(t, err)

	applier := &fakeApplier{}
	require.NoError(t, plan.Apply(context.Background(), applier))
	assert.Equal(t, []applied{
		{kind: model.KindLight, id: 2, payload: map[string]any{"on": true}},
		{kind: model.KindGroup, id: 4, payload: map[string]any{"bri_inc": -20}},
	}, applier.calls)

	failing := &fakeApplier{fail: errors.New("bridge down")}
	err = plan.Apply(context.Background(), failing)
	assert.ErrorContains(t, err, "light 2")
}
