package script

import (
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/huemodel/internal/lightstate"
)

const stateBuilderTypeName = "hue.state"

// stateBuilder is the userdata behind hue.light(id) and hue.group(id).
type stateBuilder struct {
	step  *Step
	gamut lightstate.Gamut
}

// registerStateBuilderType registers the hue.state metatable.
func registerStateBuilderType(L *lua.LState) {
	mt := L.NewTypeMetatable(stateBuilderTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), stateBuilderMethods))
	L.SetField(mt, "__tostring", L.NewFunction(builderToString))
}

var stateBuilderMethods = map[string]lua.LGFunction{
	"on":         builderOn,
	"off":        builderOff,
	"bri":        builderBri,
	"bri_pct":    builderBriPercent,
	"hue":        builderHue,
	"hue_deg":    builderHueDegrees,
	"sat":        builderSat,
	"sat_pct":    builderSatPercent,
	"xy":         builderXY,
	"ct":         builderCT,
	"kelvin":     builderKelvin,
	"rgb":        builderRGB,
	"alert":      builderAlert,
	"effect":     builderEffect,
	"transition": builderTransition,
	"scene":      builderScene,
	"bri_inc":    builderBriInc,
	"sat_inc":    builderSatInc,
	"hue_inc":    builderHueInc,
	"ct_inc":     builderCTInc,
	"payload":    builderPayload,
}

func pushStateBuilder(L *lua.LState, step *Step, gamut lightstate.Gamut) {
	ud := L.NewUserData()
	ud.Value = &stateBuilder{step: step, gamut: gamut}
	L.SetMetatable(ud, L.GetTypeMetatable(stateBuilderTypeName))
	L.Push(ud)
}

func checkStateBuilder(L *lua.LState) (*stateBuilder, *lua.LUserData) {
	ud := L.CheckUserData(1)
	if v, ok := ud.Value.(*stateBuilder); ok {
		return v, ud
	}
	L.ArgError(1, "hue.state expected")
	return nil, nil
}

// chain applies fn to the builder state, raises the first validation error
// and returns the builder for chaining.
func chain(L *lua.LState, fn func(b *stateBuilder, s *lightstate.State)) int {
	b, ud := checkStateBuilder(L)
	fn(b, b.step.State)
	if err := b.step.State.Err(); err != nil {
		L.RaiseError("%s: %v", b.step, err)
		return 0
	}
	L.Push(ud)
	return 1
}

func builderOn(L *lua.LState) int {
	return chain(L, func(_ *stateBuilder, s *lightstate.State) { s.On() })
}

func builderOff(L *lua.LState) int {
	return chain(L, func(_ *stateBuilder, s *lightstate.State) { s.Off() })
}

func builderBri(L *lua.LState) int {
	bri := L.CheckInt(2)
	return chain(L, func(_ *stateBuilder, s *lightstate.State) { s.Bri(bri) })
}

func builderBriPercent(L *lua.LState) int {
	pct := float64(L.CheckNumber(2))
	return chain(L, func(_ *stateBuilder, s *lightstate.State) { s.BriPercent(pct) })
}

func builderHue(L *lua.LState) int {
	hue := L.CheckInt(2)
	return chain(L, func(_ *stateBuilder, s *lightstate.State) { s.Hue(hue) })
}

func builderHueDegrees(L *lua.LState) int {
	deg := float64(L.CheckNumber(2))
	return chain(L, func(_ *stateBuilder, s *lightstate.State) { s.HueDegrees(deg) })
}

func builderSat(L *lua.LState) int {
	sat := L.CheckInt(2)
	return chain(L, func(_ *stateBuilder, s *lightstate.State) { s.Sat(sat) })
}

func builderSatPercent(L *lua.LState) int {
	pct := float64(L.CheckNumber(2))
	return chain(L, func(_ *stateBuilder, s *lightstate.State) { s.SatPercent(pct) })
}

func builderXY(L *lua.LState) int {
	x := float64(L.CheckNumber(2))
	y := float64(L.CheckNumber(3))
	return chain(L, func(_ *stateBuilder, s *lightstate.State) { s.XY(x, y) })
}

// builderCT takes mireds
func builderCT(L *lua.LState) int {
	ct := float64(L.CheckNumber(2))
	return chain(L, func(_ *stateBuilder, s *lightstate.State) { s.CT(ct) })
}

func builderKelvin(L *lua.LState) int {
	k := float64(L.CheckNumber(2))
	return chain(L, func(_ *stateBuilder, s *lightstate.State) { s.CTKelvin(k) })
}

// builderRGB converts to xy within the configured gamut.
func builderRGB(L *lua.LState) int {
	r := L.CheckInt(2)
	g := L.CheckInt(3)
	bl := L.CheckInt(4)
	return chain(L, func(b *stateBuilder, s *lightstate.State) { s.RGBToXY(r, g, bl, b.gamut) })
}

func builderAlert(L *lua.LState) int {
	alert := L.OptString(2, "select")
	return chain(L, func(_ *stateBuilder, s *lightstate.State) { s.Alert(alert) })
}

func builderEffect(L *lua.LState) int {
	effect := L.CheckString(2)
	return chain(L, func(_ *stateBuilder, s *lightstate.State) { s.Effect(effect) })
}

// builderTransition takes milliseconds
func builderTransition(L *lua.LState) int {
	ms := L.CheckInt(2)
	return chain(L, func(_ *stateBuilder, s *lightstate.State) {
		s.TransitionTime(time.Duration(ms) * time.Millisecond)
	})
}

func builderScene(L *lua.LState) int {
	scene := L.CheckString(2)
	return chain(L, func(_ *stateBuilder, s *lightstate.State) { s.Scene(scene) })
}

func builderBriInc(L *lua.LState) int {
	delta := L.CheckInt(2)
	return chain(L, func(_ *stateBuilder, s *lightstate.State) { s.BriInc(delta) })
}

func builderSatInc(L *lua.LState) int {
	delta := L.CheckInt(2)
	return chain(L, func(_ *stateBuilder, s *lightstate.State) { s.SatInc(delta) })
}

func builderHueInc(L *lua.LState) int {
	delta := L.CheckInt(2)
	return chain(L, func(_ *stateBuilder, s *lightstate.State) { s.HueInc(delta) })
}

func builderCTInc(L *lua.LState) int {
	delta := L.CheckInt(2)
	return chain(L, func(_ *stateBuilder, s *lightstate.State) { s.CTInc(delta) })
}

// builderPayload returns the accumulated state as a table.
func builderPayload(L *lua.LState) int {
	b, _ := checkStateBuilder(L)
	payload, err := b.step.State.Payload()
	if err != nil {
		L.RaiseError("%s: %v", b.step, err)
		return 0
	}
	L.Push(goToLua(L, payload))
	return 1
}

func builderToString(L *lua.LState) int {
	b, _ := checkStateBuilder(L)
	L.Push(lua.LString(b.step.String()))
	return 1
}
