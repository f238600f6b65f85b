package script

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/huemodel/internal/lightstate"
	"github.com/dokzlo13/huemodel/internal/model"
	"github.com/dokzlo13/huemodel/internal/placeholder"
)

// hueModule backs the "hue" Lua module for a single run.
type hueModule struct {
	plan      *Plan
	gamut     lightstate.Gamut
	resources map[model.Kind][]*model.Entity
}

func newHueModule(plan *Plan, gamut lightstate.Gamut, resources []*model.Entity) *hueModule {
	m := &hueModule{
		plan:      plan,
		gamut:     gamut,
		resources: make(map[model.Kind][]*model.Entity),
	}
	for _, e := range resources {
		m.resources[e.Kind()] = append(m.resources[e.Kind()], e)
	}
	return m
}

// Loader is the module loader for Lua
func (m *hueModule) Loader(L *lua.LState) int {
	mod := L.NewTable()

	L.SetField(mod, "light", L.NewFunction(m.light))
	L.SetField(mod, "group", L.NewFunction(m.group))
	L.SetField(mod, "resources", L.NewFunction(m.listResources))
	L.SetField(mod, "log", L.NewFunction(m.logFunc(zerolog.InfoLevel)))
	L.SetField(mod, "debug", L.NewFunction(m.logFunc(zerolog.DebugLevel)))
	L.SetField(mod, "info", L.NewFunction(m.logFunc(zerolog.InfoLevel)))
	L.SetField(mod, "warn", L.NewFunction(m.logFunc(zerolog.WarnLevel)))
	L.SetField(mod, "error", L.NewFunction(m.logFunc(zerolog.ErrorLevel)))

	L.Push(mod)
	return 1
}

func (m *hueModule) light(L *lua.LState) int {
	return m.builder(L, placeholder.Light)
}

func (m *hueModule) group(L *lua.LState) int {
	return m.builder(L, placeholder.Group)
}

// builder resolves the id argument and pushes the state builder for it.
// Referencing the same light or group twice continues the same state.
func (m *hueModule) builder(L *lua.LState, resolver *placeholder.Resolver) int {
	id, err := resolver.Resolve(luaToGo(L.CheckAny(1)))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	pushStateBuilder(L, m.plan.step(resolver.Kind(), id), m.gamut)
	return 1
}

// listResources returns the wire format of every known resource of a kind.
func (m *hueModule) listResources(L *lua.LState) int {
	kind := model.Kind(L.CheckString(1))
	tbl := L.NewTable()
	for _, e := range m.resources[kind] {
		tbl.Append(goToLua(L, e.WireFormat()))
	}
	L.Push(tbl)
	return 1
}

func (m *hueModule) logFunc(level zerolog.Level) lua.LGFunction {
	return func(L *lua.LState) int {
		msg := L.CheckString(1)
		fields := parseFields(L, 2)

		event := log.WithLevel(level).Str("source", "lua")
		for k, v := range fields {
			event = event.Interface(k, v)
		}
		event.Msg(msg)

		return 0
	}
}

func parseFields(L *lua.LState, argIndex int) map[string]any {
	fields := make(map[string]any)

	tbl, ok := L.Get(argIndex).(*lua.LTable)
	if !ok {
		return fields
	}
	tbl.ForEach(func(key, value lua.LValue) {
		fields[lua.LVAsString(key)] = luaToGo(value)
	})
	return fields
}
