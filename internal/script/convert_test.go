package script

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func evalTable(t *testing.T, expr string) any {
	L := lua.NewState()
	defer L.Close()

	require.NoError(t, L.DoString("result = "+expr))
	return luaToGo(L.GetGlobal("result"))
}

func TestLuaToGo_Tables(t *testing.T) {
	assert.Equal(t, []any{1, 2.5, "three"}, evalTable(t, `{1, 2.5, "three"}`))
	assert.Equal(t, map[string]any{"name": "Desk", "on": true}, evalTable(t, `{name = "Desk", on = true}`))
	assert.Equal(t, []any{"a", nil, "c"}, evalTable(t, `{[1] = "a", [3] = "c"}`))
}

func TestLuaToGo_SparseTableStaysMap(t *testing.T) {
	v := evalTable(t, `{[1e9] = 1}`)
	m, ok := v.(map[string]any)
	require.True(t, ok, "got %T", v)
	assert.Len(t, m, 1)

	v = evalTable(t, `{[0.5] = "half", [2] = "two"}`)
	assert.IsType(t, map[string]any{}, v)

	_, err := Run(context.Background(), "sparse", `require("hue").info("sparse", {[1e9] = 1})`, Options{})
	assert.NoError(t, err)
}
