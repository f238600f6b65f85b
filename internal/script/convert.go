package script

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"
)

// luaToGo converts a Lua value to a Go value. Integral numbers become int.
func luaToGo(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LString:
		return string(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case lua.LBool:
		return bool(val)
	case *lua.LTable:
		// Check if it's an array or object
		isArray := true
		maxIdx := 0
		count := 0
		val.ForEach(func(k, _ lua.LValue) {
			count++
			num, ok := k.(lua.LNumber)
			if !ok || float64(num) < 1 || float64(num) != float64(int(num)) {
				isArray = false
				return
			}
			if idx := int(num); idx > maxIdx {
				maxIdx = idx
			}
		})

		// sparse tables stay maps
		if isArray && maxIdx > 0 && maxIdx <= 2*count {
			arr := make([]any, maxIdx)
			val.ForEach(func(k, v lua.LValue) {
				if num, ok := k.(lua.LNumber); ok && int(num) >= 1 {
					arr[int(num)-1] = luaToGo(v)
				}
			})
			return arr
		}

		obj := make(map[string]any)
		val.ForEach(func(k, v lua.LValue) {
			obj[lua.LVAsString(k)] = luaToGo(v)
		})
		return obj
	case *lua.LNilType:
		return nil
	default:
		return v.String()
	}
}

// goToLua converts validated attribute values to Lua values
func goToLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []any:
		tbl := L.NewTable()
		for i, item := range val {
			tbl.RawSetInt(i+1, goToLua(L, item))
		}
		return tbl
	case map[string]any:
		tbl := L.NewTable()
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			tbl.RawSetString(k, goToLua(L, val[k]))
		}
		return tbl
	default:
		return lua.LString(fmt.Sprintf("%v", v))
	}
}
