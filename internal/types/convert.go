package types

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// ToNumber converts Go numbers, json.Number and numeric strings to float64.
// It reports false for anything else, including NaN.
func ToNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case float32:
		f = float64(n)
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// ToInteger is the strict form of ToNumber used for identifiers: only whole numbers qualify.
func ToInteger(v any) (int, bool) {
	if s, ok := v.(string); ok {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		return n, err == nil
	}
	f, ok := ToNumber(v)
	if !ok || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// Copy deep-copies the maps and slices produced by the validators.
func Copy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Copy(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Copy(item)
		}
		return out
	default:
		return v
	}
}

// CopyMap deep-copies a payload map.
func CopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return Copy(m).(map[string]any)
}

// Equal compares two validated values, treating numbers of different Go types as equal
// when they hold the same value.
func Equal(a, b any) bool {
	fa, aNum := ToNumber(a)
	fb, bNum := ToNumber(b)
	_, aStr := a.(string)
	_, bStr := b.(string)
	if aNum && bNum && !aStr && !bStr {
		return fa == fb
	}
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, item := range av {
			other, ok := bv[k]
			if !ok || !Equal(item, other) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// toSlice accepts any Go slice or array and returns its elements.
func toSlice(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// toMap accepts any map keyed by strings.
func toMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	m := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		m[iter.Key().String()] = iter.Value().Interface()
	}
	return m, true
}

// normalize turns arbitrary Go containers into the []any / map[string]any shapes the
// validators produce, and numbers into int or float64, so free-form values compare and
// marshal the same way.
func normalize(v any) any {
	if v == nil {
		return nil
	}
	if _, isString := v.(string); isString {
		return v
	}
	if m, ok := toMap(v); ok {
		out := make(map[string]any, len(m))
		for k, item := range m {
			out[k] = normalize(item)
		}
		return out
	}
	if items, ok := toSlice(v); ok {
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = normalize(item)
		}
		return out
	}
	if _, isBool := v.(bool); isBool {
		return v
	}
	if f, ok := ToNumber(v); ok {
		return normalizeNumber(f)
	}
	return v
}

// maxExactInt is the largest integer a float64 holds exactly.
const maxExactInt = 1 << 53

// normalizeNumber gives whole numbers the int representation the numeric types use,
// so a value read back from JSON equals the one that was stored.
func normalizeNumber(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) <= maxExactInt {
		return int(f)
	}
	return f
}
