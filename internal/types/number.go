package types

import (
	"math"
)

// Number validates integer and float attributes. Out-of-range values are clamped into
// [Min, Max] rather than rejected; integer kinds truncate toward zero first.
type Number struct {
	base
	min, max float64
	integer  bool
}

func newNumber(name string, kind Kind, integer bool, min, max float64, opts []Option) *Number {
	o := buildOptions(opts)
	if o.min != nil {
		min = *o.min
	}
	if o.max != nil {
		max = *o.max
	}
	n := &Number{min: min, max: max, integer: integer}
	if o.hasDefault {
		if f, ok := ToNumber(o.def); ok {
			o.def = n.coerce(f)
		} else {
			o.hasDefault = false
			o.def = nil
		}
	}
	n.base = newBase(name, kind, o)
	return n
}

// UInt8 creates an unsigned 8-bit attribute, [0,255] unless overridden.
func UInt8(name string, opts ...Option) *Number {
	return newNumber(name, KindUint, true, 0, math.MaxUint8, opts)
}

// UInt16 creates an unsigned 16-bit attribute, [0,65535] unless overridden.
func UInt16(name string, opts ...Option) *Number {
	return newNumber(name, KindUint, true, 0, math.MaxUint16, opts)
}

// Int8 creates a signed 8-bit attribute.
func Int8(name string, opts ...Option) *Number {
	return newNumber(name, KindInt, true, math.MinInt8, math.MaxInt8, opts)
}

// Int16 creates a signed 16-bit attribute.
func Int16(name string, opts ...Option) *Number {
	return newNumber(name, KindInt, true, math.MinInt16, math.MaxInt16, opts)
}

// Int32 creates a signed 32-bit attribute.
func Int32(name string, opts ...Option) *Number {
	return newNumber(name, KindInt, true, math.MinInt32, math.MaxInt32, opts)
}

// Float creates a float attribute. Without Range it is unbounded.
func Float(name string, opts ...Option) *Number {
	return newNumber(name, KindFloat, false, -math.MaxFloat64, math.MaxFloat64, opts)
}

// Min returns the inclusive lower bound.
func (t *Number) Min() float64 { return t.min }

// Max returns the inclusive upper bound.
func (t *Number) Max() float64 { return t.max }

// IsInteger reports whether values are truncated to integers.
func (t *Number) IsInteger() bool { return t.integer }

// InRange reports whether f lies within [Min, Max].
func (t *Number) InRange(f float64) bool {
	return f >= t.min && f <= t.max
}

// Value implements Type.
func (t *Number) Value(raw any) (any, error) {
	if raw == nil {
		if t.hasDefault || t.optional {
			return t.missing()
		}
		return t.coerce(t.min), nil
	}
	f, ok := ToNumber(raw)
	if !ok {
		if t.hasDefault {
			return t.Default(), nil
		}
		return t.coerce(t.min), nil
	}
	return t.coerce(f), nil
}

func (t *Number) coerce(f float64) any {
	if t.integer {
		f = math.Trunc(f)
	}
	if f < t.min {
		f = t.min
	}
	if f > t.max {
		f = t.max
	}
	if t.integer {
		return int(f)
	}
	return f
}
