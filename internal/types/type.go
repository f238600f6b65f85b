// Package types provides the attribute validators used to describe Hue bridge resources.
//
// Each Type validates and coerces one raw value taken from a bridge payload or from a caller.
// Numeric types clamp out-of-range input the way the bridge itself tolerates it, while strings,
// choices and lists reject values that break their constraints.
package types

// Kind identifies the primitive shape a Type validates.
type Kind string

const (
	KindBoolean Kind = "boolean"
	KindInt     Kind = "int"
	KindUint    Kind = "uint"
	KindFloat   Kind = "float"
	KindString  Kind = "string"
	KindChoice  Kind = "choice"
	KindList    Kind = "list"
	KindObject  Kind = "object"
)

// Type validates a single named attribute.
type Type interface {
	Name() string
	Kind() Kind
	Optional() bool
	HasDefault() bool
	// Default returns the default value, or nil when none is defined.
	Default() any
	// Value validates and coerces raw.
	Value(raw any) (any, error)
}

// Option configures a Type at construction time.
type Option func(*options)

type options struct {
	optional   bool
	def        any
	hasDefault bool

	min, max *float64

	minLength, maxLength *int

	minEntries, maxEntries *int
}

// Optional marks the attribute as optional.
func Optional() Option {
	return func(o *options) { o.optional = true }
}

// Default sets the value used when the raw value is missing or unusable.
func Default(v any) Option {
	return func(o *options) {
		o.def = v
		o.hasDefault = true
	}
}

// Min overrides the lower bound of a numeric type.
func Min(v float64) Option {
	return func(o *options) { o.min = &v }
}

// Max overrides the upper bound of a numeric type.
func Max(v float64) Option {
	return func(o *options) { o.max = &v }
}

// Range overrides both bounds of a numeric type.
func Range(min, max float64) Option {
	return func(o *options) {
		o.min = &min
		o.max = &max
	}
}

// MinLength sets the minimum string length.
func MinLength(n int) Option {
	return func(o *options) { o.minLength = &n }
}

// MaxLength sets the maximum string length.
func MaxLength(n int) Option {
	return func(o *options) { o.maxLength = &n }
}

// Length sets both string length bounds.
func Length(min, max int) Option {
	return func(o *options) {
		o.minLength = &min
		o.maxLength = &max
	}
}

// MinEntries sets the minimum number of list entries.
func MinEntries(n int) Option {
	return func(o *options) { o.minEntries = &n }
}

// MaxEntries sets the maximum number of list entries.
func MaxEntries(n int) Option {
	return func(o *options) { o.maxEntries = &n }
}

// Entries sets both list size bounds.
func Entries(min, max int) Option {
	return func(o *options) {
		o.minEntries = &min
		o.maxEntries = &max
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// base holds what every Type shares.
type base struct {
	name       string
	kind       Kind
	optional   bool
	def        any
	hasDefault bool
}

func newBase(name string, kind Kind, o options) base {
	return base{
		name:       name,
		kind:       kind,
		optional:   o.optional,
		def:        o.def,
		hasDefault: o.hasDefault,
	}
}

func (b base) Name() string     { return b.name }
func (b base) Kind() Kind       { return b.kind }
func (b base) Optional() bool   { return b.optional }
func (b base) HasDefault() bool { return b.hasDefault }

func (b base) Default() any {
	if !b.hasDefault {
		return nil
	}
	return Copy(b.def)
}

// missing resolves a nil raw value: the default, nil for optional attributes, or an error.
func (b base) missing() (any, error) {
	if b.hasDefault {
		return Copy(b.def), nil
	}
	if b.optional {
		return nil, nil
	}
	return nil, newValidationError(b.name, "no value provided and attribute is not optional", nil)
}
