package model

import (
	"github.com/goliatone/go-model/pkg/validators"
)

// FieldType is the enumeration of field kinds a schema can declare.
type FieldType string

const (
	FieldTypeString   FieldType = "string"
	FieldTypeInteger  FieldType = "integer"
	FieldTypeFloat    FieldType = "float"
	FieldTypeBoolean  FieldType = "boolean"
	FieldTypeEmail    FieldType = "email"
	FieldTypeDateTime FieldType = "datetime"
	FieldTypeEmbedded FieldType = "embedded"
	FieldTypeList     FieldType = "list"
	FieldTypeDict     FieldType = "dict"
)

// Field describes one named attribute of a model: its default, whether a
// value is required, the allowed choices, and the validator chain run by
// Instance.Validate. Fields are built once by the typed constructors in this
// package and are immutable afterwards; a schema owns its fields and shares
// them across every instance.
//
// The validator chain is assembled in a fixed order: Required, In,
// type-specific rules, then caller-supplied rules. Only the first failing
// rule is reported, so the order decides which message surfaces.
type Field struct {
	name     string
	typ      FieldType
	def      any
	required bool
	choices  []any
	chain    []validators.Validator

	toPlain  func(any) (any, error)
	toNative func(any) (any, error)
	coerce   func(any) (any, error)

	// err carries a deferred configuration problem; schema construction
	// surfaces it so field declarations stay expression-shaped.
	err error
}

// Name returns the field name assigned at declaration.
func (f *Field) Name() string { return f.name }

// Type returns the field kind.
func (f *Field) Type() FieldType { return f.typ }

// Default returns the declared default value, nil when none was given.
func (f *Field) Default() any { return f.def }

// Required reports whether the field must hold a value to validate.
func (f *Field) Required() bool { return f.required }

// Choices returns the declared choice set, nil when unrestricted.
func (f *Field) Choices() []any {
	if len(f.choices) == 0 {
		return nil
	}
	return append([]any(nil), f.choices...)
}

// Validators returns a copy of the assembled validator chain.
func (f *Field) Validators() []validators.Validator {
	return append([]validators.Validator(nil), f.chain...)
}

// Validate runs the field's validator chain against value and returns the
// first failure.
func (f *Field) Validate(value any) error {
	for _, rule := range f.chain {
		if err := rule.Validate(value); err != nil {
			return err
		}
	}
	return nil
}

// ToPlain converts a native value to its plain (JSON/YAML-ready) form.
func (f *Field) ToPlain(value any) (any, error) {
	if f.toPlain == nil {
		return value, nil
	}
	return f.toPlain(value)
}

// ToNative converts a plain value back to the in-memory form.
func (f *Field) ToNative(value any) (any, error) {
	if f.toNative == nil {
		return value, nil
	}
	return f.toNative(value)
}

// write runs the field's assignment-time coercion, if any. Conversion
// failures surface immediately as *ConversionError rather than waiting for
// Validate.
func (f *Field) write(value any) (any, error) {
	if f.coerce == nil {
		return value, nil
	}
	return f.coerce(value)
}

// Option configures a field declaration.
type Option func(*fieldConfig)

type fieldConfig struct {
	def      any
	required bool
	choices  []any
	rules    []validators.Validator
	min      *float64
	max      *float64
	layout   string
	sanitize bool
	keySpec  ElementSpec
	valSpec  ElementSpec
}

// Default declares the value unset fields read as.
func Default(value any) Option {
	return func(cfg *fieldConfig) { cfg.def = value }
}

// Required marks the field as mandatory; Validate fails while it is unset.
func Required() Option {
	return func(cfg *fieldConfig) { cfg.required = true }
}

// Choices restricts the field to the given values.
func Choices(values ...any) Option {
	return func(cfg *fieldConfig) { cfg.choices = append(cfg.choices, values...) }
}

// Rules appends caller-supplied validators after the builtin ones.
func Rules(rules ...validators.Validator) Option {
	return func(cfg *fieldConfig) { cfg.rules = append(cfg.rules, rules...) }
}

// Min adds a lower numeric bound to Integer and Float fields.
func Min(bound float64) Option {
	return func(cfg *fieldConfig) { cfg.min = &bound }
}

// Max adds an upper numeric bound to Integer and Float fields.
func Max(bound float64) Option {
	return func(cfg *fieldConfig) { cfg.max = &bound }
}

// Layout sets the time layout a DateTime field uses for its plain form.
func Layout(layout string) Option {
	return func(cfg *fieldConfig) { cfg.layout = layout }
}

// Sanitized strips markup from String field values at assignment time.
func Sanitized() Option {
	return func(cfg *fieldConfig) { cfg.sanitize = true }
}

// Keys sets the element spec Dict fields apply to mapping keys.
func Keys(spec ElementSpec) Option {
	return func(cfg *fieldConfig) { cfg.keySpec = spec }
}

// Values sets the element spec Dict fields apply to mapping values.
func Values(spec ElementSpec) Option {
	return func(cfg *fieldConfig) { cfg.valSpec = spec }
}

func applyOptions(options []Option) fieldConfig {
	var cfg fieldConfig
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// newField assembles the shared portion of every field: identity, default,
// and the Required/In prefix of the validator chain. Type-specific rules are
// appended by the typed constructors before the caller's own rules.
func newField(name string, typ FieldType, cfg fieldConfig, typed ...validators.Validator) *Field {
	field := &Field{
		name:     name,
		typ:      typ,
		def:      cfg.def,
		required: cfg.required,
		choices:  cfg.choices,
	}
	if cfg.required {
		field.chain = append(field.chain, validators.Required{})
	}
	if len(cfg.choices) > 0 {
		field.chain = append(field.chain, validators.In{Choices: cfg.choices})
	}
	field.chain = append(field.chain, typed...)
	field.chain = append(field.chain, cfg.rules...)
	return field
}
