package model

import (
	"github.com/goliatone/go-model/pkg/validators"
)

// Schema is the immutable field registry for one model type. Build it once
// with New (or MustNew for declarations), derive subtypes with Extend, and
// share it across every instance; it is never mutated afterwards, so
// concurrent reads are safe.
type Schema struct {
	name      string
	fields    map[string]*Field
	order     []string
	ancestors []*Schema
}

// Schema satisfies the nested-model contract so the Embedded validator can
// check values without a dependency cycle.
var _ validators.NestedModel = (*Schema)(nil)

// New builds a schema from the declared fields. Declaration problems —
// missing names, duplicates, an invalid collection spec — surface here as
// *ConfigurationError.
func New(name string, fields ...*Field) (*Schema, error) {
	if name == "" {
		return nil, configErrorf("schema requires a name")
	}
	schema := &Schema{
		name:   name,
		fields: make(map[string]*Field, len(fields)),
	}
	if err := schema.add(fields); err != nil {
		return nil, err
	}
	return schema, nil
}

// MustNew is New for package-level declarations; it panics on configuration
// errors.
func MustNew(name string, fields ...*Field) *Schema {
	schema, err := New(name, fields...)
	if err != nil {
		panic(err)
	}
	return schema
}

// Extend derives a new schema that unions this schema's fields with the given
// ones. The new declaration wins on a name collision and keeps the parent's
// position; genuinely new fields append in declaration order.
func (s *Schema) Extend(name string, fields ...*Field) (*Schema, error) {
	if name == "" {
		return nil, configErrorf("schema requires a name")
	}
	child := &Schema{
		name:      name,
		fields:    make(map[string]*Field, len(s.fields)+len(fields)),
		order:     append([]string(nil), s.order...),
		ancestors: append([]*Schema{s}, s.ancestors...),
	}
	for fieldName, field := range s.fields {
		child.fields[fieldName] = field
	}
	if err := child.addOrReplace(fields); err != nil {
		return nil, err
	}
	return child, nil
}

// MustExtend is Extend for declarations; it panics on configuration errors.
func (s *Schema) MustExtend(name string, fields ...*Field) *Schema {
	child, err := s.Extend(name, fields...)
	if err != nil {
		panic(err)
	}
	return child
}

func (s *Schema) add(fields []*Field) error {
	for _, field := range fields {
		if err := s.checkField(field); err != nil {
			return err
		}
		if _, exists := s.fields[field.name]; exists {
			return configErrorf("schema %q: duplicate field %q", s.name, field.name)
		}
		s.fields[field.name] = field
		s.order = append(s.order, field.name)
	}
	return nil
}

func (s *Schema) addOrReplace(fields []*Field) error {
	for _, field := range fields {
		if err := s.checkField(field); err != nil {
			return err
		}
		if _, exists := s.fields[field.name]; !exists {
			s.order = append(s.order, field.name)
		}
		s.fields[field.name] = field
	}
	return nil
}

func (s *Schema) checkField(field *Field) error {
	if field == nil {
		return configErrorf("schema %q: nil field", s.name)
	}
	if field.name == "" {
		return configErrorf("schema %q: field requires a name", s.name)
	}
	if field.err != nil {
		return field.err
	}
	return nil
}

// Name returns the model type name.
func (s *Schema) Name() string { return s.name }

// Has reports whether the schema declares the field.
func (s *Schema) Has(name string) bool {
	_, ok := s.fields[name]
	return ok
}

// Field looks up a declared field by name.
func (s *Schema) Field(name string) (*Field, bool) {
	field, ok := s.fields[name]
	return field, ok
}

// FieldNames returns the declared names in order.
func (s *Schema) FieldNames() []string {
	return append([]string(nil), s.order...)
}

// Fields returns the declared fields in order.
func (s *Schema) Fields() []*Field {
	fields := make([]*Field, 0, len(s.order))
	for _, name := range s.order {
		fields = append(fields, s.fields[name])
	}
	return fields
}

// Owns reports whether value is an instance of this schema or of a schema
// that extends it.
func (s *Schema) Owns(value any) bool {
	inst, ok := value.(*Instance)
	if !ok || inst == nil {
		return false
	}
	if inst.schema == s {
		return true
	}
	for _, ancestor := range inst.schema.ancestors {
		if ancestor == s {
			return true
		}
	}
	return false
}

// ValidateValue runs full validation on an owned instance.
func (s *Schema) ValidateValue(value any) error {
	inst, ok := value.(*Instance)
	if !ok {
		return nil
	}
	return inst.Validate()
}
