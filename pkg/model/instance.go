package model

import (
	"fmt"
)

// Instance holds the per-field values of one model. It references its schema
// and stores only values that were actually written; unset fields read as the
// field's default. Instances are not safe for concurrent mutation.
type Instance struct {
	schema *Schema
	values map[string]any
}

// Blank returns an empty instance of the schema.
func (s *Schema) Blank() *Instance {
	return &Instance{schema: s, values: make(map[string]any)}
}

// NewInstance constructs an instance from the given field values. An
// undeclared name fails with *FieldError; every value goes through the
// field's write path, so assignment-time coercions fire here.
func (s *Schema) NewInstance(values map[string]any) (*Instance, error) {
	inst := s.Blank()
	for name, value := range values {
		if err := inst.Set(name, value); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// Schema returns the schema this instance belongs to.
func (i *Instance) Schema() *Schema { return i.schema }

// Get reads the current value of a declared field, falling back to the
// field's default while unset.
func (i *Instance) Get(name string) (any, error) {
	field, ok := i.schema.fields[name]
	if !ok {
		return nil, &FieldError{Schema: i.schema.name, Field: name}
	}
	if value, ok := i.values[name]; ok {
		return value, nil
	}
	return field.def, nil
}

// Set writes a declared field through the field's coercion path.
func (i *Instance) Set(name string, value any) error {
	field, ok := i.schema.fields[name]
	if !ok {
		return &FieldError{Schema: i.schema.name, Field: name}
	}
	written, err := field.write(value)
	if err != nil {
		return err
	}
	i.values[name] = written
	return nil
}

// Update merges values into the instance. Undeclared keys are skipped
// silently; partial payloads are the expected input. When the current value
// of a key is itself a model instance and the incoming value is a plain map,
// the nested instance is updated in place rather than replaced. Otherwise the
// incoming value is converted with the field's ToNative when plain is true,
// or written raw when plain is false.
func (i *Instance) Update(values map[string]any, plain bool) error {
	for name, incoming := range values {
		field, ok := i.schema.fields[name]
		if !ok {
			continue
		}
		current, _ := i.Get(name)
		if nested, ok := current.(*Instance); ok && nested != nil {
			if plainMap, ok := incoming.(map[string]any); ok {
				if err := nested.Update(plainMap, plain); err != nil {
					return err
				}
				i.values[name] = nested
				continue
			}
		}
		if plain {
			native, err := field.ToNative(incoming)
			if err != nil {
				return err
			}
			if err := i.Set(name, native); err != nil {
				return err
			}
			continue
		}
		if err := i.Set(name, incoming); err != nil {
			return err
		}
	}
	return nil
}

// Validate runs every field's validator chain against the field's effective
// value and reports the first failure, wrapped with the field name.
func (i *Instance) Validate() error {
	for _, name := range i.schema.order {
		value, _ := i.Get(name)
		if err := i.schema.fields[name].Validate(value); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}
	return nil
}

// ToDict returns the native values keyed by field name, recursing into
// nested model instances.
func (i *Instance) ToDict() map[string]any {
	out := make(map[string]any, len(i.schema.order))
	for _, name := range i.schema.order {
		value, _ := i.Get(name)
		if nested, ok := value.(*Instance); ok {
			out[name] = nested.ToDict()
			continue
		}
		out[name] = value
	}
	return out
}

// ToPlain converts every declared field to its plain form.
func (i *Instance) ToPlain() (map[string]any, error) {
	out := make(map[string]any, len(i.schema.order))
	for _, name := range i.schema.order {
		value, _ := i.Get(name)
		plain, err := i.schema.fields[name].ToPlain(value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		out[name] = plain
	}
	return out, nil
}

// FromPlain builds an instance from a plain mapping, converting each value
// through the field's ToNative.
func (s *Schema) FromPlain(values map[string]any) (*Instance, error) {
	inst := s.Blank()
	if err := inst.Update(values, true); err != nil {
		return nil, err
	}
	return inst, nil
}
