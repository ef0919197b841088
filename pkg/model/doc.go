// Package model implements a declarative schema system: model types are
// explicit registries of typed fields, instances hold per-field values, and
// every model converts between its native in-memory graph and a plain
// JSON/YAML-ready form.
//
// A model type is declared once:
//
//	var Point = model.MustNew("Point",
//		model.Integer("x", model.Required()),
//		model.Integer("y", model.Default(int64(0))),
//	)
//
// and then instantiated, mutated, validated and serialized:
//
//	p, err := Point.NewInstance(map[string]any{"x": 3})
//	if err := p.Validate(); err != nil { ... }
//	data, _ := p.ToJSON() // {"x":3,"y":0}
//
// Fields enforce their rules through the validator chain in pkg/validators,
// assembled per field in a fixed order: Required, In (choices), the type's
// own rules, then caller-supplied rules. Schemas are immutable after
// construction and safe for concurrent reads; instances are not safe for
// concurrent mutation.
package model
