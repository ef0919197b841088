package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-model/pkg/model"
	"github.com/goliatone/go-model/pkg/validators"
)

// Derive builds the model schema declared by the named component of an
// OpenAPI document. Property types map onto the typed fields of pkg/model;
// nested objects become embedded models and recurse.
func Derive(ctx context.Context, doc Document, component string) (*model.Schema, error) {
	spec, err := parse(ctx, doc)
	if err != nil {
		return nil, err
	}
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return nil, errors.New("openapi adapter: document declares no component schemas")
	}
	ref, ok := spec.Components.Schemas[component]
	if !ok {
		return nil, fmt.Errorf("openapi adapter: unknown component schema %q", component)
	}
	return buildSchema(component, ref)
}

// Components lists the component schema names available in the document,
// sorted for deterministic display.
func Components(ctx context.Context, doc Document) ([]string, error) {
	spec, err := parse(ctx, doc)
	if err != nil {
		return nil, err
	}
	if spec.Components == nil {
		return nil, nil
	}
	names := make([]string, 0, len(spec.Components.Schemas))
	for name := range spec.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func parse(ctx context.Context, doc Document) (*openapi3.T, error) {
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi adapter: document payload is empty")
	}
	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: true,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi adapter: load document: %w", err)
	}
	// Validation resolves internal $ref pointers.
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi adapter: validate: %w", err)
	}
	return spec, nil
}

func buildSchema(name string, ref *openapi3.SchemaRef) (*model.Schema, error) {
	if ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi adapter: schema %q is unresolved", name)
	}
	src := ref.Value
	if typ := firstType(src.Type); typ != "" && typ != "object" {
		return nil, fmt.Errorf("openapi adapter: schema %q has type %q, want object", name, typ)
	}

	required := make(map[string]bool, len(src.Required))
	for _, propName := range src.Required {
		required[propName] = true
	}

	propNames := make([]string, 0, len(src.Properties))
	for propName := range src.Properties {
		propNames = append(propNames, propName)
	}
	sort.Strings(propNames)

	fields := make([]*model.Field, 0, len(propNames))
	for _, propName := range propNames {
		field, err := buildField(propName, src.Properties[propName], required[propName])
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return model.New(name, fields...)
}

func buildField(name string, ref *openapi3.SchemaRef, required bool) (*model.Field, error) {
	if ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi adapter: property %q is unresolved", name)
	}
	src := ref.Value
	typ := firstType(src.Type)

	var opts []model.Option
	if required {
		opts = append(opts, model.Required())
	}
	if src.Default != nil {
		opts = append(opts, model.Default(normalizeDefault(typ, src.Default)))
	}
	if len(src.Enum) > 0 {
		opts = append(opts, model.Choices(src.Enum...))
	}

	switch typ {
	case "string":
		switch src.Format {
		case "email":
			return model.Email(name, opts...), nil
		case "date-time":
			return model.DateTime(name, append(opts, model.Layout(time.RFC3339))...), nil
		case "date":
			return model.DateTime(name, append(opts, model.Layout("2006-01-02"))...), nil
		default:
			return model.String(name, opts...), nil
		}
	case "integer":
		return model.Integer(name, appendBounds(opts, src)...), nil
	case "number":
		return model.Float(name, appendBounds(opts, src)...), nil
	case "boolean":
		return model.Boolean(name, opts...), nil
	case "object":
		if src.AdditionalProperties.Schema != nil {
			values, err := elementSpec(name, src.AdditionalProperties.Schema)
			if err != nil {
				return nil, err
			}
			return model.Dict(name, append(opts, model.Values(values))...), nil
		}
		nested, err := buildSchema(nestedName(name, src), ref)
		if err != nil {
			return nil, err
		}
		return model.Embedded(name, nested, opts...), nil
	case "array":
		if src.Items == nil {
			return nil, fmt.Errorf("openapi adapter: array property %q must define items", name)
		}
		elem, err := elementSpec(name, src.Items)
		if err != nil {
			return nil, err
		}
		return model.List(name, elem, opts...), nil
	default:
		return nil, fmt.Errorf("openapi adapter: property %q has unsupported type %q", name, typ)
	}
}

// elementSpec maps an item/value schema onto a collection element spec:
// object schemas become nested models, scalars become plain type rules.
func elementSpec(name string, ref *openapi3.SchemaRef) (model.ElementSpec, error) {
	if ref == nil || ref.Value == nil {
		return model.ElementSpec{}, fmt.Errorf("openapi adapter: elements of %q are unresolved", name)
	}
	src := ref.Value
	typ := firstType(src.Type)
	if typ == "object" || (typ == "" && len(src.Properties) > 0) {
		nested, err := buildSchema(nestedName(name, src), ref)
		if err != nil {
			return model.ElementSpec{}, err
		}
		return model.OfModel(nested), nil
	}
	if rule := ruleForType(typ, src.Format); rule != nil {
		return model.OfRules(rule), nil
	}
	return model.OfRules(), nil
}

func ruleForType(typ, format string) validators.Validator {
	switch typ {
	case "string":
		if format == "email" {
			return validators.Email{}
		}
		return validators.String{}
	case "integer":
		return validators.Integer{}
	case "number":
		return validators.Float{}
	case "boolean":
		return validators.Boolean{}
	default:
		return nil
	}
}

func appendBounds(opts []model.Option, src *openapi3.Schema) []model.Option {
	if src.Min != nil {
		opts = append(opts, model.Min(*src.Min))
	}
	if src.Max != nil {
		opts = append(opts, model.Max(*src.Max))
	}
	return opts
}

// normalizeDefault aligns a JSON-decoded default with the field's storage
// type, so integer defaults read back as int64.
func normalizeDefault(typ string, value any) any {
	if typ != "integer" {
		return value
	}
	switch n := value.(type) {
	case float64:
		return int64(n)
	case int:
		return int64(n)
	default:
		return value
	}
}

func nestedName(property string, src *openapi3.Schema) string {
	if src.Title != "" {
		return src.Title
	}
	return property
}

func firstType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
