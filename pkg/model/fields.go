package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-model/pkg/validators"
)

// DefaultDateTimeLayout is the plain-form layout DateTime fields use unless
// Layout overrides it.
const DefaultDateTimeLayout = "2006-01-02 15:04:05"

// String declares a text field.
func String(name string, options ...Option) *Field {
	cfg := applyOptions(options)
	field := newField(name, FieldTypeString, cfg, validators.String{})
	if cfg.sanitize {
		field.coerce = func(value any) (any, error) {
			if text, ok := value.(string); ok {
				return sanitizeMarkup(text), nil
			}
			return value, nil
		}
	}
	return field
}

// Email declares a text field whose value must be email-shaped.
func Email(name string, options ...Option) *Field {
	cfg := applyOptions(options)
	return newField(name, FieldTypeEmail, cfg, validators.Email{})
}

// Integer declares an int64 field. Assignment eagerly coerces integral
// numbers and decimal strings; a value that cannot be coerced fails at Set
// time with a *ConversionError.
func Integer(name string, options ...Option) *Field {
	cfg := applyOptions(options)
	field := newField(name, FieldTypeInteger, cfg, withBounds(cfg, validators.Integer{})...)
	field.coerce = func(value any) (any, error) {
		return coerceInteger(name, value)
	}
	field.toNative = func(value any) (any, error) {
		if value == nil {
			return nil, nil
		}
		return coerceInteger(name, value)
	}
	return field
}

// Float declares a float64 field.
func Float(name string, options ...Option) *Field {
	cfg := applyOptions(options)
	field := newField(name, FieldTypeFloat, cfg, withBounds(cfg, validators.Float{})...)
	field.toNative = func(value any) (any, error) {
		// YAML decodes whole numbers as ints, so the plain form widens.
		if n, ok := asFloat(value); ok {
			return n, nil
		}
		return value, nil
	}
	return field
}

// Boolean declares a bool field.
func Boolean(name string, options ...Option) *Field {
	cfg := applyOptions(options)
	return newField(name, FieldTypeBoolean, cfg, validators.Boolean{})
}

// DateTime declares a time.Time field. The plain form is a string in the
// configured layout; native time values pass through unchanged.
func DateTime(name string, options ...Option) *Field {
	cfg := applyOptions(options)
	layout := cfg.layout
	if layout == "" {
		layout = DefaultDateTimeLayout
	}
	field := newField(name, FieldTypeDateTime, cfg, validators.DateTime{})
	field.toPlain = func(value any) (any, error) {
		if t, ok := value.(time.Time); ok {
			return t.Format(layout), nil
		}
		return value, nil
	}
	field.toNative = func(value any) (any, error) {
		switch v := value.(type) {
		case nil:
			return nil, nil
		case time.Time:
			return v, nil
		case string:
			t, err := time.Parse(layout, v)
			if err != nil {
				return nil, &ConversionError{Field: name, Value: value, Detail: fmt.Sprintf("does not match layout %q", layout)}
			}
			return t, nil
		default:
			return value, nil
		}
	}
	return field
}

// Embedded declares a field holding an instance of another model schema.
// Assigning a plain map constructs the nested instance on the spot.
func Embedded(name string, schema *Schema, options ...Option) *Field {
	cfg := applyOptions(options)
	field := newField(name, FieldTypeEmbedded, cfg, validators.Embedded{Model: schema})
	if schema == nil {
		field.err = configErrorf("embedded field %q requires a schema", name)
		return field
	}
	field.coerce = func(value any) (any, error) {
		if plain, ok := value.(map[string]any); ok {
			return schema.NewInstance(plain)
		}
		return value, nil
	}
	field.toPlain = func(value any) (any, error) {
		if inst, ok := value.(*Instance); ok {
			return inst.ToPlain()
		}
		return value, nil
	}
	return field
}

// ElementSpec describes what a collection field holds: instances of a model
// schema, or plain values checked by a rule list. Build one with OfModel or
// OfRules.
type ElementSpec struct {
	model *Schema
	rules []validators.Validator
}

// OfModel ties collection elements to a model schema.
func OfModel(schema *Schema) ElementSpec {
	return ElementSpec{model: schema}
}

// OfRules checks collection elements against plain validators. An Embedded
// rule in the list counts as the element spec's nested model.
func OfRules(rules ...validators.Validator) ElementSpec {
	return ElementSpec{rules: rules}
}

// resolveSpec splits an element spec into its nested model and plain rules.
// At most one model may appear across the spec, counting Embedded rules.
func resolveSpec(spec ElementSpec) (*Schema, []validators.Validator, error) {
	schema := spec.model
	var rules []validators.Validator
	for _, rule := range spec.rules {
		emb, ok := rule.(validators.Embedded)
		if !ok {
			rules = append(rules, rule)
			continue
		}
		if schema != nil {
			return nil, nil, configErrorf("collection spec allows a single nested model")
		}
		nested, ok := emb.Model.(*Schema)
		if !ok {
			return nil, nil, configErrorf("embedded rule must reference a *model.Schema")
		}
		schema = nested
	}
	return schema, rules, nil
}

// List declares a field holding a slice. When the element spec names a model,
// plain-map elements are constructed into instances at assignment time; the
// first element decides whether the slice still needs conversion.
func List(name string, elem ElementSpec, options ...Option) *Field {
	cfg := applyOptions(options)
	nested, rules, err := resolveSpec(elem)

	elemRules := rules
	if nested != nil {
		elemRules = []validators.Validator{validators.Embedded{Model: nested}}
	}
	field := newField(name, FieldTypeList, cfg, validators.List{Elem: elemRules})
	field.err = err

	toNative := func(value any) (any, error) {
		items, ok := normalizeSlice(value)
		if !ok {
			return value, nil
		}
		out := make([]any, len(items))
		for i, item := range items {
			if plain, ok := item.(map[string]any); ok && nested != nil {
				inst, err := nested.NewInstance(plain)
				if err != nil {
					return nil, err
				}
				out[i] = inst
				continue
			}
			out[i] = item
		}
		return out, nil
	}

	field.toNative = toNative
	field.coerce = func(value any) (any, error) {
		items, ok := normalizeSlice(value)
		if !ok {
			return value, nil
		}
		if nested != nil && len(items) > 0 && !nested.Owns(items[0]) {
			return toNative(items)
		}
		return items, nil
	}
	field.toPlain = func(value any) (any, error) {
		items, ok := normalizeSlice(value)
		if !ok {
			return value, nil
		}
		out := make([]any, len(items))
		for i, item := range items {
			if inst, ok := item.(*Instance); ok {
				plain, err := inst.ToPlain()
				if err != nil {
					return nil, err
				}
				out[i] = plain
				continue
			}
			out[i] = item
		}
		return out, nil
	}
	return field
}

// Dict declares a field holding a mapping. Key and value element specs are
// set with the Keys and Values options and are independent; either may name a
// model schema.
//
// Conversion at assignment time is decided by a first-entry heuristic: only
// the first entry in iteration order is inspected, and when it is not already
// of the configured model type the whole mapping is converted. A mapping that
// mixes converted and unconverted entries is therefore left inconsistent;
// callers own that invariant.
//
// When a key model is configured the native form is a map[any]any keyed by
// instances, and each plain-form key is the JSON encoding of the key
// instance's plain form (encoding/json orders object keys, so the encoding
// is deterministic).
func Dict(name string, options ...Option) *Field {
	cfg := applyOptions(options)
	keyModel, keyRules, keyErr := resolveSpec(cfg.keySpec)
	valModel, valRules, valErr := resolveSpec(cfg.valSpec)

	if keyModel != nil {
		keyRules = []validators.Validator{validators.Embedded{Model: keyModel}}
	}
	if valModel != nil {
		valRules = []validators.Validator{validators.Embedded{Model: valModel}}
	}

	field := newField(name, FieldTypeDict, cfg,
		validators.Dict{},
		dictEntries{keys: keyRules, values: valRules},
	)
	if keyErr != nil {
		field.err = keyErr
	} else if valErr != nil {
		field.err = valErr
	}

	toNative := func(value any) (any, error) {
		return dictToNative(value, keyModel, valModel)
	}
	field.toNative = toNative
	field.coerce = func(value any) (any, error) {
		if keyModel == nil && valModel == nil {
			return value, nil
		}
		if dictNeedsConversion(value, keyModel, valModel) {
			return toNative(value)
		}
		return value, nil
	}
	field.toPlain = func(value any) (any, error) {
		return dictToPlain(value)
	}
	return field
}

// dictEntries runs the key rules over every key and the value rules over
// every value of a present mapping.
type dictEntries struct {
	keys   []validators.Validator
	values []validators.Validator
}

func (v dictEntries) Validate(value any) error {
	if value == nil || (len(v.keys) == 0 && len(v.values) == 0) {
		return nil
	}
	check := func(key, val any) error {
		for _, rule := range v.keys {
			if err := rule.Validate(key); err != nil {
				return err
			}
		}
		for _, rule := range v.values {
			if err := rule.Validate(val); err != nil {
				return err
			}
		}
		return nil
	}
	switch m := value.(type) {
	case map[string]any:
		for key, val := range m {
			if err := check(key, val); err != nil {
				return err
			}
		}
	case map[any]any:
		for key, val := range m {
			if err := check(key, val); err != nil {
				return err
			}
		}
	}
	return nil
}

func dictNeedsConversion(value any, keyModel, valModel *Schema) bool {
	switch m := value.(type) {
	case map[string]any:
		// First entry only; string keys can never be key-model instances.
		for _, val := range m {
			if keyModel != nil {
				return true
			}
			return valModel != nil && !valModel.Owns(val)
		}
	case map[any]any:
		for key, val := range m {
			if keyModel != nil && !keyModel.Owns(key) {
				return true
			}
			return valModel != nil && !valModel.Owns(val)
		}
	}
	return false
}

func dictToNative(value any, keyModel, valModel *Schema) (any, error) {
	convertValue := func(val any) (any, error) {
		if plain, ok := val.(map[string]any); ok && valModel != nil {
			return valModel.NewInstance(plain)
		}
		return val, nil
	}

	switch m := value.(type) {
	case map[string]any:
		if keyModel == nil && valModel == nil {
			return m, nil
		}
		if keyModel == nil {
			out := make(map[string]any, len(m))
			for key, val := range m {
				converted, err := convertValue(val)
				if err != nil {
					return nil, err
				}
				out[key] = converted
			}
			return out, nil
		}
		out := make(map[any]any, len(m))
		for key, val := range m {
			nativeKey, err := parseDictKey(key, keyModel)
			if err != nil {
				return nil, err
			}
			converted, err := convertValue(val)
			if err != nil {
				return nil, err
			}
			out[nativeKey] = converted
		}
		return out, nil
	case map[any]any:
		out := make(map[any]any, len(m))
		for key, val := range m {
			nativeKey := key
			if text, ok := key.(string); ok && keyModel != nil {
				parsed, err := parseDictKey(text, keyModel)
				if err != nil {
					return nil, err
				}
				nativeKey = parsed
			}
			converted, err := convertValue(val)
			if err != nil {
				return nil, err
			}
			out[nativeKey] = converted
		}
		return out, nil
	default:
		return value, nil
	}
}

// parseDictKey rebuilds a key-model instance from the JSON encoding produced
// by dictToPlain. Keys that do not decode to a mapping pass through.
func parseDictKey(key string, keyModel *Schema) (any, error) {
	var decoded any
	if err := json.Unmarshal([]byte(key), &decoded); err != nil {
		return key, nil
	}
	plain, ok := decoded.(map[string]any)
	if !ok {
		return key, nil
	}
	return keyModel.FromPlain(plain)
}

func dictToPlain(value any) (any, error) {
	plainValue := func(val any) (any, error) {
		if inst, ok := val.(*Instance); ok {
			return inst.ToPlain()
		}
		return val, nil
	}

	switch m := value.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		out := make(map[string]any, len(m))
		for key, val := range m {
			converted, err := plainValue(val)
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for key, val := range m {
			plainKey, err := encodeDictKey(key)
			if err != nil {
				return nil, err
			}
			converted, err := plainValue(val)
			if err != nil {
				return nil, err
			}
			out[plainKey] = converted
		}
		return out, nil
	default:
		return value, nil
	}
}

func encodeDictKey(key any) (string, error) {
	switch k := key.(type) {
	case string:
		return k, nil
	case *Instance:
		plain, err := k.ToPlain()
		if err != nil {
			return "", err
		}
		encoded, err := json.Marshal(plain)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	default:
		return fmt.Sprint(key), nil
	}
}

func withBounds(cfg fieldConfig, typed validators.Validator) []validators.Validator {
	rules := []validators.Validator{typed}
	if cfg.min != nil {
		rules = append(rules, validators.Min{Bound: *cfg.min})
	}
	if cfg.max != nil {
		rules = append(rules, validators.Max{Bound: *cfg.max})
	}
	return rules
}

func coerceInteger(name string, value any) (any, error) {
	switch n := value.(type) {
	case nil:
		return nil, nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return nil, &ConversionError{Field: name, Value: value, Detail: "should contain only integer values"}
		}
		return parsed, nil
	default:
		return nil, &ConversionError{Field: name, Value: value, Detail: "should contain only integer values"}
	}
}

func asFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func normalizeSlice(value any) ([]any, bool) {
	switch items := value.(type) {
	case nil:
		return nil, false
	case []any:
		return items, true
	case []map[string]any:
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = item
		}
		return out, true
	case []string:
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = item
		}
		return out, true
	case []*Instance:
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = item
		}
		return out, true
	default:
		return nil, false
	}
}
