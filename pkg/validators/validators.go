package validators

import (
	"fmt"
	"reflect"
	"regexp"
	"time"
)

// Validator checks a single value against one rule. A nil return means the
// value satisfies the rule.
type Validator interface {
	Validate(value any) error
}

// NestedModel is the contract a model schema satisfies so the Embedded
// validator can check nested values without importing the model package.
type NestedModel interface {
	// Name identifies the schema in failure messages.
	Name() string
	// Owns reports whether value is an instance of this schema or of a
	// schema extending it.
	Owns(value any) bool
	// ValidateValue runs the owned instance's full validation.
	ValidateValue(value any) error
}

// ValidationError reports a violated rule together with the offending value.
type ValidationError struct {
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return e.Message
	}
	return fmt.Sprintf("%s, got %v", e.Message, e.Value)
}

func failf(value any, format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...), Value: value}
}

// Required fails when the value is absent.
type Required struct{}

func (Required) Validate(value any) error {
	if value == nil {
		return &ValidationError{Message: "is required"}
	}
	return nil
}

// In fails when a present value is not a member of Choices. Numeric members
// compare by value, so an int64(2) read from a field satisfies a choice
// declared as the untyped constant 2.
type In struct {
	Choices []any
}

func (v In) Validate(value any) error {
	if value == nil {
		return nil
	}
	for _, choice := range v.Choices {
		if looseEqual(value, choice) {
			return nil
		}
	}
	return failf(value, "should be in %v", v.Choices)
}

// String fails when a present value is not a string.
type String struct{}

func (String) Validate(value any) error {
	if value == nil {
		return nil
	}
	if _, ok := value.(string); !ok {
		return failf(value, "should be a string")
	}
	return nil
}

// Integer fails when a present value is not an integer of any width.
type Integer struct{}

func (Integer) Validate(value any) error {
	if value == nil {
		return nil
	}
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	}
	return failf(value, "should be an integer")
}

// Float fails when a present value is not a floating point number.
type Float struct{}

func (Float) Validate(value any) error {
	if value == nil {
		return nil
	}
	switch value.(type) {
	case float32, float64:
		return nil
	}
	return failf(value, "should be a float")
}

// Boolean fails when a present value is not a bool.
type Boolean struct{}

func (Boolean) Validate(value any) error {
	if value == nil {
		return nil
	}
	if _, ok := value.(bool); !ok {
		return failf(value, "should be a boolean")
	}
	return nil
}

// DateTime fails when a present value is not a time.Time.
type DateTime struct{}

func (DateTime) Validate(value any) error {
	if value == nil {
		return nil
	}
	if _, ok := value.(time.Time); !ok {
		return failf(value, "should be a datetime")
	}
	return nil
}

var emailPattern = regexp.MustCompile(`^[\w.%+-]+@[\w-]+(\.[\w-]+)*\.[a-zA-Z]{2,}$`)

// Email fails when a present value is not an email-shaped string. The check
// is syntactic only.
type Email struct{}

func (Email) Validate(value any) error {
	if value == nil {
		return nil
	}
	text, ok := value.(string)
	if !ok {
		return failf(value, "should be a string")
	}
	if !emailPattern.MatchString(text) {
		return failf(value, "should be a valid email")
	}
	return nil
}

// Min fails when a present numeric value is below Bound. Non-numeric values
// pass; the field's type rule owns that failure.
type Min struct {
	Bound float64
}

func (v Min) Validate(value any) error {
	if value == nil {
		return nil
	}
	n, ok := toFloat(value)
	if !ok {
		return nil
	}
	if n < v.Bound {
		return failf(value, "should be greater than or equal to %v", v.Bound)
	}
	return nil
}

// Max fails when a present numeric value is above Bound.
type Max struct {
	Bound float64
}

func (v Max) Validate(value any) error {
	if value == nil {
		return nil
	}
	n, ok := toFloat(value)
	if !ok {
		return nil
	}
	if n > v.Bound {
		return failf(value, "should be less than or equal to %v", v.Bound)
	}
	return nil
}

// Embedded fails when a present value is not an instance of the configured
// model schema, or when the instance's own validation fails.
type Embedded struct {
	Model NestedModel
}

func (v Embedded) Validate(value any) error {
	if value == nil || v.Model == nil {
		return nil
	}
	if !v.Model.Owns(value) {
		return failf(value, "should be an instance of %q", v.Model.Name())
	}
	return v.Model.ValidateValue(value)
}

// List fails when a present value is not a slice. Each element is checked
// against every rule in Elem; the first element failure wins and carries the
// element index.
type List struct {
	Elem []Validator
}

func (v List) Validate(value any) error {
	if value == nil {
		return nil
	}
	items, ok := asSlice(value)
	if !ok {
		return failf(value, "should be a list")
	}
	for i, item := range items {
		for _, rule := range v.Elem {
			if err := rule.Validate(item); err != nil {
				// The wrapped message already carries the offending value.
				return &ValidationError{Message: fmt.Sprintf("list element %d: %v", i, err)}
			}
		}
	}
	return nil
}

// Dict fails when a present value is not a mapping.
type Dict struct{}

func (Dict) Validate(value any) error {
	if value == nil {
		return nil
	}
	switch value.(type) {
	case map[string]any, map[any]any:
		return nil
	}
	if reflect.ValueOf(value).Kind() == reflect.Map {
		return nil
	}
	return failf(value, "should be a dict")
}

func looseEqual(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	return aok && bok && af == bf
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func asSlice(value any) ([]any, bool) {
	if items, ok := value.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}
