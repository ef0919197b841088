package model_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-model/pkg/model"
)

func pointSchema(t *testing.T) *model.Schema {
	t.Helper()
	return model.MustNew("Point",
		model.Integer("x", model.Required()),
		model.Integer("y", model.Default(int64(0))),
	)
}

func TestUnsetFieldsReadDefaults(t *testing.T) {
	point := pointSchema(t)
	p := point.Blank()

	x, err := p.Get("x")
	if err != nil || x != nil {
		t.Fatalf("Get(x) = %v, %v, want nil value", x, err)
	}
	y, err := p.Get("y")
	if err != nil || y != int64(0) {
		t.Fatalf("Get(y) = %v, %v, want default 0", y, err)
	}
}

func TestUndeclaredFieldFailsWithFieldError(t *testing.T) {
	point := pointSchema(t)

	if _, err := point.NewInstance(map[string]any{"z": 1}); !isFieldError(err, "z") {
		t.Fatalf("NewInstance with unknown field: err = %v, want *FieldError", err)
	}

	p := point.Blank()
	if err := p.Set("z", 1); !isFieldError(err, "z") {
		t.Fatalf("Set unknown field: err = %v, want *FieldError", err)
	}
	if _, err := p.Get("z"); !isFieldError(err, "z") {
		t.Fatalf("Get unknown field: err = %v, want *FieldError", err)
	}
}

func isFieldError(err error, field string) bool {
	var ferr *model.FieldError
	return errors.As(err, &ferr) && ferr.Field == field
}

func TestUpdateEmptyIsNoOp(t *testing.T) {
	point := pointSchema(t)
	p, err := point.NewInstance(map[string]any{"x": 1, "y": 2})
	if err != nil {
		t.Fatalf("NewInstance returned %v", err)
	}

	before := p.ToDict()
	if err := p.Update(map[string]any{}, true); err != nil {
		t.Fatalf("Update({}) returned %v", err)
	}
	if diff := cmp.Diff(before, p.ToDict()); diff != "" {
		t.Fatalf("instance changed (-want +got):\n%s", diff)
	}
}

func TestUpdateSkipsUnknownKeys(t *testing.T) {
	schema := model.MustNew("Pair",
		model.Integer("a"),
		model.Integer("b", model.Default(int64(5))),
	)
	p := schema.Blank()

	if err := p.Update(map[string]any{"a": 1, "z": 9}, false); err != nil {
		t.Fatalf("Update returned %v", err)
	}

	want := map[string]any{"a": int64(1), "b": int64(5)}
	if diff := cmp.Diff(want, p.ToDict()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateRequiredField(t *testing.T) {
	point := pointSchema(t)
	p := point.Blank()

	err := p.Validate()
	if err == nil {
		t.Fatalf("Validate() = nil, want required failure for x")
	}
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() = %T %v, want *ValidationError", err, err)
	}

	if err := p.Set("x", 3); err != nil {
		t.Fatalf("Set(x) returned %v", err)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() after Set = %v, want nil", err)
	}
}

func TestPointEndToEnd(t *testing.T) {
	point := pointSchema(t)

	p, err := point.NewInstance(map[string]any{"x": 3})
	if err != nil {
		t.Fatalf("NewInstance returned %v", err)
	}
	plain, err := p.ToPlain()
	if err != nil {
		t.Fatalf("ToPlain returned %v", err)
	}
	want := map[string]any{"x": int64(3), "y": int64(0)}
	if diff := cmp.Diff(want, plain); diff != "" {
		t.Fatalf("plain form mismatch (-want +got):\n%s", diff)
	}

	fromPlain, err := point.FromPlain(map[string]any{"x": "7"})
	if err != nil {
		t.Fatalf("FromPlain returned %v", err)
	}
	x, _ := fromPlain.Get("x")
	if x != int64(7) {
		t.Fatalf("Get(x) = %v (%T), want int64(7)", x, x)
	}
}

func TestNestedUpdatePreservesIdentity(t *testing.T) {
	point := pointSchema(t)
	box := model.MustNew("Box", model.Embedded("inner", point))

	inner, err := point.NewInstance(map[string]any{"x": 1, "y": 1})
	if err != nil {
		t.Fatalf("NewInstance returned %v", err)
	}
	b, err := box.NewInstance(map[string]any{"inner": inner})
	if err != nil {
		t.Fatalf("NewInstance returned %v", err)
	}

	original, _ := b.Get("inner")
	if err := b.Update(map[string]any{"inner": map[string]any{"x": 2}}, false); err != nil {
		t.Fatalf("Update returned %v", err)
	}

	got, _ := b.Get("inner")
	if got != original {
		t.Fatalf("nested instance was replaced, want in-place update")
	}
	nested := got.(*model.Instance)
	x, _ := nested.Get("x")
	y, _ := nested.Get("y")
	if x != int64(2) || y != int64(1) {
		t.Fatalf("nested values = x:%v y:%v, want x:2 y:1", x, y)
	}
}

func TestEmbeddedAssignmentConstructsInstance(t *testing.T) {
	point := pointSchema(t)
	box := model.MustNew("Box", model.Embedded("inner", point))

	b, err := box.NewInstance(map[string]any{"inner": map[string]any{"x": 4}})
	if err != nil {
		t.Fatalf("NewInstance returned %v", err)
	}
	inner, _ := b.Get("inner")
	nested, ok := inner.(*model.Instance)
	if !ok {
		t.Fatalf("inner = %T, want *model.Instance", inner)
	}
	x, _ := nested.Get("x")
	if x != int64(4) {
		t.Fatalf("inner x = %v, want 4", x)
	}

	// Unknown nested keys surface the nested schema's FieldError.
	if _, err := box.NewInstance(map[string]any{"inner": map[string]any{"q": 1}}); !isFieldError(err, "q") {
		t.Fatalf("nested unknown field: err = %v, want *FieldError", err)
	}
}

func TestToDictRecursesIntoNestedInstances(t *testing.T) {
	point := pointSchema(t)
	box := model.MustNew("Box", model.Embedded("inner", point))

	b, err := box.NewInstance(map[string]any{"inner": map[string]any{"x": 1, "y": 2}})
	if err != nil {
		t.Fatalf("NewInstance returned %v", err)
	}

	want := map[string]any{
		"inner": map[string]any{"x": int64(1), "y": int64(2)},
	}
	if diff := cmp.Diff(want, b.ToDict()); diff != "" {
		t.Fatalf("ToDict mismatch (-want +got):\n%s", diff)
	}
}
