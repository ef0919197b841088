package openapi_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-model/pkg/model"
	"github.com/goliatone/go-model/pkg/openapi"
)

const catalogSpec = `{
  "openapi": "3.0.3",
  "info": {"title": "Catalog", "version": "1.0.0"},
  "paths": {},
  "components": {
    "schemas": {
      "Product": {
        "type": "object",
        "required": ["name", "price"],
        "properties": {
          "name": {"type": "string"},
          "contact": {"type": "string", "format": "email"},
          "released_at": {"type": "string", "format": "date-time"},
          "status": {"type": "string", "enum": ["draft", "published"], "default": "draft"},
          "quantity": {"type": "integer", "minimum": 0, "maximum": 100, "default": 1},
          "price": {"type": "number", "minimum": 0},
          "active": {"type": "boolean"},
          "dimensions": {
            "type": "object",
            "title": "Dimensions",
            "properties": {
              "width": {"type": "number"},
              "height": {"type": "number"}
            }
          },
          "tags": {"type": "array", "items": {"type": "string"}},
          "reviews": {
            "type": "array",
            "items": {
              "type": "object",
              "title": "Review",
              "properties": {
                "author": {"type": "string"},
                "rating": {"type": "integer"}
              }
            }
          },
          "attributes": {
            "type": "object",
            "additionalProperties": {"type": "string"}
          }
        }
      },
      "Empty": {"type": "object"}
    }
  }
}`

func mustDocument(t *testing.T, raw string) openapi.Document {
	t.Helper()
	doc, err := openapi.NewDocument(openapi.SourceFromFile("catalog.json"), []byte(raw))
	if err != nil {
		t.Fatalf("NewDocument returned error: %v", err)
	}
	return doc
}

func deriveProduct(t *testing.T) *model.Schema {
	t.Helper()
	schema, err := openapi.Derive(context.Background(), mustDocument(t, catalogSpec), "Product")
	if err != nil {
		t.Fatalf("Derive returned error: %v", err)
	}
	return schema
}

func TestDeriveFieldMapping(t *testing.T) {
	schema := deriveProduct(t)

	want := map[string]model.FieldType{
		"name":        model.FieldTypeString,
		"contact":     model.FieldTypeEmail,
		"released_at": model.FieldTypeDateTime,
		"status":      model.FieldTypeString,
		"quantity":    model.FieldTypeInteger,
		"price":       model.FieldTypeFloat,
		"active":      model.FieldTypeBoolean,
		"dimensions":  model.FieldTypeEmbedded,
		"tags":        model.FieldTypeList,
		"reviews":     model.FieldTypeList,
		"attributes":  model.FieldTypeDict,
	}
	got := map[string]model.FieldType{}
	for _, field := range schema.Fields() {
		got[field.Name()] = field.Type()
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("field types mismatch (-want +got):\n%s", diff)
	}

	name, _ := schema.Field("name")
	if !name.Required() {
		t.Error("name should be required")
	}
	active, _ := schema.Field("active")
	if active.Required() {
		t.Error("active should not be required")
	}
	quantity, _ := schema.Field("quantity")
	if got := quantity.Default(); got != int64(1) {
		t.Errorf("quantity default = %v (%T), want int64(1)", got, got)
	}
	status, _ := schema.Field("status")
	if got := status.Default(); got != "draft" {
		t.Errorf("status default = %v, want draft", got)
	}
	if diff := cmp.Diff([]any{"draft", "published"}, status.Choices()); diff != "" {
		t.Errorf("status choices mismatch (-want +got):\n%s", diff)
	}
}

func TestDerivedSchemaValidates(t *testing.T) {
	schema := deriveProduct(t)
	instance, err := schema.NewInstance(map[string]any{
		"name":  "lamp",
		"price": 19.5,
		"dimensions": map[string]any{
			"width":  10.0,
			"height": 25.0,
		},
		"tags": []any{"home", "light"},
		"reviews": []any{
			map[string]any{"author": "ana", "rating": 5},
		},
		"attributes": map[string]any{"color": "white"},
	})
	if err != nil {
		t.Fatalf("NewInstance returned error: %v", err)
	}
	if err := instance.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if got, _ := instance.Get("quantity"); got != int64(1) {
		t.Errorf("Get(quantity) = %v (%T), want default int64(1)", got, got)
	}

	if err := instance.Set("quantity", 250); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := instance.Validate(); err == nil {
		t.Fatal("quantity above maximum should fail validation")
	}

	if err := instance.Set("contact", "not-an-email"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := instance.Set("quantity", 3); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := instance.Validate(); err == nil {
		t.Fatal("malformed email should fail validation")
	}
}

func TestDeriveErrors(t *testing.T) {
	ctx := context.Background()

	if _, err := openapi.Derive(ctx, mustDocument(t, catalogSpec), "Missing"); err == nil {
		t.Error("unknown component should be rejected")
	}
	if _, err := openapi.NewDocument(openapi.SourceFromFile("empty.json"), nil); err == nil {
		t.Error("empty payload should be rejected")
	}
	if _, err := openapi.Derive(ctx, mustDocument(t, "{"), "Product"); err == nil {
		t.Error("malformed document should be rejected")
	}
}

func TestComponents(t *testing.T) {
	names, err := openapi.Components(context.Background(), mustDocument(t, catalogSpec))
	if err != nil {
		t.Fatalf("Components returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"Empty", "Product"}, names); diff != "" {
		t.Fatalf("component names mismatch (-want +got):\n%s", diff)
	}
}
