package schema

import (
	"testing"

	"github.com/starpoint-ai/image-search-demo/internal/domain"
)

func TestInfer_ExcludesReservedFields(t *testing.T) {
	records := []domain.Record{
		{"__id": "a", "__distance": 0.1, "url": "https://example.com/1.jpg"},
	}

	s := Infer(records)

	if len(s.Fields) != 1 {
		t.Fatalf("expected 1 field, got %d: %+v", len(s.Fields), s.Fields)
	}
	if s.Fields[0].Name != "url" || s.Fields[0].Type != TypeString {
		t.Errorf("unexpected field: %+v", s.Fields[0])
	}
}

func TestInfer_Types(t *testing.T) {
	records := []domain.Record{
		{"url": "x", "width": float64(800), "public": true, "caption": nil},
	}

	s := Infer(records)

	want := map[string]FieldType{
		"url":     TypeString,
		"width":   TypeNumber,
		"public":  TypeBool,
		"caption": TypeNull,
	}
	if len(s.Fields) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(s.Fields))
	}
	for _, f := range s.Fields {
		if want[f.Name] != f.Type {
			t.Errorf("field %s: got type %s, want %s", f.Name, f.Type, want[f.Name])
		}
	}
}

func TestInfer_ConflictingTypesAreMixed(t *testing.T) {
	records := []domain.Record{
		{"size": float64(10)},
		{"size": "large"},
	}

	s := Infer(records)

	if len(s.Fields) != 1 || s.Fields[0].Type != TypeMixed {
		t.Fatalf("expected single mixed field, got %+v", s.Fields)
	}
}

func TestInfer_NullNeverOverrides(t *testing.T) {
	records := []domain.Record{
		{"caption": nil},
		{"caption": "a dog"},
		{"caption": nil},
	}

	s := Infer(records)

	if len(s.Fields) != 1 || s.Fields[0].Type != TypeString {
		t.Fatalf("expected string field, got %+v", s.Fields)
	}
}

func TestInfer_SortedByName(t *testing.T) {
	records := []domain.Record{
		{"width": float64(1), "caption": "x", "url": "y"},
	}

	s := Infer(records)

	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	want := []string{"caption", "url", "width"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("fields not sorted: got %v, want %v", names, want)
		}
	}
}

func TestInfer_Empty(t *testing.T) {
	s := Infer(nil)
	if len(s.Fields) != 0 {
		t.Errorf("expected no fields, got %+v", s.Fields)
	}
}
