// Package schema infers a collection field schema from search results.
package schema

import (
	"sort"

	"github.com/starpoint-ai/image-search-demo/internal/domain"
)

// FieldType is the inferred type of a metadata field.
type FieldType string

const (
	TypeString FieldType = "string"
	TypeNumber FieldType = "number"
	TypeBool   FieldType = "boolean"
	TypeNull   FieldType = "null"
	// TypeMixed marks a field observed with more than one type.
	TypeMixed FieldType = "mixed"
)

// Field is a named field with its inferred type.
type Field struct {
	Name string    `json:"name"`
	Type FieldType `json:"type"`
}

// Schema describes the fields observed in a collection sample.
type Schema struct {
	Fields []Field `json:"fields"`
}

// Infer derives a schema from a sample of records. Reserved fields are
// excluded; fields are sorted by name for stable output. A field seen
// with conflicting types across records is reported as mixed, except
// null which never overrides an observed type.
func Infer(records []domain.Record) Schema {
	types := make(map[string]FieldType)
	for _, rec := range records {
		for name, value := range rec {
			if name == domain.FieldID || name == domain.FieldDistance {
				continue
			}
			t := typeOf(value)
			prev, seen := types[name]
			switch {
			case !seen, prev == TypeNull:
				types[name] = t
			case t == TypeNull, t == prev:
				// keep prev
			default:
				types[name] = TypeMixed
			}
		}
	}

	fields := make([]Field, 0, len(types))
	for name, t := range types {
		fields = append(fields, Field{Name: name, Type: t})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })

	return Schema{Fields: fields}
}

func typeOf(v any) FieldType {
	switch v.(type) {
	case string:
		return TypeString
	case float64, int:
		return TypeNumber
	case bool:
		return TypeBool
	case nil:
		return TypeNull
	default:
		return TypeString
	}
}
