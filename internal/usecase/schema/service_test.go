package schema

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/starpoint-ai/image-search-demo/internal/domain"
	domschema "github.com/starpoint-ai/image-search-demo/internal/domain/schema"
)

type mockQuerier struct {
	resp    *domain.QueryResponse
	err     error
	lastSQL string
}

func (m *mockQuerier) Query(
	_ context.Context, _, _ string, _ []float32, sql string,
) (*domain.QueryResponse, error) {
	m.lastSQL = sql
	return m.resp, m.err
}

func TestInspect(t *testing.T) {
	querier := &mockQuerier{resp: &domain.QueryResponse{
		CollectionID: "col-1",
		ResultCount:  2,
		Results: []domain.Record{
			{"__id": "a", "__distance": 0.1, "url": "x", "width": float64(800)},
			{"__id": "b", "__distance": 0.2, "url": "y", "width": float64(600)},
		},
	}}
	svc := New(querier)

	s, err := svc.Inspect(context.Background(), "sk-demo", "images")
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}

	if !strings.HasPrefix(querier.lastSQL, "SELECT * FROM images LIMIT ") {
		t.Errorf("unexpected probe sql: %q", querier.lastSQL)
	}

	want := map[string]domschema.FieldType{
		"url":   domschema.TypeString,
		"width": domschema.TypeNumber,
	}
	if len(s.Fields) != len(want) {
		t.Fatalf("fields = %+v", s.Fields)
	}
	for _, f := range s.Fields {
		if want[f.Name] != f.Type {
			t.Errorf("field %s: got %s, want %s", f.Name, f.Type, want[f.Name])
		}
	}
}

func TestInspect_MissingCredentials(t *testing.T) {
	svc := New(&mockQuerier{})

	if _, err := svc.Inspect(context.Background(), "", "images"); !errors.Is(err, domain.ErrMissingCredentials) {
		t.Errorf("error = %v, want ErrMissingCredentials", err)
	}
	if _, err := svc.Inspect(context.Background(), "k", " "); !errors.Is(err, domain.ErrMissingCredentials) {
		t.Errorf("error = %v, want ErrMissingCredentials", err)
	}
}

func TestInspect_RejectsUnsafeCollectionName(t *testing.T) {
	svc := New(&mockQuerier{})

	_, err := svc.Inspect(context.Background(), "k", "images; DROP")
	if !errors.Is(err, domain.ErrInvalidFilter) {
		t.Errorf("error = %v, want ErrInvalidFilter", err)
	}
}

func TestInspect_UpstreamErrorPropagates(t *testing.T) {
	svc := New(&mockQuerier{err: domain.ErrUnauthorized})

	_, err := svc.Inspect(context.Background(), "k", "images")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}
