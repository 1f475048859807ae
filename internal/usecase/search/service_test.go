package search

import (
	"context"
	"errors"
	"testing"

	"github.com/starpoint-ai/image-search-demo/internal/domain"
)

// --- Mocks ---

type mockQuerier struct {
	resp          *domain.QueryResponse
	err           error
	called        bool
	lastAPIKey    string
	lastColl      string
	lastEmbedding []float32
	lastSQL       string
}

func (m *mockQuerier) Query(
	_ context.Context, apiKey, collection string, embedding []float32, sql string,
) (*domain.QueryResponse, error) {
	m.called = true
	m.lastAPIKey = apiKey
	m.lastColl = collection
	m.lastEmbedding = embedding
	m.lastSQL = sql
	return m.resp, m.err
}

type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.called = true
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: 5}, m.err
}

func okResponse() *domain.QueryResponse {
	return &domain.QueryResponse{
		CollectionID: "col-1",
		ResultCount:  2,
		Results: []domain.Record{
			{"__id": "a", "__distance": 0.1, "url": "https://example.com/a.jpg"},
			{"__id": "b", "__distance": 0.2, "url": "https://example.com/b.jpg"},
		},
	}
}

// --- Tests ---

func TestSearch_TextQueryEmbedsAndForwards(t *testing.T) {
	querier := &mockQuerier{resp: okResponse()}
	embedder := &mockEmbedder{vec: []float32{0.5, 0.6}}
	svc := New(querier, embedder)

	resp, err := svc.Search(context.Background(), &domain.SearchQuery{
		APIKey:         "sk-demo",
		CollectionName: "images",
		Query:          "a dog on a beach",
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if !embedder.called {
		t.Error("embedder was not called for text query")
	}
	if querier.lastAPIKey != "sk-demo" || querier.lastColl != "images" {
		t.Errorf("credentials not forwarded: key=%q coll=%q", querier.lastAPIKey, querier.lastColl)
	}
	if len(querier.lastEmbedding) != 2 {
		t.Errorf("embedding not forwarded: %v", querier.lastEmbedding)
	}
	if resp.ResultCount != 2 || len(resp.Results) != 2 {
		t.Errorf("response not passed through: %+v", resp)
	}
	if resp.Results[0].ID() != "a" || resp.Results[1].ID() != "b" {
		t.Error("result order not preserved")
	}
}

func TestSearch_SQLOnlySkipsEmbedding(t *testing.T) {
	querier := &mockQuerier{resp: okResponse()}
	embedder := &mockEmbedder{}
	svc := New(querier, embedder)

	_, err := svc.Search(context.Background(), &domain.SearchQuery{
		APIKey:         "sk-demo",
		CollectionName: "images",
		SQL:            "SELECT * FROM images WHERE width > 500",
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if embedder.called {
		t.Error("embedder called for sql-only query")
	}
	if querier.lastEmbedding != nil {
		t.Errorf("embedding sent for sql-only query: %v", querier.lastEmbedding)
	}
	if querier.lastSQL != "SELECT * FROM images WHERE width > 500" {
		t.Errorf("sql not forwarded: %q", querier.lastSQL)
	}
}

func TestSearch_MissingCredentials(t *testing.T) {
	querier := &mockQuerier{resp: okResponse()}
	svc := New(querier, &mockEmbedder{})

	_, err := svc.Search(context.Background(), &domain.SearchQuery{Query: "dog"})
	if !errors.Is(err, domain.ErrMissingCredentials) {
		t.Errorf("error = %v, want ErrMissingCredentials", err)
	}
	if querier.called {
		t.Error("upstream called despite missing credentials")
	}
}

func TestSearch_EmptyQueryAndSQL(t *testing.T) {
	querier := &mockQuerier{resp: okResponse()}
	svc := New(querier, &mockEmbedder{})

	_, err := svc.Search(context.Background(), &domain.SearchQuery{
		APIKey:         "k",
		CollectionName: "c",
	})
	if !errors.Is(err, domain.ErrEmptyQuery) {
		t.Errorf("error = %v, want ErrEmptyQuery", err)
	}
}

func TestSearch_InvalidSQLRejectedBeforeUpstream(t *testing.T) {
	querier := &mockQuerier{resp: okResponse()}
	svc := New(querier, &mockEmbedder{})

	_, err := svc.Search(context.Background(), &domain.SearchQuery{
		APIKey:         "k",
		CollectionName: "c",
		SQL:            "SELECT * FROM images; DROP TABLE images",
	})
	if !errors.Is(err, domain.ErrInvalidFilter) {
		t.Errorf("error = %v, want ErrInvalidFilter", err)
	}
	if querier.called {
		t.Error("upstream called with invalid sql")
	}
}

func TestSearch_TextQueryWithoutEmbedder(t *testing.T) {
	querier := &mockQuerier{resp: okResponse()}
	svc := New(querier, nil)

	_, err := svc.Search(context.Background(), &domain.SearchQuery{
		APIKey:         "k",
		CollectionName: "c",
		Query:          "dog",
	})
	if !errors.Is(err, domain.ErrEmbeddingNotConfigured) {
		t.Errorf("error = %v, want ErrEmbeddingNotConfigured", err)
	}
}

func TestSearch_SQLOnlyWorksWithoutEmbedder(t *testing.T) {
	querier := &mockQuerier{resp: okResponse()}
	svc := New(querier, nil)

	_, err := svc.Search(context.Background(), &domain.SearchQuery{
		APIKey:         "k",
		CollectionName: "c",
		SQL:            "SELECT * FROM images",
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
}

func TestSearch_EmbedderErrorPropagates(t *testing.T) {
	querier := &mockQuerier{resp: okResponse()}
	embedder := &mockEmbedder{err: domain.ErrEmbeddingProviderError}
	svc := New(querier, embedder)

	_, err := svc.Search(context.Background(), &domain.SearchQuery{
		APIKey:         "k",
		CollectionName: "c",
		Query:          "dog",
	})
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Errorf("error = %v, want ErrEmbeddingProviderError", err)
	}
	if querier.called {
		t.Error("upstream called after embedding failure")
	}
}

func TestSearch_UpstreamErrorPropagates(t *testing.T) {
	querier := &mockQuerier{err: domain.ErrCollectionNotFound}
	svc := New(querier, &mockEmbedder{vec: []float32{0.1}})

	_, err := svc.Search(context.Background(), &domain.SearchQuery{
		APIKey:         "k",
		CollectionName: "missing",
		Query:          "dog",
	})
	if !errors.Is(err, domain.ErrCollectionNotFound) {
		t.Errorf("error = %v, want ErrCollectionNotFound", err)
	}
}
