package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials signals an empty API key or collection name.
	ErrMissingCredentials = errors.New("api key and collection name are required")
	// ErrInvalidFilter signals a rejected SQL metadata filter.
	ErrInvalidFilter = errors.New("invalid sql filter")
	// ErrUnauthorized signals an API key rejected by the upstream service.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrCollectionNotFound signals an unknown collection upstream.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrUpstreamError signals a search service failure.
	ErrUpstreamError = errors.New("search service error")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrEmbeddingNotConfigured signals a text query without a configured embedder.
	ErrEmbeddingNotConfigured = errors.New("embedding provider not configured")
	// ErrEmptyQuery signals a search with neither query text nor SQL filter.
	ErrEmptyQuery = errors.New("query text or sql filter is required")
)

// UpstreamStatusError wraps ErrUpstreamError with the HTTP status returned by the search service.
type UpstreamStatusError struct {
	Status  int
	Message string
}

func (e *UpstreamStatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", ErrUpstreamError.Error(), e.Status, e.Message)
	}
	return fmt.Sprintf("%s: status %d", ErrUpstreamError.Error(), e.Status)
}

func (e *UpstreamStatusError) Unwrap() error { return ErrUpstreamError }

// NewUpstreamStatus creates an upstream status error.
func NewUpstreamStatus(status int, message string) error {
	return &UpstreamStatusError{Status: status, Message: message}
}
