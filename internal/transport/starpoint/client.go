// Package starpoint is a minimal REST client for the Starpoint reader API.
// Only the query endpoint is used; the API key travels per request and
// is never stored on the server side.
package starpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/starpoint-ai/image-search-demo/internal/domain"
	"github.com/starpoint-ai/image-search-demo/internal/metrics"
)

const (
	queryPath    = "/api/v1/query"
	apiKeyHeader = "x-starpoint-key"

	// maxResponseBytes bounds the upstream response size.
	maxResponseBytes = 32 << 20
)

// Client calls the Starpoint reader API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// Config holds the Starpoint client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewClient creates a Starpoint reader client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// queryRequest is the Starpoint query wire format.
type queryRequest struct {
	CollectionName string    `json:"collection_name"`
	QueryEmbedding []float32 `json:"query_embedding,omitempty"`
	SQL            string    `json:"sql,omitempty"`
}

// errorBody is the Starpoint error wire format.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Query executes a vector/SQL query against a collection and returns
// the upstream response as-is, result order preserved.
func (c *Client) Query(
	ctx context.Context, apiKey, collection string, embedding []float32, sql string,
) (*domain.QueryResponse, error) {
	reqBody, err := json.Marshal(queryRequest{
		CollectionName: collection,
		QueryEmbedding: embedding,
		SQL:            sql,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal query request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+queryPath, bytes.NewReader(reqBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, apiKey)

	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("transport_error").Inc()
		return nil, fmt.Errorf("call starpoint query: %w: %w", domain.ErrUpstreamError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("transport_error").Inc()
		return nil, fmt.Errorf("read starpoint response: %w: %w", domain.ErrUpstreamError, err)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	metrics.UpstreamRequestDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp.StatusCode, body)
	}

	var queryResp domain.QueryResponse
	if err := json.Unmarshal(body, &queryResp); err != nil {
		return nil, fmt.Errorf("decode starpoint response: %w: %w", domain.ErrUpstreamError, err)
	}

	c.logger.Debug("starpoint query",
		zap.String("collection_id", queryResp.CollectionID),
		zap.Int("result_count", queryResp.ResultCount),
		zap.Duration("latency", time.Since(start)),
	)

	return &queryResp, nil
}

// Ping verifies the reader endpoint is reachable. No API key is sent:
// any HTTP response, including 401, proves reachability.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+queryPath, http.NoBody)
	if err != nil {
		return fmt.Errorf("create ping request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping starpoint: %w: %w", domain.ErrUpstreamError, err)
	}
	_ = resp.Body.Close()
	return nil
}

// statusError maps upstream HTTP statuses onto domain sentinels.
func (c *Client) statusError(status int, body []byte) error {
	msg := extractMessage(body)
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		if msg != "" {
			return fmt.Errorf("%w: %s", domain.ErrUnauthorized, msg)
		}
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		if msg != "" {
			return fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, msg)
		}
		return domain.ErrCollectionNotFound
	default:
		return domain.NewUpstreamStatus(status, msg)
	}
}

// extractMessage pulls a human-readable message out of an error body.
func extractMessage(body []byte) string {
	var parsed errorBody
	if json.Unmarshal(body, &parsed) == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return ""
}
