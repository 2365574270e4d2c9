// Package search is the adapter for the job-posting index service. It is a
// minimal REST client: lexical multi-field search, knn vector search, bulk
// writes, idempotent mapping setup, and facet aggregations.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/careerpilot/careerpilot/internal/config"
	"github.com/careerpilot/careerpilot/internal/types"
)

// maxResults caps every lexical search.
const maxResults = 50

// UnavailableError indicates the index service is unreachable or returned a
// non-OK response to a read.
type UnavailableError struct {
	Op      string
	Message string
	Cause   error
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("search %s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("search %s: %s", e.Op, e.Message)
}

func (e *UnavailableError) Unwrap() error { return e.Cause }

// WriteError indicates a bulk write failed. Callers treat it as non-fatal.
type WriteError struct {
	Message string
	Cause   error
}

func (e *WriteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("search bulk write: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("search bulk write: %s", e.Message)
}

func (e *WriteError) Unwrap() error { return e.Cause }

// Client talks to the index service. It assumes API-key authentication and a
// single configured index.
type Client struct {
	url        string
	apiKey     string
	index      string
	httpClient *http.Client
}

// New constructs a Client from resolved configuration.
func New(cfg *config.Config) *Client {
	return &Client{
		url:        strings.TrimRight(cfg.SearchURL, "/"),
		apiKey:     cfg.SearchAPIKey,
		index:      cfg.SearchIndex,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// hit mirrors one search hit envelope.
type hit struct {
	Source types.JobRecord `json:"_source"`
}

// searchResponse mirrors the service's search response envelope.
type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []hit `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]aggResult `json:"aggregations"`
}

type aggResult struct {
	Buckets []Bucket `json:"buckets"`
}

// Bucket is one term bucket of a facet aggregation.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"doc_count"`
}

// Stats is an aggregate snapshot over the full index.
type Stats struct {
	TotalJobs        int      `json:"total_jobs"`
	TopCompanies     []Bucket `json:"top_companies"`
	TopLocations     []Bucket `json:"top_locations"`
	TopIndustries    []Bucket `json:"top_industries"`
	ExperienceLevels []Bucket `json:"experience_levels"`
}

// TextSearch runs a fuzzy multi-field match across title, company,
// description, industry, and location, title weighted highest. Results are
// capped at 50 and sorted by capture time descending. An empty or garbage
// query is not an error; it returns a possibly-empty list.
func (c *Client) TextSearch(ctx context.Context, query string) ([]types.JobRecord, error) {
	body := map[string]any{
		"size": maxResults,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^3", "company^2", "description", "industry", "location"},
				"fuzziness": "AUTO",
			},
		},
		"sort": []map[string]any{
			{"captured_at": map[string]any{"order": "desc"}},
		},
	}

	resp, err := c.search(ctx, "text", body)
	if err != nil {
		return nil, err
	}
	return hitRecords(resp), nil
}

// VectorSearch runs a nearest-neighbor query over the embedding field, with
// the query text encoded by the service's built-in text-to-vector model.
func (c *Client) VectorSearch(ctx context.Context, query string, numCandidates int) ([]types.JobRecord, error) {
	if numCandidates <= 0 {
		numCandidates = 10
	}
	body := map[string]any{
		"size": numCandidates,
		"retriever": map[string]any{
			"standard": map[string]any{
				"query": map[string]any{
					"knn": map[string]any{
						"field":          "embedding",
						"num_candidates": numCandidates,
						"query_vector_builder": map[string]any{
							"text_embedding": map[string]any{
								"model_text": query,
							},
						},
					},
				},
			},
		},
	}

	resp, err := c.search(ctx, "vector", body)
	if err != nil {
		return nil, err
	}
	return hitRecords(resp), nil
}

// BulkIndex writes all records in one batched request: an action line and a
// document line per record, newline-delimited. A no-op on empty input (no
// network call is issued).
func (c *Client) BulkIndex(ctx context.Context, records []types.JobRecord) error {
	if len(records) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, record := range records {
		action := map[string]any{"index": map[string]any{"_index": c.index}}
		if err := json.NewEncoder(&buf).Encode(action); err != nil {
			return &WriteError{Message: "failed to encode bulk action", Cause: err}
		}
		if err := json.NewEncoder(&buf).Encode(indexDoc(record)); err != nil {
			return &WriteError{Message: "failed to encode document", Cause: err}
		}
	}

	body, err := c.request(ctx, http.MethodPost, c.url+"/_bulk", buf.Bytes(), "application/x-ndjson")
	if err != nil {
		return &WriteError{Message: "bulk request failed", Cause: err}
	}

	var result struct {
		Errors bool `json:"errors"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return &WriteError{Message: "malformed bulk response", Cause: err}
	}
	if result.Errors {
		return &WriteError{Message: "one or more documents were rejected"}
	}
	return nil
}

// EnsureMapping declares the index schema. The call is idempotent and is
// re-issued on every ingestion invocation rather than cached.
func (c *Client) EnsureMapping(ctx context.Context) error {
	payload, err := json.Marshal(indexMapping())
	if err != nil {
		return fmt.Errorf("failed to encode mapping: %w", err)
	}
	if _, err := c.request(ctx, http.MethodPut, c.indexURL("/_mapping"), payload, "application/json"); err != nil {
		return fmt.Errorf("mapping update failed: %w", err)
	}
	return nil
}

// AggregateStats returns counts and top-10 term breakdowns over the full
// index, computed by the service's aggregation facility.
func (c *Client) AggregateStats(ctx context.Context) (*Stats, error) {
	const facetSize = 10
	body := map[string]any{
		"size": 0,
		"aggs": map[string]any{
			"companies":         termsAgg("company.keyword", facetSize),
			"locations":         termsAgg("location.keyword", facetSize),
			"industries":        termsAgg("industry.keyword", facetSize),
			"experience_levels": termsAgg("experience_level", facetSize),
		},
	}

	resp, err := c.search(ctx, "stats", body)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalJobs:        resp.Hits.Total.Value,
		TopCompanies:     resp.Aggregations["companies"].Buckets,
		TopLocations:     resp.Aggregations["locations"].Buckets,
		TopIndustries:    resp.Aggregations["industries"].Buckets,
		ExperienceLevels: resp.Aggregations["experience_levels"].Buckets,
	}, nil
}

func termsAgg(field string, size int) map[string]any {
	return map[string]any{
		"terms": map[string]any{"field": field, "size": size},
	}
}

func (c *Client) search(ctx context.Context, op string, body map[string]any) (*searchResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &UnavailableError{Op: op, Message: "failed to encode query", Cause: err}
	}

	respBody, err := c.request(ctx, http.MethodPost, c.indexURL("/_search"), payload, "application/json")
	if err != nil {
		return nil, &UnavailableError{Op: op, Message: "search request failed", Cause: err}
	}

	var resp searchResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, &UnavailableError{Op: op, Message: "malformed search response", Cause: err}
	}
	return &resp, nil
}

func (c *Client) request(ctx context.Context, method, url string, payload []byte, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "ApiKey "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP status %d: %s", resp.StatusCode, truncateBody(body))
	}
	return body, nil
}

func (c *Client) indexURL(suffix string) string {
	return c.url + "/" + c.index + suffix
}

func hitRecords(resp *searchResponse) []types.JobRecord {
	records := make([]types.JobRecord, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		records = append(records, h.Source)
	}
	return records
}

func truncateBody(body []byte) string {
	const max = 200
	s := string(body)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
