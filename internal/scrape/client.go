// Package scrape is the adapter for the third-party actor-based scraping
// service. Both operations try a synchronous call first and fall back to
// submitting an asynchronous run that is polled on a fixed interval.
package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/careerpilot/careerpilot/internal/config"
	"github.com/careerpilot/careerpilot/internal/poll"
)

const (
	defaultPollInterval = 5 * time.Second
	profilePollAttempts = 20 // ~100s
	jobPollAttempts     = 24 // ~120s

	// statusFailed is the only run status this adapter inspects.
	statusFailed = "FAILED"
)

// TimeoutError indicates the polling attempt budget ran out without results.
type TimeoutError struct {
	Op       string
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("scrape %s: no results after %d polling attempts", e.Op, e.Attempts)
}

// ServiceError indicates the scraping service failed: missing credentials, a
// transport failure, or a run that reported FAILED.
type ServiceError struct {
	Op      string
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("scrape %s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("scrape %s: %s", e.Op, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

// Client talks to the actor service. Credentials and actor identifiers come
// from configuration; nothing is embedded here.
type Client struct {
	baseURL      string
	token        string
	jobActor     string
	profileActor string
	syncTimeout  time.Duration
	pollInterval time.Duration
	httpClient   *http.Client
}

// New constructs a Client from resolved configuration.
func New(cfg *config.Config) *Client {
	return &Client{
		baseURL:      cfg.ScraperBaseURL,
		token:        cfg.ScraperToken,
		jobActor:     cfg.JobActorID,
		profileActor: cfg.ProfileActorID,
		syncTimeout:  cfg.ScrapeSyncTimeout,
		pollInterval: defaultPollInterval,
		httpClient:   &http.Client{},
	}
}

// runStart mirrors the service's run-creation response envelope.
type runStart struct {
	Data struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"data"`
}

// runSync performs the one-shot scrape-and-return call with a bounded
// wall-clock timeout.
func (c *Client) runSync(ctx context.Context, op, actor string, input any) ([]map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.syncTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s", c.baseURL, actor, c.token)
	body, err := c.postJSON(ctx, op, url, input)
	if err != nil {
		return nil, err
	}

	var items []map[string]any
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, &ServiceError{Op: op, Message: "malformed sync response", Cause: err}
	}
	return items, nil
}

// runAsync submits a run and polls for results every pollInterval up to
// maxAttempts times. A FAILED run status is terminal.
func (c *Client) runAsync(ctx context.Context, op, actor string, input any, maxAttempts int) ([]map[string]any, error) {
	url := fmt.Sprintf("%s/v2/acts/%s/runs?token=%s", c.baseURL, actor, c.token)
	body, err := c.postJSON(ctx, op, url, input)
	if err != nil {
		return nil, err
	}

	var started runStart
	if err := json.Unmarshal(body, &started); err != nil || started.Data.ID == "" {
		return nil, &ServiceError{Op: op, Message: "malformed run-start response", Cause: err}
	}
	runID := started.Data.ID
	log.Printf("[scrape] %s: run %s started, polling every %s (max %d attempts)", op, runID, c.pollInterval, maxAttempts)

	var items []map[string]any
	err = poll.Until(ctx, c.pollInterval, maxAttempts, func(attempt int) (bool, error) {
		status, err := c.runStatus(ctx, op, runID)
		if err != nil {
			// Transient status-check failures consume an attempt.
			log.Printf("[scrape] %s: attempt %d status check failed: %v", op, attempt, err)
			return false, nil
		}
		if status == statusFailed {
			return false, &ServiceError{Op: op, Message: fmt.Sprintf("run %s reported FAILED", runID)}
		}

		got, err := c.datasetItems(ctx, op, runID)
		if err != nil {
			log.Printf("[scrape] %s: attempt %d dataset fetch failed: %v", op, attempt, err)
			return false, nil
		}
		if len(got) > 0 {
			items = got
			return true, nil
		}
		return false, nil
	})
	if err == poll.ErrExhausted {
		return nil, &TimeoutError{Op: op, Attempts: maxAttempts}
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

// runStatus fetches the current status string of a run.
func (c *Client) runStatus(ctx context.Context, op, runID string) (string, error) {
	url := fmt.Sprintf("%s/v2/actor-runs/%s?token=%s", c.baseURL, runID, c.token)
	body, err := c.getJSON(ctx, op, url)
	if err != nil {
		return "", err
	}

	var run runStart
	if err := json.Unmarshal(body, &run); err != nil {
		return "", &ServiceError{Op: op, Message: "malformed run-status response", Cause: err}
	}
	return run.Data.Status, nil
}

// datasetItems fetches whatever results the run has produced so far.
func (c *Client) datasetItems(ctx context.Context, op, runID string) ([]map[string]any, error) {
	url := fmt.Sprintf("%s/v2/actor-runs/%s/dataset/items?token=%s", c.baseURL, runID, c.token)
	body, err := c.getJSON(ctx, op, url)
	if err != nil {
		return nil, err
	}

	var items []map[string]any
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, &ServiceError{Op: op, Message: "malformed dataset response", Cause: err}
	}
	return items, nil
}

func (c *Client) postJSON(ctx context.Context, op, url string, input any) ([]byte, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, &ServiceError{Op: op, Message: "failed to encode actor input", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &ServiceError{Op: op, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(op, req)
}

func (c *Client) getJSON(ctx context.Context, op, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &ServiceError{Op: op, Message: "failed to create request", Cause: err}
	}
	return c.do(op, req)
}

func (c *Client) do(op string, req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ServiceError{Op: op, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ServiceError{Op: op, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServiceError{Op: op, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return body, nil
}
