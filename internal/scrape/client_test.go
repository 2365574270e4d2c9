package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// actorService is a configurable fake of the actor API used by Client.
type actorService struct {
	syncStatus   int
	syncItems    []map[string]any
	runStatus    string
	datasetItems []map[string]any
	// datasetAfter withholds dataset items until this many dataset fetches
	// have happened, to exercise the polling loop.
	datasetAfter int

	syncCalls    atomic.Int64
	runCalls     atomic.Int64
	statusCalls  atomic.Int64
	datasetCalls atomic.Int64

	lastSyncInput map[string]any
}

func (s *actorService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/acts/", func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "run-sync-get-dataset-items") {
			s.syncCalls.Add(1)
			_ = json.NewDecoder(r.Body).Decode(&s.lastSyncInput)
			if s.syncStatus != 0 && s.syncStatus != http.StatusOK {
				w.WriteHeader(s.syncStatus)
				return
			}
			writeJSON(w, s.syncItems)
			return
		}
		// run submission
		s.runCalls.Add(1)
		writeJSON(w, map[string]any{"data": map[string]any{"id": "run-1", "status": "RUNNING"}})
	})
	mux.HandleFunc("/v2/actor-runs/run-1", func(w http.ResponseWriter, r *http.Request) {
		s.statusCalls.Add(1)
		writeJSON(w, map[string]any{"data": map[string]any{"id": "run-1", "status": s.runStatus}})
	})
	mux.HandleFunc("/v2/actor-runs/run-1/dataset/items", func(w http.ResponseWriter, r *http.Request) {
		n := s.datasetCalls.Add(1)
		if int(n) <= s.datasetAfter {
			writeJSON(w, []map[string]any{})
			return
		}
		writeJSON(w, s.datasetItems)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(baseURL string) *Client {
	return &Client{
		baseURL:      baseURL,
		token:        "test-token",
		jobActor:     "vendor~job-actor",
		profileActor: "vendor~profile-actor",
		syncTimeout:  2 * time.Second,
		pollInterval: time.Millisecond,
		httpClient:   &http.Client{},
	}
}

func TestProfile_SyncSuccess(t *testing.T) {
	svc := &actorService{
		syncItems: []map[string]any{{
			"firstName": "Ada",
			"lastName":  "Lovelace",
			"headline":  "Software Engineer",
		}},
	}
	srv := httptest.NewServer(svc.handler())
	defer srv.Close()

	c := newTestClient(srv.URL)
	record, err := c.Profile(context.Background(), "https://www.linkedin.com/in/ada")

	require.NoError(t, err)
	assert.Equal(t, "Ada", record.FirstName)
	assert.Equal(t, "Software Engineer", record.Headline)
	assert.Equal(t, int64(1), svc.syncCalls.Load())
	assert.Equal(t, int64(0), svc.runCalls.Load(), "sync success must not start an async run")
}

func TestProfile_SyncEmptyFallsBackToAsync(t *testing.T) {
	svc := &actorService{
		syncItems:    []map[string]any{},
		runStatus:    "RUNNING",
		datasetItems: []map[string]any{{"firstName": "Ada"}},
		datasetAfter: 2,
	}
	srv := httptest.NewServer(svc.handler())
	defer srv.Close()

	c := newTestClient(srv.URL)
	record, err := c.Profile(context.Background(), "https://www.linkedin.com/in/ada")

	require.NoError(t, err)
	assert.Equal(t, "Ada", record.FirstName)
	assert.Equal(t, int64(1), svc.runCalls.Load())
	assert.Equal(t, int64(3), svc.datasetCalls.Load(), "should poll until items appear")
}

func TestProfile_SyncErrorFallsBackToAsync(t *testing.T) {
	svc := &actorService{
		syncStatus:   http.StatusBadGateway,
		runStatus:    "RUNNING",
		datasetItems: []map[string]any{{"firstName": "Ada"}},
	}
	srv := httptest.NewServer(svc.handler())
	defer srv.Close()

	c := newTestClient(srv.URL)
	record, err := c.Profile(context.Background(), "https://www.linkedin.com/in/ada")

	require.NoError(t, err)
	assert.Equal(t, "Ada", record.FirstName)
}

func TestProfile_FailedRunIsTerminal(t *testing.T) {
	svc := &actorService{
		syncItems: []map[string]any{},
		runStatus: "FAILED",
	}
	srv := httptest.NewServer(svc.handler())
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Profile(context.Background(), "https://www.linkedin.com/in/ada")

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Contains(t, svcErr.Message, "FAILED")
	assert.Equal(t, int64(1), svc.statusCalls.Load(), "FAILED must stop polling immediately")
}

func TestProfile_PollExhaustionIsTimeout(t *testing.T) {
	svc := &actorService{
		syncItems:    []map[string]any{},
		runStatus:    "RUNNING",
		datasetItems: []map[string]any{},
	}
	srv := httptest.NewServer(svc.handler())
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Profile(context.Background(), "https://www.linkedin.com/in/ada")

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "profile", timeoutErr.Op)
	assert.Equal(t, profilePollAttempts, timeoutErr.Attempts)
	assert.Equal(t, int64(profilePollAttempts), svc.datasetCalls.Load())
}

func TestProfile_InputValidation(t *testing.T) {
	c := newTestClient("http://unused")

	_, err := c.Profile(context.Background(), "")
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)

	c.token = ""
	_, err = c.Profile(context.Background(), "https://www.linkedin.com/in/ada")
	require.ErrorAs(t, err, &svcErr)
	assert.Contains(t, svcErr.Message, "credentials")
}

func TestJobs_SyncSuccess(t *testing.T) {
	svc := &actorService{
		syncItems: []map[string]any{
			{"id": "j1", "title": "Data Scientist", "companyName": "Acme"},
			{"id": "j2", "title": "ML Engineer", "companyName": "Globex"},
		},
	}
	srv := httptest.NewServer(svc.handler())
	defer srv.Close()

	c := newTestClient(srv.URL)
	records, err := c.Jobs(context.Background(), "data scientist", "Berlin", 100)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Data Scientist", records[0].Title)
	assert.Equal(t, "Globex", records[1].Company)
}

func TestJobs_CountClampedToMinimumBatch(t *testing.T) {
	svc := &actorService{
		syncItems: []map[string]any{{"id": "j1", "title": "Engineer"}},
	}
	srv := httptest.NewServer(svc.handler())
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Jobs(context.Background(), "engineer", "", 5)

	require.NoError(t, err)
	assert.Equal(t, float64(minJobBatch), svc.lastSyncInput["count"])
	urls, ok := svc.lastSyncInput["urls"].([]any)
	require.True(t, ok)
	require.Len(t, urls, 1)
	assert.Contains(t, urls[0], "keywords=engineer")
}

func TestJobs_TotalFailureDegradesToDemoData(t *testing.T) {
	svc := &actorService{
		syncStatus:   http.StatusBadGateway,
		runStatus:    "RUNNING",
		datasetItems: []map[string]any{},
	}
	srv := httptest.NewServer(svc.handler())
	defer srv.Close()

	c := newTestClient(srv.URL)
	records, err := c.Jobs(context.Background(), "data scientist", "", 100)

	require.NoError(t, err, "degraded path must not surface an error")
	require.Len(t, records, 3)
	for i, record := range records {
		assert.Equal(t, fmt.Sprintf("demo-%d", i+1), record.ID)
		assert.Contains(t, record.Company, "(demo)")
		assert.Equal(t, "Remote", record.Location)
		assert.Equal(t, []string{"demo"}, record.Keywords)
	}
}

func TestJobs_MissingCredentials(t *testing.T) {
	c := newTestClient("http://unused")
	c.token = ""

	_, err := c.Jobs(context.Background(), "engineer", "", 100)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "jobs", svcErr.Op)
}

func TestJobs_ContextCancellationDuringPoll(t *testing.T) {
	svc := &actorService{
		syncItems:    []map[string]any{},
		runStatus:    "RUNNING",
		datasetItems: []map[string]any{},
	}
	srv := httptest.NewServer(svc.handler())
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.pollInterval = 50 * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	records, err := c.Jobs(ctx, "engineer", "", 100)
	require.NoError(t, err, "cancellation also degrades to demo data")
	require.Len(t, records, 3)
	assert.Equal(t, "demo-1", records[0].ID)
}
