package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/careerpilot/careerpilot/internal/chat"
	"github.com/careerpilot/careerpilot/internal/sanitize"
	"github.com/careerpilot/careerpilot/internal/schemas"
	"github.com/careerpilot/careerpilot/internal/types"
)

// maxBodyBytes caps inbound request bodies.
const maxBodyBytes = 1 << 20

// ChatRequest is the question-answering request body.
type ChatRequest struct {
	Question string                   `json:"question"`
	Profile  types.UserProfile        `json:"profile"`
	History  []types.ConversationTurn `json:"history"`
}

// ScrapeProfileRequest is the profile-scrape request body.
type ScrapeProfileRequest struct {
	URL string `json:"url"`
}

// CollectJobsRequest is the job-ingestion request body.
type CollectJobsRequest struct {
	Keywords string `json:"keywords"`
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// decodeBody validates the body against the named schema and decodes it.
func decodeBody(r *http.Request, schemaName string, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return &schemas.ValidationError{Errors: []schemas.FieldError{{Field: "(root)", Message: "failed to read body"}}}
	}
	if err := schemas.Validate(schemaName, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &schemas.ValidationError{Errors: []schemas.FieldError{{Field: "(root)", Message: "body does not match the expected shape"}}}
	}
	return nil
}

// handleChat answers one user question, optionally grounded in job-market
// data. Pipeline faults never surface as 5xx; the envelope stays successful
// with an apology answer.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeBody(r, "chat_request.json", &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := req.Profile.Validate(); err != nil {
		s.errorResponse(w, &schemas.ValidationError{Errors: []schemas.FieldError{{Field: "profile", Message: err.Error()}}})
		return
	}
	if s.pipeline == nil {
		s.errorResponse(w, &ErrConfiguration{Message: "LLM credentials are not configured"})
		return
	}

	history := types.RecentTurns(req.History, types.MaxHistoryTurns)
	result := s.pipeline.Answer(r.Context(), chat.Request{
		Question: req.Question,
		Profile:  req.Profile,
		History:  history,
	})

	s.successResponse(w, result)
}

// handleScrapeProfile scrapes one LinkedIn profile.
func (s *Server) handleScrapeProfile(w http.ResponseWriter, r *http.Request) {
	var req ScrapeProfileRequest
	if err := decodeBody(r, "scrape_profile_request.json", &req); err != nil {
		s.errorResponse(w, err)
		return
	}

	url := sanitize.CleanURL(req.URL)
	if url == "" {
		s.errorResponse(w, &schemas.ValidationError{Errors: []schemas.FieldError{{Field: "url", Message: "must be an absolute http(s) URL"}}})
		return
	}
	if s.cfg.ScraperToken == "" {
		s.errorResponse(w, &ErrConfiguration{Message: "scraper credentials are not configured"})
		return
	}

	record, err := s.scraper.Profile(r.Context(), url)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.successResponse(w, record)
}

// handleCollectJobs scrapes a batch of postings and ingests them into the
// index, returning a statistics snapshot. Index-write failures do not fail
// the request.
func (s *Server) handleCollectJobs(w http.ResponseWriter, r *http.Request) {
	var req CollectJobsRequest
	if err := decodeBody(r, "collect_jobs_request.json", &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if s.cfg.ScraperToken == "" {
		s.errorResponse(w, &ErrConfiguration{Message: "scraper credentials are not configured"})
		return
	}

	keywords := sanitize.Clean(req.Keywords)
	location := sanitize.Clean(req.Location)

	stats, err := s.ingestion.Run(r.Context(), keywords, location, req.Count)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.successResponse(w, stats)
}

// handleSearchJobs runs a lexical search. Unlike the chat path, search
// failures here propagate to the caller.
func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	query := sanitize.CleanQuery(r.URL.Query().Get("q"))

	jobs, err := s.searcher.TextSearch(r.Context(), query)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.successResponse(w, map[string]any{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// handleJobStats returns aggregate counts and facet breakdowns.
func (s *Server) handleJobStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.searcher.AggregateStats(r.Context())
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.successResponse(w, stats)
}
