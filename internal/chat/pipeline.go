// Package chat implements the question-answering pipeline: decide whether
// job-market data is needed, generate a search query, retrieve postings, and
// compose the final answer. All steps run sequentially within one request;
// nothing is persisted between invocations.
package chat

import (
	"context"
	"log"

	"github.com/careerpilot/careerpilot/internal/llm"
	"github.com/careerpilot/careerpilot/internal/sanitize"
	"github.com/careerpilot/careerpilot/internal/types"
)

// Searcher is the slice of the search adapter the pipeline needs.
type Searcher interface {
	TextSearch(ctx context.Context, query string) ([]types.JobRecord, error)
}

// Request is one question to answer.
type Request struct {
	Question string
	Profile  types.UserProfile
	History  []types.ConversationTurn
}

// Result is the pipeline outcome. Jobs holds whatever was retrieved before a
// fault, so a fallback answer can still ship partial data.
type Result struct {
	Answer   string            `json:"answer"`
	Jobs     []types.JobRecord `json:"jobs"`
	UsedData bool              `json:"used_job_data"`
}

// Pipeline answers user questions, optionally grounding them in current
// job-market data.
type Pipeline struct {
	llm        llm.Client
	classifier llm.IntentClassifier
	search     Searcher
}

// NewPipeline wires the pipeline's collaborators.
func NewPipeline(client llm.Client, classifier llm.IntentClassifier, search Searcher) *Pipeline {
	return &Pipeline{llm: client, classifier: classifier, search: search}
}

// Answer runs the pipeline for one request. It never returns an error: any
// step failure short-circuits to a fixed apology answer carrying the jobs
// gathered so far. No step is retried; search behavior is non-deterministic
// across identical inputs because the decision and query are model judgments.
func (p *Pipeline) Answer(ctx context.Context, req Request) Result {
	question := sanitize.Clean(req.Question)
	result := Result{}

	// Decide
	needsData, err := p.classifier.NeedsJobData(ctx, question, req.Profile)
	if err != nil {
		log.Printf("[chat] decide step failed: %v", err)
		result.Answer = llm.Apology
		return result
	}
	result.UsedData = needsData

	if needsData {
		// Query-Generate: the trimmed model output is the query, cleaned of
		// query-syntax-breaking characters. An empty result falls back to the
		// question itself rather than issuing a blank search.
		rawQuery, err := p.llm.Complete(ctx, queryPrompt(question, req.Profile), llm.TierLite)
		if err != nil {
			log.Printf("[chat] query-generate step failed: %v", err)
			result.Answer = llm.Apology
			return result
		}
		query := sanitize.CleanQuery(rawQuery)
		if query == "" {
			query = sanitize.CleanQuery(question)
		}

		// Retrieve: search failure degrades to an empty result set.
		jobs, err := p.search.TextSearch(ctx, query)
		if err != nil {
			log.Printf("[chat] retrieve step failed, continuing without jobs: %v", err)
		} else {
			result.Jobs = jobs
		}
	}

	// Compose
	answer, err := p.llm.Complete(ctx, composePrompt(question, req.Profile, result.Jobs, req.History), llm.TierStandard)
	if err != nil {
		log.Printf("[chat] compose step failed: %v", err)
		result.Answer = llm.Apology
		return result
	}

	result.Answer = answer
	return result
}
