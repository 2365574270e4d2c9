// Package ingest populates the job index from a fresh scrape.
package ingest

import (
	"context"
	"log"

	"github.com/careerpilot/careerpilot/internal/embedding"
	"github.com/careerpilot/careerpilot/internal/search"
	"github.com/careerpilot/careerpilot/internal/types"
)

// Scraper is the slice of the scrape adapter ingestion needs.
type Scraper interface {
	Jobs(ctx context.Context, keywords, location string, count int) ([]types.JobRecord, error)
}

// Indexer is the slice of the search adapter ingestion needs.
type Indexer interface {
	EnsureMapping(ctx context.Context) error
	BulkIndex(ctx context.Context, records []types.JobRecord) error
	AggregateStats(ctx context.Context) (*search.Stats, error)
}

// Pipeline scrapes a batch of postings, embeds them, and bulk-writes them
// into the index. The embedder may be nil; records are then indexed without
// vectors and remain findable lexically.
type Pipeline struct {
	scraper  Scraper
	index    Indexer
	embedder embedding.Embedder
}

// NewPipeline wires the ingestion collaborators.
func NewPipeline(scraper Scraper, index Indexer, embedder embedding.Embedder) *Pipeline {
	return &Pipeline{scraper: scraper, index: index, embedder: embedder}
}

// Run executes one ingestion: ensure the index mapping exists (idempotent,
// re-issued every invocation), scrape, embed, bulk-write, and return a fresh
// statistics snapshot. An index-write failure is logged and swallowed, so
// from the caller's perspective ingestion still succeeded; the snapshot is
// returned regardless of whether the new records made it in.
func (p *Pipeline) Run(ctx context.Context, keywords, location string, count int) (*search.Stats, error) {
	if err := p.index.EnsureMapping(ctx); err != nil {
		log.Printf("[ingest] mapping update failed, continuing: %v", err)
	}

	records, err := p.scraper.Jobs(ctx, keywords, location, count)
	if err != nil {
		return nil, err
	}
	log.Printf("[ingest] scraped %d postings for %q / %q", len(records), keywords, location)

	p.embedAll(ctx, records)

	if err := p.index.BulkIndex(ctx, records); err != nil {
		log.Printf("[ingest] index write failed, continuing: %v", err)
	}

	return p.index.AggregateStats(ctx)
}

// embedAll attaches an embedding to each record in place. Individual
// embedding failures leave the record without a vector.
func (p *Pipeline) embedAll(ctx context.Context, records []types.JobRecord) {
	if p.embedder == nil {
		return
	}
	failures := 0
	for i := range records {
		text := records[i].Title + " " + records[i].Company + " " + records[i].Description
		vector, err := p.embedder.Embed(ctx, text)
		if err != nil {
			failures++
			continue
		}
		records[i].Embedding = vector
	}
	if failures > 0 {
		log.Printf("[ingest] %d of %d records indexed without embeddings", failures, len(records))
	}
}
