package search

import (
	"strings"

	"github.com/careerpilot/careerpilot/internal/types"
)

// embeddingDims is the dimensionality of the ingestion-time embedding model.
const embeddingDims = 768

// indexMapping declares the index schema. Text-analyzed fields dual-map to an
// exact-match keyword sub-field for faceting; structured fields are
// keyword-only; dates are native date-typed.
func indexMapping() map[string]any {
	keyword := map[string]any{"type": "keyword"}
	textWithKeyword := map[string]any{
		"type": "text",
		"fields": map[string]any{
			"keyword": map[string]any{"type": "keyword", "ignore_above": 256},
		},
	}

	return map[string]any{
		"properties": map[string]any{
			"id":               keyword,
			"title":            textWithKeyword,
			"company":          textWithKeyword,
			"location":         textWithKeyword,
			"industry":         textWithKeyword,
			"description":      map[string]any{"type": "text"},
			"search_text":      map[string]any{"type": "text"},
			"salary":           keyword,
			"job_type":         keyword,
			"experience_level": keyword,
			"posted_date":      keyword,
			"url":              keyword,
			"company_size":     keyword,
			"benefits":         keyword,
			"keywords":         keyword,
			"captured_at":      map[string]any{"type": "date"},
			"embedding": map[string]any{
				"type":       "dense_vector",
				"dims":       embeddingDims,
				"index":      true,
				"similarity": "cosine",
			},
		},
	}
}

// indexDoc maps a JobRecord to its index document, synthesizing a plain-text
// composite field for lexical fallback search. The embedding vector is
// attached only when present; records without one remain findable lexically.
func indexDoc(record types.JobRecord) map[string]any {
	doc := map[string]any{
		"id":               record.ID,
		"title":            record.Title,
		"company":          record.Company,
		"location":         record.Location,
		"description":      record.Description,
		"search_text":      strings.TrimSpace(record.Title + " " + record.Company + " " + record.Description),
		"salary":           record.Salary,
		"job_type":         record.JobType,
		"experience_level": record.ExperienceLevel,
		"posted_date":      record.PostedDate,
		"url":              record.URL,
		"company_size":     record.CompanySize,
		"industry":         record.Industry,
		"benefits":         record.Benefits,
		"keywords":         record.Keywords,
		"captured_at":      record.CapturedAt,
	}
	if len(record.Embedding) > 0 {
		doc["embedding"] = record.Embedding
	}
	return doc
}
