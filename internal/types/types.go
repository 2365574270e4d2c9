// Package types provides type definitions for structured data used throughout the careerpilot system.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Capture-time truncation caps for scraped profile lists. Applied once when a
// profile is mapped; a profile is never re-fetched or updated in place.
const (
	MaxExperiences    = 5
	MaxEducations     = 3
	MaxSkills         = 15
	MaxCertifications = 5
	MaxAwards         = 3
)

// Conversation window caps. Only the most recent turns are ever sent to the
// LLM; older turns are dropped from context, never summarized.
const (
	MaxHistoryTurns   = 10  // collected per session
	MaxPromptTurns    = 6   // rendered into prompts
	MaxTurnChars      = 200 // per rendered turn
	MaxJobSnippets    = 8   // retrieved jobs rendered into prompts
	MaxSnippetDescLen = 150 // description cut per rendered job
)

// JobRecord represents one job posting captured from a scrape.
// Identifier uniqueness is not enforced; duplicate ingestion produces
// duplicate records in the index.
type JobRecord struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Location        string    `json:"location"`
	Description     string    `json:"description"`
	Salary          string    `json:"salary"`
	JobType         string    `json:"job_type"`
	ExperienceLevel string    `json:"experience_level"`
	PostedDate      string    `json:"posted_date"`
	URL             string    `json:"url"`
	CompanySize     string    `json:"company_size"`
	Industry        string    `json:"industry"`
	Benefits        []string  `json:"benefits"`
	CapturedAt      time.Time `json:"captured_at"`
	Keywords        []string  `json:"keywords"`
	Embedding       []float32 `json:"embedding,omitempty"`
}

// CurrentRole describes the current position on a scraped profile.
type CurrentRole struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Industry    string `json:"industry"`
	CompanySize string `json:"company_size"`
	Tenure      string `json:"tenure"`
}

// Experience is one entry in a profile's experience list.
type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Education is one entry in a profile's education list.
type Education struct {
	School  string `json:"school"`
	Degree  string `json:"degree"`
	Field   string `json:"field"`
	EndYear string `json:"end_year"`
}

// ProfileRecord represents one scraped LinkedIn profile. Created by a scrape
// request and held client-side for the session; never persisted server-side.
type ProfileRecord struct {
	FirstName      string       `json:"first_name"`
	LastName       string       `json:"last_name"`
	Headline       string       `json:"headline"`
	Connections    int          `json:"connections"`
	Followers      int          `json:"followers"`
	CurrentRole    CurrentRole  `json:"current_role"`
	About          string       `json:"about"`
	Experiences    []Experience `json:"experiences"`
	Educations     []Education  `json:"educations"`
	Skills         []string     `json:"skills"`
	Certifications []string     `json:"certifications"`
	Awards         []string     `json:"awards"`
	Interests      []string     `json:"interests"`
	CapturedAt     time.Time    `json:"captured_at"`
}

// ConversationTurn is one exchange in a chat session. Insertion order is
// significant.
type ConversationTurn struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// UserProfile is the session-scoped user context created once at onboarding.
type UserProfile struct {
	Position        string         `json:"position" validate:"required,min=1"`
	ExperienceLevel string         `json:"experience_level" validate:"required,oneof=junior middle senior"`
	LinkedIn        *ProfileRecord `json:"linkedin,omitempty"`
}

// Validate validates the UserProfile using the validator.
func (p *UserProfile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// RecentTurns returns the last n turns of history in order.
func RecentTurns(history []ConversationTurn, n int) []ConversationTurn {
	if n <= 0 || len(history) == 0 {
		return nil
	}
	if len(history) > n {
		history = history[len(history)-n:]
	}
	return history
}
