package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/careerpilot/careerpilot/internal/types"
)

// IntentClassifier decides whether a question needs current job-market data
// before it can be answered. The model-backed variant is the production
// default; the keyword variant is deterministic and is what tests use.
type IntentClassifier interface {
	NeedsJobData(ctx context.Context, question string, profile types.UserProfile) (bool, error)
}

// ModelClassifier asks the completion service for a YES/NO judgment.
type ModelClassifier struct {
	Client Client
}

// NeedsJobData builds a classification prompt and interprets a
// case-insensitive "YES" (trailing punctuation tolerated) as positive.
// Anything else, including hedged answers, is negative.
func (m *ModelClassifier) NeedsJobData(ctx context.Context, question string, profile types.UserProfile) (bool, error) {
	prompt := fmt.Sprintf(`You are a router for a career-guidance assistant.
The user is targeting the position %q at the %s level.
Question: %q

Would current job-market data (real job postings) materially improve the answer?
Reply with exactly one word: YES or NO.`, profile.Position, profile.ExperienceLevel, question)

	answer, err := m.Client.Complete(ctx, prompt, TierLite)
	if err != nil {
		return false, err
	}

	answer = strings.TrimSpace(strings.ToUpper(answer))
	answer = strings.TrimRight(answer, ".!,")
	return answer == "YES", nil
}

// jobDataKeywords are question terms that indicate market data is wanted.
var jobDataKeywords = []string{
	"job", "jobs", "opening", "openings", "vacanc", "position", "positions",
	"hiring", "salary", "salaries", "pay", "market", "demand", "skills",
	"requirements", "companies", "employer",
}

// KeywordClassifier is the deterministic rule-based variant.
type KeywordClassifier struct{}

// NeedsJobData reports whether the question mentions any job-market term.
func (KeywordClassifier) NeedsJobData(_ context.Context, question string, _ types.UserProfile) (bool, error) {
	q := strings.ToLower(question)
	for _, keyword := range jobDataKeywords {
		if strings.Contains(q, keyword) {
			return true, nil
		}
	}
	return false, nil
}
