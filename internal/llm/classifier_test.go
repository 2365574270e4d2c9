package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpilot/careerpilot/internal/types"
)

// stubClient replays a fixed completion and records the prompt.
type stubClient struct {
	answer string
	err    error
	prompt string
	tier   ModelTier
}

func (s *stubClient) Complete(_ context.Context, prompt string, tier ModelTier) (string, error) {
	s.prompt = prompt
	s.tier = tier
	return s.answer, s.err
}

func (s *stubClient) Close() error { return nil }

func TestModelClassifier_AnswerInterpretation(t *testing.T) {
	tests := []struct {
		answer   string
		expected bool
	}{
		{"YES", true},
		{"yes", true},
		{"Yes.", true},
		{"  YES!  ", true},
		{"NO", false},
		{"no", false},
		{"Maybe", false},
		{"YES, because current postings would help", false},
		{"", false},
	}

	profile := types.UserProfile{Position: "Data Scientist", ExperienceLevel: "middle"}
	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			stub := &stubClient{answer: tt.answer}
			classifier := &ModelClassifier{Client: stub}

			got, err := classifier.NeedsJobData(context.Background(), "what should I learn", profile)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestModelClassifier_PromptAndTier(t *testing.T) {
	stub := &stubClient{answer: "NO"}
	classifier := &ModelClassifier{Client: stub}
	profile := types.UserProfile{Position: "ML Engineer", ExperienceLevel: "senior"}

	_, err := classifier.NeedsJobData(context.Background(), "am I ready for a lead role", profile)
	require.NoError(t, err)

	assert.Equal(t, TierLite, stub.tier, "classification runs on the cheap tier")
	assert.Contains(t, stub.prompt, "ML Engineer")
	assert.Contains(t, stub.prompt, "senior")
	assert.Contains(t, stub.prompt, "am I ready for a lead role")
}

func TestModelClassifier_ErrorPropagates(t *testing.T) {
	stub := &stubClient{err: errors.New("quota exceeded")}
	classifier := &ModelClassifier{Client: stub}

	_, err := classifier.NeedsJobData(context.Background(), "anything", types.UserProfile{})
	assert.Error(t, err)
}

func TestKeywordClassifier(t *testing.T) {
	tests := []struct {
		name     string
		question string
		expected bool
	}{
		{"Job openings", "what job openings match my background", true},
		{"Salary", "what Salary can I expect", true},
		{"Skills demand", "which skills are in demand right now", true},
		{"Hiring companies", "which companies are hiring", true},
		{"General advice", "how do I stay motivated during a career change", false},
		{"Empty", "", false},
	}

	classifier := KeywordClassifier{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := classifier.NeedsJobData(context.Background(), tt.question, types.UserProfile{})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestConfigGetModel(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", cfg.GetModel(TierStandard))

	partial := &Config{Models: map[ModelTier]string{TierStandard: "gemini-2.5-flash"}}
	assert.Equal(t, "gemini-2.5-flash", partial.GetModel(TierLite), "unknown tier falls back to standard")

	empty := &Config{Models: map[ModelTier]string{}}
	assert.Equal(t, "", empty.GetModel(TierStandard))
}
