package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Apology is returned as the completion when the service produces no usable
// candidate, and by the orchestration layer when any pipeline step fails.
const Apology = "I'm sorry, I couldn't put together an answer just now. Please try asking again in a moment."

// ServiceError indicates the completion service rejected the call or
// credentials are absent.
type ServiceError struct {
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("llm: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("llm: %s", e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

// Client is an abstraction over the prompt-completion service. The adapter
// keeps no conversation state; callers serialize all context into the prompt.
type Client interface {
	// Complete submits prompt text and returns the first generated candidate,
	// or Apology when the service returns no usable candidate.
	Complete(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// Close releases any resources held by the client
	Close() error
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, &ServiceError{Message: "API key is required"}
	}
	if config == nil {
		config = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &ServiceError{Message: "failed to create Gemini client", Cause: err}
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Complete submits the prompt to the tier's model and returns the first text
// candidate.
func (c *GeminiClient) Complete(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", &ServiceError{Message: fmt.Sprintf("no model configured for tier %s", tier)}
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.2)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &ServiceError{Message: "completion request failed", Cause: err}
	}

	return extractText(resp), nil
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractText pulls the first candidate's text parts out of the response,
// falling back to Apology when nothing usable came back.
func extractText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return Apology
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return Apology
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return Apology
	}

	return strings.TrimSpace(strings.Join(parts, ""))
}
