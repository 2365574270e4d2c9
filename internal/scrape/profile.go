package scrape

import (
	"context"
	"log"

	"github.com/careerpilot/careerpilot/internal/types"
)

// profileInput is the actor input for a single-profile scrape.
type profileInput struct {
	ProfileURLs    []string `json:"profileUrls"`
	MaxConcurrency int      `json:"maxConcurrency"`
	MaxRetries     int      `json:"maxRetries"`
	Timeout        int      `json:"timeout"` // seconds
}

// Profile fetches one LinkedIn profile. The URL must already be sanitized and
// non-empty. A synchronous call is attempted first; on any failure, non-OK
// response, or empty result it falls back to an asynchronous run polled every
// 5 seconds for up to 20 attempts. Exhaustion of the budget is a
// *TimeoutError; a FAILED run or missing credentials is a *ServiceError.
func (c *Client) Profile(ctx context.Context, url string) (*types.ProfileRecord, error) {
	const op = "profile"

	if url == "" {
		return nil, &ServiceError{Op: op, Message: "profile URL is empty"}
	}
	if c.token == "" {
		return nil, &ServiceError{Op: op, Message: "scraper credentials are not configured"}
	}

	input := profileInput{
		ProfileURLs:    []string{url},
		MaxConcurrency: 1,
		MaxRetries:     2,
		Timeout:        int(c.syncTimeout.Seconds()),
	}

	items, err := c.runSync(ctx, op, c.profileActor, input)
	if err != nil || len(items) == 0 {
		if err != nil {
			log.Printf("[scrape] profile: sync call failed, falling back to async run: %v", err)
		} else {
			log.Printf("[scrape] profile: sync call returned no items, falling back to async run")
		}

		items, err = c.runAsync(ctx, op, c.profileActor, input, profilePollAttempts)
		if err != nil {
			return nil, err
		}
	}

	record := mapProfile(items[0])
	return &record, nil
}
