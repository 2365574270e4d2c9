// Package poll provides a bounded fixed-interval polling primitive.
package poll

import (
	"context"
	"errors"
	"time"
)

// ErrExhausted is returned when the attempt budget runs out before the check
// function reports completion.
var ErrExhausted = errors.New("poll: attempt budget exhausted")

// CheckFunc inspects the polled resource. Returning done stops polling with
// success; returning a non-nil error stops polling immediately with that
// error (terminal failure). attempt is 1-based.
type CheckFunc func(attempt int) (done bool, err error)

// Until calls fn up to maxAttempts times, sleeping interval between attempts.
// The first attempt runs after one interval, matching a submit-then-poll flow
// where the work was just started. Returns nil once fn reports done, fn's
// error if fn fails terminally, ctx.Err() on cancellation, and ErrExhausted
// when the budget runs out.
func Until(ctx context.Context, interval time.Duration, maxAttempts int, fn CheckFunc) error {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return ctx.Err()
		}

		done, err := fn(attempt)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	return ErrExhausted
}
