// Package server provides the HTTP REST API for the career-guidance backend.
package server

import (
	"errors"
	"net/http"

	"github.com/careerpilot/careerpilot/internal/schemas"
	"github.com/careerpilot/careerpilot/internal/scrape"
	"github.com/careerpilot/careerpilot/internal/search"
)

// ErrConfiguration indicates missing credentials or endpoints. Surfaced as
// service-unavailable, never retried.
type ErrConfiguration struct {
	Message string
}

func (e *ErrConfiguration) Error() string {
	return "configuration error: " + e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error. The API
// favors 200-shaped envelopes with degraded content; only validation,
// configuration, and hard adapter failures reach this mapping.
func HTTPStatus(err error) int {
	var (
		configErr     *ErrConfiguration
		validationErr *schemas.ValidationError
		scrapeTimeout *scrape.TimeoutError
		scrapeService *scrape.ServiceError
		searchDown    *search.UnavailableError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &configErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &scrapeTimeout):
		return http.StatusGatewayTimeout
	case errors.As(err, &scrapeService):
		return http.StatusBadGateway
	case errors.As(err, &searchDown):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
