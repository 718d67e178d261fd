package github

import (
	"errors"
	"fmt"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
)

// APIError represents a GitHub API error response. It unwraps to the
// matching domain sentinel so callers can use errors.Is.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// Unwrap maps the HTTP status onto the domain error taxonomy.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case 404:
		return domain.ErrNotFound
	case 401:
		return domain.ErrUnauthorized
	case 403:
		return domain.ErrForbidden
	case 429:
		return domain.ErrRateLimited
	default:
		return nil
	}
}

// RateLimitError reports an exhausted API quota with its reset time.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// Unwrap maps onto the domain error taxonomy.
func (e *RateLimitError) Unwrap() error {
	return domain.ErrRateLimited
}

// wrapError converts go-github errors to this package's error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) {
		return &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
			URL:        ghErr.Response.Request.URL.String(),
		}
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   c.limiter.ResetTime(),
			Remaining: c.limiter.Remaining(),
			Limit:     c.limiter.Limit(),
		}
	}

	return fmt.Errorf("%s: %w", operation, err)
}
