package inference

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoCredential marks a provider that is configured without an API key.
var ErrNoCredential = errors.New("no credential configured")

// HTTPError is a non-2xx upstream response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	body := e.Body
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, body)
}

// AttemptFailure records why one provider in a chain failed.
type AttemptFailure struct {
	Provider string
	Reason   string
}

// ExhaustedError is returned when every provider in the chain failed. It is
// terminal for the branch that issued the call; callers degrade to their
// deterministic fallback rather than surfacing it.
type ExhaustedError struct {
	Attempts []AttemptFailure
}

func (e *ExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return "all providers exhausted"
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %s", a.Provider, a.Reason))
	}
	return "all providers exhausted: " + strings.Join(parts, "; ")
}
