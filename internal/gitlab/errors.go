package gitlab

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a non-2xx response from the GitLab API.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gitlab: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gitlab: HTTP %d for %s", e.StatusCode, e.URL)
}

// IsNotFound returns true if the error is a 404 not found error.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized returns true if the error is a 401 unauthorized error.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsClientError returns true for any 4xx status.
func (e *APIError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// IsRecoverable reports whether err is a per-project failure that callers
// tolerating partial results should fold into "zero results" instead of
// aborting the fan-out. Only 4xx API responses qualify; transport errors
// and 5xx abort.
func IsRecoverable(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsClientError()
}
