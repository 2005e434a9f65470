package client

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Code)
}

func statusIs(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

func IsAuthError(err error) bool { return statusIs(err, http.StatusUnauthorized) }

func IsForbidden(err error) bool { return statusIs(err, http.StatusForbidden) }

func IsNotFound(err error) bool { return statusIs(err, http.StatusNotFound) }

func IsConflict(err error) bool { return statusIs(err, http.StatusConflict) }

// ErrorCode returns the server error code ("offer_pending", "already_reviewed", ...)
// or "" when err is not an APIError.
func ErrorCode(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}
