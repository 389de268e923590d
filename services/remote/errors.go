package remote

import (
	"errors"
	"fmt"
)

// ErrEmptySessionID is returned when the session endpoint answers without an id.
var ErrEmptySessionID = errors.New("remote returned an empty session id")

// APIError is a non-2xx answer. Detail carries the server's "detail" field
// when the body had one.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("remote API error: %d - %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("remote API error: %d", e.Status)
}

// DetailOf returns the server detail carried by err, or "".
func DetailOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}
