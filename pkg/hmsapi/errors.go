package hmsapi

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingToken is returned before any request when the context
	// carries no bearer token.
	ErrMissingToken = errors.New("hmsapi: missing auth token")
	// ErrMissingUserID is returned for user-scoped calls without a user id.
	ErrMissingUserID = errors.New("hmsapi: missing user id")
)

// APIError is any failed call: transport error, HTTP status >= 400, or an
// envelope with status=false. Callers do not distinguish between them.
type APIError struct {
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("hmsapi %s: %v", e.Path, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("hmsapi %s: status %d: %s", e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("hmsapi %s: %s", e.Path, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }
