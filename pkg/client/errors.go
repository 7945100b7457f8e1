package client

import (
	"errors"
	"fmt"
)

const (
	networkMessage    = "network error: could not reach the server"
	unexpectedMessage = "Unexpected error."
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	// Message is the server's {"error": ...} text, or the raw body when the
	// server did not answer with the envelope.
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

// NetworkError wraps a transport failure: the request never got an answer.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// ErrorMessage turns any error returned by Client into text fit for a user.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return networkMessage
	}

	return unexpectedMessage
}
