package agents

import (
	"errors"
	"fmt"
)

// BackendError is returned when an endpoint answers with success set to
// false. Message is the backend's own description of the failure.
type BackendError struct {
	Endpoint   string
	Message    string
	StatusCode int
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s reported failure (status %d)", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s reported failure: %s", e.Endpoint, e.Message)
}

// StatusError is returned when an endpoint answers with a non-2xx status and
// a body that is not a recognisable JSON response.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: non-OK HTTP status: %s", e.Endpoint, e.Status)
}

// IsBackendFailure reports whether err carries a success:false response.
func IsBackendFailure(err error) bool {
	var backendErr *BackendError
	return errors.As(err, &backendErr)
}

// FailureMessage returns the backend message carried by err, or err's text
// for any other error.
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}

	var backendErr *BackendError
	if errors.As(err, &backendErr) && backendErr.Message != "" {
		return backendErr.Message
	}
	return err.Error()
}
