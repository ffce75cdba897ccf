package api

import (
	"errors"
	"fmt"
)

// ErrSessionExpired matches every 401 response.
var ErrSessionExpired = errors.New("session expired")

// genericFailure is shown when a failed response carries no detail.
const genericFailure = "Request failed"

// SessionExpiredError is returned for any 401 response, after the
// unauthorized handler has been triggered. Message is the server's detail,
// kept for display only.
type SessionExpiredError struct {
	Message string
}

func (e *SessionExpiredError) Error() string {
	if e.Message == "" {
		return ErrSessionExpired.Error()
	}
	return fmt.Sprintf("%s: %s", ErrSessionExpired, e.Message)
}

// Is reports whether target is ErrSessionExpired.
func (e *SessionExpiredError) Is(target error) bool {
	return target == ErrSessionExpired
}

// RequestFailedError is returned for non-2xx responses other than 401, and
// for transport failures (Status 0).
type RequestFailedError struct {
	Status  int
	Message string
	Err     error
}

func (e *RequestFailedError) Error() string {
	return e.Message
}

func (e *RequestFailedError) Unwrap() error {
	return e.Err
}

// MalformedResponseError is returned when a 2xx body cannot be decoded.
type MalformedResponseError struct {
	Status int
	Err    error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response (status %d): %v", e.Status, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Message returns the text a screen should show for err.
func Message(err error) string {
	var expired *SessionExpiredError
	var failed *RequestFailedError
	var malformed *MalformedResponseError
	switch {
	case errors.As(err, &expired):
		if expired.Message != "" {
			return expired.Message
		}
		return "Your session has expired. Please sign in again."
	case errors.As(err, &failed):
		return failed.Message
	case errors.As(err, &malformed):
		return "The server sent an unexpected response."
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}
