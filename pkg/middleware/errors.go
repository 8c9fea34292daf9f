package middleware

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated: no stored session, the request was not sent.
	ErrNotAuthenticated = errors.New("not logged in, please log in first")
	// ErrSessionExpired: the stored session is past its expiry, the request
	// was not sent and the session was cleared.
	ErrSessionExpired = errors.New("session expired, please log in again")
	// ErrAuthorizationRejected: the server answered 401 and the session was cleared.
	ErrAuthorizationRejected = errors.New("authentication expired, please log in again")

	ErrNilHeader = errors.New("middleware: nil header, nowhere to put the user id")
)

// HTTPError is any non-2xx answer other than 401.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}

// StatusOf returns the status carried by an *HTTPError in err's chain, or 0.
func StatusOf(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}
