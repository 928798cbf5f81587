package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoToken is returned before any network call when an authenticated
	// request is attempted without a bearer token
	ErrNoToken = errors.New("please sign in")

	// ErrMissingCredentials is returned before any network call when sign-up
	// or sign-in lacks an email or password
	ErrMissingCredentials = errors.New("email and password are required")

	// ErrTimeout marks a request that exceeded the client timeout
	ErrTimeout = errors.New("request timed out")
)

// APIError is a failed round-trip. StatusCode is 0 for transport failures.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports a missing token or a 401 from the server
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrNoToken) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsValidation reports a payload rejected locally or by the server (400, 422)
func IsValidation(err error) bool {
	if errors.Is(err, ErrMissingCredentials) {
		return true
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusBadRequest || apiErr.StatusCode == http.StatusUnprocessableEntity
}

// IsTransport reports a failure that never produced an HTTP response
func IsTransport(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 0
}

// Message returns the user-facing text of err: the server-supplied error
// when present, otherwise the transport error text
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
