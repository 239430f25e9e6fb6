package api

import (
	"errors"
	"fmt"
)

// ErrAuthRequired is returned by protected operations when there is no
// session. No request is sent in that case.
var ErrAuthRequired = errors.New("Not logged in")

// Fallback messages, used when the backend does not supply one.
const (
	msgFetchWins       = "Failed to fetch wins"
	msgFetchMyWins     = "Failed to fetch user wins"
	msgAddWin          = "Something went wrong"
	msgLogin           = "Login failed"
	msgRegister        = "Registration failed"
	msgInvalidResponse = "Unexpected response from server"
)

// APIError is a response from the backend that was not a success, or a
// success whose body could not be understood.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// NetworkError means the request never produced a response.
type NetworkError struct {
	Op      string
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	return e.Message
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Detail includes the transport cause, for logs and verbose output.
func (e *NetworkError) Detail() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// IsUnauthorized reports whether err is a 401 from the backend, which is
// how an expired or revoked credential shows up.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 401
}
