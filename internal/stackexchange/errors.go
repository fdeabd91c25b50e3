package stackexchange

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork marks a request that failed in transit or was rejected.
	ErrNetwork = errors.New("network failure")
	// ErrDecoding marks a response body that could not be decoded.
	ErrDecoding = errors.New("decoding failure")
)

// APIError is the error triple the API puts in non-200 responses.
type APIError struct {
	StatusCode int
	ID         int
	Name       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s (%d): %s", e.StatusCode, e.Name, e.ID, e.Message)
}
