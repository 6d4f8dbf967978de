package service

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMessage is returned for a blank chat message
	ErrEmptyMessage = errors.New("message is required")
	// ErrMessageTooLong is returned for a chat message over the length limit
	ErrMessageTooLong = errors.New("message is too long")
	// ErrProfileNotFound is returned when a requester user id has no profile
	ErrProfileNotFound = errors.New("profile not found")
	// ErrNoCandidateSource is returned when candidates are neither given nor loadable
	ErrNoCandidateSource = errors.New("no candidates given and no candidate source configured")
)

// UpstreamError is a non-200 answer from the completion API
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// IsValidationError reports whether err rejects the caller's input
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyMessage) || errors.Is(err, ErrMessageTooLong)
}
