package repository

import (
	"errors"
	"fmt"
)

var (
	ErrQueueEmpty = errors.New("queue is empty")
	ErrNotFound   = errors.New("record not found")
	// ErrBadRequest wraps failures to build a request, before anything is sent.
	ErrBadRequest = errors.New("cannot build request")
)

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d for %s", e.StatusCode, e.URL)
}
