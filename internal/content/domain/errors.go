package domain

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNotFound            = errors.New("content not found")
	ErrUnsuccessful        = errors.New("upstream reported success=false")
	ErrUpstreamStatus      = errors.New("upstream returned non-2xx status")
	ErrUpstreamUnavailable = errors.New("upstream unreachable")
	ErrDecode              = errors.New("malformed upstream response")
	ErrCacheMiss           = errors.New("content not cached")
)

// UpstreamError describes a response the API answered but did not accept.
// Kind is one of the sentinels above so callers can use errors.Is.
type UpstreamError struct {
	Kind        error
	Operation   string
	StatusCode  int
	Message     string
	FieldErrors map[string]string
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Operation, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *UpstreamError) Unwrap() error { return e.Kind }

// Fields returns the names of fields the server rejected, sorted.
func (e *UpstreamError) Fields() []string {
	names := make([]string, 0, len(e.FieldErrors))
	for name := range e.FieldErrors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsNotFound reports whether err means the requested record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
