package fred

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a fetch failure for retry decisions.
type ErrorKind int

const (
	// Transient covers network errors, timeouts, 5xx and 429 responses.
	// Worth retrying.
	Transient ErrorKind = iota
	// Malformed covers undecodable bodies and request-level rejections.
	// Retrying is assumed non-productive.
	Malformed
)

func (k ErrorKind) String() string {
	switch k {
	case Transient:
		return "transient"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// FetchError wraps a failed endpoint call with enough classification for
// the fan-out stage to pick a retry policy.
type FetchError struct {
	Kind        ErrorKind
	RateLimited bool // true only for 429 responses
	Endpoint    string
	Err         error
}

func (e *FetchError) Error() string {
	if e.RateLimited {
		return fmt.Sprintf("fred: %s %s (rate limited): %v", e.Kind, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("fred: %s %s: %v", e.Kind, e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a retryable fetch failure.
func IsTransient(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == Transient
}

// IsRateLimited reports whether err came from a 429 response.
func IsRateLimited(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.RateLimited
}

// IsMalformed reports whether err is a non-retryable decode failure.
func IsMalformed(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == Malformed
}
