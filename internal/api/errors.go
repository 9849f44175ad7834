package api

import (
	"fmt"
	"time"
)

// ErrRateLimit indicates the backend returned 429.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrUnavailable indicates the backend is down or unreachable. Callers
// fall back to local data (static question sets, heuristic risk scoring,
// canned encouragement) when they see this.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("screening service unavailable: %v", e.Err)
	}
	return "screening service unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrBadPayload indicates the backend responded with a payload that does
// not decode or fails boundary validation. Not retryable.
type ErrBadPayload struct {
	Err error
}

func (e *ErrBadPayload) Error() string {
	return fmt.Sprintf("malformed service payload: %v", e.Err)
}

func (e *ErrBadPayload) Unwrap() error { return e.Err }
