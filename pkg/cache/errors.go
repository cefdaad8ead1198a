package cache

import (
	"context"
	"errors"
	"time"
)

// ErrBackend is wrapped around failures of a remote cache backend.
var ErrBackend = errors.New("cache backend error")

// RetryableError marks an error as transient.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Error returns the message of the wrapped error.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is wrapped with Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryDelay is the first backoff interval. It doubles after each attempt.
var retryDelay = 200 * time.Millisecond

// retryAttempts bounds RetryWithBackoff.
const retryAttempts = 3

// RetryWithBackoff calls fn until it succeeds, fails with an error not
// marked Retryable, or has been tried retryAttempts times. A cancelled ctx
// stops the wait between attempts.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	err := fn()
	for attempt, wait := 1, retryDelay; attempt < retryAttempts && IsRetryable(err); attempt, wait = attempt+1, wait*2 {
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		err = fn()
	}
	return err
}
