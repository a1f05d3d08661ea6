// Package llm - retry.go provides the bounded retry helper shared by the
// CV-parse reformat attempt and artifact regeneration. These are the only two
// retry policies in the system; both are best-effort and internal.
package llm

import "errors"

// RetryableError marks an error whose operation Attempt may run again.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// Retryable wraps err so Attempt will retry the operation that produced it.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err (or anything it wraps) was marked retryable.
func IsRetryable(err error) bool {
	var r *RetryableError
	return errors.As(err, &r)
}

// Attempt runs f up to max times, stopping at the first success or the first
// error not marked Retryable. On exhaustion it returns the last value together
// with the last error, so a caller whose check is advisory can keep the
// best-effort result.
func Attempt[T any](max int, f func(attempt int) (T, error)) (T, error) {
	var (
		val T
		err error
	)
	for i := 1; i <= max; i++ {
		val, err = f(i)
		if err == nil || !IsRetryable(err) {
			return val, err
		}
	}
	return val, err
}
