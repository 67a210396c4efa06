package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery signals an attempt to execute a criteria with no filter applied.
	ErrEmptyQuery = errors.New("empty query: no conditions applied")
	// ErrQueryFailed signals a backend round-trip or response-parse failure.
	ErrQueryFailed = errors.New("query failed")
	// ErrNoMethod signals a delegated query method the bound model does not support.
	ErrNoMethod = errors.New("no such query method")
	// ErrRecordNotFound signals a missing record during materialization.
	ErrRecordNotFound = errors.New("record not found")
	// ErrInvalidBatchSize signals a non-positive page size passed to batch iteration.
	ErrInvalidBatchSize = errors.New("batch size must be positive")
)

// NoMethodError wraps ErrNoMethod with the rejected method name.
type NoMethodError struct {
	Method string
}

func (e *NoMethodError) Error() string {
	return fmt.Sprintf("%s: %q", ErrNoMethod.Error(), e.Method)
}

func (e *NoMethodError) Unwrap() error { return ErrNoMethod }

// NewNoMethod creates a no-method error for the given method name.
func NewNoMethod(method string) error {
	return &NoMethodError{Method: method}
}
