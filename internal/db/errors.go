package db

import "errors"

// Sentinel errors for backend operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
	ErrBadStatus   = errors.New("db: unexpected response status")
)

// Op constants name the backend handler or command for error context.
const (
	OpSelect = "select"
	OpGet    = "get"
	OpPing   = "admin/ping"
	OpKVGet  = "GET"
	OpKVSet  = "SET"
	OpKVDel  = "DEL"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
