package store

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks failures of the backing store itself (connection refused,
// protocol errors, ...). It is never returned for an empty queue.
var ErrUnavailable = errors.New("store unavailable")

// Error describes a failed operation against a backing store.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Key, e.Err)
}

// Unwrap exposes both ErrUnavailable and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	return []error{ErrUnavailable, e.Err}
}

func storageError(op, key string, err error) error {
	return &Error{Op: op, Key: key, Err: err}
}
