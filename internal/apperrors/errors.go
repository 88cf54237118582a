package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrCycle indicates that a category parent reassignment would create a cycle.
var ErrCycle = errors.New("category cycle detected")

// ErrTypeMismatch indicates that a category's type does not match its parent's type.
var ErrTypeMismatch = errors.New("category type mismatch")

// ErrTypeLocked indicates a category type change was rejected because the
// category already has children or transactions.
var ErrTypeLocked = errors.New("category type is locked")

// ErrAlreadyPosted indicates a recurring posting already exists for a
// (rule, month) pair. It is a benign outcome, not a failure: callers fold it
// into their skipped count.
var ErrAlreadyPosted = errors.New("recurring charge already posted for month")

// AppError carries an HTTP-ish status code alongside a message and the
// wrapped cause. Repositories use it for infrastructure failures that have no
// sentinel of their own.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
