// Package apperr holds the caller-facing error kinds of the storefront core.
// Handlers match them with errors.Is and map each kind to one HTTP status.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrRateLimited       = errors.New("rate limited")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Error carries a user-facing message and the kind it belongs to.
type Error struct {
	kind    error
	message string
}

func (e *Error) Error() string { return e.message }

func (e *Error) Unwrap() error { return e.kind }

// New builds an error of the given kind whose Error() is exactly msg.
func New(kind error, msg string) error {
	return &Error{kind: kind, message: msg}
}

// Newf is New with formatting.
func Newf(kind error, format string, args ...any) error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

// InsufficientStockError reports how many units are still available.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %d available", e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// IsValidation helps callers distinguish user-correctable input from other failures.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
