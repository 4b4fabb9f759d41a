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

// ErrForbidden indicates that the actor's role does not permit the operation.
var ErrForbidden = errors.New("operation not permitted for role")

// ErrInvalidAmount indicates a monetary amount that could not be parsed, or
// that is negative or zero where a positive amount is required.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrInvalidLineItem indicates a line item with a non-positive quantity or a
// negative unit price.
var ErrInvalidLineItem = errors.New("invalid line item")

// ErrInvalidState indicates that the operation is not permitted in the
// document's current lifecycle state.
var ErrInvalidState = errors.New("operation not permitted in current state")

// ErrOverpayment indicates a payment exceeding the document's remaining amount.
var ErrOverpayment = errors.New("payment exceeds remaining amount")

// ErrConcurrencyConflict indicates a lost update was detected (serialization
// or lock failure). Safe to retry.
var ErrConcurrencyConflict = errors.New("concurrent modification detected")

// AppError wraps a lower-level failure with an HTTP-ish status code and a
// message safe to log. Used by the repository layer for persistence failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError wrapping the given error.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
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
