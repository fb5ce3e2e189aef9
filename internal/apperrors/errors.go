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

// ErrInvalidAmount indicates a non-positive amount was supplied for a money operation.
var ErrInvalidAmount = errors.New("amount must be positive")

// ErrInsufficientFunds indicates the sender's balance does not cover the requested amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrSelfTransfer indicates sender and receiver resolve to the same account.
var ErrSelfTransfer = errors.New("cannot transfer to the same account")

// ErrCardGenerationExhausted indicates card issuance gave up after the retry cap.
var ErrCardGenerationExhausted = errors.New("card generation retries exhausted")

// ErrUnauthorized indicates the caller's credentials were missing or wrong.
var ErrUnauthorized = errors.New("unauthorized")

// AppError wraps a lower-level failure (storage, broker) with a status code and
// a message safe to log. Domain errors use the sentinels above instead.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError wrapping err.
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
