package errors

import (
	"errors"
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	ok := errors.As(err, &validationError)
	return ok
}

type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string {
	return e.Msg
}

func NewNotFoundError(msg string) error {
	return &NotFoundError{Msg: msg}
}

func IsNotFoundError(err error) bool {
	var notFoundError *NotFoundError
	ok := errors.As(err, &notFoundError)
	return ok
}

var (
	ErrInvalidTransactionType = NewValidationError("Invalid type. Must be 'incomes' or 'expenses'")
	ErrTransactionNotFound    = NewNotFoundError("Transaction not found")
	ErrCategoryNotFound       = NewNotFoundError("Category not found")
	ErrUserNotFound           = NewNotFoundError("User not found")
)
