package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrDebtNotFound            = errors.New("debt not found")
	ErrDebtorNotFound          = errors.New("debtor not found")
	ErrStoreNotFound           = errors.New("store not found")
	ErrImageNotFound           = errors.New("image not found")
	ErrInvalidDebtSum          = errors.New("debt sum must be positive")
	ErrInvalidPeriod           = errors.New("debt period is not allowed")
	ErrInvalidPaymentAmount    = errors.New("payment amount must be positive")
	ErrPaymentExceedsRemaining = errors.New("payment exceeds remaining balance")
	ErrInvalidCredentials      = errors.New("invalid login or password")
	ErrValidation              = errors.New("validation failed")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeDebtNotFound            = "DEBT_NOT_FOUND"
	ErrCodeDebtorNotFound          = "DEBTOR_NOT_FOUND"
	ErrCodeStoreNotFound           = "STORE_NOT_FOUND"
	ErrCodeImageNotFound           = "IMAGE_NOT_FOUND"
	ErrCodeValidation              = "VALIDATION_ERROR"
	ErrCodeInvalidPeriod           = "INVALID_PERIOD"
	ErrCodeInvalidPaymentAmount    = "INVALID_PAYMENT_AMOUNT"
	ErrCodePaymentExceedsRemaining = "PAYMENT_EXCEEDS_REMAINING"
	ErrCodeUnauthorized            = "UNAUTHORIZED"
	ErrCodeAtomicUnitFailure       = "ATOMIC_UNIT_FAILURE"
	ErrCodeDatabaseError           = "DATABASE_ERROR"
	ErrCodeStorageError            = "STORAGE_ERROR"
)

// Wrap common errors with business context

func WrapDebtNotFound(id string) *BusinessError {
	return NewBusinessError(ErrCodeDebtNotFound, fmt.Sprintf("Debt with ID %s not found", id), ErrDebtNotFound)
}

func WrapDebtorNotFound(id string) *BusinessError {
	return NewBusinessError(ErrCodeDebtorNotFound, fmt.Sprintf("Debtor with ID %s not found", id), ErrDebtorNotFound)
}

func WrapStoreNotFound(id string) *BusinessError {
	return NewBusinessError(ErrCodeStoreNotFound, fmt.Sprintf("Store with ID %s not found", id), ErrStoreNotFound)
}

func WrapImageNotFound(id string) *BusinessError {
	return NewBusinessError(ErrCodeImageNotFound, fmt.Sprintf("Image with ID %s not found", id), ErrImageNotFound)
}

func WrapValidation(message string) *BusinessError {
	return NewBusinessError(ErrCodeValidation, message, ErrValidation)
}

func WrapInvalidPeriod(period int) *BusinessError {
	return NewBusinessError(ErrCodeInvalidPeriod, fmt.Sprintf("Debt period %d is not allowed", period), ErrInvalidPeriod)
}

func WrapInvalidPaymentAmount(amount string) *BusinessError {
	return NewBusinessError(ErrCodeInvalidPaymentAmount, fmt.Sprintf("Invalid payment amount: %s", amount), ErrInvalidPaymentAmount)
}

func WrapPaymentExceedsRemaining(amount, remaining string) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentExceedsRemaining,
		fmt.Sprintf("Payment %s exceeds remaining balance %s", amount, remaining),
		ErrPaymentExceedsRemaining,
	)
}

func WrapUnauthorized(message string) *BusinessError {
	return NewBusinessError(ErrCodeUnauthorized, message, ErrInvalidCredentials)
}

func WrapAtomicUnitFailure(err error) *BusinessError {
	return NewBusinessError(ErrCodeAtomicUnitFailure, "atomic unit rolled back", err)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(ErrCodeDatabaseError, "database operation failed", err)
}

func WrapStorageError(err error) *BusinessError {
	return NewBusinessError(ErrCodeStorageError, "object storage operation failed", err)
}

// CodeOf returns the business error code, or DATABASE_ERROR for unknown errors.
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ErrCodeDatabaseError
}

// MessageOf returns the client-safe message of a business error. Unknown
// errors yield a generic message; the detail stays in the logs.
func MessageOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Message
	}
	return "internal server error"
}
