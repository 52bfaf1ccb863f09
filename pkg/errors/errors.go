package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrLoanNotFound            = errors.New("loan not found")
	ErrInvalidRepaymentAmount  = errors.New("invalid repayment amount")
	ErrValidation              = errors.New("validation failed")
	ErrNoIncomeForPeriod       = errors.New("no income recorded for period")
	ErrExpenseCodeNotAllocated = errors.New("expense code not allocated in period")
	ErrNothingToSave           = errors.New("nothing to save")
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
	ErrCodeLoadFailed             = "LOAD_FAILED"
	ErrCodeSaveFailed             = "SAVE_FAILED"
	ErrCodeValidationFailed       = "VALIDATION_FAILED"
	ErrCodeLoanNotFound           = "LOAN_NOT_FOUND"
	ErrCodeInvalidRepaymentAmount = "INVALID_REPAYMENT_AMOUNT"
	ErrCodeCacheError             = "CACHE_ERROR"
)

// CodeOf returns the business code carried by err, or "" when err is not a BusinessError.
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

func WrapLoadFailed(source string, err error) *BusinessError {
	return NewBusinessError(
		ErrCodeLoadFailed,
		fmt.Sprintf("failed to load %s", source),
		err,
	)
}

func WrapSaveFailed(source string, err error) *BusinessError {
	return NewBusinessError(
		ErrCodeSaveFailed,
		fmt.Sprintf("failed to save %s", source),
		err,
	)
}

func WrapValidation(message string, err error) *BusinessError {
	if err == nil {
		err = ErrValidation
	}
	return NewBusinessError(ErrCodeValidationFailed, message, err)
}

func WrapLoanNotFound(projectCode, loan string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Advance %s not found in project %s", loan, projectCode),
		ErrLoanNotFound,
	)
}

func WrapInvalidRepaymentAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidRepaymentAmount,
		fmt.Sprintf("Invalid repayment amount: %s", amount),
		ErrInvalidRepaymentAmount,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
