package error

import "errors"

// Budget domain errors.
var (
	// ErrBudgetNotFound is returned when a budget is not found.
	ErrBudgetNotFound = errors.New("budget not found")

	// ErrBudgetAlreadyExists is returned when an active budget already covers the category and month.
	ErrBudgetAlreadyExists = errors.New("budget already exists for this category and month")

	// ErrInvalidBudgetAmount is returned when the amount is zero or negative.
	ErrInvalidBudgetAmount = errors.New("invalid budget amount")

	// ErrInvalidBudgetPeriod is returned when the month or year is out of range.
	ErrInvalidBudgetPeriod = errors.New("invalid budget period")

	// ErrUnauthorizedBudgetAccess is returned when the user does not own the budget.
	ErrUnauthorizedBudgetAccess = errors.New("unauthorized access to budget")
)

// BudgetErrorCode defines error codes for budget errors.
// Format: BGT-XXYYYY where XX is category and YYYY is specific error.
type BudgetErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeBudgetNotFound           BudgetErrorCode = "BGT-010001"
	ErrCodeBudgetAlreadyExists      BudgetErrorCode = "BGT-010002"
	ErrCodeInvalidBudgetAmount      BudgetErrorCode = "BGT-010003"
	ErrCodeBudgetCategoryNotFound   BudgetErrorCode = "BGT-010004"
	ErrCodeBudgetCategoryNotOwned   BudgetErrorCode = "BGT-010005"
	ErrCodeUnauthorizedBudgetAccess BudgetErrorCode = "BGT-010006"
	ErrCodeInvalidBudgetPeriod      BudgetErrorCode = "BGT-010007"
	ErrCodeMissingBudgetFields      BudgetErrorCode = "BGT-010008"
	ErrCodeBudgetMonthRequiresYear  BudgetErrorCode = "BGT-010009"
)

// BudgetError represents a budget error with code and message.
type BudgetError struct {
	Code    BudgetErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *BudgetError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *BudgetError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the machine-readable code.
func (e *BudgetError) ErrorCode() string {
	return string(e.Code)
}

// NewBudgetError creates a new BudgetError with the given code and message.
func NewBudgetError(code BudgetErrorCode, message string, err error) *BudgetError {
	return &BudgetError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
