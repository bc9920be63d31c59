package error

import "errors"

// Recurring transaction domain errors.
var (
	// ErrRecurringNotFound is returned when a recurring definition is not found.
	ErrRecurringNotFound = errors.New("recurring transaction not found")

	// ErrInvalidRecurringFrequency is returned when the frequency is unknown.
	ErrInvalidRecurringFrequency = errors.New("invalid recurring frequency")

	// ErrInvalidRecurringWindow is returned when ends_at precedes starts_at.
	ErrInvalidRecurringWindow = errors.New("end date cannot be before start date")

	// ErrUnauthorizedRecurringAccess is returned when the user does not own the definition.
	ErrUnauthorizedRecurringAccess = errors.New("unauthorized access to recurring transaction")
)

// RecurringErrorCode defines error codes for recurring transaction errors.
// Format: REC-XXYYYY where XX is category and YYYY is specific error.
type RecurringErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeRecurringNotFound           RecurringErrorCode = "REC-010001"
	ErrCodeInvalidRecurringFrequency   RecurringErrorCode = "REC-010002"
	ErrCodeInvalidRecurringWindow      RecurringErrorCode = "REC-010003"
	ErrCodeUnauthorizedRecurringAccess RecurringErrorCode = "REC-010004"
	ErrCodeMissingRecurringFields      RecurringErrorCode = "REC-010005"
	ErrCodeInvalidRecurringAmount      RecurringErrorCode = "REC-010006"
	ErrCodeInvalidRecurringType        RecurringErrorCode = "REC-010007"
	ErrCodeRecurringTargetNotFound     RecurringErrorCode = "REC-010008"
	ErrCodeRecurringTargetNotOwned     RecurringErrorCode = "REC-010009"

	// Business rule errors (02XXXX)
	ErrCodeRecurringTargetRequired RecurringErrorCode = "REC-020001"
	ErrCodeRecurringDebitToPlan    RecurringErrorCode = "REC-020002"
)

// RecurringError represents a recurring transaction error with code and message.
type RecurringError struct {
	Code    RecurringErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *RecurringError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *RecurringError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the machine-readable code.
func (e *RecurringError) ErrorCode() string {
	return string(e.Code)
}

// NewRecurringError creates a new RecurringError with the given code and message.
func NewRecurringError(code RecurringErrorCode, message string, err error) *RecurringError {
	return &RecurringError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
