package error

import "errors"

// Saving plan domain errors.
var (
	// ErrSavingPlanNotFound is returned when a saving plan is not found.
	ErrSavingPlanNotFound = errors.New("saving plan not found")

	// ErrInvalidSavingPlanAmount is returned when the target amount is zero or negative.
	ErrInvalidSavingPlanAmount = errors.New("invalid saving plan amount")

	// ErrInvalidSavingPlanDeadline is returned when the deadline would precede the original deadline.
	ErrInvalidSavingPlanDeadline = errors.New("deadline cannot be before the original deadline")

	// ErrInvalidSavingPlanFrequency is returned when the frequency is unknown.
	ErrInvalidSavingPlanFrequency = errors.New("invalid saving plan frequency")

	// ErrInvalidSavingPlanStatus is returned for a status the caller may not set.
	ErrInvalidSavingPlanStatus = errors.New("invalid saving plan status")

	// ErrUnauthorizedSavingPlanAccess is returned when the user does not own the plan.
	ErrUnauthorizedSavingPlanAccess = errors.New("unauthorized access to saving plan")

	// ErrInvalidSavingPlanName is returned when the name is empty or too long.
	ErrInvalidSavingPlanName = errors.New("invalid saving plan name")

	// ErrSavingPlanCompleted is returned when editing fields locked by completion.
	ErrSavingPlanCompleted = errors.New("saving plan is completed")
)

// SavingPlanErrorCode defines error codes for saving plan errors.
// Format: SVP-XXYYYY where XX is category and YYYY is specific error.
type SavingPlanErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeSavingPlanNotFound           SavingPlanErrorCode = "SVP-010001"
	ErrCodeInvalidSavingPlanAmount      SavingPlanErrorCode = "SVP-010002"
	ErrCodeInvalidSavingPlanDeadline    SavingPlanErrorCode = "SVP-010003"
	ErrCodeInvalidSavingPlanFrequency   SavingPlanErrorCode = "SVP-010004"
	ErrCodeInvalidSavingPlanStatus      SavingPlanErrorCode = "SVP-010005"
	ErrCodeUnauthorizedSavingPlanAccess SavingPlanErrorCode = "SVP-010006"
	ErrCodeMissingSavingPlanFields      SavingPlanErrorCode = "SVP-010007"
	ErrCodeInvalidSavingPlanName        SavingPlanErrorCode = "SVP-010008"

	// Business rule errors (02XXXX)
	ErrCodeSavingPlanCompleted SavingPlanErrorCode = "SVP-020001"
)

// SavingPlanError represents a saving plan error with code and message.
type SavingPlanError struct {
	Code    SavingPlanErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *SavingPlanError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *SavingPlanError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the machine-readable code.
func (e *SavingPlanError) ErrorCode() string {
	return string(e.Code)
}

// NewSavingPlanError creates a new SavingPlanError with the given code and message.
func NewSavingPlanError(code SavingPlanErrorCode, message string, err error) *SavingPlanError {
	return &SavingPlanError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
