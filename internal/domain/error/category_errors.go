package error

import "errors"

// Category domain errors.
var (
	// ErrCategoryNotFound is returned when a category is not found or has been deleted.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryNameTooLong is returned when the name exceeds the limit.
	ErrCategoryNameTooLong = errors.New("category name too long")

	// ErrNotAuthorizedToModifyCategory is returned when the user does not own the category.
	ErrNotAuthorizedToModifyCategory = errors.New("not authorized to modify category")

	// ErrInvalidColorFormat is returned when the color is not a hex value.
	ErrInvalidColorFormat = errors.New("invalid color format")
)

// CategoryErrorCode defines error codes for category errors.
// Format: CAT-XXYYYY where XX is category and YYYY is specific error.
type CategoryErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeCategoryNameTooLong   CategoryErrorCode = "CAT-010001"
	ErrCodeInvalidColorFormat    CategoryErrorCode = "CAT-010002"
	ErrCodeCategoryNotFound      CategoryErrorCode = "CAT-010004"
	ErrCodeNotAuthorizedCategory CategoryErrorCode = "CAT-010006"
	ErrCodeMissingCategoryFields CategoryErrorCode = "CAT-010008"
)

// CategoryError represents a category error with code and message.
type CategoryError struct {
	Code    CategoryErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CategoryError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CategoryError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the machine-readable code.
func (e *CategoryError) ErrorCode() string {
	return string(e.Code)
}

// NewCategoryError creates a new CategoryError with the given code and message.
func NewCategoryError(code CategoryErrorCode, message string, err error) *CategoryError {
	return &CategoryError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
