package error

import "errors"

// Notification and task queue domain errors.
var (
	// ErrTaskEnqueueFailed is returned when a task cannot be written to the queue.
	ErrTaskEnqueueFailed = errors.New("failed to enqueue task")

	// ErrTaskNotFound is returned when a task is not found.
	ErrTaskNotFound = errors.New("task not found")

	// ErrUnknownTask is returned when no handler is registered for a task name.
	ErrUnknownTask = errors.New("unknown task")

	// ErrInvalidTaskPayload is returned when a task payload cannot be decoded.
	ErrInvalidTaskPayload = errors.New("invalid task payload")

	// ErrInvalidTemplate is returned when an unknown notification template is requested.
	ErrInvalidTemplate = errors.New("invalid notification template")

	// ErrTemplateRenderFailed is returned when template rendering fails.
	ErrTemplateRenderFailed = errors.New("failed to render notification template")

	// ErrPermanentDeliveryFailure is returned when the provider rejects a message for good.
	ErrPermanentDeliveryFailure = errors.New("permanent delivery failure")

	// ErrTemporaryDeliveryFailure is returned when delivery may succeed on retry.
	ErrTemporaryDeliveryFailure = errors.New("temporary delivery failure")
)

// NotificationErrorCode defines error codes for notification and queue errors.
// Format: NTF-XXYYYY where XX is category and YYYY is specific error.
type NotificationErrorCode string

const (
	// Queue errors (01XXXX)
	ErrCodeTaskEnqueueFailed  NotificationErrorCode = "NTF-010001"
	ErrCodeUnknownTask        NotificationErrorCode = "NTF-010003"
	ErrCodeInvalidTaskPayload NotificationErrorCode = "NTF-010004"

	// Delivery errors (02XXXX)
	ErrCodePermanentDeliveryFailure NotificationErrorCode = "NTF-020002"
	ErrCodeTemporaryDeliveryFailure NotificationErrorCode = "NTF-020003"

	// Template errors (03XXXX)
	ErrCodeInvalidTemplate      NotificationErrorCode = "NTF-030001"
	ErrCodeTemplateRenderFailed NotificationErrorCode = "NTF-030002"
)

// NotificationError represents a notification error with code and message.
type NotificationError struct {
	Code    NotificationErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *NotificationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *NotificationError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the machine-readable code.
func (e *NotificationError) ErrorCode() string {
	return string(e.Code)
}

// IsPermanent reports whether retrying cannot help.
func (e *NotificationError) IsPermanent() bool {
	switch e.Code {
	case ErrCodePermanentDeliveryFailure, ErrCodeInvalidTemplate, ErrCodeTemplateRenderFailed,
		ErrCodeUnknownTask, ErrCodeInvalidTaskPayload:
		return true
	}
	return false
}

// NewNotificationError creates a new NotificationError with the given code and message.
func NewNotificationError(code NotificationErrorCode, message string, err error) *NotificationError {
	return &NotificationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsPermanentFailure reports whether err is a notification error that should not be retried.
func IsPermanentFailure(err error) bool {
	var ntfErr *NotificationError
	return errors.As(err, &ntfErr) && ntfErr.IsPermanent()
}
