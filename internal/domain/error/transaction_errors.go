// Package error defines domain-specific errors for the ledger engine.
package error

import "errors"

// Transaction domain errors.
var (
	// ErrTransactionNotFound is returned when a transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrNotAuthorizedToModifyTransaction is returned when the user does not own the transaction.
	ErrNotAuthorizedToModifyTransaction = errors.New("not authorized to modify transaction")

	// ErrInvalidTransactionType is returned when the type is neither CREDIT nor DEBIT.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidTransactionAmount is returned when the amount is zero or negative.
	ErrInvalidTransactionAmount = errors.New("invalid transaction amount")

	// ErrTransactionTargetRequired is returned when neither or both of category and saving plan are set.
	ErrTransactionTargetRequired = errors.New("exactly one of category or saving plan is required")

	// ErrDebitToSavingPlan is returned when a DEBIT references a saving plan.
	ErrDebitToSavingPlan = errors.New("saving plan transactions must be CREDIT")

	// ErrTransactionTargetKindChanged is returned when an update moves a transaction between a category and a saving plan.
	ErrTransactionTargetKindChanged = errors.New("cannot move a transaction between a category and a saving plan")

	// ErrDescriptionTooLong is returned when the description exceeds the limit.
	ErrDescriptionTooLong = errors.New("description too long")

	// ErrEmptyTransactionIDs is returned when a bulk operation receives no IDs.
	ErrEmptyTransactionIDs = errors.New("transaction IDs list cannot be empty")
)

// TransactionErrorCode defines error codes for transaction errors.
// Format: TXN-XXYYYY where XX is category and YYYY is specific error.
type TransactionErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidTransactionType   TransactionErrorCode = "TXN-010001"
	ErrCodeInvalidTransactionAmount TransactionErrorCode = "TXN-010003"
	ErrCodeTransactionNotFound      TransactionErrorCode = "TXN-010004"
	ErrCodeNotAuthorizedTransaction TransactionErrorCode = "TXN-010005"
	ErrCodeTxnCategoryNotFound      TransactionErrorCode = "TXN-010006"
	ErrCodeTxnCategoryNotOwned      TransactionErrorCode = "TXN-010007"
	ErrCodeDescriptionTooLong       TransactionErrorCode = "TXN-010008"
	ErrCodeMissingTransactionFields TransactionErrorCode = "TXN-010010"
	ErrCodeEmptyTransactionIDs      TransactionErrorCode = "TXN-010011"

	// Aggregate target errors (02XXXX)
	ErrCodeTransactionTargetRequired TransactionErrorCode = "TXN-020001"
	ErrCodeDebitToSavingPlan         TransactionErrorCode = "TXN-020002"
	ErrCodeTargetKindChanged         TransactionErrorCode = "TXN-020003"
	ErrCodeTxnSavingPlanNotFound     TransactionErrorCode = "TXN-020004"
	ErrCodeTxnSavingPlanNotOwned     TransactionErrorCode = "TXN-020005"
)

// TransactionError represents a transaction error with code and message.
type TransactionError struct {
	Code    TransactionErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *TransactionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *TransactionError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the machine-readable code.
func (e *TransactionError) ErrorCode() string {
	return string(e.Code)
}

// NewTransactionError creates a new TransactionError with the given code and message.
func NewTransactionError(code TransactionErrorCode, message string, err error) *TransactionError {
	return &TransactionError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
