package errors

import (
	"errors"
	"fmt"
)

// Domain-specific error types
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicateEntry indicates a unique constraint violation
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrClientNotFound indicates the client was not found
	ErrClientNotFound = errors.New("client not found")

	// ErrMailRecordNotFound indicates the mail record was not found
	ErrMailRecordNotFound = errors.New("mail record not found")

	// ErrItemNotFound indicates the mail item is not in the intake store
	ErrItemNotFound = errors.New("mail item not found")

	// ErrNoImagesAssigned indicates no mail items carry the requested client assignment
	ErrNoImagesAssigned = errors.New("no images assigned to this client")

	// ErrUnassignedItems indicates bulk dispatch was requested while items remain unassigned
	ErrUnassignedItems = errors.New("some mail items are still unassigned")

	// ErrNothingToDispatch indicates no group is eligible for bulk dispatch
	ErrNothingToDispatch = errors.New("no eligible groups to dispatch")

	// ErrConfirmationRequired indicates a dispatch was requested without explicit confirmation
	ErrConfirmationRequired = errors.New("dispatch requires explicit confirmation")

	// ErrUnassignedGroup indicates a dispatch was requested for the unassigned bucket
	ErrUnassignedGroup = errors.New("cannot dispatch the unassigned group")

	// ErrExtractionFailed indicates the OCR service call failed
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrEmailSendFailed indicates the email delivery service rejected the send
	ErrEmailSendFailed = errors.New("email send failed")

	// ErrUnauthorized indicates unauthorized access
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates forbidden access
	ErrForbidden = errors.New("forbidden")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal server error")
)

// Error codes for API responses
const (
	CodeNotFound             = "NOT_FOUND"
	CodeDuplicateEntry       = "DUPLICATE_ENTRY"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeNoImagesAssigned     = "NO_IMAGES_ASSIGNED"
	CodeUnassignedItems      = "UNASSIGNED_ITEMS"
	CodeNothingToDispatch    = "NOTHING_TO_DISPATCH"
	CodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	CodeUnassignedGroup      = "UNASSIGNED_GROUP"
	CodeExtractionFailed     = "EXTRACTION_FAILED"
	CodeEmailSendFailed      = "EMAIL_SEND_FAILED"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeInternalError        = "INTERNAL_ERROR"
)

// AppError represents an application error with context
type AppError struct {
	Err     error
	Message string
	Code    string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(err error, message string, code string) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
		Code:    code,
	}
}

// Dispatch step names used by DispatchError
const (
	StepValidate    = "validate"
	StepPersist     = "persist"
	StepFetchClient = "fetch_client"
	StepSendEmail   = "send_email"
)

// DispatchError carries the failing step of a client-group dispatch so the
// review UI can report what went wrong and for which client. The dispatch
// coordinator guarantees group state is unchanged when one of these is
// returned.
type DispatchError struct {
	Err      error  `json:"-"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	ClientID uint   `json:"client_id,omitempty"`
	Step     string `json:"step,omitempty"`
}

// Error implements the error interface
func (e *DispatchError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error
func (e *DispatchError) Unwrap() error {
	return e.Err
}

// NewDispatchError creates a DispatchError for a failed dispatch step. When
// the underlying cause carries no message the error reports "unknown error"
// instead of an empty string.
func NewDispatchError(step string, clientID uint, err error) *DispatchError {
	message := "unknown error"
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	return &DispatchError{
		Err:      err,
		Code:     GetErrorCode(err),
		Message:  fmt.Sprintf("dispatch failed for client %d at %s: %s", clientID, step, message),
		ClientID: clientID,
		Step:     step,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrClientNotFound) ||
		errors.Is(err, ErrMailRecordNotFound) ||
		errors.Is(err, ErrItemNotFound)
}

// IsDuplicateEntry checks if the error is a duplicate entry error
func IsDuplicateEntry(err error) bool {
	return errors.Is(err, ErrDuplicateEntry)
}

// IsInvalidInput checks if the error is an invalid input error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsDispatchError checks if the error is a dispatch error
func IsDispatchError(err error) bool {
	var dispatchErr *DispatchError
	return errors.As(err, &dispatchErr)
}

// GetDispatchError extracts a DispatchError from an error if it exists
func GetDispatchError(err error) *DispatchError {
	var dispatchErr *DispatchError
	if errors.As(err, &dispatchErr) {
		return dispatchErr
	}
	return nil
}

// GetErrorCode returns the appropriate error code for an error
func GetErrorCode(err error) string {
	switch {
	case IsNotFound(err):
		return CodeNotFound
	case IsDuplicateEntry(err):
		return CodeDuplicateEntry
	case IsInvalidInput(err):
		return CodeInvalidInput
	case errors.Is(err, ErrNoImagesAssigned):
		return CodeNoImagesAssigned
	case errors.Is(err, ErrUnassignedItems):
		return CodeUnassignedItems
	case errors.Is(err, ErrNothingToDispatch):
		return CodeNothingToDispatch
	case errors.Is(err, ErrConfirmationRequired):
		return CodeConfirmationRequired
	case errors.Is(err, ErrUnassignedGroup):
		return CodeUnassignedGroup
	case errors.Is(err, ErrExtractionFailed):
		return CodeExtractionFailed
	case errors.Is(err, ErrEmailSendFailed):
		return CodeEmailSendFailed
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	default:
		return CodeInternalError
	}
}
