package errors

import (
	stderrors "errors"
	"fmt"
	"time"

	goerrors "github.com/go-errors/errors"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrConfiguration ErrorType = "CONFIGURATION"
	ErrNotFound      ErrorType = "NOT_FOUND"
	ErrInvalidInput  ErrorType = "INVALID_INPUT"
	ErrNormalization ErrorType = "NORMALIZATION"
	ErrTransport     ErrorType = "TRANSPORT"
	ErrVerification  ErrorType = "VERIFICATION"
	ErrCleanup       ErrorType = "CLEANUP"
	ErrInternal      ErrorType = "INTERNAL"
)

var typeNames = map[ErrorType]string{
	ErrConfiguration: "ConfigurationError",
	ErrNotFound:      "NotFoundError",
	ErrInvalidInput:  "ValidationError",
	ErrNormalization: "NormalizationError",
	ErrTransport:     "TransportError",
	ErrVerification:  "VerificationError",
	ErrCleanup:       "CleanupError",
	ErrInternal:      "InternalError",
}

// AppError represents an application error
type AppError struct {
	Type      ErrorType
	Message   string
	Cause     error
	Timestamp time.Time

	stack []byte
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Name returns the taxonomy name reported to API clients, e.g. "TransportError".
func (e *AppError) Name() string {
	if name, ok := typeNames[e.Type]; ok {
		return name
	}
	return "Error"
}

// Stack returns the call stack captured when the error was created.
func (e *AppError) Stack() string {
	return string(e.stack)
}

// New creates a new AppError
//go:noinline
func New(errType ErrorType, message string, cause error) *AppError {
	return newAppError(errType, message, cause)
}

// newAppError must only be called directly from an exported constructor so the
// captured stack starts at the constructor's caller. Neither may be inlined or
// the skip count lands on the wrong frame.
//go:noinline
func newAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:      errType,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
		stack:     goerrors.Wrap(message, 2).Stack(),
	}
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func isType(err error, errType ErrorType) bool {
	if appErr, ok := As(err); ok {
		return appErr.Type == errType
	}
	return false
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return isType(err, ErrNotFound)
}

// IsConfiguration checks if the error is a configuration error
func IsConfiguration(err error) bool {
	return isType(err, ErrConfiguration)
}

// IsInvalidInput checks if the error is an invalid input error
func IsInvalidInput(err error) bool {
	return isType(err, ErrInvalidInput)
}

// IsValidationError is an alias for IsInvalidInput
func IsValidationError(err error) bool {
	return IsInvalidInput(err)
}

// IsNormalization checks if the error is a URL normalization error
func IsNormalization(err error) bool {
	return isType(err, ErrNormalization)
}

// IsTransport checks if the error is a clone or push failure
func IsTransport(err error) bool {
	return isType(err, ErrTransport)
}

// IsVerification checks if the error is a push verification failure
func IsVerification(err error) bool {
	return isType(err, ErrVerification)
}

// IsCleanup checks if the error is a workspace cleanup failure
func IsCleanup(err error) bool {
	return isType(err, ErrCleanup)
}

// NewConfigurationError creates a new configuration error
//go:noinline
func NewConfigurationError(message string, err error) *AppError {
	return newAppError(ErrConfiguration, message, err)
}

// NewNotFoundError creates a new not found error
//go:noinline
func NewNotFoundError(message string, err error) *AppError {
	return newAppError(ErrNotFound, message, err)
}

// NewValidationError creates a new validation error
//go:noinline
func NewValidationError(message string, err error) *AppError {
	return newAppError(ErrInvalidInput, message, err)
}

// NewNormalizationError creates a new URL normalization error
//go:noinline
func NewNormalizationError(message string, err error) *AppError {
	return newAppError(ErrNormalization, message, err)
}

// NewTransportError creates a new transport error
//go:noinline
func NewTransportError(message string, err error) *AppError {
	return newAppError(ErrTransport, message, err)
}

// NewVerificationError creates a new verification error
//go:noinline
func NewVerificationError(message string, err error) *AppError {
	return newAppError(ErrVerification, message, err)
}

// NewCleanupError creates a new cleanup error
//go:noinline
func NewCleanupError(message string, err error) *AppError {
	return newAppError(ErrCleanup, message, err)
}

// NewInternalError creates a new internal error
//go:noinline
func NewInternalError(message string, err error) *AppError {
	return newAppError(ErrInternal, message, err)
}

// NotFoundError represents a not found error
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewResourceNotFoundError creates a new NotFoundError for a specific resource
func NewResourceNotFoundError(resource, id string) error {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}
