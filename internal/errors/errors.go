package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

const (
	// Authentication & Authorization
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeAwaitingApproval   ErrorCode = "AWAITING_APPROVAL"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeSelfActionDenied   ErrorCode = "SELF_ACTION_DENIED"

	// Validation
	ErrCodeValidation  ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidRole ErrorCode = "INVALID_ROLE"

	// Resource
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeDuplicateEmail ErrorCode = "DUPLICATE_EMAIL"
	ErrCodeAlreadyExists  ErrorCode = "ALREADY_EXISTS"
	ErrCodeLastSuperAdmin ErrorCode = "LAST_SUPER_ADMIN"

	// Rate Limiting
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"

	// Internal
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeStoreFailure ErrorCode = "STORE_FAILURE"
	ErrCodeExternal     ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

// AppError is a structured error that can be returned to clients
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is matches any AppError carrying the same code, so callers can compare
// against the constructors below with errors.Is.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// WithCause adds a cause to the error
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common error constructors

func InvalidCredentials() *AppError {
	return New(ErrCodeInvalidCredentials, "Invalid credentials")
}

func AwaitingApproval() *AppError {
	return New(ErrCodeAwaitingApproval, "Awaiting approval")
}

func Unauthorized() *AppError {
	return New(ErrCodeUnauthorized, "Unauthorized")
}

func Forbidden(message string) *AppError {
	return New(ErrCodeForbidden, message)
}

func SelfActionDenied(message string) *AppError {
	return New(ErrCodeSelfActionDenied, message)
}

func ValidationError(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func MissingRequired(field string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("%s is required", field))
}

func InvalidRole() *AppError {
	return New(ErrCodeInvalidRole, "Invalid role")
}

func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func DuplicateEmail() *AppError {
	return New(ErrCodeDuplicateEmail, "Email already exists")
}

func AlreadyExists(resource string) *AppError {
	return New(ErrCodeAlreadyExists, fmt.Sprintf("%s already exists", resource))
}

func LastSuperAdmin() *AppError {
	return New(ErrCodeLastSuperAdmin, "At least one super admin must remain")
}

func RateLimitExceeded() *AppError {
	return New(ErrCodeRateLimitExceeded, "Too many requests. Please try again later.")
}

func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

func StoreFailure(cause error) *AppError {
	return Wrap(ErrCodeStoreFailure, "Internal server error", cause)
}

func External(service string, cause error) *AppError {
	return Wrap(ErrCodeExternal, fmt.Sprintf("External service error: %s", service), cause)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetCode returns the error code if the error is an AppError, otherwise returns ErrCodeInternal
func GetCode(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}
