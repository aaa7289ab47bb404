// Package errors defines the closed error taxonomy shared by all services.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies an error category callers can branch on.
type ErrorCode string

const (
	// Validation failures.
	CodeInvalidInput         ErrorCode = "INVALID_INPUT"
	CodeDivisionByZero       ErrorCode = "DIVISION_BY_ZERO"
	CodeNegativeSquareRoot   ErrorCode = "NEGATIVE_SQUARE_ROOT"
	CodeNonPositiveLog       ErrorCode = "NON_POSITIVE_LOG"
	CodeInvalidAngleUnit     ErrorCode = "INVALID_ANGLE_UNIT"
	CodeUnsupportedUnit      ErrorCode = "UNSUPPORTED_UNIT"
	CodeUnsupportedOperation ErrorCode = "UNSUPPORTED_OPERATION"
	CodeWeakPassword         ErrorCode = "WEAK_PASSWORD"
	CodeUsernameTaken        ErrorCode = "USERNAME_TAKEN"
	CodeEmailTaken           ErrorCode = "EMAIL_TAKEN"

	// Authentication and authorization failures.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeInvalidToken ErrorCode = "INVALID_TOKEN"
	CodeForbidden    ErrorCode = "FORBIDDEN"

	// Resource and infrastructure failures.
	CodeNotFound ErrorCode = "NOT_FOUND"
	CodeInternal ErrorCode = "INTERNAL_ERROR"
)

// ServiceError is a structured error carrying a stable code, a caller-facing
// message, and the HTTP status the transport layer should use.
type ServiceError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Details    map[string]interface{}
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause, if any.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// WithDetails attaches a key/value pair for diagnostics and returns the error.
func (e *ServiceError) WithDetails(key string, value interface{}) *ServiceError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a ServiceError with an explicit code, message and status.
func New(code ErrorCode, message string, status int) *ServiceError {
	return &ServiceError{Code: code, Message: message, HTTPStatus: status}
}

// GetServiceError extracts a *ServiceError from err, or nil if err does not
// wrap one.
func GetServiceError(err error) *ServiceError {
	var svcErr *ServiceError
	if stderrors.As(err, &svcErr) {
		return svcErr
	}
	return nil
}

// IsValidation reports whether err is a validation-class error (as opposed to
// auth, not-found, or internal).
func IsValidation(err error) bool {
	svcErr := GetServiceError(err)
	return svcErr != nil && svcErr.HTTPStatus == http.StatusBadRequest
}

// InvalidInput reports a malformed or domain-invalid request field.
func InvalidInput(message string) *ServiceError {
	return New(CodeInvalidInput, message, http.StatusBadRequest)
}

// DivisionByZero reports a division request whose divisor is zero.
func DivisionByZero() *ServiceError {
	return New(CodeDivisionByZero, "division by zero is not allowed", http.StatusBadRequest)
}

// NegativeSquareRoot reports a square root request over a negative value.
func NegativeSquareRoot(value float64) *ServiceError {
	return New(CodeNegativeSquareRoot, "square root requires a non-negative value", http.StatusBadRequest).
		WithDetails("value", value)
}

// NonPositiveLog reports a logarithm request over a non-positive value.
func NonPositiveLog(value float64) *ServiceError {
	return New(CodeNonPositiveLog, "logarithm requires a positive value", http.StatusBadRequest).
		WithDetails("value", value)
}

// InvalidAngleUnit reports an angle unit outside {radians, degrees}.
func InvalidAngleUnit(unit string) *ServiceError {
	return New(CodeInvalidAngleUnit, "angle unit must be either \"radians\" or \"degrees\"", http.StatusBadRequest).
		WithDetails("angle_unit", unit)
}

// UnsupportedUnit reports an unknown conversion domain or unit name.
func UnsupportedUnit(domain, unit string) *ServiceError {
	return New(CodeUnsupportedUnit, fmt.Sprintf("unsupported %s unit %q", domain, unit), http.StatusBadRequest).
		WithDetails("conversion_type", domain).
		WithDetails("unit", unit)
}

// UnsupportedOperation reports an operation kind the engine does not dispatch.
func UnsupportedOperation(kind string) *ServiceError {
	return New(CodeUnsupportedOperation, fmt.Sprintf("unsupported operation %q", kind), http.StatusBadRequest).
		WithDetails("operation", kind)
}

// WeakPassword reports a password that fails the registration policy.
func WeakPassword(reason string) *ServiceError {
	return New(CodeWeakPassword, reason, http.StatusBadRequest)
}

// UsernameTaken reports a registration conflict on the username.
func UsernameTaken() *ServiceError {
	return New(CodeUsernameTaken, "username already registered", http.StatusBadRequest)
}

// EmailTaken reports a registration conflict on the email address.
func EmailTaken() *ServiceError {
	return New(CodeEmailTaken, "email already registered", http.StatusBadRequest)
}

// Unauthorized reports missing or invalid credentials. The message is the
// same for unknown users and wrong passwords.
func Unauthorized(message string) *ServiceError {
	if message == "" {
		message = "invalid credentials"
	}
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

// InvalidToken reports a bearer token that failed verification.
func InvalidToken(err error) *ServiceError {
	e := New(CodeInvalidToken, "invalid or expired token", http.StatusUnauthorized)
	e.Err = err
	return e
}

// Forbidden reports a resource owned by a different user.
func Forbidden(message string) *ServiceError {
	if message == "" {
		message = "access denied"
	}
	return New(CodeForbidden, message, http.StatusForbidden)
}

// NotFound reports a missing resource.
func NotFound(resource string) *ServiceError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// Internal wraps an unexpected failure. The wrapped cause is only surfaced
// to callers when the process runs in debug mode.
func Internal(message string, err error) *ServiceError {
	e := New(CodeInternal, message, http.StatusInternalServerError)
	e.Err = err
	return e
}
