package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeUnauthorized      ErrorType = "unauthorized"
	ErrorTypeValidation        ErrorType = "validation"
	ErrorTypeBadRequest        ErrorType = "bad_request"
	ErrorTypePayloadTooLarge   ErrorType = "payload_too_large"
	ErrorTypeDependencyMissing ErrorType = "dependency_missing"
	ErrorTypeExternal          ErrorType = "external"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// NewValidationError creates a validation error carrying a caller-facing message
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrorTypeValidation, message, nil)
}

// NewExternalError wraps a failure reported by an upstream provider
func NewExternalError(message string, err error) *DomainError {
	return NewDomainError(ErrorTypeExternal, message, err)
}

var (
	// ErrInvalidAPIKey is returned when the presented key is not in the allowlist
	ErrInvalidAPIKey = NewDomainError(ErrorTypeUnauthorized, "Apikey invalid", nil)

	// ErrInvalidBody is returned when an inbound request body cannot be decoded
	ErrInvalidBody = NewDomainError(ErrorTypeBadRequest, "Invalid request body", nil)

	// ErrBodyTooLarge is returned when an inbound request body exceeds the size limit
	ErrBodyTooLarge = NewDomainError(ErrorTypePayloadTooLarge, "Request body too large", nil)

	// ErrPaymentsUnavailable is returned when no payment integration was configured at startup
	ErrPaymentsUnavailable = NewDomainError(ErrorTypeDependencyMissing,
		"Saweria payment integration not available. Enable it with SAWERIA_PAYMENTS_ENABLED=true or use your own Saweria integration.", nil)
)

// IsUnauthorizedError checks if an error is an unauthorized error
func IsUnauthorizedError(err error) bool {
	return GetErrorType(err) == ErrorTypeUnauthorized
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return GetErrorType(err) == ErrorTypeValidation
}

// IsBadRequestError checks if an error is a malformed-request error
func IsBadRequestError(err error) bool {
	return GetErrorType(err) == ErrorTypeBadRequest
}

// IsPayloadTooLargeError checks if an error reports an oversized request body
func IsPayloadTooLargeError(err error) bool {
	return GetErrorType(err) == ErrorTypePayloadTooLarge
}

// IsDependencyMissingError checks if an error reports an unavailable optional integration
func IsDependencyMissingError(err error) bool {
	return GetErrorType(err) == ErrorTypeDependencyMissing
}

// IsExternalError checks if an error is an external provider error
func IsExternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeExternal
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorMessage returns the caller-facing message of a domain error, or
// err.Error() for any other error.
func GetErrorMessage(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}
