package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	// Event Errors (EVENT_*)
	ErrorCodeEventMalformed     ErrorCode = "EVENT_MALFORMED"
	ErrorCodeEventMissingID     ErrorCode = "EVENT_MISSING_EXTERNAL_ID"
	ErrorCodeEventUnknownKind   ErrorCode = "EVENT_UNKNOWN_KIND"
	ErrorCodeEventDuplicate     ErrorCode = "EVENT_DUPLICATE"
	ErrorCodeEventTargetMissing ErrorCode = "EVENT_TARGET_MISSING"

	// Provider Errors (PROVIDER_*)
	ErrorCodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	ErrorCodeProviderBadStatus   ErrorCode = "PROVIDER_BAD_STATUS"
	ErrorCodeProviderBadPayload  ErrorCode = "PROVIDER_BAD_PAYLOAD"

	// Storage Errors (STORAGE_*)
	ErrorCodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
	ErrorCodeStorageFailure     ErrorCode = "STORAGE_FAILURE"
	ErrorCodeStorageDuplicate   ErrorCode = "STORAGE_DUPLICATE_KEY"

	// Sync Errors (SYNC_*)
	ErrorCodeSyncFailed ErrorCode = "SYNC_FAILED"

	// Auth Errors (AUTH_*)
	ErrorCodeAuthInvalid ErrorCode = "AUTH_INVALID"
	ErrorCodeAuthMissing ErrorCode = "AUTH_MISSING"

	// Customer Errors (CUSTOMER_*)
	ErrorCodeCustomerNotFound ErrorCode = "CUSTOMER_NOT_FOUND"

	// Internal Errors (INTERNAL_*)
	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// DomainError represents a structured domain error with error code and context
type DomainError struct {
	Err     error
	Details map[string]interface{}
	Code    ErrorCode
	Message string
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithDetail adds a detail field to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with a domain error code
func WrapError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// GetErrorCode extracts the error code from an error, returns empty string if not a DomainError
func GetErrorCode(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// IsDomainError checks if an error is a DomainError with the given code
func IsDomainError(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// Common domain errors
var (
	// ErrMissingExternalID is returned by the normalizer when a payload
	// carries no provider identifier.
	ErrMissingExternalID = errors.New("payload is missing the external identifier")

	// ErrDuplicateKey maps a storage-level unique violation. Callers treat it
	// as "duplicate, skip" rather than a failure.
	ErrDuplicateKey = errors.New("unique key already exists")

	// ErrNotFound is returned by repositories when no row matched.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidCredentials is returned on failed store login.
	ErrInvalidCredentials = errors.New("invalid store credentials")
)
