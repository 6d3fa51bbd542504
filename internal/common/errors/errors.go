// Package errors provides the standardized error type shared by the gateway and the wizard.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeLookupFailed  ErrorCode = "LOOKUP_FAILED"
	ErrCodeLookupTimeout ErrorCode = "LOOKUP_TIMEOUT"
	ErrCodeLookupDecode  ErrorCode = "LOOKUP_DECODE_FAILED"

	ErrCodeCacheFailed ErrorCode = "CACHE_FAILED"

	ErrCodeRegistrationFailed ErrorCode = "REGISTRATION_FAILED"
	ErrCodeDraftIncomplete    ErrorCode = "DRAFT_INCOMPLETE"
	ErrCodeDraftInvalid       ErrorCode = "DRAFT_INVALID"

	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	ErrCodeStepInvalid       ErrorCode = "STEP_INVALID"
	ErrCodeCoverageNotFound  ErrorCode = "COVERAGE_NOT_FOUND"

	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata returns the error with an extra metadata entry.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewLookupFailedError creates a retryable reference-data lookup error.
func NewLookupFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLookupFailed,
		Message:   fmt.Sprintf("Lookup '%s' failed", operation),
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"operation": operation},
		Timestamp: time.Now().UTC(),
	}
}

// NewLookupTimeoutError creates a retryable lookup timeout error.
func NewLookupTimeoutError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLookupTimeout,
		Message:   fmt.Sprintf("Lookup '%s' timed out", operation),
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"operation": operation},
		Timestamp: time.Now().UTC(),
	}
}

// NewLookupDecodeError creates a non-retryable error for an unreadable lookup response.
func NewLookupDecodeError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLookupDecode,
		Message:   fmt.Sprintf("Lookup '%s' returned an unreadable response", operation),
		Details:   err.Error(),
		Retryable: false,
		Metadata:  map[string]interface{}{"operation": operation},
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheFailedError creates a retryable cache error.
func NewCacheFailedError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheFailed,
		Message:   "Reference cache error",
		Details:   fmt.Sprintf("key: %s, error: %s", key, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRegistrationFailedError creates a retryable registration error.
func NewRegistrationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRegistrationFailed,
		Message:   "Registration could not be submitted",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDraftIncompleteError creates a non-retryable error for a draft missing sections.
func NewDraftIncompleteError(missing ...string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftIncomplete,
		Message:   "Registration draft is incomplete",
		Details:   fmt.Sprintf("missing: %s", strings.Join(missing, ", ")),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDraftInvalidError creates a non-retryable schema violation error.
func NewDraftInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftInvalid,
		Message:   "Registration draft failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTransitionError creates an error for a step change the wizard does not allow.
func NewInvalidTransitionError(action, step string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTransition,
		Message:   fmt.Sprintf("Cannot %s from step %s", action, step),
		Details:   fmt.Sprintf("action: %s, step: %s", action, step),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStepInvalidError creates an error for a step whose form did not validate.
func NewStepInvalidError(step string, fields []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStepInvalid,
		Message:   fmt.Sprintf("Step %s has invalid fields", step),
		Details:   fmt.Sprintf("fields: %s", strings.Join(fields, ", ")),
		Retryable: false,
		Metadata:  map[string]interface{}{"fields": fields},
		Timestamp: time.Now().UTC(),
	}
}

// NewCoverageNotFoundError creates an error for a coverage number not in the offered list.
func NewCoverageNotFoundError(number int) *StandardError {
	return &StandardError{
		Code:      ErrCodeCoverageNotFound,
		Message:   "Coverage is not offered for this registration",
		Details:   fmt.Sprintf("numero: %d", number),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigInvalidError creates a configuration error.
func NewConfigInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Invalid configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// As extracts a StandardError from err's chain.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := As(err)
	return ok && stdErr.Code == code
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeLookupFailed,
		ErrCodeLookupTimeout,
		ErrCodeCacheFailed,
		ErrCodeRegistrationFailed:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "LOOKUP") || strings.HasPrefix(codeStr, "CACHE"):
		return "LOOKUP"
	case strings.HasPrefix(codeStr, "REGISTRATION") || strings.HasPrefix(codeStr, "DRAFT"):
		return "REGISTRATION"
	case strings.Contains(codeStr, "TRANSITION") || strings.Contains(codeStr, "STEP") || strings.Contains(codeStr, "COVERAGE"):
		return "WIZARD"
	case strings.Contains(codeStr, "CONFIG"):
		return "CONFIG"
	default:
		return "OTHER"
	}
}
