// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidQuestion        ErrorCode = "INVALID_QUESTION"
	ErrCodeProviderRequestFailed  ErrorCode = "PROVIDER_REQUEST_FAILED"
	ErrCodeProviderTimeout        ErrorCode = "PROVIDER_TIMEOUT"
	ErrCodeInferenceFailed        ErrorCode = "INFERENCE_FAILED"
	ErrCodeInferenceTimeout       ErrorCode = "INFERENCE_TIMEOUT"
	ErrCodeArchiveWriteFailed     ErrorCode = "ARCHIVE_WRITE_FAILED"
	ErrCodeCatalogLoadFailed      ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeJobTimeout             ErrorCode = "JOB_TIMEOUT"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
	ErrCodeExternalService        ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout                ErrorCode = "TIMEOUT_ERROR"
	ErrCodeResourceNotFound       ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeBusinessRuleViolation  ErrorCode = "BUSINESS_RULE_VIOLATION"
	ErrCodeAuthenticationRejected ErrorCode = "AUTHENTICATION_ERROR"
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

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidQuestionError rejects job input that carries no usable question.
func NewInvalidQuestionError(details string) *StandardError {
	return newError(ErrCodeInvalidQuestion, "Question input is invalid", details, false)
}

// NewProviderRequestFailedError creates a retryable statistics provider error.
func NewProviderRequestFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeProviderRequestFailed, "Statistics provider request failed",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true)
}

// NewProviderTimeoutError creates a retryable statistics provider timeout.
func NewProviderTimeoutError(operation string) *StandardError {
	return newError(ErrCodeProviderTimeout, "Statistics provider timeout",
		fmt.Sprintf("operation: %s", operation), true)
}

func NewInferenceFailedError(err error) *StandardError {
	return newError(ErrCodeInferenceFailed, "Answer-span inference failed", err.Error(), true)
}

func NewInferenceTimeoutError() *StandardError {
	return newError(ErrCodeInferenceTimeout, "Answer-span inference timeout",
		"inference call exceeded timeout threshold", true)
}

// NewArchiveWriteFailedError reports a failed diagnostics write.
func NewArchiveWriteFailedError(err error) *StandardError {
	return newError(ErrCodeArchiveWriteFailed, "Answer archive write failed", err.Error(), true)
}

// NewCatalogLoadFailedError reports a reference catalog that could not be loaded.
func NewCatalogLoadFailedError(source string, err error) *StandardError {
	return newError(ErrCodeCatalogLoadFailed, "Reference catalog load failed",
		fmt.Sprintf("source: %s, error: %s", source, err.Error()), false)
}

// NewJobTimeoutError reports a job whose context deadline expired.
func NewJobTimeoutError(taskType string) *StandardError {
	return newError(ErrCodeJobTimeout, "Job exceeded its timeout",
		fmt.Sprintf("taskType: %s", taskType), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

func NewBusinessRuleError(message, details string) *StandardError {
	return newError(ErrCodeBusinessRuleViolation, message, details, false)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("External service '%s' error", service), err.Error(), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return newError(ErrCodeResourceNotFound, fmt.Sprintf("Resource not found in %s", service), details, false)
}

func NewAuthenticationError(details string) *StandardError {
	return newError(ErrCodeAuthenticationRejected, "Authentication failed", details, false)
}

// BPMNErrorMapping maps internal error codes to BPMN error codes. Codes that
// are not listed are passed through unchanged.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidQuestion:       "INVALID_QUESTION",
	ErrCodeProviderRequestFailed: "PROVIDER_REQUEST_FAILED",
	ErrCodeProviderTimeout:       "PROVIDER_TIMEOUT",
	ErrCodeInferenceFailed:       "INFERENCE_FAILED",
	ErrCodeInferenceTimeout:      "INFERENCE_TIMEOUT",
	ErrCodeArchiveWriteFailed:    "ARCHIVE_WRITE_FAILED",
	ErrCodeCatalogLoadFailed:     "CATALOG_LOAD_FAILED",
	ErrCodeJobTimeout:            "JOB_TIMEOUT",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeProviderRequestFailed,
		ErrCodeInferenceFailed,
		ErrCodeArchiveWriteFailed,
		ErrCodeExternalService:
		return 3

	case ErrCodeProviderTimeout,
		ErrCodeInferenceTimeout,
		ErrCodeTimeout:
		return 2

	case ErrCodeJobTimeout:
		return 1

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "PROVIDER"):
		return "STATISTICS"
	case strings.Contains(codeStr, "INFERENCE"):
		return "AI"
	case strings.Contains(codeStr, "ARCHIVE") || strings.Contains(codeStr, "CATALOG"):
		return "STORAGE"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "TIMEOUT"):
		return "TIMEOUT"
	default:
		return "OTHER"
	}
}
