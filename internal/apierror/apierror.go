// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation error", Fields: fields}
}

// AdvisoryError is returned for conditions the client may override by
// resubmitting with explicit confirmation.
type AdvisoryError struct {
	Detail   string `json:"detail"`
	Advisory string `json:"advisory"`
}

func NewAdvisory(code, msg string) *AdvisoryError {
	return &AdvisoryError{Detail: msg, Advisory: code}
}

const InternalMessage = "Internal server error"
