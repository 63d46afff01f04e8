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

// ValidationError wraps multiple field errors from request binding.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation failed", Fields: fields}
}

// RecipeError identifies the offending line of a rejected recipe commit.
type RecipeError struct {
	Detail   string `json:"detail"`
	Kind     string `json:"kind"`
	Sequence int    `json:"sequence"`
	Code     string `json:"code,omitempty"`
}

// ImportError reports a rejected bulk-import batch.
type ImportError struct {
	Detail string `json:"detail"`
	Entity string `json:"entity"`
	Row    int    `json:"row"`
}
