// Package apierror provides the single error envelope returned by the API.
// Every 4xx/5xx response goes through this package so clients always see the
// same shape and internal details (SQL, stack traces) never leak.
package apierror

// Codes carried in the envelope's "code" field.
const (
	CodeBadRequest      = "bad_request"
	CodeValidation      = "validation"
	CodeUnauthorized    = "unauthorized"
	CodeForbidden       = "forbidden"
	CodeNotFound        = "not_found"
	CodeConflict        = "conflict"
	CodeTooManyRequests = "too_many_requests"
	CodeInternal        = "internal"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
// Fields is only populated for validation failures.
type APIError struct {
	Code   string            `json:"code"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`
}

func New(code, msg string) *APIError {
	return &APIError{Code: code, Detail: msg}
}

// NewValidation wraps per-field validator failures.
func NewValidation(fields map[string]string) *APIError {
	return &APIError{Code: CodeValidation, Detail: "Error de validacion", Fields: fields}
}

// Internal is the generic 500 body.
func Internal() *APIError {
	return New(CodeInternal, "Error interno del servidor")
}

func (e *APIError) Error() string { return e.Detail }
