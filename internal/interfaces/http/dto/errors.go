package dto

import "net/http"

// Transport-level error codes. Business-rule codes come from the domain
// layer and are published tokens the frontend matches on verbatim.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Business-rule
// rejections map to 422: the request was well-formed but the operation is
// not allowed in the current state.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	"VALIDATION_ERROR": http.StatusBadRequest,

	"UNAUTHORIZED": http.StatusUnauthorized,
	"FORBIDDEN":    http.StatusForbidden,

	"NOT_FOUND":      http.StatusNotFound,
	"ALREADY_EXISTS": http.StatusConflict,

	"INVALID_STATE":              http.StatusUnprocessableEntity,
	"ORDER_TRANSITION_ERROR":     http.StatusUnprocessableEntity,
	"ORDER_NOT_MODIFIABLE_ERROR": http.StatusUnprocessableEntity,
	"ORDER_PENDING_APPROVAL":     http.StatusUnprocessableEntity,
	"ORDER_NOT_PENDING_APPROVAL": http.StatusUnprocessableEntity,
	"INVOICE_LOCKED_ERROR":       http.StatusUnprocessableEntity,
	"INVOICE_ALREADY_PAID":       http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":         http.StatusUnprocessableEntity,
	"CREDIT_LIMIT_EXCEEDED":      http.StatusUnprocessableEntity,
	"CREDIT_DENIED":              http.StatusUnprocessableEntity,
	"VARIANT_REQUIRED":           http.StatusUnprocessableEntity,
	"VARIANT_NOT_FOUND":          http.StatusUnprocessableEntity,
	"VARIANT_AMBIGUOUS":          http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes fall back to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
