package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeInvalidJSON, http.StatusBadRequest},
		{"VALIDATION_ERROR", http.StatusBadRequest},
		{"UNAUTHORIZED", http.StatusUnauthorized},
		{"FORBIDDEN", http.StatusForbidden},
		{"NOT_FOUND", http.StatusNotFound},
		{"ALREADY_EXISTS", http.StatusConflict},
		{"INVALID_STATE", http.StatusUnprocessableEntity},
		{"ORDER_TRANSITION_ERROR", http.StatusUnprocessableEntity},
		{"ORDER_NOT_MODIFIABLE_ERROR", http.StatusUnprocessableEntity},
		{"ORDER_PENDING_APPROVAL", http.StatusUnprocessableEntity},
		{"INVOICE_LOCKED_ERROR", http.StatusUnprocessableEntity},
		{"INVOICE_ALREADY_PAID", http.StatusUnprocessableEntity},
		{"INSUFFICIENT_STOCK", http.StatusUnprocessableEntity},
		{"CREDIT_LIMIT_EXCEEDED", http.StatusUnprocessableEntity},
		{"CREDIT_DENIED", http.StatusUnprocessableEntity},
		{"VARIANT_REQUIRED", http.StatusUnprocessableEntity},
		{"VARIANT_NOT_FOUND", http.StatusUnprocessableEntity},
		{"VARIANT_AMBIGUOUS", http.StatusUnprocessableEntity},
		// Unknown codes fall back to 500
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestListRequest_Normalize(t *testing.T) {
	req := ListRequest{}
	req.Normalize()
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, 20, req.PageSize)
	assert.Equal(t, "created_at", req.OrderBy)
	assert.Equal(t, "desc", req.OrderDir)

	req = ListRequest{Page: 3, PageSize: 50, OrderBy: "number", OrderDir: "asc"}
	req.Normalize()
	assert.Equal(t, 3, req.Page)
	assert.Equal(t, 50, req.PageSize)
	assert.Equal(t, "number", req.OrderBy)
	assert.Equal(t, "asc", req.OrderDir)
}
