package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/velobay/shopsim/internal/customer"
	"github.com/velobay/shopsim/internal/inventory"
	"github.com/velobay/shopsim/internal/repair"
	"github.com/velobay/shopsim/internal/save"
)

// Response is the standard success envelope.
type Response struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// APIError is a structured error response.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

func badRequest(message string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Code: "BAD_REQUEST", Message: message}
}

func unauthorized() *APIError {
	return &APIError{StatusCode: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: "authentication required"}
}

func tooManyRequests() *APIError {
	return &APIError{StatusCode: http.StatusTooManyRequests, Code: "RATE_LIMITED", Message: "rate limit exceeded"}
}

// writeJSON sends a success envelope.
func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

// writeError maps an error onto the error envelope. Domain sentinels carry
// their own status codes; anything unrecognized is a 500.
func writeError(w http.ResponseWriter, err error) {
	apiErr := mapError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   apiErr,
	})
}

func mapError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, inventory.ErrNotFound),
		errors.Is(err, inventory.ErrUnknownItem),
		errors.Is(err, customer.ErrUnknownCustomer),
		errors.Is(err, repair.ErrJobNotFound):
		return &APIError{StatusCode: http.StatusNotFound, Code: "NOT_FOUND", Message: err.Error()}

	case errors.Is(err, inventory.ErrInsufficientFunds),
		errors.Is(err, inventory.ErrCapacityExceeded),
		errors.Is(err, inventory.ErrBrandLocked),
		errors.Is(err, inventory.ErrInsufficientStock),
		errors.Is(err, inventory.ErrNotStagnant),
		errors.Is(err, customer.ErrCustomerState),
		errors.Is(err, repair.ErrJobCompleted):
		return &APIError{StatusCode: http.StatusConflict, Code: "CONFLICT", Message: err.Error()}

	case errors.Is(err, save.ErrVersionMismatch):
		return &APIError{StatusCode: http.StatusUnprocessableEntity, Code: "VERSION_MISMATCH", Message: err.Error()}

	default:
		return &APIError{StatusCode: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Message: "an unexpected error occurred"}
	}
}
