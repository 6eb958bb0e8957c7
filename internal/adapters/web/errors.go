package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"inventory-ops/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps domain sentinel errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrUnknownProduct),
		errors.Is(err, core.ErrUnknownLocation),
		errors.Is(err, core.ErrUnknownListing),
		errors.Is(err, core.ErrUnknownCategory):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrInvalidQuantity):
		writeError(w, r, err.Error(), "INVALID_QUANTITY", http.StatusBadRequest)
	case errors.Is(err, core.ErrDuplicateSKU):
		writeError(w, r, err.Error(), "DUPLICATE_SKU", http.StatusConflict)
	case errors.Is(err, core.ErrListingClosed):
		writeError(w, r, err.Error(), "LISTING_CLOSED", http.StatusConflict)
	case errors.Is(err, core.ErrStructuralViolation):
		writeError(w, r, err.Error(), "STRUCTURAL_VIOLATION", http.StatusConflict)
	default:
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
