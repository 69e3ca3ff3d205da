package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/lnanh2k4/zentrix-sub001/internal/checkout"
	"github.com/lnanh2k4/zentrix-sub001/internal/platform"
	"github.com/lnanh2k4/zentrix-sub001/internal/promotion"
	"github.com/lnanh2k4/zentrix-sub001/internal/session"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps flow errors onto the storefront's HTTP surface.
// Validation problems come back with field-level messages; everything the
// user cannot fix maps to a generic failure code.
func handleServiceError(w http.ResponseWriter, err error) {
	var vErr *checkout.ValidationError
	if errors.As(err, &vErr) {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "validation failed",
			Code:   "invalid_fields",
			Fields: vErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, session.ErrNoBranchSelected):
		respondError(w, http.StatusConflict, "no_branch_selected", "select a branch before shopping")
	case errors.Is(err, session.ErrNoPendingPayment):
		respondError(w, http.StatusNotFound, "no_pending_payment", "no pending payment to reconcile")
	case errors.Is(err, checkout.ErrEmptySelection):
		respondError(w, http.StatusBadRequest, "empty_selection", "nothing selected for checkout")
	case errors.Is(err, checkout.ErrUnavailableInCart):
		respondError(w, http.StatusConflict, "unavailable_selection", err.Error())
	case errors.Is(err, checkout.ErrAnotherInProgress):
		respondError(w, http.StatusConflict, "submission_in_progress", "this submission is already being processed")
	case errors.Is(err, promotion.ErrPromotionNotUsable):
		respondError(w, http.StatusConflict, "promotion_not_usable", err.Error())
	case errors.Is(err, platform.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, platform.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, "platform_unavailable", "the platform api is unavailable")
	default:
		var apiErr *platform.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			respondError(w, apiErr.StatusCode, apiErr.Code, apiErr.Message)
			return
		}
		log.Printf("unhandled service error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
