package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
)

// PromotionService exposes the shopper's claimed promotion wallet.
type PromotionService interface {
	ListUsable(ctx context.Context, userID int64) ([]domain.Promotion, error)
	Claim(ctx context.Context, userID, promotionID int64) error
}

type PromotionHandler struct {
	promotions PromotionService
	timeout    time.Duration
}

func NewPromotionHandler(promotions PromotionService, timeout time.Duration) *PromotionHandler {
	return &PromotionHandler{promotions: promotions, timeout: timeout}
}

type promotionListResponse struct {
	Promotions []domain.Promotion `json:"promotions"`
}

// ListUsable returns only promotions that can be applied right now: claimed,
// active and inside their validity window.
func (h *PromotionHandler) ListUsable(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	promos, err := h.promotions.ListUsable(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if promos == nil {
		promos = []domain.Promotion{}
	}
	respondJSON(w, http.StatusOK, promotionListResponse{Promotions: promos})
}

type claimPromotionDTO struct {
	PromotionID int64 `json:"promotion_id"`
}

func (h *PromotionHandler) Claim(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req claimPromotionDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PromotionID == 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", "promotion_id is required")
		return
	}

	if err := h.promotions.Claim(ctx, userID, req.PromotionID); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
