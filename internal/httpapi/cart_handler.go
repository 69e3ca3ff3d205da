package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lnanh2k4/zentrix-sub001/internal/cart"
	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
	"github.com/lnanh2k4/zentrix-sub001/internal/session"
)

var errGroupNotFound = errors.New("cart group not found")

// CartService is the slice of the cart package the handler needs.
type CartService interface {
	View(ctx context.Context, userID, branchID int64) (*domain.CartView, error)
	SetQuantity(ctx context.Context, userID, branchID int64, group domain.CartGroup, newQuantity int) (*cart.QuantityResult, error)
	Remove(ctx context.Context, userID int64, group domain.CartGroup) error
	SwitchSuggestion(ctx context.Context, group domain.CartGroup, branchID int64) *domain.BranchStock
}

type CartHandler struct {
	carts    CartService
	sessions session.Store
	timeout  time.Duration
}

func NewCartHandler(carts CartService, sessions session.Store, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:    carts,
		sessions: sessions,
		timeout:  timeout,
	}
}

type cartViewResponse struct {
	*domain.CartView
	Alternatives map[string]*domain.BranchStock `json:"alternatives,omitempty"`
}

// GetCart renders the grouped cart with availability and, for unavailable
// groups, a switch-branch suggestion.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	branch, err := h.sessions.GetBranch(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	view, err := h.carts.View(ctx, userID, branch.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := cartViewResponse{CartView: view}
	for _, g := range view.Groups {
		if !g.IsUnavailable() {
			continue
		}
		if alt := h.carts.SwitchSuggestion(ctx, g, branch.ID); alt != nil {
			if resp.Alternatives == nil {
				resp.Alternatives = make(map[string]*domain.BranchStock)
			}
			resp.Alternatives[g.GroupKey] = alt
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

type updateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// UpdateQuantity changes a group's quantity. Above the self-service
// threshold the response routes the caller to the B2B request form instead
// of changing anything.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req updateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
		return
	}

	branch, group, err := h.resolveGroup(ctx, userID, chi.URLParam(r, "group_key"))
	if err != nil {
		if errors.Is(err, errGroupNotFound) {
			respondError(w, http.StatusNotFound, "group_not_found", "cart group not found")
			return
		}
		handleServiceError(w, err)
		return
	}

	result, err := h.carts.SetQuantity(ctx, userID, branch.ID, *group, req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
			return
		}
		handleServiceError(w, err)
		return
	}

	switch result.Status {
	case cart.QuantityOK:
		respondJSON(w, http.StatusOK, result)
	default:
		// StockExceeded names the available quantity; RequiresB2BReview
		// carries the requested one for the sales form.
		respondJSON(w, http.StatusConflict, result)
	}
}

// RemoveGroup deletes a group and all of its member lines.
func (h *CartHandler) RemoveGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	_, group, err := h.resolveGroup(ctx, userID, chi.URLParam(r, "group_key"))
	if err != nil {
		if errors.Is(err, errGroupNotFound) {
			respondError(w, http.StatusNotFound, "group_not_found", "cart group not found")
			return
		}
		handleServiceError(w, err)
		return
	}

	if err := h.carts.Remove(ctx, userID, *group); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// resolveGroup looks a path group key up in the user's current view.
func (h *CartHandler) resolveGroup(ctx context.Context, userID int64, groupKey string) (*domain.Branch, *domain.CartGroup, error) {
	branch, err := h.sessions.GetBranch(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	view, err := h.carts.View(ctx, userID, branch.ID)
	if err != nil {
		return nil, nil, err
	}

	for i := range view.Groups {
		if view.Groups[i].GroupKey == groupKey {
			return branch, &view.Groups[i], nil
		}
	}
	return nil, nil, errGroupNotFound
}
