package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lnanh2k4/zentrix-sub001/internal/checkout"
	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
	"github.com/lnanh2k4/zentrix-sub001/internal/platform"
	"github.com/lnanh2k4/zentrix-sub001/internal/pricing"
	"github.com/lnanh2k4/zentrix-sub001/internal/session"
)

// CheckoutService drives the submission state machine.
type CheckoutService interface {
	Build(ctx context.Context, s *checkout.Session) (*checkout.Submission, error)
	Submit(ctx context.Context, sub *checkout.Submission) (*checkout.Confirmation, error)
}

// PaymentPreparer parks a submission and opens the gateway payment.
type PaymentPreparer interface {
	Prepare(ctx context.Context, gw platform.Gateway, sub *checkout.Submission) (string, error)
}

// PromotionLookup resolves a promotion id against the user's usable set.
type PromotionLookup interface {
	Lookup(ctx context.Context, userID, promotionID int64) (*domain.Promotion, error)
}

type CheckoutHandler struct {
	carts      CartService
	checkouts  CheckoutService
	payments   PaymentPreparer
	promotions PromotionLookup
	sessions   session.Store
	timeout    time.Duration
}

func NewCheckoutHandler(
	carts CartService,
	checkouts CheckoutService,
	payments PaymentPreparer,
	promotions PromotionLookup,
	sessions session.Store,
	timeout time.Duration,
) *CheckoutHandler {
	return &CheckoutHandler{
		carts:      carts,
		checkouts:  checkouts,
		payments:   payments,
		promotions: promotions,
		sessions:   sessions,
		timeout:    timeout,
	}
}

type checkoutRequestDTO struct {
	SelectedGroupKeys []string            `json:"selected_group_keys"`
	Customer          domain.CustomerInfo `json:"customer"`
	PaymentMethod     string              `json:"payment_method"`
	PromotionID       int64               `json:"promotion_id,omitempty"`
}

type gatewayRedirectResponse struct {
	PayURL        string `json:"pay_url"`
	TransactionID string `json:"transaction_id"`
}

// Checkout submits the selection. COD orders complete in this request; for
// gateway payments the response carries the redirect URL and the built
// payloads wait in the session store until the callback.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req checkoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess, err := h.buildSession(ctx, userID, &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	sub, err := h.checkouts.Build(ctx, sess)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if sess.Payment.IsGateway() {
		payURL, errPrep := h.payments.Prepare(ctx, platformGateway(sess.Payment), sub)
		if errPrep != nil {
			handleServiceError(w, errPrep)
			return
		}
		respondJSON(w, http.StatusAccepted, gatewayRedirectResponse{
			PayURL:        payURL,
			TransactionID: sess.TransactionID,
		})
		return
	}

	confirmation, err := h.checkouts.Submit(ctx, sub)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, confirmation)
}

type previewRequestDTO struct {
	SelectedGroupKeys []string `json:"selected_group_keys"`
	PromotionID       int64    `json:"promotion_id,omitempty"`
}

type previewResponseDTO struct {
	Summary      domain.PriceSummary `json:"summary"`
	DisplayTotal int64               `json:"display_total"`
}

// Preview computes the price summary for a prospective selection without
// touching the order flow.
func (h *CheckoutHandler) Preview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req previewRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	branch, err := h.sessions.GetBranch(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	selected, err := h.selectGroups(ctx, userID, branch.ID, req.SelectedGroupKeys)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var promo *domain.Promotion
	if req.PromotionID != 0 {
		promo, err = h.promotions.Lookup(ctx, userID, req.PromotionID)
		if err != nil {
			handleServiceError(w, err)
			return
		}
	}

	summary := pricing.ComputeSummary(selected, promo)
	respondJSON(w, http.StatusOK, previewResponseDTO{
		Summary:      summary,
		DisplayTotal: domain.DisplayVND(summary.FinalTotal),
	})
}

func (h *CheckoutHandler) buildSession(ctx context.Context, userID int64, req *checkoutRequestDTO) (*checkout.Session, error) {
	branch, err := h.sessions.GetBranch(ctx, userID)
	if err != nil {
		return nil, err
	}

	selected, err := h.selectGroups(ctx, userID, branch.ID, req.SelectedGroupKeys)
	if err != nil {
		return nil, err
	}

	sess := checkout.NewSession(userID, *branch)
	sess.Selected = selected
	sess.Customer = req.Customer
	sess.Payment = domain.PaymentMethod(req.PaymentMethod)

	if req.PromotionID != 0 {
		promo, errPromo := h.promotions.Lookup(ctx, userID, req.PromotionID)
		if errPromo != nil {
			return nil, errPromo
		}
		sess.Promotion = promo
	}
	return sess, nil
}

// selectGroups maps the checked group keys back onto the freshly built view.
// Only available groups are selectable.
func (h *CheckoutHandler) selectGroups(ctx context.Context, userID, branchID int64, keys []string) ([]domain.CartGroup, error) {
	if len(keys) == 0 {
		return nil, checkout.ErrEmptySelection
	}

	view, err := h.carts.View(ctx, userID, branchID)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]domain.CartGroup, len(view.Groups))
	for _, g := range view.Groups {
		byKey[g.GroupKey] = g
	}

	selected := make([]domain.CartGroup, 0, len(keys))
	for _, key := range keys {
		g, ok := byKey[key]
		if !ok {
			return nil, errGroupNotFound
		}
		if g.IsUnavailable() {
			return nil, fmt.Errorf("%w: %s", checkout.ErrUnavailableInCart, key)
		}
		selected = append(selected, g)
	}
	return selected, nil
}

func platformGateway(m domain.PaymentMethod) platform.Gateway {
	if m == domain.PaymentMoMo {
		return platform.GatewayMoMo
	}
	return platform.GatewayVNPay
}
