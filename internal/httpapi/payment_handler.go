package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lnanh2k4/zentrix-sub001/internal/checkout"
	"github.com/lnanh2k4/zentrix-sub001/internal/payment"
	"github.com/lnanh2k4/zentrix-sub001/internal/platform"
)

// PaymentReconciler resumes a parked submission from a gateway callback.
type PaymentReconciler interface {
	Reconcile(ctx context.Context, userID int64, gw platform.Gateway, callbackParams url.Values) (*checkout.Confirmation, error)
}

type PaymentHandler struct {
	reconciler PaymentReconciler
	timeout    time.Duration
}

func NewPaymentHandler(reconciler PaymentReconciler, timeout time.Duration) *PaymentHandler {
	return &PaymentHandler{reconciler: reconciler, timeout: timeout}
}

// Callback handles the gateway return redirect. The gateway name is a path
// parameter and the signed result travels in the query string exactly as the
// gateway sent it.
func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	gw, ok := parseGateway(chi.URLParam(r, "gateway"))
	if !ok {
		respondError(w, http.StatusNotFound, "unknown_gateway", "unknown payment gateway")
		return
	}

	confirmation, err := h.reconciler.Reconcile(ctx, userID, gw, r.URL.Query())
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrVerificationFailed):
			respondError(w, http.StatusUnprocessableEntity, "payment_failed", err.Error())
		case errors.Is(err, payment.ErrGatewayMismatch):
			respondError(w, http.StatusConflict, "gateway_mismatch", err.Error())
		default:
			handleServiceError(w, err)
		}
		return
	}
	respondJSON(w, http.StatusOK, confirmation)
}

func parseGateway(name string) (platform.Gateway, bool) {
	switch platform.Gateway(name) {
	case platform.GatewayVNPay:
		return platform.GatewayVNPay, true
	case platform.GatewayMoMo:
		return platform.GatewayMoMo, true
	default:
		return "", false
	}
}
