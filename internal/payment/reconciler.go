// Package payment handles the VNPay/MoMo round trip: parking the built order
// payloads before the gateway redirect and resuming submission on the
// callback.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/lnanh2k4/zentrix-sub001/internal/checkout"
	"github.com/lnanh2k4/zentrix-sub001/internal/platform"
	"github.com/lnanh2k4/zentrix-sub001/internal/session"
)

var (
	ErrVerificationFailed = errors.New("gateway reported payment failure")
	ErrGatewayMismatch    = errors.New("callback gateway does not match pending payment")
)

// GatewayClient is the slice of the platform API the reconciler needs.
type GatewayClient interface {
	CreatePayment(ctx context.Context, gw platform.Gateway, amount float64, orderRef, returnURL string) (string, error)
	VerifyPayment(ctx context.Context, gw platform.Gateway, callbackParams url.Values) (*platform.PaymentVerification, error)
}

// Submitter runs the order submission state machine. Satisfied by
// checkout.Orchestrator.
type Submitter interface {
	Submit(ctx context.Context, sub *checkout.Submission) (*checkout.Confirmation, error)
}

type Reconciler struct {
	gateways  GatewayClient
	submitter Submitter
	store     session.Store
	returnURL string
}

func NewReconciler(gateways GatewayClient, submitter Submitter, store session.Store, returnURL string) *Reconciler {
	return &Reconciler{
		gateways:  gateways,
		submitter: submitter,
		store:     store,
		returnURL: returnURL,
	}
}

// Prepare persists the built submission and opens the gateway payment. The
// payloads must be durable before the redirect: the storefront process the
// shopper returns to may not be the one that sent them away.
func (r *Reconciler) Prepare(ctx context.Context, gw platform.Gateway, sub *checkout.Submission) (string, error) {
	pending := &session.PendingPayment{
		IdempotencyKey: sub.IdempotencyKey,
		TransactionID:  sub.TransactionID,
		Gateway:        gw,
		Order:          sub.Order,
		Details:        sub.Details,
		Summary:        sub.Summary,
		CreatedAt:      time.Now(),
	}
	if err := r.store.SavePendingPayment(ctx, sub.UserID, pending); err != nil {
		return "", fmt.Errorf("persist pending payment: %w", err)
	}

	payURL, err := r.gateways.CreatePayment(ctx, gw, sub.Order.Total, sub.TransactionID, r.returnURL)
	if err != nil {
		return "", fmt.Errorf("open gateway payment: %w", err)
	}
	return payURL, nil
}

// Reconcile resumes order submission after the gateway redirect. It verifies
// the callback, replays the same submission state machine with the persisted
// payloads and clears them. Safe to invoke twice for the same callback: the
// submission's idempotency key pins the order it created, so the second run
// returns the first run's confirmation instead of a second order.
func (r *Reconciler) Reconcile(ctx context.Context, userID int64, gw platform.Gateway, callbackParams url.Values) (*checkout.Confirmation, error) {
	pending, err := r.store.GetPendingPayment(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load pending payment: %w", err)
	}
	if pending.Gateway != gw {
		return nil, fmt.Errorf("%w: pending %s, callback %s", ErrGatewayMismatch, pending.Gateway, gw)
	}

	verification, err := r.gateways.VerifyPayment(ctx, gw, callbackParams)
	if err != nil {
		return nil, fmt.Errorf("verify callback: %w", err)
	}
	if !verification.Success {
		return nil, fmt.Errorf("%w: %s", ErrVerificationFailed, verification.Message)
	}

	// The persisted transaction id is authoritative; gateways are not
	// required to echo the order reference back on the callback.
	txnID := pending.TransactionID
	if txnID == "" {
		txnID = verification.OrderRef
	}

	sub := &checkout.Submission{
		IdempotencyKey: pending.IdempotencyKey,
		UserID:         userID,
		TransactionID:  txnID,
		Order:          pending.Order,
		Details:        pending.Details,
		Summary:        pending.Summary,
	}
	confirmation, err := r.submitter.Submit(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("resume submission: %w", err)
	}

	if errClear := r.store.ClearPendingPayment(ctx, userID); errClear != nil {
		// The idempotency key keeps a stale payload from producing a second
		// order, so a failed clear is only noise.
		log.Printf("clearing pending payment for user %d failed: %v", userID, errClear)
	}

	return confirmation, nil
}
