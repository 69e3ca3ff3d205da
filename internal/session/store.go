// Package session holds the storefront flow state that must survive full page
// navigations: the pending gateway payment payloads and the selected branch.
// Everything else the flow needs travels in an explicit CheckoutSession value.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
	"github.com/lnanh2k4/zentrix-sub001/internal/platform"
)

var (
	ErrNoPendingPayment = errors.New("no pending payment for user")
	ErrNoBranchSelected = errors.New("no branch selected for user")
)

// PendingPayment is the fully built order submission, parked while the
// shopper is away at the payment gateway.
type PendingPayment struct {
	IdempotencyKey string                      `json:"idempotency_key"`
	TransactionID  string                      `json:"transaction_id"`
	Gateway        platform.Gateway            `json:"gateway"`
	Order          domain.OrderRequest         `json:"order"`
	Details        []domain.OrderDetailRequest `json:"details"`
	Summary        domain.PriceSummary         `json:"summary"`
	CreatedAt      time.Time                   `json:"created_at"`
}

type Store interface {
	SavePendingPayment(ctx context.Context, userID int64, p *PendingPayment) error
	GetPendingPayment(ctx context.Context, userID int64) (*PendingPayment, error)
	ClearPendingPayment(ctx context.Context, userID int64) error

	SetBranch(ctx context.Context, userID int64, branch domain.Branch) error
	GetBranch(ctx context.Context, userID int64) (*domain.Branch, error)
}
