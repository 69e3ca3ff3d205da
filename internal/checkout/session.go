// Package checkout owns the order submission flow: building the request
// payloads from the cart selection and driving the submission state machine.
package checkout

import (
	"github.com/google/uuid"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
)

// Session is the explicit flow context for one checkout attempt. Everything
// the flow needs travels in this value instead of ambient storage; only the
// pending gateway payloads and the branch choice live in the durable session
// store, because those must survive a full page navigation.
type Session struct {
	UserID        int64                `json:"user_id"`
	Branch        domain.Branch        `json:"branch"`
	Selected      []domain.CartGroup   `json:"selected"`
	Customer      domain.CustomerInfo  `json:"customer"`
	Payment       domain.PaymentMethod `json:"payment_method"`
	Promotion     *domain.Promotion    `json:"promotion,omitempty"`
	TransactionID string               `json:"transaction_id"`
}

// NewSession stamps a fresh transaction id for the attempt.
func NewSession(userID int64, branch domain.Branch) *Session {
	return &Session{
		UserID:        userID,
		Branch:        branch,
		TransactionID: uuid.NewString(),
	}
}

// Submission is the fully built order payload set, ready for the state
// machine. For gateway payments it is persisted before the redirect and
// replayed on the callback.
type Submission struct {
	IdempotencyKey string                      `json:"idempotency_key"`
	UserID         int64                       `json:"user_id"`
	TransactionID  string                      `json:"transaction_id"`
	Order          domain.OrderRequest         `json:"order"`
	Details        []domain.OrderDetailRequest `json:"details"`
	Summary        domain.PriceSummary         `json:"summary"`
}
