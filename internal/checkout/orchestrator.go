package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
	"github.com/lnanh2k4/zentrix-sub001/internal/pricing"
)

var (
	ErrEmptySelection     = errors.New("nothing selected for checkout")
	ErrUnavailableInCart  = errors.New("selection contains an unavailable group")
	ErrSubmitOrder        = errors.New("order submission failed")
	ErrSubmitDetails      = errors.New("order detail submission failed")
	ErrAnotherInProgress  = errors.New("this submission is already being processed")
	ErrIllegalTransition  = errors.New("illegal transition of checkout state")
)

// PlatformClient is the slice of the platform API the orchestrator needs.
type PlatformClient interface {
	ProductTypeBranchID(ctx context.Context, productTypeID, branchID int64) (int64, error)
	CreateOrder(ctx context.Context, req domain.OrderRequest, idempotencyKey string) (int64, error)
	CreateOrderDetail(ctx context.Context, orderID int64, detail domain.OrderDetailRequest) error
	DeleteOrder(ctx context.Context, orderID int64) error
	GenerateInvoice(ctx context.Context, orderID int64) error
	RemoveLines(ctx context.Context, lineIDs []int64) error
}

// Confirmation is what the order-confirmation view renders after Done.
type Confirmation struct {
	OrderID          int64     `json:"order_id"`
	TransactionID    string    `json:"transaction_id"`
	ExpectedDelivery time.Time `json:"expected_delivery"`
	InvoiceGenerated bool      `json:"invoice_generated"`
	Replayed         bool      `json:"replayed,omitempty"`
}

// Orchestrator runs the submission state machine. One instance serves every
// call site, so the compensating-delete path exists in exactly one place.
type Orchestrator struct {
	platform PlatformClient
	store    AttemptStore
	validate *validatorv10.Validate
	nowFunc  func() time.Time
}

func NewOrchestrator(platform PlatformClient, store AttemptStore) *Orchestrator {
	return &Orchestrator{
		platform: platform,
		store:    store,
		validate: newValidator(),
		nowFunc:  time.Now,
	}
}

// Build validates the session and assembles the submission payloads. This is
// the Validating step: any failure here is surfaced as field errors and no
// backend mutation has happened. The fresh idempotency key is minted here,
// before any gateway redirect can occur.
func (o *Orchestrator) Build(ctx context.Context, session *Session) (*Submission, error) {
	if len(session.Selected) == 0 {
		return nil, ErrEmptySelection
	}
	for _, g := range session.Selected {
		if g.IsUnavailable() {
			return nil, fmt.Errorf("%w: %s", ErrUnavailableInCart, g.GroupKey)
		}
	}
	if vErr := validateCustomer(o.validate, session.Customer); vErr != nil {
		return nil, vErr
	}

	summary := pricing.ComputeSummary(session.Selected, session.Promotion)

	now := o.nowFunc()
	order := domain.OrderRequest{
		UserID:    session.UserID,
		BranchID:  session.Branch.ID,
		Customer:  session.Customer,
		Payment:   session.Payment,
		Total:     summary.FinalTotal,
		CreatedAt: now,
	}
	if session.Promotion != nil {
		order.PromotionID = session.Promotion.PromotionID
	}

	details := make([]domain.OrderDetailRequest, 0, len(session.Selected))
	for _, g := range session.Selected {
		branchProductID, err := o.platform.ProductTypeBranchID(ctx, g.ProductTypeID, session.Branch.ID)
		if err != nil {
			return nil, fmt.Errorf("resolve branch product for group %s: %w", g.GroupKey, err)
		}
		details = append(details, domain.OrderDetailRequest{
			ProductTypeBranchID: branchProductID,
			Quantity:            g.Quantity,
			UnitPrice:           g.UnitSalePrice,
			VATPercent:          g.VATPercent,
			Variation:           variationLabel(g.Variations),
			MemberLineIDs:       g.MemberLineIDs,
		})
	}

	return &Submission{
		IdempotencyKey: uuid.NewString(),
		UserID:         session.UserID,
		TransactionID:  session.TransactionID,
		Order:          order,
		Details:        details,
		Summary:        summary,
	}, nil
}

// Submit drives a built submission through
// SubmittingOrder -> SubmittingDetails -> GeneratingInvoice -> Done.
// A detail failure deletes the just-created order before reporting failure;
// an invoice failure is reported but never rolls the order back. Submitting
// the same idempotency key twice returns the original confirmation instead
// of creating a second order.
func (o *Orchestrator) Submit(ctx context.Context, sub *Submission) (*Confirmation, error) {
	created, existing, err := o.store.ClaimAttempt(ctx, sub.IdempotencyKey, sub.UserID, sub.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("claim submission: %w", err)
	}
	if !created {
		if existing.Status == AttemptCompleted && existing.OrderID != nil {
			// Replay (browser back-button on the gateway callback, double
			// click, retried request): hand back the order we already made.
			log.Printf("duplicate submission for key %s, returning order %d", sub.IdempotencyKey, *existing.OrderID)
			return &Confirmation{
				OrderID:          *existing.OrderID,
				TransactionID:    existing.TransactionID,
				ExpectedDelivery: domain.ExpectedDelivery(existing.CreatedAt),
				InvoiceGenerated: true,
				Replayed:         true,
			}, nil
		}
		return nil, fmt.Errorf("%w: key %s", ErrAnotherInProgress, sub.IdempotencyKey)
	}

	state := domain.StateValidating

	state, err = o.advance(ctx, sub.IdempotencyKey, state, domain.StateSubmittingOrder)
	if err != nil {
		return nil, err
	}
	orderID, err := o.platform.CreateOrder(ctx, sub.Order, sub.IdempotencyKey)
	if err != nil {
		o.fail(ctx, sub.IdempotencyKey, err)
		return nil, fmt.Errorf("%w: %v", ErrSubmitOrder, err)
	}

	state, err = o.advance(ctx, sub.IdempotencyKey, state, domain.StateSubmittingDetails)
	if err != nil {
		return nil, err
	}
	for _, detail := range sub.Details {
		if errDetail := o.platform.CreateOrderDetail(ctx, orderID, detail); errDetail != nil {
			// Order and details are not atomic on the platform; delete the
			// orphaned order so no partial order remains queryable.
			if errDelete := o.platform.DeleteOrder(ctx, orderID); errDelete != nil {
				log.Printf("compensating delete of order %d failed: %v", orderID, errDelete)
			}
			o.fail(ctx, sub.IdempotencyKey, errDetail)
			return nil, fmt.Errorf("%w: %v", ErrSubmitDetails, errDetail)
		}
	}

	state, err = o.advance(ctx, sub.IdempotencyKey, state, domain.StateGeneratingInvoice)
	if err != nil {
		return nil, err
	}
	invoiceOK := true
	if errInvoice := o.platform.GenerateInvoice(ctx, orderID); errInvoice != nil {
		// Best effort once the order and details exist.
		log.Printf("invoice generation for order %d failed: %v", orderID, errInvoice)
		invoiceOK = false
	}

	o.clearCartLines(ctx, sub)

	event, err := completedEvent(sub, orderID, o.nowFunc())
	if err != nil {
		log.Printf("building completed event for order %d failed: %v", orderID, err)
		event = nil
	}
	if errDone := o.store.MarkCompleted(ctx, sub.IdempotencyKey, orderID, event); errDone != nil {
		// The order exists; losing the attempt record must not fail the user.
		log.Printf("recording completion for order %d failed: %v", orderID, errDone)
	}

	return &Confirmation{
		OrderID:          orderID,
		TransactionID:    sub.TransactionID,
		ExpectedDelivery: domain.ExpectedDelivery(o.nowFunc()),
		InvoiceGenerated: invoiceOK,
	}, nil
}

func (o *Orchestrator) advance(ctx context.Context, key string, from, to domain.CheckoutState) (domain.CheckoutState, error) {
	if !domain.CanTransitionTo(from, to) {
		return from, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	if err := o.store.SetState(ctx, key, to); err != nil {
		log.Printf("recording state %s for key %s failed: %v", to, key, err)
	}
	return to, nil
}

func (o *Orchestrator) fail(ctx context.Context, key string, cause error) {
	if err := o.store.MarkFailed(ctx, key, cause.Error()); err != nil {
		log.Printf("marking attempt %s failed errored: %v", key, err)
	}
}

// clearCartLines removes the purchased lines from the cart. Best effort; a
// leftover cart line is an annoyance, not a broken order.
func (o *Orchestrator) clearCartLines(ctx context.Context, sub *Submission) {
	var lineIDs []int64
	for _, d := range sub.Details {
		lineIDs = append(lineIDs, d.MemberLineIDs...)
	}
	if err := o.platform.RemoveLines(ctx, lineIDs); err != nil {
		log.Printf("clearing cart lines after order failed: %v", err)
	}
}

func completedEvent(sub *Submission, orderID int64, completedAt time.Time) (*OutboxEvent, error) {
	payload := map[string]interface{}{
		"order_id":       orderID,
		"transaction_id": sub.TransactionID,
		"user_id":        sub.UserID,
		"payment_method": sub.Order.Payment,
		"total":          sub.Summary.FinalTotal,
		"completed_at":   completedAt,
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal completed event: %w", err)
	}
	return &OutboxEvent{
		AggregateID: sub.TransactionID,
		EventType:   "order_completed",
		Payload:     payloadJSON,
	}, nil
}

func variationLabel(details []domain.VariationDetail) string {
	parts := make([]string, 0, len(details))
	for _, d := range details {
		parts = append(parts, fmt.Sprintf("%s: %s", d.Name, d.Value))
	}
	return strings.Join(parts, ", ")
}
