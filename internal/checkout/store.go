package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
)

var ErrAttemptNotFound = errors.New("checkout attempt not found")

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "IN_PROGRESS"
	AttemptCompleted  AttemptStatus = "COMPLETED"
	AttemptFailed     AttemptStatus = "FAILED"
)

// Attempt is one recorded run of the submission state machine, keyed by the
// client-generated idempotency key. A completed attempt pins the order it
// created, which is what makes gateway callback replays safe.
type Attempt struct {
	IdempotencyKey string
	UserID         int64
	TransactionID  string
	Status         AttemptStatus
	State          domain.CheckoutState
	OrderID        *int64
	FailureReason  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OutboxEvent is a completed-order event waiting to be published to Kafka.
type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

// AttemptStore persists checkout attempts and their outbox events.
type AttemptStore interface {
	// ClaimAttempt registers a new attempt for the key. created is false when
	// the key is already claimed by an in-progress or completed attempt, in
	// which case existing describes it. A previously failed attempt is
	// reclaimed so the user can retry with the same payloads.
	ClaimAttempt(ctx context.Context, key string, userID int64, transactionID string) (created bool, existing *Attempt, err error)

	SetState(ctx context.Context, key string, state domain.CheckoutState) error
	MarkCompleted(ctx context.Context, key string, orderID int64, event *OutboxEvent) error
	MarkFailed(ctx context.Context, key string, reason string) error

	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, eventID int64) error

	Close() error
}
