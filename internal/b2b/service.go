package b2b

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

var ErrQuantityTooSmall = errors.New("quantity does not require a b2b request")

// selfServiceMax mirrors the cart package's threshold; requests at or below
// it belong in normal checkout.
const selfServiceMax = 5

// Notifier publishes new requests for the sales team. Satisfied by
// *kafka.Writer.
type Notifier interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

func NewSalesWriter(brokers ...string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "b2b-sales-requests",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

type Service struct {
	repo     Repository
	notifier Notifier
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Submit stores the request and notifies the sales team. The notification is
// best effort: a stored request is still visible to sales tooling even if
// the event never arrives.
func (s *Service) Submit(ctx context.Context, req *Request) error {
	if req.Quantity <= selfServiceMax {
		return ErrQuantityTooSmall
	}

	req.ID = uuid.NewString()
	if err := s.repo.Insert(ctx, req); err != nil {
		return fmt.Errorf("store b2b request: %w", err)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		log.Printf("marshal b2b request %s failed: %v", req.ID, err)
		return nil
	}
	msg := kafka.Message{
		Key:   []byte(req.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("b2b_request_created")},
		},
	}
	if err := s.notifier.WriteMessages(ctx, msg); err != nil {
		log.Printf("publish b2b request %s failed: %v", req.ID, err)
	}
	return nil
}

// History lists the user's previous requests.
func (s *Service) History(ctx context.Context, userID int64) ([]Request, error) {
	return s.repo.ListByUser(ctx, userID)
}
