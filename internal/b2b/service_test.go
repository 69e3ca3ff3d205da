package b2b

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRepository implements Repository for testing
type MockRepository struct {
	Inserted  []*Request
	InsertErr error
	Requests  []Request
	ListErr   error
}

func (m *MockRepository) Insert(_ context.Context, req *Request) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.Inserted = append(m.Inserted, req)
	return nil
}

func (m *MockRepository) ListByUser(_ context.Context, _ int64) ([]Request, error) {
	return m.Requests, m.ListErr
}

// MockNotifier implements Notifier for testing
type MockNotifier struct {
	Messages []kafka.Message
	WriteErr error
}

func (m *MockNotifier) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Messages = append(m.Messages, msgs...)
	return nil
}

func testRequest(quantity int) *Request {
	return &Request{
		UserID:        7,
		ProductTypeID: 100,
		Quantity:      quantity,
		CompanyName:   "ACME Trading",
		ContactName:   "Nguyen Van A",
		ContactPhone:  "0912345678",
		ContactEmail:  "a@acme.example",
	}
}

func TestSubmit_StoresAndNotifies(t *testing.T) {
	repo := &MockRepository{}
	notifier := &MockNotifier{}
	svc := NewService(repo, notifier)
	req := testRequest(10)

	err := svc.Submit(context.Background(), req)

	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)
	require.Len(t, repo.Inserted, 1)

	require.Len(t, notifier.Messages, 1)
	msg := notifier.Messages[0]
	assert.Equal(t, []byte(req.ID), msg.Key)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("b2b_request_created"), msg.Headers[0].Value)

	var published Request
	require.NoError(t, json.Unmarshal(msg.Value, &published))
	assert.Equal(t, int64(100), published.ProductTypeID)
	assert.Equal(t, 10, published.Quantity)
}

func TestSubmit_RejectsSelfServiceQuantity(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo, &MockNotifier{})

	for _, qty := range []int{0, 1, 5} {
		err := svc.Submit(context.Background(), testRequest(qty))

		assert.ErrorIs(t, err, ErrQuantityTooSmall, "quantity %d", qty)
	}
	assert.Empty(t, repo.Inserted)
}

func TestSubmit_StoreFailure(t *testing.T) {
	repo := &MockRepository{InsertErr: errors.New("mongo down")}
	notifier := &MockNotifier{}
	svc := NewService(repo, notifier)

	err := svc.Submit(context.Background(), testRequest(10))

	require.Error(t, err)
	assert.Empty(t, notifier.Messages, "no event for an unstored request")
}

func TestSubmit_NotifyFailureIsBestEffort(t *testing.T) {
	repo := &MockRepository{}
	notifier := &MockNotifier{WriteErr: errors.New("broker down")}
	svc := NewService(repo, notifier)

	err := svc.Submit(context.Background(), testRequest(10))

	require.NoError(t, err, "a stored request succeeds even when the event is lost")
	assert.Len(t, repo.Inserted, 1)
}

func TestHistory(t *testing.T) {
	repo := &MockRepository{Requests: []Request{
		{ID: "r2", UserID: 7, Quantity: 20},
		{ID: "r1", UserID: 7, Quantity: 10},
	}}
	svc := NewService(repo, &MockNotifier{})

	got, err := svc.History(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "r2", got[0].ID)
}
