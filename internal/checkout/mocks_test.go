package checkout

import (
	"context"
	"time"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
)

// MockPlatformClient implements PlatformClient for testing
type MockPlatformClient struct {
	BranchProductIDs  map[int64]int64 // product type id -> product_type_branch id
	BranchProductErr  error
	OrderID           int64
	CreateOrderErr    error
	CreatedOrders     []domain.OrderRequest
	CreatedOrderKeys  []string
	DetailErrAt       int // 1-based index of the detail call that fails, 0 for none
	CreatedDetails    []domain.OrderDetailRequest
	DeletedOrders     []int64
	DeleteOrderErr    error
	InvoiceErr        error
	InvoicedOrders    []int64
	RemovedLines      [][]int64
	RemoveLinesErr    error
}

func (m *MockPlatformClient) ProductTypeBranchID(_ context.Context, productTypeID, _ int64) (int64, error) {
	if m.BranchProductErr != nil {
		return 0, m.BranchProductErr
	}
	return m.BranchProductIDs[productTypeID], nil
}

func (m *MockPlatformClient) CreateOrder(_ context.Context, req domain.OrderRequest, idempotencyKey string) (int64, error) {
	if m.CreateOrderErr != nil {
		return 0, m.CreateOrderErr
	}
	m.CreatedOrders = append(m.CreatedOrders, req)
	m.CreatedOrderKeys = append(m.CreatedOrderKeys, idempotencyKey)
	return m.OrderID, nil
}

func (m *MockPlatformClient) CreateOrderDetail(_ context.Context, _ int64, detail domain.OrderDetailRequest) error {
	if m.DetailErrAt != 0 && len(m.CreatedDetails)+1 == m.DetailErrAt {
		return errDetailRejected
	}
	m.CreatedDetails = append(m.CreatedDetails, detail)
	return nil
}

func (m *MockPlatformClient) DeleteOrder(_ context.Context, orderID int64) error {
	m.DeletedOrders = append(m.DeletedOrders, orderID)
	return m.DeleteOrderErr
}

func (m *MockPlatformClient) GenerateInvoice(_ context.Context, orderID int64) error {
	if m.InvoiceErr != nil {
		return m.InvoiceErr
	}
	m.InvoicedOrders = append(m.InvoicedOrders, orderID)
	return nil
}

func (m *MockPlatformClient) RemoveLines(_ context.Context, lineIDs []int64) error {
	m.RemovedLines = append(m.RemovedLines, lineIDs)
	return m.RemoveLinesErr
}

// MockAttemptStore implements AttemptStore for testing
type MockAttemptStore struct {
	ClaimCreated bool
	Existing     *Attempt
	ClaimErr     error

	States      []domain.CheckoutState
	Completed   []int64
	Events      []*OutboxEvent
	Failures    []string
	MarkDoneErr error
}

func (m *MockAttemptStore) ClaimAttempt(_ context.Context, _ string, _ int64, _ string) (bool, *Attempt, error) {
	return m.ClaimCreated, m.Existing, m.ClaimErr
}

func (m *MockAttemptStore) SetState(_ context.Context, _ string, state domain.CheckoutState) error {
	m.States = append(m.States, state)
	return nil
}

func (m *MockAttemptStore) MarkCompleted(_ context.Context, _ string, orderID int64, event *OutboxEvent) error {
	m.Completed = append(m.Completed, orderID)
	m.Events = append(m.Events, event)
	return m.MarkDoneErr
}

func (m *MockAttemptStore) MarkFailed(_ context.Context, _ string, reason string) error {
	m.Failures = append(m.Failures, reason)
	return nil
}

func (m *MockAttemptStore) GetUnprocessedEvents(_ context.Context, _ int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (m *MockAttemptStore) MarkEventAsProcessed(_ context.Context, _ int64) error {
	return nil
}

func (m *MockAttemptStore) Close() error {
	return nil
}

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
