package cart

import (
	"context"
	"sync"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
)

// MockPlatformClient implements PlatformClient for testing
type MockPlatformClient struct {
	mu sync.Mutex

	Lines     []domain.CartLine
	ListErr   error
	Removed   [][]int64
	RemoveErr error

	// UpdateErrFor maps line id to the error its update should return.
	UpdateErrFor map[int64]error
	Updates      []QuantityUpdate
}

type QuantityUpdate struct {
	LineID   int64
	Quantity int
}

func (m *MockPlatformClient) ListCartLines(_ context.Context, _ int64) ([]domain.CartLine, error) {
	return m.Lines, m.ListErr
}

func (m *MockPlatformClient) UpdateLineQuantity(_ context.Context, lineID int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Updates = append(m.Updates, QuantityUpdate{LineID: lineID, Quantity: quantity})
	if m.UpdateErrFor != nil {
		return m.UpdateErrFor[lineID]
	}
	return nil
}

func (m *MockPlatformClient) RemoveLines(_ context.Context, lineIDs []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Removed = append(m.Removed, lineIDs)
	return m.RemoveErr
}

// MockStockResolver implements StockResolver for testing
type MockStockResolver struct {
	Stock       map[int64]int // product type id -> quantity
	Alternative *domain.BranchStock
}

func (m *MockStockResolver) Resolve(_ context.Context, productTypeID, _ int64) int {
	return m.Stock[productTypeID]
}

func (m *MockStockResolver) NearestAlternative(_ context.Context, _, _ int64) *domain.BranchStock {
	return m.Alternative
}

func (m *MockStockResolver) Enrich(_ context.Context, groups []domain.CartGroup, _ int64) {
	for i := range groups {
		groups[i].BranchAvailable = m.Stock[groups[i].ProductTypeID]
	}
}

// MockViewCache implements cache.CartViewCache for testing
type MockViewCache struct {
	mu sync.Mutex

	View    *domain.CartView
	GetErr  error
	SetErr  error
	Deletes []int64
	Sets    []*domain.CartView
}

func (m *MockViewCache) Get(_ context.Context, _, _ int64) (*domain.CartView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.View, nil
}

func (m *MockViewCache) Set(_ context.Context, view *domain.CartView) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets = append(m.Sets, view)
	return m.SetErr
}

func (m *MockViewCache) Delete(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes = append(m.Deletes, userID)
	return nil
}

func (m *MockViewCache) DeleteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Deletes)
}
