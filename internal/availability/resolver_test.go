package availability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
)

// MockStockClient implements StockClient for testing
type MockStockClient struct {
	Stock    map[int64]int // product type id -> quantity
	StockErr error

	Branches    []domain.BranchStock
	BranchesErr error
}

func (m *MockStockClient) StockByBranch(_ context.Context, productTypeID, _ int64) (int, error) {
	if m.StockErr != nil {
		return 0, m.StockErr
	}
	return m.Stock[productTypeID], nil
}

func (m *MockStockClient) BranchStocks(_ context.Context, _ int64) ([]domain.BranchStock, error) {
	return m.Branches, m.BranchesErr
}

func TestResolve_ReturnsLiveStock(t *testing.T) {
	r := NewResolver(&MockStockClient{Stock: map[int64]int{100: 7}})

	assert.Equal(t, 7, r.Resolve(context.Background(), 100, 1))
}

func TestResolve_FailsTowardZero(t *testing.T) {
	r := NewResolver(&MockStockClient{StockErr: errors.New("inventory timeout")})

	assert.Equal(t, 0, r.Resolve(context.Background(), 100, 1))
}

func TestNearestAlternative_SkipsCurrentAndEmptyBranches(t *testing.T) {
	r := NewResolver(&MockStockClient{Branches: []domain.BranchStock{
		{BranchID: 1, BranchName: "District 1", Quantity: 9},
		{BranchID: 2, BranchName: "District 3", Quantity: 0},
		{BranchID: 3, BranchName: "Thu Duc", Quantity: 4},
	}})

	alt := r.NearestAlternative(context.Background(), 100, 1)

	require.NotNil(t, alt)
	assert.Equal(t, int64(3), alt.BranchID)
	assert.Equal(t, 4, alt.Quantity)
}

func TestNearestAlternative_NoneAvailable(t *testing.T) {
	r := NewResolver(&MockStockClient{Branches: []domain.BranchStock{
		{BranchID: 1, Quantity: 9},
	}})

	assert.Nil(t, r.NearestAlternative(context.Background(), 100, 1))
}

func TestNearestAlternative_LookupFailure(t *testing.T) {
	r := NewResolver(&MockStockClient{BranchesErr: errors.New("inventory down")})

	assert.Nil(t, r.NearestAlternative(context.Background(), 100, 1))
}

func TestEnrich_FillsEveryGroup(t *testing.T) {
	r := NewResolver(&MockStockClient{Stock: map[int64]int{100: 2, 200: 0, 300: 11}})
	groups := []domain.CartGroup{
		{ProductTypeID: 100},
		{ProductTypeID: 200},
		{ProductTypeID: 300},
	}

	r.Enrich(context.Background(), groups, 1)

	assert.Equal(t, 2, groups[0].BranchAvailable)
	assert.Equal(t, 0, groups[1].BranchAvailable)
	assert.Equal(t, 11, groups[2].BranchAvailable)
}
