package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
	"github.com/lnanh2k4/zentrix-sub001/internal/platform"
)

// setupTestStore creates a miniredis server and returns a RedisStore instance
func setupTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return NewRedisStore(client), mr, cleanup
}

func testPending() *PendingPayment {
	return &PendingPayment{
		IdempotencyKey: "key-123",
		Gateway:        platform.GatewayVNPay,
		Order:          domain.OrderRequest{UserID: 7, Total: 2200000},
		Details:        []domain.OrderDetailRequest{{ProductTypeBranchID: 555, Quantity: 2}},
		Summary:        domain.PriceSummary{FinalTotal: 2200000},
		CreatedAt:      time.Now().UTC(),
	}
}

func TestPendingPayment_RoundTrip(t *testing.T) {
	store, mr, cleanup := setupTestStore(t)
	defer cleanup()

	require.NoError(t, store.SavePendingPayment(context.Background(), 7, testPending()))

	got, err := store.GetPendingPayment(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "key-123", got.IdempotencyKey)
	assert.Equal(t, platform.GatewayVNPay, got.Gateway)
	require.Len(t, got.Details, 1)
	assert.Equal(t, int64(555), got.Details[0].ProductTypeBranchID)

	ttl := mr.TTL(pendingKey(7))
	assert.Equal(t, PendingPaymentTTL, ttl)
}

func TestPendingPayment_Missing(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	got, err := store.GetPendingPayment(context.Background(), 7)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrNoPendingPayment)
}

func TestPendingPayment_Clear(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	require.NoError(t, store.SavePendingPayment(context.Background(), 7, testPending()))
	require.NoError(t, store.ClearPendingPayment(context.Background(), 7))

	_, err := store.GetPendingPayment(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNoPendingPayment)
}

func TestPendingPayment_ExpiresAfterTTL(t *testing.T) {
	store, mr, cleanup := setupTestStore(t)
	defer cleanup()

	require.NoError(t, store.SavePendingPayment(context.Background(), 7, testPending()))

	mr.FastForward(PendingPaymentTTL + time.Minute)

	_, err := store.GetPendingPayment(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNoPendingPayment)
}

func TestPendingPayment_PerUserIsolation(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	require.NoError(t, store.SavePendingPayment(context.Background(), 7, testPending()))

	_, err := store.GetPendingPayment(context.Background(), 8)
	assert.ErrorIs(t, err, ErrNoPendingPayment)
}

func TestBranch_RoundTrip(t *testing.T) {
	store, mr, cleanup := setupTestStore(t)
	defer cleanup()

	branch := domain.Branch{ID: 3, Name: "Thu Duc"}
	require.NoError(t, store.SetBranch(context.Background(), 7, branch))

	got, err := store.GetBranch(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, branch, *got)

	// The branch choice never expires on its own.
	assert.Equal(t, time.Duration(0), mr.TTL(branchKey(7)))
}

func TestBranch_NotSelected(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	got, err := store.GetBranch(context.Background(), 7)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrNoBranchSelected)
}

func TestBranch_Reselect(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	require.NoError(t, store.SetBranch(context.Background(), 7, domain.Branch{ID: 1, Name: "District 1"}))
	require.NoError(t, store.SetBranch(context.Background(), 7, domain.Branch{ID: 3, Name: "Thu Duc"}))

	got, err := store.GetBranch(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
}
