package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
)

// PendingPaymentTTL bounds how long an abandoned gateway redirect keeps its
// payloads around. Gateways themselves expire payment links well before this.
const PendingPaymentTTL = 2 * time.Hour

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

type RedisStore struct {
	client *redis.Client
}

func (r *RedisStore) SavePendingPayment(ctx context.Context, userID int64, p *PendingPayment) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal pending payment: %w", err)
	}
	if err := r.client.Set(ctx, pendingKey(userID), raw, PendingPaymentTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) GetPendingPayment(ctx context.Context, userID int64) (*PendingPayment, error) {
	data, err := r.client.Get(ctx, pendingKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoPendingPayment
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var p PendingPayment
	if err2 := json.Unmarshal(data, &p); err2 != nil {
		return nil, fmt.Errorf("unmarshal pending payment failed: %w", err2)
	}
	return &p, nil
}

func (r *RedisStore) ClearPendingPayment(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, pendingKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisStore) SetBranch(ctx context.Context, userID int64, branch domain.Branch) error {
	raw, err := json.Marshal(branch)
	if err != nil {
		return fmt.Errorf("marshal branch: %w", err)
	}
	// Branch selection has no natural expiry; it stays until changed.
	if err := r.client.Set(ctx, branchKey(userID), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) GetBranch(ctx context.Context, userID int64) (*domain.Branch, error) {
	data, err := r.client.Get(ctx, branchKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoBranchSelected
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var b domain.Branch
	if err2 := json.Unmarshal(data, &b); err2 != nil {
		return nil, fmt.Errorf("unmarshal branch failed: %w", err2)
	}
	return &b, nil
}

func pendingKey(userID int64) string {
	return fmt.Sprintf("pending-payment:%d", userID)
}

func branchKey(userID int64) string {
	return fmt.Sprintf("branch:%d", userID)
}
