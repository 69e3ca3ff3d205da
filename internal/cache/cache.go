package cache

import (
	"context"
	"errors"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
)

type CartViewCache interface {
	Get(ctx context.Context, userID, branchID int64) (*domain.CartView, error)
	Set(ctx context.Context, view *domain.CartView) error
	Delete(ctx context.Context, userID int64) error
}

var ErrCacheMiss = errors.New("cache miss")
