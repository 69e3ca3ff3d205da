// Package cart turns raw platform cart lines into the grouped view the
// storefront renders, and applies quantity and removal operations to it.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/lnanh2k4/zentrix-sub001/internal/cache"
	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
)

// PlatformClient is the slice of the platform API the cart service needs.
type PlatformClient interface {
	ListCartLines(ctx context.Context, userID int64) ([]domain.CartLine, error)
	UpdateLineQuantity(ctx context.Context, lineID int64, quantity int) error
	RemoveLines(ctx context.Context, lineIDs []int64) error
}

// StockResolver enriches groups with live branch stock.
type StockResolver interface {
	Resolve(ctx context.Context, productTypeID, branchID int64) int
	NearestAlternative(ctx context.Context, productTypeID, excludeBranchID int64) *domain.BranchStock
	Enrich(ctx context.Context, groups []domain.CartGroup, branchID int64)
}

type Service struct {
	platform PlatformClient
	resolver StockResolver
	cache    cache.CartViewCache
	sfg      singleflight.Group // Prevents cache stampede
}

func NewService(platform PlatformClient, resolver StockResolver, viewCache cache.CartViewCache) *Service {
	return &Service{
		platform: platform,
		resolver: resolver,
		cache:    viewCache,
	}
}

// View fetches, aggregates and enriches the user's cart for a branch.
func (s *Service) View(ctx context.Context, userID, branchID int64) (*domain.CartView, error) {
	// Singleflight collapses concurrent rebuilds of the same user's view.
	key := fmt.Sprintf("%d:%d", userID, branchID)
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		view, errCache := s.cache.Get(ctx, userID, branchID)
		if errCache == nil {
			return view, nil
		}
		if !errors.Is(errCache, cache.ErrCacheMiss) {
			log.Printf("cart view cache get error: %v", errCache)
		}

		view, errBuild := s.buildView(ctx, userID, branchID)
		if errBuild != nil {
			return nil, errBuild
		}

		go func() {
			errSet := s.cache.Set(context.Background(), view)
			if errSet != nil {
				log.Printf("cart view cache set error: %v", errSet)
			}
		}()

		return view, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.CartView), nil
}

func (s *Service) buildView(ctx context.Context, userID, branchID int64) (*domain.CartView, error) {
	lines, err := s.platform.ListCartLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch cart lines: %w", err)
	}

	groups, err := Aggregate(lines)
	if err != nil {
		return nil, err
	}

	s.resolver.Enrich(ctx, groups, branchID)

	return &domain.CartView{
		UserID:    userID,
		BranchID:  branchID,
		Groups:    groups,
		FetchedAt: time.Now(),
	}, nil
}

// SwitchSuggestion returns another branch carrying stock for an unavailable
// group, or nil.
func (s *Service) SwitchSuggestion(ctx context.Context, group domain.CartGroup, branchID int64) *domain.BranchStock {
	return s.resolver.NearestAlternative(ctx, group.ProductTypeID, branchID)
}

func (s *Service) invalidateView(userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cart view cache invalidate error: %v", err)
	}
}
