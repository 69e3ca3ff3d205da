// Package availability cross-checks cart groups against live per-branch stock.
package availability

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
)

// StockClient is the slice of the platform API the resolver needs.
type StockClient interface {
	StockByBranch(ctx context.Context, productTypeID, branchID int64) (int, error)
	BranchStocks(ctx context.Context, productTypeID int64) ([]domain.BranchStock, error)
}

type Resolver struct {
	stock StockClient
}

func NewResolver(stock StockClient) *Resolver {
	return &Resolver{stock: stock}
}

// Resolve returns the live stock of a product type at a branch. A failed
// lookup counts as zero stock: the group shows as unavailable instead of
// risking an oversell. Never returns an error to the caller.
func (r *Resolver) Resolve(ctx context.Context, productTypeID, branchID int64) int {
	qty, err := r.stock.StockByBranch(ctx, productTypeID, branchID)
	if err != nil {
		log.Printf("stock lookup failed for product %d branch %d, treating as out of stock: %v", productTypeID, branchID, err)
		return 0
	}
	return qty
}

// NearestAlternative returns the first other branch carrying stock for the
// product, for the switch-branch suggestion. Data only; nil when none exists
// or the lookup fails.
func (r *Resolver) NearestAlternative(ctx context.Context, productTypeID, excludeBranchID int64) *domain.BranchStock {
	stocks, err := r.stock.BranchStocks(ctx, productTypeID)
	if err != nil {
		log.Printf("branch stock scan failed for product %d: %v", productTypeID, err)
		return nil
	}
	for _, s := range stocks {
		if s.BranchID != excludeBranchID && s.Quantity > 0 {
			alt := s
			return &alt
		}
	}
	return nil
}

// Enrich fans out one stock lookup per group and joins before returning, so a
// large cart does not pay for sequential round trips. Lookups fail toward
// zero, so the join never yields an error.
func (r *Resolver) Enrich(ctx context.Context, groups []domain.CartGroup, branchID int64) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for i := range groups {
		i := i
		g.Go(func() error {
			groups[i].BranchAvailable = r.Resolve(ctx, groups[i].ProductTypeID, branchID)
			return nil
		})
	}
	// Workers never return errors; Wait is just the join point.
	_ = g.Wait()
}
