package platform

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
)

type stockResponse struct {
	Quantity int `json:"quantity"`
}

// StockByBranch returns the live stock quantity of a product type at one branch.
func (c *Client) StockByBranch(ctx context.Context, productTypeID, branchID int64) (int, error) {
	var resp stockResponse
	path := fmt.Sprintf("/api/v1/product-types/%d/branches/%d/stock", productTypeID, branchID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return 0, fmt.Errorf("stock by branch: %w", err)
	}
	return resp.Quantity, nil
}

// BranchStocks returns per-branch stock figures for a product type across all branches.
func (c *Client) BranchStocks(ctx context.Context, productTypeID int64) ([]domain.BranchStock, error) {
	var stocks []domain.BranchStock
	path := fmt.Sprintf("/api/v1/product-types/%d/stocks", productTypeID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &stocks); err != nil {
		return nil, fmt.Errorf("branch stocks: %w", err)
	}
	return stocks, nil
}

type productTypeBranchResponse struct {
	ProductTypeBranchID int64 `json:"product_type_branch_id"`
}

// ProductTypeBranchID resolves the branch-scoped product identity an order
// detail must carry.
func (c *Client) ProductTypeBranchID(ctx context.Context, productTypeID, branchID int64) (int64, error) {
	var resp productTypeBranchResponse
	path := fmt.Sprintf("/api/v1/product-types/%d/branches/%d", productTypeID, branchID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return 0, fmt.Errorf("resolve product type branch: %w", err)
	}
	return resp.ProductTypeBranchID, nil
}
