package platform

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
)

// ListBranches fetches every active branch of the chain.
func (c *Client) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	var branches []domain.Branch
	if err := c.do(ctx, http.MethodGet, "/api/v1/branches", nil, nil, &branches); err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return branches, nil
}
