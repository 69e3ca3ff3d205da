package platform

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
)

// ListCartLines fetches the raw per-variation rows of the user's active cart.
func (c *Client) ListCartLines(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	path := fmt.Sprintf("/api/v1/carts/%d/lines", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &lines); err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	return lines, nil
}

type updateLineRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateLineQuantity sets the quantity of a single cart line.
func (c *Client) UpdateLineQuantity(ctx context.Context, lineID int64, quantity int) error {
	path := fmt.Sprintf("/api/v1/cart-lines/%d", lineID)
	if err := c.do(ctx, http.MethodPut, path, nil, updateLineRequest{Quantity: quantity}, nil); err != nil {
		return fmt.Errorf("update cart line %d: %w", lineID, err)
	}
	return nil
}

type removeLinesRequest struct {
	LineIDs []int64 `json:"line_ids"`
}

// RemoveLines deletes a set of cart lines in one backend transaction, so a
// multi-line group can never be left half removed.
func (c *Client) RemoveLines(ctx context.Context, lineIDs []int64) error {
	if len(lineIDs) == 0 {
		return nil
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/cart-lines/bulk-remove", nil, removeLinesRequest{LineIDs: lineIDs}, nil); err != nil {
		return fmt.Errorf("remove cart lines: %w", err)
	}
	return nil
}
