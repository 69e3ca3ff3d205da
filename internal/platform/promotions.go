package platform

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
)

// ClaimedPromotions lists every promotion the user has claimed, regardless of
// validity; filtering to usable ones is the promotion service's job.
func (c *Client) ClaimedPromotions(ctx context.Context, userID int64) ([]domain.Promotion, error) {
	var promos []domain.Promotion
	path := fmt.Sprintf("/api/v1/users/%d/promotions", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &promos); err != nil {
		return nil, fmt.Errorf("claimed promotions: %w", err)
	}
	return promos, nil
}

// ClaimPromotion claims a promotion for the user.
func (c *Client) ClaimPromotion(ctx context.Context, userID, promotionID int64) error {
	path := fmt.Sprintf("/api/v1/users/%d/promotions/%d/claim", userID, promotionID)
	if err := c.do(ctx, http.MethodPost, path, nil, nil, nil); err != nil {
		return fmt.Errorf("claim promotion: %w", err)
	}
	return nil
}
