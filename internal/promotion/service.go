package promotion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
)

var ErrPromotionNotUsable = errors.New("promotion is not currently usable")

// PlatformClient is the slice of the platform API the service needs.
type PlatformClient interface {
	ClaimedPromotions(ctx context.Context, userID int64) ([]domain.Promotion, error)
	ClaimPromotion(ctx context.Context, userID, promotionID int64) error
}

type Service struct {
	platform PlatformClient
	nowFunc  func() time.Time
}

func NewService(platform PlatformClient) *Service {
	return &Service{platform: platform, nowFunc: time.Now}
}

// ListUsable returns the promotions the user may apply at checkout right now.
// This is the closed set the checkout dropdown is built from.
func (s *Service) ListUsable(ctx context.Context, userID int64) ([]domain.Promotion, error) {
	claimed, err := s.platform.ClaimedPromotions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list usable promotions: %w", err)
	}

	now := s.nowFunc()
	usable := make([]domain.Promotion, 0, len(claimed))
	for _, p := range claimed {
		if p.Usable(now) {
			usable = append(usable, p)
		}
	}
	return usable, nil
}

// Lookup resolves a promotion id against the user's usable set. Checkout uses
// this to refuse ids that slipped past the closed dropdown.
func (s *Service) Lookup(ctx context.Context, userID, promotionID int64) (*domain.Promotion, error) {
	usable, err := s.ListUsable(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, p := range usable {
		if p.PromotionID == promotionID {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", ErrPromotionNotUsable, promotionID)
}

// Claim claims a promotion for the user.
func (s *Service) Claim(ctx context.Context, userID, promotionID int64) error {
	if err := s.platform.ClaimPromotion(ctx, userID, promotionID); err != nil {
		return fmt.Errorf("claim promotion: %w", err)
	}
	return nil
}
