package cart

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
)

// MaxSelfServiceQuantity is the hard business threshold above which a single
// position must go through the B2B sales-contact flow instead of self-service
// checkout.
const MaxSelfServiceQuantity = 5

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

type QuantityStatus string

const (
	QuantityOK        QuantityStatus = "OK"
	StockExceeded     QuantityStatus = "STOCK_EXCEEDED"
	RequiresB2BReview QuantityStatus = "REQUIRES_B2B_APPROVAL"
)

// QuantityResult is the outcome of a SetQuantity call. StockExceeded carries
// the quantity actually available; RequiresB2BReview carries the requested
// quantity so the B2B form can be prefilled.
type QuantityResult struct {
	Status    QuantityStatus `json:"status"`
	Available int            `json:"available,omitempty"`
	Requested int            `json:"requested,omitempty"`
}

// SetQuantity changes a group's quantity across all of its member lines.
// The B2B threshold is checked before anything else, including stock; stock
// is re-fetched live at the moment of the request rather than trusted from
// the rendered view. The fan-out across member lines is all-or-nothing from
// the caller's perspective: any line failure reports one aggregate failure
// and already-updated lines are moved back to the pre-operation quantity.
func (s *Service) SetQuantity(ctx context.Context, userID, branchID int64, group domain.CartGroup, newQuantity int) (*QuantityResult, error) {
	if newQuantity < 1 {
		return nil, ErrInvalidQuantity
	}

	if newQuantity > MaxSelfServiceQuantity {
		return &QuantityResult{Status: RequiresB2BReview, Requested: newQuantity}, nil
	}

	available := s.resolver.Resolve(ctx, group.ProductTypeID, branchID)
	if newQuantity > available {
		return &QuantityResult{Status: StockExceeded, Available: available}, nil
	}

	var updated []int64
	for _, lineID := range group.MemberLineIDs {
		if err := s.platform.UpdateLineQuantity(ctx, lineID, newQuantity); err != nil {
			s.rollbackQuantity(ctx, updated, group.Quantity)
			s.invalidateView(userID)
			return nil, fmt.Errorf("update quantity for group %s: %w", group.GroupKey, err)
		}
		updated = append(updated, lineID)
	}

	s.invalidateView(userID)
	return &QuantityResult{Status: QuantityOK}, nil
}

// rollbackQuantity is best effort: the backend calls are not a transaction,
// so all we can restore reliably is the rendered quantity.
func (s *Service) rollbackQuantity(ctx context.Context, lineIDs []int64, previous int) {
	for _, lineID := range lineIDs {
		if err := s.platform.UpdateLineQuantity(ctx, lineID, previous); err != nil {
			log.Printf("rollback of line %d to quantity %d failed: %v", lineID, previous, err)
		}
	}
}

// Remove deletes a whole group. All member lines go in one bulk backend call
// so the group can never be left half removed.
func (s *Service) Remove(ctx context.Context, userID int64, group domain.CartGroup) error {
	if err := s.platform.RemoveLines(ctx, group.MemberLineIDs); err != nil {
		return fmt.Errorf("remove group %s: %w", group.GroupKey, err)
	}
	s.invalidateView(userID)
	return nil
}
