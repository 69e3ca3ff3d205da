package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
)

func group(qty int, sale, orig, vat float64) domain.CartGroup {
	return domain.CartGroup{
		Quantity:      qty,
		UnitSalePrice: sale,
		UnitOrigPrice: orig,
		VATPercent:    vat,
	}
}

func TestComputeSummary_SubtotalAndVAT(t *testing.T) {
	selected := []domain.CartGroup{group(2, 1000000, 1200000, 10)}

	s := ComputeSummary(selected, nil)

	assert.InDelta(t, 2400000, s.SubtotalOriginal, 0.001)
	assert.InDelta(t, 2000000, s.SubtotalSale, 0.001)
	assert.InDelta(t, 400000, s.CatalogDiscount, 0.001)
	assert.InDelta(t, 200000, s.VATTotal, 0.001)
	assert.InDelta(t, 2200000, s.FinalTotal, 0.001)
	assert.False(t, s.Clamped)
	assert.Equal(t, int64(2200000), domain.DisplayVND(s.FinalTotal))
}

func TestComputeSummary_PromotionAppliesToSaleSubtotal(t *testing.T) {
	selected := []domain.CartGroup{group(2, 1000000, 1000000, 10)}
	promo := &domain.Promotion{PromotionID: 5, Percent: 10}

	s := ComputeSummary(selected, promo)

	// 10% off the sale subtotal, not the VAT-inclusive amount.
	assert.InDelta(t, 200000, s.PromotionDiscount, 0.001)
	assert.InDelta(t, 10, s.PromotionPercent, 0.001)
	assert.InDelta(t, 2000000, s.FinalTotal, 0.001)
}

func TestComputeSummary_MixedVATRates(t *testing.T) {
	selected := []domain.CartGroup{
		group(1, 100000, 100000, 10),
		group(3, 50000, 60000, 8),
	}

	s := ComputeSummary(selected, nil)

	assert.InDelta(t, 250000, s.SubtotalSale, 0.001)
	assert.InDelta(t, 10000+12000, s.VATTotal, 0.001)
	assert.InDelta(t, 272000, s.FinalTotal, 0.001)
}

func TestComputeSummary_ClampsNegativeTotal(t *testing.T) {
	// Oversized promotion percent from a misconfigured campaign.
	selected := []domain.CartGroup{group(1, 100000, 100000, 0)}
	promo := &domain.Promotion{Percent: 150}

	s := ComputeSummary(selected, promo)

	assert.Zero(t, s.FinalTotal)
	assert.True(t, s.Clamped)
}

func TestComputeSummary_EmptySelection(t *testing.T) {
	s := ComputeSummary(nil, nil)

	assert.Zero(t, s.SubtotalSale)
	assert.Zero(t, s.FinalTotal)
	assert.False(t, s.Clamped)
}

func TestDisplayVND_FloorsFractions(t *testing.T) {
	assert.Equal(t, int64(1999), domain.DisplayVND(1999.99))
}
