// Package pricing computes checkout totals from the selected cart groups.
package pricing

import (
	"log"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
)

// ComputeSummary derives the price summary for a selection. Pure function; the
// caller is responsible for only passing a currently usable promotion (the
// storefront offers promotions through a closed dropdown of valid ones).
// Summation keeps full floating precision; flooring to whole VND happens only
// at display time.
func ComputeSummary(selected []domain.CartGroup, promo *domain.Promotion) domain.PriceSummary {
	var s domain.PriceSummary

	for _, g := range selected {
		qty := float64(g.Quantity)
		s.SubtotalOriginal += g.UnitOrigPrice * qty
		s.SubtotalSale += g.UnitSalePrice * qty
		s.VATTotal += g.UnitSalePrice * qty * g.VATPercent / 100
	}
	s.CatalogDiscount = s.SubtotalOriginal - s.SubtotalSale

	if promo != nil {
		s.PromotionPercent = promo.Percent
		s.PromotionDiscount = promo.Percent / 100 * s.SubtotalSale
	}

	s.FinalTotal = s.SubtotalSale + s.VATTotal - s.PromotionDiscount
	if s.FinalTotal < 0 {
		// A discount larger than the payable amount is a misconfigured
		// promotion, not a credit owed to the shopper.
		log.Printf("price summary clamped to zero: subtotal=%v vat=%v discount=%v", s.SubtotalSale, s.VATTotal, s.PromotionDiscount)
		s.FinalTotal = 0
		s.Clamped = true
	}

	return s
}
