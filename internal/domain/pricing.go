package domain

import (
	"math"
	"time"
)

// PromotionClaimStatus mirrors the claim lifecycle the platform API reports.
type PromotionClaimStatus string

const (
	ClaimStatusActive  PromotionClaimStatus = "CLAIMED_ACTIVE"
	ClaimStatusUsed    PromotionClaimStatus = "USED"
	ClaimStatusRevoked PromotionClaimStatus = "REVOKED"
)

// Promotion is a percentage-off voucher a user has claimed.
type Promotion struct {
	PromotionID       int64                `json:"promotion_id"`
	Name              string               `json:"name"`
	Percent           float64              `json:"percent"`
	ValidFrom         time.Time            `json:"valid_from"`
	ValidTo           time.Time            `json:"valid_to"`
	RemainingQuantity int                  `json:"remaining_quantity"`
	ClaimStatus       PromotionClaimStatus `json:"claim_status"`
}

// Usable reports whether the promotion can be applied at checkout right now.
func (p Promotion) Usable(now time.Time) bool {
	return p.ClaimStatus == ClaimStatusActive &&
		p.RemainingQuantity > 0 &&
		!now.Before(p.ValidFrom) &&
		!now.After(p.ValidTo)
}

// PriceSummary is a pure function of the selected groups and the chosen promotion.
// All currency arithmetic is decimal VND kept in full floating precision; only
// display output floors to whole VND.
type PriceSummary struct {
	SubtotalOriginal  float64 `json:"subtotal_original"`
	SubtotalSale      float64 `json:"subtotal_sale"`
	CatalogDiscount   float64 `json:"catalog_discount"`
	VATTotal          float64 `json:"vat_total"`
	PromotionPercent  float64 `json:"promotion_percent"`
	PromotionDiscount float64 `json:"promotion_discount"`
	FinalTotal        float64 `json:"final_total"`
	Clamped           bool    `json:"clamped"`
}

// DisplayVND floors an amount to whole VND for display. Flooring happens here
// and nowhere else, so displayed totals always match recomputed ones.
func DisplayVND(amount float64) int64 {
	return int64(math.Floor(amount))
}
