package domain

import "time"

// CartLine is one raw row of the user's active cart as the platform API returns it:
// one row per product-variation-combination unit.
type CartLine struct {
	LineID          int64     `json:"line_id"`
	CartID          int64     `json:"cart_id"`
	ProductTypeID   int64     `json:"product_type_id"`
	VariationID     int64     `json:"product_type_variation_id"`
	VariationCode   string    `json:"variation_code"`
	VariationName   string    `json:"variation_name"`
	VariationValue  string    `json:"variation_value"`
	DisplayName     string    `json:"display_name"`
	Quantity        int       `json:"quantity"`
	UnitSalePrice   float64   `json:"unit_sale_price"`
	UnitOrigPrice   float64   `json:"unit_original_price"`
	VATPercent      float64   `json:"vat_percent"`
	ImageURL        string    `json:"image_url"`
	IsDiscontinued  bool      `json:"is_discontinued"`
	CreatedAt       time.Time `json:"created_at"`
}

// VariationDetail is one option axis of a purchasable SKU (e.g. color=red).
type VariationDetail struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CartGroup aggregates all cart lines that represent the same product+variation
// selection. It is rebuilt from raw lines on every fetch and shown as a single row.
type CartGroup struct {
	GroupKey        string            `json:"group_key"`
	ProductTypeID   int64             `json:"product_type_id"`
	VariationCode   string            `json:"variation_code"`
	DisplayName     string            `json:"display_name"`
	ImageURL        string            `json:"image_url"`
	UnitSalePrice   float64           `json:"unit_sale_price"`
	UnitOrigPrice   float64           `json:"unit_original_price"`
	Quantity        int               `json:"quantity"`
	VATPercent      float64           `json:"vat_percent"`
	BranchAvailable int               `json:"branch_available_quantity"`
	IsDiscontinued  bool              `json:"is_discontinued"`
	MemberLineIDs   []int64           `json:"member_line_ids"`
	Variations      []VariationDetail `json:"variations"`
}

// IsUnavailable reports whether the group can be selected for checkout.
func (g CartGroup) IsUnavailable() bool {
	return g.IsDiscontinued || g.BranchAvailable == 0
}

// CartView is the grouped, availability-enriched cart as the storefront
// renders it. Rebuilt from raw lines on every fetch; cacheable between
// mutations.
type CartView struct {
	UserID    int64       `json:"user_id"`
	BranchID  int64       `json:"branch_id"`
	Groups    []CartGroup `json:"groups"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// Branch is a stock location. Availability and pricing context is branch-scoped.
type Branch struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BranchStock is a per-branch stock figure for one product type.
type BranchStock struct {
	BranchID   int64  `json:"branch_id"`
	BranchName string `json:"branch_name"`
	Quantity   int    `json:"quantity"`
}
