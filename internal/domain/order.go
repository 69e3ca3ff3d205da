package domain

import "time"

type PaymentMethod string

const (
	PaymentCOD   PaymentMethod = "COD"
	PaymentVNPay PaymentMethod = "VNPAY"
	PaymentMoMo  PaymentMethod = "MOMO"
)

// IsGateway reports whether the method requires an external payment redirect
// before the order may be created.
func (m PaymentMethod) IsGateway() bool {
	return m == PaymentVNPay || m == PaymentMoMo
}

type DeliveryMethod string

const (
	DeliveryHome   DeliveryMethod = "DELIVERY"
	DeliveryPickup DeliveryMethod = "PICKUP"
)

// CustomerInfo carries the checkout form fields. Address, city and district are
// required only when the delivery method is home delivery.
type CustomerInfo struct {
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone" validate:"required,vnphone"`
	Email    string `json:"email" validate:"required,email"`
	Address  string `json:"address" validate:"required_if=Delivery DELIVERY"`
	City     string `json:"city" validate:"required_if=Delivery DELIVERY"`
	District string `json:"district" validate:"required_if=Delivery DELIVERY"`

	Delivery DeliveryMethod `json:"delivery_method" validate:"required,oneof=DELIVERY PICKUP"`
}

// OrderRequest is the order header payload built from the selection at
// submission time and sent to the platform API.
type OrderRequest struct {
	UserID      int64         `json:"user_id"`
	BranchID    int64         `json:"branch_id"`
	Customer    CustomerInfo  `json:"customer"`
	Payment     PaymentMethod `json:"payment_method"`
	PromotionID int64         `json:"promotion_id,omitempty"`
	Total       float64       `json:"total"`
	CreatedAt   time.Time     `json:"created_at"`
}

// OrderDetailRequest is one order line. MemberLineIDs point back at the cart
// lines behind the detail so the cart can be cleared after submission.
type OrderDetailRequest struct {
	ProductTypeBranchID int64   `json:"product_type_branch_id"`
	Quantity            int     `json:"quantity"`
	UnitPrice           float64 `json:"unit_price"`
	VATPercent          float64 `json:"vat_percent"`
	Variation           string  `json:"variation"`
	MemberLineIDs       []int64 `json:"member_line_ids"`
}

type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order is a persisted order as the platform API reports it back.
type Order struct {
	OrderID   int64         `json:"order_id"`
	UserID    int64         `json:"user_id"`
	BranchID  int64         `json:"branch_id"`
	Payment   PaymentMethod `json:"payment_method"`
	Status    OrderStatus   `json:"status"`
	Total     float64       `json:"total"`
	CreatedAt time.Time     `json:"created_at"`
}

// ExpectedDelivery is the delivery estimate shown on the confirmation view.
// Fixed seven day offset, no business-day awareness.
func ExpectedDelivery(from time.Time) time.Time {
	return from.AddDate(0, 0, 7)
}
