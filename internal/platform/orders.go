package platform

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
)

type createOrderResponse struct {
	OrderID int64 `json:"order_id"`
}

// CreateOrder creates the order header. The idempotency key travels as a
// header so the platform can dedupe replays of the same submission.
func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest, idempotencyKey string) (int64, error) {
	var resp createOrderResponse
	headers := map[string]string{"Idempotency-Key": idempotencyKey}
	if err := c.do(ctx, http.MethodPost, "/api/v1/orders", headers, req, &resp); err != nil {
		return 0, fmt.Errorf("create order: %w", err)
	}
	return resp.OrderID, nil
}

// CreateOrderDetail appends one detail row to an existing order.
func (c *Client) CreateOrderDetail(ctx context.Context, orderID int64, detail domain.OrderDetailRequest) error {
	path := fmt.Sprintf("/api/v1/orders/%d/details", orderID)
	if err := c.do(ctx, http.MethodPost, path, nil, detail, nil); err != nil {
		return fmt.Errorf("create order detail: %w", err)
	}
	return nil
}

// DeleteOrder removes a just-created order. This is the compensating action
// for a failed detail submission; order and detail creation are not atomic on
// the platform side.
func (c *Client) DeleteOrder(ctx context.Context, orderID int64) error {
	path := fmt.Sprintf("/api/v1/orders/%d", orderID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// GenerateInvoice triggers invoice generation and the confirmation email.
// Best effort once the order exists; callers must not roll back on failure.
func (c *Client) GenerateInvoice(ctx context.Context, orderID int64) error {
	path := fmt.Sprintf("/api/v1/orders/%d/invoice", orderID)
	if err := c.do(ctx, http.MethodPost, path, nil, nil, nil); err != nil {
		return fmt.Errorf("generate invoice: %w", err)
	}
	return nil
}

// ListOrders returns a user's order history, newest first.
func (c *Client) ListOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	var orders []domain.Order
	path := fmt.Sprintf("/api/v1/users/%d/orders", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &orders); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
