package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Gateway names the external payment providers the platform integrates.
type Gateway string

const (
	GatewayVNPay Gateway = "vnpay"
	GatewayMoMo  Gateway = "momo"
)

type createPaymentRequest struct {
	Amount    float64 `json:"amount"`
	OrderRef  string  `json:"order_ref"`
	ReturnURL string  `json:"return_url"`
}

type createPaymentResponse struct {
	PayURL string `json:"pay_url"`
}

// PaymentVerification is the gateway-specific verify endpoint's verdict on a
// callback.
type PaymentVerification struct {
	Success       bool    `json:"success"`
	TransactionID string  `json:"transaction_id"`
	OrderRef      string  `json:"order_ref"`
	Amount        float64 `json:"amount"`
	Message       string  `json:"message"`
}

// CreatePayment asks the platform to open a gateway payment and returns the
// redirect URL the shopper must visit.
func (c *Client) CreatePayment(ctx context.Context, gw Gateway, amount float64, orderRef, returnURL string) (string, error) {
	var resp createPaymentResponse
	path := fmt.Sprintf("/api/v1/payments/%s/create", gw)
	req := createPaymentRequest{Amount: amount, OrderRef: orderRef, ReturnURL: returnURL}
	if err := c.do(ctx, http.MethodPost, path, nil, req, &resp); err != nil {
		return "", fmt.Errorf("create %s payment: %w", gw, err)
	}
	return resp.PayURL, nil
}

// VerifyPayment forwards the raw callback query parameters to the
// gateway-specific verify endpoint. Signature checking happens server side.
func (c *Client) VerifyPayment(ctx context.Context, gw Gateway, callbackParams url.Values) (*PaymentVerification, error) {
	var resp PaymentVerification
	path := fmt.Sprintf("/api/v1/payments/%s/verify?%s", gw, callbackParams.Encode())
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("verify %s payment: %w", gw, err)
	}
	return &resp, nil
}
