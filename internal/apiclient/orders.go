package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
)

// CreateOrder accepts both response shapes the backend uses: an envelope
// {order, razorpayOrder} for online payments and a bare order otherwise.
func (c *Client) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.PlacedOrder, error) {
	const fallback = "Failed to create order"

	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodPost, path: "/orders", body: req, out: &raw, fallback: fallback}); err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, appErrors.MalformedResponseError(fallback).WithError(err)
	}

	placed := &models.PlacedOrder{}

	if _, wrapped := fields["order"]; wrapped {
		if err := c.decode(raw, placed, fallback); err != nil {
			return nil, err
		}
	} else {
		placed.Order = &models.Order{}
		if err := c.decode(raw, placed.Order, fallback); err != nil {
			return nil, err
		}
	}

	if err := c.decodeChecked(placed, fallback); err != nil {
		return nil, err
	}

	return placed, nil
}

// VerifyPayment expects the backend to answer a successful verification with
// the updated order. Any other 2xx body is reported as a malformed response.
func (c *Client) VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.Order, error) {
	return c.order(ctx, call{method: http.MethodPost, path: "/orders/" + url.PathEscape(req.OrderID) + "/verify-payment", body: req, fallback: "Payment verification failed"})
}

func (c *Client) ListMyOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := c.do(ctx, call{method: http.MethodGet, path: "/orders/myorders", out: &out, fallback: "Failed to fetch orders"}); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return c.order(ctx, call{method: http.MethodGet, path: "/orders/" + url.PathEscape(id), fallback: "Failed to fetch order"})
}

func (c *Client) CancelOrder(ctx context.Context, id string) (*models.Order, error) {
	return c.order(ctx, call{method: http.MethodPut, path: "/orders/" + url.PathEscape(id) + "/cancel", fallback: "Failed to cancel order"})
}

func (c *Client) order(ctx context.Context, in call) (*models.Order, error) {
	var out models.Order

	in.out = &out
	if err := c.do(ctx, in); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) decode(raw []byte, out any, fallback string) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return appErrors.MalformedResponseError(fallback).WithError(err)
	}

	return nil
}

func (c *Client) decodeChecked(placed *models.PlacedOrder, fallback string) error {
	if placed.Order == nil {
		return appErrors.MalformedResponseError(fallback).WithError(errors.New("response carries no order"))
	}

	if err := c.check(placed.Order); err != nil {
		return appErrors.MalformedResponseError(fallback).WithError(err)
	}

	if placed.GatewayOrder != nil {
		if err := c.check(placed.GatewayOrder); err != nil {
			return appErrors.MalformedResponseError(fallback).WithError(err)
		}
	}

	return nil
}
