package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aaravmahajanofficial/storefront/internal/models"
)

func (c *Client) GetCart(ctx context.Context) (*models.Cart, error) {
	return c.cart(ctx, call{method: http.MethodGet, path: "/cart", fallback: "Failed to fetch cart"})
}

func (c *Client) AddToCart(ctx context.Context, req *models.AddToCartRequest) (*models.Cart, error) {
	return c.cart(ctx, call{method: http.MethodPost, path: "/cart", body: req, fallback: "Failed to add item to cart"})
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID string, req *models.UpdateCartItemRequest) (*models.Cart, error) {
	return c.cart(ctx, call{method: http.MethodPut, path: "/cart/" + url.PathEscape(itemID), body: req, fallback: "Failed to update cart"})
}

func (c *Client) RemoveFromCart(ctx context.Context, itemID string) (*models.Cart, error) {
	return c.cart(ctx, call{method: http.MethodDelete, path: "/cart/" + url.PathEscape(itemID), fallback: "Failed to remove item from cart"})
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/cart", fallback: "Failed to clear cart"})
}

// cart recomputes derived totals locally; backend figures are not trusted.
func (c *Client) cart(ctx context.Context, in call) (*models.Cart, error) {
	var out models.Cart

	in.out = &out
	if err := c.do(ctx, in); err != nil {
		return nil, err
	}

	out.Recalculate()

	return &out, nil
}
