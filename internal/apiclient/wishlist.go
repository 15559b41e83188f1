package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aaravmahajanofficial/storefront/internal/models"
)

type wishlistRequest struct {
	ProductID string `json:"productId"`
}

func (c *Client) GetWishlist(ctx context.Context) ([]models.Product, error) {
	return c.products(ctx, call{method: http.MethodGet, path: "/users/wishlist", fallback: "Failed to fetch wishlist"})
}

func (c *Client) AddToWishlist(ctx context.Context, productID string) ([]models.Product, error) {
	return c.products(ctx, call{method: http.MethodPost, path: "/users/wishlist", body: wishlistRequest{ProductID: productID}, fallback: "Failed to add to wishlist"})
}

func (c *Client) RemoveFromWishlist(ctx context.Context, productID string) ([]models.Product, error) {
	return c.products(ctx, call{method: http.MethodDelete, path: "/users/wishlist/" + url.PathEscape(productID), fallback: "Failed to remove from wishlist"})
}

func (c *Client) products(ctx context.Context, in call) ([]models.Product, error) {
	var out []models.Product

	in.out = &out
	if err := c.do(ctx, in); err != nil {
		return nil, err
	}

	return out, nil
}
