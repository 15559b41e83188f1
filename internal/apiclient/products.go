package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aaravmahajanofficial/storefront/internal/models"
)

func (c *Client) ListProducts(ctx context.Context, query models.ProductQuery) (*models.ProductList, error) {
	var out models.ProductList
	if err := c.do(ctx, call{method: http.MethodGet, path: "/products", query: query.Values(), out: &out, fallback: "Failed to fetch products"}); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var out models.Product
	if err := c.do(ctx, call{method: http.MethodGet, path: "/products/" + url.PathEscape(id), out: &out, fallback: "Failed to fetch product"}); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) SearchProducts(ctx context.Context, q string) ([]models.Product, error) {
	var out []models.Product
	if err := c.do(ctx, call{method: http.MethodGet, path: "/products/search", query: url.Values{"q": {q}}, out: &out, fallback: "Failed to search products"}); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) FilterProducts(ctx context.Context, filters models.ProductFilters) ([]models.Product, error) {
	var out []models.Product
	if err := c.do(ctx, call{method: http.MethodGet, path: "/products/filter", query: filters.Values(), out: &out, fallback: "Failed to filter products"}); err != nil {
		return nil, err
	}

	return out, nil
}
