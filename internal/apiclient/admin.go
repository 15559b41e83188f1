package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aaravmahajanofficial/storefront/internal/models"
)

func (c *Client) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var out models.DashboardStats
	if err := c.do(ctx, call{method: http.MethodGet, path: "/admin/dashboard/stats", out: &out, fallback: "Failed to fetch dashboard stats"}); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) AdminUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.do(ctx, call{method: http.MethodGet, path: "/admin/users", out: &out, fallback: "Failed to fetch users"}); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) AdminProducts(ctx context.Context) ([]models.Product, error) {
	return c.products(ctx, call{method: http.MethodGet, path: "/admin/products", fallback: "Failed to fetch products"})
}

func (c *Client) CreateProduct(ctx context.Context, req *models.ProductInput) (*models.Product, error) {
	var out models.Product
	if err := c.do(ctx, call{method: http.MethodPost, path: "/admin/products", body: req, out: &out, fallback: "Failed to create product"}); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, req *models.ProductInput) (*models.Product, error) {
	var out models.Product
	if err := c.do(ctx, call{method: http.MethodPut, path: "/admin/products/" + url.PathEscape(id), body: req, out: &out, fallback: "Failed to update product"}); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/admin/products/" + url.PathEscape(id), fallback: "Failed to delete product"})
}

func (c *Client) AdminOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := c.do(ctx, call{method: http.MethodGet, path: "/admin/orders", out: &out, fallback: "Failed to fetch orders"}); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	body := models.UpdateOrderStatusRequest{Status: status}

	return c.order(ctx, call{method: http.MethodPut, path: "/admin/orders/" + url.PathEscape(id) + "/status", body: body, fallback: "Failed to update order status"})
}
