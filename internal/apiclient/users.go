package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aaravmahajanofficial/storefront/internal/models"
)

func (c *Client) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/users/signup", body: req, out: &out, fallback: "Registration failed"}); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/users/login", body: req, out: &out, fallback: "Login failed"}); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/users/logout", fallback: "Logout failed"})
}

func (c *Client) GetProfile(ctx context.Context) (*models.User, error) {
	return c.user(ctx, call{method: http.MethodGet, path: "/users/profile", fallback: "Failed to fetch profile"})
}

func (c *Client) UpdateProfile(ctx context.Context, req *models.UpdateProfileRequest) (*models.User, error) {
	return c.user(ctx, call{method: http.MethodPut, path: "/users/profile", body: req, fallback: "Failed to update profile"})
}

func (c *Client) AddAddress(ctx context.Context, req *models.SavedAddressInput) (*models.User, error) {
	return c.user(ctx, call{method: http.MethodPost, path: "/users/address", body: req, fallback: "Failed to add address"})
}

func (c *Client) UpdateAddress(ctx context.Context, addressID string, req *models.SavedAddressInput) (*models.User, error) {
	return c.user(ctx, call{method: http.MethodPut, path: "/users/address/" + url.PathEscape(addressID), body: req, fallback: "Failed to update address"})
}

func (c *Client) DeleteAddress(ctx context.Context, addressID string) (*models.User, error) {
	return c.user(ctx, call{method: http.MethodDelete, path: "/users/address/" + url.PathEscape(addressID), fallback: "Failed to delete address"})
}

func (c *Client) SetDefaultAddress(ctx context.Context, addressID string) (*models.User, error) {
	body := models.SetDefaultAddressRequest{AddressID: addressID}

	return c.user(ctx, call{method: http.MethodPut, path: "/users/address/default", body: body, fallback: "Failed to set default address"})
}

func (c *Client) user(ctx context.Context, in call) (*models.User, error) {
	var out models.User

	in.out = &out
	if err := c.do(ctx, in); err != nil {
		return nil, err
	}

	return &out, nil
}
