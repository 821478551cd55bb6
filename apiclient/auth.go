package apiclient

import (
	"context"

	"grabbi-storefront/dtos"
)

// RegisterRequest is the customer sign-up form as sent to the backend.
type RegisterRequest struct {
	Name     string `json:"Name"`
	Email    string `json:"Email"`
	Phone    string `json:"Phone,omitempty"`
	Password string `json:"Password"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.post(ctx, "/api/auth/register", "", req, nil)
}

func (c *Client) Login(ctx context.Context, email, password string) (*dtos.AuthResponse, error) {
	var resp dtos.AuthResponse
	body := map[string]string{"Email": email, "Password": password}
	if err := c.post(ctx, "/api/auth/login", "", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) VerifyOTP(ctx context.Context, email, code string) (*dtos.AuthResponse, error) {
	var resp dtos.AuthResponse
	body := map[string]string{"Email": email, "Otp": code}
	if err := c.post(ctx, "/api/auth/verify-otp", "", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GoogleSignIn exchanges a Google credential for a backend session.
func (c *Client) GoogleSignIn(ctx context.Context, credential string) (*dtos.AuthResponse, error) {
	var resp dtos.AuthResponse
	body := map[string]string{"Credential": credential}
	if err := c.post(ctx, "/api/auth/google", "", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Profile(ctx context.Context, token string) (*dtos.Identity, error) {
	var id dtos.Identity
	if err := c.get(ctx, "/api/user/profile", token, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

// UpdateIdentity persists an identity, including its points balance.
func (c *Client) UpdateIdentity(ctx context.Context, token string, identity dtos.Identity) error {
	return c.put(ctx, "/api/user/update", token, identity, nil)
}
