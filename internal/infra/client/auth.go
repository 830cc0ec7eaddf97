package client

import (
	"context"
	"net/http"

	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/domain"
)

// tokenEnvelope is the response of both credential exchanges.
type tokenEnvelope struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges email/password for an access token. The token is NOT
// installed here; the session manager decides that.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	req := map[string]string{"email": email, "password": password}
	var env tokenEnvelope
	if err := c.doJSON(ctx, "login", http.MethodPost, "/auth/login", nil, req, &env); err != nil {
		return "", err
	}
	return env.AccessToken, nil
}

// Register creates an account (the backend also creates a default business)
// and returns the new access token.
func (c *Client) Register(ctx context.Context, fullName, email, password string) (string, error) {
	req := map[string]string{"full_name": fullName, "email": email, "password": password}
	var env tokenEnvelope
	if err := c.doJSON(ctx, "register", http.MethodPost, "/auth/register", nil, req, &env); err != nil {
		return "", err
	}
	return env.AccessToken, nil
}

// Me resolves the signed-in user.
func (c *Client) Me(ctx context.Context) (*domain.UserProfile, error) {
	var u domain.UserProfile
	if err := c.doJSON(ctx, "me", http.MethodGet, "/auth/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListBusinesses returns the businesses visible to the session, in
// server-returned order.
func (c *Client) ListBusinesses(ctx context.Context) ([]domain.Business, error) {
	var out []domain.Business
	if err := c.doJSON(ctx, "businesses.list", http.MethodGet, "/auth/businesses", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateBusiness inserts a business owned by the signed-in user.
func (c *Client) CreateBusiness(ctx context.Context, name, industry string) (*domain.Business, error) {
	req := map[string]string{"name": name}
	if industry != "" {
		req["industry"] = industry
	}
	var b domain.Business
	if err := c.doJSON(ctx, "businesses.create", http.MethodPost, "/auth/businesses", nil, req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
