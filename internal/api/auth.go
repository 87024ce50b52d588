package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/julianstephens/thankful/internal/models"
)

type tokenResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (string, error) {
	return c.authenticate(ctx, "/auth/login", creds)
}

// Signup creates an account and returns its bearer token.
func (c *Client) Signup(ctx context.Context, reg models.Registration) (string, error) {
	return c.authenticate(ctx, "/auth/signup", reg)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (string, error) {
	var resp tokenResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: path, body: body}, &resp); err != nil {
		return "", fmt.Errorf("authenticating: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("authenticating: %w", ErrNoData)
	}
	return resp.Token, nil
}
