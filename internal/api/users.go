package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/julianstephens/thankful/internal/models"
)

// UserInfo fetches the account profile.
func (c *Client) UserInfo(ctx context.Context) (*models.UserInfo, error) {
	var raw json.RawMessage
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users/info", auth: true}, &raw); err != nil {
		return nil, fmt.Errorf("fetching user info: %w", err)
	}
	info, err := decodeEnvelope[models.UserInfo](raw)
	if err != nil {
		return nil, fmt.Errorf("fetching user info: %w", err)
	}
	return &info, nil
}

// UpdateUserInfo applies a partial update to the account profile.
func (c *Client) UpdateUserInfo(ctx context.Context, update models.UserInfoUpdate) error {
	if err := c.do(ctx, request{method: http.MethodPatch, path: "/users/info", body: update, auth: true}, nil); err != nil {
		return fmt.Errorf("updating user info: %w", err)
	}
	return nil
}
