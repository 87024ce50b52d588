package api

import (
	"context"
	"errors"
	"net/http"
)

// Ping checks that the backend answers at all. Any HTTP response counts as
// reachable; only transport failures are returned.
func (c *Client) Ping(ctx context.Context) error {
	err := c.do(ctx, request{method: http.MethodGet, path: "/"}, nil)
	var apiErr *APIError
	if err == nil || errors.As(err, &apiErr) {
		return nil
	}
	return err
}
