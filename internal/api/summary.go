package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// MsgNoSummary is shown when the backend has nothing to summarize.
const MsgNoSummary = "No summary available."

// MonthlySummary fetches the AI-generated summary of this month's entries.
// A 429 surfaces as ErrRateLimited and must not be retried automatically.
func (c *Client) MonthlySummary(ctx context.Context) (string, error) {
	var resp struct {
		Summary string `json:"summary"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/ai/monthlysummary", auth: true}, &resp); err != nil {
		return "", fmt.Errorf("fetching monthly summary: %w", err)
	}
	if strings.TrimSpace(resp.Summary) == "" {
		return MsgNoSummary, nil
	}
	return resp.Summary, nil
}
