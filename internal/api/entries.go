package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/julianstephens/thankful/internal/models"
)

// EntryPage is one page of the paginated entry list.
type EntryPage struct {
	Entries []models.Entry
	// NextOffset is nil when there are no more pages.
	NextOffset *int
}

// EntryDays lists the id and timestamp of every entry the user has written.
func (c *Client) EntryDays(ctx context.Context) ([]models.EntryRef, error) {
	var raw json.RawMessage
	if err := c.do(ctx, request{method: http.MethodGet, path: "/entries/days", auth: true}, &raw); err != nil {
		return nil, fmt.Errorf("fetching entry days: %w", err)
	}
	refs, err := decodeEnvelope[[]models.EntryRef](raw)
	if err != nil {
		return nil, fmt.Errorf("fetching entry days: %w", err)
	}
	return refs, nil
}

// GetEntry fetches a single entry by id.
func (c *Client) GetEntry(ctx context.Context, id int64) (*models.Entry, error) {
	var raw json.RawMessage
	path := "/entries/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, request{method: http.MethodGet, path: path, auth: true}, &raw); err != nil {
		return nil, fmt.Errorf("fetching entry %d: %w", id, err)
	}
	entry, err := decodeEnvelope[models.Entry](raw)
	if err != nil {
		return nil, fmt.Errorf("fetching entry %d: %w", id, err)
	}
	return &entry, nil
}

// ListEntries fetches one page of entries, newest first.
func (c *Client) ListEntries(ctx context.Context, limit, offset int) (*EntryPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var resp struct {
		Data       []models.Entry `json:"data"`
		NextOffset *int           `json:"nextOffset"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/entries", query: q, auth: true}, &resp); err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return &EntryPage{Entries: resp.Data, NextOffset: resp.NextOffset}, nil
}

// CreateEntry submits today's entry. Field-level problems come back as an
// *APIError whose Code names the offending field.
func (c *Client) CreateEntry(ctx context.Context, e models.NewEntry) error {
	if err := c.do(ctx, request{method: http.MethodPost, path: "/entries", body: e, auth: true}, nil); err != nil {
		return fmt.Errorf("submitting entry: %w", err)
	}
	return nil
}

// DeleteEntry removes an entry by id.
func (c *Client) DeleteEntry(ctx context.Context, id int64) error {
	path := "/entries/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, request{method: http.MethodDelete, path: path, auth: true}, nil); err != nil {
		return fmt.Errorf("deleting entry %d: %w", id, err)
	}
	return nil
}

// Last31 returns the timestamps of entries written in the last 31 days.
func (c *Client) Last31(ctx context.Context) ([]time.Time, error) {
	var resp struct {
		Data []time.Time `json:"data"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/entries/last31", auth: true}, &resp); err != nil {
		return nil, fmt.Errorf("fetching recent entries: %w", err)
	}
	return resp.Data, nil
}
