// Package api is the HTTP client for the gratitude journal backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/julianstephens/thankful/internal/constants"
	"github.com/julianstephens/thankful/internal/logger"
)

// TokenSource returns the bearer token for the current session.
type TokenSource func(ctx context.Context) (string, error)

// Client talks to the journal backend.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	token   TokenSource
	limiter *rate.Limiter
}

// New constructs a Client for baseURL with optional functional arguments.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: constants.DefaultRequestTimeout},
		limiter: rate.NewLimiter(rate.Limit(constants.DefaultRequestsPerSecond), constants.DefaultRequestBurst),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	auth   bool
}

// do performs the request and decodes a 2xx JSON body into out (if non-nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return wrapKind(ErrNetwork, err)
	}

	u := *c.baseURL
	u.Path = u.Path + r.path
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		buf, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", r.method, r.path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return err
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.auth {
		if c.token == nil {
			return ErrUnauthorized
		}
		token, err := c.token(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn("Request failed", "method", r.method, "path", r.path, "request_id", reqID, "error", err)
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.Canceled) {
			return ctxErr
		}
		return wrapKind(ErrNetwork, err)
	}
	defer resp.Body.Close()

	logger.Debug("Request completed", "method", r.method, "path", r.path, "status", resp.StatusCode,
		"request_id", reqID, "elapsed", time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrapKind(ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Method: r.method, Path: r.path}
		var payload struct {
			Message   string `json:"message"`
			ErrorCode string `json:"errorCode"`
		}
		if json.Unmarshal(data, &payload) == nil {
			apiErr.Message = payload.Message
			apiErr.Code = payload.ErrorCode
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			logger.Warn("Rate limited by backend", "method", r.method, "path", r.path)
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		if out != nil {
			return ErrNoData
		}
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return wrapKind(ErrMalformedResponse, err)
	}
	return nil
}

// decodeEnvelope accepts either {"data": T} or a bare T.
func decodeEnvelope[T any](raw json.RawMessage) (T, error) {
	var zero T
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return zero, ErrNoData
	}

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
		if string(env.Data) == "null" {
			return zero, ErrNoData
		}
		raw = env.Data
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, wrapKind(ErrMalformedResponse, err)
	}
	return v, nil
}
