package api

import (
	"fmt"
	"net/http"
	"net/http/httputil"

	"golang.org/x/time/rate"

	"github.com/julianstephens/thankful/internal/logger"
)

// Option mutates the Client during New().
type Option func(*Client) error

// WithHTTPClient injects a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("nil http client")
		}
		c.http = hc
		return nil
	}
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) error {
		c.token = ts
		return nil
	}
}

// WithRateLimit throttles outgoing requests. A non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) error {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return nil
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		return nil
	}
}

// WithDebugLogging wraps the transport so that every request and response is
// dumped to the debug log when enabled is true.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			transport := c.http.Transport
			if transport == nil {
				transport = http.DefaultTransport
			}
			c.http.Transport = &debugTransport{base: transport}
		}
		return nil
	}
}

type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Dump without the body so tokens in headers are the only secret to scrub.
	if dump, err := httputil.DumpRequestOut(req, false); err == nil {
		logger.Debug("HTTP request", "method", req.Method, "url", req.URL.String(), "dump", redact(string(dump)))
	}
	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		logger.Error("HTTP request failed", "method", req.Method, "url", req.URL.String(), "error", err)
		return nil, err
	}
	if dump, err := httputil.DumpResponse(resp, false); err == nil {
		logger.Debug("HTTP response", "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode, "dump", string(dump))
	}
	return resp, nil
}
