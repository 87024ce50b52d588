package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetwork wraps transport failures (DNS, refused, timeouts).
	ErrNetwork = errors.New("network error")
	// ErrRateLimited is returned for HTTP 429. Callers warn and do not retry.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrUnauthorized is returned for HTTP 401 and when no token is available.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is returned for HTTP 404.
	ErrNotFound = errors.New("not found")
	// ErrMalformedResponse is returned when a body cannot be decoded.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrNoData is returned when a response decodes but carries nothing usable.
	ErrNoData = errors.New("no data")
)

// User-facing messages.
const (
	MsgRateLimited   = "Rate limit exceeded. Please try again later."
	MsgNetwork       = "Could not connect to server."
	MsgUnauthorized  = "Your session has expired. Please log in again."
	MsgNotFound      = "That entry could not be found."
	MsgMalformed     = "The server sent an unexpected response."
	MsgNoData        = "No data available."
	MsgGenericServer = "Something went wrong. Please try again."
)

// Form fields a backend error can be attributed to.
const (
	FieldEntry1         = "entry1"
	FieldEntry2         = "entry2"
	FieldEntry3         = "entry3"
	FieldPromptResponse = "promptResponse"
	FieldEmail          = "email"
	FieldUsername       = "username"
	FieldPassword       = "password"
	// FieldSubmission is used when the error code matches no known field.
	FieldSubmission = "submission"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Code    string
	Message string
	Method  string
	Path    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s %s: %d %s (%s)", e.Method, e.Path, e.Status, msg, e.Code)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, msg)
}

// Unwrap maps well-known statuses onto sentinel errors.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// UserMessage returns the text to show for this response.
func (e *APIError) UserMessage() string {
	return UserMessage(e)
}

// clientError wraps a non-HTTP failure so it can present a user message.
type clientError struct {
	kind error
	err  error
}

func (e *clientError) Error() string       { return fmt.Sprintf("%v: %v", e.kind, e.err) }
func (e *clientError) Unwrap() []error     { return []error{e.kind, e.err} }
func (e *clientError) UserMessage() string { return UserMessage(e) }

func wrapKind(kind, err error) error {
	return &clientError{kind: kind, err: err}
}

// UserMessage converts any client error into static user-facing text.
func UserMessage(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRateLimited):
		return MsgRateLimited
	case errors.Is(err, ErrUnauthorized):
		return MsgUnauthorized
	case errors.Is(err, ErrNotFound):
		return MsgNotFound
	case errors.Is(err, ErrNetwork), errors.Is(err, context.DeadlineExceeded):
		return MsgNetwork
	case errors.Is(err, ErrMalformedResponse):
		return MsgMalformed
	case errors.Is(err, ErrNoData):
		return MsgNoData
	case errors.As(err, &apiErr) && apiErr.Message != "" && apiErr.Status < 500:
		return apiErr.Message
	default:
		return MsgGenericServer
	}
}

// FieldFor attributes err to one of the given form fields using the
// backend's errorCode. Codes that match none of them map to FieldSubmission.
func FieldFor(err error, fields ...string) (string, string, bool) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return "", "", false
	}
	msg := apiErr.Message
	if msg == "" || apiErr.Status == http.StatusTooManyRequests || apiErr.Status >= 500 {
		msg = UserMessage(apiErr)
	}
	for _, f := range fields {
		if apiErr.Code == f {
			return f, msg, true
		}
	}
	return FieldSubmission, msg, true
}

// IsRateLimited reports whether err is a 429 response.
func IsRateLimited(err error) bool { return errors.Is(err, ErrRateLimited) }
