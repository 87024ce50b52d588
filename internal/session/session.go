// Package session keeps the bearer token issued at login.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/julianstephens/thankful/internal/keyring"
	"github.com/julianstephens/thankful/internal/logger"
)

var (
	// ErrNoSession is returned when nobody is logged in.
	ErrNoSession = errors.New("not logged in, run 'thankful login' first")
	// ErrExpired is returned when the stored token is past its expiry.
	ErrExpired = errors.New("session expired, run 'thankful login' again")
)

// Claims are the fields read from the token. The signature is never
// verified here; the backend does that on every request.
type Claims struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Info describes the stored session.
type Info struct {
	Subject   string
	Email     string
	Username  string
	ExpiresAt time.Time
	// Opaque is true when the token is not a JWT and carries no claims.
	Opaque bool
}

// Expired reports whether the session is past its expiry at now.
func (i Info) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// Manager reads and writes the session token.
type Manager struct {
	now func() time.Time
}

// New creates a Manager backed by the OS keyring.
func New() *Manager {
	return &Manager{now: time.Now}
}

// Save stores a freshly issued token.
func (m *Manager) Save(token string) error {
	if err := keyring.SetToken(token); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	if info := inspect(token); !info.Opaque {
		logger.Info("Session saved", "subject", info.Subject, "expires", info.ExpiresAt)
	}
	return nil
}

// Clear removes the stored token. Clearing an absent session is not an error.
func (m *Manager) Clear() error {
	if err := keyring.DeleteToken(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Token returns the stored token. It matches api.TokenSource.
func (m *Manager) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	token, err := keyring.GetToken()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoSession
		}
		return "", err
	}
	if inspect(token).Expired(m.now()) {
		return "", ErrExpired
	}
	return token, nil
}

// Info returns what is known about the stored session.
func (m *Manager) Info() (Info, error) {
	token, err := keyring.GetToken()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return Info{}, ErrNoSession
		}
		return Info{}, err
	}
	return inspect(token), nil
}

// LoggedIn reports whether a usable token is stored.
func (m *Manager) LoggedIn() bool {
	_, err := m.Token(context.Background())
	return err == nil
}

func inspect(token string) Info {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Info{Opaque: true}
	}
	info := Info{
		Subject:  claims.Subject,
		Email:    claims.Email,
		Username: claims.Username,
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info
}
