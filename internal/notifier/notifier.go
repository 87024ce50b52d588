// Package notifier delivers desktop notifications through the companion
// tray app, which listens on a loopback port advertised in its lockfile.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/thankful/internal/constants"
	"github.com/julianstephens/thankful/internal/logger"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

var (
	// ErrTrayNotRunning means no live tray process owns the lockfile.
	ErrTrayNotRunning = errors.New(constants.TrayExecutablePrefix + " is not running")
	// ErrMalformedLockfile means the lockfile could not be parsed.
	ErrMalformedLockfile = errors.New("lockfile is malformed")
)

const secretHeader = "X-Thankful-Secret"

// WebhookPayload is the body posted to the tray app.
type WebhookPayload struct {
	Title      string `json:"title,omitempty"`
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

type endpoint struct {
	port   int
	pid    int
	secret string
}

func (e endpoint) url() string {
	return "http://127.0.0.1:" + strconv.Itoa(e.port)
}

// Notifier posts notifications to the tray app.
type Notifier struct {
	client     *http.Client
	retries    int
	retryDelay time.Duration
}

func New() *Notifier {
	return &Notifier{
		client:     &http.Client{Timeout: constants.DefaultRequestTimeout},
		retries:    constants.NotifyMaxRetries,
		retryDelay: constants.NotifyRetryDelay,
	}
}

// Notify shows title and text as a desktop notification.
func (n *Notifier) Notify(ctx context.Context, title, text string) error {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}

	ep, err := findAndValidateTrayProcess(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	payload := WebhookPayload{
		Title:      title,
		Text:       text,
		DurationMs: constants.NotificationDurationMs,
	}
	return n.send(ctx, ep, payload)
}

// GetTrayAppConfigDir returns the directory holding the tray app's lockfile.
// The tray app may override it via lockfile_dir in its settings.json.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err != nil {
		return trayConfigDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err != nil {
		logger.Warn("ignoring unreadable tray settings", "error", err)
		return trayConfigDir, nil
	}
	if store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
		return *store.Settings.LockfileDir, nil
	}
	return trayConfigDir, nil
}

// parseLockfile reads "port|pid|secret".
func parseLockfile(content string) (endpoint, error) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != 3 {
		return endpoint{}, ErrMalformedLockfile
	}

	if strings.TrimSpace(parts[0]) == "" {
		return endpoint{}, fmt.Errorf("%w: port is empty", ErrMalformedLockfile)
	}
	port, err := strconv.Atoi(parts[0])
	if err != nil {
		return endpoint{}, fmt.Errorf("%w: invalid port number", ErrMalformedLockfile)
	}
	if port < 1 || port > 65535 {
		return endpoint{}, fmt.Errorf("%w: port number %d is outside valid range (1-65535)", ErrMalformedLockfile, port)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return endpoint{}, fmt.Errorf("%w: invalid process ID", ErrMalformedLockfile)
	}

	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return endpoint{}, fmt.Errorf("%w: secret is empty", ErrMalformedLockfile)
	}

	return endpoint{port: port, pid: pid, secret: secret}, nil
}

func findAndValidateTrayProcess(lockfilePath string) (endpoint, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return endpoint{}, ErrTrayNotRunning
	}

	ep, err := parseLockfile(string(content))
	if err != nil {
		return endpoint{}, err
	}

	process, err := findProcessFunc(ep.pid)
	if err != nil || process == nil {
		return endpoint{}, ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return endpoint{}, fmt.Errorf("%w: process with PID %d is %s", ErrTrayNotRunning, ep.pid, process.Executable())
	}

	return ep, nil
}

// send posts the payload, retrying transport errors and 5xx responses.
func (n *Notifier) send(ctx context.Context, ep endpoint, payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt < n.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.retryDelay):
			}
		}

		retry, err := n.post(ctx, ep, body)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			return err
		}
		logger.Debug("notification attempt failed", "attempt", attempt+1, "error", err)
	}
	return fmt.Errorf("notification failed after %d attempts: %w", n.retries, lastErr)
}

func (n *Notifier) post(ctx context.Context, ep endpoint, body []byte) (retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.url(), bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(secretHeader, ep.secret)

	res, err := n.client.Do(req)
	if err != nil {
		return ctx.Err() == nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return false, nil
	}

	msg, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return res.StatusCode >= 500, fmt.Errorf("notification failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
}
