package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/thankful/internal/api"
	"github.com/julianstephens/thankful/internal/journal"
	"github.com/julianstephens/thankful/internal/logger"
	"github.com/julianstephens/thankful/internal/models"
	"github.com/julianstephens/thankful/internal/reminder"
	"github.com/julianstephens/thankful/internal/session"
	"github.com/julianstephens/thankful/internal/storage"
)

// Context is handed to every command's Run method.
type Context struct {
	Store    storage.Provider
	API      *api.Client
	Session  *session.Manager
	Journal  *journal.Service
	Notifier reminder.Sender
	Out      io.Writer
}

// Ctx is the context commands use for backend calls.
func (c *Context) Ctx() context.Context {
	return context.Background()
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

// Writer returns the command output stream.
func (c *Context) Writer() io.Writer {
	return c.out()
}

// RequireSession fails early with a friendly message when nobody is logged in.
func (c *Context) RequireSession() error {
	if _, err := c.Session.Token(c.Ctx()); err != nil {
		return err
	}
	return nil
}

// FieldErrors renders a validation error as one line per field.
func FieldErrors(err error) string {
	var lines []string
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			lines = append(lines, fieldLine(e))
		}
	} else {
		lines = append(lines, fieldLine(err))
	}
	return strings.Join(lines, "\n")
}

func fieldLine(err error) string {
	var fe *models.FieldError
	if errors.As(err, &fe) {
		return fmt.Sprintf("  %s: %s", fe.Field, fe.Message)
	}
	return "  " + err.Error()
}

// FieldFailure attributes a backend rejection to one of the given form
// fields so it can be shown next to the right input.
func FieldFailure(err error, fields ...string) error {
	field, msg, ok := api.FieldFor(err, fields...)
	if !ok {
		return err
	}
	logger.Debug("backend rejected form", "field", field, "error", err)
	return &models.FieldError{Field: field, Message: msg}
}
