package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/thankful/internal/api"
	"github.com/julianstephens/thankful/internal/cli"
	"github.com/julianstephens/thankful/internal/logger"
	"github.com/julianstephens/thankful/internal/models"
	"github.com/julianstephens/thankful/internal/session"
)

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

type LoginCmd struct {
	Email    string `help:"Account email."`
	Password string `help:"Account password. Prompted for when omitted." env:"THANKFUL_PASSWORD"`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	if c.Email == "" || c.Password == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Email").Value(&c.Email).Validate(required("email")),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&c.Password).Validate(required("password")),
		))
		if err := form.Run(); err != nil {
			return err
		}
	}

	token, err := ctx.API.Login(ctx.Ctx(), models.Credentials{
		Email:    strings.TrimSpace(c.Email),
		Password: c.Password,
	})
	if err != nil {
		return cli.FieldFailure(err, api.FieldEmail, api.FieldPassword)
	}
	return finishAuth(ctx, token, "Logged in")
}

type SignupCmd struct {
	Email    string `help:"Account email."`
	Username string `help:"Display name."`
	Password string `help:"Account password. Prompted for when omitted." env:"THANKFUL_PASSWORD"`
}

func (c *SignupCmd) Run(ctx *cli.Context) error {
	if c.Email == "" || c.Username == "" || c.Password == "" {
		var confirm string
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Email").Value(&c.Email).Validate(required("email")),
			huh.NewInput().Title("Username").Value(&c.Username).Validate(required("username")),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&c.Password).Validate(required("password")),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&confirm).
				Validate(func(s string) error {
					if s != c.Password {
						return errors.New("passwords do not match")
					}
					return nil
				}),
		))
		if err := form.Run(); err != nil {
			return err
		}
	}

	token, err := ctx.API.Signup(ctx.Ctx(), models.Registration{
		Email:    strings.TrimSpace(c.Email),
		Username: strings.TrimSpace(c.Username),
		Password: c.Password,
	})
	if err != nil {
		return cli.FieldFailure(err, api.FieldEmail, api.FieldUsername, api.FieldPassword)
	}
	return finishAuth(ctx, token, "Account created")
}

// finishAuth stores the token and pulls the profile so the unlock hour,
// timezone and reminder match the account.
func finishAuth(ctx *cli.Context, token, verb string) error {
	if err := ctx.Session.Save(token); err != nil {
		return err
	}

	if info, err := ctx.API.UserInfo(ctx.Ctx()); err != nil {
		logger.Warn("failed to fetch user info after login", "error", err)
	} else if _, err := ctx.Journal.SyncFromUser(*info); err != nil {
		logger.Warn("failed to apply user settings", "error", err)
	}

	name := ""
	if info, err := ctx.Session.Info(); err == nil {
		name = info.Username
		if name == "" {
			name = info.Email
		}
	}
	if name != "" {
		ctx.Printf("✓ %s as %s\n", verb, name)
	} else {
		ctx.Printf("✓ %s\n", verb)
	}
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Session.Clear(); err != nil {
		return err
	}
	if err := ctx.Journal.Reminder().Cancel(); err != nil {
		logger.Warn("failed to cancel reminder on logout", "error", err)
	}
	if err := ctx.Store.ClearEntryRefs(); err != nil {
		logger.Warn("failed to clear entry cache on logout", "error", err)
	}
	ctx.Println("✓ Logged out")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	info, err := ctx.Session.Info()
	if err != nil {
		return err
	}
	if info.Opaque {
		ctx.Println("Logged in (token carries no profile details)")
		return nil
	}

	if info.Username != "" {
		ctx.Printf("Username: %s\n", info.Username)
	}
	if info.Email != "" {
		ctx.Printf("Email:    %s\n", info.Email)
	}
	if !info.ExpiresAt.IsZero() {
		if info.Expired(time.Now()) {
			ctx.Printf("Session:  expired %s\n", humanize.Time(info.ExpiresAt))
			return session.ErrExpired
		}
		ctx.Printf("Session:  expires %s\n", humanize.Time(info.ExpiresAt))
	}
	return nil
}
