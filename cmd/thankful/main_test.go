package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/thankful/internal/cli/system"
	"github.com/julianstephens/thankful/internal/constants"
	"github.com/julianstephens/thankful/internal/storage"
	"github.com/julianstephens/thankful/internal/storage/common"
)

func openFresh(t *testing.T) storage.Provider {
	t.Helper()
	gokeyring.MockInit()
	t.Setenv(constants.EnvDBConnection, "")

	store, err := storage.Open(filepath.Join(t.TempDir(), "config", "thankful.db"))
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBuildContext_InitOnFreshInstall(t *testing.T) {
	store := openFresh(t)

	ctx, err := buildContext("init", store, wiring{})
	if err != nil {
		t.Fatalf("buildContext(init) error = %v", err)
	}
	if got := ctx.API.BaseURL(); got != constants.DefaultAPIURL {
		t.Errorf("API URL = %q, want default %q", got, constants.DefaultAPIURL)
	}
	var out bytes.Buffer
	ctx.Out = &out

	if err := (&system.InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init on a fresh path failed: %v", err)
	}
	if _, err := store.GetSettings(); err != nil {
		t.Errorf("settings after init: %v", err)
	}
	if _, ok, err := ctx.Journal.Reminder().Current(); err != nil || !ok {
		t.Errorf("reminder after init = %v, %v", ok, err)
	}
}

func TestBuildContext_CommandBeforeInit(t *testing.T) {
	store := openFresh(t)

	if _, err := buildContext("calendar", store, wiring{}); !errors.Is(err, common.ErrNotInitialized) {
		t.Fatalf("buildContext(calendar) error = %v, want ErrNotInitialized", err)
	}
}

func TestBuildContext_DoctorAndKeyringSkipLoad(t *testing.T) {
	for _, cmd := range []string{"doctor", "keyring status"} {
		t.Run(cmd, func(t *testing.T) {
			store := openFresh(t)
			ctx, err := buildContext(cmd, store, wiring{APIURL: "http://journal.test"})
			if err != nil {
				t.Fatalf("buildContext(%s) error = %v", cmd, err)
			}
			if got := ctx.API.BaseURL(); got != "http://journal.test" {
				t.Errorf("API URL = %q, want flag value", got)
			}
			// The gate falls back to defaults when settings cannot be read.
			status := ctx.Journal.Evaluate(ctx.Journal.Now(), ctx.Journal.LoadIndex(ctx.Ctx(), true))
			if got := status.OpensAt.Hour(); got != constants.DefaultUnlockHour {
				t.Errorf("unlock hour before init = %d, want %d", got, constants.DefaultUnlockHour)
			}
		})
	}
}
