package settings

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/thankful/internal/api"
	"github.com/julianstephens/thankful/internal/cli"
	"github.com/julianstephens/thankful/internal/journal"
	"github.com/julianstephens/thankful/internal/models"
	"github.com/julianstephens/thankful/internal/session"
	"github.com/julianstephens/thankful/internal/storage/sqlite"
)

type fakeServer struct {
	mu      sync.Mutex
	patches []map[string]any
	status  int
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch || r.URL.Path != "/users/info" {
		http.NotFound(w, r)
		return
	}
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	f.patches = append(f.patches, body)
	status := f.status
	f.mu.Unlock()
	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":"bad request"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{}`))
}

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer, *fakeServer) {
	t.Helper()
	gokeyring.MockInit()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	fake := &fakeServer{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	sess := session.New()
	if err := sess.Save("opaque-token"); err != nil {
		t.Fatal(err)
	}
	client, err := api.New(srv.URL, api.WithTokenSource(sess.Token), api.WithRateLimit(0, 0))
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	ctx := &cli.Context{
		Store:   store,
		API:     client,
		Session: sess,
		Journal: journal.New(client, store),
		Out:     &out,
	}
	return ctx, &out, fake
}

func TestSettingsCmd_List(t *testing.T) {
	ctx, out, _ := setupTestDB(t)

	if err := (&SettingsCmd{List: true}).Run(ctx); err != nil {
		t.Fatalf("settings list failed: %v", err)
	}
	for _, want := range []string{"Unlock Time:", "(default)", "Notifications Enabled: true"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestSettingsCmd_NoChanges(t *testing.T) {
	ctx, out, fake := setupTestDB(t)

	if err := (&SettingsCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No changes specified") {
		t.Errorf("unexpected output: %s", out.String())
	}
	if len(fake.patches) != 0 {
		t.Errorf("sent %d updates, want 0", len(fake.patches))
	}
}

func TestSettingsCmd_UpdateSendsPatch(t *testing.T) {
	ctx, _, fake := setupTestDB(t)

	hour := 7
	tz := "Asia/Tokyo"
	if err := (&SettingsCmd{UnlockHour: &hour, Timezone: &tz}).Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	want := []map[string]any{{"preferred_unlock_time": float64(7), "user_timezone": "Asia/Tokyo"}}
	if diff := cmp.Diff(want, fake.patches); diff != "" {
		t.Errorf("patch body mismatch (-want +got):\n%s", diff)
	}

	s, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if s.UnlockHour() != 7 || s.Timezone != "Asia/Tokyo" {
		t.Errorf("stored settings = hour %d tz %q", s.UnlockHour(), s.Timezone)
	}
}

func TestSettingsCmd_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		cmd  SettingsCmd
	}{
		{"hour too large", SettingsCmd{UnlockHour: ptr(24)}},
		{"hour negative", SettingsCmd{UnlockHour: ptr(-1)}},
		{"unknown timezone", SettingsCmd{Timezone: ptr("Mars/Olympus_Mons")}},
		{"negative grace", SettingsCmd{GracePeriodMin: ptr(-5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _, fake := setupTestDB(t)
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected an error, got nil")
			}
			if len(fake.patches) != 0 {
				t.Errorf("invalid change reached the server")
			}
		})
	}
}

func TestSettingsCmd_ServerRejectionKeepsLocal(t *testing.T) {
	ctx, _, fake := setupTestDB(t)
	fake.status = http.StatusBadRequest

	before, _ := ctx.Store.GetSettings()
	hour := 9
	if err := (&SettingsCmd{UnlockHour: &hour}).Run(ctx); err == nil {
		t.Fatal("expected the server rejection to surface")
	}
	after, _ := ctx.Store.GetSettings()
	if after.UnlockHour() != before.UnlockHour() {
		t.Errorf("unlock hour changed to %d despite rejection", after.UnlockHour())
	}
}

func TestSettingsCmd_LocalOnly(t *testing.T) {
	ctx, _, fake := setupTestDB(t)

	grace := 30
	server := "https://journal.example.com"
	if err := (&SettingsCmd{GracePeriodMin: &grace, APIURL: &server}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if len(fake.patches) != 0 {
		t.Errorf("local-only settings were sent to the server")
	}
	s, _ := ctx.Store.GetSettings()
	want := models.Settings{NotificationGracePeriodMin: 30, APIURL: server}
	if s.NotificationGracePeriodMin != want.NotificationGracePeriodMin || s.APIURL != want.APIURL {
		t.Errorf("stored settings = %+v", s)
	}
}

func ptr[T any](v T) *T { return &v }
