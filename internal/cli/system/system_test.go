package system

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/thankful/internal/api"
	"github.com/julianstephens/thankful/internal/cli"
	"github.com/julianstephens/thankful/internal/journal"
	"github.com/julianstephens/thankful/internal/session"
	"github.com/julianstephens/thankful/internal/storage/sqlite"
)

type recordingSender struct {
	sent []string
}

func (r *recordingSender) Notify(_ context.Context, title, body string) error {
	r.sent = append(r.sent, title+" "+body)
	return nil
}

type testEnv struct {
	ctx    *cli.Context
	out    *bytes.Buffer
	store  *sqlite.Store
	dbPath string
	sender *recordingSender
}

// newTestEnv wires a command context over an uninitialized sqlite file and
// a backend that answers 404 to everything.
func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "thankful.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() { _ = store.Close() })

	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	client, err := api.New(srv.URL, api.WithRateLimit(0, 0))
	if err != nil {
		t.Fatalf("api.New() error = %v", err)
	}

	var out bytes.Buffer
	sender := &recordingSender{}
	ctx := &cli.Context{
		Store:    store,
		API:      client,
		Session:  session.New(),
		Journal:  journal.New(client, store, journal.WithClock(func() time.Time { return now })),
		Notifier: sender,
		Out:      &out,
	}
	return &testEnv{ctx: ctx, out: &out, store: store, dbPath: dbPath, sender: sender}
}
