package entries

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/thankful/internal/api"
	"github.com/julianstephens/thankful/internal/cli"
	"github.com/julianstephens/thankful/internal/journal"
	"github.com/julianstephens/thankful/internal/models"
	"github.com/julianstephens/thankful/internal/session"
	"github.com/julianstephens/thankful/internal/storage/sqlite"
)

// backend is an in-memory journal server.
type backend struct {
	mu      sync.Mutex
	entries []models.Entry
	created []models.NewEntry
	deleted []int64
	summary int
	nextID  int64
	clock   func() time.Time
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /entries/days", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		refs := make([]models.EntryRef, 0, len(b.entries))
		for _, e := range b.entries {
			refs = append(refs, models.EntryRef{ID: e.ID, Timestamp: e.Timestamp})
		}
		writeJSON(w, map[string]any{"data": refs})
	})
	mux.HandleFunc("GET /entries/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, e := range b.entries {
			if fmt.Sprint(e.ID) == r.PathValue("id") {
				writeJSON(w, map[string]any{"data": e})
				return
			}
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("GET /entries", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		var limit, offset int
		fmt.Sscan(r.URL.Query().Get("limit"), &limit)
		fmt.Sscan(r.URL.Query().Get("offset"), &offset)
		resp := map[string]any{"data": []models.Entry{}}
		if offset < len(b.entries) {
			end := min(offset+limit, len(b.entries))
			resp["data"] = b.entries[offset:end]
			if end < len(b.entries) {
				resp["nextOffset"] = end
			}
		}
		writeJSON(w, resp)
	})
	mux.HandleFunc("POST /entries", func(w http.ResponseWriter, r *http.Request) {
		var e models.NewEntry
		_ = json.NewDecoder(r.Body).Decode(&e)
		b.mu.Lock()
		defer b.mu.Unlock()
		b.created = append(b.created, e)
		b.nextID++
		b.entries = append([]models.Entry{{ID: b.nextID, Entry1: e.Entry1, Entry2: e.Entry2, Entry3: e.Entry3, Timestamp: b.clock()}}, b.entries...)
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("DELETE /entries/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		var id int64
		fmt.Sscan(r.PathValue("id"), &id)
		b.deleted = append(b.deleted, id)
		kept := b.entries[:0]
		for _, e := range b.entries {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		b.entries = kept
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /entries/last31", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		ts := make([]time.Time, 0, len(b.entries))
		for _, e := range b.entries {
			ts = append(ts, e.Timestamp)
		}
		writeJSON(w, map[string]any{"data": ts})
	})
	mux.HandleFunc("GET /users/info", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"data": map[string]any{"user_timezone": "UTC"}})
	})
	mux.HandleFunc("GET /ai/monthlysummary", func(w http.ResponseWriter, r *http.Request) {
		if b.summary != 0 {
			w.WriteHeader(b.summary)
			return
		}
		writeJSON(w, map[string]any{"summary": "A month of small joys."})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type testEnv struct {
	ctx     *cli.Context
	out     *bytes.Buffer
	backend *backend
}

// newTestEnv logs in against an in-memory backend with the clock pinned
// to now and the viewer in UTC.
func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()
	gokeyring.MockInit()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "thankful.db"))
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	settings, err := store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	settings.Timezone = "UTC"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}

	b := &backend{clock: func() time.Time { return now }}
	srv := httptest.NewServer(b.handler())
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
		Journal: journal.New(client, store, journal.WithClock(func() time.Time { return now })),
		Out:     &out,
	}
	return &testEnv{ctx: ctx, out: &out, backend: b}
}

func (e *testEnv) add(id int64, ts time.Time, items ...string) {
	e.backend.mu.Lock()
	defer e.backend.mu.Unlock()
	entry := models.Entry{ID: id, Timestamp: ts, UserPrompt: "What made you smile?", UserPromptResponse: "The sun."}
	if len(items) == 3 {
		entry.Entry1, entry.Entry2, entry.Entry3 = items[0], items[1], items[2]
	}
	e.backend.entries = append(e.backend.entries, entry)
	if id > e.backend.nextID {
		e.backend.nextID = id
	}
}

var evening = time.Date(2025, 6, 14, 21, 0, 0, 0, time.UTC)

func fullWrite() *WriteCmd {
	return &WriteCmd{
		Entry:    []string{"coffee", "friends", "rain"},
		Prompt:   "What made you smile?",
		Response: "A letter from home.",
	}
}

func TestWriteCmd_Submits(t *testing.T) {
	env := newTestEnv(t, evening)

	if err := fullWrite().Run(env.ctx); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if len(env.backend.created) != 1 {
		t.Fatalf("created %d entries, want 1", len(env.backend.created))
	}
	if got := env.backend.created[0]; got.Entry1 != "coffee" || got.UserPromptResponse != "A letter from home." {
		t.Errorf("submitted %+v", got)
	}
	if !strings.Contains(env.out.String(), "Entry saved") {
		t.Errorf("unexpected output: %s", env.out.String())
	}
}

func TestWriteCmd_LockedBeforeHour(t *testing.T) {
	env := newTestEnv(t, time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC))

	err := fullWrite().Run(env.ctx)
	var locked *journal.LockedError
	if !errors.As(err, &locked) {
		t.Fatalf("err = %v, want LockedError", err)
	}
	if len(env.backend.created) != 0 {
		t.Error("locked write reached the server")
	}
}

func TestWriteCmd_EarlyUnlock(t *testing.T) {
	env := newTestEnv(t, time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC))

	cmd := fullWrite()
	cmd.Early = true
	if err := cmd.Run(env.ctx); err != nil {
		t.Fatalf("early write failed: %v", err)
	}
	if len(env.backend.created) != 1 {
		t.Errorf("created %d entries, want 1", len(env.backend.created))
	}
}

func TestWriteCmd_AlreadySubmitted(t *testing.T) {
	env := newTestEnv(t, evening)
	env.add(1, evening.Add(-time.Hour), "a", "b", "c")

	err := fullWrite().Run(env.ctx)
	var locked *journal.LockedError
	if !errors.As(err, &locked) {
		t.Fatalf("err = %v, want LockedError", err)
	}
}

func TestListCmd_Pages(t *testing.T) {
	env := newTestEnv(t, evening)
	for i := int64(1); i <= 3; i++ {
		env.add(i, evening.AddDate(0, 0, -int(i)), "x", "y", "z")
	}

	if err := (&ListCmd{Limit: 2}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	out := env.out.String()
	for _, want := range []string{"2025-06-13", "2025-06-12", "--offset 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "2025-06-11") {
		t.Errorf("first page leaked the third entry:\n%s", out)
	}
}

func TestListCmd_Empty(t *testing.T) {
	env := newTestEnv(t, evening)
	if err := (&ListCmd{}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.out.String(), "No entries yet") {
		t.Errorf("unexpected output: %s", env.out.String())
	}
}

func TestShowCmd(t *testing.T) {
	env := newTestEnv(t, evening)
	env.add(7, time.Date(2025, 6, 10, 20, 30, 0, 0, time.UTC), "tea", "books", "quiet")

	if err := (&ShowCmd{Date: "2025-06-10"}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.out.String(), "1. tea") {
		t.Errorf("unexpected output: %s", env.out.String())
	}

	if err := (&ShowCmd{Date: "2025-06-11"}).Run(env.ctx); !errors.Is(err, journal.ErrNoEntry) {
		t.Errorf("missing day err = %v, want ErrNoEntry", err)
	}
	if err := (&ShowCmd{Date: "06/10/2025"}).Run(env.ctx); err == nil {
		t.Error("bad date format accepted")
	}
}

func TestDeleteCmd_Today(t *testing.T) {
	env := newTestEnv(t, evening)
	env.add(4, evening.Add(-30*time.Minute), "a", "b", "c")

	if err := (&DeleteCmd{Yes: true}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if len(env.backend.deleted) != 1 || env.backend.deleted[0] != 4 {
		t.Errorf("deleted = %v, want [4]", env.backend.deleted)
	}
}

func TestDeleteCmd_NothingToday(t *testing.T) {
	env := newTestEnv(t, evening)
	env.add(4, evening.AddDate(0, 0, -1), "a", "b", "c")

	if err := (&DeleteCmd{Yes: true}).Run(env.ctx); !errors.Is(err, journal.ErrNoEntry) {
		t.Errorf("err = %v, want ErrNoEntry", err)
	}
	if len(env.backend.deleted) != 0 {
		t.Errorf("yesterday's entry was deleted")
	}
}

func TestSummaryCmd(t *testing.T) {
	env := newTestEnv(t, evening)
	env.add(1, evening.AddDate(0, 0, -2), "a", "b", "c")

	if err := (&SummaryCmd{}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	out := env.out.String()
	if !strings.Contains(out, "June 2025: 1 entry") || !strings.Contains(out, "small joys") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestSummaryCmd_RateLimited(t *testing.T) {
	env := newTestEnv(t, evening)
	env.backend.summary = http.StatusTooManyRequests

	if err := (&SummaryCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("rate limit should not fail the command: %v", err)
	}
	if !strings.Contains(env.out.String(), api.MsgRateLimited) {
		t.Errorf("unexpected output: %s", env.out.String())
	}
}

func TestCalendarCmd(t *testing.T) {
	env := newTestEnv(t, evening)
	env.add(1, time.Date(2025, 6, 3, 20, 0, 0, 0, time.UTC), "a", "b", "c")

	if err := (&CalendarCmd{}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.out.String(), "June 2025") || !strings.Contains(env.out.String(), "1 entry in June 2025") {
		t.Errorf("unexpected output:\n%s", env.out.String())
	}
}

func TestCalendarCmd_OutOfRange(t *testing.T) {
	env := newTestEnv(t, evening)

	for _, month := range []string{"2025-01", "2025-07"} {
		if err := (&CalendarCmd{Month: month}).Run(env.ctx); err == nil {
			t.Errorf("month %s accepted", month)
		}
	}
}

func TestCalendarCmd_Offline(t *testing.T) {
	env := newTestEnv(t, evening)
	env.add(1, time.Date(2025, 6, 3, 20, 0, 0, 0, time.UTC), "a", "b", "c")
	// Prime the cache, then go offline without a session.
	if err := (&CalendarCmd{}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if err := env.ctx.Session.Clear(); err != nil {
		t.Fatal(err)
	}
	env.out.Reset()

	if err := (&CalendarCmd{Offline: true}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.out.String(), "Showing cached days") {
		t.Errorf("unexpected output:\n%s", env.out.String())
	}
}
