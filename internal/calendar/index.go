package calendar

import (
	"sort"
	"time"

	"github.com/julianstephens/thankful/internal/models"
	"github.com/julianstephens/thankful/internal/utils"
)

// Index maps local date keys (YYYY-MM-DD) to the entry written on that day.
// It is built once per fetch and never mutated afterwards.
type Index struct {
	loc   *time.Location
	byKey map[string]models.EntryRef
}

// BuildIndex converts every timestamp into loc exactly once and keys it by
// local calendar date. When two entries share a date the later one wins.
func BuildIndex(refs []models.EntryRef, loc *time.Location) Index {
	if loc == nil {
		loc = time.Local
	}
	byKey := make(map[string]models.EntryRef, len(refs))
	for _, ref := range refs {
		local := ref.Timestamp.In(loc)
		key := utils.DateKey(local)
		if prev, ok := byKey[key]; ok && prev.Timestamp.After(local) {
			continue
		}
		byKey[key] = models.EntryRef{ID: ref.ID, Timestamp: local}
	}
	return Index{loc: loc, byKey: byKey}
}

// EmptyIndex returns an index with no entries, used when a fetch fails.
func EmptyIndex(loc *time.Location) Index {
	return BuildIndex(nil, loc)
}

// Location returns the viewer location the index was built for.
func (ix Index) Location() *time.Location {
	if ix.loc == nil {
		return time.Local
	}
	return ix.loc
}

// Lookup returns the entry recorded for a date key.
func (ix Index) Lookup(key string) (models.EntryRef, bool) {
	ref, ok := ix.byKey[key]
	return ref, ok
}

// Has reports whether the date key has an entry.
func (ix Index) Has(key string) bool {
	_, ok := ix.byKey[key]
	return ok
}

// Len returns the number of days with an entry.
func (ix Index) Len() int {
	return len(ix.byKey)
}

// Latest returns the most recent entry in the index.
func (ix Index) Latest() (models.EntryRef, bool) {
	var latest models.EntryRef
	found := false
	for _, ref := range ix.byKey {
		if !found || ref.Timestamp.After(latest.Timestamp) {
			latest = ref
			found = true
		}
	}
	return latest, found
}

// Keys returns the indexed date keys in ascending order.
func (ix Index) Keys() []string {
	keys := make([]string, 0, len(ix.byKey))
	for k := range ix.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CountInMonth returns how many indexed days fall in m.
func (ix Index) CountInMonth(m Month) int {
	n := 0
	for _, ref := range ix.byKey {
		if m.Contains(ref.Timestamp, ix.Location()) {
			n++
		}
	}
	return n
}
